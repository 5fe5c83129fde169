package sheet

import (
	"fmt"
	"net/url"
)

// URLStyle selects which Google Sheets CSV endpoint serves a sheet
type URLStyle string

const (
	// StyleExport is the /export?format=csv endpoint
	StyleExport URLStyle = "export"
	// StyleGviz is the visualization query endpoint with CSV output
	StyleGviz URLStyle = "gviz"
)

// Ref identifies one tab of a published spreadsheet
type Ref struct {
	Key           string   `yaml:"key" json:"key"`
	SpreadsheetID string   `yaml:"spreadsheet_id" json:"spreadsheet_id"`
	GID           string   `yaml:"gid" json:"gid"`
	Style         URLStyle `yaml:"style" json:"style"`
}

// URL returns the CSV download address of the tab under base (e.g. https://docs.google.com)
func (r Ref) URL(base string) string {
	id := url.PathEscape(r.SpreadsheetID)
	gid := url.QueryEscape(r.GID)
	if r.Style == StyleGviz {
		return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&gid=%s", base, id, gid)
	}
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s", base, id, gid)
}

func (r Ref) String() string {
	return fmt.Sprintf("%s(%s#%s)", r.Key, r.SpreadsheetID, r.GID)
}
