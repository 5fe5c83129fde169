package dashboard

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order; sheets in Spanish locale write day first
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2-1-2006",
}

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// ParseDate reads a sheet date cell
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatShortDate renders dd/mm/yyyy, or the raw text when it is not a date
func FormatShortDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("02/01/2006")
}

// FormatLongDate renders "lunes, 3 de marzo de 2025", or the raw text when it is not a date
func FormatLongDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%s, %d de %s de %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}
