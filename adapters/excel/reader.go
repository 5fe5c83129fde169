package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pspicdash/domain/sheet"
	"pspicdash/internal"
	"pspicdash/internal/errors"

	"github.com/xuri/excelize/v2"
)

var logger = internal.DefaultLogger.Component("DataReader")

// DataReader reads a local CSV or XLSX export of a sheet
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for filePath; the extension picks the format
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the file into a table keyed by key
func (r *DataReader) ReadTable(key string) (*sheet.Table, error) {
	start := time.Now()

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SheetFetch(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
		}
		return nil, errors.SheetFetch("failed to open "+r.filePath, err)
	}

	var records [][]string
	switch r.fileType {
	case "csv":
		records, err = readCSV(data)
	default:
		records, err = readXLSX(data)
	}
	if err != nil {
		return nil, errors.SheetParse(fmt.Sprintf("failed to read %s", r.filePath), err)
	}

	table := sheet.FromRecords(key, records)
	logger.Debug("%s read in %.2fms (%d columns, %d rows)",
		r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), table.Len())
	return table, nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// readXLSX reads the first worksheet of the workbook
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// FileSource serves sheets from a directory holding <key>.csv or <key>.xlsx files
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Fetch reads the file for ref.Key, preferring CSV over XLSX
func (s *FileSource) Fetch(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SheetFetch("cancelled", err)
	}
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(s.dir, ref.Key+ext)
		if _, err := os.Stat(path); err == nil {
			return NewDataReader(path).ReadTable(ref.Key)
		}
	}
	return nil, errors.SheetFetch(fmt.Sprintf("no local file for sheet %s in %s", ref.Key, s.dir), nil)
}
