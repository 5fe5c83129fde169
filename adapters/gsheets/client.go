// Package gsheets downloads published Google Sheets tabs as CSV.
package gsheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pspicdash/domain/sheet"
	"pspicdash/internal"
	"pspicdash/internal/errors"
)

var logger = internal.DefaultLogger.Component("Sheets")

// maxBodyBytes bounds a single sheet download
const maxBodyBytes = 32 << 20

// Client fetches CSV exports of published spreadsheets
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (normally https://docs.google.com)
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads and parses one sheet tab
func (c *Client) Fetch(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
	start := time.Now()
	url := ref.URL(c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.SheetFetch("No se pudo preparar la solicitud", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.SheetFetch(fmt.Sprintf("No se pudo cargar la hoja %s", ref.Key), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.SheetFetch(fmt.Sprintf("No se pudo leer la hoja %s", ref.Key), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.SheetFetch(fmt.Sprintf("Error %d: No se pudo cargar la hoja %s", resp.StatusCode, ref.Key), nil)
	}

	table, err := Parse(ref.Key, body)
	if err != nil {
		return nil, err
	}

	logger.Debug("%s fetched in %.2fms (%d columns, %d rows)",
		ref.Key, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), table.Len())
	return table, nil
}

// Parse reads CSV text with a header row. Sheets that are not published
// answer with an HTML login page, which is reported as a parse failure.
func Parse(key string, body []byte) (*sheet.Table, error) {
	trimmed := bytes.TrimSpace(body)
	if looksLikeHTML(trimmed) {
		return nil, errors.SheetParse(fmt.Sprintf("La hoja %s no devolvió CSV: %s", key, snippet(trimmed)), nil)
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.SheetParse(fmt.Sprintf("No se pudo interpretar la hoja %s", key), err)
	}
	return sheet.FromRecords(key, records), nil
}

func looksLikeHTML(body []byte) bool {
	lower := bytes.ToLower(body[:min(len(body), 64)])
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}

func snippet(body []byte) string {
	const n = 80
	s := strings.Join(strings.Fields(string(body)), " ")
	if len([]rune(s)) > n {
		s = string([]rune(s)[:n]) + "..."
	}
	return s
}
