package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const DefaultFetchTimeout = 10 * time.Second

// Fetcher is satisfied by Source; the cache depends on it so tests can count fetches.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Table, error)
}

type Source struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewSource(httpClient *http.Client, userAgent string, timeout time.Duration) *Source {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Source{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (s *Source) Fetch(ctx context.Context, url string) (*Table, error) {
	table, err := s.fetch(ctx, url)
	if err != nil {
		return nil, &DataLoadError{URL: url, Err: err}
	}

	slog.Debug("Table fetched", "url", url, "columns", len(table.Columns), "rows", table.Len())
	return table, nil
}

func (s *Source) fetch(ctx context.Context, url string) (*Table, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return Parse(resp.Body)
}

// Parse reads UTF-8 CSV text whose first record is the header. Short rows are
// padded with empty values; rows longer than the header and documents without
// a header are rejected.
func Parse(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV document: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	table := &Table{
		Columns: header,
		Rows:    [][]string{},
	}

	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		if len(record) > len(header) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", n, len(record), len(header))
		}

		row := make([]string, len(header))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteCSV serializes the header and rows back to CSV text.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}

	return writer.Error()
}
