package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// DefaultSheetBaseURL is the host serving published spreadsheet exports.
const DefaultSheetBaseURL = "https://docs.google.com"

// maxSheetBytes bounds a single worksheet download.
const maxSheetBytes = 64 << 20

// ErrTooLarge is returned when a worksheet export exceeds the download limit.
var ErrTooLarge = errors.New("worksheet too large")

// SheetSource downloads a published worksheet as CSV.
type SheetSource struct {
	name       string
	baseURL    string
	sheetID    string
	worksheet  string
	httpClient *http.Client
	maxBytes   int64
}

// NewSheetSource creates a source for one worksheet of a shared spreadsheet.
// An empty baseURL selects DefaultSheetBaseURL.
func NewSheetSource(name, baseURL, sheetID, worksheet string, client *http.Client) *SheetSource {
	if baseURL == "" {
		baseURL = DefaultSheetBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetSource{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sheetID:    sheetID,
		worksheet:  worksheet,
		httpClient: client,
		maxBytes:   maxSheetBytes,
	}
}

func (s *SheetSource) Name() string {
	return s.name
}

// URL returns the CSV export address of the worksheet.
func (s *SheetSource) URL() string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", s.worksheet)
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", s.baseURL, url.PathEscape(s.sheetID), q.Encode())
}

// Fetch downloads and decodes the worksheet.
func (s *SheetSource) Fetch(ctx context.Context) (Grid, error) {
	target := s.URL()
	util.LogDebugf("Fetching worksheet %s from %s", s.worksheet, target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to fetch worksheet %s: %w", s.worksheet, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Grid{}, fmt.Errorf("%w: worksheet %s", ErrNotFound, s.worksheet)
	case resp.StatusCode != http.StatusOK:
		return Grid{}, fmt.Errorf("unexpected status code %d fetching worksheet %s", resp.StatusCode, s.worksheet)
	}

	// One byte past the limit tells a full download from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return Grid{}, fmt.Errorf("failed to read worksheet %s: %w", s.worksheet, err)
	}
	if int64(len(body)) > s.maxBytes {
		return Grid{}, fmt.Errorf("%w: worksheet %s exceeds %d bytes", ErrTooLarge, s.worksheet, s.maxBytes)
	}

	// Unpublished sheets redirect to a sign-in page instead of failing.
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		return Grid{}, fmt.Errorf("worksheet %s returned html, is the sheet shared publicly?", s.worksheet)
	}

	grid, err := ReadCSVBytes(body)
	if err != nil {
		return Grid{}, fmt.Errorf("worksheet %s: %w", s.worksheet, err)
	}
	util.LogDebugf("Fetched worksheet %s: %d rows (%d bytes)", s.worksheet, len(grid.Rows), len(body))
	return grid, nil
}
