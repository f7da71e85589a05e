package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// spreadsheetURLPattern extracts the spreadsheet ID from a Google Sheets
// link in any of its shapes (edit, view, share).
var spreadsheetURLPattern = regexp.MustCompile(`^/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SheetRef identifies a single tab of a Google spreadsheet.
type SheetRef struct {
	SpreadsheetID string
	GID           string
}

// ParseSheetURL validates a Google Sheets link and extracts the
// spreadsheet ID and tab gid. The gid defaults to "0" (the first tab)
// when the link does not carry one.
func ParseSheetURL(raw string) (SheetRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return SheetRef{}, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host != "docs.google.com" {
		return SheetRef{}, fmt.Errorf("not a Google Sheets URL")
	}

	m := spreadsheetURLPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return SheetRef{}, fmt.Errorf("not a Google Sheets URL")
	}

	ref := SheetRef{SpreadsheetID: m[1], GID: "0"}

	// The tab gid lives in the fragment on edit links ("#gid=123") and
	// in the query string on export links ("?gid=123").
	if gid := sheetGID(u); gid != "" {
		ref.GID = gid
	}

	return ref, nil
}

func sheetGID(u *url.URL) string {
	if v := u.Query().Get("gid"); v != "" {
		return v
	}
	frag, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return ""
	}
	return frag.Get("gid")
}

// ExportURL returns the CSV export endpoint for the referenced tab.
func (r SheetRef) ExportURL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s",
		r.SpreadsheetID, url.QueryEscape(r.GID))
}

// SheetFetcher downloads published Google Sheets as CSV.
type SheetFetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
	maxRows    int
}

// NewSheetFetcher creates a fetcher with the given per-request timeout
// and row limit.
func NewSheetFetcher(logger *slog.Logger, timeout time.Duration, maxRows int) *SheetFetcher {
	return &SheetFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		maxRows: maxRows,
	}
}

// Fetch downloads the referenced sheet tab and parses it into rows.
// The sheet must be link-visible; private sheets come back as a login
// redirect which surfaces as a non-CSV response.
func (f *SheetFetcher) Fetch(ctx context.Context, ref SheetRef) ([]Row, error) {
	exportURL := ref.ExportURL()

	f.logger.Debug("fetching sheet",
		"spreadsheet_id", ref.SpreadsheetID,
		"gid", ref.GID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	rows, err := f.parseResponse(resp)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("sheet fetched",
		"spreadsheet_id", ref.SpreadsheetID,
		"rows", len(rows),
	)

	return rows, nil
}

func (f *SheetFetcher) parseResponse(resp *http.Response) ([]Row, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet fetch failed: status %d (is the sheet shared with link access?)", resp.StatusCode)
	}

	// Private sheets redirect to the Google login page, which returns
	// 200 with an HTML body. Catch that before handing it to the parser.
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return nil, fmt.Errorf("sheet is not accessible: it must be shared with link access")
	}

	rows, err := ParseCSV(io.LimitReader(resp.Body, 10<<20), f.maxRows)
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	return rows, nil
}
