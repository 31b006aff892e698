// Package google adapts the backing Google Sheets document to the sheets
// ports using a service-account credential.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gagyebu/internal/core"
	ports "gagyebu/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var (
	_ ports.TableFetcher = (*Client)(nil)
	_ ports.RowAppender  = (*Client)(nil)
	_ ports.RowCounter   = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	credentialsJSON, err := CredentialsFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return New(ctx, spreadsheetID, credentialsJSON)
}

// New creates a Sheets client for a spreadsheet with explicit credentials.
func New(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (*Client, error) {
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// CredentialsFromEnv resolves service account credentials the same way for
// every Google API client in this process.
func CredentialsFromEnv(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading service account credentials", "path", serviceAccountFile)
		credentialsJSON, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentialsJSON, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// FetchTable reads a whole tab and returns its rows as records keyed by the
// header row. Header labels are trimmed; unnamed columns are ignored. Rows
// shorter than the header are padded with empty strings so every record
// carries every column.
func (c *Client) FetchTable(ctx context.Context, tab string) ([]core.RawRecord, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read tab %s: %w", tab, err)
	}
	if len(resp.Values) < 2 {
		// Header only, or nothing at all.
		return nil, nil
	}
	return recordsFromValues(resp.Values), nil
}

func recordsFromValues(values [][]any) []core.RawRecord {
	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	out := make([]core.RawRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		if isEmptyRow(row) {
			continue
		}
		rec := make(core.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func isEmptyRow(row []any) bool {
	for _, v := range row {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}

// AppendRow appends one row after the last non-empty row of the tab.
// Values go in as USER_ENTERED so the sheet applies its own formats.
func (c *Client) AppendRow(ctx context.Context, tab string, row []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tab, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", tab, err)
	}
	return nil
}

// CountRows counts the data rows of a tab, excluding the header.
func (c *Client) CountRows(ctx context.Context, tab string) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:A", tab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	n := len(resp.Values)
	if n > 0 {
		n-- // header row
	}
	return n, nil
}
