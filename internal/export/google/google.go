// Package google appends rendered statements to a Google spreadsheet so the
// committee can archive reports outside the application.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"madrasa/internal/render"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Statements").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Statements"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendStatement appends one statement to the configured sheet: a title
// block, the summary triplet, every itemized row, and the footer totals.
func (c *Client) AppendStatement(ctx context.Context, st render.Statement) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := [][]interface{}{
		{st.Header.Title, st.Header.Subtitle},
		{"Range", st.Header.RangeLabel, "Generated", st.Header.GeneratedAt},
		{"Total Income", st.Summary.TotalIncome, "Total Expense", st.Summary.TotalExpense, "Net", st.Summary.Net},
		{"Date", "Description", "Target", "Income", "Expense"},
	}
	for _, row := range st.Rows {
		values = append(values, []interface{}{row.Date, row.Label, row.Target, row.Income, row.Expense})
	}
	values = append(values,
		[]interface{}{"Grand Total", "", "", st.Footer.TotalIncome, st.Footer.TotalExpense},
		[]interface{}{}, // spacer between statements
	)

	rng := fmt.Sprintf("%s!A:E", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append statement: %w", err)
	}

	slog.InfoContext(ctx, "Statement exported to Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"rows", len(st.Rows))

	return nil
}
