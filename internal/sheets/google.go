package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"tally/internal/core"
	"tally/internal/report"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Appender mirrors ledger writes into a Google spreadsheet. Rows are
// appended below the existing data, one row per transaction.
type Appender struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Config carries everything needed to reach the spreadsheet.
type Config struct {
	SpreadsheetID string
	SheetName     string
	// Either a path to a service account key file or the key JSON
	// itself. JSON wins when both are set.
	ServiceAccountFile string
	ServiceAccountJSON string
}

func NewAppender(ctx context.Context, cfg Config) (*Appender, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.SheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	var credentialsJSON []byte
	switch {
	case cfg.ServiceAccountJSON != "":
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case cfg.ServiceAccountFile != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		"spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SheetName)

	return &Appender{
		svc:           service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// AppendTransaction writes one transaction as a spreadsheet row:
// id, owner, date, description, type, category, amount.
func (a *Appender) AppendTransaction(ctx context.Context, ownerID int64, t core.Transaction) error {
	if a.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:G", a.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{{
		t.ID, ownerID, t.Date, t.Description, string(t.Type), t.Category, report.Amount(t.Amount),
	}}}

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %s: %w", a.sheetName, err)
	}
	return nil
}
