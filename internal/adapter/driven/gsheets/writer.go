// Package gsheets implements the SheetWriter port using the Google
// Sheets API.
package gsheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SheetWriter = (*Writer)(nil)

// Writer implements driven.SheetWriter. Authentication comes from the
// per-request SHEET_CONFIG credential (a service-account key), so the
// Sheets service is constructed per call.
type Writer struct {
	// overrideOpts, when set, replace the credential-derived options
	// entirely. Intended for testing against an httptest server.
	overrideOpts []option.ClientOption
}

// NewWriter creates a production Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterWithOptions creates a Writer whose Sheets service uses the
// given options instead of service-account credentials. Intended for
// testing.
func NewWriterWithOptions(opts ...option.ClientOption) *Writer {
	return &Writer{overrideOpts: opts}
}

// AppendRecord ensures the named worksheet exists -- creating it with
// the fixed header row when absent -- and appends exactly one data row.
// An append reporting anything other than one row and at least one cell
// written is an error.
func (w *Writer) AppendRecord(ctx context.Context, creds driven.SheetCredentials, rec model.CVRecord) error {
	svc, err := w.newService(ctx, creds)
	if err != nil {
		return fmt.Errorf("create sheets service: %w", err)
	}

	if err := w.ensureWorksheet(ctx, svc, creds); err != nil {
		return err
	}

	resp, err := svc.Spreadsheets.Values.
		Append(creds.SpreadsheetID, worksheetRange(creds.WorksheetName), valueRange(rec.Row())).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %q: %w", creds.WorksheetName, err)
	}

	if resp.Updates == nil {
		return fmt.Errorf("append to %q reported no update summary", creds.WorksheetName)
	}
	if resp.Updates.UpdatedRows != 1 || resp.Updates.UpdatedCells == 0 {
		return fmt.Errorf("append to %q wrote %d rows and %d cells, want exactly 1 row",
			creds.WorksheetName, resp.Updates.UpdatedRows, resp.Updates.UpdatedCells)
	}
	return nil
}

func (w *Writer) newService(ctx context.Context, creds driven.SheetCredentials) (*sheets.Service, error) {
	if w.overrideOpts != nil {
		return sheets.NewService(ctx, w.overrideOpts...)
	}
	return sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(creds.ConfigJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// ensureWorksheet creates the worksheet with the fixed header row if the
// spreadsheet does not already contain it. Creation is idempotent from
// the pipeline's point of view: a sheet that exists is left untouched.
func (w *Writer) ensureWorksheet(ctx context.Context, svc *sheets.Service, creds driven.SheetCredentials) error {
	ss, err := svc.Spreadsheets.Get(creds.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("open spreadsheet %q: %w", creds.SpreadsheetID, err)
	}

	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == creds.WorksheetName {
			return nil
		}
	}

	_, err = svc.Spreadsheets.BatchUpdate(creds.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: creds.WorksheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", creds.WorksheetName, err)
	}

	_, err = svc.Spreadsheets.Values.
		Append(creds.SpreadsheetID, worksheetRange(creds.WorksheetName), valueRange(model.CVRecordHeader)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header row to %q: %w", creds.WorksheetName, err)
	}
	return nil
}

func worksheetRange(name string) string {
	return fmt.Sprintf("'%s'!A1", name)
}

func valueRange(row []string) *sheets.ValueRange {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &sheets.ValueRange{Values: [][]any{cells}}
}
