package storage

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
)

// SheetsStore persists mentions in a single worksheet of a Google
// spreadsheet. The sheet is key-free: identity lives in the dedup index,
// the store only appends, rewrites, and patches cells.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
}

var _ ports.MentionStore = (*SheetsStore)(nil)

// NewSheetsService authenticates with a service-account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return service, nil
}

// NewSheetsStore wires a sheets service to one worksheet.
func NewSheetsStore(service *sheets.Service, spreadsheetID, worksheet string) *SheetsStore {
	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}
}

// LoadAll reads every row of the worksheet and maps columns by header
// name, tolerating reordered columns. An unreachable spreadsheet is an
// error, never an empty result.
func (s *SheetsStore) LoadAll(ctx context.Context) ([]domain.Mention, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return []domain.Mention{}, nil
	}

	columns := map[string]int{}
	for i, cell := range resp.Values[0] {
		columns[fmt.Sprint(cell)] = i
	}

	mentions := make([]domain.Mention, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return fmt.Sprint(row[i])
		}
		mentions = append(mentions, domain.Mention{
			Title:     cell("title"),
			Published: cell("published"),
			Source:    cell("source"),
			Summary:   cell("summary"),
			Link:      cell("link"),
			Tonality:  domain.Tonality(cell("tonality")),
		})
	}
	return mentions, nil
}

// Append adds rows after the existing ones, writing the header first when
// the sheet is still empty. Batch failures are retried, then degraded to
// row-by-row writes before giving up.
func (s *SheetsStore) Append(ctx context.Context, rows []domain.Mention) error {
	if len(rows) == 0 {
		return nil
	}

	existing, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.worksheet).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("check header: %w", err)
	}
	if len(existing.Values) == 0 {
		if err := s.appendValues(ctx, [][]interface{}{headerCells()}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	values := make([][]interface{}, 0, len(rows))
	for _, m := range rows {
		values = append(values, mentionCells(m))
	}

	batchErr := withRetries(ctx, func() error {
		return s.appendValues(ctx, values)
	})
	if batchErr == nil {
		return nil
	}

	// Degraded path: write what we can, one row at a time.
	unwritten := 0
	var lastErr error
	for _, row := range values {
		if err := s.appendValues(ctx, [][]interface{}{row}); err != nil {
			unwritten++
			lastErr = err
		}
	}
	if unwritten > 0 {
		return &PersistError{Unwritten: unwritten, Err: lastErr}
	}
	return nil
}

// Replace clears the worksheet and rewrites header plus all rows.
func (s *SheetsStore) Replace(ctx context.Context, rows []domain.Mention) error {
	_, err := s.service.Spreadsheets.Values.
		Clear(s.spreadsheetID, s.worksheet, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear worksheet: %w", err)
	}

	values := [][]interface{}{headerCells()}
	for _, m := range rows {
		values = append(values, mentionCells(m))
	}

	return withRetries(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.
			Update(s.spreadsheetID, s.worksheet, &sheets.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("rewrite worksheet: %w", err)
		}
		return nil
	})
}

// UpdateTonality patches the tonality cell of one data row. Row 0 is the
// first row below the header.
func (s *SheetsStore) UpdateTonality(ctx context.Context, row int, tone domain.Tonality) error {
	if row < 0 {
		return fmt.Errorf("row %d out of range", row)
	}
	cell := fmt.Sprintf("%s!F%d", s.worksheet, row+2)
	vr := &sheets.ValueRange{Values: [][]interface{}{{string(tone)}}}

	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, cell, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update tonality: %w", err)
	}
	return nil
}

func (s *SheetsStore) appendValues(ctx context.Context, values [][]interface{}) error {
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.worksheet, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

func headerCells() []interface{} {
	header := domain.Header()
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func mentionCells(m domain.Mention) []interface{} {
	row := m.Row()
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
