package sheets

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"simulador/internal/budget"
	"simulador/internal/logger"
	"simulador/pkg/models"
)

// DefaultBudgetSheet is the tab budgets are exported to.
const DefaultBudgetSheet = "Orçamentos"

var budgetHeaders = []interface{}{
	"ID", "Cliente", "Emissão", "Validade", "Itens", "Valor total", "Custo total", "Lucratividade", "Status", "Exportado em",
}

// budgetColumns spans budgetHeaders.
const budgetColumns = "A:J"

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// BudgetRow represents a budget written to the sheet
type BudgetRow struct {
	ID            string
	Customer      string
	IssueDate     string
	ValidityDate  string
	Items         int
	TotalValue    float64
	TotalCost     float64
	Profitability string
	Status        string
	ExportedAt    string
}

// NewService creates a Google Sheets service for the spreadsheet at sheetURL
// authenticated with a service account key.
func NewService(ctx context.Context, sheetURL string, credentials []byte) (*Service, error) {
	const op = "NewService"

	if len(credentials) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingCredentials)
	}

	config, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	return newService(ctx, sheetURL, option.WithHTTPClient(config.Client(ctx)))
}

func newService(ctx context.Context, sheetURL string, opts ...option.ClientOption) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return matches[1], nil
}

// ExportBudgets appends one row per budget to sheetName, creating the tab and
// its header row when missing.
func (s *Service) ExportBudgets(ctx context.Context, budgets []models.Budget, sheetName string) error {
	const op = "ExportBudgets"

	if sheetName == "" {
		sheetName = DefaultBudgetSheet
	}

	s.log.Info().
		Str("sheet", sheetName).
		Int("rows", len(budgets)).
		Msg("Exporting budgets to Google Sheet")

	if err := s.ensureSheetWithHeaders(ctx, sheetName, budgetHeaders); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	var values [][]interface{}
	for _, row := range budgetRows(budgets, time.Now()) {
		values = append(values, row.values())
	}
	if len(values) == 0 {
		return nil
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName+"!"+budgetColumns,
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully exported budgets to Google Sheet")

	return nil
}

// budgetRows converts budgets to sheet rows.
func budgetRows(budgets []models.Budget, exportedAt time.Time) []BudgetRow {
	stamp := exportedAt.Format("02/01/2006 15:04:05")

	rows := make([]BudgetRow, 0, len(budgets))
	for _, b := range budgets {
		customer := b.CustomerID
		if b.Customer != nil && b.Customer.Name != "" {
			customer = b.Customer.Name
		}

		profitability := ""
		if b.Profitability != nil {
			profitability = budget.FormatProfitability(b.Profitability)
		}

		rows = append(rows, BudgetRow{
			ID:            b.ID,
			Customer:      customer,
			IssueDate:     sheetDate(b.IssueDate),
			ValidityDate:  sheetDate(b.ValidityDate),
			Items:         len(b.Items),
			TotalValue:    b.TotalValue.Reais(),
			TotalCost:     b.TotalCost.Reais(),
			Profitability: profitability,
			Status:        string(b.Status),
			ExportedAt:    stamp,
		})
	}
	return rows
}

// sheetDate renders an API date as DD/MM/YYYY, the locale of the spreadsheets.
func sheetDate(apiDate string) string {
	t, err := time.Parse(models.DateLayout, apiDate)
	if err != nil {
		return apiDate
	}
	return t.Format("02/01/2006")
}

func (r BudgetRow) values() []interface{} {
	return []interface{}{
		r.ID,            // A: ID
		r.Customer,      // B: Cliente
		r.IssueDate,     // C: Emissão
		r.ValidityDate,  // D: Validade
		r.Items,         // E: Itens
		r.TotalValue,    // F: Valor total
		r.TotalCost,     // G: Custo total
		r.Profitability, // H: Lucratividade
		r.Status,        // I: Status
		r.ExportedAt,    // J: Exportado em
	}
}

// ensureSheetWithHeaders ensures the sheet exists and has the given header row
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string, headers []interface{}) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetName}}},
			},
		}
		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", sheetName, columnName(len(headers)))
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		headerRange,
		&sheets.ValueRange{Values: [][]interface{}{headers}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to add headers: %w", op, err)
	}

	if err := s.formatHeaders(ctx, sheetID, int64(len(headers))); err != nil {
		s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
	}
	return nil
}

// formatHeaders makes the header row bold and resizes the columns
func (s *Service) formatHeaders(ctx context.Context, sheetID, columns int64) error {
	const op = "formatHeaders"

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columns,
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}
	return nil
}

// columnName returns the letter of the n-th column (1 = A). Up to 26 columns.
func columnName(n int) string {
	return string(rune('A' + n - 1))
}

// ReadRange reads values from a specified range in the spreadsheet
func (s *Service) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	const op = "ReadRange"

	s.log.Debug().
		Str("range", rangeSpec).
		Msg("Reading range from spreadsheet")

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read range %s: %w", op, rangeSpec, err)
	}

	s.log.Debug().
		Int("rows", len(resp.Values)).
		Str("range", rangeSpec).
		Msg("Successfully read range from spreadsheet")

	return resp.Values, nil
}
