package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"simulador/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"edit url", "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", "1AbC-d_9", false},
		{"bare url", "https://docs.google.com/spreadsheets/d/xyz", "xyz", false},
		{"not a sheet", "https://example.com/doc/1", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("error = %v, want ErrInvalidURL", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("extractSpreadsheetID() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestNewServiceRequiresCredentials(t *testing.T) {
	_, err := NewService(context.Background(), "https://docs.google.com/spreadsheets/d/x", nil)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestBudgetRows(t *testing.T) {
	profitability := 16.666
	budgets := []models.Budget{
		{
			ID:            "b1",
			CustomerID:    "c1",
			Customer:      &models.Customer{ID: "c1", Name: "ACME"},
			IssueDate:     "2026-03-10",
			ValidityDate:  "2026-04-09",
			TotalValue:    32400,
			TotalCost:     27000,
			Profitability: &profitability,
			Status:        models.BudgetStatusPending,
			Items:         []models.BudgetItem{{ProductID: "p1", Quantity: 2}},
		},
		{ID: "b2", CustomerID: "c2", IssueDate: "10/03/2026", Status: models.BudgetStatusDraft},
	}

	rows := budgetRows(budgets, time.Date(2026, 3, 10, 14, 5, 0, 0, time.UTC))
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}

	want := BudgetRow{
		ID:            "b1",
		Customer:      "ACME",
		IssueDate:     "10/03/2026",
		ValidityDate:  "09/04/2026",
		Items:         1,
		TotalValue:    324,
		TotalCost:     270,
		Profitability: "16.67%",
		Status:        "pending",
		ExportedAt:    "10/03/2026 14:05:00",
	}
	if rows[0] != want {
		t.Errorf("row = %+v\nwant %+v", rows[0], want)
	}

	// Unknown customer name and unparsable dates pass through.
	if rows[1].Customer != "c2" || rows[1].IssueDate != "10/03/2026" || rows[1].Profitability != "" {
		t.Errorf("row = %+v", rows[1])
	}
	if got := len(rows[0].values()); got != len(budgetHeaders) {
		t.Errorf("values() has %d columns, headers %d", got, len(budgetHeaders))
	}
}

func TestParseProductRow(t *testing.T) {
	tests := []struct {
		name   string
		row    []interface{}
		want   models.ProductInput
		wantOK bool
	}{
		{
			name:   "formatted cells",
			row:    []interface{}{" Widget ", "W-1", "R$ 1.234,56", "2.000,00", "Azul"},
			want:   models.ProductInput{Name: "Widget", ReferenceCode: "W-1", AcquisitionCost: 123456, SalePrice: 200000, Description: "Azul"},
			wantOK: true,
		},
		{
			name:   "numeric cells",
			row:    []interface{}{"Cabo", "", 10.5, 25.0},
			want:   models.ProductInput{Name: "Cabo", AcquisitionCost: 1050, SalePrice: 2500},
			wantOK: true,
		},
		{name: "only a name", row: []interface{}{"Parafuso"}, want: models.ProductInput{Name: "Parafuso"}, wantOK: true},
		{name: "blank name", row: []interface{}{"", "X", "10"}},
		{name: "empty row", row: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseProductRow(tt.row)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseProductRow() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// fakeSheets serves the subset of the Sheets v4 API the service uses.
type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	values   map[string][][]interface{}
	appended [][]interface{}
	requests []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id")
	f.requests = append(f.requests, r.Method+" "+path)

	switch {
	case r.Method == http.MethodGet && path == "":
		resp := sheets.Spreadsheet{SpreadsheetId: "sheet-id"}
		for i, tab := range f.tabs {
			resp.Sheets = append(resp.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: tab, SheetId: int64(i)}})
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && path == ":batchUpdate":
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := sheets.BatchUpdateSpreadsheetResponse{}
		for _, rq := range req.Requests {
			reply := &sheets.Response{}
			if rq.AddSheet != nil {
				f.tabs = append(f.tabs, rq.AddSheet.Properties.Title)
				reply.AddSheet = &sheets.AddSheetResponse{Properties: &sheets.SheetProperties{Title: rq.AddSheet.Properties.Title, SheetId: 42}}
			}
			resp.Replies = append(resp.Replies, reply)
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.appended = append(f.appended, vr.Values...)
		_ = json.NewEncoder(w).Encode(sheets.AppendValuesResponse{})

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/values/"):
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.values[strings.TrimPrefix(path, "/values/")] = vr.Values
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/values/"):
		rng := strings.TrimPrefix(path, "/values/")
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Range: rng, Values: f.values[rng]})

	default:
		http.NotFound(w, r)
	}
}

func newTestService(t *testing.T, fake *fakeSheets) *Service {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := newService(context.Background(),
		"https://docs.google.com/spreadsheets/d/sheet-id/edit",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	return svc
}

func TestExportBudgets(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]interface{}{}}
	svc := newTestService(t, fake)

	budgets := []models.Budget{
		{ID: "b1", CustomerID: "c1", IssueDate: "2026-03-10", ValidityDate: "2026-04-09", TotalValue: 32400, Status: models.BudgetStatusDraft},
		{ID: "b2", CustomerID: "c2", IssueDate: "2026-03-11", ValidityDate: "2026-04-10", TotalValue: 1000, Status: models.BudgetStatusApproved},
	}
	if err := svc.ExportBudgets(context.Background(), budgets, ""); err != nil {
		t.Fatalf("ExportBudgets: %v", err)
	}

	if len(fake.tabs) != 1 || fake.tabs[0] != DefaultBudgetSheet {
		t.Errorf("tabs = %v, want %s created", fake.tabs, DefaultBudgetSheet)
	}
	header := fake.values[DefaultBudgetSheet+"!A1:J1"]
	if len(header) != 1 || len(header[0]) != len(budgetHeaders) || header[0][0] != "ID" {
		t.Errorf("header = %v", header)
	}
	if len(fake.appended) != 2 || fake.appended[0][0] != "b1" || fake.appended[1][8] != "approved" {
		t.Errorf("appended = %v", fake.appended)
	}
}

func TestExportBudgetsKeepsExistingHeader(t *testing.T) {
	fake := &fakeSheets{
		tabs:   []string{"Vendas"},
		values: map[string][][]interface{}{"Vendas!A1:J1": {{"ID"}}},
	}
	svc := newTestService(t, fake)

	if err := svc.ExportBudgets(context.Background(), []models.Budget{{ID: "b1"}}, "Vendas"); err != nil {
		t.Fatalf("ExportBudgets: %v", err)
	}
	for _, req := range fake.requests {
		if strings.HasPrefix(req, "PUT") || strings.HasSuffix(req, ":batchUpdate") {
			t.Errorf("unexpected request %s", req)
		}
	}
	if len(fake.appended) != 1 {
		t.Errorf("appended = %v", fake.appended)
	}
}

func TestReadProducts(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]interface{}{
		DefaultProductSheet + "!A:E": {
			{"Nome", "Código", "Custo", "Preço", "Descrição"},
			{"Widget", "W-1", "100,00", "150,00"},
			{"", "sem nome"},
			{"Cabo", "", 10.5, 25.0, "1m"},
		},
	}}
	svc := newTestService(t, fake)

	products, err := svc.ReadProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("ReadProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %+v", products)
	}
	if products[0].Name != "Widget" || products[0].AcquisitionCost != 10000 || products[0].SalePrice != 15000 {
		t.Errorf("products[0] = %+v", products[0])
	}
	if products[1].Name != "Cabo" || products[1].AcquisitionCost != 1050 || products[1].Description != "1m" {
		t.Errorf("products[1] = %+v", products[1])
	}
}

func TestReadProductsEmptySheet(t *testing.T) {
	svc := newTestService(t, &fakeSheets{values: map[string][][]interface{}{}})

	if _, err := svc.ReadProducts(context.Background(), "Vazio"); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("error = %v, want ErrEmptySheet", err)
	}
}
