package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/mock/gomock"

	"simulador/internal/api"
	"simulador/internal/auth"
	"simulador/internal/budget"
	"simulador/pkg/models"
	mock_services "simulador/pkg/services/mocks"
)

func init() {
	color.NoColor = true
}

func executeRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestMoneyCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"money", "format", "1234,5"}, "R$ 1.234,50\n"},
		{[]string{"money", "format", "1234.5"}, "R$ 12.345,00\n"},
		{[]string{"money", "parse", "R$ 1.234,56"}, "1234.56\n"},
		{[]string{"money", "parse", "abc"}, "0.00\n"},
		{[]string{"money", "mask", "123456"}, "R$ 1.234,56\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := executeRoot(t, tt.args...); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBudgetSimulateOffline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	draft := `{
		"items": [{"product_id": "p1", "product_name": "Widget", "unit_price": 100, "quantity": 2}],
		"other_costs": [{"description": "Frete", "amount": 20, "cost_type": "fixed"}],
		"services": [{"id": "s1", "name": "Instalação", "cost": 50}]
	}`
	if err := os.WriteFile(path, []byte(draft), 0644); err != nil {
		t.Fatal(err)
	}

	out := executeRoot(t, "budget", "simulate", "--file", path, "--offline", "--json")

	var snap map[string]any
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if snap["total_cost"] != 270.0 || snap["suggested_price"] != 324.0 || snap["total_value"] != 324.0 {
		t.Errorf("snapshot = %v", snap)
	}
	if snap["profitability"] != nil || snap["band"] != "none" {
		t.Errorf("offline simulation must not report profitability: %v", snap)
	}
}

func newOutputCmd() (*cobra.Command, *bytes.Buffer) {
	c := &cobra.Command{Use: "test"}
	c.Flags().Bool("json", false, "")
	c.Flags().StringP("output", "o", "", "")
	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetErr(io.Discard)
	return c, &buf
}

func TestWriteOutput(t *testing.T) {
	value := map[string]int{"total": 1}
	render := func(w io.Writer) error {
		fmt.Fprintln(w, "A\tB")
		fmt.Fprintln(w, "long value\tx")
		return nil
	}

	t.Run("table", func(t *testing.T) {
		c, buf := newOutputCmd()
		if err := writeOutput(c, value, render, zerolog.Nop()); err != nil {
			t.Fatal(err)
		}
		want := "A           B\nlong value  x\n"
		if buf.String() != want {
			t.Errorf("output = %q, want %q", buf.String(), want)
		}
	})

	t.Run("json flag", func(t *testing.T) {
		c, buf := newOutputCmd()
		_ = c.Flags().Set("json", "true")
		if err := writeOutput(c, value, render, zerolog.Nop()); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "{\n  \"total\": 1\n}\n" {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("output file", func(t *testing.T) {
		c, buf := newOutputCmd()
		path := filepath.Join(t.TempDir(), "out.json")
		_ = c.Flags().Set("output", path)
		if err := writeOutput(c, value, render, zerolog.Nop()); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != 0 {
			t.Errorf("stdout = %q, want nothing", buf.String())
		}
		data, err := os.ReadFile(path)
		if err != nil || !strings.Contains(string(data), `"total": 1`) {
			t.Errorf("file = %q, err = %v", data, err)
		}
	})
}

func TestHandleAPIError(t *testing.T) {
	validationErr := budget.NewValidationError("AddItem", "quantity", budget.ErrInvalidQuantity)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", fmt.Errorf("ListBudgets: %w", context.DeadlineExceeded), "timed out"},
		{"not logged in", fmt.Errorf("ListBudgets: %w", auth.ErrNotLoggedIn), "simulador login"},
		{"refresh failed", &api.APIError{StatusCode: 401, Err: fmt.Errorf("%w: %w", api.ErrUnauthorized, api.ErrRefreshFailed)}, "session expired"},
		{"wrong password", &api.APIError{StatusCode: 401, Message: "Credenciais inválidas", Err: api.ErrUnauthorized}, "Credenciais inválidas"},
		{"not found", &api.APIError{StatusCode: 404, Message: "Cliente não encontrado", Err: api.ErrNotFound}, "not found: Cliente não encontrado"},
		{"validation", validationErr, validationErr.Title},
		{"unavailable", fmt.Errorf("CalculateProfitability: %w", budget.ErrProfitabilityUnavailable), "could not calculate"},
		{"other", errors.New("boom"), "request failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleAPIError(tt.err, zerolog.Nop())
			if !strings.Contains(got.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTerminalNotify(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(&buf)

	term.Notify(budget.Notification{Level: budget.LevelError, Title: "Falha no cálculo", Description: "total_value inválido"})
	term.Notify(budget.Notification{Level: budget.LevelSuccess, Title: "Orçamento criado com sucesso"})

	want := "[Falha no cálculo] total_value inválido\n[Orçamento criado com sucesso]\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestShell(t *testing.T) {
	ctrl := gomock.NewController(t)
	calc := mock_services.NewMockProfitabilityCalculator(ctrl)
	catalog := mock_services.NewMockCatalog(ctrl)
	creator := mock_services.NewMockBudgetCreator(ctrl)

	catalog.EXPECT().
		GetProduct(gomock.Any(), "p1").
		Return(&models.Product{ID: "p1", Name: "Widget", AcquisitionCost: 10000}, nil)
	catalog.EXPECT().
		GetService(gomock.Any(), "s1").
		Return(&models.Service{ID: "s1", Name: "Instalação", Cost: 5000}, nil).
		Times(2)
	calc.EXPECT().
		CalculateProfitability(gomock.Any(), gomock.Any()).
		Return(16.67, nil)
	creator.EXPECT().
		CreateBudget(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in models.BudgetInput) (*models.Budget, error) {
			if in.CustomerID != "c1" || in.TotalValue != 32400 || in.TotalCost != 27000 || in.Profitability != 16.67 {
				t.Errorf("input = %+v", in)
			}
			if in.Status != models.BudgetStatusPending || in.Notes != "entrega rápida" {
				t.Errorf("status = %q, notes = %q", in.Status, in.Notes)
			}
			return &models.Budget{ID: "b1", CustomerID: in.CustomerID, TotalValue: in.TotalValue}, nil
		})

	var out bytes.Buffer
	term := newTerminal(&out)
	session := budget.NewSession(calc, budget.Options{
		Debounce:        -1,
		Notifier:        term,
		OnProfitability: term.profitability,
		Now:             func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(session.Close)

	sh := &shell{session: session, catalog: catalog, creator: creator, term: term, log: zerolog.Nop()}
	script := strings.Join([]string{
		"item p1 2",
		"cost fixed 20 Frete",
		"cost fixed 0 Nada",
		"service s1",
		"service s1",
		"bogus",
		"calc",
		"show",
		"save c1 pending entrega rápida",
		"quit",
		"item never-read",
	}, "\n")

	if err := sh.run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Custo total: R$ 200,00 | Sugerido: R$ 240,00 | Valor de venda: R$ 240,00",
		"Custo total: R$ 270,00 | Sugerido: R$ 324,00 | Valor de venda: R$ 324,00",
		"[Dados incompletos]",
		"Serviço Instalação já selecionado.",
		`Erro: comando desconhecido "bogus"`,
		"Lucratividade: 16.67% (Boa) Lucratividade boa.",
		"[Orçamento criado com sucesso]",
		"Orçamento b1 (R$ 324,00).",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output is missing %q\n%s", want, got)
		}
	}

	if snap := session.Snapshot(); len(snap.Items) != 0 || snap.TotalValue != 0 {
		t.Errorf("session not reset after save: %+v", snap)
	}
}

func TestImportProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	creator := mock_services.NewMockProductCreator(ctrl)

	products := []models.ProductInput{
		{Name: "Widget", AcquisitionCost: 10000},
		{Name: "Duplicado"},
		{Name: "Cabo"},
	}

	gomock.InOrder(
		creator.EXPECT().CreateProduct(gomock.Any(), products[0]).Return(&models.Product{ID: "p1"}, nil),
		creator.EXPECT().CreateProduct(gomock.Any(), products[1]).
			Return(nil, &api.APIError{StatusCode: 400, Message: "Produto já existe", Err: api.ErrInvalidInput}),
		creator.EXPECT().CreateProduct(gomock.Any(), products[2]).Return(&models.Product{ID: "p3"}, nil),
	)

	results := importProducts(context.Background(), creator, products, zerolog.Nop())
	if len(results) != 3 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].ID != "p1" || results[2].ID != "p3" {
		t.Errorf("results = %+v", results)
	}
	if results[1].ID != "" || !strings.Contains(results[1].Error, "Produto já existe") {
		t.Errorf("failed row = %+v", results[1])
	}
}

func TestImportProductsCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	creator := mock_services.NewMockProductCreator(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := importProducts(ctx, creator, []models.ProductInput{{Name: "Widget"}}, zerolog.Nop())
	if len(results) != 1 || results[0].Error == "" {
		t.Errorf("results = %+v", results)
	}
}
