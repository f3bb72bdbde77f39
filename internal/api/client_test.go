package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"simulador/internal/api"
	"simulador/internal/auth"
	"simulador/internal/budget"
	"simulador/pkg/models"
	"simulador/pkg/money"
)

func loggedInSession(t *testing.T, access, refresh string) *auth.Session {
	t.Helper()
	s := auth.NewSession(auth.NewFileStore(filepath.Join(t.TempDir(), "session.json")))
	err := s.Login(context.Background(), models.Login{
		User:         models.User{Name: "Ana", Email: "ana@example.com"},
		Token:        access,
		RefreshToken: refresh,
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCalculateProfitability(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/budget/calculate-profitability" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if authz := r.Header.Get("Authorization"); authz != "Bearer access-1" {
			t.Errorf("Authorization = %q", authz)
		}
		if r.Header.Get(api.RequestIDHeader) == "" {
			t.Error("missing request id")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "profitability": 16.67})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, loggedInSession(t, "access-1", "refresh-1"))
	req := models.ProfitabilityRequest{
		Items:      []models.ProfitabilityItem{{ProductID: "p1", UnitPrice: 10000, Quantity: 2, TotalPrice: 20000}},
		TotalValue: 32400,
		OtherCosts: []models.ProfitabilityCost{{ID: "c1", Description: "Frete", Amount: 20, CostType: "fixed"}},
		Services:   []models.ProfitabilityService{},
	}

	p, err := client.CalculateProfitability(context.Background(), req)
	if err != nil {
		t.Fatalf("CalculateProfitability: %v", err)
	}
	if p != 16.67 {
		t.Fatalf("profitability = %v", p)
	}

	if got["total_value"] != 324.0 {
		t.Errorf("total_value = %v, want numeric 324", got["total_value"])
	}
	items := got["items"].([]any)
	item := items[0].(map[string]any)
	if item["unit_price"] != 100.0 || item["total_price"] != 200.0 || item["discount"] != 0.0 {
		t.Errorf("item = %v", item)
	}
	if services, ok := got["services"].([]any); !ok || len(services) != 0 {
		t.Errorf("services = %v, want empty array", got["services"])
	}
}

func TestCalculateProfitability_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
		wantMsg string
	}{
		{"success false", http.StatusOK, map[string]any{"success": false}, budget.ErrProfitabilityUnavailable, ""},
		{"missing value", http.StatusOK, map[string]any{"success": true}, api.ErrUnexpectedResponse, ""},
		{"bad request with message", http.StatusBadRequest, map[string]any{"message": "total_value must be positive"}, api.ErrInvalidInput, "total_value must be positive"},
		{"validation list", http.StatusUnprocessableEntity, map[string]any{"message": []string{"a", "b"}}, api.ErrInvalidInput, "a; b"},
		{"server error", http.StatusInternalServerError, map[string]any{"error": "boom"}, api.ErrServer, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			client := api.NewClient(srv.URL, loggedInSession(t, "a", ""))
			_, err := client.CalculateProfitability(context.Background(), models.ProfitabilityRequest{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				var apiErr *api.APIError
				if !errors.As(err, &apiErr) || apiErr.UserMessage() != tt.wantMsg {
					t.Fatalf("message = %v, want %q", err, tt.wantMsg)
				}
			}
		})
	}
}

func TestRefreshOnUnauthorized(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()

		switch r.URL.Path {
		case "/refresh-token":
			cookie, err := r.Cookie(api.RefreshCookieName)
			if err != nil || cookie.Value != "refresh-1" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "invalid refresh"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"payload": map[string]any{"accessToken": "access-2"}})
		case "/product":
			if r.Header.Get("Authorization") != "Bearer access-2" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"product": []map[string]any{
				{"id": "p1", "name": "Widget", "acquisition_cost": 100, "sale_price": "150.50"},
			}})
		}
	}))
	defer srv.Close()

	session := loggedInSession(t, "access-1", "refresh-1")
	client := api.NewClient(srv.URL, session)

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].AcquisitionCost != 10000 || products[0].SalePrice != money.Cents(15050) {
		t.Fatalf("products = %+v", products)
	}
	if session.AccessToken() != "access-2" {
		t.Fatalf("access token = %q, want refreshed token", session.AccessToken())
	}

	want := []string{"GET /product", "GET /refresh-token", "GET /product"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestRefreshFailureLogsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "expired"})
	}))
	defer srv.Close()

	session := loggedInSession(t, "access-1", "refresh-1")
	client := api.NewClient(srv.URL, session)

	_, err := client.ListBudgets(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) || !errors.Is(err, api.ErrRefreshFailed) {
		t.Fatalf("err = %v, want ErrUnauthorized wrapping ErrRefreshFailed", err)
	}
	if session.LoggedIn() {
		t.Fatal("session should be logged out after a failed refresh")
	}

	if _, err := client.ListBudgets(context.Background()); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn", err)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		var creds models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "segredo" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciais inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"login": map[string]any{
				"user":         map[string]any{"name": "Ana", "email": creds.Email},
				"token":        "access-1",
				"refreshToken": "refresh-1",
			},
		})
	}))
	defer srv.Close()

	session := auth.NewSession(auth.NewFileStore(filepath.Join(t.TempDir(), "s.json")))
	client := api.NewClient(srv.URL, session)

	_, err := client.Login(context.Background(), models.Credentials{Email: "ana@example.com", Password: "errada"})
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Credenciais inválidas" {
		t.Fatalf("err = %v", err)
	}
	if session.LoggedIn() {
		t.Fatal("failed login must not store a session")
	}

	if _, err := client.Login(context.Background(), models.Credentials{Email: "not-an-email", Password: "x"}); !errors.Is(err, api.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	login, err := client.Login(context.Background(), models.Credentials{Email: "ana@example.com", Password: "segredo"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.Name != "Ana" || session.AccessToken() != "access-1" || session.RefreshToken() != "refresh-1" {
		t.Fatalf("login = %+v", login)
	}
}

func TestCreateBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["status"] != "draft" || in["total_value"] != 324.0 || in["validity_date"] != "2026-04-09" {
			t.Errorf("body = %v", in)
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"budget":  map[string]any{"id": "b1", "customer_id": "c1", "total_value": 324, "status": "draft"},
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, loggedInSession(t, "a", "r"))
	in := models.BudgetInput{
		CustomerID:   "c1",
		IssueDate:    "2026-03-10",
		ValidityDate: "2026-04-09",
		TotalValue:   32400,
		TotalCost:    27000,
		Status:       models.BudgetStatusDraft,
		Items:        []models.BudgetItem{{ProductID: "p1", UnitPrice: 10000, Quantity: 2, TotalPrice: 20000}},
	}

	b, err := client.CreateBudget(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if b.ID != "b1" || b.TotalValue != 32400 {
		t.Fatalf("budget = %+v", b)
	}

	in.Items = nil
	if _, err := client.CreateBudget(context.Background(), in); !errors.Is(err, api.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customer/a%2Fb" && r.URL.EscapedPath() != "/customer/a%2Fb" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Cliente não encontrado"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, loggedInSession(t, "a", "r"))
	if _, err := client.GetCustomer(context.Background(), "a/b"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("register must not send a bearer token")
		}
		var reg models.Registration
		_ = json.NewDecoder(r.Body).Decode(&reg)
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": "u1", "name": reg.Name, "email": reg.Email, "document": reg.Document, "profile": "user", "status": "active",
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, auth.NewSession(auth.NewFileStore(filepath.Join(t.TempDir(), "s.json"))))

	user, err := client.Register(context.Background(), models.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "segredo", Document: "12345678900",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != "u1" || user.Document != "12345678900" {
		t.Fatalf("user = %+v", user)
	}

	_, err = client.Register(context.Background(), models.Registration{Name: "Ana", Email: "ana@example.com", Password: "123"})
	if !errors.Is(err, api.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestProductCRUD(t *testing.T) {
	var mu sync.Mutex
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{
				"product": []map[string]any{{"id": "p1", "name": "Widget", "acquisition_cost": "100.00", "sale_price": 150}},
			})
		case http.MethodPost, http.MethodPut:
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["acquisition_cost"] != 100.0 {
				t.Errorf("acquisition_cost = %v, want numeric reais", in["acquisition_cost"])
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "product": map[string]any{"id": "p1", "name": in["name"]}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, loggedInSession(t, "a", "r"))
	ctx := context.Background()

	products, err := client.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].AcquisitionCost != money.Cents(10000) || products[0].SalePrice != money.Cents(15000) {
		t.Fatalf("products = %+v", products)
	}

	in := models.ProductInput{Name: "Widget", AcquisitionCost: 10000}
	if p, err := client.CreateProduct(ctx, in); err != nil || p.ID != "p1" {
		t.Fatalf("CreateProduct = %+v, %v", p, err)
	}
	in.Name = "Widget 2"
	if p, err := client.UpdateProduct(ctx, "p1", in); err != nil || p.Name != "Widget 2" {
		t.Fatalf("UpdateProduct = %+v, %v", p, err)
	}
	if err := client.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := client.CreateProduct(ctx, models.ProductInput{}); !errors.Is(err, api.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	want := []string{"GET /product", "POST /product", "PUT /product/p1", "DELETE /product/p1"}
	mu.Lock()
	defer mu.Unlock()
	if len(requests) != len(want) {
		t.Fatalf("requests = %v, want %v", requests, want)
	}
	for i := range want {
		if requests[i] != want[i] {
			t.Errorf("request %d = %s, want %s", i, requests[i], want[i])
		}
	}
}

func TestUpdateBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/budget/b1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["status"] != "approved" || in["total_value"] != 500.0 {
			t.Errorf("body = %v", in)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"budget":  map[string]any{"id": "b1", "customer_id": "c1", "total_value": 500, "status": "approved"},
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, loggedInSession(t, "a", "r"))
	in := models.BudgetInput{
		CustomerID:   "c1",
		IssueDate:    "2026-03-10",
		ValidityDate: "2026-04-09",
		TotalValue:   50000,
		TotalCost:    27000,
		Status:       models.BudgetStatusApproved,
		Items:        []models.BudgetItem{{ProductID: "p1", UnitPrice: 10000, Quantity: 2, TotalPrice: 20000}},
	}

	b, err := client.UpdateBudget(context.Background(), "b1", in)
	if err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if b.Status != models.BudgetStatusApproved || b.TotalValue != 50000 {
		t.Fatalf("budget = %+v", b)
	}
}
