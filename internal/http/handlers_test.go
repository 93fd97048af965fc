package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/peter4652k/debttracker/internal/ledger"
	"github.com/peter4652k/debttracker/internal/store/memory"
)

func newTestServer() *Server {
	return NewServer(":0", ledger.New(memory.New(), nil))
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAddCustomerEndpoint(t *testing.T) {
	srv := newTestServer()
	rec := doJSON(t, srv, http.MethodPost, "/api/customers",
		`{"name":"alice","amount_owed":"1000","payment_now":"200"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var got struct {
		Name         string `json:"name"`
		BalanceToday string `json:"balance_as_of_today"`
		Status       string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Alice" || got.BalanceToday != "800" {
		t.Fatalf("unexpected response: %+v", got)
	}

	// Duplicate create maps to 409.
	rec = doJSON(t, srv, http.MethodPost, "/api/customers",
		`{"name":"ALICE ","amount_owed":"50","payment_now":"0"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}

	// Empty name maps to 400.
	rec = doJSON(t, srv, http.MethodPost, "/api/customers",
		`{"name":"  ","amount_owed":"50","payment_now":"0"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name status = %d", rec.Code)
	}
}

func TestApplyPaymentEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(t, srv, http.MethodPost, "/api/customers",
		`{"name":"alice","amount_owed":"1000","payment_now":"200"}`)

	rec := doJSON(t, srv, http.MethodPost, "/api/customers/alice/payments",
		`{"payment_now":"300"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got struct {
		BalancePaid  string `json:"balance_paid"`
		BalanceToday string `json:"balance_as_of_today"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BalancePaid != "500" || got.BalanceToday != "500" {
		t.Fatalf("unexpected response: %+v", got)
	}

	// Manual override wins over the computed balance.
	rec = doJSON(t, srv, http.MethodPost, "/api/customers/alice/payments",
		`{"payment_now":"0","manual_balance":"999"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BalanceToday != "999" {
		t.Fatalf("override should win, got %+v", got)
	}

	// Unknown customer maps to 404.
	rec = doJSON(t, srv, http.MethodPost, "/api/customers/nobody/payments",
		`{"payment_now":"10"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown customer status = %d", rec.Code)
	}
}

func TestReconcileEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(t, srv, http.MethodPost, "/api/customers",
		`{"name":"alice","amount_owed":"1000","payment_now":"200"}`)

	rec := doJSON(t, srv, http.MethodPut, "/api/customers",
		`{"customers":[{"name":"Alice","amount_owed":"1000","balance_paid":"200","balance_as_of_today":"-7"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got struct {
		Customers []struct {
			BalanceToday string `json:"balance_as_of_today"`
			Status       string `json:"status"`
		} `json:"customers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Customers[0].BalanceToday != "0" || got.Customers[0].Status != "Cleared ✅" {
		t.Fatalf("reconcile should clip and clear: %+v", got.Customers[0])
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(t, srv, http.MethodPost, "/api/customers",
		`{"name":"alice","amount_owed":"1000","payment_now":"200"}`)

	rec := doJSON(t, srv, http.MethodGet, "/api/customers/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "DATE,CUSTOMER NAME") || !strings.Contains(body, "Alice") {
		t.Fatalf("unexpected export body: %q", body)
	}
}
