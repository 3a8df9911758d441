package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tally/internal/auth"
	"tally/internal/core"
	"tally/internal/ledger/memory"
	"tally/internal/services"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	srv := NewServer(":0",
		services.NewLedgerService(store, nil),
		services.NewStatisticsService(store),
		services.NewExportService(store),
		store,
		auth.NewSessions(time.Hour),
		1000, time.Minute)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv, store
}

// signup runs the signup flow and returns a bearer token for owner 1.
func signup(t *testing.T, srv *Server, username string) string {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/signup",
		strings.NewReader(`{"username":"`+username+`","password":"hunter2"}`))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup status=%d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body.Token == "" {
		t.Fatalf("signup response missing token: %s", rr.Body.String())
	}
	return body.Token
}

func doAuthed(srv *Server, token, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestTransactionsRequireSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr = doAuthed(srv, "bogus-token", http.MethodGet, "/api/transactions", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bogus token, got %d", rr.Code)
	}
}

func TestCreateListDeleteTransaction(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")

	rr := doAuthed(srv, token, http.MethodPost, "/api/transactions",
		`{"description":"lunch","amount":12.5,"type":"expense","category":"food","date":"2024-03-02"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID      int64 `json:"id"`
		Success bool  `json:"success"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil || !created.Success || created.ID == 0 {
		t.Fatalf("create response: %s", rr.Body.String())
	}

	rr = doAuthed(srv, token, http.MethodGet, "/api/transactions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var list []core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("list decode: %v", err)
	}
	if len(list) != 1 || list[0].Description != "lunch" {
		t.Fatalf("list = %+v", list)
	}

	rr = doAuthed(srv, token, http.MethodDelete, "/api/transactions/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doAuthed(srv, token, http.MethodGet, "/api/transactions", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("list decode: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", list)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")

	tests := []struct {
		name string
		body string
	}{
		{"empty description", `{"description":"","amount":10,"type":"expense","date":"2024-03-02"}`},
		{"negative amount", `{"description":"x","amount":-1,"type":"expense","date":"2024-03-02"}`},
		{"bad type", `{"description":"x","amount":10,"type":"transfer","date":"2024-03-02"}`},
		{"empty date", `{"description":"x","amount":10,"type":"expense","date":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthed(srv, token, http.MethodPost, "/api/transactions", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), `"success":false`) {
				t.Fatalf("error body missing success flag: %s", rr.Body.String())
			}
		})
	}

	rr := doAuthed(srv, token, http.MethodPost, "/api/transactions", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON status=%d", rr.Code)
	}
}

func TestDeleteInvalidID(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")

	rr := doAuthed(srv, token, http.MethodDelete, "/api/transactions/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestDeleteMissingIDSucceeds(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")

	rr := doAuthed(srv, token, http.MethodDelete, "/api/transactions/99", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := signup(t, srv, "alice")
	bob := signup(t, srv, "bob")

	rr := doAuthed(srv, alice, http.MethodPost, "/api/transactions",
		`{"description":"lunch","amount":12.5,"type":"expense","date":"2024-03-02"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rr.Code)
	}

	rr = doAuthed(srv, bob, http.MethodGet, "/api/transactions", "")
	var list []core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("list decode: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob sees alice's transactions: %+v", list)
	}

	// Bob cannot delete alice's transaction.
	rr = doAuthed(srv, bob, http.MethodDelete, "/api/transactions/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cross-owner delete status=%d", rr.Code)
	}
	rr = doAuthed(srv, alice, http.MethodGet, "/api/transactions", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Fatalf("alice's transaction disappeared: %+v", list)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")

	for _, body := range []string{
		`{"description":"salary","amount":1000,"type":"income","date":"2024-03-01"}`,
		`{"description":"lunch","amount":50,"type":"expense","category":"food","date":"2024-03-02"}`,
		`{"description":"rent","amount":700,"type":"expense","category":"home","date":"2024-02-01"}`,
	} {
		if rr := doAuthed(srv, token, http.MethodPost, "/api/transactions", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed create status=%d body=%s", rr.Code, rr.Body.String())
		}
	}

	rr := doAuthed(srv, token, http.MethodGet, "/api/statistics/2024-03", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("statistics status=%d body=%s", rr.Code, rr.Body.String())
	}
	var result core.StatisticsResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("statistics decode: %v", err)
	}
	if result.Totals["income"] != 1000 || result.Totals["expense"] != 50 {
		t.Fatalf("totals = %v", result.Totals)
	}
	if len(result.Monthly) != 2 {
		t.Fatalf("monthly = %+v", result.Monthly)
	}
}

func TestDownloadCSV(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")

	if rr := doAuthed(srv, token, http.MethodPost, "/api/transactions",
		`{"description":"lunch","amount":50,"type":"expense","category":"food","date":"2024-03-02"}`); rr.Code != http.StatusCreated {
		t.Fatalf("seed create status=%d", rr.Code)
	}

	rr := doAuthed(srv, token, http.MethodGet, "/download/csv?month=2024-03", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("download status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions_2024-03.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rr.Body.String(), "lunch") {
		t.Fatalf("body missing transaction: %s", rr.Body.String())
	}

	rr = doAuthed(srv, token, http.MethodGet, "/download/csv?single=1", "")
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions_all.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rr.Body.String(), "Total Income:") {
		t.Fatalf("single export missing summary line: %s", rr.Body.String())
	}
}

func TestRateLimitOnMutatingMethods(t *testing.T) {
	store := memory.NewStore()
	srv := NewServer(":0",
		services.NewLedgerService(store, nil),
		services.NewStatisticsService(store),
		services.NewExportService(store),
		store,
		auth.NewSessions(time.Hour),
		2, time.Minute)
	defer srv.Shutdown(context.Background())

	var last int
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"x","password":"y"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		srv.Handler.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("third request status=%d, want 429", last)
	}

	// GET requests are never rate limited.
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET after limit status=%d", rr.Code)
	}
}
