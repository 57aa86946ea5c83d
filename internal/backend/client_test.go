package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(url string) *Client {
	cfg := DefaultClientConfig(url)
	cfg.RequestsPerSecond = 0 // no throttling in tests
	return NewClient(cfg)
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if body["password"] != "secret" {
			t.Errorf("password = %q, want %q", body["password"], "secret")
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{OK: true, Token: "tok-123"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	token, err := c.Login(context.Background(), "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" || c.Token() != "tok-123" {
		t.Errorf("token = %q / stored %q, want tok-123", token, c.Token())
	}
}

func TestBearerHeaderSent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]ListItem{})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok-456")
	if _, err := c.ListOrders(context.Background()); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if gotAuth != "Bearer tok-456" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-456")
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.OrderDetail(context.Background(), 7)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestPatchLineRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/api/orders/3/lines/42" {
			t.Errorf("path = %s, want /api/orders/3/lines/42", r.URL.Path)
		}
		var body map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode patch body: %v", err)
		}
		if body["qty_collected"] != 2.5 {
			t.Errorf("qty_collected = %v, want 2.5", body["qty_collected"])
		}
		_ = json.NewEncoder(w).Encode(PatchLineResult{OrderCompletedNow: true})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.PatchLine(context.Background(), 3, 42, 2.5)
	if err != nil {
		t.Fatalf("PatchLine: %v", err)
	}
	if !res.OrderCompletedNow {
		t.Error("OrderCompletedNow not decoded")
	}
}

func TestServerErrorIsPlainFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.ListOrders(context.Background())
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("500 must not map to ErrUnauthorized")
	}
}
