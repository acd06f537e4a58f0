package coingecko

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListCoins_ParsesResponse(t *testing.T) {
	mockResp := []map[string]string{
		{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin"},
		{"id": "ethereum", "symbol": "eth", "name": "Ethereum"},
	}

	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	entries, err := client.ListCoins(context.Background())
	if err != nil {
		t.Fatalf("ListCoins failed: %v", err)
	}

	if capturedPath != "/coins/list" {
		t.Errorf("expected path /coins/list, got %s", capturedPath)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "bitcoin" || entries[0].Symbol != "btc" || entries[0].Name != "Bitcoin" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestListCoins_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.ListCoins(context.Background())
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
}

func TestSimplePrices_BatchesIDs(t *testing.T) {
	var capturedQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query().Get("ids")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"bitcoin":  {"usd": 59000},
			"ethereum": {"usd": 2400.5},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	prices, err := client.SimplePrices(context.Background(), []string{"bitcoin", "ethereum"})
	if err != nil {
		t.Fatalf("SimplePrices failed: %v", err)
	}

	if capturedQuery != "bitcoin,ethereum" {
		t.Errorf("expected ids bitcoin,ethereum, got %s", capturedQuery)
	}
	if prices["bitcoin"] != 59000 {
		t.Errorf("expected bitcoin 59000, got %.2f", prices["bitcoin"])
	}
	if prices["ethereum"] != 2400.5 {
		t.Errorf("expected ethereum 2400.5, got %.2f", prices["ethereum"])
	}
}

func TestSimplePrices_EmptyIDsSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	prices, err := client.SimplePrices(context.Background(), nil)
	if err != nil {
		t.Fatalf("SimplePrices failed: %v", err)
	}
	if called {
		t.Error("expected no HTTP request for empty id set")
	}
	if len(prices) != 0 {
		t.Errorf("expected empty price map, got %v", prices)
	}
}

func TestSimplePrices_MissingQuoteOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// delisted coins come back as empty objects
		w.Write([]byte(`{"bitcoin":{"usd":59000},"deadcoin":{}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	prices, err := client.SimplePrices(context.Background(), []string{"bitcoin", "deadcoin"})
	if err != nil {
		t.Fatalf("SimplePrices failed: %v", err)
	}

	if _, ok := prices["deadcoin"]; ok {
		t.Error("expected deadcoin to be omitted from price map")
	}
	if prices["bitcoin"] != 59000 {
		t.Errorf("expected bitcoin 59000, got %.2f", prices["bitcoin"])
	}
}
