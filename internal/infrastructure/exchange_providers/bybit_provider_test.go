package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBybitProvider_GetRate(t *testing.T) {
	var gotSymbol, gotCategory string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		gotCategory = r.URL.Query().Get("category")
		if gotSymbol == "XXXUSD" {
			w.Write([]byte(`{"retCode":10001,"retMsg":"symbol invalid"}`))
			return
		}
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"s":"EURUSD","b":[
			["1.10","5"],
			["oops","1"],
			["1.30","2"],
			["9.00","1"]
		],"a":[]}}`))
	}))
	defer srv.Close()

	p := NewBybitProvider(srv.URL, time.Second, 2)

	rate, err := p.GetRate(context.Background(), "eur", "usd")
	if err != nil {
		t.Fatalf("GetRate() error: %v", err)
	}
	if gotSymbol != "EURUSD" || gotCategory != "spot" {
		t.Errorf("query = %s/%s, want EURUSD/spot", gotSymbol, gotCategory)
	}
	if !rate.Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("rate = %s, want 1.2", rate)
	}

	if _, err := p.GetRate(context.Background(), "XXX", "USD"); err == nil {
		t.Error("GetRate(invalid symbol) error = nil, want error")
	}
}

func TestBybitProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewBybitProvider(srv.URL, time.Second, 5)
	if _, err := p.GetRate(context.Background(), "EUR", "USD"); err == nil {
		t.Error("GetRate() error = nil on 502")
	}
	if p.IsHealthy(context.Background()) {
		t.Error("IsHealthy() = true on 502")
	}
}
