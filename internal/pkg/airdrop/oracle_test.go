package airdrop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func oracleForServer(t *testing.T, handler http.HandlerFunc) *Oracle {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testAirdropConfig()
	cfg.OracleURL = srv.URL
	cfg.OracleAssetID = "solana"
	cfg.FallbackSolUsd = 180_000_000
	return NewOracle(cfg)
}

func TestOracleFetch(t *testing.T) {
	o := oracleForServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"solana":{"usd":179.25}}`))
	})

	micro, err := o.fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if want := uint64(179_250_000); micro != want {
		t.Fatalf("fetch = %d micro-USD, want %d", micro, want)
	}
}

func TestOracleFallbackOnServerError(t *testing.T) {
	o := oracleForServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	p := o.NativeAssetUsdPrice(context.Background())
	if !p.Fallback {
		t.Fatalf("expected fallback price")
	}
	if p.MicroUsd != 180_000_000 {
		t.Fatalf("fallback price = %d, want configured constant", p.MicroUsd)
	}
}

func TestOracleFallbackOnGarbage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>rate limited</html>`},
		{name: "missing asset", body: `{"bitcoin":{"usd":100000}}`},
		{name: "zero price", body: `{"solana":{"usd":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := oracleForServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			p := o.NativeAssetUsdPrice(context.Background())
			if !p.Fallback || p.MicroUsd != 180_000_000 {
				t.Fatalf("expected fallback, got %+v", p)
			}
		})
	}
}
