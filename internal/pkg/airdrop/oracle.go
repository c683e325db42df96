package airdrop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/abielcoin/abiel-api/internal/pkg/cache"
	"github.com/abielcoin/abiel-api/internal/pkg/config"
)

// Price is the native asset's USD price in micro-USD. Fallback marks a price
// that came from the configured constant because the quote source was
// unreachable; settlements computed from it are recorded low-confidence.
type Price struct {
	MicroUsd uint64
	Fallback bool
}

// PriceSource is what the settlement service needs from a price oracle.
type PriceSource interface {
	NativeAssetUsdPrice(ctx context.Context) Price
}

// Oracle fetches the native asset's USD price from an external quote source
// shaped like {"<assetId>": {"usd": 123.45}}.
type Oracle struct {
	cfg        *config.AirdropConfig
	httpClient *http.Client
}

func NewOracle(cfg *config.AirdropConfig) *Oracle {
	return &Oracle{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

const oracleCacheKey = "oracle:native_usd"

// NativeAssetUsdPrice returns the current quote, or the configured fallback
// constant when the source is down or returns garbage. Availability over
// precision: a presale payment should never bounce because a quote API had a
// bad minute.
func (o *Oracle) NativeAssetUsdPrice(ctx context.Context) Price {
	// Short-lived memo so a webhook burst doesn't hammer the quote source.
	if cached, err := cache.Get(oracleCacheKey); err == nil {
		if v, err := strconv.ParseUint(cached, 10, 64); err == nil && v > 0 {
			return Price{MicroUsd: v}
		}
	}

	micro, err := o.fetch(ctx)
	if err != nil {
		log.Printf("price oracle unavailable, using fallback %d: %v", o.cfg.FallbackSolUsd, err)
		return Price{MicroUsd: o.cfg.FallbackSolUsd, Fallback: true}
	}

	if err := cache.Set(oracleCacheKey, strconv.FormatUint(micro, 10), time.Minute); err != nil {
		log.Printf("failed to memo oracle price: %v", err)
	}
	return Price{MicroUsd: micro}
}

func (o *Oracle) fetch(ctx context.Context) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.cfg.OracleURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("quote request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var quotes map[string]struct {
		Usd float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &quotes); err != nil {
		return 0, err
	}

	q, ok := quotes[o.cfg.OracleAssetID]
	if !ok || q.Usd <= 0 {
		return 0, fmt.Errorf("quote response missing usable %q price", o.cfg.OracleAssetID)
	}
	return uint64(q.Usd * config.MicroUsd), nil
}
