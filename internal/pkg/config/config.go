package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abielcoin/abiel-api/internal/pkg/env"
)

const (
	// LamportsPerSol is the smallest-denomination factor of the native asset.
	LamportsPerSol = 1_000_000_000
	// NativeDecimals is the native asset's decimal count (10^NativeDecimals == LamportsPerSol).
	NativeDecimals = 9
	// MicroUsd scales oracle prices so payout math stays integral.
	MicroUsd = 1_000_000
)

// RatePhase is one configured presale window with a fixed conversion rate
// (tokens per stable-equivalent unit).
type RatePhase struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Rate  uint64    `json:"rate"`
}

// AirdropConfig carries everything the reconciliation flow needs. It is built
// once at process start and passed by reference; no package-level wallet or
// rate constants anywhere else.
type AirdropConfig struct {
	// CollectionWallet receives buyer payments (SOL/USDC).
	CollectionWallet string
	// SourceWallet holds the token supply and funds destination accounts.
	SourceWallet    string
	SourceSecretKey []byte

	TokenMint      string
	TokenDecimals  int
	StableMint     string
	StableDecimals int

	Phases     []RatePhase
	LaunchAt   time.Time
	LaunchRate uint64

	RPCEndpoint      string
	OracleURL        string
	OracleAssetID    string
	FallbackSolUsd   uint64 // micro-USD per SOL when the oracle is unreachable
	WebhookAuthToken string

	RequestTimeout time.Duration
}

// ContestConfig drives the geolocation guessing contest.
type ContestConfig struct {
	TargetLat  float64
	TargetLng  float64
	TargetSalt string
}

// Config is the root configuration for the whole service.
type Config struct {
	Airdrop        AirdropConfig
	Contest        ContestConfig
	AllowedOrigins string
}

const defaultRatePhases = `[{"start":"2025-11-08T00:00:00Z","end":"2025-11-10T23:59:59Z","rate":750}]`

// Load builds the service configuration from the environment. It fails on
// malformed values rather than limping along with a half-built schedule.
func Load() (*Config, error) {
	phases, err := parseRatePhases(env.GetEnv("AIRDROP_RATE_PHASES", defaultRatePhases))
	if err != nil {
		return nil, fmt.Errorf("AIRDROP_RATE_PHASES: %w", err)
	}

	launchAt, err := time.Parse(time.RFC3339, env.GetEnv("AIRDROP_LAUNCH_AT", "2026-02-14T00:00:00Z"))
	if err != nil {
		return nil, fmt.Errorf("AIRDROP_LAUNCH_AT: %w", err)
	}

	launchRate, err := parseUint(env.GetEnv("AIRDROP_LAUNCH_RATE", "500"))
	if err != nil {
		return nil, fmt.Errorf("AIRDROP_LAUNCH_RATE: %w", err)
	}

	fallbackSolUsd, err := parseMicroUsd(env.GetEnv("AIRDROP_FALLBACK_SOL_USD", "180"))
	if err != nil {
		return nil, fmt.Errorf("AIRDROP_FALLBACK_SOL_USD: %w", err)
	}

	tokenDecimals, err := strconv.Atoi(env.GetEnv("AIRDROP_TOKEN_DECIMALS", "6"))
	if err != nil {
		return nil, fmt.Errorf("AIRDROP_TOKEN_DECIMALS: %w", err)
	}

	secretKey, err := parseSecretKey(env.GetEnv("AIRDROP_SECRET_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("AIRDROP_SECRET_KEY: %w", err)
	}

	targetLat, err := strconv.ParseFloat(env.GetEnv("TARGET_LAT", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("TARGET_LAT: %w", err)
	}
	targetLng, err := strconv.ParseFloat(env.GetEnv("TARGET_LNG", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("TARGET_LNG: %w", err)
	}

	cfg := &Config{
		Airdrop: AirdropConfig{
			CollectionWallet: env.GetEnv("AIRDROP_COLLECTION_WALLET", ""),
			SourceWallet:     env.GetEnv("AIRDROP_SOURCE_WALLET", ""),
			SourceSecretKey:  secretKey,
			TokenMint:        env.GetEnv("AIRDROP_TOKEN_MINT", ""),
			TokenDecimals:    tokenDecimals,
			StableMint:       env.GetEnv("AIRDROP_STABLE_MINT", ""),
			StableDecimals:   6,
			Phases:           phases,
			LaunchAt:         launchAt,
			LaunchRate:       launchRate,
			RPCEndpoint:      env.GetEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
			OracleURL:        env.GetEnv("PRICE_ORACLE_URL", "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"),
			OracleAssetID:    env.GetEnv("PRICE_ORACLE_ASSET_ID", "solana"),
			FallbackSolUsd:   fallbackSolUsd,
			WebhookAuthToken: env.GetEnv("WEBHOOK_AUTH_TOKEN", ""),
			RequestTimeout:   15 * time.Second,
		},
		Contest: ContestConfig{
			TargetLat:  targetLat,
			TargetLng:  targetLng,
			TargetSalt: env.GetEnv("TARGET_SALT", "change-me"),
		},
		AllowedOrigins: env.GetEnv("ALLOW_ORIGINS", "https://abielcryptocoin.com"),
	}
	return cfg, nil
}

func parseRatePhases(raw string) ([]RatePhase, error) {
	var phases []RatePhase
	if err := json.Unmarshal([]byte(raw), &phases); err != nil {
		return nil, err
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].Start.Before(phases[j].Start) })
	for i, p := range phases {
		if !p.End.After(p.Start) {
			return nil, fmt.Errorf("phase %d: end %s not after start %s", i, p.End, p.Start)
		}
		if p.Rate == 0 {
			return nil, fmt.Errorf("phase %d: zero rate", i)
		}
		if i > 0 && phases[i-1].End.After(p.Start) {
			return nil, fmt.Errorf("phase %d overlaps previous phase", i)
		}
	}
	return phases, nil
}

// parseSecretKey accepts the JSON byte-array format the wallet tooling exports.
func parseSecretKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ints []int
	if err := json.Unmarshal([]byte(raw), &ints); err != nil {
		return nil, err
	}
	key := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, errors.New("secret key byte out of range")
		}
		key[i] = byte(v)
	}
	return key, nil
}

func parseUint(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}

// parseMicroUsd turns a human USD amount ("180" or "179.25") into micro-USD.
func parseMicroUsd(raw string) (uint64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, errors.New("negative price")
	}
	return uint64(f * MicroUsd), nil
}
