package config

import (
	"testing"
	"time"
)

func TestParseRatePhases(t *testing.T) {
	phases, err := parseRatePhases(`[
		{"start":"2025-12-01T00:00:00Z","end":"2025-12-31T23:59:59Z","rate":600},
		{"start":"2025-11-08T00:00:00Z","end":"2025-11-10T23:59:59Z","rate":750}
	]`)
	if err != nil {
		t.Fatalf("parseRatePhases returned error: %v", err)
	}
	if len(phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(phases))
	}
	// Sorted by start regardless of input order.
	if !phases[0].Start.Equal(time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("phases not sorted: first starts %s", phases[0].Start)
	}
	if phases[0].Rate != 750 || phases[1].Rate != 600 {
		t.Fatalf("rates = %d, %d", phases[0].Rate, phases[1].Rate)
	}
}

func TestParseRatePhasesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `750`},
		{name: "end before start", raw: `[{"start":"2025-11-10T00:00:00Z","end":"2025-11-08T00:00:00Z","rate":750}]`},
		{name: "zero rate", raw: `[{"start":"2025-11-08T00:00:00Z","end":"2025-11-10T00:00:00Z","rate":0}]`},
		{
			name: "overlapping phases",
			raw: `[
				{"start":"2025-11-08T00:00:00Z","end":"2025-11-20T00:00:00Z","rate":750},
				{"start":"2025-11-15T00:00:00Z","end":"2025-11-30T00:00:00Z","rate":600}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseRatePhases(tt.raw); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestParseSecretKey(t *testing.T) {
	key, err := parseSecretKey("[1, 2, 255, 0]")
	if err != nil {
		t.Fatalf("parseSecretKey returned error: %v", err)
	}
	if len(key) != 4 || key[2] != 255 {
		t.Fatalf("key = %v", key)
	}

	if k, err := parseSecretKey(""); err != nil || k != nil {
		t.Fatalf("empty input: key=%v err=%v", k, err)
	}
	if _, err := parseSecretKey("[256]"); err == nil {
		t.Fatalf("expected error for out-of-range byte")
	}
	if _, err := parseSecretKey("base58notjson"); err == nil {
		t.Fatalf("expected error for non-JSON input")
	}
}

func TestParseMicroUsd(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{in: "180", want: 180_000_000},
		{in: "179.25", want: 179_250_000},
		{in: "0.5", want: 500_000},
	}
	for _, tt := range tests {
		got, err := parseMicroUsd(tt.in)
		if err != nil {
			t.Fatalf("parseMicroUsd(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parseMicroUsd(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if _, err := parseMicroUsd("-1"); err == nil {
		t.Fatalf("expected error for negative price")
	}
}
