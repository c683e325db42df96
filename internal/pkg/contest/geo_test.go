package contest

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 40.7128, lng2: -74.0060,
			want: 0, tolerance: 0.001,
		},
		{
			name: "new york to london",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 51.5074, lng2: -0.1278,
			want: 5570, tolerance: 20,
		},
		{
			name: "across the antimeridian",
			lat1: 0, lng1: 179.5,
			lat2: 0, lng2: -179.5,
			want: 111.19, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Fatalf("DistanceKm = %.3f, want %.3f ± %.3f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "alice@example.com", want: "a****@example.com"},
		{in: "b@example.com", want: "b***@example.com"},
		{in: "not-an-email", want: "***"},
		{in: "@example.com", want: "***"},
	}

	for _, tt := range tests {
		if got := MaskEmail(tt.in); got != tt.want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTargetCommitment(t *testing.T) {
	a := TargetCommitment(48.858370, 2.294481, "salt-1")
	if len(a) != 64 {
		t.Fatalf("commitment length = %d, want 64 hex chars", len(a))
	}
	if a != TargetCommitment(48.858370, 2.294481, "salt-1") {
		t.Fatalf("commitment not deterministic")
	}
	if a == TargetCommitment(48.858370, 2.294481, "salt-2") {
		t.Fatalf("salt does not change commitment")
	}
	if a == TargetCommitment(48.858371, 2.294481, "salt-1") {
		t.Fatalf("coordinate change does not change commitment")
	}
}
