package arcade

import (
	"testing"
	"time"
)

func TestWeekID(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "mid year",
			at:   time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
			want: "2026-W07",
		},
		{
			name: "january 1st belongs to previous iso year",
			at:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2026-W53",
		},
		{
			name: "single digit week is zero padded",
			at:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			want: "2026-W02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekID(tt.at); got != tt.want {
				t.Fatalf("WeekID(%s) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}

func TestCleanInitials(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "abc", want: "ABC"},
		{in: "a1b2c3d4", want: "ABC"},
		{in: "x", want: "X"},
		{in: "....", want: ""},
		{in: "längé", want: "LNG"},
	}

	for _, tt := range tests {
		if got := CleanInitials(tt.in); got != tt.want {
			t.Fatalf("CleanInitials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsKnownGame(t *testing.T) {
	if !IsKnownGame("snake") {
		t.Fatalf("snake should be known")
	}
	if IsKnownGame("doom") {
		t.Fatalf("doom should not be known")
	}
}
