package arcade

import (
	"fmt"
	"strings"
	"time"
)

// Games the arcade ships. Scores for anything else are rejected at the API.
var KnownGames = []string{"snake", "tetris", "flappy"}

// IsKnownGame reports whether the slug names a playable game.
func IsKnownGame(game string) bool {
	for _, g := range KnownGames {
		if g == game {
			return true
		}
	}
	return false
}

// WeekID returns the ISO-8601 week identifier ("2026-W07") for the weekly
// leaderboard bucket. ISO weeks avoid the month-boundary ambiguity a plain
// calendar week would have.
func WeekID(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// CleanInitials normalizes player initials to at most three uppercase A-Z
// characters, old-school cabinet style. Everything else is stripped.
func CleanInitials(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	return b.String()
}
