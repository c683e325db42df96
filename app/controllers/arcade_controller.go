package controllers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abielcoin/abiel-api/app/models"
	"github.com/abielcoin/abiel-api/app/repository"
	"github.com/abielcoin/abiel-api/internal/pkg/arcade"
	"github.com/abielcoin/abiel-api/internal/pkg/cache"
)

const arcadeLeaderboardSize = 10
const arcadeLeaderboardCacheTTL = 30 * time.Second

// ScoreSubmission is the arcade score payload.
type ScoreSubmission struct {
	Game     string `json:"game"`
	Wallet   string `json:"wallet"`
	Score    int64  `json:"score"`
	Level    *int   `json:"level"`
	Initials string `json:"initials"`
	// Timestamp optionally backdates the run (offline play sync), RFC3339.
	Timestamp string `json:"timestamp"`
}

// HandleArcadeScore records one arcade run.
func HandleArcadeScore(c *fiber.Ctx) error {
	var sub ScoreSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	game := strings.ToLower(strings.TrimSpace(sub.Game))
	wallet := strings.TrimSpace(sub.Wallet)
	if !arcade.IsKnownGame(game) || wallet == "" || sub.Score < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_submission"})
	}

	playedAt := time.Now().UTC()
	if sub.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, sub.Timestamp)
		if err != nil || t.After(time.Now().Add(time.Minute)) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_timestamp"})
		}
		playedAt = t.UTC()
	}

	score := &models.ArcadeScore{
		Game:      game,
		Wallet:    wallet,
		Score:     sub.Score,
		Level:     sub.Level,
		WeekID:    arcade.WeekID(playedAt),
		CreatedAt: playedAt,
	}
	if initials := arcade.CleanInitials(sub.Initials); initials != "" {
		score.Initials = &initials
	}

	if err := repository.GetGlobalRepositories().Arcade.Create(score); err != nil {
		log.Printf("arcade score save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "week_id": score.WeekID})
}

// HandleArcadeLeaderboard returns the top runs for a game, optionally scoped
// to the current ISO week. Responses are cached briefly in redis; the board
// does not need to be fresher than the next game over.
func HandleArcadeLeaderboard(c *fiber.Ctx) error {
	game := strings.ToLower(strings.TrimSpace(c.Query("game")))
	if !arcade.IsKnownGame(game) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown_game"})
	}
	weekly := c.QueryBool("weekly", false)

	cacheKey := "arcade:board:" + game
	if weekly {
		cacheKey += ":" + arcade.WeekID(time.Now())
	}
	if cached, err := cache.Get(cacheKey); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	repo := repository.GetGlobalRepositories().Arcade
	var (
		scores []models.ArcadeScore
		err    error
	)
	if weekly {
		scores, err = repo.TopForGameWeek(game, arcade.WeekID(time.Now()), arcadeLeaderboardSize)
	} else {
		scores, err = repo.TopForGame(game, arcadeLeaderboardSize)
	}
	if err != nil {
		log.Printf("arcade leaderboard query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}

	entries := make([]fiber.Map, 0, len(scores))
	for i, s := range scores {
		entries = append(entries, fiber.Map{
			"rank":     i + 1,
			"initials": s.Initials,
			"score":    s.Score,
			"level":    s.Level,
			"week_id":  s.WeekID,
		})
	}
	body := fiber.Map{"game": game, "entries": entries}

	if raw, err := json.Marshal(body); err == nil {
		if err := cache.Set(cacheKey, string(raw), arcadeLeaderboardCacheTTL); err != nil {
			log.Printf("arcade leaderboard cache write failed: %v", err)
		}
	}
	return c.JSON(body)
}
