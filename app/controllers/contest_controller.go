package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/abielcoin/abiel-api/app/models"
	"github.com/abielcoin/abiel-api/app/repository"
	"github.com/abielcoin/abiel-api/internal/pkg/config"
	"github.com/abielcoin/abiel-api/internal/pkg/contest"
)

// ContestController handles the geolocation guessing contest.
type ContestController struct {
	cfg *config.ContestConfig
}

func NewContestController(cfg *config.ContestConfig) *ContestController {
	return &ContestController{cfg: cfg}
}

// GuessSubmission is the contest submit payload. Website is a honeypot field
// hidden on the real form; anything filling it is a bot.
type GuessSubmission struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Website string  `json:"website"`
}

// HandleSubmit records a contest guess, keeping each participant's best.
func (cc *ContestController) HandleSubmit(c *fiber.Ctx) error {
	var sub GuessSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	// Bots that fill the honeypot get a convincing success and no row.
	if strings.TrimSpace(sub.Website) != "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}

	guess := &models.Guess{
		Email:      strings.TrimSpace(sub.Email),
		EmailLC:    strings.ToLower(strings.TrimSpace(sub.Email)),
		Name:       strings.TrimSpace(sub.Name),
		Lat:        sub.Lat,
		Lng:        sub.Lng,
		DistanceKm: contest.DistanceKm(sub.Lat, sub.Lng, cc.cfg.TargetLat, cc.cfg.TargetLng),
	}
	if err := guess.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_submission"})
	}

	repo := repository.GetGlobalRepositories().Guess

	// Keep-best: a worse attempt than the stored one is acknowledged but
	// never overwrites it.
	if existing, err := repo.GetByEmail(guess.EmailLC); err == nil {
		if existing.DistanceKm <= guess.DistanceKm {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":          true,
				"distance_km": guess.DistanceKm,
				"best_km":     existing.DistanceKm,
			})
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("contest guess lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}

	if err := repo.Upsert(guess); err != nil {
		log.Printf("contest guess save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":          true,
		"distance_km": guess.DistanceKm,
		"best_km":     guess.DistanceKm,
	})
}

// HandleLeaderboard returns the closest guesses with masked emails, plus the
// commitment hash proving the target was fixed before submissions opened.
func (cc *ContestController) HandleLeaderboard(c *fiber.Ctx) error {
	top := c.QueryInt("top", 10)
	if top < 1 {
		top = 1
	}
	if top > 100 {
		top = 100
	}

	guesses, err := repository.GetGlobalRepositories().Guess.Top(top)
	if err != nil {
		log.Printf("contest leaderboard query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}

	entries := make([]fiber.Map, 0, len(guesses))
	for i, g := range guesses {
		entries = append(entries, fiber.Map{
			"rank":        i + 1,
			"email":       contest.MaskEmail(g.Email),
			"name":        g.Name,
			"distance_km": g.DistanceKm,
		})
	}

	return c.JSON(fiber.Map{
		"entries":    entries,
		"commitment": contest.TargetCommitment(cc.cfg.TargetLat, cc.cfg.TargetLng, cc.cfg.TargetSalt),
	})
}
