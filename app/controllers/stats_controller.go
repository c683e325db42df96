package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abielcoin/abiel-api/app/repository"
	"github.com/abielcoin/abiel-api/internal/pkg/env"
	"github.com/abielcoin/abiel-api/internal/pkg/metrics/counter"
	"github.com/abielcoin/abiel-api/internal/pkg/statistics"
)

// HandleStats returns the public site statistics.
func HandleStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatistics())
}

// RequireAdminToken gates the admin endpoints with a shared secret. An unset
// token disables the admin surface entirely.
func RequireAdminToken(c *fiber.Ctx) error {
	token := env.GetEnv("ADMIN_TOKEN", "")
	if token == "" || c.Get("Authorization") != token {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.Next()
}

// HandleAdminOverview returns the operator view: recent settlements, open
// manual-review flags and webhook outcome counters.
func HandleAdminOverview(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Settlement

	settlements, err := repo.Recent(20)
	if err != nil {
		log.Printf("admin settlements query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}
	flags, err := repo.OpenReviewFlags()
	if err != nil {
		log.Printf("admin review flags query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}

	outcomes, err := counter.WebhookOutcomes()
	if err != nil {
		// Counters live in redis and are decorative here.
		outcomes = map[string]string{}
	}

	return c.JSON(fiber.Map{
		"settlements":  settlements,
		"review_flags": flags,
		"outcomes":     outcomes,
	})
}

// HandleResolveReviewFlag marks one manual-review flag as reconciled.
func HandleResolveReviewFlag(c *fiber.Ctx) error {
	reference := c.Params("reference")
	err := repository.GetGlobalRepositories().Settlement.ResolveReviewFlag(reference, time.Now().UTC())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "flag_not_found"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
