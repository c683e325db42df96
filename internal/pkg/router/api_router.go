package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/abielcoin/abiel-api/app/controllers"
	"github.com/abielcoin/abiel-api/internal/pkg/cache"
	"github.com/abielcoin/abiel-api/internal/pkg/config"
	"github.com/abielcoin/abiel-api/internal/pkg/env"
)

type ApiRouter struct {
	cfg *config.Config
}

func NewApiRouter(cfg *config.Config) *ApiRouter {
	return &ApiRouter{cfg: cfg}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api",
		cors.New(cors.Config{
			AllowOrigins: h.cfg.AllowedOrigins,
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Content-Type,Authorization",
		}),
		limiter.New(limiter.Config{
			Max:        60,
			Expiration: time.Minute,
			Storage:    newLimiterStorage(),
		}),
	)

	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Airdrop webhook
	airdropCtrl := controllers.NewAirdropController(&h.cfg.Airdrop)
	api.Post("/airdrop-handler", airdropCtrl.HandleWebhook)

	// Contest
	contestCtrl := controllers.NewContestController(&h.cfg.Contest)
	api.Post("/submit", contestCtrl.HandleSubmit)
	api.Get("/leaderboard", contestCtrl.HandleLeaderboard)

	// Arcade
	api.Post("/arcade-score", controllers.HandleArcadeScore)
	api.Get("/arcade-leaderboard", controllers.HandleArcadeLeaderboard)

	// Chat
	api.Post("/chat", controllers.HandleChatPost)
	api.Get("/chat", controllers.HandleChatHistory)
	api.Post("/chat-bot/run", controllers.HandleChatBotRun)

	// Stats
	api.Get("/stats", controllers.HandleStats)

	// Admin
	admin := api.Group("/admin", controllers.RequireAdminToken)
	admin.Get("/overview", controllers.HandleAdminOverview)
	admin.Post("/review-flags/:reference/resolve", controllers.HandleResolveReviewFlag)
}

// newLimiterStorage backs the rate limiter with redis so limits hold across
// instances. Falls back to the limiter's in-memory default when the cache
// client is not up.
func newLimiterStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return nil
	}

	host := "localhost"
	port := 6379
	if h, p, err := net.SplitHostPort(cacheClient.Options().Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	password := env.GetEnv("CACHE_PASSWORD", "")
	if p := cacheClient.Options().Password; p != "" {
		password = p
	}

	// Database 1 keeps limiter counters out of the cache keyspace.
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
