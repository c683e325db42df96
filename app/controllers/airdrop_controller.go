package controllers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abielcoin/abiel-api/internal/pkg/airdrop"
	"github.com/abielcoin/abiel-api/internal/pkg/config"
	"github.com/abielcoin/abiel-api/internal/pkg/database"
	"github.com/abielcoin/abiel-api/internal/pkg/metrics/counter"
	"github.com/abielcoin/abiel-api/internal/pkg/solana"
)

// AirdropController handles the payment-provider webhook.
type AirdropController struct {
	cfg *config.AirdropConfig

	mu      sync.Mutex
	service *airdrop.Service
}

// NewAirdropController creates the webhook controller. The settlement service
// is built lazily so the process can boot (and serve the rest of the API)
// even when the signing key is not configured yet.
func NewAirdropController(cfg *config.AirdropConfig) *AirdropController {
	return &AirdropController{cfg: cfg}
}

func (ac *AirdropController) getService() (*airdrop.Service, error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.service != nil {
		return ac.service, nil
	}

	executor, err := solana.NewExecutor(ac.cfg)
	if err != nil {
		return nil, err
	}
	ac.service = airdrop.NewServiceFromDB(database.GetDB(), ac.cfg, airdrop.NewOracle(ac.cfg), executor)
	return ac.service, nil
}

// HandleWebhook processes one delivery from the payment notifier.
// Ignored and duplicate deliveries return 200 so the notifier stops
// redelivering them; only infrastructure failures return 5xx.
func (ac *AirdropController) HandleWebhook(c *fiber.Ctx) error {
	if ac.cfg.WebhookAuthToken != "" && c.Get("Authorization") != ac.cfg.WebhookAuthToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	svc, err := ac.getService()
	if err != nil {
		log.Printf("airdrop service unavailable: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "service_unavailable"})
	}

	rawBody := append([]byte(nil), c.BodyRaw()...)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	out, err := svc.ProcessWebhook(ctx, rawBody)
	if out != nil {
		if cerr := counter.AddWebhookOutcome(string(out.Status)); cerr != nil {
			log.Printf("outcome counter increment failed: %v", cerr)
		}
	}
	if err != nil {
		if out == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
		}
		log.Printf("webhook processing failed: %v", err)

		// Tokens already moved but the ledger row is missing: redelivery would
		// pay twice, so answer 200 and leave it to the review flag.
		if out.ReviewRef != "" {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":         false,
				"flagged":    true,
				"review_ref": out.ReviewRef,
			})
		}
		// Fatal transfer errors (bad address, drained source) won't improve on
		// redelivery either.
		if !solana.IsRetryable(err) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":        false,
				"error":     "transfer_failed",
				"retryable": false,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "settlement_failed"})
	}

	switch out.Status {
	case airdrop.StatusIgnored:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true, "reason": out.Reason})
	case airdrop.StatusDuplicate:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	default:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":        true,
			"payout_tx": out.Settlement.PayoutTxID,
			"amount":    out.Settlement.PayoutAmount,
		})
	}
}
