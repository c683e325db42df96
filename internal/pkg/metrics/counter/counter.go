package counter

import (
	"context"

	"github.com/abielcoin/abiel-api/internal/pkg/cache"
)

const webhookOutcomesKey = "airdrop:counters:outcomes"

// AddWebhookOutcome increments the counter for one webhook terminal status
// ("settled", "ignored", "duplicate", "failed"). Best-effort: the settlements
// table is the source of truth, these only feed the stats endpoint.
func AddWebhookOutcome(status string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookOutcomesKey, status, 1).Err()
}

// WebhookOutcomes returns the counter snapshot as status -> count.
func WebhookOutcomes() (map[string]string, error) {
	ctx := context.Background()
	return cache.GetClient().HGetAll(ctx, webhookOutcomesKey).Result()
}
