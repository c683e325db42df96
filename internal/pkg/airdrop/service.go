package airdrop

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abielcoin/abiel-api/app/models"
	"github.com/abielcoin/abiel-api/internal/pkg/cache"
	"github.com/abielcoin/abiel-api/internal/pkg/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferExecutor sends payout tokens on-chain and returns the transfer's
// transaction signature.
type TransferExecutor interface {
	SendTokens(ctx context.Context, recipient string, amount uint64) (string, error)
}

// Service drives one webhook delivery from raw payload to settled ledger row.
type Service struct {
	cfg        *config.AirdropConfig
	repo       Repository
	normalizer *Normalizer
	schedule   *Schedule
	prices     PriceSource
	executor   TransferExecutor
}

// NewService wires the settlement pipeline from injected parts.
func NewService(cfg *config.AirdropConfig, repo Repository, prices PriceSource, executor TransferExecutor) *Service {
	return &Service{
		cfg:        cfg,
		repo:       repo,
		normalizer: NewNormalizer(cfg),
		schedule:   NewSchedule(cfg),
		prices:     prices,
		executor:   executor,
	}
}

// NewServiceFromDB wires the pipeline from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, cfg *config.AirdropConfig, prices PriceSource, executor TransferExecutor) *Service {
	return NewService(cfg, NewRepository(db), prices, executor)
}

// ProcessWebhook takes one raw webhook body through normalize, duplicate
// check, rate/price resolution, payout computation, on-chain transfer and
// ledger write. An ignored or duplicate delivery is a success from the
// notifier's point of view; only infrastructure failures return an error.
func (s *Service) ProcessWebhook(ctx context.Context, body []byte) (*Outcome, error) {
	ev, reason, err := s.normalizer.Normalize(body)
	if err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}
	if ev == nil {
		log.Printf("webhook ignored: reason=%s", reason)
		return &Outcome{Status: StatusIgnored, Reason: reason}, nil
	}
	if ev.SourceTxID == "" {
		log.Printf("webhook ignored: transfer without signature from=%s", ev.BuyerAddress)
		return &Outcome{Status: StatusIgnored, Reason: IgnoreNoTransfers}, nil
	}

	// Cheap pre-checks. The unique index on source_tx_id is what actually
	// guarantees exactly-once; the redis marker and the DB lookup just avoid
	// burning an RPC round trip on the common redelivery case.
	if hit, err := cache.Exists(settledMarkerKey(ev.SourceTxID)); err == nil && hit {
		log.Printf("webhook duplicate: tx=%s already settled (marker)", ev.SourceTxID)
		return &Outcome{Status: StatusDuplicate}, nil
	}
	settled, err := s.repo.HasSettled(ev.SourceTxID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check %s: %w", ev.SourceTxID, err)
	}
	if settled {
		log.Printf("webhook duplicate: tx=%s already settled", ev.SourceTxID)
		return &Outcome{Status: StatusDuplicate}, nil
	}

	rate := s.schedule.ResolveRate(ev.ObservedAt)

	var price Price
	if ev.PaidAsset == AssetNative {
		price = s.prices.NativeAssetUsdPrice(ctx)
	}

	payout, err := ComputePayout(ev, rate, price, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("compute payout for %s: %w", ev.SourceTxID, err)
	}
	if payout == 0 {
		log.Printf("webhook ignored: tx=%s pays out zero (amount=%d asset=%s)", ev.SourceTxID, ev.RawAmount, ev.PaidAsset)
		return &Outcome{Status: StatusIgnored, Reason: IgnoreZeroAmount}, nil
	}

	log.Printf("settling tx=%s buyer=%s asset=%s amount=%d rate=%d price=%d payout=%d",
		ev.SourceTxID, ev.BuyerAddress, ev.PaidAsset, ev.RawAmount, rate, price.MicroUsd, payout)

	payoutTxID, err := s.executor.SendTokens(ctx, ev.BuyerAddress, payout)
	if err != nil {
		return &Outcome{Status: StatusFailed}, fmt.Errorf("send payout for %s: %w", ev.SourceTxID, err)
	}

	decimals := config.NativeDecimals
	if ev.PaidAsset == AssetStable {
		decimals = s.cfg.StableDecimals
	}
	settlement := &models.Settlement{
		SourceTxID:    ev.SourceTxID,
		BuyerAddress:  ev.BuyerAddress,
		PaidAsset:     string(ev.PaidAsset),
		PaidAmount:    ev.HumanAmount(decimals),
		RateApplied:   rate,
		PriceUsed:     price.MicroUsd,
		LowConfidence: price.Fallback,
		PayoutAmount:  payout,
		PayoutTxID:    payoutTxID,
	}

	created, err := s.repo.CreateSettlementIfNotExists(settlement)
	if err != nil {
		// Tokens are already on-chain. Flag for reconciliation so the next
		// redelivery of this transaction can't trigger a second payout by hand.
		ref := s.flagForReview(ev.SourceTxID, payoutTxID, err)
		return &Outcome{Status: StatusFailed, ReviewRef: ref},
			fmt.Errorf("record settlement %s after payout %s: %w", ev.SourceTxID, payoutTxID, err)
	}
	if !created {
		// A concurrent delivery inserted first. Its payout is the one on the
		// ledger; ours is a double-send that needs eyes on it.
		ref := s.flagForReview(ev.SourceTxID, payoutTxID, fmt.Errorf("concurrent delivery settled first"))
		log.Printf("webhook duplicate: tx=%s lost insert race, payout=%s flagged ref=%s", ev.SourceTxID, payoutTxID, ref)
		return &Outcome{Status: StatusDuplicate, ReviewRef: ref}, nil
	}

	if err := cache.Set(settledMarkerKey(ev.SourceTxID), "1", 24*time.Hour); err != nil {
		log.Printf("settled marker write failed for %s: %v", ev.SourceTxID, err)
	}

	log.Printf("settled tx=%s payout_tx=%s amount=%d", ev.SourceTxID, payoutTxID, payout)
	return &Outcome{Status: StatusSettled, Settlement: settlement}, nil
}

func settledMarkerKey(sourceTxID string) string {
	return "airdrop:settled:" + sourceTxID
}

// flagForReview records a manual-review flag and returns its reference. A
// failure here is logged but never masks the original problem.
func (s *Service) flagForReview(sourceTxID, payoutTxID string, cause error) string {
	flag := &models.ManualReviewFlag{
		Reference:  uuid.New().String(),
		SourceTxID: sourceTxID,
		PayoutTxID: payoutTxID,
		Reason:     cause.Error(),
	}
	if err := s.repo.CreateManualReviewFlag(flag); err != nil {
		log.Printf("CRITICAL: payout %s for %s is unrecorded and unflagged: %v", payoutTxID, sourceTxID, err)
		return ""
	}
	return flag.Reference
}
