package airdrop

import (
	"math"
	"time"

	"github.com/abielcoin/abiel-api/app/models"
)

// PaidAsset identifies what the buyer paid with.
type PaidAsset string

const (
	AssetNative PaidAsset = "native"
	AssetStable PaidAsset = "stable"
)

// PaymentEvent is the canonical form of one inbound payment notification,
// extracted from the provider's webhook payload.
type PaymentEvent struct {
	SourceTxID   string
	BuyerAddress string
	PaidAsset    PaidAsset
	// RawAmount is in the paid asset's base units (lamports for native,
	// token minor units for stable). All payout math stays in base units.
	RawAmount uint64
	// ObservedAt is the event time used for rate-schedule lookup; falls back
	// to processing time when the payload carries no timestamp.
	ObservedAt time.Time
}

// HumanAmount renders the raw base-unit amount in human units for the ledger
// row. Display only, never used in payout arithmetic.
func (e *PaymentEvent) HumanAmount(decimals int) float64 {
	return float64(e.RawAmount) / math.Pow10(decimals)
}

// IgnoreReason explains why a delivery produced no settlement.
type IgnoreReason string

const (
	IgnoreWrongEventType IgnoreReason = "wrong_event_type"
	IgnoreNoTransfers    IgnoreReason = "no_transfers"
	IgnoreInvalidBuyer   IgnoreReason = "invalid_buyer"
	IgnoreZeroAmount     IgnoreReason = "zero_amount"
)

// Status is the terminal state of one processed delivery.
type Status string

const (
	StatusIgnored   Status = "ignored"
	StatusDuplicate Status = "duplicate"
	StatusSettled   Status = "settled"
	StatusFailed    Status = "failed"
)

// Outcome is what the webhook handler reports back to the notifier.
type Outcome struct {
	Status     Status
	Reason     IgnoreReason // set when Status == StatusIgnored
	Settlement *models.Settlement
	// ReviewRef is the manual-review reference created when the payout went
	// on-chain but the ledger write failed.
	ReviewRef string
}
