package models

import "time"

const (
	PaidAssetNative = "native"
	PaidAssetStable = "stable"
)

// Settlement is one executed payout, keyed by the buyer's payment transaction.
// Rows are append-only: they are written exactly once after the on-chain
// transfer confirms and are never updated or deleted, so the table doubles as
// the idempotency ledger and the audit trail.
type Settlement struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SourceTxID   string  `gorm:"type:varchar(88);not null;uniqueIndex:ux_settlements_source_tx" json:"source_tx_id"`
	BuyerAddress string  `gorm:"type:varchar(44);not null;index" json:"buyer_address"`
	PaidAsset    string  `gorm:"type:varchar(10);not null" json:"paid_asset"`
	PaidAmount   float64 `gorm:"type:decimal(20,9);not null" json:"paid_amount"`
	RateApplied  uint64  `gorm:"not null" json:"rate_applied"`
	// PriceUsed is the native-asset price in micro-USD; zero for stable payments.
	PriceUsed     uint64    `gorm:"not null;default:0" json:"price_used"`
	LowConfidence bool      `gorm:"default:false" json:"low_confidence"`
	PayoutAmount  uint64    `gorm:"not null" json:"payout_amount"`
	PayoutTxID    string    `gorm:"type:varchar(88);not null" json:"payout_tx_id"`
	SettledAt     time.Time `gorm:"autoCreateTime" json:"settled_at"`
}
