package models

import "time"

// ManualReviewFlag marks a payout that went on-chain but could not be recorded
// in the settlements ledger. These must be reconciled by hand: a confirmed
// transfer with no ledger row defeats future duplicate detection.
type ManualReviewFlag struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Reference  string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"reference"`
	SourceTxID string     `gorm:"type:varchar(88);not null;index" json:"source_tx_id"`
	PayoutTxID string     `gorm:"type:varchar(88);not null" json:"payout_tx_id"`
	Reason     string     `gorm:"type:text" json:"reason"`
	ResolvedAt *time.Time `gorm:"type:timestamp;default:null" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
