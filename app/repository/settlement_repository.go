package repository

import (
	"time"

	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
)

// settlementRepository implements the SettlementRepository interface. Writes
// to the ledger go through the settlement pipeline, not this repository; this
// is the read side for admin tooling.
type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository creates a new settlement ledger repository instance
func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

// GetBySourceTxID retrieves the settlement for a payment transaction
func (r *settlementRepository) GetBySourceTxID(sourceTxID string) (*models.Settlement, error) {
	var s models.Settlement
	err := r.db.Where("source_tx_id = ?", sourceTxID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Recent retrieves the latest settlements, newest first
func (r *settlementRepository) Recent(limit int) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.
		Order("id DESC").
		Limit(limit).
		Find(&settlements).Error
	return settlements, err
}

// TotalPaidOut sums every payout in token minor units
func (r *settlementRepository) TotalPaidOut() (uint64, error) {
	var total uint64
	err := r.db.Model(&models.Settlement{}).
		Select("COALESCE(SUM(payout_amount), 0)").
		Scan(&total).Error
	return total, err
}

// OpenReviewFlags retrieves unresolved manual review flags, oldest first
func (r *settlementRepository) OpenReviewFlags() ([]models.ManualReviewFlag, error) {
	var flags []models.ManualReviewFlag
	err := r.db.
		Where("resolved_at IS NULL").
		Order("id ASC").
		Find(&flags).Error
	return flags, err
}

// ResolveReviewFlag marks a manual review flag as handled
func (r *settlementRepository) ResolveReviewFlag(reference string, at time.Time) error {
	res := r.db.Model(&models.ManualReviewFlag{}).
		Where("reference = ? AND resolved_at IS NULL", reference).
		Update("resolved_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
