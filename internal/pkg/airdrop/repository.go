package airdrop

import (
	"errors"

	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the settlement service.
type Repository interface {
	HasSettled(sourceTxID string) (bool, error)
	// CreateSettlementIfNotExists inserts the ledger row. The bool reports
	// whether the row was actually created; false means another delivery of
	// the same transaction won the race.
	CreateSettlementIfNotExists(s *models.Settlement) (bool, error)
	CreateManualReviewFlag(f *models.ManualReviewFlag) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a settlement repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) HasSettled(sourceTxID string) (bool, error) {
	var s models.Settlement
	err := r.db.
		Where("source_tx_id = ?", sourceTxID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *gormRepository) CreateSettlementIfNotExists(s *models.Settlement) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "source_tx_id"},
		},
		DoNothing: true,
	}).Create(s)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) CreateManualReviewFlag(f *models.ManualReviewFlag) error {
	return r.db.Create(f).Error
}
