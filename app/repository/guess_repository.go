package repository

import (
	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// guessRepository implements the GuessRepository interface
type guessRepository struct {
	db *gorm.DB
}

// NewGuessRepository creates a new contest guess repository instance
func NewGuessRepository(db *gorm.DB) GuessRepository {
	return &guessRepository{db: db}
}

// GetByEmail retrieves a guess by the lowercased participant email
func (r *guessRepository) GetByEmail(emailLC string) (*models.Guess, error) {
	var guess models.Guess
	err := r.db.Where("email_lc = ?", emailLC).First(&guess).Error
	if err != nil {
		return nil, err
	}
	return &guess, nil
}

// Upsert inserts the guess or, when the participant already has one,
// overwrites it with the new coordinates and distance. The controller only
// calls this when the new guess is at least as good, so the row always holds
// the participant's best attempt.
func (r *guessRepository) Upsert(guess *models.Guess) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "email_lc"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"name",
			"lat",
			"lng",
			"distance_km",
			"updated_at",
		}),
	}).Create(guess).Error
}

// Top retrieves the closest guesses, nearest first, earliest submit breaking ties
func (r *guessRepository) Top(limit int) ([]models.Guess, error) {
	var guesses []models.Guess
	err := r.db.
		Order("distance_km ASC, created_at ASC").
		Limit(limit).
		Find(&guesses).Error
	return guesses, err
}

// Count returns the number of participants
func (r *guessRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Guess{}).Count(&count).Error
	return count, err
}
