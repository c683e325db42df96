package repository

import (
	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
)

// arcadeRepository implements the ArcadeRepository interface
type arcadeRepository struct {
	db *gorm.DB
}

// NewArcadeRepository creates a new arcade score repository instance
func NewArcadeRepository(db *gorm.DB) ArcadeRepository {
	return &arcadeRepository{db: db}
}

// Create stores a new arcade run
func (r *arcadeRepository) Create(score *models.ArcadeScore) error {
	return r.db.Create(score).Error
}

// TopForGame retrieves the all-time leaderboard for a game. Only runs with
// initials are listed; earliest run wins score ties.
func (r *arcadeRepository) TopForGame(game string, limit int) ([]models.ArcadeScore, error) {
	var scores []models.ArcadeScore
	err := r.db.
		Where("game = ? AND initials IS NOT NULL", game).
		Order("score DESC, created_at ASC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}

// TopForGameWeek retrieves the leaderboard for a game within one ISO week
func (r *arcadeRepository) TopForGameWeek(game, weekID string, limit int) ([]models.ArcadeScore, error) {
	var scores []models.ArcadeScore
	err := r.db.
		Where("game = ? AND week_id = ? AND initials IS NOT NULL", game, weekID).
		Order("score DESC, created_at ASC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}
