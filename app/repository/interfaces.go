package repository

import (
	"time"

	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
)

// GuessRepository defines the interface for contest guess operations
type GuessRepository interface {
	GetByEmail(emailLC string) (*models.Guess, error)
	Upsert(guess *models.Guess) error
	Top(limit int) ([]models.Guess, error)
	Count() (int64, error)
}

// ArcadeRepository defines the interface for arcade score operations
type ArcadeRepository interface {
	Create(score *models.ArcadeScore) error
	TopForGame(game string, limit int) ([]models.ArcadeScore, error)
	TopForGameWeek(game, weekID string, limit int) ([]models.ArcadeScore, error)
}

// ChatRepository defines the interface for chat message operations
type ChatRepository interface {
	Create(msg *models.ChatMessage) error
	Recent(roomSlug string, limit int) ([]models.ChatMessage, error)
}

// SettlementRepository defines read-side access to the payout ledger
type SettlementRepository interface {
	GetBySourceTxID(sourceTxID string) (*models.Settlement, error)
	Recent(limit int) ([]models.Settlement, error)
	TotalPaidOut() (uint64, error)
	OpenReviewFlags() ([]models.ManualReviewFlag, error)
	ResolveReviewFlag(reference string, at time.Time) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Guess      GuessRepository
	Arcade     ArcadeRepository
	Chat       ChatRepository
	Settlement SettlementRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Guess:      NewGuessRepository(db),
		Arcade:     NewArcadeRepository(db),
		Chat:       NewChatRepository(db),
		Settlement: NewSettlementRepository(db),
	}
}
