package repository

import (
	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
)

// chatRepository implements the ChatRepository interface
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository instance
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create stores a new chat message
func (r *chatRepository) Create(msg *models.ChatMessage) error {
	return r.db.Create(msg).Error
}

// Recent retrieves the latest messages in a room, oldest first
func (r *chatRepository) Recent(roomSlug string, limit int) ([]models.ChatMessage, error) {
	var newest []models.ChatMessage
	err := r.db.
		Where("room_slug = ?", roomSlug).
		Order("id DESC").
		Limit(limit).
		Find(&newest).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for rendering.
	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}
