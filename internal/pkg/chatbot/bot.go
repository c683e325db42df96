package chatbot

import (
	"fmt"
	"strings"

	"github.com/abielcoin/abiel-api/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BotUsername is the name bot replies are posted under.
const BotUsername = "arcadebot"

// maxBatch bounds one run so a busy room can't starve the request.
const maxBatch = 50

// Bot scans recent chat messages and posts canned replies: a welcome for
// first-time posters, answers to slash commands and responses to mentions.
// Runs are idempotent; each handled message gets a processed marker.
type Bot struct {
	db *gorm.DB
}

func NewBot(db *gorm.DB) *Bot {
	return &Bot{db: db}
}

// RunStats summarizes one bot run.
type RunStats struct {
	Scanned int `json:"scanned"`
	Replied int `json:"replied"`
}

// Run processes the latest unhandled messages, oldest first.
func (b *Bot) Run(roomSlug string) (*RunStats, error) {
	var messages []models.ChatMessage
	err := b.db.
		Where("room_slug = ? AND username <> ?", roomSlug, BotUsername).
		Order("id DESC").
		Limit(maxBatch).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("load chat messages: %w", err)
	}

	stats := &RunStats{}
	for i := len(messages) - 1; i >= 0; i-- {
		msg := &messages[i]
		stats.Scanned++

		claimed, err := b.claim(msg.ID)
		if err != nil {
			return stats, fmt.Errorf("claim message %d: %w", msg.ID, err)
		}
		if !claimed {
			continue
		}

		reply := b.replyFor(msg)
		if reply == "" {
			continue
		}
		post := &models.ChatMessage{
			RoomSlug: msg.RoomSlug,
			Username: BotUsername,
			Message:  reply,
		}
		if err := b.db.Create(post).Error; err != nil {
			return stats, fmt.Errorf("post reply to %d: %w", msg.ID, err)
		}
		stats.Replied++
	}
	return stats, nil
}

// claim marks a message as handled. The unique index on message_id makes the
// marker the dedup mechanism when two runs overlap.
func (b *Bot) claim(messageID uint) (bool, error) {
	tx := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoNothing: true,
	}).Create(&models.ChatBotProcessed{MessageID: messageID})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (b *Bot) replyFor(msg *models.ChatMessage) string {
	text := strings.ToLower(strings.TrimSpace(msg.Message))

	switch text {
	case "/help":
		return "Commands: /help /rules /play. Mention @arcadebot to get my attention."
	case "/rules":
		return "Be nice, no spam, no wallet-drainer links. High scores post automatically."
	case "/play":
		return "Hit the Arcade tab and pick a game. Top 10 per week win."
	}

	if strings.Contains(text, "@"+BotUsername) {
		return fmt.Sprintf("Hey %s! Type /help to see what I can do.", msg.Username)
	}

	if first, err := b.isFirstPost(msg); err == nil && first {
		return fmt.Sprintf("Welcome to the room, %s!", msg.Username)
	}
	return ""
}

// isFirstPost reports whether this is the poster's earliest message in the
// room. Welcomes on redelivered history are prevented by the claim marker,
// not by this check.
func (b *Bot) isFirstPost(msg *models.ChatMessage) (bool, error) {
	var count int64
	err := b.db.Model(&models.ChatMessage{}).
		Where("room_slug = ? AND username = ? AND id < ?", msg.RoomSlug, msg.Username, msg.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
