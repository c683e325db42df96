package models

import "time"

// ChatMessage is one line in an arcade chat room.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomSlug  string    `gorm:"type:varchar(50);not null;index" json:"room_slug"`
	Username  string    `gorm:"type:varchar(50);not null;index" json:"username"`
	Message   string    `gorm:"type:varchar(255);not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// ChatBotProcessed marks messages the bot has already reacted to. The unique
// message id absorbs concurrent bot runs racing on the same batch.
type ChatBotProcessed struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:ux_chat_bot_processed_message" json:"message_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
