package controllers

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/abielcoin/abiel-api/app/models"
	"github.com/abielcoin/abiel-api/app/repository"
	"github.com/abielcoin/abiel-api/internal/pkg/chatbot"
	"github.com/abielcoin/abiel-api/internal/pkg/database"
)

const chatHistorySize = 50
const chatMaxMessageLen = 255

// ChatPost is the chat message payload.
type ChatPost struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// HandleChatPost stores one chat message.
func HandleChatPost(c *fiber.Ctx) error {
	var post ChatPost
	if err := c.BodyParser(&post); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	room := strings.ToLower(strings.TrimSpace(post.Room))
	username := strings.TrimSpace(post.Username)
	message := strings.TrimSpace(post.Message)
	if room == "" || username == "" || message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_submission"})
	}
	if username == chatbot.BotUsername {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reserved_username"})
	}
	if utf8.RuneCountInString(message) > chatMaxMessageLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message_too_long"})
	}

	msg := &models.ChatMessage{RoomSlug: room, Username: username, Message: message}
	if err := repository.GetGlobalRepositories().Chat.Create(msg); err != nil {
		log.Printf("chat message save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "id": msg.ID})
}

// HandleChatHistory returns the latest messages in a room, oldest first.
func HandleChatHistory(c *fiber.Ctx) error {
	room := strings.ToLower(strings.TrimSpace(c.Query("room", "lobby")))

	messages, err := repository.GetGlobalRepositories().Chat.Recent(room, chatHistorySize)
	if err != nil {
		log.Printf("chat history query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage_failed"})
	}
	return c.JSON(fiber.Map{"room": room, "messages": messages})
}

// HandleChatBotRun triggers one bot pass over a room. The site frontend pings
// this periodically; overlapping runs are safe.
func HandleChatBotRun(c *fiber.Ctx) error {
	room := strings.ToLower(strings.TrimSpace(c.Query("room", "lobby")))

	stats, err := chatbot.NewBot(database.GetDB()).Run(room)
	if err != nil {
		log.Printf("chat bot run failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "bot_run_failed"})
	}
	return c.JSON(fiber.Map{"ok": true, "scanned": stats.Scanned, "replied": stats.Replied})
}
