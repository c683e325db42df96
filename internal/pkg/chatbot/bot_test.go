package chatbot

import (
	"strings"
	"testing"

	"github.com/abielcoin/abiel-api/app/models"
)

func TestReplyForCommands(t *testing.T) {
	b := &Bot{}

	tests := []struct {
		name    string
		message string
		want    string // substring the reply must carry
	}{
		{name: "help", message: "/help", want: "/rules"},
		{name: "help with whitespace", message: "  /HELP  ", want: "/rules"},
		{name: "rules", message: "/rules", want: "no spam"},
		{name: "play", message: "/play", want: "Arcade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := b.replyFor(&models.ChatMessage{RoomSlug: "lobby", Username: "alice", Message: tt.message})
			if reply == "" {
				t.Fatalf("expected a reply for %q", tt.message)
			}
			if !strings.Contains(reply, tt.want) {
				t.Fatalf("reply %q does not mention %q", reply, tt.want)
			}
		})
	}
}

func TestReplyForMention(t *testing.T) {
	b := &Bot{}
	reply := b.replyFor(&models.ChatMessage{RoomSlug: "lobby", Username: "bob", Message: "yo @arcadebot what's up"})
	if !strings.Contains(reply, "bob") {
		t.Fatalf("mention reply %q should address the poster", reply)
	}
}
