package models

import "time"

// ArcadeScore is one submitted arcade run. WeekID groups runs into the weekly
// leaderboard windows ("2026-W05", ISO week, UTC).
type ArcadeScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Game      string    `gorm:"type:varchar(50);not null;index:idx_arcade_scores_game_score,priority:1" json:"game"`
	Wallet    string    `gorm:"type:varchar(64);not null" json:"wallet"`
	Score     int64     `gorm:"not null;index:idx_arcade_scores_game_score,priority:2" json:"score"`
	Level     *int      `gorm:"default:null" json:"level,omitempty"`
	Initials  *string   `gorm:"type:varchar(3);default:null" json:"initials,omitempty"`
	WeekID    string    `gorm:"type:varchar(10);not null;index" json:"week_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
