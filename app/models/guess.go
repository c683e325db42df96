package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Guess stores one contest participant's best location guess. EmailLC keeps
// the keep-best-per-participant upsert case-insensitive.
type Guess struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"type:varchar(200);not null" json:"email" validate:"required,email,max=200"`
	EmailLC    string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_guesses_email_lc" json:"-"`
	Name       string    `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Lat        float64   `gorm:"type:decimal(9,6);not null" json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64   `gorm:"type:decimal(9,6);not null" json:"lng" validate:"gte=-180,lte=180"`
	DistanceKm float64   `gorm:"type:decimal(12,3);not null;index" json:"distance_km"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (g *Guess) Validate() error {
	v := validator.New()

	return v.Struct(g)
}
