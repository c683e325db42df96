package airdrop

import (
	"time"

	"github.com/abielcoin/abiel-api/internal/pkg/config"
)

// Schedule resolves the conversion rate (tokens per stable-equivalent unit)
// for an instant. Phases are ordered and non-overlapping by construction
// (config.Load validates them), so a linear scan is enough.
type Schedule struct {
	phases     []config.RatePhase
	launchAt   time.Time
	launchRate uint64
}

func NewSchedule(cfg *config.AirdropConfig) *Schedule {
	return &Schedule{
		phases:     cfg.Phases,
		launchAt:   cfg.LaunchAt,
		launchRate: cfg.LaunchRate,
	}
}

// ResolveRate maps an instant to the governing rate.
//
// On or after launch the flat post-launch rate applies. Before launch, an
// instant inside a phase window (inclusive bounds) takes that phase's rate;
// an instant before the first phase takes the first phase's rate; any other
// gap takes the rate of the nearest preceding phase.
func (s *Schedule) ResolveRate(at time.Time) uint64 {
	if !at.Before(s.launchAt) {
		return s.launchRate
	}
	if len(s.phases) == 0 {
		return s.launchRate
	}

	last := s.phases[0].Rate
	for _, p := range s.phases {
		if at.Before(p.Start) {
			return last
		}
		if !at.After(p.End) {
			return p.Rate
		}
		last = p.Rate
	}
	return last
}
