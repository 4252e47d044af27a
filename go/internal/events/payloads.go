package events

import (
	"time"

	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/timer"
)

// StepChangedPayload is sent whenever the game moves to another step, or
// returns to the main menu (Step is nil).
type StepChangedPayload struct {
	Step       *models.GameStep `json:"step"`
	Descriptor string           `json:"descriptor,omitempty"`
	Title      string           `json:"title,omitempty"`
	ChangedAt  time.Time        `json:"changed_at"`
}

// TimerTickPayload is a live reading of the trade timer.
type TimerTickPayload struct {
	Timer    timer.Snapshot `json:"timer"`
	Display  string         `json:"display"`
	TickedAt time.Time      `json:"ticked_at"`
}

// TimerExpiredPayload is sent once when the trade timer runs out.
type TimerExpiredPayload struct {
	DurationMs int64     `json:"duration_ms"`
	ExpiredAt  time.Time `json:"expired_at"`
}

// WakeLockPayload asks the client to acquire or release its screen wake
// lock.
type WakeLockPayload struct {
	Acquire bool `json:"acquire"`
}
