package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// RoundID is a game round, 1 through 6.
type RoundID int

const (
	FirstRound RoundID = 1
	FinalRound RoundID = 6
)

// Valid reports whether the round is within the game.
func (r RoundID) Valid() bool {
	return r >= FirstRound && r <= FinalRound
}

// MainPhase is one of the three phases of a round.
type MainPhase string

const (
	MainPhaseTrade      MainPhase = "trade"
	MainPhaseEconomy    MainPhase = "economy"
	MainPhaseConfluence MainPhase = "confluence"
)

// SubPhase is a step of the confluence phase.
type SubPhase string

const (
	SubPhaseSharing  SubPhase = "sharing"
	SubPhaseBidding  SubPhase = "bidding"
	SubPhaseStealing SubPhase = "stealing"
)

// Phase is a main phase, plus the sub phase when the main phase is confluence.
type Phase struct {
	Main MainPhase `json:"main"`
	Sub  SubPhase  `json:"sub_phase,omitempty"`
}

// TradePhase returns the trade phase.
func TradePhase() Phase { return Phase{Main: MainPhaseTrade} }

// EconomyPhase returns the economy phase.
func EconomyPhase() Phase { return Phase{Main: MainPhaseEconomy} }

// ConfluencePhase returns the confluence phase at the given sub phase.
func ConfluencePhase(sub SubPhase) Phase { return Phase{Main: MainPhaseConfluence, Sub: sub} }

// Valid reports whether the phase is well formed.
func (p Phase) Valid() bool {
	switch p.Main {
	case MainPhaseTrade, MainPhaseEconomy:
		return p.Sub == ""
	case MainPhaseConfluence:
		switch p.Sub {
		case SubPhaseSharing, SubPhaseBidding, SubPhaseStealing:
			return true
		}
	}
	return false
}

func (p Phase) String() string {
	if p.Main == MainPhaseConfluence {
		return string(p.Main) + "/" + string(p.Sub)
	}
	return string(p.Main)
}

// GameStep is the unit of navigation: either the terminal scoring step or a
// phase within a round.
type GameStep struct {
	Scoring bool    `json:"scoring,omitempty"`
	Round   RoundID `json:"round,omitempty"`
	Phase   Phase   `json:"phase,omitzero"`
}

// FirstStep is where every new game begins.
func FirstStep() GameStep {
	return GameStep{Round: FirstRound, Phase: TradePhase()}
}

// ScoringStep returns the terminal step.
func ScoringStep() GameStep {
	return GameStep{Scoring: true}
}

// RoundStep returns the step for a phase within a round.
func RoundStep(round RoundID, phase Phase) GameStep {
	return GameStep{Round: round, Phase: phase}
}

// Validate reports whether the step is well formed.
func (s GameStep) Validate() error {
	if s.Scoring {
		if s.Round != 0 || s.Phase != (Phase{}) {
			return fmt.Errorf("scoring step must not carry a round or phase")
		}
		return nil
	}
	if !s.Round.Valid() {
		return fmt.Errorf("round must be %d-%d, got %d", FirstRound, FinalRound, s.Round)
	}
	if !s.Phase.Valid() {
		return fmt.Errorf("invalid phase %q", s.Phase.String())
	}
	return nil
}

// IsTrade reports whether the step is a trade phase.
func (s GameStep) IsTrade() bool {
	return !s.Scoring && s.Phase.Main == MainPhaseTrade
}

func (s GameStep) String() string {
	if s.Scoring {
		return "scoring"
	}
	return fmt.Sprintf("round %d %s", s.Round, s.Phase)
}

// TradeTimeLimit is how long the trade phase lasts, in whole milliseconds.
// The zero value means no limit.
type TradeTimeLimit time.Duration

const (
	UnlimitedTradeTime TradeTimeLimit = 0

	// DefaultTradeTimeLimit applies when no preference has been saved.
	DefaultTradeTimeLimit = TradeTimeLimit(10 * time.Minute)

	// MaxTradeTimeLimit is the longest limit a time.Duration can hold.
	MaxTradeTimeLimit = TradeTimeLimit(math.MaxInt64 / int64(time.Millisecond) * int64(time.Millisecond))
)

// LimitedTime returns a limit of d rounded up to a whole millisecond and
// capped at MaxTradeTimeLimit. A non-positive d means unlimited.
func LimitedTime(d time.Duration) TradeTimeLimit {
	if d <= 0 {
		return UnlimitedTradeTime
	}
	return TradeTimeLimit(ceilMillis(d)) * TradeTimeLimit(time.Millisecond)
}

func ceilMillis(d time.Duration) int64 {
	if d >= time.Duration(MaxTradeTimeLimit) {
		return int64(MaxTradeTimeLimit) / int64(time.Millisecond)
	}
	ms := int64(d / time.Millisecond)
	if d%time.Millisecond != 0 {
		ms++
	}
	return ms
}

// Unlimited reports whether the trade phase has no timer.
func (l TradeTimeLimit) Unlimited() bool {
	return l <= 0
}

// Duration returns the limit as a time.Duration, zero when unlimited.
func (l TradeTimeLimit) Duration() time.Duration {
	if l.Unlimited() {
		return 0
	}
	return time.Duration(l)
}

// String encodes the limit as "unlimited" or whole milliseconds.
func (l TradeTimeLimit) String() string {
	if l.Unlimited() {
		return "unlimited"
	}
	return strconv.FormatInt(ceilMillis(time.Duration(l)), 10)
}

// ParseTradeTimeLimit decodes the String form. Fractional milliseconds are
// rounded up.
func ParseTradeTimeLimit(s string) (TradeTimeLimit, error) {
	if s == "unlimited" {
		return UnlimitedTradeTime, nil
	}
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid trade time limit %q: %w", s, err)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("trade time limit must be finite, got %q", s)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("trade time limit must be positive, got %q", s)
	}
	ms = math.Ceil(ms)
	if maxMs := int64(MaxTradeTimeLimit) / int64(time.Millisecond); ms > float64(maxMs) {
		return 0, fmt.Errorf("trade time limit must be at most %d ms, got %q", maxMs, s)
	}
	return LimitedTime(time.Duration(ms) * time.Millisecond), nil
}

// MarshalJSON encodes the limit as "unlimited" or a number of milliseconds.
func (l TradeTimeLimit) MarshalJSON() ([]byte, error) {
	if l.Unlimited() {
		return []byte(`"unlimited"`), nil
	}
	return []byte(l.String()), nil
}

// UnmarshalJSON accepts "unlimited", a number of milliseconds, or the same
// number as a string.
func (l *TradeTimeLimit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	parsed, err := ParseTradeTimeLimit(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// SharingBonus is the technology sharing bonus for a round. Variant is the
// bonus shown to the Yengii player.
type SharingBonus struct {
	Normal  int `json:"normal"`
	Variant int `json:"variant"`
}

// TimerState is the externally visible state of a trade timer.
type TimerState string

const (
	TimerStateReady   TimerState = "ready"
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
	TimerStateDone    TimerState = "done"
)
