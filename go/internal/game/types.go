package game

import (
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/rules"
	"github.com/mcdev12/sidereal/go/internal/trade"
)

// NewGameRequest starts a game from the main menu.
type NewGameRequest struct {
	Factions       models.FactionSelection `json:"factions"`
	TradeTimeLimit models.TradeTimeLimit   `json:"trade_time_limit"`
}

// State is a snapshot of the session for display. Outside a game only
// Preferences is set.
type State struct {
	SessionID   string                  `json:"session_id,omitempty"`
	InGame      bool                    `json:"in_game"`
	Step        *models.GameStep        `json:"step,omitempty"`
	Descriptor  string                  `json:"descriptor,omitempty"`
	Title       string                  `json:"title,omitempty"`
	RoundLabel  string                  `json:"round_label,omitempty"`
	ActionLabel string                  `json:"action_label,omitempty"`
	Bonus       *rules.RoundBonus       `json:"bonus,omitempty"`
	Notes       []string                `json:"notes,omitempty"`
	Factions    models.FactionSelection `json:"factions,omitempty"`
	TimeLimit   string                  `json:"trade_time_limit,omitempty"`
	Trade       *trade.Status           `json:"trade,omitempty"`
	Preferences models.Preferences      `json:"preferences"`
}
