package game

import "errors"

var (
	// ErrConfiguration is returned when a game cannot start with the given setup
	ErrConfiguration = errors.New("invalid game configuration")

	// ErrParse is returned when a navigation descriptor does not decode to a step
	ErrParse = errors.New("invalid step descriptor")

	// ErrInvalidTransition is returned when a step has no successor
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidRound is returned for a round outside the game
	ErrInvalidRound = errors.New("invalid round")

	// ErrNoGame is returned for game commands issued from the main menu
	ErrNoGame = errors.New("no game in progress")

	// ErrNoTimer is returned for timer commands outside a timed trade phase
	ErrNoTimer = errors.New("no trade timer running")
)
