package rules

import (
	"fmt"

	"github.com/mcdev12/sidereal/go/internal/models"
)

// sharingTable holds the sharing bonus for each player count, one entry per
// round.
var sharingTable = map[int][]models.SharingBonus{
	4: {
		{Normal: 6, Variant: 3},
		{Normal: 5, Variant: 2},
		{Normal: 4, Variant: 2},
		{Normal: 4, Variant: 1},
		{Normal: 3, Variant: 1},
		{Normal: 2, Variant: 0},
	},
	5: {
		{Normal: 6, Variant: 3},
		{Normal: 6, Variant: 2},
		{Normal: 5, Variant: 1},
		{Normal: 4, Variant: 1},
		{Normal: 3, Variant: 1},
		{Normal: 1, Variant: 0},
	},
	6: {
		{Normal: 6, Variant: 3},
		{Normal: 6, Variant: 2},
		{Normal: 5, Variant: 1},
		{Normal: 4, Variant: 1},
		{Normal: 2, Variant: 0},
		{Normal: 1, Variant: 0},
	},
	7: {
		{Normal: 7, Variant: 2},
		{Normal: 6, Variant: 2},
		{Normal: 5, Variant: 1},
		{Normal: 4, Variant: 1},
		{Normal: 2, Variant: 0},
		{Normal: 0, Variant: 0},
	},
	8: {
		{Normal: 7, Variant: 2},
		{Normal: 6, Variant: 2},
		{Normal: 5, Variant: 1},
		{Normal: 4, Variant: 1},
		{Normal: 2, Variant: 0},
		{Normal: 0, Variant: 0},
	},
	9: {
		{Normal: 7, Variant: 2},
		{Normal: 6, Variant: 2},
		{Normal: 5, Variant: 1},
		{Normal: 4, Variant: 1},
		{Normal: 2, Variant: 0},
		{Normal: 0, Variant: 0},
	},
}

// BonusFor returns the sharing bonus for a player count in a round.
func BonusFor(playerCount int, round models.RoundID) (models.SharingBonus, error) {
	if !round.Valid() {
		return models.SharingBonus{}, fmt.Errorf("%w: round must be %d-%d, got %d",
			ErrInvalidInput, models.FirstRound, models.FinalRound, round)
	}
	rounds, ok := sharingTable[playerCount]
	if !ok {
		return models.SharingBonus{}, fmt.Errorf("%w: player count must be %d-%d, got %d",
			ErrInvalidInput, models.MinPlayers, models.MaxPlayers, playerCount)
	}
	return rounds[round-1], nil
}

// RoundBonus is the bonus display for one round of a game.
type RoundBonus struct {
	Bonus models.SharingBonus `json:"bonus"`

	// ShowVariant is set when the Yengii player is in the game.
	ShowVariant bool `json:"show_variant"`
}

// BonusesFor returns the bonus display for the selection in a round.
func BonusesFor(selection models.FactionSelection, round models.RoundID) (RoundBonus, error) {
	bonus, err := BonusFor(selection.PlayerCount(), round)
	if err != nil {
		return RoundBonus{}, err
	}
	return RoundBonus{
		Bonus:       bonus,
		ShowVariant: selection.Has(models.FactionYengii),
	}, nil
}

// ValidateTable checks that a bonus table covers every player count with
// exactly one entry per round. A table of any other shape is a configuration
// error, never truncated.
func ValidateTable(table map[int][]models.SharingBonus) error {
	for n := models.MinPlayers; n <= models.MaxPlayers; n++ {
		rounds, ok := table[n]
		if !ok {
			return fmt.Errorf("sharing table has no row for %d players", n)
		}
		if len(rounds) != int(models.FinalRound) {
			return fmt.Errorf("sharing table row for %d players has %d rounds, want %d",
				n, len(rounds), models.FinalRound)
		}
		for i, b := range rounds {
			if b.Normal < 0 || b.Variant < 0 {
				return fmt.Errorf("sharing table row for %d players has a negative bonus in round %d", n, i+1)
			}
		}
	}
	if len(table) != models.MaxPlayers-models.MinPlayers+1 {
		return fmt.Errorf("sharing table has %d rows, want %d", len(table), models.MaxPlayers-models.MinPlayers+1)
	}
	return nil
}

func init() {
	if err := ValidateTable(sharingTable); err != nil {
		panic(err)
	}
}
