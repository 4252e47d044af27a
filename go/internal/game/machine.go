package game

import (
	"fmt"

	"github.com/mcdev12/sidereal/go/internal/models"
)

// Next returns the step that follows current. The selection is only
// consulted when leaving bidding, where Zeth adds the stealing sub phase.
func Next(current models.GameStep, selection models.FactionSelection) (models.GameStep, error) {
	if current.Scoring {
		return models.GameStep{}, fmt.Errorf("%w: scoring is the final step", ErrInvalidTransition)
	}
	if !current.Round.Valid() {
		return models.GameStep{}, fmt.Errorf("%w: %d", ErrInvalidRound, current.Round)
	}
	if !current.Phase.Valid() {
		return models.GameStep{}, fmt.Errorf("%w: malformed phase %q", ErrInvalidTransition, current.Phase.String())
	}

	round := current.Round
	switch current.Phase.Main {
	case models.MainPhaseTrade:
		return models.RoundStep(round, models.EconomyPhase()), nil
	case models.MainPhaseEconomy:
		return models.RoundStep(round, models.ConfluencePhase(models.SubPhaseSharing)), nil
	case models.MainPhaseConfluence:
		return nextInConfluence(round, current.Phase.Sub, selection)
	default:
		panic(fmt.Sprintf("unreachable main phase %q", current.Phase.Main))
	}
}

func nextInConfluence(round models.RoundID, sub models.SubPhase, selection models.FactionSelection) (models.GameStep, error) {
	switch sub {
	case models.SubPhaseSharing:
		return models.RoundStep(round, models.ConfluencePhase(models.SubPhaseBidding)), nil
	case models.SubPhaseBidding:
		if selection.Has(models.FactionZeth) {
			return models.RoundStep(round, models.ConfluencePhase(models.SubPhaseStealing)), nil
		}
		return advanceRound(round), nil
	case models.SubPhaseStealing:
		return advanceRound(round), nil
	default:
		panic(fmt.Sprintf("unreachable confluence sub phase %q", sub))
	}
}

func advanceRound(round models.RoundID) models.GameStep {
	if round >= models.FinalRound {
		return models.ScoringStep()
	}
	return models.RoundStep(round+1, models.TradePhase())
}

// Reachable returns every step of a game in order, scoring last.
func Reachable(selection models.FactionSelection) []models.GameStep {
	var steps []models.GameStep
	step := models.FirstStep()
	for {
		steps = append(steps, step)
		if step.Scoring {
			return steps
		}
		next, err := Next(step, selection)
		if err != nil {
			return steps
		}
		step = next
	}
}
