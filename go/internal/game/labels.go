package game

import (
	"fmt"

	"github.com/mcdev12/sidereal/go/internal/models"
)

// RoundLabel is the heading used for a round.
func RoundLabel(round models.RoundID) string {
	if round >= models.FinalRound {
		return "Final"
	}
	return fmt.Sprintf("Round %d", round)
}

// NextRoundLabel labels the round entered when confluence finishes.
func NextRoundLabel(round models.RoundID) string {
	return RoundLabel(round + 1)
}

// Title is the page title for a step, e.g. "Round 2 Economy Phase".
func Title(step models.GameStep) string {
	if step.Scoring {
		return "Scoring"
	}
	switch step.Phase.Main {
	case models.MainPhaseTrade:
		return RoundLabel(step.Round) + " Trading Phase"
	case models.MainPhaseEconomy:
		return RoundLabel(step.Round) + " Economy Phase"
	default:
		return RoundLabel(step.Round) + " Confluence Phase"
	}
}

// ActionLabel labels the control that advances from step. expired reports
// whether the trade timer has run out.
func ActionLabel(step models.GameStep, selection models.FactionSelection, limit models.TradeTimeLimit, expired bool) string {
	if step.Scoring {
		return "Main Menu"
	}
	switch step.Phase.Main {
	case models.MainPhaseTrade:
		if expired || limit.Unlimited() {
			return "Economy Phase"
		}
		return "Skip"
	case models.MainPhaseEconomy:
		return "Finished"
	}

	switch {
	case step.Phase.Sub == models.SubPhaseSharing:
		return "Bidding"
	case step.Phase.Sub == models.SubPhaseBidding && selection.Has(models.FactionZeth):
		return "Stealing"
	case step.Round >= models.FinalRound:
		return "Scoring"
	case step.Round+1 >= models.FinalRound:
		return "Begin Final Round"
	default:
		return "Begin " + NextRoundLabel(step.Round)
	}
}
