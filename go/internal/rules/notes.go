package rules

import (
	"github.com/mcdev12/sidereal/go/internal/models"
)

// PhaseNotes returns the rule reminders shown for a step.
func PhaseNotes(step models.GameStep, selection models.FactionSelection) []string {
	if step.Scoring {
		return []string{"Count victory points and break ties by total goods value"}
	}

	switch step.Phase.Main {
	case models.MainPhaseTrade:
		return []string{"Trade goods, technologies, and promises between players"}
	case models.MainPhaseEconomy:
		return []string{"Run all converters"}
	case models.MainPhaseConfluence:
		return confluenceNotes(step.Phase.Sub, selection)
	}
	return nil
}

func confluenceNotes(sub models.SubPhase, selection models.FactionSelection) []string {
	switch sub {
	case models.SubPhaseSharing:
		if selection.Has(models.FactionYengii) {
			return []string{"All players (except Yengii) announce invented technologies"}
		}
		return []string{"All players announce invented technologies"}
	case models.SubPhaseBidding:
		notes := []string{
			"Players bid for colonies and research teams",
			"Tiebreakers: fewest cards of that type, then highest bid tiebreaker value",
		}
		if selection.Has(models.FactionKit) {
			notes = append(notes, "Kt'zr'kt'rtl wins all colony bid ties")
		}
		if selection.Has(models.FactionCaylion) {
			notes = append(notes, "Caylion colony bids are worth half")
		}
		if selection.Has(models.FactionKjas) {
			notes = append(notes, "Kjasjavikalimm colony bids may be split")
		}
		return notes
	case models.SubPhaseStealing:
		return []string{"Zeth may use converters to steal from players they did not trade with this round"}
	}
	return nil
}
