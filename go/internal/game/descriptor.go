package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcdev12/sidereal/go/internal/models"
)

// ScoringDescriptor is the descriptor of the terminal step.
const ScoringDescriptor = "scoring"

// EncodeStep renders a step as a navigation descriptor:
// round/{n}/phase/{trade|economy}, round/{n}/confluence/{sub}, or scoring.
func EncodeStep(step models.GameStep) string {
	if step.Scoring {
		return ScoringDescriptor
	}
	if step.Phase.Main == models.MainPhaseConfluence {
		return fmt.Sprintf("round/%d/confluence/%s", step.Round, step.Phase.Sub)
	}
	return fmt.Sprintf("round/%d/phase/%s", step.Round, step.Phase.Main)
}

// DecodeStep parses a navigation descriptor. Leading and trailing slashes
// are ignored.
func DecodeStep(descriptor string) (models.GameStep, error) {
	trimmed := strings.Trim(descriptor, "/")
	if trimmed == ScoringDescriptor {
		return models.ScoringStep(), nil
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) != 4 || parts[0] != "round" {
		return models.GameStep{}, fmt.Errorf("%w: %q", ErrParse, descriptor)
	}

	round, err := parseRound(parts[1])
	if err != nil {
		return models.GameStep{}, err
	}
	phase, err := parsePhase(parts[2], parts[3])
	if err != nil {
		return models.GameStep{}, err
	}
	return models.RoundStep(round, phase), nil
}

func parseRound(s string) (models.RoundID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: round %q is not a number", ErrParse, s)
	}
	round := models.RoundID(n)
	if !round.Valid() {
		return 0, fmt.Errorf("%w: round number must be %d-%d, got %d", ErrParse, models.FirstRound, models.FinalRound, n)
	}
	return round, nil
}

func parsePhase(kind, token string) (models.Phase, error) {
	switch kind {
	case "phase":
		switch models.MainPhase(token) {
		case models.MainPhaseTrade:
			return models.TradePhase(), nil
		case models.MainPhaseEconomy:
			return models.EconomyPhase(), nil
		}
	case string(models.MainPhaseConfluence):
		switch sub := models.SubPhase(token); sub {
		case models.SubPhaseSharing, models.SubPhaseBidding, models.SubPhaseStealing:
			return models.ConfluencePhase(sub), nil
		}
	}
	return models.Phase{}, fmt.Errorf("%w: unknown game phase %s/%s", ErrParse, kind, token)
}
