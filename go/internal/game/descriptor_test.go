package game

import (
	"errors"
	"testing"

	"github.com/mcdev12/sidereal/go/internal/models"
)

func TestDescriptorRoundTrip(t *testing.T) {
	for _, selection := range []models.FactionSelection{withoutZeth, withZeth} {
		for _, step := range Reachable(selection) {
			encoded := EncodeStep(step)
			decoded, err := DecodeStep(encoded)
			if err != nil {
				t.Fatalf("DecodeStep(%q) returned error: %v", encoded, err)
			}
			if decoded != step {
				t.Errorf("DecodeStep(EncodeStep(%s)) = %s", step, decoded)
			}
		}
	}
}

func TestEncodeStep(t *testing.T) {
	tests := []struct {
		step models.GameStep
		want string
	}{
		{models.FirstStep(), "round/1/phase/trade"},
		{models.RoundStep(4, models.EconomyPhase()), "round/4/phase/economy"},
		{models.RoundStep(6, models.ConfluencePhase(models.SubPhaseStealing)), "round/6/confluence/stealing"},
		{models.ScoringStep(), "scoring"},
	}

	for _, tt := range tests {
		if got := EncodeStep(tt.step); got != tt.want {
			t.Errorf("EncodeStep(%s) = %q, want %q", tt.step, got, tt.want)
		}
	}
}

func TestDecodeStepAcceptsSlashes(t *testing.T) {
	got, err := DecodeStep("/round/2/confluence/bidding/")
	if err != nil {
		t.Fatalf("DecodeStep returned error: %v", err)
	}
	if want := models.RoundStep(2, models.ConfluencePhase(models.SubPhaseBidding)); got != want {
		t.Errorf("DecodeStep = %s, want %s", got, want)
	}
}

func TestDecodeStepErrors(t *testing.T) {
	for _, descriptor := range []string{
		"",
		"round/7/phase/trade",
		"round/0/phase/trade",
		"round/x/phase/trade",
		"round/1/phase/sharing",
		"round/1/confluence/trade",
		"round/1/phase/scoring",
		"round/1/trade",
		"turn/1/phase/trade",
		"scoring/1",
	} {
		if _, err := DecodeStep(descriptor); !errors.Is(err, ErrParse) {
			t.Errorf("DecodeStep(%q) error = %v, want ErrParse", descriptor, err)
		}
	}
}
