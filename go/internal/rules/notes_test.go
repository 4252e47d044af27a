package rules

import (
	"strings"
	"testing"

	"github.com/mcdev12/sidereal/go/internal/models"
)

func TestPhaseNotesSharingMentionsYengii(t *testing.T) {
	step := models.RoundStep(1, models.ConfluencePhase(models.SubPhaseSharing))

	without := PhaseNotes(step, models.FactionSelection{models.FactionKit: models.FactionVariantBase})
	if strings.Contains(without[0], "Yengii") {
		t.Errorf("sharing note %q mentions yengii when not in play", without[0])
	}

	with := PhaseNotes(step, models.FactionSelection{models.FactionYengii: models.FactionVariantBase})
	if !strings.Contains(with[0], "except Yengii") {
		t.Errorf("sharing note %q does not exclude yengii", with[0])
	}
}

func TestPhaseNotesBiddingFactionRules(t *testing.T) {
	step := models.RoundStep(3, models.ConfluencePhase(models.SubPhaseBidding))
	selection := models.FactionSelection{
		models.FactionKit:     models.FactionVariantBase,
		models.FactionCaylion: models.FactionVariantBase,
		models.FactionUnity:   models.FactionVariantBase,
		models.FactionZeth:    models.FactionVariantBase,
	}

	notes := PhaseNotes(step, selection)
	joined := strings.Join(notes, "\n")
	for _, want := range []string{"wins all colony bid ties", "worth half"} {
		if !strings.Contains(joined, want) {
			t.Errorf("bidding notes missing %q:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "may be split") {
		t.Errorf("bidding notes mention kjas when not in play:\n%s", joined)
	}
}

func TestNamesFor(t *testing.T) {
	names, err := NamesFor(models.FactionKit)
	if err != nil {
		t.Fatalf("NamesFor returned error: %v", err)
	}
	if names.Shorthand != "Kit" {
		t.Errorf("shorthand = %q, want Kit", names.Shorthand)
	}
	if got := names.FullName(models.FactionVariantExpansion); got != "Kt'zr'kt'rtl Technophiles" {
		t.Errorf("expansion name = %q", got)
	}
	if got := mustNames(t, models.FactionZeth).FullName(models.FactionVariantExpansion); got != "Charity Syndicate" {
		t.Errorf("zeth expansion name = %q", got)
	}

	for _, id := range models.AllFactions {
		if _, err := NamesFor(id); err != nil {
			t.Errorf("no names for %s", id)
		}
	}
	if _, err := NamesFor("vulcan"); err == nil {
		t.Error("unknown faction accepted")
	}
}

func mustNames(t *testing.T, id models.FactionID) FactionNames {
	t.Helper()
	names, err := NamesFor(id)
	if err != nil {
		t.Fatalf("NamesFor(%s): %v", id, err)
	}
	return names
}
