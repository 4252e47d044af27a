package rules

import (
	"fmt"

	"github.com/mcdev12/sidereal/go/internal/models"
)

// FactionNames are the ways a faction can be referred to.
type FactionNames struct {
	// Common is shared by the base game and expansion versions
	Common string `json:"common"`
	// Base is the full name of the base game version
	Base string `json:"base"`
	// Expansion is the full name of the Bifurcation version
	Expansion string `json:"expansion"`
	Shorthand string `json:"shorthand"`
}

// FullName returns the name of the faction for a variant.
func (n FactionNames) FullName(variant models.FactionVariant) string {
	if variant == models.FactionVariantExpansion {
		return n.Expansion
	}
	return n.Base
}

var factionNames = map[models.FactionID]FactionNames{
	models.FactionKit:     suffixed("Kt'zr'kt'rtl", "Adhocracy", "Technophiles", "Kit"),
	models.FactionCaylion: suffixed("Caylion", "Plutocracy", "Collaborative", ""),
	models.FactionKjas:    suffixed("Kjasjavikalimm", "Directorate", "Independent Nations", "Kjas"),
	models.FactionFaderan: renamed("Faderan", "Faderan Conclave", "Society of Falling Light"),
	models.FactionImdril:  renamed("Im'dril", "Im'dril Nomads", "Grand Fleet"),
	models.FactionEniet:   suffixed("Eni Et", "Ascendancy", "Engineers", ""),
	models.FactionUnity:   renamed("Unity", "Unity", "Deep Unity"),
	models.FactionYengii:  suffixed("Yengii", "Society", "Jii", ""),
	models.FactionZeth:    renamed("Zeth", "Zeth Anocracy", "Charity Syndicate"),
}

func suffixed(common, base, expansion, shorthand string) FactionNames {
	if shorthand == "" {
		shorthand = common
	}
	return FactionNames{
		Common:    common,
		Base:      common + " " + base,
		Expansion: common + " " + expansion,
		Shorthand: shorthand,
	}
}

func renamed(common, base, expansion string) FactionNames {
	return FactionNames{Common: common, Base: base, Expansion: expansion, Shorthand: common}
}

// NamesFor returns the names of a faction.
func NamesFor(id models.FactionID) (FactionNames, error) {
	names, ok := factionNames[id]
	if !ok {
		return FactionNames{}, fmt.Errorf("%w: unknown faction %q", ErrInvalidInput, id)
	}
	return names, nil
}
