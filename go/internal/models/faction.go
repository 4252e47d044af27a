package models

import "fmt"

// FactionID identifies one of the nine playable factions.
type FactionID string

const (
	FactionKit     FactionID = "kit"
	FactionCaylion FactionID = "caylion"
	FactionKjas    FactionID = "kjas"
	FactionFaderan FactionID = "faderan"
	FactionImdril  FactionID = "imdril"
	FactionEniet   FactionID = "eniet"
	FactionUnity   FactionID = "unity"
	FactionYengii  FactionID = "yengii"
	FactionZeth    FactionID = "zeth"
)

// AllFactions lists every faction in table order.
var AllFactions = []FactionID{
	FactionKit,
	FactionCaylion,
	FactionKjas,
	FactionFaderan,
	FactionImdril,
	FactionEniet,
	FactionUnity,
	FactionYengii,
	FactionZeth,
}

// Player count bounds for a game.
const (
	MinPlayers = 4
	MaxPlayers = 9
)

// Valid reports whether f is one of the known factions.
func (f FactionID) Valid() bool {
	return f.order() >= 0
}

func (f FactionID) order() int {
	for i, id := range AllFactions {
		if id == f {
			return i
		}
	}
	return -1
}

// FactionVariant selects the base game or expansion side of a faction.
type FactionVariant string

const (
	FactionVariantBase      FactionVariant = "base"
	FactionVariantExpansion FactionVariant = "expansion"
)

// Valid reports whether v is a known variant.
func (v FactionVariant) Valid() bool {
	return v == FactionVariantBase || v == FactionVariantExpansion
}

// FactionSelection maps each faction in play to the variant being used.
type FactionSelection map[FactionID]FactionVariant

// Has reports whether the faction is in play.
func (s FactionSelection) Has(id FactionID) bool {
	_, ok := s[id]
	return ok
}

// PlayerCount is the number of factions in play.
func (s FactionSelection) PlayerCount() int {
	return len(s)
}

// Clone returns an independent copy of the selection.
func (s FactionSelection) Clone() FactionSelection {
	out := make(FactionSelection, len(s))
	for id, v := range s {
		out[id] = v
	}
	return out
}

// Validate checks the entries and the player count for starting a game.
func (s FactionSelection) Validate() error {
	for id, v := range s {
		if !id.Valid() {
			return fmt.Errorf("unknown faction %q", id)
		}
		if !v.Valid() {
			return fmt.Errorf("unknown variant %q for faction %s", v, id)
		}
	}
	if n := len(s); n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("player count must be between %d and %d, got %d", MinPlayers, MaxPlayers, n)
	}
	return nil
}
