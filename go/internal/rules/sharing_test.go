package rules

import (
	"errors"
	"testing"

	"github.com/mcdev12/sidereal/go/internal/models"
)

func TestBonusFor(t *testing.T) {
	tests := []struct {
		name    string
		players int
		round   models.RoundID
		want    models.SharingBonus
	}{
		{"four players first round", 4, 1, models.SharingBonus{Normal: 6, Variant: 3}},
		{"nine players final round", 9, 6, models.SharingBonus{Normal: 0, Variant: 0}},
		{"seven players first round", 7, 1, models.SharingBonus{Normal: 7, Variant: 2}},
		{"five players final round", 5, 6, models.SharingBonus{Normal: 1, Variant: 0}},
		{"six players round three", 6, 3, models.SharingBonus{Normal: 5, Variant: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BonusFor(tt.players, tt.round)
			if err != nil {
				t.Fatalf("BonusFor(%d, %d) returned error: %v", tt.players, tt.round, err)
			}
			if got != tt.want {
				t.Errorf("BonusFor(%d, %d) = %+v, want %+v", tt.players, tt.round, got, tt.want)
			}
		})
	}
}

func TestBonusForRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		players int
		round   models.RoundID
	}{
		{3, 1},
		{10, 1},
		{4, 0},
		{4, 7},
	}

	for _, tt := range tests {
		if _, err := BonusFor(tt.players, tt.round); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("BonusFor(%d, %d) error = %v, want ErrInvalidInput", tt.players, tt.round, err)
		}
	}
}

func TestBonusesForShowsVariantOnlyWithYengii(t *testing.T) {
	selection := models.FactionSelection{
		models.FactionKit:     models.FactionVariantBase,
		models.FactionCaylion: models.FactionVariantBase,
		models.FactionKjas:    models.FactionVariantBase,
		models.FactionFaderan: models.FactionVariantBase,
	}

	got, err := BonusesFor(selection, 2)
	if err != nil {
		t.Fatalf("BonusesFor returned error: %v", err)
	}
	if got.ShowVariant {
		t.Error("variant bonus shown without yengii in the game")
	}
	if got.Bonus != (models.SharingBonus{Normal: 5, Variant: 2}) {
		t.Errorf("bonus = %+v", got.Bonus)
	}

	selection[models.FactionYengii] = models.FactionVariantExpansion
	got, err = BonusesFor(selection, 2)
	if err != nil {
		t.Fatalf("BonusesFor returned error: %v", err)
	}
	if !got.ShowVariant {
		t.Error("variant bonus hidden with yengii in the game")
	}
	if got.Bonus != (models.SharingBonus{Normal: 6, Variant: 2}) {
		t.Errorf("bonus = %+v", got.Bonus)
	}
}

func TestValidateTable(t *testing.T) {
	if err := ValidateTable(sharingTable); err != nil {
		t.Fatalf("built-in table rejected: %v", err)
	}

	short := make(map[int][]models.SharingBonus, len(sharingTable))
	for n, rounds := range sharingTable {
		short[n] = rounds
	}
	short[5] = short[5][:5]
	if err := ValidateTable(short); err == nil {
		t.Error("table with a five round row accepted")
	}

	missing := make(map[int][]models.SharingBonus, len(sharingTable))
	for n, rounds := range sharingTable {
		if n != 9 {
			missing[n] = rounds
		}
	}
	if err := ValidateTable(missing); err == nil {
		t.Error("table without a nine player row accepted")
	}
}
