package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/sidereal/go/internal/models"
)

// Load reads the preferences from store. Absent keys fall back to
// models.DefaultPreferences.
func Load(ctx context.Context, store Store) (models.Preferences, error) {
	prefs := models.DefaultPreferences()

	raw, ok, err := store.Get(ctx, KeyFactions)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to read %s: %w", KeyFactions, err)
	}
	if ok {
		factions, err := decodeFactions(raw)
		if err != nil {
			return models.Preferences{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyFactions, err)
		}
		prefs.Factions = factions
	}

	raw, ok, err = store.Get(ctx, KeyTimer)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to read %s: %w", KeyTimer, err)
	}
	if ok {
		limit, err := models.ParseTradeTimeLimit(raw)
		if err != nil {
			return models.Preferences{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyTimer, err)
		}
		prefs.TradeTimeLimit = limit
	}

	return prefs, nil
}

// Save writes both preference keys.
func Save(ctx context.Context, store Store, prefs models.Preferences) error {
	factions := prefs.Factions
	if factions == nil {
		factions = models.FactionSelection{}
	}
	data, err := json.Marshal(factions)
	if err != nil {
		return fmt.Errorf("failed to encode factions: %w", err)
	}
	if err := store.Set(ctx, KeyFactions, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyFactions, err)
	}
	if err := store.Set(ctx, KeyTimer, prefs.TradeTimeLimit.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyTimer, err)
	}
	return nil
}

func decodeFactions(raw string) (models.FactionSelection, error) {
	var factions models.FactionSelection
	if err := json.Unmarshal([]byte(raw), &factions); err != nil {
		return nil, err
	}
	if factions == nil {
		return models.FactionSelection{}, nil
	}
	for id, variant := range factions {
		if !id.Valid() {
			return nil, fmt.Errorf("unknown faction %q", id)
		}
		if !variant.Valid() {
			return nil, fmt.Errorf("unknown variant %q for faction %s", variant, id)
		}
	}
	return factions, nil
}

// Repository adapts a Store to the game app.
type Repository struct {
	store Store
}

// NewRepository creates a Repository backed by store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// LoadPreferences reads the saved preferences.
func (r *Repository) LoadPreferences(ctx context.Context) (models.Preferences, error) {
	return Load(ctx, r.store)
}

// SavePreferences writes prefs.
func (r *Repository) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	return Save(ctx, r.store, prefs)
}
