package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mcdev12/sidereal/go/internal/dbconfig"
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/settings"
)

// Seeds the postgres preference store from a JSON snapshot such as
// {"factions":{"kit":"base","zeth":"expansion"},"trade_time_limit":600000}.
func main() {
	path := "preferences.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	prefs := models.DefaultPreferences()
	if err := json.Unmarshal(data, &prefs); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}
	for id, variant := range prefs.Factions {
		if !id.Valid() || !variant.Valid() {
			fmt.Fprintf(os.Stderr, "invalid faction entry %s=%s\n", id, variant)
			os.Exit(1)
		}
	}

	// 2) Connect using shared dbconfig
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	store, err := settings.NewPostgresStore(ctx, cfg.DSN(), os.Getenv("PREFERENCES_CHANNEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// 3) Write both keys
	if err := settings.Save(ctx, store, prefs); err != nil {
		fmt.Fprintf(os.Stderr, "save preferences: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded preferences: %d factions, trade time limit %s\n",
		prefs.Factions.PlayerCount(), prefs.TradeTimeLimit)
}
