package models

// Preferences is the configuration remembered between games.
type Preferences struct {
	Factions       FactionSelection `json:"factions"`
	TradeTimeLimit TradeTimeLimit   `json:"trade_time_limit"`
}

// DefaultPreferences applies when nothing has been saved.
func DefaultPreferences() Preferences {
	return Preferences{
		Factions:       FactionSelection{},
		TradeTimeLimit: DefaultTradeTimeLimit,
	}
}
