package game

// Rules holds the tunable constants of a session.
type Rules struct {
	HandSize         int
	SimulatedPlayers int
	MaxPicks         int
	MinPlayers       int
	DefaultPrompt    string
	BlankMarker      string
}

// DefaultRules returns the standard party rules: ten card hands, two
// simulated players in solo mode and at most three picks per prompt.
func DefaultRules() Rules {
	return Rules{
		HandSize:         10,
		SimulatedPlayers: 2,
		MaxPicks:         3,
		MinPlayers:       2,
		DefaultPrompt:    "The King demanded {blank} immediately.",
		BlankMarker:      DefaultBlankMarker,
	}
}

// withDefaults fills unset fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.HandSize <= 0 {
		r.HandSize = d.HandSize
	}
	if r.SimulatedPlayers <= 0 {
		r.SimulatedPlayers = d.SimulatedPlayers
	}
	if r.MaxPicks <= 0 {
		r.MaxPicks = d.MaxPicks
	}
	if r.MinPlayers <= 0 {
		r.MinPlayers = d.MinPlayers
	}
	if r.BlankMarker == "" {
		r.BlankMarker = d.BlankMarker
	}
	if r.DefaultPrompt == "" {
		r.DefaultPrompt = d.DefaultPrompt
	}
	return r
}
