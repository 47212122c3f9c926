package duty

import "fmt"

// GameOver flags are set once and never cleared.
type GameOver struct {
	TimeExpired      bool
	TooManyAnomalies bool
	QuitRequested    bool
}

func (g GameOver) Any() bool {
	return g.TimeExpired || g.TooManyAnomalies || g.QuitRequested
}

// State is the mutable part of a shift. Components receive it
// explicitly; nothing else holds simulation state.
type State struct {
	// In-game seconds since the shift started.
	Elapsed int
	// In-game seconds not yet consumed by spawn checks.
	SinceCheck int
	// In-game seconds since the last anomaly was created.
	SinceSpawn int

	Active int
	Found  int

	Camera   int
	GameOver GameOver
}

// ClockString formats the elapsed in-game time as HH:MM.
func (s *State) ClockString() string {
	return fmt.Sprintf("%02d:%02d", s.Elapsed/3600, (s.Elapsed%3600)/60)
}
