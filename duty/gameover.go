package duty

type Phase int

const (
	PhaseRunning Phase = iota
	PhaseTimeUp
	PhaseOverload
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseTimeUp:
		return "time_up"
	case PhaseOverload:
		return "overload"
	case PhaseQuit:
		return "quit"
	default:
		return "unknown"
	}
}

func (p Phase) Terminal() bool {
	return p != PhaseRunning
}

// PhaseOf derives the phase from the game over flags. Only one flag is
// ever set because the evaluator stops at the first terminal phase.
func PhaseOf(st *State) Phase {
	switch {
	case st.GameOver.TimeExpired:
		return PhaseTimeUp
	case st.GameOver.TooManyAnomalies:
		return PhaseOverload
	case st.GameOver.QuitRequested:
		return PhaseQuit
	default:
		return PhaseRunning
	}
}

type Evaluator struct {
	maxSeconds   int
	maxAnomalies int
}

func NewEvaluator(settings Settings) Evaluator {
	return Evaluator{
		maxSeconds:   settings.MaxSeconds,
		maxAnomalies: settings.MaxAnomalies,
	}
}

// Evaluate checks the shift's terminal conditions. The time limit is
// checked before the anomaly cap. Terminal phases are absorbing.
func (e Evaluator) Evaluate(st *State) Phase {
	if p := PhaseOf(st); p.Terminal() {
		return p
	}

	switch {
	case st.Elapsed >= e.maxSeconds:
		st.GameOver.TimeExpired = true
	case st.Active >= e.maxAnomalies:
		st.GameOver.TooManyAnomalies = true
	}
	return PhaseOf(st)
}

// EvaluateTime only applies the time limit.
func (e Evaluator) EvaluateTime(st *State) Phase {
	if p := PhaseOf(st); p.Terminal() {
		return p
	}
	if st.Elapsed >= e.maxSeconds {
		st.GameOver.TimeExpired = true
	}
	return PhaseOf(st)
}

// Quit ends a running shift at the operator's request.
func (e Evaluator) Quit(st *State) Phase {
	if p := PhaseOf(st); p.Terminal() {
		return p
	}
	st.GameOver.QuitRequested = true
	return PhaseQuit
}
