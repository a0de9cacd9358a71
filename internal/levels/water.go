package levels

import (
	"time"

	"jyokai/internal/events"
	"jyokai/internal/scenes"
)

type RecallPhase string

const (
	RecallExtending RecallPhase = "extending"
	RecallPlaying   RecallPhase = "playing"
	RecallAwaiting  RecallPhase = "awaiting"
	RecallFailed    RecallPhase = "failed"
	RecallWon       RecallPhase = "won"
)

type Verdict int

const (
	StepIgnored Verdict = iota
	StepAccepted
	StepRoundCleared
	StepTrialWon
	StepWrong
)

// RecallState is the sequence-recall trial's state. The sequence only
// changes in the extending phase.
type RecallState struct {
	Sequence []int
	Cursor   int
	Round    int
	Phase    RecallPhase

	rounds int
}

func NewRecallState(rounds int) *RecallState {
	return &RecallState{Round: 1, Phase: RecallExtending, rounds: rounds}
}

// Extend appends step. It reports false outside the extending phase.
func (s *RecallState) Extend(step int) bool {
	if s.Phase != RecallExtending {
		return false
	}
	s.Sequence = append(s.Sequence, step)
	return true
}

// Reset starts the trial over at round one with an empty sequence.
func (s *RecallState) Reset() {
	s.Sequence = nil
	s.Cursor = 0
	s.Round = 1
	s.Phase = RecallExtending
}

func (s *RecallState) BeginPlayback() {
	s.Phase = RecallPlaying
	s.Cursor = 0
}

func (s *RecallState) EndPlayback() {
	s.Phase = RecallAwaiting
	s.Cursor = 0
}

// Submit checks pos against the next expected step.
func (s *RecallState) Submit(pos int) Verdict {
	if s.Phase != RecallAwaiting {
		return StepIgnored
	}
	if pos != s.Sequence[s.Cursor] {
		s.Phase = RecallFailed
		return StepWrong
	}

	s.Cursor++
	if s.Cursor < len(s.Sequence) {
		return StepAccepted
	}
	if s.Round >= s.rounds {
		s.Phase = RecallWon
		return StepTrialWon
	}
	s.Round++
	s.Phase = RecallExtending
	return StepRoundCleared
}

type WaterView struct {
	Scene  scenes.Name `json:"scene"`
	Round  int         `json:"round"`
	Rounds int         `json:"rounds"`
	Length int         `json:"length"`
	Cursor int         `json:"cursor"`
	Phase  RecallPhase `json:"phase"`
}

// Water is the sequence-recall trial.
type Water struct {
	env   scenes.Env
	cfg   Config
	state *RecallState
}

func NewWater(cfg Config) scenes.Factory {
	return func(env scenes.Env) scenes.Scene {
		return &Water{env: env, cfg: cfg}
	}
}

func (w *Water) Name() scenes.Name { return scenes.WaterLevel }

func (w *Water) Create() {
	w.state = NewRecallState(w.cfg.WaterRounds)
	w.env.Bus.Emit(events.SceneReady, w)
	w.env.Timers.After(w.cfg.WaterStartDelay, w.startNewLevel)
}

func (w *Water) State() *RecallState {
	return w.state
}

func (w *Water) startNewLevel() {
	w.state.Reset()
	w.nextRound()
}

// nextRound extends the sequence and plays it back. Outside the extending
// phase it does nothing.
func (w *Water) nextRound() {
	if !w.extend() {
		return
	}
	w.playback()
}

func (w *Water) extend() bool {
	if !w.state.Extend(w.env.Rand.IntN(w.cfg.WaterPositions)) {
		return false
	}
	w.env.Bus.Emit(events.WaterRound, w.state.Round)
	return true
}

func (w *Water) playback() {
	w.state.BeginPlayback()
	w.env.Bus.Emit(events.InputEnabled, false)

	for i, step := range w.state.Sequence {
		at := w.cfg.WaterBaseDelay + time.Duration(i)*w.cfg.WaterStepPace
		w.env.Timers.After(at, func() {
			w.env.Bus.Emit(events.SequenceStep, step)
		})
	}

	end := w.cfg.WaterBaseDelay + time.Duration(len(w.state.Sequence))*w.cfg.WaterStepPace
	w.env.Timers.After(end, func() {
		w.state.EndPlayback()
		w.env.Bus.Emit(events.InputEnabled, true)
	})
}

func (w *Water) HandleInput(in scenes.Input) {
	if in.Kind != scenes.InputBubble {
		return
	}
	w.SubmitStep(in.Index)
}

func (w *Water) SubmitStep(pos int) {
	v := w.state.Submit(pos)
	if v == StepIgnored {
		return
	}
	w.env.Bus.Emit(events.BubbleFlash, pos)

	switch v {
	case StepRoundCleared:
		w.env.Bus.Emit(events.InputEnabled, false)
		w.env.Timers.After(w.cfg.WaterRoundDelay, w.nextRound)
	case StepTrialWon:
		w.env.Bus.Emit(events.InputEnabled, false)
		w.env.Log.Info().Int("round", w.state.Round).Msg("water trial complete")
		w.env.Bus.Emit(events.TrialComplete, string(scenes.WaterLevel))
		w.env.Timers.After(w.cfg.WaterAdvance, func() {
			w.env.Start(scenes.FireLevel)
		})
	case StepWrong:
		w.env.Bus.Emit(events.InputEnabled, false)
		w.env.Bus.Emit(events.BubbleError, pos)
		w.env.Timers.After(w.cfg.WaterFailDelay, w.startNewLevel)
	}
}

func (w *Water) Teardown() {}

func (w *Water) Snapshot() any {
	return WaterView{
		Scene:  scenes.WaterLevel,
		Round:  w.state.Round,
		Rounds: w.cfg.WaterRounds,
		Length: len(w.state.Sequence),
		Cursor: w.state.Cursor,
		Phase:  w.state.Phase,
	}
}
