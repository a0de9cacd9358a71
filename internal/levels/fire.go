package levels

import (
	"jyokai/internal/events"
	"jyokai/internal/scenes"
	"jyokai/internal/targets"
	"jyokai/internal/utility"
)

type SpotPhase string

const (
	SpotSetup      SpotPhase = "setup"
	SpotConcealing SpotPhase = "concealing"
	SpotAwaiting   SpotPhase = "awaiting"
	SpotResolved   SpotPhase = "resolved"
	SpotComplete   SpotPhase = "complete"
)

type GuessResult struct {
	Ignored bool
	Hit     bool
	Missing int
	Score   int
	Won     bool
}

// SpotRound is the spot-the-missing trial's state. Score carries over
// between rounds and drops to zero on any wrong guess.
type SpotRound struct {
	Markers *targets.Store
	Missing int
	Score   int
	Phase   SpotPhase

	radius float64
	win    int
}

func NewSpotRound(markers *targets.Store, radius float64, win int) *SpotRound {
	return &SpotRound{
		Markers: markers,
		Missing: -1,
		Phase:   SpotSetup,
		radius:  radius,
		win:     win,
	}
}

// Place discards the previous markers and lays out n new ones.
func (r *SpotRound) Place(n int) []targets.Target {
	r.Markers.Clear()
	for i := 0; i < n; i++ {
		r.Markers.Add()
	}
	r.Missing = -1
	r.Phase = SpotSetup
	return r.Markers.GetList()
}

func (r *SpotRound) BeginConceal() {
	r.Phase = SpotConcealing
}

// Conceal hides marker id. Only one marker per round is ever hidden.
func (r *SpotRound) Conceal(id int) bool {
	if r.Phase != SpotConcealing || r.Missing != -1 {
		return false
	}
	if !r.Markers.Hide(id) {
		return false
	}
	r.Missing = id
	return true
}

func (r *SpotRound) Open() {
	if r.Phase == SpotConcealing && r.Missing != -1 {
		r.Phase = SpotAwaiting
	}
}

// Guess scores a pointer position against the hidden marker. Positions off
// the playfield always miss.
func (r *SpotRound) Guess(x, y float64) GuessResult {
	if r.Phase != SpotAwaiting {
		return GuessResult{Ignored: true}
	}
	m, _ := r.Markers.Get(r.Missing)
	res := GuessResult{Missing: r.Missing}

	onField := x >= 0 && x <= targets.GameWidth && y >= 0 && y <= targets.GameHeight
	if onField && utility.Distance(x, y, float64(m.X), float64(m.Y)) < r.radius {
		r.Markers.Reveal(r.Missing, false)
		r.Score++
		res.Hit = true
		if r.Score >= r.win {
			r.Phase = SpotComplete
			res.Won = true
		} else {
			r.Phase = SpotResolved
		}
	} else {
		r.Markers.Reveal(r.Missing, true)
		r.Score = 0
		r.Phase = SpotResolved
	}
	res.Score = r.Score
	return res
}

type FireView struct {
	Scene   scenes.Name      `json:"scene"`
	Score   int              `json:"score"`
	Win     int              `json:"win"`
	Phase   SpotPhase        `json:"phase"`
	Markers []targets.Target `json:"markers"`
}

// Fire is the spot-the-missing trial.
type Fire struct {
	env   scenes.Env
	cfg   Config
	round *SpotRound
}

func NewFire(cfg Config) scenes.Factory {
	return func(env scenes.Env) scenes.Scene {
		return &Fire{env: env, cfg: cfg}
	}
}

func (f *Fire) Name() scenes.Name { return scenes.FireLevel }

func (f *Fire) Create() {
	f.round = NewSpotRound(targets.NewStore(f.env.Rand), f.cfg.FireHitRadius, f.cfg.FireWinScore)
	f.env.Bus.Emit(events.SceneReady, f)
	f.StartRound()
}

func (f *Fire) Round() *SpotRound {
	return f.round
}

func (f *Fire) StartRound() {
	markers := f.round.Place(f.cfg.FireMarkers)
	f.env.Bus.Emit(events.MarkersPlaced, markers)
	f.env.Timers.After(f.cfg.FireSetupDelay, f.storm)
}

// storm runs the concealment: the chosen marker vanishes at the midpoint and
// guesses open once the storm is over.
func (f *Fire) storm() {
	f.round.BeginConceal()
	f.env.Bus.Emit(events.FireStorm, (2 * f.cfg.FireStormHalf).Milliseconds())

	f.env.Timers.After(f.cfg.FireStormHalf, func() {
		id := f.env.Rand.IntN(f.round.Markers.Len())
		f.round.Conceal(id)
		f.env.Bus.Emit(events.MarkerHidden, id)

		f.env.Timers.After(f.cfg.FireStormHalf, func() {
			f.round.Open()
			f.env.Bus.Emit(events.InputEnabled, true)
		})
	})
}

func (f *Fire) HandleInput(in scenes.Input) {
	if in.Kind != scenes.InputPointer {
		return
	}
	f.RegisterGuess(in.X, in.Y)
}

func (f *Fire) RegisterGuess(x, y float64) {
	res := f.round.Guess(x, y)
	if res.Ignored {
		return
	}
	f.env.Bus.Emit(events.InputEnabled, false)

	if !res.Hit {
		f.env.Bus.Emit(events.MarkerRevealed, targets.Target{ID: res.Missing, Miss: true})
		f.env.Bus.Emit(events.ScreenShake, nil)
		f.env.Bus.Emit(events.FirePower, res.Score)
		f.env.Timers.After(f.cfg.FireRetryDelay, f.StartRound)
		return
	}

	f.env.Bus.Emit(events.MarkerRevealed, targets.Target{ID: res.Missing})
	f.env.Bus.Emit(events.FirePower, res.Score)
	f.env.Bus.Emit(events.ScreenFlash, nil)
	if res.Won {
		f.env.Log.Info().Msg("fire trial complete")
		f.env.Bus.Emit(events.TrialComplete, string(scenes.FireLevel))
		f.env.Bus.Emit(events.GameComplete, nil)
		return
	}
	f.env.Timers.After(f.cfg.FireNextDelay, f.StartRound)
}

func (f *Fire) Teardown() {
	f.round.Markers.Clear()
}

func (f *Fire) Snapshot() any {
	return FireView{
		Scene:   scenes.FireLevel,
		Score:   f.round.Score,
		Win:     f.cfg.FireWinScore,
		Phase:   f.round.Phase,
		Markers: f.round.Markers.GetList(),
	}
}
