package levels

import (
	"math/rand/v2"

	"jyokai/internal/events"
	"jyokai/internal/scenes"
	"jyokai/internal/utility"
)

var palette = [...]uint32{
	0xff0000, 0x00ff00, 0x0000ff, 0xffff00,
	0xff00ff, 0x00ffff, 0xffa500, 0x7744aa,
}

const (
	pairCount = len(palette)
	cardCount = pairCount * 2
	noCard    = -1
)

type Card struct {
	ID       int
	Value    uint32
	Revealed bool
	Matched  bool
}

type MatchState int

const (
	MatchIdle MatchState = iota
	MatchOneRevealed
	MatchResolving
)

type Selection int

const (
	SelectIgnored Selection = iota
	SelectFirst
	SelectPair
)

// Resolution is the outcome of comparing the two held cards.
type Resolution struct {
	OK       bool // false when there was no pair to resolve
	Matched  bool
	A, B     int
	Complete bool // set on the resolution that matched the last pair
}

// MatchBoard is the matching trial's state: sixteen cards holding eight
// values twice each, and at most two revealed unmatched selections.
type MatchBoard struct {
	Cards        []Card
	Moves        int
	MatchedPairs int

	first    int
	second   int
	locked   bool
	complete bool
}

func NewMatchBoard(r *rand.Rand) *MatchBoard {
	values := make([]uint32, 0, cardCount)
	for _, v := range palette {
		values = append(values, v, v)
	}
	r.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	b := &MatchBoard{
		Cards:  make([]Card, cardCount),
		first:  noCard,
		second: noCard,
	}
	for i, v := range values {
		b.Cards[i] = Card{ID: i, Value: v}
	}
	return b
}

func (b *MatchBoard) State() MatchState {
	switch {
	case b.locked:
		return MatchResolving
	case b.first != noCard:
		return MatchOneRevealed
	default:
		return MatchIdle
	}
}

// Held is the number of revealed, unmatched selections.
func (b *MatchBoard) Held() int {
	n := 0
	if b.first != noCard {
		n++
	}
	if b.second != noCard {
		n++
	}
	return n
}

func (b *MatchBoard) Locked() bool {
	return b.locked
}

func (b *MatchBoard) Complete() bool {
	return b.complete
}

// Select reveals card id. Locked input, matched cards, unknown ids and the
// already held first card are ignored.
func (b *MatchBoard) Select(id int) Selection {
	if b.locked || id < 0 || id >= len(b.Cards) {
		return SelectIgnored
	}
	card := &b.Cards[id]
	if card.Matched || id == b.first {
		return SelectIgnored
	}

	card.Revealed = true
	if b.first == noCard {
		b.first = id
		return SelectFirst
	}
	b.second = id
	b.locked = true
	b.Moves++
	return SelectPair
}

// Resolve compares the held pair and unlocks input.
func (b *MatchBoard) Resolve() Resolution {
	if !b.locked || b.first == noCard || b.second == noCard {
		return Resolution{}
	}
	a, c := &b.Cards[b.first], &b.Cards[b.second]
	res := Resolution{OK: true, A: a.ID, B: c.ID}

	if a.Value == c.Value {
		a.Matched, c.Matched = true, true
		b.MatchedPairs++
		res.Matched = true
		if b.MatchedPairs == pairCount && !b.complete {
			b.complete = true
			res.Complete = true
		}
	} else {
		a.Revealed, c.Revealed = false, false
	}

	b.first, b.second = noCard, noCard
	b.locked = false
	return res
}

type CardView struct {
	ID      int    `json:"id"`
	Color   string `json:"color,omitempty"`
	Matched bool   `json:"matched,omitempty"`
}

type EarthView struct {
	Scene        scenes.Name `json:"scene"`
	Moves        int         `json:"moves"`
	MatchedPairs int         `json:"matchedPairs"`
	Locked       bool        `json:"locked"`
	Cards        []CardView  `json:"cards"`
}

// Earth is the matching trial.
type Earth struct {
	env   scenes.Env
	cfg   Config
	board *MatchBoard
}

func NewEarth(cfg Config) scenes.Factory {
	return func(env scenes.Env) scenes.Scene {
		return &Earth{env: env, cfg: cfg}
	}
}

func (e *Earth) Name() scenes.Name { return scenes.EarthLevel }

func (e *Earth) Create() {
	e.board = NewMatchBoard(e.env.Rand)
	e.env.Bus.Emit(events.SceneReady, e)
}

func (e *Earth) Board() *MatchBoard {
	return e.board
}

func (e *Earth) HandleInput(in scenes.Input) {
	if in.Kind != scenes.InputCard {
		return
	}
	e.SelectCard(in.Index)
}

func (e *Earth) SelectCard(id int) {
	switch e.board.Select(id) {
	case SelectIgnored:
		return
	case SelectFirst:
		e.reveal(id)
	case SelectPair:
		e.reveal(id)
		e.env.Bus.Emit(events.EarthMoves, e.board.Moves)
		e.env.Timers.After(e.cfg.MatchDelay, e.resolve)
	}
}

func (e *Earth) reveal(id int) {
	e.env.Bus.Emit(events.CardRevealed, CardView{
		ID:    id,
		Color: utility.ColorHex(e.board.Cards[id].Value),
	})
}

func (e *Earth) resolve() {
	res := e.board.Resolve()
	if !res.OK {
		return
	}
	if !res.Matched {
		e.env.Bus.Emit(events.CardsConcealed, [2]int{res.A, res.B})
		return
	}

	e.env.Bus.Emit(events.CardsMatched, [2]int{res.A, res.B})
	if res.Complete {
		e.env.Log.Info().Int("moves", e.board.Moves).Msg("earth trial complete")
		e.env.Bus.Emit(events.TrialComplete, string(scenes.EarthLevel))
		e.env.Timers.After(e.cfg.EarthAdvance, func() {
			e.env.Start(scenes.WaterLevel)
		})
	}
}

func (e *Earth) Teardown() {}

func (e *Earth) Snapshot() any {
	v := EarthView{
		Scene:        scenes.EarthLevel,
		Moves:        e.board.Moves,
		MatchedPairs: e.board.MatchedPairs,
		Locked:       e.board.Locked(),
		Cards:        make([]CardView, len(e.board.Cards)),
	}
	for i, c := range e.board.Cards {
		v.Cards[i] = CardView{ID: c.ID, Matched: c.Matched}
		if c.Revealed || c.Matched {
			v.Cards[i].Color = utility.ColorHex(c.Value)
		}
	}
	return v
}
