package events

// Channels the status overlay listens on.
const (
	SceneReady   = "current-scene-ready"
	EarthMoves   = "earth-moves-updated"
	WaterRound   = "water-progress"
	FirePower    = "fire-power"
	GameComplete = "game-complete"
)

// View cue channels. The browser turns these into tweens and flashes.
const (
	SceneStarted   = "scene-started"
	CardRevealed   = "card-revealed"
	CardsMatched   = "cards-matched"
	CardsConcealed = "cards-concealed"
	TrialComplete  = "trial-complete"
	SequenceStep   = "sequence-step"
	InputEnabled   = "input-enabled"
	BubbleFlash    = "bubble-flash"
	BubbleError    = "bubble-error"
	MarkersPlaced  = "markers-placed"
	FireStorm      = "fire-storm"
	MarkerHidden   = "marker-hidden"
	MarkerRevealed = "marker-revealed"
	ScreenFlash    = "screen-flash"
	ScreenShake    = "screen-shake"
)

type Event struct {
	Channel string
	Payload any
}

type Listener func(Event)

// Bus is a publish/subscribe channel between the game logic and whatever
// renders it. Emit is synchronous and fire-and-forget; a listener cannot
// refuse or delay a notification.
//
// A Bus is not safe for concurrent use. It belongs to one session loop.
type Bus struct {
	listeners map[string][]Listener
	taps      []Listener
}

func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
	}
}

// On registers a listener for a single channel.
func (b *Bus) On(channel string, l Listener) {
	b.listeners[channel] = append(b.listeners[channel], l)
}

// Off drops every listener registered on channel.
func (b *Bus) Off(channel string) {
	delete(b.listeners, channel)
}

// Tap registers a listener that receives events from every channel.
func (b *Bus) Tap(l Listener) {
	b.taps = append(b.taps, l)
}

func (b *Bus) Emit(channel string, payload any) {
	ev := Event{Channel: channel, Payload: payload}
	for _, l := range b.listeners[channel] {
		l(ev)
	}
	for _, l := range b.taps {
		l(ev)
	}
}

// Listeners reports how many listeners are registered on channel.
func (b *Bus) Listeners(channel string) int {
	return len(b.listeners[channel])
}
