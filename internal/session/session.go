package session

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"jyokai/internal/broadcast"
	"jyokai/internal/events"
	"jyokai/internal/levels"
	"jyokai/internal/metrics"
	"jyokai/internal/scenes"
	"jyokai/internal/timers"
	"jyokai/internal/wshub"

	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("session closed")

// idleWait bounds the loop's sleep when no task is pending.
const idleWait = time.Minute

// State is what clients see of a session at one instant.
type State struct {
	ID    string      `json:"id"`
	Scene scenes.Name `json:"scene"`
	View  any         `json:"view"`
}

// SceneInfo is the wire form of a current-scene-ready payload.
type SceneInfo struct {
	Scene scenes.Name `json:"scene"`
	View  any         `json:"view"`
}

// Session is one player's run through the trials. All game state is owned
// by a single loop goroutine; inputs and timer callbacks run there one at
// a time.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub

	bus   *events.Bus
	sched *timers.Scheduler
	ctrl  *scenes.Controller
	log   zerolog.Logger

	inbox     chan func()
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	lastSeen  atomic.Int64
}

func New(id string, cfg levels.Config, log zerolog.Logger) *Session {
	now := time.Now()
	s := &Session{
		ID:          id,
		CreatedAt:   now,
		Broadcaster: broadcast.NewBroadcaster(),
		Hub:         wshub.NewHub(),
		bus:         events.NewBus(),
		sched:       timers.New(),
		log:         log.With().Str("session", id).Logger(),
		inbox:       make(chan func()),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	s.lastSeen.Store(now.UnixNano())

	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), rand.Uint64()))
	s.ctrl = scenes.NewController(s.bus, s.sched, rng, s.log)
	levels.Register(s.ctrl, cfg)
	s.bus.Tap(s.forward)

	go s.loop()
	return s
}

func (s *Session) loop() {
	defer close(s.done)

	last := time.Now()
	advance := func() {
		now := time.Now()
		s.sched.Advance(now.Sub(last))
		last = now
	}

	if err := s.ctrl.Start(scenes.MainMenu); err != nil {
		s.log.Error().Err(err).Msg("starting menu")
	}

	timer := time.NewTimer(idleWait)
	defer timer.Stop()
	for {
		wait := idleWait
		if d, ok := s.sched.Next(); ok {
			wait = max(d-time.Since(last), 0)
		}
		timer.Reset(wait)

		select {
		case <-s.stop:
			s.ctrl.Stop()
			return
		case fn := <-s.inbox:
			advance()
			fn()
		case <-timer.C:
			advance()
		}
	}
}

// Do runs fn on the session loop and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func()) error {
	_, err := s.call(ctx, func() State {
		fn()
		return State{}
	})
	return err
}

// call runs fn on the loop and hands its result back over a buffered
// channel, so a caller that gives up early shares no memory with the loop.
func (s *Session) call(ctx context.Context, fn func() State) (State, error) {
	result := make(chan State, 1)
	task := func() {
		result <- fn()
	}

	select {
	case s.inbox <- task:
	case <-s.done:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	s.lastSeen.Store(time.Now().UnixNano())

	select {
	case st := <-result:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Input hands a player action to the active scene.
func (s *Session) Input(ctx context.Context, in scenes.Input) (State, error) {
	metrics.Inputs.WithLabelValues(string(in.Kind)).Inc()
	return s.call(ctx, func() State {
		s.ctrl.HandleInput(in)
		return s.state()
	})
}

// Restart goes back to the menu, discarding the current run.
func (s *Session) Restart(ctx context.Context) (State, error) {
	return s.call(ctx, func() State {
		if err := s.ctrl.Start(scenes.MainMenu); err != nil {
			s.log.Error().Err(err).Msg("restart")
		}
		return s.state()
	})
}

func (s *Session) Snapshot(ctx context.Context) (State, error) {
	return s.call(ctx, s.state)
}

func (s *Session) state() State {
	st := State{ID: s.ID}
	if sc := s.ctrl.Current(); sc != nil {
		st.Scene = sc.Name()
		st.View = sc.Snapshot()
	}
	return st
}

// forward relays every bus event to SSE subscribers and websocket clients.
// It runs on the loop goroutine, so snapshots taken here are consistent.
func (s *Session) forward(ev events.Event) {
	metrics.BusEvents.WithLabelValues(ev.Channel).Inc()

	payload := ev.Payload
	switch ev.Channel {
	case events.SceneReady:
		if sc, ok := payload.(scenes.Scene); ok {
			payload = SceneInfo{Scene: sc.Name(), View: sc.Snapshot()}
		}
	case events.SceneStarted:
		if name, ok := payload.(string); ok {
			metrics.SceneStarts.WithLabelValues(name).Inc()
		}
	case events.TrialComplete:
		if name, ok := payload.(string); ok {
			metrics.TrialCompletions.WithLabelValues(name).Inc()
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("channel", ev.Channel).Msg("encoding event")
		return
	}
	s.Broadcaster.Broadcast(ev.Channel, string(data))
	s.Hub.Broadcast(wshub.ServerMessage{Type: ev.Channel, Data: data})
}

// LastSeen is the time of the last request handled by the session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Close stops the loop, tears down the active scene and disconnects clients.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
		s.Broadcaster.Close()
		s.Hub.Close()
		s.log.Debug().Msg("session closed")
	})
}

// Done is closed once the session loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
