package scenes

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"jyokai/internal/events"
	"jyokai/internal/timers"

	"github.com/rs/zerolog"
)

type Name string

const (
	MainMenu   = Name("MainMenu")
	EarthLevel = Name("EarthLevel")
	WaterLevel = Name("WaterLevel")
	FireLevel  = Name("FireLevel")
)

var ErrUnknownScene = errors.New("unknown scene")

type InputKind string

const (
	InputStart   = InputKind("start")
	InputCard    = InputKind("card")
	InputBubble  = InputKind("bubble")
	InputPointer = InputKind("pointer")
)

// Input is one player action. Index carries the card id or bubble index;
// X and Y carry a pointer position on the 1024x768 playfield.
type Input struct {
	Kind  InputKind
	Index int
	X     float64
	Y     float64
}

// Scene is the lifecycle every level implements. HandleInput is the only
// update step; everything else a scene does happens in timer callbacks.
type Scene interface {
	Name() Name
	Create()
	HandleInput(in Input)
	Teardown()
	Snapshot() any
}

// Env is what a scene gets from the controller. Timers is private to the
// scene instance and is cancelled before Teardown runs.
type Env struct {
	Bus    *events.Bus
	Timers *timers.Group
	Rand   *rand.Rand
	Start  func(Name)
	Log    zerolog.Logger
}

type Factory func(env Env) Scene

// Controller owns the active scene and switches between registered scenes.
type Controller struct {
	bus       *events.Bus
	sched     *timers.Scheduler
	rng       *rand.Rand
	log       zerolog.Logger
	factories map[Name]Factory
	current   Scene
	group     *timers.Group
	started   int
}

func NewController(bus *events.Bus, sched *timers.Scheduler, rng *rand.Rand, log zerolog.Logger) *Controller {
	return &Controller{
		bus:       bus,
		sched:     sched,
		rng:       rng,
		log:       log,
		factories: make(map[Name]Factory),
	}
}

func (c *Controller) Register(name Name, f Factory) {
	c.factories[name] = f
}

// Start tears down the active scene and constructs name from scratch.
func (c *Controller) Start(name Name) error {
	f, ok := c.factories[name]
	if !ok {
		return fmt.Errorf("starting %q: %w", name, ErrUnknownScene)
	}

	c.teardown()

	c.group = c.sched.Group()
	env := Env{
		Bus:    c.bus,
		Timers: c.group,
		Rand:   c.rng,
		Start:  c.request,
		Log:    c.log.With().Str("scene", string(name)).Logger(),
	}
	c.current = f(env)
	c.started++
	c.log.Debug().Str("scene", string(name)).Msg("scene started")
	c.bus.Emit(events.SceneStarted, string(name))
	c.current.Create()
	return nil
}

// request is the scene-switch hook handed to scenes. Scenes only ever ask
// for registered names, so a failure here is a wiring bug worth logging.
func (c *Controller) request(name Name) {
	if err := c.Start(name); err != nil {
		c.log.Error().Err(err).Msg("scene switch failed")
	}
}

// Stop tears down the active scene, leaving no scene running.
func (c *Controller) Stop() {
	c.teardown()
}

func (c *Controller) teardown() {
	if c.current == nil {
		return
	}
	c.group.Cancel()
	c.current.Teardown()
	c.current = nil
	c.group = nil
}

func (c *Controller) Current() Scene {
	return c.current
}

// HandleInput forwards in to the active scene.
func (c *Controller) HandleInput(in Input) {
	if c.current == nil {
		return
	}
	c.current.HandleInput(in)
}

// Starts counts scene constructions since the controller was created.
func (c *Controller) Starts() int {
	return c.started
}
