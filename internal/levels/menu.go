package levels

import (
	"jyokai/internal/events"
	"jyokai/internal/scenes"
)

type MenuView struct {
	Scene scenes.Name `json:"scene"`
}

// Menu waits for the start button.
type Menu struct {
	env scenes.Env
}

func NewMenu() scenes.Factory {
	return func(env scenes.Env) scenes.Scene {
		return &Menu{env: env}
	}
}

func (m *Menu) Name() scenes.Name { return scenes.MainMenu }

func (m *Menu) Create() {
	m.env.Bus.Emit(events.SceneReady, m)
}

func (m *Menu) HandleInput(in scenes.Input) {
	if in.Kind == scenes.InputStart {
		m.env.Start(scenes.EarthLevel)
	}
}

func (m *Menu) Teardown() {}

func (m *Menu) Snapshot() any {
	return MenuView{Scene: scenes.MainMenu}
}

// Register installs the menu and the three trials on c.
func Register(c *scenes.Controller, cfg Config) {
	c.Register(scenes.MainMenu, NewMenu())
	c.Register(scenes.EarthLevel, NewEarth(cfg))
	c.Register(scenes.WaterLevel, NewWater(cfg))
	c.Register(scenes.FireLevel, NewFire(cfg))
}
