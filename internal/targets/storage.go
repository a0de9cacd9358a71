package targets

import (
	"math/rand/v2"
	"sync"

	"jyokai/internal/utility"
)

const (
	GameWidth  = 1024
	GameHeight = 768

	MinX = 200
	MaxX = 800
	MinY = 200
	MaxY = 600
)

type Store struct {
	mu      sync.Mutex
	rng     *rand.Rand
	targets []*Target
}

func NewStore(rng *rand.Rand) *Store {
	return &Store{rng: rng}
}

// Add places a new marker at a random position inside the placement area.
// IDs are positions in placement order, starting at 0.
func (s *Store) Add() Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := &Target{
		ID: len(s.targets),
		X:  utility.Between(s.rng, MinX, MaxX),
		Y:  utility.Between(s.rng, MinY, MaxY),
	}
	s.targets = append(s.targets, target)
	return *target
}

func (s *Store) Get(id int) (Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.targets) {
		return Target{}, false
	}
	return *s.targets[id], true
}

// Hide conceals a marker. It reports false if the marker does not exist or
// is already hidden.
func (s *Store) Hide(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.targets) || s.targets[id].Hidden {
		return false
	}
	s.targets[id].Hidden = true
	return true
}

func (s *Store) Reveal(id int, miss bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.targets) {
		return false
	}
	s.targets[id].Hidden = false
	s.targets[id].Miss = miss
	return true
}

func (s *Store) GetList() []Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	targetList := make([]Target, 0, len(s.targets))
	for _, t := range s.targets {
		targetList = append(targetList, *t)
	}
	return targetList
}

func (s *Store) HiddenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.targets {
		if t.Hidden {
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = nil
}
