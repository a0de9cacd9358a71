package targets

import (
	"math/rand/v2"
	"testing"
)

func newTestStore() *Store {
	return NewStore(rand.New(rand.NewPCG(3, 4)))
}

func TestNewStore(t *testing.T) {
	s := newTestStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	list := s.GetList()
	if len(list) != 0 {
		t.Errorf("new store should be empty, got %d targets", len(list))
	}
}

func TestStore_Add(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 200; i++ {
		target := s.Add()
		if target.X < MinX || target.X > MaxX {
			t.Fatalf("target X = %d, out of bounds", target.X)
		}
		if target.Y < MinY || target.Y > MaxY {
			t.Fatalf("target Y = %d, out of bounds", target.Y)
		}
		if target.Hidden {
			t.Fatal("new target should not be hidden")
		}
	}
}

func TestStore_Add_SequentialIDs(t *testing.T) {
	s := newTestStore()
	t0 := s.Add()
	t1 := s.Add()
	t2 := s.Add()

	if t0.ID != 0 || t1.ID != 1 || t2.ID != 2 {
		t.Errorf("IDs = %d, %d, %d; want 0, 1, 2", t0.ID, t1.ID, t2.ID)
	}
}

func TestStore_Get(t *testing.T) {
	s := newTestStore()
	added := s.Add()

	got, ok := s.Get(added.ID)
	if !ok || got != added {
		t.Errorf("Get(%d) = %+v, %v; want %+v, true", added.ID, got, ok, added)
	}
	if _, ok := s.Get(42); ok {
		t.Error("Get should fail for nonexistent target")
	}
	if _, ok := s.Get(-1); ok {
		t.Error("Get should fail for negative id")
	}
}

func TestStore_HideAndReveal(t *testing.T) {
	s := newTestStore()
	s.Add()
	s.Add()

	if !s.Hide(1) {
		t.Fatal("Hide(1) = false, want true")
	}
	if s.Hide(1) {
		t.Error("hiding an already hidden target should fail")
	}
	if s.HiddenCount() != 1 {
		t.Errorf("HiddenCount = %d, want 1", s.HiddenCount())
	}

	if !s.Reveal(1, true) {
		t.Fatal("Reveal(1) = false, want true")
	}
	got, _ := s.Get(1)
	if got.Hidden || !got.Miss {
		t.Errorf("after reveal: %+v, want visible and marked as miss", got)
	}
}

func TestStore_Hide_Nonexistent(t *testing.T) {
	s := newTestStore()
	if s.Hide(999) {
		t.Error("Hide(999) = true, want false")
	}
	if s.Reveal(999, false) {
		t.Error("Reveal(999) = true, want false")
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore()
	s.Add()
	s.Add()
	s.Add()

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("after Clear(), got %d targets, want 0", s.Len())
	}

	// IDs should reset
	newTarget := s.Add()
	if newTarget.ID != 0 {
		t.Errorf("after Clear(), new ID = %d, want 0", newTarget.ID)
	}
}
