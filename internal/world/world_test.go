package world

import (
	"errors"
	"testing"
	"time"

	"scene-server/internal/content"
	"scene-server/internal/domain"
	"scene-server/internal/script"
)

func TestSpawn_Template(t *testing.T) {
	w, rec := newTestWorld(t)

	h := mustSpawn(t, w, 4, domain.Position{X: 1})
	e, ok := w.Resolve(h)
	if !ok {
		t.Fatal("spawned actor must resolve")
	}
	if e.Name != "Target" || !e.AIEnabled || !e.HasAura(900) {
		t.Errorf("template not applied: %+v", e)
	}
	if e.DisplayID != 10 && e.DisplayID != 20 {
		t.Errorf("display id %d not from template", e.DisplayID)
	}
	if len(rec.ofType(domain.EventSpawn)) != 1 {
		t.Error("spawn event expected")
	}

	if _, err := w.Spawn(domain.NilHandle, 999, domain.Position{}, 0); !errors.Is(err, content.ErrUnknownCreature) {
		t.Errorf("expected ErrUnknownCreature, got %v", err)
	}
}

func TestSpawn_Lifetime(t *testing.T) {
	w, rec := newTestWorld(t)
	h, err := w.Spawn(domain.NilHandle, 2, domain.Position{}, 300*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	w.Tick(200 * time.Millisecond)
	if _, ok := w.Resolve(h); !ok {
		t.Fatal("actor removed too early")
	}
	w.Tick(100 * time.Millisecond)
	if _, ok := w.Resolve(h); ok {
		t.Error("actor must expire after its lifetime")
	}
	if len(rec.ofType(domain.EventDespawn)) != 1 {
		t.Error("despawn event expected")
	}
}

func TestDespawn(t *testing.T) {
	t.Run("Immediate", func(t *testing.T) {
		w, _ := newTestWorld(t)
		h := mustSpawn(t, w, 2, domain.Position{})
		w.Despawn(h, 0)
		if _, ok := w.Resolve(h); ok {
			t.Error("zero delay despawn must be immediate")
		}
		w.Despawn(h, 0) // повторный вызов для мертвого актора
	})

	t.Run("EarliestWins", func(t *testing.T) {
		w, _ := newTestWorld(t)
		h, _ := w.Spawn(domain.NilHandle, 2, domain.Position{}, 10*time.Second)
		w.Despawn(h, 500*time.Millisecond)
		w.Tick(500 * time.Millisecond)
		if _, ok := w.Resolve(h); ok {
			t.Error("earlier despawn request must win over the lifetime")
		}
	})
}

type shutdownScript struct {
	updates  int
	shutdown int
	order    *[]domain.Handle
	self     domain.Handle
}

func (s *shutdownScript) Update(time.Duration) {
	s.updates++
	if s.order != nil {
		*s.order = append(*s.order, s.self)
	}
}
func (s *shutdownScript) DoAction(int32) {}
func (s *shutdownScript) Shutdown()      { s.shutdown++ }

func TestRemove_CallsShutdown(t *testing.T) {
	w, _ := newTestWorld(t)
	var scripts []*shutdownScript
	w.RegisterCreatureScript(2, func(owner *domain.Entity, _ script.Services) (domain.Script, error) {
		s := &shutdownScript{self: owner.Handle}
		scripts = append(scripts, s)
		return s, nil
	})
	h := mustSpawn(t, w, 2, domain.Position{})

	w.Tick(100 * time.Millisecond)
	w.Despawn(h, 0)

	if len(scripts) != 1 || scripts[0].updates != 1 || scripts[0].shutdown != 1 {
		t.Errorf("unexpected script lifecycle %+v", scripts)
	}
}

func TestTick_ScriptOrder(t *testing.T) {
	w, _ := newTestWorld(t)
	var order []domain.Handle
	w.RegisterCreatureScript(2, func(owner *domain.Entity, _ script.Services) (domain.Script, error) {
		return &shutdownScript{self: owner.Handle, order: &order}, nil
	})
	a := mustSpawn(t, w, 2, domain.Position{})
	b := mustSpawn(t, w, 2, domain.Position{X: 100})
	c := mustSpawn(t, w, 2, domain.Position{X: -100})

	w.Tick(time.Millisecond)
	w.Tick(time.Millisecond)

	want := []domain.Handle{a, b, c, a, b, c}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestFindNearest(t *testing.T) {
	w, _ := newTestWorld(t)
	origin := mustSpawn(t, w, 1, domain.Position{})
	far := mustSpawn(t, w, 2, domain.Position{X: 80})
	near := mustSpawn(t, w, 2, domain.Position{X: -40, Y: 30}) // другая клетка, дистанция 50
	mustSpawn(t, w, 3, domain.Position{X: 1})

	h, ok := w.FindNearest(origin, 2, 100)
	if !ok || h != near {
		t.Errorf("expected %s, got %s %v", near, h, ok)
	}

	w.Despawn(near, 0)
	if h, _ := w.FindNearest(origin, 2, 100); h != far {
		t.Errorf("expected %s after despawn, got %s", far, h)
	}
	if _, ok := w.FindNearest(origin, 2, 50); ok {
		t.Error("actor beyond radius must not be found")
	}
	if _, ok := w.FindNearest(origin, 1, 100); ok {
		t.Error("search must exclude the origin itself")
	}
	if _, ok := w.FindNearest(domain.NilHandle, 2, 100); ok {
		t.Error("missing origin must find nothing")
	}
}

func TestFindAll_AfterMove(t *testing.T) {
	w, _ := newTestWorld(t)
	origin := mustSpawn(t, w, 1, domain.Position{})
	a := mustSpawn(t, w, 4, domain.Position{X: 5})
	b := mustSpawn(t, w, 4, domain.Position{X: 200})

	if got := w.FindAll(origin, 4, 10); len(got) != 1 || got[0] != a {
		t.Fatalf("expected [%s], got %v", a, got)
	}

	w.MovePoint(b, 1, domain.Position{X: -3})
	w.MovePoint(a, 1, domain.Position{X: 300})

	got := w.FindAll(origin, 4, 10)
	if len(got) != 1 || got[0] != b {
		t.Errorf("spatial index not updated: %v", got)
	}
}

func TestAcceptQuest(t *testing.T) {
	w, _ := newTestWorld(t)
	giver := mustSpawn(t, w, 1, domain.Position{})
	speaker := mustSpawn(t, w, 2, domain.Position{})

	if _, err := w.AcceptQuest(domain.NilHandle, speaker, 1); !errors.Is(err, ErrNotQuestGiver) {
		t.Errorf("expected ErrNotQuestGiver, got %v", err)
	}
	if _, err := w.AcceptQuest(domain.NilHandle, domain.PackHandle(domain.TypeCreature, 1, 999), 1); !errors.Is(err, ErrUnknownActor) {
		t.Errorf("expected ErrUnknownActor, got %v", err)
	}
	if started, err := w.AcceptQuest(domain.NilHandle, giver, 1); err != nil || started {
		t.Errorf("giver without script: expected false/nil, got %v/%v", started, err)
	}
}

func TestPopulate(t *testing.T) {
	cat, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	w := New(cat, nil)
	if err := w.Populate(); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if w.Len() != len(cat.Placements) {
		t.Errorf("expected %d actors, got %d", len(cat.Placements), w.Len())
	}
}
