package scenes

import (
	"testing"
	"time"

	"scene-server/internal/domain"
)

func fallenOf(t *testing.T, s *sceneWorld) (domain.Handle, *FallenHuman) {
	t.Helper()
	hs := actorsOf(s.w, EntryFallenHumanMale)
	if len(hs) == 0 {
		t.Fatal("no fallen humans placed")
	}
	e, _ := s.w.Resolve(hs[0])
	fh, ok := e.Script.(*FallenHuman)
	if !ok {
		t.Fatalf("unexpected script %T", e.Script)
	}
	return hs[0], fh
}

func TestFallenHuman_RiseAndDescend(t *testing.T) {
	s := newSceneWorld(t)
	h, fh := fallenOf(t, s)
	e, _ := s.w.Resolve(h)
	ground := e.Pos.Z

	fh.DoAction(ActionRise)
	if e.AIAnimKit != AnimKitFallenHuman || fh.State() != FallenAscending {
		t.Fatalf("rise must set anim kit, got kit=%d state=%s", e.AIAnimKit, fh.State())
	}
	s.run(time.Second)
	if !e.Walking || e.Pos.Z != ground+RiseHeight {
		t.Errorf("ascend must walk up %.1f, got z=%f walking=%v", RiseHeight, e.Pos.Z, e.Walking)
	}

	fh.DoAction(ActionDescend)
	if e.Walking || e.AIAnimKit != AnimKitReset || e.Pos.Z != ground {
		t.Errorf("descend must run, reset kit and fall: %+v", e)
	}
	s.run(time.Second)
	if fh.State() != FallenTransformed || e.HasAura(SpellFeigned) {
		t.Errorf("transform expected after 1s, state=%s", fh.State())
	}

	s.run(1500 * time.Millisecond)
	if e.Pos.O != FacingSylvanas {
		t.Errorf("expected facing %f, got %f", FacingSylvanas, e.Pos.O)
	}
	s.run(2500 * time.Millisecond)
	if n := s.rec.count(domain.EventEmote, func(ev domain.SceneEvent) bool { return ev.Actor == h }); n != 1 {
		t.Errorf("expected one salute, got %d", n)
	}

	s.run(79 * time.Second)
	if _, ok := s.w.Resolve(h); !ok {
		t.Fatal("despawned too early")
	}
	s.run(time.Second)
	if _, ok := s.w.Resolve(h); ok {
		t.Error("must despawn 80s after salute")
	}
}

func TestFallenHuman_DoubleDescendTransformsOnce(t *testing.T) {
	s := newSceneWorld(t)
	h, fh := fallenOf(t, s)

	fh.DoAction(ActionDescend)
	s.run(200 * time.Millisecond)
	fh.DoAction(ActionDescend)
	s.run(10 * time.Second)

	casts := s.rec.count(domain.EventCast, func(ev domain.SceneEvent) bool {
		return ev.Actor == h && ev.Spell == SpellTrooperMasterScript
	})
	if casts != 1 {
		t.Errorf("transform must happen once, got %d", casts)
	}
	salutes := s.rec.count(domain.EventEmote, func(ev domain.SceneEvent) bool { return ev.Actor == h })
	if salutes != 1 {
		t.Errorf("expected one salute, got %d", salutes)
	}
}

func TestFallenHuman_RiseAfterTransformIsIgnored(t *testing.T) {
	s := newSceneWorld(t)
	h, fh := fallenOf(t, s)
	e, _ := s.w.Resolve(h)

	fh.DoAction(ActionRise)
	s.run(time.Second)
	fh.DoAction(ActionDescend)
	s.run(time.Second)
	if fh.State() != FallenTransformed {
		t.Fatalf("expected transformed, got %s", fh.State())
	}
	ground := e.Pos.Z

	fh.DoAction(ActionRise)
	if fh.State() != FallenTransformed {
		t.Errorf("rise after transform must keep state, got %s", fh.State())
	}
	if e.AIAnimKit == AnimKitFallenHuman {
		t.Error("rise after transform must not reapply the fallen anim kit")
	}
	s.run(time.Second)
	if e.Pos.Z != ground || fh.State() != FallenTransformed {
		t.Errorf("no ascend expected after transform, z=%f state=%s", e.Pos.Z, fh.State())
	}
}

func TestFallenHuman_Reset(t *testing.T) {
	s := newSceneWorld(t)
	_, fh := fallenOf(t, s)
	fh.DoAction(ActionDescend)
	s.run(2 * time.Second)
	fh.Reset()
	if fh.State() != FallenIdle {
		t.Errorf("reset must return to idle, got %s", fh.State())
	}
}

func TestTrooperVariant(t *testing.T) {
	tests := []struct {
		display uint32
		want    domain.SpellID
	}{
		{33978, 83150},
		{33980, 83163},
		{33979, 83164},
		{33981, 83165},
		{33982, 83152},
		{33983, 83166},
		{33984, 83167},
		{33985, 83168},
		{1, 83150},
	}
	for _, tt := range tests {
		if got := TrooperVariant(tt.display); got != tt.want {
			t.Errorf("display %d: expected %d, got %d", tt.display, tt.want, got)
		}
	}
}
