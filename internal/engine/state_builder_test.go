package engine

import (
	"testing"
	"time"

	"scene-server/internal/domain"
)

func TestBuildEventView(t *testing.T) {
	actor := domain.PackHandle(domain.TypeCreature, 44365, 2)
	ev := domain.SceneEvent{
		Type:   domain.EventMove,
		At:     1250 * time.Millisecond,
		Actor:  actor,
		Motion: domain.MotionJump,
		Pos:    &domain.Position{X: 1, Y: 2, Z: 3, O: 0.5},
	}

	v := BuildEventView(ev)
	if v.Type != "MOVE" || v.AtMs != 1250 || v.Motion != "JUMP" {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Actor != actor.Key() || v.Target != "" {
		t.Errorf("unexpected ids %q / %q", v.Actor, v.Target)
	}
	if v.Pos == nil || v.Pos.Z != 3 || v.Pos.O != 0.5 {
		t.Errorf("unexpected pos %+v", v.Pos)
	}

	talk := BuildEventView(domain.SceneEvent{Type: domain.EventTalk, Actor: actor, Target: actor, Line: 2, Text: "Rise, Forsaken!"})
	if talk.Motion != "" || talk.Pos != nil || talk.Target != actor.Key() || talk.Text != "Rise, Forsaken!" {
		t.Errorf("unexpected talk view %+v", talk)
	}
}
