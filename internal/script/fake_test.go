package script

import (
	"errors"
	"fmt"
	"time"

	"scene-server/internal/domain"
)

// fakeWorld - минимальная реализация всех сервисов с журналом вызовов.
type fakeWorld struct {
	actors  map[domain.Handle]*domain.Entity
	counter uint32
	calls   []string

	failSpawn bool
	despawned map[domain.Handle]time.Duration
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		actors:    make(map[domain.Handle]*domain.Entity),
		despawned: make(map[domain.Handle]time.Duration),
	}
}

func (w *fakeWorld) services() Services {
	return Services{Directory: w, Spawner: w, Presenter: w, Mover: w, Effects: w}
}

func (w *fakeWorld) add(entry domain.Entry, pos domain.Position) domain.Handle {
	w.counter++
	h := domain.PackHandle(domain.TypeCreature, entry, w.counter)
	w.actors[h] = &domain.Entity{Handle: h, Entry: entry, Pos: pos, AIEnabled: true}
	return h
}

func (w *fakeWorld) remove(h domain.Handle) { delete(w.actors, h) }

func (w *fakeWorld) record(format string, args ...any) {
	w.calls = append(w.calls, fmt.Sprintf(format, args...))
}

func (w *fakeWorld) FindNearest(from domain.Handle, entry domain.Entry, radius float64) (domain.Handle, bool) {
	origin, ok := w.actors[from]
	if !ok {
		return domain.NilHandle, false
	}
	best := domain.NilHandle
	bestDist := radius
	for h, e := range w.actors {
		if h == from || e.Entry != entry {
			continue
		}
		if d := origin.Pos.DistanceTo(e.Pos); d <= bestDist {
			best, bestDist = h, d
		}
	}
	return best, !best.IsEmpty()
}

func (w *fakeWorld) FindAll(from domain.Handle, entry domain.Entry, radius float64) []domain.Handle {
	origin, ok := w.actors[from]
	if !ok {
		return nil
	}
	var out []domain.Handle
	for h, e := range w.actors {
		if e.Entry == entry && origin.Pos.DistanceTo(e.Pos) <= radius {
			out = append(out, h)
		}
	}
	return out
}

func (w *fakeWorld) Resolve(h domain.Handle) (*domain.Entity, bool) {
	e, ok := w.actors[h]
	return e, ok
}

func (w *fakeWorld) Spawn(owner domain.Handle, entry domain.Entry, pos domain.Position, lifetime time.Duration) (domain.Handle, error) {
	if w.failSpawn {
		return domain.NilHandle, errors.New("spawn disabled")
	}
	h := w.add(entry, pos)
	w.actors[h].Summoner = owner
	w.record("spawn %d", entry)
	return h, nil
}

func (w *fakeWorld) Despawn(h domain.Handle, delay time.Duration) {
	w.despawned[h] = delay
	w.remove(h)
	w.record("despawn %s", h)
}

func (w *fakeWorld) Talk(h domain.Handle, line int) { w.record("talk %d %d", h.Entry(), line) }

func (w *fakeWorld) PlayOneShotAnimKit(h domain.Handle, kit domain.AnimKitID) {
	w.record("anim %d %d", h.Entry(), kit)
}

func (w *fakeWorld) SetAIAnimKit(h domain.Handle, kit domain.AnimKitID) {
	w.record("aianim %d %d", h.Entry(), kit)
}

func (w *fakeWorld) Emote(h domain.Handle, emote domain.EmoteID) {
	w.record("emote %d %d", h.Entry(), emote)
}

func (w *fakeWorld) SetNPCFlag(h domain.Handle, flag domain.NPCFlag, on bool) {
	w.record("flag %d %d %v", h.Entry(), flag, on)
}

func (w *fakeWorld) MovePoint(h domain.Handle, pointID uint32, dest domain.Position) {
	w.record("point %d %d", h.Entry(), pointID)
}

func (w *fakeWorld) MovePath(h domain.Handle, pathID uint32) {
	w.record("path %d %d", h.Entry(), pathID)
}

func (w *fakeWorld) MoveJump(h domain.Handle, dest domain.Position, speedXY, speedZ float64) {
	w.record("jump %d", h.Entry())
}

func (w *fakeWorld) MoveFall(h domain.Handle) { w.record("fall %d", h.Entry()) }

func (w *fakeWorld) SetFacing(h domain.Handle, o float64) { w.record("facing %d", h.Entry()) }

func (w *fakeWorld) FaceToward(h, target domain.Handle) {
	w.record("face %d %d", h.Entry(), target.Entry())
}

func (w *fakeWorld) SetWalk(h domain.Handle, walk bool) { w.record("walk %d %v", h.Entry(), walk) }

func (w *fakeWorld) Cast(caster domain.Handle, spell domain.SpellID, triggered bool) {
	w.record("cast %d %d", caster.Entry(), spell)
}

func (w *fakeWorld) Remove(target domain.Handle, spell domain.SpellID) {
	w.record("unaura %d %d", target.Entry(), spell)
}

func (w *fakeWorld) HasAura(target domain.Handle, spell domain.SpellID) bool { return false }
