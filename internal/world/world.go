// Package world - in-memory реализация движковых сервисов: каталог акторов с
// пространственным индексом, жизненный цикл спавнов, презентация, движение,
// статус-эффекты и привязка скриптов к акторам.
//
// World не потокобезопасен. Все вызовы идут из тика инстанса под его локом.
package world

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/internal/content"
	"scene-server/internal/domain"
	"scene-server/internal/engine/schedule"
	"scene-server/internal/script"
	"scene-server/pkg/logger"
)

// CellSize - размер клетки пространственного индекса (в ярдах).
const CellSize = 32.0

type cellKey struct {
	X, Y int
}

func cellOf(p domain.Position) cellKey {
	return cellKey{X: int(math.Floor(p.X / CellSize)), Y: int(math.Floor(p.Y / CellSize))}
}

type World struct {
	catalog *content.Catalog
	sink    domain.Sink

	now     time.Duration
	counter uint32

	// EntityRegistry: Handle -> актор
	actors map[domain.Handle]*domain.Entity
	// SpatialHash: клетка -> акторы в ней
	cells map[cellKey][]*domain.Entity
	// высота спавна, на нее приземляет MoveFall
	ground map[domain.Handle]float64

	despawns *schedule.Queue[domain.Handle]

	creatureScripts map[domain.Entry]ScriptFactory
	auraScripts     map[domain.SpellID]AuraScript
	spellScripts    map[domain.SpellID]SpellScript

	log *logrus.Entry
}

func New(catalog *content.Catalog, sink domain.Sink) *World {
	return &World{
		catalog:         catalog,
		sink:            sink,
		actors:          make(map[domain.Handle]*domain.Entity),
		cells:           make(map[cellKey][]*domain.Entity),
		ground:          make(map[domain.Handle]float64),
		despawns:        schedule.New[domain.Handle](),
		creatureScripts: make(map[domain.Entry]ScriptFactory),
		auraScripts:     make(map[domain.SpellID]AuraScript),
		spellScripts:    make(map[domain.SpellID]SpellScript),
		log:             logger.Component("world"),
	}
}

// Services отдает мир как набор сервисов для скриптов.
func (w *World) Services() script.Services {
	return script.Services{
		Directory: w,
		Spawner:   w,
		Presenter: w,
		Mover:     w,
		Effects:   w,
	}
}

func (w *World) Catalog() *content.Catalog { return w.catalog }

// Now - время мира с момента создания.
func (w *World) Now() time.Duration { return w.now }

// SetSink подменяет получателя событий.
func (w *World) SetSink(sink domain.Sink) { w.sink = sink }

func (w *World) publish(ev domain.SceneEvent) {
	if w.sink == nil {
		return
	}
	ev.At = w.now
	w.sink.Publish(ev)
}

// --- TICK ---

// Tick продвигает мир на dt: длительности эффектов, затем скрипты, затем истекшие спавны.
func (w *World) Tick(dt time.Duration) {
	if dt < 0 {
		return
	}
	w.now += dt
	// часы удалений идут вместе с миром: Despawn из скриптов считается от текущего тика
	w.despawns.Advance(dt)

	w.tickAuras(dt)

	for _, h := range w.sortedHandles() {
		e, ok := w.actors[h]
		if !ok || e.Script == nil {
			continue
		}
		e.Script.Update(dt)
	}

	for {
		due := w.despawns.DrainDue()
		if len(due) == 0 {
			break
		}
		for _, ev := range due {
			if e, ok := w.actors[ev.Value]; ok {
				w.remove(e)
			}
		}
	}
}

func (w *World) sortedHandles() []domain.Handle {
	handles := make([]domain.Handle, 0, len(w.actors))
	for h := range w.actors {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// --- DIRECTORY ---

// Resolve ищет живого актора по ссылке.
func (w *World) Resolve(h domain.Handle) (*domain.Entity, bool) {
	e, ok := w.actors[h]
	return e, ok
}

// FindNearest возвращает ближайшего актора шаблона entry в радиусе от from (сам from исключен).
func (w *World) FindNearest(from domain.Handle, entry domain.Entry, radius float64) (domain.Handle, bool) {
	origin, ok := w.actors[from]
	if !ok {
		return domain.NilHandle, false
	}
	best := domain.NilHandle
	bestDist := radius * radius
	w.scan(origin.Pos, radius, func(e *domain.Entity) {
		if e.Handle == from || e.Entry != entry || e.Handle.Type() != domain.TypeCreature {
			return
		}
		d := origin.Pos.DistanceSquaredTo(e.Pos)
		// равные дистанции - меньший handle, чтобы поиск был детерминированным
		if d < bestDist || (d == bestDist && (best.IsEmpty() || e.Handle < best)) {
			best, bestDist = e.Handle, d
		}
	})
	return best, !best.IsEmpty()
}

// FindAll возвращает всех акторов шаблона entry в радиусе, отсортированных по handle.
func (w *World) FindAll(from domain.Handle, entry domain.Entry, radius float64) []domain.Handle {
	origin, ok := w.actors[from]
	if !ok {
		return nil
	}
	var out []domain.Handle
	r2 := radius * radius
	w.scan(origin.Pos, radius, func(e *domain.Entity) {
		if e.Entry != entry || e.Handle.Type() != domain.TypeCreature {
			return
		}
		if origin.Pos.DistanceSquaredTo(e.Pos) <= r2 {
			out = append(out, e.Handle)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// playersNear - игроки в радиусе от точки.
func (w *World) playersNear(p domain.Position, radius float64) []*domain.Entity {
	var out []*domain.Entity
	r2 := radius * radius
	w.scan(p, radius, func(e *domain.Entity) {
		if e.Handle.Type() == domain.TypePlayer && p.DistanceSquaredTo(e.Pos) <= r2 {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// scan обходит акторов во всех клетках, пересекающих квадрат радиуса.
func (w *World) scan(center domain.Position, radius float64, fn func(e *domain.Entity)) {
	if radius < 0 {
		return
	}
	lo := cellOf(domain.Position{X: center.X - radius, Y: center.Y - radius})
	hi := cellOf(domain.Position{X: center.X + radius, Y: center.Y + radius})
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for _, e := range w.cells[cellKey{x, y}] {
				fn(e)
			}
		}
	}
}

// Actors - копии всех акторов, упорядоченные по handle (для отладки).
func (w *World) Actors() []domain.Entity {
	out := make([]domain.Entity, 0, len(w.actors))
	for _, h := range w.sortedHandles() {
		e := *w.actors[h]
		e.Auras = make(map[domain.SpellID]*domain.Aura, len(w.actors[h].Auras))
		for id, a := range w.actors[h].Auras {
			cp := *a
			e.Auras[id] = &cp
		}
		out = append(out, e)
	}
	return out
}

// Len - количество живых акторов.
func (w *World) Len() int { return len(w.actors) }

// --- SPATIAL INDEX ---

func (w *World) register(e *domain.Entity) {
	w.actors[e.Handle] = e
	if _, ok := w.ground[e.Handle]; !ok {
		w.ground[e.Handle] = e.Pos.Z
	}
	k := cellOf(e.Pos)
	w.cells[k] = append(w.cells[k], e)
}

func (w *World) unregister(e *domain.Entity) {
	delete(w.actors, e.Handle)
	k := cellOf(e.Pos)
	entities := w.cells[k]
	for i, other := range entities {
		if other.Handle == e.Handle {
			// swap with last, порядок внутри клетки не важен
			last := len(entities) - 1
			entities[i] = entities[last]
			entities[last] = nil
			if last == 0 {
				delete(w.cells, k)
			} else {
				w.cells[k] = entities[:last]
			}
			return
		}
	}
}

// relocate переносит актора в индексе.
func (w *World) relocate(e *domain.Entity, pos domain.Position) {
	if cellOf(e.Pos) == cellOf(pos) {
		e.Pos = pos
		return
	}
	w.unregister(e)
	e.Pos = pos
	w.register(e)
}
