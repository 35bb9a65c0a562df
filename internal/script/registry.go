package script

import (
	"time"

	"scene-server/internal/domain"
)

// ExitFunc - визуальный "уход" актора перед удалением (телепорт, эффект).
type ExitFunc func(svc Services, e *domain.Entity)

// SpawnRegistry хранит акторов, созданных контроллером в текущем прогоне.
type SpawnRegistry struct {
	handles  []domain.Handle
	index    map[domain.Handle]struct{}
	resolver Resolver
	svc      Services
}

func NewSpawnRegistry(svc Services) *SpawnRegistry {
	return &SpawnRegistry{
		handles:  make([]domain.Handle, 0),
		index:    make(map[domain.Handle]struct{}),
		resolver: NewResolver(svc.Directory),
		svc:      svc,
	}
}

// Record добавляет актора, которого только что вернул Spawn.
func (r *SpawnRegistry) Record(h domain.Handle) bool {
	if h.IsEmpty() {
		return false
	}
	if _, dup := r.index[h]; dup {
		return false
	}
	r.index[h] = struct{}{}
	r.handles = append(r.handles, h)
	return true
}

// Each вызывает fn для каждого еще живого актора группы.
func (r *SpawnRegistry) Each(fn func(e *domain.Entity)) {
	for _, h := range r.handles {
		if e, ok := r.resolver.Resolve(h); ok {
			fn(e)
		}
	}
}

// DespawnAll отправляет каждому живому актору exit и просит удалить его через grace.
// Пропавшие акторы просто забываются. Повторный вызов - no-op.
// Возвращает количество акторов, которым был отправлен exit.
func (r *SpawnRegistry) DespawnAll(exit ExitFunc, grace time.Duration) int {
	exited := 0
	for _, h := range r.handles {
		e, ok := r.resolver.Resolve(h)
		if !ok {
			continue
		}
		if exit != nil {
			exit(r.svc, e)
		}
		if r.svc.Spawner != nil {
			r.svc.Spawner.Despawn(h, grace)
		}
		exited++
	}
	r.Clear()
	return exited
}

// Clear забывает всех без сигналов.
func (r *SpawnRegistry) Clear() {
	r.handles = r.handles[:0]
	for h := range r.index {
		delete(r.index, h)
	}
}

func (r *SpawnRegistry) Len() int { return len(r.handles) }

// Handles возвращает копию списка.
func (r *SpawnRegistry) Handles() []domain.Handle {
	out := make([]domain.Handle, len(r.handles))
	copy(out, r.handles)
	return out
}
