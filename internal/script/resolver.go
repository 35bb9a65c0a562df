package script

import "scene-server/internal/domain"

// Resolver превращает сохраненные Handle в живых акторов.
// Ничего не кеширует: каждый вызов - свежий поиск в Directory.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) Resolver {
	return Resolver{dir: dir}
}

// Resolve возвращает актора или false, если его нет (деспаун, не заспавнен, пустая ссылка).
func (r Resolver) Resolve(h domain.Handle) (*domain.Entity, bool) {
	if h.IsEmpty() || r.dir == nil {
		return nil, false
	}
	e, ok := r.dir.Resolve(h)
	if !ok || e == nil {
		return nil, false
	}
	return e, true
}
