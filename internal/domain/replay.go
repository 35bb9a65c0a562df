package domain

// Transcript - запись всех событий зоны за прогон (режим -simulate -record).
type Transcript struct {
	Zone      int          `json:"zone"`
	Timestamp int64        `json:"timestamp"` // Unix seconds начала записи
	Events    []SceneEvent `json:"events"`
}

// Publish делает Transcript Sink-ом.
func (t *Transcript) Publish(ev SceneEvent) {
	t.Events = append(t.Events, ev)
}

// Count считает события заданного типа.
func (t *Transcript) Count(typ EventType) int {
	n := 0
	for _, ev := range t.Events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
