// Package schedule implements the per-controller timed event queue.
//
// Entries carry an absolute due time on the queue's own clock. Advance moves
// the clock forward, DrainDue pops everything that has come due in
// (due time, insertion order) order. A handler that schedules a zero-delay
// entry while a drain is in progress gets it back from the next DrainDue call
// of the same tick.
package schedule

import (
	"container/heap"
	"sort"
	"time"
)

// Event - запланированная запись очереди.
type Event[T any] struct {
	Value T
	Due   time.Duration // Абсолютное время по часам очереди
	Seq   uint64        // Порядок вставки (tie-break)

	index int // Индекс в куче (нужен для heap.Fix/Remove)
}

// Remaining возвращает, сколько осталось до срабатывания относительно now.
func (e Event[T]) Remaining(now time.Duration) time.Duration {
	if e.Due <= now {
		return 0
	}
	return e.Due - now
}

// eventHeap реализует heap.Interface: MinHeap по (Due, Seq).
type eventHeap[T any] []*Event[T]

func (h eventHeap[T]) Len() int { return len(h) }

func (h eventHeap[T]) Less(i, j int) bool {
	if h[i].Due != h[j].Due {
		return h[i].Due < h[j].Due
	}
	return h[i].Seq < h[j].Seq
}

func (h eventHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap[T]) Push(x any) {
	item := x.(*Event[T])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *eventHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // избегаем утечки памяти
	item.index = -1
	*h = old[0 : n-1]
	return item
}

// Queue - очередь отложенных событий одного контроллера.
// Не потокобезопасна: владелец вызывает ее только из своего тика.
type Queue[T any] struct {
	items eventHeap[T]
	now   time.Duration
	seq   uint64
}

// New создает пустую очередь с часами на нуле.
func New[T any]() *Queue[T] {
	return &Queue[T]{items: make(eventHeap[T], 0)}
}

// Scheduled описывает результат Schedule.
type Scheduled struct {
	Seq     uint64
	Due     time.Duration
	Clamped bool // delay был отрицательным и приведен к нулю
}

// Schedule добавляет value со сроком now+delay.
// Отрицательная задержка - ошибка вызывающего; она приводится к нулю.
func (q *Queue[T]) Schedule(value T, delay time.Duration) Scheduled {
	clamped := false
	if delay < 0 {
		delay = 0
		clamped = true
	}
	q.seq++
	ev := &Event[T]{Value: value, Due: q.now + delay, Seq: q.seq}
	heap.Push(&q.items, ev)
	return Scheduled{Seq: ev.Seq, Due: ev.Due, Clamped: clamped}
}

// Advance сдвигает часы очереди на dt. Отрицательный dt игнорируется.
func (q *Queue[T]) Advance(dt time.Duration) {
	if dt > 0 {
		q.now += dt
	}
}

// DrainDue извлекает все записи с Due <= now в порядке (Due, Seq).
// Возвращает nil, если ничего не наступило.
func (q *Queue[T]) DrainDue() []Event[T] {
	var due []Event[T]
	for len(q.items) > 0 && q.items[0].Due <= q.now {
		ev := heap.Pop(&q.items).(*Event[T])
		due = append(due, *ev)
	}
	return due
}

// Reset отбрасывает все записи. Часы не сбрасываются, seq продолжает расти.
func (q *Queue[T]) Reset() {
	for i := range q.items {
		q.items[i] = nil
	}
	q.items = q.items[:0]
}

// Len - количество ожидающих записей.
func (q *Queue[T]) Len() int { return len(q.items) }

// Now - текущее время часов очереди.
func (q *Queue[T]) Now() time.Duration { return q.now }

// Pending возвращает отсортированный снимок ожидающих записей (для отладки).
func (q *Queue[T]) Pending() []Event[T] {
	out := make([]Event[T], 0, len(q.items))
	for _, ev := range q.items {
		out = append(out, *ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Due != out[j].Due {
			return out[i].Due < out[j].Due
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
