package network

import (
	"sync"

	"scene-server/pkg/api"
)

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Ключ подписчика - Handle.Key() игрока.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ключ игрока -> Личный канал
	subscribers map[string]chan api.ServerMessage

	// dropped - сколько сообщений не влезло в переполненные каналы
	dropped uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
	}
}

// Register создает личный канал для игрока
func (b *Broadcaster) Register(key string) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[key]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, 256)
	b.subscribers[key] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[key]; ok {
		close(ch)
		delete(b.subscribers, key)
	}
}

// SendTo отправляет сообщение конкретному подписчику (Unicast)
func (b *Broadcaster) SendTo(key string, msg api.ServerMessage) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[key]
	if !ok {
		return false
	}
	return b.offer(ch, msg)
}

// Broadcast отправляет всем. Медленный клиент теряет сообщения, а не тормозит тик.
func (b *Broadcaster) Broadcast(msg api.ServerMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		b.offer(ch, msg)
	}
}

func (b *Broadcaster) offer(ch chan api.ServerMessage, msg api.ServerMessage) bool {
	select {
	case ch <- msg:
		return true
	default:
		b.dropped++
		return false
	}
}

// HasSubscriber проверяет, подключен ли игрок
func (b *Broadcaster) HasSubscriber(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[key]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - счетчик потерянных сообщений.
func (b *Broadcaster) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
