package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/internal/domain"
	"scene-server/internal/engine/handlers"
	"scene-server/internal/script"
	"scene-server/internal/world"
	"scene-server/pkg/api"
	"scene-server/pkg/logger"
)

var ErrQueueFull = errors.New("instance command queue is full")

// JoinRequest - вход игрока. Инстанс отвечает Handle созданного актора.
type JoinRequest struct {
	Name  string
	Reply chan domain.Handle
}

// Instance представляет собой одну запущенную игровую зону со своим миром.
type Instance struct {
	ID    int          // ID зоны
	World *world.World // Акторы, скрипты, таймеры

	// Каналы коммуникации
	CommandChan chan domain.InternalCommand // Команды от игроков
	JoinChan    chan JoinRequest            // Вход новых игроков
	LeaveChan   chan domain.Handle          // Выход игроков

	// Ссылка на Service для доступа к Hub и хендлерам
	Service *GameService

	Logs []api.LogEntry // Локальные логи зоны

	// observers получают события мира помимо хаба (консоль -simulate, тесты)
	observers []domain.Sink

	// mu защищает World и Logs: тик пишет, debug-эндпоинты читают
	mu  sync.RWMutex
	log *logrus.Entry
}

func NewInstance(id int, service *GameService) *Instance {
	return &Instance{
		ID:          id,
		CommandChan: make(chan domain.InternalCommand, 100),
		JoinChan:    make(chan JoinRequest, 10),
		LeaveChan:   make(chan domain.Handle, 10),
		Service:     service,
		Logs:        []api.LogEntry{},
		log:         logger.Log.WithField("instance_id", id),
	}
}

// AddObserver подписывает sink на события мира. Вызывать до Run.
func (i *Instance) AddObserver(sink domain.Sink) {
	i.observers = append(i.observers, sink)
}

// publish - Sink мира: рассылка в хаб и наблюдателям.
func (i *Instance) publish(ev domain.SceneEvent) {
	if i.Service != nil && i.Service.Hub != nil {
		i.Service.Hub.Broadcast(buildEventMessage(i.ID, ev))
	}
	for _, o := range i.observers {
		o.Publish(ev)
	}
}

// Run запускает игровой цикл ЭТОГО инстанса. Блокирует до отмены ctx.
func (i *Instance) Run(ctx context.Context, interval time.Duration) {
	i.log.WithField("interval", interval).Info("Instance loop started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			i.log.Info("Instance loop stopped")
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			i.Step(dt)
		}
	}
}

// Step - один тик: вход/выход, накопившиеся команды, затем мир.
// Run вызывает его по таймеру, тесты и -simulate вызывают напрямую.
func (i *Instance) Step(dt time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.drain()
	i.World.Tick(dt)
}

// drain разбирает каналы без блокировки. Берем только то, что пришло до начала тика.
func (i *Instance) drain() {
	for n := len(i.JoinChan); n > 0; n-- {
		req := <-i.JoinChan
		req.Reply <- i.addPlayer(req.Name)
	}
	for n := len(i.LeaveChan); n > 0; n-- {
		i.removePlayer(<-i.LeaveChan)
	}
	for n := len(i.CommandChan); n > 0; n-- {
		i.executeCommand(<-i.CommandChan)
	}
}

// --- ВХОД / ВЫХОД ---

// Join ставит игрока в очередь на вход и ждет ответа цикла.
func (i *Instance) Join(ctx context.Context, name string) (domain.Handle, error) {
	req := JoinRequest{Name: name, Reply: make(chan domain.Handle, 1)}
	select {
	case i.JoinChan <- req:
	case <-ctx.Done():
		return domain.NilHandle, ctx.Err()
	}
	select {
	case h := <-req.Reply:
		return h, nil
	case <-ctx.Done():
		return domain.NilHandle, ctx.Err()
	}
}

// Leave убирает игрока на следующем тике.
func (i *Instance) Leave(h domain.Handle) {
	select {
	case i.LeaveChan <- h:
	default:
		i.log.WithField("player", h.String()).Warn("Leave queue full")
	}
}

// Enter синхронно добавляет игрока (без цикла: -simulate, тесты).
func (i *Instance) Enter(name string) domain.Handle {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.addPlayer(name)
}

func (i *Instance) addPlayer(name string) domain.Handle {
	h := i.World.SpawnPlayer(name, i.World.Catalog().PlayerStart)
	i.log.WithFields(logrus.Fields{"player": h.String(), "name": name}).Info("Player joined")
	return h
}

func (i *Instance) removePlayer(h domain.Handle) {
	if h.Type() != domain.TypePlayer {
		return
	}
	i.World.Despawn(h, 0)
	i.log.WithField("player", h.String()).Info("Player left")
}

// --- КОМАНДЫ ---

// Submit ставит команду в очередь инстанса, не блокируя вызывающего.
func (i *Instance) Submit(cmd domain.InternalCommand) error {
	select {
	case i.CommandChan <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Execute синхронно выполняет команду под локом.
func (i *Instance) Execute(cmd domain.InternalCommand) api.LogEntry {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.executeCommand(cmd)
}

// executeCommand выполняет команду в контексте зоны и отвечает автору записью лога.
func (i *Instance) executeCommand(cmd domain.InternalCommand) api.LogEntry {
	var result handlers.Result

	handler, ok := i.Service.handlers[cmd.Action]
	if _, alive := i.World.Resolve(cmd.Token); !alive {
		result = handlers.Result{Msg: "Unknown actor " + cmd.Token.String(), MsgType: "ERROR"}
	} else if !ok {
		result = handlers.Result{Msg: "Unsupported action " + cmd.Action.String(), MsgType: "ERROR"}
	} else {
		ctx := handlers.Context{
			World: i.World,
			Actor: cmd.Token,
		}
		var err error
		result, err = handler(ctx, cmd.Payload)
		if err != nil {
			result = handlers.Result{Msg: cmd.Action.String() + ": " + err.Error(), MsgType: "ERROR"}
		}
	}

	if result.Msg == "" {
		return api.LogEntry{}
	}
	entry := i.AddLog(result.Msg, result.MsgType)
	if i.Service.Hub != nil {
		i.Service.Hub.SendTo(cmd.Token.Key(), api.ServerMessage{Type: api.MsgLog, Zone: i.ID, Log: &entry})
	}
	return entry
}

// --- СНИМКИ ДЛЯ DEBUG ---

// Actors - копия акторов зоны.
func (i *Instance) Actors() []domain.Entity {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.World.Actors()
}

// Scenes - состояние всех сценариев зоны.
func (i *Instance) Scenes() []script.RunView {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]script.RunView, 0, 1)
	for _, s := range i.World.Scripts() {
		if sn, ok := s.(interface{ Snapshot() script.RunView }); ok {
			out = append(out, sn.Snapshot())
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Owner < out[b].Owner })
	return out
}

// Now - время мира зоны.
func (i *Instance) Now() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.World.Now()
}

// RecentLogs - копия логов зоны.
func (i *Instance) RecentLogs() []api.LogEntry {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]api.LogEntry, len(i.Logs))
	copy(out, i.Logs)
	return out
}
