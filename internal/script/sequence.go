package script

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"scene-server/internal/domain"
	"scene-server/internal/engine/schedule"
	"scene-server/pkg/logger"
)

// ActionStart - внешний запуск прогона через DoAction (без контекста квеста).
const ActionStart int32 = 1

// Защита от бесконечной цепочки нулевых задержек внутри одного тика.
const maxDrainPasses = 1000

// TriggerContext - кто и чем запустил прогон.
type TriggerContext struct {
	Player domain.Handle
	Quest  uint32
}

// Run - состояние активного прогона. Существует только пока контроллер Running.
type Run struct {
	ID        string
	Trigger   TriggerContext
	Slots     map[Role]domain.Handle
	Summons   *SpawnRegistry
	Beats     int
	StartedAt time.Duration
}

// cue - запись в очереди: шаг цепочки, ответвление или финал.
type cue struct {
	step     *Step
	chain    int // индекс в Timeline.Steps, -1 для ответвлений
	terminal bool
}

// SequenceController проигрывает Timeline от имени актора-владельца.
// Не потокобезопасен: вызывается только из тика мира.
type SequenceController struct {
	owner    domain.Handle
	timeline *Timeline
	svc      Services
	resolver Resolver

	queue *schedule.Queue[cue]
	run   *Run // nil == Idle

	completed int
	log       *logrus.Entry
}

func NewSequenceController(owner domain.Handle, tl *Timeline, svc Services) (*SequenceController, error) {
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("sequence controller: %w", err)
	}
	return &SequenceController{
		owner:    owner,
		timeline: tl,
		svc:      svc,
		resolver: NewResolver(svc.Directory),
		queue:    schedule.New[cue](),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "sequence",
			"timeline":  tl.Name,
			"owner":     owner.String(),
		}),
	}, nil
}

// --- TRIGGERS ---

// OnQuestAccept запускает прогон, если принят квест сценария.
func (c *SequenceController) OnQuestAccept(player domain.Handle, questID uint32) bool {
	if c.timeline.Quest != 0 && c.timeline.Quest != questID {
		return false
	}
	return c.OnTrigger(TriggerContext{Player: player, Quest: questID})
}

// DoAction реализует domain.Script.
func (c *SequenceController) DoAction(action int32) {
	if action == ActionStart {
		c.OnTrigger(TriggerContext{})
	}
}

// OnTrigger пытается начать прогон. false - уже идет прогон или не найден якорный актор.
func (c *SequenceController) OnTrigger(tc TriggerContext) bool {
	if c.run != nil {
		c.log.WithField("run", c.run.ID).Debug("Trigger ignored: run in progress")
		return false
	}

	slots := make(map[Role]domain.Handle, len(c.timeline.Anchors))
	for _, a := range c.timeline.Anchors {
		h, ok := c.findAnchor(a)
		if !ok {
			c.log.WithFields(logrus.Fields{
				"role":  a.Role,
				"entry": a.Entry,
			}).Info("Trigger rejected: anchor actor not found")
			return false
		}
		slots[a.Role] = h
	}

	c.queue.Reset()
	c.run = &Run{
		ID:        uuid.NewString(),
		Trigger:   tc,
		Slots:     slots,
		Summons:   NewSpawnRegistry(c.svc),
		StartedAt: c.queue.Now(),
	}
	first := &c.timeline.Steps[0]
	c.schedule(cue{step: first, chain: 0}, first.Delay)

	c.log.WithFields(logrus.Fields{
		"run":    c.run.ID,
		"player": tc.Player.String(),
		"quest":  tc.Quest,
	}).Info("Run started")
	return true
}

func (c *SequenceController) findAnchor(a Anchor) (domain.Handle, bool) {
	if c.svc.Directory == nil {
		return domain.NilHandle, false
	}
	return c.svc.Directory.FindNearest(c.owner, a.Entry, a.Radius)
}

// --- TICK ---

// Update продвигает часы очереди и исполняет все созревшие биты.
func (c *SequenceController) Update(dt time.Duration) {
	c.queue.Advance(dt)
	if c.run == nil {
		return
	}

	for pass := 0; ; pass++ {
		if pass >= maxDrainPasses {
			c.log.WithFields(logrus.Fields{
				"run":     c.run.ID,
				"pending": c.queue.Len(),
			}).Warn("Drain pass limit reached, deferring to next tick")
			return
		}
		due := c.queue.DrainDue()
		if len(due) == 0 {
			return
		}
		for _, ev := range due {
			run := c.run
			if run == nil {
				return
			}
			c.fire(ev.Value)
			// Прогон сброшен или завершен внутри бита: остаток пачки принадлежал ему.
			if c.run != run {
				return
			}
		}
	}
}

func (c *SequenceController) fire(q cue) {
	if q.terminal {
		c.finish()
		return
	}

	b := &Beat{c: c, step: q.step}
	c.runStep(b)
	if c.run == nil {
		return
	}
	c.run.Beats++

	for i := range q.step.Fork {
		fork := &q.step.Fork[i]
		c.schedule(cue{step: fork, chain: -1}, fork.Delay)
	}

	if q.chain < 0 {
		return
	}
	next := q.chain + 1
	if next < len(c.timeline.Steps) {
		step := &c.timeline.Steps[next]
		c.schedule(cue{step: step, chain: next}, step.Delay)
		return
	}
	c.schedule(cue{terminal: true}, c.timeline.FinishAfter)
}

// runStep исполняет тело бита. Паника в бите не должна останавливать цепочку.
func (c *SequenceController) runStep(b *Beat) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{
				"step":  b.step.Name,
				"panic": r,
			}).Error("Beat panicked")
		}
	}()
	c.log.WithFields(logrus.Fields{
		"run":  c.run.ID,
		"step": b.step.Name,
		"at":   c.queue.Now() - c.run.StartedAt,
	}).Debug("Beat")
	b.step.Run(b)
}

func (c *SequenceController) schedule(q cue, delay time.Duration) {
	res := c.queue.Schedule(q, delay)
	if res.Clamped {
		name := "finish"
		if q.step != nil {
			name = q.step.Name
		}
		c.log.WithFields(logrus.Fields{"step": name, "delay": delay}).Warn("Negative delay clamped to zero")
	}
}

func (c *SequenceController) finish() {
	run := c.run
	exited := run.Summons.Len()
	c.completed++
	c.Reset()
	c.log.WithFields(logrus.Fields{
		"run":      run.ID,
		"beats":    run.Beats,
		"summons":  exited,
		"duration": c.queue.Now() - run.StartedAt,
	}).Info("Run finished")
}

// --- RESET ---

// Reset возвращает контроллер в Idle: отпускает временных акторов, чистит слоты и очередь.
// Идемпотентен.
func (c *SequenceController) Reset() {
	if c.run != nil {
		c.run.Summons.DespawnAll(c.timeline.Exit, c.timeline.ExitGrace)
		c.run = nil
	}
	c.queue.Reset()
}

// Shutdown вызывается миром при удалении владельца.
func (c *SequenceController) Shutdown() {
	if c.run != nil {
		c.log.WithField("run", c.run.ID).Info("Owner removed, aborting run")
	}
	c.Reset()
}

// --- INTROSPECTION ---

func (c *SequenceController) IsRunning() bool { return c.run != nil }

// Completed - сколько прогонов дошло до финального бита.
func (c *SequenceController) Completed() int { return c.completed }

// Handle возвращает ссылку из слота активного прогона.
func (c *SequenceController) Handle(role Role) domain.Handle {
	if c.run == nil {
		return domain.NilHandle
	}
	return c.run.Slots[role]
}

// PendingBeat - запланированный бит для отладки.
type PendingBeat struct {
	Name string        `json:"name"`
	In   time.Duration `json:"in"`
}

// RunView - снимок состояния для /debug.
type RunView struct {
	Timeline string                 `json:"timeline"`
	Owner    domain.Handle          `json:"owner"`
	State    string                 `json:"state"`
	RunID    string                 `json:"runId,omitempty"`
	Slots    map[Role]domain.Handle `json:"slots,omitempty"`
	Summons  int                    `json:"summons"`
	Beats    int                    `json:"beats"`
	Elapsed  time.Duration          `json:"elapsed"`
	Pending  []PendingBeat          `json:"pending,omitempty"`
	Runs     int                    `json:"completedRuns"`
}

func (c *SequenceController) Snapshot() RunView {
	v := RunView{
		Timeline: c.timeline.Name,
		Owner:    c.owner,
		State:    "IDLE",
		Runs:     c.completed,
	}
	if c.run == nil {
		return v
	}
	now := c.queue.Now()
	v.State = "RUNNING"
	v.RunID = c.run.ID
	v.Slots = make(map[Role]domain.Handle, len(c.run.Slots))
	for r, h := range c.run.Slots {
		v.Slots[r] = h
	}
	v.Summons = c.run.Summons.Len()
	v.Beats = c.run.Beats
	v.Elapsed = now - c.run.StartedAt
	for _, ev := range c.queue.Pending() {
		name := "finish"
		if ev.Value.step != nil {
			name = ev.Value.step.Name
		}
		v.Pending = append(v.Pending, PendingBeat{Name: name, In: ev.Remaining(now)})
	}
	sort.SliceStable(v.Pending, func(i, j int) bool { return v.Pending[i].In < v.Pending[j].In })
	return v
}

// --- BEAT ---

// Beat - контекст исполнения одного шага.
type Beat struct {
	c    *SequenceController
	step *Step
}

func (b *Beat) Name() string            { return b.step.Name }
func (b *Beat) RunID() string           { return b.c.run.ID }
func (b *Beat) Owner() domain.Handle    { return b.c.owner }
func (b *Beat) Services() Services      { return b.c.svc }
func (b *Beat) Summons() *SpawnRegistry { return b.c.run.Summons }
func (b *Beat) Trigger() TriggerContext { return b.c.run.Trigger }

// Handle возвращает ссылку слота (NilHandle, если слот пуст).
func (b *Beat) Handle(role Role) domain.Handle {
	return b.c.run.Slots[role]
}

// Actor разрешает слот заново. false - актора нет, эффект нужно пропустить.
func (b *Beat) Actor(role Role) (*domain.Entity, bool) {
	return b.c.resolver.Resolve(b.c.run.Slots[role])
}

// Bind записывает ссылку в слот.
func (b *Beat) Bind(role Role, h domain.Handle) {
	if h.IsEmpty() {
		delete(b.c.run.Slots, role)
		return
	}
	b.c.run.Slots[role] = h
}

// Spawn создает временного актора, записывает его в реестр прогона и, если role не пуст, в слот.
// Актор без положительного lifetime не создается.
func (b *Beat) Spawn(entry domain.Entry, pos domain.Position, lifetime time.Duration, role Role) (domain.Handle, bool) {
	if b.c.svc.Spawner == nil {
		return domain.NilHandle, false
	}
	if lifetime <= 0 {
		b.Log().WithFields(logrus.Fields{
			"entry":    entry,
			"lifetime": lifetime,
		}).Warn("Spawn without lifetime rejected")
		return domain.NilHandle, false
	}
	h, err := b.c.svc.Spawner.Spawn(b.c.owner, entry, pos, lifetime)
	if err != nil {
		b.Log().WithError(err).WithField("entry", entry).Warn("Spawn failed")
		return domain.NilHandle, false
	}
	b.c.run.Summons.Record(h)
	if role != "" {
		b.Bind(role, h)
	}
	return h, true
}

// Talk произносит реплику актором слота, если он жив и его AI включен.
func (b *Beat) Talk(role Role, line int) bool {
	e, ok := b.Actor(role)
	if !ok || !e.AIEnabled || b.c.svc.Presenter == nil {
		return false
	}
	b.c.svc.Presenter.Talk(e.Handle, line)
	return true
}

func (b *Beat) Log() *logrus.Entry {
	return b.c.log.WithFields(logrus.Fields{"run": b.c.run.ID, "step": b.step.Name})
}
