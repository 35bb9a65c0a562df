package scenes

import (
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/internal/domain"
	"scene-server/internal/engine/schedule"
	"scene-server/internal/script"
	"scene-server/pkg/logger"
)

// Триггеры от ауры подъема.
const (
	ActionRise    int32 = 1
	ActionDescend int32 = 2
)

const (
	RiseHeight        = 3.5
	FacingSylvanas    = 0.706837
	saluteDespawnTime = 80 * time.Second
)

type FallenState uint8

const (
	FallenIdle FallenState = iota
	FallenAscending
	FallenDescending
	FallenTransformed
)

var fallenStateToString = map[FallenState]string{
	FallenIdle:        "IDLE",
	FallenAscending:   "ASCENDING",
	FallenDescending:  "DESCENDING",
	FallenTransformed: "TRANSFORMED",
}

func (s FallenState) String() string {
	if val, ok := fallenStateToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

type fallenEvent uint8

const (
	fallenAscend fallenEvent = iota + 1
	fallenTransform
	fallenFace
	fallenSalute
)

// FallenHuman - павший человек, которого поднимает Агата.
// Реагирует только на DoAction, собственная очередь событий.
type FallenHuman struct {
	self domain.Handle
	svc  script.Services
	res  script.Resolver

	queue       *schedule.Queue[fallenEvent]
	state       FallenState
	transformed bool

	log *logrus.Entry
}

func NewFallenHuman(self domain.Handle, svc script.Services) *FallenHuman {
	return &FallenHuman{
		self:  self,
		svc:   svc,
		res:   script.NewResolver(svc.Directory),
		queue: schedule.New[fallenEvent](),
		log:   logger.Component("fallen_human").WithField("actor", self.String()),
	}
}

func (f *FallenHuman) State() FallenState { return f.state }

func (f *FallenHuman) DoAction(action int32) {
	switch action {
	case ActionRise:
		// после превращения состояние терминальное
		if f.transformed {
			f.log.Debug("Rise ignored: already transformed")
			return
		}
		f.svc.Presenter.SetAIAnimKit(f.self, AnimKitFallenHuman)
		f.queue.Schedule(fallenAscend, time.Second)
		f.state = FallenAscending

	case ActionDescend:
		f.svc.Mover.SetWalk(f.self, false)
		f.svc.Presenter.SetAIAnimKit(f.self, AnimKitReset)
		f.svc.Mover.MoveFall(f.self)
		f.queue.Schedule(fallenTransform, time.Second)
		if !f.transformed {
			f.state = FallenDescending
		}
	}
}

func (f *FallenHuman) Update(dt time.Duration) {
	f.queue.Advance(dt)
	for {
		due := f.queue.DrainDue()
		if len(due) == 0 {
			return
		}
		for _, ev := range due {
			f.handle(ev.Value)
		}
	}
}

func (f *FallenHuman) handle(ev fallenEvent) {
	switch ev {
	case fallenAscend:
		me, ok := f.res.Resolve(f.self)
		if !ok {
			return
		}
		f.svc.Mover.SetWalk(f.self, true)
		f.svc.Mover.MovePoint(f.self, PointBeingRisen, me.Pos.Shift(0, 0, RiseHeight))

	case fallenTransform:
		if f.transformed {
			return
		}
		f.svc.Effects.Cast(f.self, SpellTrooperMasterScript, false)
		f.transformed = true
		f.state = FallenTransformed
		f.log.Debug("Transformed")
		f.queue.Schedule(fallenFace, time.Second+500*time.Millisecond)

	case fallenFace:
		f.svc.Mover.SetFacing(f.self, FacingSylvanas)
		f.queue.Schedule(fallenSalute, 2*time.Second+500*time.Millisecond)

	case fallenSalute:
		f.svc.Presenter.Emote(f.self, domain.EmoteSalute)
		f.svc.Spawner.Despawn(f.self, saluteDespawnTime)
	}
}

// Reset возвращает контроллер в исходное состояние.
func (f *FallenHuman) Reset() {
	f.queue.Reset()
	f.transformed = false
	f.state = FallenIdle
}
