package domain

import "time"

// SpellID - идентификатор заклинания/эффекта из каталога.
type SpellID uint32

// AnimKitID - идентификатор анимационного набора (0 = сброс).
type AnimKitID uint16

// EmoteID - жест (one-shot emote).
type EmoteID uint32

const (
	EmoteNone   EmoteID = 0
	EmoteSalute EmoteID = 66
)

// NPCFlag - битовые флаги взаимодействия с NPC.
type NPCFlag uint32

const (
	NPCFlagGossip     NPCFlag = 0x01
	NPCFlagQuestGiver NPCFlag = 0x02
)

// MotionKind - тип последнего приказа на движение.
type MotionKind uint8

const (
	MotionIdle MotionKind = iota
	MotionPoint
	MotionPath
	MotionJump
	MotionFall
	MotionTeleport
)

var motionKindToString = map[MotionKind]string{
	MotionIdle:  "IDLE",
	MotionPoint: "POINT",
	MotionPath:  "PATH",
	MotionJump:  "JUMP",
	MotionFall:  "FALL",

	MotionTeleport: "TELEPORT",
}

func (m MotionKind) String() string {
	if val, ok := motionKindToString[m]; ok {
		return val
	}
	return "UNKNOWN"
}

// MotionOrder - последний принятый приказ. Движок не ждет его завершения.
type MotionOrder struct {
	Kind    MotionKind `json:"kind"`
	PointID uint32     `json:"pointId,omitempty"`
	PathID  uint32     `json:"pathId,omitempty"`
	Dest    Position   `json:"dest"`
}

// Aura - наложенный статус-эффект.
type Aura struct {
	SpellID   SpellID       `json:"spellId"`
	Caster    Handle        `json:"caster"`
	Remaining time.Duration `json:"remaining"` // 0 = бессрочно
}

// Script - поведение, прикрепленное к актору (аналог CreatureAI).
// Update вызывается раз в тик мира, DoAction - внешние триггеры.
type Script interface {
	Update(dt time.Duration)
	DoAction(action int32)
}

// QuestAcceptor реализуют скрипты, реагирующие на принятие квеста у актора.
type QuestAcceptor interface {
	OnQuestAccept(player Handle, questID uint32) bool
}

// Shutdowner реализуют скрипты, которым нужно прибраться при удалении владельца.
type Shutdowner interface {
	Shutdown()
}

// Entity - актор мира.
type Entity struct {
	Handle Handle `json:"handle"`
	Entry  Entry  `json:"entry"`
	Name   string `json:"name"`

	Pos Position `json:"pos"`

	// Summoner - кто призвал (NilHandle для статичных NPC).
	Summoner Handle `json:"summoner,omitempty"`

	DisplayID uint32    `json:"displayId"`
	AIAnimKit AnimKitID `json:"aiAnimKit,omitempty"`
	NPCFlags  NPCFlag   `json:"npcFlags,omitempty"`
	Walking   bool      `json:"walking"`
	AIEnabled bool      `json:"aiEnabled"`

	Motion MotionOrder       `json:"motion"`
	Auras  map[SpellID]*Aura `json:"auras,omitempty"`

	// DespawnAt - время мира, после которого актор удаляется (0 = никогда).
	DespawnAt time.Duration `json:"despawnAt,omitempty"`

	Script Script `json:"-"`
}

// HasAura проверяет наличие эффекта.
func (e *Entity) HasAura(id SpellID) bool {
	_, ok := e.Auras[id]
	return ok
}

// HasFlag проверяет NPC флаг.
func (e *Entity) HasFlag(f NPCFlag) bool {
	return e.NPCFlags&f != 0
}
