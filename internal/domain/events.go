package domain

import (
	"strings"
	"time"
)

// EventType - тип события сцены, которое видят клиенты.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventSpawn
	EventDespawn
	EventTalk
	EventAnimKit
	EventAIAnimKit
	EventEmote
	EventFacing
	EventMove
	EventWalk
	EventCast
	EventAuraApplied
	EventAuraRemoved
	EventFlags
	EventQuestCredit
)

var eventTypeToString = map[EventType]string{
	EventSpawn:       "SPAWN",
	EventDespawn:     "DESPAWN",
	EventTalk:        "TALK",
	EventAnimKit:     "ANIM_KIT",
	EventAIAnimKit:   "AI_ANIM_KIT",
	EventEmote:       "EMOTE",
	EventFacing:      "FACING",
	EventMove:        "MOVE",
	EventWalk:        "WALK",
	EventCast:        "CAST",
	EventAuraApplied: "AURA_APPLIED",
	EventAuraRemoved: "AURA_REMOVED",
	EventFlags:       "FLAGS",
	EventQuestCredit: "QUEST_CREDIT",
}

var eventStringToType = func() map[string]EventType {
	m := make(map[string]EventType, len(eventTypeToString))
	for k, v := range eventTypeToString {
		m[v] = k
	}
	return m
}()

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	if val, ok := eventStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// MarshalText отдает имя события в JSON.
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventType) UnmarshalText(text []byte) error {
	*e = ParseEvent(string(text))
	return nil
}

// SceneEvent - одно наблюдаемое изменение мира. Публикуется в Sink.
type SceneEvent struct {
	Type   EventType     `json:"type"`
	At     time.Duration `json:"at"`
	Actor  Handle        `json:"actor"`
	Target Handle        `json:"target,omitempty"`
	Name   string        `json:"name,omitempty"`

	Line    int       `json:"line,omitempty"`
	Text    string    `json:"text,omitempty"`
	AnimKit AnimKitID `json:"animKit,omitempty"`
	Emote   EmoteID   `json:"emote,omitempty"`
	Spell   SpellID   `json:"spell,omitempty"`
	Flags   NPCFlag   `json:"flags,omitempty"`
	Walking bool      `json:"walking,omitempty"`

	Motion MotionKind `json:"motion,omitempty"`
	Pos    *Position  `json:"pos,omitempty"`
}

// Sink принимает события сцены (hub, тестовый рекордер, консоль).
type Sink interface {
	Publish(ev SceneEvent)
}

// SinkFunc - адаптер функции к Sink.
type SinkFunc func(ev SceneEvent)

func (f SinkFunc) Publish(ev SceneEvent) { f(ev) }
