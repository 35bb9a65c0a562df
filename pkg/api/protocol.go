package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера.
const (
	MsgWelcome = "WELCOME"
	MsgEvent   = "EVENT"
	MsgLog     = "LOG"
)

// ServerMessage это корневой объект, который сервер отправляет клиенту.
type ServerMessage struct {
	// Type тип сообщения: WELCOME, EVENT или LOG.
	Type string `json:"type"`

	// Zone зона, в которой произошло событие.
	Zone int `json:"zone"`

	// MyEntityID ID сущности, которой управляет данный клиент. Только в WELCOME.
	MyEntityID string `json:"myEntityId,omitempty"`

	// Event одно изменение сцены. Только в EVENT.
	Event *SceneEventView `json:"event,omitempty"`

	// Log результат команды клиента. Только в LOG.
	Log *LogEntry `json:"log,omitempty"`
}

// SceneEventView это DTO события сцены.
type SceneEventView struct {
	Type string `json:"type"` // SPAWN, TALK, MOVE, ...

	// AtMs время мира в миллисекундах.
	AtMs int64 `json:"atMs"`

	Actor  string `json:"actor"`
	Target string `json:"target,omitempty"`
	Name   string `json:"name,omitempty"`

	// Text реплика (TALK) и ее номер.
	Text string `json:"text,omitempty"`
	Line int    `json:"line,omitempty"`

	AnimKit uint16 `json:"animKit,omitempty"`
	Emote   uint32 `json:"emote,omitempty"`
	Spell   uint32 `json:"spell,omitempty"`
	Flags   uint32 `json:"flags,omitempty"`
	Walking bool   `json:"walking,omitempty"`

	// Motion вид движения для MOVE: POINT, PATH, JUMP, FALL.
	Motion string `json:"motion,omitempty"`

	Pos *PositionView `json:"pos,omitempty"`
}

// PositionView координаты и ориентация в радианах.
type PositionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	O float64 `json:"o"`
}

// LogEntry представляет одну запись в логе команд.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID сущности, от имени которой выполняется действие.
	// В первом сообщении (handshake) - имя игрока или пусто.
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// AcceptQuestPayload используется для ACCEPT_QUEST: игрок берет квест у NPC.
type AcceptQuestPayload struct {
	GiverID string `json:"giverId"`
	QuestID uint32 `json:"questId"`
}

// GiverPayload используется для команд, нацеленных на NPC-владельца сцены (RESET_SCENE).
type GiverPayload struct {
	GiverID string `json:"giverId"`
}
