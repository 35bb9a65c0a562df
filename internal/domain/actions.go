package domain

import "strings"

// ActionType - Внутренний числовой идентификатор команды клиента
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionAcceptQuest
	ActionResetScene
	ActionTeleport
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":         ActionInit,
	"ACCEPT_QUEST": ActionAcceptQuest,
	"RESET_SCENE":  ActionResetScene,
	"TELEPORT":     ActionTeleport,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:        "INIT",
	ActionAcceptQuest: "ACCEPT_QUEST",
	ActionResetScene:  "RESET_SCENE",
	ActionTeleport:    "TELEPORT",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
