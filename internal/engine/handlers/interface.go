package handlers

import (
	"encoding/json"

	"scene-server/internal/domain"
	"scene-server/internal/world"
)

// Context передает хендлеру состояние мира.
// Хендлер вызывается внутри лока инстанса и может мутировать мир.
type Context struct {
	World *world.World
	Actor domain.Handle // Тот, кто выполняет команду (игрок)
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, ERROR)
}

// HandlerFunc - это контракт для любой команды (ACCEPT_QUEST, RESET_SCENE, ...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Info - успешный ответ с текстом.
func Info(msg string) Result {
	return Result{Msg: msg, MsgType: "INFO"}
}
