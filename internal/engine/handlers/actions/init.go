package actions

import (
	"fmt"

	"scene-server/internal/engine/handlers"
)

// HandleInit отвечает игроку приветствием. Сам вход в мир делает инстанс.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Info(fmt.Sprintf("Добро пожаловать, %s. Акторов в зоне: %d.", ctx.Actor, ctx.World.Len())), nil
}
