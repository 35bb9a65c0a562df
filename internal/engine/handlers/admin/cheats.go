package admin

import (
	"fmt"

	"scene-server/internal/domain"
	"scene-server/internal/engine/handlers"
)

// TeleportPayload: { "x": 1380, "y": 1040, "z": 53.7 }
type TeleportPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	O float64 `json:"o"`
}

// HandleTeleport переносит игрока в точку. Нужен для проверки радиусов сцены.
func HandleTeleport(ctx handlers.Context, p TeleportPayload) (handlers.Result, error) {
	pos := domain.Position{X: p.X, Y: p.Y, Z: p.Z, O: domain.NormalizeOrientation(p.O)}
	if err := ctx.World.Teleport(ctx.Actor, pos); err != nil {
		return handlers.Result{Msg: fmt.Sprintf("Teleport failed: %v", err), MsgType: "ERROR"}, nil
	}
	return handlers.Info(fmt.Sprintf("⚡ Teleported to %.2f %.2f %.2f", pos.X, pos.Y, pos.Z)), nil
}
