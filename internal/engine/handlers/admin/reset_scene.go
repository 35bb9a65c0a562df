package admin

import (
	"fmt"

	"scene-server/internal/domain"
	"scene-server/internal/engine/handlers"
	"scene-server/pkg/api"
)

// HandleResetScene - административный сброс сцены у владельца.
func HandleResetScene(ctx handlers.Context, p api.GiverPayload) (handlers.Result, error) {
	giver, err := domain.ParseHandle(p.GiverID)
	if err != nil {
		return handlers.Result{}, err
	}
	if err := ctx.World.ResetScript(giver); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Info(fmt.Sprintf("Сцена %s сброшена.", giver)), nil
}
