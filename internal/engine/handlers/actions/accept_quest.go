package actions

import (
	"fmt"

	"scene-server/internal/domain"
	"scene-server/internal/engine/handlers"
	"scene-server/pkg/api"
)

// HandleAcceptQuest - игрок берет квест у NPC. Скрипт NPC может запустить сцену.
func HandleAcceptQuest(ctx handlers.Context, p api.AcceptQuestPayload) (handlers.Result, error) {
	giver, err := domain.ParseHandle(p.GiverID)
	if err != nil {
		return handlers.Result{}, err
	}

	started, err := ctx.World.AcceptQuest(ctx.Actor, giver, p.QuestID)
	if err != nil {
		return handlers.Result{}, err
	}
	if !started {
		return handlers.Info(fmt.Sprintf("Квест %d принят.", p.QuestID)), nil
	}
	return handlers.Info(fmt.Sprintf("Квест %d принят. Сцена началась.", p.QuestID)), nil
}
