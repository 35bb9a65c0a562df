package scenes

import (
	"fmt"

	"scene-server/internal/domain"
	"scene-server/internal/script"
	"scene-server/internal/world"
)

// Register подключает скрипты сцен к миру. Вызывать до Populate.
func Register(w *world.World) error {
	tl, err := WarchiefTimeline(w.Catalog())
	if err != nil {
		return fmt.Errorf("register scenes: %w", err)
	}

	w.RegisterCreatureScript(EntryExecutor, func(owner *domain.Entity, svc script.Services) (domain.Script, error) {
		c, err := script.NewSequenceController(owner.Handle, tl, svc)
		if err != nil {
			return nil, err
		}
		return c, nil
	})

	fallen := func(owner *domain.Entity, svc script.Services) (domain.Script, error) {
		return NewFallenHuman(owner.Handle, svc), nil
	}
	w.RegisterCreatureScript(EntryFallenHumanMale, fallen)
	w.RegisterCreatureScript(EntryFallenHumanFemale, fallen)

	w.RegisterAuraScript(SpellRaiseForsaken, world.AuraScript{
		OnApply:  sendAction(ActionRise),
		OnRemove: sendAction(ActionDescend),
	})
	w.RegisterSpellScript(SpellTrooperMasterScript, TrooperMasterScript)
	return nil
}

func sendAction(action int32) func(target *domain.Entity) {
	return func(target *domain.Entity) {
		if target.AIEnabled && target.Script != nil {
			target.Script.DoAction(action)
		}
	}
}
