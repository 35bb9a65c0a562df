package world

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"scene-server/internal/domain"
	"scene-server/internal/script"
)

// ScriptFactory создает поведение для только что заспавненного актора.
type ScriptFactory func(owner *domain.Entity, svc script.Services) (domain.Script, error)

// AuraScript - хуки наложения/снятия эффекта.
type AuraScript struct {
	OnApply  func(target *domain.Entity)
	OnRemove func(target *domain.Entity)
}

// SpellScript - обработчик заклинания вида script.
type SpellScript func(caster *domain.Entity, svc script.Services)

// RegisterCreatureScript привязывает поведение к шаблону. Регистрировать до Populate.
func (w *World) RegisterCreatureScript(entry domain.Entry, factory ScriptFactory) {
	w.creatureScripts[entry] = factory
}

func (w *World) RegisterAuraScript(spell domain.SpellID, hooks AuraScript) {
	w.auraScripts[spell] = hooks
}

func (w *World) RegisterSpellScript(spell domain.SpellID, fn SpellScript) {
	w.spellScripts[spell] = fn
}

// AcceptQuest - игрок взял квест у giver. Возвращает true, если скрипт отреагировал.
func (w *World) AcceptQuest(player, giver domain.Handle, questID uint32) (bool, error) {
	e, ok := w.actors[giver]
	if !ok {
		return false, fmt.Errorf("giver %s: %w", giver, ErrUnknownActor)
	}
	if !e.HasFlag(domain.NPCFlagQuestGiver) {
		return false, fmt.Errorf("giver %s: %w", giver, ErrNotQuestGiver)
	}

	acceptor, ok := e.Script.(domain.QuestAcceptor)
	if !ok {
		return false, nil
	}
	started := acceptor.OnQuestAccept(player, questID)
	w.log.WithFields(logrus.Fields{
		"player":  player.String(),
		"giver":   giver.String(),
		"quest":   questID,
		"started": started,
	}).Info("Quest accepted")
	return started, nil
}

// ResetScript сбрасывает скрипт актора, если тот умеет сбрасываться.
func (w *World) ResetScript(h domain.Handle) error {
	e, ok := w.actors[h]
	if !ok {
		return fmt.Errorf("actor %s: %w", h, ErrUnknownActor)
	}
	if r, ok := e.Script.(interface{ Reset() }); ok {
		r.Reset()
	}
	return nil
}

// SendAction передает внешний триггер скрипту актора.
func (w *World) SendAction(h domain.Handle, action int32) {
	if e, ok := w.actors[h]; ok && e.Script != nil {
		e.Script.DoAction(action)
	}
}

// Scripts возвращает скрипты живых акторов в порядке handle.
func (w *World) Scripts() []domain.Script {
	var out []domain.Script
	for _, h := range w.sortedHandles() {
		if s := w.actors[h].Script; s != nil {
			out = append(out, s)
		}
	}
	return out
}
