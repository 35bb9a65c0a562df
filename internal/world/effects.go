package world

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/internal/content"
	"scene-server/internal/domain"
)

// Cast применяет заклинание каталога от имени caster.
func (w *World) Cast(caster domain.Handle, spell domain.SpellID, triggered bool) {
	e, ok := w.actors[caster]
	if !ok {
		return
	}
	sp, ok := w.catalog.Spell(spell)
	if !ok {
		w.log.WithFields(logrus.Fields{"caster": caster.String(), "spell": spell}).Warn("Unknown spell")
		return
	}

	w.publish(domain.SceneEvent{Type: domain.EventCast, Actor: caster, Spell: spell, Name: sp.Name})

	switch sp.Kind {
	case content.SpellVisual:
	case content.SpellAura:
		w.ApplyAura(caster, caster, spell, sp.Duration)
	case content.SpellAreaAura:
		for _, entry := range sp.Targets {
			for _, target := range w.FindAll(caster, entry, sp.Radius) {
				w.ApplyAura(target, caster, spell, sp.Duration)
			}
		}
	case content.SpellScript:
		fn, ok := w.spellScripts[spell]
		if !ok {
			w.log.WithField("spell", spell).Warn("Script spell without handler")
			return
		}
		fn(e, w.Services())
	case content.SpellCredit:
		for _, p := range w.playersNear(e.Pos, sp.Radius) {
			w.publish(domain.SceneEvent{
				Type:   domain.EventQuestCredit,
				Actor:  p.Handle,
				Target: caster,
				Spell:  spell,
				Line:   int(sp.Quest),
			})
		}
	}

	w.log.WithFields(logrus.Fields{
		"caster":    caster.String(),
		"spell":     spell,
		"triggered": triggered,
	}).Debug("Cast")
}

// ApplyAura накладывает эффект. Повторное наложение обновляет длительность без хуков.
// duration 0 - бессрочно.
func (w *World) ApplyAura(target, caster domain.Handle, spell domain.SpellID, duration time.Duration) {
	e, ok := w.actors[target]
	if !ok {
		return
	}
	if a, ok := e.Auras[spell]; ok {
		a.Remaining = duration
		return
	}
	e.Auras[spell] = &domain.Aura{SpellID: spell, Caster: caster, Remaining: duration}
	w.publish(domain.SceneEvent{Type: domain.EventAuraApplied, Actor: target, Target: caster, Spell: spell})

	if hooks, ok := w.auraScripts[spell]; ok && hooks.OnApply != nil {
		hooks.OnApply(e)
	}
}

// Remove снимает эффект. Нет эффекта - no-op.
func (w *World) Remove(target domain.Handle, spell domain.SpellID) {
	e, ok := w.actors[target]
	if !ok {
		return
	}
	if _, ok := e.Auras[spell]; !ok {
		return
	}
	delete(e.Auras, spell)
	w.publish(domain.SceneEvent{Type: domain.EventAuraRemoved, Actor: target, Spell: spell})

	if hooks, ok := w.auraScripts[spell]; ok && hooks.OnRemove != nil {
		hooks.OnRemove(e)
	}
}

func (w *World) HasAura(target domain.Handle, spell domain.SpellID) bool {
	e, ok := w.actors[target]
	return ok && e.HasAura(spell)
}

// tickAuras уменьшает оставшееся время и снимает истекшие эффекты.
func (w *World) tickAuras(dt time.Duration) {
	for _, h := range w.sortedHandles() {
		e, ok := w.actors[h]
		if !ok || len(e.Auras) == 0 {
			continue
		}
		var expired []domain.SpellID
		for id, a := range e.Auras {
			if a.Remaining <= 0 {
				continue
			}
			a.Remaining -= dt
			if a.Remaining <= 0 {
				expired = append(expired, id)
			}
		}
		sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
		for _, id := range expired {
			w.Remove(h, id)
		}
	}
}
