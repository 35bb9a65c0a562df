package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/internal/content"
	"scene-server/internal/domain"
)

var (
	ErrUnknownActor  = errors.New("unknown actor")
	ErrNotQuestGiver = errors.New("actor is not a quest giver")
)

// Populate создает статичных акторов из каталога.
func (w *World) Populate() error {
	for i, p := range w.catalog.Placements {
		if _, err := w.Spawn(domain.NilHandle, p.Entry, p.Pos, 0); err != nil {
			return fmt.Errorf("placement #%d: %w", i, err)
		}
	}
	w.log.WithField("actors", len(w.actors)).Info("World populated")
	return nil
}

// Spawn создает существо из шаблона каталога.
// lifetime > 0 - актор будет удален через lifetime, что бы ни делали скрипты.
func (w *World) Spawn(owner domain.Handle, entry domain.Entry, pos domain.Position, lifetime time.Duration) (domain.Handle, error) {
	tmpl, ok := w.catalog.Creature(entry)
	if !ok {
		return domain.NilHandle, fmt.Errorf("spawn %d: %w", entry, content.ErrUnknownCreature)
	}

	w.counter++
	e := &domain.Entity{
		Handle:    domain.PackHandle(domain.TypeCreature, entry, w.counter),
		Entry:     entry,
		Name:      tmpl.Name,
		Pos:       pos,
		Summoner:  owner,
		AIEnabled: tmpl.AI,
		Auras:     make(map[domain.SpellID]*domain.Aura),
	}
	if n := len(tmpl.DisplayIDs); n > 0 {
		e.DisplayID = tmpl.DisplayIDs[int(w.counter)%n]
	}
	if tmpl.QuestGiver {
		e.NPCFlags |= domain.NPCFlagQuestGiver
	}
	if tmpl.Gossip {
		e.NPCFlags |= domain.NPCFlagGossip
	}
	for _, id := range tmpl.Auras {
		e.Auras[id] = &domain.Aura{SpellID: id, Caster: e.Handle}
	}

	w.register(e)
	if lifetime > 0 {
		w.scheduleDespawn(e, lifetime)
	}

	p := e.Pos
	w.publish(domain.SceneEvent{
		Type:   domain.EventSpawn,
		Actor:  e.Handle,
		Target: owner,
		Name:   e.Name,
		Pos:    &p,
	})

	if factory, ok := w.creatureScripts[entry]; ok {
		s, err := factory(e, w.Services())
		if err != nil {
			w.log.WithError(err).WithField("entry", entry).Error("Script attach failed")
		} else {
			e.Script = s
		}
	}

	w.log.WithFields(logrus.Fields{
		"actor":    e.Handle.String(),
		"name":     e.Name,
		"lifetime": lifetime,
	}).Debug("Spawned")
	return e.Handle, nil
}

// SpawnPlayer добавляет игрока (без шаблона и срока жизни).
func (w *World) SpawnPlayer(name string, pos domain.Position) domain.Handle {
	w.counter++
	e := &domain.Entity{
		Handle:    domain.PackHandle(domain.TypePlayer, 0, w.counter),
		Name:      name,
		Pos:       pos,
		AIEnabled: false,
		Auras:     make(map[domain.SpellID]*domain.Aura),
	}
	w.register(e)
	p := e.Pos
	w.publish(domain.SceneEvent{Type: domain.EventSpawn, Actor: e.Handle, Name: name, Pos: &p})
	return e.Handle
}

// Despawn удаляет актора через delay. Неизвестный актор - no-op.
// Несколько запросов: срабатывает самый ранний.
func (w *World) Despawn(h domain.Handle, delay time.Duration) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	if delay <= 0 {
		w.remove(e)
		return
	}
	w.scheduleDespawn(e, delay)
}

func (w *World) scheduleDespawn(e *domain.Entity, delay time.Duration) {
	at := w.now + delay
	if e.DespawnAt == 0 || at < e.DespawnAt {
		e.DespawnAt = at
	}
	w.despawns.Schedule(e.Handle, delay)
}

// remove удаляет актора немедленно и сообщает его скрипту.
func (w *World) remove(e *domain.Entity) {
	if _, ok := w.actors[e.Handle]; !ok {
		return
	}
	w.unregister(e)
	delete(w.ground, e.Handle)
	w.publish(domain.SceneEvent{Type: domain.EventDespawn, Actor: e.Handle, Name: e.Name})
	w.log.WithField("actor", e.Handle.String()).Debug("Despawned")

	if s, ok := e.Script.(domain.Shutdowner); ok {
		s.Shutdown()
	}
}
