package world

import "scene-server/internal/domain"

// Talk публикует реплику из каталога. Только для акторов с включенным AI.
func (w *World) Talk(h domain.Handle, line int) {
	e, ok := w.actors[h]
	if !ok || !e.AIEnabled {
		return
	}
	text, ok := w.catalog.Text(e.Entry, line)
	if !ok {
		w.log.WithField("actor", h.String()).WithField("line", line).Warn("No text for line")
		return
	}
	w.publish(domain.SceneEvent{Type: domain.EventTalk, Actor: h, Name: e.Name, Line: line, Text: text})
}

func (w *World) PlayOneShotAnimKit(h domain.Handle, kit domain.AnimKitID) {
	if _, ok := w.actors[h]; !ok {
		return
	}
	w.publish(domain.SceneEvent{Type: domain.EventAnimKit, Actor: h, AnimKit: kit})
}

// SetAIAnimKit меняет постоянный анимационный набор (0 - сброс).
func (w *World) SetAIAnimKit(h domain.Handle, kit domain.AnimKitID) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	e.AIAnimKit = kit
	w.publish(domain.SceneEvent{Type: domain.EventAIAnimKit, Actor: h, AnimKit: kit})
}

func (w *World) Emote(h domain.Handle, emote domain.EmoteID) {
	if _, ok := w.actors[h]; !ok {
		return
	}
	w.publish(domain.SceneEvent{Type: domain.EventEmote, Actor: h, Emote: emote})
}

func (w *World) SetNPCFlag(h domain.Handle, flag domain.NPCFlag, on bool) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	before := e.NPCFlags
	if on {
		e.NPCFlags |= flag
	} else {
		e.NPCFlags &^= flag
	}
	if e.NPCFlags == before {
		return
	}
	w.publish(domain.SceneEvent{Type: domain.EventFlags, Actor: h, Flags: e.NPCFlags})
}
