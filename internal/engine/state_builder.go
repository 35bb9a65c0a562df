package engine

import (
	"scene-server/internal/domain"
	"scene-server/pkg/api"
)

// BuildEventView переводит событие мира в DTO для клиента.
func BuildEventView(ev domain.SceneEvent) *api.SceneEventView {
	v := &api.SceneEventView{
		Type:    ev.Type.String(),
		AtMs:    ev.At.Milliseconds(),
		Actor:   ev.Actor.Key(),
		Name:    ev.Name,
		Text:    ev.Text,
		Line:    ev.Line,
		AnimKit: uint16(ev.AnimKit),
		Emote:   uint32(ev.Emote),
		Spell:   uint32(ev.Spell),
		Flags:   uint32(ev.Flags),
		Walking: ev.Walking,
	}
	if !ev.Target.IsEmpty() {
		v.Target = ev.Target.Key()
	}
	if ev.Type == domain.EventMove {
		v.Motion = ev.Motion.String()
	}
	if ev.Pos != nil {
		v.Pos = &api.PositionView{X: ev.Pos.X, Y: ev.Pos.Y, Z: ev.Pos.Z, O: ev.Pos.O}
	}
	return v
}

// buildEventMessage - сообщение EVENT для рассылки всем в зоне.
func buildEventMessage(zone int, ev domain.SceneEvent) api.ServerMessage {
	return api.ServerMessage{
		Type:  api.MsgEvent,
		Zone:  zone,
		Event: BuildEventView(ev),
	}
}
