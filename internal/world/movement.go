package world

import (
	"fmt"

	"scene-server/internal/domain"
)

// Приказы на движение исполняются мгновенно: актор сразу оказывается в точке
// назначения, а клиенту уходит сам приказ. Прокладки пути нет.

func (w *World) MovePoint(h domain.Handle, pointID uint32, dest domain.Position) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	w.order(e, domain.MotionOrder{Kind: domain.MotionPoint, PointID: pointID, Dest: dest})
}

// MovePath ведет актора по маршруту каталога. Неизвестный маршрут - no-op.
func (w *World) MovePath(h domain.Handle, pathID uint32) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	wps := w.catalog.Path(pathID)
	if len(wps) == 0 {
		w.log.WithField("path", pathID).Warn("Unknown path")
		return
	}
	dest := wps[len(wps)-1]
	if len(wps) > 1 {
		dest.O = wps[len(wps)-2].AngleTo(dest)
	}
	w.order(e, domain.MotionOrder{Kind: domain.MotionPath, PathID: pathID, Dest: dest})
}

func (w *World) MoveJump(h domain.Handle, dest domain.Position, speedXY, speedZ float64) {
	e, ok := w.actors[h]
	if !ok || speedXY <= 0 {
		return
	}
	w.order(e, domain.MotionOrder{Kind: domain.MotionJump, Dest: dest})
}

// MoveFall роняет актора на высоту, где он был создан.
func (w *World) MoveFall(h domain.Handle) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	dest := e.Pos
	if z, ok := w.ground[h]; ok {
		dest.Z = z
	}
	w.order(e, domain.MotionOrder{Kind: domain.MotionFall, Dest: dest})
}

// Teleport мгновенно переносит актора (админ-команда). Скрипты не уведомляются.
func (w *World) Teleport(h domain.Handle, pos domain.Position) error {
	e, ok := w.actors[h]
	if !ok {
		return fmt.Errorf("actor %s: %w", h, ErrUnknownActor)
	}
	w.order(e, domain.MotionOrder{Kind: domain.MotionTeleport, Dest: pos})
	return nil
}

func (w *World) SetFacing(h domain.Handle, orientation float64) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	e.Pos.O = domain.NormalizeOrientation(orientation)
	w.publish(domain.SceneEvent{Type: domain.EventFacing, Actor: h, Pos: ptr(e.Pos)})
}

// FaceToward разворачивает h к target. Если target нет - no-op.
func (w *World) FaceToward(h domain.Handle, target domain.Handle) {
	e, ok := w.actors[h]
	if !ok {
		return
	}
	t, ok := w.actors[target]
	if !ok {
		return
	}
	e.Pos.O = e.Pos.AngleTo(t.Pos)
	w.publish(domain.SceneEvent{Type: domain.EventFacing, Actor: h, Target: target, Pos: ptr(e.Pos)})
}

func (w *World) SetWalk(h domain.Handle, walk bool) {
	e, ok := w.actors[h]
	if !ok || e.Walking == walk {
		return
	}
	e.Walking = walk
	w.publish(domain.SceneEvent{Type: domain.EventWalk, Actor: h, Walking: walk})
}

func (w *World) order(e *domain.Entity, o domain.MotionOrder) {
	e.Motion = o
	w.relocate(e, o.Dest)
	w.publish(domain.SceneEvent{
		Type:    domain.EventMove,
		Actor:   e.Handle,
		Motion:  o.Kind,
		Walking: e.Walking,
		Pos:     ptr(o.Dest),
	})
}

func ptr(p domain.Position) *domain.Position { return &p }
