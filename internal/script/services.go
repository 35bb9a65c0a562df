// Package script contains the machinery scripted actors are built from: the
// contracts of the engine services a script may call, the handle resolver,
// the per-run spawn registry and the sequence controller that plays an
// authored timeline of beats.
package script

import (
	"time"

	"scene-server/internal/domain"
)

// Directory ищет акторов мира. Только чтение.
type Directory interface {
	// FindNearest ищет ближайшего живого актора с шаблоном entry в радиусе от from.
	FindNearest(from domain.Handle, entry domain.Entry, radius float64) (domain.Handle, bool)
	// FindAll возвращает всех живых акторов шаблона entry в радиусе.
	FindAll(from domain.Handle, entry domain.Entry, radius float64) []domain.Handle
	// Resolve превращает ссылку в живого актора. false - актора больше нет.
	Resolve(h domain.Handle) (*domain.Entity, bool)
}

// Spawner создает и удаляет временных акторов.
// Созданный актор удаляется сам по истечении lifetime, независимо от скриптов.
type Spawner interface {
	Spawn(owner domain.Handle, entry domain.Entry, pos domain.Position, lifetime time.Duration) (domain.Handle, error)
	Despawn(h domain.Handle, delay time.Duration)
}

// Presenter - реплики, анимации, жесты. Best-effort, без ошибок.
type Presenter interface {
	Talk(h domain.Handle, line int)
	PlayOneShotAnimKit(h domain.Handle, kit domain.AnimKitID)
	SetAIAnimKit(h domain.Handle, kit domain.AnimKitID)
	Emote(h domain.Handle, emote domain.EmoteID)
	SetNPCFlag(h domain.Handle, flag domain.NPCFlag, on bool)
}

// Mover принимает приказы на движение. Завершение движения не наблюдается.
type Mover interface {
	MovePoint(h domain.Handle, pointID uint32, dest domain.Position)
	MovePath(h domain.Handle, pathID uint32)
	MoveJump(h domain.Handle, dest domain.Position, speedXY, speedZ float64)
	MoveFall(h domain.Handle)
	SetFacing(h domain.Handle, orientation float64)
	FaceToward(h domain.Handle, target domain.Handle)
	SetWalk(h domain.Handle, walk bool)
}

// Effects накладывает и снимает статус-эффекты.
// Наложение/снятие ауры - канал триггеров во вторичные контроллеры.
type Effects interface {
	Cast(caster domain.Handle, spell domain.SpellID, triggered bool)
	Remove(target domain.Handle, spell domain.SpellID)
	HasAura(target domain.Handle, spell domain.SpellID) bool
}

// Services - набор движковых сервисов, доступных скрипту.
type Services struct {
	Directory Directory
	Spawner   Spawner
	Presenter Presenter
	Mover     Mover
	Effects   Effects
}
