// Package scenes - авторские сцены зоны: прибытие вождя к исполнителю,
// подъем павших людей и превращение их в солдат.
package scenes

import (
	"time"

	"scene-server/internal/domain"
)

const SceneWarchiefCometh = "warchief_cometh"

const QuestWarchiefCometh uint32 = 26965

// Шаблоны существ
const (
	EntrySylvanas          domain.Entry = 44365
	EntryAgatha            domain.Entry = 44608
	EntryExecutor          domain.Entry = 44615
	EntryFallenHumanMale   domain.Entry = 44592
	EntryFallenHumanFemale domain.Entry = 44593
	EntryPortal            domain.Entry = 44630
	EntryWarchief          domain.Entry = 44629
	EntryWarlord           domain.Entry = 44640
	EntryElite             domain.Entry = 44636
)

// Заклинания
const (
	SpellRaiseForsaken       domain.SpellID = 83173
	SpellPortalEntrance      domain.SpellID = 55761
	SpellSimpleTeleport      domain.SpellID = 12980
	SpellSceneCredit         domain.SpellID = 83384
	SpellFeigned             domain.SpellID = 80636
	SpellTrooperMasterScript domain.SpellID = 83149
)

// Анимации
const (
	AnimKitReset       domain.AnimKitID = 0
	AnimKitGeneral     domain.AnimKitID = 609
	AnimKitSylvanas1   domain.AnimKitID = 595
	AnimKitSylvanas2   domain.AnimKitID = 606
	AnimKitWarchief1   domain.AnimKitID = 662
	AnimKitWarchief2   domain.AnimKitID = 595
	AnimKitFallenHuman domain.AnimKitID = 721
)

// Маршруты и точки движения
const (
	PathWarlord  uint32 = 446402
	PathWarchief uint32 = 446290

	PointAgathaPreRise  uint32 = 1
	PointAgathaRise     uint32 = 2
	PointAgathaPreReset uint32 = 3
	PointAgathaReset    uint32 = 4

	PointBeingRisen uint32 = 1
)

const (
	anchorRadius      = 100.0
	portalSearch      = 100.0
	warchiefJumpSpeed = 15.595897
	exitGrace         = 500 * time.Millisecond
)
