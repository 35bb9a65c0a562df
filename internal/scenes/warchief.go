package scenes

import (
	"fmt"
	"time"

	"scene-server/internal/content"
	"scene-server/internal/domain"
	"scene-server/internal/script"
)

const (
	RoleSylvanas script.Role = "sylvanas"
	RoleAgatha   script.Role = "agatha"
	RoleWarchief script.Role = "warchief"
	RoleWarlord  script.Role = "warlord"
)

// warchiefPoints - точки сцены, прочитанные из каталога один раз при сборке.
type warchiefPoints struct {
	portals        []domain.Position
	elites         []domain.Position
	warchief       domain.Position
	warchiefJump   domain.Position
	warlord        domain.Position
	agathaPreRise  domain.Position
	agathaRise     domain.Position
	agathaPreReset domain.Position
	agathaReset    domain.Position
	lifetime       time.Duration
	quest          uint32
}

func loadWarchiefPoints(cat *content.Catalog) (warchiefPoints, error) {
	scene, err := cat.Scene(SceneWarchiefCometh)
	if err != nil {
		return warchiefPoints{}, err
	}
	p := warchiefPoints{lifetime: scene.Lifetime, quest: scene.Quest}
	if p.portals, err = scene.PointSet("portals"); err != nil {
		return p, err
	}
	if p.elites, err = scene.PointSet("elites"); err != nil {
		return p, err
	}
	singles := []struct {
		name string
		dst  *domain.Position
	}{
		{"warchief", &p.warchief},
		{"warchief_jump", &p.warchiefJump},
		{"warlord", &p.warlord},
		{"agatha_pre_rise", &p.agathaPreRise},
		{"agatha_rise", &p.agathaRise},
		{"agatha_pre_reset", &p.agathaPreReset},
		{"agatha_reset", &p.agathaReset},
	}
	for _, s := range singles {
		if *s.dst, err = scene.Point(s.name); err != nil {
			return p, err
		}
	}
	if p.lifetime <= 0 {
		return p, fmt.Errorf("scene %s: lifetime must be positive", SceneWarchiefCometh)
	}
	if p.quest == 0 {
		return p, fmt.Errorf("scene %s: quest is not set", SceneWarchiefCometh)
	}
	return p, nil
}

// WarchiefTimeline собирает сценарий исполнителя: игрок берет квест, из порталов
// прибывает вождь с охраной, Агата поднимает павших, вождь уходит.
func WarchiefTimeline(cat *content.Catalog) (*script.Timeline, error) {
	p, err := loadWarchiefPoints(cat)
	if err != nil {
		return nil, fmt.Errorf("warchief timeline: %w", err)
	}

	tl := &script.Timeline{
		Name:  SceneWarchiefCometh,
		Quest: p.quest,
		Anchors: []script.Anchor{
			{Role: RoleSylvanas, Entry: EntrySylvanas, Radius: anchorRadius},
			{Role: RoleAgatha, Entry: EntryAgatha, Radius: anchorRadius},
		},
		FinishAfter: 9 * time.Second,
		Exit: func(svc script.Services, e *domain.Entity) {
			svc.Effects.Cast(e.Handle, SpellSimpleTeleport, false)
		},
		ExitGrace: exitGrace,
	}

	tl.Steps = []script.Step{
		{
			Name:  "start",
			Delay: 250 * time.Millisecond,
			Run:   func(b *script.Beat) {},
			Fork: []script.Step{
				{Name: "summon_portals", Delay: 4 * time.Second, Run: p.summonPortals},
				{Name: "summon_warchief", Delay: 7*time.Second + 500*time.Millisecond, Run: p.summonWarchief},
			},
		},
		{Name: "sylvanas_waits", Delay: time.Second, Run: say(RoleSylvanas, 0)},
		{Name: "sylvanas_sees_portal", Delay: 4*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			face(b, RoleSylvanas, 0.808979)
			b.Talk(RoleSylvanas, 1)
		}},
		{Name: "warchief_jumps", Delay: 3*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			if g, ok := b.Actor(RoleWarchief); ok {
				b.Services().Mover.MoveJump(g.Handle, p.warchiefJump, warchiefJumpSpeed, warchiefJumpSpeed)
			}
		}},
		{Name: "sylvanas_turns", Delay: 2*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			face(b, RoleSylvanas, 3.924652)
		}},
		{Name: "warchief_greets", Delay: time.Second, Run: func(b *script.Beat) {
			faceRole(b, RoleWarchief, RoleSylvanas)
			anim(b, RoleWarchief, AnimKitWarchief1)
			b.Talk(RoleWarchief, 0)
		}},
		{Name: "warchief_disgusted", Delay: 12 * time.Second, Run: func(b *script.Beat) {
			face(b, RoleWarchief, 3.9444442)
			b.Talk(RoleWarchief, 1)
		}},
		{Name: "sylvanas_welcomes", Delay: 7 * time.Second, Run: func(b *script.Beat) {
			face(b, RoleSylvanas, 2.4260077)
			b.Talk(RoleSylvanas, 2)
		}},
		{Name: "sylvanas_explains", Delay: 5 * time.Second, Run: func(b *script.Beat) {
			face(b, RoleSylvanas, 3.7350047)
			anim(b, RoleSylvanas, AnimKitSylvanas1)
			b.Talk(RoleSylvanas, 3)
		}},
		{Name: "sylvanas_loyalty", Delay: 16 * time.Second, Run: say(RoleSylvanas, 4)},
		{Name: "warchief_questions", Delay: 4 * time.Second, Run: say(RoleWarchief, 2)},
		{Name: "sylvanas_calls_agatha", Delay: 3 * time.Second, Run: say(RoleSylvanas, 5)},
		{Name: "sylvanas_rise", Delay: 6 * time.Second, Run: say(RoleSylvanas, 6)},
		{Name: "sylvanas_behold", Delay: 6 * time.Second, Run: func(b *script.Beat) {
			anim(b, RoleSylvanas, AnimKitSylvanas2)
			b.Talk(RoleSylvanas, 7)
		}},
		{Name: "sylvanas_alternative", Delay: 9 * time.Second, Run: say(RoleSylvanas, 8)},
		{Name: "agatha_ascends", Delay: 3 * time.Second, Run: func(b *script.Beat) {
			movePoint(b, RoleAgatha, PointAgathaPreRise, p.agathaPreRise)
		}},
		{Name: "agatha_hovers", Delay: 2*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			if a, ok := b.Actor(RoleAgatha); ok {
				b.Services().Mover.SetWalk(a.Handle, true)
				b.Services().Mover.MovePoint(a.Handle, PointAgathaRise, p.agathaRise)
			}
		}},
		{Name: "agatha_raises", Delay: 6 * time.Second, Run: func(b *script.Beat) {
			if a, ok := b.Actor(RoleAgatha); ok {
				b.Services().Effects.Cast(a.Handle, SpellRaiseForsaken, false)
			}
		}},
		{Name: "agatha_descends", Delay: 10 * time.Second, Run: func(b *script.Beat) {
			movePoint(b, RoleAgatha, PointAgathaPreReset, p.agathaPreReset)
		}},
		{Name: "warlord_reports", Delay: 750 * time.Millisecond, Run: say(RoleWarlord, 0)},
		{Name: "warchief_lich_king", Delay: 3*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			anim(b, RoleWarchief, AnimKitGeneral)
			b.Talk(RoleWarchief, 3)
			if a, ok := b.Actor(RoleAgatha); ok {
				b.Services().Mover.SetWalk(a.Handle, false)
			}
		}},
		{Name: "agatha_resets", Delay: 12 * time.Second, Run: func(b *script.Beat) {
			movePoint(b, RoleAgatha, PointAgathaReset, p.agathaReset)
		}},
		{Name: "sylvanas_salutes", Delay: time.Second, Run: func(b *script.Beat) {
			anim(b, RoleSylvanas, AnimKitGeneral)
			b.Talk(RoleSylvanas, 9)
		}},
		{Name: "warchief_warns", Delay: 10 * time.Second, Run: say(RoleWarchief, 4)},
		{Name: "warchief_meddling", Delay: 6 * time.Second, Run: say(RoleWarchief, 5)},
		{Name: "sylvanas_begun", Delay: 6 * time.Second, Run: say(RoleSylvanas, 10)},
		{Name: "warchief_orders", Delay: 5 * time.Second, Run: func(b *script.Beat) {
			face(b, RoleWarchief, 5.51524)
			b.Talk(RoleWarchief, 6)
		}},
		{Name: "warchief_faces_warlord", Delay: 4*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			faceRole(b, RoleWarchief, RoleWarlord)
		}},
		{Name: "warchief_step_out", Delay: 500 * time.Millisecond, Run: func(b *script.Beat) {
			anim(b, RoleWarchief, AnimKitWarchief2)
			b.Talk(RoleWarchief, 7)
		}},
		{Name: "warlord_obeys", Delay: 14 * time.Second, Run: func(b *script.Beat) {
			b.Talk(RoleWarlord, 1)
			faceRole(b, RoleWarlord, RoleWarchief)
		}},
		{Name: "warchief_probation", Delay: 2*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			face(b, RoleWarchief, 5.6199603)
			anim(b, RoleWarchief, AnimKitWarchief2)
			b.Talk(RoleWarchief, 8)
		}},
		{Name: "warchief_departs", Delay: 8*time.Second + 500*time.Millisecond, Run: func(b *script.Beat) {
			if g, ok := b.Actor(RoleWarchief); ok {
				b.Services().Effects.Cast(g.Handle, SpellSceneCredit, true)
				b.Services().Mover.MovePath(g.Handle, PathWarchief)
			}
		}},
	}

	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

func (p warchiefPoints) summonPortals(b *script.Beat) {
	for _, pos := range p.portals {
		b.Spawn(EntryPortal, pos, p.lifetime, "")
	}
	fx := b.Services().Effects
	for _, h := range b.Services().Directory.FindAll(b.Owner(), EntryPortal, portalSearch) {
		fx.Cast(h, SpellPortalEntrance, false)
	}
}

func (p warchiefPoints) summonWarchief(b *script.Beat) {
	svc := b.Services()
	for _, pos := range p.elites {
		if h, ok := b.Spawn(EntryElite, pos, p.lifetime, ""); ok {
			svc.Effects.Cast(h, SpellSimpleTeleport, false)
		}
	}
	if h, ok := b.Spawn(EntryWarchief, p.warchief, p.lifetime, RoleWarchief); ok {
		svc.Effects.Cast(h, SpellSimpleTeleport, false)
	}
	if h, ok := b.Spawn(EntryWarlord, p.warlord, p.lifetime, RoleWarlord); ok {
		svc.Presenter.SetNPCFlag(h, domain.NPCFlagQuestGiver, false)
		svc.Mover.MovePath(h, PathWarlord)
	}
}

// --- BEAT HELPERS ---

func say(role script.Role, line int) script.StepFunc {
	return func(b *script.Beat) { b.Talk(role, line) }
}

func face(b *script.Beat, role script.Role, o float64) {
	if e, ok := b.Actor(role); ok {
		b.Services().Mover.SetFacing(e.Handle, o)
	}
}

// faceRole разворачивает who к target, если живы оба.
func faceRole(b *script.Beat, who, target script.Role) {
	e, ok := b.Actor(who)
	if !ok {
		return
	}
	t, ok := b.Actor(target)
	if !ok {
		return
	}
	b.Services().Mover.FaceToward(e.Handle, t.Handle)
}

func anim(b *script.Beat, role script.Role, kit domain.AnimKitID) {
	if e, ok := b.Actor(role); ok {
		b.Services().Presenter.PlayOneShotAnimKit(e.Handle, kit)
	}
}

func movePoint(b *script.Beat, role script.Role, id uint32, pos domain.Position) {
	if e, ok := b.Actor(role); ok {
		b.Services().Mover.MovePoint(e.Handle, id, pos)
	}
}
