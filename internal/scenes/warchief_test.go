package scenes

import (
	"errors"
	"testing"
	"time"

	"scene-server/internal/content"
	"scene-server/internal/domain"
	"scene-server/internal/script"
)

func controllerOf(t *testing.T, s *sceneWorld) *script.SequenceController {
	t.Helper()
	e, ok := s.w.Resolve(s.executor)
	if !ok {
		t.Fatal("executor missing")
	}
	c, ok := e.Script.(*script.SequenceController)
	if !ok {
		t.Fatalf("executor script is %T", e.Script)
	}
	return c
}

func TestWarchiefTimeline_Shape(t *testing.T) {
	cat, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	tl, err := WarchiefTimeline(cat)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if got, want := tl.Duration(), 185*time.Second+500*time.Millisecond; got != want {
		t.Errorf("nominal duration: expected %s, got %s", want, got)
	}
	if len(tl.Steps) != 32 {
		t.Errorf("expected 32 chain steps, got %d", len(tl.Steps))
	}
	if len(tl.Steps[0].Fork) != 2 {
		t.Errorf("start must fork portals and arrival, got %d", len(tl.Steps[0].Fork))
	}

	at := make(map[string]time.Duration)
	for _, o := range tl.Offsets() {
		at[o.Name] = o.At
	}
	if at["summon_portals"] != 4250*time.Millisecond || at["summon_warchief"] != 7750*time.Millisecond {
		t.Errorf("unexpected fork offsets: portals %s, warchief %s", at["summon_portals"], at["summon_warchief"])
	}
	if at["finish"] != tl.Duration() {
		t.Errorf("finish must close the run at %s, got %s", tl.Duration(), at["finish"])
	}
}

func TestWarchiefTimeline_MissingScene(t *testing.T) {
	cat, err := content.Parse([]byte("creatures: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WarchiefTimeline(cat); !errors.Is(err, content.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestWarchiefTimeline_QuestFromCatalog(t *testing.T) {
	cat, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	scene := cat.Scenes[SceneWarchiefCometh]
	scene.Quest = 27001
	cat.Scenes[SceneWarchiefCometh] = scene

	tl, err := WarchiefTimeline(cat)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if tl.Quest != 27001 {
		t.Errorf("timeline must take its quest from the catalog, got %d", tl.Quest)
	}

	scene.Quest = 0
	cat.Scenes[SceneWarchiefCometh] = scene
	if _, err := WarchiefTimeline(cat); err == nil {
		t.Error("scene without a quest must be rejected")
	}
}

func TestWarchiefScene_FullRun(t *testing.T) {
	s := newSceneWorld(t)
	ctrl := controllerOf(t, s)

	started, err := s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	if err != nil || !started {
		t.Fatalf("quest accept must start the scene: %v %v", started, err)
	}

	// Порталы через 4.25с.
	s.run(4300 * time.Millisecond)
	if n := len(actorsOf(s.w, EntryPortal)); n != 3 {
		t.Fatalf("expected 3 portals, got %d", n)
	}
	if n := s.rec.count(domain.EventCast, func(ev domain.SceneEvent) bool { return ev.Spell == SpellPortalEntrance }); n != 3 {
		t.Errorf("each portal must cast its entrance, got %d", n)
	}

	// Вождь, командир и охрана через 7.75с.
	s.run(3500 * time.Millisecond)
	if n := len(actorsOf(s.w, EntryElite)); n != 16 {
		t.Errorf("expected 16 elites, got %d", n)
	}
	warlords := actorsOf(s.w, EntryWarlord)
	if len(warlords) != 1 {
		t.Fatalf("expected warlord, got %v", warlords)
	}
	wl, _ := s.w.Resolve(warlords[0])
	if wl.HasFlag(domain.NPCFlagQuestGiver) || wl.Motion.PathID != PathWarlord {
		t.Errorf("warlord must drop quest flag and walk its path: %+v", wl)
	}
	if ctrl.Handle(RoleWarchief).IsEmpty() || ctrl.Handle(RoleWarlord) != warlords[0] {
		t.Error("arrival must bind warchief and warlord slots")
	}

	// Агата поднимает павших на ~92.25с, аура держится 8с.
	s.run(112*time.Second - 7800*time.Millisecond)
	for _, entry := range []domain.Entry{EntryFallenHumanMale, EntryFallenHumanFemale} {
		for _, h := range actorsOf(s.w, entry) {
			e, _ := s.w.Resolve(h)
			if e.HasAura(SpellFeigned) {
				t.Errorf("%s still feigning death", h)
			}
			if !e.HasAura(TrooperVariant(e.DisplayID)) {
				t.Errorf("%s missing trooper variant for display %d", h, e.DisplayID)
			}
			if fh, ok := e.Script.(*FallenHuman); !ok || fh.State() != FallenTransformed {
				t.Errorf("%s not transformed", h)
			}
		}
	}

	s.run(74 * time.Second) // до 186с
	if ctrl.IsRunning() {
		t.Fatalf("scene must finish, state %+v", ctrl.Snapshot())
	}
	if ctrl.Completed() != 1 {
		t.Errorf("expected one completed run, got %d", ctrl.Completed())
	}
	for _, entry := range []domain.Entry{EntryPortal, EntryElite, EntryWarchief, EntryWarlord} {
		if n := len(actorsOf(s.w, entry)); n != 0 {
			t.Errorf("entry %d: %d summons left after finish", entry, n)
		}
	}

	talks := s.rec.count(domain.EventTalk, nil)
	if talks != 22 {
		t.Errorf("expected 22 lines of dialogue, got %d", talks)
	}
	credit := s.rec.count(domain.EventQuestCredit, func(ev domain.SceneEvent) bool { return ev.Actor == s.player })
	if credit != 1 {
		t.Errorf("player must get quest credit once, got %d", credit)
	}
	teleports := s.rec.count(domain.EventCast, func(ev domain.SceneEvent) bool { return ev.Spell == SpellSimpleTeleport })
	if teleports != 2*(16+1)+1+3 {
		t.Errorf("unexpected teleport casts: %d", teleports)
	}

	agatha := actorsOf(s.w, EntryAgatha)
	a, _ := s.w.Resolve(agatha[0])
	if a.Pos.Z != 58.1319 || a.Walking {
		t.Errorf("agatha must end at reset point running, got %+v walking=%v", a.Pos, a.Walking)
	}
}

func TestWarchiefScene_AnchorMissing(t *testing.T) {
	s := newSceneWorld(t)
	for _, h := range actorsOf(s.w, EntryAgatha) {
		s.w.Despawn(h, 0)
	}
	started, err := s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	if err != nil || started {
		t.Fatalf("scene must not start without agatha: %v %v", started, err)
	}
	s.run(10 * time.Second)
	if n := len(actorsOf(s.w, EntryPortal)); n != 0 {
		t.Errorf("nothing must be summoned, got %d portals", n)
	}
}

func TestWarchiefScene_DoubleAccept(t *testing.T) {
	s := newSceneWorld(t)
	s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	s.run(time.Second)
	started, _ := s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	if started {
		t.Error("second accept must not restart the scene")
	}
	s.run(5 * time.Second)
	if n := len(actorsOf(s.w, EntryPortal)); n != 3 {
		t.Errorf("expected exactly 3 portals, got %d", n)
	}
}

func TestWarchiefScene_OtherQuestIgnored(t *testing.T) {
	s := newSceneWorld(t)
	started, err := s.w.AcceptQuest(s.player, s.executor, 1)
	if err != nil || started {
		t.Errorf("unrelated quest must be ignored: %v %v", started, err)
	}
}

func TestWarchiefScene_ExecutorRemoved(t *testing.T) {
	s := newSceneWorld(t)
	s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	s.run(10 * time.Second)
	if len(actorsOf(s.w, EntryElite)) == 0 {
		t.Fatal("arrival expected before removal")
	}

	s.w.Despawn(s.executor, 0)
	s.run(time.Second)

	for _, entry := range []domain.Entry{EntryPortal, EntryElite, EntryWarchief, EntryWarlord} {
		if n := len(actorsOf(s.w, entry)); n != 0 {
			t.Errorf("entry %d: %d summons left after owner removal", entry, n)
		}
	}
}

func TestWarchiefScene_ResetRestarts(t *testing.T) {
	s := newSceneWorld(t)
	ctrl := controllerOf(t, s)
	s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	s.run(20 * time.Second)

	if err := s.w.ResetScript(s.executor); err != nil {
		t.Fatal(err)
	}
	if ctrl.IsRunning() {
		t.Fatal("reset must stop the run")
	}
	s.run(time.Second)

	started, _ := s.w.AcceptQuest(s.player, s.executor, QuestWarchiefCometh)
	if !started {
		t.Error("scene must be restartable after reset")
	}
}
