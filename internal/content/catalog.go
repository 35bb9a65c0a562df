// Package content загружает статический каталог сцены: шаблоны существ,
// заклинания, именованные точки, маршруты и реплики.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"scene-server/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// SpellKind - как сервис эффектов применяет заклинание.
type SpellKind string

const (
	SpellVisual   SpellKind = "visual"    // только визуальный сигнал
	SpellAura     SpellKind = "aura"      // аура на заклинателя
	SpellAreaAura SpellKind = "area_aura" // аура на цели шаблонов Targets в радиусе
	SpellScript   SpellKind = "script"    // исполняет зарегистрированный скрипт заклинания
	SpellCredit   SpellKind = "credit"    // засчитывает квест игрокам рядом
)

var knownSpellKinds = map[SpellKind]bool{
	SpellVisual:   true,
	SpellAura:     true,
	SpellAreaAura: true,
	SpellScript:   true,
	SpellCredit:   true,
}

type Creature struct {
	Entry      domain.Entry     `yaml:"entry"`
	Name       string           `yaml:"name"`
	DisplayIDs []uint32         `yaml:"displayIds"`
	AI         bool             `yaml:"ai"`
	QuestGiver bool             `yaml:"questGiver"`
	Gossip     bool             `yaml:"gossip"`
	Auras      []domain.SpellID `yaml:"auras"`
	Texts      []string         `yaml:"texts"`
}

type Spell struct {
	ID       domain.SpellID `yaml:"id"`
	Name     string         `yaml:"name"`
	Kind     SpellKind      `yaml:"kind"`
	Radius   float64        `yaml:"radius"`
	Duration time.Duration  `yaml:"duration"`
	Targets  []domain.Entry `yaml:"targets"`
	Quest    uint32         `yaml:"quest"`
}

// Placement - статичный актор, создаваемый при старте мира.
type Placement struct {
	Entry domain.Entry    `yaml:"entry"`
	Pos   domain.Position `yaml:"pos"`
}

// Scene - параметры одной авторской сцены.
type Scene struct {
	Quest    uint32                       `yaml:"quest"`
	Lifetime time.Duration                `yaml:"lifetime"`
	Points   map[string][]domain.Position `yaml:"points"`
}

type Catalog struct {
	Creatures  []Creature                   `yaml:"creatures"`
	Spells     []Spell                      `yaml:"spells"`
	Paths      map[uint32][]domain.Position `yaml:"paths"`
	Placements []Placement                  `yaml:"placements"`
	Scenes     map[string]Scene             `yaml:"scenes"`

	// PlayerStart - точка появления подключившихся игроков.
	PlayerStart domain.Position `yaml:"playerStart"`

	creatures map[domain.Entry]*Creature
	spells    map[domain.SpellID]*Spell
}

var (
	ErrUnknownCreature = errors.New("unknown creature")
	ErrUnknownSpell    = errors.New("unknown spell")
	ErrUnknownPoint    = errors.New("unknown point")
	ErrUnknownScene    = errors.New("unknown scene")
)

// Default возвращает встроенный каталог.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load читает каталог с диска. Пустой путь - встроенный каталог.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse декодирует YAML, строит индексы и проверяет ссылки.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.creatures = make(map[domain.Entry]*Creature, len(c.Creatures))
	for i := range c.Creatures {
		cr := &c.Creatures[i]
		if _, dup := c.creatures[cr.Entry]; dup {
			return fmt.Errorf("duplicate creature entry %d", cr.Entry)
		}
		c.creatures[cr.Entry] = cr
	}
	c.spells = make(map[domain.SpellID]*Spell, len(c.Spells))
	for i := range c.Spells {
		sp := &c.Spells[i]
		if _, dup := c.spells[sp.ID]; dup {
			return fmt.Errorf("duplicate spell id %d", sp.ID)
		}
		c.spells[sp.ID] = sp
	}
	return nil
}

// Validate проверяет перекрестные ссылки каталога.
func (c *Catalog) Validate() error {
	var errs []error
	for _, cr := range c.Creatures {
		if cr.Entry == 0 {
			errs = append(errs, fmt.Errorf("creature %q: entry is zero", cr.Name))
		}
		for _, a := range cr.Auras {
			if _, ok := c.spells[a]; !ok {
				errs = append(errs, fmt.Errorf("creature %d aura %d: %w", cr.Entry, a, ErrUnknownSpell))
			}
		}
	}
	for _, sp := range c.Spells {
		if !knownSpellKinds[sp.Kind] {
			errs = append(errs, fmt.Errorf("spell %d: unknown kind %q", sp.ID, sp.Kind))
		}
		if sp.Kind == SpellAreaAura && (sp.Radius <= 0 || len(sp.Targets) == 0) {
			errs = append(errs, fmt.Errorf("spell %d: area aura needs radius and targets", sp.ID))
		}
		if sp.Duration < 0 {
			errs = append(errs, fmt.Errorf("spell %d: negative duration", sp.ID))
		}
		for _, t := range sp.Targets {
			if _, ok := c.creatures[t]; !ok {
				errs = append(errs, fmt.Errorf("spell %d target %d: %w", sp.ID, t, ErrUnknownCreature))
			}
		}
	}
	for i, p := range c.Placements {
		if _, ok := c.creatures[p.Entry]; !ok {
			errs = append(errs, fmt.Errorf("placement #%d entry %d: %w", i, p.Entry, ErrUnknownCreature))
		}
	}
	for id, wps := range c.Paths {
		if len(wps) == 0 {
			errs = append(errs, fmt.Errorf("path %d has no waypoints", id))
		}
	}
	return errors.Join(errs...)
}

// --- LOOKUPS ---

func (c *Catalog) Creature(entry domain.Entry) (*Creature, bool) {
	cr, ok := c.creatures[entry]
	return cr, ok
}

func (c *Catalog) Spell(id domain.SpellID) (*Spell, bool) {
	sp, ok := c.spells[id]
	return sp, ok
}

// Path возвращает точки маршрута (nil, если маршрута нет).
func (c *Catalog) Path(id uint32) []domain.Position {
	return c.Paths[id]
}

// Text возвращает реплику актора. false - строки нет.
func (c *Catalog) Text(entry domain.Entry, line int) (string, bool) {
	cr, ok := c.creatures[entry]
	if !ok || line < 0 || line >= len(cr.Texts) {
		return "", false
	}
	return cr.Texts[line], true
}

func (c *Catalog) Scene(name string) (Scene, error) {
	s, ok := c.Scenes[name]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return s, nil
}

// SceneNames - имена сцен в алфавитном порядке.
func (c *Catalog) SceneNames() []string {
	names := make([]string, 0, len(c.Scenes))
	for n := range c.Scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Point возвращает единственную именованную точку сцены.
func (s Scene) Point(name string) (domain.Position, error) {
	pts, ok := s.Points[name]
	if !ok || len(pts) == 0 {
		return domain.Position{}, fmt.Errorf("%w: %q", ErrUnknownPoint, name)
	}
	return pts[0], nil
}

// PointSet возвращает группу точек сцены (порталы, охрана).
func (s Scene) PointSet(name string) ([]domain.Position, error) {
	pts, ok := s.Points[name]
	if !ok || len(pts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPoint, name)
	}
	out := make([]domain.Position, len(pts))
	copy(out, pts)
	return out, nil
}
