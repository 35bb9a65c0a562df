package script

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"scene-server/internal/domain"
)

// Role - имя слота актора внутри прогона ("warchief", "agatha", ...).
type Role string

// Anchor - актор, который должен существовать рядом с владельцем для старта прогона.
type Anchor struct {
	Role   Role
	Entry  domain.Entry
	Radius float64
}

// StepFunc - тело бита. Ошибок не возвращает: отсутствие актора - пропуск эффекта.
type StepFunc func(b *Beat)

// Step - один бит сценария.
// Delay считается от исполнения предыдущего бита цепочки (для Fork - от бита-родителя).
type Step struct {
	Name  string
	Delay time.Duration
	Run   StepFunc
	Fork  []Step
}

// Timeline - авторский сценарий контроллера.
type Timeline struct {
	Name string
	// Quest - квест, принятие которого запускает прогон (0 - любой).
	Quest   uint32
	Anchors []Anchor
	Steps   []Step

	// FinishAfter - задержка финального бита после последнего шага цепочки.
	FinishAfter time.Duration
	// Exit - визуальный уход временных акторов в финальном бите.
	Exit      ExitFunc
	ExitGrace time.Duration
}

var (
	ErrEmptyTimeline = errors.New("timeline has no steps")
	ErrBadStep       = errors.New("invalid step")
	ErrBadAnchor     = errors.New("invalid anchor")
)

// Validate проверяет сценарий целиком и возвращает все найденные проблемы.
func (t *Timeline) Validate() error {
	if t == nil || len(t.Steps) == 0 {
		return ErrEmptyTimeline
	}

	var errs []error
	seenRoles := make(map[Role]bool)
	for i, a := range t.Anchors {
		switch {
		case a.Role == "":
			errs = append(errs, fmt.Errorf("%w: anchor #%d has no role", ErrBadAnchor, i))
		case a.Entry == 0:
			errs = append(errs, fmt.Errorf("%w: anchor %q has no entry", ErrBadAnchor, a.Role))
		case a.Radius <= 0:
			errs = append(errs, fmt.Errorf("%w: anchor %q radius %.1f", ErrBadAnchor, a.Role, a.Radius))
		case seenRoles[a.Role]:
			errs = append(errs, fmt.Errorf("%w: duplicate anchor role %q", ErrBadAnchor, a.Role))
		}
		seenRoles[a.Role] = true
	}

	if t.FinishAfter < 0 {
		errs = append(errs, fmt.Errorf("%w: negative finish delay %s", ErrBadStep, t.FinishAfter))
	}

	seen := make(map[string]bool)
	var walk func(steps []Step, path string)
	walk = func(steps []Step, path string) {
		for i := range steps {
			s := &steps[i]
			where := fmt.Sprintf("%s[%d]", path, i)
			if s.Name == "" {
				errs = append(errs, fmt.Errorf("%w: %s has no name", ErrBadStep, where))
			} else if seen[s.Name] {
				errs = append(errs, fmt.Errorf("%w: duplicate step name %q", ErrBadStep, s.Name))
			}
			seen[s.Name] = true
			if s.Delay < 0 {
				errs = append(errs, fmt.Errorf("%w: %q negative delay %s", ErrBadStep, s.Name, s.Delay))
			}
			if s.Run == nil {
				errs = append(errs, fmt.Errorf("%w: %q has no handler", ErrBadStep, s.Name))
			}
			walk(s.Fork, where+".fork")
		}
	}
	walk(t.Steps, "steps")

	if len(errs) > 0 {
		return fmt.Errorf("timeline %q: %w", t.Name, errors.Join(errs...))
	}
	return nil
}

// Duration - номинальная длина прогона от старта до финального бита.
func (t *Timeline) Duration() time.Duration {
	var total time.Duration
	for _, s := range t.Steps {
		total += s.Delay
	}
	return total + t.FinishAfter
}

// StepNames - имена всех шагов (включая ответвления) в порядке объявления.
func (t *Timeline) StepNames() []string {
	var names []string
	var walk func(steps []Step)
	walk = func(steps []Step) {
		for _, s := range steps {
			names = append(names, s.Name)
			walk(s.Fork)
		}
	}
	walk(t.Steps)
	return names
}

// StepOffset - номинальное время бита от начала прогона.
type StepOffset struct {
	Name   string
	At     time.Duration
	Forked bool
}

// Offsets раскладывает сценарий по номинальному времени, включая ответвления.
// Финальный бит называется "finish".
func (t *Timeline) Offsets() []StepOffset {
	var out []StepOffset
	var walk func(steps []Step, base time.Duration, forked bool)
	walk = func(steps []Step, base time.Duration, forked bool) {
		at := base
		for _, s := range steps {
			if forked {
				at = base + s.Delay
			} else {
				at += s.Delay
			}
			out = append(out, StepOffset{Name: s.Name, At: at, Forked: forked})
			walk(s.Fork, at, true)
		}
	}
	walk(t.Steps, 0, false)
	out = append(out, StepOffset{Name: "finish", At: t.Duration()})
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}
