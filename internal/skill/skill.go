// Package skill implements per-discipline progression and the aggregate
// skill set owned by a player.
package skill

import (
	"github.com/pixil98/go-realm/internal/formula"
)

// Discipline identifies one trainable skill.
type Discipline int

const (
	Accuracy Discipline = iota
	Strength
	Archery
	Magic
	Health
	Lumberjacking
	Fishing
	Mining
)

var disciplineNames = map[Discipline]string{
	Accuracy:      "Accuracy",
	Strength:      "Strength",
	Archery:       "Archery",
	Magic:         "Magic",
	Health:        "Health",
	Lumberjacking: "Lumberjacking",
	Fishing:       "Fishing",
	Mining:        "Mining",
}

func (d Discipline) String() string { return disciplineNames[d] }

// Skill is one discipline's progression counter and derived level. Level is
// always a pure function of experience; experience only ever grows.
type Skill struct {
	discipline Discipline
	experience int
	level      int
	combat     bool

	listeners  []func(delta, newLevel int, leveledUp bool)
	stopAction func()
}

func newSkill(d Discipline, combat bool) *Skill {
	return &Skill{
		discipline: d,
		level:      1,
		combat:     combat,
	}
}

func (s *Skill) Discipline() Discipline { return s.discipline }
func (s *Skill) Experience() int        { return s.experience }
func (s *Skill) Level() int             { return s.level }
func (s *Skill) IsCombat() bool         { return s.combat }

// AddExperience grows the counter and fires experience listeners with the
// delta, the derived level, and whether a level boundary was crossed.
// Non-positive deltas are ignored; skills never unlearn.
func (s *Skill) AddExperience(delta int) {
	if delta <= 0 {
		return
	}

	s.experience += delta
	newLevel := formula.LevelForExperience(s.experience)
	leveledUp := newLevel > s.level
	s.level = newLevel

	for _, fn := range s.listeners {
		fn(delta, newLevel, leveledUp)
	}
}

// setExperience applies a persisted counter directly during bulk restore.
// No listeners fire; the restore is not a gain.
func (s *Skill) setExperience(experience int) {
	if experience < 0 {
		experience = 0
	}
	s.experience = experience
	s.level = formula.LevelForExperience(experience)
}

// OnExperience registers a listener fired on every experience gain.
func (s *Skill) OnExperience(fn func(delta, newLevel int, leveledUp bool)) {
	s.listeners = append(s.listeners, fn)
}

// SetAction installs the stop hook for a repeating activity tied to this
// skill, e.g. a resource-gathering loop.
func (s *Skill) SetAction(stop func()) {
	s.Stop()
	s.stopAction = stop
}

// Stop halts any active repeating activity. Safe to call when idle.
func (s *Skill) Stop() {
	if s.stopAction != nil {
		s.stopAction()
		s.stopAction = nil
	}
}
