package skill

import (
	"fmt"

	"github.com/pixil98/go-realm/internal/formula"
	"github.com/pixil98/go-realm/internal/packet"
)

// Owner is the slice of the player the skill set reads and mutates. The
// aggregate is handed in explicitly; the set never reaches back through
// captured closures.
type Owner interface {
	Instance() string
	HitPoints() int
	SetHitPoints(hp int)
	SetMaxHitPoints(max int)
	Mana() int
	SetMaxMana(max int)
	SetLevel(level int)
	Notify(text string)
	Send(p packet.Packet)
}

// Entry is the persisted form of one skill.
type Entry struct {
	Type       Discipline `json:"type"`
	Experience int        `json:"experience"`
	Level      int        `json:"level,omitempty"`
}

// Set owns the fixed skill roster for one player. Vitals synchronization is
// gated on Load having completed so a half-restored player never pushes
// packets or rewrites vitals.
type Set struct {
	owner  Owner
	skills []*Skill
	loaded bool

	loadListeners []func()
}

// NewSet creates the full roster with zero experience everywhere.
func NewSet(owner Owner) *Set {
	return &Set{
		owner: owner,
		skills: []*Skill{
			newSkill(Accuracy, true),
			newSkill(Strength, true),
			newSkill(Archery, true),
			newSkill(Magic, true),
			newSkill(Health, true),
			newSkill(Lumberjacking, false),
			newSkill(Fishing, false),
			newSkill(Mining, false),
		},
	}
}

// Get returns the skill for a discipline, or nil if the roster has none.
func (s *Set) Get(d Discipline) *Skill {
	for _, sk := range s.skills {
		if sk.discipline == d {
			return sk
		}
	}
	return nil
}

// Loaded reports whether the persisted restore has completed.
func (s *Set) Loaded() bool { return s.loaded }

// OnLoad registers a callback invoked once the restore completes.
func (s *Set) OnLoad(fn func()) {
	s.loadListeners = append(s.loadListeners, fn)
}

// Load applies persisted entries, then wires gain events and performs the
// first vitals synchronization. Entries for unknown disciplines are skipped;
// missing optional state is never a fault.
func (s *Set) Load(entries []Entry) {
	for _, e := range entries {
		if sk := s.Get(e.Type); sk != nil {
			sk.setExperience(e.Experience)
		}
	}

	for _, sk := range s.skills {
		sk := sk
		sk.OnExperience(func(delta, newLevel int, leveledUp bool) {
			s.handleExperience(sk, delta, newLevel, leveledUp)
		})
	}

	s.loaded = true
	for _, fn := range s.loadListeners {
		fn()
	}

	s.Sync()
}

// handleExperience routes a single skill's gain into notifications, vitals
// and the owner's packet stream.
func (s *Set) handleExperience(sk *Skill, delta, newLevel int, leveledUp bool) {
	if leveledUp {
		s.owner.Notify(fmt.Sprintf("Congratulations, your %s level is now %d.", sk.discipline, newLevel))

		// Leveling health is a full heal, not just a bigger ceiling.
		if sk.discipline == Health {
			s.owner.SetMaxHitPoints(formula.MaxHitPointsForLevel(newLevel))
			s.owner.SetHitPoints(formula.MaxHitPointsForLevel(newLevel))
		}

		s.Sync()
	}

	s.owner.Send(packet.Experience{
		Instance:   s.owner.Instance(),
		Amount:     delta,
		Skill:      int(sk.discipline),
		Experience: sk.experience,
	})
	s.owner.Send(packet.Skill{
		ID:         int(sk.discipline),
		Name:       sk.discipline.String(),
		Level:      sk.level,
		Experience: sk.experience,
	})
}

// Sync recomputes the owner's derived vitals and combat level and pushes a
// level sync plus a combined vitals frame. A no-op until Load completes.
func (s *Set) Sync() {
	if !s.loaded {
		return
	}

	maxHP := formula.MaxHitPointsForLevel(s.Get(Health).Level())
	maxMana := formula.MaxManaForLevel(s.Get(Magic).Level())
	combatLevel := s.CombatLevel()

	s.owner.SetMaxHitPoints(maxHP)
	s.owner.SetMaxMana(maxMana)
	s.owner.SetLevel(combatLevel)

	s.owner.Send(packet.Experience{
		Instance: s.owner.Instance(),
		Level:    combatLevel,
	})
	s.owner.Send(packet.Points{
		Instance:  s.owner.Instance(),
		HitPoints: s.owner.HitPoints(),
		MaxHP:     maxHP,
		Mana:      s.owner.Mana(),
		MaxMana:   maxMana,
	})
}

// CombatLevel aggregates combat-flagged skills: 1 + sum of levels above
// their floor of 1, so an untouched roster is exactly level 1.
func (s *Set) CombatLevel() int {
	level := 1
	for _, sk := range s.skills {
		if sk.combat {
			level += sk.level - 1
		}
	}
	return level
}

// Stop halts every skill's repeating activity. Callers of movement and
// combat own triggering this on intent change.
func (s *Set) Stop() {
	for _, sk := range s.skills {
		sk.Stop()
	}
}

// Serialize produces one entry per skill in roster order, stable across
// calls for client reconciliation.
func (s *Set) Serialize(includeLevel bool) []Entry {
	entries := make([]Entry, 0, len(s.skills))
	for _, sk := range s.skills {
		e := Entry{Type: sk.discipline, Experience: sk.experience}
		if includeLevel {
			e.Level = sk.level
		}
		entries = append(entries, e)
	}
	return entries
}
