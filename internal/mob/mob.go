// Package mob implements autonomous non-player characters: the entity
// itself, the behavior handler reacting to its lifecycle events, and the
// tick-driven manager that owns every spawned mob.
package mob

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/entity"
)

// Spec is a static mob spawn definition loaded from storage.
type Spec struct {
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Level        int    `json:"level"`
	RoamDistance int    `json:"roam_distance"`

	// RespawnDelay in seconds between death and reappearance.
	RespawnDelay int `json:"respawn_delay"`
}

func (s *Spec) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("mob name is required"))
	}
	if s.X < 0 || s.Y < 0 {
		el.Add(fmt.Errorf("mob %q has negative spawn coordinates", s.Name))
	}
	if s.RoamDistance < 0 {
		el.Add(fmt.Errorf("mob %q has negative roam distance", s.Name))
	}

	return el.Err()
}

// Mob is one spawned instance. Behavior policy lives in Handler; the mob
// only carries state and event registration points.
type Mob struct {
	*entity.Character

	spawnX, spawnY int
	roamDistance   int
	level          int
	respawnDelay   time.Duration

	respawnListeners []func()
	talkListeners    []func(text string)
}

// New spawns a mob instance from its definition.
func New(instance string, spec *Spec) *Mob {
	m := &Mob{
		Character:    entity.NewCharacter(instance, spec.Name, spec.X, spec.Y),
		spawnX:       spec.X,
		spawnY:       spec.Y,
		roamDistance: spec.RoamDistance,
		level:        spec.Level,
		respawnDelay: time.Duration(spec.RespawnDelay) * time.Second,
	}
	m.SetMaxHitPoints(100 + spec.Level*15)
	m.Heal()
	return m
}

func (m *Mob) Spawn() (int, int)           { return m.spawnX, m.spawnY }
func (m *Mob) RoamDistance() int           { return m.roamDistance }
func (m *Mob) Level() int                  { return m.level }
func (m *Mob) RespawnDelay() time.Duration { return m.respawnDelay }

// OnRespawn registers a listener fired when the mob comes back to life.
func (m *Mob) OnRespawn(fn func()) {
	m.respawnListeners = append(m.respawnListeners, fn)
}

// Respawn returns the mob to its spawn point alive and fires listeners.
func (m *Mob) Respawn() {
	m.PlacePosition(m.spawnX, m.spawnY)
	m.Revive()
	for _, fn := range m.respawnListeners {
		fn()
	}
}

// OnTalk registers a listener for forced speech.
func (m *Mob) OnTalk(fn func(text string)) {
	m.talkListeners = append(m.talkListeners, fn)
}

// ForceTalk makes the mob speak a scripted line.
func (m *Mob) ForceTalk(text string) {
	for _, fn := range m.talkListeners {
		fn(text)
	}
}
