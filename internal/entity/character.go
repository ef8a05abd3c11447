// Package entity holds the state shared by every combat-capable thing in
// the world. Player and mob aggregates embed Character and layer their own
// behavior on top of its typed event registration.
package entity

// Orientation of a character on the tile grid.
const (
	OrientationUp = iota
	OrientationDown
	OrientationLeft
	OrientationRight
)

// Character is the shared base for players and mobs: position, vitals and
// an optional combat session. It fires registered listeners on mutation but
// never talks to the network itself.
type Character struct {
	instance string
	name     string

	x, y        int
	orientation int
	region      int

	hitPoints    int
	maxHitPoints int
	dead         bool

	combat *Combat

	movementListeners []func(x, y int)
	hitListeners      []func(attacker *Character, damage int)
	deathListeners    []func(attacker *Character)
}

func NewCharacter(instance, name string, x, y int) *Character {
	c := &Character{
		instance: instance,
		name:     name,
		x:        x,
		y:        y,
	}
	c.combat = newCombat(c)
	return c
}

func (c *Character) Instance() string { return c.instance }
func (c *Character) Name() string     { return c.name }

func (c *Character) Position() (int, int) { return c.x, c.y }
func (c *Character) X() int               { return c.x }
func (c *Character) Y() int               { return c.y }

// PlacePosition moves the character without firing movement listeners.
// Used for restores and respawns where policy must not re-trigger.
func (c *Character) PlacePosition(x, y int) {
	c.x, c.y = x, y
}

// SetPosition moves the character and notifies movement listeners.
func (c *Character) SetPosition(x, y int) {
	c.x, c.y = x, y
	for _, fn := range c.movementListeners {
		fn(x, y)
	}
}

func (c *Character) Orientation() int     { return c.orientation }
func (c *Character) SetOrientation(o int) { c.orientation = o }
func (c *Character) Region() int          { return c.region }
func (c *Character) SetRegion(region int) { c.region = region }

func (c *Character) HitPoints() int    { return c.hitPoints }
func (c *Character) MaxHitPoints() int { return c.maxHitPoints }

// SetMaxHitPoints raises or lowers the ceiling, clamping current vitals
// into the new range.
func (c *Character) SetMaxHitPoints(max int) {
	c.maxHitPoints = max
	if c.hitPoints > max {
		c.hitPoints = max
	}
}

// SetHitPoints clamps into [0, max]. Dropping to zero marks the character
// dead and fires death listeners.
func (c *Character) SetHitPoints(hp int) {
	c.setHitPoints(hp, nil)
}

func (c *Character) setHitPoints(hp int, attacker *Character) {
	if hp > c.maxHitPoints {
		hp = c.maxHitPoints
	}
	if hp < 0 {
		hp = 0
	}
	c.hitPoints = hp

	if hp == 0 && !c.dead {
		c.dead = true
		c.combat.Stop()
		for _, fn := range c.deathListeners {
			fn(attacker)
		}
	}
}

// Hit applies damage from an attacker. Hit listeners fire before any death
// transition so an engagement policy sees the blow that killed.
func (c *Character) Hit(attacker *Character, damage int) {
	if c.dead {
		return
	}
	for _, fn := range c.hitListeners {
		fn(attacker, damage)
	}
	c.setHitPoints(c.hitPoints-damage, attacker)
}

// Heal restores the character to full hit points.
func (c *Character) Heal() {
	c.hitPoints = c.maxHitPoints
}

func (c *Character) IsDead() bool { return c.dead }

// Revive clears the dead flag and restores full vitals.
func (c *Character) Revive() {
	c.dead = false
	c.Heal()
}

func (c *Character) Combat() *Combat { return c.combat }

// OnMovement registers a listener fired after every SetPosition.
func (c *Character) OnMovement(fn func(x, y int)) {
	c.movementListeners = append(c.movementListeners, fn)
}

// OnHit registers a listener fired when the character takes damage.
func (c *Character) OnHit(fn func(attacker *Character, damage int)) {
	c.hitListeners = append(c.hitListeners, fn)
}

// OnDeath registers a listener fired once when hit points reach zero.
// The attacker is nil when death was not caused by a combat blow.
func (c *Character) OnDeath(fn func(attacker *Character)) {
	c.deathListeners = append(c.deathListeners, fn)
}
