package entity

// Combat is a character's combat session. It tracks engagement only; damage
// rolls and round scheduling belong to whoever drives the session.
type Combat struct {
	owner   *Character
	target  *Character
	started bool
}

func newCombat(owner *Character) *Combat {
	return &Combat{owner: owner}
}

// Started reports whether the owner is currently engaged.
func (c *Combat) Started() bool { return c.started }

// Target returns the current opponent, or nil when idle.
func (c *Combat) Target() *Character { return c.target }

// Begin engages the owner against a target. Re-engaging while already
// started just retargets.
func (c *Combat) Begin(target *Character) {
	c.target = target
	c.started = true
}

// Stop ends the session and drops the target reference.
func (c *Combat) Stop() {
	c.target = nil
	c.started = false
}
