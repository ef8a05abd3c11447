package entity

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSetHitPointsClamps(t *testing.T) {
	c := NewCharacter("i", "test", 0, 0)
	c.SetMaxHitPoints(100)

	c.SetHitPoints(150)
	testutil.AssertEqual(t, "clamped to max", c.HitPoints(), 100)

	c.SetHitPoints(-5)
	testutil.AssertEqual(t, "clamped to zero", c.HitPoints(), 0)
	testutil.AssertEqual(t, "dead at zero", c.IsDead(), true)
}

func TestShrinkingMaxClampsCurrent(t *testing.T) {
	c := NewCharacter("i", "test", 0, 0)
	c.SetMaxHitPoints(100)
	c.Heal()

	c.SetMaxHitPoints(60)
	testutil.AssertEqual(t, "current follows max down", c.HitPoints(), 60)
}

func TestHitFiresListenersThenDeath(t *testing.T) {
	c := NewCharacter("i", "victim", 0, 0)
	c.SetMaxHitPoints(10)
	c.Heal()

	attacker := NewCharacter("j", "attacker", 0, 0)

	var order []string
	c.OnHit(func(a *Character, damage int) {
		order = append(order, "hit")
		testutil.AssertEqual(t, "attacker", a.Name(), "attacker")
		testutil.AssertEqual(t, "damage", damage, 10)
	})
	c.OnDeath(func(a *Character) {
		order = append(order, "death")
		if a != attacker {
			t.Error("expected killing attacker in death listener")
		}
	})

	c.Hit(attacker, 10)

	testutil.AssertEqual(t, "listener order", len(order), 2)
	testutil.AssertEqual(t, "hit first", order[0], "hit")
	testutil.AssertEqual(t, "death second", order[1], "death")
}

func TestHitIgnoredWhenDead(t *testing.T) {
	c := NewCharacter("i", "victim", 0, 0)
	c.SetMaxHitPoints(10)
	c.SetHitPoints(0)

	fired := false
	c.OnHit(func(*Character, int) { fired = true })
	c.Hit(nil, 5)

	testutil.AssertEqual(t, "no hit listener on corpse", fired, false)
}

func TestDeathStopsCombat(t *testing.T) {
	c := NewCharacter("i", "victim", 0, 0)
	c.SetMaxHitPoints(10)
	c.Heal()

	other := NewCharacter("j", "other", 0, 0)
	c.Combat().Begin(other)

	c.Hit(other, 99)
	testutil.AssertEqual(t, "combat stopped on death", c.Combat().Started(), false)
	if c.Combat().Target() != nil {
		t.Error("expected target dropped on death")
	}
}

func TestMovementListeners(t *testing.T) {
	c := NewCharacter("i", "mover", 1, 1)

	var gotX, gotY int
	c.OnMovement(func(x, y int) { gotX, gotY = x, y })

	c.SetPosition(4, 9)
	testutil.AssertEqual(t, "listener x", gotX, 4)
	testutil.AssertEqual(t, "listener y", gotY, 9)

	c.PlacePosition(7, 7)
	testutil.AssertEqual(t, "place does not fire", gotX, 4)
	testutil.AssertEqual(t, "position applied", c.X(), 7)
}

func TestRevive(t *testing.T) {
	c := NewCharacter("i", "test", 0, 0)
	c.SetMaxHitPoints(50)
	c.SetHitPoints(0)

	c.Revive()
	testutil.AssertEqual(t, "alive again", c.IsDead(), false)
	testutil.AssertEqual(t, "full vitals", c.HitPoints(), 50)
}
