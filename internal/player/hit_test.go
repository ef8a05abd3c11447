package player

import (
	"testing"

	"github.com/pixil98/go-realm/internal/formula"
	"github.com/pixil98/go-realm/internal/item"
	"github.com/pixil98/go-testutil"
)

func armedPlayer(t *testing.T, weapon item.Item) *Player {
	t.Helper()
	p, _ := loadedPlayer(t, testDeps(nil), &Record{Username: "ann", X: 10, Y: 10})
	if !weapon.IsEmpty() {
		p.Equipment().Equip(item.SlotWeapon, weapon)
	}
	return p
}

func TestGetHitUnarmedAlwaysNormal(t *testing.T) {
	p := armedPlayer(t, item.Item{})

	for i := 0; i < 50; i++ {
		hit := p.GetHit(formula.Stats{})
		testutil.AssertEqual(t, "type", hit.Type, HitNormal)
	}
}

func TestGetHitNoAbilityAlwaysNormal(t *testing.T) {
	p := armedPlayer(t, item.Item{
		Key:         "sword",
		Level:       5,
		Enchantment: item.EnchantmentCritical,
	})

	for i := 0; i < 50; i++ {
		hit := p.GetHit(formula.Stats{})
		testutil.AssertEqual(t, "type", hit.Type, HitNormal)
	}
}

func TestGetHitGuaranteedCritical(t *testing.T) {
	// Ability level 24 yields special chance 30+72 > 100, so every roll
	// is a critical.
	p := armedPlayer(t, item.Item{
		Key:          "sword",
		Level:        5,
		AbilityLevel: 24,
		Enchantment:  item.EnchantmentCritical,
	})

	for i := 0; i < 50; i++ {
		hit := p.GetHit(formula.Stats{})
		testutil.AssertEqual(t, "type", hit.Type, HitCritical)
		if hit.Damage%25 != 0 {
			t.Fatalf("critical damage %d not a multiple of 1+abilityLevel", hit.Damage)
		}
	}
}

func TestGetHitStunCarriesBaseDamage(t *testing.T) {
	p := armedPlayer(t, item.Item{
		Key:          "mace",
		Level:        5,
		AbilityLevel: 24,
		Enchantment:  item.EnchantmentStun,
	})

	// Base damage is bounded by level + 2*weaponLevel against bare stats.
	maxBase := p.Level() + 2*5
	for i := 0; i < 50; i++ {
		hit := p.GetHit(formula.Stats{})
		testutil.AssertEqual(t, "type", hit.Type, HitStun)
		if hit.Damage < 0 || hit.Damage > maxBase {
			t.Fatalf("stun damage %d outside [0, %d]", hit.Damage, maxBase)
		}
	}
}

func TestGetHitExplosiveCarriesBaseDamage(t *testing.T) {
	p := armedPlayer(t, item.Item{
		Key:          "staff",
		Level:        5,
		AbilityLevel: 24,
		Enchantment:  item.EnchantmentExplosive,
	})

	maxBase := p.Level() + 2*5
	for i := 0; i < 50; i++ {
		hit := p.GetHit(formula.Stats{})
		testutil.AssertEqual(t, "type", hit.Type, HitExplosive)
		if hit.Damage < 0 || hit.Damage > maxBase {
			t.Fatalf("explosive damage %d outside [0, %d]", hit.Damage, maxBase)
		}
	}
}

func TestGetHitArmourReducesCeiling(t *testing.T) {
	p := armedPlayer(t, item.Item{Key: "sword", Level: 10})

	armoured := formula.Stats{ArmourLevel: 20}
	maxReduced := p.Level() + 2*10 - 20/2
	for i := 0; i < 50; i++ {
		hit := p.GetHit(armoured)
		if hit.Damage > maxReduced {
			t.Fatalf("damage %d exceeds armoured ceiling %d", hit.Damage, maxReduced)
		}
	}
}
