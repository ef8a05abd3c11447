package player

import (
	"math/rand/v2"

	"github.com/pixil98/go-realm/internal/formula"
	"github.com/pixil98/go-realm/internal/item"
)

// HitType distinguishes a plain blow from a weapon special.
type HitType int

const (
	HitNormal HitType = iota
	HitCritical
	HitStun
	HitExplosive
)

// Hit is one resolved attack roll.
type Hit struct {
	Type   HitType
	Damage int
}

// GetHit resolves this player's attack against a target's stats. A special
// attack triggers with chance 30 + 3*abilityLevel out of 100. Critical
// multiplies damage by 1 + abilityLevel; stun and explosive carry the base
// damage unmodified and apply their status effects elsewhere.
func (p *Player) GetHit(target formula.Stats) Hit {
	weapon := p.equipment.Weapon()

	damage := formula.DamageFor(formula.Stats{
		Level:       p.level,
		WeaponLevel: weapon.Level,
	}, target)

	if !canSpecialAttack(weapon) {
		return Hit{Type: HitNormal, Damage: damage}
	}

	if rand.IntN(100) >= 30+3*weapon.AbilityLevel {
		return Hit{Type: HitNormal, Damage: damage}
	}

	switch weapon.Enchantment {
	case item.EnchantmentCritical:
		return Hit{Type: HitCritical, Damage: damage * (1 + weapon.AbilityLevel)}
	case item.EnchantmentStun:
		return Hit{Type: HitStun, Damage: damage}
	case item.EnchantmentExplosive:
		return Hit{Type: HitExplosive, Damage: damage}
	default:
		return Hit{Type: HitNormal, Damage: damage}
	}
}

func canSpecialAttack(weapon item.Item) bool {
	return !weapon.IsEmpty() && weapon.AbilityLevel > 0 && weapon.Enchantment != item.EnchantmentNone
}
