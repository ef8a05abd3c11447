// Package formula holds the pure progression and combat math. Nothing in
// here touches entity state; callers feed values in and apply results.
package formula

import (
	"math"
	"math/rand/v2"
)

// MaxLevel is the highest level any discipline can reach.
const MaxLevel = 120

// expTable holds the cumulative experience required to reach each level.
// Index 0 = level 1 (0 exp). Built once at init from an exponential curve
// so early levels come fast and late levels stretch out.
var expTable [MaxLevel]int

func init() {
	points := 0.0
	for level := 1; level <= MaxLevel; level++ {
		expTable[level-1] = int(points / 4)
		points += math.Floor(float64(level) + 300.0*math.Pow(2, float64(level)/7.0))
	}
}

// LevelForExperience returns the level reached at the given cumulative
// experience. Monotone non-decreasing in experience, floor of 1.
func LevelForExperience(experience int) int {
	for level := MaxLevel; level > 1; level-- {
		if experience >= expTable[level-1] {
			return level
		}
	}
	return 1
}

// ExperienceForNextLevel returns the cumulative experience threshold at
// which the next level is reached. At the cap it returns the cap threshold.
func ExperienceForNextLevel(experience int) int {
	level := LevelForExperience(experience)
	if level >= MaxLevel {
		return expTable[MaxLevel-1]
	}
	return expTable[level]
}

// ExperienceForPreviousLevel returns the cumulative experience threshold of
// the current level, i.e. the bottom of the progress bar.
func ExperienceForPreviousLevel(experience int) int {
	level := LevelForExperience(experience)
	return expTable[level-1]
}

// MaxHitPointsForLevel derives the hit point ceiling from the health
// discipline's level.
func MaxHitPointsForLevel(level int) int {
	return 100 + (level-1)*20
}

// MaxManaForLevel derives the mana ceiling from the magic discipline's level.
func MaxManaForLevel(level int) int {
	return 50 + (level-1)*10
}

// Stats is the slice of a combatant the damage roll cares about.
type Stats struct {
	Level       int
	WeaponLevel int
	ArmourLevel int
}

// DamageFor rolls base damage for an attack. The roll is uniform over
// [0, maxDamage] where maxDamage scales with the attacker's level and
// weapon against the target's armour, with a floor of 1 so a connecting
// hit is never free.
func DamageFor(attacker, target Stats) int {
	maxDamage := attacker.Level + attacker.WeaponLevel*2 - target.ArmourLevel/2
	if maxDamage < 1 {
		maxDamage = 1
	}
	return rand.IntN(maxDamage + 1)
}
