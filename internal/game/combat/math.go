// Package combat implements the tick-driven combat engine: pure hit and
// damage math, per-encounter state, loot generation, ordered monster
// sequences, and requirement gating for slayer areas.
package combat

import (
	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
)

const (
	// hitChanceFloor and hitChanceCeil keep hit chances off the exact
	// endpoints: every attack can miss and every attack can land.
	hitChanceFloor = 0.0001
	hitChanceCeil  = 0.9999
)

// HitChance returns the probability in (0, 1) that an attack with the given
// accuracy rating lands against the given evasion rating.
//
// Postcondition: result is non-decreasing in accuracy, non-increasing in
// evasion, and strictly inside (0, 1). Non-positive ratings degrade to the
// floor/ceiling rather than dividing by zero.
func HitChance(accuracy, evasion int) float64 {
	if accuracy <= 0 {
		return hitChanceFloor
	}
	if evasion <= 0 {
		return hitChanceCeil
	}

	acc := float64(accuracy)
	eva := float64(evasion)

	var p float64
	if acc < eva {
		p = 0.5 * acc / eva
	} else {
		p = 1 - 0.5*eva/acc
	}
	return clampChance(p)
}

// MonsterHitChance returns the probability that the monster's attack lands
// against the player, selecting the player evasion stat matching the
// monster's attack style.
//
// Precondition: m must be non-nil.
func MonsterHitChance(m *data.MonsterDef, player PlayerStats) float64 {
	return HitChance(m.Accuracy, player.Evasion(m.AttackStyle))
}

// PlayerHitChance returns the probability that the player's attack lands
// against the monster, selecting the monster evasion stat matching the
// player's attack style.
//
// Precondition: m must be non-nil.
func PlayerHitChance(player PlayerStats, m *data.MonsterDef) float64 {
	return HitChance(player.Accuracy, m.Evasion(player.Style))
}

// RollDamage returns a uniform random hit in [minHit, maxHit] inclusive.
//
// Postcondition: minHit <= result <= maxHit; a degenerate range collapses
// to minHit.
func RollDamage(src rng.Source, minHit, maxHit int) int {
	if minHit < 0 {
		minHit = 0
	}
	return rng.Between(src, minHit, maxHit)
}

// PlayerStats is the resolved combat profile computed from the player's
// levels, equipment, and aggregated modifiers for one tick.
type PlayerStats struct {
	Style            modifier.Style
	Accuracy         int
	MinHit           int
	MaxHit           int
	AttackSpeedTicks int
	MaxHP            int

	MeleeEvasion  int
	RangedEvasion int
	MagicEvasion  int
}

// Evasion returns the player's evasion rating against the given style.
//
// Postcondition: returns 0 for an unknown style.
func (p PlayerStats) Evasion(style modifier.Style) int {
	switch style {
	case modifier.StyleMelee:
		return p.MeleeEvasion
	case modifier.StyleRanged:
		return p.RangedEvasion
	case modifier.StyleMagic:
		return p.MagicEvasion
	default:
		return 0
	}
}

func clampChance(p float64) float64 {
	if p < hitChanceFloor {
		return hitChanceFloor
	}
	if p > hitChanceCeil {
		return hitChanceCeil
	}
	return p
}
