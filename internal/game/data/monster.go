// Package data holds the static game-data definitions (monsters, items,
// recipes, crops, areas, township content) and the read-only registry that
// the engine resolves identifiers against. Definitions are loaded from YAML
// and never mutated after registration.
package data

import (
	"errors"
	"fmt"

	"github.com/embervale/engine/internal/game/modifier"
)

// DropEntry is a single item entry in a monster drop table.
type DropEntry struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// DropTable defines currency and item drops granted on a monster kill.
type DropTable struct {
	GPMin int         `yaml:"gp_min"`
	GPMax int         `yaml:"gp_max"`
	Items []DropEntry `yaml:"items"`
}

// Validate checks the drop table invariants.
//
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty drop table is valid.
func (dt DropTable) Validate() error {
	if dt.GPMin < 0 {
		return fmt.Errorf("drop table: gp_min must be >= 0, got %d", dt.GPMin)
	}
	if dt.GPMin > dt.GPMax {
		return fmt.Errorf("drop table: gp_min (%d) must be <= gp_max (%d)", dt.GPMin, dt.GPMax)
	}
	for i, item := range dt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("drop table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("drop table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("drop table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("drop table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// MonsterDef is the immutable static definition of a monster, looked up by ID.
type MonsterDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Media       string `yaml:"media"`
	CombatLevel int    `yaml:"combat_level"`
	MaxHP       int    `yaml:"max_hp"`

	AttackStyle      modifier.Style `yaml:"attack_style"`
	AttackSpeedTicks int            `yaml:"attack_speed_ticks"`
	MinHit           int            `yaml:"min_hit"`
	MaxHit           int            `yaml:"max_hit"`
	Accuracy         int            `yaml:"accuracy"`

	MeleeEvasion  int `yaml:"melee_evasion"`
	RangedEvasion int `yaml:"ranged_evasion"`
	MagicEvasion  int `yaml:"magic_evasion"`

	// XP is the combat XP granted on kill.
	XP int `yaml:"xp"`

	Drops DropTable `yaml:"drops"`

	// OnHit is an optional Lua snippet evaluated when this monster lands a
	// hit; used for special attacks such as stuns.
	OnHit string `yaml:"on_hit"`
}

// Evasion returns the monster's evasion rating against the given attack style.
//
// Postcondition: returns 0 for an unknown style.
func (m *MonsterDef) Evasion(style modifier.Style) int {
	switch style {
	case modifier.StyleMelee:
		return m.MeleeEvasion
	case modifier.StyleRanged:
		return m.RangedEvasion
	case modifier.StyleMagic:
		return m.MagicEvasion
	default:
		return 0
	}
}

// Validate checks that the MonsterDef satisfies its invariants.
//
// Precondition: m is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (m *MonsterDef) Validate() error {
	var errs []error
	if m.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if m.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if m.MaxHP < 1 {
		errs = append(errs, fmt.Errorf("MaxHP must be >= 1, got %d", m.MaxHP))
	}
	if !modifier.ValidStyle(m.AttackStyle) {
		errs = append(errs, fmt.Errorf("AttackStyle must be one of melee, ranged, magic; got %q", m.AttackStyle))
	}
	if m.AttackSpeedTicks < 1 {
		errs = append(errs, fmt.Errorf("AttackSpeedTicks must be >= 1, got %d", m.AttackSpeedTicks))
	}
	if m.MinHit < 0 {
		errs = append(errs, fmt.Errorf("MinHit must be >= 0, got %d", m.MinHit))
	}
	if m.MinHit > m.MaxHit {
		errs = append(errs, fmt.Errorf("MinHit (%d) must be <= MaxHit (%d)", m.MinHit, m.MaxHit))
	}
	if m.Accuracy < 0 {
		errs = append(errs, fmt.Errorf("Accuracy must be >= 0, got %d", m.Accuracy))
	}
	if m.MeleeEvasion < 0 || m.RangedEvasion < 0 || m.MagicEvasion < 0 {
		errs = append(errs, errors.New("evasion ratings must be >= 0"))
	}
	if m.XP < 0 {
		errs = append(errs, fmt.Errorf("XP must be >= 0, got %d", m.XP))
	}
	if err := m.Drops.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("monster validation failed: %v", errs)
	}
	return nil
}
