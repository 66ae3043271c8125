package data

import (
	"errors"
	"fmt"

	"github.com/embervale/engine/internal/game/modifier"
)

// EquipSlot identifies an equipment slot an item can occupy.
type EquipSlot string

const (
	SlotWeapon EquipSlot = "weapon"
	SlotHelmet EquipSlot = "helmet"
	SlotBody   EquipSlot = "body"
	SlotGloves EquipSlot = "gloves"
	SlotBoots  EquipSlot = "boots"
	SlotAmulet EquipSlot = "amulet"
	SlotRing   EquipSlot = "ring"
	// SlotSummon items occupy one of the two summon sockets.
	SlotSummon EquipSlot = "summon"
)

// validEquipSlots is the set of recognised equipment slots.
var validEquipSlots = map[EquipSlot]bool{
	SlotWeapon: true,
	SlotHelmet: true,
	SlotBody:   true,
	SlotGloves: true,
	SlotBoots:  true,
	SlotAmulet: true,
	SlotRing:   true,
	SlotSummon: true,
}

// ItemDef defines the static properties of an item loaded from YAML.
type ItemDef struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Media string `yaml:"media"`

	// SellsFor is the GP credited per unit when sold.
	SellsFor int `yaml:"sells_for"`

	// HealsFor is the HP restored when eaten; 0 means not edible.
	HealsFor int `yaml:"heals_for"`

	// Slot is the equipment slot this item occupies, or empty when the item
	// cannot be equipped.
	Slot EquipSlot `yaml:"slot"`

	// AttackSpeedTicks is the wielder's attack cadence; only meaningful for
	// weapon-slot items.
	AttackSpeedTicks int `yaml:"attack_speed_ticks"`

	// Bonuses are the additive modifier contributions granted while equipped.
	Bonuses modifier.Contribution `yaml:"bonuses"`

	// Contents, when non-nil, makes the item openable: opening consumes one
	// unit and rolls this drop table.
	Contents *DropTable `yaml:"contents,omitempty"`
}

// IsFood reports whether the item can occupy a food slot.
func (d *ItemDef) IsFood() bool { return d.HealsFor > 0 }

// IsEquipable reports whether the item occupies an equipment slot.
func (d *ItemDef) IsEquipable() bool { return d.Slot != "" }

// IsOpenable reports whether the item carries contents to open.
func (d *ItemDef) IsOpenable() bool { return d.Contents != nil }

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.SellsFor < 0 {
		errs = append(errs, fmt.Errorf("SellsFor must be >= 0, got %d", d.SellsFor))
	}
	if d.HealsFor < 0 {
		errs = append(errs, fmt.Errorf("HealsFor must be >= 0, got %d", d.HealsFor))
	}
	if d.Slot != "" && !validEquipSlots[d.Slot] {
		errs = append(errs, fmt.Errorf("Slot %q is not a recognised equipment slot", d.Slot))
	}
	if d.Slot == SlotWeapon && d.AttackSpeedTicks < 1 {
		errs = append(errs, errors.New("AttackSpeedTicks must be >= 1 for weapons"))
	}
	if d.Contents != nil {
		if err := d.Contents.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("Contents: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}
