package data

import (
	"errors"
	"fmt"
)

// Skill identifies a non-combat skill whose actions run in the shared
// action slot (farming is tick-driven and bypasses the slot).
type Skill string

const (
	SkillCooking   Skill = "cooking"
	SkillFishing   Skill = "fishing"
	SkillSummoning Skill = "summoning"
	SkillAstrology Skill = "astrology"
	SkillFarming   Skill = "farming"
	SkillSlayer    Skill = "slayer"
)

// validSkills is the set of skills recipes may belong to.
var validSkills = map[Skill]bool{
	SkillCooking:   true,
	SkillFishing:   true,
	SkillSummoning: true,
	SkillAstrology: true,
	SkillFarming:   true,
}

// ItemQuantity pairs an item ID with a count.
type ItemQuantity struct {
	ItemID string `yaml:"item"`
	Qty    int    `yaml:"qty"`
}

// RecipeDef defines one timed skill action: inputs consumed, outputs
// produced, XP granted, and duration.
type RecipeDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Skill    Skill  `yaml:"skill"`
	Level    int    `yaml:"level"`
	Category string `yaml:"category"`

	Inputs  []ItemQuantity `yaml:"inputs"`
	GPCost  int            `yaml:"gp_cost"`
	Outputs []ItemQuantity `yaml:"outputs"`
	XP      int            `yaml:"xp"`

	// FixedDuration selects BaseTicks; otherwise the duration is rolled
	// uniformly in [MinTicks, MaxTicks] per completion.
	FixedDuration bool `yaml:"fixed_duration"`
	BaseTicks     int  `yaml:"base_ticks"`
	MinTicks      int  `yaml:"min_ticks"`
	MaxTicks      int  `yaml:"max_ticks"`
}

// Validate checks that the RecipeDef satisfies its invariants.
//
// Precondition: r is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (r *RecipeDef) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validSkills[r.Skill] {
		errs = append(errs, fmt.Errorf("Skill must be one of cooking, fishing, summoning, astrology, farming; got %q", r.Skill))
	}
	if r.Level < 1 {
		errs = append(errs, fmt.Errorf("Level must be >= 1, got %d", r.Level))
	}
	if r.GPCost < 0 {
		errs = append(errs, fmt.Errorf("GPCost must be >= 0, got %d", r.GPCost))
	}
	if r.XP < 0 {
		errs = append(errs, fmt.Errorf("XP must be >= 0, got %d", r.XP))
	}
	for i, in := range r.Inputs {
		if in.ItemID == "" || in.Qty < 1 {
			errs = append(errs, fmt.Errorf("input[%d] must have a non-empty item and qty >= 1", i))
		}
	}
	for i, out := range r.Outputs {
		if out.ItemID == "" || out.Qty < 1 {
			errs = append(errs, fmt.Errorf("output[%d] must have a non-empty item and qty >= 1", i))
		}
	}
	if r.FixedDuration {
		if r.BaseTicks < 1 {
			errs = append(errs, fmt.Errorf("BaseTicks must be >= 1 for fixed-duration recipes, got %d", r.BaseTicks))
		}
	} else {
		if r.MinTicks < 1 {
			errs = append(errs, fmt.Errorf("MinTicks must be >= 1, got %d", r.MinTicks))
		}
		if r.MinTicks > r.MaxTicks {
			errs = append(errs, fmt.Errorf("MinTicks (%d) must be <= MaxTicks (%d)", r.MinTicks, r.MaxTicks))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("recipe validation failed: %v", errs)
	}
	return nil
}

// CropDef defines a plantable crop: seed cost, growth time, and produce.
type CropDef struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Level         int    `yaml:"level"`
	SeedItemID    string `yaml:"seed_item"`
	// SeedCost is how many seed items one planting consumes.
	SeedCost      int    `yaml:"seed_cost"`
	GrowthTicks   int    `yaml:"growth_ticks"`
	ProduceItemID string `yaml:"produce_item"`
	BaseYield     int    `yaml:"base_yield"`
	XP            int    `yaml:"xp"`
}

// Validate checks that the CropDef satisfies its invariants.
//
// Precondition: c is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (c *CropDef) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if c.SeedItemID == "" {
		errs = append(errs, errors.New("SeedItemID must not be empty"))
	}
	if c.SeedCost < 1 {
		errs = append(errs, fmt.Errorf("SeedCost must be >= 1, got %d", c.SeedCost))
	}
	if c.GrowthTicks < 1 {
		errs = append(errs, fmt.Errorf("GrowthTicks must be >= 1, got %d", c.GrowthTicks))
	}
	if c.ProduceItemID == "" {
		errs = append(errs, errors.New("ProduceItemID must not be empty"))
	}
	if c.BaseYield < 1 {
		errs = append(errs, fmt.Errorf("BaseYield must be >= 1, got %d", c.BaseYield))
	}
	if len(errs) > 0 {
		return fmt.Errorf("crop validation failed: %v", errs)
	}
	return nil
}
