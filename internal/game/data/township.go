package data

import (
	"errors"
	"fmt"

	"github.com/embervale/engine/internal/game/modifier"
)

// BuildingDef defines a constructible township building.
type BuildingDef struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Biome string `yaml:"biome"`

	// Costs maps resource ID to the amount consumed per build or repair.
	Costs map[string]int `yaml:"costs"`

	// Production maps resource ID to the amount produced per township tick
	// at full efficiency.
	Production map[string]float64 `yaml:"production"`

	// MaxCount caps how many can stand in the biome; 0 = unlimited.
	MaxCount int `yaml:"max_count"`
}

// Validate checks that the BuildingDef satisfies its invariants.
//
// Precondition: b is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (b *BuildingDef) Validate() error {
	var errs []error
	if b.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if b.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if b.Biome == "" {
		errs = append(errs, errors.New("Biome must not be empty"))
	}
	for res, qty := range b.Costs {
		if res == "" || qty < 0 {
			errs = append(errs, fmt.Errorf("cost %q must have a resource id and qty >= 0", res))
		}
	}
	for res, rate := range b.Production {
		if res == "" || rate < 0 {
			errs = append(errs, fmt.Errorf("production %q must have a resource id and rate >= 0", res))
		}
	}
	if b.MaxCount < 0 {
		errs = append(errs, fmt.Errorf("MaxCount must be >= 0, got %d", b.MaxCount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("building validation failed: %v", errs)
	}
	return nil
}

// TaskGoalType enumerates township task goal kinds.
type TaskGoalType string

const (
	// GoalBuildCount requires a number of a given building standing.
	GoalBuildCount TaskGoalType = "build"
	// GoalResourceStock requires a resource stockpile level.
	GoalResourceStock TaskGoalType = "resource"
	// GoalWorship requires accumulated worship points.
	GoalWorship TaskGoalType = "worship"
)

// TaskGoal is one goal of a township task.
type TaskGoal struct {
	Type     TaskGoalType `yaml:"type"`
	TargetID string       `yaml:"target"`
	Amount   int          `yaml:"amount"`
}

// TownshipTaskDef defines a claimable township task with goals and rewards.
type TownshipTaskDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Goals       []TaskGoal     `yaml:"goals"`
	RewardGP    int            `yaml:"reward_gp"`
	RewardItems []ItemQuantity `yaml:"reward_items"`
}

// Validate checks that the TownshipTaskDef satisfies its invariants.
//
// Precondition: t is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (t *TownshipTaskDef) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if len(t.Goals) == 0 {
		errs = append(errs, errors.New("Goals must not be empty"))
	}
	for i, g := range t.Goals {
		switch g.Type {
		case GoalBuildCount, GoalResourceStock:
			if g.TargetID == "" || g.Amount < 1 {
				errs = append(errs, fmt.Errorf("goal[%d] needs a target and amount >= 1", i))
			}
		case GoalWorship:
			if g.Amount < 1 {
				errs = append(errs, fmt.Errorf("goal[%d] needs amount >= 1", i))
			}
		default:
			errs = append(errs, fmt.Errorf("goal[%d] has unknown type %q", i, g.Type))
		}
	}
	if t.RewardGP < 0 {
		errs = append(errs, fmt.Errorf("RewardGP must be >= 0, got %d", t.RewardGP))
	}
	for i, ri := range t.RewardItems {
		if ri.ItemID == "" || ri.Qty < 1 {
			errs = append(errs, fmt.Errorf("reward item[%d] must have an item and qty >= 1", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("township task validation failed: %v", errs)
	}
	return nil
}

// DeityDef defines a worshippable deity and the modifiers it grants.
type DeityDef struct {
	ID      string                `yaml:"id"`
	Name    string                `yaml:"name"`
	Bonuses modifier.Contribution `yaml:"bonuses"`
}

// Validate checks that the DeityDef satisfies its invariants.
func (d *DeityDef) Validate() error {
	if d.ID == "" {
		return errors.New("deity validation failed: ID must not be empty")
	}
	if d.Name == "" {
		return errors.New("deity validation failed: Name must not be empty")
	}
	return nil
}
