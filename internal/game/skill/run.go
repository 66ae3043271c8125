package skill

import (
	"fmt"
	"strings"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
)

// PassiveDurationMultiplier slows a passive-slot run relative to an
// active one.
const PassiveDurationMultiplier = 5

// PassiveAllowed reports whether the skill may run in the passive slot.
func PassiveAllowed(s data.Skill) bool { return s == data.SkillCooking }

// Run is one in-flight recipe execution. Inputs are consumed at
// completion, not at start, so stopping a run early costs nothing.
type Run struct {
	Recipe         *data.RecipeDef
	Passive        bool
	TicksRemaining int
}

// Duration rolls the tick duration for one execution of the recipe.
//
// Precondition: rec has passed Validate(); src non-nil when the recipe has
// a variable duration.
// Postcondition: result >= 1; passive runs take PassiveDurationMultiplier
// times as long.
func Duration(rec *data.RecipeDef, mods *modifier.Set, src rng.Source, passive bool) int {
	var ticks int
	if rec.FixedDuration {
		ticks = rec.BaseTicks
	} else {
		ticks = rng.Between(src, rec.MinTicks, rec.MaxTicks)
	}
	if mods != nil {
		reduction := mods.SkillIntervalPct(string(rec.Skill))
		ticks -= int(float64(ticks) * reduction / 100)
	}
	if passive {
		ticks *= PassiveDurationMultiplier
	}
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}

// StartRun validates the recipe against the player's level, bank, and gold
// and returns a Run positioned at its full duration. Every violation is
// collected so the player sees all of them at once.
//
// Precondition: rec, state, bank, ledger non-nil.
// Postcondition: no state is mutated; on error the returned Run is nil.
func StartRun(rec *data.RecipeDef, state *State, bank *inventory.Bank, ledger *inventory.Ledger,
	mods *modifier.Set, src rng.Source, passive bool) (*Run, error) {

	var violations []string
	if lvl := state.Level(rec.Skill); lvl < rec.Level {
		violations = append(violations, fmt.Sprintf("requires %s level %d, have %d", rec.Skill, rec.Level, lvl))
	}
	for _, in := range rec.Inputs {
		if held := bank.Quantity(in.ItemID); held < in.Qty {
			violations = append(violations, fmt.Sprintf("requires %d %s, have %d", in.Qty, in.ItemID, held))
		}
	}
	if rec.GPCost > 0 && ledger.GP() < rec.GPCost {
		violations = append(violations, fmt.Sprintf("requires %d gp, have %d", rec.GPCost, ledger.GP()))
	}
	if passive && !PassiveAllowed(rec.Skill) {
		violations = append(violations, fmt.Sprintf("%s cannot run passively", rec.Skill))
	}
	if len(violations) > 0 {
		return nil, fmt.Errorf("skill: cannot start %s: %s", rec.ID, strings.Join(violations, "; "))
	}

	return &Run{
		Recipe:         rec,
		Passive:        passive,
		TicksRemaining: Duration(rec, mods, src, passive),
	}, nil
}

// Tick advances the run by one tick.
//
// Postcondition: returns true exactly once, on the tick the duration
// elapses.
func (r *Run) Tick() (completed bool) {
	if r.TicksRemaining <= 0 {
		return false
	}
	r.TicksRemaining--
	return r.TicksRemaining == 0
}

// CompletionResult reports what one finished run produced.
type CompletionResult struct {
	Outputs   []data.ItemQuantity
	SkillXP   int
	MasteryXP int
	PoolXP    int
	Leveled   bool
}

// Complete consumes the run's inputs and gold, grants its outputs, and
// credits skill and mastery XP. It is atomic: when the bank or ledger
// comes up short the whole completion is abandoned with no mutation.
//
// Precondition: the run's duration has elapsed.
func (r *Run) Complete(state *State, bank *inventory.Bank, ledger *inventory.Ledger,
	mods *modifier.Set) (CompletionResult, error) {

	rec := r.Recipe
	if !bank.HasAll(rec.Inputs) {
		return CompletionResult{}, fmt.Errorf("skill: complete %s: inputs no longer available", rec.ID)
	}
	if rec.GPCost > 0 && ledger.GP() < rec.GPCost {
		return CompletionResult{}, fmt.Errorf("skill: complete %s: %d gp no longer available", rec.ID, rec.GPCost)
	}
	if err := bank.ConsumeAll(rec.Inputs); err != nil {
		return CompletionResult{}, err
	}
	if rec.GPCost > 0 {
		if err := ledger.Spend(rec.GPCost); err != nil {
			return CompletionResult{}, err
		}
	}

	result := CompletionResult{Outputs: rec.Outputs}
	for _, out := range rec.Outputs {
		if err := bank.Add(out.ItemID, out.Qty); err != nil {
			return result, err
		}
	}

	result.SkillXP = rec.XP
	result.Leveled = state.AddXP(rec.Skill, rec.XP)

	mastery := rec.XP
	if mods != nil {
		mastery += int(float64(mastery) * mods.MasteryXPBonusPct() / 100)
	}
	result.MasteryXP, result.PoolXP = state.AddMasteryXP(rec.Skill, rec.ID, mastery)
	return result, nil
}

// Restart rerolls the run's duration for the next repetition.
func (r *Run) Restart(mods *modifier.Set, src rng.Source) {
	r.TicksRemaining = Duration(r.Recipe, mods, src, r.Passive)
}
