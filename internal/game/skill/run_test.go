package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
	"github.com/embervale/engine/internal/game/skill"
)

func shrimpRecipe() *data.RecipeDef {
	return &data.RecipeDef{
		ID:            "cook_shrimp",
		Name:          "Cook Shrimp",
		Skill:         data.SkillCooking,
		Level:         1,
		Inputs:        []data.ItemQuantity{{ItemID: "raw_shrimp", Qty: 1}},
		Outputs:       []data.ItemQuantity{{ItemID: "cooked_shrimp", Qty: 1}},
		XP:            20,
		FixedDuration: true,
		BaseTicks:     10,
	}
}

func trawlRecipe() *data.RecipeDef {
	return &data.RecipeDef{
		ID:       "trawl_reef",
		Name:     "Trawl the Reef",
		Skill:    data.SkillFishing,
		Level:    15,
		Outputs:  []data.ItemQuantity{{ItemID: "raw_lobster", Qty: 1}},
		XP:       50,
		MinTicks: 40,
		MaxTicks: 80,
	}
}

func TestDuration_Fixed(t *testing.T) {
	src := rng.NewSeededSource(1)
	assert.Equal(t, 10, skill.Duration(shrimpRecipe(), nil, src, false))
}

func TestDuration_VariableStaysInRange(t *testing.T) {
	rec := trawlRecipe()
	src := rng.NewSeededSource(2)
	for i := 0; i < 100; i++ {
		d := skill.Duration(rec, nil, src, false)
		assert.GreaterOrEqual(t, d, 40)
		assert.LessOrEqual(t, d, 80)
	}
}

func TestDuration_IntervalReduction(t *testing.T) {
	mods := modifier.NewSet(modifier.Contribution{
		SkillIntervalPct: map[string]float64{"cooking": 20},
	})
	src := rng.NewSeededSource(3)
	assert.Equal(t, 8, skill.Duration(shrimpRecipe(), mods, src, false))
}

func TestDuration_PassiveMultiplier(t *testing.T) {
	src := rng.NewSeededSource(4)
	assert.Equal(t, 50, skill.Duration(shrimpRecipe(), nil, src, true))
}

func TestDuration_FlooredAtOneTick(t *testing.T) {
	rec := shrimpRecipe()
	rec.BaseTicks = 1
	mods := modifier.NewSet(modifier.Contribution{
		SkillIntervalPct: map[string]float64{"cooking": 99},
	})
	src := rng.NewSeededSource(5)
	assert.Equal(t, 1, skill.Duration(rec, mods, src, false))
}

func TestStartRun_Succeeds(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("raw_shrimp", 3))
	ledger := inventory.NewLedger(0)

	run, err := skill.StartRun(shrimpRecipe(), state, bank, ledger, nil, rng.NewSeededSource(6), false)
	require.NoError(t, err)
	assert.Equal(t, 10, run.TicksRemaining)
	assert.Equal(t, 3, bank.Quantity("raw_shrimp"), "inputs are consumed at completion, not start")
}

func TestStartRun_CollectsAllViolations(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	ledger := inventory.NewLedger(5)

	rec := trawlRecipe()
	rec.Inputs = []data.ItemQuantity{{ItemID: "bait", Qty: 10}}
	rec.GPCost = 100

	_, err := skill.StartRun(rec, state, bank, ledger, nil, rng.NewSeededSource(7), false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "requires fishing level 15")
	assert.ErrorContains(t, err, "requires 10 bait, have 0")
	assert.ErrorContains(t, err, "requires 100 gp, have 5")
}

func TestStartRun_PassiveOnlyForCooking(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	ledger := inventory.NewLedger(0)

	rec := trawlRecipe()
	rec.Level = 1
	_, err := skill.StartRun(rec, state, bank, ledger, nil, rng.NewSeededSource(8), true)
	assert.ErrorContains(t, err, "cannot run passively")

	require.NoError(t, bank.Add("raw_shrimp", 1))
	_, err = skill.StartRun(shrimpRecipe(), state, bank, ledger, nil, rng.NewSeededSource(9), true)
	assert.NoError(t, err)
}

func TestRun_TickCompletesExactlyOnce(t *testing.T) {
	run := &skill.Run{Recipe: shrimpRecipe(), TicksRemaining: 3}
	assert.False(t, run.Tick())
	assert.False(t, run.Tick())
	assert.True(t, run.Tick())
	assert.False(t, run.Tick(), "an elapsed run does not complete again")
}

func TestRun_CompleteGrantsOutputsAndXP(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("raw_shrimp", 2))
	ledger := inventory.NewLedger(0)

	run := &skill.Run{Recipe: shrimpRecipe()}
	result, err := run.Complete(state, bank, ledger, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, bank.Quantity("raw_shrimp"))
	assert.Equal(t, 1, bank.Quantity("cooked_shrimp"))
	assert.Equal(t, 20, result.SkillXP)
	assert.Equal(t, 20, state.XP(data.SkillCooking))
	assert.Equal(t, 19, result.MasteryXP, "95 percent of 20")
	assert.Equal(t, 1, result.PoolXP)
}

func TestRun_CompleteAppliesMasteryBonus(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("raw_shrimp", 1))
	ledger := inventory.NewLedger(0)
	mods := modifier.NewSet(modifier.Contribution{MasteryXPBonusPct: 50})

	run := &skill.Run{Recipe: shrimpRecipe()}
	result, err := run.Complete(state, bank, ledger, mods)
	require.NoError(t, err)
	assert.Equal(t, 30, result.MasteryXP+result.PoolXP, "20 base mastery plus 50 percent")
	assert.Equal(t, 20, result.SkillXP, "the bonus applies to mastery only")
}

func TestRun_CompleteShortInputsIsAtomic(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	ledger := inventory.NewLedger(0)

	run := &skill.Run{Recipe: shrimpRecipe()}
	_, err := run.Complete(state, bank, ledger, nil)
	assert.ErrorContains(t, err, "no longer available")
	assert.Equal(t, 0, state.XP(data.SkillCooking))
	assert.False(t, bank.Has("cooked_shrimp"))
}

func TestRun_CompleteSpendsGPCost(t *testing.T) {
	state := skill.NewState()
	bank := inventory.NewBank()
	ledger := inventory.NewLedger(40)

	rec := &data.RecipeDef{
		ID: "summon_wolf", Name: "Summon Wolf", Skill: data.SkillSummoning,
		Level: 1, GPCost: 25,
		Outputs:       []data.ItemQuantity{{ItemID: "wolf_tablet", Qty: 5}},
		XP:            12,
		FixedDuration: true, BaseTicks: 20,
	}
	run := &skill.Run{Recipe: rec}
	_, err := run.Complete(state, bank, ledger, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, ledger.GP())
	assert.Equal(t, 5, bank.Quantity("wolf_tablet"))
}

func TestRun_RestartRerollsDuration(t *testing.T) {
	run := &skill.Run{Recipe: shrimpRecipe()}
	run.Restart(nil, rng.NewSeededSource(10))
	assert.Equal(t, 10, run.TicksRemaining)

	passive := &skill.Run{Recipe: shrimpRecipe(), Passive: true}
	passive.Restart(nil, rng.NewSeededSource(11))
	assert.Equal(t, 50, passive.TicksRemaining)
}
