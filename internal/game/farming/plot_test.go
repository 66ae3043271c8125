package farming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/farming"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
	"github.com/embervale/engine/internal/game/skill"
)

func carrotCrop() *data.CropDef {
	return &data.CropDef{
		ID:            "carrot",
		Name:          "Carrot",
		Level:         1,
		SeedItemID:    "carrot_seed",
		SeedCost:      5,
		GrowthTicks:   10,
		ProduceItemID: "carrot_produce",
		BaseYield:     4,
		XP:            15,
	}
}

func roller(seed int64) *rng.Roller {
	return rng.NewLoggedRoller(rng.NewSeededSource(seed), zap.NewNop())
}

func TestPlot_PlantConsumesSeedCost(t *testing.T) {
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("carrot_seed", 5))
	state := skill.NewState()

	// Exactly the seed cost on hand plants and empties the stack.
	p := farming.NewPlot(0)
	require.NoError(t, p.Plant(carrotCrop(), state, bank))

	assert.Equal(t, farming.PlotGrowing, p.State)
	assert.Equal(t, "carrot", p.CropID)
	assert.Equal(t, 10, p.TicksRemaining)
	assert.Zero(t, bank.Quantity("carrot_seed"))
}

func TestPlot_PlantShortOneSeedLeavesBankUnchanged(t *testing.T) {
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("carrot_seed", 4))

	p := farming.NewPlot(0)
	err := p.Plant(carrotCrop(), skill.NewState(), bank)
	assert.ErrorContains(t, err, "needs 5 carrot_seed, have 4")
	assert.Equal(t, 4, bank.Quantity("carrot_seed"), "a failed planting never consumes seeds")
	assert.Equal(t, farming.PlotEmpty, p.State)
}

func TestPlot_PlantRejections(t *testing.T) {
	bank := inventory.NewBank()
	state := skill.NewState()

	p := farming.NewPlot(0)
	crop := carrotCrop()

	err := p.Plant(crop, state, bank)
	assert.ErrorContains(t, err, "needs 5 carrot_seed, have 0")

	require.NoError(t, bank.Add("carrot_seed", 10))
	highLevel := carrotCrop()
	highLevel.Level = 40
	err = p.Plant(highLevel, state, bank)
	assert.ErrorContains(t, err, "requires farming level 40")
	assert.Equal(t, 10, bank.Quantity("carrot_seed"))

	require.NoError(t, p.Plant(crop, state, bank))
	err = p.Plant(crop, state, bank)
	assert.ErrorContains(t, err, "not empty")
}

func TestPlot_GrowthTicksRipenOnce(t *testing.T) {
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("carrot_seed", 5))

	p := farming.NewPlot(0)
	require.NoError(t, p.Plant(carrotCrop(), skill.NewState(), bank))

	for i := 0; i < 9; i++ {
		assert.False(t, p.Tick())
	}
	assert.True(t, p.Tick(), "the crop ripens on its final growth tick")
	assert.Equal(t, farming.PlotReady, p.State)
	assert.False(t, p.Tick(), "a ready plot stops ticking")
}

func TestPlot_ApplyCompost(t *testing.T) {
	bank := inventory.NewBank()
	require.NoError(t, bank.Add("carrot_seed", 5))
	require.NoError(t, bank.Add("compost", 10))

	p := farming.NewPlot(0)

	err := p.ApplyCompost(bank, "compost")
	assert.ErrorContains(t, err, "no growing crop")

	require.NoError(t, p.Plant(carrotCrop(), skill.NewState(), bank))
	for i := 0; i < farming.MaxCompost; i++ {
		require.NoError(t, p.ApplyCompost(bank, "compost"))
	}
	assert.Equal(t, farming.MaxCompost, p.CompostLevel)

	err = p.ApplyCompost(bank, "compost")
	assert.ErrorContains(t, err, "fully composted")
	assert.Equal(t, 10-farming.MaxCompost, bank.Quantity("compost"))
}

func TestPlot_HarvestChance(t *testing.T) {
	p := farming.NewPlot(0)
	assert.InDelta(t, 0.5, p.HarvestChance(nil), 1e-9)

	p.CompostLevel = 3
	assert.InDelta(t, 0.8, p.HarvestChance(nil), 1e-9)

	mods := modifier.NewSet(modifier.Contribution{HarvestChanceBonus: 0.4})
	assert.InDelta(t, 1.0, p.HarvestChance(mods), 1e-9, "the chance caps at certainty")
}

func growReady(t *testing.T, bank *inventory.Bank, compost int) *farming.Plot {
	t.Helper()
	require.NoError(t, bank.Add("carrot_seed", 5))

	p := farming.NewPlot(0)
	require.NoError(t, p.Plant(carrotCrop(), skill.NewState(), bank))
	for i := 0; i < compost; i++ {
		require.NoError(t, bank.Add("compost", 1))
		require.NoError(t, p.ApplyCompost(bank, "compost"))
	}
	for !p.Tick() {
	}
	return p
}

func TestPlot_HarvestBaseChanceIsHalf(t *testing.T) {
	const trials = 2000
	r := roller(99)
	mods := modifier.NewSet()

	successes := 0
	for i := 0; i < trials; i++ {
		bank := inventory.NewBank()
		p := growReady(t, bank, 0)
		result, err := p.Harvest(carrotCrop(), bank, r, mods)
		require.NoError(t, err)
		if result.Success {
			successes++
		}
	}
	// Binomial(2000, 0.5) stays well inside this band.
	assert.Greater(t, successes, 850)
	assert.Less(t, successes, 1150)
}

func TestPlot_HarvestSuccessYieldsProduce(t *testing.T) {
	bank := inventory.NewBank()
	p := growReady(t, bank, farming.MaxCompost)

	// Fully composted carrot is a guaranteed harvest at level 5 compost.
	mods := modifier.NewSet(modifier.Contribution{HarvestChanceBonus: 0.1})
	result, err := p.Harvest(carrotCrop(), bank, roller(1), mods)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.Yield)
	assert.Equal(t, 15, result.XP)
	assert.Equal(t, 4, bank.Quantity("carrot_produce"))
	assert.Equal(t, farming.PlotEmpty, p.State)
}

func TestPlot_HarvestYieldModifier(t *testing.T) {
	bank := inventory.NewBank()
	p := growReady(t, bank, farming.MaxCompost)

	mods := modifier.NewSet(modifier.Contribution{
		HarvestChanceBonus: 0.1,
		FarmingYieldPct:    50,
	})
	result, err := p.Harvest(carrotCrop(), bank, roller(2), mods)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Yield, "4 base yield plus 50 percent")
}

func TestPlot_HarvestFailureDestroysCrop(t *testing.T) {
	// With no compost the roll is an even coin; scan seeds for a failure.
	for seed := int64(0); seed < 50; seed++ {
		bank := inventory.NewBank()
		p := growReady(t, bank, 0)
		result, err := p.Harvest(carrotCrop(), bank, roller(seed), nil)
		require.NoError(t, err)
		require.Equal(t, farming.PlotEmpty, p.State, "the plot empties whatever the roll")
		if !result.Success {
			assert.Zero(t, result.Yield)
			assert.Zero(t, result.XP)
			assert.False(t, bank.Has("carrot_produce"))
			return
		}
	}
	t.Fatal("no failed harvest in 50 seeds; the roll looks degenerate")
}

func TestPlot_HarvestRejections(t *testing.T) {
	bank := inventory.NewBank()
	p := farming.NewPlot(0)

	_, err := p.Harvest(carrotCrop(), bank, roller(3), nil)
	assert.ErrorContains(t, err, "nothing ready")

	p = growReady(t, bank, 0)
	other := carrotCrop()
	other.ID = "potato"
	_, err = p.Harvest(other, bank, roller(4), nil)
	assert.ErrorContains(t, err, `grows "carrot"`)
}

func TestPlot_Clear(t *testing.T) {
	bank := inventory.NewBank()
	p := growReady(t, bank, 2)
	p.Clear()
	assert.Equal(t, farming.PlotEmpty, p.State)
	assert.Empty(t, p.CropID)
	assert.Zero(t, p.CompostLevel)
}
