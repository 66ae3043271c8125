package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/embervale/engine/internal/game/combat"
	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/rng"
)

func TestGenerateLoot_GPInRange(t *testing.T) {
	src := rng.NewSeededSource(13)
	rapid.Check(t, func(rt *rapid.T) {
		min := rapid.IntRange(1, 100).Draw(rt, "min")
		max := rapid.IntRange(min, min+500).Draw(rt, "max")

		loot := combat.GenerateLoot(data.DropTable{GPMin: min, GPMax: max}, src, 0)
		assert.GreaterOrEqual(rt, loot.GP, min)
		assert.LessOrEqual(rt, loot.GP, max)
	})
}

func TestGenerateLoot_EmptyTable(t *testing.T) {
	loot := combat.GenerateLoot(data.DropTable{}, rng.NewSeededSource(1), 0)
	assert.Zero(t, loot.GP)
	assert.Empty(t, loot.Items)
}

func TestGenerateLoot_GuaranteedDrop(t *testing.T) {
	dt := data.DropTable{
		Items: []data.DropEntry{{ItemID: "bones", Chance: 1, MinQty: 2, MaxQty: 4}},
	}
	loot := combat.GenerateLoot(dt, rng.NewSeededSource(2), 0)
	require.Len(t, loot.Items, 1)
	assert.Equal(t, "bones", loot.Items[0].ItemID)
	assert.NotEmpty(t, loot.Items[0].InstanceID)
	assert.GreaterOrEqual(t, loot.Items[0].Quantity, 2)
	assert.LessOrEqual(t, loot.Items[0].Quantity, 4)
}

func TestGenerateLoot_ImpossibleDrop(t *testing.T) {
	dt := data.DropTable{
		Items: []data.DropEntry{{ItemID: "crown", Chance: 0, MinQty: 1, MaxQty: 1}},
	}
	for i := int64(0); i < 20; i++ {
		loot := combat.GenerateLoot(dt, rng.NewSeededSource(i), 0)
		assert.Empty(t, loot.Items)
	}
}

func TestGenerateLoot_GPBonusScales(t *testing.T) {
	dt := data.DropTable{GPMin: 100, GPMax: 100}
	loot := combat.GenerateLoot(dt, rng.NewSeededSource(3), 50)
	assert.Equal(t, 150, loot.GP)
}

func TestGenerateLoot_UniqueInstanceIDs(t *testing.T) {
	dt := data.DropTable{
		Items: []data.DropEntry{
			{ItemID: "bones", Chance: 1, MinQty: 1, MaxQty: 1},
			{ItemID: "hide", Chance: 1, MinQty: 1, MaxQty: 1},
		},
	}
	loot := combat.GenerateLoot(dt, rng.NewSeededSource(4), 0)
	require.Len(t, loot.Items, 2)
	assert.NotEqual(t, loot.Items[0].InstanceID, loot.Items[1].InstanceID)
}
