package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/embervale/engine/internal/game/combat"
	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
)

func testRegistry(t *testing.T) *data.Registry {
	t.Helper()
	reg := data.NewRegistry()

	require.NoError(t, reg.RegisterMonster(&data.MonsterDef{
		ID:               "rat",
		Name:             "Giant Rat",
		CombatLevel:      1,
		MaxHP:            10,
		AttackStyle:      modifier.StyleMelee,
		AttackSpeedTicks: 3,
		MinHit:           0,
		MaxHit:           1,
		Accuracy:         1,
		XP:               8,
		Drops:            data.DropTable{GPMin: 1, GPMax: 5},
	}))
	require.NoError(t, reg.RegisterMonster(&data.MonsterDef{
		ID:               "bat",
		Name:             "Cave Bat",
		CombatLevel:      2,
		MaxHP:            10,
		AttackStyle:      modifier.StyleMelee,
		AttackSpeedTicks: 3,
		MaxHit:           1,
		Accuracy:         1,
		XP:               10,
	}))
	require.NoError(t, reg.RegisterSequence(&data.SequenceDef{
		ID:         "sewer",
		Name:       "Sewer Depths",
		Kind:       data.KindDungeon,
		MonsterIDs: []string{"rat", "bat"},
		CompletionDrops: data.DropTable{
			GPMin: 100,
			GPMax: 100,
			Items: []data.DropEntry{{ItemID: "sewer_key", Chance: 1, MinQty: 1, MaxQty: 1}},
		},
	}))
	return reg
}

// overwhelming stats so a kill needs only a handful of attack rolls.
func crusherStats() combat.PlayerStats {
	return combat.PlayerStats{
		Style:            modifier.StyleMelee,
		Accuracy:         1_000_000,
		MinHit:           10,
		MaxHit:           10,
		AttackSpeedTicks: 2,
		MaxHP:            100,
	}
}

func testCtx(seed int64) combat.TickContext {
	return combat.TickContext{
		Stats:           crusherStats(),
		Roller:          rng.NewLoggedRoller(rng.NewSeededSource(seed), zap.NewNop()),
		SpawnDelayTicks: 3,
	}
}

// tickUntilKill advances the encounter until a monster dies, failing the
// test if none dies within the budget.
func tickUntilKill(t *testing.T, e *combat.Encounter, ctx combat.TickContext) combat.TickEvents {
	t.Helper()
	for i := 0; i < 1000; i++ {
		events, _ := e.Tick(ctx)
		if events.MonsterKilled {
			return events
		}
	}
	t.Fatal("no monster died within 1000 ticks")
	return combat.TickEvents{}
}

func TestNewEncounter_UnknownMonster(t *testing.T) {
	reg := testRegistry(t)
	_, err := combat.NewEncounter(reg, "dragon", 3)
	assert.ErrorContains(t, err, "unknown monster")
}

func TestEncounter_SpawnDelay(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 3)
	require.NoError(t, err)
	require.True(t, e.IsSpawning())

	ctx := testCtx(1)

	// No attacks resolve while spawning.
	for i := 0; i < 2; i++ {
		events, dmg := e.Tick(ctx)
		assert.False(t, events.Spawned)
		assert.Nil(t, events.PlayerAttack)
		assert.Nil(t, events.MonsterAttack)
		assert.Zero(t, dmg)
		assert.True(t, e.IsSpawning())
	}

	events, _ := e.Tick(ctx)
	assert.True(t, events.Spawned)
	assert.Equal(t, combat.PhaseActive, e.Phase())
	assert.Equal(t, crusherStats().AttackSpeedTicks, e.PlayerChargeTicks())
	assert.Equal(t, 3, e.MonsterChargeTicks())
}

func TestEncounter_IndependentCadence(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	// Player attacks every 2 ticks, monster every 3. They must resolve on
	// their own schedules, not in lockstep.
	ctx := testCtx(2)
	events, _ := e.Tick(ctx)
	require.True(t, events.Spawned)

	var playerTicks, monsterTicks []int
	for i := 1; i <= 6; i++ {
		events, _ := e.Tick(ctx)
		if events.PlayerAttack != nil {
			playerTicks = append(playerTicks, i)
		}
		if events.MonsterAttack != nil {
			monsterTicks = append(monsterTicks, i)
		}
		if events.MonsterKilled {
			break
		}
	}
	assert.Contains(t, playerTicks, 2)
	if len(monsterTicks) > 0 {
		assert.Equal(t, 3, monsterTicks[0])
	}
}

func TestEncounter_KillRespawnsSameMonster(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 2)
	require.NoError(t, err)

	ctx := testCtx(3)
	events := tickUntilKill(t, e, ctx)

	assert.Equal(t, "rat", events.KilledMonsterID)
	assert.Equal(t, 8, events.XP)
	require.NotNil(t, events.Loot)
	assert.GreaterOrEqual(t, events.Loot.GP, 1)
	assert.LessOrEqual(t, events.Loot.GP, 5)

	// Respawn with full HP and a fresh spawn delay.
	assert.True(t, e.IsSpawning())
	assert.Equal(t, "rat", e.Monster().ID)
	assert.Equal(t, 10, e.MonsterHP)
}

func TestEncounter_KillEventAppliesXPBonus(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	ctx := testCtx(4)
	ctx.Mods = modifier.NewSet(modifier.Contribution{CombatXPBonusPct: 50})

	events := tickUntilKill(t, e, ctx)
	assert.Equal(t, 12, events.XP, "8 base XP plus 50 percent")
}

func TestEncounter_SequenceAdvancesAndCompletes(t *testing.T) {
	reg := testRegistry(t)
	seq, ok := reg.Sequence("sewer")
	require.True(t, ok)

	e, err := combat.NewSequenceEncounter(reg, seq, 1)
	require.NoError(t, err)
	require.Equal(t, "rat", e.Monster().ID)

	ctx := testCtx(5)

	first := tickUntilKill(t, e, ctx)
	assert.True(t, first.SequenceAdvanced)
	assert.False(t, first.SequenceCompleted)
	assert.Nil(t, first.CompletionLoot)
	assert.Equal(t, "bat", e.Monster().ID, "run advances to the second monster")

	second := tickUntilKill(t, e, ctx)
	assert.True(t, second.SequenceAdvanced)
	assert.True(t, second.SequenceCompleted)
	require.NotNil(t, second.CompletionLoot)
	assert.Equal(t, 100, second.CompletionLoot.GP)
	require.Len(t, second.CompletionLoot.Items, 1)
	assert.Equal(t, "sewer_key", second.CompletionLoot.Items[0].ItemID)

	// The next run restarts at the first monster.
	assert.Equal(t, "rat", e.Monster().ID)
	assert.Equal(t, 0, e.Sequence.Index)
}

func TestEncounter_StunFreezesPlayerCharge(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	ctx := testCtx(6)
	events, _ := e.Tick(ctx)
	require.True(t, events.Spawned)

	chargeBefore := e.PlayerChargeTicks()
	e.ApplyStun(3)
	require.True(t, e.Stunned())

	for i := 0; i < 3; i++ {
		events, _ := e.Tick(ctx)
		assert.Nil(t, events.PlayerAttack, "stunned player must not attack")
	}
	assert.False(t, e.Stunned())
	assert.Equal(t, chargeBefore, e.PlayerChargeTicks(),
		"stun must freeze the charge, not consume it")
}

func TestEncounter_ApplyStunKeepsLongerRemainder(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	e.ApplyStun(5)
	e.ApplyStun(2)
	assert.Equal(t, 5, e.StunTicksRemaining())
	e.ApplyStun(8)
	assert.Equal(t, 8, e.StunTicksRemaining())
}

func TestEncounter_OnHitHookAppliesEffects(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.RegisterMonster(&data.MonsterDef{
		ID:               "basilisk",
		Name:             "Basilisk",
		CombatLevel:      20,
		MaxHP:            1000,
		AttackStyle:      modifier.StyleMelee,
		AttackSpeedTicks: 1,
		MinHit:           1,
		MaxHit:           1,
		Accuracy:         1_000_000,
		XP:               50,
		OnHit:            "gaze",
	}))

	e, err := combat.NewEncounter(reg, "basilisk", 1)
	require.NoError(t, err)

	ctx := testCtx(7)
	ctx.Stats.MaxHit = 0 // never kill it
	ctx.Stats.MinHit = 0
	ctx.OnHit = func(script string) (combat.HitEffects, error) {
		assert.Equal(t, "gaze", script)
		return combat.HitEffects{StunTicks: 4, BonusDamage: 9}, nil
	}

	e.Tick(ctx) // spawn
	var hit *combat.AttackOutcome
	var dmg int
	for i := 0; i < 200 && hit == nil; i++ {
		events, d := e.Tick(ctx)
		if events.MonsterAttack != nil && events.MonsterAttack.Hit {
			hit = events.MonsterAttack
			dmg = d
			assert.Equal(t, 4, events.StunApplied)
		}
	}
	require.NotNil(t, hit, "basilisk with near-certain accuracy must land a hit")
	assert.Equal(t, 10, hit.Damage, "1 rolled plus 9 bonus")
	assert.Equal(t, 10, dmg)
	assert.True(t, e.Stunned())
}

func TestEncounter_CritDoublesDamage(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	ctx := testCtx(8)
	ctx.Stats.MinHit = 4
	ctx.Stats.MaxHit = 4
	ctx.Mods = modifier.NewSet(modifier.Contribution{CritChance: 100})

	e.Tick(ctx) // spawn
	var outcome *combat.AttackOutcome
	for i := 0; i < 200 && outcome == nil; i++ {
		events, _ := e.Tick(ctx)
		if events.PlayerAttack != nil && events.PlayerAttack.Hit {
			outcome = events.PlayerAttack
		}
	}
	require.NotNil(t, outcome)
	assert.True(t, outcome.Crit)
	assert.Equal(t, 8, outcome.Damage)
}

func TestEncounter_LifestealHealsAttacker(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	ctx := testCtx(9)
	ctx.Stats.MinHit = 10
	ctx.Stats.MaxHit = 10
	ctx.Mods = modifier.NewSet(modifier.Contribution{Lifesteal: 50})

	e.Tick(ctx) // spawn
	var outcome *combat.AttackOutcome
	for i := 0; i < 200 && outcome == nil; i++ {
		events, _ := e.Tick(ctx)
		if events.PlayerAttack != nil && events.PlayerAttack.Hit {
			outcome = events.PlayerAttack
		}
	}
	require.NotNil(t, outcome)
	assert.Equal(t, 10, outcome.Damage)
	assert.Equal(t, 5, outcome.Heal)
}

func TestEncounter_DamageCappedAtMonsterHP(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	ctx := testCtx(10)
	ctx.Stats.MinHit = 500
	ctx.Stats.MaxHit = 500

	events := tickUntilKill(t, e, ctx)
	assert.Equal(t, 10, events.PlayerAttack.Damage, "overkill is capped at remaining HP")
}

func TestEncounter_AttackIntervalModifierFloorsAtOne(t *testing.T) {
	reg := testRegistry(t)
	e, err := combat.NewEncounter(reg, "rat", 1)
	require.NoError(t, err)

	ctx := testCtx(11)
	ctx.Mods = modifier.NewSet(modifier.Contribution{AttackIntervalTicks: -10})

	events, _ := e.Tick(ctx)
	require.True(t, events.Spawned)
	assert.Equal(t, 1, e.PlayerChargeTicks(), "attack interval never drops below one tick")
}
