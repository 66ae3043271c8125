package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/skill"
)

func TestState_StartsAtLevelOne(t *testing.T) {
	s := skill.NewState()
	assert.Equal(t, 0, s.XP(data.SkillCooking))
	assert.Equal(t, 1, s.Level(data.SkillCooking))
	assert.Equal(t, 0, s.MasteryXP("cook_shrimp"))
	assert.Equal(t, 0, s.MasteryPool(data.SkillCooking))
}

func TestState_AddXPReportsLevelUp(t *testing.T) {
	s := skill.NewState()
	assert.False(t, s.AddXP(data.SkillFishing, 82), "82 XP stays at level 1")
	assert.True(t, s.AddXP(data.SkillFishing, 1), "the 83rd XP reaches level 2")
	assert.Equal(t, 2, s.Level(data.SkillFishing))
	assert.False(t, s.AddXP(data.SkillFishing, 0))
}

func TestState_AddMasteryXPSplit(t *testing.T) {
	s := skill.NewState()
	action, pool := s.AddMasteryXP(data.SkillCooking, "cook_shrimp", 100)
	assert.Equal(t, 95, action)
	assert.Equal(t, 5, pool)
	assert.Equal(t, 95, s.MasteryXP("cook_shrimp"))
	assert.Equal(t, 5, s.MasteryPool(data.SkillCooking))
}

// TestState_MasterySplitConserves checks action + pool always equals the
// credited amount, with no XP lost to rounding.
func TestState_MasterySplitConserves(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := skill.NewState()
		amount := rapid.IntRange(1, 100000).Draw(rt, "amount")
		action, pool := s.AddMasteryXP(data.SkillFishing, "fish_trout", amount)
		assert.Equal(rt, amount, action+pool)
		assert.GreaterOrEqual(rt, action, pool, "the action share dominates the pool share")
	})
}

// TestState_MasteryMonotone verifies mastery balances never decrease under
// any sequence of credits.
func TestState_MasteryMonotone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := skill.NewState()
		prevAction, prevPool := 0, 0
		ops := rapid.IntRange(1, 30).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			s.AddMasteryXP(data.SkillCooking, "cook_shrimp", rapid.IntRange(0, 500).Draw(rt, "amount"))
			action := s.MasteryXP("cook_shrimp")
			pool := s.MasteryPool(data.SkillCooking)
			assert.GreaterOrEqual(rt, action, prevAction)
			assert.GreaterOrEqual(rt, pool, prevPool)
			prevAction, prevPool = action, pool
		}
	})
}

func TestState_SpendMasteryPool(t *testing.T) {
	s := skill.NewState()
	s.AddMasteryXP(data.SkillCooking, "cook_shrimp", 1000)
	pool := s.MasteryPool(data.SkillCooking)
	require.Equal(t, 50, pool)

	assert.False(t, s.SpendMasteryPool(data.SkillCooking, 51), "a short pool rejects the spend")
	assert.Equal(t, 50, s.MasteryPool(data.SkillCooking))

	assert.True(t, s.SpendMasteryPool(data.SkillCooking, 50))
	assert.Equal(t, 0, s.MasteryPool(data.SkillCooking))
}

func TestState_SnapshotIsDeepCopy(t *testing.T) {
	s := skill.NewState()
	s.AddXP(data.SkillAstrology, 500)
	s.AddMasteryXP(data.SkillAstrology, "study_moon", 100)

	xp, mastery, pools := s.Snapshot()
	xp[data.SkillAstrology] = 0
	mastery["study_moon"] = 0
	pools[data.SkillAstrology] = 0

	assert.Equal(t, 500, s.XP(data.SkillAstrology))
	assert.Equal(t, 95, s.MasteryXP("study_moon"))
	assert.Equal(t, 5, s.MasteryPool(data.SkillAstrology))
}

func TestState_RestoreRoundTrips(t *testing.T) {
	s := skill.NewState()
	s.AddXP(data.SkillSummoning, 250)
	s.AddMasteryXP(data.SkillSummoning, "summon_wolf", 80)

	restored := skill.NewState()
	restored.Restore(s.Snapshot())
	assert.Equal(t, s.XP(data.SkillSummoning), restored.XP(data.SkillSummoning))
	assert.Equal(t, s.MasteryXP("summon_wolf"), restored.MasteryXP("summon_wolf"))
	assert.Equal(t, s.MasteryPool(data.SkillSummoning), restored.MasteryPool(data.SkillSummoning))
}
