package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/embervale/engine/internal/game/skill"
)

func TestXPForLevel_Anchors(t *testing.T) {
	assert.Equal(t, 0, skill.XPForLevel(1))
	assert.Equal(t, 83, skill.XPForLevel(2))
	assert.Equal(t, 13_034_431, skill.XPForLevel(99))
}

func TestXPForLevel_StrictlyIncreasing(t *testing.T) {
	for l := 1; l < skill.MaxLevel; l++ {
		assert.Less(t, skill.XPForLevel(l), skill.XPForLevel(l+1), "level %d", l)
	}
}

func TestLevelForXP_RoundTrips(t *testing.T) {
	for l := 1; l <= skill.MaxLevel; l++ {
		assert.Equal(t, l, skill.LevelForXP(skill.XPForLevel(l)), "exact threshold for level %d", l)
		if l < skill.MaxLevel {
			assert.Equal(t, l, skill.LevelForXP(skill.XPForLevel(l+1)-1),
				"one XP short of level %d", l+1)
		}
	}
}

func TestLevelForXP_Bounds(t *testing.T) {
	assert.Equal(t, 1, skill.LevelForXP(0))
	assert.Equal(t, skill.MaxLevel, skill.LevelForXP(1_000_000_000))
}

func TestLevelForXP_NonDecreasing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 20_000_000).Draw(rt, "a")
		b := rapid.IntRange(0, 20_000_000).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(rt, skill.LevelForXP(a), skill.LevelForXP(b))
	})
}
