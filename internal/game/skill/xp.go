// Package skill implements the generic action progression loop shared by
// the non-combat skills: recipe runs with tick durations, skill XP, and
// per-action mastery with a shared pool.
package skill

import "math"

// MaxLevel is the level cap for every skill.
const MaxLevel = 99

// levelThresholds[l] is the total XP required to reach level l.
var levelThresholds [MaxLevel + 1]int

func init() {
	points := 0.0
	for l := 1; l <= MaxLevel; l++ {
		levelThresholds[l] = int(math.Floor(points / 4))
		points += math.Floor(float64(l) + 300*math.Pow(2, float64(l)/7))
	}
}

// XPForLevel returns the total XP required to reach the given level.
//
// Precondition: level is in [1, MaxLevel].
// Postcondition: XPForLevel(1) == 0; strictly increasing in level.
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level]
}

// LevelForXP returns the level reached with the given total XP.
//
// Precondition: xp >= 0.
// Postcondition: result is in [1, MaxLevel] and non-decreasing in xp.
func LevelForXP(xp int) int {
	level := 1
	for level < MaxLevel && xp >= levelThresholds[level+1] {
		level++
	}
	return level
}
