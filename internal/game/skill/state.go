package skill

import "github.com/embervale/engine/internal/game/data"

// Mastery XP from a completed action is split between the action itself
// and the skill's shared pool.
const (
	masteryActionShare = 0.95
	masteryPoolShare   = 0.05
)

// State holds every skill's XP, each action's mastery XP, and the shared
// mastery pool per skill. All balances only ever grow; there is no reset.
type State struct {
	xp          map[data.Skill]int
	masteryXP   map[string]int
	masteryPool map[data.Skill]int
}

// NewState returns a State with every skill at level 1 and zero mastery.
func NewState() *State {
	return &State{
		xp:          make(map[data.Skill]int),
		masteryXP:   make(map[string]int),
		masteryPool: make(map[data.Skill]int),
	}
}

// XP returns the total XP earned in the given skill.
func (s *State) XP(skill data.Skill) int { return s.xp[skill] }

// Level returns the current level of the given skill.
//
// Postcondition: result is in [1, MaxLevel].
func (s *State) Level(skill data.Skill) int { return LevelForXP(s.xp[skill]) }

// AddXP credits skill XP and reports whether a level was gained.
//
// Precondition: amount >= 0.
func (s *State) AddXP(skill data.Skill, amount int) (leveled bool) {
	if amount <= 0 {
		return false
	}
	before := s.Level(skill)
	s.xp[skill] += amount
	return s.Level(skill) > before
}

// MasteryXP returns the mastery XP accumulated on one action.
func (s *State) MasteryXP(actionID string) int { return s.masteryXP[actionID] }

// MasteryLevel returns the mastery level of one action.
func (s *State) MasteryLevel(actionID string) int { return LevelForXP(s.masteryXP[actionID]) }

// MasteryPool returns the shared pool balance for the given skill.
func (s *State) MasteryPool(skill data.Skill) int { return s.masteryPool[skill] }

// AddMasteryXP splits amount between the action and the skill's shared
// pool and credits both.
//
// Precondition: amount >= 0.
// Postcondition: MasteryXP(actionID) and MasteryPool(skill) never decrease.
func (s *State) AddMasteryXP(skill data.Skill, actionID string, amount int) (action, pool int) {
	if amount <= 0 {
		return 0, 0
	}
	pool = int(float64(amount) * masteryPoolShare)
	action = amount - pool
	s.masteryXP[actionID] += action
	s.masteryPool[skill] += pool
	return action, pool
}

// SpendMasteryPool debits the pool, used for mastery checkpoint claims.
//
// Postcondition: on success the pool decreased by amount; a short pool
// reports false with no change.
func (s *State) SpendMasteryPool(skill data.Skill, amount int) bool {
	if amount <= 0 || s.masteryPool[skill] < amount {
		return false
	}
	s.masteryPool[skill] -= amount
	return true
}

// Snapshot returns deep copies of the three balance maps.
//
// Postcondition: mutations of the returned maps do not affect the state.
func (s *State) Snapshot() (xp map[data.Skill]int, mastery map[string]int, pools map[data.Skill]int) {
	xp = make(map[data.Skill]int, len(s.xp))
	for k, v := range s.xp {
		xp[k] = v
	}
	mastery = make(map[string]int, len(s.masteryXP))
	for k, v := range s.masteryXP {
		mastery[k] = v
	}
	pools = make(map[data.Skill]int, len(s.masteryPool))
	for k, v := range s.masteryPool {
		pools[k] = v
	}
	return xp, mastery, pools
}

// Restore replaces the state's balances with the given maps, copying them.
func (s *State) Restore(xp map[data.Skill]int, mastery map[string]int, pools map[data.Skill]int) {
	s.xp = make(map[data.Skill]int, len(xp))
	for k, v := range xp {
		s.xp[k] = v
	}
	s.masteryXP = make(map[string]int, len(mastery))
	for k, v := range mastery {
		s.masteryXP[k] = v
	}
	s.masteryPool = make(map[data.Skill]int, len(pools))
	for k, v := range pools {
		s.masteryPool[k] = v
	}
}
