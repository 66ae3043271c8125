package combat

import "github.com/embervale/engine/internal/game/data"

// SequenceContext tracks progress through an ordered monster run (dungeon
// or stronghold). Created when the run starts, reset on full clear so the
// next run begins at the first monster.
type SequenceContext struct {
	SequenceID string
	Kind       data.SequenceKind
	MonsterIDs []string
	// Index is the position of the monster currently being fought.
	Index int
}

// NewSequenceContext creates a context positioned at the first monster.
//
// Precondition: def must be non-nil with at least one monster.
func NewSequenceContext(def *data.SequenceDef) *SequenceContext {
	ids := make([]string, len(def.MonsterIDs))
	copy(ids, def.MonsterIDs)
	return &SequenceContext{
		SequenceID: def.ID,
		Kind:       def.Kind,
		MonsterIDs: ids,
	}
}

// Current returns the monster ID at the current index.
//
// Precondition: Index is in [0, len(MonsterIDs)).
func (s *SequenceContext) Current() string {
	return s.MonsterIDs[s.Index]
}

// Length returns the total number of monsters in the run.
func (s *SequenceContext) Length() int { return len(s.MonsterIDs) }

// Advance moves past the current monster after its death.
//
// Postcondition: when the run is exhausted, completed is true and Index is
// reset to 0 so the next run starts fresh; otherwise next is the following
// monster ID.
func (s *SequenceContext) Advance() (next string, completed bool) {
	s.Index++
	if s.Index >= len(s.MonsterIDs) {
		s.Index = 0
		return s.MonsterIDs[0], true
	}
	return s.MonsterIDs[s.Index], false
}
