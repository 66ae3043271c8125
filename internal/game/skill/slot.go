package skill

// OccupantCombat is the slot occupant ID used while combat holds the
// active slot.
const OccupantCombat = "combat"

// Slot enforces the single active-action rule: combat and skill runs all
// claim the same slot, and claiming it stops whatever held it before.
type Slot struct {
	occupant string
}

// Active returns the current occupant ID, or "" when idle.
func (s *Slot) Active() string { return s.occupant }

// Occupied reports whether anything holds the slot.
func (s *Slot) Occupied() bool { return s.occupant != "" }

// Claim takes the slot for the given occupant and returns the occupant it
// displaced, or "" when the slot was idle.
//
// Precondition: occupant must be non-empty.
// Postcondition: Active() == occupant.
func (s *Slot) Claim(occupant string) (stopped string) {
	stopped = s.occupant
	if stopped == occupant {
		stopped = ""
	}
	s.occupant = occupant
	return stopped
}

// Release frees the slot if the given occupant still holds it. A stale
// release from a previously displaced occupant is a no-op.
func (s *Slot) Release(occupant string) {
	if s.occupant == occupant {
		s.occupant = ""
	}
}
