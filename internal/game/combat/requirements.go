package combat

import "github.com/embervale/engine/internal/game/data"

// RequirementState is the subset of player state consulted when gating
// area entry.
type RequirementState interface {
	// SkillLevel returns the player's current level in the given skill.
	SkillLevel(skill data.Skill) int
	// HasItem reports whether the player owns or has equipped the item.
	HasItem(itemID string) bool
	// SequenceCompletions returns the persistent clear count for a sequence.
	SequenceCompletions(sequenceID string) int
	// HasPurchase reports whether the shop purchase has been made.
	HasPurchase(purchaseID string) bool
}

// CheckRequirements evaluates every requirement and returns the
// descriptions of all unmet ones. It never stops at the first failure:
// the caller reports the full set together.
//
// Postcondition: an empty result means entry is permitted.
func CheckRequirements(reqs []data.Requirement, state RequirementState) []string {
	var unmet []string
	for _, req := range reqs {
		if !requirementMet(req, state) {
			unmet = append(unmet, req.Describe())
		}
	}
	return unmet
}

func requirementMet(req data.Requirement, state RequirementState) bool {
	switch req.Type {
	case data.RequireSkillLevel:
		return state.SkillLevel(req.Skill) >= req.Level
	case data.RequireItem:
		return state.HasItem(req.ItemID)
	case data.RequireDungeonCompletions:
		return state.SequenceCompletions(req.SequenceID) >= req.Count
	case data.RequirePurchase:
		return state.HasPurchase(req.PurchaseID)
	default:
		// Unknown types are rejected at load time.
		return false
	}
}
