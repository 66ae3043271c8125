package combat

import (
	"github.com/google/uuid"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/rng"
)

// LootItem represents a single item instance in a loot result.
type LootItem struct {
	ItemID     string
	InstanceID string
	Quantity   int
}

// LootResult holds the generated loot from a single monster kill or a full
// sequence clear.
type LootResult struct {
	GP    int
	Items []LootItem
}

// GenerateLoot rolls loot from the given drop table. gpBonusPct is a
// percentage increase applied to the rolled GP (from modifiers).
//
// Precondition: dt must have passed Validate(); src must be non-nil.
// Postcondition: GP is in [GPMin, GPMax] scaled by the bonus; each item's
// Quantity is in [MinQty, MaxQty] for entries that pass the chance roll.
func GenerateLoot(dt data.DropTable, src rng.Source, gpBonusPct float64) LootResult {
	var result LootResult

	if dt.GPMax > 0 {
		gp := rng.Between(src, dt.GPMin, dt.GPMax)
		if gpBonusPct > 0 {
			gp += int(float64(gp) * gpBonusPct / 100)
		}
		result.GP = gp
	}

	for _, entry := range dt.Items {
		if rng.Chance(src, entry.Chance) {
			result.Items = append(result.Items, LootItem{
				ItemID:     entry.ItemID,
				InstanceID: uuid.New().String(),
				Quantity:   rng.Between(src, entry.MinQty, entry.MaxQty),
			})
		}
	}

	return result
}
