// Package farming implements the plot lifecycle. Plots grow on every
// engine tick regardless of what holds the active-action slot.
package farming

import (
	"fmt"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
)

// PlotState is the lifecycle state of one plot.
type PlotState string

const (
	// PlotEmpty has nothing planted.
	PlotEmpty PlotState = "empty"
	// PlotGrowing has a crop counting down its growth ticks.
	PlotGrowing PlotState = "growing"
	// PlotReady has a fully grown crop awaiting harvest.
	PlotReady PlotState = "ready"
)

const (
	baseHarvestChance = 0.5
	// compostChancePerLevel is the harvest chance added per compost level.
	compostChancePerLevel = 0.1
	// MaxCompost is the compost level cap per planting.
	MaxCompost = 5
)

// Plot is one farming patch. Zero value is an empty plot.
type Plot struct {
	ID             int       `json:"id"`
	State          PlotState `json:"state"`
	CropID         string    `json:"crop_id,omitempty"`
	TicksRemaining int       `json:"ticks_remaining"`
	CompostLevel   int       `json:"compost_level"`
}

// NewPlot returns an empty plot with the given ID.
func NewPlot(id int) *Plot {
	return &Plot{ID: id, State: PlotEmpty}
}

// Plant sows a crop, consuming SeedCost units of its seed item. It is
// atomic: a short bank leaves the plot and the bank unchanged.
//
// Precondition: crop has passed Validate().
// Postcondition: on success the plot is growing with the crop's full
// growth duration and zero compost.
func (p *Plot) Plant(crop *data.CropDef, state levelSource, bank *inventory.Bank) error {
	if p.State != PlotEmpty {
		return fmt.Errorf("farming: plot %d is not empty", p.ID)
	}
	if lvl := state.Level(data.SkillFarming); lvl < crop.Level {
		return fmt.Errorf("farming: %s requires farming level %d, have %d", crop.ID, crop.Level, lvl)
	}
	if held := bank.Quantity(crop.SeedItemID); held < crop.SeedCost {
		return fmt.Errorf("farming: planting %s needs %d %s, have %d", crop.ID, crop.SeedCost, crop.SeedItemID, held)
	}
	if err := bank.Remove(crop.SeedItemID, crop.SeedCost); err != nil {
		return err
	}
	p.State = PlotGrowing
	p.CropID = crop.ID
	p.TicksRemaining = crop.GrowthTicks
	p.CompostLevel = 0
	return nil
}

// levelSource supplies a skill level for gating.
type levelSource interface {
	Level(data.Skill) int
}

// ApplyCompost raises the plot's compost level, improving the harvest
// roll. Compost only helps a growing crop.
//
// Postcondition: CompostLevel <= MaxCompost.
func (p *Plot) ApplyCompost(bank *inventory.Bank, compostItemID string) error {
	if p.State != PlotGrowing {
		return fmt.Errorf("farming: plot %d has no growing crop to compost", p.ID)
	}
	if p.CompostLevel >= MaxCompost {
		return fmt.Errorf("farming: plot %d is fully composted", p.ID)
	}
	if err := bank.Remove(compostItemID, 1); err != nil {
		return err
	}
	p.CompostLevel++
	return nil
}

// Tick advances growth by one tick.
//
// Postcondition: returns true exactly once, on the tick the crop ripens.
func (p *Plot) Tick() (ripened bool) {
	if p.State != PlotGrowing {
		return false
	}
	p.TicksRemaining--
	if p.TicksRemaining <= 0 {
		p.State = PlotReady
		p.TicksRemaining = 0
		return true
	}
	return false
}

// HarvestChance returns the success probability of harvesting this plot.
//
// Postcondition: result is in [baseHarvestChance, 1].
func (p *Plot) HarvestChance(mods *modifier.Set) float64 {
	chance := baseHarvestChance + float64(p.CompostLevel)*compostChancePerLevel
	if mods != nil {
		chance += mods.HarvestChanceBonus()
	}
	if chance > 1 {
		chance = 1
	}
	return chance
}

// HarvestResult reports the outcome of one harvest.
type HarvestResult struct {
	Success bool
	ItemID  string
	Yield   int
	XP      int
}

// Harvest rolls the harvest exactly once, empties the plot either way, and
// on success deposits the produce scaled by yield modifiers.
//
// Precondition: the plot is ready; crop matches p.CropID.
// Postcondition: the plot is empty; on failure the crop is destroyed with
// no produce and no XP.
func (p *Plot) Harvest(crop *data.CropDef, bank *inventory.Bank, roller *rng.Roller, mods *modifier.Set) (HarvestResult, error) {
	if p.State != PlotReady {
		return HarvestResult{}, fmt.Errorf("farming: plot %d has nothing ready to harvest", p.ID)
	}
	if crop.ID != p.CropID {
		return HarvestResult{}, fmt.Errorf("farming: plot %d grows %q, not %q", p.ID, p.CropID, crop.ID)
	}

	chance := p.HarvestChance(mods)
	p.clear()
	if !roller.Chance(chance) {
		return HarvestResult{}, nil
	}

	yield := crop.BaseYield
	if mods != nil {
		yield += int(float64(yield) * mods.FarmingYieldPct() / 100)
	}
	if yield < 1 {
		yield = 1
	}
	if err := bank.Add(crop.ProduceItemID, yield); err != nil {
		return HarvestResult{}, err
	}
	return HarvestResult{Success: true, ItemID: crop.ProduceItemID, Yield: yield, XP: crop.XP}, nil
}

// Clear destroys whatever occupies the plot without a harvest roll.
func (p *Plot) Clear() { p.clear() }

func (p *Plot) clear() {
	p.State = PlotEmpty
	p.CropID = ""
	p.TicksRemaining = 0
	p.CompostLevel = 0
}
