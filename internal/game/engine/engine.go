// Package engine owns all mutable game state and is its single mutator.
// Commands and ticks are serialized under one mutex; readers get immutable
// deep-copied snapshots.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/embervale/engine/internal/game/combat"
	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/farming"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
	"github.com/embervale/engine/internal/game/skill"
	"github.com/embervale/engine/internal/game/township"
)

// Options tune a new engine. Zero values take the listed defaults.
type Options struct {
	// SpawnDelayTicks is the monster spawn delay. Default 30.
	SpawnDelayTicks int
	// PlotCount is the number of farming plots. Default 4.
	PlotCount int
	// BaseMaxHP is the player's hit point pool. Default 100.
	BaseMaxHP int
	// StartingGP seeds the ledger. Default 0.
	StartingGP int
	// OnHit evaluates monster special-attack scripts. Nil disables hooks.
	OnHit combat.HookFunc
}

func (o *Options) fillDefaults() {
	if o.SpawnDelayTicks <= 0 {
		o.SpawnDelayTicks = 30
	}
	if o.PlotCount <= 0 {
		o.PlotCount = 4
	}
	if o.BaseMaxHP <= 0 {
		o.BaseMaxHP = 100
	}
}

const (
	basePlayerAccuracy  = 10
	basePlayerMaxHit    = 1
	bareHandsSpeedTicks = 4
)

// Engine is the single mutator of all game state.
type Engine struct {
	mu sync.Mutex

	reg    *data.Registry
	roller *rng.Roller
	logger *zap.Logger
	opts   Options

	tick uint64

	playerHP int

	bank      *inventory.Bank
	ledger    *inventory.Ledger
	equipment *inventory.Equipment
	skills    *skill.State

	slot       skill.Slot
	activeRun  *skill.Run
	passiveRun *skill.Run

	selectedRecipes map[data.Skill]string

	encounter   *combat.Encounter
	completions map[string]int
	purchases   map[string]bool

	plots []*farming.Plot
	town  *township.Town
}

// New creates an engine with empty state.
//
// Precondition: reg, roller, and logger must be non-nil.
func New(reg *data.Registry, roller *rng.Roller, logger *zap.Logger, opts Options) *Engine {
	opts.fillDefaults()
	e := &Engine{
		reg:             reg,
		roller:          roller,
		logger:          logger,
		opts:            opts,
		playerHP:        opts.BaseMaxHP,
		bank:            inventory.NewBank(),
		ledger:          inventory.NewLedger(opts.StartingGP),
		equipment:       inventory.NewEquipment(),
		skills:          skill.NewState(),
		selectedRecipes: make(map[data.Skill]string),
		completions:     make(map[string]int),
		purchases:       make(map[string]bool),
		town:            township.NewTown(reg),
	}
	for i := 0; i < opts.PlotCount; i++ {
		e.plots = append(e.plots, farming.NewPlot(i))
	}
	return e
}

// modifierSet aggregates every live modifier source: equipment, summons,
// and the township deity.
func (e *Engine) modifierSet() *modifier.Set {
	contributions := e.equipment.Contribution(e.reg)
	contributions = append(contributions, e.town.DeityContribution())
	return modifier.NewSet(contributions...)
}

// playerStats derives the combat profile from skills, gear, and modifiers.
func (e *Engine) playerStats(mods *modifier.Set) combat.PlayerStats {
	return combat.PlayerStats{
		Style:            modifier.StyleMelee,
		Accuracy:         basePlayerAccuracy + mods.Accuracy(),
		MinHit:           0,
		MaxHit:           basePlayerMaxHit + mods.MaxHit(),
		AttackSpeedTicks: e.equipment.WeaponSpeedTicks(e.reg, bareHandsSpeedTicks),
		MaxHP:            e.opts.BaseMaxHP,
		MeleeEvasion:     mods.Evasion(modifier.StyleMelee),
		RangedEvasion:    mods.Evasion(modifier.StyleRanged),
		MagicEvasion:     mods.Evasion(modifier.StyleMagic),
	}
}

// SkillLevel implements combat.RequirementState.
func (e *Engine) SkillLevel(s data.Skill) int { return e.skills.Level(s) }

// HasItem implements combat.RequirementState: the item counts whether
// banked or worn.
func (e *Engine) HasItem(itemID string) bool {
	if e.bank.Has(itemID) {
		return true
	}
	for _, id := range e.equipment.GearSnapshot() {
		if id == itemID {
			return true
		}
	}
	return false
}

// SequenceCompletions implements combat.RequirementState.
func (e *Engine) SequenceCompletions(sequenceID string) int { return e.completions[sequenceID] }

// HasPurchase implements combat.RequirementState.
func (e *Engine) HasPurchase(purchaseID string) bool { return e.purchases[purchaseID] }

// GrantPurchase records a shop purchase for requirement gating.
func (e *Engine) GrantPurchase(purchaseID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.purchases[purchaseID] = true
}

// GrantItem deposits items, used for starting inventories and testing.
func (e *Engine) GrantItem(itemID string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank.Add(itemID, quantity)
}

// GrantXP credits skill XP directly.
func (e *Engine) GrantXP(s data.Skill, amount int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.skills.AddXP(s, amount)
}

// Town returns the township simulation for direct reads.
func (e *Engine) Town() *township.Town { return e.town }

// Apply executes one command. On error no state is mutated.
func (e *Engine) Apply(cmd Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	err := e.apply(cmd)
	if err != nil {
		e.logger.Debug("engine: command rejected",
			zap.String("command", cmd.CommandName()),
			zap.Error(err),
		)
		return err
	}
	e.logger.Debug("engine: command applied",
		zap.String("command", cmd.CommandName()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (e *Engine) apply(cmd Command) error {
	switch c := cmd.(type) {
	case StartCombat:
		return e.startCombat(func() (*combat.Encounter, error) {
			return combat.NewEncounter(e.reg, c.MonsterID, e.opts.SpawnDelayTicks)
		}, nil)

	case StartSequence:
		seq, ok := e.reg.Sequence(c.SequenceID)
		if !ok {
			return fmt.Errorf("engine: unknown sequence %q", c.SequenceID)
		}
		return e.startCombat(func() (*combat.Encounter, error) {
			return combat.NewSequenceEncounter(e.reg, seq, e.opts.SpawnDelayTicks)
		}, seq.Requirements)

	case StartSlayerMonster:
		area, ok := e.reg.SlayerArea(c.AreaID)
		if !ok {
			return fmt.Errorf("engine: unknown slayer area %q", c.AreaID)
		}
		if !containsString(area.MonsterIDs, c.MonsterID) {
			return fmt.Errorf("engine: monster %q is not in area %s", c.MonsterID, c.AreaID)
		}
		return e.startCombat(func() (*combat.Encounter, error) {
			return combat.NewEncounter(e.reg, c.MonsterID, e.opts.SpawnDelayTicks)
		}, area.Requirements)

	case StopCombat:
		if e.encounter == nil {
			return fmt.Errorf("engine: no combat to stop")
		}
		e.encounter = nil
		e.slot.Release(skill.OccupantCombat)
		return nil

	case SelectRecipe:
		rec, ok := e.reg.Recipe(c.RecipeID)
		if !ok {
			return fmt.Errorf("engine: unknown recipe %q", c.RecipeID)
		}
		e.selectedRecipes[rec.Skill] = rec.ID
		return nil

	case ToggleAction:
		return e.toggleAction(c)

	case SelectFoodSlot:
		return e.equipment.SelectFoodSlot(c.Slot)

	case EatFood:
		healed, err := e.equipment.EatFood(e.reg, e.modifierSet())
		if err != nil {
			return err
		}
		e.healPlayer(healed)
		return nil

	case StockFood:
		return e.equipment.StockFood(e.bank, e.reg, c.ItemID, c.Quantity, c.Slot)

	case EquipGear:
		_, err := e.equipment.Equip(e.bank, e.reg, c.ItemID)
		return err

	case EquipSummon:
		_, err := e.equipment.EquipSummon(e.bank, e.reg, c.ItemID, c.Socket)
		return err

	case UnequipGear:
		return e.equipment.Unequip(e.bank, data.EquipSlot(c.Slot))

	case SellItem:
		_, err := inventory.Sell(e.bank, e.ledger, e.reg, c.ItemID, c.Quantity)
		return err

	case OpenItem:
		def, ok := e.reg.Item(c.ItemID)
		if !ok {
			return fmt.Errorf("engine: unknown item %q", c.ItemID)
		}
		if !def.IsOpenable() {
			return fmt.Errorf("engine: %s cannot be opened", c.ItemID)
		}
		if err := e.bank.Remove(c.ItemID, c.Quantity); err != nil {
			return err
		}
		for i := 0; i < c.Quantity; i++ {
			loot := combat.GenerateLoot(*def.Contents, e.roller.Source(), 0)
			e.applyLoot(&loot)
		}
		return nil

	case PlantCrop:
		plot, err := e.plot(c.PlotID)
		if err != nil {
			return err
		}
		crop, ok := e.reg.Crop(c.CropID)
		if !ok {
			return fmt.Errorf("engine: unknown crop %q", c.CropID)
		}
		return plot.Plant(crop, e.skills, e.bank)

	case ApplyCompost:
		plot, err := e.plot(c.PlotID)
		if err != nil {
			return err
		}
		return plot.ApplyCompost(e.bank, c.CompostItemID)

	case HarvestCrop:
		return e.harvestCrop(c.PlotID)

	case ClearPlot:
		plot, err := e.plot(c.PlotID)
		if err != nil {
			return err
		}
		plot.Clear()
		return nil

	case BuildTownshipBuilding:
		return e.town.Build(c.BuildingID)

	case RepairTownshipBuilding:
		return e.town.Repair(c.BuildingID)

	case HealTownshipBuilding:
		return e.town.Heal(c.BuildingID)

	case ClaimTownshipTask:
		return e.town.ClaimTask(c.TaskID, e.bank, e.ledger)

	case SelectDeity:
		return e.town.SelectDeity(c.DeityID)

	default:
		return fmt.Errorf("engine: unknown command %T", cmd)
	}
}

// startCombat gates on requirements and the stun rule, then claims the
// active slot for the new encounter.
func (e *Engine) startCombat(build func() (*combat.Encounter, error), reqs []data.Requirement) error {
	if e.encounter != nil && e.encounter.Stunned() {
		return fmt.Errorf("engine: cannot start combat while stunned")
	}
	if len(reqs) > 0 {
		if unmet := combat.CheckRequirements(reqs, e); len(unmet) > 0 {
			return fmt.Errorf("engine: entry blocked: %s", strings.Join(unmet, "; "))
		}
	}
	enc, err := build()
	if err != nil {
		return err
	}
	if stopped := e.slot.Claim(skill.OccupantCombat); stopped != "" {
		e.activeRun = nil
	}
	e.encounter = enc
	return nil
}

func (e *Engine) toggleAction(c ToggleAction) error {
	rec, ok := e.reg.Recipe(c.RecipeID)
	if !ok {
		return fmt.Errorf("engine: unknown recipe %q", c.RecipeID)
	}

	if c.Passive {
		if e.passiveRun != nil && e.passiveRun.Recipe.ID == rec.ID {
			e.passiveRun = nil
			return nil
		}
		run, err := skill.StartRun(rec, e.skills, e.bank, e.ledger, e.modifierSet(), e.roller.Source(), true)
		if err != nil {
			return err
		}
		e.passiveRun = run
		return nil
	}

	if e.slot.Active() == rec.ID {
		e.activeRun = nil
		e.slot.Release(rec.ID)
		return nil
	}
	run, err := skill.StartRun(rec, e.skills, e.bank, e.ledger, e.modifierSet(), e.roller.Source(), false)
	if err != nil {
		return err
	}
	if stopped := e.slot.Claim(rec.ID); stopped == skill.OccupantCombat {
		e.encounter = nil
	}
	e.activeRun = run
	e.selectedRecipes[rec.Skill] = rec.ID
	return nil
}

func (e *Engine) plot(id int) (*farming.Plot, error) {
	if id < 0 || id >= len(e.plots) {
		return nil, fmt.Errorf("engine: no plot %d", id)
	}
	return e.plots[id], nil
}

func (e *Engine) harvestCrop(plotID int) error {
	plot, err := e.plot(plotID)
	if err != nil {
		return err
	}
	crop, ok := e.reg.Crop(plot.CropID)
	if !ok {
		return fmt.Errorf("engine: plot %d has nothing to harvest", plotID)
	}
	result, harvestErr := plot.Harvest(crop, e.bank, e.roller, e.modifierSet())
	if harvestErr != nil {
		return harvestErr
	}
	if result.Success {
		e.skills.AddXP(data.SkillFarming, result.XP)
		e.skills.AddMasteryXP(data.SkillFarming, crop.ID, result.XP)
	}
	return nil
}

func (e *Engine) healPlayer(amount int) {
	e.playerHP += amount
	if e.playerHP > e.opts.BaseMaxHP {
		e.playerHP = e.opts.BaseMaxHP
	}
}

// Tick advances the whole simulation one tick: the encounter, the active
// and passive skill runs, every plot, and the township, in one synchronous
// pass under the state lock.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick++
	mods := e.modifierSet()

	if e.encounter != nil {
		e.tickCombat(mods)
	}
	if e.activeRun != nil {
		e.tickRun(e.activeRun, mods, func() { e.stopActiveRun() })
	}
	if e.passiveRun != nil {
		e.tickRun(e.passiveRun, mods, func() { e.passiveRun = nil })
	}
	for _, plot := range e.plots {
		plot.Tick()
	}
	e.town.Tick()
}

func (e *Engine) stopActiveRun() {
	if e.activeRun != nil {
		e.slot.Release(e.activeRun.Recipe.ID)
		e.activeRun = nil
	}
}

func (e *Engine) tickCombat(mods *modifier.Set) {
	ctx := combat.TickContext{
		Stats:           e.playerStats(mods),
		Mods:            mods,
		Roller:          e.roller,
		SpawnDelayTicks: e.opts.SpawnDelayTicks,
		OnHit:           e.opts.OnHit,
	}
	events, playerDamage := e.encounter.Tick(ctx)

	if events.PlayerAttack != nil && events.PlayerAttack.Heal > 0 {
		e.healPlayer(events.PlayerAttack.Heal)
	}
	if events.MonsterKilled {
		e.skills.AddXP(data.SkillSlayer, events.XP)
		if events.Loot != nil {
			e.applyLoot(events.Loot)
		}
		if events.SequenceCompleted && e.encounter.Sequence != nil {
			e.completions[e.encounter.Sequence.SequenceID]++
			if events.CompletionLoot != nil {
				e.applyLoot(events.CompletionLoot)
			}
		}
		e.logger.Debug("engine: monster killed",
			zap.String("monster", events.KilledMonsterID),
			zap.Int("xp", events.XP),
		)
	}

	if playerDamage > 0 {
		e.playerHP -= playerDamage
		if e.playerHP <= 0 {
			// Defeat ends combat; the player wakes at full health.
			e.playerHP = e.opts.BaseMaxHP
			e.encounter = nil
			e.slot.Release(skill.OccupantCombat)
			e.logger.Info("engine: player defeated")
		}
	}
}

func (e *Engine) applyLoot(loot *combat.LootResult) {
	e.ledger.Credit(loot.GP)
	for _, item := range loot.Items {
		if err := e.bank.Add(item.ItemID, item.Quantity); err != nil {
			e.logger.Warn("engine: dropping loot item", zap.String("item", item.ItemID), zap.Error(err))
		}
	}
}

func (e *Engine) tickRun(run *skill.Run, mods *modifier.Set, stop func()) {
	if !run.Tick() {
		return
	}
	result, err := run.Complete(e.skills, e.bank, e.ledger, mods)
	if err != nil {
		// Inputs ran out; the loop winds down.
		e.logger.Info("engine: action stopped", zap.String("recipe", run.Recipe.ID), zap.Error(err))
		stop()
		return
	}
	e.logger.Debug("engine: action completed",
		zap.String("recipe", run.Recipe.ID),
		zap.Int("xp", result.SkillXP),
		zap.Bool("leveled", result.Leveled),
	)
	run.Restart(mods, e.roller.Source())
}

// Run drives the fixed-interval tick loop until ctx is cancelled.
//
// Precondition: interval must be > 0.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("engine: tick interval must be > 0, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
