package engine

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/embervale/engine/internal/game/combat"
	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/farming"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/skill"
	"github.com/embervale/engine/internal/game/township"
)

// StateVersion is the save blob format version.
const StateVersion = 1

// EncounterView is the read-only combat projection inside a snapshot.
type EncounterView struct {
	MonsterID          string `json:"monster_id"`
	MonsterHP          int    `json:"monster_hp"`
	MonsterMaxHP       int    `json:"monster_max_hp"`
	Phase              string `json:"phase"`
	Stunned            bool   `json:"stunned"`
	StunTicksRemaining int    `json:"stun_ticks_remaining"`
	SequenceID         string `json:"sequence_id,omitempty"`
	SequenceIndex      int    `json:"sequence_index"`
	SequenceLength     int    `json:"sequence_length"`
}

// RunView is the read-only projection of one skill run.
type RunView struct {
	RecipeID       string `json:"recipe_id"`
	TicksRemaining int    `json:"ticks_remaining"`
	Passive        bool   `json:"passive"`
}

// Snapshot is a deep-copied, immutable projection of the whole game state.
// It doubles as the persisted save format.
type Snapshot struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`

	PlayerHP    int `json:"player_hp"`
	PlayerMaxHP int `json:"player_max_hp"`
	GP          int `json:"gp"`

	Bank []inventory.Stack `json:"bank"`

	SkillXP      map[data.Skill]int `json:"skill_xp"`
	MasteryXP    map[string]int     `json:"mastery_xp"`
	MasteryPools map[data.Skill]int `json:"mastery_pools"`

	Gear             map[data.EquipSlot]string                `json:"gear"`
	Summons          [inventory.SummonSockets]string          `json:"summons"`
	Food             [inventory.FoodSlots]inventory.FoodStack `json:"food"`
	SelectedFoodSlot int                                      `json:"selected_food_slot"`

	SelectedRecipes map[data.Skill]string `json:"selected_recipes"`
	ActiveRun       *RunView              `json:"active_run,omitempty"`
	PassiveRun      *RunView              `json:"passive_run,omitempty"`

	Encounter *EncounterView `json:"encounter,omitempty"`

	Plots    []farming.Plot    `json:"plots"`
	Township township.Snapshot `json:"township"`

	Completions map[string]int `json:"completions"`
	Purchases   []string       `json:"purchases,omitempty"`
}

// Snapshot returns an immutable deep copy of the current state. Readers
// never observe a partially applied tick or command.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Version:          StateVersion,
		Tick:             e.tick,
		PlayerHP:         e.playerHP,
		PlayerMaxHP:      e.opts.BaseMaxHP,
		GP:               e.ledger.GP(),
		Bank:             e.bank.Stacks(),
		Gear:             e.equipment.GearSnapshot(),
		Summons:          e.equipment.SummonSnapshot(),
		Food:             e.equipment.FoodSnapshot(),
		SelectedFoodSlot: e.equipment.SelectedFoodSlot(),
		SelectedRecipes:  make(map[data.Skill]string, len(e.selectedRecipes)),
		Township:         e.town.Snapshot(),
		Completions:      make(map[string]int, len(e.completions)),
	}
	snap.SkillXP, snap.MasteryXP, snap.MasteryPools = e.skills.Snapshot()

	for k, v := range e.selectedRecipes {
		snap.SelectedRecipes[k] = v
	}
	for k, v := range e.completions {
		snap.Completions[k] = v
	}
	for id := range e.purchases {
		snap.Purchases = append(snap.Purchases, id)
	}
	sort.Strings(snap.Purchases)

	for _, plot := range e.plots {
		snap.Plots = append(snap.Plots, *plot)
	}

	if e.activeRun != nil {
		snap.ActiveRun = &RunView{
			RecipeID:       e.activeRun.Recipe.ID,
			TicksRemaining: e.activeRun.TicksRemaining,
		}
	}
	if e.passiveRun != nil {
		snap.PassiveRun = &RunView{
			RecipeID:       e.passiveRun.Recipe.ID,
			TicksRemaining: e.passiveRun.TicksRemaining,
			Passive:        true,
		}
	}

	if enc := e.encounter; enc != nil {
		view := &EncounterView{
			MonsterID:          enc.Monster().ID,
			MonsterHP:          enc.MonsterHP,
			MonsterMaxHP:       enc.Monster().MaxHP,
			Phase:              enc.Phase().String(),
			Stunned:            enc.Stunned(),
			StunTicksRemaining: enc.StunTicksRemaining(),
		}
		if enc.Sequence != nil {
			view.SequenceID = enc.Sequence.SequenceID
			view.SequenceIndex = enc.Sequence.Index
			view.SequenceLength = enc.Sequence.Length()
		}
		snap.Encounter = view
	}

	return snap
}

// MarshalState serializes the current state as a versioned JSON blob.
func (e *Engine) MarshalState() ([]byte, error) {
	snap := e.Snapshot()
	blob, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("engine: marshaling state: %w", err)
	}
	return blob, nil
}

// RestoreState replaces all state from a versioned JSON blob. An in-flight
// encounter resumes at its saved monster, respawning at full HP; skill
// runs resume at their saved remaining ticks.
//
// Postcondition: on error the engine keeps its previous state.
func (e *Engine) RestoreState(blob []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("engine: unmarshaling state: %w", err)
	}
	if snap.Version != StateVersion {
		return fmt.Errorf("engine: unsupported state version %d", snap.Version)
	}

	// Rebuild everything before swapping it in.
	bank := inventory.NewBank()
	for _, stack := range snap.Bank {
		if err := bank.Add(stack.ItemID, stack.Quantity); err != nil {
			return fmt.Errorf("engine: restoring bank: %w", err)
		}
	}

	skills := skill.NewState()
	skills.Restore(snap.SkillXP, snap.MasteryXP, snap.MasteryPools)

	equipment := inventory.NewEquipment()
	equipment.Restore(snap.Gear, snap.Summons, snap.Food, snap.SelectedFoodSlot)

	var activeRun, passiveRun *skill.Run
	if snap.ActiveRun != nil {
		run, err := e.restoreRun(snap.ActiveRun)
		if err != nil {
			return err
		}
		activeRun = run
	}
	if snap.PassiveRun != nil {
		run, err := e.restoreRun(snap.PassiveRun)
		if err != nil {
			return err
		}
		passiveRun = run
	}

	var encounter *combat.Encounter
	if snap.Encounter != nil {
		enc, err := e.restoreEncounter(snap.Encounter)
		if err != nil {
			return err
		}
		encounter = enc
	}

	var plots []*farming.Plot
	for i := range snap.Plots {
		p := snap.Plots[i]
		plots = append(plots, &p)
	}
	for len(plots) < e.opts.PlotCount {
		plots = append(plots, farming.NewPlot(len(plots)))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick = snap.Tick
	e.playerHP = clampHP(snap.PlayerHP, e.opts.BaseMaxHP)
	e.bank = bank
	e.ledger = inventory.NewLedger(snap.GP)
	e.equipment = equipment
	e.skills = skills
	e.plots = plots
	e.town = township.NewTown(e.reg)
	e.town.Restore(snap.Township)

	e.selectedRecipes = make(map[data.Skill]string, len(snap.SelectedRecipes))
	for k, v := range snap.SelectedRecipes {
		e.selectedRecipes[k] = v
	}
	e.completions = make(map[string]int, len(snap.Completions))
	for k, v := range snap.Completions {
		e.completions[k] = v
	}
	e.purchases = make(map[string]bool, len(snap.Purchases))
	for _, id := range snap.Purchases {
		e.purchases[id] = true
	}

	e.slot = skill.Slot{}
	e.activeRun = activeRun
	e.passiveRun = passiveRun
	e.encounter = encounter
	if encounter != nil {
		e.slot.Claim(skill.OccupantCombat)
	} else if activeRun != nil {
		e.slot.Claim(activeRun.Recipe.ID)
	}
	return nil
}

func (e *Engine) restoreRun(view *RunView) (*skill.Run, error) {
	rec, ok := e.reg.Recipe(view.RecipeID)
	if !ok {
		return nil, fmt.Errorf("engine: saved run references unknown recipe %q", view.RecipeID)
	}
	ticks := view.TicksRemaining
	if ticks < 1 {
		ticks = 1
	}
	return &skill.Run{Recipe: rec, Passive: view.Passive, TicksRemaining: ticks}, nil
}

func (e *Engine) restoreEncounter(view *EncounterView) (*combat.Encounter, error) {
	if view.SequenceID != "" {
		seq, ok := e.reg.Sequence(view.SequenceID)
		if !ok {
			return nil, fmt.Errorf("engine: saved encounter references unknown sequence %q", view.SequenceID)
		}
		return combat.ResumeSequenceEncounter(e.reg, seq, view.SequenceIndex, e.opts.SpawnDelayTicks)
	}
	return combat.NewEncounter(e.reg, view.MonsterID, e.opts.SpawnDelayTicks)
}

func clampHP(hp, max int) int {
	if hp < 1 {
		return max
	}
	if hp > max {
		return max
	}
	return hp
}
