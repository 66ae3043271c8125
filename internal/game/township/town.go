// Package township simulates the player's town: buildings produce
// resources every tick, seasons and the chosen deity scale the output, and
// tasks pay out once their goals are met.
package township

import (
	"fmt"
	"math"
	"strings"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/inventory"
	"github.com/embervale/engine/internal/game/modifier"
)

// Season is one quarter of the township year.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// seasonOrder is the fixed rotation of the year.
var seasonOrder = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

// seasonEfficiency scales all production for the season.
var seasonEfficiency = map[Season]float64{
	SeasonSpring: 1.10,
	SeasonSummer: 1.00,
	SeasonAutumn: 1.00,
	SeasonWinter: 0.75,
}

// SeasonLengthTicks is how long each season lasts.
const SeasonLengthTicks = 10_000

// Health bounds for a building stack. Damaged buildings produce
// proportionally less; repair restores full health.
const (
	MaxHealth = 100
	// decayPerTick is the health lost by every building stack per tick.
	decayPerTick = 0.002
)

// WorshipPerTick is the worship accrued per tick while a deity is chosen.
const WorshipPerTick = 1

// BuildingStack tracks how many of one building stand and their shared
// repair state.
type BuildingStack struct {
	BuildingID string
	Count      int
	// Health is in [0, MaxHealth]; production scales linearly with it.
	Health float64
}

// Town is the whole township simulation state.
type Town struct {
	reg *data.Registry

	buildings map[string]*BuildingStack
	resources map[string]float64

	season      Season
	seasonTicks int

	deityID string
	worship int

	claimedTasks map[string]bool
}

// NewTown returns an empty town in spring with no deity chosen.
//
// Precondition: reg must be non-nil.
func NewTown(reg *data.Registry) *Town {
	return &Town{
		reg:          reg,
		buildings:    make(map[string]*BuildingStack),
		resources:    make(map[string]float64),
		season:       SeasonSpring,
		claimedTasks: make(map[string]bool),
	}
}

// Season returns the current season.
func (t *Town) Season() Season { return t.season }

// Resource returns the stockpile level of one resource.
func (t *Town) Resource(id string) float64 { return t.resources[id] }

// AddResource credits a stockpile, used for starting balances and rewards.
//
// Precondition: amount >= 0.
func (t *Town) AddResource(id string, amount float64) {
	if amount > 0 {
		t.resources[id] += amount
	}
}

// BuildingCount returns how many of the given building stand.
func (t *Town) BuildingCount(id string) int {
	if s, ok := t.buildings[id]; ok {
		return s.Count
	}
	return 0
}

// BuildingHealth returns the repair state of the given building stack, or
// 0 when none stand.
func (t *Town) BuildingHealth(id string) float64 {
	if s, ok := t.buildings[id]; ok {
		return s.Health
	}
	return 0
}

// DeityID returns the chosen deity, or "" when none.
func (t *Town) DeityID() string { return t.deityID }

// Worship returns the accumulated worship points.
func (t *Town) Worship() int { return t.worship }

// SelectDeity chooses the deity whose bonuses apply town-wide. Switching
// deities resets worship.
//
// Postcondition: DeityID() == id, or an error when the deity is unknown.
func (t *Town) SelectDeity(id string) error {
	if _, ok := t.reg.Deity(id); !ok {
		return fmt.Errorf("township: unknown deity %q", id)
	}
	if t.deityID != id {
		t.worship = 0
	}
	t.deityID = id
	return nil
}

// DeityContribution returns the chosen deity's modifier bonuses, or a zero
// contribution when no deity is chosen.
func (t *Town) DeityContribution() modifier.Contribution {
	if t.deityID == "" {
		return modifier.Contribution{}
	}
	if d, ok := t.reg.Deity(t.deityID); ok {
		return d.Bonuses
	}
	return modifier.Contribution{}
}

// Build erects one instance of the building, consuming its resource costs.
// All shortfalls are reported together in one aggregate error.
//
// Postcondition: on success the count increased by one and the stack is at
// full health; on error no resource is consumed.
func (t *Town) Build(buildingID string) error {
	def, ok := t.reg.Building(buildingID)
	if !ok {
		return fmt.Errorf("township: unknown building %q", buildingID)
	}
	stack := t.buildings[buildingID]
	if def.MaxCount > 0 && stack != nil && stack.Count >= def.MaxCount {
		return fmt.Errorf("township: %s is capped at %d in the %s biome", def.Name, def.MaxCount, def.Biome)
	}
	if err := t.spendCosts(def.Costs, "build "+def.Name); err != nil {
		return err
	}
	if stack == nil {
		stack = &BuildingStack{BuildingID: buildingID, Health: MaxHealth}
		t.buildings[buildingID] = stack
	}
	stack.Count++
	stack.Health = MaxHealth
	return nil
}

// Repair restores a building stack to full health for its build cost.
//
// Postcondition: on success Health == MaxHealth; a healthy stack is not
// charged.
func (t *Town) Repair(buildingID string) error {
	def, ok := t.reg.Building(buildingID)
	if !ok {
		return fmt.Errorf("township: unknown building %q", buildingID)
	}
	stack, ok := t.buildings[buildingID]
	if !ok || stack.Count == 0 {
		return fmt.Errorf("township: no %s standing to repair", def.Name)
	}
	if stack.Health >= MaxHealth {
		return fmt.Errorf("township: %s needs no repair", def.Name)
	}
	if err := t.spendCosts(def.Costs, "repair "+def.Name); err != nil {
		return err
	}
	stack.Health = MaxHealth
	return nil
}

// HealPerApplication is the health one Heal restores, capped at MaxHealth.
const HealPerApplication = 20

// Heal restores part of a building stack's health, charging the build cost
// scaled to the fraction actually restored. Cheaper than a full Repair when
// the stack is only lightly worn.
//
// Postcondition: on success Health rose by at most HealPerApplication; a
// healthy stack is not charged.
func (t *Town) Heal(buildingID string) error {
	def, ok := t.reg.Building(buildingID)
	if !ok {
		return fmt.Errorf("township: unknown building %q", buildingID)
	}
	stack, ok := t.buildings[buildingID]
	if !ok || stack.Count == 0 {
		return fmt.Errorf("township: no %s standing to heal", def.Name)
	}
	if stack.Health >= MaxHealth {
		return fmt.Errorf("township: %s needs no healing", def.Name)
	}
	restored := math.Min(HealPerApplication, MaxHealth-stack.Health)
	costs := make(map[string]int, len(def.Costs))
	for res, qty := range def.Costs {
		if scaled := int(math.Ceil(float64(qty) * restored / MaxHealth)); scaled > 0 {
			costs[res] = scaled
		}
	}
	if err := t.spendCosts(costs, "heal "+def.Name); err != nil {
		return err
	}
	stack.Health += restored
	return nil
}

// spendCosts validates every cost before consuming any, reporting all
// shortfalls in one aggregate message.
func (t *Town) spendCosts(costs map[string]int, what string) error {
	var shortfalls []string
	for res, qty := range costs {
		if t.resources[res] < float64(qty) {
			shortfalls = append(shortfalls, fmt.Sprintf("%s %d needed, %.0f held", res, qty, t.resources[res]))
		}
	}
	if len(shortfalls) > 0 {
		return fmt.Errorf("township: cannot %s: %s", what, strings.Join(shortfalls, "; "))
	}
	for res, qty := range costs {
		t.resources[res] -= float64(qty)
	}
	return nil
}

// Tick advances the township by one tick: production accrues, buildings
// decay, worship grows, and the season eventually turns.
//
// Postcondition: no stockpile is negative; season changes exactly every
// SeasonLengthTicks ticks.
func (t *Town) Tick() {
	efficiency := seasonEfficiency[t.season]
	deityProduction := t.DeityContribution().TownshipProduction

	for _, stack := range t.buildings {
		if stack.Count == 0 {
			continue
		}
		def, ok := t.reg.Building(stack.BuildingID)
		if !ok {
			continue
		}
		health := stack.Health / MaxHealth
		scale := float64(stack.Count) * health * efficiency * (1 + deityProduction/100)
		for res, rate := range def.Production {
			t.resources[res] += rate * scale
		}
		stack.Health -= decayPerTick
		if stack.Health < 0 {
			stack.Health = 0
		}
	}

	// Stockpiles never go negative even if a future consumer overdraws.
	for res, qty := range t.resources {
		if qty < 0 {
			t.resources[res] = 0
		}
	}

	if t.deityID != "" {
		t.worship += WorshipPerTick
	}

	t.seasonTicks++
	if t.seasonTicks >= SeasonLengthTicks {
		t.seasonTicks = 0
		t.season = nextSeason(t.season)
	}
}

func nextSeason(s Season) Season {
	for i, cur := range seasonOrder {
		if cur == s {
			return seasonOrder[(i+1)%len(seasonOrder)]
		}
	}
	return SeasonSpring
}

// TaskClaimed reports whether the given task's rewards were already taken.
func (t *Town) TaskClaimed(taskID string) bool { return t.claimedTasks[taskID] }

// UnmetGoals returns a description of every goal of the task the town has
// not yet reached. An empty result means the task is claimable.
func (t *Town) UnmetGoals(task *data.TownshipTaskDef) []string {
	var unmet []string
	for _, g := range task.Goals {
		switch g.Type {
		case data.GoalBuildCount:
			if t.BuildingCount(g.TargetID) < g.Amount {
				unmet = append(unmet, fmt.Sprintf("build %d %s, have %d", g.Amount, g.TargetID, t.BuildingCount(g.TargetID)))
			}
		case data.GoalResourceStock:
			if t.resources[g.TargetID] < float64(g.Amount) {
				unmet = append(unmet, fmt.Sprintf("stock %d %s, have %.0f", g.Amount, g.TargetID, t.resources[g.TargetID]))
			}
		case data.GoalWorship:
			if t.worship < g.Amount {
				unmet = append(unmet, fmt.Sprintf("accrue %d worship, have %d", g.Amount, t.worship))
			}
		}
	}
	return unmet
}

// ClaimTask pays the task's rewards into the bank and ledger. Each task
// pays out once.
//
// Postcondition: on success TaskClaimed(taskID) is true and the rewards
// are credited; an unmet or already-claimed task changes nothing.
func (t *Town) ClaimTask(taskID string, bank *inventory.Bank, ledger *inventory.Ledger) error {
	task, ok := t.reg.Task(taskID)
	if !ok {
		return fmt.Errorf("township: unknown task %q", taskID)
	}
	if t.claimedTasks[taskID] {
		return fmt.Errorf("township: task %s already claimed", taskID)
	}
	if unmet := t.UnmetGoals(task); len(unmet) > 0 {
		return fmt.Errorf("township: cannot claim %s: %s", taskID, strings.Join(unmet, "; "))
	}

	t.claimedTasks[taskID] = true
	ledger.Credit(task.RewardGP)
	for _, ri := range task.RewardItems {
		if err := bank.Add(ri.ItemID, ri.Qty); err != nil {
			return err
		}
	}
	return nil
}
