package engine

// Command is a typed player intent applied to the engine. Commands either
// succeed and mutate state atomically or fail with a human-readable reason
// and change nothing.
type Command interface {
	// CommandName identifies the command in logs.
	CommandName() string
}

// StartCombat begins an encounter against a single respawning monster.
type StartCombat struct {
	MonsterID string
}

func (StartCombat) CommandName() string { return "start_combat" }

// StartSequence begins a dungeon or stronghold run at its first monster.
type StartSequence struct {
	SequenceID string
}

func (StartSequence) CommandName() string { return "start_sequence" }

// StartSlayerMonster begins combat against a chosen monster inside a
// slayer area, subject to the area's requirement gates.
type StartSlayerMonster struct {
	AreaID    string
	MonsterID string
}

func (StartSlayerMonster) CommandName() string { return "start_slayer_monster" }

// StopCombat flees the current encounter immediately.
type StopCombat struct{}

func (StopCombat) CommandName() string { return "stop_combat" }

// SelectRecipe assigns a recipe as its skill's current selection.
type SelectRecipe struct {
	RecipeID string
}

func (SelectRecipe) CommandName() string { return "select_recipe" }

// ToggleAction starts the recipe's action loop, or stops it when it is
// already the active occupant. Passive routes the run to the passive slot.
type ToggleAction struct {
	RecipeID string
	Passive  bool
}

func (ToggleAction) CommandName() string { return "toggle_action" }

// SelectFoodSlot changes which food slot EatFood consumes from.
type SelectFoodSlot struct {
	Slot int
}

func (SelectFoodSlot) CommandName() string { return "select_food_slot" }

// EatFood consumes one unit from the selected food slot.
type EatFood struct{}

func (EatFood) CommandName() string { return "eat_food" }

// StockFood moves food from the bank into a food slot.
type StockFood struct {
	ItemID   string
	Quantity int
	Slot     int
}

func (StockFood) CommandName() string { return "stock_food" }

// EquipGear wears an item from the bank.
type EquipGear struct {
	ItemID string
}

func (EquipGear) CommandName() string { return "equip_gear" }

// EquipSummon sockets a familiar from the bank.
type EquipSummon struct {
	ItemID string
	Socket int
}

func (EquipSummon) CommandName() string { return "equip_summon" }

// UnequipGear returns a worn item to the bank.
type UnequipGear struct {
	Slot string
}

func (UnequipGear) CommandName() string { return "unequip_gear" }

// SellItem sells bank items for gold.
type SellItem struct {
	ItemID   string
	Quantity int
}

func (SellItem) CommandName() string { return "sell_item" }

// OpenItem opens openable items, rolling each one's contents into the
// bank and ledger. The whole quantity is validated before any is consumed.
type OpenItem struct {
	ItemID   string
	Quantity int
}

func (OpenItem) CommandName() string { return "open_item" }

// PlantCrop sows a crop in a plot.
type PlantCrop struct {
	PlotID int
	CropID string
}

func (PlantCrop) CommandName() string { return "plant_crop" }

// ApplyCompost composts a growing plot.
type ApplyCompost struct {
	PlotID        int
	CompostItemID string
}

func (ApplyCompost) CommandName() string { return "apply_compost" }

// HarvestCrop harvests a ready plot, rolling the harvest chance once.
type HarvestCrop struct {
	PlotID int
}

func (HarvestCrop) CommandName() string { return "harvest_crop" }

// ClearPlot destroys whatever occupies a plot.
type ClearPlot struct {
	PlotID int
}

func (ClearPlot) CommandName() string { return "clear_plot" }

// BuildTownshipBuilding erects a building in its biome.
type BuildTownshipBuilding struct {
	BuildingID string
}

func (BuildTownshipBuilding) CommandName() string { return "build_township_building" }

// RepairTownshipBuilding restores a building stack to full health.
type RepairTownshipBuilding struct {
	BuildingID string
}

func (RepairTownshipBuilding) CommandName() string { return "repair_township_building" }

// HealTownshipBuilding restores part of a building stack's health at a
// cost scaled to the fraction restored.
type HealTownshipBuilding struct {
	BuildingID string
}

func (HealTownshipBuilding) CommandName() string { return "heal_township_building" }

// ClaimTownshipTask claims a completed task's rewards.
type ClaimTownshipTask struct {
	TaskID string
}

func (ClaimTownshipTask) CommandName() string { return "claim_township_task" }

// SelectDeity chooses the township deity.
type SelectDeity struct {
	DeityID string
}

func (SelectDeity) CommandName() string { return "select_deity" }
