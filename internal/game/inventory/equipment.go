package inventory

import (
	"fmt"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/modifier"
)

// SummonSockets is the number of summoning familiar sockets.
const SummonSockets = 2

// FoodSlots is the number of quick-eat food slots.
const FoodSlots = 3

// FoodStack is one occupied food slot.
type FoodStack struct {
	ItemID   string
	Quantity int
}

// Equipment holds the player's worn gear, summon sockets and food slots.
// Gear slots are keyed by the item's equip slot; the two summon sockets are
// independent so two different familiars can be active at once.
type Equipment struct {
	gear    map[data.EquipSlot]string
	summons [SummonSockets]string

	food         [FoodSlots]FoodStack
	selectedFood int
}

// NewEquipment returns an empty equipment set with food slot 0 selected.
func NewEquipment() *Equipment {
	return &Equipment{gear: make(map[data.EquipSlot]string)}
}

// Gear returns the item equipped in the given slot, or ("", false) when empty.
func (e *Equipment) Gear(slot data.EquipSlot) (string, bool) {
	id, ok := e.gear[slot]
	return id, ok
}

// Summon returns the familiar in the given socket, or "" when empty.
//
// Precondition: socket is in [0, SummonSockets).
func (e *Equipment) Summon(socket int) string { return e.summons[socket] }

// Equip wears the item, moving one unit from the bank. The displaced item,
// if any, is returned to the bank. It is atomic: an invalid item or empty
// bank leaves all state unchanged.
//
// Precondition: reg must be non-nil.
// Postcondition: on success the item occupies its slot, the bank lost one
// unit of it and regained the previously worn item.
func (e *Equipment) Equip(bank *Bank, reg *data.Registry, itemID string) (displaced string, err error) {
	def, ok := reg.Item(itemID)
	if !ok {
		return "", fmt.Errorf("inventory: Equip: unknown item %q", itemID)
	}
	if !def.IsEquipable() {
		return "", fmt.Errorf("inventory: Equip: item %q has no equipment slot", itemID)
	}
	if def.Slot == data.SlotSummon {
		return "", fmt.Errorf("inventory: Equip: familiars go through EquipSummon")
	}
	if err := bank.Remove(itemID, 1); err != nil {
		return "", err
	}
	displaced = e.gear[def.Slot]
	e.gear[def.Slot] = itemID
	if displaced != "" {
		// The displaced item always fits: the bank has no slot limit.
		_ = bank.Add(displaced, 1)
	}
	return displaced, nil
}

// Unequip removes the item in the given slot and returns it to the bank.
//
// Postcondition: the slot is empty and the bank regained one unit.
func (e *Equipment) Unequip(bank *Bank, slot data.EquipSlot) error {
	id, ok := e.gear[slot]
	if !ok {
		return fmt.Errorf("inventory: Unequip: slot %q is empty", slot)
	}
	delete(e.gear, slot)
	return bank.Add(id, 1)
}

// EquipSummon sockets a familiar, moving one unit from the bank. The
// displaced familiar, if any, returns to the bank.
//
// Precondition: socket is in [0, SummonSockets).
func (e *Equipment) EquipSummon(bank *Bank, reg *data.Registry, itemID string, socket int) (displaced string, err error) {
	if socket < 0 || socket >= SummonSockets {
		return "", fmt.Errorf("inventory: EquipSummon: socket must be in [0, %d), got %d", SummonSockets, socket)
	}
	def, ok := reg.Item(itemID)
	if !ok {
		return "", fmt.Errorf("inventory: EquipSummon: unknown item %q", itemID)
	}
	if def.Slot != data.SlotSummon {
		return "", fmt.Errorf("inventory: EquipSummon: item %q is not a familiar", itemID)
	}
	if err := bank.Remove(itemID, 1); err != nil {
		return "", err
	}
	displaced = e.summons[socket]
	e.summons[socket] = itemID
	if displaced != "" {
		_ = bank.Add(displaced, 1)
	}
	return displaced, nil
}

// SelectedFoodSlot returns the index of the active food slot.
func (e *Equipment) SelectedFoodSlot() int { return e.selectedFood }

// SelectFoodSlot makes the given slot the active one for eating.
//
// Precondition: slot is in [0, FoodSlots).
func (e *Equipment) SelectFoodSlot(slot int) error {
	if slot < 0 || slot >= FoodSlots {
		return fmt.Errorf("inventory: SelectFoodSlot: slot must be in [0, %d), got %d", FoodSlots, slot)
	}
	e.selectedFood = slot
	return nil
}

// Food returns the stack in the given food slot.
//
// Precondition: slot is in [0, FoodSlots).
func (e *Equipment) Food(slot int) FoodStack { return e.food[slot] }

// StockFood moves quantity units of an edible item from the bank into a
// food slot. A slot holding a different item is swapped back to the bank
// first. It is atomic on error.
//
// Precondition: slot is in [0, FoodSlots); quantity > 0.
func (e *Equipment) StockFood(bank *Bank, reg *data.Registry, itemID string, quantity, slot int) error {
	if slot < 0 || slot >= FoodSlots {
		return fmt.Errorf("inventory: StockFood: slot must be in [0, %d), got %d", FoodSlots, slot)
	}
	def, ok := reg.Item(itemID)
	if !ok {
		return fmt.Errorf("inventory: StockFood: unknown item %q", itemID)
	}
	if !def.IsFood() {
		return fmt.Errorf("inventory: StockFood: item %q is not edible", itemID)
	}
	if err := bank.Remove(itemID, quantity); err != nil {
		return err
	}
	cur := e.food[slot]
	if cur.ItemID != "" && cur.ItemID != itemID {
		_ = bank.Add(cur.ItemID, cur.Quantity)
		cur = FoodStack{}
	}
	cur.ItemID = itemID
	cur.Quantity += quantity
	e.food[slot] = cur
	return nil
}

// EatFood consumes one unit from the selected food slot and returns the HP
// restored, scaled by the food healing modifier.
//
// Precondition: reg must be non-nil; mods may be nil.
// Postcondition: on success the selected slot lost one unit, the slot is
// cleared when it empties, and healed > 0.
func (e *Equipment) EatFood(reg *data.Registry, mods *modifier.Set) (healed int, err error) {
	stack := e.food[e.selectedFood]
	if stack.ItemID == "" || stack.Quantity <= 0 {
		return 0, fmt.Errorf("inventory: EatFood: food slot %d is empty", e.selectedFood)
	}
	def, ok := reg.Item(stack.ItemID)
	if !ok {
		return 0, fmt.Errorf("inventory: EatFood: unknown item %q", stack.ItemID)
	}

	healed = def.HealsFor
	if mods != nil {
		healed += int(float64(healed) * mods.FoodHealingPct() / 100)
	}

	stack.Quantity--
	if stack.Quantity == 0 {
		stack = FoodStack{}
	}
	e.food[e.selectedFood] = stack
	return healed, nil
}

// Contribution aggregates the modifier bonuses of every equipped item,
// gear and familiars alike.
//
// Precondition: reg must be non-nil.
func (e *Equipment) Contribution(reg *data.Registry) []modifier.Contribution {
	var out []modifier.Contribution
	for _, id := range e.gear {
		if def, ok := reg.Item(id); ok {
			out = append(out, def.Bonuses)
		}
	}
	for _, id := range e.summons {
		if id == "" {
			continue
		}
		if def, ok := reg.Item(id); ok {
			out = append(out, def.Bonuses)
		}
	}
	return out
}

// GearSnapshot returns a copy of the worn gear keyed by slot.
//
// Postcondition: mutations of the returned map do not affect the equipment.
func (e *Equipment) GearSnapshot() map[data.EquipSlot]string {
	out := make(map[data.EquipSlot]string, len(e.gear))
	for slot, id := range e.gear {
		out[slot] = id
	}
	return out
}

// SummonSnapshot returns a copy of the summon sockets.
func (e *Equipment) SummonSnapshot() [SummonSockets]string { return e.summons }

// FoodSnapshot returns a copy of the food slots.
func (e *Equipment) FoodSnapshot() [FoodSlots]FoodStack { return e.food }

// Restore replaces the equipment's state wholesale, copying the gear map.
// Used when loading a save; no bank movement happens.
func (e *Equipment) Restore(gear map[data.EquipSlot]string, summons [SummonSockets]string,
	food [FoodSlots]FoodStack, selectedFood int) {
	e.gear = make(map[data.EquipSlot]string, len(gear))
	for slot, id := range gear {
		e.gear[slot] = id
	}
	e.summons = summons
	e.food = food
	if selectedFood >= 0 && selectedFood < FoodSlots {
		e.selectedFood = selectedFood
	} else {
		e.selectedFood = 0
	}
}

// WeaponSpeedTicks returns the equipped weapon's attack cadence, or
// fallback when no weapon is worn.
//
// Precondition: fallback >= 1.
func (e *Equipment) WeaponSpeedTicks(reg *data.Registry, fallback int) int {
	if id, ok := e.gear[data.SlotWeapon]; ok {
		if def, found := reg.Item(id); found && def.AttackSpeedTicks >= 1 {
			return def.AttackSpeedTicks
		}
	}
	return fallback
}
