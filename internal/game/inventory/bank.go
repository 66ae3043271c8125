package inventory

import (
	"fmt"

	"github.com/embervale/engine/internal/game/data"
)

// Stack is one bank entry: an item definition and how many are held.
type Stack struct {
	ItemID   string
	Quantity int
}

// Bank is the player's item store. Every item stacks without limit; entries
// keep their first-deposit order for stable display.
type Bank struct {
	quantities map[string]int
	order      []string
}

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{quantities: make(map[string]int)}
}

// Add deposits quantity units of the given item.
//
// Precondition: quantity > 0.
// Postcondition: Quantity(itemID) increased by quantity; a first deposit
// appends the item to the display order.
func (b *Bank) Add(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("inventory: Bank.Add: quantity must be > 0, got %d", quantity)
	}
	if _, held := b.quantities[itemID]; !held {
		b.order = append(b.order, itemID)
	}
	b.quantities[itemID] += quantity
	return nil
}

// Remove withdraws quantity units of the given item. It is atomic: on error
// no state is modified.
//
// Precondition: quantity > 0.
// Postcondition: on success, Quantity(itemID) decreased by quantity; the
// entry disappears from the display order when it reaches zero.
func (b *Bank) Remove(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("inventory: Bank.Remove: quantity must be > 0, got %d", quantity)
	}
	held := b.quantities[itemID]
	if held < quantity {
		return fmt.Errorf("inventory: Bank.Remove: have %d of %q, need %d", held, itemID, quantity)
	}
	if held == quantity {
		delete(b.quantities, itemID)
		b.removeFromOrder(itemID)
		return nil
	}
	b.quantities[itemID] = held - quantity
	return nil
}

func (b *Bank) removeFromOrder(itemID string) {
	for i, id := range b.order {
		if id == itemID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

// Quantity returns how many units of the given item are held, zero when none.
func (b *Bank) Quantity(itemID string) int { return b.quantities[itemID] }

// Has reports whether at least one unit of the given item is held.
func (b *Bank) Has(itemID string) bool { return b.quantities[itemID] > 0 }

// HasAll reports whether every listed quantity is available. Used to gate
// recipe starts before any input is consumed.
func (b *Bank) HasAll(inputs []data.ItemQuantity) bool {
	for _, in := range inputs {
		if b.quantities[in.ItemID] < in.Qty {
			return false
		}
	}
	return true
}

// ConsumeAll withdraws every listed quantity. It is atomic: when any entry
// is short, nothing is withdrawn.
//
// Postcondition: on success, each input's quantity is removed; on error the
// bank is unchanged.
func (b *Bank) ConsumeAll(inputs []data.ItemQuantity) error {
	for _, in := range inputs {
		if b.quantities[in.ItemID] < in.Qty {
			return fmt.Errorf("inventory: Bank.ConsumeAll: have %d of %q, need %d",
				b.quantities[in.ItemID], in.ItemID, in.Qty)
		}
	}
	for _, in := range inputs {
		if err := b.Remove(in.ItemID, in.Qty); err != nil {
			return err
		}
	}
	return nil
}

// Stacks returns a snapshot of the bank in display order.
//
// Postcondition: returned slice is a copy; mutations do not affect the bank.
func (b *Bank) Stacks() []Stack {
	out := make([]Stack, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, Stack{ItemID: id, Quantity: b.quantities[id]})
	}
	return out
}

// Size returns the number of distinct items held.
func (b *Bank) Size() int { return len(b.order) }

// Ledger tracks the player's gold. Spend is atomic and never overdraws.
type Ledger struct {
	gp int
}

// NewLedger returns a ledger holding the given starting gold.
//
// Precondition: gp >= 0.
func NewLedger(gp int) *Ledger { return &Ledger{gp: gp} }

// GP returns the current balance.
func (l *Ledger) GP() int { return l.gp }

// Credit adds amount to the balance.
//
// Precondition: amount >= 0.
func (l *Ledger) Credit(amount int) {
	if amount > 0 {
		l.gp += amount
	}
}

// Spend debits amount from the balance.
//
// Precondition: amount >= 0.
// Postcondition: on success the balance decreased by amount; an overdraw
// returns an error and leaves the balance unchanged.
func (l *Ledger) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("inventory: Ledger.Spend: amount must be >= 0, got %d", amount)
	}
	if amount > l.gp {
		return fmt.Errorf("inventory: Ledger.Spend: have %d gp, need %d", l.gp, amount)
	}
	l.gp -= amount
	return nil
}

// Sell withdraws quantity units of the item from the bank and credits the
// ledger with its sale value. It is atomic: a short bank leaves both the
// bank and the ledger unchanged.
//
// Precondition: quantity > 0; itemID exists in reg.
// Postcondition: on success the ledger gained SellsFor * quantity gp.
func Sell(b *Bank, l *Ledger, reg *data.Registry, itemID string, quantity int) (int, error) {
	def, ok := reg.Item(itemID)
	if !ok {
		return 0, fmt.Errorf("inventory: Sell: unknown item %q", itemID)
	}
	if err := b.Remove(itemID, quantity); err != nil {
		return 0, err
	}
	proceeds := def.SellsFor * quantity
	l.Credit(proceeds)
	return proceeds, nil
}
