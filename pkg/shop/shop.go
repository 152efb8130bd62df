// Package shop implements the merchant's donation-driven inventory.
//
// The merchant's stock is dynamic. Gold donated in the lobby accumulates
// under the persistent data key KeyDonatedTotal and unlocks items from an
// ordered pool; the unlock threshold for item N is the cumulative sum of
// the prices of items 0..N, so a single large donation can cross several
// tiers at once. Independently, the per-run key KeyRestockPaid gates
// whether any unlocked items are actually on the shelf this run.
package shop

import (
	"fmt"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
)

// Event data keys owned by this package.
const (
	// KeyDonatedTotal is the persistent accumulated donation in gold.
	KeyDonatedTotal = "merchant_donated_total"
	// KeyRestockPaid is the per-run flag set when the player pays for
	// restock. Cleared when a run completes.
	KeyRestockPaid = "merchant_restock_paid"
)

// Item is a purchasable entry in a shop. Stock of -1 means unlimited.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
}

// PoolEntry defines one tier of the merchant's unlock sequence.
type PoolEntry struct {
	ID    string
	Name  string
	Price int
}

// MerchantPool is the merchant's item pool in unlock order. Each tier
// costs exactly the price of the item it unlocks.
var MerchantPool = []PoolEntry{
	{ID: "health_potion", Name: "Health Potion", Price: 15},
	{ID: "bronze_dagger", Name: "Bronze Dagger", Price: 20},
	{ID: "leather_armor", Name: "Leather Armor", Price: 25},
	{ID: "short_sword", Name: "Short Sword", Price: 35},
	{ID: "chain_mail", Name: "Chain Mail", Price: 45},
	{ID: "greater_health_potion", Name: "Greater Health Potion", Price: 40},
	{ID: "long_sword", Name: "Long Sword", Price: 60},
	{ID: "plate_armor", Name: "Plate Armor", Price: 80},
	{ID: "strength_potion", Name: "Strength Potion", Price: 50},
	{ID: "war_axe", Name: "War Axe", Price: 90},
	{ID: "commander_sword", Name: "Commander Sword", Price: 120},
	{ID: "dragon_armor", Name: "Dragon Armor", Price: 150},
}

// UnlockThresholds returns the cumulative donation needed to unlock each
// pool item. Item i is unlocked when the donated total reaches
// thresholds[i].
func UnlockThresholds() []int {
	thresholds := make([]int, len(MerchantPool))
	cumulative := 0
	for i, entry := range MerchantPool {
		cumulative += entry.Price
		thresholds[i] = cumulative
	}
	return thresholds
}

// UnlockedCount returns how many pool items a donated total unlocks.
func UnlockedCount(donated int) int {
	count := 0
	cumulative := 0
	for _, entry := range MerchantPool {
		cumulative += entry.Price
		if donated < cumulative {
			break
		}
		count++
	}
	return count
}

// NewlyUnlocked returns the pool entries whose thresholds fall strictly
// between two donated totals, in unlock order. Used to announce tiers
// crossed by a single donation.
func NewlyUnlocked(before, after int) []PoolEntry {
	lo, hi := UnlockedCount(before), UnlockedCount(after)
	if hi <= lo {
		return nil
	}
	unlocked := make([]PoolEntry, hi-lo)
	copy(unlocked, MerchantPool[lo:hi])
	return unlocked
}

// Shop is a purchasable item list. Purchases mutate stock in place.
type Shop struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// New returns a shop with a copy of the given items.
func New(name string, items []Item) *Shop {
	s := &Shop{Name: name, Items: make([]Item, len(items))}
	copy(s.Items, items)
	return s
}

// Buy attempts to purchase the item at index for the player. On success
// the item lands in the player's inventory and gold is deducted. The
// returned message is player-facing either way.
func (s *Shop) Buy(p *actor.Player, index int) (bool, string) {
	if index < 0 || index >= len(s.Items) {
		return false, "No such item."
	}
	item := &s.Items[index]

	if item.Stock == 0 {
		return false, fmt.Sprintf("%s is sold out.", item.Name)
	}
	if !p.SpendGold(item.Price) {
		return false, fmt.Sprintf("Not enough gold. You need %d coins.", item.Price)
	}
	p.AddItem(item.ID)

	if item.Stock > 0 {
		item.Stock--
		if item.Stock == 0 {
			s.Items = append(s.Items[:index], s.Items[index+1:]...)
		}
	}
	return true, fmt.Sprintf("Bought %s for %d gold.", item.Name, item.Price)
}

// ItemByID returns the listed item with the given id, if present.
func (s *Shop) ItemByID(id string) (*Item, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// unlockedItems materializes shop entries for every unlocked tier, each
// with stock 1.
func unlockedItems(donated int) []Item {
	n := UnlockedCount(donated)
	items := make([]Item, 0, n)
	for _, entry := range MerchantPool[:n] {
		items = append(items, Item{
			ID:    entry.ID,
			Name:  entry.Name,
			Price: entry.Price,
			Stock: 1,
		})
	}
	return items
}

// MerchantShop builds the dungeon merchant's shop from the registry's
// data store. Without restock paid the shelf is empty regardless of
// donations.
func MerchantShop(events *event.Registry) *Shop {
	var items []Item
	if events.GetBool(KeyRestockPaid, false) {
		items = unlockedItems(events.GetInt(KeyDonatedTotal, 0))
	}
	return New("Merchant", items)
}

// Donate records a donation against the persistent total and returns
// the tiers it unlocked, if any.
func Donate(events *event.Registry, amount int) []PoolEntry {
	before := events.GetInt(KeyDonatedTotal, 0)
	after := before + amount
	events.SetData(KeyDonatedTotal, after)
	return NewlyUnlocked(before, after)
}

// PayRestock marks the merchant restocked for the current run.
func PayRestock(events *event.Registry) {
	events.SetData(KeyRestockPaid, true)
}

// ResetForRun clears the per-run restock flag. Donations persist.
func ResetForRun(events *event.Registry) {
	events.SetData(KeyRestockPaid, false)
}
