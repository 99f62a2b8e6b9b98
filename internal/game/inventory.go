package game

import "sync"

// UserItem is a furniture item sitting in a user's inventory, keeping its
// base type and toggle state from when it was picked up or purchased.
type UserItem struct {
	Id     int
	BaseId string
	Base   *BaseItem
	State  int
}

// Inventory holds the items a user owns but has not placed in a room.
// It has its own lock: pick-ups from different rooms may race on it.
type Inventory struct {
	mu    sync.Mutex
	items map[int]*UserItem
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		items: make(map[int]*UserItem),
	}
}

// Add adds an item to the inventory.
func (inv *Inventory) Add(item *UserItem) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items[item.Id] = item
}

// Remove removes an item from the inventory.
// Returns the removed item, or nil if not found.
func (inv *Inventory) Remove(id int) *UserItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if item, ok := inv.items[id]; ok {
		delete(inv.items, id)
		return item
	}
	return nil
}

// Get returns an item by id, or nil if not found.
func (inv *Inventory) Get(id int) *UserItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.items[id]
}

// Contains checks if an item is in the inventory.
func (inv *Inventory) Contains(id int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	_, ok := inv.items[id]
	return ok
}

// Items returns a snapshot of the inventory contents.
func (inv *Inventory) Items() []*UserItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	items := make([]*UserItem, 0, len(inv.items))
	for _, item := range inv.items {
		items = append(items, item)
	}
	return items
}

// Size returns the number of held items.
func (inv *Inventory) Size() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.items)
}
