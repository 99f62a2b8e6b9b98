package game

import (
	"log/slog"

	"github.com/pixil98/go-hotel/internal/protocol"
)

// persistFn is a deferred store write. Mutations build these under the room
// lock and run them after it is released, so a slow store never stalls the
// room. Failures are logged; in-memory state is the source of truth for the
// live session and is never rolled back.
type persistFn func()

// RoomItemManager owns the furniture resident in one room: the floor map
// and the wall map, sharing a single id namespace. All mutations are
// defensive no-ops on invalid input; the protocol layer never sees an
// explicit rejection.
type RoomItemManager struct {
	room       *Room
	floorItems map[int]*RoomItem
	wallItems  map[int]*WallItem
}

func newRoomItemManager(room *Room) *RoomItemManager {
	return &RoomItemManager{
		room:       room,
		floorItems: make(map[int]*RoomItem),
		wallItems:  make(map[int]*WallItem),
	}
}

// Item returns the resident item with the given id, floor storage first,
// or nil if the id is not resident in this room.
func (m *RoomItemManager) Item(id int) Item {
	m.room.mu.Lock()
	defer m.room.mu.Unlock()
	return m.lookup(id)
}

// FloorItems returns a snapshot of the resident floor items.
func (m *RoomItemManager) FloorItems() []*RoomItem {
	m.room.mu.Lock()
	defer m.room.mu.Unlock()

	items := make([]*RoomItem, 0, len(m.floorItems))
	for _, it := range m.floorItems {
		items = append(items, it)
	}
	return items
}

// WallItems returns a snapshot of the resident wall items.
func (m *RoomItemManager) WallItems() []*WallItem {
	m.room.mu.Lock()
	defer m.room.mu.Unlock()

	items := make([]*WallItem, 0, len(m.wallItems))
	for _, it := range m.wallItems {
		items = append(items, it)
	}
	return items
}

// AddFloorItem places a floor item. The height is derived from the room's
// terrain at (x,y); a blocked tile, an illegal rotation, or an id already
// resident anywhere in the room makes this a no-op.
func (m *RoomItemManager) AddFloorItem(id, x, y, rot, state int, base *BaseItem) {
	m.room.mu.Lock()
	persist, _ := m.addFloorItem(id, x, y, rot, state, base, true)
	m.room.mu.Unlock()
	run(persist)
}

// AddWallItem places a wall item. Wall items are not terrain-affecting, so
// no height computation happens.
func (m *RoomItemManager) AddWallItem(id, x, y, rot, state int, base *BaseItem) {
	m.room.mu.Lock()
	persist, _ := m.addWallItem(id, x, y, rot, state, base, true)
	m.room.mu.Unlock()
	run(persist)
}

// RemoveItem takes an item out of the room and deletes its record.
// Removing an absent id is a no-op.
func (m *RoomItemManager) RemoveItem(id int) {
	m.room.mu.Lock()
	_, removed := m.removeItem(id)
	m.room.mu.Unlock()

	if removed {
		run(m.persistDelete(id))
	}
}

// MoveItem relocates or rotates a resident item. A rotation outside the
// base type's legal set leaves the item untouched. The move is a
// remove-then-readd; floor items get their height recomputed at the
// destination. Exactly one update is persisted, never an insert.
func (m *RoomItemManager) MoveItem(id, x, y, rot int, actor *User) {
	m.room.mu.Lock()
	var persist persistFn

	if fi, ok := m.floorItems[id]; ok {
		if fi.Base.AllowsRotation(rot) {
			if _, walkable := m.room.gameMap.heightExcluding(x, y, id); walkable {
				m.removeFloorItem(fi)
				m.addFloorItem(id, x, y, rot, fi.State, fi.Base, false)
				if moved, ok := m.floorItems[id]; ok {
					persist = m.persistUpdate(id, m.floorRecord(moved))
				}
			}
		}
	} else if wi, ok := m.wallItems[id]; ok {
		if wi.Base.AllowsRotation(rot) {
			m.removeWallItem(wi)
			m.addWallItem(id, x, y, rot, wi.State, wi.Base, false)
			if moved, ok := m.wallItems[id]; ok {
				persist = m.persistUpdate(id, m.wallRecord(moved))
			}
		}
	}

	m.room.mu.Unlock()
	run(persist)
}

// PickUp transfers an item out of the room into the acting user's
// inventory, preserving its base type and state. The item's record becomes
// an inventory record owned by the user.
func (m *RoomItemManager) PickUp(id int, actor *User) {
	m.room.mu.Lock()
	persist := m.pickUp(id, actor)
	m.room.mu.Unlock()
	run(persist)
}

// PickUpAll picks up every resident item. The floor and wall sets are
// snapshotted before the loop so removals cannot skip or double-process
// items.
func (m *RoomItemManager) PickUpAll(actor *User) {
	m.room.mu.Lock()

	ids := make([]int, 0, len(m.floorItems)+len(m.wallItems))
	for id := range m.floorItems {
		ids = append(ids, id)
	}
	for id := range m.wallItems {
		ids = append(ids, id)
	}

	persists := make([]persistFn, 0, len(ids))
	for _, id := range ids {
		persists = append(persists, m.pickUp(id, actor))
	}

	m.room.mu.Unlock()
	run(persists...)
}

// PlaceFromInventory is the inverse of PickUp: the item must currently sit
// in the acting user's inventory. It is only consumed when placement
// succeeds.
func (m *RoomItemManager) PlaceFromInventory(id, x, y, rot int, actor *User) {
	ui := actor.Inventory.Get(id)
	if ui == nil {
		return
	}

	m.room.mu.Lock()
	var persist persistFn
	var placed bool
	if ui.Base.IsWall() {
		persist, placed = m.addWallItem(id, x, y, rot, ui.State, ui.Base, true)
	} else {
		persist, placed = m.addFloorItem(id, x, y, rot, ui.State, ui.Base, true)
	}
	m.room.mu.Unlock()

	if placed {
		actor.Inventory.Remove(id)
		run(persist)
	}
}

// Interact triggers an item's interaction behavior for the acting user.
func (m *RoomItemManager) Interact(id int, actor *User) {
	m.room.mu.Lock()
	persist := m.interact(id)
	m.room.mu.Unlock()
	run(persist)
}

func (m *RoomItemManager) interact(id int) persistFn {
	if fi, ok := m.floorItems[id]; ok {
		if next, changed := triggerInteraction(fi.State, fi.Base); changed {
			fi.State = next
			m.room.broadcast(protocol.ItemState{Id: id, State: next})
			return m.persistUpdate(id, m.floorRecord(fi))
		}
	} else if wi, ok := m.wallItems[id]; ok {
		if next, changed := triggerInteraction(wi.State, wi.Base); changed {
			wi.State = next
			m.room.broadcast(protocol.ItemState{Id: id, State: next})
			return m.persistUpdate(id, m.wallRecord(wi))
		}
	}
	return nil
}

func (m *RoomItemManager) lookup(id int) Item {
	if it, ok := m.floorItems[id]; ok {
		return it
	}
	if it, ok := m.wallItems[id]; ok {
		return it
	}
	return nil
}

func (m *RoomItemManager) addFloorItem(id, x, y, rot, state int, base *BaseItem, persist bool) (persistFn, bool) {
	if m.lookup(id) != nil {
		return nil, false
	}
	if !base.AllowsRotation(rot) {
		return nil, false
	}
	z, ok := m.room.gameMap.AbsoluteHeight(x, y)
	if !ok {
		return nil, false
	}

	item := &RoomItem{
		Id:     id,
		X:      x,
		Y:      y,
		Z:      z,
		Rot:    rot,
		State:  state,
		BaseId: base.Key(),
		Base:   base,
	}
	m.floorItems[id] = item
	m.room.gameMap.addItem(item)

	m.room.broadcast(protocol.FloorItemAdded{
		Id:     id,
		BaseId: item.BaseId,
		X:      x,
		Y:      y,
		Z:      z,
		Rot:    rot,
		State:  state,
	})
	m.room.users.updateUserStatuses()

	if !persist {
		return nil, true
	}
	return m.persistSave(id, m.floorRecord(item)), true
}

func (m *RoomItemManager) addWallItem(id, x, y, rot, state int, base *BaseItem, persist bool) (persistFn, bool) {
	if m.lookup(id) != nil {
		return nil, false
	}
	if !base.AllowsRotation(rot) {
		return nil, false
	}

	item := &WallItem{
		Id:     id,
		X:      x,
		Y:      y,
		Rot:    rot,
		State:  state,
		BaseId: base.Key(),
		Base:   base,
	}
	m.wallItems[id] = item

	m.room.broadcast(protocol.WallItemAdded{
		Id:     id,
		BaseId: item.BaseId,
		X:      x,
		Y:      y,
		Rot:    rot,
		State:  state,
	})

	if !persist {
		return nil, true
	}
	return m.persistSave(id, m.wallRecord(item)), true
}

// removeItem drops an item from whichever map holds it and announces the
// removal. Returns the removed item.
func (m *RoomItemManager) removeItem(id int) (Item, bool) {
	if fi, ok := m.floorItems[id]; ok {
		m.removeFloorItem(fi)
		return fi, true
	}
	if wi, ok := m.wallItems[id]; ok {
		m.removeWallItem(wi)
		return wi, true
	}
	return nil, false
}

func (m *RoomItemManager) removeFloorItem(item *RoomItem) {
	delete(m.floorItems, item.Id)
	m.room.gameMap.removeItem(item)
	m.room.broadcast(protocol.FurnitureRemoved{Id: item.Id})
	m.room.users.updateUserStatuses()
}

func (m *RoomItemManager) removeWallItem(item *WallItem) {
	delete(m.wallItems, item.Id)
	m.room.broadcast(protocol.FurnitureRemoved{Id: item.Id})
}

func (m *RoomItemManager) pickUp(id int, actor *User) persistFn {
	it, ok := m.removeItem(id)
	if !ok {
		return nil
	}

	actor.Inventory.Add(&UserItem{
		Id:     id,
		BaseId: it.ItemBase().Key(),
		Base:   it.ItemBase(),
		State:  it.ItemState(),
	})

	return m.persistSave(id, &ItemRecord{
		Owner:  actor.Username,
		BaseId: it.ItemBase().Key(),
		Wall:   it.ItemBase().IsWall(),
		State:  it.ItemState(),
	})
}

// restoreFloorItem and restoreWallItem rebuild residency from persisted
// records at load time, without broadcasting or re-persisting.
func (m *RoomItemManager) restoreFloorItem(id int, rec *ItemRecord, base *BaseItem) {
	if m.lookup(id) != nil {
		return
	}
	item := &RoomItem{
		Id:     id,
		X:      rec.X,
		Y:      rec.Y,
		Z:      rec.Z,
		Rot:    rec.Rot,
		State:  rec.State,
		BaseId: rec.BaseId,
		Base:   base,
	}
	m.floorItems[id] = item
	m.room.gameMap.addItem(item)
}

func (m *RoomItemManager) restoreWallItem(id int, rec *ItemRecord, base *BaseItem) {
	if m.lookup(id) != nil {
		return
	}
	m.wallItems[id] = &WallItem{
		Id:     id,
		X:      rec.X,
		Y:      rec.Y,
		Rot:    rec.Rot,
		State:  rec.State,
		BaseId: rec.BaseId,
		Base:   base,
	}
}

func (m *RoomItemManager) floorRecord(item *RoomItem) *ItemRecord {
	return &ItemRecord{
		RoomId: m.room.Id,
		BaseId: item.BaseId,
		X:      item.X,
		Y:      item.Y,
		Z:      item.Z,
		Rot:    item.Rot,
		State:  item.State,
	}
}

func (m *RoomItemManager) wallRecord(item *WallItem) *ItemRecord {
	return &ItemRecord{
		RoomId: m.room.Id,
		BaseId: item.BaseId,
		Wall:   true,
		X:      item.X,
		Y:      item.Y,
		Rot:    item.Rot,
		State:  item.State,
	}
}

func (m *RoomItemManager) persistSave(id int, rec *ItemRecord) persistFn {
	return func() {
		if err := m.room.itemStore.Save(id, rec); err != nil {
			slog.Warn("persisting item", "item", id, "room", m.room.Id, "error", err)
		}
	}
}

func (m *RoomItemManager) persistUpdate(id int, rec *ItemRecord) persistFn {
	return func() {
		if err := m.room.itemStore.Update(id, rec); err != nil {
			slog.Warn("updating item", "item", id, "room", m.room.Id, "error", err)
		}
	}
}

func (m *RoomItemManager) persistDelete(id int) persistFn {
	return func() {
		if err := m.room.itemStore.Delete(id); err != nil {
			slog.Warn("deleting item", "item", id, "room", m.room.Id, "error", err)
		}
	}
}

func run(persists ...persistFn) {
	for _, p := range persists {
		if p != nil {
			p()
		}
	}
}
