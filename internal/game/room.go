package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pixil98/go-hotel/internal/protocol"
	"github.com/pixil98/go-hotel/internal/storage"
)

// Room is one furnished space hosting zero or more users. It aggregates the
// shared floor-plan model, the furniture set, and the occupancy set under a
// single mutual-exclusion domain, so a mutation and its broadcast are
// atomic with respect to other mutations in the same room. Independent
// rooms never serialize against each other.
type Room struct {
	Id int

	mu    sync.Mutex
	data  *RoomData
	model *RoomModel

	gameMap *GameMap
	items   *RoomItemManager
	users   *RoomUserManager

	pub       Publisher
	itemStore storage.Recorder[*ItemRecord]
}

func NewRoom(id int, data *RoomData, model *RoomModel, pub Publisher, itemStore storage.Recorder[*ItemRecord]) *Room {
	r := &Room{
		Id:        id,
		data:      data,
		model:     model,
		pub:       pub,
		itemStore: itemStore,
	}
	r.gameMap = newGameMap(model)
	r.items = newRoomItemManager(r)
	r.users = newRoomUserManager(r)
	return r
}

// Data returns a copy of the room's metadata snapshot.
func (r *Room) Data() RoomData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.data
}

// Model returns the shared, immutable floor plan.
func (r *Room) Model() *RoomModel {
	return r.model
}

// Items returns the room's furniture manager.
func (r *Room) Items() *RoomItemManager {
	return r.items
}

// AddUser grants the user occupancy and announces the arrival.
func (r *Room) AddUser(u *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users.addUser(u)
}

// RemoveUser revokes occupancy; a no-op for users not present.
func (r *Room) RemoveUser(u *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users.removeUser(u)
}

// UserCount returns the current occupancy.
func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users.count()
}

// Users returns a snapshot of the current occupants.
func (r *Room) Users() []*RoomUser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users.snapshot()
}

// Chat relays a user's message to everyone present, including the sender.
func (r *Room) Chat(u *User, message string) {
	if message == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ru := r.users.get(u)
	if ru == nil {
		return
	}
	r.broadcast(protocol.Chat{VirtualId: ru.VirtualId, Message: message})
}

// Wave starts the user's transient wave status.
func (r *Room) Wave(u *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users.wave(u)
}

// Interact triggers furniture behavior for a present user. Users not in
// the room cannot interact.
func (r *Room) Interact(u *User, itemId int) {
	r.mu.Lock()
	var persist persistFn
	if r.users.get(u) != nil {
		persist = r.items.interact(itemId)
	}
	r.mu.Unlock()
	run(persist)
}

// OnCycle runs one tick of room upkeep.
func (r *Room) OnCycle(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users.onCycle()
}

// broadcast fans a composite out to every user present. Callers hold the
// room lock, which is what makes mutation and broadcast atomic per
// operation. Delivery failures are logged and skipped; a dead session is
// cleaned up by its own disconnect teardown.
func (r *Room) broadcast(c protocol.Composer) {
	data, err := protocol.Marshal(c)
	if err != nil {
		slog.Error("marshalling composite", "type", c.MessageType(), "room", r.Id, "error", err)
		return
	}
	for _, ru := range r.users.users {
		if err := r.pub.PublishToUser(ru.User.SessionId, data); err != nil {
			slog.Warn("broadcasting to user", "user", ru.User.Username, "room", r.Id, "error", err)
		}
	}
}

// sendTo delivers a composite to a single user, present or not.
func (r *Room) sendTo(u *User, c protocol.Composer) {
	data, err := protocol.Marshal(c)
	if err != nil {
		slog.Error("marshalling composite", "type", c.MessageType(), "room", r.Id, "error", err)
		return
	}
	if err := r.pub.PublishToUser(u.SessionId, data); err != nil {
		slog.Warn("sending to user", "user", u.Username, "room", r.Id, "error", err)
	}
}
