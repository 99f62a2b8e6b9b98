package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-hotel/internal/protocol"
	"github.com/pixil98/go-hotel/internal/storage"
)

// HomeRoomId is the sentinel clients send to enter their home room.
const HomeRoomId = -1

// RoomManager is the process-wide registry of loaded rooms and room models.
// Its map is the single source of truth for "is this room loaded": a room
// not in the map is not a valid placement or movement target. The registry
// lock is separate from per-room locks, so creating a room never blocks
// activity inside other rooms.
type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[int]*Room
	models map[string]*RoomModel

	modelStore storage.Storer[*RoomModel]
	baseItems  storage.Storer[*BaseItem]
	roomStore  storage.Recorder[*RoomData]
	itemStore  storage.Recorder[*ItemRecord]
	pub        Publisher
}

func NewRoomManager(
	modelStore storage.Storer[*RoomModel],
	baseItems storage.Storer[*BaseItem],
	roomStore storage.Recorder[*RoomData],
	itemStore storage.Recorder[*ItemRecord],
	pub Publisher,
) *RoomManager {
	return &RoomManager{
		rooms:      make(map[int]*Room),
		models:     make(map[string]*RoomModel),
		modelStore: modelStore,
		baseItems:  baseItems,
		roomStore:  roomStore,
		itemStore:  itemStore,
		pub:        pub,
	}
}

// LoadAll populates the model set and room registry from the backing
// stores. Any inconsistency is fatal: the server must not serve traffic
// with a partially loaded world.
func (m *RoomManager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, model := range m.modelStore.GetAll() {
		m.models[id] = model
	}

	for id, base := range m.baseItems.GetAll() {
		base.BindKey(id)
	}

	for id, data := range m.roomStore.GetAll() {
		if err := data.Model.Resolve(m.modelStore); err != nil {
			return fmt.Errorf("room %d: %w", id, err)
		}
		m.rooms[id] = NewRoom(id, data, data.Model.Get(), m.pub, m.itemStore)
	}

	var placed int
	for id, rec := range m.itemStore.GetAll() {
		if rec.RoomId == 0 {
			// Inventory records are hydrated when their owner connects.
			continue
		}
		room, ok := m.rooms[rec.RoomId]
		if !ok {
			return fmt.Errorf("item %d: room %d not found", id, rec.RoomId)
		}
		base := m.baseItems.Get(rec.BaseId)
		if base == nil {
			return fmt.Errorf("item %d: base item %q not found", id, rec.BaseId)
		}
		if rec.Wall {
			room.items.restoreWallItem(id, rec, base)
		} else {
			room.items.restoreFloorItem(id, rec, base)
		}
		placed++
	}

	slog.InfoContext(ctx, "world loaded",
		"models", len(m.models), "rooms", len(m.rooms), "items", placed)
	return nil
}

// Model returns a loaded room model, or nil.
func (m *RoomManager) Model(modelId string) *RoomModel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.models[modelId]
}

// LoadedRoom returns the loaded room with the given id, or nil when the
// room is not currently resident in memory.
func (m *RoomManager) LoadedRoom(roomId int) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomId]
}

// LoadedRooms returns a snapshot of all loaded rooms.
func (m *RoomManager) LoadedRooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// CreateRoom persists a new room, registers it, and starts the entry
// handshake for its owner. Validation or persistence failures leave no
// trace: no room, no handshake.
func (m *RoomManager) CreateRoom(user *User, name, modelId string) {
	if name == "" {
		slog.Debug("rejecting room creation with empty name", "user", user.Username)
		return
	}
	model := m.Model(modelId)
	if model == nil {
		slog.Debug("rejecting room creation with unknown model", "user", user.Username, "model", modelId)
		return
	}

	data := &RoomData{
		Name:     name,
		Owner:    user.Username,
		Capacity: DefaultRoomCapacity,
		Model:    storage.NewResolvedSmartIdentifier(modelId, model),
		LockType: LockOpen,
	}

	id, err := m.roomStore.Insert(data)
	if err != nil {
		slog.Warn("persisting new room", "user", user.Username, "error", err)
		return
	}

	room := NewRoom(id, data, model, m.pub, m.itemStore)
	m.mu.Lock()
	m.rooms[id] = room
	m.mu.Unlock()

	slog.Info("room created", "room", id, "name", name, "owner", user.Username)
	m.PrepareRoomForUser(user, id, "")
}

// Tick satisfies driver.Manager.
func (m *RoomManager) Tick(ctx context.Context) error {
	m.OnCycle(ctx)
	return nil
}

// OnCycle ticks every loaded room. It iterates a snapshot of the registry:
// rooms created mid-cycle are not visited until the next cycle, and the
// iteration cannot race registry mutation.
func (m *RoomManager) OnCycle(ctx context.Context) {
	for _, room := range m.LoadedRooms() {
		room.OnCycle(ctx)
	}
}

// PrepareRoomForUser starts the entry handshake: the user leaves their
// current room, the target is resolved, and the model-info message is sent.
// When the target cannot be resolved the user falls back to the home room;
// only an empty registry leaves them roomless.
func (m *RoomManager) PrepareRoomForUser(user *User, roomId int, password string) {
	if cur := user.CurrentRoom(); cur != nil {
		cur.RemoveUser(user)
	}
	user.leaveRoom()

	target := m.resolveTarget(roomId)
	if target == nil {
		slog.Debug("no room to enter", "user", user.Username, "room", roomId)
		return
	}

	data := target.Data()
	if !data.CheckPassword(password) {
		slog.Debug("rejected room password", "user", user.Username, "room", target.Id)
		return
	}

	user.beginRoomLoad(target.Id)
	target.sendTo(user, protocol.RoomModelInfo{ModelId: data.Model.Key(), RoomId: target.Id})
}

// resolveTarget maps a requested room id to a loaded room. The sentinel id
// and unknown ids both resolve to the home room: the loaded room with the
// lowest id.
func (m *RoomManager) resolveTarget(roomId int) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if roomId != HomeRoomId {
		if r, ok := m.rooms[roomId]; ok {
			return r
		}
	}

	var home *Room
	for _, r := range m.rooms {
		if home == nil || r.Id < home.Id {
			home = r
		}
	}
	return home
}

// PrepareHeightMapForUser answers the client's height-map request, the
// second handshake phase. Requests outside the LoadingModel phase are
// dropped.
func (m *RoomManager) PrepareHeightMapForUser(user *User) {
	roomId, ok := user.requestHeightMap()
	if !ok {
		slog.Debug("height map request outside handshake",
			"user", user.Username, "phase", user.Phase().String())
		return
	}

	room := m.LoadedRoom(roomId)
	if room == nil {
		// The room vanished between phases; abandon the handshake.
		user.leaveRoom()
		return
	}

	model := room.Model()
	room.sendTo(user, protocol.HeightMap{
		DoorX:   model.DoorX,
		DoorY:   model.DoorY,
		DoorZ:   model.DoorZ,
		DoorDir: model.DoorDir,
		Tiles:   model.Rows(),
	})
}

// FinishRoomLoadingForUser completes the handshake: the user is granted
// occupancy and receives the full room snapshot. Requests outside the
// LoadingData phase are dropped.
func (m *RoomManager) FinishRoomLoadingForUser(user *User) {
	roomId, ok := user.requestRoomData()
	if !ok {
		slog.Debug("room data request outside handshake",
			"user", user.Username, "phase", user.Phase().String())
		return
	}

	room := m.LoadedRoom(roomId)
	if room == nil {
		user.leaveRoom()
		return
	}

	data := room.Data()
	if room.UserCount() >= data.Capacity {
		slog.Debug("room full", "user", user.Username, "room", room.Id)
		user.leaveRoom()
		return
	}

	room.AddUser(user)
	user.enterRoom(room)

	room.sendTo(user, protocol.RoomData{
		Id:          room.Id,
		Name:        data.Name,
		Owner:       data.Owner,
		Description: data.Description,
		Capacity:    data.Capacity,
		ModelId:     data.Model.Key(),
		LockType:    data.LockType,
	})

	for _, it := range room.Items().FloorItems() {
		room.sendTo(user, protocol.FloorItemAdded{
			Id: it.Id, BaseId: it.BaseId, X: it.X, Y: it.Y, Z: it.Z, Rot: it.Rot, State: it.State,
		})
	}
	for _, it := range room.Items().WallItems() {
		room.sendTo(user, protocol.WallItemAdded{
			Id: it.Id, BaseId: it.BaseId, X: it.X, Y: it.Y, Rot: it.Rot, State: it.State,
		})
	}
	for _, ru := range room.Users() {
		if ru.User == user {
			continue
		}
		room.sendTo(user, protocol.UserJoined{
			VirtualId: ru.VirtualId,
			Username:  ru.User.Username,
			X:         ru.X,
			Y:         ru.Y,
			Z:         ru.Z,
			Rot:       ru.Rot,
		})
	}
}

// LeaveRoom removes the user from their current room, or abandons a
// half-finished entry handshake. This is the teardown path for disconnects
// in any phase.
func (m *RoomManager) LeaveRoom(user *User) {
	if cur := user.CurrentRoom(); cur != nil {
		cur.RemoveUser(user)
	}
	user.leaveRoom()
}
