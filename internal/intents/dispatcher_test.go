package intents

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pixil98/go-hotel/internal/catalogue"
	"github.com/pixil98/go-hotel/internal/game"
	"github.com/pixil98/go-hotel/internal/storage"
	"github.com/pixil98/go-testutil"
)

type nopPublisher struct{}

func (nopPublisher) PublishToUser(string, []byte) error { return nil }

type fakeStorer[T storage.ValidatingSpec] struct {
	records map[string]T
}

func (s *fakeStorer[T]) Save(id string, o T) error { s.records[id] = o; return nil }
func (s *fakeStorer[T]) Get(id string) T           { return s.records[id] }
func (s *fakeStorer[T]) GetAll() map[string]T      { return s.records }

type fakeRecorder[T storage.ValidatingSpec] struct {
	records map[int]T
	nextId  int
}

func newFakeRecorder[T storage.ValidatingSpec]() *fakeRecorder[T] {
	return &fakeRecorder[T]{records: map[int]T{}, nextId: 1}
}

func (r *fakeRecorder[T]) Insert(o T) (int, error) {
	id := r.nextId
	r.nextId++
	r.records[id] = o
	return id, nil
}

func (r *fakeRecorder[T]) Save(id int, o T) error {
	r.records[id] = o
	if id >= r.nextId {
		r.nextId = id + 1
	}
	return nil
}

func (r *fakeRecorder[T]) Update(id int, o T) error { r.records[id] = o; return nil }
func (r *fakeRecorder[T]) Delete(id int) error      { delete(r.records, id); return nil }
func (r *fakeRecorder[T]) Get(id int) T             { return r.records[id] }
func (r *fakeRecorder[T]) GetAll() map[int]T        { return r.records }

type dispatcherFixture struct {
	dispatcher *Dispatcher
	users      *game.UserManager
	rooms      *game.RoomManager
	roomId     int
	tableBase  *game.BaseItem
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	table := &game.BaseItem{Name: "table", Type: game.ItemTypeFloor, Directions: []int{0, 2}}

	models := &fakeStorer[*game.RoomModel]{records: map[string]*game.RoomModel{
		"model-a": {DoorX: 0, DoorY: 0, DoorDir: 2, Heightmap: "00\n00"},
	}}
	bases := &fakeStorer[*game.BaseItem]{records: map[string]*game.BaseItem{
		"table": table,
	}}
	pages := &fakeStorer[*catalogue.Page]{records: map[string]*catalogue.Page{
		"furniture": {Name: "Furniture", Items: []catalogue.PageItem{{BaseId: "table", Price: 10}}},
	}}

	roomStore := newFakeRecorder[*game.RoomData]()
	itemStore := newFakeRecorder[*game.ItemRecord]()

	data := &game.RoomData{
		Name:     "lobby",
		Owner:    "alice",
		Capacity: 10,
		Model:    storage.NewSmartIdentifier[*game.RoomModel]("model-a"),
		LockType: game.LockOpen,
	}
	roomId, err := roomStore.Insert(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rooms := game.NewRoomManager(models, bases, roomStore, itemStore, nopPublisher{})
	if err := rooms.LoadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users := game.NewUserManager(rooms, itemStore, bases)
	cat := catalogue.NewCatalogue(pages, bases, itemStore)

	return &dispatcherFixture{
		dispatcher: NewDispatcher(nil, users, rooms, cat),
		users:      users,
		rooms:      rooms,
		roomId:     roomId,
		tableBase:  table,
	}
}

func (f *dispatcherFixture) send(t *testing.T, in Intent) {
	t.Helper()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.dispatcher.Handle(context.Background(), data)
}

func TestDispatcher_Handle_Malformed(t *testing.T) {
	f := newDispatcherFixture(t)

	f.dispatcher.Handle(context.Background(), []byte(`{not json`))
}

func TestDispatcher_Handle_UnknownSession(t *testing.T) {
	f := newDispatcherFixture(t)

	f.send(t, Intent{Opcode: OpEnterRoom, Session: "nope", RoomId: f.roomId})

	testutil.AssertEqual(t, "occupancy", f.rooms.LoadedRoom(f.roomId).UserCount(), 0)
}

func TestDispatcher_EntryHandshake(t *testing.T) {
	f := newDispatcherFixture(t)
	user, err := f.users.Connect("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.send(t, Intent{Opcode: OpEnterRoom, Session: user.SessionId, RoomId: f.roomId})
	testutil.AssertEqual(t, "phase", user.Phase(), game.PhaseLoadingModel)

	f.send(t, Intent{Opcode: OpRequestHeightMap, Session: user.SessionId})
	testutil.AssertEqual(t, "phase", user.Phase(), game.PhaseLoadingData)

	f.send(t, Intent{Opcode: OpRequestRoomData, Session: user.SessionId})
	testutil.AssertEqual(t, "phase", user.Phase(), game.PhaseInRoom)
	testutil.AssertEqual(t, "room", user.CurrentRoom().Id, f.roomId)

	f.send(t, Intent{Opcode: OpLeaveRoom, Session: user.SessionId})
	testutil.AssertEqual(t, "phase after leave", user.Phase(), game.PhaseNotInRoom)
}

func TestDispatcher_InRoomOps(t *testing.T) {
	f := newDispatcherFixture(t)
	user, err := f.users.Connect("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.send(t, Intent{Opcode: OpEnterRoom, Session: user.SessionId, RoomId: f.roomId})
	f.send(t, Intent{Opcode: OpRequestHeightMap, Session: user.SessionId})
	f.send(t, Intent{Opcode: OpRequestRoomData, Session: user.SessionId})

	room := user.CurrentRoom()
	if room == nil {
		t.Fatal("expected user to be in a room")
	}

	user.Inventory.Add(&game.UserItem{Id: 7, BaseId: "table", Base: f.tableBase})
	f.send(t, Intent{Opcode: OpPlaceItem, Session: user.SessionId, ItemId: 7, X: 1, Y: 1})
	if room.Items().Item(7) == nil {
		t.Fatal("expected item to be placed")
	}

	f.send(t, Intent{Opcode: OpMoveItem, Session: user.SessionId, ItemId: 7, X: 0, Y: 1, Rot: 2})
	moved := room.Items().Item(7).(*game.RoomItem)
	testutil.AssertEqual(t, "moved x", moved.X, 0)
	testutil.AssertEqual(t, "moved rotation", moved.Rot, 2)

	f.send(t, Intent{Opcode: OpPickUpItem, Session: user.SessionId, ItemId: 7})
	if room.Items().Item(7) != nil {
		t.Error("expected item to be picked up")
	}
	testutil.AssertEqual(t, "held", user.Inventory.Contains(7), true)
}

func TestDispatcher_InRoomOps_Roomless(t *testing.T) {
	f := newDispatcherFixture(t)
	user, err := f.users.Connect("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user.Inventory.Add(&game.UserItem{Id: 7, BaseId: "table", Base: f.tableBase})
	f.send(t, Intent{Opcode: OpPlaceItem, Session: user.SessionId, ItemId: 7, X: 1, Y: 1})

	testutil.AssertEqual(t, "still held", user.Inventory.Contains(7), true)
	if f.rooms.LoadedRoom(f.roomId).Items().Item(7) != nil {
		t.Error("expected no item to be placed")
	}
}

func TestDispatcher_Purchase(t *testing.T) {
	f := newDispatcherFixture(t)
	user, err := f.users.Connect("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.send(t, Intent{Opcode: OpPurchase, Session: user.SessionId, PageId: "furniture", BaseId: "table", Amount: 2})

	testutil.AssertEqual(t, "inventory size", user.Inventory.Size(), 2)
}

func TestDispatcher_UnknownOpcode(t *testing.T) {
	f := newDispatcherFixture(t)
	user, err := f.users.Connect("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.send(t, Intent{Opcode: "teleport", Session: user.SessionId})
}
