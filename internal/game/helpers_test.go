package game

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pixil98/go-hotel/internal/storage"
)

// fakePublisher captures every composite delivered per session.
type fakePublisher struct {
	mu   sync.Mutex
	sent map[string][]sentMessage
}

type sentMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{sent: map[string][]sentMessage{}}
}

func (p *fakePublisher) PublishToUser(sessionId string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var msg sentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	p.sent[sessionId] = append(p.sent[sessionId], msg)
	return nil
}

// countByType returns how many messages of the given type a session received.
func (p *fakePublisher) countByType(sessionId, msgType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, msg := range p.sent[sessionId] {
		if msg.Type == msgType {
			count++
		}
	}
	return count
}

// lastOfType unmarshals the most recent message of the given type into out.
func (p *fakePublisher) lastOfType(sessionId, msgType string, out any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := len(p.sent[sessionId]) - 1; i >= 0; i-- {
		if p.sent[sessionId][i].Type == msgType {
			return json.Unmarshal(p.sent[sessionId][i].Payload, out) == nil
		}
	}
	return false
}

// fakeRecorder is an in-memory storage.Recorder that counts calls.
type fakeRecorder[T storage.ValidatingSpec] struct {
	mu      sync.Mutex
	records map[int]T
	nextId  int

	inserts int
	saves   int
	updates int
	deletes int
}

func newFakeRecorder[T storage.ValidatingSpec]() *fakeRecorder[T] {
	return &fakeRecorder[T]{
		records: map[int]T{},
		nextId:  1,
	}
}

func (r *fakeRecorder[T]) Insert(o T) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextId
	r.nextId++
	r.records[id] = o
	r.inserts++
	return id, nil
}

func (r *fakeRecorder[T]) Save(id int, o T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[id] = o
	if id >= r.nextId {
		r.nextId = id + 1
	}
	r.saves++
	return nil
}

func (r *fakeRecorder[T]) Update(id int, o T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("record %d not found", id)
	}
	r.records[id] = o
	r.updates++
	return nil
}

func (r *fakeRecorder[T]) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	r.deletes++
	return nil
}

func (r *fakeRecorder[T]) Get(id int) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}

func (r *fakeRecorder[T]) GetAll() map[int]T {
	r.mu.Lock()
	defer r.mu.Unlock()

	vals := map[int]T{}
	for id, v := range r.records {
		vals[id] = v
	}
	return vals
}

func (r *fakeRecorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// fakeStorer is an in-memory storage.Storer.
type fakeStorer[T storage.ValidatingSpec] struct {
	records map[string]T
}

func newFakeStorer[T storage.ValidatingSpec]() *fakeStorer[T] {
	return &fakeStorer[T]{records: map[string]T{}}
}

func (s *fakeStorer[T]) Save(id string, o T) error {
	s.records[id] = o
	return nil
}

func (s *fakeStorer[T]) Get(id string) T {
	return s.records[id]
}

func (s *fakeStorer[T]) GetAll() map[string]T {
	return s.records
}

// testModel builds a small model with the door at (0,0) facing south.
func testModel(heightmap string) *RoomModel {
	return &RoomModel{
		DoorX:     0,
		DoorY:     0,
		DoorDir:   2,
		Heightmap: heightmap,
	}
}

func testRoomData(name, owner string, model *RoomModel) *RoomData {
	return &RoomData{
		Name:     name,
		Owner:    owner,
		Capacity: DefaultRoomCapacity,
		Model:    storage.NewResolvedSmartIdentifier("model-a", model),
		LockType: LockOpen,
	}
}

// newTestRoom builds a room over the given heightmap with fake collaborators.
func newTestRoom(heightmap string) (*Room, *fakePublisher, *fakeRecorder[*ItemRecord]) {
	model := testModel(heightmap)
	pub := newFakePublisher()
	store := newFakeRecorder[*ItemRecord]()
	room := NewRoom(1, testRoomData("test room", "owner", model), model, pub, store)
	return room, pub, store
}

func floorBase(key string, height float64, stackable bool) *BaseItem {
	b := &BaseItem{
		Name:       key,
		Type:       ItemTypeFloor,
		Directions: []int{0, 2, 4, 6},
		Height:     height,
		Stackable:  stackable,
	}
	b.BindKey(key)
	return b
}

func seatBase(key string, height float64) *BaseItem {
	b := floorBase(key, height, false)
	b.Interaction = InteractionSeat
	return b
}

func toggleBase(key string, states int) *BaseItem {
	b := floorBase(key, 0.5, false)
	b.States = states
	b.Interaction = InteractionToggle
	return b
}

func wallBase(key string) *BaseItem {
	b := &BaseItem{
		Name:       key,
		Type:       ItemTypeWall,
		Directions: []int{0, 1},
	}
	b.BindKey(key)
	return b
}
