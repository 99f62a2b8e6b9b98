package game

import (
	"sync"

	"github.com/google/uuid"
)

// LoadPhase tracks a user's progress through the room-entry handshake.
// Messages arriving in the wrong phase are dropped, not acted on.
type LoadPhase int

const (
	PhaseNotInRoom LoadPhase = iota
	PhaseLoadingModel
	PhaseLoadingData
	PhaseInRoom
)

func (p LoadPhase) String() string {
	switch p {
	case PhaseNotInRoom:
		return "not_in_room"
	case PhaseLoadingModel:
		return "loading_model"
	case PhaseLoadingData:
		return "loading_data"
	case PhaseInRoom:
		return "in_room"
	default:
		return "unknown"
	}
}

// User is a connected account. It exists from session establishment until
// disconnect; room presence is tracked separately by each room's occupancy.
type User struct {
	Username  string
	SessionId string
	Inventory *Inventory

	mu            sync.Mutex
	phase         LoadPhase
	loadingRoomId int
	room          *Room
}

// NewUser creates a connected user with a fresh session id.
func NewUser(username string) *User {
	return &User{
		Username:  username,
		SessionId: uuid.NewString(),
		Inventory: NewInventory(),
	}
}

// Phase returns the user's current handshake phase.
func (u *User) Phase() LoadPhase {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.phase
}

// CurrentRoom returns the room the user is present in, or nil.
func (u *User) CurrentRoom() *Room {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.room
}

// beginRoomLoad moves the user into LoadingModel for the given room.
func (u *User) beginRoomLoad(roomId int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.phase = PhaseLoadingModel
	u.loadingRoomId = roomId
}

// requestHeightMap advances LoadingModel to LoadingData. It reports the
// room being loaded and whether the transition was legal.
func (u *User) requestHeightMap() (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.phase != PhaseLoadingModel {
		return 0, false
	}
	u.phase = PhaseLoadingData
	return u.loadingRoomId, true
}

// requestRoomData checks the LoadingData -> InRoom transition. The phase is
// only committed by enterRoom once the room has accepted the user.
func (u *User) requestRoomData() (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.phase != PhaseLoadingData {
		return 0, false
	}
	return u.loadingRoomId, true
}

// enterRoom commits the InRoom phase after occupancy has been granted.
func (u *User) enterRoom(r *Room) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.phase = PhaseInRoom
	u.loadingRoomId = 0
	u.room = r
}

// leaveRoom clears room membership and resets the handshake, regardless of
// which phase the user was in. Used both for room switches and disconnects.
func (u *User) leaveRoom() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.phase = PhaseNotInRoom
	u.loadingRoomId = 0
	u.room = nil
}
