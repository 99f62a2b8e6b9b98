package game

import (
	"strconv"

	"github.com/pixil98/go-hotel/internal/protocol"
)

const waveCycles = 2

// RoomUser is a user's transient presence in one room. It is created when
// occupancy is granted and destroyed when the user leaves; nothing about it
// survives the visit.
type RoomUser struct {
	User      *User
	VirtualId int
	X, Y      int
	Z         float64
	Rot       int

	statuses map[string]string
	// expiry counts remaining cycles for transient statuses, keyed the
	// same as statuses.
	expiry map[string]int
	dirty  bool
}

func (ru *RoomUser) setStatus(key, value string) {
	if ru.statuses[key] == value {
		if _, transient := ru.expiry[key]; !transient {
			return
		}
	}
	ru.statuses[key] = value
	ru.dirty = true
}

func (ru *RoomUser) clearStatus(key string) {
	if _, ok := ru.statuses[key]; !ok {
		return
	}
	delete(ru.statuses, key)
	delete(ru.expiry, key)
	ru.dirty = true
}

func (ru *RoomUser) status() protocol.UserStatus {
	statuses := make(map[string]string, len(ru.statuses))
	for k, v := range ru.statuses {
		statuses[k] = v
	}
	return protocol.UserStatus{
		VirtualId: ru.VirtualId,
		X:         ru.X,
		Y:         ru.Y,
		Z:         ru.Z,
		Rot:       ru.Rot,
		Statuses:  statuses,
	}
}

// RoomUserManager owns which users are physically present in its room.
// All methods assume the room lock is held; Room exposes the locked entry
// points.
type RoomUserManager struct {
	room  *Room
	users map[string]*RoomUser

	// nextVirtualId is per room; virtual ids only need to be unique among
	// the room's current occupants.
	nextVirtualId int
}

func newRoomUserManager(room *Room) *RoomUserManager {
	return &RoomUserManager{
		room:  room,
		users: make(map[string]*RoomUser),
	}
}

// addUser grants occupancy at the door tile and announces the arrival.
func (m *RoomUserManager) addUser(u *User) *RoomUser {
	if ru, ok := m.users[u.SessionId]; ok {
		return ru
	}

	model := m.room.model
	m.nextVirtualId++
	ru := &RoomUser{
		User:      u,
		VirtualId: m.nextVirtualId,
		X:         model.DoorX,
		Y:         model.DoorY,
		Z:         float64(model.DoorZ),
		Rot:       model.DoorDir,
		statuses:  make(map[string]string),
		expiry:    make(map[string]int),
	}
	m.users[u.SessionId] = ru

	m.room.broadcast(protocol.UserJoined{
		VirtualId: ru.VirtualId,
		Username:  u.Username,
		X:         ru.X,
		Y:         ru.Y,
		Z:         ru.Z,
		Rot:       ru.Rot,
	})
	m.refreshStatus(ru)
	m.flushStatuses()

	return ru
}

// removeUser revokes occupancy. Unknown users are a no-op.
func (m *RoomUserManager) removeUser(u *User) {
	ru, ok := m.users[u.SessionId]
	if !ok {
		return
	}
	delete(m.users, u.SessionId)
	m.room.broadcast(protocol.UserLeft{VirtualId: ru.VirtualId})
}

func (m *RoomUserManager) get(u *User) *RoomUser {
	return m.users[u.SessionId]
}

func (m *RoomUserManager) count() int {
	return len(m.users)
}

func (m *RoomUserManager) snapshot() []*RoomUser {
	users := make([]*RoomUser, 0, len(m.users))
	for _, ru := range m.users {
		users = append(users, ru)
	}
	return users
}

// updateUserStatuses recomputes every occupant's derived status against the
// current furniture layout. Called after any terrain-affecting mutation.
func (m *RoomUserManager) updateUserStatuses() {
	for _, ru := range m.users {
		m.refreshStatus(ru)
	}
	m.flushStatuses()
}

// refreshStatus derives tile-dependent statuses for one occupant: standing
// on a seat sits the user at the seat's height and rotation.
func (m *RoomUserManager) refreshStatus(ru *RoomUser) {
	seat := m.seatAt(ru.X, ru.Y)
	if seat != nil {
		ru.setStatus("sit", strconv.FormatFloat(seat.Z, 'f', -1, 64))
		if ru.Z != seat.Z || ru.Rot != seat.Rot {
			ru.Z = seat.Z
			ru.Rot = seat.Rot
			ru.dirty = true
		}
		return
	}

	ru.clearStatus("sit")
	if h, ok := m.room.gameMap.AbsoluteHeight(ru.X, ru.Y); ok && ru.Z != h {
		ru.Z = h
		ru.dirty = true
	}
}

func (m *RoomUserManager) seatAt(x, y int) *RoomItem {
	top := m.room.gameMap.topItemAt(x, y)
	if top != nil && top.Base.Interaction == InteractionSeat {
		return top
	}
	return nil
}

// wave starts a transient wave status that onCycle expires.
func (m *RoomUserManager) wave(u *User) {
	ru, ok := m.users[u.SessionId]
	if !ok {
		return
	}
	ru.setStatus("wave", "")
	ru.expiry["wave"] = waveCycles
	m.flushStatuses()
}

// onCycle ages transient statuses and broadcasts any resulting changes.
func (m *RoomUserManager) onCycle() {
	for _, ru := range m.users {
		for key, left := range ru.expiry {
			if left <= 1 {
				ru.clearStatus(key)
			} else {
				ru.expiry[key] = left - 1
			}
		}
	}
	m.flushStatuses()
}

// flushStatuses broadcasts one composite covering every dirty occupant.
func (m *RoomUserManager) flushStatuses() {
	var changed []protocol.UserStatus
	for _, ru := range m.users {
		if ru.dirty {
			changed = append(changed, ru.status())
			ru.dirty = false
		}
	}
	if len(changed) > 0 {
		m.room.broadcast(protocol.UserStatuses{Users: changed})
	}
}
