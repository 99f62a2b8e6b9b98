package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pixil98/go-hotel/internal/storage"
)

// UserManager tracks connected users by session id. It is the teardown
// point for disconnects: a dropped connection must release the user's room
// occupancy no matter which handshake phase it was in.
type UserManager struct {
	mu    sync.RWMutex
	users map[string]*User

	rooms     *RoomManager
	itemStore storage.Recorder[*ItemRecord]
	baseItems storage.Storer[*BaseItem]
}

func NewUserManager(rooms *RoomManager, itemStore storage.Recorder[*ItemRecord], baseItems storage.Storer[*BaseItem]) *UserManager {
	return &UserManager{
		users:     make(map[string]*User),
		rooms:     rooms,
		itemStore: itemStore,
		baseItems: baseItems,
	}
}

// Connect registers a new user session and hydrates the user's inventory
// from their persisted item records.
func (m *UserManager) Connect(username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return nil, ErrUserExists
		}
	}

	u := NewUser(username)
	for id, rec := range m.itemStore.GetAll() {
		if rec.Owner != username {
			continue
		}
		base := m.baseItems.Get(rec.BaseId)
		if base == nil {
			slog.Warn("skipping inventory item with unknown base", "item", id, "base", rec.BaseId)
			continue
		}
		u.Inventory.Add(&UserItem{Id: id, BaseId: rec.BaseId, Base: base, State: rec.State})
	}
	m.users[u.SessionId] = u

	slog.Info("user connected", "user", username, "session", u.SessionId)
	return u, nil
}

// Lookup returns the user bound to a session id, or nil.
func (m *UserManager) Lookup(sessionId string) *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[sessionId]
}

// Disconnect tears down a session: the user leaves their room (or abandons
// a half-finished entry handshake) and is deregistered.
func (m *UserManager) Disconnect(u *User) error {
	m.mu.Lock()
	if _, ok := m.users[u.SessionId]; !ok {
		m.mu.Unlock()
		return ErrUserNotFound
	}
	delete(m.users, u.SessionId)
	m.mu.Unlock()

	m.rooms.LeaveRoom(u)

	slog.Info("user disconnected", "user", u.Username, "session", u.SessionId)
	return nil
}

// Start blocks until shutdown, then tears down every remaining session so
// rooms are left with no phantom occupants.
func (m *UserManager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	remaining := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		remaining = append(remaining, u)
	}
	m.mu.Unlock()

	for _, u := range remaining {
		if err := m.Disconnect(u); err != nil {
			slog.Warn("disconnecting user at shutdown", "user", u.Username, "error", err)
		}
	}
	return nil
}

// Count returns the number of connected users.
func (m *UserManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
