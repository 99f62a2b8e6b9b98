package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-hotel/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	LockOpen       = "open"
	LockPassword   = "password"
	LockInviteOnly = "invite"
)

const DefaultRoomCapacity = 25

// RoomData is a room's persisted metadata. Its identity is assigned by the
// record store on creation and never changes afterwards.
type RoomData struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity"`
	// PasswordHash is a bcrypt hash; empty unless LockType is "password".
	PasswordHash string                              `json:"password_hash,omitempty"`
	Model        storage.SmartIdentifier[*RoomModel] `json:"model_id"`
	LockType     string                              `json:"lock_type"`
}

// Validate satisfies storage.ValidatingSpec.
func (d *RoomData) Validate() error {
	el := errors.NewErrorList()

	if d.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	el.Add(d.Model.Validate())

	if d.Capacity <= 0 {
		el.Add(fmt.Errorf("capacity must be positive"))
	}

	switch d.LockType {
	case LockOpen, LockPassword, LockInviteOnly:
	case "":
		el.Add(fmt.Errorf("lock_type is required (must be %s, %s, or %s)",
			LockOpen, LockPassword, LockInviteOnly))
	default:
		el.Add(fmt.Errorf("invalid lock_type: %s (must be %s, %s, or %s)",
			d.LockType, LockOpen, LockPassword, LockInviteOnly))
	}

	if d.LockType == LockPassword && d.PasswordHash == "" {
		el.Add(fmt.Errorf("password_hash is required for lock_type %s", LockPassword))
	}

	return el.Err()
}

// SetPassword hashes and stores the entry password.
func (d *RoomData) SetPassword(password string) error {
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	d.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password opens this room. Rooms without a
// password lock accept anything.
func (d *RoomData) CheckPassword(password string) bool {
	if d.LockType != LockPassword {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) == nil
}
