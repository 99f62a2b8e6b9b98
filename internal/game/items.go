package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Item is either a resident floor item or wall item. The two kinds share
// one id namespace but live in disjoint storage.
type Item interface {
	ItemId() int
	ItemBase() *BaseItem
	ItemState() int
}

// RoomItem is a furniture item resident on a room's floor grid. Z is always
// derived from the room's terrain at placement time, never client-supplied.
type RoomItem struct {
	Id     int
	X, Y   int
	Z      float64
	Rot    int
	State  int
	BaseId string
	Base   *BaseItem
}

func (i *RoomItem) ItemId() int         { return i.Id }
func (i *RoomItem) ItemBase() *BaseItem { return i.Base }
func (i *RoomItem) ItemState() int      { return i.State }

// TopHeight returns the height of this item's upper surface.
func (i *RoomItem) TopHeight() float64 {
	return i.Z + i.Base.Height
}

// WallItem is a furniture item mounted on a wall. Coordinates are
// wall-relative; wall items never affect terrain height.
type WallItem struct {
	Id     int
	X, Y   int
	Rot    int
	State  int
	BaseId string
	Base   *BaseItem
}

func (w *WallItem) ItemId() int         { return w.Id }
func (w *WallItem) ItemBase() *BaseItem { return w.Base }
func (w *WallItem) ItemState() int      { return w.State }

// ItemRecord is the persisted form of an item. While the item sits in a
// user's inventory Owner is set and RoomId is zero; once placed, RoomId is
// set and Owner cleared.
type ItemRecord struct {
	RoomId int     `json:"room_id,omitempty"`
	Owner  string  `json:"owner,omitempty"`
	BaseId string  `json:"base_id"`
	Wall   bool    `json:"wall,omitempty"`
	X      int     `json:"x,omitempty"`
	Y      int     `json:"y,omitempty"`
	Z      float64 `json:"z,omitempty"`
	Rot    int     `json:"rotation,omitempty"`
	State  int     `json:"state,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (r *ItemRecord) Validate() error {
	el := errors.NewErrorList()

	if r.BaseId == "" {
		el.Add(fmt.Errorf("base_id is required"))
	}
	if r.RoomId == 0 && r.Owner == "" {
		el.Add(fmt.Errorf("item must be in a room or owned by a user"))
	}
	if r.RoomId != 0 && r.Owner != "" {
		el.Add(fmt.Errorf("item cannot be in a room and a user inventory at once"))
	}

	return el.Err()
}
