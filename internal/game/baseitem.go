package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

const (
	ItemTypeFloor = "floor"
	ItemTypeWall  = "wall"
)

// Interaction kinds form a closed set; furniture behavior is dispatched
// over this table rather than per-item subtypes.
const (
	InteractionNone   = "none"
	InteractionToggle = "toggle"
	InteractionSeat   = "seat"
)

// BaseItem is the shared catalog definition of a furniture type. Instances
// are loaded once from the asset store and referenced read-only by every
// item of that type.
type BaseItem struct {
	// key is the catalog asset id, bound once after the catalog loads.
	key string

	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Directions  []int   `json:"directions"`
	States      int     `json:"states,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Stackable   bool    `json:"stackable,omitempty"`
	Walkable    bool    `json:"walkable,omitempty"`
	Interaction string  `json:"interaction,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (b *BaseItem) Validate() error {
	el := errors.NewErrorList()

	if b.Name == "" {
		el.Add(fmt.Errorf("base item name is required"))
	}

	switch b.Type {
	case ItemTypeFloor, ItemTypeWall:
	case "":
		el.Add(fmt.Errorf("type is required (must be %s or %s)", ItemTypeFloor, ItemTypeWall))
	default:
		el.Add(fmt.Errorf("invalid type: %s (must be %s or %s)", b.Type, ItemTypeFloor, ItemTypeWall))
	}

	if len(b.Directions) == 0 {
		el.Add(fmt.Errorf("at least one legal direction is required"))
	}
	for _, d := range b.Directions {
		if d < 0 || d > 7 {
			el.Add(fmt.Errorf("invalid direction: %d", d))
		}
	}

	if b.States < 0 {
		el.Add(fmt.Errorf("states must not be negative"))
	}
	if b.Height < 0 {
		el.Add(fmt.Errorf("height must not be negative"))
	}

	switch b.Interaction {
	case "", InteractionNone, InteractionToggle, InteractionSeat:
	default:
		el.Add(fmt.Errorf("unknown interaction: %s", b.Interaction))
	}

	return el.Err()
}

// Key returns the catalog asset id.
func (b *BaseItem) Key() string {
	return b.key
}

// BindKey records the catalog asset id on the definition. Called once per
// entry when the catalog loads.
func (b *BaseItem) BindKey(key string) {
	b.key = key
}

// AllowsRotation reports whether rot is in the legal-rotation set.
func (b *BaseItem) AllowsRotation(rot int) bool {
	for _, d := range b.Directions {
		if d == rot {
			return true
		}
	}
	return false
}

// IsWall reports whether items of this type mount on walls.
func (b *BaseItem) IsWall() bool {
	return b.Type == ItemTypeWall
}

// StateCount returns the toggle cycle length, at least 1.
func (b *BaseItem) StateCount() int {
	if b.States < 1 {
		return 1
	}
	return b.States
}
