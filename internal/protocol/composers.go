// Package protocol defines the payloads of outgoing state-change messages.
// Wire framing is owned by the session layer; this package only produces
// the json envelope each composite is delivered in.
package protocol

import "encoding/json"

// Composer is implemented by every outgoing message payload.
type Composer interface {
	MessageType() string
}

type envelope struct {
	Type    string   `json:"type"`
	Payload Composer `json:"payload"`
}

// Marshal wraps a composite in its typed envelope.
func Marshal(c Composer) ([]byte, error) {
	return json.Marshal(envelope{Type: c.MessageType(), Payload: c})
}

// RoomModelInfo starts the room-entry handshake on the client.
type RoomModelInfo struct {
	ModelId string `json:"model_id"`
	RoomId  int    `json:"room_id"`
}

func (RoomModelInfo) MessageType() string { return "room_model_info" }

// HeightMap carries the floor plan of the room being entered. Tiles holds
// one row per string; digits are heights, any other rune is blocked.
type HeightMap struct {
	DoorX   int      `json:"door_x"`
	DoorY   int      `json:"door_y"`
	DoorZ   int      `json:"door_z"`
	DoorDir int      `json:"door_dir"`
	Tiles   []string `json:"tiles"`
}

func (HeightMap) MessageType() string { return "height_map" }

// RoomData is the full room metadata snapshot sent when entry completes.
type RoomData struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	ModelId     string `json:"model_id"`
	LockType    string `json:"lock_type"`
}

func (RoomData) MessageType() string { return "room_data" }

type FloorItemAdded struct {
	Id     int     `json:"id"`
	BaseId string  `json:"base_id"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Z      float64 `json:"z"`
	Rot    int     `json:"rotation"`
	State  int     `json:"state"`
}

func (FloorItemAdded) MessageType() string { return "floor_item_added" }

type WallItemAdded struct {
	Id     int    `json:"id"`
	BaseId string `json:"base_id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Rot    int    `json:"rotation"`
	State  int    `json:"state"`
}

func (WallItemAdded) MessageType() string { return "wall_item_added" }

type FurnitureRemoved struct {
	Id int `json:"id"`
}

func (FurnitureRemoved) MessageType() string { return "furniture_removed" }

// ItemState announces a toggled item variant.
type ItemState struct {
	Id    int `json:"id"`
	State int `json:"state"`
}

func (ItemState) MessageType() string { return "item_state" }

type UserJoined struct {
	VirtualId int     `json:"virtual_id"`
	Username  string  `json:"username"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Z         float64 `json:"z"`
	Rot       int     `json:"rotation"`
}

func (UserJoined) MessageType() string { return "user_joined" }

type UserLeft struct {
	VirtualId int `json:"virtual_id"`
}

func (UserLeft) MessageType() string { return "user_left" }

// UserStatus is one user's derived status set (sitting, waving, ...).
type UserStatus struct {
	VirtualId int               `json:"virtual_id"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Z         float64           `json:"z"`
	Rot       int               `json:"rotation"`
	Statuses  map[string]string `json:"statuses"`
}

type UserStatuses struct {
	Users []UserStatus `json:"users"`
}

func (UserStatuses) MessageType() string { return "user_statuses" }

type Chat struct {
	VirtualId int    `json:"virtual_id"`
	Message   string `json:"message"`
}

func (Chat) MessageType() string { return "chat" }
