package intents

// SubjectIntents is the subject the session layer publishes decoded
// intents on.
const SubjectIntents = "intents"

// Opcodes for decoded client intents. Wire framing and byte-level decoding
// belong to the session layer; by the time an intent reaches this package
// it is already structured.
const (
	OpEnterRoom        = "enter_room"
	OpRequestHeightMap = "request_height_map"
	OpRequestRoomData  = "request_room_data"
	OpCreateRoom       = "create_room"
	OpLeaveRoom        = "leave_room"
	OpPlaceItem        = "place_item"
	OpMoveItem         = "move_item"
	OpPickUpItem       = "pick_up_item"
	OpPickUpAll        = "pick_up_all"
	OpRemoveItem       = "remove_item"
	OpInteract         = "interact"
	OpChat             = "chat"
	OpWave             = "wave"
	OpPurchase         = "purchase"
)

// Intent is one decoded client message. Session identifies the acting
// user; the remaining fields are opcode-specific.
type Intent struct {
	Opcode  string `json:"opcode"`
	Session string `json:"session"`

	RoomId   int    `json:"room_id,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
	ModelId  string `json:"model_id,omitempty"`

	ItemId int `json:"item_id,omitempty"`
	X      int `json:"x,omitempty"`
	Y      int `json:"y,omitempty"`
	Rot    int `json:"rotation,omitempty"`

	Message string `json:"message,omitempty"`

	PageId string `json:"page_id,omitempty"`
	BaseId string `json:"base_id,omitempty"`
	Amount int    `json:"amount,omitempty"`
}
