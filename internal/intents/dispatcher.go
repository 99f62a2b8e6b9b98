package intents

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pixil98/go-hotel/internal/catalogue"
	"github.com/pixil98/go-hotel/internal/game"
	"github.com/pixil98/go-log"
)

// Subscriber provides the ability to subscribe to message subjects
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// Dispatcher routes decoded intents to the room engine. Invalid intents
// (unknown session, unknown opcode, user not in a room) are dropped
// without a reply; the client simply sees no state-change broadcast.
type Dispatcher struct {
	sub       Subscriber
	users     *game.UserManager
	rooms     *game.RoomManager
	catalogue *catalogue.Catalogue
}

func NewDispatcher(sub Subscriber, users *game.UserManager, rooms *game.RoomManager, cat *catalogue.Catalogue) *Dispatcher {
	return &Dispatcher{
		sub:       sub,
		users:     users,
		rooms:     rooms,
		catalogue: cat,
	}
}

// Start subscribes to the intent subject and serves until the context is
// cancelled. The messaging server may still be starting up, so the first
// subscription is retried.
func (d *Dispatcher) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	var unsub func()
	for {
		u, err := d.sub.Subscribe(SubjectIntents, func(data []byte) {
			d.Handle(ctx, data)
		})
		if err == nil {
			unsub = u
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}

	logger.Infof("intent dispatcher listening on %q", SubjectIntents)

	<-ctx.Done()
	unsub()
	return nil
}

// Handle decodes and routes one intent.
func (d *Dispatcher) Handle(ctx context.Context, data []byte) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		slog.Debug("dropping malformed intent", "error", err)
		return
	}

	user := d.users.Lookup(in.Session)
	if user == nil {
		slog.Debug("dropping intent for unknown session", "session", in.Session, "opcode", in.Opcode)
		return
	}

	switch in.Opcode {
	case OpEnterRoom:
		d.rooms.PrepareRoomForUser(user, in.RoomId, in.Password)
	case OpRequestHeightMap:
		d.rooms.PrepareHeightMapForUser(user)
	case OpRequestRoomData:
		d.rooms.FinishRoomLoadingForUser(user)
	case OpCreateRoom:
		d.rooms.CreateRoom(user, in.Name, in.ModelId)
	case OpLeaveRoom:
		d.rooms.LeaveRoom(user)
	case OpPurchase:
		d.catalogue.HandlePurchase(user, in.PageId, in.BaseId, in.Amount)
	default:
		d.handleInRoom(user, &in)
	}
}

// handleInRoom routes intents that only make sense for a present user.
func (d *Dispatcher) handleInRoom(user *game.User, in *Intent) {
	room := user.CurrentRoom()
	if room == nil {
		slog.Debug("dropping in-room intent from roomless user", "user", user.Username, "opcode", in.Opcode)
		return
	}

	switch in.Opcode {
	case OpPlaceItem:
		room.Items().PlaceFromInventory(in.ItemId, in.X, in.Y, in.Rot, user)
	case OpMoveItem:
		room.Items().MoveItem(in.ItemId, in.X, in.Y, in.Rot, user)
	case OpPickUpItem:
		room.Items().PickUp(in.ItemId, user)
	case OpPickUpAll:
		room.Items().PickUpAll(user)
	case OpRemoveItem:
		room.Items().RemoveItem(in.ItemId)
	case OpInteract:
		room.Interact(user, in.ItemId)
	case OpChat:
		room.Chat(user, in.Message)
	case OpWave:
		room.Wave(user)
	default:
		slog.Debug("dropping intent with unknown opcode", "opcode", in.Opcode)
	}
}
