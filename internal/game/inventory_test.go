package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestInventory(t *testing.T) {
	inv := NewInventory()
	base := floorBase("table", 1, true)

	inv.Add(&UserItem{Id: 1, BaseId: "table", Base: base})
	inv.Add(&UserItem{Id: 2, BaseId: "table", Base: base, State: 1})

	testutil.AssertEqual(t, "size", inv.Size(), 2)
	testutil.AssertEqual(t, "contains 1", inv.Contains(1), true)
	testutil.AssertEqual(t, "contains 3", inv.Contains(3), false)

	held := inv.Get(2)
	if held == nil {
		t.Fatal("expected item 2")
	}
	testutil.AssertEqual(t, "state", held.State, 1)

	removed := inv.Remove(1)
	if removed == nil {
		t.Fatal("expected removed item")
	}
	testutil.AssertEqual(t, "removed id", removed.Id, 1)
	testutil.AssertEqual(t, "size after remove", inv.Size(), 1)

	if inv.Remove(1) != nil {
		t.Error("expected double remove to return nil")
	}
	if inv.Get(1) != nil {
		t.Error("expected get of removed item to return nil")
	}
}

func TestInventory_AddReplaces(t *testing.T) {
	inv := NewInventory()
	base := floorBase("table", 1, true)

	inv.Add(&UserItem{Id: 1, BaseId: "table", Base: base, State: 0})
	inv.Add(&UserItem{Id: 1, BaseId: "table", Base: base, State: 2})

	testutil.AssertEqual(t, "size", inv.Size(), 1)
	testutil.AssertEqual(t, "state", inv.Get(1).State, 2)
}

func TestInventory_Items(t *testing.T) {
	inv := NewInventory()
	base := floorBase("table", 1, true)
	inv.Add(&UserItem{Id: 1, BaseId: "table", Base: base})

	items := inv.Items()
	testutil.AssertEqual(t, "snapshot size", len(items), 1)

	// The snapshot is detached from the inventory.
	inv.Remove(1)
	testutil.AssertEqual(t, "snapshot size after remove", len(items), 1)
}
