package game

// GameMap is a room's spatial index: which floor items occupy which tile.
// It refines the shared model's terrain with item stacking, so placement
// height queries see furniture added since load. Callers hold the room lock.
type GameMap struct {
	model *RoomModel
	tiles map[point][]*RoomItem
}

type point struct {
	X, Y int
}

func newGameMap(model *RoomModel) *GameMap {
	return &GameMap{
		model: model,
		tiles: make(map[point][]*RoomItem),
	}
}

func (g *GameMap) addItem(item *RoomItem) {
	p := point{item.X, item.Y}
	g.tiles[p] = append(g.tiles[p], item)
}

func (g *GameMap) removeItem(item *RoomItem) {
	p := point{item.X, item.Y}
	items := g.tiles[p]
	for i, it := range items {
		if it.Id == item.Id {
			g.tiles[p] = append(items[:i], items[i+1:]...)
			break
		}
	}
	if len(g.tiles[p]) == 0 {
		delete(g.tiles, p)
	}
}

func (g *GameMap) itemsAt(x, y int) []*RoomItem {
	return g.tiles[point{x, y}]
}

// AbsoluteHeight returns the placement height at a tile: the model terrain
// height raised by the tallest stackable item there. The second return is
// false when the model tile is blocked or outside the grid.
func (g *GameMap) AbsoluteHeight(x, y int) (float64, bool) {
	return g.heightExcluding(x, y, 0)
}

// heightExcluding is AbsoluteHeight ignoring one item id, so an item being
// moved does not stack on top of itself.
func (g *GameMap) heightExcluding(x, y, excludeId int) (float64, bool) {
	h, ok := g.model.SquareHeight(x, y)
	if !ok {
		return 0, false
	}

	top := h
	for _, it := range g.itemsAt(x, y) {
		if it.Id == excludeId || !it.Base.Stackable {
			continue
		}
		if t := it.TopHeight(); t > top {
			top = t
		}
	}
	return top, true
}

// topItemAt returns the highest item on a tile, or nil.
func (g *GameMap) topItemAt(x, y int) *RoomItem {
	var top *RoomItem
	for _, it := range g.itemsAt(x, y) {
		if top == nil || it.TopHeight() > top.TopHeight() {
			top = it
		}
	}
	return top
}
