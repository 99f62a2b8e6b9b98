package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pixil98/go-errors"
)

// RoomModel is the immutable floor plan a room is built on. One instance is
// shared by every loaded room referencing the same model id; nothing mutates
// it after load, so concurrent readers need no synchronization.
type RoomModel struct {
	DoorX   int `json:"door_x"`
	DoorY   int `json:"door_y"`
	DoorZ   int `json:"door_z"`
	DoorDir int `json:"door_dir"`
	// Heightmap holds one row per line; digits are walkable heights, any
	// other rune marks a blocked tile.
	Heightmap string `json:"heightmap"`

	once sync.Once
	grid [][]int
}

// Validate satisfies storage.ValidatingSpec.
func (m *RoomModel) Validate() error {
	el := errors.NewErrorList()

	rows := m.rows()
	if len(rows) == 0 {
		el.Add(fmt.Errorf("heightmap is required"))
	}
	for i, row := range rows {
		if len(row) == 0 {
			el.Add(fmt.Errorf("heightmap row %d is empty", i))
		} else if len(row) != len(rows[0]) {
			el.Add(fmt.Errorf("heightmap row %d has width %d, expected %d", i, len(row), len(rows[0])))
		}
	}

	if m.DoorDir < 0 || m.DoorDir > 7 {
		el.Add(fmt.Errorf("invalid door direction: %d", m.DoorDir))
	}

	if len(rows) > 0 {
		if m.DoorY < 0 || m.DoorY >= len(rows) || m.DoorX < 0 || m.DoorX >= len(rows[0]) {
			el.Add(fmt.Errorf("door (%d,%d) is outside the heightmap", m.DoorX, m.DoorY))
		}
	}

	return el.Err()
}

// SquareHeight returns the walkable height at a tile. The second return is
// false when the tile is outside the grid or blocked.
func (m *RoomModel) SquareHeight(x, y int) (float64, bool) {
	m.once.Do(m.buildGrid)

	if y < 0 || y >= len(m.grid) || x < 0 || x >= len(m.grid[y]) {
		return 0, false
	}
	h := m.grid[y][x]
	if h < 0 {
		return 0, false
	}
	return float64(h), true
}

// Size returns the grid width and height.
func (m *RoomModel) Size() (int, int) {
	m.once.Do(m.buildGrid)

	if len(m.grid) == 0 {
		return 0, 0
	}
	return len(m.grid[0]), len(m.grid)
}

// Rows returns the heightmap rows as sent to clients.
func (m *RoomModel) Rows() []string {
	return m.rows()
}

func (m *RoomModel) rows() []string {
	raw := strings.ReplaceAll(m.Heightmap, "\r\n", "\n")
	var rows []string
	for _, r := range strings.Split(raw, "\n") {
		r = strings.TrimSpace(r)
		if r != "" {
			rows = append(rows, r)
		}
	}
	return rows
}

func (m *RoomModel) buildGrid() {
	rows := m.rows()
	m.grid = make([][]int, len(rows))
	for y, row := range rows {
		m.grid[y] = make([]int, len(row))
		for x, c := range row {
			if c >= '0' && c <= '9' {
				m.grid[y][x] = int(c - '0')
			} else {
				m.grid[y][x] = -1
			}
		}
	}
}
