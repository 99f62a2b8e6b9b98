package game

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestRoomModel_Validate(t *testing.T) {
	tests := map[string]struct {
		model   *RoomModel
		expErrs []string
	}{
		"valid model": {
			model: &RoomModel{
				DoorX:     0,
				DoorY:     0,
				DoorDir:   2,
				Heightmap: "000\n000\n000",
			},
			expErrs: nil,
		},
		"valid model with blocked tiles": {
			model: &RoomModel{
				DoorX:     1,
				DoorY:     0,
				DoorDir:   4,
				Heightmap: "x0x\n000",
			},
			expErrs: nil,
		},
		"missing heightmap": {
			model:   &RoomModel{},
			expErrs: []string{"heightmap is required"},
		},
		"ragged rows": {
			model: &RoomModel{
				Heightmap: "000\n00",
			},
			expErrs: []string{"heightmap row 1 has width 2, expected 3"},
		},
		"door outside grid": {
			model: &RoomModel{
				DoorX:     5,
				DoorY:     0,
				Heightmap: "000\n000",
			},
			expErrs: []string{"door (5,0) is outside the heightmap"},
		},
		"invalid door direction": {
			model: &RoomModel{
				DoorDir:   8,
				Heightmap: "000",
			},
			expErrs: []string{"invalid door direction: 8"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.model.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Errorf("expected errors %v, got nil", tt.expErrs)
				return
			}

			for _, e := range tt.expErrs {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("error %q does not contain %q", err.Error(), e)
				}
			}
		})
	}
}

func TestRoomModel_SquareHeight(t *testing.T) {
	model := testModel("012\nx3x")

	tests := map[string]struct {
		x, y      int
		expHeight float64
		expOk     bool
	}{
		"flat tile":          {x: 0, y: 0, expHeight: 0, expOk: true},
		"raised tile":        {x: 2, y: 0, expHeight: 2, expOk: true},
		"second row":         {x: 1, y: 1, expHeight: 3, expOk: true},
		"blocked tile":       {x: 0, y: 1, expOk: false},
		"negative x":         {x: -1, y: 0, expOk: false},
		"x past grid":        {x: 3, y: 0, expOk: false},
		"y past grid":        {x: 0, y: 2, expOk: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h, ok := model.SquareHeight(tt.x, tt.y)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if tt.expOk {
				testutil.AssertEqual(t, "height", h, tt.expHeight)
			}
		})
	}
}

func TestRoomModel_Size(t *testing.T) {
	model := testModel("0000\n0000\n0000")

	w, h := model.Size()
	testutil.AssertEqual(t, "width", w, 4)
	testutil.AssertEqual(t, "height", h, 3)
}

func TestRoomModel_Rows_NormalizesLineEndings(t *testing.T) {
	model := testModel("00\r\n11\r\n")

	rows := model.Rows()
	testutil.AssertEqual(t, "row count", len(rows), 2)
	testutil.AssertEqual(t, "first row", rows[0], "00")
	testutil.AssertEqual(t, "second row", rows[1], "11")
}
