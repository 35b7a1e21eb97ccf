package engine

import "sort"

// Axis identifies the direction of a cleared run.
type Axis string

const (
	AxisRow          Axis = "row"
	AxisColumn       Axis = "column"
	AxisDiagonalUp   Axis = "diagonal_up"   // x grows, y grows
	AxisDiagonalDown Axis = "diagonal_down" // x grows, y shrinks
)

var axisSteps = map[Axis]Coord{
	AxisRow:          {1, 0},
	AxisColumn:       {0, 1},
	AxisDiagonalUp:   {1, 1},
	AxisDiagonalDown: {1, -1},
}

// ClearGroup is a maximal run of clearable occupied cells along one axis.
type ClearGroup struct {
	Axis  Axis    `json:"axis"`
	Cells []Coord `json:"cells"`
}

// lineClearScan finds every maximal run of at least minLen contiguous
// clearable cells along the four axes. A cell is clearable when it is
// occupied, is not a protected home-zone cell (degradation below the collapse
// threshold), and is not shielded by an active pause. Scanning never mutates
// the board, so a scan after an applied clear reports nothing: clearing is
// idempotent with respect to re-scanning.
func lineClearScan(board *Board, minLen int, clearable func(Coord, Cell) bool) []ClearGroup {
	var groups []ClearGroup

	ok := func(c Coord) bool {
		cell, occupied := board.GetCell(c)
		return occupied && clearable(c, cell)
	}

	board.ForEach(func(c Coord, cell Cell) {
		if !clearable(c, cell) {
			return
		}
		for axis, step := range axisSteps {
			// Only the first cell of a run reports it, so each maximal run
			// appears exactly once.
			prev := Coord{X: c.X - step.X, Y: c.Y - step.Y}
			if ok(prev) {
				continue
			}

			run := []Coord{c}
			next := Coord{X: c.X + step.X, Y: c.Y + step.Y}
			for ok(next) {
				run = append(run, next)
				next = Coord{X: next.X + step.X, Y: next.Y + step.Y}
			}
			if len(run) >= minLen {
				groups = append(groups, ClearGroup{Axis: axis, Cells: run})
			}
		}
	})

	// Map iteration order is random; stable output keeps events and tests
	// deterministic.
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Axis != b.Axis {
			return a.Axis < b.Axis
		}
		if a.Cells[0].Y != b.Cells[0].Y {
			return a.Cells[0].Y < b.Cells[0].Y
		}
		return a.Cells[0].X < b.Cells[0].X
	})
	return groups
}

// clearedCellSet unions the cells of all groups so that overlapping groups
// (a row and a diagonal sharing a cell) are applied in one pass without
// double-counting.
func clearedCellSet(groups []ClearGroup) map[Coord]bool {
	set := make(map[Coord]bool)
	for _, g := range groups {
		for _, c := range g.Cells {
			set[c] = true
		}
	}
	return set
}
