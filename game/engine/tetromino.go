package engine

import "sort"

// tetrominoShapes holds the seven standard shapes as cell offsets from the
// anchor position, one offset list per rotation step of 90 degrees clockwise.
var tetrominoShapes = map[string][][]Coord{
	"I": {
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	},
	"O": {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	"T": {
		{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	"S": {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	"Z": {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	"J": {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	"L": {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {0, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

// ShapeNames returns the shape identifiers in stable order.
func ShapeNames() []string {
	names := make([]string, 0, len(tetrominoShapes))
	for name := range tetrominoShapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TetrominoCells resolves a shape, rotation, and anchor position into the
// absolute cells the piece would occupy. Rotation counts quarter turns and
// wraps around the shape's rotation period.
func TetrominoCells(shape string, rotation int, pos Coord) ([]Coord, error) {
	rotations, ok := tetrominoShapes[shape]
	if !ok {
		return nil, ErrUnknownShape
	}
	r := rotation % len(rotations)
	if r < 0 {
		r += len(rotations)
	}
	offsets := rotations[r]

	cells := make([]Coord, len(offsets))
	for i, off := range offsets {
		cells[i] = Coord{X: pos.X + off.X, Y: pos.Y + off.Y}
	}
	return cells, nil
}

// tetrominoResolution is the committed or rejected result of a fall.
type tetrominoResolution struct {
	outcome TetrominoOutcome
	cells   []Coord
	reject  error
}

// resolveTetromino runs the falling state machine for a spawned tetromino
// against the current board:
//
//   - While z > 1 the piece falls freely with no board interaction.
//   - At z == 1, overlap with any attached cell, regardless of owner,
//     destroys the piece. Exploding is a committed outcome, not an error.
//   - At z == 0 the placement attaches iff all target cells are empty and in
//     bounds, the set touches an existing cell (4-adjacency), and a path of
//     own/bridge cells connects it to the owner's king. Otherwise the request
//     is rejected with the single most specific reason and nothing mutates.
func resolveTetromino(board *Board, owner string, cells []Coord, kingPos Coord) tetrominoResolution {
	// z == 1: overlap check from above.
	for _, c := range cells {
		if board.Occupied(c) {
			return tetrominoResolution{outcome: OutcomeExploded}
		}
	}

	// z == 0: placement legality, most specific reason first.
	for _, c := range cells {
		if !board.InBounds(c) {
			return tetrominoResolution{reject: ErrOutOfBounds}
		}
	}
	if !IsAdjacentToOccupied(board, cells) {
		return tetrominoResolution{reject: ErrNoAdjacency}
	}
	if !HasPathToKing(board, owner, cells, kingPos) {
		return tetrominoResolution{reject: ErrNoPathToKing}
	}

	return tetrominoResolution{outcome: OutcomeAttached, cells: cells}
}
