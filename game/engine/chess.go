package engine

// Chess legality on the shared board differs from the classic game in one
// structural way: there is no fixed 8x8 boundary. A piece may only stand on
// an occupied board cell, sliding pieces stop at the first missing cell
// (holes block like walls), and knights jump holes but must land on a cell.
// There is no check rule; losing the king simply eliminates the player.

var (
	orthogonalDirs = []Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []Coord{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJumps    = []Coord{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

// pieceIndex is occupancy by coordinate, built by the engine before move
// computation.
type pieceIndex map[Coord]*Piece

// LegalMoves computes every destination the piece may move to given current
// board topology and piece occupancy. Destinations holding protected pieces
// (owner under an active pause) are excluded.
func LegalMoves(board *Board, pieces pieceIndex, piece *Piece, protected func(owner string) bool) []Coord {
	canLand := func(c Coord) (ok, capture bool) {
		if !board.Occupied(c) {
			return false, false
		}
		occupant, taken := pieces[c]
		if !taken {
			return true, false
		}
		if occupant.Owner == piece.Owner || protected(occupant.Owner) {
			return false, false
		}
		return true, true
	}

	var moves []Coord

	slide := func(dirs []Coord) {
		for _, d := range dirs {
			c := Coord{X: piece.Pos.X + d.X, Y: piece.Pos.Y + d.Y}
			for board.Occupied(c) {
				if occupant, taken := pieces[c]; taken {
					if occupant.Owner != piece.Owner && !protected(occupant.Owner) {
						moves = append(moves, c)
					}
					break
				}
				moves = append(moves, c)
				c = Coord{X: c.X + d.X, Y: c.Y + d.Y}
			}
		}
	}

	step := func(dirs []Coord) {
		for _, d := range dirs {
			c := Coord{X: piece.Pos.X + d.X, Y: piece.Pos.Y + d.Y}
			if ok, _ := canLand(c); ok {
				moves = append(moves, c)
			}
		}
	}

	switch piece.Type {
	case Rook:
		slide(orthogonalDirs)
	case Bishop:
		slide(diagonalDirs)
	case Queen:
		slide(orthogonalDirs)
		slide(diagonalDirs)
	case King:
		step(orthogonalDirs)
		step(diagonalDirs)
	case Knight:
		for _, d := range knightJumps {
			c := Coord{X: piece.Pos.X + d.X, Y: piece.Pos.Y + d.Y}
			if ok, _ := canLand(c); ok {
				moves = append(moves, c)
			}
		}
	case Pawn:
		// No single forward direction exists on a shared multi-player board:
		// pawns step one cell orthogonally onto empty cells and capture one
		// cell diagonally.
		for _, d := range orthogonalDirs {
			c := Coord{X: piece.Pos.X + d.X, Y: piece.Pos.Y + d.Y}
			if _, taken := pieces[c]; !taken && board.Occupied(c) {
				moves = append(moves, c)
			}
		}
		for _, d := range diagonalDirs {
			c := Coord{X: piece.Pos.X + d.X, Y: piece.Pos.Y + d.Y}
			if ok, capture := canLand(c); ok && capture {
				moves = append(moves, c)
			}
		}
	}

	return moves
}

// moveIsLegal reports whether target appears in the piece's legal move set.
func moveIsLegal(board *Board, pieces pieceIndex, piece *Piece, target Coord, protected func(owner string) bool) bool {
	for _, m := range LegalMoves(board, pieces, piece, protected) {
		if m == target {
			return true
		}
	}
	return false
}

// promotableTypes are the piece kinds a pawn may promote to.
var promotableTypes = map[PieceType]bool{
	Rook:   true,
	Knight: true,
	Bishop: true,
	Queen:  true,
}

// DefaultPromotionType is applied when the promotion grace window lapses
// without an explicit choice, so an absent client cannot stall its turns.
const DefaultPromotionType = Queen
