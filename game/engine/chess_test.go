package engine

import (
	"sort"
	"testing"
)

func noneProtected(string) bool { return false }

func chessBoard(cells ...Coord) *Board {
	b := NewBoard(32)
	for _, c := range cells {
		b.SetCell(c, Cell{Owner: "p1", Type: CellNormal})
	}
	return b
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}

func assertMoves(t *testing.T, got, want []Coord) {
	t.Helper()
	sortCoords(got)
	sortCoords(want)
	if len(got) != len(want) {
		t.Fatalf("Expected %d moves %v, got %d moves %v", len(want), want, len(got), got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Move %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLegalMoves_RookStopsAtHoles(t *testing.T) {
	// A 1-wide corridor with a hole at (3,0). The rook slides along it and
	// must stop at the missing cell.
	b := chessBoard(Coord{0, 0}, Coord{1, 0}, Coord{2, 0}, Coord{4, 0})
	rook := &Piece{ID: "r", Type: Rook, Owner: "p1", Pos: Coord{0, 0}}
	pieces := pieceIndex{rook.Pos: rook}

	got := LegalMoves(b, pieces, rook, noneProtected)
	assertMoves(t, got, []Coord{{1, 0}, {2, 0}})
}

func TestLegalMoves_SliderStopsAtCapture(t *testing.T) {
	b := chessBoard(Coord{0, 0}, Coord{1, 0}, Coord{2, 0}, Coord{3, 0})
	rook := &Piece{ID: "r", Type: Rook, Owner: "p1", Pos: Coord{0, 0}}
	enemy := &Piece{ID: "e", Type: Pawn, Owner: "p2", Pos: Coord{2, 0}}
	pieces := pieceIndex{rook.Pos: rook, enemy.Pos: enemy}

	got := LegalMoves(b, pieces, rook, noneProtected)
	assertMoves(t, got, []Coord{{1, 0}, {2, 0}})
}

func TestLegalMoves_SliderBlockedByOwnPiece(t *testing.T) {
	b := chessBoard(Coord{0, 0}, Coord{1, 0}, Coord{2, 0})
	rook := &Piece{ID: "r", Type: Rook, Owner: "p1", Pos: Coord{0, 0}}
	own := &Piece{ID: "o", Type: Pawn, Owner: "p1", Pos: Coord{1, 0}}
	pieces := pieceIndex{rook.Pos: rook, own.Pos: own}

	got := LegalMoves(b, pieces, rook, noneProtected)
	assertMoves(t, got, nil)
}

func TestLegalMoves_KnightJumpsHolesButNeedsLanding(t *testing.T) {
	// Knight at origin with only two of its eight landing squares present.
	// Nothing else on the board, so holes sit between origin and both
	// landings.
	b := chessBoard(Coord{0, 0}, Coord{1, 2}, Coord{-2, -1})
	knight := &Piece{ID: "n", Type: Knight, Owner: "p1", Pos: Coord{0, 0}}
	pieces := pieceIndex{knight.Pos: knight}

	got := LegalMoves(b, pieces, knight, noneProtected)
	assertMoves(t, got, []Coord{{1, 2}, {-2, -1}})
}

func TestLegalMoves_KingStepsOneAnyDirection(t *testing.T) {
	b := chessBoard(
		Coord{0, 0},
		Coord{1, 0}, Coord{-1, 0}, Coord{0, 1}, Coord{0, -1},
		Coord{1, 1}, Coord{-1, -1},
	)
	king := &Piece{ID: "k", Type: King, Owner: "p1", Pos: Coord{0, 0}}
	pieces := pieceIndex{king.Pos: king}

	got := LegalMoves(b, pieces, king, noneProtected)
	assertMoves(t, got, []Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, -1}})
}

func TestLegalMoves_PawnStepsOrthogonalCapturesDiagonal(t *testing.T) {
	b := chessBoard(Coord{0, 0}, Coord{1, 0}, Coord{0, 1}, Coord{1, 1}, Coord{-1, -1})
	pawn := &Piece{ID: "p", Type: Pawn, Owner: "p1", Pos: Coord{0, 0}}
	enemy := &Piece{ID: "e", Type: Pawn, Owner: "p2", Pos: Coord{1, 1}}
	blocker := &Piece{ID: "b", Type: Pawn, Owner: "p2", Pos: Coord{1, 0}}
	pieces := pieceIndex{pawn.Pos: pawn, enemy.Pos: enemy, blocker.Pos: blocker}

	// (1,0) holds a piece so the orthogonal step there is blocked (pawns do
	// not capture straight). (1,1) is a diagonal capture. (-1,-1) is diagonal
	// but empty, so no move.
	got := LegalMoves(b, pieces, pawn, noneProtected)
	assertMoves(t, got, []Coord{{0, 1}, {1, 1}})
}

func TestLegalMoves_ProtectedPiecesCannotBeCaptured(t *testing.T) {
	b := chessBoard(Coord{0, 0}, Coord{1, 0})
	rook := &Piece{ID: "r", Type: Rook, Owner: "p1", Pos: Coord{0, 0}}
	enemy := &Piece{ID: "e", Type: Pawn, Owner: "p2", Pos: Coord{1, 0}}
	pieces := pieceIndex{rook.Pos: rook, enemy.Pos: enemy}

	protected := func(owner string) bool { return owner == "p2" }
	got := LegalMoves(b, pieces, rook, protected)
	assertMoves(t, got, nil)
}

func TestLegalMoves_QueenCombinesAxes(t *testing.T) {
	b := chessBoard(Coord{0, 0}, Coord{1, 0}, Coord{0, 1}, Coord{1, 1}, Coord{2, 2})
	queen := &Piece{ID: "q", Type: Queen, Owner: "p1", Pos: Coord{0, 0}}
	pieces := pieceIndex{queen.Pos: queen}

	got := LegalMoves(b, pieces, queen, noneProtected)
	assertMoves(t, got, []Coord{{1, 0}, {0, 1}, {1, 1}, {2, 2}})
}

func TestMoveIsLegal(t *testing.T) {
	b := chessBoard(Coord{0, 0}, Coord{1, 0})
	rook := &Piece{ID: "r", Type: Rook, Owner: "p1", Pos: Coord{0, 0}}
	pieces := pieceIndex{rook.Pos: rook}

	if !moveIsLegal(b, pieces, rook, Coord{1, 0}, noneProtected) {
		t.Error("Expected (1,0) to be legal")
	}
	if moveIsLegal(b, pieces, rook, Coord{5, 5}, noneProtected) {
		t.Error("Expected (5,5) to be illegal")
	}
}
