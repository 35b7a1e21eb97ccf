package engine

import "testing"

func TestTetrominoCells_KnownShapes(t *testing.T) {
	cells, err := TetrominoCells("O", 0, Coord{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("TetrominoCells returned error: %v", err)
	}
	if len(cells) != 4 {
		t.Fatalf("Expected 4 cells, got %d", len(cells))
	}
	want := map[Coord]bool{{5, 5}: true, {6, 5}: true, {5, 6}: true, {6, 6}: true}
	for _, c := range cells {
		if !want[c] {
			t.Errorf("Unexpected cell %v in O shape", c)
		}
	}
}

func TestTetrominoCells_RotationWraps(t *testing.T) {
	base, err := TetrominoCells("I", 0, Coord{})
	if err != nil {
		t.Fatalf("TetrominoCells returned error: %v", err)
	}
	wrapped, err := TetrominoCells("I", 2, Coord{})
	if err != nil {
		t.Fatalf("TetrominoCells returned error: %v", err)
	}
	if len(base) != len(wrapped) {
		t.Fatalf("Rotation wrap changed cell count: %d vs %d", len(base), len(wrapped))
	}
	for i := range base {
		if base[i] != wrapped[i] {
			t.Errorf("Rotation 2 should wrap to rotation 0 for I, cell %d differs: %v vs %v", i, base[i], wrapped[i])
		}
	}
}

func TestTetrominoCells_UnknownShape(t *testing.T) {
	if _, err := TetrominoCells("X", 0, Coord{}); err != ErrUnknownShape {
		t.Errorf("Expected ErrUnknownShape, got %v", err)
	}
}

func TestTetrominoCells_NegativeRotation(t *testing.T) {
	base, err := TetrominoCells("T", 1, Coord{})
	if err != nil {
		t.Fatalf("TetrominoCells returned error: %v", err)
	}
	neg, err := TetrominoCells("T", -3, Coord{})
	if err != nil {
		t.Fatalf("TetrominoCells returned error: %v", err)
	}
	for i := range base {
		if base[i] != neg[i] {
			t.Errorf("Rotation -3 should equal rotation 1 for T, cell %d differs", i)
		}
	}
}

func TestShapeNames_SortedAndComplete(t *testing.T) {
	names := ShapeNames()
	want := []string{"I", "J", "L", "O", "S", "T", "Z"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d shapes, got %d", len(want), len(names))
	}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("ShapeNames()[%d] = %q, want %q", i, n, want[i])
		}
	}
}

func TestAllShapesHaveFourCells(t *testing.T) {
	for name, rotations := range tetrominoShapes {
		for r, offsets := range rotations {
			if len(offsets) != 4 {
				t.Errorf("Shape %s rotation %d has %d cells, want 4", name, r, len(offsets))
			}
			seen := make(map[Coord]bool, 4)
			for _, off := range offsets {
				if seen[off] {
					t.Errorf("Shape %s rotation %d has duplicate offset %v", name, r, off)
				}
				seen[off] = true
			}
		}
	}
}
