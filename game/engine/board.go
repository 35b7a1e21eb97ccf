package engine

// Board is the canonical sparse grid of occupied cells. A cell exists in the
// map iff it is occupied; absence means empty. The Board itself carries no
// locking: the owning GameEngine serializes every mutation, and reads for
// client projections go through copy-on-read snapshots.
type Board struct {
	cells  map[Coord]Cell
	extent int
}

// NewBoard creates an empty board bounded by [-extent, extent] on both axes.
func NewBoard(extent int) *Board {
	return &Board{
		cells:  make(map[Coord]Cell),
		extent: extent,
	}
}

// InBounds reports whether the coordinate lies within the board extents.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= -b.extent && c.X <= b.extent && c.Y >= -b.extent && c.Y <= b.extent
}

// GetCell returns the cell at the coordinate and whether it is occupied.
func (b *Board) GetCell(c Coord) (Cell, bool) {
	cell, ok := b.cells[c]
	return cell, ok
}

// Occupied reports whether the coordinate holds a cell.
func (b *Board) Occupied(c Coord) bool {
	_, ok := b.cells[c]
	return ok
}

// SetCell writes a cell at the coordinate. Out-of-extent coordinates are
// rejected, not clamped.
func (b *Board) SetCell(c Coord, cell Cell) error {
	if !b.InBounds(c) {
		return ErrOutOfBounds
	}
	b.cells[c] = cell
	return nil
}

// RemoveCell deletes the cell at the coordinate if present.
func (b *Board) RemoveCell(c Coord) {
	delete(b.cells, c)
}

// CellCount returns the number of occupied cells.
func (b *Board) CellCount() int {
	return len(b.cells)
}

// CellsInHomeZone returns the coordinates of all home-zone cells owned by the
// player.
func (b *Board) CellsInHomeZone(owner string) []Coord {
	var coords []Coord
	for c, cell := range b.cells {
		if cell.Type == CellHomeZone && cell.Owner == owner {
			coords = append(coords, c)
		}
	}
	return coords
}

// ForEach visits every occupied cell. Mutating the board during iteration is
// not allowed.
func (b *Board) ForEach(fn func(Coord, Cell)) {
	for c, cell := range b.cells {
		fn(c, cell)
	}
}

// CellView pairs a coordinate with its cell for projections.
type CellView struct {
	Pos  Coord `json:"pos"`
	Cell Cell  `json:"cell"`
}

// SnapshotCells returns a copy of all occupied cells. Callers own the slice.
func (b *Board) SnapshotCells() []CellView {
	views := make([]CellView, 0, len(b.cells))
	for c, cell := range b.cells {
		views = append(views, CellView{Pos: c, Cell: cell})
	}
	return views
}
