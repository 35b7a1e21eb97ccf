package engine

// Placement legality is defined purely in terms of graph reachability over
// the sparse board, not geometry. Both queries here are exact and
// deterministic; connectivity is a correctness requirement, never a
// heuristic.

// IsAdjacentToOccupied reports whether any of the given coordinates is
// 4-adjacent to an existing occupied cell. Cells inside the candidate set
// itself do not count as occupied.
func IsAdjacentToOccupied(board *Board, candidates []Coord) bool {
	inSet := make(map[Coord]bool, len(candidates))
	for _, c := range candidates {
		inSet[c] = true
	}
	for _, c := range candidates {
		for _, n := range c.Neighbors4() {
			if inSet[n] {
				continue
			}
			if board.Occupied(n) {
				return true
			}
		}
	}
	return false
}

// HasPathToKing reports whether a path of cells exists from any of the
// candidate coordinates to the cell under the player's king. The path may
// traverse cells owned by the player and unowned no-man's-land bridge cells;
// opponent-owned cells block it. The candidate cells are treated as already
// attached for the purpose of the walk.
//
// Implemented as an iterative breadth-first search with an explicit visited
// set: boards grow to thousands of cells and recursive descent would risk
// stack exhaustion on large connected components.
func HasPathToKing(board *Board, owner string, candidates []Coord, kingPos Coord) bool {
	passable := func(c Coord) bool {
		cell, ok := board.GetCell(c)
		if !ok {
			return false
		}
		return cell.Owner == owner || cell.Owner == ""
	}

	visited := make(map[Coord]bool, len(candidates)*4)
	queue := make([]Coord, 0, len(candidates))
	for _, c := range candidates {
		if visited[c] {
			continue
		}
		visited[c] = true
		queue = append(queue, c)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == kingPos {
			return true
		}

		for _, n := range cur.Neighbors4() {
			if visited[n] || !passable(n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}
