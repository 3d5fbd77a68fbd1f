package grid

// Shift slides every tile toward the edge named by d, merging equal
// neighbours. The board is updated in place.
//
// Passes repeat until one produces no change. Each pass visits cells
// nearest the target edge first and moves a tile one step when the cell
// toward the edge is empty or holds an equal tile. A tile merges at most
// once per call: the merged flag travels with the tile as it keeps
// sliding, so 2 2 2 2 becomes 4 4 0 0 and not 8 0 0 0.
func (g *Grid) Shift(d Direction) {
	dr, dc, ok := d.step()
	if !ok {
		return
	}

	rowOrder := traversal(g.rows, dr > 0)
	colOrder := traversal(g.cols, dc > 0)
	merged := make([]bool, len(g.cells))

	for {
		changed := false
		for _, r := range rowOrder {
			for _, c := range colOrder {
				if g.pushCell(r, c, dr, dc, merged) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// pushCell moves the tile at (r, c) one step along (dr, dc) if possible.
func (g *Grid) pushCell(r, c, dr, dc int, merged []bool) bool {
	nr, nc := r+dr, c+dc
	if !g.inBounds(nr, nc) {
		return false
	}

	from, to := g.index(r, c), g.index(nr, nc)
	if g.cells[from] == 0 {
		return false
	}

	switch {
	case g.cells[to] == 0:
		g.cells[to] = g.cells[from]
		merged[to] = merged[from]
	case g.cells[to] == g.cells[from] && !merged[to] && !merged[from]:
		g.cells[to] += g.cells[from]
		merged[to] = true
	default:
		return false
	}

	g.cells[from] = 0
	merged[from] = false
	return true
}

// traversal returns 0..n-1, or n-1..0 when reverse is set.
func traversal(n int, reverse bool) []int {
	order := make([]int, n)
	for i := range n {
		if reverse {
			order[i] = n - 1 - i
		} else {
			order[i] = i
		}
	}
	return order
}
