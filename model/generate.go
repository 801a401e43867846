package model

import (
	"math/rand"
	"time"
)

type Cell struct {
	X, Z int
}

type GenerateConfig struct {
	Width, Height int

	// Braiding 0.0 keeps a perfect maze, 1.0 opens every dead end it safely can.
	Braiding float64

	Seed int64 // 0 = time based
}

// GenerateMaze carves a border-walled maze with a recursive backtracker.
// Even sizes are rounded down to the next odd size, minimum 5.
func GenerateMaze(cfg GenerateConfig) *MazeGrid {
	w, h := oddAtLeast(cfg.Width, 5), oddAtLeast(cfg.Height, 5)
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	grid := make([][]bool, h)
	for z := range grid {
		grid[z] = make([]bool, w)
		for x := range grid[z] {
			grid[z][x] = true
		}
	}

	carve(grid, Cell{1, 1}, rng)
	if cfg.Braiding > 0 {
		braid(grid, cfg.Braiding, rng)
	}
	return newGridFromBools(grid)
}

var jumps = []Cell{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
var steps = []Cell{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func carve(grid [][]bool, start Cell, rng *rand.Rand) {
	h, w := len(grid), len(grid[0])
	stack := []Cell{start}
	grid[start.Z][start.X] = false

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		next := make([]Cell, 0, 4)
		for _, d := range jumps {
			nx, nz := cur.X+d.X, cur.Z+d.Z
			if nx > 0 && nx < w-1 && nz > 0 && nz < h-1 && grid[nz][nx] {
				next = append(next, d)
			}
		}
		if len(next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := next[rng.Intn(len(next))]
		grid[cur.Z+d.Z/2][cur.X+d.X/2] = false
		grid[cur.Z+d.Z][cur.X+d.X] = false
		stack = append(stack, Cell{cur.X + d.X, cur.Z + d.Z})
	}
}

// braid knocks through walls at dead ends, refusing openings that would leave
// a 2x2 open plaza or an isolated pillar.
func braid(grid [][]bool, probability float64, rng *rand.Rand) {
	h, w := len(grid), len(grid[0])
	for z := 1; z < h-1; z += 2 {
		for x := 1; x < w-1; x += 2 {
			if grid[z][x] || exits(grid, x, z) != 1 || rng.Float64() >= probability {
				continue
			}
			candidates := make([]Cell, 0, 4)
			for _, d := range jumps {
				nx, nz := x+d.X, z+d.Z
				wx, wz := x+d.X/2, z+d.Z/2
				if nx <= 0 || nx >= w-1 || nz <= 0 || nz >= h-1 {
					continue
				}
				if !grid[nz][nx] && grid[wz][wx] && safeToOpen(grid, wx, wz) {
					candidates = append(candidates, Cell{wx, wz})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				grid[c.Z][c.X] = false
			}
		}
	}
}

func exits(grid [][]bool, x, z int) int {
	n := 0
	for _, d := range steps {
		if !grid[z+d.Z][x+d.X] {
			n++
		}
	}
	return n
}

func safeToOpen(grid [][]bool, x, z int) bool {
	h, w := len(grid), len(grid[0])
	open := func(tx, tz int) bool {
		if tx < 0 || tz < 0 || tx >= w || tz >= h {
			return false
		}
		return !grid[tz][tx]
	}

	if open(x-1, z-1) && open(x, z-1) && open(x-1, z) ||
		open(x, z-1) && open(x+1, z-1) && open(x+1, z) ||
		open(x-1, z) && open(x-1, z+1) && open(x, z+1) ||
		open(x+1, z) && open(x, z+1) && open(x+1, z+1) {
		return false
	}

	for _, d := range steps {
		nx, nz := x+d.X, z+d.Z
		if nx < 0 || nz < 0 || nx >= w || nz >= h || !grid[nz][nx] {
			continue
		}
		walls := 0
		for _, d2 := range steps {
			ax, az := nx+d2.X, nz+d2.Z
			if ax == x && az == z {
				continue
			}
			if ax >= 0 && az >= 0 && ax < w && az < h && grid[az][ax] {
				walls++
			}
		}
		if walls == 0 {
			return false
		}
	}
	return true
}

func oddAtLeast(n, least int) int {
	if n < least {
		return least
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// DeadEnds lists floor cells with exactly one open neighbour, row-major.
// Generated levels place their keys there.
func (g *MazeGrid) DeadEnds() []Cell {
	out := make([]Cell, 0)
	for z := 1; z < g.height-1; z++ {
		for x := 1; x < g.width-1; x++ {
			if g.IsWall(x, z) {
				continue
			}
			n := 0
			for _, d := range steps {
				if !g.IsWall(x+d.X, z+d.Z) {
					n++
				}
			}
			if n == 1 {
				out = append(out, Cell{x, z})
			}
		}
	}
	return out
}

// FloorCells lists every walkable cell, row-major.
func (g *MazeGrid) FloorCells() []Cell {
	out := make([]Cell, 0, len(g.cells)/2)
	for z := 0; z < g.height; z++ {
		for x := 0; x < g.width; x++ {
			if !g.cells[z*g.width+x] {
				out = append(out, Cell{x, z})
			}
		}
	}
	return out
}
