package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrEmptyLayout  = errors.New("maze layout is empty")
	ErrRaggedLayout = errors.New("maze layout is not rectangular")
)

// MazeGrid is an immutable occupancy grid, row-major, true = wall.
// Rows run along Z, columns along X.
type MazeGrid struct {
	width, height int
	cells         []bool
}

type Extent struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

func (e Extent) Contains(x, z float64) bool {
	return x >= e.MinX && x <= e.MaxX && z >= e.MinZ && z <= e.MaxZ
}

// NewMazeGrid builds a grid from 0/1 rows; any non-zero value is a wall.
func NewMazeGrid(rows [][]int) (*MazeGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyLayout
	}
	w := len(rows[0])
	g := &MazeGrid{width: w, height: len(rows), cells: make([]bool, 0, w*len(rows))}
	for z, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", z, len(row), w, ErrRaggedLayout)
		}
		for _, v := range row {
			g.cells = append(g.cells, v != 0)
		}
	}
	return g, nil
}

// ParseLayout reads the text form: '#' or '1' is a wall, '.', '0' or ' ' is floor.
func ParseLayout(lines []string) (*MazeGrid, error) {
	rows := make([][]int, 0, len(lines))
	for z, line := range lines {
		line = strings.TrimRight(line, "\r")
		row := make([]int, 0, len(line))
		for x, ch := range line {
			switch ch {
			case '#', '1':
				row = append(row, 1)
			case '.', '0', ' ':
				row = append(row, 0)
			default:
				return nil, fmt.Errorf("unexpected %q at row %d col %d", ch, z, x)
			}
		}
		rows = append(rows, row)
	}
	return NewMazeGrid(rows)
}

func newGridFromBools(grid [][]bool) *MazeGrid {
	g := &MazeGrid{width: len(grid[0]), height: len(grid)}
	g.cells = make([]bool, 0, g.width*g.height)
	for _, row := range grid {
		g.cells = append(g.cells, row...)
	}
	return g
}

func (g *MazeGrid) Width() int  { return g.width }
func (g *MazeGrid) Height() int { return g.height }

// IsWall treats everything outside the grid as solid.
func (g *MazeGrid) IsWall(x, z int) bool {
	if x < 0 || z < 0 || x >= g.width || z >= g.height {
		return true
	}
	return g.cells[z*g.width+x]
}

// CellToWorld returns the centre of the cell's wall block. The grid is centred
// on the world origin whatever its size; Y is half the cell so a cube of side
// cellSize stands on the floor.
func (g *MazeGrid) CellToWorld(x, z int, cellSize float64) Vec3 {
	return Vec3{
		X: (float64(x) - float64(g.width-1)/2) * cellSize,
		Y: cellSize / 2,
		Z: (float64(z) - float64(g.height-1)/2) * cellSize,
	}
}

// WorldToCell is the inverse of CellToWorld on the XZ plane.
func (g *MazeGrid) WorldToCell(p Vec3, cellSize float64) (x, z int) {
	fx := p.X/cellSize + float64(g.width-1)/2
	fz := p.Z/cellSize + float64(g.height-1)/2
	return int(math.Round(fx)), int(math.Round(fz))
}

func (g *MazeGrid) WallPositions(cellSize float64) []Vec3 {
	out := make([]Vec3, 0, len(g.cells)/2)
	for z := 0; z < g.height; z++ {
		for x := 0; x < g.width; x++ {
			if g.cells[z*g.width+x] {
				out = append(out, g.CellToWorld(x, z, cellSize))
			}
		}
	}
	return out
}

// Extent is the horizontal bounding box of all cells, walls included.
func (g *MazeGrid) Extent(cellSize float64) Extent {
	hx := float64(g.width) * cellSize / 2
	hz := float64(g.height) * cellSize / 2
	return Extent{MinX: -hx, MaxX: hx, MinZ: -hz, MaxZ: hz}
}

// HasClosedBorder reports whether every border cell is a wall.
func (g *MazeGrid) HasClosedBorder() bool {
	for x := 0; x < g.width; x++ {
		if !g.IsWall(x, 0) || !g.IsWall(x, g.height-1) {
			return false
		}
	}
	for z := 0; z < g.height; z++ {
		if !g.IsWall(0, z) || !g.IsWall(g.width-1, z) {
			return false
		}
	}
	return true
}

// Lines renders the grid back into the ParseLayout form.
func (g *MazeGrid) Lines() []string {
	out := make([]string, g.height)
	var b strings.Builder
	for z := 0; z < g.height; z++ {
		b.Reset()
		for x := 0; x < g.width; x++ {
			if g.cells[z*g.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		out[z] = b.String()
	}
	return out
}
