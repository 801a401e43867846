package model

import (
	"fmt"
	"math/rand"
)

// Level is the static description a playthrough is built from.
// KeyCount may exceed len(Keys); the remainder is scattered at KeyHeight.
type Level struct {
	Name      string   `yaml:"name" json:"name"`
	Layout    []string `yaml:"layout" json:"layout"`
	CellSize  float64  `yaml:"cell_size" json:"cellSize"`
	KeyHeight float64  `yaml:"key_height" json:"keyHeight"`
	KeyRadius float64  `yaml:"key_radius" json:"keyRadius"`
	Keys      []Vec3   `yaml:"keys" json:"keys"`
	KeyCount  int      `yaml:"key_count" json:"keyCount"`
	Spawn     Vec3     `yaml:"spawn" json:"spawn"`
}

const (
	DefaultCellSize  = 2.0
	DefaultKeyHeight = 1.5
	DefaultKeyRadius = 0.3
	DefaultEyeHeight = 1.6
)

// WithDefaults fills zero sizes and a missing KeyCount.
func (l Level) WithDefaults() Level {
	if l.CellSize <= 0 {
		l.CellSize = DefaultCellSize
	}
	if l.KeyHeight <= 0 {
		l.KeyHeight = DefaultKeyHeight
	}
	if l.KeyRadius <= 0 {
		l.KeyRadius = DefaultKeyRadius
	}
	if l.KeyCount <= 0 {
		l.KeyCount = len(l.Keys)
	}
	return l
}

func (l Level) Grid() (*MazeGrid, error) {
	g, err := ParseLayout(l.Layout)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	return g, nil
}

// Spawn a registry for this level. The level must already carry defaults.
func (l Level) SpawnKeys(g *MazeGrid, rng *rand.Rand) *Registry {
	return SpawnAll(l.Keys, l.KeyCount, g.Extent(l.CellSize), l.KeyHeight, rng)
}

var classicLayout = []string{
	"######",
	"#....#",
	"#.##.#",
	"#..#.#",
	"##...#",
	"######",
}

var extendedLayout = []string{
	"##########",
	"#....#...#",
	"#.##.#.#.#",
	"#.#..#.#.#",
	"#.#.##.#.#",
	"#...#..#.#",
	"###.#.##.#",
	"#...#....#",
	"#.###.##.#",
	"##########",
}

var extendedKeys = []Vec3{
	{-7, 1.5, -7}, {7, 1.5, -7}, {-3, 1.5, -3}, {3, 1.5, -1},
	{7, 1.5, 1}, {-7, 1.5, 5}, {1, 1.5, 7}, {7, 1.5, 5},
}

// BuiltinLevels reproduces the successive versions of the game: the first
// small maze with three keys, the larger eight-key maze, and the variant that
// asks for more keys than it lists.
var BuiltinLevels = []Level{
	{
		Name:   "classic",
		Layout: classicLayout,
		Keys:   []Vec3{{-2, 1.5, -2}, {3, 1.5, 0}, {0, 1.5, 3}},
		Spawn:  Vec3{0, 1.6, 5},
	},
	{
		Name:   "extended",
		Layout: extendedLayout,
		Keys:   extendedKeys,
		Spawn:  Vec3{-3, 1.6, 5},
	},
	{
		Name:     "extended-10",
		Layout:   extendedLayout,
		Keys:     extendedKeys,
		KeyCount: 10,
		Spawn:    Vec3{-3, 1.6, 5},
	},
}

func BuiltinLevel(name string) (Level, bool) {
	for _, l := range BuiltinLevels {
		if l.Name == name {
			return l.WithDefaults(), true
		}
	}
	return Level{}, false
}

// GeneratedLevel builds a random maze and puts keys on dead ends first, then
// on any floor cell. The player spawns on the first floor cell.
func GeneratedLevel(cfg GenerateConfig, keys int) Level {
	g := GenerateMaze(cfg)
	l := Level{
		Name:     fmt.Sprintf("generated-%dx%d", g.Width(), g.Height()),
		Layout:   g.Lines(),
		KeyCount: keys,
	}.WithDefaults()

	floor := g.FloorCells()
	spawn := floor[0]
	l.Spawn = g.CellToWorld(spawn.X, spawn.Z, l.CellSize)
	l.Spawn.Y = DefaultEyeHeight

	candidates := append(g.DeadEnds(), floor...)
	used := map[Cell]bool{spawn: true}
	for _, c := range candidates {
		if len(l.Keys) == keys {
			break
		}
		if used[c] {
			continue
		}
		used[c] = true
		p := g.CellToWorld(c.X, c.Z, l.CellSize)
		p.Y = l.KeyHeight
		l.Keys = append(l.Keys, p)
	}
	return l
}
