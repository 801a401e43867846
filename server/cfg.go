package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/zucenko/mazekeys/model"
)

var ErrUnknownLevel = errors.New("unknown level")

const DefaultLevel = "classic"

// GeneratedPrefix asks the catalogue for a fresh random maze,
// "generated" or "generated:<seed>".
const GeneratedPrefix = "generated"

// LevelCatalog is filled at start up and read only afterwards.
type LevelCatalog struct {
	levels map[string]model.Level
	names  []string

	GenerateWidth, GenerateHeight int
	GenerateKeys                  int
	GenerateBraiding              float64
}

func NewLevelCatalog() *LevelCatalog {
	c := &LevelCatalog{
		levels:           make(map[string]model.Level),
		GenerateWidth:    15,
		GenerateHeight:   15,
		GenerateKeys:     5,
		GenerateBraiding: 0.2,
	}
	for _, l := range model.BuiltinLevels {
		if err := c.Add(l); err != nil {
			panic(err)
		}
	}
	return c
}

// Add validates the layout and replaces any level of the same name.
func (c *LevelCatalog) Add(l model.Level) error {
	if l.Name == "" {
		return errors.New("level without a name")
	}
	l = l.WithDefaults()
	if _, err := l.Grid(); err != nil {
		return err
	}
	if _, found := c.levels[l.Name]; !found {
		c.names = append(c.names, l.Name)
		sort.Strings(c.names)
	}
	c.levels[l.Name] = l
	return nil
}

func (c *LevelCatalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get resolves a level name. Empty means DefaultLevel.
func (c *LevelCatalog) Get(name string) (model.Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	if l, found := c.levels[name]; found {
		return l, nil
	}
	if name == GeneratedPrefix || strings.HasPrefix(name, GeneratedPrefix+":") {
		var seed int64
		if i := strings.IndexByte(name, ':'); i >= 0 {
			if _, err := fmt.Sscanf(name[i+1:], "%d", &seed); err != nil {
				return model.Level{}, fmt.Errorf("%q: bad seed: %w", name, ErrUnknownLevel)
			}
		}
		return model.GeneratedLevel(model.GenerateConfig{
			Width:    c.GenerateWidth,
			Height:   c.GenerateHeight,
			Braiding: c.GenerateBraiding,
			Seed:     seed,
		}, c.GenerateKeys), nil
	}
	return model.Level{}, fmt.Errorf("%q: %w", name, ErrUnknownLevel)
}

// LoadPath adds a level file or every level file of a directory.
// Files other than .yaml, .yml and .txt are skipped.
func (c *LevelCatalog) LoadPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*"))
		if err != nil {
			return err
		}
		sort.Strings(files)
	}
	for _, f := range files {
		levels, err := ReadLevelFile(f)
		if err != nil {
			return err
		}
		for _, l := range levels {
			if err := c.Add(l); err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			log.WithField("level", l.Name).Infof("level loaded from %s", f)
		}
	}
	return nil
}

func ReadLevelFile(path string) ([]model.Level, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadLevels(path, file)
}

// ReadLevels picks the format by the extension of name.
func ReadLevels(name string, r io.Reader) ([]model.Level, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ReadLevelsYAML(r)
	case ".txt":
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		l, err := ReadLayoutText(base, r)
		if err != nil {
			return nil, err
		}
		return []model.Level{l}, nil
	}
	return nil, nil
}

type levelFile struct {
	Levels []model.Level `yaml:"levels"`
}

// ReadLevelsYAML accepts either a single level document or a
// "levels:" list.
func ReadLevelsYAML(r io.Reader) ([]model.Level, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("level yaml: %w", err)
	}
	if len(lf.Levels) > 0 {
		return lf.Levels, nil
	}
	var single model.Level
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("level yaml: %w", err)
	}
	if single.Name == "" && len(single.Layout) == 0 {
		return nil, nil
	}
	return []model.Level{single}, nil
}

func WriteLevelsYAML(w io.Writer, levels []model.Level) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(levelFile{Levels: levels}); err != nil {
		return err
	}
	return enc.Close()
}

// ReadLayoutText reads the plain map format:
//
//	; comment
//	#######
//	#S..#K#
//	#.#...#
//	#######
//
// '#' wall, '.' floor, 'K' key on a floor cell, 'S' spawn on a floor cell.
// Without an 'S' the player starts on the first floor cell.
func ReadLayoutText(name string, reader io.Reader) (model.Level, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	layout := make([]string, 0)
	keys := make([]model.Cell, 0)
	var spawn *model.Cell

	for scanner.Scan() {
		s := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(s, ";") || strings.TrimSpace(s) == "" {
			continue
		}
		row := len(layout)
		line := []byte(s)
		for col, char := range line {
			switch char {
			case 'K':
				keys = append(keys, model.Cell{X: col, Z: row})
				line[col] = '.'
			case 'S':
				spawn = &model.Cell{X: col, Z: row}
				line[col] = '.'
			}
		}
		layout = append(layout, string(line))
	}
	if err := scanner.Err(); err != nil {
		return model.Level{}, err
	}

	l := model.Level{Name: name, Layout: layout}.WithDefaults()
	g, err := l.Grid()
	if err != nil {
		return model.Level{}, err
	}
	if spawn == nil {
		floor := g.FloorCells()
		if len(floor) == 0 {
			return model.Level{}, fmt.Errorf("level %q has no floor", name)
		}
		spawn = &floor[0]
	}
	l.Spawn = g.CellToWorld(spawn.X, spawn.Z, l.CellSize)
	l.Spawn.Y = model.DefaultEyeHeight
	for _, k := range keys {
		p := g.CellToWorld(k.X, k.Z, l.CellSize)
		p.Y = l.KeyHeight
		l.Keys = append(l.Keys, p)
	}
	l.KeyCount = len(l.Keys)
	return l, nil
}

// FormatLayoutText is the inverse of ReadLayoutText. Keys and spawn must sit
// on cell centres to be representable.
func FormatLayoutText(l model.Level) (string, error) {
	l = l.WithDefaults()
	g, err := l.Grid()
	if err != nil {
		return "", err
	}
	rows := make([][]byte, g.Height())
	for z, line := range g.Lines() {
		rows[z] = []byte(line)
	}
	mark := func(p model.Vec3, ch byte) error {
		x, z := g.WorldToCell(p, l.CellSize)
		c := g.CellToWorld(x, z, l.CellSize)
		if g.IsWall(x, z) || c.X != p.X || c.Z != p.Z {
			return fmt.Errorf("level %q: %v is not on a floor cell centre", l.Name, p)
		}
		rows[z][x] = ch
		return nil
	}
	if err := mark(l.Spawn, 'S'); err != nil {
		return "", err
	}
	for _, k := range l.Keys {
		if err := mark(k, 'K'); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "; %s\n", l.Name)
	for _, r := range rows {
		b.Write(r)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
