package main

import (
	"bytes"
	"flag"
	"math/rand"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zucenko/mazekeys/model"
	"github.com/zucenko/mazekeys/server"
)

type Options struct {
	Level    string
	Levels   string
	Seed     int64
	LogPath  string
	LogLevel string
	Volume   float64
}

func parseOptions() Options {
	var o Options
	flag.StringVar(&o.Level, "level", server.DefaultLevel, `level name, "generated" or "generated:<seed>"`)
	flag.StringVar(&o.Levels, "levels", "", "extra level file or directory")
	flag.Int64Var(&o.Seed, "seed", 0, "seed for scattered keys, 0 picks one from the clock")
	flag.StringVar(&o.LogPath, "log", "", "rotating log file")
	flag.StringVar(&o.LogLevel, "log-level", "info", "logrus level")
	flag.Float64Var(&o.Volume, "volume", -1, "effect volume as a power of two, 0 plays at full level")
	flag.Parse()
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

func (o Options) rng() *rand.Rand {
	return rand.New(rand.NewSource(o.Seed))
}

// loadLevel resolves o.Level against the builtin catalogue plus o.Levels.
// A bad name falls back to the default level rather than failing.
func loadLevel(o Options) model.Level {
	catalog := server.NewLevelCatalog()
	if o.Levels != "" {
		if err := loadLevels(catalog, o.Levels); err != nil {
			log.Warnf("levels %s: %v", o.Levels, err)
		}
	}
	l, err := catalog.Get(o.Level)
	if err != nil {
		log.Warnf("%v, playing %s", err, server.DefaultLevel)
		l, _ = catalog.Get(server.DefaultLevel)
	}
	return l
}

// loadLevels tries the path as a bundled file first, so a level shipped
// next to the binary is found the same way as the other assets.
func loadLevels(catalog *server.LevelCatalog, path string) error {
	file, err := ebitenutil.OpenFile(path)
	if err != nil {
		return catalog.LoadPath(path)
	}
	defer file.Close()
	levels, err := server.ReadLevels(path, file)
	if err != nil {
		return err
	}
	if levels == nil {
		return catalog.LoadPath(path)
	}
	for _, l := range levels {
		if err := catalog.Add(l); err != nil {
			return err
		}
	}
	return nil
}

func loadFont(name string, size float64) font.Face {
	data := goregular.TTF
	if dat, err := ebitenutil.OpenFile(name); err == nil {
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(dat); err == nil {
			data = buf.Bytes()
		}
		dat.Close()
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		log.Warnf("font %s: %v", name, err)
		if tt, err = truetype.Parse(goregular.TTF); err != nil {
			log.Fatal(err)
		}
	}
	return truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// loadPanel returns nil when the image is missing; Nine draws a plain
// rectangle then.
func loadPanel(name string) *ebiten.Image {
	img, _, err := ebitenutil.NewImageFromFile(name, ebiten.FilterDefault)
	if err != nil {
		log.Debugf("panel %s: %v", name, err)
		return nil
	}
	return img
}
