package main

import (
	"fmt"
	"image/color"
	_ "image/png"
	"math"

	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"golang.org/x/image/font"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/model"
	"github.com/zucenko/mazekeys/server"
)

const (
	mapSize      = 640
	hudHeight    = 80
	screenWidth  = mapSize
	screenHeight = mapSize + hudHeight
	mapMargin    = 16
)

func HexToRGBA(u uint32, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(0xff & (u >> 16)),
		G: uint8(0xff & (u >> 8)),
		B: uint8(0xff & u),
		A: uint8(math.Max(0, math.Min(1, alpha)) * 0xff),
	}
}

func fade(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Max(0, math.Min(1, alpha)) * float64(c.A))
	return c
}

var (
	COLOR_BACKGROUND = HexToRGBA(0x202020, 1)
	COLOR_FLOOR      = HexToRGBA(0x303030, 1)
	COLOR_WALL       = HexToRGBA(0x808080, 1)
	COLOR_KEY        = HexToRGBA(0xedbc1e, 1)
	COLOR_PLAYER     = HexToRGBA(0x34fbf6, 1)
	COLOR_HUD        = HexToRGBA(0xffffff, 1)
	COLOR_FLASH      = HexToRGBA(0x0abd38, 1)
)

// mapView places the world's XZ plane on the screen. The maze is centred
// on the origin, so the origin sits in the middle of the map area.
type mapView struct {
	scale  float64
	ox, oy float64
}

func newMapView(e model.Extent) mapView {
	span := math.Max(e.MaxX-e.MinX, e.MaxZ-e.MinZ)
	return mapView{
		scale: (mapSize - 2*mapMargin) / span,
		ox:    mapSize / 2,
		oy:    mapSize / 2,
	}
}

func (v mapView) toScreen(x, z float64) (float64, float64) {
	return v.ox + x*v.scale, v.oy + z*v.scale
}

func (v mapView) toWorld(sx, sy float64) (float64, float64) {
	return (sx - v.ox) / v.scale, (sy - v.oy) / v.scale
}

type Game struct {
	Session *game.Session
	Face    font.Face
	Panel   *Nine
	Sounds  *Sounds

	Tweens     map[*gween.Tween]*Action
	fading     map[int]float64
	hudFlash   float64
	panelAlpha float64
	pulse      float64
	pulsing    bool

	strokes map[*Stroke]struct{}
	buttons []*touchButton
	hadPads bool

	view  mapView
	walls []model.Vec3
	frame int
}

func NewGame(s *game.Session, face font.Face, panel *Nine, sounds *Sounds) *Game {
	l := s.Level()
	g := &Game{
		Session: s,
		Face:    face,
		Panel:   panel,
		Sounds:  sounds,
		Tweens:  make(map[*gween.Tween]*Action),
		fading:  make(map[int]float64),
		strokes: map[*Stroke]struct{}{},
		buttons: newTouchButtons(),
		view:    newMapView(s.Grid().Extent(l.CellSize)),
		walls:   s.Grid().WallPositions(l.CellSize),
	}
	g.pulse = 1
	g.menuPulse()
	return g
}

func (g *Game) handle(events []game.Event) {
	for _, e := range events {
		ctx := log.WithField("progress", e.Progress.String())
		switch e.Type {
		case game.EventStarted:
			ctx.Info("started")
			g.Sounds.Play(SOUND_START)
		case game.EventCollected:
			ctx.WithField("key", e.ID).Info("collected")
			g.collectEffect(e.ID)
			g.Sounds.Play(SOUND_COLLECT)
		case game.EventVictory:
			ctx.Info("victory")
			g.victoryEffect()
			g.Sounds.Play(SOUND_VICTORY)
		case game.EventRestarted:
			ctx.Info("restarted")
			g.panelAlpha = 0
			g.fading = make(map[int]float64)
		case game.EventMenu:
			g.panelAlpha = 0
			g.fading = make(map[int]float64)
			g.menuPulse()
		default:
			ctx.Debug(e.Type.Name())
		}
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.frame++
	g.updateTweens(float32(1 / float64(g.Session.Config().TickRate)))

	for _, cmd := range g.readInput() {
		g.handle(g.Session.Apply(cmd))
	}
	g.Session.Tick()

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	g.draw(screen)
	return nil
}

func (g *Game) draw(screen *ebiten.Image) {
	if err := screen.Fill(COLOR_BACKGROUND); err != nil {
		log.Errorf("fill: %v", err)
	}
	l := g.Session.Level()
	cs := l.CellSize * g.view.scale

	x0, z0 := g.view.toScreen(-float64(g.Session.Grid().Width())*l.CellSize/2, -float64(g.Session.Grid().Height())*l.CellSize/2)
	ebitenutil.DrawRect(screen, x0, z0, float64(g.Session.Grid().Width())*cs, float64(g.Session.Grid().Height())*cs, COLOR_FLOOR)
	for _, w := range g.walls {
		x, y := g.view.toScreen(w.X, w.Z)
		ebitenutil.DrawRect(screen, x-cs/2+1, y-cs/2+1, cs-2, cs-2, COLOR_WALL)
	}

	t := float64(g.frame) * 1000 / float64(g.Session.Config().TickRate)
	for _, k := range g.Session.Keys() {
		r := l.KeyRadius * g.view.scale
		alpha := 1.0
		if k.Collected {
			a, fading := g.fading[k.ID]
			if !fading {
				continue
			}
			alpha = a
			r *= 2 - a
		} else {
			// the bob only moves keys up and down, shown here as size
			r *= 1 + math.Sin(t*0.001+float64(k.ID))*0.2
		}
		x, y := g.view.toScreen(k.Position.X, k.Position.Z)
		ebitenutil.DrawRect(screen, x-r, y-r, 2*r, 2*r, fade(COLOR_KEY, alpha))
	}

	p := g.Session.Player()
	px, py := g.view.toScreen(p.Position.X, p.Position.Z)
	ebitenutil.DrawRect(screen, px-5, py-5, 10, 10, COLOR_PLAYER)
	s, c := math.Sincos(p.FacingYaw)
	ebitenutil.DrawLine(screen, px, py, px-s*cs*0.6, py-c*cs*0.6, COLOR_PLAYER)

	g.drawHud(screen)

	switch g.Session.Phase() {
	case game.PhaseMenu:
		g.drawPanel(screen, g.pulse, "MAZE KEYS", "Enter to start")
	case game.PhaseVictory:
		g.drawPanel(screen, g.panelAlpha, "ALL KEYS COLLECTED", "R to play again, M for menu")
	}
}

func (g *Game) drawHud(screen *ebiten.Image) {
	progress := g.Session.Progress()
	clr := COLOR_HUD
	if g.hudFlash > 0 {
		clr = fade(COLOR_FLASH, 0.4+0.6*g.hudFlash)
	}
	text.Draw(screen, fmt.Sprintf("Keys %s", progress), g.Face, 12, mapSize+34, clr)
	text.Draw(screen, g.Session.Level().Name, g.Face, 12, mapSize+66, COLOR_HUD)

	for _, b := range g.buttons {
		c := HexToRGBA(0x444444, 1)
		if b.held > 0 {
			c = COLOR_FLASH
		}
		ebitenutil.DrawRect(screen, float64(b.Rect.Min.X), float64(b.Rect.Min.Y), float64(b.Rect.Dx()), float64(b.Rect.Dy()), c)
		ebitenutil.DebugPrintAt(screen, b.Label, b.Rect.Min.X+b.Rect.Dx()/2-3, b.Rect.Min.Y+b.Rect.Dy()/2-8)
	}
	ebitenutil.DebugPrintAt(screen, g.Session.Phase().Name()+" "+g.Session.Player().Mode.Name(), 200, mapSize+4)
}

func (g *Game) drawPanel(screen *ebiten.Image, alpha float64, title, hint string) {
	if alpha <= 0 {
		return
	}
	const w, h = 440, 160
	x, y := (screenWidth-w)/2, (mapSize-h)/2
	g.Panel.SetColor(1, 1, 1, alpha)
	g.Panel.SetBounds(x, y, w, h)
	g.Panel.Draw(screen)

	tw := font.MeasureString(g.Face, title).Ceil()
	text.Draw(screen, title, g.Face, x+(w-tw)/2, y+64, fade(COLOR_HUD, alpha))
	hw := font.MeasureString(g.Face, hint).Ceil()
	text.Draw(screen, hint, g.Face, x+(w-hw)/2, y+116, fade(COLOR_KEY, alpha))
}

func main() {
	opts := parseOptions()
	if err := server.InitLogging(opts.LogPath, opts.LogLevel); err != nil {
		log.Fatalf("logging: %v", err)
	}

	cfg := game.LoadConfig()
	level := loadLevel(opts)
	session, err := game.NewSession(level, cfg, opts.rng())
	if err != nil {
		log.Fatalf("level %s: %v", level.Name, err)
	}
	log.WithFields(log.Fields{"level": level.Name, "keys": session.Progress().Total, "seed": opts.Seed}).Info("loaded")

	sounds := NewSounds(opts.Volume)
	sounds.Init()
	g := NewGame(session, loadFont("font.ttf", 24), NewNine(loadPanel("panel.png"), 16, 1), sounds)

	ebiten.SetMaxTPS(cfg.TickRate)
	if err := ebiten.Run(g.update, screenWidth, screenHeight, 1, "Maze Keys"); err != nil {
		log.Fatal(err)
	}
}
