package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/zucenko/mazekeys/game"
)

// Action is what happens while a tween runs and after it ends. nexts start
// follow-up tweens, so effects can be chained.
type Action struct {
	nexts    []func(g *Game)
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	if a.onFinish == nil {
		a.onFinish = make([]func(), 0)
	}
	a.onFinish = append(a.onFinish, f)
}

func (a *Action) next(t *gween.Tween, onChange func(float32)) *Action {
	action := &Action{onChange: onChange}
	if a.nexts == nil {
		a.nexts = make([]func(g *Game), 0)
	}
	a.nexts = append(a.nexts,
		func(g *Game) {
			g.Tweens[t] = action
		})
	return action
}

func (g *Game) play(t *gween.Tween, onChange func(float32)) *Action {
	action := &Action{onChange: onChange}
	g.Tweens[t] = action
	return action
}

func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			for _, next := range a.nexts {
				next(g)
			}
			delete(g.Tweens, t)
		}
	}
}

// collectEffect grows and fades a picked key, then flashes the counter.
func (g *Game) collectEffect(id int) {
	g.fading[id] = 1
	a := g.play(gween.New(1, 0, 0.5, ease.OutQuad), func(v float32) {
		g.fading[id] = float64(v)
	})
	a.addOnFinish(func() { delete(g.fading, id) })
	a.next(gween.New(1, 0, 0.6, ease.OutCubic), func(v float32) {
		g.hudFlash = float64(v)
	})
}

func (g *Game) victoryEffect() {
	g.panelAlpha = 0
	g.play(gween.New(0, 1, 0.8, ease.OutCubic), func(v float32) {
		g.panelAlpha = float64(v)
	})
}

// menuPulse loops for as long as the menu is shown.
func (g *Game) menuPulse() {
	if g.pulsing {
		return
	}
	g.pulsing = true
	a := g.play(gween.New(0.4, 1, 0.9, ease.InOutSine), func(v float32) {
		g.pulse = float64(v)
	})
	back := a.next(gween.New(1, 0.4, 0.9, ease.InOutSine), func(v float32) {
		g.pulse = float64(v)
	})
	back.addOnFinish(func() {
		g.pulsing = false
		if g.Session.Phase() == game.PhaseMenu {
			g.menuPulse()
		}
	})
}
