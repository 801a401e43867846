package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
)

// Nine draws a nine-patch panel. Without an image it falls back to a plain
// rectangle so a missing asset never blocks the menu.
type Nine struct {
	images         *ebiten.Image
	alpha          float64
	R, G, B, Scale float64
	// source x and y cuts: outer edge, inner corner, inner corner, outer edge
	positions           [4][2]int
	x, y, width, height int
	targetPositions     [4][2]float64
}

func NewNine(img *ebiten.Image, corner int, scale float64) *Nine {
	n := &Nine{images: img, alpha: 1, R: 1, G: 1, B: 1, Scale: scale}
	if img != nil {
		w, h := img.Size()
		n.positions = [4][2]int{{0, 0}, {corner, corner}, {w - corner, h - corner}, {w, h}}
	}
	return n
}

func (n *Nine) SetColor(r, g, b, alpha float64) {
	n.R, n.G, n.B, n.alpha = r, g, b, alpha
}

func (n *Nine) SetBounds(x, y, width, height int) {
	n.x, n.y = x, y
	n.width, n.height = width, height
	n.targetPositions[0] = [2]float64{float64(x), float64(y)}
	n.targetPositions[1] = [2]float64{
		float64(x) + n.Scale*float64(n.positions[1][0]),
		float64(y) + n.Scale*float64(n.positions[1][1])}
	n.targetPositions[2] = [2]float64{
		float64(x+width) - n.Scale*float64(n.positions[3][0]-n.positions[2][0]),
		float64(y+height) - n.Scale*float64(n.positions[3][1]-n.positions[2][1])}
	n.targetPositions[3] = [2]float64{float64(x + width), float64(y + height)}
}

func (n *Nine) Draw(screen *ebiten.Image) {
	if n.images == nil {
		ebitenutil.DrawRect(screen, float64(n.x), float64(n.y), float64(n.width), float64(n.height), color.RGBA{
			R: uint8(n.R * 0x30), G: uint8(n.G * 0x30), B: uint8(n.B * 0x50), A: uint8(n.alpha * 0xe0)})
		return
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			src := image.Rect(
				n.positions[col][0], n.positions[row][1],
				n.positions[col+1][0], n.positions[row+1][1])
			if src.Empty() {
				continue
			}
			sx := (n.targetPositions[col+1][0] - n.targetPositions[col][0]) / float64(src.Dx())
			sy := (n.targetPositions[row+1][1] - n.targetPositions[row][1]) / float64(src.Dy())

			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(sx, sy)
			op.GeoM.Translate(n.targetPositions[col][0], n.targetPositions[row][1])
			op.ColorM.Scale(n.R, n.G, n.B, n.alpha)
			_ = screen.DrawImage(n.images.SubImage(src).(*ebiten.Image), op)
		}
	}
}
