// Package atlas produces the sprite atlas the board samples from. The atlas is drawn
// procedurally so the binary carries no image assets; a PNG with the same layout can
// replace it.
package atlas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/game/board"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
	"github.com/Carmen-Shannon/oxy-sweeper/game/sevensegment"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size is the side of the generated atlas in pixels.
const Size = 128

var (
	face       = colorRGB(0xc0, 0xc0, 0xc0)
	highlight  = colorRGB(0xff, 0xff, 0xff)
	shadow     = colorRGB(0x80, 0x80, 0x80)
	black      = colorRGB(0x00, 0x00, 0x00)
	red        = colorRGB(0xff, 0x00, 0x00)
	segmentOn  = colorRGB(0xff, 0x00, 0x00)
	segmentOff = colorRGB(0x40, 0x00, 0x00)

	// numberColors are the classic colors for one to eight adjacent mines.
	numberColors = [9]color.RGBA{
		{},
		colorRGB(0x00, 0x00, 0xff),
		colorRGB(0x00, 0x80, 0x00),
		colorRGB(0xff, 0x00, 0x00),
		colorRGB(0x00, 0x00, 0x80),
		colorRGB(0x80, 0x00, 0x00),
		colorRGB(0x00, 0x80, 0x80),
		colorRGB(0x00, 0x00, 0x00),
		colorRGB(0x80, 0x80, 0x80),
	}
)

func colorRGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Generate draws the sprite atlas: the cell tiles, the seven-segment digits and the frame slices,
// each at the atlas position the board and the displays look them up at.
//
// Returns:
//   - *image.RGBA: a Size by Size atlas
func Generate() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))

	for n := 0; n <= 8; n++ {
		drawNumber(img, cellRect(minesweeper.NumberImage(n)), n)
	}
	drawRevealed(img, cellRect(minesweeper.Mine), face)
	drawMine(img, cellRect(minesweeper.Mine))
	drawRevealed(img, cellRect(minesweeper.WronglyFlagged), face)
	drawMine(img, cellRect(minesweeper.WronglyFlagged))
	drawCross(img, cellRect(minesweeper.WronglyFlagged))
	drawRevealed(img, cellRect(minesweeper.SelectedMine), red)
	drawMine(img, cellRect(minesweeper.SelectedMine))

	drawRaised(img, cellRect(minesweeper.Hidden))
	drawRaised(img, cellRect(minesweeper.Flagged))
	drawFlag(img, cellRect(minesweeper.Flagged))
	drawRaised(img, cellRect(minesweeper.QuestionMarked))
	drawGlyph(img, cellRect(minesweeper.QuestionMarked), "?", black)

	for d := sevensegment.Zero; d <= sevensegment.Negative; d++ {
		x, y := sevensegment.AtlasOrigin(d)
		drawDigit(img, image.Rect(x, y, x+sevensegment.DigitWidth, y+sevensegment.DigitHeight), d)
	}

	drawFrame(img, image.Rectangle{
		Min: image.Pt(board.FrameAtlasX, board.FrameAtlasY),
		Max: image.Pt(board.FrameAtlasX, board.FrameAtlasY).Add(board.FrameAtlasSize),
	})

	common.Logger().Debug("atlas generated", "size", img.Rect.Size())
	return img
}

// Load decodes a user-supplied atlas. It must follow the generated layout.
//
// Parameters:
//   - path: the PNG file
//
// Returns:
//   - *image.RGBA: the decoded atlas
//   - error: a decode error, or board.ErrAtlasTooSmall if the image cannot hold every sprite
func Load(path string) (*image.RGBA, error) {
	tex := &common.ImportedTexture{Name: "atlas", Path: path}
	img, err := tex.Decode()
	if err != nil {
		return nil, fmt.Errorf("atlas: %w", err)
	}
	if need := board.MinAtlasSize(); img.Rect.Dx() < need.X || img.Rect.Dy() < need.Y {
		return nil, fmt.Errorf("atlas %s: %w: %v, need at least %v", path, board.ErrAtlasTooSmall, img.Rect.Size(), need)
	}
	return img, nil
}

func cellRect(img minesweeper.CellImage) image.Rectangle {
	x, y := board.CellAtlasOrigin(img)
	return image.Rect(x, y, x+board.CellSize, y+board.CellSize)
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawRevealed fills an uncovered tile: a flat face with a one pixel shadow on the top and left.
func drawRevealed(img *image.RGBA, r image.Rectangle, bg color.RGBA) {
	fill(img, r, bg)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), shadow)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), shadow)
}

// drawRaised fills a covered tile with a two pixel bevel.
func drawRaised(img *image.RGBA, r image.Rectangle) {
	fill(img, r, face)
	for i := 0; i < 2; i++ {
		fill(img, image.Rect(r.Min.X, r.Max.Y-1-i, r.Max.X, r.Max.Y-i), shadow)
		fill(img, image.Rect(r.Max.X-1-i, r.Min.Y, r.Max.X-i, r.Max.Y), shadow)
		fill(img, image.Rect(r.Min.X, r.Min.Y+i, r.Max.X-1-i, r.Min.Y+i+1), highlight)
		fill(img, image.Rect(r.Min.X+i, r.Min.Y, r.Min.X+i+1, r.Max.Y-1-i), highlight)
	}
}

func drawNumber(img *image.RGBA, r image.Rectangle, n int) {
	drawRevealed(img, r, face)
	if n == 0 {
		return
	}
	drawGlyph(img, r, fmt.Sprint(n), numberColors[n])
}

// drawGlyph centers one basicfont glyph in r, drawn twice one pixel apart for weight.
func drawGlyph(img *image.RGBA, r image.Rectangle, s string, c color.RGBA) {
	f := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: f,
	}
	advance := d.MeasureString(s).Ceil()
	x := r.Min.X + (r.Dx()-advance-1)/2
	baseline := r.Min.Y + (r.Dy()-f.Height)/2 + f.Ascent
	for dx := 0; dx < 2; dx++ {
		d.Dot = fixed.P(x+dx, baseline)
		d.DrawString(s)
	}
}

func drawMine(img *image.RGBA, r image.Rectangle) {
	cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
	for y := -5; y <= 5; y++ {
		for x := -5; x <= 5; x++ {
			if x*x+y*y <= 16 || (x == 0 || y == 0) && x*x+y*y <= 25 {
				img.SetRGBA(cx+x, cy+y, black)
			}
		}
	}
	fill(img, image.Rect(cx-2, cy-2, cx, cy), highlight)
}

func drawCross(img *image.RGBA, r image.Rectangle) {
	for i := 3; i < r.Dx()-3; i++ {
		img.SetRGBA(r.Min.X+i, r.Min.Y+i, red)
		img.SetRGBA(r.Min.X+i+1, r.Min.Y+i, red)
		img.SetRGBA(r.Max.X-1-i, r.Min.Y+i, red)
		img.SetRGBA(r.Max.X-i, r.Min.Y+i, red)
	}
}

func drawFlag(img *image.RGBA, r image.Rectangle) {
	x, y := r.Min.X, r.Min.Y
	// pennant
	for row := 0; row < 5; row++ {
		half := 2 - abs(row-2)
		fill(img, image.Rect(x+8-2-2*half, y+3+row, x+9, y+4+row), red)
	}
	// pole and base
	fill(img, image.Rect(x+8, y+3, x+9, y+11), black)
	fill(img, image.Rect(x+6, y+10, x+10, y+11), black)
	fill(img, image.Rect(x+4, y+11, x+12, y+13), black)
}

// Segment masks, bit order a..g: top, top right, bottom right, bottom, bottom left, top left, middle.
var segments = [...]uint8{
	sevensegment.Zero:     0b0111111,
	sevensegment.One:      0b0000110,
	sevensegment.Two:      0b1011011,
	sevensegment.Three:    0b1001111,
	sevensegment.Four:     0b1100110,
	sevensegment.Five:     0b1101101,
	sevensegment.Six:      0b1111101,
	sevensegment.Seven:    0b0000111,
	sevensegment.Eight:    0b1111111,
	sevensegment.Nine:     0b1101111,
	sevensegment.Blank:    0,
	sevensegment.Negative: 0b1000000,
}

// drawDigit draws one seven-segment digit on a black background with unlit segments dimmed.
func drawDigit(img *image.RGBA, r image.Rectangle, d sevensegment.Image) {
	fill(img, r, black)

	x0, x1 := r.Min.X+2, r.Max.X-2
	y0, ym, y1 := r.Min.Y+1, r.Min.Y+r.Dy()/2, r.Max.Y-1
	const t = 2
	bars := [7]image.Rectangle{
		image.Rect(x0+1, y0, x1-1, y0+t),     // a
		image.Rect(x1-t, y0+1, x1, ym),       // b
		image.Rect(x1-t, ym+1, x1, y1-1),     // c
		image.Rect(x0+1, y1-t, x1-1, y1),     // d
		image.Rect(x0, ym+1, x0+t, y1-1),     // e
		image.Rect(x0, y0+1, x0+t, ym),       // f
		image.Rect(x0+1, ym-1, x1-1, ym-1+t), // g
	}
	mask := segments[d]
	for i, bar := range bars {
		c := segmentOff
		if mask&(1<<i) != 0 {
			c = segmentOn
		}
		fill(img, bar, c)
	}
}

// drawFrame draws the 9-slice frame texture. Column 1 and rows 1 and 3 are one pixel
// wide and get stretched, so they carry the edge profile of the display bar and the grid.
func drawFrame(img *image.RGBA, r image.Rectangle) {
	fill(img, r, face)
	x, y := r.Min.X, r.Min.Y
	w, h := r.Dx(), r.Dy()
	rect := func(x0, y0, x1, y1 int) image.Rectangle {
		return image.Rect(x+x0, y+y0, x+x1, y+y1)
	}

	// outer bevel
	fill(img, rect(0, 0, w, 3), highlight)
	fill(img, rect(0, 0, 3, h), highlight)

	// sunken edges around the display bar (row 12) and the grid (row 24)
	for _, inset := range []struct{ top, row, bottom int }{{9, 12, 13}, {21, 24, 25}} {
		fill(img, rect(9, inset.top, w, inset.row), shadow)
		fill(img, rect(9, inset.row, 12, inset.row+1), shadow)
		fill(img, rect(13, inset.row, 16, inset.row+1), highlight)
		fill(img, rect(12, inset.row, 13, inset.row+1), face)
		fill(img, rect(9, inset.bottom, 16, inset.bottom+3), highlight)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
