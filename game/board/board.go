// Package board lays out the minesweeper window as one sprite batch: the 9-slice frame,
// the two seven-segment displays and one quad per cell. Board pixels have their origin
// at the bottom-left corner with y pointing up.
package board

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-sweeper/engine/sprite"
	"github.com/Carmen-Shannon/oxy-sweeper/game/minesweeper"
	"github.com/Carmen-Shannon/oxy-sweeper/game/sevensegment"
)

const (
	// CellSize is the side of one cell in pixels.
	CellSize = 16

	// FrameInsetX and FrameInsetY place the digits inside the display bar.
	FrameInsetX = (displayBarHeight-sevensegment.DigitHeight)/2 - 1
	FrameInsetY = (displayBarHeight - sevensegment.DigitHeight) / 2

	// FrameAtlasX and FrameAtlasY locate the frame slices in the sprite atlas.
	FrameAtlasX = 95
	FrameAtlasY = 69

	// FirstCellIndex is the instance index of the cell at row 0, column 0.
	FirstCellIndex = frameSlices + 2*sevensegment.DigitsPerDisplay

	// texInset shrinks every texture rectangle so nearest sampling never reaches the neighbouring sprite.
	texInset = 0.002

	displayBarHeight = 33
	frameSlices      = 15
)

var (
	// FrameWidths are the left and right border widths in pixels.
	FrameWidths = [2]int{12, 8}
	// FrameHeights are the bottom border, the bar separator, the display bar and the top border, bottom up.
	FrameHeights = [4]int{8, 11, displayBarHeight, 12}

	// frameTexX and frameTexW are the three slice columns in the frame texture, left to right.
	frameTexX = [3]int{0, 12, 13}
	frameTexW = [3]int{12, 1, 8}
	// frameTexY and frameTexH are the five slice rows in the frame texture, top down.
	frameTexY = [5]int{0, 12, 13, 24, 25}
	frameTexH = [5]int{12, 1, 11, 1, 8}

	// FrameAtlasSize is the size of the frame texture.
	FrameAtlasSize = image.Pt(frameTexX[2]+frameTexW[2], frameTexY[4]+frameTexH[4])
)

// ErrAtlasTooSmall is returned when the atlas cannot hold every sprite the board uses.
var ErrAtlasTooSmall = errors.New("board: atlas too small")

// MinAtlasSize is the smallest atlas holding the cell, digit and frame sprites.
func MinAtlasSize() image.Point {
	digitsX, _ := sevensegment.AtlasOrigin(sevensegment.Three)
	_, questionY := CellAtlasOrigin(minesweeper.QuestionMarked)
	return image.Pt(
		max(4*CellSize, digitsX+sevensegment.DigitWidth, FrameAtlasX+FrameAtlasSize.X),
		max(questionY+CellSize, 3*sevensegment.DigitHeight, FrameAtlasY+FrameAtlasSize.Y),
	)
}

// PixelSize returns the board size in pixels for a grid of width by height cells.
func PixelSize(width, height int) (w, h int) {
	return width*CellSize + FrameWidths[0] + FrameWidths[1],
		height*CellSize + FrameHeights[0] + FrameHeights[1] + FrameHeights[2] + FrameHeights[3]
}

// CellAtlasOrigin returns the top-left pixel of a cell image in the sprite atlas.
// Numbers fill a four-column grid, followed by the three covered states stacked in column 0.
func CellAtlasOrigin(img minesweeper.CellImage) (x, y int) {
	switch img {
	case minesweeper.Hidden:
		return 0, 3 * CellSize
	case minesweeper.Flagged:
		return 0, 4 * CellSize
	case minesweeper.QuestionMarked:
		return 0, 5 * CellSize
	}
	i := int(img)
	return i % 4 * CellSize, i / 4 * CellSize
}

// Board is the sprite layout of one minesweeper grid.
// Thread-safe for concurrent access.
type Board interface {
	// Width returns the number of columns.
	Width() int

	// Height returns the number of rows.
	Height() int

	// PixelSize returns the whole window content size in pixels, frame included.
	PixelSize() (w, h int)

	// Batch returns the sprite batch. Instance order is the frame, the mines display,
	// the timer, then cells row by row.
	Batch() sprite.Batch

	// SetCell changes the sprite of one cell.
	//
	// Parameters:
	//   - pos: the cell
	//   - img: the image to show
	SetCell(pos minesweeper.Pos, img minesweeper.CellImage)

	// SetCells applies a list of changes in order.
	//
	// Parameters:
	//   - changes: the changes reported by the game
	SetCells(changes []minesweeper.Change)

	// ResetGrid shows every cell as Hidden.
	ResetGrid()

	// SetDisplay shows value on one of the displays.
	//
	// Parameters:
	//   - d: the display
	//   - value: the value, clamped to [-99, 999]
	SetDisplay(d sevensegment.Display, value int)

	// CellAt maps a point in board clip space to the cell under it.
	//
	// Parameters:
	//   - clipX, clipY: the point, where (-1, -1) is the bottom-left of the board
	//
	// Returns:
	//   - minesweeper.Pos: the cell
	//   - bool: false if the point is outside the grid
	CellAt(clipX, clipY float32) (minesweeper.Pos, bool)
}

type board struct {
	mu *sync.Mutex

	width, height int
	pixelW        int
	pixelH        int
	atlas         image.Point

	batch sprite.Batch
}

var _ Board = &board{}

// NewBoard lays out a width by height grid with every cell hidden, the mines display showing
// mines and the timer showing 0.
//
// Parameters:
//   - width, height: the grid size in cells
//   - mines: the initial mines display value
//   - atlasSize: the size of the sprite atlas in pixels
//
// Returns:
//   - Board: the new board
//   - error: ErrAtlasTooSmall if the atlas cannot hold every sprite, or an error for an empty grid
func NewBoard(width, height, mines int, atlasSize image.Point) (Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("board: invalid grid %dx%d", width, height)
	}
	if need := MinAtlasSize(); atlasSize.X < need.X || atlasSize.Y < need.Y {
		return nil, fmt.Errorf("%w: %v, need at least %v", ErrAtlasTooSmall, atlasSize, need)
	}

	b := &board{
		mu:     &sync.Mutex{},
		width:  width,
		height: height,
		atlas:  atlasSize,
	}
	b.pixelW, b.pixelH = PixelSize(width, height)
	b.batch = sprite.NewBatch(
		fmt.Sprintf("board_%dx%d", width, height),
		sprite.WithInstances(b.build(mines)),
	)
	return b, nil
}

func (b *board) Width() int  { return b.width }
func (b *board) Height() int { return b.height }

func (b *board) PixelSize() (w, h int) { return b.pixelW, b.pixelH }

func (b *board) Batch() sprite.Batch { return b.batch }

// build returns every instance in draw order.
func (b *board) build(mines int) []sprite.GPUInstance {
	instances := make([]sprite.GPUInstance, 0, FirstCellIndex+b.width*b.height)

	gridW := b.width * CellSize
	gridH := b.height * CellSize
	columnX := [3]int{0, FrameWidths[0], FrameWidths[0] + gridW}
	columnW := [3]int{FrameWidths[0], gridW, FrameWidths[1]}
	// rows top down
	rowY := [5]int{
		FrameHeights[0] + gridH + FrameHeights[1] + FrameHeights[2],
		FrameHeights[0] + gridH + FrameHeights[1],
		FrameHeights[0] + gridH,
		FrameHeights[0],
		0,
	}
	rowH := [5]int{FrameHeights[3], FrameHeights[2], FrameHeights[1], gridH, FrameHeights[0]}

	for r := range rowY {
		for c := range columnX {
			instances = append(instances, b.instance(
				image.Pt(columnX[c], rowY[r]),
				image.Pt(columnW[c], rowH[r]),
				image.Pt(FrameAtlasX+frameTexX[c], FrameAtlasY+frameTexY[r]),
				image.Pt(frameTexW[c], frameTexH[r]),
			))
		}
	}

	for _, d := range []sevensegment.Display{sevensegment.MinesUnflagged, sevensegment.Timer} {
		value := 0
		if d == sevensegment.MinesUnflagged {
			value = mines
		}
		origin := b.displayOrigin(d)
		for i, img := range sevensegment.Images(value) {
			tx, ty := sevensegment.AtlasOrigin(img)
			instances = append(instances, b.instance(
				origin.Add(image.Pt(i*sevensegment.DigitWidth, 0)),
				image.Pt(sevensegment.DigitWidth, sevensegment.DigitHeight),
				image.Pt(tx, ty),
				image.Pt(sevensegment.DigitWidth, sevensegment.DigitHeight),
			))
		}
	}

	hx, hy := CellAtlasOrigin(minesweeper.Hidden)
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			instances = append(instances, b.instance(
				image.Pt(FrameWidths[0]+col*CellSize, FrameHeights[0]+row*CellSize),
				image.Pt(CellSize, CellSize),
				image.Pt(hx, hy),
				image.Pt(CellSize, CellSize),
			))
		}
	}
	return instances
}

// displayOrigin returns the bottom-left pixel of a display's first digit.
func (b *board) displayOrigin(d sevensegment.Display) image.Point {
	y := FrameHeights[0] + b.height*CellSize + FrameHeights[1] + FrameInsetY
	if d == sevensegment.Timer {
		width := sevensegment.DigitsPerDisplay * sevensegment.DigitWidth
		return image.Pt(FrameWidths[0]+b.width*CellSize-FrameInsetX-width, y)
	}
	return image.Pt(FrameWidths[0]+FrameInsetX, y)
}

// instance converts a board rectangle and an atlas rectangle, both in pixels, into a sprite instance.
func (b *board) instance(pos, size, texPos, texSize image.Point) sprite.GPUInstance {
	halfW := float32(b.pixelW) / 2
	halfH := float32(b.pixelH) / 2
	return sprite.GPUInstance{
		VertexTranslation: [2]float32{(float32(pos.X) - halfW) / halfW, (float32(pos.Y) - halfH) / halfH},
		VertexScale:       [2]float32{float32(size.X) / halfW, float32(size.Y) / halfH},
		TexTranslation:    b.texTranslation(texPos.X, texPos.Y),
		TexScale: [2]float32{
			(float32(texSize.X) - texInset) / float32(b.atlas.X),
			(float32(texSize.Y) - texInset) / float32(b.atlas.Y),
		},
	}
}

func (b *board) texTranslation(x, y int) [2]float32 {
	return [2]float32{float32(x) / float32(b.atlas.X), float32(y) / float32(b.atlas.Y)}
}

func (b *board) cellIndex(pos minesweeper.Pos) (int, bool) {
	if pos.Row < 0 || pos.Row >= b.height || pos.Col < 0 || pos.Col >= b.width {
		return 0, false
	}
	return FirstCellIndex + pos.Col + pos.Row*b.width, true
}

func (b *board) SetCell(pos minesweeper.Pos, img minesweeper.CellImage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCellLocked(pos, img)
}

func (b *board) setCellLocked(pos minesweeper.Pos, img minesweeper.CellImage) {
	i, ok := b.cellIndex(pos)
	if !ok {
		return
	}
	tex := b.texTranslation(CellAtlasOrigin(img))
	b.batch.UpdateInstance(i, func(inst *sprite.GPUInstance) {
		inst.TexTranslation = tex
	})
}

func (b *board) SetCells(changes []minesweeper.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range changes {
		b.setCellLocked(c.Pos, c.Image)
	}
}

func (b *board) ResetGrid() {
	b.mu.Lock()
	defer b.mu.Unlock()
	tex := b.texTranslation(CellAtlasOrigin(minesweeper.Hidden))
	for i := FirstCellIndex; i < FirstCellIndex+b.width*b.height; i++ {
		b.batch.UpdateInstance(i, func(inst *sprite.GPUInstance) {
			inst.TexTranslation = tex
		})
	}
}

func (b *board) SetDisplay(d sevensegment.Display, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	first := frameSlices
	if d == sevensegment.Timer {
		first += sevensegment.DigitsPerDisplay
	}
	for i, img := range sevensegment.Images(value) {
		tex := b.texTranslation(sevensegment.AtlasOrigin(img))
		b.batch.UpdateInstance(first+i, func(inst *sprite.GPUInstance) {
			inst.TexTranslation = tex
		})
	}
}

func (b *board) CellAt(clipX, clipY float32) (minesweeper.Pos, bool) {
	px := (float64(clipX)+1)/2*float64(b.pixelW) - float64(FrameWidths[0])
	py := (float64(clipY)+1)/2*float64(b.pixelH) - float64(FrameHeights[0])
	if px < 0 || py < 0 || math.IsNaN(px) || math.IsNaN(py) {
		return minesweeper.Pos{}, false
	}
	pos := minesweeper.Pos{
		Row: int(py / CellSize),
		Col: int(px / CellSize),
	}
	if pos.Row >= b.height || pos.Col >= b.width {
		return minesweeper.Pos{}, false
	}
	return pos, true
}
