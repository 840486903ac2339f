// Package sevensegment maps counter values onto the three-digit seven-segment displays
// above the board.
package sevensegment

import "fmt"

const (
	// DigitWidth is the width of one digit in pixels.
	DigitWidth = 13
	// DigitHeight is the height of one digit in pixels.
	DigitHeight = 23
	// DigitsPerDisplay is the number of digits in one display.
	DigitsPerDisplay = 3

	// atlasX and atlasY locate the digit grid in the sprite atlas.
	atlasX = 64
	atlasY = 0
	// gridColumns is the number of digits per row of the digit grid.
	gridColumns = 4
)

// Display names one of the two displays.
type Display uint8

const (
	// MinesUnflagged is the left display, counting mines minus flags.
	MinesUnflagged Display = iota
	// Timer is the right display, counting seconds since the first click.
	Timer
)

func (d Display) String() string {
	switch d {
	case MinesUnflagged:
		return "MinesUnflagged"
	case Timer:
		return "Timer"
	}
	return fmt.Sprintf("Display(%d)", uint8(d))
}

// Image is what one digit shows.
type Image uint8

const (
	Zero Image = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Blank
	Negative
)

func (i Image) String() string {
	switch {
	case i <= Nine:
		return fmt.Sprintf("%d", uint8(i))
	case i == Blank:
		return "Blank"
	case i == Negative:
		return "Negative"
	}
	return fmt.Sprintf("Image(%d)", uint8(i))
}

// Digit returns the image of the decimal digit d. d must be in [0, 9].
func Digit(d int) Image {
	if d < 0 || d > 9 {
		panic(fmt.Sprintf("sevensegment: %d is not a decimal digit", d))
	}
	return Image(d)
}

// Images returns the three digits, most significant first, shown for val.
// Values above 998 show 999 and values below -98 show -99.
func Images(val int) [DigitsPerDisplay]Image {
	switch {
	case val >= 999:
		return [DigitsPerDisplay]Image{Nine, Nine, Nine}
	case val <= -99:
		return [DigitsPerDisplay]Image{Negative, Nine, Nine}
	}

	mag := val
	if mag < 0 {
		mag = -mag
	}
	ones := Digit(mag % 10)

	tens := Blank
	switch {
	case mag > 9:
		tens = Digit(mag / 10 % 10)
	case val < 0:
		tens = Negative
	}

	hundreds := Blank
	switch {
	case mag > 9 && val < 0:
		hundreds = Negative
	case val < 0 || mag < 100:
	default:
		hundreds = Digit(mag / 100)
	}

	return [DigitsPerDisplay]Image{hundreds, tens, ones}
}

// AtlasOrigin returns the top-left pixel of img in the sprite atlas. Digits fill a
// four-column grid in reading order, followed by Blank and Negative.
func AtlasOrigin(img Image) (x, y int) {
	cell := int(img)
	if img > Negative {
		cell = int(Blank)
	}
	return atlasX + cell%gridColumns*DigitWidth, atlasY + cell/gridColumns*DigitHeight
}
