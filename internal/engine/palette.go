package engine

import (
	"fmt"
	"unicode/utf8"
)

// RGB is a bar color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

const (
	channelLow  = 100
	channelHigh = 255
)

// palette channel codes: '1' is a high channel, '0' a low one.
var palette = [...]string{"100", "110", "010", "011", "001", "101"}

// ColorKey staggers colors: first letter of the course + row + position in row.
// Neighbouring bars, both across rows and along a row, get consecutive keys.
func ColorKey(course string, row, item int) int {
	r, _ := utf8.DecodeRuneInString(course)
	if r == utf8.RuneError {
		r = 0
	}
	return int(r) + row + item
}

// ColorFor maps a color key onto the fixed palette.
func ColorFor(key int) RGB {
	n := len(palette)
	code := palette[((key%n)+n)%n]

	ch := func(b byte) uint8 {
		if b == '1' {
			return channelHigh
		}
		return channelLow
	}
	return RGB{R: ch(code[0]), G: ch(code[1]), B: ch(code[2])}
}

// difficultyScale runs from easy to hard: springgreen, chartreuse, yellow,
// orange, red.
var difficultyScale = [...]RGB{
	{R: 0, G: 255, B: 127},
	{R: 127, G: 255, B: 0},
	{R: 255, G: 255, B: 0},
	{R: 255, G: 165, B: 0},
	{R: 255, G: 0, B: 0},
}

// DifficultyColor returns the scale color of level 1..5. ok is false for
// any other level, including 0 (unknown).
func DifficultyColor(level int) (c RGB, ok bool) {
	if level < 1 || level > len(difficultyScale) {
		return RGB{}, false
	}
	return difficultyScale[level-1], true
}
