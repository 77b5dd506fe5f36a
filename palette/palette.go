/*
Package palette implements the fixed color table used by the VanGogh image
format.

A palette always has exactly 255 slots as the file format reserves 765 bytes
for it regardless of how many colors are actually in use. The default palette
populates the first 125 slots with a uniform 5 by 5 by 5 grid over RGB space,
the remaining slots are left black.
*/
package palette

import (
	"fmt"
	"image/color"
)

const (
	// Size is the number of slots in every palette
	Size = 255

	// Bytes is the size of a serialized palette
	Bytes = Size * 3

	levels = 5
)

// Grid holds the channel values used by the default palette
var Grid = [levels]uint8{0, 64, 128, 191, 255}

// Color is a single palette entry.
type Color struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface. Palette colors are always
// opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// Palette is a fixed-size table of colors.
type Palette struct {
	entries [Size]Color
	n       int
}

// Default returns the uniform grid palette.
func Default() Palette {
	var p Palette
	for _, r := range Grid {
		for _, g := range Grid {
			for _, b := range Grid {
				p.entries[p.n] = Color{r, g, b}
				p.n++
			}
		}
	}
	return p
}

// New wraps a complete table of colors, such as one read back from a file.
// Trailing black slots are not counted as populated.
func New(entries [Size]Color) Palette {
	p := Palette{
		entries: entries,
	}
	for i := Size - 1; i >= 0; i-- {
		if entries[i] != (Color{}) {
			p.n = i + 1
			break
		}
	}
	return p
}

// Len returns the number of populated slots
func (p Palette) Len() int {
	return p.n
}

// Entries returns a copy of every slot, populated or not
func (p Palette) Entries() [Size]Color {
	return p.entries
}

// At returns the color at slot i. It panics if i is outside the table.
func (p Palette) At(i int) Color {
	if i < 0 || i >= Size {
		panic(fmt.Sprintf("palette: index %d out of range", i))
	}
	return p.entries[i]
}

// ColorPalette returns all slots as a color.Palette
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, Size)
	for i, c := range p.entries {
		cp[i] = c
	}
	return cp
}

// Level rounds a channel value to the nearest of the five grid levels,
// round(c * 4 / 255) done in integers. There are no exact ties as 255 is odd.
func Level(c uint8) uint8 {
	return uint8((uint(c)*8 + 255) / 510)
}

// Nearest returns the slot of the default palette closest to the given
// color. The result is always in [0, 124].
func Nearest(r, g, b uint8) uint8 {
	return Level(r)*levels*levels + Level(g)*levels + Level(b)
}
