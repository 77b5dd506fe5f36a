/*
Package vg implements the VanGogh image file format.

A VanGogh image is a palette of 255 RGB colors and one palette index per
pixel. The file is written as 765 bytes of palette, three bytes per color in
R, G, B order, followed by the width and height each as a big-endian 32-bit
value and finally one byte of palette index for each pixel in row-major
order. There is no compression so a file is always 773 + width * height bytes
in size.
*/
package vg

import (
	"image"
	"image/color"
	"math"

	"github.com/bodgit/vangogh/palette"
)

const (
	// Extension is the expected file extension
	Extension = ".vg"

	dimensionBytes = 4
	headerBytes    = palette.Bytes + dimensionBytes*2
)

// Size returns the number of bytes used to store an image of the given
// dimensions.
func Size(width, height uint32) int64 {
	return headerBytes + int64(width)*int64(height)
}

// Image is an encoded VanGogh image. It implements the image.Image interface
// and the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type Image struct {
	Palette palette.Palette
	Width   uint32
	Height  uint32

	// Pix holds one palette index per pixel
	Pix []byte
}

// fits reports whether width * height pixels can be addressed with an int
func fits(width, height uint32) bool {
	return uint64(width)*uint64(height) <= math.MaxInt
}

// New returns an image with every pixel set to palette index 0. It panics if
// width * height overflows an int, images read by Decode never do.
func New(p palette.Palette, width, height uint32) *Image {
	return &Image{
		Palette: p,
		Width:   width,
		Height:  height,
		Pix:     make([]byte, int(width)*int(height)),
	}
}

// Len returns the number of pixels, or -1 if that overflows an int
func (m *Image) Len() int {
	if !fits(m.Width, m.Height) {
		return -1
	}
	return int(uint64(m.Width) * uint64(m.Height))
}

// Validate checks the index buffer holds exactly one byte per pixel.
func (m *Image) Validate() error {
	if len(m.Pix) != m.Len() {
		return ErrDimensions
	}
	return nil
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return m.Palette.ColorPalette()
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.Width), int(m.Height))
}

// At implements the image.Image interface. Index 255 has no palette slot and
// is returned as black.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return palette.Color{}
	}
	ci := int(m.Pix[y*int(m.Width)+x])
	if ci >= palette.Size {
		return palette.Color{}
	}
	return m.Palette.At(ci)
}

// ColorIndexAt returns the palette index of the pixel at (x, y)
func (m *Image) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return 0
	}
	return m.Pix[y*int(m.Width)+x]
}
