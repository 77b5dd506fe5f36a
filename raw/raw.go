/*
Package raw implements the planar RGB pixel buffer consumed by the VanGogh
encoder and produced by the decoder, along with reading and writing it as a
PNG image.

Only truecolor PNG images, with or without an alpha channel, are supported.
Any alpha channel is composited onto a black background.
*/
package raw

import (
	"errors"
	"image"
	"image/color"
	"math"
)

var (
	// ErrUnsupported is returned for image encodings or color modes that
	// cannot be converted to RGB
	ErrUnsupported = errors.New("raw: unsupported image")

	// ErrDimensions is returned when the planes do not match the width
	// and height
	ErrDimensions = errors.New("raw: plane size does not match dimensions")
)

// Image is an RGB image stored as three separate planes, each holding one
// byte per pixel in row-major order.
type Image struct {
	Red, Green, Blue []byte
	Width, Height    uint32
}

// New returns a black image of the given size. It panics if width * height
// overflows an int.
func New(width, height uint32) *Image {
	n := int(uint64(width) * uint64(height))
	return &Image{
		Red:    make([]byte, n),
		Green:  make([]byte, n),
		Blue:   make([]byte, n),
		Width:  width,
		Height: height,
	}
}

// Len returns the number of pixels, or -1 if that overflows an int
func (m *Image) Len() int {
	n := uint64(m.Width) * uint64(m.Height)
	if n > math.MaxInt {
		return -1
	}
	return int(n)
}

// Validate checks that all three planes hold exactly one byte per pixel.
func (m *Image) Validate() error {
	n := m.Len()
	if len(m.Red) != n || len(m.Green) != n || len(m.Blue) != n {
		return ErrDimensions
	}
	return nil
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.Width), int(m.Height))
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.RGBA{}
	}
	i := y*int(m.Width) + x
	return color.RGBA{m.Red[i], m.Green[i], m.Blue[i], 0xff}
}

// RGBA returns the image interleaved as an *image.RGBA.
func (m *Image) RGBA() *image.RGBA {
	dst := image.NewRGBA(m.Bounds())
	for i := 0; i < m.Len(); i++ {
		dst.Pix[i*4+0] = m.Red[i]
		dst.Pix[i*4+1] = m.Green[i]
		dst.Pix[i*4+2] = m.Blue[i]
		dst.Pix[i*4+3] = 0xff
	}
	return dst
}

func composite(c, a uint8) byte {
	return byte(uint16(c) * uint16(a) / 0xff)
}

// FromImage converts any image to planar RGB, compositing any alpha onto
// black as c * a / 255 using the non-premultiplied channel values.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	m := New(uint32(b.Dx()), uint32(b.Dy()))

	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < b.Dx(); x++ {
				i := y*b.Dx() + x
				a := row[x*4+3]
				m.Red[i] = composite(row[x*4+0], a)
				m.Green[i] = composite(row[x*4+1], a)
				m.Blue[i] = composite(row[x*4+2], a)
			}
		}
		return m
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			i := (y-b.Min.Y)*b.Dx() + (x - b.Min.X)
			m.Red[i] = composite(c.R, c.A)
			m.Green[i] = composite(c.G, c.A)
			m.Blue[i] = composite(c.B, c.A)
		}
	}
	return m
}
