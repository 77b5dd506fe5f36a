package vangogh

import (
	"errors"

	"github.com/bodgit/vangogh/palette"
	"github.com/bodgit/vangogh/raw"
	"github.com/bodgit/vangogh/vg"
)

// DefaultBlockSize is the block size used when none is given
const DefaultBlockSize = 2

// ErrBlockSize is returned for a block size less than one
var ErrBlockSize = errors.New("vangogh: block size must be positive")

type rgb [3]int

func pixel(m *raw.Image, i int) rgb {
	return rgb{int(m.Red[i]), int(m.Green[i]), int(m.Blue[i])}
}

func fromPalette(c palette.Color) rgb {
	return rgb{int(c.R), int(c.G), int(c.B)}
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	}
	return uint8(v)
}

func (c rgb) nearest() uint8 {
	return palette.Nearest(clamp(c[0]), clamp(c[1]), clamp(c[2]))
}

// accumulator tracks the running average of the palette colors chosen so far
// within a block
type accumulator struct {
	running rgb
	denom   int
}

func seed(c palette.Color) accumulator {
	return accumulator{
		running: fromPalette(c),
		denom:   1,
	}
}

// target returns the color the next pixel needs for the running average to
// land exactly on avg. It can fall outside of the byte range.
func (a accumulator) target(avg rgb) rgb {
	var t rgb
	for i := range t {
		t[i] = avg[i]*(a.denom+1) - a.running[i]*a.denom
	}
	return t
}

// add folds the next chosen color into the running average. Both divisions
// truncate separately.
func (a accumulator) add(c palette.Color) accumulator {
	n := fromPalette(c)
	for i := range a.running {
		a.running[i] = a.running[i]*a.denom/(a.denom+1) + n[i]/(a.denom+1)
	}
	a.denom++
	return a
}

// Encoder quantizes RGB images onto the VanGogh palette block by block. Each
// block of pixels is encoded so that the average of the chosen palette
// colors tracks the average of the original pixels.
type Encoder struct {
	blockSize int
}

// NewEncoder returns an Encoder using square blocks of blockSize pixels.
func NewEncoder(blockSize int) (*Encoder, error) {
	if blockSize < 1 {
		return nil, ErrBlockSize
	}
	return &Encoder{
		blockSize: blockSize,
	}, nil
}

// BlockSize returns the width and height of each block
func (e *Encoder) BlockSize() int {
	return e.blockSize
}

func (e *Encoder) encodeBlock(src *raw.Image, dst *vg.Image, upperLeft int) {
	width := int(src.Width)

	// Every pixel in the block, row-major
	indices := make([]int, 0, e.blockSize*e.blockSize)
	for y := 0; y < e.blockSize; y++ {
		for x := 0; x < e.blockSize; x++ {
			indices = append(indices, upperLeft+y*width+x)
		}
	}

	var avg rgb
	for _, i := range indices {
		p := pixel(src, i)
		for c := range avg {
			avg[c] += p[c]
		}
	}
	for c := range avg {
		avg[c] /= len(indices)
	}

	// The first pixel is just mapped to the closest color
	ci := pixel(src, upperLeft).nearest()
	dst.Pix[upperLeft] = ci
	acc := seed(dst.Palette.At(int(ci)))

	// Each subsequent pixel corrects the error accumulated so far
	for _, i := range indices[1:] {
		ci := acc.target(avg).nearest()
		dst.Pix[i] = ci
		acc = acc.add(dst.Palette.At(int(ci)))
	}
}

// Encode converts m into a VanGogh image with a freshly generated palette.
// Pixels in any trailing rows or columns that do not fill a whole block are
// left at palette index 0.
func (e *Encoder) Encode(m *raw.Image) (*vg.Image, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	dst := vg.New(palette.Default(), m.Width, m.Height)

	width := int(m.Width)
	for by := 0; by < int(m.Height)/e.blockSize; by++ {
		for bx := 0; bx < width/e.blockSize; bx++ {
			e.encodeBlock(m, dst, by*e.blockSize*width+bx*e.blockSize)
		}
	}

	return dst, nil
}

// Encode converts m into a VanGogh image using the default block size.
func Encode(m *raw.Image) (*vg.Image, error) {
	return (&Encoder{blockSize: DefaultBlockSize}).Encode(m)
}
