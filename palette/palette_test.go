package palette

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, 125, p.Len())
	assert.Equal(t, Color{0, 0, 0}, p.At(0))
	assert.Equal(t, Color{0, 0, 64}, p.At(1))
	assert.Equal(t, Color{0, 64, 0}, p.At(5))
	assert.Equal(t, Color{64, 0, 0}, p.At(25))
	assert.Equal(t, Color{255, 0, 0}, p.At(100))
	assert.Equal(t, Color{255, 255, 255}, p.At(124))

	for i := 125; i < Size; i++ {
		assert.Equal(t, Color{}, p.At(i), "slot %d", i)
	}
}

func TestAtOutOfRange(t *testing.T) {
	p := Default()
	assert.Panics(t, func() { p.At(Size) })
	assert.Panics(t, func() { p.At(-1) })
	assert.NotPanics(t, func() { p.At(Size - 1) })
}

func TestLevel(t *testing.T) {
	for c := 0; c < 256; c++ {
		want := uint8(math.Round(float64(c) * 4 / 255))
		assert.Equal(t, want, Level(uint8(c)), "channel %d", c)
	}

	tables := []struct {
		c    uint8
		want uint8
	}{
		{0, 0},
		{31, 0},
		{32, 1},
		{95, 1},
		{96, 2},
		{159, 2},
		{160, 3},
		{223, 3},
		{224, 4},
		{255, 4},
	}
	for _, table := range tables {
		assert.Equal(t, table.want, Level(table.c), "channel %d", table.c)
	}
}

func TestNearest(t *testing.T) {
	p := Default()

	// Channels are independent so checking every level combination and
	// every value per channel covers the whole RGB cube
	for c := 0; c < 256; c++ {
		for _, o := range []uint8{0, 127, 255} {
			for _, i := range []uint8{
				Nearest(uint8(c), o, o),
				Nearest(o, uint8(c), o),
				Nearest(o, o, uint8(c)),
			} {
				require.LessOrEqual(t, i, uint8(124))
			}
		}
	}

	assert.Equal(t, uint8(100), Nearest(255, 0, 0))
	assert.Equal(t, uint8(124), Nearest(255, 255, 255))
	assert.Equal(t, uint8(0), Nearest(0, 0, 0))

	// Every grid color maps back onto itself
	for i := 0; i < p.Len(); i++ {
		c := p.At(i)
		assert.Equal(t, uint8(i), Nearest(c.R, c.G, c.B))
	}
}

func TestColorPalette(t *testing.T) {
	p := Default()
	cp := p.ColorPalette()

	require.Len(t, cp, Size)
	assert.Equal(t, 100, cp.Index(color.RGBA{0xff, 0, 0, 0xff}))

	r, g, b, a := cp[124].RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
}

func TestNew(t *testing.T) {
	var entries [Size]Color
	entries[254] = Color{1, 2, 3}

	p := New(entries)
	assert.Equal(t, Size, p.Len())
	assert.Equal(t, Color{1, 2, 3}, p.At(254))
	assert.Equal(t, entries, p.Entries())

	assert.Equal(t, 0, New([Size]Color{}).Len())
	assert.Equal(t, Default(), New(Default().Entries()))
}
