package vangogh

import (
	"errors"
	"fmt"

	"github.com/bodgit/vangogh/palette"
	"github.com/bodgit/vangogh/raw"
	"github.com/bodgit/vangogh/vg"
)

// ErrBadIndex is returned when an index falls outside of the palette
var ErrBadIndex = errors.New("vangogh: invalid palette index")

// Decode expands the palette indices of m back into an RGB image. Indices
// beyond the populated part of the palette decode to whatever the slot holds,
// black for the default palette.
func Decode(m *vg.Image) (*raw.Image, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	dst := raw.New(m.Width, m.Height)

	for i, ci := range m.Pix {
		if int(ci) >= palette.Size {
			return nil, fmt.Errorf("%w %d at offset %d", ErrBadIndex, ci, i)
		}
		c := m.Palette.At(int(ci))
		dst.Red[i], dst.Green[i], dst.Blue[i] = c.R, c.G, c.B
	}

	return dst, nil
}
