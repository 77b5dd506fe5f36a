package vg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/bodgit/vangogh/palette"
)

var (
	// ErrCorrupt is returned when the image data is truncated or has
	// trailing data
	ErrCorrupt = errors.New("vg: corrupt image")

	// ErrDimensions is returned when the index buffer does not match the
	// width and height
	ErrDimensions = errors.New("vg: index data does not match dimensions")
)

const maxPrealloc = 1 << 20

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func corrupt(what string, err error) error {
	if err != io.ErrUnexpectedEOF {
		return err
	}
	return fmt.Errorf("%w: short %s", ErrCorrupt, what)
}

type decoder struct {
	r io.Reader

	image *Image

	tmp [palette.Bytes]byte
}

func (d *decoder) readPalette() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return corrupt("palette", err)
	}

	var entries [palette.Size]palette.Color
	for i := range entries {
		entries[i] = palette.Color{
			R: d.tmp[i*3+0],
			G: d.tmp[i*3+1],
			B: d.tmp[i*3+2],
		}
	}
	d.image.Palette = palette.New(entries)

	return nil
}

func (d *decoder) readDimensions() error {
	if err := readFull(d.r, d.tmp[:dimensionBytes*2]); err != nil {
		return corrupt("dimensions", err)
	}

	d.image.Width = binary.BigEndian.Uint32(d.tmp[0:dimensionBytes])
	d.image.Height = binary.BigEndian.Uint32(d.tmp[dimensionBytes : dimensionBytes*2])

	if !fits(d.image.Width, d.image.Height) {
		return fmt.Errorf("%w: %dx%d is too large", ErrCorrupt, d.image.Width, d.image.Height)
	}

	return nil
}

func (d *decoder) readPixels() error {
	// Don't trust the dimensions enough to allocate everything up front
	b := bytes.NewBuffer(make([]byte, 0, min(d.image.Len(), maxPrealloc)))
	n, err := io.CopyN(b, d.r, int64(d.image.Len()))
	if err != nil {
		if err != io.EOF {
			return err
		}
		return fmt.Errorf("%w: short index data, read %d of %d bytes", ErrCorrupt, n, d.image.Len())
	}
	d.image.Pix = b.Bytes()

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r
	d.image = new(Image)

	if err := d.readPalette(); err != nil {
		return err
	}

	if err := d.readDimensions(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	return d.readPixels()
}

// Decode reads a VanGogh image from r. Any data following the image is left
// unread. Index values are not checked against the palette.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a VanGogh image
// without reading the index data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.image.Palette.ColorPalette(),
		Width:      int(d.image.Width),
		Height:     int(d.image.Height),
	}, nil
}

// UnmarshalBinary decodes the image from binary form. Trailing data is
// treated as corruption.
func (m *Image) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	dec, err := Decode(r)
	if err != nil {
		return err
	}

	if r.Len() > 0 {
		return fmt.Errorf("%w: %d bytes of trailing data", ErrCorrupt, r.Len())
	}

	*m = *dec

	return nil
}
