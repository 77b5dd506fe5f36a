package raw

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, m image.Image) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	return b.Bytes()
}

func TestDecode(t *testing.T) {
	rgb := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range rgb.Pix {
		rgb.Pix[i] = 0xff
	}
	rgb.SetRGBA(1, 1, color.RGBA{10, 20, 30, 0xff})

	nrgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	nrgba.SetNRGBA(0, 0, color.NRGBA{0xff, 0xff, 0xff, 0x80})

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	paletted := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black, color.White})

	// Go never writes grayscale with alpha so patch the IHDR color type,
	// the CRC is never checked as the image is rejected first
	grayAlpha := encodePNG(t, rgb)
	grayAlpha[colorTypeOffset] = pngGrayscaleAlpha

	tables := []struct {
		name string
		b    []byte
		err  error
		want *Image
	}{
		{
			name: "rgb",
			b:    encodePNG(t, rgb),
			want: &Image{
				Red:    []byte{0xff, 0xff, 0xff, 10},
				Green:  []byte{0xff, 0xff, 0xff, 20},
				Blue:   []byte{0xff, 0xff, 0xff, 30},
				Width:  2,
				Height: 2,
			},
		},
		{
			name: "rgba",
			b:    encodePNG(t, nrgba),
			want: &Image{
				Red:    []byte{0x80},
				Green:  []byte{0x80},
				Blue:   []byte{0x80},
				Width:  1,
				Height: 1,
			},
		},
		{
			name: "gray",
			b:    encodePNG(t, gray),
			err:  ErrUnsupported,
		},
		{
			name: "gray alpha",
			b:    grayAlpha,
			err:  ErrUnsupported,
		},
		{
			name: "paletted",
			b:    encodePNG(t, paletted),
			err:  ErrUnsupported,
		},
		{
			name: "not png",
			b:    bytes.Repeat([]byte{'x'}, 64),
			err:  ErrUnsupported,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m, err := Decode(bytes.NewReader(table.b))
			if table.err != nil {
				assert.ErrorIs(t, err, table.err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.want, m)
		})
	}
}

func TestDecodeShort(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte(pngSignature)))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFileRoundTrip(t *testing.T) {
	m := New(3, 2)
	for i := range m.Red {
		m.Red[i] = byte(i * 40)
		m.Green[i] = byte(255 - i)
		m.Blue[i] = byte(i)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, WriteFile(path, m))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestCreateFileFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.png")

	err := createFile(path, func(w io.Writer) error {
		if _, err := w.Write([]byte(pngSignature)); err != nil {
			return err
		}
		return errors.New("encode failed")
	})
	assert.EqualError(t, err, "encode failed")
	assert.NoFileExists(t, path)
}

func TestWriteFileInvalid(t *testing.T) {
	m := New(2, 2)
	m.Blue = nil

	path := filepath.Join(t.TempDir(), "out.png")
	assert.ErrorIs(t, WriteFile(path, m), ErrDimensions)
	assert.NoFileExists(t, path)
}
