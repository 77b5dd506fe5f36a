package raw

import (
	"bufio"
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
)

// PNG color types from the IHDR chunk
const (
	pngGrayscale      = 0
	pngTruecolor      = 2
	pngIndexed        = 3
	pngGrayscaleAlpha = 4
	pngTruecolorAlpha = 6
)

const (
	pngSignature = "\x89PNG\r\n\x1a\n"

	// Signature, chunk length, chunk type, width, height, bit depth
	colorTypeOffset = 8 + 4 + 4 + 4 + 4 + 1
)

func colorType(br *bufio.Reader) (byte, error) {
	b, err := br.Peek(colorTypeOffset + 1)
	if err != nil {
		if err != io.EOF {
			return 0, err
		}
		return 0, fmt.Errorf("%w: not a PNG image", ErrUnsupported)
	}
	if !bytes.Equal(b[:len(pngSignature)], []byte(pngSignature)) || string(b[12:16]) != "IHDR" {
		return 0, fmt.Errorf("%w: not a PNG image", ErrUnsupported)
	}
	return b[colorTypeOffset], nil
}

// Decode reads a PNG image from r. Grayscale and indexed color images are
// rejected with ErrUnsupported.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	ct, err := colorType(br)
	if err != nil {
		return nil, err
	}

	switch ct {
	case pngTruecolor, pngTruecolorAlpha:
	case pngGrayscale:
		return nil, fmt.Errorf("%w: grayscale color mode", ErrUnsupported)
	case pngGrayscaleAlpha:
		return nil, fmt.Errorf("%w: grayscale with alpha color mode", ErrUnsupported)
	case pngIndexed:
		return nil, fmt.Errorf("%w: indexed color mode", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: color type %d", ErrUnsupported, ct)
	}

	m, err := png.Decode(br)
	if err != nil {
		return nil, err
	}

	return FromImage(m), nil
}

// Encode writes the image to w as an RGB PNG image.
func Encode(w io.Writer, m *Image) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return png.Encode(w, m.RGBA())
}

// ReadFile decodes the PNG image at path.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile writes the image to path as a PNG image.
func WriteFile(path string, m *Image) error {
	if err := m.Validate(); err != nil {
		return err
	}

	return createFile(path, func(w io.Writer) error {
		return Encode(w, m)
	})
}

// createFile writes path using encode, removing it again if anything fails
func createFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}

	return nil
}
