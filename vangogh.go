/*
Package vangogh is a library for converting images to and from the VanGogh
palette-indexed image format.

Images are quantized onto a fixed palette in square blocks with the colors
of each block chosen so that the average color of the block is preserved as
closely as possible.
*/
package vangogh

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/vangogh/raw"
	"github.com/bodgit/vangogh/vg"
)

type VanGogh struct {
	encoder *Encoder
	logger  *log.Logger
}

func New(encoder *Encoder, logger *log.Logger) *VanGogh {
	return &VanGogh{
		encoder: encoder,
		logger:  logger,
	}
}

func isVG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), vg.Extension)
}

// ReadFile reads the VanGogh image at path. A path without the .vg
// extension is only warned about.
func (v *VanGogh) ReadFile(path string) (*vg.Image, error) {
	if !isVG(path) {
		v.logger.Printf("Warning: \"%s\" does not have a %s extension\n", path, vg.Extension)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return vg.Decode(f)
}

// WriteFile writes m to path in VanGogh format.
func (v *VanGogh) WriteFile(path string, m *vg.Image) error {
	if err := m.Validate(); err != nil {
		return err
	}

	return createFile(path, func(w io.Writer) error {
		return vg.Encode(w, m)
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

// EncodeImage quantizes m and writes the result to dst.
func (v *VanGogh) EncodeImage(m *raw.Image, dst string) error {
	enc, err := v.encoder.Encode(m)
	if err != nil {
		return err
	}

	return v.WriteFile(dst, enc)
}

// EncodeFile converts the PNG image at src to a VanGogh image at dst.
func (v *VanGogh) EncodeFile(src, dst string) error {
	m, err := raw.ReadFile(src)
	if err != nil {
		return err
	}

	v.logger.Printf("Encoding \"%s\" (%dx%d) with %dx%d blocks\n", src, m.Width, m.Height, v.encoder.BlockSize(), v.encoder.BlockSize())

	return v.EncodeImage(m, dst)
}

// DecodeFile converts the VanGogh image at src to a PNG image at dst.
func (v *VanGogh) DecodeFile(src, dst string) error {
	m, err := v.ReadFile(src)
	if err != nil {
		return err
	}

	dec, err := Decode(m)
	if err != nil {
		return err
	}

	v.logger.Printf("Decoding \"%s\" (%dx%d)\n", src, m.Width, m.Height)

	return raw.WriteFile(dst, dec)
}

// Load returns the VanGogh image at path, encoding it first unless the path
// has the .vg extension.
func (v *VanGogh) Load(path string) (*vg.Image, error) {
	if isVG(path) {
		return v.ReadFile(path)
	}

	m, err := raw.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return v.encoder.Encode(m)
}

// Save writes m to path, decoding it to a PNG image unless the path has the
// .vg extension.
func (v *VanGogh) Save(path string, m *vg.Image) error {
	if isVG(path) {
		return v.WriteFile(path, m)
	}

	dec, err := Decode(m)
	if err != nil {
		return err
	}

	return raw.WriteFile(path, dec)
}
