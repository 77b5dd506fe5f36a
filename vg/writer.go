package vg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) encode(m *Image) error {
	// Write out palette including any unused slots
	for _, c := range m.Palette.Entries() {
		if _, err := e.w.Write([]byte{c.R, c.G, c.B}); err != nil {
			return err
		}
	}

	// Write out dimensions
	var tmp [dimensionBytes]byte
	for _, v := range []uint32{m.Width, m.Height} {
		binary.BigEndian.PutUint32(tmp[:], v)
		if _, err := e.w.Write(tmp[:]); err != nil {
			return err
		}
	}

	// Write out palette indices
	if _, err := e.w.Write(m.Pix); err != nil {
		return err
	}

	return e.w.Flush()
}

// Encode writes the Image m to w in VanGogh format. Nothing is written if
// the index data does not match the dimensions.
func Encode(w io.Writer, m *Image) error {
	if err := m.Validate(); err != nil {
		return err
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(m)
}

// MarshalBinary encodes the image into binary form and returns the result
func (m *Image) MarshalBinary() ([]byte, error) {
	b := bytes.NewBuffer(make([]byte, 0, Size(m.Width, m.Height)))
	if err := Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
