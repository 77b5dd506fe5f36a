package raw

import "github.com/nfnt/resize"

// Resize scales the image to the given size using Lanczos resampling. If one
// of width or height is 0 the aspect ratio is preserved.
func Resize(m *Image, width, height uint) *Image {
	if width == 0 && height == 0 {
		return m
	}
	return FromImage(resize.Resize(width, height, m.RGBA(), resize.Lanczos3))
}
