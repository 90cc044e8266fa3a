package grayio

import (
	"fmt"
	"image"
	"strings"
)

// allocSize validates a rows-by-rowBytes buffer shape and returns its
// element count. Zero and negative sizes are rejected, as are products past
// maxDim, the bound that keeps all row arithmetic in range.
func allocSize(rowBytes, rows int) (int, error) {
	if rowBytes <= 0 || rows <= 0 || rowBytes > maxDim || rows > maxDim {
		return 0, fmt.Errorf("%w: %dx%d", ErrAllocation, rowBytes, rows)
	}
	n := int64(rowBytes) * int64(rows)
	if n > maxDim {
		return 0, fmt.Errorf("%w: %dx%d", ErrAllocation, rowBytes, rows)
	}
	return int(n), nil
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// fromGray adopts a decoded image.Gray, copying only when the stride does
// not match the canonical packed layout.
func fromGray(g *image.Gray) *Image {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	if g.Stride == w && len(g.Pix) == w*h {
		return &Image{Width: w, Height: h, Pix: g.Pix}
	}
	im := &Image{Width: w, Height: h, Pix: make([]byte, w*h)}
	for y := 0; y < h; y++ {
		copy(im.Pix[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
	}
	return im
}

// toGray wraps im for the standard image codecs without copying pixels.
func toGray(im *Image) *image.Gray {
	return &image.Gray{
		Pix:    im.Pix,
		Stride: im.Width,
		Rect:   image.Rect(0, 0, im.Width, im.Height),
	}
}
