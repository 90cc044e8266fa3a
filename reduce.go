package grayio

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// Reduce returns im downsampled by a factor of 2^levels per axis, the
// resolution tier a Map's Level field refers to. Dimensions round down but
// never below one pixel. Level 0 returns the receiver unchanged.
func Reduce(im *Image, levels int) (*Image, error) {
	if levels < 0 || levels > 30 {
		return nil, fmt.Errorf("grayio: reduction level %d out of range", levels)
	}
	if levels == 0 {
		return im, nil
	}
	w := im.Width >> uint(levels)
	h := im.Height >> uint(levels)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := resize.Resize(uint(w), uint(h), toGray(im), resize.Bilinear)
	g, ok := out.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("grayio: resampler returned %T", out)
	}
	return fromGray(g), nil
}
