package grayio

// Region returns the pixels inside win as an image of exactly the window's
// size. Rows and columns outside the source frame read as zero. When win
// covers the whole frame the receiver itself is returned and shares Pix
// with the caller's image.
func (im *Image) Region(win Window) (*Image, error) {
	if win.covers(im.Width, im.Height) {
		return im, nil
	}
	x0, x1, y0, y1, err := win.resolve(im.Width, im.Height)
	if err != nil {
		return nil, err
	}
	w, h := x1-x0+1, y1-y0+1
	n, err := allocSize(w, h)
	if err != nil {
		return nil, err
	}
	out := &Image{Width: w, Height: h, Pix: make([]byte, n)}
	for y := y0; y <= y1; y++ {
		if y >= im.Height || x0 >= im.Width {
			continue // row stays zero
		}
		span := im.Width - x0
		if span > w {
			span = w
		}
		copy(out.Pix[(y-y0)*w:(y-y0)*w+span], im.Pix[y*im.Width+x0:])
	}
	return out, nil
}

// Region is the bitmap counterpart of Image.Region, at bit granularity.
// The bit-by-bit copy is the baseline; when the left bound is byte-aligned
// and the window lies fully inside the source row, whole bytes are copied
// instead, with the trailing don't-care bits of each row masked off so both
// paths produce identical bytes.
func (b *Bitmap) Region(win Window) (*Bitmap, error) {
	if win.covers(b.Width, b.Height) {
		return b, nil
	}
	x0, x1, y0, y1, err := win.resolve(b.Width, b.Height)
	if err != nil {
		return nil, err
	}
	w, h := x1-x0+1, y1-y0+1
	stride := (w + 7) >> 3
	n, err := allocSize(stride, h)
	if err != nil {
		return nil, err
	}
	out := &Bitmap{Width: w, Height: h, Pix: make([]byte, n)}
	srcStride := b.Stride()
	aligned := x0&7 == 0 && x1 < b.Width
	var tailMask byte = 0xFF
	if w&7 != 0 {
		tailMask = 0xFF << uint(8-(w&7))
	}
	for y := y0; y <= y1; y++ {
		if y >= b.Height || x0 >= b.Width {
			continue
		}
		dst := out.Pix[(y-y0)*stride : (y-y0+1)*stride]
		if aligned {
			src := b.Pix[y*srcStride+(x0>>3) : y*srcStride+(x0>>3)+stride]
			copy(dst, src)
			dst[stride-1] &= tailMask
			continue
		}
		for x := x0; x <= x1 && x < b.Width; x++ {
			if b.Pix[y*srcStride+(x>>3)]&(0x80>>uint(x&7)) != 0 {
				dst[(x-x0)>>3] |= 0x80 >> uint((x-x0)&7)
			}
		}
	}
	return out, nil
}
