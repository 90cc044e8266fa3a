package grayio

import (
	"fmt"
	"sync/atomic"
)

// Image is a full-frame 8-bit grayscale raster. Pix holds exactly
// Width*Height samples, row-major, top to bottom, with no row padding.
// Zero always means black; decoders normalize inverted sources.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage returns a zero-filled image of the given size.
func NewImage(width, height int) (*Image, error) {
	n, err := allocSize(width, height)
	if err != nil {
		return nil, err
	}
	return &Image{Width: width, Height: height, Pix: make([]byte, n)}, nil
}

// Bitmap is a 1-bit-per-pixel raster. Rows are packed MSB first (bit 7 is
// the leftmost pixel) with a stride of (Width+7)/8 bytes. Bits past Width
// in the last byte of a row carry no meaning on read and are kept zero by
// the operations of this package.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBitmap returns an all-clear bitmap of the given size.
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 || width > maxDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrAllocation, width, height)
	}
	n, err := allocSize((width+7)>>3, height)
	if err != nil {
		return nil, err
	}
	return &Bitmap{Width: width, Height: height, Pix: make([]byte, n)}, nil
}

// Stride returns the row stride in bytes.
func (b *Bitmap) Stride() int { return (b.Width + 7) >> 3 }

// Bit reports the pixel at (x, y).
func (b *Bitmap) Bit(x, y int) bool {
	return b.Pix[y*b.Stride()+(x>>3)]&(0x80>>uint(x&7)) != 0
}

// SetBit sets or clears the pixel at (x, y).
func (b *Bitmap) SetBit(x, y int, on bool) {
	i := y*b.Stride() + (x >> 3)
	mask := byte(0x80) >> uint(x&7)
	if on {
		b.Pix[i] |= mask
	} else {
		b.Pix[i] &^= mask
	}
}

// Window selects the inclusive pixel range [MinX,MaxX] x [MinY,MaxY].
// A negative bound means "up to the frame edge" on that side. Bounds may
// extend past the source frame; the area outside it reads as zero.
type Window struct {
	MinX, MaxX, MinY, MaxY int
}

// FullWindow selects the whole frame.
func FullWindow() Window { return Window{MinX: -1, MaxX: -1, MinY: -1, MaxY: -1} }

// covers reports whether the window selects exactly the full width x height
// frame, counting unspecified sides as full extent.
func (w Window) covers(width, height int) bool {
	return w.MinX <= 0 && (w.MaxX < 0 || w.MaxX == width-1) &&
		w.MinY <= 0 && (w.MaxY < 0 || w.MaxY == height-1)
}

// resolve turns sentinel bounds into explicit ones against a width x height
// frame. Explicit bounds must not cross.
func (w Window) resolve(width, height int) (x0, x1, y0, y1 int, err error) {
	x0, x1, y0, y1 = w.MinX, w.MaxX, w.MinY, w.MaxY
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 < 0 {
		x1 = width - 1
	}
	if y1 < 0 {
		y1 = height - 1
	}
	if x1 < x0 || y1 < y0 {
		return 0, 0, 0, 0, fmt.Errorf("grayio: empty window [%d,%d]x[%d,%d]", w.MinX, w.MaxX, w.MinY, w.MaxY)
	}
	return x0, x1, y0, y1, nil
}

// Compression selects the encoding variant for write operations. Formats
// accept only the variants they support; everything else fails with
// ErrUnsupportedFormat (images) or ErrUnsupportedCompression (maps).
type Compression int

const (
	// NoCompression stores samples raw (TIFF uncompressed, PGM, PBM).
	NoCompression Compression = iota
	// DeflateCompression writes TIFF deflate with horizontal differencing.
	DeflateCompression
	JPEGQuality95
	JPEGQuality90
	JPEGQuality85
	JPEGQuality80
	JPEGQuality75
	JPEGQuality70
)

// Hint remembers the probe table positions of the most recent successful
// extensionless lookups, so a batch of same-format files skips most
// existence probes when one Hint is shared across calls. It only moves the
// rotation's starting point: when one candidate file exists the same file is
// found with or without it. Safe for concurrent use.
type Hint struct {
	image  atomic.Int32
	bitmap atomic.Int32
}

// ReadOptions carries optional settings for the read entry points.
type ReadOptions struct {
	// Hint biases extension probing for names without a recognized
	// extension.
	Hint *Hint
}

func readOptions(opts []func(*ReadOptions)) *ReadOptions {
	o := ReadOptions{}
	for _, applyOpt := range opts {
		applyOpt(&o)
	}
	return &o
}
