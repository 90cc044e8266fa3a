package grayio

import (
	"encoding/binary"
	"fmt"
)

// BMP constants. Only uncompressed 8-bit files are decodable; the palette
// is ignored and pixel bytes are taken verbatim, so grayscale palettes read
// correctly and anything else reads as its palette index.
const (
	bmpSignature     = 0x4D42 // "BM"
	bmpFileHeaderLen = 14
	bmpInfoHeaderLen = 40
)

type bmpHeader struct {
	offBits     uint32
	width       int32
	height      int32
	bitCount    uint16
	compression uint32
}

// parseBMPHeader validates the signature first and only then reads the rest
// of the 14-byte file header and 40-byte info header; any missing field is
// a malformed file.
func parseBMPHeader(data []byte) (*bmpHeader, error) {
	if len(data) < 2 || binary.LittleEndian.Uint16(data) != bmpSignature {
		return nil, fmt.Errorf("bmp signature: %w", ErrMalformedHeader)
	}
	if len(data) < bmpFileHeaderLen+bmpInfoHeaderLen {
		return nil, fmt.Errorf("bmp header fields: %w", ErrMalformedHeader)
	}
	return &bmpHeader{
		offBits:     binary.LittleEndian.Uint32(data[10:]),
		width:       int32(binary.LittleEndian.Uint32(data[18:])),
		height:      int32(binary.LittleEndian.Uint32(data[22:])),
		bitCount:    binary.LittleEndian.Uint16(data[28:]),
		compression: binary.LittleEndian.Uint32(data[30:]),
	}, nil
}

type bmpCodec struct{}

// decodeSize reports dimensions without judging decodability: bit depth and
// compression are deliberately not checked here, and top-down files report
// their magnitude height.
func (bmpCodec) decodeSize(data []byte) (int, int, error) {
	h, err := parseBMPHeader(data)
	if err != nil {
		return 0, 0, err
	}
	height := h.height
	if height < 0 {
		height = -height
	}
	if h.width <= 0 || height == 0 {
		return 0, 0, fmt.Errorf("bmp dimensions %dx%d: %w", h.width, h.height, ErrMalformedHeader)
	}
	return int(h.width), int(height), nil
}

func (bmpCodec) decode(data []byte) (*Image, error) {
	h, err := parseBMPHeader(data)
	if err != nil {
		return nil, err
	}
	if h.bitCount != 8 {
		return nil, fmt.Errorf("bmp bit depth %d: %w", h.bitCount, ErrUnsupportedFormat)
	}
	if h.compression != 0 {
		return nil, fmt.Errorf("bmp compression %d: %w", h.compression, ErrUnsupportedFormat)
	}
	if h.height < 0 {
		return nil, fmt.Errorf("top-down bmp: %w", ErrUnsupportedFormat)
	}
	if h.width <= 0 || h.height == 0 {
		return nil, fmt.Errorf("bmp dimensions %dx%d: %w", h.width, h.height, ErrMalformedHeader)
	}
	w, ht := int(h.width), int(h.height)
	n, err := allocSize(w, ht)
	if err != nil {
		return nil, err
	}
	off := int64(h.offBits)
	if off < bmpFileHeaderLen+bmpInfoHeaderLen {
		return nil, fmt.Errorf("bmp pixel offset %d: %w", h.offBits, ErrMalformedHeader)
	}
	rowSize := int64(w+3) &^ 3 // rows padded to a 4-byte boundary
	if int64(len(data))-off < rowSize*int64(ht) {
		return nil, fmt.Errorf("bmp pixel rows: %w", ErrTruncatedFile)
	}
	im := &Image{Width: w, Height: ht, Pix: make([]byte, n)}
	// Rows are stored bottom to top.
	for y := 0; y < ht; y++ {
		src := data[off+int64(ht-1-y)*rowSize:]
		copy(im.Pix[y*w:(y+1)*w], src[:w])
	}
	return im, nil
}

func (bmpCodec) encode(*Image, Compression) ([]byte, error) {
	return nil, fmt.Errorf("bmp write: %w", ErrUnsupportedFormat)
}
