package grayio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/tiff"
)

// TIFF tags and photometric values checked before handing the file to the
// x/image decoder.
const (
	tagBitsPerSample   = 258
	tagPhotometric     = 262
	tagSamplesPerPixel = 277

	photoMinIsWhite = 0
	photoMinIsBlack = 1
)

// tiffCodec handles grayscale TIFF. Strip layout, compression and the
// miniswhite-to-minisblack inversion are delegated to golang.org/x/image/tiff;
// the adapter only vets the first IFD so that unsupported sample layouts are
// rejected instead of decoded into something else.
type tiffCodec struct{}

func (tiffCodec) decodeSize(data []byte) (int, int, error) {
	cfg, err := tiff.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, tiffError(err)
	}
	return cfg.Width, cfg.Height, nil
}

func (tiffCodec) decode(data []byte) (*Image, error) {
	if err := tiffPrescan(data); err != nil {
		return nil, err
	}
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, tiffError(err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("tiff sample layout %T: %w", img, ErrUnsupportedFormat)
	}
	return fromGray(gray), nil
}

func (tiffCodec) encode(im *Image, c Compression) ([]byte, error) {
	opt := &tiff.Options{}
	switch c {
	case NoCompression:
		opt.Compression = tiff.Uncompressed
	case DeflateCompression:
		opt.Compression = tiff.Deflate
		opt.Predictor = true
	default:
		return nil, fmt.Errorf("tiff compression option %d: %w", c, ErrUnsupportedFormat)
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, toGray(im), opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tiffPrescan walks the first IFD and rejects anything but 8-bit,
// single-sample, miniswhite or minisblack images. Other layouts decode to
// palette or multi-channel pixel types whose bytes are not grayscale
// samples.
func tiffPrescan(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("tiff header: %w", ErrMalformedHeader)
	}
	var order binary.ByteOrder
	switch {
	case data[0] == 'I' && data[1] == 'I':
		order = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		order = binary.BigEndian
	default:
		return fmt.Errorf("tiff byte order mark: %w", ErrMalformedHeader)
	}
	if order.Uint16(data[2:]) != 42 {
		return fmt.Errorf("tiff version: %w", ErrMalformedHeader)
	}
	ifd := int64(order.Uint32(data[4:]))
	if ifd < 8 || ifd+2 > int64(len(data)) {
		return fmt.Errorf("tiff ifd offset: %w", ErrMalformedHeader)
	}
	count := int64(order.Uint16(data[ifd:]))
	if ifd+2+count*12 > int64(len(data)) {
		return fmt.Errorf("tiff ifd: %w", ErrMalformedHeader)
	}

	bps, spp, photo := -1, -1, -1
	for i := int64(0); i < count; i++ {
		entry := data[ifd+2+i*12:]
		tag := order.Uint16(entry)
		typ := order.Uint16(entry[2:])
		n := order.Uint32(entry[4:])
		if n != 1 {
			// Multi-valued sample tags imply multiple samples per pixel.
			if tag == tagBitsPerSample || tag == tagSamplesPerPixel {
				return fmt.Errorf("tiff samples per pixel: %w", ErrUnsupportedFormat)
			}
			continue
		}
		var v int
		switch typ {
		case 3: // SHORT, left-justified in the value field
			v = int(order.Uint16(entry[8:]))
		case 4: // LONG
			v = int(order.Uint32(entry[8:]))
		default:
			continue
		}
		switch tag {
		case tagBitsPerSample:
			bps = v
		case tagSamplesPerPixel:
			spp = v
		case tagPhotometric:
			photo = v
		}
	}

	if bps == -1 {
		return fmt.Errorf("tiff bits per sample missing: %w", ErrUnsupportedFormat)
	}
	if bps != 8 {
		return fmt.Errorf("tiff bits per sample %d: %w", bps, ErrUnsupportedFormat)
	}
	if spp != -1 && spp != 1 {
		return fmt.Errorf("tiff samples per pixel %d: %w", spp, ErrUnsupportedFormat)
	}
	switch photo {
	case photoMinIsWhite, photoMinIsBlack:
		return nil
	case -1:
		return fmt.Errorf("tiff photometric interpretation missing: %w", ErrMalformedHeader)
	}
	return fmt.Errorf("tiff photometric interpretation %d: %w", photo, ErrUnsupportedFormat)
}

// tiffError folds x/image/tiff failures into this package's error kinds.
func tiffError(err error) error {
	var fe tiff.FormatError
	var ue tiff.UnsupportedError
	switch {
	case errors.As(err, &fe):
		return fmt.Errorf("tiff (%v): %w", fe, ErrMalformedHeader)
	case errors.As(err, &ue):
		return fmt.Errorf("tiff (%v): %w", ue, ErrUnsupportedFormat)
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return fmt.Errorf("tiff: %w", ErrTruncatedFile)
	}
	return err
}
