package grayio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"
)

// jpegCodec handles JPEG through the standard image/jpeg package. Decoding
// always yields grayscale: native grayscale scans are used verbatim and
// color scans contribute their luma plane, matching a decoder configured
// for grayscale output.
type jpegCodec struct{}

func (jpegCodec) decodeSize(data []byte) (int, int, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, jpegError(err)
	}
	return cfg.Width, cfg.Height, nil
}

func (jpegCodec) decode(data []byte) (*Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, jpegError(err)
	}
	switch src := img.(type) {
	case *image.Gray:
		return fromGray(src), nil
	case *image.YCbCr:
		w, h := src.Rect.Dx(), src.Rect.Dy()
		im, err := NewImage(w, h)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			copy(im.Pix[y*w:(y+1)*w], src.Y[y*src.YStride:y*src.YStride+w])
		}
		return im, nil
	}
	return nil, fmt.Errorf("jpeg with no grayscale rendition (%T): %w", img, ErrUnsupportedFormat)
}

func (jpegCodec) encode(im *Image, c Compression) ([]byte, error) {
	var q int
	switch c {
	case JPEGQuality95:
		q = 95
	case JPEGQuality90:
		q = 90
	case JPEGQuality85:
		q = 85
	case JPEGQuality80:
		q = 80
	case JPEGQuality75:
		q = 75
	case JPEGQuality70:
		q = 70
	default:
		return nil, fmt.Errorf("jpeg compression option %d: %w", c, ErrUnsupportedFormat)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, toGray(im), &jpeg.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jpegError folds image/jpeg failures into this package's error kinds. The
// decoder reports running out of entropy-coded data as a format error, so
// that one case is picked out as truncation.
func jpegError(err error) error {
	var fe jpeg.FormatError
	var ue jpeg.UnsupportedError
	switch {
	case errors.As(err, &fe):
		if strings.Contains(string(fe), "short Huffman data") {
			return fmt.Errorf("jpeg (%v): %w", fe, ErrTruncatedFile)
		}
		return fmt.Errorf("jpeg (%v): %w", fe, ErrMalformedHeader)
	case errors.As(err, &ue):
		return fmt.Errorf("jpeg (%v): %w", ue, ErrUnsupportedFormat)
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return fmt.Errorf("jpeg: %w", ErrTruncatedFile)
	}
	return err
}
