package grayio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// netpbmHeader is the tokenized header shared by the P4/P5/P6 formats.
type netpbmHeader struct {
	typ    byte // '4', '5' or '6'
	width  int
	height int
	maxval int // parsed for '5' and '6' only, not range-checked
}

// parseNetpbmHeader reads a binary netpbm header from br and leaves the
// reader positioned at the first payload byte: exactly one delimiter byte
// after the final numeric token is consumed, per the netpbm convention of a
// single whitespace before the raster. br may wrap a plain or a gzip
// stream; the tokenizer is the same for both.
func parseNetpbmHeader(br *bufio.Reader) (*netpbmHeader, error) {
	c, err := br.ReadByte()
	if err != nil {
		return nil, headerErr(err)
	}
	for c == '#' {
		if err := skipCommentLine(br); err != nil {
			return nil, headerErr(err)
		}
		c, err = br.ReadByte()
		if err != nil {
			return nil, headerErr(err)
		}
	}
	if c != 'P' {
		return nil, fmt.Errorf("netpbm magic: %w", ErrMalformedHeader)
	}
	t, err := br.ReadByte()
	if err != nil {
		return nil, headerErr(err)
	}
	if t != '4' && t != '5' && t != '6' {
		return nil, fmt.Errorf("netpbm type P%c: %w", t, ErrMalformedHeader)
	}
	h := &netpbmHeader{typ: t}
	if h.width, err = readPnmNumber(br); err != nil {
		return nil, err
	}
	if h.height, err = readPnmNumber(br); err != nil {
		return nil, err
	}
	if h.width <= 0 || h.height <= 0 {
		return nil, fmt.Errorf("netpbm dimensions %dx%d: %w", h.width, h.height, ErrMalformedHeader)
	}
	if t == '4' {
		return h, nil
	}
	if h.maxval, err = readPnmNumber(br); err != nil {
		return nil, err
	}
	return h, nil
}

// readPnmNumber skips whitespace and #-comments, then reads an unsigned
// decimal run. A whitespace byte after the run is consumed as the token's
// single delimiter; a '#' is unread so the next token's skip loop takes the
// comment; any other terminator is malformed.
func readPnmNumber(br *bufio.Reader) (int, error) {
	c, err := br.ReadByte()
	if err != nil {
		return 0, headerErr(err)
	}
	for {
		if c == '#' {
			if err := skipCommentLine(br); err != nil {
				return 0, headerErr(err)
			}
		} else if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		c, err = br.ReadByte()
		if err != nil {
			return 0, headerErr(err)
		}
	}
	if c < '0' || c > '9' {
		return 0, fmt.Errorf("netpbm header token: %w", ErrMalformedHeader)
	}
	n := 0
	for c >= '0' && c <= '9' {
		if n > (maxDim-int(c-'0'))/10 {
			return 0, fmt.Errorf("netpbm dimension overflow: %w", ErrMalformedHeader)
		}
		n = n*10 + int(c-'0')
		c, err = br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return 0, headerErr(err)
		}
	}
	if c == '#' {
		// A comment opens directly after the digits; the next token's
		// skip loop consumes it.
		if err := br.UnreadByte(); err != nil {
			return 0, headerErr(err)
		}
	} else if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
		return 0, fmt.Errorf("netpbm token terminator %q: %w", c, ErrMalformedHeader)
	}
	return n, nil
}

func skipCommentLine(br *bufio.Reader) error {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return err
		}
		if c == '\n' {
			return nil
		}
	}
}

// headerErr folds stream failures inside a header into the malformed kind.
func headerErr(err error) error {
	return fmt.Errorf("netpbm header (%v): %w", err, ErrMalformedHeader)
}

// payloadErr classifies a raster read failure: short data is truncation,
// anything else (a corrupt gzip stream, typically) counts as truncation of
// the usable payload too.
func payloadErr(what string) error {
	return fmt.Errorf("%s: %w", what, ErrTruncatedFile)
}

// pgmCodec reads and writes binary PGM. ppmCodec shares its reader: PPM
// payloads are consumed as single-byte grayscale samples, width*height
// bytes, with no RGB handling.
type pgmCodec struct{}

type ppmCodec struct{}

func (pgmCodec) decodeSize(data []byte) (int, int, error) { return pnmSize(data) }
func (ppmCodec) decodeSize(data []byte) (int, int, error) { return pnmSize(data) }

func (pgmCodec) decode(data []byte) (*Image, error) { return pnmDecode(data) }
func (ppmCodec) decode(data []byte) (*Image, error) { return pnmDecode(data) }

func (pgmCodec) encode(im *Image, c Compression) ([]byte, error) {
	if c != NoCompression {
		return nil, fmt.Errorf("pgm compression option %d: %w", c, ErrUnsupportedFormat)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P5\n%d %d\n255\n", im.Width, im.Height)
	buf.Write(im.Pix)
	return buf.Bytes(), nil
}

func (ppmCodec) encode(*Image, Compression) ([]byte, error) {
	return nil, fmt.Errorf("ppm write: %w", ErrUnsupportedFormat)
}

func pnmSize(data []byte) (int, int, error) {
	h, err := parseNetpbmHeader(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return 0, 0, err
	}
	return h.width, h.height, nil
}

func pnmDecode(data []byte) (*Image, error) {
	br := bufio.NewReader(bytes.NewReader(data))
	h, err := parseNetpbmHeader(br)
	if err != nil {
		return nil, err
	}
	if h.typ == '4' {
		return nil, fmt.Errorf("netpbm P4 is a bitmap: %w", ErrUnsupportedFormat)
	}
	n, err := allocSize(h.width, h.height)
	if err != nil {
		return nil, err
	}
	im := &Image{Width: h.width, Height: h.height, Pix: make([]byte, n)}
	if _, err := io.ReadFull(br, im.Pix); err != nil {
		return nil, payloadErr("netpbm raster")
	}
	return im, nil
}

// pbmCodec reads and writes binary PBM bitmaps; pbmGzCodec is the same
// format inside a gzip stream.
type pbmCodec struct{}

type pbmGzCodec struct{}

func (pbmCodec) decodeSize(data []byte) (int, int, error) {
	return pbmSize(bufio.NewReader(bytes.NewReader(data)))
}

func (pbmGzCodec) decodeSize(data []byte) (int, int, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("gzip stream: %w", ErrMalformedHeader)
	}
	defer zr.Close()
	return pbmSize(bufio.NewReader(zr))
}

func (pbmCodec) decode(data []byte) (*Bitmap, error) {
	return pbmDecode(bufio.NewReader(bytes.NewReader(data)))
}

func (pbmGzCodec) decode(data []byte) (*Bitmap, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip stream: %w", ErrMalformedHeader)
	}
	defer zr.Close()
	return pbmDecode(bufio.NewReader(zr))
}

func (pbmCodec) encode(b *Bitmap) ([]byte, error) {
	return pbmEncode(b), nil
}

func (pbmGzCodec) encode(b *Bitmap) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(pbmEncode(b)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pbmSize(br *bufio.Reader) (int, int, error) {
	h, err := parseNetpbmHeader(br)
	if err != nil {
		return 0, 0, err
	}
	if h.typ != '4' {
		return 0, 0, fmt.Errorf("netpbm P%c is not a bitmap: %w", h.typ, ErrUnsupportedFormat)
	}
	return h.width, h.height, nil
}

func pbmDecode(br *bufio.Reader) (*Bitmap, error) {
	h, err := parseNetpbmHeader(br)
	if err != nil {
		return nil, err
	}
	if h.typ != '4' {
		return nil, fmt.Errorf("netpbm P%c is not a bitmap: %w", h.typ, ErrUnsupportedFormat)
	}
	n, err := allocSize((h.width+7)>>3, h.height)
	if err != nil {
		return nil, err
	}
	b := &Bitmap{Width: h.width, Height: h.height, Pix: make([]byte, n)}
	if _, err := io.ReadFull(br, b.Pix); err != nil {
		return nil, payloadErr("bitmap raster")
	}
	return b, nil
}

func pbmEncode(b *Bitmap) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P4\n%d %d\n", b.Width, b.Height)
	buf.Write(b.Pix)
	return buf.Bytes()
}
