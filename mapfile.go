package grayio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MapElement is one cell of a warp map: the position (X, Y) that the cell's
// pixel maps to and the correlation confidence C of that match. The on-disk
// record is these three float32 values, 12 bytes, no padding.
type MapElement struct {
	X float32
	Y float32
	C float32
}

// mapElementSize is the size of one on-disk element record.
const mapElementSize = 12

// Map is a grid of warp elements tied to a source image and its reference.
// XMin and YMin place the grid inside the level-Level coordinate space of
// the source. The name fields are metadata only and are never checked
// against the filesystem.
type Map struct {
	Level         int
	Width, Height int
	XMin, YMin    int
	ImageName     string
	ReferenceName string
	Elements      []MapElement
}

// At returns the element of grid cell (x, y).
func (m *Map) At(x, y int) *MapElement {
	return &m.Elements[y*m.Width+x]
}

// ReadMap loads an M1 container. The header is the "M1" magic line followed
// by one line of seven whitespace-separated tokens (level, width, height,
// xMin, yMin, image name, reference name); the element block follows as
// width*height raw records in native byte order.
func ReadMap(path string) (*Map, error) {
	if path == "" {
		return nil, ErrEmptyName
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %q: %w", path, ErrFileNotFound)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	m, err := readMapHeader(br)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", path, err)
	}
	if err := binary.Read(br, binary.NativeEndian, m.Elements); err != nil {
		return nil, fmt.Errorf("map %q elements: %w", path, ErrTruncatedFile)
	}
	return m, nil
}

func readMapHeader(br *bufio.Reader) (*Map, error) {
	for _, want := range []byte(mapMagic + "\n") {
		c, err := br.ReadByte()
		if err != nil || c != want {
			return nil, fmt.Errorf("map magic: %w", ErrMalformedHeader)
		}
	}
	level, err := readMapInt(br)
	if err != nil {
		return nil, err
	}
	width, err := readMapInt(br)
	if err != nil {
		return nil, err
	}
	height, err := readMapInt(br)
	if err != nil {
		return nil, err
	}
	xMin, err := readMapInt(br)
	if err != nil {
		return nil, err
	}
	yMin, err := readMapInt(br)
	if err != nil {
		return nil, err
	}
	imageName, err := readMapName(br)
	if err != nil {
		return nil, err
	}
	referenceName, err := readMapName(br)
	if err != nil {
		return nil, err
	}
	// The reference name must be followed by the line's newline directly.
	if c, err := br.ReadByte(); err != nil || c != '\n' {
		return nil, fmt.Errorf("map header line ending: %w", ErrMalformedHeader)
	}
	n, err := allocSize(width, height)
	if err != nil {
		return nil, err
	}
	// allocSize caps the element count; the element block is 12 bytes per
	// cell, so cap its byte size too before allocating.
	if n > maxDim/mapElementSize {
		return nil, fmt.Errorf("%w: %dx%d map", ErrAllocation, width, height)
	}
	return &Map{
		Level:         level,
		Width:         width,
		Height:        height,
		XMin:          xMin,
		YMin:          yMin,
		ImageName:     imageName,
		ReferenceName: referenceName,
		Elements:      make([]MapElement, n),
	}, nil
}

// readMapInt parses an optionally signed decimal token after skipping
// whitespace. The delimiter byte is unread so name tokens that follow start
// cleanly.
func readMapInt(br *bufio.Reader) (int, error) {
	c, err := skipMapSpace(br)
	if err != nil {
		return 0, err
	}
	neg := false
	if c == '-' || c == '+' {
		neg = c == '-'
		if c, err = br.ReadByte(); err != nil {
			return 0, fmt.Errorf("map header token: %w", ErrMalformedHeader)
		}
	}
	if c < '0' || c > '9' {
		return 0, fmt.Errorf("map header token: %w", ErrMalformedHeader)
	}
	n := 0
	for c >= '0' && c <= '9' {
		if n > (maxDim-int(c-'0'))/10 {
			return 0, fmt.Errorf("map header value overflow: %w", ErrMalformedHeader)
		}
		n = n*10 + int(c-'0')
		c, err = br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("map header token: %w", ErrMalformedHeader)
		}
	}
	if err == nil {
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
	}
	if neg {
		n = -n
	}
	return n, nil
}

// readMapName parses one whitespace-delimited name token, capped at
// maxNameLen. The delimiter byte is unread.
func readMapName(br *bufio.Reader) (string, error) {
	c, err := skipMapSpace(br)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for !isMapSpace(c) {
		sb.WriteByte(c)
		if sb.Len() > maxNameLen {
			return "", fmt.Errorf("map name token too long: %w", ErrMalformedHeader)
		}
		c, err = br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return "", fmt.Errorf("map header token: %w", ErrMalformedHeader)
		}
	}
	if err := br.UnreadByte(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func skipMapSpace(br *bufio.Reader) (byte, error) {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("map header: %w", ErrMalformedHeader)
		}
		if !isMapSpace(c) {
			return c, nil
		}
	}
}

func isMapSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// WriteMap writes m as an M1 container. The format has no compression
// variant, so any option other than NoCompression fails; name fields that
// the seven-token header cannot represent (empty, or containing whitespace)
// are rejected before any I/O.
func WriteMap(path string, m *Map, c Compression) error {
	if path == "" {
		return ErrEmptyName
	}
	if c != NoCompression {
		return fmt.Errorf("map %q: %w", path, ErrUnsupportedCompression)
	}
	if err := checkMapName(m.ImageName); err != nil {
		return fmt.Errorf("map %q image name: %w", path, err)
	}
	if err := checkMapName(m.ReferenceName); err != nil {
		return fmt.Errorf("map %q reference name: %w", path, err)
	}
	n, err := allocSize(m.Width, m.Height)
	if err != nil {
		return err
	}
	if n > maxDim/mapElementSize {
		return fmt.Errorf("%w: %dx%d map", ErrAllocation, m.Width, m.Height)
	}
	if len(m.Elements) != n {
		return fmt.Errorf("grayio: map has %d elements, grid wants %d", len(m.Elements), n)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%d\n%d %d\n%d %d\n%s %s\n",
		mapMagic, m.Level, m.Width, m.Height, m.XMin, m.YMin, m.ImageName, m.ReferenceName)
	if err := binary.Write(&buf, binary.NativeEndian, m.Elements); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func checkMapName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name token: %w", ErrMalformedHeader)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("name token too long: %w", ErrMalformedHeader)
	}
	for i := 0; i < len(name); i++ {
		if isMapSpace(name[i]) {
			return fmt.Errorf("name %q contains whitespace: %w", name, ErrMalformedHeader)
		}
	}
	return nil
}
