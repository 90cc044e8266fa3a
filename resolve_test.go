package grayio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func formatIndex(t *testing.T, ext string) int32 {
	t.Helper()
	for i, f := range imageFormats {
		if f.ext == ext {
			return int32(i)
		}
	}
	t.Fatalf("extension %q not in the probe table", ext)
	return -1
}

func TestProbeFindsFileAndMovesHint(t *testing.T) {
	dir := t.TempDir()
	im := gradientImage(6, 4)
	if err := WriteImage(filepath.Join(dir, "frame.pgm"), im, NoCompression); err != nil {
		t.Fatal(err)
	}

	h := &Hint{}
	got, err := ReadImage(filepath.Join(dir, "frame"), func(o *ReadOptions) { o.Hint = h })
	if err != nil {
		t.Fatalf("probe read: %v", err)
	}
	if !bytes.Equal(got.Pix, im.Pix) {
		t.Fatalf("probe found the wrong file")
	}
	if want := formatIndex(t, ".pgm"); h.image.Load() != want {
		t.Fatalf("hint index: got %d want %d", h.image.Load(), want)
	}
}

func TestProbeRotationWrapsFromStaleHint(t *testing.T) {
	dir := t.TempDir()
	im := gradientImage(5, 5)
	if err := WriteImage(filepath.Join(dir, "frame.tif"), im, NoCompression); err != nil {
		t.Fatal(err)
	}

	// A hint pointing past .tif still finds the file after wrapping around.
	h := &Hint{}
	h.image.Store(formatIndex(t, ".pgm"))
	got, err := ReadImage(filepath.Join(dir, "frame"), func(o *ReadOptions) { o.Hint = h })
	if err != nil {
		t.Fatalf("probe read: %v", err)
	}
	if !bytes.Equal(got.Pix, im.Pix) {
		t.Fatalf("probe found the wrong file")
	}
	if want := formatIndex(t, ".tif"); h.image.Load() != want {
		t.Fatalf("hint index: got %d want %d", h.image.Load(), want)
	}
}

func TestProbeStartsAtHint(t *testing.T) {
	// With candidates in two formats, the rotation's starting point decides
	// which one wins.
	dir := t.TempDir()
	tifIm := gradientImage(3, 3)
	pgmIm := gradientImage(2, 2)
	if err := WriteImage(filepath.Join(dir, "frame.tif"), tifIm, NoCompression); err != nil {
		t.Fatal(err)
	}
	if err := WriteImage(filepath.Join(dir, "frame.pgm"), pgmIm, NoCompression); err != nil {
		t.Fatal(err)
	}

	got, err := ReadImage(filepath.Join(dir, "frame"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 3 {
		t.Fatalf("fresh probe should find .tif first, got %dx%d", got.Width, got.Height)
	}

	h := &Hint{}
	h.image.Store(formatIndex(t, ".pgm"))
	got, err = ReadImage(filepath.Join(dir, "frame"), func(o *ReadOptions) { o.Hint = h })
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 2 {
		t.Fatalf("hinted probe should find .pgm first, got %dx%d", got.Width, got.Height)
	}
}

func TestProbeBitmapTable(t *testing.T) {
	dir := t.TempDir()
	b := patternBitmap(10, 10)
	if err := WriteBitmap(filepath.Join(dir, "mask.pbm.gz"), b, NoCompression); err != nil {
		t.Fatal(err)
	}

	h := &Hint{}
	got, err := ReadBitmap(filepath.Join(dir, "mask"), func(o *ReadOptions) { o.Hint = h })
	if err != nil {
		t.Fatalf("probe read: %v", err)
	}
	if !bytes.Equal(got.Pix, b.Pix) {
		t.Fatalf("probe found the wrong file")
	}
	if h.bitmap.Load() != 1 {
		t.Fatalf("bitmap hint index: got %d want 1", h.bitmap.Load())
	}
}

func TestRecognizedExtensionSkipsProbing(t *testing.T) {
	// A name with a recognized extension is opened directly; nothing else
	// is tried even if probing would have found a file.
	dir := t.TempDir()
	if err := WriteImage(filepath.Join(dir, "frame.tif.pgm"), gradientImage(2, 2), NoCompression); err != nil {
		t.Fatal(err)
	}
	_, err := ReadImage(filepath.Join(dir, "frame.tif"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("got %v want ErrFileNotFound", err)
	}
}

func TestExtensionMatchIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	im := gradientImage(4, 3)
	path := filepath.Join(dir, "scan.TiF")
	if err := WriteImage(path, im, NoCompression); err != nil {
		t.Fatalf("write mixed-case tif: %v", err)
	}
	got, err := ReadImage(path)
	if err != nil {
		t.Fatalf("read mixed-case tif: %v", err)
	}
	if !bytes.Equal(got.Pix, im.Pix) {
		t.Fatalf("pixels changed")
	}
}

func TestEmptyNames(t *testing.T) {
	im := gradientImage(2, 2)
	b := patternBitmap(2, 2)

	if _, err := ReadImage(""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("ReadImage: %v", err)
	}
	if _, _, err := ReadImageSize(""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("ReadImageSize: %v", err)
	}
	if _, err := ReadBitmap(""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("ReadBitmap: %v", err)
	}
	if err := WriteImage("", im, NoCompression); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("WriteImage: %v", err)
	}
	if err := WriteBitmap("", b, NoCompression); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("WriteBitmap: %v", err)
	}
	if _, err := ReadMap(""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("ReadMap: %v", err)
	}
	if err := WriteMap("", &Map{}, NoCompression); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("WriteMap: %v", err)
	}
}

func TestProbeMissReportsName(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing_frame")
	_, err := ReadImage(name)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("got %v want ErrFileNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing_frame") {
		t.Fatalf("error does not name the file: %v", err)
	}

	if _, err := ReadBitmap(name); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("bitmap probe: got %v want ErrFileNotFound", err)
	}
}

func TestWriteImageUnrecognizedExtension(t *testing.T) {
	im := gradientImage(2, 2)
	err := WriteImage(filepath.Join(t.TempDir(), "frame.png"), im, NoCompression)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v want ErrUnsupportedFormat", err)
	}
}
