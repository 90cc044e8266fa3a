package grayio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestJPEGUniformRoundTripExact(t *testing.T) {
	// A flat 128 frame level-shifts to all-zero DCT blocks, so it survives
	// every quality setting bit for bit, edge blocks included.
	im := &Image{Width: 33, Height: 17, Pix: bytes.Repeat([]byte{128}, 33*17)}
	dir := t.TempDir()

	qualities := []Compression{
		JPEGQuality95, JPEGQuality90, JPEGQuality85,
		JPEGQuality80, JPEGQuality75, JPEGQuality70,
	}
	for i, c := range qualities {
		ext := ".jpg"
		if i%2 == 1 {
			ext = ".jpeg"
		}
		path := filepath.Join(dir, "flat"+ext)
		if err := WriteImage(path, im, c); err != nil {
			t.Fatalf("write quality %d: %v", c, err)
		}
		got, err := ReadImage(path)
		if err != nil {
			t.Fatalf("read quality %d: %v", c, err)
		}
		if got.Width != 33 || got.Height != 17 {
			t.Fatalf("dims mismatch: got %dx%d", got.Width, got.Height)
		}
		if !bytes.Equal(got.Pix, im.Pix) {
			t.Fatalf("quality %d: flat frame not preserved exactly", c)
		}
	}
}

func TestJPEGGradientStaysClose(t *testing.T) {
	im, err := NewImage(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			im.Pix[y*64+x] = byte(x * 4)
		}
	}
	path := filepath.Join(t.TempDir(), "ramp.jpg")
	if err := WriteImage(path, im, JPEGQuality95); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadImage(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	worst := 0
	for i := range im.Pix {
		d := int(im.Pix[i]) - int(got.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	if worst > 10 {
		t.Fatalf("quality 95 ramp drifted by %d levels", worst)
	}
}

func TestJPEGColorDecodeTakesLuma(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			src.SetRGBA(x, y, color.RGBA{R: byte(x * 10), G: byte(y * 12), B: 0x30, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "color.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	im, err := ReadImage(path)
	if err != nil {
		t.Fatalf("read color jpeg: %v", err)
	}
	ref, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	ycc, ok := ref.(*image.YCbCr)
	if !ok {
		t.Fatalf("reference decode is %T, not YCbCr", ref)
	}
	for y := 0; y < 16; y++ {
		row := ycc.Y[y*ycc.YStride : y*ycc.YStride+24]
		if !bytes.Equal(im.Pix[y*24:(y+1)*24], row) {
			t.Fatalf("row %d does not match the luma plane", y)
		}
	}
}

func TestJPEGWriteRejectsNonQualityOptions(t *testing.T) {
	im := gradientImage(4, 4)
	path := filepath.Join(t.TempDir(), "frame.jpg")

	for _, c := range []Compression{NoCompression, DeflateCompression} {
		if err := WriteImage(path, im, c); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("option %d: got %v want ErrUnsupportedFormat", c, err)
		}
	}
}

func TestJPEGErrorKinds(t *testing.T) {
	im := gradientImage(48, 32)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.jpg")
	if err := WriteImage(good, im, JPEGQuality90); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(good)
	if err != nil {
		t.Fatal(err)
	}

	garbage := filepath.Join(dir, "junk.jpg")
	if err := os.WriteFile(garbage, []byte("definitely not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadImage(garbage); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("garbage: got %v want ErrMalformedHeader", err)
	}

	// Cut inside the marker segments, before any entropy-coded data.
	headCut := filepath.Join(dir, "headcut.jpg")
	if err := os.WriteFile(headCut, data[:20], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadImage(headCut); !errors.Is(err, ErrTruncatedFile) {
		t.Fatalf("header cut: got %v want ErrTruncatedFile", err)
	}

	// Cut inside the scan.
	scanCut := filepath.Join(dir, "scancut.jpg")
	if err := os.WriteFile(scanCut, data[:len(data)-10], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadImage(scanCut); !errors.Is(err, ErrTruncatedFile) {
		t.Fatalf("scan cut: got %v want ErrTruncatedFile", err)
	}
}

func TestJPEGSizeProbe(t *testing.T) {
	im := gradientImage(31, 22)
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := WriteImage(path, im, JPEGQuality85); err != nil {
		t.Fatal(err)
	}
	w, h, err := ReadImageSize(path)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if w != 31 || h != 22 {
		t.Fatalf("size probe: got %dx%d want 31x22", w, h)
	}
}
