package grayio

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteImage writes im to name in the format its extension selects.
// Writable formats are TIFF (.tif/.tiff; NoCompression or
// DeflateCompression), PGM (.pgm; NoCompression) and JPEG (.jpg/.jpeg; one
// of the JPEGQuality options), case-insensitive. Other recognized
// extensions have no encoder.
func WriteImage(name string, im *Image, c Compression) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := checkImage(im); err != nil {
		return err
	}
	codec := imageCodecByExt(name)
	if codec == nil {
		return fmt.Errorf("write image %q: unrecognized extension: %w", name, ErrUnsupportedFormat)
	}
	data, err := codec.encode(im, c)
	if err != nil {
		return fmt.Errorf("write image %q: %w", name, err)
	}
	return os.WriteFile(name, data, 0o644)
}

// WriteBitmap writes b as binary PBM, gzip-wrapped for a .pbm.gz name.
// When the final path element has no extension, ".pbm" is appended. The
// format stores bits raw, so only NoCompression is accepted.
func WriteBitmap(name string, b *Bitmap, c Compression) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := checkBitmap(b); err != nil {
		return err
	}
	if c != NoCompression {
		return fmt.Errorf("write bitmap %q: compression option %d: %w", name, c, ErrUnsupportedFormat)
	}
	if filepath.Ext(name) == "" {
		name += ".pbm"
	}
	codec := bitmapCodecByExt(name)
	if codec == nil {
		return fmt.Errorf("write bitmap %q: unrecognized extension: %w", name, ErrUnsupportedFormat)
	}
	data, err := codec.encode(b)
	if err != nil {
		return fmt.Errorf("write bitmap %q: %w", name, err)
	}
	return os.WriteFile(name, data, 0o644)
}

func checkImage(im *Image) error {
	if im == nil || len(im.Pix) != im.Width*im.Height || im.Width <= 0 || im.Height <= 0 {
		return fmt.Errorf("grayio: image buffer does not match its dimensions")
	}
	return nil
}

func checkBitmap(b *Bitmap) error {
	if b == nil || b.Width <= 0 || b.Height <= 0 || len(b.Pix) != b.Stride()*b.Height {
		return fmt.Errorf("grayio: bitmap buffer does not match its dimensions")
	}
	return nil
}
