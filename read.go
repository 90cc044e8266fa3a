package grayio

import (
	"fmt"
	"os"
)

// ReadImage loads a full grayscale frame. The name may carry any supported
// extension (.tif/.tiff, .pgm, .ppm, .jpg/.jpeg, .bmp, case-insensitive) or
// none at all, in which case candidate extensions are probed against the
// filesystem; see Hint for biasing the probe order across a batch.
func ReadImage(name string, opts ...func(*ReadOptions)) (*Image, error) {
	o := readOptions(opts)
	path, codec, err := resolveImage(name, o.Hint)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, ErrFileNotFound)
	}
	im, err := codec.decode(data)
	if err != nil {
		return nil, fmt.Errorf("read image %q: %w", path, err)
	}
	return im, nil
}

// ReadImageSize reports a frame's dimensions without decoding pixel data.
// The probe is permissive: it answers for files whose sample layout
// ReadImage would reject.
func ReadImageSize(name string, opts ...func(*ReadOptions)) (width, height int, err error) {
	o := readOptions(opts)
	path, codec, err := resolveImage(name, o.Hint)
	if err != nil {
		return 0, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image %q: %w", path, ErrFileNotFound)
	}
	width, height, err = codec.decodeSize(data)
	if err != nil {
		return 0, 0, fmt.Errorf("read image size %q: %w", path, err)
	}
	return width, height, nil
}

// ReadImageRegion loads the part of a frame selected by win, zero-filling
// where the window extends past the frame.
func ReadImageRegion(name string, win Window, opts ...func(*ReadOptions)) (*Image, error) {
	im, err := ReadImage(name, opts...)
	if err != nil {
		return nil, err
	}
	return im.Region(win)
}

// ReadBitmap loads a full 1-bit bitmap from a .pbm or .pbm.gz file,
// probing both extensions when the name carries neither.
func ReadBitmap(name string, opts ...func(*ReadOptions)) (*Bitmap, error) {
	o := readOptions(opts)
	path, codec, err := resolveBitmap(name, o.Hint)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open bitmap %q: %w", path, ErrFileNotFound)
	}
	b, err := codec.decode(data)
	if err != nil {
		return nil, fmt.Errorf("read bitmap %q: %w", path, err)
	}
	return b, nil
}

// ReadBitmapSize reports a bitmap's dimensions without reading its rows.
func ReadBitmapSize(name string, opts ...func(*ReadOptions)) (width, height int, err error) {
	o := readOptions(opts)
	path, codec, err := resolveBitmap(name, o.Hint)
	if err != nil {
		return 0, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open bitmap %q: %w", path, ErrFileNotFound)
	}
	width, height, err = codec.decodeSize(data)
	if err != nil {
		return 0, 0, fmt.Errorf("read bitmap size %q: %w", path, err)
	}
	return width, height, nil
}

// ReadBitmapRegion loads the part of a bitmap selected by win.
func ReadBitmapRegion(name string, win Window, opts ...func(*ReadOptions)) (*Bitmap, error) {
	b, err := ReadBitmap(name, opts...)
	if err != nil {
		return nil, err
	}
	return b.Region(win)
}
