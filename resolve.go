package grayio

import (
	"fmt"
	"os"
	"sync/atomic"
)

// resolveImage maps a name to the file path and codec that will serve it.
// A recognized extension dispatches directly. Otherwise every table entry
// is probed for existence, starting at the hint's last successful index and
// wrapping around; the first hit wins and moves the hint.
func resolveImage(name string, h *Hint) (string, imageCodec, error) {
	if name == "" {
		return "", nil, ErrEmptyName
	}
	if c := imageCodecByExt(name); c != nil {
		return name, c, nil
	}
	var idx *atomic.Int32
	if h != nil {
		idx = &h.image
	}
	k := probe(name, idx, len(imageFormats), func(i int) string { return imageFormats[i].ext })
	if k < 0 {
		return "", nil, fmt.Errorf("no image file for %q: %w", name, ErrFileNotFound)
	}
	return name + imageFormats[k].ext, imageFormats[k].codec, nil
}

// resolveBitmap is resolveImage over the bitmap table.
func resolveBitmap(name string, h *Hint) (string, bitmapCodec, error) {
	if name == "" {
		return "", nil, ErrEmptyName
	}
	if c := bitmapCodecByExt(name); c != nil {
		return name, c, nil
	}
	var idx *atomic.Int32
	if h != nil {
		idx = &h.bitmap
	}
	k := probe(name, idx, len(bitmapFormats), func(i int) string { return bitmapFormats[i].ext })
	if k < 0 {
		return "", nil, fmt.Errorf("no bitmap file for %q: %w", name, ErrFileNotFound)
	}
	return name + bitmapFormats[k].ext, bitmapFormats[k].codec, nil
}

// probe stats name+ext for each table index in rotation order and returns
// the first index whose candidate exists, or -1 after a full rotation.
// Existence is the whole test: a candidate that exists but fails to decode
// surfaces the decode error, it is not probed past.
func probe(name string, idx *atomic.Int32, n int, ext func(int) string) int {
	start := 0
	if idx != nil {
		if v := int(idx.Load()); v >= 0 && v < n {
			start = v
		}
	}
	for i := 0; i < n; i++ {
		k := (start + i) % n
		if _, err := os.Stat(name + ext(k)); err == nil {
			if idx != nil {
				idx.Store(int32(k))
			}
			return k
		}
	}
	return -1
}
