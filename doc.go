// Package grayio reads and writes the raster and map files of an image
// registration pipeline: 8-bit grayscale images (TIFF, PGM/PPM, JPEG, BMP),
// 1-bit bitmaps (PBM, gzip-compressed PBM) and the binary M1 container
// holding a grid of per-pixel warp elements.
//
// This is a pragmatic port focused on correctness rather than performance.
// Files resolve from bare basenames by probing candidate extensions, and
// decoded frames support windowed extraction with zero fill outside the
// source. TIFF and JPEG compression work is delegated to
// golang.org/x/image/tiff and the standard image/jpeg package; gzip streams
// to github.com/klauspost/compress.
package grayio
