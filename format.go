package grayio

// imageCodec is the capability set of one raster format. decodeSize reports
// dimensions without decoding pixel data; encode renders a complete file
// image for the write path (formats without an encoder reject every
// compression option).
type imageCodec interface {
	decodeSize(data []byte) (width, height int, err error)
	decode(data []byte) (*Image, error)
	encode(im *Image, c Compression) ([]byte, error)
}

// bitmapCodec is the 1-bit counterpart of imageCodec.
type bitmapCodec interface {
	decodeSize(data []byte) (width, height int, err error)
	decode(data []byte) (*Bitmap, error)
	encode(b *Bitmap) ([]byte, error)
}

// Probe tables. The order fixes the rotation sequence for extensionless
// lookups; it does not affect which codec serves a given suffix.
var imageFormats = []struct {
	ext   string
	codec imageCodec
}{
	{".tif", tiffCodec{}},
	{".tiff", tiffCodec{}},
	{".TIF", tiffCodec{}},
	{".TIFF", tiffCodec{}},
	{".pgm", pgmCodec{}},
	{".PGM", pgmCodec{}},
	{".ppm", ppmCodec{}},
	{".PPM", ppmCodec{}},
	{".jpg", jpegCodec{}},
	{".jpeg", jpegCodec{}},
	{".JPG", jpegCodec{}},
	{".JPEG", jpegCodec{}},
	{".bmp", bmpCodec{}},
	{".BMP", bmpCodec{}},
}

var bitmapFormats = []struct {
	ext   string
	codec bitmapCodec
}{
	{".pbm", pbmCodec{}},
	{".pbm.gz", pbmGzCodec{}},
}

// imageCodecByExt returns the codec owning a recognized suffix of name,
// or nil. Matching is case-insensitive.
func imageCodecByExt(name string) imageCodec {
	for _, f := range imageFormats {
		if hasSuffixFold(name, f.ext) {
			return f.codec
		}
	}
	return nil
}

func bitmapCodecByExt(name string) bitmapCodec {
	for _, f := range bitmapFormats {
		if hasSuffixFold(name, f.ext) {
			return f.codec
		}
	}
	return nil
}
