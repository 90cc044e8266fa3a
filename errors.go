package grayio

import "errors"

// Error kinds reported by this package. Call sites wrap them with context
// via fmt.Errorf("...: %w", err), so classify failures with errors.Is.
var (
	ErrEmptyName              = errors.New("grayio: empty file name")
	ErrFileNotFound           = errors.New("grayio: file not found")
	ErrMalformedHeader        = errors.New("grayio: malformed header")
	ErrUnsupportedFormat      = errors.New("grayio: unsupported format")
	ErrTruncatedFile          = errors.New("grayio: truncated file")
	ErrAllocation             = errors.New("grayio: buffer dimensions out of range")
	ErrUnsupportedCompression = errors.New("grayio: unsupported compression")
)
