package grayio

const (
	// maxDim bounds parsed raster dimensions on either axis.
	maxDim = 1<<31 - 1
	// maxNameLen caps name tokens in the map container header.
	maxNameLen = 4096
)

const (
	mapMagic = "M1"
)
