package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/vearutop/grayio"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "info":
		if err := runInfo(os.Args[2:]); err != nil {
			fail(err)
		}
	case "convert":
		if err := runConvert(os.Args[2:]); err != nil {
			fail(err)
		}
	case "crop":
		if err := runCrop(os.Args[2:]); err != nil {
			fail(err)
		}
	case "reduce":
		if err := runReduce(os.Args[2:]); err != nil {
			fail(err)
		}
	case "mapinfo":
		if err := runMapinfo(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: graytool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  info    -in frame [-bitmap]")
	fmt.Fprintln(os.Stderr, "  convert -in frame -out out.tif [-c none|deflate|95|90|85|80|75|70] [-bitmap]")
	fmt.Fprintln(os.Stderr, "  crop    -in frame -out out.pgm [-x0 N] [-x1 N] [-y0 N] [-y1 N] [-c ...] [-bitmap]")
	fmt.Fprintln(os.Stderr, "  reduce  -in frame -out out.pgm -levels N [-c ...]")
	fmt.Fprintln(os.Stderr, "  mapinfo -in warp.map")
	fmt.Fprintln(os.Stderr, "Input names without an extension are probed against the supported formats.")
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image or bitmap")
	bitmap := fs.Bool("bitmap", false, "treat input as a 1-bit bitmap")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	var (
		w, h int
		err  error
	)
	if *bitmap {
		w, h, err = grayio.ReadBitmapSize(*inPath)
	} else {
		w, h, err = grayio.ReadImageSize(*inPath)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%dx%d\n", w, h)
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image or bitmap")
	outPath := fs.String("out", "", "output file")
	comp := fs.String("c", "none", "compression option")
	bitmap := fs.Bool("bitmap", false, "treat input as a 1-bit bitmap")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	c, err := parseCompression(*comp)
	if err != nil {
		return err
	}
	if *bitmap {
		b, err := grayio.ReadBitmap(*inPath)
		if err != nil {
			return err
		}
		return grayio.WriteBitmap(*outPath, b, c)
	}
	im, err := grayio.ReadImage(*inPath)
	if err != nil {
		return err
	}
	return grayio.WriteImage(*outPath, im, c)
}

func runCrop(args []string) error {
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image or bitmap")
	outPath := fs.String("out", "", "output file")
	x0 := fs.Int("x0", -1, "left bound, -1 for frame edge")
	x1 := fs.Int("x1", -1, "right bound, -1 for frame edge")
	y0 := fs.Int("y0", -1, "top bound, -1 for frame edge")
	y1 := fs.Int("y1", -1, "bottom bound, -1 for frame edge")
	comp := fs.String("c", "none", "compression option")
	bitmap := fs.Bool("bitmap", false, "treat input as a 1-bit bitmap")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	c, err := parseCompression(*comp)
	if err != nil {
		return err
	}
	win := grayio.Window{MinX: *x0, MaxX: *x1, MinY: *y0, MaxY: *y1}
	if *bitmap {
		b, err := grayio.ReadBitmapRegion(*inPath, win)
		if err != nil {
			return err
		}
		return grayio.WriteBitmap(*outPath, b, c)
	}
	im, err := grayio.ReadImageRegion(*inPath, win)
	if err != nil {
		return err
	}
	return grayio.WriteImage(*outPath, im, c)
}

func runReduce(args []string) error {
	fs := flag.NewFlagSet("reduce", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output file")
	levels := fs.Int("levels", 1, "pyramid levels to reduce by")
	comp := fs.String("c", "none", "compression option")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	c, err := parseCompression(*comp)
	if err != nil {
		return err
	}
	im, err := grayio.ReadImage(*inPath)
	if err != nil {
		return err
	}
	reduced, err := grayio.Reduce(im, *levels)
	if err != nil {
		return err
	}
	return grayio.WriteImage(*outPath, reduced, c)
}

func runMapinfo(args []string) error {
	fs := flag.NewFlagSet("mapinfo", flag.ContinueOnError)
	inPath := fs.String("in", "", "input map file")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	m, err := grayio.ReadMap(*inPath)
	if err != nil {
		return err
	}
	info := struct {
		Level     int    `json:"level"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		XMin      int    `json:"xMin"`
		YMin      int    `json:"yMin"`
		Image     string `json:"image"`
		Reference string `json:"reference"`
	}{m.Level, m.Width, m.Height, m.XMin, m.YMin, m.ImageName, m.ReferenceName}
	payload, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

func parseCompression(s string) (grayio.Compression, error) {
	switch s {
	case "none":
		return grayio.NoCompression, nil
	case "deflate":
		return grayio.DeflateCompression, nil
	case "95":
		return grayio.JPEGQuality95, nil
	case "90":
		return grayio.JPEGQuality90, nil
	case "85":
		return grayio.JPEGQuality85, nil
	case "80":
		return grayio.JPEGQuality80, nil
	case "75":
		return grayio.JPEGQuality75, nil
	case "70":
		return grayio.JPEGQuality70, nil
	}
	return 0, fmt.Errorf("unknown compression option %q", s)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
