// Package sampler converts raster images into normalised height grids.
//
// Each pixel is reduced to its 8-bit luminance and divided by 255, so black
// maps to 0 and white to 1. Rows are emitted top to bottom, pixels left to
// right, matching the row-major order of heightgrid.Grid.
package sampler

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/heightgrid"
	"github.com/banshee-data/relief/internal/monitoring"
)

// Normalize maps an 8-bit luminance value onto [0, 1].
func Normalize(v uint8) float64 {
	return float64(v) / 255.0
}

// Options adjust how an image is sampled. The zero value samples every
// pixel at its native resolution.
type Options struct {
	// Width and Height resample the image before sampling. When only one is
	// set the other follows the source aspect ratio. Zero keeps the native size.
	Width  int
	Height int

	// Invert maps dark pixels to high values (v becomes 255-v).
	Invert bool
}

// Decode reads a PNG, JPEG, GIF, BMP, TIFF or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// Luminance reduces c to 8-bit luminance from its straight (non-premultiplied)
// red, green and blue channels with the ITU-R 601 weights 299/587/114. Alpha
// is discarded, so a transparent pixel keeps the height of its colour.
func Luminance(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	y := (19595*uint32(n.R) + 38470*uint32(n.G) + 7471*uint32(n.B) + 1<<15) >> 16
	return uint8(y)
}

// Grayscale returns img as an opaque luminance image with the same bounds.
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: Luminance(img.At(x, y))})
		}
	}
	return out
}

// FromImage samples img into a grid with one row per image row. Each pixel
// is reduced with Luminance.
func FromImage(img image.Image) heightgrid.Grid {
	return fromImage(img, false)
}

func fromImage(img image.Image, invert bool) heightgrid.Grid {
	b := img.Bounds()
	g := heightgrid.New(b.Dy(), b.Dx())

	gray, isGray := img.(*image.Gray)
	for y := 0; y < b.Dy(); y++ {
		row := g[y]
		for x := 0; x < b.Dx(); x++ {
			var v uint8
			if isGray {
				v = gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			} else {
				v = Luminance(img.At(b.Min.X+x, b.Min.Y+y))
			}
			if invert {
				v = 255 - v
			}
			row[x] = Normalize(v)
		}
	}
	return g
}

// Resize scales img to width x height luminance pixels with Catmull-Rom
// filtering. A zero dimension is derived from the other one and the source
// aspect ratio; if both are zero img is returned unchanged. The image is
// reduced with Grayscale first so transparency does not darken the result.
func Resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if (width <= 0 && height <= 0) || b.Empty() {
		return img
	}
	if width <= 0 {
		width = max(1, (height*b.Dx()+b.Dy()/2)/b.Dy())
	}
	if height <= 0 {
		height = max(1, (width*b.Dy()+b.Dx()/2)/b.Dx())
	}
	if width == b.Dx() && height == b.Dy() {
		return img
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), Grayscale(img), b, xdraw.Src, nil)
	return dst
}

// Sample applies opts to img and returns the height grid.
func Sample(img image.Image, opts Options) heightgrid.Grid {
	return fromImage(Resize(img, opts.Width, opts.Height), opts.Invert)
}

// Sampler reads images from and writes CSV grids to a FileSystem.
type Sampler struct {
	FS      fsutil.FileSystem
	Options Options
}

// New returns a Sampler over fsys.
func New(fsys fsutil.FileSystem, opts Options) *Sampler {
	return &Sampler{FS: fsys, Options: opts}
}

// Load opens and decodes the image at path. Both failures are reported as
// *heightgrid.FileError.
func (s *Sampler) Load(path string) (image.Image, error) {
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, &heightgrid.FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, &heightgrid.FileError{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}

// ImageToCSV samples the image at imagePath and writes the grid to csvPath,
// overwriting it. The file starts with heightgrid.ImageHeader followed by one
// record per image row. Nothing is cleaned up if writing fails part way.
func (s *Sampler) ImageToCSV(imagePath, csvPath string) (heightgrid.Grid, error) {
	img, err := s.Load(imagePath)
	if err != nil {
		return nil, err
	}

	g := Sample(img, s.Options)
	if err := heightgrid.WriteFile(s.FS, csvPath, g, heightgrid.ImageHeader); err != nil {
		return nil, fmt.Errorf("write height grid: %w", err)
	}
	monitoring.Logf("CSV file saved at %s", csvPath)
	return g, nil
}
