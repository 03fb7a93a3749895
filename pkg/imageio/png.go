package imageio

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/willbeason/buddhabrot/pkg/histogram"
)

// ToRGBA composes the three channels into an image, compressing each channel with f against
// its own maximum.
func ToRGBA(imgs histogram.RGB, f histogram.ScaleFunc) *image.RGBA {
	width, height := imgs.Width(), imgs.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: imgs[histogram.Red].Scaled(x, y, f),
				G: imgs[histogram.Green].Scaled(x, y, f),
				B: imgs[histogram.Blue].Scaled(x, y, f),
				A: 0xff,
			})
		}
	}

	return img
}

// Downsample shrinks img by an integer factor with Catmull-Rom filtering. Factors below 2
// return img unchanged.
func Downsample(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, max(1, b.Dx()/factor), max(1, b.Dy()/factor)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}

// EncodePNG writes the channels as a PNG, downsampled by factor (see Downsample).
func EncodePNG(w io.Writer, imgs histogram.RGB, f histogram.ScaleFunc, factor int) error {
	return png.Encode(w, Downsample(ToRGBA(imgs, f), factor))
}

// A NamedScale is a scaling function with a file-name friendly label.
type NamedScale struct {
	Name  string
	Scale histogram.ScaleFunc
}

// RescaleFuncs are the curves the rescale tool renders.
func RescaleFuncs() []NamedScale {
	return []NamedScale{
		{"fexp0_001", histogram.FExp(0.001)},
		{"fexp0_005", histogram.FExp(0.005)},
		{"fexp0_010", histogram.FExp(0.010)},
		{"fexp0_050", histogram.FExp(0.050)},
		{"fexp0_100", histogram.FExp(0.100)},
		{"log1_0", histogram.Log(1.0)},
		{"log0_5", histogram.Log(0.5)},
		{"log0_1", histogram.Log(0.1)},
		{"log0_01", histogram.Log(0.01)},
		{"ceil", histogram.Ceil},
	}
}
