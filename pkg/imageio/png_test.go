package imageio

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/willbeason/buddhabrot/pkg/histogram"
)

func TestToRGBA(t *testing.T) {
	imgs := sampleRGB()
	img := ToRGBA(imgs, histogram.Linear)

	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("Expected 3x2 image, got %v", b)
	}

	c := img.RGBAAt(0, 0)
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("Expected opaque red at (0,0), got %+v", c)
	}
	c = img.RGBAAt(2, 0)
	if c.G != 255 {
		t.Errorf("Expected green channel normalized to its own max, got %+v", c)
	}
	c = img.RGBAAt(1, 1)
	// 1/7 of 255
	if c.B != 36 {
		t.Errorf("Expected blue 36 at (1,1), got %d", c.B)
	}
}

func TestEncodePNG_Downsample(t *testing.T) {
	imgs := histogram.NewRGB(8, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			imgs[histogram.Red].Set(x, y, 5)
		}
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, imgs, histogram.Linear, 2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("Expected 4x3 image, got %v", b)
	}

	r, _, _, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("Expected uniform red to stay saturated, got %d", r>>8)
	}
}

func TestDownsample_Identity(t *testing.T) {
	img := ToRGBA(sampleRGB(), histogram.Ceil)
	if Downsample(img, 1) != img {
		t.Errorf("Expected factor 1 to return the input image")
	}
}

func TestRescaleFuncs(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range RescaleFuncs() {
		if seen[s.Name] {
			t.Errorf("Duplicate scale name %q", s.Name)
		}
		seen[s.Name] = true

		if got := s.Scale(100, 100); got < 0.999 || got > 1.001 {
			t.Errorf("Expected %s(max, max) = 1, got %f", s.Name, got)
		}
	}
	if len(seen) != 10 {
		t.Errorf("Expected 10 scale functions, got %d", len(seen))
	}
}
