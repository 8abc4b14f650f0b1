package imgio

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen-render/lumen/types"
)

func TestTonemapNormalizesByWeight(t *testing.T) {
	// Two samples of radiance 1 with weight 1 each: the normalized value
	// is 1 regardless of the accumulated magnitude.
	pixels := []types.Vec4{types.XYZW(2, 2, 2, 2)}
	img := Tonemap(pixels, types.UVec2{1, 1})

	c := img.NRGBAAt(0, 0)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("expected a grey pixel; got %+v", c)
	}
	// Reinhard maps 1 to 0.5; with gamma 2.2 that is ~186.
	if c.R < 180 || c.R > 192 {
		t.Fatalf("expected mapped channel near 186; got %d", c.R)
	}
	if c.A != 0xff {
		t.Fatalf("expected opaque alpha; got %d", c.A)
	}
}

func TestTonemapZeroWeightIsBlack(t *testing.T) {
	img := Tonemap([]types.Vec4{{}}, types.UVec2{1, 1})
	c := img.NRGBAAt(0, 0)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected an unexposed pixel to be black; got %+v", c)
	}
}

func TestWriteSelectsEncoderByExtension(t *testing.T) {
	dir := t.TempDir()
	pixels := make([]types.Vec4, 16)
	for i := range pixels {
		pixels[i] = types.XYZW(0.5, 0.25, 0.125, 1)
	}

	for _, name := range []string{"out.png", "out.webp", "out.tga", "out.bmp", "out.nosuchext"} {
		path := filepath.Join(dir, name)
		if err := Write(path, pixels, types.UVec2{4, 4}); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", name)
		}
	}
}

func TestWriteRoundTripPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	pixels := make([]types.Vec4, 4)
	if err := Write(path, pixels, types.UVec2{2, 2}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected decoded bounds %v", img.Bounds())
	}
}

func TestWriteRejectsShortPixelBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := Write(path, make([]types.Vec4, 2), types.UVec2{2, 2}); err == nil {
		t.Fatal("expected an error for a short pixel buffer")
	}
}
