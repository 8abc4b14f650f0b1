// Package imgio converts accumulated radiance into 8-bit images and writes
// them out, choosing the encoder from the output file's extension.
package imgio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/lumen-render/lumen/types"
)

const invGamma = 1.0 / 2.2

// Tonemap converts an accumulated film (weighted radiance in rgb, total
// weight in w) into an 8-bit sRGB image using simple Reinhard mapping.
func Tonemap(pixels []types.Vec4, resolution types.UVec2) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(resolution[0]), int(resolution[1])))
	for y := 0; y < int(resolution[1]); y++ {
		for x := 0; x < int(resolution[0]); x++ {
			acc := pixels[y*int(resolution[0])+x]

			var radiance types.Vec3
			if acc[3] > 0 {
				radiance = acc.Vec3().Mul(1 / acc[3])
			}

			img.SetNRGBA(x, y, color.NRGBA{
				R: channel(radiance[0]),
				G: channel(radiance[1]),
				B: channel(radiance[2]),
				A: 0xff,
			})
		}
	}
	return img
}

func channel(v float32) uint8 {
	// Reinhard then gamma.
	mapped := v / (1 + v)
	mapped = float32(math.Pow(float64(mapped), invGamma))
	if mapped < 0 {
		mapped = 0
	} else if mapped > 1 {
		mapped = 1
	}
	return uint8(mapped*255 + 0.5)
}

// Write tonemaps the film and encodes it to path. Supported extensions:
// .png, .webp, .tga and .bmp; anything else falls back to png.
func Write(path string, pixels []types.Vec4, resolution types.UVec2) error {
	if len(pixels) < int(resolution.Area()) {
		return fmt.Errorf("imgio: %s: have %d pixels for a %dx%d frame", path, len(pixels), resolution[0], resolution[1])
	}

	img := Tonemap(pixels, resolution)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imgio: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".tga":
		err = tga.Encode(f, img)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("imgio: encode %s: %w", path, err)
	}
	return nil
}
