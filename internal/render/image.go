package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"terrain-relief/internal/profiling"
)

// RenderSupersampled traces at scale times the target resolution and
// downsamples with a Catmull-Rom kernel. scale 1 is a plain render.
func (r *Renderer) RenderSupersampled(width, height, scale, workers int) (*image.RGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("render: supersample scale must be >= 1, got %d", scale)
	}
	hi, err := r.Render(width*scale, height*scale, workers)
	if err != nil {
		return nil, err
	}
	if scale == 1 {
		return hi, nil
	}

	defer profiling.Track("render.Downsample")()
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), hi, hi.Bounds(), draw.Src, nil)
	return out, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	defer profiling.Track("render.EncodePNG")()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}
	return nil
}
