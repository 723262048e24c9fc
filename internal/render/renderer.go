package render

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"terrain-relief/internal/config"
	"terrain-relief/internal/fbm"
	"terrain-relief/internal/noise"
	"terrain-relief/internal/profiling"
	"terrain-relief/internal/terrain"
)

// Software relief renderer. Each pixel maps to a world position on
// the ground plane; the height field is evaluated there and shaded
// with Lambert lighting, marched shadows, slope materials and
// distance fog. Pixels are fully independent, so the image is
// partitioned across workers by row with no synchronization beyond
// the final join.

const (
	ambientLight  = 0.18
	shadowFactor  = 0.35
	invGamma      = 1.0 / 2.2
	surfaceLift   = 0.5 // shadow ray start height above the surface
	tintFrequency = 1.0 / 96.0
)

type Renderer struct {
	terrain *terrain.Terrain
	tint    noise.Source
	cfg     config.Config
}

// New builds the noise source, octave field and terrain for a scene.
func New(cfg config.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	field, err := fbm.New(noise.NewGradient2D(cfg.Seed), cfg.FbmSettings())
	if err != nil {
		return nil, err
	}
	terr, err := terrain.New(field, cfg.NoiseScale, cfg.VerticalScale, cfg.ShadowOctaves, cfg.LightVec())
	if err != nil {
		return nil, err
	}

	var tint noise.Source
	switch cfg.TintSource {
	case "value":
		tint = noise.NewValue2D(cfg.Seed + 1)
	default:
		tint = noise.NewPerlin(cfg.Seed + 1)
	}

	return &Renderer{terrain: terr, tint: tint, cfg: cfg}, nil
}

func (r *Renderer) Terrain() *terrain.Terrain {
	return r.terrain
}

// Render shades a width x height image. workers <= 0 uses one worker
// per CPU.
func (r *Renderer) Render(width, height, workers int) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("render: invalid image size %dx%d", width, height)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	defer profiling.Track("render.Trace")()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				r.shadeRow(img, y, width, height)
			}
		}()
	}
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return img, nil
}

func (r *Renderer) shadeRow(img *image.RGBA, y, width, height int) {
	for x := 0; x < width; x++ {
		// Pixel center to world XZ over [-region, region]
		wx := (float32(x)+0.5)/float32(width)*2*r.cfg.Region - r.cfg.Region
		wz := (float32(y)+0.5)/float32(height)*2*r.cfg.Region - r.cfg.Region

		c := r.shade(mgl32.Vec2{wx, wz})

		off := img.PixOffset(x, y)
		img.Pix[off+0] = encode(c.X())
		img.Pix[off+1] = encode(c.Y())
		img.Pix[off+2] = encode(c.Z())
		img.Pix[off+3] = 0xFF
	}
}

// shade computes the final color for one world-plane position.
func (r *Renderer) shade(world mgl32.Vec2) mgl32.Vec3 {
	res := r.terrain.Sample(world)
	worldH := res.Height * r.cfg.VerticalScale

	albedo := terrain.BlendMaterial(res.SmoothGradient,
		r.cfg.LowColorVec(), r.cfg.HighColorVec(),
		r.cfg.SlopeLow, r.cfg.SlopeHigh)

	if r.cfg.TintStrength != 0 {
		t := r.tint.Sample(world.Mul(tintFrequency))
		albedo = albedo.Mul(1 + r.cfg.TintStrength*t)
	}

	normal := r.terrain.Normal(res.Gradient)
	diffuse := normal.Dot(r.terrain.LightDir())
	if diffuse < 0 {
		diffuse = 0
	}

	if diffuse > 0 {
		origin := mgl32.Vec3{world.X(), worldH + surfaceLift, world.Y()}
		if hit := r.terrain.ShadowMarch(origin, r.cfg.ShadowStart, r.cfg.ShadowEnd); hit < r.cfg.ShadowEnd {
			diffuse *= shadowFactor
		}
	}

	color := albedo.Mul(ambientLight + diffuse)

	// Fog by distance from the overhead viewpoint at the region center
	dist := world.Len()
	fog := terrain.Smoothstep(r.cfg.FogStart, r.cfg.FogEnd, dist)
	color = color.Mul(1 - fog).Add(r.cfg.SkyColorVec().Mul(fog))

	return color
}

func encode(v float32) uint8 {
	v = mgl32.Clamp(v, 0, 1)
	g := math.Pow(float64(v), invGamma)
	return uint8(g*255 + 0.5)
}
