package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"terrain-relief/internal/fbm"
)

// Scene configuration. Fixed at load time; the rendering core never
// mutates it. Invalid values fail Validate up front rather than
// surfacing as silent divergence mid-render.
type Config struct {
	Seed int64 `json:"seed"`

	// Octave sum
	Lacunarity    float32    `json:"lacunarity"`
	BaseAmplitude float32    `json:"baseAmplitude"`
	Gain          float32    `json:"gain"`
	Rotation      float32    `json:"rotation"` // radians
	Offset        [2]float32 `json:"offset"`
	Octaves       int        `json:"octaves"`
	SmoothOctaves int        `json:"smoothOctaves"`
	ShadowOctaves int        `json:"shadowOctaves"`

	// World mapping
	VerticalScale float32 `json:"verticalScale"`
	NoiseScale    float32 `json:"noiseScale"` // domain units per world unit
	Region        float32 `json:"region"`     // rendered half-extent, world units

	// Lighting
	LightDir    [3]float32 `json:"lightDir"`
	ShadowStart float32    `json:"shadowStart"`
	ShadowEnd   float32    `json:"shadowEnd"`

	// Materials
	SlopeLow     float32    `json:"slopeLow"`
	SlopeHigh    float32    `json:"slopeHigh"`
	LowColor     [3]float32 `json:"lowColor"`
	HighColor    [3]float32 `json:"highColor"`
	TintSource   string     `json:"tintSource"` // "perlin" or "value"
	TintStrength float32    `json:"tintStrength"`

	// Atmosphere
	SkyColor [3]float32 `json:"skyColor"`
	FogStart float32    `json:"fogStart"`
	FogEnd   float32    `json:"fogEnd"`
}

// Default returns the reference scene.
func Default() Config {
	return Config{
		Seed:          1,
		Lacunarity:    2.0,
		BaseAmplitude: 0.4,
		Gain:          0.45,
		Rotation:      0.524,
		Offset:        [2]float32{0, 0},
		Octaves:       10,
		SmoothOctaves: 3,
		ShadowOctaves: 5,
		VerticalScale: 120,
		NoiseScale:    1.0 / 256.0,
		Region:        512,
		LightDir:      [3]float32{-0.5, 0.6, -0.3},
		ShadowStart:   2,
		ShadowEnd:     180,
		SlopeLow:      0.08,
		SlopeHigh:     0.22,
		LowColor:      [3]float32{0.34, 0.42, 0.2},
		HighColor:     [3]float32{0.42, 0.38, 0.34},
		TintSource:    "perlin",
		TintStrength:  0.12,
		SkyColor:      [3]float32{0.62, 0.7, 0.82},
		FogStart:      200,
		FogEnd:        700,
	}
}

// Load reads a scene file over the defaults, so partial files only
// override the fields they name.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read scene file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not unmarshal scene json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.FbmSettings().Validate(); err != nil {
		return err
	}
	if c.ShadowOctaves < 1 || c.ShadowOctaves > c.Octaves {
		return fmt.Errorf("config: shadowOctaves must be in [1, %d], got %d", c.Octaves, c.ShadowOctaves)
	}
	if c.NoiseScale <= 0 {
		return fmt.Errorf("config: noiseScale must be > 0, got %v", c.NoiseScale)
	}
	if c.Region <= 0 {
		return fmt.Errorf("config: region must be > 0, got %v", c.Region)
	}
	if c.SlopeLow >= c.SlopeHigh {
		return fmt.Errorf("config: slope range low %v must be < high %v", c.SlopeLow, c.SlopeHigh)
	}
	if c.FogStart >= c.FogEnd {
		return fmt.Errorf("config: fog start %v must be < end %v", c.FogStart, c.FogEnd)
	}
	if c.ShadowStart >= c.ShadowEnd {
		return fmt.Errorf("config: shadow march start %v must be < end %v", c.ShadowStart, c.ShadowEnd)
	}
	if v := (mgl32.Vec3{c.LightDir[0], c.LightDir[1], c.LightDir[2]}); v.Len() == 0 {
		return fmt.Errorf("config: lightDir must be non-zero")
	}
	switch c.TintSource {
	case "perlin", "value":
	default:
		return fmt.Errorf("config: unknown tintSource %q", c.TintSource)
	}
	return nil
}

// FbmSettings maps the noise fields onto fbm.Settings.
func (c Config) FbmSettings() fbm.Settings {
	return fbm.Settings{
		Lacunarity:    c.Lacunarity,
		BaseAmplitude: c.BaseAmplitude,
		Gain:          c.Gain,
		Rotation:      c.Rotation,
		Offset:        mgl32.Vec2{c.Offset[0], c.Offset[1]},
		Octaves:       c.Octaves,
		SmoothOctaves: c.SmoothOctaves,
	}
}

// LightVec returns the normalized light direction.
func (c Config) LightVec() mgl32.Vec3 {
	return mgl32.Vec3{c.LightDir[0], c.LightDir[1], c.LightDir[2]}.Normalize()
}

func (c Config) LowColorVec() mgl32.Vec3 {
	return mgl32.Vec3{c.LowColor[0], c.LowColor[1], c.LowColor[2]}
}

func (c Config) HighColorVec() mgl32.Vec3 {
	return mgl32.Vec3{c.HighColor[0], c.HighColor[1], c.HighColor[2]}
}

func (c Config) SkyColorVec() mgl32.Vec3 {
	return mgl32.Vec3{c.SkyColor[0], c.SkyColor[1], c.SkyColor[2]}
}
