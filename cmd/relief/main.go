package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"terrain-relief/internal/config"
	"terrain-relief/internal/profiling"
	"terrain-relief/internal/render"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		scenePath   = flag.String("scene", "", "scene json file (defaults used when empty)")
		outPath     = flag.String("out", "relief.png", "output image path")
		width       = flag.Int("width", 1024, "output width in pixels")
		height      = flag.Int("height", 1024, "output height in pixels")
		supersample = flag.Int("supersample", 2, "render scale factor before downsampling")
		workers     = flag.Int("workers", 0, "render workers (0 = one per CPU)")
		seed        = flag.Int64("seed", 0, "override scene seed when non-zero")
	)
	flag.Parse()

	cfg := config.Default()
	if *scenePath != "" {
		var err error
		cfg, err = config.Load(*scenePath)
		if err != nil {
			log.Fatal().Err(err).Str("scene", *scenePath).Msg("could not load scene")
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	r, err := render.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build renderer")
	}

	log.Info().
		Int64("seed", cfg.Seed).
		Int("octaves", cfg.Octaves).
		Int("width", *width).
		Int("height", *height).
		Int("supersample", *supersample).
		Msg("rendering relief")

	profiling.Reset()
	start := time.Now()
	img, err := r.RenderSupersampled(*width, *height, *supersample, *workers)
	if err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}
	if err := render.WritePNG(*outPath, img); err != nil {
		log.Fatal().Err(err).Msg("could not write output")
	}

	log.Info().
		Dur("elapsed", time.Since(start)).
		Str("phases", profiling.Summary()).
		Str("out", *outPath).
		Msg("done")
}
