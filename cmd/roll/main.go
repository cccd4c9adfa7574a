package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"diceroll/internal/batch"
	"diceroll/internal/config"
	"diceroll/internal/dice"
	"diceroll/internal/logging"
	"diceroll/internal/postprocess"
	"diceroll/internal/roll"
	"diceroll/internal/texture"
	"diceroll/internal/trace"
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml, .toml)")
	seed := flag.Uint64("seed", 0, "Throw seed (default: derived from the clock)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	textureDir := flag.String("textures", "", "Directory holding the table texture")
	die := flag.String("die", "", "Die to roll: d8, d20 (default: d20)")
	width := flag.Int("width", 0, "Frame width (default: 800)")
	height := flag.Int("height", 0, "Frame height (default: 600)")
	dpr := flag.Float64("dpr", 0, "Device pixel ratio, capped at 2 (default: 1)")
	frameEvery := flag.Int("frames", 0, "Write every Nth frame as WebP (default: only the result)")
	traceOn := flag.Bool("trace", false, "Record a per-frame trace")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")

	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fatal("%v", err)
	}
	cfg, err := config.Build(*configFile, config.Flags{
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Die:        *die,
		Width:      *width,
		Height:     *height,
		PixelRatio: *dpr,
		FrameEvery: *frameEvery,
		Trace:      *traceOn,
		LogLevel:   *logLevel,
	})
	if err != nil {
		fatal("loading config: %v", err)
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fatal("%v", err)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	glyphs, err := dice.NewCanvasGlyphs(dice.GlyphSize, dice.GlyphPoints)
	if err != nil {
		fatal("%v", err)
	}
	defer glyphs.Close()

	d, err := dice.Build(cfg.Die, 1, glyphs)
	if err != nil {
		fatal("%v", err)
	}

	var table *image.NRGBA
	if cfg.TextureDir != "" {
		cache := texture.NewCache(texture.BuildIndex(cfg.TextureDir), log)
		if table, err = texture.Require(cache, cfg.TableTexture); err != nil {
			fatal("%v", err)
		}
	}

	labeler, err := postprocess.NewLabeler(0)
	if err != nil {
		fatal("%v", err)
	}
	defer labeler.Close()

	painter := batch.NewPainter(cfg.Width, cfg.Height, cfg.PixelRatio, cfg.Supersample, table, labeler)

	opts := cfg.RollOptions()
	opts.Logger = log
	scene, err := roll.NewScene(d, opts)
	if err != nil {
		fatal("%v", err)
	}
	st := scene.Throw(*seed)

	var tw *trace.Writer
	if cfg.Trace {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%d%s", *seed, trace.Ext))
		tw, err = trace.Create(path, trace.HeaderFor(scene, *seed, roll.DefaultFixedStep))
		if err != nil {
			fatal("%v", err)
		}
		log.Info("tracing", "path", path)
	}

	onFrame := func(s roll.Sample) error {
		if tw != nil {
			if err := tw.Write(trace.FromSample(s)); err != nil {
				return err
			}
		}
		if cfg.FrameEvery > 0 && s.Frame%cfg.FrameEvery == 0 {
			img, err := painter.Paint(d, s.Orientation, s.Position, "")
			if err != nil {
				return err
			}
			name := filepath.Join(cfg.OutputDir, "frames", fmt.Sprintf("%05d.webp", s.Frame))
			return postprocess.WriteWebP(name, img)
		}
		return nil
	}

	fmt.Printf("Rolling %s, seed %d\n", d.Name, *seed)
	start := time.Now()
	res, runErr := scene.Run(st, roll.DefaultFixedStep, cfg.MaxFrames, onFrame)
	if tw != nil {
		if err := tw.Close(); err != nil {
			log.Warn("trace close failed", "err", err)
		}
	}
	if runErr != nil && !st.Resolved {
		fatal("%v", runErr)
	}

	q, p := st.Pose()
	img, err := painter.Paint(d, q, p, res.String())
	if err != nil {
		fatal("%v", err)
	}
	out := filepath.Join(cfg.OutputDir, fmt.Sprintf("%d.webp", *seed))
	if err := postprocess.WriteWebP(out, img); err != nil {
		fatal("%v", err)
	}

	fmt.Printf("%s (%d frames, %.2fs simulated, %.1fs wall)\n", res, st.Frame, st.Elapsed, time.Since(start).Seconds())
	fmt.Printf("Snapshot: %s\n", out)
	if errors.Is(runErr, roll.ErrNoIntersection) {
		os.Exit(1)
	}
}
