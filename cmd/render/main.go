package main

import (
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
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml, .toml)")
	count := flag.Int("n", 20, "Number of rolls")
	firstSeed := flag.Uint64("seed", 1, "Seed of the first roll; later rolls count up")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	textureDir := flag.String("textures", "", "Directory holding the table texture")
	die := flag.String("die", "", "Die to roll: d8, d20 (default: d20)")
	traceOn := flag.Bool("trace", false, "Record a per-frame trace for every roll")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")

	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Build(*configFile, config.Flags{
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Die:        *die,
		Workers:    *workers,
		Trace:      *traceOn,
		LogLevel:   *logLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *count <= 0 {
		fmt.Println("No rolls to render.")
		os.Exit(0)
	}
	seeds := make([]uint64, *count)
	for i := range seeds {
		seeds[i] = *firstSeed + uint64(i)
	}

	glyphs, err := dice.NewCanvasGlyphs(dice.GlyphSize, dice.GlyphPoints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer glyphs.Close()

	d, err := dice.Build(cfg.Die, 1, glyphs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building die: %v\n", err)
		os.Exit(1)
	}

	var table *image.NRGBA
	if cfg.TextureDir != "" {
		texIndex := texture.BuildIndex(cfg.TextureDir)
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
		table, err = texture.Require(texture.NewCache(texIndex, log), cfg.TableTexture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	labeler, err := postprocess.NewLabeler(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer labeler.Close()

	fmt.Printf("Dice roll renderer → WebP (%s)\n", d.Name)
	fmt.Printf("Rolls: %d (seeds %d..%d), Workers: %d\n", len(seeds), seeds[0], seeds[len(seeds)-1], cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Die:         d,
		Roll:        cfg.RollOptions(),
		Table:       table,
		Labeler:     labeler,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PixelRatio:  cfg.PixelRatio,
		Supersample: cfg.Supersample,
		FrameDT:     roll.DefaultFixedStep,
		MaxFrames:   cfg.MaxFrames,
		Trace:       cfg.Trace,
		Workers:     cfg.Workers,
		Logger:      log,
	}

	results := batch.Run(batchCfg, seeds)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success := 0
	var failures []batch.Result
	histogram := make(map[int]int)
	for _, r := range results {
		if r.Success {
			success++
			histogram[r.Label]++
		} else {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))
	for label := 1; label <= d.FaceCount(); label++ {
		if n := histogram[label]; n > 0 {
			fmt.Printf("  %2d: %d\n", label, n)
		}
	}

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(len(failures), 20)
		for _, f := range failures[:limit] {
			fmt.Printf("  seed %d: %s\n", f.Seed, f.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
