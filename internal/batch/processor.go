package batch

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"diceroll/internal/dice"
	"diceroll/internal/postprocess"
	"diceroll/internal/roll"
	"diceroll/internal/trace"
)

// Config holds all shared resources for a batch run. Die, Table and Labeler
// are shared read-only between workers.
type Config struct {
	OutputDir string
	Die       *dice.Die
	Roll      roll.Options
	Table     *image.NRGBA
	Labeler   *postprocess.Labeler

	Width       int
	Height      int
	PixelRatio  float64
	Supersample int
	FrameDT     float64
	MaxFrames   int
	Trace       bool
	Workers     int
	Logger      *slog.Logger
}

// Result holds the outcome of one roll.
type Result struct {
	Seed    uint64
	Label   int
	Known   bool
	Frames  int
	Image   string // relative to OutputDir
	Trace   string // relative to OutputDir, empty when tracing is off
	Success bool
	Error   string
}

// Run rolls once per seed using a worker pool. Results are in seed order.
func Run(cfg Config, seeds []uint64) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.FrameDT <= 0 {
		cfg.FrameDT = roll.DefaultFixedStep
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	total := len(seeds)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f rolls/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	seedChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			painter := NewPainter(cfg.Width, cfg.Height, cfg.PixelRatio, cfg.Supersample, cfg.Table, cfg.Labeler)
			for idx := range seedChan {
				results[idx] = processRoll(cfg, painter, seeds[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range seeds {
		seedChan <- i
	}
	close(seedChan)

	wg.Wait()
	close(done)

	return results
}

func processRoll(cfg Config, painter *Painter, seed uint64) Result {
	res := Result{Seed: seed}
	fail := func(err error) Result {
		res.Error = err.Error()
		cfg.Logger.Warn("roll failed", "seed", seed, "err", err)
		return res
	}

	opts := cfg.Roll
	opts.Logger = cfg.Logger
	scene, err := roll.NewScene(cfg.Die, opts)
	if err != nil {
		return fail(err)
	}
	st := scene.Throw(seed)

	var onFrame func(roll.Sample) error
	if cfg.Trace {
		res.Trace = fmt.Sprintf("traces/%d%s", seed, trace.Ext)
		tw, err := trace.Create(filepath.Join(cfg.OutputDir, res.Trace), trace.HeaderFor(scene, seed, cfg.FrameDT))
		if err != nil {
			return fail(err)
		}
		defer tw.Close()
		onFrame = func(s roll.Sample) error { return tw.Write(trace.FromSample(s)) }
	}

	result, runErr := scene.Run(st, cfg.FrameDT, cfg.MaxFrames, onFrame)
	res.Frames = st.Frame
	res.Label, res.Known = result.Label, result.Known
	if runErr != nil && !st.Resolved {
		return fail(runErr)
	}

	// An unresolved ray still gets its snapshot, labelled unknown.
	q, p := st.Pose()
	img, err := painter.Paint(cfg.Die, q, p, result.String())
	if err != nil {
		return fail(err)
	}
	res.Image = fmt.Sprintf("%d.webp", seed)
	if err := postprocess.WriteWebP(filepath.Join(cfg.OutputDir, res.Image), img); err != nil {
		return fail(err)
	}
	if runErr != nil {
		return fail(runErr)
	}
	res.Success = true
	return res
}
