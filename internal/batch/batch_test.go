package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"diceroll/internal/dice"
	"diceroll/internal/mathutil"
	"diceroll/internal/roll"
	"diceroll/internal/trace"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	d, err := dice.Build("d8", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	return Config{
		OutputDir:   t.TempDir(),
		Die:         d,
		Roll:        roll.Options{MaxForce: roll.DefaultMaxForce},
		Width:       32,
		Height:      24,
		PixelRatio:  1,
		Supersample: 1,
		FrameDT:     1.0 / 60,
		MaxFrames:   60 * 120,
		Workers:     2,
	}
}

func TestRunWritesImagesAndTraces(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trace = true
	seeds := []uint64{11, 12, 13}

	results := Run(cfg, seeds)
	if len(results) != len(seeds) {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.Seed != seeds[i] {
			t.Fatalf("result %d has seed %d, want %d", i, r.Seed, seeds[i])
		}
		if !r.Success || !r.Known || r.Label < 1 || r.Label > 8 {
			t.Fatalf("result = %+v", r)
		}
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, r.Image)); err != nil {
			t.Fatalf("image: %v", err)
		}

		var last trace.Frame
		h, err := trace.Read(filepath.Join(cfg.OutputDir, r.Trace), func(f trace.Frame) error {
			last = f
			return nil
		})
		if err != nil {
			t.Fatalf("trace: %v", err)
		}
		if h.Seed != r.Seed || h.Die != "d8" || h.Threshold != roll.DefaultThreshold {
			t.Fatalf("header = %+v", h)
		}
		if last.Frame != r.Frames || !last.AtRest || last.Label != r.Label {
			t.Fatalf("last frame = %+v, result = %+v", last, r)
		}
	}
}

func TestRunMatchesSingleRoll(t *testing.T) {
	cfg := testConfig(t)
	results := Run(cfg, []uint64{99})

	scene, err := roll.NewScene(cfg.Die, cfg.Roll)
	if err != nil {
		t.Fatal(err)
	}
	want, err := scene.Run(scene.Throw(99), cfg.FrameDT, cfg.MaxFrames, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Label != want.Label {
		t.Fatalf("batch label %d, single roll %d", results[0].Label, want.Label)
	}
}

func TestRunReportsUnsettled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxFrames = 5
	r := Run(cfg, []uint64{1})[0]
	if r.Success || r.Error == "" || r.Frames != 5 {
		t.Fatalf("result = %+v", r)
	}
}

func TestPainterFollowsDie(t *testing.T) {
	cfg := testConfig(t)
	p := NewPainter(40, 30, 2, 1, nil, nil)
	pos := mathutil.Vec3{3, -4, 1}
	img, err := p.Paint(cfg.Die, mathutil.QuatIdentity(), pos, "")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if p.Viewport.Camera.Target != pos {
		t.Fatalf("camera target = %v", p.Viewport.Camera.Target)
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{
		{Seed: 1, Label: 5, Known: true, Frames: 240, Image: "1.webp", Success: true},
		{Seed: 2, Frames: 7200, Error: "roll: die did not come to rest"},
	}
	if err := WriteManifest(path, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Result != "5" || entries[1].Result != "unknown" || entries[1].Error == "" {
		t.Fatalf("entries = %+v", entries)
	}
}
