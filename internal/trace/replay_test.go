package trace

import (
	"path/filepath"
	"testing"

	"diceroll/internal/dice"
	"diceroll/internal/mathutil"
	"diceroll/internal/roll"
)

func recordRoll(t *testing.T, seed uint64) (string, roll.Result) {
	t.Helper()
	d, err := dice.Build("d20", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := roll.NewScene(d, roll.Options{MaxForce: roll.DefaultMaxForce})
	if err != nil {
		t.Fatal(err)
	}
	st := scene.Throw(seed)

	path := filepath.Join(t.TempDir(), "roll"+Ext)
	w, err := Create(path, HeaderFor(scene, seed, roll.DefaultFixedStep))
	if err != nil {
		t.Fatal(err)
	}
	res, err := scene.Run(st, roll.DefaultFixedStep, 60*120, func(s roll.Sample) error {
		return w.Write(FromSample(s))
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path, res
}

func TestReplayReproducesRest(t *testing.T) {
	path, res := recordRoll(t, 5)

	rep, err := Replay(path, nil)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !rep.Matches() || rep.RestFrame == 0 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.RestFrame != rep.Frames {
		t.Fatalf("rest at %d but trace has %d frames", rep.RestFrame, rep.Frames)
	}
	if rep.Label != res.Label || rep.Header.Seed != 5 || rep.Header.MaxForce != roll.DefaultMaxForce {
		t.Fatalf("report = %+v, result = %v", rep, res)
	}
}

func TestReplayDigestMatchesLiveRun(t *testing.T) {
	path, _ := recordRoll(t, 8)
	rep, err := Replay(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	d, err := dice.Build("d20", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := roll.NewScene(d, roll.Options{MaxForce: roll.DefaultMaxForce})
	if err != nil {
		t.Fatal(err)
	}
	live := NewDigest()
	_, err = scene.Run(scene.Throw(8), roll.DefaultFixedStep, 60*120, func(s roll.Sample) error {
		live.Add(s.Position, s.Orientation)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if live.Sum64() != rep.Digest {
		t.Fatalf("live digest %x, replayed %x", live.Sum64(), rep.Digest)
	}

	other := NewDigest()
	other.Add(mathutil.Vec3{}, mathutil.QuatIdentity())
	if other.Sum64() == rep.Digest {
		t.Fatal("unrelated stream produced the same digest")
	}
}

func TestReplayWithShorterThreshold(t *testing.T) {
	path, _ := recordRoll(t, 6)

	rep, err := Replay(path, roll.NewStopDetector(roll.DefaultTolerance, 50, roll.Symmetric))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if rep.Matches() || rep.RestFrame == 0 || rep.RestFrame >= rep.Recorded {
		t.Fatalf("report = %+v, want earlier rest", rep)
	}
}
