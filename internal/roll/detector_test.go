package roll

import (
	"testing"

	"diceroll/internal/mathutil"
)

func TestStopDetectorConstantStream(t *testing.T) {
	q := mathutil.EulerToQuat(0.4, 1.2, -0.7)
	tests := []struct {
		calls int
		want  bool
	}{
		{1, false},
		{100, false},
		{101, true},
		{500, true},
	}
	for _, tt := range tests {
		d := NewStopDetector(0, 0, Symmetric)
		var got bool
		for i := 0; i < tt.calls; i++ {
			got = d.Update(q)
		}
		if got != tt.want {
			t.Fatalf("after %d identical updates at rest = %v, want %v", tt.calls, got, tt.want)
		}
	}
}

func TestStopDetectorResetsOnChange(t *testing.T) {
	base := mathutil.QuatIdentity()
	for comp := 0; comp < 4; comp++ {
		d := NewStopDetector(0.001, 100, Symmetric)
		for i := 0; i < 50; i++ {
			d.Update(base)
		}
		if d.StableFrames() != 50 {
			t.Fatalf("stable frames = %d, want 50", d.StableFrames())
		}
		moved := base
		moved[comp] -= 0.01
		d.Update(moved)
		if d.StableFrames() != 0 {
			t.Fatalf("component %d: stable frames = %d after change, want 0", comp, d.StableFrames())
		}
		// The changed orientation is the new reference.
		d.Update(moved)
		if d.StableFrames() != 1 {
			t.Fatalf("component %d: stable frames = %d, want 1", comp, d.StableFrames())
		}
	}
}

func TestStopDetectorWithinTolerance(t *testing.T) {
	d := NewStopDetector(0.001, 3, Symmetric)
	q := mathutil.QuatIdentity()
	d.Update(q)
	q[0] += 0.0005
	d.Update(q)
	q[0] += 0.0004 // 0.0009 from the reference
	d.Update(q)
	if !d.Update(q) || d.StableFrames() != 4 {
		t.Fatalf("drift under tolerance reset the count: %d", d.StableFrames())
	}
}

func TestToleranceModes(t *testing.T) {
	up := mathutil.QuatIdentity()
	up[2] += 0.5 // a large increase of one component

	tests := []struct {
		mode ToleranceMode
		want int
	}{
		{Symmetric, 0},
		{OneSided, 2},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			d := NewStopDetector(0.001, 100, tt.mode)
			d.Update(mathutil.QuatIdentity())
			d.Update(up)
			if d.StableFrames() != tt.want {
				t.Fatalf("stable frames = %d, want %d", d.StableFrames(), tt.want)
			}
		})
	}
}

func TestStopDetectorReset(t *testing.T) {
	d := NewStopDetector(0.001, 1, Symmetric)
	d.Update(mathutil.QuatIdentity())
	if !d.Update(mathutil.QuatIdentity()) {
		t.Fatal("expected rest")
	}
	d.Reset()
	if d.AtRest() || d.StableFrames() != 0 {
		t.Fatal("Reset kept state")
	}
}

func TestParseToleranceMode(t *testing.T) {
	for in, want := range map[string]ToleranceMode{"": Symmetric, "symmetric": Symmetric, "one-sided": OneSided} {
		got, err := ParseToleranceMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseToleranceMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseToleranceMode("loose"); err == nil {
		t.Fatal("expected error")
	}
}
