package trace

import "diceroll/internal/roll"

// Report summarises a replayed trace.
type Report struct {
	Header    Header
	Frames    int
	RestFrame int // first frame the replayed detector reported rest, 0 if never
	Recorded  int // first frame recorded as at rest, 0 if never
	Label     int // recorded result, 0 if none
	Digest    uint64
}

// Matches reports whether the replay reached rest on the recorded frame.
func (r Report) Matches() bool {
	return r.RestFrame == r.Recorded
}

// Replay feeds the recorded orientations of the trace at path through det.
// A nil det is built from the trace header, reproducing the original run.
func Replay(path string, det *roll.StopDetector) (Report, error) {
	var rep Report
	digest := NewDigest()
	onHeader := func(h Header) {
		if det == nil {
			det = detectorFor(h)
		}
	}
	h, err := read(path, onHeader, func(f Frame) error {
		rep.Frames++
		digest.Add(f.Position, f.Orientation)
		if det.Update(f.Orientation) && rep.RestFrame == 0 {
			rep.RestFrame = f.Frame
		}
		if f.AtRest && rep.Recorded == 0 {
			rep.Recorded = f.Frame
		}
		if f.Label != 0 {
			rep.Label = f.Label
		}
		return nil
	})
	rep.Header = h
	rep.Digest = digest.Sum64()
	return rep, err
}

func detectorFor(h Header) *roll.StopDetector {
	mode, err := roll.ParseToleranceMode(h.Mode)
	if err != nil {
		mode = roll.Symmetric
	}
	return roll.NewStopDetector(h.Tolerance, h.Threshold, mode)
}
