// Package trace records a roll frame by frame as zstd-compressed JSON lines.
// The first line is a Header, every following line one Frame.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"diceroll/internal/mathutil"
	"diceroll/internal/roll"
)

// Ext is the file extension of trace files.
const Ext = ".jsonl.zst"

// Header describes the roll a trace was recorded from.
type Header struct {
	Seed       uint64  `json:"seed"`
	Die        string  `json:"die"`
	FrameDT    float64 `json:"frame_dt"`
	DropHeight float64 `json:"drop_height"`
	MaxForce   float64 `json:"max_force"`
	Tolerance  float64 `json:"tolerance"`
	Threshold  int     `json:"threshold"`
	Mode       string  `json:"mode"`
}

// HeaderFor describes a roll of scene thrown with seed and stepped by frameDT.
func HeaderFor(scene *roll.Scene, seed uint64, frameDT float64) Header {
	opts := scene.Options()
	det := roll.NewStopDetector(opts.Tolerance, opts.Threshold, opts.Mode)
	return Header{
		Seed:       seed,
		Die:        scene.Die().Name,
		FrameDT:    frameDT,
		DropHeight: opts.DropHeight,
		MaxForce:   opts.MaxForce,
		Tolerance:  det.Tolerance,
		Threshold:  det.Threshold,
		Mode:       det.Mode.String(),
	}
}

// Frame is one recorded simulation frame.
type Frame struct {
	Frame        int           `json:"frame"`
	Elapsed      float64       `json:"t"`
	Position     mathutil.Vec3 `json:"pos"`
	Orientation  mathutil.Quat `json:"quat"`
	StableFrames int           `json:"stable"`
	AtRest       bool          `json:"at_rest"`
	Sleeping     bool          `json:"sleeping,omitempty"`
	Label        int           `json:"label,omitempty"`
}

// FromSample converts a simulation sample into a trace frame.
func FromSample(s roll.Sample) Frame {
	f := Frame{
		Frame:        s.Frame,
		Elapsed:      s.Elapsed,
		Position:     s.Position,
		Orientation:  s.Orientation,
		StableFrames: s.StableFrames,
		AtRest:       s.AtRest,
		Sleeping:     s.Sleeping,
	}
	if s.Resolved && s.Result.Known {
		f.Label = s.Result.Label
	}
	return f
}

// Writer appends frames to a trace file. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path for writing and writes the header line.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w := &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	if err := w.writeLine(h); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("trace: write header: %w", err)
	}
	return w, nil
}

// Write appends one frame.
func (w *Writer) Write(fr Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLine(fr)
}

func (w *Writer) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes buffered frames and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.w.Flush()
	err = errors.Join(err, w.enc.Close(), w.f.Close())
	w.f = nil
	return err
}

// Read decodes the trace at path, calling fn for every frame in order.
// Returning an error from fn stops reading and returns that error.
func Read(path string, fn func(Frame) error) (Header, error) {
	return read(path, nil, fn)
}

func read(path string, onHeader func(Header), fn func(Frame) error) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return h, fmt.Errorf("trace: read %s: %w", path, err)
		}
		return h, fmt.Errorf("trace: %s: missing header", path)
	}
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return h, fmt.Errorf("trace: decode header: %w", err)
	}
	if onHeader != nil {
		onHeader(h)
	}
	line := 1
	for sc.Scan() {
		line++
		var fr Frame
		if err := json.Unmarshal(sc.Bytes(), &fr); err != nil {
			return h, fmt.Errorf("trace: decode line %d: %w", line, err)
		}
		if err := fn(fr); err != nil {
			return h, err
		}
	}
	if err := sc.Err(); err != nil {
		return h, fmt.Errorf("trace: read %s: %w", path, err)
	}
	return h, nil
}
