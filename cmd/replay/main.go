package main

import (
	"flag"
	"fmt"
	"os"

	"diceroll/internal/dice"
	"diceroll/internal/roll"
	"diceroll/internal/trace"
)

func main() {
	tolerance := flag.Float64("tolerance", 0, "Override the recorded tolerance")
	threshold := flag.Int("threshold", 0, "Override the recorded threshold")
	mode := flag.String("mode", "", "Override the recorded tolerance mode")
	resim := flag.Bool("resim", false, "Also re-simulate the roll from its seed and compare labels")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay [flags] <trace.jsonl.zst>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	var det *roll.StopDetector
	if *tolerance > 0 || *threshold > 0 || *mode != "" {
		m, err := roll.ParseToleranceMode(*mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		det = roll.NewStopDetector(*tolerance, *threshold, m)
	}

	rep, err := trace.Replay(path, det)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	h := rep.Header
	fmt.Printf("Trace: %s (%s, seed %d, %d frames)\n", path, h.Die, h.Seed, rep.Frames)
	fmt.Printf("Recorded rest: frame %d, label %d\n", rep.Recorded, rep.Label)
	fmt.Printf("Replayed rest: frame %d\n", rep.RestFrame)
	fmt.Printf("Pose digest:   %016x\n", rep.Digest)

	failed := det == nil && !rep.Matches()
	if failed {
		fmt.Println("MISMATCH: replayed detector disagrees with the recording")
	}

	if *resim {
		d, err := dice.Build(h.Die, 1, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m, _ := roll.ParseToleranceMode(h.Mode)
		scene, err := roll.NewScene(d, roll.Options{
			DropHeight: h.DropHeight,
			MaxForce:   h.MaxForce,
			Tolerance:  h.Tolerance,
			Threshold:  h.Threshold,
			Mode:       m,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		st := scene.Throw(h.Seed)
		digest := trace.NewDigest()
		res, err := scene.Run(st, h.FrameDT, rep.Frames, func(s roll.Sample) error {
			digest.Add(s.Position, s.Orientation)
			return nil
		})
		fmt.Printf("Re-simulated: %s at frame %d, digest %016x\n", res, st.Frame, digest.Sum64())
		if err != nil || res.Label != rep.Label || digest.Sum64() != rep.Digest {
			fmt.Printf("MISMATCH: re-simulation differs (err=%v)\n", err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
