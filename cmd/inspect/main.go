package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"diceroll/internal/dice"
	"diceroll/internal/mathutil"
	"diceroll/internal/roll"
)

func main() {
	radius := flag.Float64("radius", 1, "Circumradius of the die")
	flag.Parse()

	name := "d20"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}
	d, err := dice.Build(name, *radius, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Die %s: %d faces, %d hull vertices\n", d.Name, d.FaceCount(), len(d.Hull))

	var total float64
	resolver := roll.NewResolver()
	for _, f := range d.Faces {
		n := f.Tri.Normal()
		c := f.Tri.Centroid()
		area := f.Tri.Area()
		total += area

		// Turning this face up must read back as its own label.
		q := mathutil.RotationBetween(n, mathutil.AxisZ)
		res, err := resolver.Resolve(d.Faces, q, mathutil.Vec3{})
		check := "ok"
		if err != nil || res.Label != f.Label {
			check = fmt.Sprintf("reads %s", res.Value())
		}

		fmt.Printf("  Face[%2d]: normal=(%+.3f, %+.3f, %+.3f) centroid=(%+.3f, %+.3f, %+.3f) area=%.4f up=%s\n",
			f.Label, n[0], n[1], n[2], c[0], c[1], c[2], area, check)
	}
	fmt.Printf("Surface area: %.4f\n", total)

	// Opposite faces sum to N+1 on a conventional die; report how this labelling pairs them.
	pairs := 0
	for i, a := range d.Faces {
		for _, b := range d.Faces[i+1:] {
			if math.Abs(a.Tri.Normal().Dot(b.Tri.Normal())+1) < 1e-9 {
				fmt.Printf("  opposite: %2d / %2d (sum %d)\n", a.Label, b.Label, a.Label+b.Label)
				pairs++
			}
		}
	}
	fmt.Printf("Opposite pairs: %d\n", pairs)
}
