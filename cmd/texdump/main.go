package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"diceroll/internal/dice"
	"diceroll/internal/postprocess"
)

func main() {
	die := flag.String("die", "d20", "Die whose face textures to write")
	outDir := flag.String("output", "textures", "Output directory")
	size := flag.Int("size", dice.GlyphSize, "Texture size in pixels")
	points := flag.Float64("points", dice.GlyphPoints, "Numeral font size")
	flag.Parse()

	glyphs, err := dice.NewCanvasGlyphs(*size, *points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer glyphs.Close()

	d, err := dice.Build(*die, 1, glyphs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, f := range d.Faces {
		dst := filepath.Join(*outDir, fmt.Sprintf("%s_%02d.webp", d.Name, f.Label))
		if err := postprocess.WriteWebP(dst, d.Textures[f.Label]); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
			continue
		}
		fmt.Printf("OK  face %2d -> %s\n", f.Label, dst)
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Printf("\nDone. %d textures written.\n", len(d.Faces))
}
