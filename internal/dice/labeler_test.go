package dice

import (
	"errors"
	"testing"

	"diceroll/internal/geometry"
	"diceroll/internal/mathutil"
)

func TestLabelFacesCountsAndOrder(t *testing.T) {
	tests := []struct {
		name  string
		verts int
		want  int
	}{
		{"empty", 0, 0},
		{"single", 3, 1},
		{"three", 9, 3},
		{"icosahedron", 60, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verts := make([]mathutil.Vec3, tt.verts)
			for i := range verts {
				verts[i] = mathutil.Vec3{float64(i), 0, 0}
			}
			faces, err := LabelFaces(verts)
			if err != nil {
				t.Fatalf("LabelFaces: %v", err)
			}
			if len(faces) != tt.want {
				t.Fatalf("faces = %d, want %d", len(faces), tt.want)
			}
			for i, f := range faces {
				if f.Label != i+1 {
					t.Fatalf("face %d label = %d, want %d", i, f.Label, i+1)
				}
				if f.Tri[0] != verts[i*3] || f.Tri[2] != verts[i*3+2] {
					t.Fatalf("face %d does not hold vertices %d..%d", i, i*3, i*3+2)
				}
			}
		})
	}
}

func TestLabelFacesDeterministic(t *testing.T) {
	verts := geometry.Icosahedron(1).NonIndexed()
	a, _ := LabelFaces(verts)
	b, _ := LabelFaces(verts)
	for i := range a {
		if a[i].Label != b[i].Label || a[i].Tri != b[i].Tri {
			t.Fatalf("face %d differs between runs", i)
		}
	}
}

func TestLabelFacesRejectsRaggedInput(t *testing.T) {
	_, err := LabelFaces(make([]mathutil.Vec3, 7))
	if !errors.Is(err, ErrRaggedTriangles) {
		t.Fatalf("err = %v, want ErrRaggedTriangles", err)
	}
	_, err = LabelPositions(make([]float64, 10))
	if !errors.Is(err, ErrRaggedPositions) {
		t.Fatalf("err = %v, want ErrRaggedPositions", err)
	}
	// 12 floats is 4 whole vertices but not whole triangles.
	_, err = LabelPositions(make([]float64, 12))
	if !errors.Is(err, ErrRaggedTriangles) {
		t.Fatalf("err = %v, want ErrRaggedTriangles", err)
	}
}

func TestLabelPositionsMultipleOfNine(t *testing.T) {
	positions := geometry.Icosahedron(1).Positions()
	faces, err := LabelPositions(positions)
	if err != nil {
		t.Fatalf("LabelPositions: %v", err)
	}
	if len(faces) != len(positions)/9 {
		t.Fatalf("faces = %d, want %d", len(faces), len(positions)/9)
	}
	if faces[19].Name() != "20" {
		t.Fatalf("last face name = %q", faces[19].Name())
	}
}

func TestLabelFacesKeepsDegenerateTriangles(t *testing.T) {
	p := mathutil.Vec3{1, 1, 1}
	faces, err := LabelFaces([]mathutil.Vec3{p, p, p})
	if err != nil || len(faces) != 1 {
		t.Fatalf("faces = %d, err = %v", len(faces), err)
	}
}
