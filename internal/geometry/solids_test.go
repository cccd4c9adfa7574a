package geometry

import (
	"math"
	"testing"

	"diceroll/internal/mathutil"
)

func trianglesOf(s Solid) []Triangle {
	verts := s.NonIndexed()
	tris := make([]Triangle, 0, len(verts)/3)
	for i := 0; i+2 < len(verts); i += 3 {
		tris = append(tris, Triangle{verts[i], verts[i+1], verts[i+2]})
	}
	return tris
}

func TestSolidsAreOutwardAndOnSphere(t *testing.T) {
	tests := []struct {
		name  string
		faces int
	}{
		{"d8", 8},
		{"d20", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SolidByName(tt.name, 1)
			if err != nil {
				t.Fatalf("SolidByName: %v", err)
			}
			verts := s.NonIndexed()
			if len(verts) != tt.faces*3 {
				t.Fatalf("non-indexed vertices = %d, want %d", len(verts), tt.faces*3)
			}
			if got := len(s.Positions()); got != tt.faces*9 {
				t.Fatalf("positions = %d, want %d", got, tt.faces*9)
			}
			for i, v := range verts {
				if !mathutil.NearlyEqual(v.Len(), 1, 1e-12) {
					t.Fatalf("vertex %d at radius %v", i, v.Len())
				}
			}
			for i, tri := range trianglesOf(s) {
				if tri.Normal().Dot(tri.Centroid()) <= 0 {
					t.Fatalf("face %d winds inward", i)
				}
			}
		})
	}
}

func TestSolidByNameUnknown(t *testing.T) {
	// A d4 rests with a vertex on top, so there is no face to read.
	for _, name := range []string{"d7", "d4", "tetrahedron"} {
		if _, err := SolidByName(name, 1); err == nil {
			t.Fatalf("SolidByName(%q) accepted", name)
		}
	}
}

func TestDedupeIcosahedron(t *testing.T) {
	got := Dedupe(Icosahedron(1).NonIndexed(), 1e-9)
	if len(got) != 12 {
		t.Fatalf("distinct icosahedron vertices = %d, want 12", len(got))
	}
}

func TestIcosahedronOppositeFacesAreParallel(t *testing.T) {
	tris := trianglesOf(Icosahedron(1))
	for i, a := range tris {
		found := false
		for _, b := range tris {
			if a.Normal().Dot(b.Normal()) < -1+1e-9 {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("face %d has no opposite face", i)
		}
	}
	if area := tris[0].Area(); math.Abs(area-tris[7].Area()) > 1e-12 {
		t.Fatalf("faces differ in area: %v vs %v", area, tris[7].Area())
	}
}
