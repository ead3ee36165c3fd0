package pict

import "testing"

func TestCheckerSpec_Sample(t *testing.T) {
	spec := CheckerSpec{
		CellSize: 10,
		ColorA:   RGB(1, 1, 1),
		ColorB:   RGB(0, 0, 0),
	}

	tests := []struct {
		name           string
		px, py         float64
		viewportHeight float64
		want           RGBA
	}{
		{"origin cell", 5, 5, 0, spec.ColorA},
		{"one cell right", 15, 5, 0, spec.ColorB},
		{"one cell down", 5, 15, 0, spec.ColorB},
		{"diagonal neighbor", 15, 15, 0, spec.ColorA},
		{"negative x", -5, 5, 0, spec.ColorB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spec.Sample(tt.px, tt.py, tt.viewportHeight)
			if got != tt.want {
				t.Errorf("Sample(%v, %v, %v) = %v, want %v",
					tt.px, tt.py, tt.viewportHeight, got, tt.want)
			}
		})
	}
}

func TestCheckerSpec_BottomAnchoredPhase(t *testing.T) {
	spec := CheckerSpec{CellSize: 10, ColorA: RGB(1, 1, 1), ColorB: RGB(0, 0, 0)}

	// A pixel a fixed distance above the bottom edge keeps its color
	// when the canvas grows taller: the pattern is anchored to the
	// bottom and must not swim on vertical resize.
	for _, h := range []float64{100, 150, 230} {
		got := spec.Sample(5, h-5, h)
		want := spec.Sample(5, 100-5, 100)
		if got != want {
			t.Errorf("viewport height %v changed the bottom-anchored cell: got %v, want %v",
				h, got, want)
		}
	}
}

func TestStockMattes(t *testing.T) {
	if TransparencyMatte.CellSize >= CanvasMatte.CellSize {
		t.Error("transparency matte must use the smaller cell")
	}
	// Canvas pair near black, transparency pair mid-gray.
	if CanvasMatte.ColorA.R > 0.2 || TransparencyMatte.ColorA.R < 0.2 {
		t.Error("stock matte colors out of their documented ranges")
	}
}
