package pict

import "testing"

func TestCompositeOver_TransparentShowsMatte(t *testing.T) {
	mattes := []RGBA{
		TransparencyMatte.ColorA,
		TransparencyMatte.ColorB,
		CanvasMatte.ColorA,
		RGB(0.5, 0.5, 0.5),
	}
	fg := RGBA{R: 0.9, G: 0.1, B: 0.4, A: 0}
	for _, matte := range mattes {
		got := CompositeOver(fg, matte)
		if !approxRGB(got, matte, 1e-9) {
			t.Errorf("CompositeOver(a=0, %v) = %v, want the matte exactly", matte, got)
		}
		if got.A != 1 {
			t.Errorf("composited alpha = %v, want 1", got.A)
		}
	}
}

func TestCompositeOver_OpaqueSingleEncode(t *testing.T) {
	// With an opaque foreground the matte must not contribute, and the
	// linear pipeline output must be gamma encoded exactly once.
	fg := RGBA{R: 0.25, G: 0.5, B: 0.75, A: 1}
	got := CompositeOver(fg, RGB(0.123, 0.456, 0.789))
	want := RGBA{
		R: GammaEncode(fg.R),
		G: GammaEncode(fg.G),
		B: GammaEncode(fg.B),
		A: 1,
	}
	if !approxRGB(got, want, 1e-9) {
		t.Errorf("CompositeOver(a=1) = %v, want %v", got, want)
	}
}

func TestCompositeOver_HalfAlphaBlendsLinear(t *testing.T) {
	fg := RGBA{R: 1, G: 1, B: 1, A: 0.5}
	matte := RGB(0, 0, 0)
	got := CompositeOver(fg, matte)
	want := GammaEncode(0.5)
	if !approx(got.R, want, 1e-9) || !approx(got.G, want, 1e-9) || !approx(got.B, want, 1e-9) {
		t.Errorf("half-alpha white over black = %v, want %v per channel", got, want)
	}
}

func TestOver(t *testing.T) {
	tests := []struct {
		name      string
		base, top RGBA
		want      RGBA
	}{
		{
			name: "transparent top is no-op",
			base: RGBA{0.2, 0.4, 0.6, 1},
			top:  RGBA{1, 0, 0, 0},
			want: RGBA{0.2, 0.4, 0.6, 1},
		},
		{
			name: "opaque top replaces",
			base: RGBA{0.2, 0.4, 0.6, 1},
			top:  RGBA{1, 0, 0, 1},
			want: RGBA{1, 0, 0, 1},
		},
		{
			name: "half shade darkens",
			base: RGBA{1, 1, 1, 1},
			top:  RGBA{0, 0, 0, 0.5},
			want: RGBA{0.5, 0.5, 0.5, 1},
		},
		{
			name: "alpha accumulates",
			base: RGBA{0, 0, 0, 0.5},
			top:  RGBA{0, 0, 0, 0.5},
			want: RGBA{0, 0, 0, 0.75},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Over(tt.base, tt.top)
			if !approxRGB(got, tt.want, 1e-9) || !approx(got.A, tt.want.A, 1e-9) {
				t.Errorf("Over(%v, %v) = %v, want %v", tt.base, tt.top, got, tt.want)
			}
		})
	}
}
