package pict

import (
	"math"
	"testing"
)

// approx reports whether a and b differ by less than eps.
func approx(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// approxRGB reports whether the RGB channels of two pixels match within eps.
func approxRGB(a, b RGBA, eps float64) bool {
	return approx(a.R, b.R, eps) && approx(a.G, b.G, eps) && approx(a.B, b.B, eps)
}

func TestGammaRoundtrip(t *testing.T) {
	for c := 0.0; c <= 1.0; c += 0.01 {
		if got := GammaEncode(GammaDecode(c)); !approx(got, c, 1e-5) {
			t.Fatalf("GammaEncode(GammaDecode(%v)) = %v, want %v", c, got, c)
		}
	}
}

func TestApply_Identity(t *testing.T) {
	pixels := []RGBA{
		{0, 0, 0, 1},
		{1, 1, 1, 1},
		{0.25, 0.5, 0.75, 0.5},
		{0.8, 0.1, 0.3, 0},
		{0.5, 0.5, 0.5, 1},
	}
	var adj ColorAdjustment
	if !adj.IsIdentity() {
		t.Fatal("zero ColorAdjustment must be the identity")
	}
	for _, px := range pixels {
		out := Apply(px, adj)
		// Apply leaves the pixel in linear light; re-encoding must
		// recover the input.
		got := RGBA{GammaEncode(out.R), GammaEncode(out.G), GammaEncode(out.B), out.A}
		if !approxRGB(got, px, 1e-5) {
			t.Errorf("Apply(%v, identity) round-trip = %v", px, got)
		}
		if out.A != px.A {
			t.Errorf("Apply changed alpha: got %v, want %v", out.A, px.A)
		}
	}
}

func TestHueRotation_IdentityAtZero(t *testing.T) {
	m := HueRotation(0)
	want := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range m {
		if !approx(m[i], want[i], 1e-9) {
			t.Fatalf("HueRotation(0)[%d] = %v, want %v", i, m[i], want[i])
		}
	}
}

func TestHueRotation_Periodic(t *testing.T) {
	a := HueRotation(360)
	b := HueRotation(0)
	for i := range a {
		if !approx(a[i], b[i], 1e-9) {
			t.Fatalf("HueRotation(360)[%d] = %v, want %v", i, a[i], b[i])
		}
	}
}

func TestApply_HuePeriodic(t *testing.T) {
	px := RGBA{0.3, 0.6, 0.9, 1}
	a := Apply(px, ColorAdjustment{Hue: 360})
	b := Apply(px, ColorAdjustment{})
	if !approxRGB(a, b, 1e-9) {
		t.Errorf("hue=360 result %v differs from hue=0 result %v", a, b)
	}
}

func TestApply_Grayscale(t *testing.T) {
	pixels := []RGBA{
		{1, 0, 0, 1},
		{0.2, 0.9, 0.4, 0.5},
		{0, 0, 1, 1},
	}
	for _, px := range pixels {
		out := Apply(px, ColorAdjustment{Grayscale: true})
		if out.R != out.G || out.G != out.B {
			t.Errorf("grayscale output not gray: %v", out)
		}
	}
}

func TestApply_InvertTwice(t *testing.T) {
	px := RGBA{0.3, 0.6, 0.9, 1}
	inverted := Apply(px, ColorAdjustment{Invert: true})
	plain := Apply(px, ColorAdjustment{})
	// Inverting the inverted channels must recover the identity result.
	got := RGBA{1 - inverted.R, 1 - inverted.G, 1 - inverted.B, inverted.A}
	if !approxRGB(got, plain, 1e-9) {
		t.Errorf("double invert = %v, want %v", got, plain)
	}
}

func TestApply_ContrastCurve(t *testing.T) {
	tests := []struct {
		name     string
		contrast float64
		in       float64
		want     float64
	}{
		{"zero is identity", 0, 0.25, 0.25},
		{"midpoint is fixed", 50, 0.5, 0.5},
		{"-100 collapses to mid", -100, 0.1, 0.5},
		{"+100 quadruples around mid", 100, 0.6, 0.9},
		{"clamps high", 100, 1.0, 1.0},
		{"clamps low", 100, 0.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent := (100 + tt.contrast) / 100
			percent *= percent
			got := clamp01((tt.in-0.5)*percent + 0.5)
			if !approx(got, tt.want, 1e-9) {
				t.Errorf("contrast(%v, %v) = %v, want %v", tt.contrast, tt.in, got, tt.want)
			}
		})
	}
}

func TestApply_BrightnessDirectAdd(t *testing.T) {
	// Brightness adds directly to the linear RGB channels, no HSL detour.
	px := RGBA{GammaEncode(0.2), GammaEncode(0.4), GammaEncode(0.6), 1}
	out := Apply(px, ColorAdjustment{Brightness: 30})
	want := RGBA{0.5, 0.7, 0.9, 1}
	if !approxRGB(out, want, 1e-5) {
		t.Errorf("brightness +30 = %v, want %v", out, want)
	}

	out = Apply(px, ColorAdjustment{Brightness: 100})
	want = RGBA{1, 1, 1, 1}
	if !approxRGB(out, want, 1e-9) {
		t.Errorf("brightness +100 must clamp to white, got %v", out)
	}
}

func TestApply_SaturationExtremes(t *testing.T) {
	// -100% saturation fully desaturates: all channels equal.
	px := RGBA{0.9, 0.3, 0.2, 1}
	out := Apply(px, ColorAdjustment{Saturation: -100})
	if !approx(out.R, out.G, 1e-9) || !approx(out.G, out.B, 1e-9) {
		t.Errorf("saturation -100 output not gray: %v", out)
	}
}

func TestColorAdjustment_Clamped(t *testing.T) {
	adj := ColorAdjustment{Hue: 720, Contrast: -500, Brightness: 101, Saturation: -101}
	got := adj.Clamped()
	want := ColorAdjustment{Hue: 180, Contrast: -100, Brightness: 100, Saturation: -100}
	if got != want {
		t.Errorf("Clamped() = %+v, want %+v", got, want)
	}
}

func TestApply_OutOfRangeInputClamped(t *testing.T) {
	// Out-of-range channel values must be clamped, not rejected, and
	// must never produce NaN (the HSL conversion is undefined outside
	// [0,1]).
	px := RGBA{1.5, -0.5, 2.0, 1}
	out := Apply(px, ColorAdjustment{Saturation: 40})
	for _, c := range []float64{out.R, out.G, out.B} {
		if math.IsNaN(c) || c < 0 || c > 1 {
			t.Fatalf("out-of-range input produced invalid channel: %v", out)
		}
	}
}
