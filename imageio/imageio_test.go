package imageio

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/pict"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func TestLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	src := testImage(20, 10)

	tests := []struct {
		name  string
		file  string
		exact bool
	}{
		{"png", "img.png", true},
		{"jpeg", "img.jpg", false},
		{"bmp", "img.bmp", true},
		{"tiff", "img.tiff", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := Save(path, src, SaveOptions{}); err != nil {
				t.Fatalf("Save: %v", err)
			}
			doc, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if doc.Animated() {
				t.Error("still image reported as animated")
			}
			got := doc.Frame(0)
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
			}
			if tt.exact {
				for i := range src.Pix {
					if got.Pix[i] != src.Pix[i] {
						t.Fatalf("pixel byte %d = %d, want %d", i, got.Pix[i], src.Pix[i])
					}
				}
			}
		})
	}
}

func TestLoad_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted a text file")
	}
}

func TestSave_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.xyz")
	if err := Save(path, testImage(4, 4), SaveOptions{}); err == nil {
		t.Error("Save accepted an unknown extension")
	}
}

func TestLoad_AnimatedGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")

	palette := color.Palette{
		color.RGBA{A: 255},
		color.RGBA{R: 255, A: 255},
		color.RGBA{G: 255, A: 255},
	}
	g := &gif.GIF{Config: image.Config{Width: 8, Height: 8}}
	for frame := 1; frame <= 2; frame++ {
		p := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		for i := range p.Pix {
			p.Pix[i] = uint8(frame)
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 5) // 50ms
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !doc.Animated() || len(doc.Frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(doc.Frames))
	}
	if len(doc.Delays) != 2 || doc.Delays[0].Milliseconds() != 50 {
		t.Errorf("delays = %v, want 50ms each", doc.Delays)
	}
	// First frame red, second green.
	if r := doc.Frames[0].NRGBAAt(3, 3).R; r != 255 {
		t.Errorf("frame 0 red = %d, want 255", r)
	}
	if green := doc.Frames[1].NRGBAAt(3, 3).G; green != 255 {
		t.Errorf("frame 1 green = %d, want 255", green)
	}

	// Frame() wraps around in both directions.
	if doc.Frame(2) != doc.Frames[0] || doc.Frame(-1) != doc.Frames[1] {
		t.Error("Frame() does not wrap")
	}
}

func TestCrop(t *testing.T) {
	src := testImage(40, 40)
	got, err := Crop(src, pict.RectFromCorners(pict.V2(30, 25), pict.V2(10, 5)))
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 20 {
		t.Errorf("crop size = %v, want 20x20", got.Bounds())
	}
	// Top-left of the crop is (10, 5) in the source.
	want := src.NRGBAAt(10, 5)
	if got.NRGBAAt(0, 0) != want {
		t.Errorf("crop origin pixel = %v, want %v", got.NRGBAAt(0, 0), want)
	}

	// A selection fully outside the canvas collapses to nothing.
	if _, err := Crop(src, pict.RectFromCorners(pict.V2(100, 100), pict.V2(200, 200))); err == nil {
		t.Error("out-of-canvas crop did not fail")
	}
}

func TestResize(t *testing.T) {
	src := testImage(40, 20)

	got, err := Resize(src, 20, 10, FilterLanczos)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 10 {
		t.Errorf("size = %v, want 20x10", got.Bounds())
	}

	// Zero height keeps the aspect ratio.
	got, err = Resize(src, 10, 0, FilterNearest)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got.Bounds().Dx() != 10 || got.Bounds().Dy() != 5 {
		t.Errorf("aspect resize = %v, want 10x5", got.Bounds())
	}

	if _, err := Resize(src, 10, 10, Filter("cubic")); err == nil {
		t.Error("unknown filter accepted")
	}
	if _, err := Resize(src, 0, 0, FilterLinear); err == nil {
		t.Error("zero size accepted")
	}
}

func TestFlipsAndRotations(t *testing.T) {
	src := testImage(6, 4)
	marker := src.NRGBAAt(0, 0)

	if got := FlipHorizontal(src); got.NRGBAAt(5, 0) != marker {
		t.Error("FlipHorizontal did not mirror the origin pixel")
	}
	if got := FlipVertical(src); got.NRGBAAt(0, 3) != marker {
		t.Error("FlipVertical did not mirror the origin pixel")
	}

	r := Rotate90(src)
	if r.Bounds().Dx() != 4 || r.Bounds().Dy() != 6 {
		t.Errorf("Rotate90 size = %v, want 4x6", r.Bounds())
	}
	r = Rotate270(src)
	if r.Bounds().Dx() != 4 || r.Bounds().Dy() != 6 {
		t.Errorf("Rotate270 size = %v, want 4x6", r.Bounds())
	}

	// Four quarter turns restore the image.
	back := Rotate90(Rotate90(Rotate90(Rotate90(src))))
	for i := range src.Pix {
		if back.Pix[i] != src.Pix[i] {
			t.Fatal("four quarter turns changed the image")
		}
	}
}

func TestBlurAndSharpen(t *testing.T) {
	src := testImage(16, 16)

	if got := Blur(src, 0); got != src {
		t.Error("zero-radius blur did not pass through")
	}

	blurred := Blur(src, 2)
	if blurred.Bounds() != src.Bounds() {
		t.Errorf("blur changed bounds: %v", blurred.Bounds())
	}

	sharpened := Sharpen(src)
	if sharpened.Bounds() != src.Bounds() {
		t.Errorf("sharpen changed bounds: %v", sharpened.Bounds())
	}
}
