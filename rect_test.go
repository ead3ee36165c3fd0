package pict

import "testing"

func TestRect_Normalized(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want Rect
	}{
		{
			name: "already ordered",
			rect: RectFromCorners(V2(1, 2), V2(3, 4)),
			want: Rect{Start: V2(1, 2), End: V2(3, 4)},
		},
		{
			name: "reverse drag",
			rect: RectFromCorners(V2(50, 100), V2(10, 20)),
			want: Rect{Start: V2(10, 20), End: V2(50, 100)},
		},
		{
			name: "mixed components",
			rect: RectFromCorners(V2(10, 100), V2(50, 20)),
			want: Rect{Start: V2(10, 20), End: V2(50, 100)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Normalized(); got != tt.want {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRect_SizeAndDegenerate(t *testing.T) {
	r := RectFromCorners(V2(50, 100), V2(10, 20))
	if got := r.Size(); !got.Approx(V2(40, 80), 1e-9) {
		t.Errorf("Size() = %+v, want (40,80)", got)
	}
	if r.IsDegenerate() {
		t.Error("non-empty rect reported degenerate")
	}
	if !RectFromCorners(V2(5, 5), V2(5, 80)).IsDegenerate() {
		t.Error("zero-width rect not reported degenerate")
	}
	if !RectFromCorners(V2(5, 5), V2(5, 5)).IsDegenerate() {
		t.Error("point rect not reported degenerate")
	}
}

func TestRect_Contains(t *testing.T) {
	r := RectFromCorners(V2(60, 60), V2(20, 20))
	for _, p := range []Vec2{V2(20, 20), V2(60, 60), V2(40, 40), V2(20, 60)} {
		if !r.Contains(p) {
			t.Errorf("Contains(%+v) = false, want true", p)
		}
	}
	for _, p := range []Vec2{V2(19.9, 40), V2(40, 60.1), V2(0, 0)} {
		if r.Contains(p) {
			t.Errorf("Contains(%+v) = true, want false", p)
		}
	}
}

func TestRect_ClampTo(t *testing.T) {
	r := RectFromCorners(V2(-10, 50), V2(150, 90))
	got := r.ClampTo(V2(100, 80))
	want := Rect{Start: V2(0, 50), End: V2(100, 80)}
	if got != want {
		t.Errorf("ClampTo = %+v, want %+v", got, want)
	}
}

func TestRect_ExpandAndCorners(t *testing.T) {
	r := RectFromCorners(V2(30, 40), V2(10, 20))
	e := r.Expand(2)
	if e.Start != V2(8, 18) || e.End != V2(32, 42) {
		t.Errorf("Expand(2) = %+v", e)
	}
	corners := r.Corners()
	want := [4]Vec2{V2(10, 20), V2(30, 20), V2(10, 40), V2(30, 40)}
	if corners != want {
		t.Errorf("Corners() = %+v, want %+v", corners, want)
	}
}
