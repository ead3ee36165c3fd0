package pict

import "testing"

func TestVec2_Arithmetic(t *testing.T) {
	v := V2(3, 4)
	if got := v.Add(V2(1, -2)); got != V2(4, 2) {
		t.Errorf("Add = %+v", got)
	}
	if got := v.Sub(V2(1, 1)); got != V2(2, 3) {
		t.Errorf("Sub = %+v", got)
	}
	if got := v.Mul(2); got != V2(6, 8) {
		t.Errorf("Mul = %+v", got)
	}
	if got := v.Div(2); got != V2(1.5, 2) {
		t.Errorf("Div = %+v", got)
	}
	if got := v.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := v.Distance(V2(3, 0)); got != 4 {
		t.Errorf("Distance = %v, want 4", got)
	}
}

func TestVec2_MinMaxClamp(t *testing.T) {
	a, b := V2(1, 9), V2(5, 3)
	if got := a.Min(b); got != V2(1, 3) {
		t.Errorf("Min = %+v", got)
	}
	if got := a.Max(b); got != V2(5, 9) {
		t.Errorf("Max = %+v", got)
	}
	if got := V2(-5, 120).Clamp(V2(0, 0), V2(100, 100)); got != V2(0, 100) {
		t.Errorf("Clamp = %+v", got)
	}
}
