package geometry

import (
	"math"
	"testing"
)

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(1, 2, 24)
	b := NewVector3(0.5, -1, 0)

	if got := a.Add(b); got != NewVector3(1.5, 1, 24) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != NewVector3(0.5, 3, 24) {
		t.Errorf("Sub: got %v", got)
	}
	if got := b.Mul(0.2); math.Abs(got.X-0.1) > 1e-12 || math.Abs(got.Y+0.2) > 1e-12 {
		t.Errorf("Mul: got %v", got)
	}
}

func TestVector3MinMax(t *testing.T) {
	a := NewVector3(1, -2, 3)
	b := NewVector3(-1, 2, 3)

	if got := a.Min(b); got != NewVector3(-1, -2, 3) {
		t.Errorf("Min: got %v", got)
	}
	if got := a.Max(b); got != NewVector3(1, 2, 3) {
		t.Errorf("Max: got %v", got)
	}
}

func TestVector3DistanceAlongAxis(t *testing.T) {
	start := NewVector3(4, 1, 24)
	end := NewVector3(4, -1, 24)

	if d := start.Distance(end); math.Abs(d-2) > 1e-12 {
		t.Errorf("vertical guide should be 2 units long, got %v", d)
	}
}

func TestVector3Normalize(t *testing.T) {
	n := NewVector3(0, 3, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 || math.Abs(n.Y-0.6) > 1e-12 {
		t.Errorf("Normalize: got %v", n)
	}

	if zero := (Vector3{}).Normalize(); zero != (Vector3{}) {
		t.Errorf("Normalize of zero should stay zero, got %v", zero)
	}
}

func TestVector3CrossDot(t *testing.T) {
	x := NewVector3(1, 0, 0)
	y := NewVector3(0, 1, 0)

	if got := x.Cross(y); got != NewVector3(0, 0, 1) {
		t.Errorf("Cross: got %v", got)
	}
	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot of perpendicular vectors: got %v", got)
	}
}

func TestVector3XY(t *testing.T) {
	if got := NewVector3(-2.5, 7, 24).XY(); got != NewVector2(-2.5, 7) {
		t.Errorf("XY: got %v", got)
	}
}

func TestVector3MirrorXKeepsYZ(t *testing.T) {
	v := NewVector3(0, -3, 24).MirrorX()
	if v != NewVector3(0, -3, 24) || math.Signbit(v.X) {
		t.Errorf("MirrorX of zero X: got %v", v)
	}
}
