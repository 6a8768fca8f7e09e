package fixedpoint

import "testing"

func TestFromIntRoundTrip(t *testing.T) {
	f := FromInt(42)
	if f.Float64() != 42.0 {
		t.Errorf("expected 42.0, got %v", f.Float64())
	}
	if got := FromRaw(f.Raw()); got != f {
		t.Errorf("raw round-trip mismatch: %v != %v", got, f)
	}
}

func TestAddSaturates(t *testing.T) {
	max := FixedPoint64(1<<63 - 1)
	got := max.Add(FromInt(1))
	if got != max {
		t.Errorf("expected saturation at MaxInt64, got %v", got)
	}
}

func TestMulBasic(t *testing.T) {
	a := FromInt(6)
	b := FromInt(7)
	got, err := a.Mul(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FromInt(42) {
		t.Errorf("expected 42, got %v", got.Float64())
	}
}

func TestMulNegative(t *testing.T) {
	a := FromInt(-6)
	b := FromInt(7)
	got, err := a.Mul(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FromInt(-42) {
		t.Errorf("expected -42, got %v", got.Float64())
	}
}

func TestDivByZero(t *testing.T) {
	a := FromInt(10)
	_, err := a.Div(0)
	if err == nil {
		t.Fatal("expected MathError for division by zero")
	}
	var mErr *MathError
	if _, ok := err.(*MathError); !ok {
		t.Errorf("expected *MathError, got %T", err)
	}
	_ = mErr
}

func TestDivBasic(t *testing.T) {
	a := FromInt(10)
	b := FromInt(4)
	got, err := a.Div(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Float64() != 2.5 {
		t.Errorf("expected 2.5, got %v", got.Float64())
	}
}

func TestDivNegative(t *testing.T) {
	a := FromInt(-10)
	b := FromInt(4)
	got, err := a.Div(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Float64() != -2.5 {
		t.Errorf("expected -2.5, got %v", got.Float64())
	}
}

func TestFloorCeilRound(t *testing.T) {
	v := FromFloat64(2.7)
	if v.Floor() != FromInt(2) {
		t.Errorf("floor: expected 2, got %v", v.Floor().Float64())
	}
	if v.Ceil() != FromInt(3) {
		t.Errorf("ceil: expected 3, got %v", v.Ceil().Float64())
	}
	if v.Round() != FromInt(3) {
		t.Errorf("round: expected 3, got %v", v.Round().Float64())
	}
}

func TestClampMinMax(t *testing.T) {
	lo, hi := FromInt(-200), FromInt(200)
	over := FromInt(250)
	under := FromInt(-250)
	if Clamp(over, lo, hi) != hi {
		t.Errorf("expected clamp to %v, got %v", hi.Float64(), Clamp(over, lo, hi).Float64())
	}
	if Clamp(under, lo, hi) != lo {
		t.Errorf("expected clamp to %v, got %v", lo.Float64(), Clamp(under, lo, hi).Float64())
	}
}

func TestSqrt(t *testing.T) {
	v := FromInt(16)
	got, err := v.Sqrt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FromInt(4) {
		t.Errorf("expected 4, got %v", got.Float64())
	}
}

func TestPow(t *testing.T) {
	v := FromInt(2)
	got, err := v.Pow(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FromInt(1024) {
		t.Errorf("expected 1024, got %v", got.Float64())
	}
}

func TestLerpAndRemap(t *testing.T) {
	a, b := FromInt(0), FromInt(100)
	mid, err := Lerp(a, b, FromFloat64(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mid != FromInt(50) {
		t.Errorf("expected 50, got %v", mid.Float64())
	}

	remapped, err := Remap(FromInt(50), FromInt(0), FromInt(100), FromInt(0), FromInt(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remapped != FromInt(5) {
		t.Errorf("expected 5, got %v", remapped.Float64())
	}
}
