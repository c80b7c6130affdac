package indicator

import (
	"math"
	"testing"
)

func TestRollingStatWindow(t *testing.T) {
	r := newRollingStat(3)
	if r.Ready() {
		t.Fatal("empty stat must not be ready")
	}

	r.Push(1)
	r.Push(2)
	r.Push(3)
	if !r.Ready() {
		t.Fatal("expected ready after 3 pushes")
	}
	if got := r.Mean(); got != 2 {
		t.Fatalf("mean = %v, want 2", got)
	}

	// вытесняем 1, окно {2,3,4}
	r.Push(4)
	if got := r.Mean(); got != 3 {
		t.Fatalf("mean after evict = %v, want 3", got)
	}
}

func TestRollingStatStdDev(t *testing.T) {
	r := newRollingStat(4)
	for _, v := range []float64{2, 4, 4, 4} {
		r.Push(v)
	}
	// population stddev of {2,4,4,4}: mean 3.5, variance 0.75
	want := math.Sqrt(0.75)
	if got := r.StdDev(); math.Abs(got-want) > 1e-12 {
		t.Fatalf("stddev = %v, want %v", got, want)
	}
}

func TestRollingStatConstantSeries(t *testing.T) {
	r := newRollingStat(5)
	for i := 0; i < 20; i++ {
		r.Push(100)
	}
	if got := r.StdDev(); got != 0 {
		t.Fatalf("stddev of constant series = %v, want 0", got)
	}
	if got := r.Mean(); got != 100 {
		t.Fatalf("mean = %v, want 100", got)
	}
}

func TestWilderAvgWarmup(t *testing.T) {
	w := newWilderAvg(3)
	w.Push(3)
	w.Push(6)
	if w.Ready() {
		t.Fatal("not enough samples, must not be ready")
	}
	w.Push(9)
	if !w.Ready() {
		t.Fatal("expected ready after period samples")
	}
	// простое среднее первых трёх
	if got := w.Value(); got != 6 {
		t.Fatalf("initial average = %v, want 6", got)
	}

	// дальше сглаживание: v = (1-1/3)*6 + (1/3)*12 = 8
	w.Push(12)
	if got := w.Value(); math.Abs(got-8) > 1e-12 {
		t.Fatalf("smoothed value = %v, want 8", got)
	}
}
