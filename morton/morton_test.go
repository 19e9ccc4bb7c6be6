package morton

import (
	"testing"

	"github.com/rdpeck/bvhgo/geom"
)

func TestEncode64PreservesZOrderAlongDiagonal(t *testing.T) {
	bounds := geom.NewBox(geom.NewPoint(0, 0, 0), geom.NewPoint(100, 100, 100))

	var prev uint64
	for i := 0; i <= 10; i++ {
		c := float64(i) * 10
		key := Encode64(bounds, geom.NewPoint(c, c, c))
		if i > 0 && key <= prev {
			t.Errorf("expected strictly increasing keys along the diagonal, got %d after %d at step %d", key, prev, i)
		}
		prev = key
	}
}

func TestEncode64ZeroExtentAxisAlwaysZero(t *testing.T) {
	bounds := geom.NewBox(geom.NewPoint(5, 0), geom.NewPoint(5, 10))
	a := Encode64(bounds, geom.NewPoint(5, 0))
	b := Encode64(bounds, geom.NewPoint(5, 10))
	// Axis 0 has zero extent, so only axis 1 should drive ordering.
	if a >= b {
		t.Errorf("expected key(min) < key(max) along the only varying axis, got %d >= %d", a, b)
	}
}

func TestEncode64ClampsOutOfRangeCoordinates(t *testing.T) {
	bounds := geom.NewBox(geom.NewPoint(0, 0, 0), geom.NewPoint(10, 10, 10))
	inside := Encode64(bounds, geom.NewPoint(10, 10, 10))
	outside := Encode64(bounds, geom.NewPoint(100, 100, 100))
	if inside != outside {
		t.Errorf("expected out-of-range coordinates to clamp to the same key as the max corner")
	}
}

func TestCommonPrefixLen64(t *testing.T) {
	tests := []struct {
		a, b uint64
		want int
	}{
		{0b1000, 0b1000, 64},
		{0b1000, 0b1001, 63},
		{0, 1 << 63, 0},
	}
	for _, tt := range tests {
		got := CommonPrefixLen64(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("CommonPrefixLen64(%b, %b) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEncode32NonDim3Fallback(t *testing.T) {
	bounds := geom.NewBox(geom.NewPoint(0, 0), geom.NewPoint(10, 10))
	a := Encode32(bounds, geom.NewPoint(1, 1))
	b := Encode32(bounds, geom.NewPoint(9, 9))
	if a >= b {
		t.Errorf("expected increasing keys along the 2-D diagonal, got %d >= %d", a, b)
	}
}
