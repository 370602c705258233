package cloud

import (
	"math"
	"testing"
)

func TestColorSum(t *testing.T) {
	c := Color{0.25, 0.5, 0.125}
	if got := c.Sum(); got != 0.875 {
		t.Errorf("Sum: got %v, want 0.875", got)
	}
}

func TestPositionSquaredDistance(t *testing.T) {
	a := Position{0, 0, 0}
	b := Position{1, 2, 2}
	if got := a.SquaredDistance(b); got != 9 {
		t.Errorf("SquaredDistance: got %v, want 9", got)
	}
	if got := a.SquaredDistance(a); got != 0 {
		t.Errorf("SquaredDistance to self: got %v, want 0", got)
	}
}

func TestSubsetPreservesOrderAndValues(t *testing.T) {
	pc := New(4)
	for i := 0; i < 4; i++ {
		pc.Append(Point{
			Position: Position{float64(i), 0, 0},
			Color:    Color{float64(i) / 3, 0, 0},
			Raw:      []byte{byte(i)},
		})
	}

	sub := pc.Subset([]int{3, 1})
	if sub.Len() != 2 {
		t.Fatalf("Subset length: got %d, want 2", sub.Len())
	}
	if sub.Points[0].Position[0] != 3 || sub.Points[1].Position[0] != 1 {
		t.Errorf("Subset order not preserved: %v", sub.Points)
	}
	if sub.Points[0].Raw[0] != 3 {
		t.Errorf("Raw not carried through subset")
	}
	if math.Abs(sub.Points[1].Color[0]-1.0/3) > 1e-12 {
		t.Errorf("Color not carried through subset")
	}
}

func TestNilCloudLen(t *testing.T) {
	var pc *PointCloud
	if pc.Len() != 0 {
		t.Errorf("nil cloud Len: got %d, want 0", pc.Len())
	}
}
