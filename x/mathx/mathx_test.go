package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(0, 1, 4095); got != 1 {
		t.Fatalf("Clamp(0,1,4095)=%d", got)
	}
	if got := Clamp(5000, 4095, 1); got != 4095 {
		t.Fatalf("swapped bounds: got %d", got)
	}
	if got := Clamp[uint16](7, 1, 10); got != 7 {
		t.Fatalf("in range: got %d", got)
	}
}

func TestFloorMean(t *testing.T) {
	var sum uint32
	for i := uint32(0); i < 300; i++ {
		sum += i
	}
	if got := FloorMean(sum, 300); got != 149 {
		t.Fatalf("mean(0..299)=%d want 149", got)
	}
	if got := FloorMean[uint32](10, 0); got != 0 {
		t.Fatalf("n=0 must yield 0, got %d", got)
	}
}

func TestScale(t *testing.T) {
	cases := []struct{ x, in, out, want uint16 }{
		{0, 100, 1000, 0},
		{50, 100, 1000, 500},
		{100, 100, 1000, 1000},
		{150, 100, 1000, 1000},
		{33, 100, 255, 84},
		{10, 0, 255, 0},
	}
	for _, c := range cases {
		if got := Scale(c.x, c.in, c.out); got != c.want {
			t.Errorf("Scale(%d,%d,%d)=%d want %d", c.x, c.in, c.out, got, c.want)
		}
	}
}
