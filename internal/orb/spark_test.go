package orb

import "testing"

func TestNewSparkImage(t *testing.T) {
	img := NewSparkImage(SparkSize)
	if b := img.Bounds(); b.Dx() != SparkSize || b.Dy() != SparkSize {
		t.Fatalf("bounds = %v", b)
	}

	center := img.NRGBAAt(SparkSize/2, SparkSize/2)
	if center.A < 240 || center.R < 25 || center.R > 30 {
		t.Errorf("center = %+v, want near rgba(30,30,30,1)", center)
	}
	if corner := img.NRGBAAt(0, 0); corner.A != 0 {
		t.Errorf("corner alpha = %d, want 0", corner.A)
	}

	// alpha falls off monotonically from the center along a row
	prev := uint8(255)
	for x := SparkSize / 2; x < SparkSize; x++ {
		a := img.NRGBAAt(x, SparkSize/2).A
		if a > prev {
			t.Fatalf("alpha rises at x=%d: %d > %d", x, a, prev)
		}
		prev = a
	}
}

func TestNewSparkImageDefaultSize(t *testing.T) {
	if got := NewSparkImage(0).Bounds().Dx(); got != SparkSize {
		t.Errorf("size = %d, want %d", got, SparkSize)
	}
}

func TestSampleGradientStops(t *testing.T) {
	tests := []struct {
		pos  float64
		want [4]float64
	}{
		{0, [4]float64{30, 30, 30, 1}},
		{0.05, [4]float64{25, 25, 25, 0.9}},
		{0.2, [4]float64{10, 10, 10, 0.3}},
		{1, [4]float64{0, 0, 0, 0}},
		{1.5, [4]float64{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		got := sampleGradient(sparkStops, tt.pos)
		for k := range got {
			if d := got[k] - tt.want[k]; d > 1e-9 || d < -1e-9 {
				t.Errorf("pos %v: got %v, want %v", tt.pos, got, tt.want)
				break
			}
		}
	}
}
