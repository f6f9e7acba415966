package orb

import (
	"errors"
	"math"
	"testing"
)

func TestNewPointCloudCount(t *testing.T) {
	tests := []struct {
		lat, lon int
		want     int
	}{
		{8, 8, 81},
		{1, 1, 4},
		{64, 64, 65 * 65},
		{3, 5, 4 * 6},
	}
	for _, tt := range tests {
		pc, err := NewPointCloud(2, tt.lat, tt.lon)
		if err != nil {
			t.Fatalf("NewPointCloud(%d,%d): %v", tt.lat, tt.lon, err)
		}
		if pc.Len() != tt.want {
			t.Errorf("NewPointCloud(%d,%d).Len() = %d, want %d", tt.lat, tt.lon, pc.Len(), tt.want)
		}
	}
}

func TestNewPointCloudDeterministic(t *testing.T) {
	a, err := NewPointCloud(2, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewPointCloud(2, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Base() {
		if a.Base()[i] != b.Base()[i] {
			t.Fatalf("point %d differs: %v vs %v", i, a.Base()[i], b.Base()[i])
		}
	}
}

func TestNewPointCloudOnSphere(t *testing.T) {
	pc, err := NewPointCloud(2, 16, 24)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pc.Base() {
		if d := math.Abs(float64(p.Len()) - 2); d > 1e-5 {
			t.Fatalf("point %d at distance %v from radius", i, d)
		}
	}
	// ring 0 is the north pole
	if y := pc.Base()[0][1]; math.Abs(float64(y)-2) > 1e-6 {
		t.Errorf("first point y = %v, want 2", y)
	}
}

func TestNewPointCloudInvalid(t *testing.T) {
	tests := []struct {
		name     string
		radius   float32
		lat, lon int
	}{
		{"zero lat", 2, 0, 8},
		{"negative lon", 2, 8, -1},
		{"zero radius", 0, 8, 8},
		{"negative radius", -1, 8, 8},
		{"nan radius", float32(math.NaN()), 8, 8},
		{"inf radius", float32(math.Inf(1)), 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPointCloud(tt.radius, tt.lat, tt.lon)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewWorkingIsCopy(t *testing.T) {
	pc, err := NewPointCloud(1, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	w := pc.NewWorking()
	w[0][0] = 99
	if pc.Base()[0][0] == 99 {
		t.Fatal("working buffer aliases base positions")
	}
}
