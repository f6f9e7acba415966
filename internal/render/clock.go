package render

import "time"

// Clock reports seconds elapsed since the renderer was mounted.
type Clock interface {
	Elapsed() float64
}

type wallClock struct {
	start time.Time
}

// NewWallClock starts counting from now.
func NewWallClock() Clock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) Elapsed() float64 {
	return time.Since(c.start).Seconds()
}
