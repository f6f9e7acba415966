package orb

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera rig constants.
const (
	FieldOfView  = 75.0 // degrees, vertical
	NearPlane    = 0.1
	FarPlane     = 1000.0
	TiltPerPixel = 0.0005 // radians of tilt per pixel of pointer offset
	TiltDamping  = 0.05   // fraction of the remaining tilt closed per frame
)

// Sprite is a projected point in draw-buffer pixels.
type Sprite struct {
	X, Y    float32
	Size    float32 // edge length in pixels
	Depth   float32 // NDC z, -1 near .. 1 far
	Visible bool
}

// Camera is a fixed perspective camera looking at the origin, plus the
// orb's own orientation: a constant spin and a damped pointer tilt.
type Camera struct {
	Distance      float32
	RotationSpeed float32 // radians per frame about Y; half of it about Z

	aspect     float32
	rotX       float32
	rotY       float32
	rotZ       float32
	projection mgl32.Mat4
	view       mgl32.Mat4
}

// NewCamera places the camera on +Z at distance, looking at the origin.
func NewCamera(distance, rotationSpeed, aspect float32) *Camera {
	c := &Camera{
		Distance:      distance,
		RotationSpeed: rotationSpeed,
		view:          mgl32.LookAtV(mgl32.Vec3{0, 0, distance}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
	}
	c.SetAspect(aspect)
	return c
}

// SetAspect rebuilds the projection. Non-positive aspects are ignored so a
// collapsed viewport keeps the last usable projection.
func (c *Camera) SetAspect(aspect float32) {
	if !(aspect > 0) {
		return
	}
	c.aspect = aspect
	c.projection = mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, NearPlane, FarPlane)
}

// Aspect returns the aspect ratio of the current projection.
func (c *Camera) Aspect() float32 { return c.aspect }

// Advance applies one frame of spin and eases the tilt towards the value
// implied by the pointer's vertical offset from the viewport center.
func (c *Camera) Advance(pointerY float64) {
	c.rotY += c.RotationSpeed
	c.rotZ += c.RotationSpeed * 0.5

	target := float32(pointerY * TiltPerPixel)
	c.rotX += TiltDamping * (target - c.rotX)
}

// Rotation returns the orb's Euler angles (X tilt, Y spin, Z spin).
func (c *Camera) Rotation() (x, y, z float32) {
	return c.rotX, c.rotY, c.rotZ
}

// Model returns the orb's rotation matrix in XYZ Euler order.
func (c *Camera) Model() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.rotX).
		Mul4(mgl32.HomogRotate3DY(c.rotY)).
		Mul4(mgl32.HomogRotate3DZ(c.rotZ))
}

// Project transforms points into draw-buffer pixels, writing into out.
// pointSize is in world units and shrinks with distance from the camera.
func (c *Camera) Project(points []mgl32.Vec3, out []Sprite, width, height int, pointSize float32) {
	if len(out) < len(points) {
		panic("orb: sprite buffer shorter than point buffer")
	}

	mvp := c.projection.Mul4(c.view).Mul4(c.Model())
	w, h := float32(width), float32(height)

	for i, p := range points {
		clip := mvp.Mul4x1(p.Vec4(1))
		if clip[3] <= 0 {
			out[i] = Sprite{}
			continue
		}
		inv := 1 / clip[3]
		ndcX, ndcY, ndcZ := clip[0]*inv, clip[1]*inv, clip[2]*inv

		out[i] = Sprite{
			X:       (ndcX + 1) * 0.5 * w,
			Y:       (1 - ndcY) * 0.5 * h,
			Size:    pointSize * (h / 2) * inv,
			Depth:   ndcZ,
			Visible: ndcZ >= -1 && ndcZ <= 1,
		}
	}
}
