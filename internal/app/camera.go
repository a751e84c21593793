package app

import (
	"math"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
)

// Camera is an orbit camera over the render-space scene
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // field of view in radians
	Distance  float64
	RotationX float64 // rotation around X axis (vertical)
	RotationY float64 // rotation around Y axis (horizontal)
}

// NewCamera creates a camera framing the given bounding box. An empty box
// frames a default working area around the origin.
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := geometry.Vector3{}
	distance := 20.0
	if !bbox.IsEmpty() {
		center = bbox.Center()
		size := bbox.Size()
		distance = math.Max(10, math.Max(size.X, math.Max(size.Y, size.Z))*2.0)
	}

	c := &Camera{
		Target:    center,
		Up:        geometry.NewVector3(0, 1, 0),
		FOV:       math.Pi / 4,
		Distance:  distance,
		RotationX: math.Pi / 6,
		RotationY: math.Pi / 4,
	}
	c.UpdatePosition()
	return c
}

// UpdatePosition recomputes the camera position from its rotation angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	if c.RotationX > maxAngle {
		c.RotationX = maxAngle
	}
	if c.RotationX < -maxAngle {
		c.RotationX = -maxAngle
	}

	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= (1.0 + delta)
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

// Project projects a render-space point to screen coordinates. The third
// return value is the view-space depth.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Unproject converts screen coordinates to a render-space ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) (origin, direction geometry.Vector3) {
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	rayDir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))
	return c.Position, rayDir.Normalize()
}

// GroundPoint intersects the ray under the given screen position with the
// horizontal working plane at the given render-space height. ok is false
// when the ray runs parallel to the plane or points away from it.
func (c *Camera) GroundPoint(screenX, screenY, width, height, planeY float64) (geometry.Vector3, bool) {
	origin, dir := c.Unproject(screenX, screenY, width, height)
	if math.Abs(dir.Y) < 1e-12 {
		return geometry.Vector3{}, false
	}
	t := (planeY - origin.Y) / dir.Y
	if t <= 0 {
		return geometry.Vector3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}
