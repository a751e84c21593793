package app

import (
	"testing"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
)

func TestGroundPointUnderCenterOfScreen(t *testing.T) {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(-5, 0, -5))
	bbox.Extend(geometry.NewVector3(5, 0, 5))
	c := NewCamera(bbox)

	// the screen center looks straight at the camera target on the plane
	pos, ok := c.GroundPoint(400, 300, 800, 600, 0)
	if !ok {
		t.Fatal("expected a ground intersection under the screen center")
	}
	if pos.Distance(c.Target) > 1e-6 {
		t.Errorf("expected ground point at target %v, got %v", c.Target, pos)
	}
}

func TestGroundPointParallelRay(t *testing.T) {
	c := NewCamera(geometry.NewBoundingBox())
	c.RotationX = 0 // camera level with the plane
	c.UpdatePosition()

	// a ray through the screen center is horizontal and never meets a
	// plane at camera height
	_, ok := c.GroundPoint(400, 300, 800, 600, c.Position.Y)
	if ok {
		t.Error("expected no intersection for a ray parallel to the plane")
	}
}

func TestProjectRoundTripDepth(t *testing.T) {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(-2, 0, -2))
	bbox.Extend(geometry.NewVector3(2, 2, 2))
	c := NewCamera(bbox)

	point := geometry.NewVector3(1, 0, 1)
	sx, sy, depth := c.Project(point, 800, 600)
	if depth <= 0 {
		t.Fatalf("expected positive depth, got %v", depth)
	}

	// unprojecting the screen position must yield a ray passing near the
	// original point
	origin, dir := c.Unproject(sx, sy, 800, 600)
	toPoint := point.Sub(origin)
	distAlongRay := toPoint.Dot(dir)
	closest := origin.Add(dir.Mul(distAlongRay))
	if closest.Distance(point) > 1e-6 {
		t.Errorf("unprojected ray misses the point: closest %v, want %v", closest, point)
	}
}
