// Package coords maps positions between the structural frame used to store
// model geometry and the render frame used by the viewport.
//
// The structural frame is right-handed with X and Y spanning the horizontal
// plane and Z pointing up. The render frame keeps X, uses Y as the up axis
// and Z pointing toward the viewer, so the mapping is a fixed axis
// permutation with a single sign flip. Both directions are total functions
// and exact inverses of each other; every position that crosses the
// domain/render boundary goes through this package.
package coords

import "github.com/p-astudillo/nifes-strucs/pkg/geometry"

// ToRender converts a position from structural to render coordinates
func ToRender(structural geometry.Vector3) geometry.Vector3 {
	return geometry.Vector3{
		X: structural.X,
		Y: structural.Z,
		Z: -structural.Y,
	}
}

// ToStructural converts a position from render to structural coordinates
func ToStructural(render geometry.Vector3) geometry.Vector3 {
	return geometry.Vector3{
		X: render.X,
		Y: -render.Z,
		Z: render.Y,
	}
}
