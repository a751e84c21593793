// Package model defines the structural model read and mutation contracts.
// Points and elements are owned by an external persistence service; the
// drawing engine only reads positions and requests creation of new geometry.
package model

import (
	"context"
	"errors"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
)

// PointID identifies a point; assigned by the persistence service
type PointID int64

// ElementID identifies an element; assigned by the persistence service
type ElementID int64

// Point is a node of the structural model, positioned in structural coordinates
type Point struct {
	ID       PointID
	Position geometry.Vector3
}

// Element is a straight member connecting two points
type Element struct {
	ID           ElementID
	StartPointID PointID
	EndPointID   PointID
}

// ErrNotFound is returned when a referenced point or element does not exist
var ErrNotFound = errors.New("model: not found")

// Reader lists the current model contents. Called whenever the host signals
// that the model changed; implementations return fully consistent listings.
type Reader interface {
	ListPoints(ctx context.Context) ([]Point, error)
	ListElements(ctx context.Context) ([]Element, error)
}

// Mutator requests model changes from the persistence service. Calls may
// fail; failures are reported to the caller and never retried here.
type Mutator interface {
	CreatePoint(ctx context.Context, position geometry.Vector3) (PointID, error)
	CreateElement(ctx context.Context, start, end PointID) (ElementID, error)
	DeletePoint(ctx context.Context, id PointID) error
	DeleteElement(ctx context.Context, id ElementID) error
}

// Store combines reading and mutating a structural model
type Store interface {
	Reader
	Mutator
}
