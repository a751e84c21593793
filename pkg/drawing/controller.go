// Package drawing implements the two-click drawing state machine: a first
// pick establishes an anchor, a second pick commits a point-and-element pair
// through the external model service. Sessions are plain values passed into
// and returned from every operation, so independent drawing surfaces can
// each own their own session.
package drawing

import (
	"context"
	"fmt"

	"github.com/p-astudillo/nifes-strucs/pkg/coords"
	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
	"github.com/p-astudillo/nifes-strucs/pkg/snap"
)

// zeroLengthTolerance is the structural-space distance below which an
// anchor and a commit position count as the same point. Structural space
// keeps the check independent of camera zoom.
const zeroLengthTolerance = 1e-9

// State is the drawing state machine state
type State int

const (
	// Idle means no anchor is established
	Idle State = iota
	// Active means an anchor is set and the next pick commits an element
	Active
)

// String returns the state name
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Session is the value state of one drawing surface. The zero value is a
// usable idle session with drawing mode off. Positions are stored in
// structural coordinates.
type Session struct {
	State State
	// ModeOn is the session-level drawing mode flag; picks are ignored
	// while it is off
	ModeOn bool
	// Continuous re-arms the session after each commit, chaining the
	// committed end point as the next anchor
	Continuous bool
	// Anchor is the first committed position; valid only while Active
	Anchor geometry.Vector3
	// AnchorPointID is the identity of the existing point the anchor was
	// snapped to, or 0 when the anchor is free and a new point must be
	// created on commit. Set only from node-type snaps.
	AnchorPointID model.PointID
	// Live is the current preview endpoint; valid only while Active
	Live geometry.Vector3
}

// Preview returns the anchor-to-live preview segment in structural
// coordinates; ok is false while the session has no anchor
func (s Session) Preview() (geometry.Segment, bool) {
	if s.State != Active {
		return geometry.Segment{}, false
	}
	return geometry.NewSegment(s.Anchor, s.Live), true
}

// Commit reports the geometry persisted by a completed pick pair
type Commit struct {
	StartPointID model.PointID
	EndPointID   model.PointID
	ElementID    model.ElementID
	// StartCreated and EndCreated report whether the commit created the
	// point or reused an existing one
	StartCreated bool
	EndCreated   bool
}

// Controller advances drawing sessions and requests model mutations.
// It holds no session state of its own.
type Controller struct {
	mutator model.Mutator
}

// NewController creates a controller committing through the given mutator
func NewController(mutator model.Mutator) *Controller {
	return &Controller{mutator: mutator}
}

// Toggle flips the session's drawing mode. Turning the mode off while
// Active discards the anchor and returns to Idle without side effects.
func (c *Controller) Toggle(s Session) Session {
	s.ModeOn = !s.ModeOn
	if !s.ModeOn {
		s = clearAnchor(s)
	}
	return s
}

// PointerMove records the live preview endpoint. It is meaningful only
// while Active and never commits anything.
func (c *Controller) PointerMove(s Session, renderPos geometry.Vector3) Session {
	if s.State != Active {
		return s
	}
	s.Live = coords.ToStructural(renderPos)
	return s
}

// Cancel discards the anchor and live position and returns to Idle.
// Idempotent from Idle.
func (c *Controller) Cancel(s Session) Session {
	return clearAnchor(s)
}

// Pick advances the state machine with a pick event. The position is in
// render coordinates; a non-nil snap target overrides it. The first pick
// establishes the anchor; the second resolves both ends to point
// identities, requests element creation and either re-arms (continuous
// mode) or returns to Idle.
//
// A pick that would produce a zero-length element is ignored and the
// session stays Active with its anchor unchanged. If element creation
// fails after a point was created, the point stays in the model (no
// rollback), the session returns to Idle and the error is surfaced.
func (c *Controller) Pick(ctx context.Context, s Session, renderPos geometry.Vector3, target *snap.Candidate) (Session, *Commit, error) {
	if !s.ModeOn {
		return s, nil, nil
	}

	pos, pointID := resolvePick(renderPos, target)

	if s.State == Idle {
		s.State = Active
		s.Anchor = pos
		s.AnchorPointID = pointID
		s.Live = pos
		return s, nil, nil
	}

	// commit step; reject degenerate picks silently, they are expected
	if pointID != 0 && pointID == s.AnchorPointID {
		return s, nil, nil
	}
	if pos.Distance(s.Anchor) < zeroLengthTolerance {
		return s, nil, nil
	}

	commit := &Commit{StartPointID: s.AnchorPointID, EndPointID: pointID}

	if commit.StartPointID == 0 {
		id, err := c.mutator.CreatePoint(ctx, s.Anchor)
		if err != nil {
			return clearAnchor(s), nil, fmt.Errorf("create start point: %w", err)
		}
		commit.StartPointID = id
		commit.StartCreated = true
	}

	if commit.EndPointID == 0 {
		id, err := c.mutator.CreatePoint(ctx, pos)
		if err != nil {
			return clearAnchor(s), nil, fmt.Errorf("create end point: %w", err)
		}
		commit.EndPointID = id
		commit.EndCreated = true
	}

	elementID, err := c.mutator.CreateElement(ctx, commit.StartPointID, commit.EndPointID)
	if err != nil {
		// created points stay in the model; the user removes them explicitly
		return clearAnchor(s), nil, fmt.Errorf("create element: %w", err)
	}
	commit.ElementID = elementID

	if s.Continuous {
		s.Anchor = pos
		s.AnchorPointID = commit.EndPointID
		s.Live = pos
		return s, commit, nil
	}
	return clearAnchor(s), commit, nil
}

// resolvePick returns the structural position of a pick and the identity
// of the existing point it locked onto, if any. Only node-type snaps carry
// a point identity; every other snap type needs a new point on commit.
func resolvePick(renderPos geometry.Vector3, target *snap.Candidate) (geometry.Vector3, model.PointID) {
	if target == nil {
		return coords.ToStructural(renderPos), 0
	}
	pos := coords.ToStructural(target.Position)
	if target.Type == snap.Node {
		return pos, target.PointID
	}
	return pos, 0
}

func clearAnchor(s Session) Session {
	s.State = Idle
	s.Anchor = geometry.Vector3{}
	s.AnchorPointID = 0
	s.Live = geometry.Vector3{}
	return s
}
