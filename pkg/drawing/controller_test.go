package drawing

import (
	"context"
	"errors"
	"testing"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
	"github.com/p-astudillo/nifes-strucs/pkg/snap"
)

// fakeMutator records mutation requests in memory
type fakeMutator struct {
	points       map[model.PointID]geometry.Vector3
	elements     [][2]model.PointID
	nextPointID  model.PointID
	pointCalls   int
	elementCalls int
	failPoint    bool
	failElement  bool
}

func newFakeMutator() *fakeMutator {
	return &fakeMutator{points: make(map[model.PointID]geometry.Vector3)}
}

func (f *fakeMutator) CreatePoint(_ context.Context, position geometry.Vector3) (model.PointID, error) {
	f.pointCalls++
	if f.failPoint {
		return 0, errors.New("point rejected")
	}
	f.nextPointID++
	f.points[f.nextPointID] = position
	return f.nextPointID, nil
}

func (f *fakeMutator) CreateElement(_ context.Context, start, end model.PointID) (model.ElementID, error) {
	f.elementCalls++
	if f.failElement {
		return 0, errors.New("element rejected")
	}
	f.elements = append(f.elements, [2]model.PointID{start, end})
	return model.ElementID(len(f.elements)), nil
}

func (f *fakeMutator) DeletePoint(context.Context, model.PointID) error     { return nil }
func (f *fakeMutator) DeleteElement(context.Context, model.ElementID) error { return nil }

func activeSession(c *Controller) Session {
	return c.Toggle(Session{})
}

func TestFirstPickEstablishesAnchor(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	s, commit, err := c.Pick(context.Background(), s, geometry.NewVector3(1, 0, -2), nil)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if commit != nil {
		t.Errorf("first pick must not commit, got %+v", commit)
	}
	if s.State != Active {
		t.Fatalf("expected Active, got %v", s.State)
	}
	expected := geometry.NewVector3(1, 2, 0) // structural coordinates
	if s.Anchor != expected {
		t.Errorf("expected anchor %v, got %v", expected, s.Anchor)
	}
	if mutator.pointCalls != 0 || mutator.elementCalls != 0 {
		t.Errorf("first pick issued mutation calls: %d points, %d elements", mutator.pointCalls, mutator.elementCalls)
	}
}

func TestPickIgnoredWhileModeOff(t *testing.T) {
	c := NewController(newFakeMutator())
	s := Session{} // mode off

	s, commit, err := c.Pick(context.Background(), s, geometry.NewVector3(1, 0, 0), nil)
	if err != nil || commit != nil {
		t.Fatalf("expected pick to be ignored, got commit=%+v err=%v", commit, err)
	}
	if s.State != Idle {
		t.Errorf("expected Idle, got %v", s.State)
	}
}

func TestSecondPickCommitsPointsAndElement(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	ctx := context.Background()
	s, _, err := c.Pick(ctx, s, geometry.NewVector3(0, 0, 0), nil)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	s, commit, err := c.Pick(ctx, s, geometry.NewVector3(5, 0, 0), nil)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if commit == nil {
		t.Fatal("expected a commit")
	}
	if !commit.StartCreated || !commit.EndCreated {
		t.Errorf("expected both points to be created, got %+v", commit)
	}
	if len(mutator.elements) != 1 {
		t.Fatalf("expected one element, got %d", len(mutator.elements))
	}
	if s.State != Idle {
		t.Errorf("expected Idle after non-continuous commit, got %v", s.State)
	}
}

func TestZeroLengthCommitRejected(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	ctx := context.Background()
	pos := geometry.NewVector3(2, 0, 1)
	s, _, _ = c.Pick(ctx, s, pos, nil)
	s, commit, err := c.Pick(ctx, s, pos, nil)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if commit != nil {
		t.Errorf("zero-length pick must not commit, got %+v", commit)
	}
	if s.State != Active {
		t.Errorf("expected session to stay Active, got %v", s.State)
	}
	if mutator.elementCalls != 0 {
		t.Errorf("zero-length pick issued %d element calls", mutator.elementCalls)
	}
}

func TestSamePointIdentityRejected(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	nodeTarget := &snap.Candidate{
		Type:     snap.Node,
		Position: geometry.NewVector3(1, 0, 0),
		PointID:  42,
	}

	ctx := context.Background()
	s, _, _ = c.Pick(ctx, s, nodeTarget.Position, nodeTarget)
	if s.AnchorPointID != 42 {
		t.Fatalf("expected anchor point identity 42, got %v", s.AnchorPointID)
	}

	s, commit, err := c.Pick(ctx, s, geometry.NewVector3(1.3, 0, 0.4), nodeTarget)
	if err != nil || commit != nil {
		t.Fatalf("expected same-identity pick to be ignored, got commit=%+v err=%v", commit, err)
	}
	if s.State != Active {
		t.Errorf("expected session to stay Active, got %v", s.State)
	}
	if mutator.pointCalls != 0 {
		t.Errorf("rejected pick created %d points", mutator.pointCalls)
	}
}

func TestNodeSnapReusesExistingPoint(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	start := &snap.Candidate{Type: snap.Node, Position: geometry.NewVector3(0, 0, 0), PointID: 7}

	ctx := context.Background()
	s, _, _ = c.Pick(ctx, s, start.Position, start)
	_, commit, err := c.Pick(ctx, s, geometry.NewVector3(3, 0, 0), nil)
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if commit.StartPointID != 7 || commit.StartCreated {
		t.Errorf("expected start to reuse point 7, got %+v", commit)
	}
	if !commit.EndCreated {
		t.Errorf("expected end point to be created, got %+v", commit)
	}
	if mutator.pointCalls != 1 {
		t.Errorf("expected exactly one point creation, got %d", mutator.pointCalls)
	}
}

func TestMidpointSnapDoesNotCarryIdentity(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	mid := &snap.Candidate{Type: snap.Midpoint, Position: geometry.NewVector3(2.5, 0, 0), ElementID: 10}

	s, _, _ = c.Pick(context.Background(), s, mid.Position, mid)
	if s.AnchorPointID != 0 {
		t.Errorf("midpoint snap must not set an anchor point identity, got %v", s.AnchorPointID)
	}
}

func TestContinuousChaining(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)
	s.Continuous = true

	ctx := context.Background()
	picks := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(5, 0, 0),
		geometry.NewVector3(5, 0, -5),
	}
	var err error
	for _, p := range picks {
		s, _, err = c.Pick(ctx, s, p, nil)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
	}

	if len(mutator.elements) != 2 {
		t.Fatalf("expected exactly two elements, got %d", len(mutator.elements))
	}
	// the shared middle point is created once and reused as the next start
	if mutator.pointCalls != 3 {
		t.Errorf("expected three point creations, got %d", mutator.pointCalls)
	}
	if mutator.elements[0][1] != mutator.elements[1][0] {
		t.Errorf("expected chained elements to share the middle point: %v", mutator.elements)
	}
	if s.State != Active {
		t.Errorf("expected continuous session to stay Active, got %v", s.State)
	}
}

func TestElementFailureLeavesOrphanPoint(t *testing.T) {
	mutator := newFakeMutator()
	mutator.failElement = true
	c := NewController(mutator)
	s := activeSession(c)

	ctx := context.Background()
	s, _, _ = c.Pick(ctx, s, geometry.NewVector3(0, 0, 0), nil)
	s, commit, err := c.Pick(ctx, s, geometry.NewVector3(4, 0, 0), nil)
	if err == nil {
		t.Fatal("expected element creation failure to surface")
	}
	if commit != nil {
		t.Errorf("failed commit must not be reported, got %+v", commit)
	}
	if s.State != Idle {
		t.Errorf("expected Idle after failure, got %v", s.State)
	}
	// no rollback: both created points stay in the model
	if len(mutator.points) != 2 {
		t.Errorf("expected orphan points to remain, got %d", len(mutator.points))
	}
}

func TestToggleOffDiscardsAnchor(t *testing.T) {
	mutator := newFakeMutator()
	c := NewController(mutator)
	s := activeSession(c)

	s, _, _ = c.Pick(context.Background(), s, geometry.NewVector3(1, 0, 0), nil)
	s = c.Toggle(s)

	if s.ModeOn {
		t.Error("expected drawing mode off")
	}
	if s.State != Idle {
		t.Errorf("expected Idle, got %v", s.State)
	}
	if mutator.pointCalls != 0 || mutator.elementCalls != 0 {
		t.Error("toggle must not issue mutation calls")
	}
}

func TestCancelIdempotent(t *testing.T) {
	c := NewController(newFakeMutator())
	s := activeSession(c)

	s, _, _ = c.Pick(context.Background(), s, geometry.NewVector3(1, 0, 0), nil)
	s = c.Cancel(s)
	if s.State != Idle {
		t.Fatalf("expected Idle after cancel, got %v", s.State)
	}
	s = c.Cancel(s)
	if s.State != Idle {
		t.Errorf("expected cancel to be idempotent, got %v", s.State)
	}
}

func TestPointerMoveUpdatesPreview(t *testing.T) {
	c := NewController(newFakeMutator())
	s := activeSession(c)

	// ignored while Idle
	s = c.PointerMove(s, geometry.NewVector3(9, 9, 9))
	if _, ok := s.Preview(); ok {
		t.Error("expected no preview while Idle")
	}

	s, _, _ = c.Pick(context.Background(), s, geometry.NewVector3(0, 0, 0), nil)
	s = c.PointerMove(s, geometry.NewVector3(3, 0, 0))

	preview, ok := s.Preview()
	if !ok {
		t.Fatal("expected a preview while Active")
	}
	expected := geometry.NewVector3(3, 0, 0)
	if preview.End != expected {
		t.Errorf("expected preview end %v, got %v", expected, preview.End)
	}
}
