package analysis

import (
	"math"
	"testing"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
)

func portalModel() ([]model.Point, []model.Element) {
	points := []model.Point{
		{ID: 1, Position: geometry.NewVector3(0, 0, 0)},
		{ID: 2, Position: geometry.NewVector3(0, 0, 3)},
		{ID: 3, Position: geometry.NewVector3(4, 0, 3)},
		{ID: 4, Position: geometry.NewVector3(4, 0, 0)},
	}
	elements := []model.Element{
		{ID: 10, StartPointID: 1, EndPointID: 2},
		{ID: 11, StartPointID: 2, EndPointID: 3},
		{ID: 12, StartPointID: 3, EndPointID: 4},
	}
	return points, elements
}

func TestSummarizeLengths(t *testing.T) {
	points, elements := portalModel()
	summary := Summarize(points, elements)

	if summary.PointCount != 4 || summary.ElementCount != 3 {
		t.Fatalf("unexpected counts: %d points, %d elements", summary.PointCount, summary.ElementCount)
	}
	if math.Abs(summary.TotalLength-10) > 1e-10 {
		t.Errorf("expected total length 10, got %v", summary.TotalLength)
	}
	if math.Abs(summary.MinLength-3) > 1e-10 || math.Abs(summary.MaxLength-4) > 1e-10 {
		t.Errorf("expected lengths in [3, 4], got [%v, %v]", summary.MinLength, summary.MaxLength)
	}
}

func TestSummarizeBoundingBox(t *testing.T) {
	points, elements := portalModel()
	summary := Summarize(points, elements)

	if summary.BoundingBox.Min != geometry.NewVector3(0, 0, 0) {
		t.Errorf("unexpected min: %v", summary.BoundingBox.Min)
	}
	if summary.BoundingBox.Max != geometry.NewVector3(4, 0, 3) {
		t.Errorf("unexpected max: %v", summary.BoundingBox.Max)
	}
}

func TestSummarizeOrphansAndDangling(t *testing.T) {
	points, elements := portalModel()
	points = append(points, model.Point{ID: 9, Position: geometry.NewVector3(7, 7, 0)})
	elements = append(elements, model.Element{ID: 13, StartPointID: 4, EndPointID: 99})

	summary := Summarize(points, elements)

	if len(summary.OrphanPointIDs) != 1 || summary.OrphanPointIDs[0] != 9 {
		t.Errorf("expected orphan point 9, got %v", summary.OrphanPointIDs)
	}
	if len(summary.DanglingElementIDs) != 1 || summary.DanglingElementIDs[0] != 13 {
		t.Errorf("expected dangling element 13, got %v", summary.DanglingElementIDs)
	}
}

func TestDuplicateElements(t *testing.T) {
	_, elements := portalModel()
	// same pair reversed counts as a duplicate
	elements = append(elements, model.Element{ID: 14, StartPointID: 2, EndPointID: 1})

	duplicates := DuplicateElements(elements)
	if len(duplicates) != 1 || duplicates[0] != 14 {
		t.Errorf("expected duplicate element 14, got %v", duplicates)
	}
}

func TestZeroLengthElements(t *testing.T) {
	points := []model.Point{
		{ID: 1, Position: geometry.NewVector3(0, 0, 0)},
		{ID: 2, Position: geometry.NewVector3(0, 0, 0)},
	}
	elements := []model.Element{{ID: 10, StartPointID: 1, EndPointID: 2}}

	summary := Summarize(points, elements)
	ids := ZeroLengthElements(summary, 1e-9)
	if len(ids) != 1 || ids[0] != 10 {
		t.Errorf("expected zero-length element 10, got %v", ids)
	}
}
