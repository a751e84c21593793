package geometry

import (
	"math"
	"testing"
)

func TestSegmentMidpoint(t *testing.T) {
	s := NewSegment(NewVector3(0, 0, 0), NewVector3(5, 0, 0))
	result := s.Midpoint()

	expected := NewVector3(2.5, 0, 0)
	if result != expected {
		t.Errorf("Midpoint failed: expected %v, got %v", expected, result)
	}
}

func TestSegmentLength(t *testing.T) {
	s := NewSegment(NewVector3(1, 1, 1), NewVector3(4, 5, 1))
	length := s.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestSegmentClosestParamInside(t *testing.T) {
	s := NewSegment(NewVector3(0, 0, 0), NewVector3(10, 0, 0))
	param := s.ClosestParam(NewVector3(3, 7, 0))

	expected := 0.3
	if math.Abs(param-expected) > 1e-10 {
		t.Errorf("ClosestParam failed: expected %v, got %v", expected, param)
	}
}

func TestSegmentClosestParamBeyondEnd(t *testing.T) {
	s := NewSegment(NewVector3(0, 0, 0), NewVector3(10, 0, 0))
	param := s.ClosestParam(NewVector3(25, 1, 0))

	if param <= 1 {
		t.Errorf("ClosestParam failed: expected parameter beyond 1, got %v", param)
	}
}

func TestSegmentClosestPointClampsToEndpoints(t *testing.T) {
	s := NewSegment(NewVector3(0, 0, 0), NewVector3(10, 0, 0))

	before := s.ClosestPoint(NewVector3(-5, 2, 0))
	if before != s.Start {
		t.Errorf("ClosestPoint failed: expected clamp to start %v, got %v", s.Start, before)
	}

	after := s.ClosestPoint(NewVector3(50, -2, 0))
	if after != s.End {
		t.Errorf("ClosestPoint failed: expected clamp to end %v, got %v", s.End, after)
	}
}

func TestSegmentClosestParamDegenerate(t *testing.T) {
	s := NewSegment(NewVector3(1, 1, 1), NewVector3(1, 1, 1))
	param := s.ClosestParam(NewVector3(5, 5, 5))

	if param != 0 {
		t.Errorf("ClosestParam failed: expected 0 for degenerate segment, got %v", param)
	}
}
