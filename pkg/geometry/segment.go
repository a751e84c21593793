package geometry

// Segment represents a straight line segment between two points
type Segment struct {
	Start Vector3
	End   Vector3
}

// NewSegment creates a new segment
func NewSegment(start, end Vector3) Segment {
	return Segment{Start: start, End: end}
}

// Length returns the length of the segment
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Midpoint returns the arithmetic mean of the segment's endpoints
func (s Segment) Midpoint() Vector3 {
	return s.Start.Add(s.End).Mul(0.5)
}

// PointAt returns the point at parameter t along the segment
// (t=0 gives Start, t=1 gives End)
func (s Segment) PointAt(t float64) Vector3 {
	return s.Start.Lerp(s.End, t)
}

// ClosestParam returns the parameter of the point on the infinite line
// through the segment that is closest to the query point. The result is
// not clamped; callers decide how to treat parameters outside [0, 1].
// A degenerate segment (coincident endpoints) yields parameter 0.
func (s Segment) ClosestParam(query Vector3) float64 {
	dir := s.End.Sub(s.Start)
	lenSq := dir.Dot(dir)
	if lenSq == 0 {
		return 0
	}
	return query.Sub(s.Start).Dot(dir) / lenSq
}

// ClosestPoint returns the point on the segment closest to the query point,
// clamping the projection to the segment's extent
func (s Segment) ClosestPoint(query Vector3) Vector3 {
	t := s.ClosestParam(query)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return s.PointAt(t)
}
