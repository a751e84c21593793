// Package snap finds the best magnetic target near the cursor so new
// geometry connects exactly to existing geometry. The resolver keeps a
// read-only snapshot of all points and elements in render coordinates and
// answers one query per rendered frame.
package snap

import (
	"fmt"
	"math"

	"github.com/p-astudillo/nifes-strucs/pkg/coords"
	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
)

const (
	// distanceTie is the floating tolerance under which two candidate
	// distances count as equal and type priority decides
	distanceTie = 1e-9
	// parallelEps bounds the determinant below which two segments are
	// treated as parallel during intersection search
	parallelEps = 1e-10
	// endMargin excludes perpendicular feet within 1% of a segment end;
	// those positions are already covered by endpoint candidates
	endMargin = 0.01
)

// Candidate is a snap target near the query position. Positions are in
// render coordinates. Candidates are recomputed every query, never stored.
type Candidate struct {
	Type     CandidateType
	Position geometry.Vector3
	Distance float64
	// PointID is the identity of the snapped point; set only for Node
	PointID model.PointID
	// ElementID is the source element; set for element-derived candidates.
	// For Intersection it names the first element of the pair.
	ElementID model.ElementID
}

type snapPoint struct {
	id  model.PointID
	pos geometry.Vector3
}

type snapSegment struct {
	id  model.ElementID
	seg geometry.Segment
}

// Resolver resolves snap queries against a snapshot of the model.
// The snapshot is replaced wholesale by SetPoints/SetElements, never
// mutated in place, so FindSnap always sees a consistent state. The
// resolver is driven from the render loop and is not safe for concurrent
// use from multiple goroutines.
type Resolver struct {
	cfg       Config
	points    []snapPoint
	positions map[model.PointID]geometry.Vector3
	segments  []snapSegment
	anchor    *geometry.Vector3
}

// NewResolver creates a resolver with the default configuration and an
// empty snapshot
func NewResolver() *Resolver {
	return &Resolver{
		cfg:       DefaultConfig(),
		positions: make(map[model.PointID]geometry.Vector3),
	}
}

// SetPoints replaces the point snapshot. Positions are given in structural
// coordinates and converted to render coordinates once, here, so the hot
// path compares distances in a single frame.
func (r *Resolver) SetPoints(points []model.Point) {
	snapshot := make([]snapPoint, 0, len(points))
	positions := make(map[model.PointID]geometry.Vector3, len(points))
	for _, p := range points {
		pos := coords.ToRender(p.Position)
		snapshot = append(snapshot, snapPoint{id: p.ID, pos: pos})
		positions[p.ID] = pos
	}
	r.points = snapshot
	r.positions = positions
}

// SetElements replaces the element snapshot, reducing each element to its
// two endpoint coordinates. Endpoints are resolved against the most recent
// SetPoints call; elements referencing unknown points are skipped.
func (r *Resolver) SetElements(elements []model.Element) {
	snapshot := make([]snapSegment, 0, len(elements))
	for _, e := range elements {
		start, okStart := r.positions[e.StartPointID]
		end, okEnd := r.positions[e.EndPointID]
		if !okStart || !okEnd {
			continue
		}
		snapshot = append(snapshot, snapSegment{id: e.ID, seg: geometry.NewSegment(start, end)})
	}
	r.segments = snapshot
}

// SetAnchor sets the reference position perpendicular feet are dropped
// from, in render coordinates. While drawing, the anchor of the segment in
// progress is the reference; perpendicular candidates are the feet of the
// perpendicular from that anchor onto each element, so the committed segment
// meets the element at a right angle.
func (r *Resolver) SetAnchor(anchor geometry.Vector3) {
	a := anchor
	r.anchor = &a
}

// ClearAnchor removes the perpendicular reference. Without an anchor the
// perpendicular type yields no candidates.
func (r *Resolver) ClearAnchor() {
	r.anchor = nil
}

// Config returns the configuration currently in effect
func (r *Resolver) Config() Config {
	return r.cfg
}

// SetEnabled switches snapping on or off
func (r *Resolver) SetEnabled(enabled bool) {
	r.cfg.Enabled = enabled
}

// SetTypeEnabled switches a single candidate type on or off
func (r *Resolver) SetTypeEnabled(t CandidateType, enabled bool) {
	types := make(map[CandidateType]bool, len(r.cfg.Types))
	for k, v := range r.cfg.Types {
		types[k] = v
	}
	types[t] = enabled
	r.cfg.Types = types
}

// SetThreshold updates the snap distance threshold. A non-positive value is
// rejected and the previous threshold stays in effect.
func (r *Resolver) SetThreshold(threshold float64) error {
	if threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %g", ErrInvalidConfig, threshold)
	}
	r.cfg.Threshold = threshold
	return nil
}

// SetGridSpacing updates the grid spacing. A non-positive value is rejected
// and the previous spacing stays in effect.
func (r *Resolver) SetGridSpacing(spacing float64) error {
	if spacing <= 0 {
		return fmt.Errorf("%w: grid spacing must be positive, got %g", ErrInvalidConfig, spacing)
	}
	r.cfg.GridSpacing = spacing
	return nil
}

// FindSnap returns the best snap candidate within the threshold distance of
// the query position, or nil when nothing qualifies. The query is in render
// coordinates. Candidates are ranked by distance; distances equal within
// floating tolerance are broken by type priority.
func (r *Resolver) FindSnap(query geometry.Vector3) *Candidate {
	cfg := r.cfg
	if !cfg.Enabled {
		return nil
	}

	var best *Candidate
	consider := func(c Candidate) {
		if c.Distance > cfg.Threshold {
			return
		}
		if best == nil {
			best = &c
			return
		}
		if c.Distance < best.Distance-distanceTie {
			best = &c
			return
		}
		if math.Abs(c.Distance-best.Distance) <= distanceTie && c.Type < best.Type {
			best = &c
		}
	}

	if cfg.typeEnabled(Node) {
		for _, p := range r.points {
			consider(Candidate{
				Type:     Node,
				Position: p.pos,
				Distance: query.Distance(p.pos),
				PointID:  p.id,
			})
		}
	}

	if cfg.typeEnabled(Endpoint) {
		for _, s := range r.segments {
			for _, end := range [2]geometry.Vector3{s.seg.Start, s.seg.End} {
				consider(Candidate{
					Type:      Endpoint,
					Position:  end,
					Distance:  query.Distance(end),
					ElementID: s.id,
				})
			}
		}
	}

	if cfg.typeEnabled(Midpoint) {
		for _, s := range r.segments {
			mid := s.seg.Midpoint()
			consider(Candidate{
				Type:      Midpoint,
				Position:  mid,
				Distance:  query.Distance(mid),
				ElementID: s.id,
			})
		}
	}

	if cfg.typeEnabled(Perpendicular) && r.anchor != nil {
		for _, s := range r.segments {
			t := s.seg.ClosestParam(*r.anchor)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			// feet at or near the ends are the endpoint candidates' job
			if t <= endMargin || t >= 1-endMargin {
				continue
			}
			foot := s.seg.PointAt(t)
			consider(Candidate{
				Type:      Perpendicular,
				Position:  foot,
				Distance:  query.Distance(foot),
				ElementID: s.id,
			})
		}
	}

	if cfg.typeEnabled(Intersection) {
		for i := 0; i < len(r.segments); i++ {
			for j := i + 1; j < len(r.segments); j++ {
				pos, ok := intersectGroundPlane(r.segments[i].seg, r.segments[j].seg)
				if !ok {
					continue
				}
				consider(Candidate{
					Type:      Intersection,
					Position:  pos,
					Distance:  query.Distance(pos),
					ElementID: r.segments[i].id,
				})
			}
		}
	}

	if cfg.typeEnabled(Grid) {
		pos := geometry.Vector3{
			X: roundToMultiple(query.X, cfg.GridSpacing),
			Y: query.Y, // grid snapping never changes height
			Z: roundToMultiple(query.Z, cfg.GridSpacing),
		}
		consider(Candidate{
			Type:     Grid,
			Position: pos,
			Distance: query.Distance(pos),
		})
	}

	return best
}

// intersectGroundPlane intersects two segments projected onto the horizontal
// X-Z plane. The height of the returned point is interpolated along the
// first segment using its parameter. Parallel and non-overlapping pairs
// report ok=false.
func intersectGroundPlane(a, b geometry.Segment) (geometry.Vector3, bool) {
	d1x := a.End.X - a.Start.X
	d1z := a.End.Z - a.Start.Z
	d2x := b.End.X - b.Start.X
	d2z := b.End.Z - b.Start.Z

	det := d1x*d2z - d1z*d2x
	if math.Abs(det) < parallelEps {
		return geometry.Vector3{}, false
	}

	rx := b.Start.X - a.Start.X
	rz := b.Start.Z - a.Start.Z
	t := (rx*d2z - rz*d2x) / det
	u := (rx*d1z - rz*d1x) / det

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return geometry.Vector3{}, false
	}
	return a.PointAt(t), true
}

// roundToMultiple rounds a value to the nearest multiple of the spacing
func roundToMultiple(value, spacing float64) float64 {
	return math.Round(value/spacing) * spacing
}
