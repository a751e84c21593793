// Package analysis computes read-only statistics and consistency queries
// over a structural model. Validation policy lives here and in the callers,
// never inside the drawing engine.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
)

// ElementInfo describes one element with resolved endpoint positions
type ElementInfo struct {
	ID     model.ElementID
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
}

// Summary contains various measurements of a structural model
type Summary struct {
	BoundingBox  geometry.BoundingBox
	PointCount   int
	ElementCount int
	TotalLength  float64
	MinLength    float64
	MaxLength    float64
	AvgLength    float64
	Elements     []ElementInfo
	// OrphanPointIDs lists points no element references, typically left
	// behind by failed element creations
	OrphanPointIDs []model.PointID
	// DanglingElementIDs lists elements referencing missing points
	DanglingElementIDs []model.ElementID
}

// Summarize computes a full summary of the given model contents
func Summarize(points []model.Point, elements []model.Element) *Summary {
	result := &Summary{
		BoundingBox:  geometry.NewBoundingBox(),
		PointCount:   len(points),
		ElementCount: len(elements),
	}

	positions := make(map[model.PointID]geometry.Vector3, len(points))
	referenced := make(map[model.PointID]bool, len(points))
	for _, p := range points {
		positions[p.ID] = p.Position
		result.BoundingBox.Extend(p.Position)
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, e := range elements {
		start, okStart := positions[e.StartPointID]
		end, okEnd := positions[e.EndPointID]
		if !okStart || !okEnd {
			result.DanglingElementIDs = append(result.DanglingElementIDs, e.ID)
			continue
		}
		referenced[e.StartPointID] = true
		referenced[e.EndPointID] = true

		length := start.Distance(end)
		result.Elements = append(result.Elements, ElementInfo{
			ID:     e.ID,
			Start:  start,
			End:    end,
			Length: length,
		})

		totalLength += length
		if length < minLength {
			minLength = length
		}
		if length > maxLength {
			maxLength = length
		}
	}

	for _, p := range points {
		if !referenced[p.ID] {
			result.OrphanPointIDs = append(result.OrphanPointIDs, p.ID)
		}
	}
	sort.Slice(result.OrphanPointIDs, func(i, j int) bool {
		return result.OrphanPointIDs[i] < result.OrphanPointIDs[j]
	})

	if len(result.Elements) > 0 {
		result.TotalLength = totalLength
		result.MinLength = minLength
		result.MaxLength = maxLength
		result.AvgLength = totalLength / float64(len(result.Elements))
	}

	return result
}

// DuplicateElements returns the ids of elements that connect the same pair
// of points as an earlier element, in either direction
func DuplicateElements(elements []model.Element) []model.ElementID {
	seen := make(map[[2]model.PointID]bool, len(elements))
	var duplicates []model.ElementID
	for _, e := range elements {
		key := [2]model.PointID{e.StartPointID, e.EndPointID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			duplicates = append(duplicates, e.ID)
			continue
		}
		seen[key] = true
	}
	return duplicates
}

// ZeroLengthElements returns the ids of elements shorter than the tolerance
func ZeroLengthElements(summary *Summary, tolerance float64) []model.ElementID {
	var ids []model.ElementID
	for _, e := range summary.Elements {
		if e.Length < tolerance {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// FormatVector formats a 3D position for reports
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
