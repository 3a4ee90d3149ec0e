package services

import (
	"math"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

// isPointInRegion performs the hit test for a hotspot click. Regions with
// missing geometric fields never match, they do not raise.
func isPointInRegion(point models.Point, region models.HotspotRegion) bool {
	switch region.Type {
	case models.RegionCircle:
		if region.Center == nil || region.Radius == nil {
			return false
		}
		dx := point.X - region.Center.X
		dy := point.Y - region.Center.Y
		return math.Sqrt(dx*dx+dy*dy) <= *region.Radius
	case models.RegionRectangle:
		if region.X == nil || region.Y == nil || region.Width == nil || region.Height == nil {
			return false
		}
		return point.X >= *region.X && point.X <= *region.X+*region.Width &&
			point.Y >= *region.Y && point.Y <= *region.Y+*region.Height
	case models.RegionPolygon:
		if len(region.Vertices) < 3 {
			return false
		}
		return pointInPolygon(point, region.Vertices)
	default:
		return false
	}
}

// pointInPolygon implements the standard ray-casting (even-odd) test over an
// ordered vertex list.
func pointInPolygon(point models.Point, vertices []models.Point) bool {
	inside := false
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > point.Y) != (vj.Y > point.Y) &&
			point.X < (vj.X-vi.X)*(point.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
