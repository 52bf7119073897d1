// Package geom holds the geometric half of the zoning engine: labeled
// parcel edges, setback assignment, the buildable envelope derived from
// them, and the raster fit test for building footprints.
package geom

import (
	"math"

	"github.com/unixpickle/model3d/model2d"

	"github.com/openzoning/ozfs/logger"
	"github.com/openzoning/ozfs/units"
	"github.com/openzoning/ozfs/zoning/facts"
)

// Side labels a parcel edge carries in the parcel dataset.
const (
	SideFront    = "front"
	SideRear     = "rear"
	SideInterior = "Interior side"
	SideExterior = "Exterior side"
	SideCentroid = "centroid"
)

// Edge is one labeled boundary segment of a parcel: a side tag and a
// polyline in the parcel's coordinate unit.
type Edge struct {
	Side string
	Line []model2d.Coord
}

// Length returns the polyline length in parcel units.
func (e Edge) Length() float64 {
	var total float64
	for i := 1; i < len(e.Line); i++ {
		total += e.Line[i].Dist(e.Line[i-1])
	}
	return total
}

// Boundary reports whether the edge participates in the parcel boundary.
// Centroid markers and unlabeled edges do not.
func (e Edge) Boundary() bool {
	return e.Side != "" && e.Side != SideCentroid
}

// Parcel is a land lot: its ordered labeled edges, its centroid, and the
// linear unit its coordinates are in.
type Parcel struct {
	ID       string
	Edges    []Edge
	Centroid model2d.Coord

	// Unit is the linear unit of the edge coordinates, "ft" when the
	// dataset does not say otherwise.
	Unit string
}

// unitToFeet returns the factor from parcel coordinate units to feet.
func (p *Parcel) unitToFeet() float64 {
	f, err := units.ToFeet(1, p.Unit)
	if err != nil {
		logger.Warnw("unknown parcel coordinate unit, assuming feet",
			"parcel", p.ID, "unit", p.Unit)
		return 1
	}
	return f
}

// Ring concatenates the boundary edges into one closed coordinate ring.
// Consecutive duplicate points are dropped; the ring is closed by repeating
// the first point. Fewer than three distinct points means the parcel has no
// polygonizable boundary and nil is returned.
func (p *Parcel) Ring() []model2d.Coord {
	var ring []model2d.Coord
	for _, e := range p.Edges {
		if !e.Boundary() {
			continue
		}
		for _, c := range e.Line {
			if len(ring) > 0 && c.Dist(ring[len(ring)-1]) < 1e-9 {
				continue
			}
			ring = append(ring, c)
		}
	}
	if len(ring) > 1 && ring[0].Dist(ring[len(ring)-1]) < 1e-9 {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil
	}
	return append(ring, ring[0])
}

// RotatedRing returns the parcel ring rotated deg degrees counterclockwise
// about its center, the same frame Buildable rasterizes at that rotation.
func (p *Parcel) RotatedRing(deg float64) []model2d.Coord {
	ring := p.Ring()
	if ring == nil {
		return nil
	}
	return rotateCoords(ring, ringCenter(ring), deg)
}

// Area returns the parcel polygon's area in square parcel units, zero when
// the boundary does not polygonize.
func (p *Parcel) Area() float64 {
	ring := p.Ring()
	if ring == nil {
		return 0
	}
	return math.Abs(shoelace(ring))
}

// LotMetrics derives the lot measurements constraints reference: width is
// the total front-edge length, depth the total interior-side length, area
// the closed-boundary polygon area, all in feet. A parcel whose boundary
// cannot form a polygon yields null metrics.
func (p *Parcel) LotMetrics() facts.LotMetrics {
	toFeet := p.unitToFeet()

	var width, depth float64
	for _, e := range p.Edges {
		switch e.Side {
		case SideFront:
			width += e.Length()
		case SideInterior:
			depth += e.Length()
		}
	}

	area := p.Area()
	if area == 0 {
		logger.Warnw("parcel boundary does not polygonize, lot metrics unavailable",
			"parcel", p.ID)
		return facts.LotMetrics{}
	}

	width *= toFeet
	depth *= toFeet
	area *= toFeet * toFeet
	return facts.LotMetrics{Width: &width, Depth: &depth, Area: &area}
}

// shoelace computes the signed area of a closed ring.
func shoelace(ring []model2d.Coord) float64 {
	var sum float64
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// rotateCoords rotates coords by deg degrees counterclockwise about origin.
func rotateCoords(coords []model2d.Coord, origin model2d.Coord, deg float64) []model2d.Coord {
	if deg == 0 {
		return coords
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make([]model2d.Coord, len(coords))
	for i, c := range coords {
		dx, dy := c.X-origin.X, c.Y-origin.Y
		out[i] = model2d.Coord{
			X: origin.X + dx*cos - dy*sin,
			Y: origin.Y + dx*sin + dy*cos,
		}
	}
	return out
}

// pointSegmentDist returns the distance from p to segment ab.
func pointSegmentDist(p, a, b model2d.Coord) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(a.Add(ab.Scale(t)))
}

// pointPolylineDist returns the distance from p to the nearest segment of
// the polyline.
func pointPolylineDist(p model2d.Coord, line []model2d.Coord) float64 {
	if len(line) == 1 {
		return p.Dist(line[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(line); i++ {
		if d := pointSegmentDist(p, line[i-1], line[i]); d < best {
			best = d
		}
	}
	return best
}
