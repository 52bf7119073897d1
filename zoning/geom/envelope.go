package geom

import (
	"math"

	"github.com/boljen/go-bitmap"
	"github.com/unixpickle/model3d/model2d"

	"github.com/openzoning/ozfs/logger"
)

// Mask is a binary raster of buildable cells at 1-parcel-unit resolution.
// Cell (x, y) covers the world square [MinX+x, MinX+x+1) x [MinY+y, MinY+y+1)
// in the (possibly rotated) parcel frame.
type Mask struct {
	W, H       int
	MinX, MinY float64
	bits       bitmap.Bitmap
}

// NewMask allocates an all-false mask.
func NewMask(w, h int, minX, minY float64) *Mask {
	return &Mask{W: w, H: h, MinX: minX, MinY: minY, bits: bitmap.New(w * h)}
}

// Get reports the cell at (x, y); out-of-range cells are false.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits.Get(y*m.W + x)
}

// Set writes the cell at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.bits.Set(y*m.W+x, v)
}

// Count returns the number of true cells, which doubles as the region area
// in square parcel units.
func (m *Mask) Count() int {
	n := 0
	for i := 0; i < m.W*m.H; i++ {
		if m.bits.Get(i) {
			n++
		}
	}
	return n
}

// Empty reports whether no cell is buildable.
func (m *Mask) Empty() bool {
	return m == nil || m.Count() == 0
}

// Envelope is the buildable area of a parcel after subtracting setback
// buffers, rasterized at 1-unit cells and reduced to its largest connected
// region.
type Envelope struct {
	Mask *Mask

	// AreaSqFt is the buildable cell count converted to square feet.
	AreaSqFt float64
}

// HasBuildableArea reports whether any buildable cell remains.
func (e *Envelope) HasBuildableArea() bool {
	return e != nil && !e.Mask.Empty()
}

// capsule is the buffered region around one edge polyline: every point
// within Radius of the line. It implements model2d.Solid so buffers can be
// unioned with model2d.JoinedSolid.
type capsule struct {
	Line   []model2d.Coord
	Radius float64
}

func (c *capsule) Min() model2d.Coord {
	min := c.Line[0]
	for _, p := range c.Line[1:] {
		min = min.Min(p)
	}
	return min.Sub(model2d.Coord{X: c.Radius, Y: c.Radius})
}

func (c *capsule) Max() model2d.Coord {
	max := c.Line[0]
	for _, p := range c.Line[1:] {
		max = max.Max(p)
	}
	return max.Add(model2d.Coord{X: c.Radius, Y: c.Radius})
}

func (c *capsule) Contains(p model2d.Coord) bool {
	return pointPolylineDist(p, c.Line) <= c.Radius
}

// Buildable derives the buildable envelope for a setback plan. The strict
// flag selects the larger distance of two-valued setbacks; rotationDeg
// rotates the parcel frame counterclockwise before rasterizing, which the
// fit tester uses to search orientations.
//
// The parcel polygon becomes a collider solid, each setback edge becomes a
// capsule buffer, and a cell is buildable when its center lies inside the
// polygon and outside every buffer. Only the largest connected buildable
// region is kept. A parcel that does not polygonize, or whose setbacks
// consume it entirely, yields an envelope with no buildable area; neither
// is an error.
func Buildable(plan *SetbackPlan, strict bool, rotationDeg float64) *Envelope {
	p := plan.Parcel
	ring := p.Ring()
	if ring == nil {
		logger.Warnw("parcel has no polygonizable boundary, envelope empty", "parcel", p.ID)
		return &Envelope{Mask: NewMask(0, 0, 0, 0)}
	}
	origin := ringCenter(ring)
	ring = rotateCoords(ring, origin, rotationDeg)

	mesh := model2d.NewMesh()
	for i := 1; i < len(ring); i++ {
		mesh.Add(&model2d.Segment{ring[i-1], ring[i]})
	}
	parcelSolid := model2d.NewColliderSolid(model2d.MeshToCollider(mesh))

	toFeet := p.unitToFeet()
	buffers := model2d.JoinedSolid{}
	for i, e := range p.Edges {
		sb := plan.Setbacks[i]
		if sb == nil || len(e.Line) == 0 {
			continue
		}
		dist := sb.Relaxed
		if strict {
			dist = sb.Strict
		}
		if dist <= 0 {
			continue
		}
		buffers = append(buffers, &capsule{
			Line:   rotateCoords(e.Line, origin, rotationDeg),
			Radius: dist / toFeet,
		})
	}

	minX := math.Floor(parcelSolid.Min().X)
	minY := math.Floor(parcelSolid.Min().Y)
	w := int(math.Ceil(parcelSolid.Max().X) - minX)
	h := int(math.Ceil(parcelSolid.Max().Y) - minY)
	mask := NewMask(w, h, minX, minY)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := model2d.Coord{X: minX + float64(x) + 0.5, Y: minY + float64(y) + 0.5}
			if !parcelSolid.Contains(center) {
				continue
			}
			if len(buffers) > 0 && buffers.Contains(center) {
				continue
			}
			mask.Set(x, y, true)
		}
	}

	keepLargestRegion(mask)
	return &Envelope{
		Mask:     mask,
		AreaSqFt: float64(mask.Count()) * toFeet * toFeet,
	}
}

// Envelopes computes the relaxed envelope and, when any setback is
// two-valued, the strict envelope as well. The relaxed envelope always
// covers at least the strict one since it buffers by smaller distances.
func Envelopes(plan *SetbackPlan) (relaxed, strict *Envelope) {
	relaxed = Buildable(plan, false, 0)
	if plan.TwoValued() {
		strict = Buildable(plan, true, 0)
	}
	return relaxed, strict
}

// ringCenter averages the ring's distinct points.
func ringCenter(ring []model2d.Coord) model2d.Coord {
	var sum model2d.Coord
	n := len(ring) - 1 // last point repeats the first
	for _, c := range ring[:n] {
		sum = sum.Add(c)
	}
	return sum.Scale(1 / float64(n))
}

// keepLargestRegion clears every 4-connected true region except the
// largest, matching the multi-part "keep only the biggest polygon" rule.
func keepLargestRegion(m *Mask) {
	if m.W == 0 || m.H == 0 {
		return
	}
	labels := make([]int, m.W*m.H)
	sizes := []int{0} // label 0 = unlabeled
	next := 1

	var stack [][2]int
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.Get(x, y) || labels[y*m.W+x] != 0 {
				continue
			}
			size := 0
			stack = append(stack[:0], [2]int{x, y})
			labels[y*m.W+x] = next
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := c[0]+d[0], c[1]+d[1]
					if m.Get(nx, ny) && labels[ny*m.W+nx] == 0 {
						labels[ny*m.W+nx] = next
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}
			sizes = append(sizes, size)
			next++
		}
	}
	if next <= 2 {
		return // zero or one region, nothing to trim
	}

	largest := 1
	for label := 2; label < next; label++ {
		if sizes[label] > sizes[largest] {
			largest = label
		}
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.Get(x, y) && labels[y*m.W+x] != largest {
				m.Set(x, y, false)
			}
		}
	}
}
