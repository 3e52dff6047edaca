package purgatory

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sgentle/polygon-purgatory/transform"
	"github.com/sgentle/polygon-purgatory/vect"
	"golang.org/x/exp/slices"
)

//a point on a body's boundary polygon.
type Vertex struct {
	vect.Vect
	//position of the vertex inside its polygon.
	Index int
	//id of the body (or compound part) the polygon belongs to.
	BodyID int
	//set on edges shared by two parts of a compound body, these never produce contacts.
	IsInternal bool
}

// Wrapper around []Vertex.
type Vertices []Vertex

//creates a vertex loop owned by bodyID from points.
func NewVertices(points []vect.Vect, bodyID int) Vertices {
	verts := make(Vertices, len(points))
	for i, p := range points {
		verts[i] = Vertex{Vect: p, Index: i, BodyID: bodyID}
	}
	return verts
}

//plain copy of the vertex positions.
func (verts Vertices) Points() []vect.Vect {
	points := make([]vect.Vect, len(verts))
	for i := range verts {
		points[i] = verts[i].Vect
	}
	return points
}

func (verts Vertices) Clone() Vertices {
	return append(Vertices(nil), verts...)
}

// Checks if points can form a body polygon.
func ValidatePolygon(points []vect.Vect) error {
	if len(points) < 3 {
		return errors.Wrapf(ErrTooFewVertices, "got %d", len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return errors.Wrapf(ErrNonFinite, "vertex %d is %v", i, p)
		}
	}
	if area := NewVertices(points, 0).Area(false); area < minArea {
		return errors.Wrapf(ErrZeroArea, "area %v", area)
	}
	return nil
}

//signed (or absolute) polygon area.
func (verts Vertices) Area(signed bool) vect.Float {
	area := vect.Float(0)
	j := len(verts) - 1

	for i := range verts {
		area += (verts[j].X - verts[i].X) * (verts[j].Y + verts[i].Y)
		j = i
	}

	if signed {
		return area / 2
	}
	return vect.FAbs(area) / 2
}

//area weighted centroid, falls back to the mean for degenerate loops.
func (verts Vertices) Centre() vect.Vect {
	area := verts.Area(true)
	if vect.FAbs(area) < minArea {
		return verts.Mean()
	}

	centre := vect.Vect{}
	for i := range verts {
		j := (i + 1) % len(verts)
		cross := vect.Cross(verts[i].Vect, verts[j].Vect)
		temp := vect.Mult(vect.Add(verts[i].Vect, verts[j].Vect), cross)
		centre.Add(temp)
	}

	return vect.Div(centre, 6*area)
}

func (verts Vertices) Mean() vect.Vect {
	average := vect.Vect{}
	if len(verts) == 0 {
		return average
	}
	for i := range verts {
		average.Add(verts[i].Vect)
	}
	return vect.Div(average, vect.Float(len(verts)))
}

//moment of inertia about the origin, verts must be centred on the origin.
func (verts Vertices) Inertia(mass vect.Float) vect.Float {
	numerator, denominator := vect.Float(0), vect.Float(0)

	for n := range verts {
		j := (n + 1) % len(verts)
		vj, vn := verts[j].Vect, verts[n].Vect
		cross := vect.FAbs(vect.Cross(vj, vn))
		numerator += cross * (vect.Dot(vj, vj) + vect.Dot(vj, vn) + vect.Dot(vn, vn))
		denominator += cross
	}

	if denominator < minArea {
		return minArea
	}
	return (mass / 6) * (numerator / denominator)
}

func (verts Vertices) Translate(v vect.Vect, scalar vect.Float) {
	offset := vect.Mult(v, scalar)
	for i := range verts {
		verts[i].Add(offset)
	}
}

func (verts Vertices) Rotate(angle vect.Float, point vect.Vect) {
	if angle == 0 {
		return
	}
	rot := transform.NewRotation(angle)
	for i := range verts {
		verts[i].Vect = rot.RotateAbout(verts[i].Vect, point)
	}
}

//scales verts relative to point.
func (verts Vertices) Scale(scaleX, scaleY vect.Float, point vect.Vect) {
	if scaleX == 1 && scaleY == 1 {
		return
	}
	for i := range verts {
		delta := vect.Sub(verts[i].Vect, point)
		verts[i].X = point.X + delta.X*scaleX
		verts[i].Y = point.Y + delta.Y*scaleY
	}
}

//returns true if point lies inside the convex loop.
func (verts Vertices) Contains(point vect.Vect) bool {
	for i := range verts {
		v := verts[i]
		next := verts[(i+1)%len(verts)]
		if (point.X-v.X)*(next.Y-v.Y)+(point.Y-v.Y)*(v.X-next.X) > 0 {
			return false
		}
	}
	return true
}

//sorts verts by angle around their centre.
func (verts Vertices) ClockwiseSort() {
	centre := verts.Mean()
	slices.SortStableFunc(verts, func(a, b Vertex) int {
		da, db := vect.Angle(centre, a.Vect), vect.Angle(centre, b.Vect)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
}

//ok is false when the loop is degenerate (fewer than 3 points or collinear).
func (verts Vertices) IsConvex() (convex bool, ok bool) {
	n := len(verts)
	if n < 3 {
		return false, false
	}

	flag := 0
	for i := 0; i < n; i++ {
		a, b, c := verts[i], verts[(i+1)%n], verts[(i+2)%n]
		z := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if z < 0 {
			flag |= 1
		} else if z > 0 {
			flag |= 2
		}
		if flag == 3 {
			return false, true
		}
	}

	return flag != 0, flag != 0
}

//convex hull of points (monotone chain).
func Hull(points []vect.Vect) []vect.Vect {
	sorted := append([]vect.Vect(nil), points...)
	slices.SortFunc(sorted, func(a, b vect.Vect) int {
		dx := a.X - b.X
		if dx == 0 {
			dx = a.Y - b.Y
		}
		switch {
		case dx < 0:
			return -1
		case dx > 0:
			return 1
		}
		return 0
	})

	lower := make([]vect.Vect, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && vect.Cross3(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]vect.Vect, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && vect.Cross3(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	if len(upper) > 0 {
		upper = upper[:len(upper)-1]
	}
	if len(lower) > 0 {
		lower = lower[:len(lower)-1]
	}

	return append(upper, lower...)
}

//rounds off the corners of a polygon. radius holds one value per corner, the last
//value repeats for the remaining corners. quality < 0 picks a segment count from the radius.
func Chamfer(points []vect.Vect, radius []vect.Float, quality, qualityMin, qualityMax vect.Float) []vect.Vect {
	if len(radius) == 0 {
		radius = []vect.Float{8}
	}
	out := make([]vect.Vect, 0, len(points)*4)

	for i, vertex := range points {
		prev := points[(i+len(points)-1)%len(points)]
		next := points[(i+1)%len(points)]
		r := radius[vect.FMin(i, len(radius)-1)]

		if r == 0 {
			out = append(out, vertex)
			continue
		}

		prevNormal := vect.Normalize(vect.Vect{X: vertex.Y - prev.Y, Y: prev.X - vertex.X})
		nextNormal := vect.Normalize(vect.Vect{X: next.Y - vertex.Y, Y: vertex.X - next.X})

		diagonalRadius := vect.FSqrt(2 * r * r)
		radiusVector := vect.Mult(prevNormal, r)
		midNormal := vect.Normalize(vect.Mult(vect.Add(prevNormal, nextNormal), 0.5))
		scaledVertex := vect.Sub(vertex, vect.Mult(midNormal, diagonalRadius))

		precision := quality
		if quality < 0 {
			precision = vect.Float(math.Pow(float64(r), 0.32)) * 1.75
		}
		precision = vect.FClamp(precision, qualityMin, qualityMax)
		if math.Mod(float64(precision), 2) == 1 {
			precision++
		}

		alpha := vect.Float(math.Acos(float64(vect.FClamp(vect.Dot(prevNormal, nextNormal), -1, 1))))
		theta := alpha / precision

		for j := vect.Float(0); j < precision; j++ {
			out = append(out, vect.Add(vect.Rotate(radiusVector, theta*j), scaledVertex))
		}
	}

	return out
}
