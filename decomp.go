package purgatory

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sgentle/polygon-purgatory/vect"
)

//splits a simple counter clockwise polygon into convex pieces.
type Decomposer interface {
	Decompose(polygon []vect.Vect) ([][]vect.Vect, error)
}

//approximates any polygon by its convex hull.
type HullDecomposer struct{}

func (HullDecomposer) Decompose(polygon []vect.Vect) ([][]vect.Vect, error) {
	hull := Hull(polygon)
	if len(hull) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "hull of %d points", len(polygon))
	}
	return [][]vect.Vect{hull}, nil
}

//triangulates by ear clipping, then merges neighbouring triangles while
//the union stays convex (Hertel-Mehlhorn). The result has at most four
//times the minimum number of pieces.
type EarClipDecomposer struct{}

func (EarClipDecomposer) Decompose(polygon []vect.Vect) ([][]vect.Vect, error) {
	if len(polygon) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", len(polygon))
	}
	points := makeCCW(polygon)

	triangles, err := earClip(points)
	if err != nil {
		return nil, err
	}

	pieces := mergeConvex(points, triangles)

	out := make([][]vect.Vect, len(pieces))
	for i, piece := range pieces {
		out[i] = make([]vect.Vect, len(piece))
		for j, idx := range piece {
			out[i][j] = points[idx]
		}
	}
	return out, nil
}

func earClip(points []vect.Vect) ([][]int, error) {
	remaining := make([]int, len(points))
	for i := range remaining {
		remaining[i] = i
	}

	var triangles [][]int
	for len(remaining) > 3 {
		m := len(remaining)
		clipped := false

		for i := 0; i < m; i++ {
			a, b, c := remaining[(i+m-1)%m], remaining[i], remaining[(i+1)%m]
			if vect.Cross3(points[a], points[b], points[c]) <= 0 {
				continue
			}

			ear := true
			for _, other := range remaining {
				if other == a || other == b || other == c {
					continue
				}
				if inTriangle(points[other], points[a], points[b], points[c]) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			triangles = append(triangles, []int{a, b, c})
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}

		if !clipped {
			return nil, errors.New("polygon is not simple, no ear to clip")
		}
	}

	if vect.Cross3(points[remaining[0]], points[remaining[1]], points[remaining[2]]) > 0 {
		triangles = append(triangles, remaining)
	}
	return triangles, nil
}

func inTriangle(p, a, b, c vect.Vect) bool {
	if vect.Equals(p, a) || vect.Equals(p, b) || vect.Equals(p, c) {
		return false
	}
	return vect.Cross3(a, b, p) >= 0 && vect.Cross3(b, c, p) >= 0 && vect.Cross3(c, a, p) >= 0
}

//repeatedly joins two pieces over a shared diagonal when the result is convex.
func mergeConvex(points []vect.Vect, pieces [][]int) [][]int {
	for merged := true; merged; {
		merged = false
	search:
		for i := range pieces {
			for j := i + 1; j < len(pieces); j++ {
				joined, ok := joinPieces(pieces[i], pieces[j])
				if !ok || !convexLoop(points, joined) {
					continue
				}
				pieces[i] = joined
				pieces = append(pieces[:j], pieces[j+1:]...)
				merged = true
				break search
			}
		}
	}
	return pieces
}

//joins p and q if p has an edge u->v that q has as v->u.
func joinPieces(p, q []int) ([]int, bool) {
	for k := range p {
		u, v := p[k], p[(k+1)%len(p)]
		for m := range q {
			if q[m] != v || q[(m+1)%len(q)] != u {
				continue
			}

			joined := make([]int, 0, len(p)+len(q)-2)
			//p from v around to u
			for s := 1; s <= len(p); s++ {
				joined = append(joined, p[(k+s)%len(p)])
			}
			//q strictly between u and v
			for s := 2; s < len(q); s++ {
				joined = append(joined, q[(m+s)%len(q)])
			}
			return joined, true
		}
	}
	return nil, false
}

func convexLoop(points []vect.Vect, loop []int) bool {
	n := len(loop)
	for i := 0; i < n; i++ {
		if vect.Cross3(points[loop[i]], points[loop[(i+1)%n]], points[loop[(i+2)%n]]) < -1e-9 {
			return false
		}
	}
	return true
}

//returns a copy of polygon wound counter clockwise (positive signed area).
func makeCCW(polygon []vect.Vect) []vect.Vect {
	out := append([]vect.Vect(nil), polygon...)
	area := vect.Float(0)
	for i := range out {
		area += vect.Cross(out[i], out[(i+1)%len(out)])
	}
	if area < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

//drops corners whose edges turn by less than thresholdAngle radians.
func removeCollinear(polygon []vect.Vect, thresholdAngle vect.Float) []vect.Vect {
	out := append([]vect.Vect(nil), polygon...)
	for i := len(out) - 1; i >= 0 && len(out) > 3; i-- {
		n := len(out)
		a, b, c := out[(i+n-1)%n], out[i%n], out[(i+1)%n]
		if collinear(a, b, c, thresholdAngle) {
			out = append(out[:i%n], out[i%n+1:]...)
		}
	}
	return out
}

func collinear(a, b, c vect.Vect, thresholdAngle vect.Float) bool {
	ab, bc := vect.Sub(b, a), vect.Sub(c, b)
	magA, magB := ab.Length(), bc.Length()
	if magA == 0 || magB == 0 {
		return true
	}
	cos := vect.FClamp(vect.Dot(ab, bc)/(magA*magB), -1, 1)
	return vect.Float(math.Acos(float64(cos))) < thresholdAngle
}
