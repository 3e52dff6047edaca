package purgatory

import (
	"github.com/sgentle/polygon-purgatory/transform"
	"github.com/sgentle/polygon-purgatory/vect"
)

//default ray thickness.
const rayWidth = 1e-6

//returns the collisions of body with bodies, at most one per body in bodies.
func QueryCollides(body *Body, bodies []*Body) []*Collision {
	var collisions []*Collision

	for _, other := range bodies {
		if other == body || !TestOverlap(other.bounds, body.bounds) {
			continue
		}
		for _, part := range other.Parts() {
			if !TestOverlap(part.bounds, body.bounds) {
				continue
			}
			collision := collides(part, body, nil, 0)
			if collision.Collided {
				collisions = append(collisions, collision)
				break
			}
		}
	}

	return collisions
}

//casts a ray of the given width (0 for a thin ray) from start to end.
//The ray itself has id 0 so it is always BodyA of the returned collisions.
func QueryRay(bodies []*Body, start, end vect.Vect, width vect.Float) []*Collision {
	if width <= 0 {
		width = rayWidth
	}

	delta := vect.Sub(end, start)
	length := delta.Length()
	if length == 0 {
		return nil
	}

	xf := transform.NewTransform(vect.Lerp(start, end, 0.5), vect.Angle(start, end))
	corners := []vect.Vect{
		{X: -length / 2, Y: -width / 2},
		{X: length / 2, Y: -width / 2},
		{X: length / 2, Y: width / 2},
		{X: -length / 2, Y: width / 2},
	}
	for i, corner := range corners {
		corners[i] = xf.TransformVect(corner)
	}
	ray := queryBody(xf.Position, corners)

	return QueryCollides(ray, bodies)
}

//returns the bodies whose bounds overlap bounds, or those that do not when outside is set.
func QueryRegion(bodies []*Body, bounds AABB, outside bool) []*Body {
	var result []*Body
	for _, body := range bodies {
		if TestOverlap(body.bounds, bounds) != outside {
			result = append(result, body)
		}
	}
	return result
}

//returns the bodies with a part containing point.
func QueryPoint(bodies []*Body, point vect.Vect) []*Body {
	var result []*Body

	for _, body := range bodies {
		if !body.bounds.ContainsVect(point) {
			continue
		}
		for _, part := range body.Parts() {
			if part.bounds.ContainsVect(point) && part.vertices.Contains(point) {
				result = append(result, body)
				break
			}
		}
	}

	return result
}

//a throwaway probe body with id 0, never added to a world.
func queryBody(position vect.Vect, points []vect.Vect) *Body {
	body := &Body{
		position:     position,
		positionPrev: position,
		density:      1,
		TimeScale:    1,
		Filter:       DefaultFilter(),
	}
	body.self = []*Body{body}
	body.setVertices(points)
	return body
}
