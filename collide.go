package purgatory

import (
	"math"

	"github.com/sgentle/polygon-purgatory/vect"
)

//default motion (speed² + angular speed² of both parents) below which
//the previous separating axis is tested alone.
const DefaultReuseMotion = 0.2

//result of a separating axis test between two convex leaf bodies.
type Collision struct {
	Collided bool
	//the tested parts, BodyA has the lower id.
	BodyA, BodyB *Body
	//top level bodies owning the parts.
	ParentA, ParentB *Body
	//body whose axis gave the minimum overlap, and the axis index.
	AxisBody   *Body
	AxisNumber int
	Depth      vect.Float
	//points from BodyB towards BodyA: moving BodyA along it separates the pair.
	Normal      vect.Vect
	Tangent     vect.Vect
	Penetration vect.Vect
	//one or two vertices used as contact points.
	Supports []*Vertex
	//set when only the previous axis was tested.
	Reused bool
}

type axisOverlap struct {
	overlap    vect.Float
	axis       vect.Vect
	axisNumber int
}

//tests two convex leaf bodies with the separating axis theorem. previous is
//the last collision of the same parts, it is updated in place when given.
//When both parents move less than reuseMotion only the previous minimum
//axis is tested, which can miss a new separating axis under fast rotation.
func collides(bodyA, bodyB *Body, previous *Collision, reuseMotion vect.Float) *Collision {
	var collision *Collision
	canReuse := false

	if previous != nil {
		parentA, parentB := bodyA.Parent(), bodyB.Parent()
		motion := parentA.speed*parentA.speed + parentA.angularSpeed*parentA.angularSpeed +
			parentB.speed*parentB.speed + parentB.angularSpeed*parentB.angularSpeed
		canReuse = previous.Collided && motion < reuseMotion && previous.AxisBody != nil
		collision = previous
	} else {
		collision = &Collision{BodyA: bodyA, BodyB: bodyB}
	}
	collision.Reused = false

	var minOverlap axisOverlap

	if canReuse {
		axisBodyA := collision.AxisBody
		axisBodyB := bodyA
		if axisBodyA == bodyA {
			axisBodyB = bodyB
		}
		if collision.AxisNumber >= len(axisBodyA.axes) {
			canReuse = false
		} else {
			axes := axisBodyA.axes[collision.AxisNumber : collision.AxisNumber+1]
			minOverlap = overlapAxes(axisBodyA.vertices, axisBodyB.vertices, axes)
			minOverlap.axisNumber = collision.AxisNumber
			collision.Reused = true

			if minOverlap.overlap <= 0 {
				collision.Collided = false
				return collision
			}
		}
	}

	if !canReuse {
		overlapAB := overlapAxes(bodyA.vertices, bodyB.vertices, bodyA.axes)
		if overlapAB.overlap <= 0 {
			collision.Collided = false
			return collision
		}

		overlapBA := overlapAxes(bodyB.vertices, bodyA.vertices, bodyB.axes)
		if overlapBA.overlap <= 0 {
			collision.Collided = false
			return collision
		}

		if overlapAB.overlap < overlapBA.overlap {
			minOverlap = overlapAB
			collision.AxisBody = bodyA
		} else {
			minOverlap = overlapBA
			collision.AxisBody = bodyB
		}
		collision.AxisNumber = minOverlap.axisNumber
	}

	if bodyB.id < bodyA.id {
		bodyA, bodyB = bodyB, bodyA
	}
	collision.BodyA, collision.BodyB = bodyA, bodyB
	collision.ParentA, collision.ParentB = bodyA.Parent(), bodyB.Parent()
	collision.Collided = true
	collision.Depth = minOverlap.overlap

	if vect.Dot(minOverlap.axis, vect.Sub(bodyB.position, bodyA.position)) < 0 {
		collision.Normal = minOverlap.axis
	} else {
		collision.Normal = vect.Neg(minOverlap.axis)
	}
	collision.Tangent = vect.Perp(collision.Normal)
	collision.Penetration = vect.Mult(collision.Normal, collision.Depth)

	supports := collision.Supports[:0]

	verticesB := findSupports(bodyA, bodyB, collision.Normal)
	if bodyA.vertices.Contains(verticesB[0].Vect) {
		supports = append(supports, verticesB[0])
	}
	if bodyA.vertices.Contains(verticesB[1].Vect) {
		supports = append(supports, verticesB[1])
	}

	if len(supports) < 2 {
		verticesA := findSupports(bodyB, bodyA, vect.Neg(collision.Normal))
		if bodyB.vertices.Contains(verticesA[0].Vect) {
			supports = append(supports, verticesA[0])
		}
		if len(supports) < 2 && bodyB.vertices.Contains(verticesA[1].Vect) {
			supports = append(supports, verticesA[1])
		}
	}

	if len(supports) < 1 {
		supports = append(supports, verticesB[0])
	}
	collision.Supports = supports

	return collision
}

//minimum overlap of the two loops over axes, stops at the first separating axis.
func overlapAxes(verticesA, verticesB Vertices, axes Axes) axisOverlap {
	result := axisOverlap{overlap: vect.Float(math.MaxFloat64)}

	for i, axis := range axes {
		minA, maxA := projectToAxis(verticesA, axis)
		minB, maxB := projectToAxis(verticesB, axis)
		overlap := vect.FMin(maxA-minB, maxB-minA)

		if overlap <= 0 {
			result.overlap = overlap
			return result
		}

		if overlap < result.overlap {
			result.overlap = overlap
			result.axis = axis
			result.axisNumber = i
		}
	}

	return result
}

func projectToAxis(verts Vertices, axis vect.Vect) (min, max vect.Float) {
	min = vect.Dot(verts[0].Vect, axis)
	max = min

	for i := 1; i < len(verts); i++ {
		dot := vect.Dot(verts[i].Vect, axis)
		if dot > max {
			max = dot
		} else if dot < min {
			min = dot
		}
	}
	return
}

//the vertex of bodyB deepest towards bodyA along normal, and the deeper of its two neighbours.
func findSupports(bodyA, bodyB *Body, normal vect.Vect) [2]*Vertex {
	vertices := bodyB.vertices
	nearestDistance := vect.Float(math.MaxFloat64)
	vertexA := &vertices[0]

	for j := range vertices {
		distance := -vect.Dot(normal, vect.Sub(vertices[j].Vect, bodyA.position))
		if distance < nearestDistance {
			nearestDistance = distance
			vertexA = &vertices[j]
		}
	}

	prev := &vertices[(vertexA.Index+len(vertices)-1)%len(vertices)]
	nearestDistance = -vect.Dot(normal, vect.Sub(prev.Vect, bodyA.position))
	vertexB := prev

	next := &vertices[(vertexA.Index+1)%len(vertices)]
	if -vect.Dot(normal, vect.Sub(next.Vect, bodyA.position)) < nearestDistance {
		vertexB = next
	}

	return [2]*Vertex{vertexA, vertexB}
}
