package purgatory

import (
	"log"
	"math"

	"github.com/sgentle/polygon-purgatory/vect"
)

//iterative position and velocity correction over active pairs.
type Resolver struct {
	//closing speed² (scaled by time scale²) above which a contact bounces instead of resting.
	RestingThresh vect.Float
	//tangent speed² above which the accumulated friction impulse is dropped.
	RestingThreshTangent vect.Float
	PositionDampen       vect.Float
	//share of the position impulse carried into the next step.
	PositionWarming          vect.Float
	FrictionNormalMultiplier vect.Float

	Logger *log.Logger
}

func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		RestingThresh:            4,
		RestingThreshTangent:     6,
		PositionDampen:           0.9,
		PositionWarming:          0.8,
		FrictionNormalMultiplier: 5,
		Logger:                   logger,
	}
}

func solvable(pair *Pair) bool {
	return pair.isActive && !pair.IsSensor
}

//counts the contacts each parent body takes part in.
func (r *Resolver) PreSolvePosition(pairs []*Pair) {
	for _, pair := range pairs {
		if !pair.isActive {
			continue
		}
		count := len(pair.activeContacts)
		pair.Collision.ParentA.totalContacts += count
		pair.Collision.ParentB.totalContacts += count
	}
}

//one position iteration. Separations are refreshed for all pairs before any
//impulse of this iteration is applied.
func (r *Resolver) SolvePosition(pairs []*Pair, timeScale vect.Float) {
	for _, pair := range pairs {
		if !solvable(pair) {
			continue
		}
		c := pair.Collision
		bodyA, bodyB := c.ParentA, c.ParentB
		impulseDelta := vect.Sub(bodyB.positionImpulse, bodyA.positionImpulse)
		pair.Separation = vect.Dot(c.Normal, vect.Add(impulseDelta, c.Penetration))
	}

	for _, pair := range pairs {
		if !solvable(pair) {
			continue
		}
		c := pair.Collision
		bodyA, bodyB := c.ParentA, c.ParentB
		normal := c.Normal

		positionImpulse := (pair.Separation - pair.Slop) * timeScale
		if bodyA.isStatic || bodyB.isStatic {
			positionImpulse *= 2
		}

		if isDynamic(bodyA) && bodyA.totalContacts > 0 {
			contactShare := r.PositionDampen / vect.Float(bodyA.totalContacts)
			bodyA.positionImpulse.Add(vect.Mult(normal, positionImpulse*contactShare))
		}

		if isDynamic(bodyB) && bodyB.totalContacts > 0 {
			contactShare := r.PositionDampen / vect.Float(bodyB.totalContacts)
			bodyB.positionImpulse.Sub(vect.Mult(normal, positionImpulse*contactShare))
		}
	}
}

//moves bodies by their accumulated position impulse, then keeps part of the
//impulse for the next step unless it works against the body's velocity.
func (r *Resolver) PostSolvePosition(bodies []*Body) {
	for _, body := range bodies {
		body.totalContacts = 0

		impulse := body.positionImpulse
		if impulse.X == 0 && impulse.Y == 0 {
			continue
		}

		body.position.Add(impulse)
		body.vertices.Translate(impulse, 1)
		body.bounds.Update(body.vertices, body.velocity)
		for _, part := range body.parts {
			part.position.Add(impulse)
			part.vertices.Translate(impulse, 1)
			part.bounds.Update(part.vertices, body.velocity)
		}

		body.positionPrev.Add(impulse)

		if vect.Dot(impulse, body.velocity) < 0 {
			body.positionImpulse = vect.Vect{}
		} else {
			body.positionImpulse.Mult(r.PositionWarming)
		}
	}
}

//re-applies last step's contact impulses so the velocity solve starts warm.
func (r *Resolver) PreSolveVelocity(pairs []*Pair) {
	for _, pair := range pairs {
		if !solvable(pair) {
			continue
		}
		c := pair.Collision
		bodyA, bodyB := c.ParentA, c.ParentB

		for _, contact := range pair.activeContacts {
			if contact.NormalImpulse == 0 && contact.TangentImpulse == 0 {
				continue
			}

			impulse := vect.Add(vect.Mult(c.Normal, contact.NormalImpulse), vect.Mult(c.Tangent, contact.TangentImpulse))
			point := contact.Vertex.Vect
			applyImpulses(bodyA, bodyB, vect.Sub(point, bodyA.position), vect.Sub(point, bodyB.position), impulse)
		}
	}
}

//one velocity iteration of sequential impulses with restitution and Coulomb friction.
func (r *Resolver) SolveVelocity(pairs []*Pair, timeScale vect.Float) {
	timeScaleSquared := timeScale * timeScale

	for _, pair := range pairs {
		if !solvable(pair) || len(pair.activeContacts) == 0 {
			continue
		}
		c := pair.Collision
		bodyA, bodyB := c.ParentA, c.ParentB
		normal, tangent := c.Normal, c.Tangent
		contactShare := 1 / vect.Float(len(pair.activeContacts))

		bodyA.velocity = vect.Sub(bodyA.position, bodyA.positionPrev)
		bodyB.velocity = vect.Sub(bodyB.position, bodyB.positionPrev)
		bodyA.angularVelocity = bodyA.angle - bodyA.anglePrev
		bodyB.angularVelocity = bodyB.angle - bodyB.anglePrev

		for _, contact := range pair.activeContacts {
			point := contact.Vertex.Vect
			offsetA := vect.Sub(point, bodyA.position)
			offsetB := vect.Sub(point, bodyB.position)
			relVel := relativeVelocity(bodyA, bodyB, offsetA, offsetB)

			normalVelocity := vect.Dot(normal, relVel)
			tangentVelocity := vect.Dot(tangent, relVel)
			tangentSpeed := vect.FAbs(tangentVelocity)
			tangentDirection := vect.Sign(tangentVelocity)

			normalImpulse := (1 + pair.Restitution) * normalVelocity
			normalForce := vect.FClamp(pair.Separation+normalVelocity, 0, 1) * r.FrictionNormalMultiplier

			tangentImpulse := tangentVelocity
			maxFriction := vect.Float(math.Inf(1))

			if tangentSpeed > pair.Friction*pair.FrictionStatic*normalForce*timeScaleSquared {
				maxFriction = tangentSpeed
				tangentImpulse = vect.FClamp(pair.Friction*tangentDirection*timeScaleSquared, -maxFriction, maxFriction)
			}

			k := kScalar(bodyA, bodyB, offsetA, offsetB, normal)
			if k == 0 {
				r.Logger.Printf("Warning: Unsolvable collision or constraint.")
				continue
			}
			share := contactShare / k
			normalImpulse *= share
			tangentImpulse *= share

			if normalVelocity < 0 && normalVelocity*normalVelocity > r.RestingThresh*timeScaleSquared {
				contact.NormalImpulse = 0
			} else {
				prev := contact.NormalImpulse
				contact.NormalImpulse = vect.FMin(contact.NormalImpulse+normalImpulse, 0)
				normalImpulse = contact.NormalImpulse - prev
			}

			if tangentVelocity*tangentVelocity > r.RestingThreshTangent*timeScaleSquared {
				contact.TangentImpulse = 0
			} else {
				prev := contact.TangentImpulse
				contact.TangentImpulse = vect.FClamp(contact.TangentImpulse+tangentImpulse, -maxFriction, maxFriction)
				tangentImpulse = contact.TangentImpulse - prev
			}

			impulse := vect.Add(vect.Mult(normal, normalImpulse), vect.Mult(tangent, tangentImpulse))
			applyImpulses(bodyA, bodyB, offsetA, offsetB, impulse)
		}
	}
}
