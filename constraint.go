package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

const (
	//share of the constraint impulse carried into the next step.
	constraintWarming = 0.4
	torqueDampen      = 1
	minLength         = 0.000001
)

type ConstraintKind uint8

const (
	//a rigid or near rigid link of fixed length.
	ConstraintRod ConstraintKind = iota
	//a zero length stiff link.
	ConstraintPin
	//a soft link.
	ConstraintSpring
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintPin:
		return "pin"
	case ConstraintSpring:
		return "spring"
	}
	return "rod"
}

type ConstraintCallback interface {
	ConstraintPreSolve(constraint *Constraint)
	ConstraintPostSolve(constraint *Constraint)
}

//links a point on BodyA to a point on BodyB. A nil body makes its point
//fixed in world space, otherwise the point is an offset from the body's
//position that turns with the body.
type Constraint struct {
	id    int
	Label string

	BodyA, BodyB   *Body
	PointA, PointB vect.Vect

	Length           vect.Float
	Stiffness        vect.Float
	Damping          vect.Float
	AngularStiffness vect.Float

	//body angles the points were last rotated to.
	angleA, angleB vect.Float

	CallbackHandler ConstraintCallback
	UserData        interface{}
}

type ConstraintOptions struct {
	Label            string
	PointA, PointB   vect.Vect
	Length           vect.Float
	HasLength        bool
	Stiffness        vect.Float
	Damping          vect.Float
	AngularStiffness vect.Float
}

type ConstraintOption func(*ConstraintOptions)

func WithConstraintLabel(label string) ConstraintOption {
	return func(o *ConstraintOptions) { o.Label = label }
}

func WithPointA(point vect.Vect) ConstraintOption {
	return func(o *ConstraintOptions) { o.PointA = point }
}

func WithPointB(point vect.Vect) ConstraintOption {
	return func(o *ConstraintOptions) { o.PointB = point }
}

//rest length, defaults to the distance between the points at creation.
func WithLength(length vect.Float) ConstraintOption {
	return func(o *ConstraintOptions) { o.Length, o.HasLength = length, true }
}

func WithStiffness(stiffness vect.Float) ConstraintOption {
	return func(o *ConstraintOptions) { o.Stiffness = stiffness }
}

func WithDamping(damping vect.Float) ConstraintOption {
	return func(o *ConstraintOptions) { o.Damping = damping }
}

func WithAngularStiffness(stiffness vect.Float) ConstraintOption {
	return func(o *ConstraintOptions) { o.AngularStiffness = stiffness }
}

//creates a constraint between bodyA and bodyB, either may be nil but not both.
func (f *Factory) Constraint(bodyA, bodyB *Body, opts ...ConstraintOption) (*Constraint, error) {
	if bodyA == nil && bodyB == nil {
		return nil, ErrNoBodies
	}

	o := ConstraintOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Constraint{
		id:               f.ids.NextID(),
		Label:            o.Label,
		BodyA:            bodyA,
		BodyB:            bodyB,
		PointA:           o.PointA,
		PointB:           o.PointB,
		Damping:          o.Damping,
		AngularStiffness: o.AngularStiffness,
	}

	if o.HasLength {
		c.Length = vect.FMax(o.Length, 0)
	} else {
		c.Length = vect.Dist(c.WorldPointA(), c.WorldPointB())
	}

	c.Stiffness = o.Stiffness
	if c.Stiffness <= 0 {
		if c.Length > 0 {
			c.Stiffness = 1
		} else {
			c.Stiffness = 0.7
		}
	}

	if bodyA != nil {
		c.angleA = bodyA.angle
	}
	if bodyB != nil {
		c.angleB = bodyB.angle
	}

	return c, nil
}

func (c *Constraint) ID() int {
	return c.id
}

func (c *Constraint) Kind() ConstraintKind {
	if c.Length == 0 && c.Stiffness > 0.1 {
		return ConstraintPin
	}
	if c.Stiffness < 0.9 {
		return ConstraintSpring
	}
	return ConstraintRod
}

func (c *Constraint) WorldPointA() vect.Vect {
	if c.BodyA != nil {
		return vect.Add(c.BodyA.position, c.PointA)
	}
	return c.PointA
}

func (c *Constraint) WorldPointB() vect.Vect {
	if c.BodyB != nil {
		return vect.Add(c.BodyB.position, c.PointB)
	}
	return c.PointB
}

func (c *Constraint) CurrentLength() vect.Float {
	return vect.Dist(c.WorldPointA(), c.WorldPointB())
}

func isFixed(body *Body) bool {
	return body == nil || body.isStatic
}

//re-applies the warmed constraint impulse of the last step.
func preSolveConstraints(bodies []*Body) {
	for _, body := range bodies {
		impulse := body.constraintImpulse
		if body.isStatic || (impulse.X == 0 && impulse.Y == 0 && body.constraintImpulseAngle == 0) {
			continue
		}
		body.position.Add(impulse)
		body.angle += body.constraintImpulseAngle
	}
}

//solves constraints with a fixed end first, then those between two free bodies.
func solveConstraints(constraints []*Constraint, timeScale vect.Float) {
	for _, c := range constraints {
		if isFixed(c.BodyA) || isFixed(c.BodyB) {
			c.solve(timeScale)
		}
	}

	for _, c := range constraints {
		if !isFixed(c.BodyA) && !isFixed(c.BodyB) {
			c.solve(timeScale)
		}
	}
}

func (c *Constraint) solve(timeScale vect.Float) {
	bodyA, bodyB := c.BodyA, c.BodyB
	if bodyA == nil && bodyB == nil {
		return
	}

	if bodyA != nil && !bodyA.isStatic {
		c.PointA = vect.Rotate(c.PointA, bodyA.angle-c.angleA)
		c.angleA = bodyA.angle
	}
	if bodyB != nil && !bodyB.isStatic {
		c.PointB = vect.Rotate(c.PointB, bodyB.angle-c.angleB)
		c.angleB = bodyB.angle
	}

	delta := vect.Sub(c.WorldPointA(), c.WorldPointB())
	currentLength := vect.FMax(delta.Length(), minLength)

	difference := (currentLength - c.Length) / currentLength
	stiffness := c.Stiffness
	if stiffness < 1 {
		stiffness *= timeScale
	}
	force := vect.Mult(delta, difference*stiffness)

	massTotal, inertiaTotal := vect.Float(0), vect.Float(0)
	if bodyA != nil {
		massTotal += bodyA.invMass
		inertiaTotal += bodyA.invInertia
	}
	if bodyB != nil {
		massTotal += bodyB.invMass
		inertiaTotal += bodyB.invInertia
	}
	resistanceTotal := massTotal + inertiaTotal
	if massTotal == 0 || resistanceTotal == 0 {
		return
	}

	var normal vect.Vect
	var normalVelocity vect.Float
	if c.Damping != 0 {
		normal = vect.Div(delta, currentLength)
		relativeVelocity := vect.Vect{}
		if bodyB != nil {
			relativeVelocity.Add(vect.Sub(bodyB.position, bodyB.positionPrev))
		}
		if bodyA != nil {
			relativeVelocity.Sub(vect.Sub(bodyA.position, bodyA.positionPrev))
		}
		normalVelocity = vect.Dot(normal, relativeVelocity)
	}

	if bodyA != nil && !bodyA.isStatic {
		share := bodyA.invMass / massTotal
		bodyA.constraintImpulse.Sub(vect.Mult(force, share))
		bodyA.position.Sub(vect.Mult(force, share))

		if c.Damping != 0 {
			bodyA.positionPrev.Sub(vect.Mult(normal, c.Damping*normalVelocity*share))
		}

		torque := (vect.Cross(c.PointA, force) / resistanceTotal) * torqueDampen * bodyA.invInertia * (1 - c.AngularStiffness)
		bodyA.constraintImpulseAngle -= torque
		bodyA.angle -= torque
	}

	if bodyB != nil && !bodyB.isStatic {
		share := bodyB.invMass / massTotal
		bodyB.constraintImpulse.Add(vect.Mult(force, share))
		bodyB.position.Add(vect.Mult(force, share))

		if c.Damping != 0 {
			bodyB.positionPrev.Add(vect.Mult(normal, c.Damping*normalVelocity*share))
		}

		torque := (vect.Cross(c.PointB, force) / resistanceTotal) * torqueDampen * bodyB.invInertia * (1 - c.AngularStiffness)
		bodyB.constraintImpulseAngle += torque
		bodyB.angle += torque
	}
}

//moves the geometry of constrained bodies to their solved positions, wakes
//them and warms their impulses for the next step.
func postSolveConstraints(bodies []*Body, events *Events) {
	for _, body := range bodies {
		impulse := body.constraintImpulse
		angle := body.constraintImpulseAngle
		if body.isStatic || (impulse.X == 0 && impulse.Y == 0 && angle == 0) {
			continue
		}

		setSleeping(body, false, events)

		for _, part := range body.Parts() {
			part.vertices.Translate(impulse, 1)
			if part != body {
				part.position.Add(impulse)
			}
			if angle != 0 {
				part.vertices.Rotate(angle, body.position)
				part.axes.Rotate(angle)
				if part != body {
					part.position = vect.RotateAbout(part.position, angle, body.position)
				}
			}
			part.bounds.Update(part.vertices, body.velocity)
		}
		if body.IsCompound() {
			body.vertices.Translate(impulse, 1)
			if angle != 0 {
				body.vertices.Rotate(angle, body.position)
				body.axes.Rotate(angle)
			}
			body.bounds.Update(body.vertices, body.velocity)
		}

		body.constraintImpulse.Mult(constraintWarming)
		body.constraintImpulseAngle *= constraintWarming
	}
}

func notifyConstraints(constraints []*Constraint, pre bool) {
	for _, c := range constraints {
		if c.CallbackHandler == nil {
			continue
		}
		if pre {
			c.CallbackHandler.ConstraintPreSolve(c)
		} else {
			c.CallbackHandler.ConstraintPostSolve(c)
		}
	}
}
