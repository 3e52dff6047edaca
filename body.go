package purgatory

import (
	"math"

	"github.com/sgentle/polygon-purgatory/transform"
	. "github.com/sgentle/polygon-purgatory/vect"
)

var Inf = Float(math.Inf(1))

const (
	//inertia is scaled by this factor so bodies are less eager to spin.
	inertiaScale = 4
	minArea      = 1e-9
	minMass      = 1e-9
)

type ShapeKind uint8

const (
	ShapeRectangle ShapeKind = iota
	ShapeTrapezoid
	ShapeCircle
	ShapePolygon
	ShapeVertices
	ShapeCompound
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "rectangle"
	case ShapeTrapezoid:
		return "trapezoid"
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	case ShapeVertices:
		return "vertices"
	case ShapeCompound:
		return "compound"
	}
	return "unknown"
}

//bodies sharing a nonzero group always collide (group > 0) or never
//collide (group < 0), otherwise category and mask decide.
type CollisionFilter struct {
	Category uint32
	Mask     uint32
	Group    int
}

func DefaultFilter() CollisionFilter {
	return CollisionFilter{Category: 1, Mask: 0xFFFFFFFF}
}

//material and mass values saved by SetStatic(true).
type staticBackup struct {
	restitution, friction  Float
	mass, inertia, density Float
	invMass, invInertia    Float
}

type Body struct {
	id   int
	kind ShapeKind

	Label string

	/// Radius of the circle this polygon approximates, 0 for other shapes.
	circleRadius Float

	/// World space boundary polygon.
	vertices Vertices
	/// Unique edge normals of the polygon.
	axes Axes
	/// Bounds of the polygon, extended by the current velocity.
	bounds AABB
	area   Float

	position     Vect
	positionPrev Vect
	angle        Float
	anglePrev    Float

	/// Velocity and angular velocity per step, derived from the position history.
	velocity        Vect
	angularVelocity Float
	speed           Float
	angularSpeed    Float

	density    Float
	mass       Float
	invMass    Float
	inertia    Float
	invInertia Float

	force  Vect
	torque Float

	/// Accumulated by the position resolver and warmed across steps.
	positionImpulse Vect
	/// Accumulated by the constraint solver.
	constraintImpulse      Vect
	constraintImpulseAngle Float
	totalContacts          int

	Restitution    Float
	Friction       Float
	FrictionStatic Float
	FrictionAir    Float
	Slop           Float
	TimeScale      Float

	isStatic   bool
	IsSensor   bool
	isSleeping bool

	sleepCounter   int
	SleepThreshold int
	motion         Float

	Filter CollisionFilter

	/// Owning compound, nil for top level bodies.
	parent *Body
	/// Leaf parts of a compound body, empty for leaves.
	parts []*Body
	/// Single element view used by Parts for leaves.
	self []*Body

	original *staticBackup

	/// User definable data pointer.
	UserData interface{}
}

func (body *Body) ID() int {
	return body.id
}

func (body *Body) Kind() ShapeKind {
	return body.kind
}

func (body *Body) IsCompound() bool {
	return len(body.parts) > 0
}

//the leaf bodies that carry collision geometry: the parts of a compound, or the body itself.
func (body *Body) Parts() []*Body {
	if len(body.parts) > 0 {
		return body.parts
	}
	return body.self
}

//the compound that owns this part, or the body itself.
func (body *Body) Parent() *Body {
	if body.parent == nil {
		return body
	}
	return body.parent
}

func (body *Body) Vertices() Vertices {
	return body.vertices
}

func (body *Body) Axes() Axes {
	return body.axes
}

func (body *Body) Bounds() AABB {
	return body.bounds
}

func (body *Body) Area() Float {
	return body.area
}

func (body *Body) CircleRadius() Float {
	return body.circleRadius
}

func (body *Body) Position() Vect {
	return body.position
}

//maps between the body's local frame and world space.
func (body *Body) Transform() transform.Transform {
	return transform.NewTransform(body.position, body.angle)
}

func (body *Body) PositionPrev() Vect {
	return body.positionPrev
}

func (body *Body) Angle() Float {
	return body.angle
}

func (body *Body) Velocity() Vect {
	return body.velocity
}

func (body *Body) AngularVelocity() Float {
	return body.angularVelocity
}

func (body *Body) Speed() Float {
	return body.speed
}

func (body *Body) AngularSpeed() Float {
	return body.angularSpeed
}

func (body *Body) Mass() Float {
	return body.mass
}

func (body *Body) InverseMass() Float {
	return body.invMass
}

func (body *Body) Inertia() Float {
	return body.inertia
}

func (body *Body) InverseInertia() Float {
	return body.invInertia
}

func (body *Body) Density() Float {
	return body.density
}

func (body *Body) Force() Vect {
	return body.force
}

func (body *Body) Torque() Float {
	return body.torque
}

func (body *Body) Motion() Float {
	return body.motion
}

func (body *Body) IsStatic() bool {
	return body.isStatic
}

func (body *Body) IsSleeping() bool {
	return body.isSleeping
}

func (body *Body) KineticEnergy() Float {
	if body.isStatic {
		return 0
	}
	return 0.5 * (body.mass*body.velocity.LengthSqr() + body.inertia*body.angularVelocity*body.angularVelocity)
}

//replaces the geometry of a leaf body. points are given in world space
//and get recentred on the body's position.
func (body *Body) setVertices(points []Vect) {
	body.vertices = NewVertices(points, body.id)
	body.axes = AxesFromVertices(body.vertices)
	body.area = FMax(body.vertices.Area(false), minArea)
	body.SetMass(body.density * body.area)

	centre := body.vertices.Centre()
	body.vertices.Translate(centre, -1)
	body.SetInertia(inertiaScale * body.vertices.Inertia(body.mass))
	body.vertices.Translate(body.position, 1)

	body.bounds.Update(body.vertices, body.velocity)
}

//replaces the geometry of a leaf body, points are in the body's local frame.
func (body *Body) SetVertices(points []Vect) error {
	if err := ValidatePolygon(points); err != nil {
		return err
	}
	angle := body.angle
	body.setVertices(points)
	body.vertices.Rotate(angle, body.position)
	body.axes.Rotate(angle)
	body.bounds.Update(body.vertices, body.velocity)
	return nil
}

//sets the mass and scales the inertia to match, keeping density consistent.
//Non-positive masses are replaced by a tiny positive one.
func (body *Body) SetMass(mass Float) {
	if !(mass > 0) {
		mass = minMass
	}
	if body.mass > 0 && !math.IsInf(float64(body.mass), 0) && body.inertia > 0 {
		moment := body.inertia / (body.mass / 6)
		body.inertia = moment * (mass / 6)
		body.invInertia = 1 / body.inertia
	}
	body.mass = mass
	body.invMass = 1 / mass
	if body.area > 0 {
		body.density = mass / body.area
	}
}

func (body *Body) SetDensity(density Float) {
	body.SetMass(density * body.area)
	body.density = density
}

//sets the moment of inertia. Infinite inertia stops the body from rotating.
func (body *Body) SetInertia(inertia Float) {
	if !(inertia > 0) {
		inertia = minArea
	}
	body.inertia = inertia
	body.invInertia = 1 / inertia
}

//makes the body (and all its parts) immovable, or restores the values it had before.
func (body *Body) SetStatic(isStatic bool) {
	body.setStatic(isStatic)
	for _, part := range body.parts {
		part.setStatic(isStatic)
	}
}

func (body *Body) setStatic(isStatic bool) {
	body.isStatic = isStatic

	if isStatic {
		if body.original == nil {
			body.original = &staticBackup{
				restitution: body.Restitution,
				friction:    body.Friction,
				mass:        body.mass,
				inertia:     body.inertia,
				density:     body.density,
				invMass:     body.invMass,
				invInertia:  body.invInertia,
			}
		}

		body.Restitution = 0
		body.Friction = 1
		body.mass, body.inertia, body.density = Inf, Inf, Inf
		body.invMass, body.invInertia = 0, 0

		body.positionPrev = body.position
		body.anglePrev = body.angle
		body.velocity = Vect{}
		body.angularVelocity = 0
		body.speed = 0
		body.angularSpeed = 0
		body.motion = 0
	} else if body.original != nil {
		o := body.original
		body.Restitution = o.restitution
		body.Friction = o.friction
		body.mass, body.inertia, body.density = o.mass, o.inertia, o.density
		body.invMass, body.invInertia = o.invMass, o.invInertia
		body.original = nil
	}
}

//moves the body (and its parts) to position without changing its velocity.
func (body *Body) SetPosition(position Vect) {
	delta := Sub(position, body.position)
	body.positionPrev.Add(delta)

	body.position = position
	body.vertices.Translate(delta, 1)
	body.bounds.Update(body.vertices, body.velocity)

	for _, part := range body.parts {
		part.position.Add(delta)
		part.positionPrev = part.position
		part.vertices.Translate(delta, 1)
		part.bounds.Update(part.vertices, body.velocity)
	}
}

//rotates the body (and its parts) about its position without changing its angular velocity.
func (body *Body) SetAngle(angle Float) {
	delta := angle - body.angle
	body.anglePrev += delta

	body.angle = angle
	body.vertices.Rotate(delta, body.position)
	body.axes.Rotate(delta)
	body.bounds.Update(body.vertices, body.velocity)

	for _, part := range body.parts {
		part.angle += delta
		part.anglePrev = part.angle
		part.vertices.Rotate(delta, body.position)
		part.axes.Rotate(delta)
		part.position = RotateAbout(part.position, delta, body.position)
		part.positionPrev = part.position
		part.bounds.Update(part.vertices, body.velocity)
	}
}

//sets the velocity by rewriting the previous position.
func (body *Body) SetVelocity(velocity Vect) {
	body.positionPrev = Sub(body.position, velocity)
	body.velocity = velocity
	body.speed = velocity.Length()
}

func (body *Body) SetAngularVelocity(velocity Float) {
	body.anglePrev = body.angle - velocity
	body.angularVelocity = velocity
	body.angularSpeed = FAbs(velocity)
}

func (body *Body) Translate(translation Vect) {
	body.SetPosition(Add(body.position, translation))
}

//rotates the body by rotation about its position.
func (body *Body) Rotate(rotation Float) {
	body.SetAngle(body.angle + rotation)
}

//rotates the body by rotation about point.
func (body *Body) RotateAbout(rotation Float, point Vect) {
	body.SetPosition(RotateAbout(body.position, rotation, point))
	body.SetAngle(body.angle + rotation)
}

//scales the body geometry about point, recomputing mass and inertia from the density.
func (body *Body) Scale(scaleX, scaleY Float, point Vect) {
	totalArea, totalInertia := Float(0), Float(0)

	scalePart := func(part *Body) {
		part.vertices.Scale(scaleX, scaleY, point)
		part.axes = AxesFromVertices(part.vertices)
		part.area = FMax(part.vertices.Area(false), minArea)
		part.position.X = point.X + (part.position.X-point.X)*scaleX
		part.position.Y = point.Y + (part.position.Y-point.Y)*scaleY
		part.positionPrev = Sub(part.position, body.velocity)

		if !part.isStatic {
			part.SetMass(body.density * part.area)
			part.vertices.Translate(part.position, -1)
			part.SetInertia(inertiaScale * part.vertices.Inertia(part.mass))
			part.vertices.Translate(part.position, 1)
		}
		part.bounds.Update(part.vertices, body.velocity)
	}

	density := body.density
	scalePart(body)

	for _, part := range body.parts {
		part.density = density
		scalePart(part)
		totalArea += part.area
		totalInertia += part.inertia
	}

	if len(body.parts) > 0 {
		body.area = totalArea
		if !body.isStatic {
			body.SetMass(density * totalArea)
			body.SetInertia(totalInertia)
		}
	}

	if body.circleRadius != 0 {
		if scaleX == scaleY {
			body.circleRadius *= scaleX
		} else {
			body.circleRadius = 0
		}
	}
}

//adds force at a world position, producing torque when off centre.
func (body *Body) ApplyForce(position, force Vect) {
	body.force.Add(force)
	offset := Sub(position, body.position)
	body.torque += offset.X*force.Y - offset.Y*force.X
}

func (body *Body) resetForces() {
	body.force = Vect{}
	body.torque = 0
}

//verlet integration of one step. deltaTime is in milliseconds, correction is
//the ratio of this step's delta to the previous one.
func (body *Body) update(deltaTime, timeScale, correction Float) {
	dt := deltaTime * timeScale * body.TimeScale
	deltaTimeSquared := dt * dt

	frictionAir := 1 - body.FrictionAir*timeScale*body.TimeScale
	velocityPrev := Sub(body.position, body.positionPrev)

	body.velocity = Add(
		Mult(velocityPrev, frictionAir*correction),
		Mult(body.force, deltaTimeSquared/body.mass),
	)
	body.positionPrev = body.position
	body.position.Add(body.velocity)

	body.angularVelocity = (body.angle-body.anglePrev)*frictionAir*correction + (body.torque/body.inertia)*deltaTimeSquared
	body.anglePrev = body.angle
	body.angle += body.angularVelocity

	body.speed = body.velocity.Length()
	body.angularSpeed = FAbs(body.angularVelocity)

	body.vertices.Translate(body.velocity, 1)
	if body.angularVelocity != 0 {
		body.vertices.Rotate(body.angularVelocity, body.position)
		body.axes.Rotate(body.angularVelocity)
	}
	body.bounds.Update(body.vertices, body.velocity)

	for _, part := range body.parts {
		part.vertices.Translate(body.velocity, 1)
		part.position.Add(body.velocity)
		if body.angularVelocity != 0 {
			part.vertices.Rotate(body.angularVelocity, body.position)
			part.axes.Rotate(body.angularVelocity)
			part.position = RotateAbout(part.position, body.angularVelocity, body.position)
		}
		part.bounds.Update(part.vertices, body.velocity)
	}
}
