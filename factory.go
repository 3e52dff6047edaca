package purgatory

import (
	"log"
	"math"

	"github.com/pkg/errors"
	"github.com/sgentle/polygon-purgatory/vect"
)

const (
	//default circle resolution cap.
	circleMaxSides = 25
	//vertices of neighbouring parts closer than this (squared) are on a shared edge.
	coincidentMaxDistSqr = 5 * 5
)

//builds bodies, composites and constraints with ids from one allocator.
type Factory struct {
	ids *IDAllocator

	//splits concave vertex sets into convex pieces. When nil, concave
	//input is replaced by its convex hull.
	Decomposer Decomposer

	Logger *log.Logger
}

func NewFactory(ids *IDAllocator, logger *log.Logger) *Factory {
	if ids == nil {
		ids = NewIDAllocator()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{
		ids:        ids,
		Decomposer: EarClipDecomposer{},
		Logger:     logger,
	}
}

func (f *Factory) IDs() *IDAllocator {
	return f.ids
}

//builds a leaf body centred on position from a polygon. Only the shape of points matters,
//the polygon is recentred on its centroid.
func (f *Factory) newBody(kind ShapeKind, position vect.Vect, points []vect.Vect, o BodyOptions) (*Body, error) {
	if len(o.Chamfer) > 0 {
		points = Chamfer(points, o.Chamfer, -1, 2, 14)
	}
	if err := ValidatePolygon(points); err != nil {
		return nil, errors.Wrapf(err, "%s body %q", kind, o.Label)
	}
	if !position.IsFinite() {
		return nil, errors.Wrapf(ErrNonFinite, "%s body %q position %v", kind, o.Label, position)
	}

	body := &Body{
		id:             f.ids.NextID(),
		kind:           kind,
		Label:          o.Label,
		position:       position,
		positionPrev:   position,
		density:        o.Density,
		Restitution:    o.Restitution,
		Friction:       o.Friction,
		FrictionStatic: o.FrictionStatic,
		FrictionAir:    o.FrictionAir,
		Slop:           o.Slop,
		TimeScale:      o.TimeScale,
		IsSensor:       o.IsSensor,
		SleepThreshold: o.SleepThreshold,
		Filter:         o.Filter,
		UserData:       o.UserData,
	}
	body.self = []*Body{body}
	body.setVertices(points)
	f.finish(body, o)

	return body, nil
}

//applies the options that depend on finished geometry.
func (f *Factory) finish(body *Body, o BodyOptions) {
	if o.Angle != 0 {
		body.SetAngle(o.Angle)
		body.anglePrev = body.angle
	}

	if !o.IsStatic {
		if o.Mass > 0 {
			body.SetMass(o.Mass)
		}
		if o.Inertia > 0 {
			body.SetInertia(o.Inertia)
		}
	} else {
		body.SetStatic(true)
	}

	if !o.IsStatic && (o.Velocity.X != 0 || o.Velocity.Y != 0) {
		body.SetVelocity(o.Velocity)
	}

	if o.IsSleeping && !o.IsStatic {
		setSleeping(body, true, nil)
	}
}

func (f *Factory) Rectangle(x, y, width, height vect.Float, opts ...BodyOption) (*Body, error) {
	if !(width > 0 && height > 0) {
		return nil, errors.Wrapf(ErrInvalidSize, "rectangle %vx%v", width, height)
	}
	points := []vect.Vect{{X: 0, Y: 0}, {X: width, Y: 0}, {X: width, Y: height}, {X: 0, Y: height}}
	return f.newBody(ShapeRectangle, vect.Vect{X: x, Y: y}, points, newBodyOptions(opts))
}

//a trapezoid with the given base width. slope is the fraction of the width
//the two sloped sides take up together, slopes >= 1 give a triangle.
func (f *Factory) Trapezoid(x, y, width, height, slope vect.Float, opts ...BodyOption) (*Body, error) {
	if !(width > 0 && height > 0) {
		return nil, errors.Wrapf(ErrInvalidSize, "trapezoid %vx%v", width, height)
	}

	slope *= 0.5
	roof := (1 - slope*2) * width
	x1 := width * slope
	x2 := x1 + roof
	x3 := x2 + x1

	var points []vect.Vect
	if slope < 0.5 {
		points = []vect.Vect{{X: 0, Y: 0}, {X: x1, Y: -height}, {X: x2, Y: -height}, {X: x3, Y: 0}}
	} else {
		points = []vect.Vect{{X: 0, Y: 0}, {X: x2, Y: -height}, {X: x3, Y: 0}}
	}
	return f.newBody(ShapeTrapezoid, vect.Vect{X: x, Y: y}, points, newBodyOptions(opts))
}

//a regular polygon approximating a circle. The side count grows with the
//radius between 10 and maxSides (25 when maxSides <= 0) and is always even.
func (f *Factory) Circle(x, y, radius vect.Float, maxSides int, opts ...BodyOption) (*Body, error) {
	if !(radius > 0) {
		return nil, errors.Wrapf(ErrInvalidSize, "circle radius %v", radius)
	}
	if maxSides <= 0 {
		maxSides = circleMaxSides
	}

	sides := int(math.Ceil(float64(vect.FMax(10, vect.FMin(vect.Float(maxSides), radius)))))
	if sides%2 == 1 {
		sides++
	}

	body, err := f.newBody(ShapeCircle, vect.Vect{X: x, Y: y}, regularPolygon(sides, radius), newBodyOptions(opts))
	if err != nil {
		return nil, err
	}
	body.circleRadius = radius
	return body, nil
}

//a regular polygon. Fewer than 3 sides gives a circle.
func (f *Factory) Polygon(x, y vect.Float, sides int, radius vect.Float, opts ...BodyOption) (*Body, error) {
	if sides < 3 {
		return f.Circle(x, y, radius, 0, opts...)
	}
	if !(radius > 0) {
		return nil, errors.Wrapf(ErrInvalidSize, "polygon radius %v", radius)
	}
	return f.newBody(ShapePolygon, vect.Vect{X: x, Y: y}, regularPolygon(sides, radius), newBodyOptions(opts))
}

func regularPolygon(sides int, radius vect.Float) []vect.Vect {
	theta := 2 * math.Pi / float64(sides)
	offset := theta * 0.5
	points := make([]vect.Vect, sides)
	for i := range points {
		angle := vect.Float(offset + float64(i)*theta)
		points[i] = vect.Mult(vect.FromAngle(angle), radius)
	}
	return points
}

//settings for FromVertices.
type VertexSetOptions struct {
	//mark edges shared by neighbouring parts as internal.
	FlagInternal bool
	//angle below which a corner counts as collinear and is dropped before decomposing, 0 keeps all.
	RemoveCollinear vect.Float
	//decomposed pieces with less area are dropped.
	MinimumArea vect.Float
}

func DefaultVertexSetOptions() VertexSetOptions {
	return VertexSetOptions{RemoveCollinear: 0.01, MinimumArea: 10}
}

//builds a body from one or more vertex sets. Convex sets become parts as
//they are, concave sets are split by the Decomposer (or replaced by their
//hull). A single resulting part is returned as a leaf body, more are
//joined into a compound centred on (x, y).
func (f *Factory) FromVertices(x, y vect.Float, vertexSets [][]vect.Vect, vo VertexSetOptions, opts ...BodyOption) (*Body, error) {
	o := newBodyOptions(opts)
	var pieces [][]vect.Vect

	for i, set := range vertexSets {
		if err := ValidatePolygon(set); err != nil {
			return nil, errors.Wrapf(err, "vertex set %d", i)
		}

		verts := NewVertices(set, 0)
		if convex, _ := verts.IsConvex(); convex {
			verts.ClockwiseSort()
			pieces = append(pieces, verts.Points())
			continue
		}

		chunks, err := f.decompose(set, vo)
		if err != nil {
			f.Logger.Printf("Warning: could not decompose vertex set %d, using its convex hull: %v", i, err)
			pieces = append(pieces, Hull(set))
			continue
		}
		pieces = append(pieces, chunks...)
	}

	if len(pieces) == 0 {
		return nil, errors.Wrap(ErrNoParts, "no usable vertex sets")
	}

	partOpts := o
	partOpts.Angle = 0
	partOpts.IsStatic = false
	partOpts.IsSleeping = false
	partOpts.Velocity = vect.Vect{}
	partOpts.Chamfer = nil
	partOpts.Mass, partOpts.Inertia = 0, 0

	parts := make([]*Body, 0, len(pieces))
	for _, piece := range pieces {
		centre := NewVertices(piece, 0).Centre()
		part, err := f.newBody(ShapeVertices, centre, piece, partOpts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if vo.FlagInternal {
		flagInternal(parts)
	}

	if len(parts) == 1 {
		body := parts[0]
		body.SetPosition(vect.Vect{X: x, Y: y})
		body.positionPrev = body.position
		f.finish(body, o)
		return body, nil
	}

	body, err := f.compound(parts, o)
	if err != nil {
		return nil, err
	}
	body.SetPosition(vect.Vect{X: x, Y: y})
	body.positionPrev = body.position
	finishCompound(body, o)
	return body, nil
}

func (f *Factory) decompose(set []vect.Vect, vo VertexSetOptions) ([][]vect.Vect, error) {
	if f.Decomposer == nil {
		return nil, errors.New("no decomposer configured")
	}

	polygon := makeCCW(set)
	if vo.RemoveCollinear > 0 {
		polygon = removeCollinear(polygon, vo.RemoveCollinear)
	}

	chunks, err := f.Decomposer.Decompose(polygon)
	if err != nil {
		return nil, err
	}

	kept := chunks[:0]
	for _, chunk := range chunks {
		if len(chunk) < 3 {
			continue
		}
		if vo.MinimumArea > 0 && NewVertices(chunk, 0).Area(false) < vo.MinimumArea {
			continue
		}
		kept = append(kept, chunk)
	}
	if len(kept) == 0 {
		return nil, errors.New("decomposition produced no usable pieces")
	}
	return kept, nil
}

//marks vertices on edges that neighbouring parts share.
func flagInternal(parts []*Body) {
	for i := range parts {
		for j := i + 1; j < len(parts); j++ {
			a, b := parts[i], parts[j]
			if !TestOverlap(a.bounds, b.bounds) {
				continue
			}

			av, bv := a.vertices, b.vertices
			for k := range av {
				for l := range bv {
					da := vect.DistSqr(av[(k+1)%len(av)].Vect, bv[l].Vect)
					db := vect.DistSqr(av[k].Vect, bv[(l+1)%len(bv)].Vect)
					if da < coincidentMaxDistSqr && db < coincidentMaxDistSqr {
						av[k].IsInternal = true
						bv[l].IsInternal = true
					}
				}
			}
		}
	}
}

//joins leaf bodies into one compound body. Mass, area and inertia are the
//sums over the parts (static parts count as unit mass for the centre), the
//compound's own polygon is the hull of all parts.
func (f *Factory) Compound(parts []*Body, opts ...BodyOption) (*Body, error) {
	o := newBodyOptions(opts)
	body, err := f.compound(parts, o)
	if err != nil {
		return nil, err
	}
	finishCompound(body, o)
	return body, nil
}

func finishCompound(body *Body, o BodyOptions) {
	if o.Angle != 0 {
		body.SetAngle(body.angle + o.Angle)
		body.anglePrev = body.angle
	}
	if o.IsStatic {
		body.SetStatic(true)
		return
	}
	if o.Mass > 0 {
		body.SetMass(o.Mass)
	}
	if o.Inertia > 0 {
		body.SetInertia(o.Inertia)
	}
	if o.Velocity.X != 0 || o.Velocity.Y != 0 {
		body.SetVelocity(o.Velocity)
	}
	if o.IsSleeping {
		setSleeping(body, true, nil)
	}
}

func (f *Factory) compound(parts []*Body, o BodyOptions) (*Body, error) {
	body := &Body{
		id:             f.ids.NextID(),
		kind:           ShapeCompound,
		Label:          o.Label,
		Restitution:    o.Restitution,
		Friction:       o.Friction,
		FrictionStatic: o.FrictionStatic,
		FrictionAir:    o.FrictionAir,
		Slop:           o.Slop,
		TimeScale:      o.TimeScale,
		IsSensor:       o.IsSensor,
		SleepThreshold: o.SleepThreshold,
		Filter:         o.Filter,
		UserData:       o.UserData,
	}
	body.self = []*Body{body}

	if err := body.SetParts(parts); err != nil {
		return nil, errors.Wrapf(err, "compound %q", o.Label)
	}
	return body, nil
}

//turns the body into a compound of parts. Mass, area and inertia become
//sums over the parts (static parts count as unit mass for the centre) and
//the body's own polygon becomes the hull of all parts. Previous parts are released.
func (body *Body) SetParts(parts []*Body) error {
	if len(parts) == 0 {
		return ErrNoParts
	}
	if body.parent != nil {
		return ErrCompoundPart
	}
	for _, part := range parts {
		if part == nil || part == body || part.IsCompound() || (part.parent != nil && part.parent != body) {
			return ErrNotLeaf
		}
	}

	for _, old := range body.parts {
		old.parent = nil
	}

	body.kind = ShapeCompound
	body.parts = append([]*Body(nil), parts...)

	var all []vect.Vect
	for _, part := range parts {
		part.parent = body
		all = append(all, part.vertices.Points()...)
	}
	body.vertices = NewVertices(Hull(all), body.id)
	body.axes = AxesFromVertices(body.vertices)

	mass, area, inertia := vect.Float(0), vect.Float(0), vect.Float(0)
	centre := vect.Vect{}
	for _, part := range parts {
		m := part.mass
		if math.IsInf(float64(m), 0) {
			m = 1
		}
		mass += m
		area += part.area
		inertia += part.inertia
		centre.Add(vect.Mult(part.position, m))
	}

	body.area = area
	body.position = vect.Div(centre, mass)
	body.positionPrev = body.position
	body.angle, body.anglePrev = 0, 0
	body.mass, body.inertia = 0, 0
	body.SetMass(mass)
	body.SetInertia(inertia)
	body.bounds.Update(body.vertices, body.velocity)

	return nil
}
