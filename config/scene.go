package config

import (
	"github.com/pkg/errors"

	purgatory "github.com/sgentle/polygon-purgatory"
	"github.com/sgentle/polygon-purgatory/vect"
)

//a scene file: engine settings, bodies and the constraints between them.
type Scene struct {
	Engine      Engine       `yaml:"engine"`
	Bodies      []Body       `yaml:"bodies"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
}

//Material overrides. Unset fields keep the body defaults.
type Material struct {
	Density        *vect.Float `yaml:"density,omitempty"`
	Mass           *vect.Float `yaml:"mass,omitempty"`
	Restitution    *vect.Float `yaml:"restitution,omitempty"`
	Friction       *vect.Float `yaml:"friction,omitempty"`
	FrictionStatic *vect.Float `yaml:"frictionStatic,omitempty"`
	FrictionAir    *vect.Float `yaml:"frictionAir,omitempty"`
	Slop           *vect.Float `yaml:"slop,omitempty"`
}

type Filter struct {
	Category uint32 `yaml:"category,omitempty"`
	Mask     uint32 `yaml:"mask,omitempty"`
	Group    int    `yaml:"group,omitempty"`
}

//a body creation request.
type Body struct {
	Label string `yaml:"label,omitempty"`
	//rectangle, trapezoid, circle, polygon or vertices.
	Shape    string     `yaml:"shape"`
	Position vect.Vect  `yaml:"position"`
	Angle    vect.Float `yaml:"angle,omitempty"`

	Width  vect.Float `yaml:"width,omitempty"`
	Height vect.Float `yaml:"height,omitempty"`
	Slope  vect.Float `yaml:"slope,omitempty"`
	Radius vect.Float `yaml:"radius,omitempty"`
	Sides  int        `yaml:"sides,omitempty"`
	//one or more polygons for the vertices shape.
	Vertices [][]vect.Vect `yaml:"vertices,omitempty"`
	Chamfer  []vect.Float  `yaml:"chamfer,omitempty"`

	Static         bool      `yaml:"static,omitempty"`
	Sensor         bool      `yaml:"sensor,omitempty"`
	Sleeping       bool      `yaml:"sleeping,omitempty"`
	SleepThreshold int       `yaml:"sleepThreshold,omitempty"`
	Velocity       vect.Vect `yaml:"velocity,omitempty"`

	Material `yaml:",inline"`
	Filter   *Filter `yaml:"filter,omitempty"`
}

//a constraint between two bodies named by label. An empty label anchors
//that end in world space.
type Constraint struct {
	Label            string      `yaml:"label,omitempty"`
	BodyA            string      `yaml:"bodyA,omitempty"`
	BodyB            string      `yaml:"bodyB,omitempty"`
	PointA           vect.Vect   `yaml:"pointA,omitempty"`
	PointB           vect.Vect   `yaml:"pointB,omitempty"`
	Length           *vect.Float `yaml:"length,omitempty"`
	Stiffness        vect.Float  `yaml:"stiffness,omitempty"`
	Damping          vect.Float  `yaml:"damping,omitempty"`
	AngularStiffness vect.Float  `yaml:"angularStiffness,omitempty"`
}

func (s *Scene) Validate() error {
	if err := s.Engine.Validate(); err != nil {
		return errors.Wrap(err, "engine")
	}

	labels := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if err := b.Validate(); err != nil {
			return errors.Wrapf(err, "body %d", i)
		}
		if b.Label != "" {
			if labels[b.Label] {
				return errors.Errorf("body %d: duplicate label %q", i, b.Label)
			}
			labels[b.Label] = true
		}
	}

	for i, c := range s.Constraints {
		if c.BodyA == "" && c.BodyB == "" {
			return errors.Errorf("constraint %d: needs at least one body", i)
		}
		for _, label := range []string{c.BodyA, c.BodyB} {
			if label != "" && !labels[label] {
				return errors.Errorf("constraint %d: unknown body %q", i, label)
			}
		}
		if c.Stiffness < 0 || c.Stiffness > 1 || c.AngularStiffness < 0 || c.AngularStiffness > 1 {
			return errors.Errorf("constraint %d: stiffness must be within [0, 1]", i)
		}
	}
	return nil
}

func (b Body) Validate() error {
	switch b.Shape {
	case "rectangle", "trapezoid":
		if !(b.Width > 0 && b.Height > 0) {
			return errors.Errorf("%s needs a positive width and height", b.Shape)
		}
	case "circle":
		if !(b.Radius > 0) {
			return errors.New("circle needs a positive radius")
		}
	case "polygon":
		if !(b.Radius > 0) {
			return errors.New("polygon needs a positive radius")
		}
	case "vertices":
		if len(b.Vertices) == 0 {
			return errors.New("vertices shape needs at least one polygon")
		}
	default:
		return errors.Errorf("unknown shape %q", b.Shape)
	}
	if r := b.Restitution; r != nil && (*r < 0 || *r > 1) {
		return errors.Errorf("restitution %v outside [0, 1]", *r)
	}
	return nil
}

//converts the request to body options.
func (b Body) Options() []purgatory.BodyOption {
	opts := []purgatory.BodyOption{purgatory.WithLabel(b.Label)}
	if b.Angle != 0 {
		opts = append(opts, purgatory.WithAngle(b.Angle))
	}
	if b.Static {
		opts = append(opts, purgatory.WithStatic())
	}
	if b.Sensor {
		opts = append(opts, purgatory.WithSensor())
	}
	if b.Sleeping {
		opts = append(opts, purgatory.WithSleeping())
	}
	if b.SleepThreshold > 0 {
		opts = append(opts, purgatory.WithSleepThreshold(b.SleepThreshold))
	}
	if b.Velocity.X != 0 || b.Velocity.Y != 0 {
		opts = append(opts, purgatory.WithVelocity(b.Velocity))
	}
	if len(b.Chamfer) > 0 {
		opts = append(opts, purgatory.WithChamfer(b.Chamfer...))
	}

	m := b.Material
	if m.Density != nil {
		opts = append(opts, purgatory.WithDensity(*m.Density))
	}
	if m.Mass != nil {
		opts = append(opts, purgatory.WithMass(*m.Mass))
	}
	if m.Restitution != nil {
		opts = append(opts, purgatory.WithRestitution(*m.Restitution))
	}
	if m.Friction != nil {
		opts = append(opts, purgatory.WithFriction(*m.Friction))
	}
	if m.FrictionStatic != nil {
		opts = append(opts, purgatory.WithFrictionStatic(*m.FrictionStatic))
	}
	if m.FrictionAir != nil {
		opts = append(opts, purgatory.WithFrictionAir(*m.FrictionAir))
	}
	if m.Slop != nil {
		opts = append(opts, purgatory.WithSlop(*m.Slop))
	}

	if b.Filter != nil {
		filter := purgatory.DefaultFilter()
		if b.Filter.Category != 0 {
			filter.Category = b.Filter.Category
		}
		if b.Filter.Mask != 0 {
			filter.Mask = b.Filter.Mask
		}
		filter.Group = b.Filter.Group
		opts = append(opts, purgatory.WithFilter(filter))
	}
	return opts
}

//Build creates the body with f.
func (b Body) Build(f *purgatory.Factory) (*purgatory.Body, error) {
	x, y := b.Position.X, b.Position.Y
	opts := b.Options()

	switch b.Shape {
	case "rectangle":
		return f.Rectangle(x, y, b.Width, b.Height, opts...)
	case "trapezoid":
		return f.Trapezoid(x, y, b.Width, b.Height, b.Slope, opts...)
	case "circle":
		return f.Circle(x, y, b.Radius, b.Sides, opts...)
	case "polygon":
		return f.Polygon(x, y, b.Sides, b.Radius, opts...)
	case "vertices":
		return f.FromVertices(x, y, b.Vertices, purgatory.DefaultVertexSetOptions(), opts...)
	}
	return nil, errors.Errorf("unknown shape %q", b.Shape)
}

//NewEngine creates an engine with the scene's settings and adds its bodies and constraints.
func (s *Scene) NewEngine() (*purgatory.Engine, error) {
	engine := purgatory.NewEngine(s.Engine.Options())
	if b := s.Engine.Bounds; len(b) == 4 {
		engine.World.ClipBounds = purgatory.NewAABB(b[0], b[1], b[2], b[3])
	}
	if _, err := s.Build(engine); err != nil {
		return nil, err
	}
	return engine, nil
}

//Build adds the scene's bodies and constraints to engine and returns the
//bodies in file order.
func (s *Scene) Build(engine *purgatory.Engine) ([]*purgatory.Body, error) {
	f := engine.Factory()
	bodies := make([]*purgatory.Body, 0, len(s.Bodies))
	byLabel := make(map[string]*purgatory.Body, len(s.Bodies))

	for i, b := range s.Bodies {
		body, err := b.Build(f)
		if err != nil {
			return nil, errors.Wrapf(err, "body %d", i)
		}
		bodies = append(bodies, body)
		if b.Label != "" {
			byLabel[b.Label] = body
		}
	}
	if err := engine.AddBody(bodies...); err != nil {
		return nil, err
	}

	for i, c := range s.Constraints {
		opts := []purgatory.ConstraintOption{
			purgatory.WithConstraintLabel(c.Label),
			purgatory.WithPointA(c.PointA),
			purgatory.WithPointB(c.PointB),
			purgatory.WithStiffness(c.Stiffness),
			purgatory.WithDamping(c.Damping),
			purgatory.WithAngularStiffness(c.AngularStiffness),
		}
		if c.Length != nil {
			opts = append(opts, purgatory.WithLength(*c.Length))
		}

		constraint, err := f.Constraint(byLabel[c.BodyA], byLabel[c.BodyB], opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i)
		}
		engine.AddConstraint(constraint)
	}

	return bodies, nil
}
