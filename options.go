package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//creation parameters shared by all body factories.
type BodyOptions struct {
	Label          string
	Angle          vect.Float
	IsStatic       bool
	IsSensor       bool
	IsSleeping     bool
	Density        vect.Float
	Mass           vect.Float
	Inertia        vect.Float
	Restitution    vect.Float
	Friction       vect.Float
	FrictionStatic vect.Float
	FrictionAir    vect.Float
	Slop           vect.Float
	TimeScale      vect.Float
	SleepThreshold int
	Filter         CollisionFilter
	Velocity       vect.Vect
	//corner radii applied to polygon shapes before the body is built.
	Chamfer  []vect.Float
	UserData interface{}
}

type BodyOption func(*BodyOptions)

func DefaultBodyOptions() BodyOptions {
	return BodyOptions{
		Density:        0.001,
		Restitution:    0,
		Friction:       0.1,
		FrictionStatic: 0.5,
		FrictionAir:    0.01,
		Slop:           0.05,
		TimeScale:      1,
		SleepThreshold: 60,
		Filter:         DefaultFilter(),
	}
}

func newBodyOptions(opts []BodyOption) BodyOptions {
	o := DefaultBodyOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLabel(label string) BodyOption {
	return func(o *BodyOptions) { o.Label = label }
}

func WithAngle(angle vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Angle = angle }
}

func WithStatic() BodyOption {
	return func(o *BodyOptions) { o.IsStatic = true }
}

func WithSensor() BodyOption {
	return func(o *BodyOptions) { o.IsSensor = true }
}

func WithSleeping() BodyOption {
	return func(o *BodyOptions) { o.IsSleeping = true }
}

func WithDensity(density vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Density = density }
}

//overrides the mass derived from density and area.
func WithMass(mass vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Mass = mass }
}

//overrides the derived moment of inertia. Inf gives a body that never rotates.
func WithInertia(inertia vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Inertia = inertia }
}

func WithRestitution(restitution vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Restitution = restitution }
}

func WithFriction(friction vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Friction = friction }
}

func WithFrictionStatic(friction vect.Float) BodyOption {
	return func(o *BodyOptions) { o.FrictionStatic = friction }
}

func WithFrictionAir(friction vect.Float) BodyOption {
	return func(o *BodyOptions) { o.FrictionAir = friction }
}

func WithSlop(slop vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Slop = slop }
}

func WithTimeScale(timeScale vect.Float) BodyOption {
	return func(o *BodyOptions) { o.TimeScale = timeScale }
}

func WithSleepThreshold(ticks int) BodyOption {
	return func(o *BodyOptions) { o.SleepThreshold = ticks }
}

func WithFilter(filter CollisionFilter) BodyOption {
	return func(o *BodyOptions) { o.Filter = filter }
}

func WithVelocity(velocity vect.Vect) BodyOption {
	return func(o *BodyOptions) { o.Velocity = velocity }
}

func WithChamfer(radius ...vect.Float) BodyOption {
	return func(o *BodyOptions) { o.Chamfer = radius }
}

func WithUserData(data interface{}) BodyOption {
	return func(o *BodyOptions) { o.UserData = data }
}

//applies the options of a body template to another option set.
func WithOptions(src BodyOptions) BodyOption {
	return func(o *BodyOptions) { *o = src }
}
