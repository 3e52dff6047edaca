package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//gravity direction and strength. The applied acceleration is (X, Y) * Scale.
type Gravity struct {
	X, Y  vect.Float
	Scale vect.Float
}

func DefaultGravity() Gravity {
	return Gravity{X: 0, Y: 1, Scale: 0.001}
}

//the root composite of a simulation.
type World struct {
	*Composite
	Gravity Gravity
	//bodies outside these bounds are left out of the broadphase.
	ClipBounds AABB
}

func newWorld(f *Factory) *World {
	return &World{
		Composite:  f.Composite("World"),
		Gravity:    DefaultGravity(),
		ClipBounds: AABB{Lower: vect.Neg(vect.Vector_Inf), Upper: vect.Vector_Inf},
	}
}
