package transform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sgentle/polygon-purgatory/vect"
)

//a 2x2 rotation matrix.
type Rotation struct {
	mgl64.Mat2
}

func NewRotation(angle vect.Float) Rotation {
	return Rotation{mgl64.Rotate2D(float64(angle))}
}

//rotates the input vector.
func (rot Rotation) RotateVect(v vect.Vect) vect.Vect {
	r := rot.Mul2x1(mgl64.Vec2{float64(v.X), float64(v.Y)})
	return vect.Vect{X: vect.Float(r[0]), Y: vect.Float(r[1])}
}

//rotates the input vector by the inverse rotation.
func (rot Rotation) RotateVectInv(v vect.Vect) vect.Vect {
	r := rot.Transpose().Mul2x1(mgl64.Vec2{float64(v.X), float64(v.Y)})
	return vect.Vect{X: vect.Float(r[0]), Y: vect.Float(r[1])}
}

//rotates v around point.
func (rot Rotation) RotateAbout(v, point vect.Vect) vect.Vect {
	return vect.Add(point, rot.RotateVect(vect.Sub(v, point)))
}

//a rigid placement: rotation about the origin, then translation by Position.
type Transform struct {
	Position vect.Vect
	Rotation
}

func NewTransform(pos vect.Vect, angle vect.Float) Transform {
	return Transform{
		Position: pos,
		Rotation: NewRotation(angle),
	}
}

//moves and rotates the input vector.
func (xf Transform) TransformVect(v vect.Vect) vect.Vect {
	return vect.Add(xf.Position, xf.RotateVect(v))
}

//maps a world point back into the local frame.
func (xf Transform) TransformVectInv(v vect.Vect) vect.Vect {
	return xf.RotateVectInv(vect.Sub(v, xf.Position))
}
