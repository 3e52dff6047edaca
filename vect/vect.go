package vect

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Float float64

var (
	Vector_Zero = Vect{0, 0}
	Vector_Inf  = Vect{Float(math.Inf(1)), Float(math.Inf(1))}
)

func FMin[T constraints.Float | constraints.Integer](a, b T) T {
	if a > b {
		return b
	}
	return a
}

func FAbs[T constraints.Float | constraints.Signed](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func FMax[T constraints.Float | constraints.Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func FClamp[T constraints.Float | constraints.Integer](val, min, max T) T {
	if val < min {
		return min
	} else if val > max {
		return max
	}
	return val
}

//returns -1 for negative values and 1 otherwise.
func Sign[T constraints.Float | constraints.Signed](val T) T {
	if val < 0 {
		return -1
	}
	return 1
}

func FSqrt(a Float) Float {
	return Float(math.Sqrt(float64(a)))
}

func IsFinite(a Float) bool {
	return !math.IsNaN(float64(a)) && !math.IsInf(float64(a), 0)
}

//basic 2d vector.
type Vect struct {
	X, Y Float
}

//adds v2 to the given vector.
func (v1 *Vect) Add(v2 Vect) {
	v1.X += v2.X
	v1.Y += v2.Y
}

//subtracts v2 from the given vector.
func (v1 *Vect) Sub(v2 Vect) {
	v1.X -= v2.X
	v1.Y -= v2.Y
}

//returns the squared length of the vector.
func (v Vect) LengthSqr() Float {
	return v.X*v.X + v.Y*v.Y
}

//returns the length of the vector.
func (v Vect) Length() Float {
	return FSqrt(v.LengthSqr())
}

//multiplies the vector by the scalar.
func (v *Vect) Mult(s Float) {
	v.X *= s
	v.Y *= s
}

//normalizes the vector to a length of 1, zero vectors stay zero.
func (v *Vect) Normalize() {
	*v = Normalize(*v)
}

func (v Vect) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

//compare two vectors by value.
func Equals(v1, v2 Vect) bool {
	return v1.X == v2.X && v1.Y == v2.Y
}

//adds the input vectors and returns the result.
func Add(v1, v2 Vect) Vect {
	return Vect{v1.X + v2.X, v1.Y + v2.Y}
}

//subtracts the input vectors and returns the result.
func Sub(v1, v2 Vect) Vect {
	return Vect{v1.X - v2.X, v1.Y - v2.Y}
}

//multiplies a vector by a scalar and returns the result.
func Mult(v1 Vect, s Float) Vect {
	return Vect{v1.X * s, v1.Y * s}
}

//divides a vector by a scalar and returns the result.
func Div(v1 Vect, s Float) Vect {
	return Vect{v1.X / s, v1.Y / s}
}

func Neg(v Vect) Vect {
	return Vect{-v.X, -v.Y}
}

//returns the square distance between two vectors.
func DistSqr(v1, v2 Vect) Float {
	return (v1.X-v2.X)*(v1.X-v2.X) + (v1.Y-v2.Y)*(v1.Y-v2.Y)
}

//returns the distance between two vectors.
func Dist(v1, v2 Vect) Float {
	return FSqrt(DistSqr(v1, v2))
}

//returns the squared length of the vector.
func LengthSqr(v Vect) Float {
	return v.LengthSqr()
}

//returns the length of the vector.
func Length(v Vect) Float {
	return v.Length()
}

//returns a new vector with its x/y values set to the smaller one from the two input values.
//e.g. Min({2, 10}, {8, 3}) would return {2, 3}
func Min(v1, v2 Vect) Vect {
	return Vect{FMin(v1.X, v2.X), FMin(v1.Y, v2.Y)}
}

//returns a new vector with its x/y values set to the bigger one from the two input values.
func Max(v1, v2 Vect) Vect {
	return Vect{FMax(v1.X, v2.X), FMax(v1.Y, v2.Y)}
}

//returns the normalized input vector. The zero vector is returned unchanged.
func Normalize(v Vect) Vect {
	l := v.Length()
	if l == 0 {
		return Vect{}
	}
	return Vect{v.X / l, v.Y / l}
}

//dot product between two vectors.
func Dot(v1, v2 Vect) Float {
	return (v1.X * v2.X) + (v1.Y * v2.Y)
}

//2d cross product, the z component of the 3d cross product.
func Cross(a, b Vect) Float {
	return (a.X * b.Y) - (a.Y * b.X)
}

//cross product of (b - a) and (c - a).
func Cross3(a, b, c Vect) Float {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

//cross product between a scalar and a vector.
//result = {-s * a.Y, s * a.X}
func CrossFV(s Float, a Vect) Vect {
	return Vect{-s * a.Y, s * a.X}
}

//linear interpolation between two vectors by the given scalar
func Lerp(v1, v2 Vect, s Float) Vect {
	return Vect{
		v1.X + (v2.X-v1.X)*s,
		v1.Y + (v2.Y-v1.Y)*s,
	}
}

//Returns v rotated by 90 degrees
func Perp(v Vect) Vect {
	return Vect{-v.Y, v.X}
}

//rotates v about the origin.
func Rotate(v Vect, angle Float) Vect {
	sin, cos := math.Sincos(float64(angle))
	c, s := Float(cos), Float(sin)
	return Vect{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

//rotates v about point.
func RotateAbout(v Vect, angle Float, point Vect) Vect {
	return Add(point, Rotate(Sub(v, point), angle))
}

//angle of the vector pointing from v1 to v2.
func Angle(v1, v2 Vect) Float {
	return Float(math.Atan2(float64(v2.Y-v1.Y), float64(v2.X-v1.X)))
}

func FromAngle(angle Float) Vect {
	return Vect{Float(math.Cos(float64(angle))), Float(math.Sin(float64(angle)))}
}
