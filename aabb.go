package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//axis aligned bounding box.
type AABB struct {
	Lower, //min x, min y
	Upper vect.Vect //max x, max y
}

func (aabb *AABB) Valid() bool {
	return aabb.Lower.X <= aabb.Upper.X && aabb.Lower.Y <= aabb.Upper.Y
}

func NewAABB(l, b, r, t vect.Float) AABB {
	return AABB{vect.Vect{X: l, Y: b}, vect.Vect{X: r, Y: t}}
}

//tight box around verts.
func AABBFromVertices(verts Vertices) AABB {
	aabb := AABB{}
	aabb.Update(verts, vect.Vector_Zero)
	return aabb
}

//refits the box around verts and extends it in the direction of velocity
//so a moving body is still bucketed where it is about to be.
func (aabb *AABB) Update(verts Vertices, velocity vect.Vect) {
	aabb.Lower = vect.Vector_Inf
	aabb.Upper = vect.Neg(vect.Vector_Inf)

	for i := range verts {
		v := verts[i].Vect
		aabb.Lower = vect.Min(aabb.Lower, v)
		aabb.Upper = vect.Max(aabb.Upper, v)
	}

	if velocity.X > 0 {
		aabb.Upper.X += velocity.X
	} else {
		aabb.Lower.X += velocity.X
	}

	if velocity.Y > 0 {
		aabb.Upper.Y += velocity.Y
	} else {
		aabb.Lower.Y += velocity.Y
	}
}

//returns the center of the aabb
func (aabb *AABB) Center() vect.Vect {
	return vect.Mult(vect.Add(aabb.Lower, aabb.Upper), 0.5)
}

//returns if other is contained inside this aabb.
func (aabb *AABB) Contains(other AABB) bool {
	return aabb.Lower.X <= other.Lower.X &&
		aabb.Upper.X >= other.Upper.X &&
		aabb.Lower.Y <= other.Lower.Y &&
		aabb.Upper.Y >= other.Upper.Y
}

//returns if v is contained inside this aabb.
func (aabb *AABB) ContainsVect(v vect.Vect) bool {
	return aabb.Lower.X <= v.X &&
		aabb.Upper.X >= v.X &&
		aabb.Lower.Y <= v.Y &&
		aabb.Upper.Y >= v.Y
}

func (aabb *AABB) Extents() vect.Vect {
	return vect.Mult(vect.Sub(aabb.Upper, aabb.Lower), .5)
}

func (aabb *AABB) Translate(v vect.Vect) {
	aabb.Lower.Add(v)
	aabb.Upper.Add(v)
}

//moves the box so its lower corner sits at position.
func (aabb *AABB) ShiftTo(position vect.Vect) {
	size := vect.Sub(aabb.Upper, aabb.Lower)
	aabb.Lower = position
	aabb.Upper = vect.Add(position, size)
}

//returns an AABB that holds both a and b.
func Combine(a, b AABB) AABB {
	return AABB{
		vect.Min(a.Lower, b.Lower),
		vect.Max(a.Upper, b.Upper),
	}
}

//returns an AABB that holds both a and v.
func Expand(a AABB, v vect.Vect) AABB {
	return AABB{
		vect.Min(a.Lower, v),
		vect.Max(a.Upper, v),
	}
}

//returns the area of the bounding box.
func (aabb *AABB) Area() vect.Float {
	return (aabb.Upper.X - aabb.Lower.X) * (aabb.Upper.Y - aabb.Lower.Y)
}

func TestOverlap(a, b AABB) bool {
	return a.Lower.X <= b.Upper.X && b.Lower.X <= a.Upper.X && a.Lower.Y <= b.Upper.Y && b.Lower.Y <= a.Upper.Y
}
