package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//true for bodies the solvers may move.
func isDynamic(body *Body) bool {
	return !(body.isStatic || body.isSleeping)
}

//velocity of the point at offset from the body's position.
func velocityAtPoint(body *Body, offset vect.Vect) vect.Vect {
	return vect.Add(body.velocity, vect.CrossFV(body.angularVelocity, offset))
}

func relativeVelocity(a, b *Body, offsetA, offsetB vect.Vect) vect.Vect {
	return vect.Sub(velocityAtPoint(a, offsetA), velocityAtPoint(b, offsetB))
}

func kScalarBody(body *Body, offset, n vect.Vect) vect.Float {
	rcn := vect.Cross(offset, n)
	return body.invMass + body.invInertia*rcn*rcn
}

//effective inverse mass of the pair along n at the given offsets.
func kScalar(a, b *Body, offsetA, offsetB, n vect.Vect) vect.Float {
	return kScalarBody(a, offsetA, n) + kScalarBody(b, offsetB, n)
}

//applies impulse at offset by rewriting the position history, sign is +1 or -1.
func applyImpulse(body *Body, impulse, offset vect.Vect, sign vect.Float) {
	body.positionPrev.Add(vect.Mult(impulse, body.invMass*sign))
	body.anglePrev += vect.Cross(offset, impulse) * body.invInertia * sign
}

func applyImpulses(a, b *Body, offsetA, offsetB, impulse vect.Vect) {
	if isDynamic(a) {
		applyImpulse(a, impulse, offsetA, 1)
	}
	if isDynamic(b) {
		applyImpulse(b, impulse, offsetB, -1)
	}
}
