package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//reports whether two filters allow a collision. Bodies sharing a nonzero
//group collide when the group is positive and never when it is negative,
//otherwise each category has to be in the other's mask.
func CanCollide(filterA, filterB CollisionFilter) bool {
	if filterA.Group == filterB.Group && filterA.Group != 0 {
		return filterA.Group > 0
	}
	return filterA.Mask&filterB.Category != 0 && filterB.Mask&filterA.Category != 0
}

//narrow phase over broadphase candidates.
type Detector struct {
	//parents moving less than this reuse the previous separating axis.
	//Set to 0 to always run the full test.
	ReuseMotion vect.Float

	collisions []*Collision
}

func NewDetector() *Detector {
	return &Detector{ReuseMotion: DefaultReuseMotion}
}

//tests two convex leaf bodies. previous may be nil.
func (d *Detector) Collides(bodyA, bodyB *Body, previous *Collision) *Collision {
	return collides(bodyA, bodyB, previous, d.ReuseMotion)
}

//returns the collisions between the parts of all candidate pairs. The
//returned slice is reused by the next call.
func (d *Detector) Collisions(candidates []CandidatePair, pairs *Pairs) []*Collision {
	d.collisions = d.collisions[:0]

	for _, candidate := range candidates {
		bodyA, bodyB := candidate.BodyA, candidate.BodyB

		if (bodyA.isStatic || bodyA.isSleeping) && (bodyB.isStatic || bodyB.isSleeping) {
			continue
		}
		if !CanCollide(bodyA.Filter, bodyB.Filter) {
			continue
		}
		if !TestOverlap(bodyA.bounds, bodyB.bounds) {
			continue
		}

		for _, partA := range bodyA.Parts() {
			for _, partB := range bodyB.Parts() {
				if (partA == bodyA && partB == bodyB) || TestOverlap(partA.bounds, partB.bounds) {
					d.test(partA, partB, pairs)
				}
			}
		}
	}

	return d.collisions
}

func (d *Detector) test(partA, partB *Body, pairs *Pairs) {
	var previous *Collision
	if pairs != nil {
		if pair := pairs.Get(NewPairID(partA.id, partB.id)); pair != nil && pair.isActive {
			previous = pair.Collision
		}
	}

	collision := d.Collides(partA, partB, previous)
	if collision.Collided {
		d.collisions = append(d.collisions, collision)
	}
}
