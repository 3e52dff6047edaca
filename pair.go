package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//the persistent record of one colliding part pair.
type Pair struct {
	ID PairID
	//the colliding parts, BodyA has the lower id.
	BodyA, BodyB *Body
	//latest detection result.
	Collision *Collision

	contacts       map[ContactID]*Contact
	activeContacts []*Contact

	Separation vect.Float

	isActive        bool
	confirmedActive bool
	IsSensor        bool

	TimeCreated vect.Float
	TimeUpdated vect.Float

	//combined material of the two parents.
	InverseMass    vect.Float
	Friction       vect.Float
	FrictionStatic vect.Float
	Restitution    vect.Float
	Slop           vect.Float
}

func newPair(collision *Collision, timestamp vect.Float) *Pair {
	pair := &Pair{
		ID:              NewPairID(collision.BodyA.id, collision.BodyB.id),
		BodyA:           collision.BodyA,
		BodyB:           collision.BodyB,
		contacts:        make(map[ContactID]*Contact, 2),
		isActive:        true,
		confirmedActive: true,
		IsSensor:        collision.BodyA.IsSensor || collision.BodyB.IsSensor,
		TimeCreated:     timestamp,
		TimeUpdated:     timestamp,
	}
	pair.update(collision, timestamp)
	return pair
}

func (pair *Pair) IsActive() bool {
	return pair.isActive
}

//contacts touching in the latest step.
func (pair *Pair) Contacts() []*Contact {
	return pair.activeContacts
}

//the top level bodies of the pair.
func (pair *Pair) Parents() (*Body, *Body) {
	return pair.BodyA.Parent(), pair.BodyB.Parent()
}

func (pair *Pair) update(collision *Collision, timestamp vect.Float) {
	parentA, parentB := collision.ParentA, collision.ParentB
	if parentA == nil || parentB == nil {
		parentA, parentB = collision.BodyA.Parent(), collision.BodyB.Parent()
	}

	pair.Collision = collision
	pair.InverseMass = parentA.invMass + parentB.invMass
	pair.Friction = vect.FMin(parentA.Friction, parentB.Friction)
	pair.FrictionStatic = vect.FMax(parentA.FrictionStatic, parentB.FrictionStatic)
	pair.Restitution = vect.FMax(parentA.Restitution, parentB.Restitution)
	pair.Slop = vect.FMax(parentA.Slop, parentB.Slop)

	pair.activeContacts = pair.activeContacts[:0]

	if collision.Collided {
		for _, support := range collision.Supports {
			id := contactID(support)
			contact, ok := pair.contacts[id]
			if !ok {
				contact = newContact(support)
				pair.contacts[id] = contact
			}
			contact.Vertex = support
			pair.activeContacts = append(pair.activeContacts, contact)
		}

		pair.Separation = collision.Depth
		pair.setActive(true, timestamp)
	} else if pair.isActive {
		pair.setActive(false, timestamp)
	}
}

func (pair *Pair) setActive(isActive bool, timestamp vect.Float) {
	if isActive {
		pair.isActive = true
		pair.TimeUpdated = timestamp
	} else {
		pair.isActive = false
		pair.activeContacts = pair.activeContacts[:0]
	}
}
