package purgatory

import (
	. "github.com/sgentle/polygon-purgatory/vect"
)

//identifies a contact by the vertex that produced it.
type ContactID struct {
	BodyID, Index int
}

func contactID(v *Vertex) ContactID {
	return ContactID{v.BodyID, v.Index}
}

//one contact point of a pair. The accumulated impulses survive across steps
//for as long as the same vertex keeps touching, and warm start the solver.
type Contact struct {
	ID     ContactID
	Vertex *Vertex

	NormalImpulse  Float
	TangentImpulse Float
}

func newContact(v *Vertex) *Contact {
	return &Contact{ID: contactID(v), Vertex: v}
}

func (con *Contact) Position() Vect {
	return con.Vertex.Vect
}
