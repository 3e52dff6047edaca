package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//read only copy of a body's state after a step.
type BodySnapshot struct {
	ID              int        `json:"id" yaml:"id"`
	Label           string     `json:"label,omitempty" yaml:"label,omitempty"`
	Position        vect.Vect  `json:"position" yaml:"position"`
	Angle           vect.Float `json:"angle" yaml:"angle"`
	Velocity        vect.Vect  `json:"velocity" yaml:"velocity"`
	AngularVelocity vect.Float `json:"angularVelocity" yaml:"angularVelocity"`
	Speed           vect.Float `json:"speed" yaml:"speed"`
	AngularSpeed    vect.Float `json:"angularSpeed" yaml:"angularSpeed"`
	Mass            vect.Float `json:"mass" yaml:"mass"`
	Bounds          AABB       `json:"bounds" yaml:"bounds"`
	IsStatic        bool       `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
	IsSleeping      bool       `json:"isSleeping,omitempty" yaml:"isSleeping,omitempty"`
}

//static bodies report a zero mass so snapshots stay JSON encodable.
func (body *Body) Snapshot() BodySnapshot {
	mass := body.mass
	if body.isStatic {
		mass = 0
	}
	return BodySnapshot{
		ID:              body.id,
		Label:           body.Label,
		Position:        body.position,
		Angle:           body.angle,
		Velocity:        body.velocity,
		AngularVelocity: body.angularVelocity,
		Speed:           body.speed,
		AngularSpeed:    body.angularSpeed,
		Mass:            mass,
		Bounds:          body.bounds,
		IsStatic:        body.isStatic,
		IsSleeping:      body.isSleeping,
	}
}
