package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//pointer driven constraint that picks up the body under the pointer and
//pulls it along while the pointer is held. Pointer input comes from the
//host through Press, Move and Release.
type Drag struct {
	Constraint *Constraint
	//only bodies this filter can collide with are picked.
	Filter CollisionFilter

	body    *Body
	pointer vect.Vect
	pressed bool
	//grab point in the body's local frame.
	local vect.Vect

	engine *Engine
	sub    Subscription
}

//creates a drag constraint in the engine's world. The constraint starts
//without bodies and follows the pointer on every step.
func (engine *Engine) NewDrag(opts ...ConstraintOption) *Drag {
	o := ConstraintOptions{
		Label:            "Drag Constraint",
		Length:           0.01,
		HasLength:        true,
		Stiffness:        0.2,
		AngularStiffness: 0.4,
	}
	for _, opt := range opts {
		opt(&o)
	}

	drag := &Drag{
		Constraint: &Constraint{
			id:               engine.factory.ids.NextID(),
			Label:            o.Label,
			Length:           o.Length,
			Stiffness:        o.Stiffness,
			Damping:          o.Damping,
			AngularStiffness: o.AngularStiffness,
		},
		Filter: DefaultFilter(),
		engine: engine,
	}

	drag.sub = engine.Events.On(EventBeforeUpdate, func(Event) { drag.update() })
	engine.AddConstraint(drag.Constraint)

	return drag
}

func (drag *Drag) Press(point vect.Vect) {
	drag.pointer = point
	drag.pressed = true
}

func (drag *Drag) Move(point vect.Vect) {
	drag.pointer = point
}

func (drag *Drag) Release() {
	drag.pressed = false
}

//the body being dragged, nil when idle.
func (drag *Drag) Body() *Body {
	return drag.body
}

//detaches the drag from the engine.
func (drag *Drag) Close() {
	drag.engine.Events.Off(drag.sub)
	drag.engine.RemoveConstraint(drag.Constraint)
}

func (drag *Drag) update() {
	c := drag.Constraint
	events := drag.engine.Events

	if !drag.pressed {
		if drag.body != nil {
			body := drag.body
			drag.body = nil
			c.BodyB = nil
			c.PointB = vect.Vect{}
			events.emit(Event{Kind: EventDragEnd, Body: body})
		}
		return
	}

	if drag.body != nil {
		setSleeping(drag.body, false, events)
		c.PointA = drag.pointer
		c.PointB = drag.body.Transform().RotateVect(drag.local)
		c.angleB = drag.body.angle
		return
	}

	for _, body := range drag.engine.World.AllBodies() {
		if !body.bounds.ContainsVect(drag.pointer) || !CanCollide(body.Filter, drag.Filter) {
			continue
		}
		for _, part := range body.Parts() {
			if !part.vertices.Contains(drag.pointer) {
				continue
			}
			c.PointA = drag.pointer
			c.BodyB = body
			c.PointB = vect.Sub(drag.pointer, body.position)
			c.angleB = body.angle
			drag.local = body.Transform().TransformVectInv(drag.pointer)
			drag.body = body

			setSleeping(body, false, events)
			events.emit(Event{Kind: EventDragStart, Body: body})
			return
		}
	}
}
