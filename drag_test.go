package purgatory

import (
	"math"
	"testing"

	"github.com/sgentle/polygon-purgatory/vect"
)

func TestDrag(t *testing.T) {
	engine := testEngine(Gravity{})
	box, _ := engine.Factory().Rectangle(0, 0, 20, 20)
	mustAdd(t, engine, box)

	drag := engine.NewDrag()
	if engine.World.GetConstraint(drag.Constraint.ID()) != drag.Constraint {
		t.Fatalf("drag constraint was not added to the world")
	}

	var started, ended *Body
	engine.Events.On(EventDragStart, func(e Event) { started = e.Body })
	engine.Events.On(EventDragEnd, func(e Event) { ended = e.Body })

	//pressing on empty space picks nothing
	drag.Press(vect.Vect{X: 100, Y: 100})
	engine.Update(DefaultDelta, 1)
	if drag.Body() != nil || started != nil {
		t.Fatalf("drag picked a body from empty space")
	}
	drag.Release()

	drag.Press(vect.Vect{X: 2, Y: 2})
	engine.Update(DefaultDelta, 1)
	if drag.Body() != box || started != box {
		t.Fatalf("drag did not pick the box")
	}
	if drag.Constraint.Kind() != ConstraintSpring {
		t.Errorf("drag constraint is a %v", drag.Constraint.Kind())
	}

	drag.Move(vect.Vect{X: 100, Y: 2})
	for i := 0; i < 30; i++ {
		engine.Update(DefaultDelta, 1)
	}
	if !(box.Position().X > 20) {
		t.Errorf("dragged box only reached %v", box.Position())
	}

	drag.Release()
	engine.Update(DefaultDelta, 1)
	if drag.Body() != nil || ended != box || drag.Constraint.BodyB != nil {
		t.Errorf("release did not drop the box")
	}

	drag.Close()
	if engine.World.GetConstraint(drag.Constraint.ID()) != nil || engine.Events.Has(EventBeforeUpdate) {
		t.Errorf("Close left the drag attached")
	}
}

func TestDragFilter(t *testing.T) {
	engine := testEngine(Gravity{})
	filter := CollisionFilter{Category: 2, Mask: 0xFFFFFFFF}
	box, _ := engine.Factory().Rectangle(0, 0, 20, 20, WithFilter(filter))
	mustAdd(t, engine, box)

	drag := engine.NewDrag()
	drag.Filter = CollisionFilter{Category: 1, Mask: 1}
	drag.Press(vect.Vect{X: 0, Y: 0})
	engine.Update(DefaultDelta, 1)

	if drag.Body() != nil {
		t.Errorf("drag picked a filtered body")
	}
}

func TestDragWakes(t *testing.T) {
	engine := testEngine(Gravity{})
	box, _ := engine.Factory().Rectangle(0, 0, 20, 20, WithSleeping())
	mustAdd(t, engine, box)

	drag := engine.NewDrag()
	drag.Press(vect.Vect{X: 0, Y: 0})
	engine.Update(DefaultDelta, 1)

	if box.IsSleeping() {
		t.Errorf("picked body is still asleep")
	}
}

func TestDragFollowsRotation(t *testing.T) {
	engine := testEngine(Gravity{})
	box, _ := engine.Factory().Rectangle(0, 0, 20, 20)
	mustAdd(t, engine, box)

	drag := engine.NewDrag()
	var pointB vect.Vect
	engine.Events.On(EventBeforeUpdate, func(Event) { pointB = drag.Constraint.PointB })

	drag.Press(vect.Vect{X: 2, Y: 2})
	engine.Update(DefaultDelta, 1)
	if !nearVect(pointB, vect.Vect{X: 2, Y: 2}) {
		t.Fatalf("grab offset = %v, want {2 2}.", pointB)
	}

	box.SetAngle(math.Pi / 2)
	engine.Update(DefaultDelta, 1)
	if !nearVect(pointB, vect.Vect{X: -2, Y: 2}) {
		t.Errorf("grab offset after rotation = %v, want {-2 2}.", pointB)
	}
}
