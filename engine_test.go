package purgatory

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sgentle/polygon-purgatory/vect"
)

func testEngine(gravity Gravity) *Engine {
	opts := DefaultOptions()
	opts.Gravity = gravity
	opts.Logger = log.New(io.Discard, "", 0)
	return NewEngine(opts)
}

func mustAdd(t *testing.T, engine *Engine, bodies ...*Body) {
	if err := engine.AddBody(bodies...); err != nil {
		t.Fatal(err)
	}
}

//floor with its top edge at y = 90.
func addFloor(t *testing.T, engine *Engine) *Body {
	floor, err := engine.Factory().Rectangle(0, 100, 400, 20, WithStatic(), WithLabel("floor"))
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, engine, floor)
	return floor
}

func maxY(body *Body) vect.Float {
	y := body.Vertices()[0].Y
	for _, v := range body.Vertices() {
		y = vect.FMax(y, v.Y)
	}
	return y
}

func TestEngineDefaults(t *testing.T) {
	engine := NewEngine(Options{})
	if engine.PositionIterations != 6 || engine.VelocityIterations != 4 || engine.ConstraintIterations != 2 {
		t.Errorf("iterations = %d/%d/%d, want 6/4/2.", engine.PositionIterations, engine.VelocityIterations, engine.ConstraintIterations)
	}
	if engine.Pairs.MaxIdleLife != DefaultPairMaxIdleLife {
		t.Errorf("MaxIdleLife = %v", engine.Pairs.MaxIdleLife)
	}
	if _, ok := engine.Broadphase.(*Grid); !ok {
		t.Errorf("default broadphase is %T", engine.Broadphase)
	}
}

func TestEngineStatic(t *testing.T) {
	engine := testEngine(DefaultGravity())
	floor := addFloor(t, engine)
	before := floor.Snapshot()

	for i := 0; i < 30; i++ {
		engine.Update(DefaultDelta, 1)
	}

	if after := floor.Snapshot(); after != before {
		t.Errorf("static body changed:\n%s", spew.Sdump(before, after))
	}
	if !near(engine.Timing.Timestamp, 30*DefaultDelta) {
		t.Errorf("Timestamp = %v, want %v.", engine.Timing.Timestamp, 30*DefaultDelta)
	}
}

func TestEngineFreeFall(t *testing.T) {
	engine := testEngine(DefaultGravity())
	ball, _ := engine.Factory().Circle(0, 0, 5, 0, WithFrictionAir(0))
	mustAdd(t, engine, ball)

	engine.Update(DefaultDelta, 1)
	//one step of gravity: g * scale * dt²
	want := vect.Float(0.001 * DefaultDelta * DefaultDelta)
	if !near(ball.Position().Y, want) || !near(ball.Velocity().Y, want) {
		t.Errorf("after one step y = %v, vy = %v, want %v.", ball.Position().Y, ball.Velocity().Y, want)
	}
	if ball.Force() != (vect.Vect{}) {
		t.Errorf("forces were not cleared: %v", ball.Force())
	}
}

func TestEngineSettle(t *testing.T) {
	engine := testEngine(DefaultGravity())
	addFloor(t, engine)
	box, _ := engine.Factory().Rectangle(0, 50, 20, 20)
	mustAdd(t, engine, box)

	for i := 0; i < 300; i++ {
		engine.Update(DefaultDelta, 1)
	}

	bottom := maxY(box)
	//resting penetration stays within the slop
	if bottom < 90-1e-3 || bottom-90 > box.Slop+1e-3 {
		t.Errorf("box bottom at %v, want resting on the floor at 90 within slop %v.", bottom, box.Slop)
	}
	if box.Speed() > 1 {
		t.Errorf("resting box moves at %v", box.Speed())
	}
	if vect.FAbs(box.Angle()) > 0.01 {
		t.Errorf("flat box tipped to %v", box.Angle())
	}
}

func traceScene(t *testing.T, steps int) string {
	engine := testEngine(DefaultGravity())
	f := engine.Factory()
	addFloor(t, engine)

	stack, err := f.Stack(-40, 0, 3, 3, 2, 2, func(x, y vect.Float, column, row int, last *Body, i int) (*Body, error) {
		return f.Rectangle(x, y, 20, 20)
	})
	if err != nil {
		t.Fatal(err)
	}
	engine.AddComposite(stack)

	ball, _ := f.Circle(30, -100, 10, 0, WithRestitution(0.6), WithVelocity(vect.Vect{X: -1, Y: 0}))
	mustAdd(t, engine, ball)

	var sb strings.Builder
	for step := 0; step < steps; step++ {
		engine.Update(DefaultDelta, 1)
		for _, s := range engine.Snapshots() {
			fmt.Fprintf(&sb, "%d %d %.9f %.9f %.9f %v\n", step, s.ID, s.Position.X, s.Position.Y, s.Angle, s.IsSleeping)
		}
	}
	return sb.String()
}

func TestEngineDeterminism(t *testing.T) {
	expected := traceScene(t, 120)
	output := traceScene(t, 120)

	if output != expected {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(expected),
			B:        difflib.SplitLines(output),
			FromFile: "Expected",
			ToFile:   "Current",
			Context:  0,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("identical scenes diverged:\n%s", text)
	}
}

func TestEngineCollisionEvents(t *testing.T) {
	engine := testEngine(Gravity{})
	f := engine.Factory()
	mover, _ := f.Rectangle(0, 0, 10, 10, WithFrictionAir(0), WithVelocity(vect.Vect{X: 2, Y: 0}))
	sensor, _ := f.Rectangle(30, 0, 10, 10, WithSensor())
	mustAdd(t, engine, mover, sensor)

	starts, actives, ends := 0, 0, 0
	engine.Events.OnCollisionStart(func(pairs []*Pair) {
		starts += len(pairs)
		if !pairs[0].IsSensor {
			t.Errorf("sensor pair is not flagged")
		}
	})
	engine.Events.OnCollisionActive(func(pairs []*Pair) { actives += len(pairs) })
	engine.Events.OnCollisionEnd(func(pairs []*Pair) { ends += len(pairs) })

	for i := 0; i < 60; i++ {
		engine.Update(DefaultDelta, 1)
	}

	if starts != 1 || ends != 1 || actives == 0 {
		t.Errorf("got %d start, %d active, %d end events", starts, actives, ends)
	}
	if mover.Position().X < 50 {
		t.Errorf("sensor stopped the body at %v", mover.Position())
	}
}

func TestEngineUpdateEvents(t *testing.T) {
	engine := testEngine(DefaultGravity())
	var order []EventKind
	var stamps []vect.Float
	engine.Events.On(EventBeforeUpdate, func(e Event) {
		order = append(order, e.Kind)
		stamps = append(stamps, e.Timestamp)
	})
	engine.Events.On(EventAfterUpdate, func(e Event) { order = append(order, e.Kind) })

	engine.Update(DefaultDelta, 1)
	engine.Update(DefaultDelta, 1)

	want := []EventKind{EventBeforeUpdate, EventAfterUpdate, EventBeforeUpdate, EventAfterUpdate}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("events ran as %v, want %v.", order, want)
	}
	if len(stamps) != 2 || !near(stamps[1], 2*DefaultDelta) {
		t.Errorf("timestamps = %v", stamps)
	}
}

func TestEngineDeferredAdd(t *testing.T) {
	engine := testEngine(DefaultGravity())
	box, _ := engine.Factory().Rectangle(0, 0, 10, 10)

	added := false
	engine.Events.On(EventAfterUpdate, func(Event) {
		if added {
			return
		}
		added = true
		if err := engine.AddBody(box); err != nil {
			t.Error(err)
		}
		if n := len(engine.World.Bodies()); n != 0 {
			t.Errorf("body was added mid step, world has %d bodies", n)
		}
	})

	engine.Update(DefaultDelta, 1)
	if engine.World.GetBody(box.ID()) != box {
		t.Errorf("queued body was not added after the step")
	}
	if !engine.World.IsModified() {
		t.Errorf("adding a body did not mark the world modified")
	}

	engine.Update(DefaultDelta, 1)
	if engine.World.IsModified() {
		t.Errorf("modified flag survived the step")
	}
}

func TestEngineAddPart(t *testing.T) {
	engine := testEngine(DefaultGravity())
	f := engine.Factory()
	partA, _ := f.Rectangle(0, 0, 10, 10)
	partB, _ := f.Rectangle(10, 0, 10, 10)
	if _, err := f.Compound([]*Body{partA, partB}); err != nil {
		t.Fatal(err)
	}

	if err := engine.AddBody(partA); err != ErrCompoundPart {
		t.Errorf("adding a part err = %v, want %v.", err, ErrCompoundPart)
	}
}

func TestEngineRemove(t *testing.T) {
	engine := testEngine(DefaultGravity())
	f := engine.Factory()
	addFloor(t, engine)
	box, _ := f.Rectangle(0, 80, 20, 20)
	other, _ := f.Rectangle(100, 80, 20, 20)
	mustAdd(t, engine, box, other)
	rope, _ := f.Constraint(nil, other, WithPointA(vect.Vect{X: 100, Y: 0}))
	engine.AddConstraint(rope)

	for i := 0; i < 10; i++ {
		engine.Update(DefaultDelta, 1)
	}

	engine.RemoveBody(box)
	engine.RemoveConstraint(rope)
	if engine.World.GetBody(box.ID()) != nil || engine.World.GetConstraint(rope.ID()) != nil {
		t.Fatalf("remove did not take effect between steps")
	}

	for i := 0; i < 10; i++ {
		engine.Update(DefaultDelta, 1)
	}
	for _, pair := range engine.Pairs.List() {
		if pair.IsActive() && (pair.BodyA == box || pair.BodyB == box) {
			t.Errorf("removed body still collides")
		}
	}
}

func TestEngineSleeping(t *testing.T) {
	engine := testEngine(Gravity{X: 0, Y: 1, Scale: 0.0005})
	engine.EnableSleeping = true
	addFloor(t, engine)
	box, _ := engine.Factory().Rectangle(0, 80, 20, 20)
	mustAdd(t, engine, box)

	starts := 0
	engine.Events.OnBody(box, EventSleepStart, func(Event) { starts++ })

	for i := 0; i < 600; i++ {
		engine.Update(DefaultDelta, 1)
	}

	if !box.IsSleeping() {
		t.Fatalf("resting box is awake: %s", spew.Sdump(box.Snapshot()))
	}
	if box.Velocity() != (vect.Vect{}) || box.AngularVelocity() != 0 {
		t.Errorf("sleeping box has velocity %v, %v", box.Velocity(), box.AngularVelocity())
	}
	if starts != 1 {
		t.Errorf("SleepStart fired %d times, want 1.", starts)
	}

	//a fast body landing on it wakes it up
	ball, _ := engine.Factory().Circle(0, 40, 10, 0, WithVelocity(vect.Vect{X: 0, Y: 5}))
	mustAdd(t, engine, ball)
	for i := 0; i < 10 && box.IsSleeping(); i++ {
		engine.Update(DefaultDelta, 1)
	}
	if box.IsSleeping() {
		t.Errorf("impact did not wake the box")
	}
}

func TestEngineTimeScaleZero(t *testing.T) {
	engine := testEngine(DefaultGravity())
	ball, _ := engine.Factory().Circle(0, 0, 5, 0, WithVelocity(vect.Vect{X: 3, Y: 0}))
	mustAdd(t, engine, ball)

	engine.Timing.TimeScale = 0
	engine.Update(DefaultDelta, 1)
	if ball.Position() != (vect.Vect{}) {
		t.Errorf("frozen engine moved the ball to %v", ball.Position())
	}

	engine.Timing.TimeScale = 1
	engine.Update(DefaultDelta, 1)
	if !(ball.Position().X > 2) {
		t.Errorf("ball lost its velocity while frozen: %v", ball.Position())
	}
}

func TestEngineClear(t *testing.T) {
	engine := testEngine(DefaultGravity())
	addFloor(t, engine)
	box, _ := engine.Factory().Rectangle(0, 80, 20, 20)
	mustAdd(t, engine, box)
	engine.Update(DefaultDelta, 1)
	if engine.Pairs.Len() == 0 {
		t.Fatalf("resting box has no pair")
	}

	engine.Clear()
	if engine.Pairs.Len() != 0 || len(engine.Broadphase.Pairs()) != 0 {
		t.Errorf("Clear kept %d pairs", engine.Pairs.Len())
	}
	if len(engine.World.Bodies()) != 2 {
		t.Errorf("Clear dropped bodies")
	}

	engine.Update(DefaultDelta, 1)
	if engine.Pairs.Len() == 0 {
		t.Errorf("pairs were not rebuilt after Clear")
	}
}
