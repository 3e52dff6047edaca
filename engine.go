package purgatory

import (
	"log"
	"time"

	"github.com/sgentle/polygon-purgatory/vect"
)

//nominal step length in milliseconds.
const DefaultDelta = 1000.0 / 60.0

type Timing struct {
	//simulated time in milliseconds, advanced by delta * TimeScale each step.
	Timestamp vect.Float
	//global speed factor, 0 freezes the simulation.
	TimeScale vect.Float
	//delta of the last step after time scaling.
	LastDelta vect.Float
}

type Options struct {
	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int
	EnableSleeping       bool

	Gravity   Gravity
	TimeScale vect.Float

	//defaults to a Grid.
	Broadphase Broadphase
	//see Detector.ReuseMotion.
	ReuseMotion     vect.Float
	PairMaxIdleLife vect.Float

	//ids of bodies, constraints and composites. A new allocator is made when nil.
	IDs    *IDAllocator
	Logger *log.Logger
}

func DefaultOptions() Options {
	return Options{
		PositionIterations:   6,
		VelocityIterations:   4,
		ConstraintIterations: 2,
		Gravity:              DefaultGravity(),
		TimeScale:            1,
		ReuseMotion:          DefaultReuseMotion,
		PairMaxIdleLife:      DefaultPairMaxIdleLife,
	}
}

type Engine struct {
	World      *World
	Pairs      *Pairs
	Broadphase Broadphase
	Detector   *Detector
	Resolver   *Resolver
	Events     *Events
	Timing     Timing

	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int
	EnableSleeping       bool

	Logger *log.Logger

	factory *Factory

	//set while Update runs, world changes made then are queued.
	stepping bool
	pending  []func()

	//wall clock cost of the last step, for profiling only.
	DetectTime  time.Duration
	ResolveTime time.Duration
	StepTime    time.Duration
}

func NewEngine(opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.PositionIterations <= 0 {
		opts.PositionIterations = defaults.PositionIterations
	}
	if opts.VelocityIterations <= 0 {
		opts.VelocityIterations = defaults.VelocityIterations
	}
	if opts.ConstraintIterations <= 0 {
		opts.ConstraintIterations = defaults.ConstraintIterations
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Broadphase == nil {
		opts.Broadphase = NewGrid()
	}
	if opts.PairMaxIdleLife <= 0 {
		opts.PairMaxIdleLife = defaults.PairMaxIdleLife
	}

	factory := NewFactory(opts.IDs, opts.Logger)

	engine := &Engine{
		World:                newWorld(factory),
		Pairs:                NewPairs(),
		Broadphase:           opts.Broadphase,
		Detector:             &Detector{ReuseMotion: opts.ReuseMotion},
		Resolver:             NewResolver(opts.Logger),
		Events:               NewEvents(),
		Timing:               Timing{TimeScale: opts.TimeScale},
		PositionIterations:   opts.PositionIterations,
		VelocityIterations:   opts.VelocityIterations,
		ConstraintIterations: opts.ConstraintIterations,
		EnableSleeping:       opts.EnableSleeping,
		Logger:               opts.Logger,
		factory:              factory,
	}
	engine.World.Gravity = opts.Gravity
	engine.Pairs.MaxIdleLife = opts.PairMaxIdleLife

	return engine
}

//the factory sharing this engine's id allocator.
func (engine *Engine) Factory() *Factory {
	return engine.factory
}

//advances the simulation by delta milliseconds. correction is the ratio of
//this delta to the previous one and keeps Verlet integration stable under
//a varying delta. Zero values select DefaultDelta and 1.
func (engine *Engine) Update(delta, correction vect.Float) {
	if delta == 0 {
		delta = DefaultDelta
	}
	if correction == 0 {
		correction = 1
	}

	stepStart := time.Now()
	engine.stepping = true

	world := engine.World
	timing := &engine.Timing
	events := engine.Events
	timeScale := timing.TimeScale

	timing.Timestamp += delta * timeScale
	timing.LastDelta = delta * timeScale
	events.timestamp = timing.Timestamp

	events.emit(Event{Kind: EventBeforeUpdate})

	bodies := world.AllBodies()
	constraints := world.AllConstraints()

	if engine.EnableSleeping {
		updateSleeping(bodies, timeScale, events)
	}

	applyGravity(bodies, world.Gravity)

	//a zero time scale freezes bodies in place, their position history
	//keeps the velocity for when time resumes
	if timeScale != 0 {
		for _, body := range bodies {
			if body.isStatic || body.isSleeping {
				continue
			}
			body.update(delta, timeScale, correction)
		}
	}

	engine.solveConstraints(bodies, constraints, timeScale)

	start := time.Now()
	engine.Broadphase.Update(bodies, world.ClipBounds, world.modified)
	if world.modified {
		world.SetModified(false, false, true)
	}

	collisions := engine.Detector.Collisions(engine.Broadphase.Pairs(), engine.Pairs)

	pairs := engine.Pairs
	pairs.Update(collisions, timing.Timestamp)
	pairs.RemoveOld(timing.Timestamp)
	engine.DetectTime = time.Since(start)

	if engine.EnableSleeping {
		wakeOnCollision(pairs.List(), timeScale, events)
	}

	if len(pairs.CollisionStart) > 0 {
		events.emit(Event{Kind: EventCollisionStart, Pairs: pairs.CollisionStart})
	}

	start = time.Now()
	resolver := engine.Resolver
	list := pairs.List()

	resolver.PreSolvePosition(list)
	for i := 0; i < engine.PositionIterations; i++ {
		resolver.SolvePosition(list, timeScale)
	}
	resolver.PostSolvePosition(bodies)

	engine.solveConstraints(bodies, constraints, timeScale)

	resolver.PreSolveVelocity(list)
	for i := 0; i < engine.VelocityIterations; i++ {
		resolver.SolveVelocity(list, timeScale)
	}
	engine.ResolveTime = time.Since(start)

	if len(pairs.CollisionActive) > 0 {
		events.emit(Event{Kind: EventCollisionActive, Pairs: pairs.CollisionActive})
	}
	if len(pairs.CollisionEnd) > 0 {
		events.emit(Event{Kind: EventCollisionEnd, Pairs: pairs.CollisionEnd})
	}

	for _, body := range bodies {
		body.resetForces()
	}

	events.emit(Event{Kind: EventAfterUpdate})

	engine.stepping = false
	engine.flush()

	engine.StepTime = time.Since(stepStart)
}

func (engine *Engine) solveConstraints(bodies []*Body, constraints []*Constraint, timeScale vect.Float) {
	notifyConstraints(constraints, true)
	preSolveConstraints(bodies)
	for i := 0; i < engine.ConstraintIterations; i++ {
		solveConstraints(constraints, timeScale)
	}
	postSolveConstraints(bodies, engine.Events)
	notifyConstraints(constraints, false)
}

func applyGravity(bodies []*Body, gravity Gravity) {
	if (gravity.X == 0 && gravity.Y == 0) || gravity.Scale == 0 {
		return
	}

	for _, body := range bodies {
		if body.isStatic || body.isSleeping {
			continue
		}
		body.force.X += body.mass * gravity.X * gravity.Scale
		body.force.Y += body.mass * gravity.Y * gravity.Scale
	}
}

//runs fn now, or after the current step when called from an event handler.
func (engine *Engine) whenIdle(fn func()) {
	if engine.stepping {
		engine.pending = append(engine.pending, fn)
		return
	}
	fn()
}

func (engine *Engine) flush() {
	for len(engine.pending) > 0 {
		pending := engine.pending
		engine.pending = nil
		for _, fn := range pending {
			fn()
		}
	}
}

//adds top level bodies to the world.
func (engine *Engine) AddBody(bodies ...*Body) error {
	for _, body := range bodies {
		if body.parent != nil {
			return ErrCompoundPart
		}
	}
	engine.whenIdle(func() {
		if err := engine.World.AddBody(bodies...); err != nil {
			engine.Logger.Printf("Warning: %v", err)
		}
	})
	return nil
}

func (engine *Engine) AddConstraint(constraints ...*Constraint) {
	engine.whenIdle(func() { engine.World.AddConstraint(constraints...) })
}

func (engine *Engine) AddComposite(composites ...*Composite) {
	engine.whenIdle(func() { engine.World.AddComposite(composites...) })
}

//removes body from the world and all nested composites.
func (engine *Engine) RemoveBody(body *Body) {
	engine.whenIdle(func() { engine.World.RemoveBody(body, true) })
}

func (engine *Engine) RemoveConstraint(constraint *Constraint) {
	engine.whenIdle(func() { engine.World.RemoveConstraint(constraint, true) })
}

func (engine *Engine) RemoveComposite(composite *Composite) {
	engine.whenIdle(func() { engine.World.RemoveComposite(composite, true) })
}

//forgets all pairs and broadphase state, for use after bodies were moved
//around by hand. The world itself is kept.
func (engine *Engine) Clear() {
	engine.whenIdle(func() {
		engine.Pairs.Clear()
		engine.Broadphase.Clear()
		engine.World.SetModified(true, false, true)
	})
}

//kinematic state of every body in the world, in world order.
func (engine *Engine) Snapshots() []BodySnapshot {
	bodies := engine.World.AllBodies()
	snapshots := make([]BodySnapshot, len(bodies))
	for i, body := range bodies {
		snapshots[i] = body.Snapshot()
	}
	return snapshots
}
