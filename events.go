package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

type EventKind uint8

const (
	EventBeforeUpdate EventKind = iota
	EventAfterUpdate
	EventCollisionStart
	EventCollisionActive
	EventCollisionEnd
	EventSleepStart
	EventSleepEnd
	EventDragStart
	EventDragEnd

	numEventKinds
)

func (k EventKind) String() string {
	switch k {
	case EventBeforeUpdate:
		return "beforeUpdate"
	case EventAfterUpdate:
		return "afterUpdate"
	case EventCollisionStart:
		return "collisionStart"
	case EventCollisionActive:
		return "collisionActive"
	case EventCollisionEnd:
		return "collisionEnd"
	case EventSleepStart:
		return "sleepStart"
	case EventSleepEnd:
		return "sleepEnd"
	case EventDragStart:
		return "dragStart"
	case EventDragEnd:
		return "dragEnd"
	}
	return "unknown"
}

type Event struct {
	Kind      EventKind
	Timestamp vect.Float
	//set for collision events. The slice is only valid during the handler call.
	Pairs []*Pair
	//set for sleep and drag events.
	Body *Body
}

type Handler func(Event)

//returned by On, pass it to Off to unsubscribe.
type Subscription struct {
	kind EventKind
	id   int
}

type subscriber struct {
	id int
	//only events about this body reach fn when set.
	body *Body
	fn   Handler
}

//synchronous, typed event registry. Handlers run in subscription order
//while the step is in progress; world changes they make through the
//Engine are deferred to the end of the step.
type Events struct {
	subscribers [numEventKinds][]subscriber
	nextID      int
	timestamp   vect.Float
}

func NewEvents() *Events {
	return &Events{}
}

func (ev *Events) On(kind EventKind, fn Handler) Subscription {
	return ev.subscribe(kind, nil, fn)
}

//subscribes to sleep or drag events of a single body.
func (ev *Events) OnBody(body *Body, kind EventKind, fn Handler) Subscription {
	return ev.subscribe(kind, body, fn)
}

func (ev *Events) subscribe(kind EventKind, body *Body, fn Handler) Subscription {
	ev.nextID++
	ev.subscribers[kind] = append(ev.subscribers[kind], subscriber{ev.nextID, body, fn})
	return Subscription{kind, ev.nextID}
}

func (ev *Events) Off(sub Subscription) {
	subs := ev.subscribers[sub.kind]
	for i, s := range subs {
		if s.id == sub.id {
			ev.subscribers[sub.kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (ev *Events) OnSleepStart(fn func(body *Body)) Subscription {
	return ev.On(EventSleepStart, func(e Event) { fn(e.Body) })
}

func (ev *Events) OnSleepEnd(fn func(body *Body)) Subscription {
	return ev.On(EventSleepEnd, func(e Event) { fn(e.Body) })
}

func (ev *Events) OnCollisionStart(fn func(pairs []*Pair)) Subscription {
	return ev.On(EventCollisionStart, func(e Event) { fn(e.Pairs) })
}

func (ev *Events) OnCollisionActive(fn func(pairs []*Pair)) Subscription {
	return ev.On(EventCollisionActive, func(e Event) { fn(e.Pairs) })
}

func (ev *Events) OnCollisionEnd(fn func(pairs []*Pair)) Subscription {
	return ev.On(EventCollisionEnd, func(e Event) { fn(e.Pairs) })
}

//has at least one subscriber for kind.
func (ev *Events) Has(kind EventKind) bool {
	return ev != nil && len(ev.subscribers[kind]) > 0
}

func (ev *Events) emit(e Event) {
	if ev == nil {
		return
	}
	if e.Timestamp == 0 {
		e.Timestamp = ev.timestamp
	}

	subs := ev.subscribers[e.Kind]
	if len(subs) == 0 {
		return
	}
	//handlers may unsubscribe while we iterate
	subs = append([]subscriber(nil), subs...)
	for _, s := range subs {
		if s.body != nil && s.body != e.Body {
			continue
		}
		s.fn(e)
	}
}
