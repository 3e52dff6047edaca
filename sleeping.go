package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

const (
	motionWakeThreshold  = 0.18
	motionSleepThreshold = 0.08
	//weight of the smaller of old and new motion in the motion average.
	motionMinBias = 0.9
)

//puts resting bodies to sleep. A body sleeps once its biased motion stays
//under the threshold for SleepThreshold consecutive steps.
func updateSleeping(bodies []*Body, timeScale vect.Float, events *Events) {
	timeFactor := timeScale * timeScale * timeScale

	for _, body := range bodies {
		if body.isStatic {
			continue
		}

		if body.force.X != 0 || body.force.Y != 0 {
			setSleeping(body, false, events)
			continue
		}

		motion := body.speed*body.speed + body.angularSpeed*body.angularSpeed
		minMotion := vect.FMin(body.motion, motion)
		maxMotion := vect.FMax(body.motion, motion)
		body.motion = motionMinBias*minMotion + (1-motionMinBias)*maxMotion

		if body.SleepThreshold > 0 && body.motion < motionSleepThreshold*timeFactor {
			body.sleepCounter++
			if body.sleepCounter >= body.SleepThreshold {
				setSleeping(body, true, events)
			}
		} else if body.sleepCounter > 0 {
			body.sleepCounter--
		}
	}
}

//wakes sleeping bodies that are hit by a body moving fast enough.
func wakeOnCollision(pairs []*Pair, timeScale vect.Float, events *Events) {
	timeFactor := timeScale * timeScale * timeScale

	for _, pair := range pairs {
		if !pair.isActive {
			continue
		}

		bodyA, bodyB := pair.Parents()
		if (bodyA.isSleeping && bodyB.isSleeping) || bodyA.isStatic || bodyB.isStatic {
			continue
		}

		if bodyA.isSleeping || bodyB.isSleeping {
			sleeping, moving := bodyB, bodyA
			if bodyA.isSleeping {
				sleeping, moving = bodyA, bodyB
			}

			if moving.motion > motionWakeThreshold*timeFactor {
				setSleeping(sleeping, false, events)
			}
		}
	}
}

//puts a body to sleep or wakes it, emitting SleepStart/SleepEnd on changes.
func setSleeping(body *Body, isSleeping bool, events *Events) {
	wasSleeping := body.isSleeping

	if isSleeping {
		body.isSleeping = true
		body.sleepCounter = body.SleepThreshold

		body.positionImpulse = vect.Vect{}
		body.positionPrev = body.position
		body.anglePrev = body.angle
		body.velocity = vect.Vect{}
		body.angularVelocity = 0
		body.speed = 0
		body.angularSpeed = 0
		body.motion = 0

		if !wasSleeping {
			events.emit(Event{Kind: EventSleepStart, Body: body})
		}
	} else {
		body.isSleeping = false
		body.sleepCounter = 0

		if wasSleeping {
			events.emit(Event{Kind: EventSleepEnd, Body: body})
		}
	}
}
