package purgatory

import (
	"context"
	"time"

	"github.com/sgentle/polygon-purgatory/vect"
)

const DefaultDeltaSampleSize = 60

//drives an Engine from a clock. In variable mode the delta is the smallest
//of the recent frame times, clamped to [DeltaMin, DeltaMax], which filters
//out single slow frames.
type Runner struct {
	Engine *Engine

	IsFixed bool
	//current step length in milliseconds.
	Delta           vect.Float
	DeltaMin        vect.Float
	DeltaMax        vect.Float
	DeltaSampleSize int

	//correction passed with the last step.
	Correction vect.Float
	//frames per second measured over the last full second.
	FPS vect.Float

	deltaHistory     []vect.Float
	timePrev         vect.Float
	hasTimePrev      bool
	timeScalePrev    vect.Float
	frameCounter     int
	counterTimestamp vect.Float
}

func NewRunner(engine *Engine, fps vect.Float) *Runner {
	if fps <= 0 {
		fps = 60
	}
	return &Runner{
		Engine:          engine,
		Delta:           1000 / fps,
		DeltaMin:        1000 / fps,
		DeltaMax:        1000 / (fps * 0.5),
		DeltaSampleSize: DefaultDeltaSampleSize,
		Correction:      1,
		timeScalePrev:   1,
	}
}

//steps the engine once for a frame at time now, in milliseconds.
func (r *Runner) Tick(now vect.Float) {
	timing := &r.Engine.Timing
	correction := vect.Float(1)
	delta := r.Delta

	if !r.IsFixed {
		if r.hasTimePrev && now > r.timePrev {
			delta = now - r.timePrev
		}
		r.timePrev = now
		r.hasTimePrev = true

		r.deltaHistory = append(r.deltaHistory, delta)
		if n := len(r.deltaHistory) - r.DeltaSampleSize; n > 0 {
			r.deltaHistory = append(r.deltaHistory[:0], r.deltaHistory[n:]...)
		}

		delta = r.deltaHistory[0]
		for _, d := range r.deltaHistory[1:] {
			delta = vect.FMin(delta, d)
		}
		delta = vect.FClamp(delta, r.DeltaMin, r.DeltaMax)

		correction = delta / r.Delta
		r.Delta = delta
	}

	if r.timeScalePrev != 0 {
		correction *= timing.TimeScale / r.timeScalePrev
	}
	r.timeScalePrev = timing.TimeScale
	r.Correction = correction

	r.frameCounter++
	if now-r.counterTimestamp >= 1000 {
		r.FPS = vect.Float(r.frameCounter) * 1000 / (now - r.counterTimestamp)
		r.counterTimestamp = now
		r.frameCounter = 0
	}

	//a frozen engine keeps its velocities for when it resumes.
	if timing.TimeScale == 0 {
		correction = 1
	}
	r.Engine.Update(delta, correction)
}

//ticks the engine on a wall clock until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	ticker := time.NewTicker(time.Duration(float64(r.Delta) * float64(time.Millisecond)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			r.Tick(vect.Float(t.Sub(start).Seconds() * 1000))
		}
	}
}
