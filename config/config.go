//Package config reads engine settings and scene descriptions from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	purgatory "github.com/sgentle/polygon-purgatory"
	"github.com/sgentle/polygon-purgatory/vect"
)

type Gravity struct {
	X     vect.Float `yaml:"x"`
	Y     vect.Float `yaml:"y"`
	Scale vect.Float `yaml:"scale"`
}

//engine settings. Zero values keep the engine defaults.
type Engine struct {
	PositionIterations   int         `yaml:"positionIterations,omitempty"`
	VelocityIterations   int         `yaml:"velocityIterations,omitempty"`
	ConstraintIterations int         `yaml:"constraintIterations,omitempty"`
	EnableSleeping       bool        `yaml:"enableSleeping,omitempty"`
	Gravity              *Gravity    `yaml:"gravity,omitempty"`
	TimeScale            *vect.Float `yaml:"timeScale,omitempty"`
	BucketSize           vect.Float  `yaml:"bucketSize,omitempty"`
	ReuseMotion          *vect.Float `yaml:"reuseMotion,omitempty"`
	PairMaxIdleLife      vect.Float  `yaml:"pairMaxIdleLife,omitempty"`
	//clipping bounds as [minX, minY, maxX, maxY].
	Bounds []vect.Float `yaml:"bounds,omitempty"`
}

//Default returns the settings matching purgatory.DefaultOptions.
func Default() Engine {
	o := purgatory.DefaultOptions()
	timeScale, reuse := o.TimeScale, o.ReuseMotion
	return Engine{
		PositionIterations:   o.PositionIterations,
		VelocityIterations:   o.VelocityIterations,
		ConstraintIterations: o.ConstraintIterations,
		Gravity:              &Gravity{X: o.Gravity.X, Y: o.Gravity.Y, Scale: o.Gravity.Scale},
		TimeScale:            &timeScale,
		ReuseMotion:          &reuse,
		PairMaxIdleLife:      o.PairMaxIdleLife,
	}
}

func (e Engine) Validate() error {
	if e.PositionIterations < 0 || e.VelocityIterations < 0 || e.ConstraintIterations < 0 {
		return errors.New("iteration counts must not be negative")
	}
	if e.TimeScale != nil && *e.TimeScale < 0 {
		return errors.Errorf("timeScale %v is negative", *e.TimeScale)
	}
	if e.BucketSize < 0 {
		return errors.Errorf("bucketSize %v is negative", e.BucketSize)
	}
	if len(e.Bounds) != 0 && len(e.Bounds) != 4 {
		return errors.Errorf("bounds needs 4 values, got %d", len(e.Bounds))
	}
	if len(e.Bounds) == 4 && (e.Bounds[0] >= e.Bounds[2] || e.Bounds[1] >= e.Bounds[3]) {
		return errors.Errorf("bounds %v are empty", e.Bounds)
	}
	return nil
}

//Options converts the settings to engine options.
func (e Engine) Options() purgatory.Options {
	o := purgatory.DefaultOptions()
	if e.PositionIterations > 0 {
		o.PositionIterations = e.PositionIterations
	}
	if e.VelocityIterations > 0 {
		o.VelocityIterations = e.VelocityIterations
	}
	if e.ConstraintIterations > 0 {
		o.ConstraintIterations = e.ConstraintIterations
	}
	o.EnableSleeping = e.EnableSleeping
	if e.Gravity != nil {
		o.Gravity = purgatory.Gravity{X: e.Gravity.X, Y: e.Gravity.Y, Scale: e.Gravity.Scale}
	}
	if e.TimeScale != nil {
		o.TimeScale = *e.TimeScale
	}
	if e.ReuseMotion != nil {
		o.ReuseMotion = *e.ReuseMotion
	}
	if e.PairMaxIdleLife > 0 {
		o.PairMaxIdleLife = e.PairMaxIdleLife
	}
	if e.BucketSize > 0 {
		grid := purgatory.NewGrid()
		grid.BucketWidth, grid.BucketHeight = e.BucketSize, e.BucketSize
		o.Broadphase = grid
	}
	return o
}

//Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return scene, nil
}

//Parse decodes and validates a scene. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	scene := &Scene{Engine: Default()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(scene); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode")
	}

	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}
