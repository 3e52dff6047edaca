package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	purgatory "github.com/sgentle/polygon-purgatory"
	"github.com/sgentle/polygon-purgatory/vect"
)

const pendulumScene = `
engine:
  gravity: {x: 0, y: 1, scale: 0.002}
  enableSleeping: true
  bucketSize: 64
  bounds: [-500, -500, 500, 500]
bodies:
  - label: ground
    shape: rectangle
    position: [0, 200]
    width: 800
    height: 40
    static: true
  - label: bob
    shape: circle
    position: {x: 0, y: 100}
    radius: 10
    restitution: 0.5
    friction: 0.2
    filter: {category: 2}
  - label: crate
    shape: polygon
    position: [50, 0]
    sides: 5
    radius: 20
constraints:
  - label: string
    bodyB: bob
    pointA: [0, 0]
    stiffness: 0.9
`

func TestParseScene(t *testing.T) {
	scene, err := Parse([]byte(pendulumScene))
	if err != nil {
		t.Fatal(err)
	}

	if len(scene.Bodies) != 3 || len(scene.Constraints) != 1 {
		t.Fatalf("parsed %s", spew.Sdump(scene))
	}
	if g := scene.Engine.Gravity; g == nil || g.Scale != 0.002 {
		t.Errorf("gravity = %s", spew.Sdump(g))
	}
	bob := scene.Bodies[1]
	if bob.Position != (vect.Vect{X: 0, Y: 100}) {
		t.Errorf("bob position = %v", bob.Position)
	}
	if bob.Restitution == nil || *bob.Restitution != 0.5 {
		t.Errorf("bob restitution was not read")
	}
	if bob.Filter == nil || bob.Filter.Category != 2 {
		t.Errorf("bob filter = %s", spew.Sdump(bob.Filter))
	}

	//unset fields keep the defaults
	if scene.Engine.PositionIterations != 6 || *scene.Engine.TimeScale != 1 {
		t.Errorf("defaults were lost: %s", spew.Sdump(scene.Engine))
	}
}

func TestParseEmpty(t *testing.T) {
	scene, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	opts := scene.Engine.Options()
	def := purgatory.DefaultOptions()
	if opts.Gravity != def.Gravity || opts.TimeScale != def.TimeScale || opts.PositionIterations != def.PositionIterations {
		t.Errorf("empty scene options = %s", spew.Sdump(opts))
	}
	if opts.Broadphase != nil {
		t.Errorf("empty scene should keep the default broadphase")
	}
}

func TestParseErrors(t *testing.T) {
	var errorTests = []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "engine:\n  warp: 9\n", "decode"},
		{"unknown shape", "bodies:\n  - shape: blob\n", "unknown shape"},
		{"no size", "bodies:\n  - shape: rectangle\n", "positive width"},
		{"no radius", "bodies:\n  - shape: circle\n", "positive radius"},
		{"restitution", "bodies:\n  - shape: circle\n    radius: 1\n    restitution: 2\n", "restitution"},
		{"duplicate label", "bodies:\n  - {label: a, shape: circle, radius: 1}\n  - {label: a, shape: circle, radius: 1}\n", "duplicate label"},
		{"unknown body", "bodies:\n  - {label: a, shape: circle, radius: 1}\nconstraints:\n  - {bodyA: a, bodyB: b}\n", "unknown body"},
		{"no bodies", "constraints:\n  - {label: c}\n", "at least one body"},
		{"stiffness", "bodies:\n  - {label: a, shape: circle, radius: 1}\nconstraints:\n  - {bodyA: a, stiffness: 1.5}\n", "stiffness"},
		{"bounds count", "engine:\n  bounds: [0, 0, 1]\n", "4 values"},
		{"bounds empty", "engine:\n  bounds: [0, 0, 0, 10]\n", "empty"},
		{"time scale", "engine:\n  timeScale: -1\n", "negative"},
		{"bad vect", "bodies:\n  - {shape: circle, radius: 1, position: [1, 2, 3]}\n", "decode"},
	}

	for _, et := range errorTests {
		_, err := Parse([]byte(et.yaml))
		if err == nil {
			t.Errorf("%s: expected an error", et.name)
			continue
		}
		if !strings.Contains(err.Error(), et.want) {
			t.Errorf("%s: error %q does not mention %q", et.name, err, et.want)
		}
	}
}

func TestSceneNewEngine(t *testing.T) {
	scene, err := Parse([]byte(pendulumScene))
	if err != nil {
		t.Fatal(err)
	}

	engine, err := scene.NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	if !engine.EnableSleeping || engine.World.Gravity.Scale != 0.002 {
		t.Errorf("engine settings were not applied")
	}
	grid, ok := engine.Broadphase.(*purgatory.Grid)
	if !ok || grid.BucketWidth != 64 || grid.BucketHeight != 64 {
		t.Errorf("broadphase = %s", spew.Sdump(engine.Broadphase))
	}
	if engine.World.ClipBounds != purgatory.NewAABB(-500, -500, 500, 500) {
		t.Errorf("clip bounds = %v", engine.World.ClipBounds)
	}

	bodies := engine.World.AllBodies()
	if len(bodies) != 3 {
		t.Fatalf("world has %d bodies, want 3.", len(bodies))
	}
	ground, bob := bodies[0], bodies[1]
	if !ground.IsStatic() || ground.Label != "ground" {
		t.Errorf("ground = %s", spew.Sdump(ground.Snapshot()))
	}
	if bob.Restitution != 0.5 || bob.Friction != 0.2 || bob.Filter.Category != 2 || bob.Filter.Mask != 0xFFFFFFFF {
		t.Errorf("bob material was not applied")
	}

	constraints := engine.World.AllConstraints()
	if len(constraints) != 1 {
		t.Fatalf("world has %d constraints, want 1.", len(constraints))
	}
	c := constraints[0]
	if c.BodyA != nil || c.BodyB != bob || c.Label != "string" || c.Stiffness != 0.9 {
		t.Errorf("constraint = %+v", c)
	}
	if d := c.Length - 100; d < -1e-6 || d > 1e-6 {
		t.Errorf("constraint length = %v, want 100.", c.Length)
	}

	engine.Update(purgatory.DefaultDelta, 1)
}

func TestSceneVertices(t *testing.T) {
	scene, err := Parse([]byte(`
bodies:
  - label: ell
    shape: vertices
    position: [0, 0]
    vertices:
      - [[0, 0], [40, 0], [40, 20], [20, 20], [20, 40], [0, 40]]
`))
	if err != nil {
		t.Fatal(err)
	}

	engine := purgatory.NewEngine(scene.Engine.Options())
	bodies, err := scene.Build(engine)
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 1 || bodies[0].Label != "ell" {
		t.Fatalf("built %d bodies", len(bodies))
	}
	if area := bodies[0].Area(); area < 1199 || area > 1201 {
		t.Errorf("area = %v, want 1200.", area)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(pendulumScene), 0o644); err != nil {
		t.Fatal(err)
	}

	scene, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(scene.Bodies) != 3 {
		t.Errorf("loaded %d bodies", len(scene.Bodies))
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read scene") {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("bodies:\n  - shape: blob\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("bad file error = %v", err)
	}
}
