package purgatory

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/sgentle/polygon-purgatory/vect"
)

var everywhere = NewAABB(-1e9, -1e9, 1e9, 1e9)

func clusters(t *testing.T, f *Factory, n int) []*Body {
	bodies := make([]*Body, 0, n*2)
	for i := 0; i < n; i++ {
		x := vect.Float(i) * 1000
		a, err := f.Rectangle(x, 0, 10, 10)
		if err != nil {
			t.Fatal(err)
		}
		b, err := f.Rectangle(x+5, 0, 10, 10)
		if err != nil {
			t.Fatal(err)
		}
		bodies = append(bodies, a, b)
	}
	return bodies
}

func TestGridPairs(t *testing.T) {
	f := quietFactory()
	bodies := clusters(t, f, 50)

	g := NewGrid()
	g.Update(bodies, everywhere, true)

	pairs := g.Pairs()
	if len(pairs) != 50 {
		t.Fatalf("got %d candidate pairs, want 50.", len(pairs))
	}
	for i, pair := range pairs {
		if NewPairID(pair.BodyA.ID(), pair.BodyB.ID()) != NewPairID(bodies[2*i].ID(), bodies[2*i+1].ID()) {
			t.Errorf("pair %d = %d/%d, want %d/%d.", i, pair.BodyA.ID(), pair.BodyB.ID(), bodies[2*i].ID(), bodies[2*i+1].ID())
		}
	}

	//an unchanged world keeps its pairs
	g.Update(bodies, everywhere, false)
	if len(g.Pairs()) != 50 {
		t.Errorf("idle update changed the pairs to %d", len(g.Pairs()))
	}
}

func TestGridMove(t *testing.T) {
	f := quietFactory()
	bodies := clusters(t, f, 2)

	g := NewGrid()
	g.Update(bodies, everywhere, true)
	if len(g.Pairs()) != 2 {
		t.Fatalf("got %d pairs, want 2.", len(g.Pairs()))
	}

	bodies[1].Translate(vect.Vect{X: 0, Y: 500})
	g.Update(bodies, everywhere, false)
	if len(g.Pairs()) != 1 {
		t.Fatalf("got %s after moving a body away", spew.Sdump(g.Pairs()))
	}

	//moving it back restores the pair
	bodies[1].Translate(vect.Vect{X: 0, Y: -500})
	g.Update(bodies, everywhere, false)
	if len(g.Pairs()) != 2 {
		t.Errorf("got %d pairs after moving back, want 2.", len(g.Pairs()))
	}

	//a forced update from scratch finds the same pairs
	g.Update(bodies, everywhere, true)
	if len(g.Pairs()) != 2 {
		t.Errorf("forced update found %d pairs, want 2.", len(g.Pairs()))
	}
}

func TestGridStatic(t *testing.T) {
	f := quietFactory()
	a, _ := f.Rectangle(0, 0, 10, 10, WithStatic())
	b, _ := f.Rectangle(5, 0, 10, 10, WithStatic())
	c, _ := f.Rectangle(5, 5, 10, 10)

	g := NewGrid()
	g.Update([]*Body{a, b}, everywhere, true)
	if len(g.Pairs()) != 0 {
		t.Errorf("static bodies paired: %s", spew.Sdump(g.Pairs()))
	}

	g.Update([]*Body{a, b, c}, everywhere, true)
	if len(g.Pairs()) != 2 {
		t.Errorf("got %d pairs with one dynamic body, want 2.", len(g.Pairs()))
	}
}

func TestGridClip(t *testing.T) {
	f := quietFactory()
	bodies := clusters(t, f, 2)

	g := NewGrid()
	g.Update(bodies, NewAABB(-100, -100, 100, 100), true)
	if len(g.Pairs()) != 1 {
		t.Errorf("got %d pairs inside the clip bounds, want 1.", len(g.Pairs()))
	}

	g.Clear()
	if len(g.Pairs()) != 0 {
		t.Errorf("Clear kept %d pairs", len(g.Pairs()))
	}
}
