package purgatory

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/sgentle/polygon-purgatory/vect"
)

func TestCollidesDisjoint(t *testing.T) {
	f := quietFactory()
	a, _ := f.Rectangle(0, 0, 10, 10)
	b, _ := f.Rectangle(20, 0, 10, 10)
	c, _ := f.Circle(0, 30, 5, 0)

	if col := collides(a, b, nil, 0); col.Collided {
		t.Errorf("separated boxes collide: %s", spew.Sdump(col))
	}
	if col := collides(a, c, nil, 0); col.Collided {
		t.Errorf("box and circle collide: %s", spew.Sdump(col))
	}
}

func TestCollidesOverlap(t *testing.T) {
	f := quietFactory()
	a, _ := f.Rectangle(0, 0, 10, 10)
	b, _ := f.Rectangle(8, 0, 10, 10)

	col := collides(a, b, nil, 0)
	if !col.Collided {
		t.Fatalf("overlapping boxes do not collide")
	}
	if col.BodyA != a || col.BodyB != b {
		t.Errorf("bodies ordered %d, %d, want %d, %d.", col.BodyA.ID(), col.BodyB.ID(), a.ID(), b.ID())
	}
	if !near(col.Depth, 2) {
		t.Errorf("Depth = %v, want 2.", col.Depth)
	}
	if !nearVect(col.Normal, vect.Vect{X: -1, Y: 0}) {
		t.Errorf("Normal = %v, want {-1 0}.", col.Normal)
	}
	if !nearVect(col.Tangent, vect.Perp(col.Normal)) {
		t.Errorf("Tangent = %v, want %v.", col.Tangent, vect.Perp(col.Normal))
	}
	if !nearVect(col.Penetration, vect.Vect{X: -2, Y: 0}) {
		t.Errorf("Penetration = %v, want {-2 0}.", col.Penetration)
	}
	if col.AxisBody != b {
		t.Errorf("AxisBody = %d, want %d.", col.AxisBody.ID(), b.ID())
	}
	if len(col.Supports) != 2 {
		t.Fatalf("Supports = %s", spew.Sdump(col.Supports))
	}
	for _, s := range col.Supports {
		if !near(s.X, 3) {
			t.Errorf("support %v is not on B's left edge", s.Vect)
		}
	}

	//swapping the arguments gives the same ordering
	swapped := collides(b, a, nil, 0)
	if swapped.BodyA != a || !nearVect(swapped.Normal, col.Normal) {
		t.Errorf("swapped collision = %s", spew.Sdump(swapped))
	}
}

func TestCollidesReuse(t *testing.T) {
	f := quietFactory()
	a, _ := f.Rectangle(0, 0, 10, 10)
	b, _ := f.Rectangle(8, 0, 10, 10)

	first := collides(a, b, nil, DefaultReuseMotion)
	if first.Reused {
		t.Errorf("first test reused an axis")
	}

	second := collides(a, b, first, DefaultReuseMotion)
	if second != first {
		t.Errorf("previous collision was not updated in place")
	}
	if !second.Reused || !second.Collided || !near(second.Depth, 2) {
		t.Errorf("resting pair was not reused: %s", spew.Sdump(second))
	}

	//fast bodies always get the full test
	b.SetVelocity(vect.Vect{X: 5, Y: 0})
	third := collides(a, b, second, DefaultReuseMotion)
	if third.Reused {
		t.Errorf("moving pair reused its axis")
	}

	//a zero threshold disables reuse
	b.SetVelocity(vect.Vect{})
	if col := collides(a, b, third, 0); col.Reused {
		t.Errorf("reuse happened with threshold 0")
	}
}

func TestCollidesSeparatedAfterReuse(t *testing.T) {
	f := quietFactory()
	a, _ := f.Rectangle(0, 0, 10, 10)
	b, _ := f.Rectangle(8, 0, 10, 10)

	col := collides(a, b, nil, DefaultReuseMotion)
	b.SetPosition(vect.Vect{X: 30, Y: 0})
	b.SetVelocity(vect.Vect{})

	col = collides(a, b, col, DefaultReuseMotion)
	if col.Collided {
		t.Errorf("separated pair still collides: %s", spew.Sdump(col))
	}
}

func TestPairID(t *testing.T) {
	if NewPairID(3, 7) != NewPairID(7, 3) {
		t.Errorf("pair ids depend on order")
	}
	if id := NewPairID(9, 2); id.A != 2 || id.B != 9 {
		t.Errorf("NewPairID(9, 2) = %+v", id)
	}
	if comparePairIDs(PairID{1, 5}, PairID{2, 3}) >= 0 || comparePairIDs(PairID{1, 5}, PairID{1, 5}) != 0 {
		t.Errorf("comparePairIDs ordering is wrong")
	}
}

func TestCanCollide(t *testing.T) {
	var filterTests = []struct {
		a, b CollisionFilter
		out  bool
	}{
		{DefaultFilter(), DefaultFilter(), true},
		{CollisionFilter{Category: 2, Mask: 0xFFFFFFFF}, CollisionFilter{Category: 1, Mask: 1}, false},
		{CollisionFilter{Category: 2, Mask: 1}, CollisionFilter{Category: 1, Mask: 2}, true},
		{CollisionFilter{Category: 1, Mask: 0xFFFFFFFF, Group: -1}, CollisionFilter{Category: 1, Mask: 0xFFFFFFFF, Group: -1}, false},
		{CollisionFilter{Category: 2, Mask: 1, Group: 3}, CollisionFilter{Category: 2, Mask: 1, Group: 3}, true},
		{CollisionFilter{Category: 1, Mask: 0xFFFFFFFF, Group: -1}, CollisionFilter{Category: 1, Mask: 0xFFFFFFFF, Group: -2}, true},
	}

	for i, ft := range filterTests {
		if got := CanCollide(ft.a, ft.b); got != ft.out {
			t.Errorf("%d: CanCollide(%+v, %+v) = %v, want %v.", i, ft.a, ft.b, got, ft.out)
		}
		if got := CanCollide(ft.b, ft.a); got != ft.out {
			t.Errorf("%d: CanCollide is not symmetric", i)
		}
	}
}

func TestDetectorCompound(t *testing.T) {
	f := quietFactory()
	partA, _ := f.Rectangle(0, 0, 10, 10)
	partB, _ := f.Rectangle(30, 0, 10, 10)
	compound, err := f.Compound([]*Body{partA, partB})
	if err != nil {
		t.Fatal(err)
	}
	probe, _ := f.Rectangle(33, 0, 4, 4)

	d := NewDetector()
	collisions := d.Collisions([]CandidatePair{{compound, probe}}, nil)
	if len(collisions) != 1 {
		t.Fatalf("got %d collisions, want 1: %s", len(collisions), spew.Sdump(collisions))
	}
	col := collisions[0]
	if col.ParentA != compound && col.ParentB != compound {
		t.Errorf("collision parents are %d and %d", col.ParentA.ID(), col.ParentB.ID())
	}
	if col.BodyA != partB && col.BodyB != partB {
		t.Errorf("collision is not with the right part")
	}

	//filtered out by group
	group := CollisionFilter{Category: 1, Mask: 0xFFFFFFFF, Group: -1}
	compound.Filter, probe.Filter = group, group
	if collisions := d.Collisions([]CandidatePair{{compound, probe}}, nil); len(collisions) != 0 {
		t.Errorf("non colliding group produced %d collisions", len(collisions))
	}
}
