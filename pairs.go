package purgatory

import (
	"github.com/sgentle/polygon-purgatory/vect"
)

//time after which a pair that stopped touching is forgotten.
const DefaultPairMaxIdleLife = 1000

//table of all pairs that touched recently, in creation order.
type Pairs struct {
	table map[PairID]*Pair
	list  []*Pair

	//pairs classified by the last Update.
	CollisionStart  []*Pair
	CollisionActive []*Pair
	CollisionEnd    []*Pair

	MaxIdleLife vect.Float
}

func NewPairs() *Pairs {
	return &Pairs{
		table:       make(map[PairID]*Pair),
		MaxIdleLife: DefaultPairMaxIdleLife,
	}
}

func (pairs *Pairs) Get(id PairID) *Pair {
	return pairs.table[id]
}

func (pairs *Pairs) List() []*Pair {
	return pairs.list
}

func (pairs *Pairs) Len() int {
	return len(pairs.list)
}

//records the collisions of one step and classifies pairs into start, active and end.
func (pairs *Pairs) Update(collisions []*Collision, timestamp vect.Float) {
	pairs.CollisionStart = nil
	pairs.CollisionActive = nil
	pairs.CollisionEnd = nil

	for _, pair := range pairs.list {
		pair.confirmedActive = false
	}

	for _, collision := range collisions {
		if !collision.Collided {
			continue
		}

		id := NewPairID(collision.BodyA.id, collision.BodyB.id)
		if pair, ok := pairs.table[id]; ok {
			if pair.isActive {
				pairs.CollisionActive = append(pairs.CollisionActive, pair)
			} else {
				pairs.CollisionStart = append(pairs.CollisionStart, pair)
			}
			pair.update(collision, timestamp)
			pair.confirmedActive = true
		} else {
			pair := newPair(collision, timestamp)
			pairs.table[id] = pair
			pairs.list = append(pairs.list, pair)
			pairs.CollisionStart = append(pairs.CollisionStart, pair)
		}
	}

	for _, pair := range pairs.list {
		if pair.isActive && !pair.confirmedActive {
			pair.setActive(false, timestamp)
			pairs.CollisionEnd = append(pairs.CollisionEnd, pair)
		}
	}
}

//drops pairs that have been idle for longer than MaxIdleLife, along with their
//warm start impulses. Pairs touching a sleeping body never expire.
func (pairs *Pairs) RemoveOld(timestamp vect.Float) {
	kept := pairs.list[:0]

	for _, pair := range pairs.list {
		parentA, parentB := pair.Parents()
		if parentA.isSleeping || parentB.isSleeping {
			pair.TimeUpdated = timestamp
			kept = append(kept, pair)
			continue
		}

		if timestamp-pair.TimeUpdated > pairs.MaxIdleLife {
			delete(pairs.table, pair.ID)
			continue
		}
		kept = append(kept, pair)
	}

	for i := len(kept); i < len(pairs.list); i++ {
		pairs.list[i] = nil
	}
	pairs.list = kept
}

func (pairs *Pairs) Clear() {
	pairs.table = make(map[PairID]*Pair)
	pairs.list = nil
	pairs.CollisionStart = nil
	pairs.CollisionActive = nil
	pairs.CollisionEnd = nil
}
