package purgatory

import (
	"math"

	"github.com/sgentle/polygon-purgatory/vect"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const defaultBucketSize = 48

type bucketKey struct {
	col, row int
}

//range of grid cells covered by a body's bounds.
type gridRegion struct {
	startCol, endCol int
	startRow, endRow int
}

func (r gridRegion) contains(col, row int) bool {
	return col >= r.startCol && col <= r.endCol && row >= r.startRow && row <= r.endRow
}

func regionUnion(a, b gridRegion) gridRegion {
	return gridRegion{
		startCol: vect.FMin(a.startCol, b.startCol),
		endCol:   vect.FMax(a.endCol, b.endCol),
		startRow: vect.FMin(a.startRow, b.startRow),
		endRow:   vect.FMax(a.endRow, b.endRow),
	}
}

type gridPair struct {
	CandidatePair
	//number of buckets the two bodies share.
	count int
}

//a uniform bucket grid. Each body is stored in every bucket its bounds
//touch, and every pair of bodies sharing a bucket is reference counted.
//Only bodies whose cell range changed are re-bucketed.
type Grid struct {
	BucketWidth, BucketHeight vect.Float

	buckets   map[bucketKey][]*Body
	regions   map[int]gridRegion
	pairs     map[PairID]*gridPair
	pairsList []CandidatePair
}

func NewGrid() *Grid {
	g := &Grid{BucketWidth: defaultBucketSize, BucketHeight: defaultBucketSize}
	g.Clear()
	return g
}

func (g *Grid) Clear() {
	g.buckets = make(map[bucketKey][]*Body)
	g.regions = make(map[int]gridRegion)
	g.pairs = make(map[PairID]*gridPair)
	g.pairsList = nil
}

func (g *Grid) Pairs() []CandidatePair {
	return g.pairsList
}

func (g *Grid) Update(bodies []*Body, clip AABB, force bool) {
	changed := force
	if force {
		g.Clear()
	}

	for _, body := range bodies {
		if body.isSleeping && !force {
			continue
		}

		b := body.bounds
		if !b.Lower.IsFinite() || !b.Upper.IsFinite() {
			continue
		}
		if b.Upper.X < clip.Lower.X || b.Lower.X > clip.Upper.X || b.Upper.Y < clip.Lower.Y || b.Lower.Y > clip.Upper.Y {
			continue
		}

		newRegion := g.region(body)
		oldRegion, known := g.regions[body.id]
		if known && newRegion == oldRegion {
			continue
		}

		fresh := !known
		if fresh {
			oldRegion = newRegion
		}

		union := regionUnion(newRegion, oldRegion)
		for col := union.startCol; col <= union.endCol; col++ {
			for row := union.startRow; row <= union.endRow; row++ {
				key := bucketKey{col, row}
				insideNew := newRegion.contains(col, row)
				insideOld := oldRegion.contains(col, row)

				if !insideNew && insideOld {
					g.removeFromBucket(key, body)
				}

				if fresh || (insideNew && !insideOld) {
					g.addToBucket(key, body)
				}
			}
		}

		g.regions[body.id] = newRegion
		changed = true
	}

	if changed {
		g.rebuildPairs()
	}
}

func (g *Grid) region(body *Body) gridRegion {
	b := body.bounds
	return gridRegion{
		startCol: int(math.Floor(float64(b.Lower.X / g.BucketWidth))),
		endCol:   int(math.Floor(float64(b.Upper.X / g.BucketWidth))),
		startRow: int(math.Floor(float64(b.Lower.Y / g.BucketHeight))),
		endRow:   int(math.Floor(float64(b.Upper.Y / g.BucketHeight))),
	}
}

func (g *Grid) addToBucket(key bucketKey, body *Body) {
	bucket := g.buckets[key]

	for _, other := range bucket {
		if other.id == body.id || (body.isStatic && other.isStatic) {
			continue
		}

		id := NewPairID(body.id, other.id)
		if pair, ok := g.pairs[id]; ok {
			pair.count++
		} else {
			g.pairs[id] = &gridPair{CandidatePair{body, other}, 1}
		}
	}

	g.buckets[key] = append(bucket, body)
}

func (g *Grid) removeFromBucket(key bucketKey, body *Body) {
	bucket, ok := g.buckets[key]
	if !ok {
		return
	}

	for i, b := range bucket {
		if b == body {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(g.buckets, key)
	} else {
		g.buckets[key] = bucket
	}

	for _, other := range bucket {
		if pair, ok := g.pairs[NewPairID(body.id, other.id)]; ok {
			pair.count--
		}
	}
}

//keeps pairs that still share a bucket, sorted by id, and drops the rest.
func (g *Grid) rebuildPairs() {
	ids := maps.Keys(g.pairs)
	slices.SortFunc(ids, comparePairIDs)

	g.pairsList = g.pairsList[:0]
	for _, id := range ids {
		pair := g.pairs[id]
		if pair.count > 0 {
			g.pairsList = append(g.pairsList, pair.CandidatePair)
		} else {
			delete(g.pairs, id)
		}
	}
}
