package purgatory

//two bodies whose bounds share at least one broadphase cell.
type CandidatePair struct {
	BodyA, BodyB *Body
}

//a broadphase narrows all body pairs down to candidates for the detector.
type Broadphase interface {
	//re-indexes bodies. force rebuilds the index from scratch, sleeping bodies
	//included, and is used after the world changed structurally. Bodies
	//outside clip are skipped.
	Update(bodies []*Body, clip AABB, force bool)
	//forgets all indexed state.
	Clear()
	//candidate pairs found by the last update, in a deterministic order.
	Pairs() []CandidatePair
}

//identity of an unordered body pair, A is always the lower id.
type PairID struct {
	A, B int
}

func NewPairID(a, b int) PairID {
	if a < b {
		return PairID{a, b}
	}
	return PairID{b, a}
}

func pairIDLess(a, b PairID) bool {
	if a.A != b.A {
		return a.A < b.A
	}
	return a.B < b.B
}

func comparePairIDs(a, b PairID) int {
	switch {
	case pairIDLess(a, b):
		return -1
	case pairIDLess(b, a):
		return 1
	}
	return 0
}
