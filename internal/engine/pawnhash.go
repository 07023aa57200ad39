package engine

// PawnTable caches pawn structure scores by pawn key. Each worker owns
// one, so no synchronization is needed.
type PawnTable struct {
	entries []pawnEntry
	mask    uint64
}

type pawnEntry struct {
	key    uint64
	mg, eg int
}

const pawnTableSize = 1 << 14 // entries, power of two

// NewPawnTable allocates an empty pawn table.
func NewPawnTable() *PawnTable {
	return &PawnTable{
		entries: make([]pawnEntry, pawnTableSize),
		mask:    pawnTableSize - 1,
	}
}

// Probe looks up the cached scores for key.
func (pt *PawnTable) Probe(key uint64) (pawnEntry, bool) {
	e := pt.entries[key&pt.mask]
	if e.key != key || key == 0 {
		return pawnEntry{}, false
	}
	return e, true
}

// Store records the scores for key, always replacing.
func (pt *PawnTable) Store(key uint64, mg, eg int) {
	pt.entries[key&pt.mask] = pawnEntry{key: key, mg: mg, eg: eg}
}
