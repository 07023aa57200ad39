package board

// Zobrist keys for incremental position hashing. Generated once from a
// fixed seed so hashes are stable across runs and machines.
var (
	zobristPiece    [2][6][64]uint64
	zobristCastling [16]uint64
	zobristEPFile   [8]uint64
	zobristSide     uint64
)

// xorshift64* generator, seeded deterministically.
type zobristRNG struct {
	s uint64
}

func (r *zobristRNG) next() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := zobristRNG{s: 0x1D872B41C6A9F30E}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	for f := range zobristEPFile {
		zobristEPFile[f] = rng.next()
	}
	zobristSide = rng.next()
}

// ComputeHash recomputes the Zobrist hash of the position from scratch.
// The hot path maintains the hash incrementally in MakeMove; this exists
// for FEN parsing and for consistency checks in tests.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.Pieces[c][pt]
			for bb != 0 {
				h ^= zobristPiece[c][pt][bb.PopFirst()]
			}
		}
	}
	h ^= zobristCastling[b.Castling]
	if b.EnPassant != NoSquare {
		h ^= zobristEPFile[b.EnPassant.File()]
	}
	if b.SideToMove == Black {
		h ^= zobristSide
	}
	return h
}

// ComputePawnKey recomputes the pawn-structure hash from scratch. Only
// pawn placement contributes; the engine's pawn cache is keyed by it.
func (b *Board) ComputePawnKey() uint64 {
	var k uint64
	for c := White; c <= Black; c++ {
		bb := b.Pieces[c][Pawn]
		for bb != 0 {
			k ^= zobristPiece[c][Pawn][bb.PopFirst()]
		}
	}
	return k
}
