package board

// Fancy magic bitboards for the sliding pieces. Each square carries a
// perfect-hash multiplier mapping the masked relevant occupancy to an
// index into a shared attack table. The tables are built once at init
// from the slow ray-walkers below and never written again, so every hit
// on the hot path is a mask, a multiply, a shift and a load.

type magicEntry struct {
	mask   Bitboard
	factor uint64
	shift  uint8
	offset uint32
}

var (
	bishopMagics [64]magicEntry
	rookMagics   [64]magicEntry

	bishopAttackTable [5248]Bitboard
	rookAttackTable   [102400]Bitboard
)

// Published magic factors; each yields a collision-free mapping for its
// square's relevant occupancy subsets.
var bishopFactors = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookFactors = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

func initMagics() {
	var bishopOffset, rookOffset uint32

	for sq := A1; sq <= H8; sq++ {
		bishopOffset += buildMagic(&bishopMagics[sq], sq, bishopFactors[sq],
			bishopOffset, bishopRelevantMask(sq), bishopAttacksSlow, bishopAttackTable[:])
		rookOffset += buildMagic(&rookMagics[sq], sq, rookFactors[sq],
			rookOffset, rookRelevantMask(sq), rookAttacksSlow, rookAttackTable[:])
	}
}

// buildMagic fills one square's magic entry and its slice of the attack
// table, enumerating every subset of the relevant mask. Returns the
// number of table entries consumed.
func buildMagic(entry *magicEntry, sq Square, factor uint64, offset uint32,
	mask Bitboard, slow func(Square, Bitboard) Bitboard, table []Bitboard) uint32 {

	bits := mask.Count()
	*entry = magicEntry{
		mask:   mask,
		factor: factor,
		shift:  uint8(64 - bits),
		offset: offset,
	}

	size := uint32(1) << bits
	// Carry-Rippler subset enumeration visits every occupancy subset.
	occ := Bitboard(0)
	for {
		idx := (uint64(occ) * factor) >> (64 - bits)
		table[offset+uint32(idx)] = slow(sq, occ)
		occ = (occ - mask) & mask
		if occ == 0 {
			break
		}
	}
	return size
}

// bishopRelevantMask is the bishop's reachable interior; edge squares
// never change the attack set so they are excluded from the hash.
func bishopRelevantMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) &^ (Rank1 | Rank8 | FileA | FileH)
}

func rookRelevantMask(sq Square) Bitboard {
	var mask Bitboard
	file, rank := sq.File(), sq.Rank()
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= Bit(SquareAt(f, rank))
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= Bit(SquareAt(file, r))
		}
	}
	return mask
}

func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return walkRay(sq, occupied, 1, 1) | walkRay(sq, occupied, 1, -1) |
		walkRay(sq, occupied, -1, 1) | walkRay(sq, occupied, -1, -1)
}

func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return walkRay(sq, occupied, 1, 0) | walkRay(sq, occupied, -1, 0) |
		walkRay(sq, occupied, 0, 1) | walkRay(sq, occupied, 0, -1)
}

// walkRay traces one direction until the edge or the first blocker,
// inclusive. Only used while building the tables.
func walkRay(sq Square, occupied Bitboard, df, dr int) Bitboard {
	var attacks Bitboard
	f, r := sq.File()+df, sq.Rank()+dr
	for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
		s := SquareAt(f, r)
		attacks |= Bit(s)
		if occupied.Has(s) {
			break
		}
		f += df
		r += dr
	}
	return attacks
}
