package board

// Precomputed attack tables for the non-sliding pieces, plus the
// between/line geometry used for pins and check evasion. All tables are
// filled once at package init and are read-only afterwards, so search
// threads share them without synchronization.
var (
	knightAttackTable [64]Bitboard
	kingAttackTable   [64]Bitboard
	pawnAttackTable   [2][64]Bitboard

	betweenTable [64][64]Bitboard // squares strictly between two aligned squares
	lineTable    [64][64]Bitboard // full line through two aligned squares
)

func init() {
	initZobrist()
	initLeaperTables()
	initRayTables()
	initMagics()
}

func initLeaperTables() {
	for sq := A1; sq <= H8; sq++ {
		bb := Bit(sq)

		knightAttackTable[sq] = (bb<<17)&notFileA |
			(bb<<15)&notFileH |
			(bb>>17)&notFileH |
			(bb>>15)&notFileA |
			(bb<<10)&notFileAB |
			(bb<<6)&notFileGH |
			(bb>>10)&notFileGH |
			(bb>>6)&notFileAB

		kingAttackTable[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttackTable[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttackTable[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initRayTables() {
	dirs := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for from := A1; from <= H8; from++ {
		for _, d := range dirs {
			// Walk the ray, recording between/line for every square hit.
			var ray Bitboard
			f, r := from.File()+d[0], from.Rank()+d[1]
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				to := SquareAt(f, r)
				betweenTable[from][to] = ray
				ray |= Bit(to)
				f += d[0]
				r += d[1]
			}
		}
	}
	// Full lines extend the ray through both endpoints.
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if a == b {
				continue
			}
			df := sign(b.File() - a.File())
			dr := sign(b.Rank() - a.Rank())
			aligned := df == 0 || dr == 0 || abs(b.File()-a.File()) == abs(b.Rank()-a.Rank())
			if !aligned {
				continue
			}
			var line Bitboard
			f, r := a.File(), a.Rank()
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				line |= Bit(SquareAt(f, r))
				f -= df
				r -= dr
			}
			f, r = a.File()+df, a.Rank()+dr
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				line |= Bit(SquareAt(f, r))
				f += df
				r += dr
			}
			lineTable[a][b] = line
		}
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard { return knightAttackTable[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard { return kingAttackTable[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttackTable[c][sq] }

// BishopAttacks returns bishop attacks from sq given the occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return bishopAttackTable[m.offset+uint32((uint64(occupied&m.mask)*m.factor)>>m.shift)]
}

// RookAttacks returns rook attacks from sq given the occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	return rookAttackTable[m.offset+uint32((uint64(occupied&m.mask)*m.factor)>>m.shift)]
}

// QueenAttacks returns queen attacks from sq given the occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the squares strictly between two aligned squares,
// empty when they do not share a rank, file or diagonal.
func Between(a, b Square) Bitboard { return betweenTable[a][b] }

// Line returns the full line through two aligned squares.
func Line(a, b Square) Bitboard { return lineTable[a][b] }

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool { return lineTable[a][b].Has(c) }

// AttackersTo returns every piece of color c that attacks sq under the
// given occupancy. Passing a modified occupancy exposes x-ray attackers,
// which SEE and king-move legality rely on.
func (b *Board) AttackersTo(sq Square, c Color, occupied Bitboard) Bitboard {
	return pawnAttackTable[c.Flip()][sq]&b.Pieces[c][Pawn] |
		knightAttackTable[sq]&b.Pieces[c][Knight] |
		kingAttackTable[sq]&b.Pieces[c][King] |
		BishopAttacks(sq, occupied)&(b.Pieces[c][Bishop]|b.Pieces[c][Queen]) |
		RookAttacks(sq, occupied)&(b.Pieces[c][Rook]|b.Pieces[c][Queen])
}

// IsAttacked reports whether sq is attacked by any piece of color c.
func (b *Board) IsAttacked(sq Square, c Color) bool {
	return b.AttackersTo(sq, c, b.AllOccupied) != 0
}
