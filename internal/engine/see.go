package engine

import (
	"github.com/PedroHContessoto/pelanca/internal/board"
)

var seeValues = [7]int{100, 320, 330, 500, 900, 20000, 0}

// SEE returns the static exchange evaluation of m in centipawns: the
// material outcome of the full capture sequence on the target square,
// assuming both sides always recapture with their least valuable
// attacker. X-ray attackers are revealed as blockers leave.
func SEE(b *board.Board, m board.Move) int {
	from, to := m.From(), m.To()

	var gain [32]int
	depth := 0

	captured := b.PieceAt(to).Type()
	if m.IsEnPassant() {
		captured = board.Pawn
	}
	gain[0] = 0
	if captured != board.NoPieceType {
		gain[0] = seeValues[captured]
	}

	attacker := b.PieceAt(from).Type()
	if m.IsPromotion() {
		gain[0] += seeValues[m.Promotion()] - seeValues[board.Pawn]
		attacker = m.Promotion()
	}

	occupied := b.AllOccupied &^ board.Bit(from)
	if m.IsEnPassant() {
		capSq := to - 8
		if b.SideToMove == board.Black {
			capSq = to + 8
		}
		occupied &^= board.Bit(capSq)
	}

	side := b.SideToMove.Flip()
	attackers := allAttackersTo(b, to, occupied) & occupied

	for {
		us := attackers & b.Occupied[side] & occupied
		if us == 0 {
			break
		}
		next, nextBB := leastValuableAttacker(b, us)
		depth++
		gain[depth] = seeValues[attacker] - gain[depth-1]

		// If both capturing and standing pat lose here, the side to
		// move before this capture already has its value; the
		// speculative last gain must not enter the unwind.
		if max(-gain[depth-1], gain[depth]) < 0 {
			depth--
			break
		}

		occupied &^= nextBB
		attackers |= xrayAttackersTo(b, to, occupied)
		attacker = next
		side = side.Flip()
	}

	for depth > 0 {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
		depth--
	}
	return gain[0]
}

// allAttackersTo collects attackers of both colors to sq under the
// given occupancy.
func allAttackersTo(b *board.Board, sq board.Square, occupied board.Bitboard) board.Bitboard {
	return b.AttackersTo(sq, board.White, occupied) | b.AttackersTo(sq, board.Black, occupied)
}

// xrayAttackersTo returns slider attacks to sq that the current
// occupancy exposes. Leapers never x-ray.
func xrayAttackersTo(b *board.Board, sq board.Square, occupied board.Bitboard) board.Bitboard {
	bishops := b.Pieces[board.White][board.Bishop] | b.Pieces[board.Black][board.Bishop] |
		b.Pieces[board.White][board.Queen] | b.Pieces[board.Black][board.Queen]
	rooks := b.Pieces[board.White][board.Rook] | b.Pieces[board.Black][board.Rook] |
		b.Pieces[board.White][board.Queen] | b.Pieces[board.Black][board.Queen]
	return (board.BishopAttacks(sq, occupied)&bishops |
		board.RookAttacks(sq, occupied)&rooks) & occupied
}

// leastValuableAttacker picks the cheapest piece among the attackers.
func leastValuableAttacker(b *board.Board, attackers board.Bitboard) (board.PieceType, board.Bitboard) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		subset := attackers & (b.Pieces[board.White][pt] | b.Pieces[board.Black][pt])
		if subset != 0 {
			return pt, board.Bit(subset.First())
		}
	}
	return board.NoPieceType, 0
}
