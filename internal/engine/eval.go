package engine

import (
	"github.com/PedroHContessoto/pelanca/internal/board"
)

// Tapered evaluation: middlegame and endgame scores are blended by a
// material phase so piece placement smoothly shifts meaning as the
// game simplifies.

var pieceValues = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Phase weights per piece type; a full board sums to 24.
var phaseWeights = [6]int{0, 1, 1, 2, 4, 0}

const maxPhase = 24

const (
	tempoBonus      = 10
	bishopPairBonus = 30

	isolatedPawnPenalty = 12
	doubledPawnPenalty  = 10

	rookOpenFileBonus     = 25
	rookSemiOpenFileBonus = 12
	rookOnSeventhBonus    = 20
)

// passedPawnBonus is indexed by relative rank of the pawn.
var passedPawnBonus = [8]int{0, 5, 10, 20, 35, 60, 100, 0}

// Piece-square tables, white oriented with A1 at index 0. Black reads
// them through Square.Mirror.
var pstMG = [6][64]int{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	{ // bishop
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	{ // rook
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // queen
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	{ // king
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

var pstEG = [6][64]int{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 5, 5, 5, 5, 5, 5, 5,
		10, 10, 10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20, 20, 20,
		40, 40, 40, 40, 40, 40, 40, 40,
		70, 70, 70, 70, 70, 70, 70, 70,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	{ // bishop
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	{ // rook
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 5, 5, 5, 5, 5, 5, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // queen
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 10, 10, 5, 0, -5,
		-5, 0, 5, 10, 10, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	{ // king
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-50, -40, -30, -20, -20, -30, -40, -50,
	},
}

// Evaluate scores the position in centipawns from the side to move's
// perspective. It is a pure function of the board.
func Evaluate(b *board.Board) int {
	return evaluate(b, nil)
}

// EvaluateCached is Evaluate with pawn structure terms served from pt.
func EvaluateCached(b *board.Board, pawns *PawnTable) int {
	return evaluate(b, pawns)
}

func evaluate(b *board.Board, pawns *PawnTable) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			for pieces := b.Pieces[c][pt]; pieces != 0; {
				sq := pieces.PopFirst()
				idx := sq
				if c == board.Black {
					idx = sq.Mirror()
				}
				mg += sign * (pieceValues[pt] + pstMG[pt][idx])
				eg += sign * (pieceValues[pt] + pstEG[pt][idx])
				phase += phaseWeights[pt]
			}
		}

		if (b.Pieces[c][board.Bishop]).Count() >= 2 {
			mg += sign * bishopPairBonus
			eg += sign * bishopPairBonus
		}

		rookMG, rookEG := rookTerms(b, c)
		mg += sign * rookMG
		eg += sign * rookEG
	}

	pawnMG, pawnEG := pawnTerms(b, pawns)
	mg += pawnMG
	eg += pawnEG

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if b.SideToMove == board.Black {
		score = -score
	}
	return score + tempoBonus
}

func rookTerms(b *board.Board, c board.Color) (mg, eg int) {
	ourPawns := b.Pieces[c][board.Pawn]
	theirPawns := b.Pieces[c.Flip()][board.Pawn]
	seventh := board.Rank7
	if c == board.Black {
		seventh = board.Rank2
	}
	for rooks := b.Pieces[c][board.Rook]; rooks != 0; {
		sq := rooks.PopFirst()
		file := board.FileMasks[sq.File()]
		switch {
		case file&(ourPawns|theirPawns) == 0:
			mg += rookOpenFileBonus
			eg += rookOpenFileBonus / 2
		case file&ourPawns == 0:
			mg += rookSemiOpenFileBonus
			eg += rookSemiOpenFileBonus / 2
		}
		if board.Bit(sq)&seventh != 0 {
			mg += rookOnSeventhBonus
			eg += rookOnSeventhBonus
		}
	}
	return mg, eg
}

// pawnTerms returns white-relative pawn structure scores, cached by
// pawn key when a table is supplied.
func pawnTerms(b *board.Board, pawns *PawnTable) (mg, eg int) {
	if pawns != nil {
		if e, ok := pawns.Probe(b.PawnKey); ok {
			return e.mg, e.eg
		}
	}
	mg, eg = evalPawnsFor(b, board.White)
	bmg, beg := evalPawnsFor(b, board.Black)
	mg -= bmg
	eg -= beg
	if pawns != nil {
		pawns.Store(b.PawnKey, mg, eg)
	}
	return mg, eg
}

func evalPawnsFor(b *board.Board, c board.Color) (mg, eg int) {
	ourPawns := b.Pieces[c][board.Pawn]
	theirPawns := b.Pieces[c.Flip()][board.Pawn]

	for pawns := ourPawns; pawns != 0; {
		sq := pawns.PopFirst()
		f := sq.File()

		var adjacent board.Bitboard
		if f > 0 {
			adjacent |= board.FileMasks[f-1]
		}
		if f < 7 {
			adjacent |= board.FileMasks[f+1]
		}
		if adjacent&ourPawns == 0 {
			mg -= isolatedPawnPenalty
			eg -= isolatedPawnPenalty
		}

		if (board.FileMasks[f]&ourPawns).Count() > 1 {
			mg -= doubledPawnPenalty
			eg -= doubledPawnPenalty
		}

		if theirPawns&passedMask(sq, c) == 0 {
			rel := sq.Rank()
			if c == board.Black {
				rel = 7 - rel
			}
			mg += passedPawnBonus[rel] / 2
			eg += passedPawnBonus[rel]
		}
	}
	return mg, eg
}

// passedMask covers the squares in front of a pawn on its own and the
// two adjacent files; an enemy pawn there stops it counting as passed.
func passedMask(sq board.Square, c board.Color) board.Bitboard {
	f := sq.File()
	span := board.FileMasks[f]
	if f > 0 {
		span |= board.FileMasks[f-1]
	}
	if f < 7 {
		span |= board.FileMasks[f+1]
	}
	if c == board.White {
		for r := 0; r <= sq.Rank(); r++ {
			span &^= board.RankMasks[r]
		}
	} else {
		for r := 7; r >= sq.Rank(); r-- {
			span &^= board.RankMasks[r]
		}
	}
	return span
}
