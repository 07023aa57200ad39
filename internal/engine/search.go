package engine

import (
	"math"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

const (
	// Infinity bounds the alpha-beta window; MateScore is the value of
	// mate at the root, decreasing with distance so nearer mates win.
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	drawScore = 0
)

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore-MaxPly || score <= -MateScore+MaxPly
}

// MateIn converts a mate score to moves until mate, negative when the
// side to move is being mated.
func MateIn(score int) int {
	if score > 0 {
		return (MateScore - score + 1) / 2
	}
	return -(MateScore + score + 1) / 2
}

// PVTable collects the principal variation triangularly: row ply holds
// the line proven best from that ply.
type PVTable struct {
	moves  [MaxPly][MaxPly]board.Move
	length [MaxPly]int
}

func (pv *PVTable) reset(ply int) {
	pv.length[ply] = 0
}

// update records m as the best move at ply, appending the line found
// one ply deeper.
func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][0] = m
	copy(pv.moves[ply][1:], pv.moves[ply+1][:pv.length[ply+1]])
	pv.length[ply] = pv.length[ply+1] + 1
}

// Line returns the principal variation from the root.
func (pv *PVTable) Line() []board.Move {
	line := make([]board.Move, pv.length[0])
	copy(line, pv.moves[0][:pv.length[0]])
	return line
}

// lmrTable[depth][moveNumber] is the log-log reduction applied to late
// quiet moves.
var lmrTable = func() [64][64]int {
	var t [64][64]int
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			t[d][m] = int(0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25)
		}
	}
	return t
}()

func lmrReduction(depth, moveNumber int) int {
	if depth > 63 {
		depth = 63
	}
	if moveNumber > 63 {
		moveNumber = 63
	}
	return lmrTable[depth][moveNumber]
}
