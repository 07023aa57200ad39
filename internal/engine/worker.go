package engine

import (
	"sync/atomic"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

// worker is one independent searcher. Workers share only the
// transposition table, the stop flag and the global node counter;
// board, heuristic tables and pawn cache are private, so the search
// itself is communication-free.
type worker struct {
	id int
	b  *board.Board

	tt      *TranspositionTable
	stop    *atomic.Bool
	total   *atomic.Uint64
	nodeCap uint64
	tm      *TimeManager // only the primary worker watches the clock

	pawns   *PawnTable
	killers killers
	history historyTable
	pv      PVTable

	// hashes holds every position key from game start through the
	// current search path, for repetition detection.
	hashes []uint64

	nodes   uint64
	batch   uint64
	aborted bool

	// plain disables every pruning, reduction and extension beyond the
	// alpha-beta window itself and evaluates statically at the horizon,
	// reducing negamax to textbook alpha-beta for equivalence tests.
	plain bool

	report func(searchResult)
}

// searchResult is one completed iteration.
type searchResult struct {
	depth int
	score int
	move  board.Move
	pv    []board.Move
	nodes uint64
}

// iterate runs the iterative deepening loop until the depth limit, a
// stop request or the soft time deadline. Helpers with odd ids start
// one ply deeper so the pool spreads across depths.
func (w *worker) iterate(maxDepth int) searchResult {
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}
	var result searchResult
	prevScore := 0
	stability := 0

	for depth := 1 + w.id%2; depth <= maxDepth; depth++ {
		score, ok := w.searchRoot(depth, prevScore)
		if !ok {
			break
		}
		line := w.pv.Line()
		if len(line) == 0 {
			break
		}
		if result.move == line[0] {
			stability++
		} else {
			stability = 0
		}
		result = searchResult{depth: depth, score: score, move: line[0], pv: line, nodes: w.nodes}
		prevScore = score
		if w.report != nil {
			w.report(result)
		}
		if w.stop.Load() {
			break
		}
		if w.tm != nil && w.tm.SoftStop(stability) {
			w.stop.Store(true)
			break
		}
	}

	w.total.Add(w.batch)
	w.batch = 0
	result.nodes = w.nodes
	return result
}

// searchRoot searches one depth inside an aspiration window, widening
// geometrically on failure. Shallow depths use the full window since
// the previous score is still noisy.
func (w *worker) searchRoot(depth, prevScore int) (int, bool) {
	alpha, beta := -Infinity, Infinity
	window := 50
	if depth > 4 {
		alpha, beta = prevScore-window, prevScore+window
	}
	for {
		w.aborted = false
		score := w.negamax(w.b, depth, 0, alpha, beta, true, true)
		if w.aborted {
			return 0, false
		}
		switch {
		case score <= alpha:
			alpha -= window
			window *= 2
			if alpha < -Infinity {
				alpha = -Infinity
			}
		case score >= beta:
			beta += window
			window *= 2
			if beta > Infinity {
				beta = Infinity
			}
		default:
			return score, true
		}
	}
}

// nodeTick counts a node and periodically flushes to the shared
// counter, where the node cap and clock are enforced.
func (w *worker) nodeTick() {
	w.nodes++
	w.batch++
	if w.batch >= 4096 {
		w.total.Add(w.batch)
		w.batch = 0
		if w.nodeCap > 0 && w.total.Load() >= w.nodeCap {
			w.stop.Store(true)
		}
		if w.tm != nil && w.tm.HardStop() {
			w.stop.Store(true)
		}
	}
}

// isRepetition reports whether the current position occurred before
// within the reach of the halfmove clock. A single prior occurrence
// counts: if the opponent can force the position once they can force
// it twice.
func (w *worker) isRepetition(b *board.Board) bool {
	n := len(w.hashes)
	limit := n - 1 - b.HalfMoveClock
	if limit < 0 {
		limit = 0
	}
	for i := n - 3; i >= limit; i -= 2 {
		if w.hashes[i] == b.Hash {
			return true
		}
	}
	return false
}

func (w *worker) negamax(b *board.Board, depth, ply, alpha, beta int, isPV, nullAllowed bool) int {
	w.pv.reset(ply)
	w.nodeTick()
	if w.stop.Load() {
		w.aborted = true
		return 0
	}
	if ply >= MaxPly-1 {
		return EvaluateCached(b, w.pawns)
	}

	if ply > 0 {
		if b.HalfMoveClock >= 100 || b.InsufficientMaterial() || w.isRepetition(b) {
			return drawScore
		}
		// Mate distance pruning: no line from here can beat a mate
		// already found closer to the root.
		if !w.plain {
			if a := -MateScore + ply; a > alpha {
				alpha = a
			}
			if bnd := MateScore - ply - 1; bnd < beta {
				beta = bnd
			}
			if alpha >= beta {
				return alpha
			}
		}
	}

	inCheck := b.InCheck()
	if inCheck && !w.plain {
		depth++
	}
	if depth <= 0 {
		if w.plain {
			return EvaluateCached(b, w.pawns)
		}
		return w.qsearch(b, ply, alpha, beta)
	}

	ttMove := board.NullMove
	if e, ok := w.tt.Probe(b.Hash, ply); ok && !w.plain {
		ttMove = e.Move
		if !isPV && e.Depth >= depth {
			switch e.Bound {
			case BoundExact:
				return e.Score
			case BoundLower:
				if e.Score >= beta {
					return e.Score
				}
			case BoundUpper:
				if e.Score <= alpha {
					return e.Score
				}
			}
		}
	}

	staticEval := EvaluateCached(b, w.pawns)

	if !w.plain && !isPV && !inCheck && nullAllowed && depth >= 3 &&
		staticEval >= beta && b.HasNonPawnMaterial() {
		r := 2 + depth/4
		undo := b.MakeNull()
		w.hashes = append(w.hashes, b.Hash)
		score := -w.negamax(b, depth-1-r, ply+1, -beta, -beta+1, false, false)
		w.hashes = w.hashes[:len(w.hashes)-1]
		b.UnmakeNull(undo)
		if w.aborted {
			return 0
		}
		if score >= beta {
			// A null-move mate is not trusted, only the cutoff is.
			if IsMateScore(score) {
				score = beta
			}
			return score
		}
	}

	futile := !w.plain && !isPV && !inCheck && depth <= 3 &&
		staticEval+120*depth+80 <= alpha

	var ml board.MoveList
	b.GenerateLegalMoves(&ml)
	if ml.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return drawScore
	}

	var scores [256]int
	w.scoreMoves(b, &ml, ttMove, ply, scores[:ml.Len()])

	bestScore := -Infinity
	bestMove := board.NullMove
	bound := BoundUpper

	for i := 0; i < ml.Len(); i++ {
		m := pickMove(&ml, scores[:ml.Len()], i)
		isQuiet := !m.IsCapture(b) && !m.IsPromotion()

		if futile && isQuiet && i > 0 && bestScore > -Infinity {
			continue
		}

		undo := b.MakeMove(m)
		w.hashes = append(w.hashes, b.Hash)

		var score int
		if i == 0 || w.plain {
			score = -w.negamax(b, depth-1, ply+1, -beta, -alpha, isPV, true)
		} else {
			r := 0
			if depth >= 3 && i >= 3 && isQuiet && !inCheck {
				r = lmrReduction(depth, i)
				if isPV && r > 0 {
					r--
				}
				if r > depth-2 {
					r = depth - 2
				}
				if r < 0 {
					r = 0
				}
			}
			score = -w.negamax(b, depth-1-r, ply+1, -alpha-1, -alpha, false, true)
			if score > alpha && r > 0 {
				score = -w.negamax(b, depth-1, ply+1, -alpha-1, -alpha, false, true)
			}
			if score > alpha && score < beta && isPV {
				score = -w.negamax(b, depth-1, ply+1, -beta, -alpha, true, true)
			}
		}

		w.hashes = w.hashes[:len(w.hashes)-1]
		b.UnmakeMove(m, undo)
		if w.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				if isPV {
					w.pv.update(ply, m)
				}
				if alpha >= beta {
					bound = BoundLower
					if isQuiet {
						w.killers.add(ply, m)
						w.history.add(b.SideToMove, m, depth)
					}
					break
				}
			}
		}
	}

	w.tt.Store(b.Hash, bestMove, bestScore, depth, ply, bound)
	return bestScore
}

// qsearch resolves captures until the position is quiet. In check it
// searches every evasion instead, since standing pat in check is not
// an option.
func (w *worker) qsearch(b *board.Board, ply, alpha, beta int) int {
	w.nodeTick()
	if w.stop.Load() {
		w.aborted = true
		return 0
	}
	if ply >= MaxPly-1 {
		return EvaluateCached(b, w.pawns)
	}

	inCheck := b.InCheck()
	bestScore := -Infinity

	if !inCheck {
		standPat := EvaluateCached(b, w.pawns)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		bestScore = standPat
	}

	var ml board.MoveList
	if inCheck {
		b.GenerateLegalMoves(&ml)
		if ml.Len() == 0 {
			return -MateScore + ply
		}
	} else {
		b.GenerateCaptures(&ml)
	}

	var scores [256]int
	scoreCaptures(b, &ml, scores[:ml.Len()])

	for i := 0; i < ml.Len(); i++ {
		m := pickMove(&ml, scores[:ml.Len()], i)

		if !inCheck {
			if SEE(b, m) < 0 {
				continue
			}
			// Delta pruning: even winning this piece cannot lift the
			// score back to alpha.
			victim := b.PieceAt(m.To()).Type()
			if m.IsEnPassant() {
				victim = board.Pawn
			}
			if !m.IsPromotion() && victim != board.NoPieceType &&
				bestScore+seeValues[victim]+200 <= alpha {
				continue
			}
		}

		undo := b.MakeMove(m)
		w.hashes = append(w.hashes, b.Hash)
		score := -w.qsearch(b, ply+1, -beta, -alpha)
		w.hashes = w.hashes[:len(w.hashes)-1]
		b.UnmakeMove(m, undo)
		if w.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				if alpha >= beta {
					break
				}
			}
		}
	}

	return bestScore
}
