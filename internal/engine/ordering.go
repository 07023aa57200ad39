package engine

import (
	"github.com/PedroHContessoto/pelanca/internal/board"
)

// Move ordering scores. Hash move first, then winning captures by
// MVV-LVA, killers, and finally quiets by history.
const (
	scoreTTMove      = 1 << 24
	scoreGoodCapture = 1 << 20
	scoreKiller1     = 1<<20 - 1
	scoreKiller2     = 1<<20 - 2
	scoreBadCapture  = -(1 << 20)
	historyMax       = 1 << 14
)

// mvvLVA[victim][attacker]: most valuable victim first, least valuable
// attacker as tiebreak.
var mvvLVA = func() [7][7]int {
	var t [7][7]int
	for victim := board.Pawn; victim <= board.Queen; victim++ {
		for attacker := board.Pawn; attacker <= board.King; attacker++ {
			t[victim][attacker] = int(victim)*100 - int(attacker)
		}
	}
	return t
}()

// killers holds the two most recent quiet fail-high moves per ply.
type killers [MaxPly][2]board.Move

func (k *killers) add(ply int, m board.Move) {
	if k[ply][0] != m {
		k[ply][1] = k[ply][0]
		k[ply][0] = m
	}
}

func (k *killers) clear() {
	*k = killers{}
}

// historyTable tracks quiet move success per color and from/to square.
type historyTable [2][64][64]int

func (h *historyTable) add(c board.Color, m board.Move, depth int) {
	entry := &h[c][m.From()][m.To()]
	*entry += depth * depth
	if *entry > historyMax {
		*entry = historyMax
	}
}

func (h *historyTable) get(c board.Color, m board.Move) int {
	return h[c][m.From()][m.To()]
}

func (h *historyTable) clear() {
	*h = historyTable{}
}

// scoreMoves assigns an ordering score to each move in ml. Captures
// are split into winning and losing by SEE so that losing captures
// sort behind every quiet.
func (w *worker) scoreMoves(b *board.Board, ml *board.MoveList, ttMove board.Move, ply int, scores []int) {
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		switch {
		case m == ttMove:
			scores[i] = scoreTTMove
		case m.IsCapture(b) || m.IsPromotion():
			victim := b.PieceAt(m.To()).Type()
			if m.IsEnPassant() {
				victim = board.Pawn
			}
			attacker := b.PieceAt(m.From()).Type()
			base := scoreGoodCapture
			if SEE(b, m) < 0 {
				base = scoreBadCapture
			}
			scores[i] = base + mvvLVA[victim][attacker]
			if m.IsPromotion() {
				scores[i] += int(m.Promotion()) * 10
			}
		case m == w.killers[ply][0]:
			scores[i] = scoreKiller1
		case m == w.killers[ply][1]:
			scores[i] = scoreKiller2
		default:
			scores[i] = w.history.get(b.SideToMove, m)
		}
	}
}

// scoreCaptures is the quiescence variant: MVV-LVA only, SEE filtering
// happens at the probe site.
func scoreCaptures(b *board.Board, ml *board.MoveList, scores []int) {
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		victim := b.PieceAt(m.To()).Type()
		if m.IsEnPassant() {
			victim = board.Pawn
		}
		attacker := b.PieceAt(m.From()).Type()
		scores[i] = mvvLVA[victim][attacker]
		if m.IsPromotion() {
			scores[i] += int(m.Promotion()) * 10
		}
	}
}

// pickMove selects the best remaining move at index i by one step of
// selection sort, so sorting cost is only paid for moves actually
// searched.
func pickMove(ml *board.MoveList, scores []int, i int) board.Move {
	best := i
	for j := i + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		ml.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]
	}
	return ml.Get(i)
}
