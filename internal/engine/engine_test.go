package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(zerolog.Nop())
	if err := e.SetHashSize(8); err != nil {
		t.Fatalf("SetHashSize: %v", err)
	}
	return e
}

func searchFEN(t *testing.T, e *Engine, fen string, limits Limits) Result {
	t.Helper()
	if err := e.SetPosition(fen, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	r, err := e.Search(context.Background(), limits)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return r
}

func TestSearchFindsMateInOne(t *testing.T) {
	e := newTestEngine(t)
	r := searchFEN(t, e, "7k/5K2/8/8/8/8/8/6R1 w - - 0 1", Limits{Depth: 5})
	if want := "g1h1"; r.BestMove.String() != want {
		t.Errorf("bestmove = %s, want %s", r.BestMove, want)
	}
	if r.Score != MateScore-1 {
		t.Errorf("score = %d, want mate in 1 (%d)", r.Score, MateScore-1)
	}
	if MateIn(r.Score) != 1 {
		t.Errorf("MateIn = %d, want 1", MateIn(r.Score))
	}
}

func TestSearchFindsMateInTwo(t *testing.T) {
	e := newTestEngine(t)
	r := searchFEN(t, e, "7k/8/8/8/8/8/R7/1R4K1 w - - 0 1", Limits{Depth: 6})
	if r.Score != MateScore-3 {
		t.Errorf("score = %d, want mate in 2 (%d)", r.Score, MateScore-3)
	}
	if MateIn(r.Score) != 2 {
		t.Errorf("MateIn = %d, want 2", MateIn(r.Score))
	}
}

func TestSearchPrefersFreeQueen(t *testing.T) {
	e := newTestEngine(t)
	// A queen hangs on d5; any reasonable depth must take it.
	r := searchFEN(t, e, "7k/8/8/3q4/8/8/3R4/7K w - - 0 1", Limits{Depth: 6})
	if want := "d2d5"; r.BestMove.String() != want {
		t.Errorf("bestmove = %s, want %s", r.BestMove, want)
	}
}

func TestSearchOnTerminalPositions(t *testing.T) {
	e := newTestEngine(t)

	// Checkmated: no move to return.
	r := searchFEN(t, e, "4R2k/6pp/8/8/8/8/8/6K1 b - - 0 1", Limits{Depth: 3})
	if r.BestMove != board.NullMove {
		t.Errorf("bestmove in checkmate = %s, want null", r.BestMove)
	}
	if r.Score != -MateScore {
		t.Errorf("score in checkmate = %d, want %d", r.Score, -MateScore)
	}

	// Stalemated: draw score, no move.
	r = searchFEN(t, e, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Limits{Depth: 3})
	if r.BestMove != board.NullMove || r.Score != drawScore {
		t.Errorf("stalemate result = %+v", r)
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	e := newTestEngine(t)
	r := searchFEN(t, e, board.StartFEN, Limits{Depth: 4})
	if r.Depth > 4 {
		t.Errorf("depth = %d, want <= 4", r.Depth)
	}
	if r.BestMove == board.NullMove {
		t.Error("no best move returned")
	}
	if r.Nodes == 0 {
		t.Error("no nodes counted")
	}
}

func TestSearchCancellation(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetPosition(board.StartFEN, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	r, err := e.Search(ctx, Limits{Infinite: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("search ignored cancellation, ran %v", elapsed)
	}
	var ml board.MoveList
	e.Board().GenerateLegalMoves(&ml)
	if !ml.Contains(r.BestMove) {
		t.Errorf("cancelled search returned illegal move %s", r.BestMove)
	}
}

func TestSearchMultiThreaded(t *testing.T) {
	e := newTestEngine(t)
	e.SetThreads(4)
	r := searchFEN(t, e, "7k/8/8/8/8/8/R7/1R4K1 w - - 0 1", Limits{Depth: 7})
	if r.Score != MateScore-3 {
		t.Errorf("SMP score = %d, want mate in 2 (%d)", r.Score, MateScore-3)
	}
	var ml board.MoveList
	e.Board().GenerateLegalMoves(&ml)
	if !ml.Contains(r.BestMove) {
		t.Errorf("SMP search returned illegal move %s", r.BestMove)
	}
}

func TestSearchAppliedMoves(t *testing.T) {
	e := newTestEngine(t)
	err := e.SetPosition(board.StartFEN, []string{"e2e4", "e7e5", "g1f3"})
	if err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if e.Board().SideToMove != board.Black {
		t.Errorf("side to move = %v, want black", e.Board().SideToMove)
	}
	if err := e.SetPosition(board.StartFEN, []string{"e2e5"}); err == nil {
		t.Error("expected error for illegal move")
	}
}

func TestHalfmoveClockDraw(t *testing.T) {
	e := newTestEngine(t)
	// KQ vs KR with the clock at 99: every quiet reply reaches a draw.
	r := searchFEN(t, e, "k7/1r6/8/8/8/8/1Q6/K7 b - - 99 80", Limits{Depth: 4})
	if r.Score != drawScore {
		t.Errorf("score with clock at 99 = %d, want draw", r.Score)
	}
}

func TestPerftThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetPosition(board.StartFEN, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if got := e.Perft(3); got != 8902 {
		t.Errorf("perft(3) = %d, want 8902", got)
	}
}

// minimaxScore is a full-width fixed-depth negamax with no pruning at
// all, the oracle the alpha-beta search is checked against. It mirrors
// the searcher's draw and mate handling exactly.
func minimaxScore(b *board.Board, depth, ply int, hashes []uint64) int {
	if ply > 0 {
		if b.HalfMoveClock >= 100 || b.InsufficientMaterial() || historyRepeats(b, hashes) {
			return drawScore
		}
	}
	if depth <= 0 {
		return Evaluate(b)
	}
	var ml board.MoveList
	b.GenerateLegalMoves(&ml)
	if ml.Len() == 0 {
		if b.InCheck() {
			return -MateScore + ply
		}
		return drawScore
	}
	best := -Infinity
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := b.MakeMove(m)
		score := -minimaxScore(b, depth-1, ply+1, append(hashes, b.Hash))
		b.UnmakeMove(m, undo)
		if score > best {
			best = score
		}
	}
	return best
}

func historyRepeats(b *board.Board, hashes []uint64) bool {
	n := len(hashes)
	limit := n - 1 - b.HalfMoveClock
	if limit < 0 {
		limit = 0
	}
	for i := n - 3; i >= limit; i -= 2 {
		if hashes[i] == b.Hash {
			return true
		}
	}
	return false
}

// With every pruning, reduction and extension disabled, alpha-beta
// must return the minimax value and a minimax-optimal root move.
func TestAlphaBetaMatchesMinimax(t *testing.T) {
	if testing.Short() {
		t.Skip("full-width oracle search")
	}
	cases := []struct {
		fen   string
		depth int
	}{
		{board.StartFEN, 4},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4},
		{"7k/8/8/3q4/8/8/3R4/7K w - - 0 1", 3},
	}
	for _, tc := range cases {
		b, err := board.ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN: %v", err)
		}
		w := &worker{
			b:      b,
			tt:     NewTranspositionTable(1),
			stop:   new(atomic.Bool),
			total:  new(atomic.Uint64),
			pawns:  NewPawnTable(),
			hashes: []uint64{b.Hash},
			plain:  true,
		}
		got := w.negamax(b, tc.depth, 0, -Infinity, Infinity, true, true)

		oracle, _ := board.ParseFEN(tc.fen)
		want := minimaxScore(oracle, tc.depth, 0, []uint64{oracle.Hash})
		if got != want {
			t.Errorf("%s depth %d: alpha-beta = %d, minimax = %d", tc.fen, tc.depth, got, want)
			continue
		}

		line := w.pv.Line()
		if len(line) == 0 {
			t.Fatalf("%s: no principal variation", tc.fen)
		}
		rootHash := oracle.Hash
		undo := oracle.MakeMove(line[0])
		value := -minimaxScore(oracle, tc.depth-1, 1, []uint64{rootHash, oracle.Hash})
		oracle.UnmakeMove(line[0], undo)
		if value != want {
			t.Errorf("%s depth %d: best move %s scores %d, minimax optimum %d",
				tc.fen, tc.depth, line[0], value, want)
		}
	}
}

func TestWorkerRepetitionDetection(t *testing.T) {
	b, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	w := &worker{b: b, hashes: []uint64{b.Hash}}

	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, ms := range moves {
		m, err := b.ParseMove(ms)
		if err != nil {
			t.Fatalf("ParseMove: %v", err)
		}
		b.MakeMove(m)
		w.hashes = append(w.hashes, b.Hash)
	}
	if !w.isRepetition(b) {
		t.Error("knight shuffle back to start not detected as repetition")
	}

	b2, _ := board.ParseFEN(board.StartFEN)
	w2 := &worker{b: b2, hashes: []uint64{b2.Hash}}
	m, _ := b2.ParseMove("e2e4")
	b2.MakeMove(m)
	w2.hashes = append(w2.hashes, b2.Hash)
	if w2.isRepetition(b2) {
		t.Error("fresh position flagged as repetition")
	}
}
