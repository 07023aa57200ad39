package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

// Limits bounds a single search. Zero values mean unbounded; with no
// bound at all the search runs until Stop.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration
	MovesToGo int
	Infinite  bool
}

// Result is the outcome of a finished search.
type Result struct {
	BestMove board.Move
	PV       []board.Move
	Score    int
	Depth    int
	Nodes    uint64
	Elapsed  time.Duration
}

// SearchInfo is a progress snapshot emitted after each completed
// iteration of the primary worker.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	NPS      uint64
	Elapsed  time.Duration
	HashFull int
	PV       []board.Move
}

// Engine owns the position, the shared transposition table and the
// worker pool configuration.
type Engine struct {
	log     zerolog.Logger
	tt      *TranspositionTable
	threads int

	b       *board.Board
	history []uint64

	stop      atomic.Bool
	nodes     atomic.Uint64
	searching atomic.Bool

	// Info, when set, receives an update per completed iteration.
	// Set it before searching; it is called from the search goroutine.
	Info func(SearchInfo)
}

// New returns an engine at the starting position with default sizing.
func New(log zerolog.Logger) *Engine {
	e := &Engine{
		log:     log,
		tt:      NewTranspositionTable(DefaultHashMB),
		threads: 1,
	}
	e.resetPosition(board.New())
	return e
}

func (e *Engine) resetPosition(b *board.Board) {
	e.b = b
	e.history = append(e.history[:0], b.Hash)
}

// Board returns the current position.
func (e *Engine) Board() *board.Board {
	return e.b
}

// NewGame clears all cross-search state for a fresh game.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.resetPosition(board.New())
}

// SetPosition loads fen and applies moves in order. Each move must be
// legal in the position it is applied to.
func (e *Engine) SetPosition(fen string, moves []string) error {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	history := []uint64{b.Hash}
	var ml board.MoveList
	for _, ms := range moves {
		m, err := b.ParseMove(ms)
		if err != nil {
			return err
		}
		b.GenerateLegalMoves(&ml)
		if !ml.Contains(m) {
			return fmt.Errorf("illegal move %s in position %s", ms, b.FEN())
		}
		b.MakeMove(m)
		history = append(history, b.Hash)
	}
	e.b = b
	e.history = history
	return nil
}

// SetHashSize resizes the transposition table. Rejected mid-search.
func (e *Engine) SetHashSize(mb int) error {
	if e.searching.Load() {
		return fmt.Errorf("cannot resize hash during search")
	}
	e.tt = NewTranspositionTable(mb)
	e.log.Debug().Int("mb", e.tt.SizeMB()).Msg("hash resized")
	return nil
}

// SetThreads sets the worker pool size for subsequent searches.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	e.threads = n
}

// Threads returns the configured worker count.
func (e *Engine) Threads() int {
	return e.threads
}

// HashSizeMB returns the transposition table size.
func (e *Engine) HashSizeMB() int {
	return e.tt.SizeMB()
}

// Stop requests the current search to finish. The search still
// returns its best result so far.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Evaluate returns the static evaluation of the current position in
// centipawns from the side to move's perspective.
func (e *Engine) Evaluate() int {
	return Evaluate(e.b)
}

// Perft counts move tree leaves to depth from the current position.
func (e *Engine) Perft(depth int) uint64 {
	return board.Perft(e.b.Copy(), depth)
}

// Search runs a Lazy SMP search under limits. Workers share only the
// transposition table and the stop flag; the deepest completed
// iteration wins, ties broken by score. Cancelling ctx stops the
// search early with the best result found so far.
func (e *Engine) Search(ctx context.Context, limits Limits) (Result, error) {
	if e.searching.Swap(true) {
		return Result{}, fmt.Errorf("search already running")
	}
	defer e.searching.Store(false)

	var rootMoves board.MoveList
	e.b.GenerateLegalMoves(&rootMoves)
	if rootMoves.Len() == 0 {
		score := drawScore
		if e.b.InCheck() {
			score = -MateScore
		}
		return Result{BestMove: board.NullMove, Score: score}, nil
	}

	e.stop.Store(false)
	e.nodes.Store(0)
	e.tt.NewGeneration()
	tm := newTimeManager(limits, e.b.SideToMove, len(e.history))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		e.stop.Store(true)
	}()

	e.log.Debug().
		Int("threads", e.threads).
		Int("depth_limit", limits.Depth).
		Uint64("node_limit", limits.Nodes).
		Str("fen", e.b.FEN()).
		Msg("search started")

	results := make([]searchResult, e.threads)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < e.threads; i++ {
		w := &worker{
			id:      i,
			b:       e.b.Copy(),
			tt:      e.tt,
			stop:    &e.stop,
			total:   &e.nodes,
			nodeCap: limits.Nodes,
			pawns:   NewPawnTable(),
			hashes:  append([]uint64(nil), e.history...),
		}
		if i == 0 {
			w.tm = tm
			w.report = func(r searchResult) { e.emitInfo(tm, r) }
		}
		g.Go(func() error {
			results[w.id] = w.iterate(limits.Depth)
			// The first worker to finish releases the rest.
			e.stop.Store(true)
			return nil
		})
	}
	_ = g.Wait()

	best := searchResult{}
	for _, r := range results {
		if r.move == board.NullMove {
			continue
		}
		if best.move == board.NullMove || r.depth > best.depth ||
			(r.depth == best.depth && r.score > best.score) {
			best = r
		}
	}
	if best.move == board.NullMove {
		// Stopped before any worker completed depth 1.
		best.move = rootMoves.Get(0)
		best.pv = []board.Move{best.move}
	}

	result := Result{
		BestMove: best.move,
		PV:       best.pv,
		Score:    best.score,
		Depth:    best.depth,
		Nodes:    e.nodes.Load(),
		Elapsed:  tm.Elapsed(),
	}
	e.log.Info().
		Str("bestmove", result.BestMove.String()).
		Int("depth", result.Depth).
		Int("score", result.Score).
		Uint64("nodes", result.Nodes).
		Dur("elapsed", result.Elapsed).
		Msg("search finished")
	return result, nil
}

func (e *Engine) emitInfo(tm *TimeManager, r searchResult) {
	elapsed := tm.Elapsed()
	nodes := e.nodes.Load()
	var nps uint64
	if ms := elapsed.Milliseconds(); ms > 0 {
		nps = nodes * 1000 / uint64(ms)
	}
	info := SearchInfo{
		Depth:    r.depth,
		Score:    r.score,
		Nodes:    nodes,
		NPS:      nps,
		Elapsed:  elapsed,
		HashFull: e.tt.HashFull(),
		PV:       r.pv,
	}
	e.log.Debug().
		Int("depth", info.Depth).
		Int("score", info.Score).
		Uint64("nodes", info.Nodes).
		Uint64("nps", info.NPS).
		Msg("iteration")
	if e.Info != nil {
		e.Info(info)
	}
}
