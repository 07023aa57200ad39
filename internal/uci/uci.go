// Package uci speaks the Universal Chess Interface on standard
// input/output. One goroutine reads commands; searches run in the
// background so stop and isready stay responsive.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/PedroHContessoto/pelanca/internal/board"
	"github.com/PedroHContessoto/pelanca/internal/engine"
)

const (
	Name    = "Pelanca"
	Version = "1.0.0"
	Author  = "Pedro H. Contessoto"
)

// Handler runs the UCI session.
type Handler struct {
	eng *engine.Engine
	log zerolog.Logger

	out io.Writer
	mu  sync.Mutex // serializes writes to out

	searchWG sync.WaitGroup
	cancel   context.CancelFunc

	// OnSearchDone, when set, is called after every completed search.
	OnSearchDone func(engine.Result)
}

// New builds a handler around eng, writing protocol output to out.
func New(eng *engine.Engine, out io.Writer, log zerolog.Logger) *Handler {
	h := &Handler{eng: eng, out: out, log: log}
	eng.Info = h.printInfo
	return h
}

func (h *Handler) send(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, format+"\n", args...)
}

// Run reads commands from in until quit or EOF.
func (h *Handler) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.log.Debug().Str("cmd", line).Msg("uci command")
		fields := strings.Fields(line)

		switch fields[0] {
		case "uci":
			h.send("id name %s %s", Name, Version)
			h.send("id author %s", Author)
			h.send("option name Hash type spin default %d min 1 max 65536", engine.DefaultHashMB)
			h.send("option name Threads type spin default 1 min 1 max 256")
			h.send("uciok")
		case "isready":
			h.send("readyok")
		case "ucinewgame":
			h.stopSearch()
			h.eng.NewGame()
		case "setoption":
			h.handleSetOption(fields[1:])
		case "position":
			h.stopSearch()
			if err := h.handlePosition(fields[1:]); err != nil {
				h.log.Error().Err(err).Msg("position rejected")
			}
		case "go":
			h.handleGo(fields[1:])
		case "stop":
			h.stopSearch()
		case "d":
			h.send("%s", h.eng.Board())
			h.send("fen %s", h.eng.Board().FEN())
		case "eval":
			h.send("static evaluation: %d cp", h.eng.Evaluate())
		case "perft":
			h.handlePerft(fields[1:])
		case "quit":
			h.stopSearch()
			return scanner.Err()
		default:
			h.log.Warn().Str("cmd", fields[0]).Msg("unknown command")
		}
	}
	h.stopSearch()
	return scanner.Err()
}

func (h *Handler) handleSetOption(args []string) {
	var name, value string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "name":
			if i+1 < len(args) {
				name = args[i+1]
			}
		case "value":
			if i+1 < len(args) {
				value = args[i+1]
			}
		}
	}
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			h.log.Error().Str("value", value).Msg("invalid Hash value")
			return
		}
		if err := h.eng.SetHashSize(mb); err != nil {
			h.log.Error().Err(err).Msg("hash resize failed")
		}
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			h.log.Error().Str("value", value).Msg("invalid Threads value")
			return
		}
		h.eng.SetThreads(n)
	default:
		h.log.Warn().Str("option", name).Msg("unknown option")
	}
}

func (h *Handler) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("position: missing arguments")
	}
	fen := board.StartFEN
	movesAt := -1

	switch args[0] {
	case "startpos":
		for i, a := range args {
			if a == "moves" {
				movesAt = i
				break
			}
		}
	case "fen":
		end := len(args)
		for i, a := range args {
			if a == "moves" {
				movesAt = i
				end = i
				break
			}
		}
		fen = strings.Join(args[1:end], " ")
	default:
		return fmt.Errorf("position: expected startpos or fen, got %q", args[0])
	}

	var moves []string
	if movesAt >= 0 {
		moves = args[movesAt+1:]
	}
	return h.eng.SetPosition(fen, moves)
}

func (h *Handler) handleGo(args []string) {
	h.stopSearch()

	var limits engine.Limits
	ms := func(s string) time.Duration {
		n, _ := strconv.Atoi(s)
		return time.Duration(n) * time.Millisecond
	}
	for i := 0; i < len(args); i++ {
		var arg string
		if i+1 < len(args) {
			arg = args[i+1]
		}
		switch args[i] {
		case "depth":
			limits.Depth, _ = strconv.Atoi(arg)
			i++
		case "nodes":
			limits.Nodes, _ = strconv.ParseUint(arg, 10, 64)
			i++
		case "movetime":
			limits.MoveTime = ms(arg)
			i++
		case "wtime":
			limits.WhiteTime = ms(arg)
			i++
		case "btime":
			limits.BlackTime = ms(arg)
			i++
		case "winc":
			limits.WhiteInc = ms(arg)
			i++
		case "binc":
			limits.BlackInc = ms(arg)
			i++
		case "movestogo":
			limits.MovesToGo, _ = strconv.Atoi(arg)
			i++
		case "infinite":
			limits.Infinite = true
		case "perft":
			depth, _ := strconv.Atoi(arg)
			h.runPerft(depth)
			return
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.searchWG.Add(1)
	go func() {
		defer h.searchWG.Done()
		result, err := h.eng.Search(ctx, limits)
		if err != nil {
			h.log.Error().Err(err).Msg("search failed")
			return
		}
		h.send("bestmove %s", result.BestMove)
		if h.OnSearchDone != nil {
			h.OnSearchDone(result)
		}
	}()
}

func (h *Handler) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}
	h.runPerft(depth)
}

func (h *Handler) runPerft(depth int) {
	if depth < 1 {
		depth = 1
	}
	start := time.Now()
	b := h.eng.Board().Copy()
	div := board.PerftDivide(b, depth)
	var total uint64
	for move, nodes := range div {
		h.send("%s: %d", move, nodes)
		total += nodes
	}
	elapsed := time.Since(start)
	h.send("")
	h.send("Nodes searched: %d", total)
	h.log.Info().
		Int("depth", depth).
		Uint64("nodes", total).
		Dur("elapsed", elapsed).
		Msg("perft finished")
}

// stopSearch halts any running search and waits for its bestmove.
func (h *Handler) stopSearch() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.eng.Stop()
	h.searchWG.Wait()
}

// printInfo emits one UCI info line per completed iteration.
func (h *Handler) printInfo(info engine.SearchInfo) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", info.Depth)
	if engine.IsMateScore(info.Score) {
		fmt.Fprintf(&sb, " score mate %d", engine.MateIn(info.Score))
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d hashfull %d time %d",
		info.Nodes, info.NPS, info.HashFull, info.Elapsed.Milliseconds())
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	h.send("%s", sb.String())
}
