package engine

import (
	"sync/atomic"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

// Bound classifies a stored score relative to the search window.
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundExact Bound = 1
	BoundLower Bound = 2 // score is at least this (fail high)
	BoundUpper Bound = 3 // score is at most this (fail low)
)

// DefaultHashMB is the transposition table size when none is configured.
const DefaultHashMB = 256

// ttSlot is a single lock-free entry: a data word and a key word equal
// to hash XOR data. A reader that loads a torn pair gets a key that no
// longer matches its data and treats the slot as empty, so concurrent
// writers need no lock. Stockfish calls this lock-less hashing.
type ttSlot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// data word layout, low to high:
//
//	bits  0-15  move
//	bits 16-31  score, int16 two's complement
//	bits 32-39  depth
//	bits 40-41  bound
//	bits 48-55  generation
func packTTData(move board.Move, score int, depth int, bound Bound, gen uint8) uint64 {
	return uint64(uint16(move)) |
		uint64(uint16(int16(score)))<<16 |
		uint64(uint8(depth))<<32 |
		uint64(bound)<<40 |
		uint64(gen)<<48
}

func unpackTTData(data uint64) (move board.Move, score int, depth int, bound Bound, gen uint8) {
	move = board.Move(uint16(data))
	score = int(int16(uint16(data >> 16)))
	depth = int(uint8(data >> 32))
	bound = Bound(data >> 40 & 3)
	gen = uint8(data >> 48)
	return
}

// TTEntry is the decoded result of a successful probe.
type TTEntry struct {
	Move  board.Move
	Score int
	Depth int
	Bound Bound
}

// TranspositionTable is shared by all search workers without locking.
type TranspositionTable struct {
	slots      []ttSlot
	mask       uint64
	generation atomic.Uint32
}

const ttSlotBytes = 16

// NewTranspositionTable allocates a table of roughly sizeMB megabytes,
// rounded down to a power of two slot count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	want := uint64(sizeMB) * 1024 * 1024 / ttSlotBytes
	n := uint64(1)
	for n*2 <= want {
		n *= 2
	}
	return &TranspositionTable{
		slots: make([]ttSlot, n),
		mask:  n - 1,
	}
}

// NewGeneration marks the start of a search; older entries become
// preferred replacement victims.
func (tt *TranspositionTable) NewGeneration() {
	tt.generation.Add(1)
}

// Clear zeroes every slot. Callers must not search concurrently.
func (tt *TranspositionTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].key.Store(0)
		tt.slots[i].data.Store(0)
	}
	tt.generation.Store(0)
}

// Probe returns the entry stored for hash. A checksum mismatch, torn
// or empty slot reads as a miss. Mate scores are translated from
// root-relative to ply-relative on the way out.
func (tt *TranspositionTable) Probe(hash uint64, ply int) (TTEntry, bool) {
	slot := &tt.slots[hash&tt.mask]
	key := slot.key.Load()
	data := slot.data.Load()
	if data == 0 || key^data != hash {
		return TTEntry{}, false
	}
	move, score, depth, bound, _ := unpackTTData(data)
	if score >= MateScore-MaxPly {
		score -= ply
	} else if score <= -MateScore+MaxPly {
		score += ply
	}
	return TTEntry{Move: move, Score: score, Depth: depth, Bound: bound}, true
}

// Store writes an entry for hash. A deeper entry from the current
// generation is never overwritten by a shallower one. Mate scores are
// stored root-relative so they stay valid when probed at a different
// ply.
func (tt *TranspositionTable) Store(hash uint64, move board.Move, score, depth, ply int, bound Bound) {
	slot := &tt.slots[hash&tt.mask]
	gen := uint8(tt.generation.Load())

	oldKey := slot.key.Load()
	oldData := slot.data.Load()
	if oldData != 0 && oldKey^oldData == hash {
		_, _, oldDepth, _, oldGen := unpackTTData(oldData)
		if oldGen == gen && oldDepth > depth {
			return
		}
		if move == board.NullMove {
			oldMove, _, _, _, _ := unpackTTData(oldData)
			move = oldMove
		}
	}

	if score >= MateScore-MaxPly {
		score += ply
	} else if score <= -MateScore+MaxPly {
		score -= ply
	}

	data := packTTData(move, score, depth, bound, gen)
	slot.data.Store(data)
	slot.key.Store(hash ^ data)
}

// HashFull estimates table occupancy in permille from a fixed sample,
// the number UCI reports as hashfull.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if len(tt.slots) < sample {
		sample = len(tt.slots)
	}
	gen := uint8(tt.generation.Load())
	used := 0
	for i := 0; i < sample; i++ {
		data := tt.slots[i].data.Load()
		if data != 0 {
			if _, _, _, _, g := unpackTTData(data); g == gen {
				used++
			}
		}
	}
	return used * 1000 / sample
}

// SizeMB reports the allocated size in megabytes.
func (tt *TranspositionTable) SizeMB() int {
	return len(tt.slots) * ttSlotBytes / (1024 * 1024)
}
