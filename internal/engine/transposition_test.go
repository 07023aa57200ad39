package engine

import (
	"testing"

	"github.com/PedroHContessoto/pelanca/internal/board"
)

func TestTTStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0xDEADBEEFCAFE1234)
	move := board.NewMove(board.E2, board.E4)

	tt.Store(hash, move, 42, 8, 0, BoundExact)
	e, ok := tt.Probe(hash, 0)
	if !ok {
		t.Fatal("probe missed a stored entry")
	}
	if e.Move != move || e.Score != 42 || e.Depth != 8 || e.Bound != BoundExact {
		t.Errorf("probe = %+v", e)
	}
}

func TestTTMissOnWrongHash(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0x1111, board.NewMove(board.E2, board.E4), 10, 5, 0, BoundExact)
	// Same slot index, different hash: the checksum must reject it.
	other := 0x1111 ^ (tt.mask+1)<<3
	if _, ok := tt.Probe(other, 0); ok {
		t.Error("probe hit with a mismatched hash")
	}
	if _, ok := tt.Probe(0x2222, 0); ok {
		t.Error("probe hit an empty slot")
	}
}

// A torn or corrupted slot must read as a miss, never as garbage data.
func TestTTTornEntryReadsAsMiss(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0xABCDEF)
	tt.Store(hash, board.NewMove(board.D2, board.D4), 7, 3, 0, BoundLower)

	slot := &tt.slots[hash&tt.mask]
	slot.data.Store(slot.data.Load() ^ 0xFF00)

	if _, ok := tt.Probe(hash, 0); ok {
		t.Error("probe returned a torn entry")
	}
}

func TestTTMateScoreAdjustment(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x55AA55AA)

	// Mate in 3 plies seen at ply 5: stored root-relative, probed back
	// at a different ply it must describe the same mate distance.
	tt.Store(hash, board.NullMove, MateScore-8, 10, 5, BoundExact)
	e, ok := tt.Probe(hash, 2)
	if !ok {
		t.Fatal("probe missed")
	}
	if e.Score != MateScore-5 {
		t.Errorf("mate score at ply 2 = %d, want %d", e.Score, MateScore-5)
	}

	tt.Store(hash, board.NullMove, -MateScore+8, 10, 5, BoundExact)
	e, _ = tt.Probe(hash, 2)
	if e.Score != -MateScore+5 {
		t.Errorf("mated score at ply 2 = %d, want %d", e.Score, -MateScore+5)
	}
}

func TestTTKeepsDeeperEntry(t *testing.T) {
	deep := board.NewMove(board.G1, board.F3)
	cases := []struct {
		name               string
		oldBound, newBound Bound
	}{
		{"exact over upper", BoundExact, BoundUpper},
		{"lower over upper", BoundLower, BoundUpper},
		{"upper over exact", BoundUpper, BoundExact},
		{"lower over lower", BoundLower, BoundLower},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tt := NewTranspositionTable(1)
			hash := uint64(0x77)

			tt.Store(hash, deep, 30, 12, 0, tc.oldBound)
			tt.Store(hash, board.NewMove(board.B1, board.C3), 5, 2, 0, tc.newBound)

			e, ok := tt.Probe(hash, 0)
			if !ok {
				t.Fatal("probe missed")
			}
			if e.Depth != 12 || e.Move != deep {
				t.Errorf("shallow store overwrote deeper entry: %+v", e)
			}
		})
	}
}

func TestTTGenerationAllowsReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x99)
	tt.Store(hash, board.NewMove(board.G1, board.F3), 30, 12, 0, BoundExact)

	tt.NewGeneration()
	shallow := board.NewMove(board.B1, board.C3)
	tt.Store(hash, shallow, 5, 2, 0, BoundUpper)

	e, ok := tt.Probe(hash, 0)
	if !ok {
		t.Fatal("probe missed")
	}
	if e.Move != shallow {
		t.Errorf("stale generation survived replacement: %+v", e)
	}
}

func TestTTPackRoundTrip(t *testing.T) {
	cases := []struct {
		move  board.Move
		score int
		depth int
		bound Bound
		gen   uint8
	}{
		{board.NewMove(board.A1, board.H8), -123, 0, BoundUpper, 0},
		{board.NewPromotion(board.A7, board.A8, board.Queen), MateScore, 127, BoundExact, 255},
		{board.NullMove, -MateScore, 64, BoundLower, 7},
	}
	for _, tc := range cases {
		m, s, d, bnd, g := unpackTTData(packTTData(tc.move, tc.score, tc.depth, tc.bound, tc.gen))
		if m != tc.move || s != tc.score || d != tc.depth || bnd != tc.bound || g != tc.gen {
			t.Errorf("pack round trip: got (%v %d %d %v %d), want %+v", m, s, d, bnd, g, tc)
		}
	}
}

func TestTTSizing(t *testing.T) {
	tt := NewTranspositionTable(16)
	if got := tt.SizeMB(); got != 16 {
		t.Errorf("SizeMB = %d, want 16", got)
	}
	n := len(tt.slots)
	if n&(n-1) != 0 {
		t.Errorf("slot count %d is not a power of two", n)
	}
}
