package board

import (
	"math/rand"
	"testing"
)

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - - 12 42",
	}
	for _, fen := range fens {
		b := mustParse(t, fen)
		if got := b.FEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENRejectsInvalid(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"P3k3/8/8/8/8/8/8/4K3 w - - 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q): expected error", fen)
		}
	}
}

// TestMakeUnmakeRoundTrip plays random legal games and verifies every
// make/unmake pair restores the position exactly, hash included.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	starts := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range starts {
		b := mustParse(t, fen)
		for ply := 0; ply < 80; ply++ {
			var ml MoveList
			b.GenerateLegalMoves(&ml)
			if ml.Len() == 0 {
				break
			}
			m := ml.Get(rng.Intn(ml.Len()))
			before := *b
			undo := b.MakeMove(m)
			b.UnmakeMove(m, undo)
			if *b != before {
				t.Fatalf("%s: make/unmake of %s did not restore position\nbefore: %s\nafter:  %s",
					fen, m, before.FEN(), b.FEN())
			}
			b.MakeMove(m)
		}
	}
}

// TestIncrementalHash checks the incrementally maintained keys against
// recomputation from scratch along random games.
func TestIncrementalHash(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	b := mustParse(t, StartFEN)
	for ply := 0; ply < 200; ply++ {
		var ml MoveList
		b.GenerateLegalMoves(&ml)
		if ml.Len() == 0 {
			break
		}
		m := ml.Get(rng.Intn(ml.Len()))
		b.MakeMove(m)
		if b.Hash != b.ComputeHash() {
			t.Fatalf("ply %d after %s: incremental hash %016x, scratch %016x",
				ply, m, b.Hash, b.ComputeHash())
		}
		if b.PawnKey != b.ComputePawnKey() {
			t.Fatalf("ply %d after %s: incremental pawn key %016x, scratch %016x",
				ply, m, b.PawnKey, b.ComputePawnKey())
		}
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	b := mustParse(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	before := *b
	undo := b.MakeNull()
	if b.SideToMove != White {
		t.Errorf("side to move after null = %v, want white", b.SideToMove)
	}
	if b.EnPassant != NoSquare {
		t.Errorf("en passant square should be cleared by null move")
	}
	if b.Hash == before.Hash {
		t.Errorf("null move must change the hash")
	}
	b.UnmakeNull(undo)
	if *b != before {
		t.Errorf("null make/unmake did not restore position")
	}
}

func TestCheckDetection(t *testing.T) {
	cases := []struct {
		fen       string
		inCheck   bool
		checkers  int
		checkmate bool
		stalemate bool
	}{
		{StartFEN, false, 0, false, false},
		{"rnbqkbnr/ppp1pppp/8/1B1p4/8/4P3/PPPP1PPP/RNBQK1NR b KQkq - 1 2", true, 1, false, false},
		{"4k3/8/8/8/8/8/4R3/4K3 b - - 0 1", true, 1, false, false},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, 0, false, true},
		{"4R2k/6pp/8/8/8/8/8/6K1 b - - 0 1", true, 1, true, false},
		{"8/8/8/3k4/8/2N5/3R4/4K3 b - - 0 1", true, 2, false, false},
	}
	for _, tc := range cases {
		b := mustParse(t, tc.fen)
		if got := b.InCheck(); got != tc.inCheck {
			t.Errorf("%s: InCheck = %v, want %v", tc.fen, got, tc.inCheck)
		}
		if got := b.Checkers.Count(); got != tc.checkers {
			t.Errorf("%s: checkers = %d, want %d", tc.fen, got, tc.checkers)
		}
		if got := b.IsCheckmate(); got != tc.checkmate {
			t.Errorf("%s: IsCheckmate = %v, want %v", tc.fen, got, tc.checkmate)
		}
		if got := b.IsStalemate(); got != tc.stalemate {
			t.Errorf("%s: IsStalemate = %v, want %v", tc.fen, got, tc.stalemate)
		}
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/2N1K3 b - - 0 1", true},
		{"4k3/8/8/8/8/8/8/1NN1K3 w - - 0 1", false},
		{"4k3/7n/8/8/8/8/8/2B1K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/3QK3 w - - 0 1", false},
	}
	for _, tc := range cases {
		b := mustParse(t, tc.fen)
		if got := b.InsufficientMaterial(); got != tc.want {
			t.Errorf("%s: InsufficientMaterial = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestParseMove(t *testing.T) {
	b := mustParse(t, StartFEN)
	m, err := b.ParseMove("e2e4")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.From() != E2 || m.To() != E4 {
		t.Errorf("ParseMove(e2e4) = %s", m)
	}

	b = mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	m, err = b.ParseMove("e1g1")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !m.IsCastle() {
		t.Errorf("e1g1 should parse as castling")
	}

	b = mustParse(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	m, err = b.ParseMove("a7a8q")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !m.IsPromotion() || m.Promotion() != Queen {
		t.Errorf("a7a8q should parse as queen promotion, got %s", m)
	}

	if _, err := b.ParseMove("zz99"); err == nil {
		t.Errorf("ParseMove(zz99): expected error")
	}
}
