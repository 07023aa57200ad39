package board

import "testing"

var perftCases = []struct {
	name  string
	fen   string
	depth int
	nodes uint64
}{
	{"startpos d1", StartFEN, 1, 20},
	{"startpos d2", StartFEN, 2, 400},
	{"startpos d3", StartFEN, 3, 8902},
	{"startpos d4", StartFEN, 4, 197281},
	{"kiwipete d1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
	{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
	{"kiwipete d3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
	{"endgame d1", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 1, 14},
	{"endgame d2", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 2, 191},
	{"endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
	{"endgame d4", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
	{"ep pin d1", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", 1, 6},
	{"ep pin d2", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", 2, 94},
	{"promotion d1", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1", 1, 24},
	{"promotion d2", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1", 2, 496},
	{"promotion d3", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1", 3, 9483},
	{"castle rights d1", "r3k2r/1b4bq/8/8/8/8/7B/R3K2R w KQkq - 0 1", 1, 26},
	{"castle rights d2", "r3k2r/1b4bq/8/8/8/8/7B/R3K2R w KQkq - 0 1", 2, 1141},
	{"castle rights d3", "r3k2r/1b4bq/8/8/8/8/7B/R3K2R w KQkq - 0 1", 3, 27826},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			before := b.FEN()
			if got := Perft(b, tc.depth); got != tc.nodes {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
			if after := b.FEN(); after != before {
				t.Errorf("position changed by perft: %s -> %s", before, after)
			}
		})
	}
}

func TestPerftDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("deep perft")
	}
	cases := []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"startpos d5", StartFEN, 5, 4865609},
		{"kiwipete d4", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"endgame d5", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := Perft(b, tc.depth); got != tc.nodes {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
		})
	}
}

func TestPerftDivideSumsToTotal(t *testing.T) {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	div := PerftDivide(b, 3)
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 8902 {
		t.Errorf("divide sum = %d, want 8902", sum)
	}
	if len(div) != 20 {
		t.Errorf("root moves = %d, want 20", len(div))
	}
}
