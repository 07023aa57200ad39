package board

// Perft counts leaf nodes of the legal move tree to the given depth.
// Depth 1 is answered by the generator's count directly.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var ml MoveList
	b.GenerateLegalMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := b.MakeMove(m)
		nodes += Perft(b, depth-1)
		b.UnmakeMove(m, undo)
	}
	return nodes
}

// PerftDivide returns the node count under each root move, the classic
// debugging view for pinning down generator discrepancies.
func PerftDivide(b *Board, depth int) map[string]uint64 {
	var ml MoveList
	b.GenerateLegalMoves(&ml)
	out := make(map[string]uint64, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := b.MakeMove(m)
		out[m.String()] = Perft(b, depth-1)
		b.UnmakeMove(m, undo)
	}
	return out
}
