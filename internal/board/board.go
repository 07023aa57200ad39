package board

import (
	"fmt"
	"strings"
)

// Board is the full position state. Per-piece and per-color occupancy
// are kept in parallel; the invariant is that Occupied[c] equals the
// union of Pieces[c][*] and AllOccupied the union of both colors.
type Board struct {
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // target square behind a double push, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// Hash is the incrementally maintained Zobrist key; PawnKey covers
	// pawn placement only.
	Hash    uint64
	PawnKey uint64

	KingSquare [2]Square
	Checkers   Bitboard // pieces currently giving check to the side to move
}

// New returns the standard starting position.
func New() *Board {
	b, _ := ParseFEN(StartFEN)
	return b
}

// Copy returns an independent copy; Board has no reference fields.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// PieceAt returns the piece occupying sq, NoPiece when empty.
func (b *Board) PieceAt(sq Square) Piece {
	bb := Bit(sq)
	if b.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if b.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if b.Pieces[c][pt]&bb != 0 {
			return MakePiece(pt, c)
		}
	}
	return NoPiece
}

// putPiece, dropPiece and shiftPiece keep the occupancy caches in sync
// with the per-piece sets. Hash maintenance is the caller's job.

func (b *Board) putPiece(pt PieceType, c Color, sq Square) {
	bb := Bit(sq)
	b.Pieces[c][pt] |= bb
	b.Occupied[c] |= bb
	b.AllOccupied |= bb
	if pt == King {
		b.KingSquare[c] = sq
	}
}

func (b *Board) dropPiece(pt PieceType, c Color, sq Square) {
	bb := Bit(sq)
	b.Pieces[c][pt] &^= bb
	b.Occupied[c] &^= bb
	b.AllOccupied &^= bb
}

func (b *Board) shiftPiece(pt PieceType, c Color, from, to Square) {
	bb := Bit(from) | Bit(to)
	b.Pieces[c][pt] ^= bb
	b.Occupied[c] ^= bb
	b.AllOccupied ^= bb
	if pt == King {
		b.KingSquare[c] = to
	}
}

// castlingRightMask[sq] holds the rights cleared when a move touches sq.
// Moving or capturing a rook on its home square, or moving the king,
// drops the corresponding right.
var castlingRightMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	m[A1] = CastleWhiteQueen
	m[H1] = CastleWhiteKing
	m[E1] = CastleWhiteKing | CastleWhiteQueen
	m[A8] = CastleBlackQueen
	m[H8] = CastleBlackKing
	m[E8] = CastleBlackKing | CastleBlackQueen
	return m
}()

// MakeMove applies m in place and returns the undo record. The move is
// assumed legal: the move generator is the only sanctioned source, and
// feeding MakeMove anything else is a programming error.
func (b *Board) MakeMove(m Move) Undo {
	undo := Undo{
		Captured:      NoPiece,
		Castling:      b.Castling,
		EnPassant:     b.EnPassant,
		HalfMoveClock: b.HalfMoveClock,
		Hash:          b.Hash,
		PawnKey:       b.PawnKey,
		Checkers:      b.Checkers,
	}

	us := b.SideToMove
	them := us.Flip()
	from, to := m.From(), m.To()
	pt := b.PieceAt(from).Type()

	// Retire the outgoing en passant and castling hash terms; their
	// replacements are folded back in below.
	b.Hash ^= zobristSide
	b.Hash ^= zobristCastling[b.Castling]
	if b.EnPassant != NoSquare {
		b.Hash ^= zobristEPFile[b.EnPassant.File()]
	}
	b.EnPassant = NoSquare

	switch {
	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		undo.Captured = MakePiece(Pawn, them)
		b.dropPiece(Pawn, them, capSq)
		b.Hash ^= zobristPiece[them][Pawn][capSq]
		b.PawnKey ^= zobristPiece[them][Pawn][capSq]
	case b.AllOccupied.Has(to):
		captured := b.PieceAt(to)
		undo.Captured = captured
		b.dropPiece(captured.Type(), them, to)
		b.Hash ^= zobristPiece[them][captured.Type()][to]
		if captured.Type() == Pawn {
			b.PawnKey ^= zobristPiece[them][Pawn][to]
		}
	}

	b.shiftPiece(pt, us, from, to)
	b.Hash ^= zobristPiece[us][pt][from] ^ zobristPiece[us][pt][to]
	if pt == Pawn {
		b.PawnKey ^= zobristPiece[us][Pawn][from] ^ zobristPiece[us][Pawn][to]
	}

	if m.IsPromotion() {
		promo := m.Promotion()
		b.dropPiece(Pawn, us, to)
		b.putPiece(promo, us, to)
		b.Hash ^= zobristPiece[us][Pawn][to] ^ zobristPiece[us][promo][to]
		b.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(from, to)
		b.shiftPiece(Rook, us, rookFrom, rookTo)
		b.Hash ^= zobristPiece[us][Rook][rookFrom] ^ zobristPiece[us][Rook][rookTo]
	}

	b.Castling &^= castlingRightMask[from] | castlingRightMask[to]
	b.Hash ^= zobristCastling[b.Castling]

	// Double pawn push opens en passant on the skipped square.
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		ep := Square((int(from) + int(to)) / 2)
		b.EnPassant = ep
		b.Hash ^= zobristEPFile[ep.File()]
	}

	if pt == Pawn || undo.Captured != NoPiece {
		b.HalfMoveClock = 0
	} else {
		b.HalfMoveClock++
	}
	if us == Black {
		b.FullMoveNumber++
	}

	b.SideToMove = them
	b.updateCheckers()

	return undo
}

// UnmakeMove reverses m using the undo record, restoring the position
// bit for bit, hash included.
func (b *Board) UnmakeMove(m Move, undo Undo) {
	them := b.SideToMove
	us := them.Flip()
	from, to := m.From(), m.To()

	if m.IsPromotion() {
		b.dropPiece(m.Promotion(), us, to)
		b.putPiece(Pawn, us, to)
	}

	pt := b.PieceAt(to).Type()
	b.shiftPiece(pt, us, to, from)

	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(from, to)
		b.shiftPiece(Rook, us, rookTo, rookFrom)
	}

	if undo.Captured != NoPiece {
		capSq := to
		if m.IsEnPassant() {
			capSq = to - 8
			if us == Black {
				capSq = to + 8
			}
		}
		b.putPiece(undo.Captured.Type(), them, capSq)
	}

	b.SideToMove = us
	b.Castling = undo.Castling
	b.EnPassant = undo.EnPassant
	b.HalfMoveClock = undo.HalfMoveClock
	b.Hash = undo.Hash
	b.PawnKey = undo.PawnKey
	b.Checkers = undo.Checkers
	if us == Black {
		b.FullMoveNumber--
	}
}

// rookCastleSquares maps a king castle move to the rook's relocation.
func rookCastleSquares(kingFrom, kingTo Square) (rookFrom, rookTo Square) {
	if kingTo > kingFrom { // king side
		return SquareAt(7, kingFrom.Rank()), SquareAt(5, kingFrom.Rank())
	}
	return SquareAt(0, kingFrom.Rank()), SquareAt(3, kingFrom.Rank())
}

// MakeNull passes the turn without moving, for null-move pruning.
func (b *Board) MakeNull() NullUndo {
	undo := NullUndo{
		EnPassant: b.EnPassant,
		Hash:      b.Hash,
		Checkers:  b.Checkers,
	}
	if b.EnPassant != NoSquare {
		b.Hash ^= zobristEPFile[b.EnPassant.File()]
		b.EnPassant = NoSquare
	}
	b.SideToMove = b.SideToMove.Flip()
	b.Hash ^= zobristSide
	b.updateCheckers()
	return undo
}

// UnmakeNull reverses a null move.
func (b *Board) UnmakeNull(undo NullUndo) {
	b.SideToMove = b.SideToMove.Flip()
	b.EnPassant = undo.EnPassant
	b.Hash = undo.Hash
	b.Checkers = undo.Checkers
}

// updateCheckers refreshes the set of pieces checking the side to move.
func (b *Board) updateCheckers() {
	us := b.SideToMove
	b.Checkers = b.AttackersTo(b.KingSquare[us], us.Flip(), b.AllOccupied)
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	return b.Checkers != 0
}

// Pinned returns the side-to-move pieces pinned against their king,
// found by x-raying sliders through exactly one friendly blocker.
func (b *Board) Pinned() Bitboard {
	us := b.SideToMove
	them := us.Flip()
	ksq := b.KingSquare[us]
	var pinned Bitboard

	snipers := RookAttacks(ksq, 0)&(b.Pieces[them][Rook]|b.Pieces[them][Queen]) |
		BishopAttacks(ksq, 0)&(b.Pieces[them][Bishop]|b.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopFirst()
		blockers := Between(sq, ksq) & b.AllOccupied
		if blockers.Count() == 1 && blockers&b.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// HasNonPawnMaterial reports whether the side to move owns any piece
// beyond pawns and king. Null-move pruning is unsound without it.
func (b *Board) HasNonPawnMaterial() bool {
	us := b.SideToMove
	return b.Pieces[us][Knight]|b.Pieces[us][Bishop]|b.Pieces[us][Rook]|b.Pieces[us][Queen] != 0
}

// InsufficientMaterial reports positions neither side can ever win:
// bare kings, or king plus a single minor piece against a bare king.
func (b *Board) InsufficientMaterial() bool {
	if b.Pieces[White][Pawn]|b.Pieces[Black][Pawn]|
		b.Pieces[White][Rook]|b.Pieces[Black][Rook]|
		b.Pieces[White][Queen]|b.Pieces[Black][Queen] != 0 {
		return false
	}
	wMinors := (b.Pieces[White][Knight] | b.Pieces[White][Bishop]).Count()
	bMinors := (b.Pieces[Black][Knight] | b.Pieces[Black][Bishop]).Count()
	return (wMinors <= 1 && bMinors == 0) || (bMinors <= 1 && wMinors == 0)
}

// Validate checks the structural invariants beyond what FEN parsing
// enforces.
func (b *Board) Validate() error {
	if b.Pieces[White][King].Count() != 1 || b.Pieces[Black][King].Count() != 1 {
		return fmt.Errorf("each side must have exactly one king")
	}
	if (b.Pieces[White][Pawn]|b.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawn on back rank")
	}
	var union Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			union |= b.Pieces[c][pt]
		}
	}
	if union != b.AllOccupied || b.Occupied[White]|b.Occupied[Black] != b.AllOccupied {
		return fmt.Errorf("occupancy caches out of sync")
	}
	return nil
}

// String renders the board with coordinates, rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(b.PieceAt(SquareAt(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	fmt.Fprintf(&sb, "\n%s to move, castling %s, ep %s, hash %016x\n",
		b.SideToMove, b.Castling, b.EnPassant, b.Hash)
	return sb.String()
}
