package board

import "fmt"

// Move packs a move into 16 bits:
//
//	bits 0-5   origin square
//	bits 6-11  destination square
//	bits 12-13 promotion piece (0=knight .. 3=queen)
//	bits 14-15 kind (normal, promotion, en passant, castle)
type Move uint16

const (
	kindNormal    Move = 0 << 14
	kindPromotion Move = 1 << 14
	kindEnPassant Move = 2 << 14
	kindCastle    Move = 3 << 14
	kindMask      Move = 3 << 14
)

// NullMove is the zero value; no real move encodes as 0.
const NullMove Move = 0

// NewMove builds an ordinary move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion builds a promotion to promo (Knight..Queen).
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | kindPromotion
}

// NewEnPassant builds an en passant capture landing on the target square.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | kindEnPassant
}

// NewCastle builds a castling move given the king's from/to squares.
func NewCastle(from, to Square) Move {
	return Move(from) | Move(to)<<6 | kindCastle
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 63) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> 6 & 63) }

// Promotion returns the promotion piece type; valid only when
// IsPromotion reports true.
func (m Move) Promotion() PieceType { return PieceType(m>>12&3) + Knight }

func (m Move) IsPromotion() bool { return m&kindMask == kindPromotion }
func (m Move) IsEnPassant() bool { return m&kindMask == kindEnPassant }
func (m Move) IsCastle() bool    { return m&kindMask == kindCastle }

// String renders the move in UCI long algebraic notation.
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses UCI notation against a position, which is needed to
// recognize castling and en passant.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NullMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, err
	}
	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("invalid promotion %q", s)
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := b.PieceAt(from)
	if piece == NoPiece {
		return NullMove, fmt.Errorf("no piece on %s", from)
	}
	switch {
	case piece.Type() == King && (int(to)-int(from) == 2 || int(from)-int(to) == 2):
		return NewCastle(from, to), nil
	case piece.Type() == Pawn && to == b.EnPassant:
		return NewEnPassant(from, to), nil
	}
	return NewMove(from, to), nil
}

// IsCapture reports whether m takes a piece on this position.
func (m Move) IsCapture(b *Board) bool {
	return m.IsEnPassant() || b.AllOccupied.Has(m.To())
}

// maxMoves bounds the number of legal moves in any reachable position
// (218 is the known maximum; 256 keeps the array power-of-two sized).
const maxMoves = 256

// MoveList is a fixed-capacity move buffer that avoids heap allocation
// inside the search.
type MoveList struct {
	moves [maxMoves]Move
	n     int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Len returns the number of moves held.
func (ml *MoveList) Len() int { return ml.n }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Swap exchanges two moves in place.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Slice returns the live moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.n] }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Undo carries the irreversible state needed to take back one move.
// It is owned by the search frame that made the move and dies with it.
type Undo struct {
	Captured      Piece
	Castling      CastlingRights
	EnPassant     Square
	HalfMoveClock int
	Hash          uint64
	PawnKey       uint64
	Checkers      Bitboard
}

// NullUndo carries the state needed to take back a null move.
type NullUndo struct {
	EnPassant Square
	Hash      uint64
	Checkers  Bitboard
}
