// Package board implements the bitboard position representation, the
// precomputed attack tables and the move generator.
package board

import "fmt"

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Flip returns the opposite color.
func (c Color) Flip() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// PieceType identifies a kind of piece, color-independent.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

func (pt PieceType) String() string {
	names := [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}
	if pt >= NoPieceType {
		return "none"
	}
	return names[pt]
}

// Piece packs a PieceType and a Color as pieceType + 6*color.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// MakePiece builds a Piece from type and color.
func MakePiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the color-independent piece type.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the side the piece belongs to.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN character: uppercase white, lowercase black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string("PNBRQKpnbrqk"[p])
}

// PieceFromChar maps a FEN character to a Piece, NoPiece if invalid.
func PieceFromChar(ch byte) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}

// Square indexes the 64 board squares with little-endian rank-file
// mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// SquareAt builds a square from 0-indexed file and rank.
func SquareAt(file, rank int) Square {
	return Square(rank<<3 | file)
}

// File returns the file of the square, 0=a .. 7=h.
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank of the square, 0=first .. 7=eighth.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// Mirror flips the square vertically (a1 <-> a8).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// Valid reports whether the square is on the board.
func (sq Square) Valid() bool {
	return sq < NoSquare
}

func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}

// CastlingRights is a bitmask of the four castling options.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen

	CastleNone CastlingRights = 0
	CastleAll  CastlingRights = CastleWhiteKing | CastleWhiteQueen | CastleBlackKing | CastleBlackQueen
)

func (cr CastlingRights) String() string {
	if cr == CastleNone {
		return "-"
	}
	var s []byte
	if cr&CastleWhiteKing != 0 {
		s = append(s, 'K')
	}
	if cr&CastleWhiteQueen != 0 {
		s = append(s, 'Q')
	}
	if cr&CastleBlackKing != 0 {
		s = append(s, 'k')
	}
	if cr&CastleBlackQueen != 0 {
		s = append(s, 'q')
	}
	return string(s)
}
