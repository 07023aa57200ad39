package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a Board from a FEN string. The halfmove clock and
// fullmove number fields may be omitted and default to 0 and 1.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen %q: expected at least 4 fields, got %d", fen, len(fields))
	}

	b := &Board{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	b.KingSquare[White] = NoSquare
	b.KingSquare[Black] = NoSquare

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := PieceFromChar(ch)
			if p == NoPiece {
				return nil, fmt.Errorf("fen %q: invalid piece %q", fen, ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen %q: rank %d overflows", fen, rank+1)
			}
			b.putPiece(p.Type(), p.Color(), SquareAt(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("fen %q: rank %d has %d files", fen, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
	default:
		return nil, fmt.Errorf("fen %q: invalid side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.Castling |= CastleWhiteKing
			case 'Q':
				b.Castling |= CastleWhiteQueen
			case 'k':
				b.Castling |= CastleBlackKing
			case 'q':
				b.Castling |= CastleBlackQueen
			default:
				return nil, fmt.Errorf("fen %q: invalid castling rights %q", fen, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: %v", fen, err)
		}
		b.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("fen %q: invalid halfmove clock %q", fen, fields[4])
		}
		b.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("fen %q: invalid fullmove number %q", fen, fields[5])
		}
		b.FullMoveNumber = n
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("fen %q: %v", fen, err)
	}

	b.Hash = b.ComputeHash()
	b.PawnKey = b.ComputePawnKey()
	b.updateCheckers()
	return b, nil
}

// FEN serializes the position back to FEN notation.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.PieceAt(SquareAt(file, rank))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if b.SideToMove == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(), side, b.Castling, b.EnPassant, b.HalfMoveClock, b.FullMoveNumber)
}
