package board

// Pseudo-legal generation by piece type, followed by a legality filter
// that only falls back to expensive checks for king moves, en passant
// and pinned pieces. Everything else generated here is legal as-is.

// GenerateLegalMoves fills ml with every legal move in the position.
func (b *Board) GenerateLegalMoves(ml *MoveList) {
	ml.n = 0
	b.generatePseudoLegal(ml, false)
	b.filterLegal(ml)
}

// GenerateCaptures fills ml with legal captures and promotions, the
// move set quiescence search explores.
func (b *Board) GenerateCaptures(ml *MoveList) {
	ml.n = 0
	b.generatePseudoLegal(ml, true)
	b.filterLegal(ml)
}

func (b *Board) generatePseudoLegal(ml *MoveList, capturesOnly bool) {
	us := b.SideToMove
	targets := ^b.Occupied[us]
	if capturesOnly {
		targets = b.Occupied[us.Flip()]
	}

	b.generatePawnMoves(ml, capturesOnly)

	for pieces := b.Pieces[us][Knight]; pieces != 0; {
		from := pieces.PopFirst()
		for att := KnightAttacks(from) & targets; att != 0; {
			ml.Add(NewMove(from, att.PopFirst()))
		}
	}
	for pieces := b.Pieces[us][Bishop]; pieces != 0; {
		from := pieces.PopFirst()
		for att := BishopAttacks(from, b.AllOccupied) & targets; att != 0; {
			ml.Add(NewMove(from, att.PopFirst()))
		}
	}
	for pieces := b.Pieces[us][Rook]; pieces != 0; {
		from := pieces.PopFirst()
		for att := RookAttacks(from, b.AllOccupied) & targets; att != 0; {
			ml.Add(NewMove(from, att.PopFirst()))
		}
	}
	for pieces := b.Pieces[us][Queen]; pieces != 0; {
		from := pieces.PopFirst()
		for att := QueenAttacks(from, b.AllOccupied) & targets; att != 0; {
			ml.Add(NewMove(from, att.PopFirst()))
		}
	}

	ksq := b.KingSquare[us]
	for att := KingAttacks(ksq) & targets; att != 0; {
		ml.Add(NewMove(ksq, att.PopFirst()))
	}

	if !capturesOnly && !b.InCheck() {
		b.generateCastles(ml)
	}
}

func (b *Board) generatePawnMoves(ml *MoveList, capturesOnly bool) {
	us := b.SideToMove
	them := us.Flip()
	pawns := b.Pieces[us][Pawn]
	empty := ^b.AllOccupied
	enemies := b.Occupied[them]

	var single, double, capsEast, capsWest Bitboard
	var up, upEast, upWest int
	var promoRank, doubleRank Bitboard
	if us == White {
		up, upEast, upWest = 8, 9, 7
		promoRank, doubleRank = Rank8, Rank4
		single = pawns.North() & empty
		double = single.North() & empty & doubleRank
		capsEast = pawns.NorthEast() & enemies
		capsWest = pawns.NorthWest() & enemies
	} else {
		up, upEast, upWest = -8, -7, -9
		promoRank, doubleRank = Rank1, Rank5
		single = pawns.South() & empty
		double = single.South() & empty & doubleRank
		capsEast = pawns.SouthEast() & enemies
		capsWest = pawns.SouthWest() & enemies
	}

	addPawn := func(from, to Square, promo bool) {
		if promo {
			ml.Add(NewPromotion(from, to, Queen))
			ml.Add(NewPromotion(from, to, Rook))
			ml.Add(NewPromotion(from, to, Bishop))
			ml.Add(NewPromotion(from, to, Knight))
		} else {
			ml.Add(NewMove(from, to))
		}
	}

	for caps := capsEast; caps != 0; {
		to := caps.PopFirst()
		addPawn(Square(int(to)-upEast), to, promoRank.Has(to))
	}
	for caps := capsWest; caps != 0; {
		to := caps.PopFirst()
		addPawn(Square(int(to)-upWest), to, promoRank.Has(to))
	}

	if b.EnPassant != NoSquare {
		for att := PawnAttacks(b.EnPassant, them) & pawns; att != 0; {
			ml.Add(NewEnPassant(att.PopFirst(), b.EnPassant))
		}
	}

	// Push promotions reach the back rank and are tactical, so they are
	// generated even in captures-only mode.
	for pushes := single & promoRank; pushes != 0; {
		to := pushes.PopFirst()
		addPawn(Square(int(to)-up), to, true)
	}
	if capturesOnly {
		return
	}
	for pushes := single &^ promoRank; pushes != 0; {
		to := pushes.PopFirst()
		ml.Add(NewMove(Square(int(to)-up), to))
	}
	for pushes := double; pushes != 0; {
		to := pushes.PopFirst()
		ml.Add(NewMove(Square(int(to)-2*up), to))
	}
}

// generateCastles assumes the king is not in check. The rook path must
// be empty and the king path free of enemy attacks.
func (b *Board) generateCastles(ml *MoveList) {
	us := b.SideToMove
	them := us.Flip()
	if us == White {
		if b.Castling&CastleWhiteKing != 0 &&
			b.AllOccupied&(Bit(F1)|Bit(G1)) == 0 &&
			!b.IsAttacked(F1, them) && !b.IsAttacked(G1, them) {
			ml.Add(NewCastle(E1, G1))
		}
		if b.Castling&CastleWhiteQueen != 0 &&
			b.AllOccupied&(Bit(B1)|Bit(C1)|Bit(D1)) == 0 &&
			!b.IsAttacked(D1, them) && !b.IsAttacked(C1, them) {
			ml.Add(NewCastle(E1, C1))
		}
	} else {
		if b.Castling&CastleBlackKing != 0 &&
			b.AllOccupied&(Bit(F8)|Bit(G8)) == 0 &&
			!b.IsAttacked(F8, them) && !b.IsAttacked(G8, them) {
			ml.Add(NewCastle(E8, G8))
		}
		if b.Castling&CastleBlackQueen != 0 &&
			b.AllOccupied&(Bit(B8)|Bit(C8)|Bit(D8)) == 0 &&
			!b.IsAttacked(D8, them) && !b.IsAttacked(C8, them) {
			ml.Add(NewCastle(E8, C8))
		}
	}
}

// filterLegal compacts ml down to the moves that leave the king safe.
func (b *Board) filterLegal(ml *MoveList) {
	pinned := b.Pinned()
	kept := 0
	for i := 0; i < ml.n; i++ {
		if b.isLegal(ml.moves[i], pinned) {
			ml.moves[kept] = ml.moves[i]
			kept++
		}
	}
	ml.n = kept
}

func (b *Board) isLegal(m Move, pinned Bitboard) bool {
	us := b.SideToMove
	them := us.Flip()
	ksq := b.KingSquare[us]
	from, to := m.From(), m.To()

	if m.IsEnPassant() {
		// Rebuild the occupancy after the capture and probe slider
		// attacks directly; the captured pawn leaves a different square
		// than the destination, which the pin logic cannot model.
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occ := b.AllOccupied&^Bit(from)&^Bit(capSq) | Bit(to)
		nonSliders := b.Checkers & (b.Pieces[them][Knight] | b.Pieces[them][Pawn])
		if nonSliders&^Bit(capSq) != 0 {
			return false
		}
		return RookAttacks(ksq, occ)&(b.Pieces[them][Rook]|b.Pieces[them][Queen]) == 0 &&
			BishopAttacks(ksq, occ)&(b.Pieces[them][Bishop]|b.Pieces[them][Queen]) == 0
	}

	if from == ksq {
		// Castle paths were vetted at generation time.
		if m.IsCastle() {
			return true
		}
		return b.AttackersTo(to, them, b.AllOccupied&^Bit(from)) == 0
	}

	if b.Checkers != 0 {
		if b.Checkers&(b.Checkers-1) != 0 {
			return false // double check, only the king may move
		}
		checker := b.Checkers.First()
		if !((Between(checker, ksq) | b.Checkers).Has(to)) {
			return false
		}
	}

	return !pinned.Has(from) || Aligned(from, to, ksq)
}

// HasLegalMoves reports whether any legal move exists, without
// materializing the full list.
func (b *Board) HasLegalMoves() bool {
	var ml MoveList
	b.GenerateLegalMoves(&ml)
	return ml.Len() > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}
