package domain

import "fmt"

// Suit identifies one of the three suits in play. Clubs are not part of
// this game; the deck is 39 cards.
type Suit int32

const (
	SuitHearts   Suit = 0
	SuitDiamonds Suit = 1
	SuitSpades   Suit = 2
)

const (
	NumSuits = 3
	NumRanks = 13
	// NumCards is the size of one full deck (3 suits x 13 ranks).
	NumCards = NumSuits * NumRanks
)

// rankLabels orders ranks by strength. The Queen outranks the King.
var rankLabels = [NumRanks]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "K", "Q", "A"}

var suitSymbols = [NumSuits]string{"♥", "♦", "♠"}

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "Hearts"
	case SuitDiamonds:
		return "Diamonds"
	case SuitSpades:
		return "Spades"
	}
	return fmt.Sprintf("Suit(%d)", int32(s))
}

// Card is an immutable suit/rank pair.
type Card struct {
	Suit Suit  `json:"suit"`
	Rank int32 `json:"rank"` // 0..12 over the order 2..10,J,K,Q,A
}

// Value returns the comparison value of the card: 2..10 at face value,
// J=11, K=12, Q=13, A=14.
func (c Card) Value() int32 {
	return c.Rank + 2
}

// Index returns the card's position in the canonical 39-card ordering.
func (c Card) Index() int32 {
	return int32(c.Suit)*NumRanks + c.Rank
}

// CardFromIndex is the inverse of Index.
func CardFromIndex(idx int32) (Card, error) {
	if idx < 0 || idx >= NumCards {
		return Card{}, fmt.Errorf("card index %d out of range: %w", idx, ErrInvalidIndex)
	}
	return Card{Suit: Suit(idx / NumRanks), Rank: idx % NumRanks}, nil
}

// Label renders the card for logs and history, e.g. "Q♥".
func (c Card) Label() string {
	if c.Rank < 0 || c.Rank >= NumRanks || c.Suit < 0 || c.Suit >= NumSuits {
		return fmt.Sprintf("Card(%d,%d)", int32(c.Suit), c.Rank)
	}
	return rankLabels[c.Rank] + suitSymbols[c.Suit]
}

func (c Card) String() string {
	return c.Label()
}
