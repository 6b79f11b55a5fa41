package domain

import "testing"

func TestCardValues(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want int32
	}{
		{name: "two is lowest", card: Card{Suit: SuitHearts, Rank: 0}, want: 2},
		{name: "ten", card: Card{Suit: SuitDiamonds, Rank: 8}, want: 10},
		{name: "jack", card: Card{Suit: SuitSpades, Rank: 9}, want: 11},
		{name: "king", card: Card{Suit: SuitHearts, Rank: 10}, want: 12},
		{name: "queen outranks king", card: Card{Suit: SuitHearts, Rank: 11}, want: 13},
		{name: "ace is highest", card: Card{Suit: SuitHearts, Rank: 12}, want: 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCardValueMonotonicByRankIndex(t *testing.T) {
	for r := int32(1); r < NumRanks; r++ {
		lower := Card{Suit: SuitHearts, Rank: r - 1}
		higher := Card{Suit: SuitHearts, Rank: r}
		if lower.Value() >= higher.Value() {
			t.Fatalf("rank %d value %d not below rank %d value %d", r-1, lower.Value(), r, higher.Value())
		}
	}
}

func TestCardIndexRoundTrip(t *testing.T) {
	for idx := int32(0); idx < NumCards; idx++ {
		c, err := CardFromIndex(idx)
		if err != nil {
			t.Fatalf("CardFromIndex(%d) error: %v", idx, err)
		}
		if got := c.Index(); got != idx {
			t.Fatalf("Index() = %d, want %d", got, idx)
		}
	}

	if _, err := CardFromIndex(-1); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := CardFromIndex(NumCards); err == nil {
		t.Error("expected error for index past deck size")
	}
}

func TestCardLabel(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{Card{Suit: SuitHearts, Rank: 11}, "Q♥"},
		{Card{Suit: SuitDiamonds, Rank: 0}, "2♦"},
		{Card{Suit: SuitSpades, Rank: 12}, "A♠"},
		{Card{Suit: SuitHearts, Rank: 8}, "10♥"},
	}
	for _, tt := range tests {
		if got := tt.card.Label(); got != tt.want {
			t.Errorf("Label() = %s, want %s", got, tt.want)
		}
	}
}
