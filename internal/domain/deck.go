package domain

import "math/rand"

// Deck is a draw pile plus its discard. The zero value is unusable; build
// decks with NewDeck.
type Deck struct {
	Pile    []Card `json:"pile"`
	Discard []Card `json:"discard"`
}

// NewDeck returns a full 39-card deck shuffled with the given source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{Pile: orderedCards()}
	d.Shuffle(rng)
	return d
}

func orderedCards() []Card {
	cards := make([]Card, 0, NumCards)
	for s := Suit(0); s < NumSuits; s++ {
		for r := int32(0); r < NumRanks; r++ {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	return cards
}

// Shuffle permutes the draw pile in place.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Pile), func(i, j int) {
		d.Pile[i], d.Pile[j] = d.Pile[j], d.Pile[i]
	})
}

// DrawOne pops the top card, folding the discard back in when the pile
// runs dry. ok is false only when pile and discard are both empty.
func (d *Deck) DrawOne(rng *rand.Rand) (Card, bool) {
	if len(d.Pile) == 0 && len(d.Discard) > 0 {
		d.Pile = d.Discard
		d.Discard = nil
		d.Shuffle(rng)
	}
	if len(d.Pile) == 0 {
		return Card{}, false
	}
	c := d.Pile[len(d.Pile)-1]
	d.Pile = d.Pile[:len(d.Pile)-1]
	return c, true
}

// Draw pops up to n cards from the top. Cards drawn before a mid-draw
// reshuffle are kept, so the result is short only when fewer than n cards
// exist across pile and discard.
func (d *Deck) Draw(n int, rng *rand.Rand) []Card {
	out := make([]Card, 0, n)
	for len(out) < n {
		c, ok := d.DrawOne(rng)
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// PutDiscard adds a played card to the discard pile.
func (d *Deck) PutDiscard(c Card) {
	d.Discard = append(d.Discard, c)
}

// ReturnToBottom slides a card under the pile.
func (d *Deck) ReturnToBottom(c Card) {
	d.Pile = append([]Card{c}, d.Pile...)
}

// Rebuild replaces an exhausted deck with a fresh shuffled 39-card set.
// Used by the reality deck once every tile card has been dealt out.
func (d *Deck) Rebuild(rng *rand.Rand) {
	d.Pile = orderedCards()
	d.Discard = nil
	d.Shuffle(rng)
}

// Remaining returns the number of cards left in the draw pile.
func (d *Deck) Remaining() int {
	return len(d.Pile)
}

// Size returns pile plus discard.
func (d *Deck) Size() int {
	return len(d.Pile) + len(d.Discard)
}
