// internal/game/deck.go
package game

import (
	"github.com/unonche/unonche/internal/models"
)

// BuildDeck constructs the full ordered deck for the given variant: per
// color, one 0 and two of each other value (100 cards), plus four each of the
// wild family. Classic totals 112 cards; the extended deck adds four sleep
// and four luck cards for 120.
func BuildDeck(rules HouseRules) []*models.Card {
	values := []string{
		"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		models.ValueSkip, models.ValueReverse, models.ValueDrawTwo,
	}

	var deck []*models.Card
	for _, color := range models.BaseColors {
		for _, value := range values {
			deck = append(deck, models.NewCard(color, value))
			if value != "0" {
				deck = append(deck, models.NewCard(color, value))
			}
		}
	}

	wilds := []string{models.ValueWild, models.ValueDrawFour, models.ValuePoc}
	if rules.ExtendedDeck {
		wilds = append(wilds, models.ValueSleep, models.ValueLuck)
	}
	for i := 0; i < 4; i++ {
		for _, value := range wilds {
			deck = append(deck, models.NewCard(models.ColorWild, value))
		}
	}
	return deck
}

// shuffleDeck runs a Fisher-Yates pass over the deck. Assumes lock held.
func (r *Room) shuffleDeck() {
	for i := len(r.Deck) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		r.Deck[i], r.Deck[j] = r.Deck[j], r.Deck[i]
	}
}

// drawOne moves the top deck card into the player's hand. Returns nil when
// the deck is exhausted; there is no reshuffle from the discard pile.
// Drawing voids any standing low-hand claim. Assumes lock held.
func (r *Room) drawOne(p *models.Player) *models.Card {
	if len(r.Deck) == 0 {
		return nil
	}
	card := r.Deck[0]
	r.Deck = r.Deck[1:]
	r.DeckSize--
	p.Hand = append(p.Hand, card)
	p.HandSize++
	p.SaidLowHand = false
	return card
}

// drawCards draws up to n cards for a player, stopping early on an empty
// deck. Everyone learns how many cards were drawn; only the drawing player
// learns which. Assumes lock held.
func (r *Room) drawCards(p *models.Player, n int) []*models.Card {
	var drawn []*models.Card
	for i := 0; i < n; i++ {
		card := r.drawOne(p)
		if card == nil {
			r.log.WithField("player", p.ID).Warn("deck exhausted on draw")
			break
		}
		drawn = append(drawn, card)
	}
	if len(drawn) == 0 {
		return nil
	}
	r.fireEvent(Event{
		Type:   EventCardDrawn,
		Player: eventPlayer(p),
		Payload: map[string]interface{}{
			"count":    len(drawn),
			"deckSize": r.DeckSize,
		},
	})
	r.fireEventToPlayer(p.ID, Event{
		Type:   EventCardDrawn,
		Player: eventPlayer(p),
		Cards:  drawn,
		Payload: map[string]interface{}{
			"count":    len(drawn),
			"deckSize": r.DeckSize,
		},
	})
	return drawn
}

// randomActivePlayer picks a uniformly random non-spectator, which may be
// the acting player. Assumes lock held.
func (r *Room) randomActivePlayer() *models.Player {
	ids := r.activePlayerIDs()
	if len(ids) == 0 {
		return nil
	}
	return r.playerByID(ids[r.rng.Intn(len(ids))])
}
