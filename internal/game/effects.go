// internal/game/effects.go
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unonche/unonche/internal/models"
)

// sideEventFlavors are the penalty flavor texts for players who stayed
// silent through a side event.
var sideEventFlavors = []string{
	"a nasty cold",
	"a mysterious rash",
	"an existential crisis",
	"a cursed hiccup",
	"acute keyboard cramp",
	"a bad case of lag",
	"sudden stage fright",
	"a full-blown meltdown",
}

// HandlePlayCard validates and resolves a card play from the current player.
// cardIndex addresses the sender's hand; chosenColor is required for any
// wild-family card. Invalid attempts are dropped without a reply.
func (r *Room) HandlePlayCard(playerID uuid.UUID, cardIndex int, chosenColor string) {
	if r.CurrentPlayerID != playerID {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return
	}
	card := p.Hand[cardIndex].Clone()

	if card.IsWild() && !models.IsBaseColor(chosenColor) {
		return
	}
	if !IsPlayable(p, card, r.discardTop(), r.EffectiveColor) {
		return
	}

	p.Hand = append(p.Hand[:cardIndex], p.Hand[cardIndex+1:]...)
	p.HandSize--
	r.DiscardPile = append(r.DiscardPile, card)

	next := r.nextPlayer()
	if next != nil {
		r.applyCardEffect(p, next, card, chosenColor)
	}

	r.fireEvent(Event{
		Type:   EventCardPlayed,
		Player: eventPlayer(p),
		Card:   card,
		Payload: map[string]interface{}{
			"cardIndex":      cardIndex,
			"effectiveColor": r.EffectiveColor,
		},
	})

	// An emptied hand wins immediately, before any side event or further
	// turn movement the card would otherwise cause.
	if len(p.Hand) == 0 {
		r.win(p)
		return
	}

	switch card.Value {
	case models.ValuePoc:
		r.startSideEvent()
	case models.ValueSleep:
		// Replay: the actor keeps the turn with a fresh deadline.
		r.setTurn(p.ID)
		r.fireEvent(Event{
			Type:   EventTurnChanged,
			Player: eventPlayer(p),
			Payload: map[string]interface{}{
				"startTime": r.TurnStartTime.UnixMilli(),
				"deadline":  r.TurnStartTime.Add(r.Rules.TurnTimeout).UnixMilli(),
			},
		})
	default:
		r.nextTurn()
	}
}

// applyCardEffect mutates shared state according to the played card's value.
// next is the neighbor in the current direction at play time. Assumes lock
// held.
func (r *Room) applyCardEffect(actor, next *models.Player, card *models.Card, chosenColor string) {
	if card.IsWild() {
		r.EffectiveColor = chosenColor
	}

	switch card.Value {
	case models.ValueSkip:
		r.nextTurn()
		r.systemMessage(fmt.Sprintf("%s gets their turn skipped (thanks %s)", next.Name, actor.Name))
	case models.ValueReverse:
		r.ReversedOrder = !r.ReversedOrder
		r.systemMessage(fmt.Sprintf("%s reverses the play order", actor.Name))
	case models.ValueDrawTwo:
		r.drawCards(next, 2)
		r.systemMessage(fmt.Sprintf("%s makes %s draw two cards", actor.Name, next.Name))
	case models.ValueDrawFour:
		r.drawCards(next, 4)
		r.systemMessage(fmt.Sprintf("%s NUKES %s and makes them draw FOUR cards", actor.Name, next.Name))
	case models.ValuePoc:
		r.systemMessage(fmt.Sprintf("%s calls a post-or-perish, you have 5 seconds to post", actor.Name))
	case models.ValueSleep:
		r.systemMessage(fmt.Sprintf("%s plays a sleep card and keeps the turn", actor.Name))
	case models.ValueLuck:
		if target := r.randomActivePlayer(); target != nil {
			r.drawCards(target, 2)
			r.systemMessage(fmt.Sprintf("%s tempts fate and %s draws two cards", actor.Name, target.Name))
		}
	}
}

// HandlePreviewWild tells the sender whether the indexed wild card would be
// playable, without committing it. Used to drive the color-choice UI.
func (r *Room) HandlePreviewWild(playerID uuid.UUID, cardIndex int) {
	if r.CurrentPlayerID != playerID {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return
	}
	card := p.Hand[cardIndex]
	if !card.IsWild() {
		return
	}
	r.fireEventToPlayer(playerID, Event{
		Type: EventWildPreview,
		Card: card,
		Payload: map[string]interface{}{
			"cardIndex": cardIndex,
			"playable":  IsPlayable(p, card, r.discardTop(), r.EffectiveColor),
		},
	})
}

// startSideEvent suspends rotation: every connected non-spectator except the
// actor must respond in chat within the deadline or draw a penalty. The
// deadline always runs its full length, even with zero participants.
// Assumes lock held.
func (r *Room) startSideEvent() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	for _, p := range r.Players {
		if p.Spectator || p.ID == r.CurrentPlayerID || !p.Connected {
			continue
		}
		r.SideEventPending = append(r.SideEventPending, p.ID)
		r.fireEventToPlayer(p.ID, Event{Type: EventSideEventStarted, Payload: map[string]interface{}{
			"deadline": time.Now().Add(r.Rules.SideEventTimeout).UnixMilli(),
		}})
	}
	r.PausedForPlayerID = r.CurrentPlayerID
	r.CurrentPlayerID = uuid.Nil
	r.fireEvent(Event{Type: EventTurnChanged, Payload: map[string]interface{}{
		"startTime": 0,
	}})

	if r.sideTimer != nil {
		r.sideTimer.Stop()
	}
	r.sideEventID++
	sid := r.sideEventID
	r.sideTimer = time.AfterFunc(r.Rules.SideEventTimeout, func() {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		if r.sideEventID != sid {
			return
		}
		r.endSideEvent()
	})
}

// endSideEvent penalizes every still-pending participant, then resumes
// rotation from the suspended player's position. Assumes lock held.
func (r *Room) endSideEvent() {
	r.sideEventID++
	if r.sideTimer != nil {
		r.sideTimer.Stop()
		r.sideTimer = nil
	}
	for _, id := range r.SideEventPending {
		p := r.playerByID(id)
		if p == nil {
			continue
		}
		r.drawCards(p, 2)
		// Intn over len-1 never selects the last flavor; kept as the table
		// has always behaved, see DESIGN.md.
		flavor := sideEventFlavors[r.rng.Intn(len(sideEventFlavors)-1)]
		r.systemMessage(fmt.Sprintf("%s draws two cards and catches %s", p.Name, flavor))
	}
	r.SideEventPending = nil
	r.fireEvent(Event{Type: EventSideEventEnded})
	r.CurrentPlayerID = r.PausedForPlayerID
	r.nextTurn()
	r.PausedForPlayerID = uuid.Nil
}

// win concludes the round: announce, hand the outcome to the persistence
// hook, then reset back to the lobby. Assumes lock held.
func (r *Room) win(p *models.Player) {
	r.log.WithField("player", p.ID).Info("round won")
	r.systemMessage(p.Name + " wins the round!")
	r.fireEvent(Event{Type: EventRoundWon, Player: eventPlayer(p)})
	if r.OnRoundEnd != nil {
		// Snapshot the seats: the reset below clears hands and flags while
		// the hook may still be reading them on another goroutine.
		players := make([]*models.Player, len(r.Players))
		for i, seat := range r.Players {
			cp := *seat
			cp.Conn = nil
			cp.Hand = append([]*models.Card(nil), seat.Hand...)
			players[i] = &cp
		}
		r.OnRoundEnd(r.ID, p.ID, players)
	}
	r.reset()
}

// reset returns the room to the lobby with a fresh shuffled deck. The AFK
// memory is recomputed first, from the spectator flags of the round just
// ended, so a repeat offender can be escalated next round. Players keep
// their seats. Assumes lock held.
func (r *Room) reset() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	if r.sideTimer != nil {
		r.sideTimer.Stop()
		r.sideTimer = nil
	}
	r.turnID++
	r.sideEventID++

	r.AFKMemory = make(map[uuid.UUID]struct{})
	for _, p := range r.Players {
		if p.Spectator {
			r.AFKMemory[p.ID] = struct{}{}
		}
	}

	r.Playing = false
	r.CurrentPlayerID = uuid.Nil
	r.PausedForPlayerID = uuid.Nil
	r.TurnStartTime = time.Time{}
	r.ReversedOrder = false
	r.EffectiveColor = models.ColorRed
	r.SideEventPending = nil
	r.DiscardPile = nil
	r.Deck = BuildDeck(r.Rules)
	r.DeckSize = len(r.Deck)
	r.shuffleDeck()

	// Promote back to active in join order, up to the table limit; the
	// overflow keeps spectating until a later reset frees a slot.
	active := 0
	for _, p := range r.Players {
		p.Spectator = active >= r.Rules.MaxPlayers
		if !p.Spectator {
			active++
		}
		p.Hand = nil
		p.HandSize = 0
		p.SaidLowHand = false
	}
	r.broadcastRoster()
}
