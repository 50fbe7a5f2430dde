// internal/game/claims.go
package game

import (
	"fmt"

	"github.com/google/uuid"
)

// HandleDeclareLowHand resolves a low-hand claim. The claimant first acts as
// a counter-claimer: every other active player sitting on an undeclared
// one-card hand draws the penalty. Only if no counter fired does the
// claimant's own declaration register, and only while their hand is exactly
// one card (or, under extended rules, while it is their turn). Valid from
// any seated player at any point of an active round.
func (r *Room) HandleDeclareLowHand(playerID uuid.UUID) {
	if !r.Playing {
		return
	}
	claimant := r.playerByID(playerID)
	if claimant == nil {
		return
	}

	countered := false
	for _, p := range r.Players {
		if p.ID == playerID || p.Spectator {
			continue
		}
		if len(p.Hand) == 1 && !p.SaidLowHand {
			r.drawCards(p, r.Rules.PenaltyDrawCount)
			r.systemMessage(fmt.Sprintf("%s calls it before %s, who shamelessly draws two cards", claimant.Name, p.Name))
			countered = true
		}
	}
	if countered {
		return
	}

	eligible := len(claimant.Hand) == 1 ||
		(r.Rules.DeclareOnOwnTurn && r.CurrentPlayerID == playerID)
	if !eligible || claimant.SaidLowHand {
		return
	}
	claimant.SaidLowHand = true
	r.fireEvent(Event{Type: EventLowHandDeclared, Player: eventPlayer(claimant)})
	r.systemMessage(claimant.Name + " declares last card!")
}
