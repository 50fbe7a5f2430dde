// internal/game/turns.go
package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/unonche/unonche/internal/models"
)

// nextPlayer computes the next active player from the current one, honoring
// direction and wrapping around join order. Returns nil outside a round or
// with no active players left. When the current id is no longer in the live
// list (it just became a spectator or left), the search index degrades to -1
// and rotation proceeds from the head of the list, matching the position the
// departed player effectively vacated. Assumes lock held.
func (r *Room) nextPlayer() *models.Player {
	if !r.Playing {
		return nil
	}
	ids := r.activePlayerIDs()
	if len(ids) == 0 {
		return nil
	}

	cur := -1
	for i, id := range ids {
		if id == r.CurrentPlayerID {
			cur = i
			break
		}
	}

	offset := 1
	if r.ReversedOrder {
		offset = -1
	}
	raw := cur + offset
	if raw < 0 {
		raw += len(ids)
	}
	return r.playerByID(ids[raw%len(ids)])
}

// nextTurn advances to the next active player, if any, and announces the new
// deadline. Assumes lock held.
func (r *Room) nextTurn() {
	np := r.nextPlayer()
	if np == nil {
		return
	}
	r.setTurn(np.ID)
	r.fireEvent(Event{
		Type:   EventTurnChanged,
		Player: eventPlayer(np),
		Payload: map[string]interface{}{
			"startTime": r.TurnStartTime.UnixMilli(),
			"deadline":  r.TurnStartTime.Add(r.Rules.TurnTimeout).UnixMilli(),
		},
	})
}

// setTurn hands the turn to a player and arms the inactivity deadline,
// cancelling any previously armed one. Arming a turn also voids low-hand
// claims for every hand that has grown back to two or more cards: a claim
// only ever protects a hand of exactly one. Assumes lock held.
func (r *Room) setTurn(playerID uuid.UUID) {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	r.CurrentPlayerID = playerID
	r.TurnStartTime = time.Now()

	for _, p := range r.Players {
		if p.SaidLowHand && len(p.Hand) >= 2 {
			p.SaidLowHand = false
		}
	}

	r.turnID++
	tid := r.turnID
	r.turnTimer = time.AfterFunc(r.Rules.TurnTimeout, func() {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		// Any intervening play, draw or reset re-armed the deadline and
		// bumped turnID; a stale timer must not fire on fresh state.
		if r.turnID != tid {
			return
		}
		r.handleTurnTimeout(playerID)
	})
}

// handleTurnTimeout escalates inactivity: the first strike demotes the
// player to spectator, a strike remembered from the previous round removes
// them from the room. Assumes lock held.
func (r *Room) handleTurnTimeout(playerID uuid.UUID) {
	if !r.Playing {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}

	if _, repeat := r.AFKMemory[playerID]; !repeat {
		r.log.WithField("player", playerID).Info("turn timeout, demoting to spectator")
		r.systemMessage(p.Name + " didn't play and becomes a spectator")
		p.Spectator = true
		if r.KingPlayerID == playerID {
			r.reassignKing()
		}
		r.onPlayersUpdate()
		r.nextTurn()
		return
	}

	r.log.WithField("player", playerID).Info("second-round turn timeout, removing player")
	r.systemMessage(p.Name + " didn't play for two rounds straight and is kicked")
	if r.KickFn != nil {
		r.KickFn(playerID)
	}
	// RemovePlayer broadcasts the roster and advances the turn; the
	// transport-level kick above only tears down the socket.
	r.RemovePlayer(playerID)
}
