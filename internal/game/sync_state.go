// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/unonche/unonche/internal/models"
)

// VisiblePlayer is one seat as seen by a given viewer. Hand is populated
// only on the viewer's own entry; everyone else gets the count.
type VisiblePlayer struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Avatar      string         `json:"avatar"`
	HandSize    int            `json:"handSize"`
	SaidLowHand bool           `json:"saidLowHand"`
	Spectator   bool           `json:"spectator"`
	Connected   bool           `json:"connected"`
	Hand        []*models.Card `json:"hand,omitempty"`
}

// VisibleState is the full room snapshot projected for one viewer: the deck
// is reduced to its size, and every hand but the viewer's own is redacted.
type VisibleState struct {
	RoomID            string          `json:"roomId"`
	Playing           bool            `json:"playing"`
	Players           []VisiblePlayer `json:"players"`
	DeckSize          int             `json:"deckSize"`
	DiscardSize       int             `json:"discardSize"`
	DiscardTop        *models.Card    `json:"discardTop,omitempty"`
	CurrentPlayerID   uuid.UUID       `json:"currentPlayerId"`
	TurnStartTime     int64           `json:"turnStartTime"`
	KingPlayerID      uuid.UUID       `json:"kingPlayerId"`
	ReversedOrder     bool            `json:"reversedPlayerOrder"`
	EffectiveColor    string          `json:"effectiveColor"`
	SideEventPending  []uuid.UUID     `json:"sideEventPending,omitempty"`
	PausedForPlayerID uuid.UUID       `json:"pausedForPlayerId"`
}

// VisibleState builds the snapshot for a viewer. Pass uuid.Nil for a fully
// redacted (all hands hidden) projection. Assumes lock held.
func (r *Room) VisibleState(viewer uuid.UUID) *VisibleState {
	vs := &VisibleState{
		RoomID:            r.ID,
		Playing:           r.Playing,
		Players:           r.visiblePlayers(viewer),
		DeckSize:          r.DeckSize,
		DiscardSize:       len(r.DiscardPile),
		DiscardTop:        r.discardTop(),
		CurrentPlayerID:   r.CurrentPlayerID,
		KingPlayerID:      r.KingPlayerID,
		ReversedOrder:     r.ReversedOrder,
		EffectiveColor:    r.EffectiveColor,
		PausedForPlayerID: r.PausedForPlayerID,
	}
	if !r.TurnStartTime.IsZero() {
		vs.TurnStartTime = r.TurnStartTime.UnixMilli()
	}
	if len(r.SideEventPending) > 0 {
		vs.SideEventPending = append([]uuid.UUID(nil), r.SideEventPending...)
	}
	return vs
}

// visiblePlayers projects the roster for a viewer. Assumes lock held.
func (r *Room) visiblePlayers(viewer uuid.UUID) []VisiblePlayer {
	out := make([]VisiblePlayer, 0, len(r.Players))
	for _, p := range r.Players {
		vp := VisiblePlayer{
			ID:          p.ID,
			Name:        p.Name,
			Avatar:      p.Avatar,
			HandSize:    p.HandSize,
			SaidLowHand: p.SaidLowHand,
			Spectator:   p.Spectator,
			Connected:   p.Connected,
		}
		if p.ID == viewer {
			vp.Hand = p.Hand
		}
		out = append(out, vp)
	}
	return out
}
