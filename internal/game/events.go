// internal/game/events.go
package game

import (
	"github.com/google/uuid"

	"github.com/unonche/unonche/internal/models"
)

// EventType is an enum-like type for outbound room events.
type EventType string

const (
	EventRosterUpdate     EventType = "roster_update"
	EventChatMessage      EventType = "chat_message"
	EventCardPlayed       EventType = "card_played"
	EventCardDrawn        EventType = "card_drawn"
	EventTurnChanged      EventType = "turn_changed"
	EventWildPreview      EventType = "wild_preview"
	EventSideEventStarted EventType = "side_event_started"
	EventSideEventEnded   EventType = "side_event_ended"
	EventLowHandDeclared  EventType = "low_hand_declared"
	EventRoundStarted     EventType = "round_started"
	EventRoundWon         EventType = "round_won"
	EventRoundEnded       EventType = "round_ended"
	EventStateSync        EventType = "state_sync"
)

// EventPlayer identifies a player inside an event payload. A nil EventPlayer
// on a chat message marks it as a system message.
type EventPlayer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// Event is the single outbound message shape, broadcast to the whole room or
// unicast to one player depending on the call site.
type Event struct {
	Type   EventType    `json:"type"`
	Player *EventPlayer `json:"player,omitempty"`

	// Card carries the public card for plays; for draws it is only present
	// on the unicast copy sent to the drawing player.
	Card  *models.Card   `json:"card,omitempty"`
	Cards []*models.Card `json:"cards,omitempty"`

	Text string `json:"text,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *VisibleState `json:"state,omitempty"`
}

func eventPlayer(p *models.Player) *EventPlayer {
	if p == nil {
		return nil
	}
	return &EventPlayer{ID: p.ID, Name: p.Name}
}

// fireEvent broadcasts an event to every connected player. Assumes lock held.
func (r *Room) fireEvent(ev Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
	if r.JournalFn != nil {
		r.JournalFn(ev)
	}
}

// fireEventToPlayer unicasts an event to one player. Assumes lock held.
func (r *Room) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	p := r.playerByID(playerID)
	if p == nil || !p.Connected {
		return
	}
	r.BroadcastToPlayerFn(playerID, ev)
}

// systemMessage relays a chat message with no author, used for rule
// commentary (penalties, skips, wins).
func (r *Room) systemMessage(text string) {
	r.fireEvent(Event{Type: EventChatMessage, Text: text})
}
