// internal/game/room.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unonche/unonche/internal/models"
)

// OnRoundEndFunc receives the outcome of a finished round so the caller can
// persist it without the core importing storage packages.
type OnRoundEndFunc func(roomID string, winnerID uuid.UUID, players []*models.Player)

// HouseRules selects between the two supported rule variants and holds the
// tunable timings. The zero value is not usable; construct via
// DefaultHouseRules or ExtendedHouseRules.
type HouseRules struct {
	// ExtendedDeck adds the sleep and luck wilds (120 cards instead of 112).
	ExtendedDeck bool

	// DeclareOnOwnTurn lets the current player declare low-hand regardless
	// of hand size (extended variant).
	DeclareOnOwnTurn bool

	// MaxPlayers caps the active seats at the table; joiners beyond it
	// spectate until a reset frees a slot.
	MaxPlayers int

	HandSize         int
	PenaltyDrawCount int
	TurnTimeout      time.Duration
	SideEventTimeout time.Duration
}

// DefaultHouseRules is the classic 112-card variant.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		MaxPlayers:       6,
		HandSize:         7,
		PenaltyDrawCount: 2,
		TurnTimeout:      30 * time.Second,
		SideEventTimeout: 5 * time.Second,
	}
}

// ExtendedHouseRules is the 120-card variant with sleep/luck cards and
// on-turn declarations.
func ExtendedHouseRules() HouseRules {
	hr := DefaultHouseRules()
	hr.ExtendedDeck = true
	hr.DeclareOnOwnTurn = true
	return hr
}

// Room holds the entire state for one shared table. All mutation happens
// under Mu, in message handlers and in timer callbacks that re-acquire it;
// the staleness counters (turnID, sideEventID) discard timers that were
// superseded before they fired.
type Room struct {
	ID    string
	Rules HouseRules

	Playing     bool
	Players     []*models.Player // join order
	Deck        []*models.Card
	DeckSize    int
	DiscardPile []*models.Card // top = last element

	// CurrentPlayerID is uuid.Nil when no turn is active (lobby, or while a
	// side event suspends rotation).
	CurrentPlayerID uuid.UUID
	TurnStartTime   time.Time

	// KingPlayerID is the only player allowed to start a round.
	KingPlayerID uuid.UUID

	ReversedOrder  bool
	EffectiveColor string

	// SideEventPending holds the players still expected to respond to a
	// running side event; PausedForPlayerID is whose turn resumes after it.
	SideEventPending  []uuid.UUID
	PausedForPlayerID uuid.UUID

	// AFKMemory carries the ids demoted for inactivity in the previous
	// round; a second strike removes the player outright.
	AFKMemory map[uuid.UUID]struct{}

	turnID      int
	sideEventID int
	turnTimer   *time.Timer
	sideTimer   *time.Timer

	rng *rand.Rand
	Mu  sync.Mutex

	// BroadcastFn sends an event to all connected players. If nil, events
	// are dropped (tests install a recorder here).
	BroadcastFn func(ev Event)

	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)

	// KickFn force-disconnects a player at the transport level.
	KickFn func(playerID uuid.UUID)

	// JournalFn, if set, receives every broadcast event for the out-of-band
	// history queue. Must not block.
	JournalFn func(ev Event)

	// OnRoundEnd is invoked when a round is won, before the reset.
	OnRoundEnd OnRoundEndFunc

	log *logrus.Entry
}

// NewRoom builds an empty room with a freshly shuffled deck, matching the
// lobby state: nobody seated, no turn active.
func NewRoom(id string, rules HouseRules, logger *logrus.Logger) *Room {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Room{
		ID:                id,
		Rules:             rules,
		EffectiveColor:    models.ColorRed,
		CurrentPlayerID:   uuid.Nil,
		KingPlayerID:      uuid.Nil,
		PausedForPlayerID: uuid.Nil,
		AFKMemory:         make(map[uuid.UUID]struct{}),
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
		log:               logger.WithField("room", id),
	}
	r.Deck = BuildDeck(rules)
	r.DeckSize = len(r.Deck)
	r.shuffleDeck()
	return r
}

// playerByID returns the seated player or nil. Assumes lock held.
func (r *Room) playerByID(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// activePlayerIDs lists non-spectator players in join order. Assumes lock held.
func (r *Room) activePlayerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Spectator {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// AddPlayer seats a new player. Joining mid-round or with the table already
// full makes them a spectator; the first seat to ever fill also takes the
// king role. Assumes lock held.
func (r *Room) AddPlayer(p *models.Player) {
	if r.Playing || len(r.activePlayerIDs()) >= r.Rules.MaxPlayers {
		p.Spectator = true
	}
	r.Players = append(r.Players, p)
	if r.KingPlayerID == uuid.Nil {
		r.KingPlayerID = p.ID
	}
	r.log.WithFields(logrus.Fields{"player": p.ID, "name": p.Name}).Info("player joined")
	r.systemMessage(p.Name + " joined the game")
	r.broadcastRoster()
	r.fireEventToPlayer(p.ID, Event{Type: EventStateSync, State: r.VisibleState(p.ID)})
}

// RemovePlayer unseats a player, reassigning the king role and advancing the
// turn if needed. Assumes lock held. Unknown ids are a no-op so transport
// cleanup and the AFK kick path can race safely.
func (r *Room) RemovePlayer(id uuid.UUID) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	p := r.Players[idx]
	r.log.WithField("player", p.ID).Info("player left")
	r.systemMessage(p.Name + " left the game")
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if r.KingPlayerID == id {
		r.reassignKing()
	}
	r.onPlayersUpdate()
	if r.CurrentPlayerID == id {
		r.nextTurn()
	}
}

// reassignKing hands the king role to the first remaining non-spectator, or
// clears it. Assumes lock held.
func (r *Room) reassignKing() {
	actives := r.activePlayerIDs()
	if len(actives) > 0 {
		r.KingPlayerID = actives[0]
	} else {
		r.KingPlayerID = uuid.Nil
	}
}

// onPlayersUpdate broadcasts the roster and aborts the round when only one
// active player remains. Assumes lock held.
func (r *Room) onPlayersUpdate() {
	r.broadcastRoster()
	if len(r.activePlayerIDs()) == 1 {
		r.systemMessage("Not enough players left, the round is over")
		r.fireEvent(Event{Type: EventRoundEnded})
		r.reset()
	}
}

func (r *Room) broadcastRoster() {
	r.fireEvent(Event{Type: EventRosterUpdate, Payload: map[string]interface{}{
		"players":      r.visiblePlayers(uuid.Nil),
		"kingPlayerId": r.KingPlayerID,
	}})
}

// HandleStartRound is valid only from the king, in the lobby, with at least
// two seated players. Invalid attempts are silently dropped.
func (r *Room) HandleStartRound(playerID uuid.UUID) {
	if r.Playing {
		return
	}
	if r.KingPlayerID != playerID {
		return
	}
	if len(r.Players) <= 1 {
		return
	}
	if r.playerByID(playerID) == nil {
		return
	}
	r.startRound()
}

// startRound deals every seated player a hand and hands the first turn to a
// uniformly random seat. Spectators are included in both the deal and the
// starter pool, matching long-standing table behavior. Assumes lock held.
func (r *Room) startRound() {
	r.Playing = true
	r.log.WithField("players", len(r.Players)).Info("round started")
	r.systemMessage("The game begins!")
	for _, p := range r.Players {
		for i := 0; i < r.Rules.HandSize; i++ {
			r.drawOne(p)
		}
	}

	starter := r.Players[r.rng.Intn(len(r.Players))]
	r.setTurn(starter.ID)

	for _, p := range r.Players {
		r.fireEventToPlayer(p.ID, Event{
			Type:  EventRoundStarted,
			Cards: p.Hand,
			Payload: map[string]interface{}{
				"currentPlayerId": r.CurrentPlayerID,
				"turnStartTime":   r.TurnStartTime.UnixMilli(),
				"deckSize":        r.DeckSize,
			},
		})
	}
}

// HandleDrawCard draws exactly one card for the current player and advances
// the turn. Drawing from an empty deck is a no-op: no card, no advancement.
func (r *Room) HandleDrawCard(playerID uuid.UUID) {
	if r.CurrentPlayerID != playerID {
		return
	}
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	if len(r.drawCards(p, 1)) > 0 {
		r.nextTurn()
	}
}

// HandleChat relays a chat message verbatim. Posting also counts as the
// sender's response to a pending side event.
func (r *Room) HandleChat(playerID uuid.UUID, text string) {
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	if r.sideTimer != nil {
		for i, id := range r.SideEventPending {
			if id == playerID {
				r.SideEventPending = append(r.SideEventPending[:i], r.SideEventPending[i+1:]...)
				break
			}
		}
	}
	r.fireEvent(Event{Type: EventChatMessage, Player: eventPlayer(p), Text: text})
}
