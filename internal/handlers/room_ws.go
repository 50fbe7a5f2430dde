// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unonche/unonche/internal/auth"
	"github.com/unonche/unonche/internal/game"
	"github.com/unonche/unonche/internal/models"
)

// namePattern is the allowed display-name shape: short alphanumeric with
// hyphens/underscores.
var namePattern = regexp.MustCompile(`^[-_a-zA-Z0-9]{3,15}$`)

// Avatars is the fixed set of selectable avatars.
var Avatars = []string{"cat", "dog", "frog", "ghost", "robot", "alien", "wizard", "pirate"}

func validAvatar(s string) bool {
	for _, a := range Avatars {
		if s == a {
			return true
		}
	}
	return false
}

// ClientMessage is the inbound message envelope. CardIndex is a pointer so
// a missing index is distinguishable from index zero and can be dropped as
// malformed.
type ClientMessage struct {
	Type        string `json:"type"`
	CardIndex   *int   `json:"cardIndex,omitempty"`
	ChosenColor string `json:"chosenColor,omitempty"`
	Text        string `json:"text,omitempty"`
}

// RoomWSHandler upgrades the connection, validates the join request, seats
// the player and runs the read loop until the connection drops. The room is
// addressed as /room/ws/{room_id}; an empty id lands in the canonical room.
func RoomWSHandler(logger *logrus.Logger, rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/room/ws"), "/")
		if roomID == "" {
			roomID = game.CanonicalRoomID
		}
		room, ok := rs.Rooms.GetRoom(roomID)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		rs.wireRoom(room)

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != "uno" {
			c.Close(websocket.StatusCode(BadSubprotocolError), "client must use the 'uno' subprotocol")
			return
		}

		q := r.URL.Query()
		name := q.Get("name")
		avatar := q.Get("avatar")
		if !namePattern.MatchString(name) || !validAvatar(avatar) {
			logger.Infof("rejected join to room %s: bad name/avatar (%q, %q)", roomID, name, avatar)
			c.Close(websocket.StatusCode(InvalidJoinError), "invalid name or avatar")
			return
		}

		playerID := resumeOrMintIdentity(room, q.Get("session"))
		token, err := auth.CreateSessionToken(playerID.String())
		if err != nil {
			logger.Warnf("could not issue session token: %v", err)
		}

		player := &models.Player{
			ID:        playerID,
			Name:      name,
			Avatar:    avatar,
			Connected: true,
			Conn:      c,
		}

		rs.Rooms.NoteOccupied(roomID)

		// The welcome goes out before the seat is taken: seating fires the
		// state snapshot, and the client needs its own id to interpret it.
		sendWelcome(c, playerID, token)

		room.Mu.Lock()
		room.AddPlayer(player)
		room.Mu.Unlock()

		logger.WithFields(logrus.Fields{"room": roomID, "player": playerID, "name": name}).Info("player connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		readRoomMessages(ctx, c, room, playerID, logger)

		room.Mu.Lock()
		room.RemovePlayer(playerID)
		empty := len(room.Players) == 0
		room.Mu.Unlock()
		if empty {
			rs.Rooms.NoteEmpty(roomID)
		}
		logger.WithFields(logrus.Fields{"room": roomID, "player": playerID}).Info("player disconnected")
	}
}

// resumeOrMintIdentity reuses the player id from a valid session token when
// that seat is not currently occupied, otherwise mints a fresh identity.
func resumeOrMintIdentity(room *game.Room, token string) uuid.UUID {
	if token != "" {
		if sub, err := auth.VerifySessionToken(token); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				room.Mu.Lock()
				taken := false
				for _, p := range room.Players {
					if p.ID == id {
						taken = true
						break
					}
				}
				room.Mu.Unlock()
				if !taken {
					return id
				}
			}
		}
	}
	return uuid.New()
}

// sendWelcome hands the client its identity and session token. Written
// synchronously so it always precedes the async room events.
func sendWelcome(c *websocket.Conn, playerID uuid.UUID, token string) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":     "welcome",
		"playerId": playerID,
		"session":  token,
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c.Write(ctx, websocket.MessageText, msg) //nolint:errcheck // read loop notices dead conns
}

// readRoomMessages parses and routes client messages until the connection
// closes. Every handler call holds the room lock; malformed messages are
// dropped without a reply.
func readRoomMessages(ctx context.Context, c *websocket.Conn, room *game.Room, playerID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Debugf("websocket closed for player %s", playerID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Debugf("websocket read error for player %s: %v", playerID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debugf("invalid JSON from player %s: %v", playerID, err)
			continue
		}

		room.Mu.Lock()
		switch msg.Type {
		case "start_round":
			room.HandleStartRound(playerID)
		case "play_card":
			if msg.CardIndex != nil {
				room.HandlePlayCard(playerID, *msg.CardIndex, msg.ChosenColor)
			}
		case "preview_wild":
			if msg.CardIndex != nil {
				room.HandlePreviewWild(playerID, *msg.CardIndex)
			}
		case "draw_card":
			room.HandleDrawCard(playerID)
		case "declare_low_hand":
			room.HandleDeclareLowHand(playerID)
		case "chat_message":
			room.HandleChat(playerID, msg.Text)
		case "ping":
			// handled below, outside the lock
		default:
			logger.Debugf("unknown message type %q from player %s", msg.Type, playerID)
		}
		room.Mu.Unlock()

		if msg.Type == "ping" {
			pong, _ := json.Marshal(map[string]string{"type": "pong"})
			wctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			c.Write(wctx, websocket.MessageText, pong) //nolint:errcheck
			cancel()
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
