// internal/handlers/room_server.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unonche/unonche/internal/cache"
	"github.com/unonche/unonche/internal/database"
	"github.com/unonche/unonche/internal/game"
	"github.com/unonche/unonche/internal/models"
)

// RoomServer owns the room registry and the glue between the game core and
// the outside world: websocket fan-out, the Redis event journal and the
// round-results recorder.
type RoomServer struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger
}

// NewRoomServer builds the store (with its canonical room) and wires the
// persistence hooks into every room it hands out.
func NewRoomServer(rules game.HouseRules, logger *logrus.Logger) *RoomServer {
	rs := &RoomServer{
		Rooms:  game.NewRoomStore(rules, logger),
		Logger: logger,
	}
	rs.wireRoom(rs.Rooms.Canonical())
	return rs
}

// Room fetches or creates a room and makes sure its hooks are installed.
func (rs *RoomServer) Room(id string, rules game.HouseRules) *game.Room {
	r := rs.Rooms.GetOrCreateRoom(id, rules)
	rs.wireRoom(r)
	return r
}

// wireRoom installs the broadcast, kick, journal and round-end hooks on a
// room. Idempotent; safe to call on every connection.
func (rs *RoomServer) wireRoom(r *game.Room) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.BroadcastFn == nil {
		r.BroadcastFn = createBroadcastFunc(r, rs.Logger)
	}
	if r.BroadcastToPlayerFn == nil {
		r.BroadcastToPlayerFn = createBroadcastToPlayerFunc(r, rs.Logger)
	}
	if r.KickFn == nil {
		r.KickFn = createKickFunc(r, rs.Logger)
	}
	if r.JournalFn == nil {
		r.JournalFn = createJournalFunc(r, rs.Logger)
	}
	if r.OnRoundEnd == nil {
		r.OnRoundEnd = func(roomID string, winnerID uuid.UUID, players []*models.Player) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := database.RecordRoundResult(ctx, roomID, winnerID, players); err != nil {
					rs.Logger.Warnf("failed to record round result for room %s: %v", roomID, err)
				}
			}()
		}
	}
}

// ListRoomsHandler exposes the live room ids for ops tooling.
func (rs *RoomServer) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"rooms": rs.Rooms.ListRooms()})
}

// createBroadcastFunc returns a fan-out function for Room.BroadcastFn. It is
// called with the room lock held, so it snapshots the recipients under the
// lock it already owns and performs the writes on a separate goroutine.
func createBroadcastFunc(r *game.Room, logger *logrus.Logger) func(ev game.Event) {
	return func(ev game.Event) {
		conns := make([]*websocket.Conn, 0, len(r.Players))
		for _, p := range r.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}

		msg, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal event %s for room %s: %v", ev.Type, r.ID, err)
			return
		}

		go func() {
			for _, c := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := c.Write(ctx, websocket.MessageText, msg)
				cancel()
				if err != nil {
					logger.Debugf("dropped broadcast write in room %s: %v", r.ID, err)
				}
			}
		}()
	}
}

// createBroadcastToPlayerFunc returns the unicast counterpart.
func createBroadcastToPlayerFunc(r *game.Room, logger *logrus.Logger) func(playerID uuid.UUID, ev game.Event) {
	return func(playerID uuid.UUID, ev game.Event) {
		var conn *websocket.Conn
		for _, p := range r.Players {
			if p.ID == playerID {
				if p.Connected && p.Conn != nil {
					conn = p.Conn
				}
				break
			}
		}
		if conn == nil {
			return
		}
		msg, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal private event %s for player %s: %v", ev.Type, playerID, err)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				logger.Debugf("dropped unicast write to %s in room %s: %v", playerID, r.ID, err)
			}
		}()
	}
}

// createKickFunc closes a player's socket with the inactivity code; the read
// loop exit then finishes the seat cleanup.
func createKickFunc(r *game.Room, logger *logrus.Logger) func(playerID uuid.UUID) {
	return func(playerID uuid.UUID) {
		for _, p := range r.Players {
			if p.ID == playerID && p.Conn != nil {
				conn := p.Conn
				go func() {
					if err := conn.Close(websocket.StatusCode(RemovedForInactivity), "removed for inactivity"); err != nil {
						logger.Debugf("kick close for %s: %v", playerID, err)
					}
				}()
				return
			}
		}
	}
}

// createJournalFunc pushes every room event onto the Redis history queue,
// fire and forget.
func createJournalFunc(r *game.Room, logger *logrus.Logger) func(ev game.Event) {
	return func(ev game.Event) {
		rec := cache.RoomEventRecord{
			RoomID:    r.ID,
			EventType: string(ev.Type),
			Timestamp: time.Now().UnixMilli(),
		}
		if ev.Player != nil {
			rec.ActorID = ev.Player.ID
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := cache.PublishRoomEvent(ctx, rec); err != nil {
				logger.Debugf("journal publish failed: %v", err)
			}
		}()
	}
}
