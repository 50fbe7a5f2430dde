// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat in the room. Hand is never serialized directly; the
// per-viewer projection in internal/game decides who gets to see it.
type Player struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`

	Hand     []*Card `json:"-"`
	HandSize int     `json:"handSize"`

	// SaidLowHand protects a one-card hand from the declaration penalty.
	SaidLowHand bool `json:"saidLowHand"`

	// Spectator players keep their seat but are skipped by turn rotation.
	Spectator bool `json:"spectator"`

	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}
