// internal/game/turns_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unonche/unonche/internal/models"
)

// newRotationRoom seats n connected players without dealing anything, so
// rotation can be tested in isolation.
func newRotationRoom(t *testing.T, n int) (*Room, []*models.Player) {
	t.Helper()
	r := NewRoom("rotation", DefaultHouseRules(), nil)
	players := make([]*models.Player, n)
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for i := 0; i < n; i++ {
		p := &models.Player{ID: uuid.New(), Name: string(rune('A' + i)), Connected: true}
		players[i] = p
		r.AddPlayer(p)
	}
	r.Playing = true
	return r, players
}

func TestNextPlayerForwardAndReversed(t *testing.T) {
	r, players := newRotationRoom(t, 4)
	a, b, c := players[0], players[1], players[2]

	r.Mu.Lock()
	defer r.Mu.Unlock()

	r.CurrentPlayerID = b.ID
	np := r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, c.ID, np.ID, "forward from B should be C")

	r.ReversedOrder = true
	np = r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, a.ID, np.ID, "reversed from B should be A")

	// Reversing twice restores forward rotation.
	r.ReversedOrder = false
	np = r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, c.ID, np.ID)
}

func TestNextPlayerWrapsAround(t *testing.T) {
	r, players := newRotationRoom(t, 3)
	r.Mu.Lock()
	defer r.Mu.Unlock()

	r.CurrentPlayerID = players[2].ID
	np := r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, players[0].ID, np.ID)

	r.CurrentPlayerID = players[0].ID
	r.ReversedOrder = true
	np = r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, players[2].ID, np.ID)
}

func TestNextPlayerSkipsSpectators(t *testing.T) {
	r, players := newRotationRoom(t, 4)
	r.Mu.Lock()
	defer r.Mu.Unlock()

	players[2].Spectator = true
	r.CurrentPlayerID = players[1].ID
	np := r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, players[3].ID, np.ID)
}

func TestNextPlayerWhenCurrentVanished(t *testing.T) {
	r, players := newRotationRoom(t, 3)
	r.Mu.Lock()
	defer r.Mu.Unlock()

	// The current holder is no longer in the live list; rotation proceeds
	// from the head of the join order.
	r.CurrentPlayerID = uuid.New()
	np := r.nextPlayer()
	require.NotNil(t, np)
	assert.Equal(t, players[0].ID, np.ID)
}

func TestNextPlayerOutsideRound(t *testing.T) {
	r, players := newRotationRoom(t, 2)
	r.Mu.Lock()
	defer r.Mu.Unlock()

	r.Playing = false
	assert.Nil(t, r.nextPlayer())

	r.Playing = true
	for _, p := range players {
		p.Spectator = true
	}
	assert.Nil(t, r.nextPlayer())
}
