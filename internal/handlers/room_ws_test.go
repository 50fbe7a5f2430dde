// internal/handlers/room_ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unonche/unonche/internal/auth"
	"github.com/unonche/unonche/internal/game"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	require.NoError(t, auth.Init())
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	rs := NewRoomServer(game.DefaultHouseRules(), logger)
	srv := httptest.NewServer(RoomWSHandler(logger, rs))
	t.Cleanup(srv.Close)
	return srv
}

func dialRoom(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/room/ws/main?" + query
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"uno"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c, ctx
}

func TestFirstMessageIsWelcome(t *testing.T) {
	srv := newTestServer(t)
	c, ctx := dialRoom(t, srv, "name=alice&avatar=cat")

	// The very first frame must be the welcome carrying the client's own
	// identity; the state snapshot that follows is useless without it.
	_, data, err := c.Read(ctx)
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "welcome", msg["type"])
	assert.NotEmpty(t, msg["playerId"])
	assert.NotEmpty(t, msg["session"])
}

func TestRejectsInvalidJoin(t *testing.T) {
	srv := newTestServer(t)
	c, ctx := dialRoom(t, srv, "name=x&avatar=cat")

	_, _, err := c.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusCode(InvalidJoinError), websocket.CloseStatus(err))
}
