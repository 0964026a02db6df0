package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(userID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishReachesOnlyTheUser(t *testing.T) {
	hub := NewHub(nil)
	alice, bob := uuid.New(), uuid.New()
	aliceConn := startServer(t, hub, alice)
	bobConn := startServer(t, hub, bob)

	require.Eventually(t, func() bool {
		return hub.ClientCount(alice) == 1 && hub.ClientCount(bob) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(alice, "meal.created", map[string]string{"name": "Dinner"})

	require.NoError(t, aliceConn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := aliceConn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "meal.created", event.Type)
	assert.Equal(t, "Dinner", event.Data["name"])

	require.NoError(t, bobConn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = bobConn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_ClientCloseUnregisters(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()
	conn := startServer(t, hub, userID)

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)

	assert.NotPanics(t, func() { hub.Publish(uuid.New(), "meal.deleted", nil) })
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()
	conn := startServer(t, hub, userID)

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	assert.Zero(t, hub.ClientCount(userID))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}

func TestHub_PublishDoesNotWaitForSlowClients(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()
	upgrader := websocket.Upgrader{}
	// Registered without a writer, so nothing drains the queue.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	start := time.Now()
	for i := 0; i < sendBuffer; i++ {
		hub.Publish(userID, "meal.created", i)
	}
	assert.Equal(t, 1, hub.ClientCount(userID), "a full queue is not yet an overflow")

	hub.Publish(userID, "meal.created", sendBuffer)

	assert.Less(t, time.Since(start), writeTimeout)
	assert.Zero(t, hub.ClientCount(userID))
}
