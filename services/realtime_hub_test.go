package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *RealtimeHub, userID uint) *websocket.Conn {
	t.Helper()
	registered := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := &WSClient{UserID: userID, Conn: conn}
		hub.Register(cl)
		close(registered)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(cl)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client was not registered")
	}
	return conn
}

func TestRealtimeHub_RecordCreatedReachesOwner(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub, 42)
	assert.Equal(t, 1, hub.Connections(42))

	rec := newRecord(42, time.Date(2026, 10, 18, 0, 0, 0, 0, testLoc))
	rec.ID = 9
	hub.RecordCreated(42, rec)
	hub.RecordCreated(43, rec) // nobody listening

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Kind   string `json:"kind"`
		Record struct {
			ID          uint `json:"id"`
			TotalPoints int  `json:"totalPoints"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "record.created", got.Kind)
	assert.Equal(t, uint(9), got.Record.ID)
	assert.Equal(t, 8, got.Record.TotalPoints)
}

func TestRealtimeHub_UnregisterOnClose(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub, 1)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Connections(1) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRealtimeHub_RecordCreatedDoesNotWaitForDelivery(t *testing.T) {
	hub := NewRealtimeHub()
	// hold the registry so delivery cannot start
	hub.mu.Lock()
	defer hub.mu.Unlock()

	returned := make(chan struct{})
	go func() {
		hub.RecordCreated(1, newRecord(1, time.Date(2026, 10, 18, 0, 0, 0, 0, testLoc)))
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("RecordCreated blocked on delivery")
	}
}
