package notify

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, topic Entity, user string, admin bool) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, topic, user, admin)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubDeliversToMatchingSubscriber(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer hub.Close()

	alice := dial(t, hub, EntityBankAccount, "alice", false)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(Notification{Entity: EntityMovements, Type: TypeCreate, Data: "ignored", Recipient: "alice"})
	hub.Publish(Notification{Entity: EntityBankAccount, Type: TypeUpdate, Data: map[string]string{"iban": "ES01"}, Recipient: "bob"})
	hub.Publish(Notification{Entity: EntityBankAccount, Type: TypeUpdate, Data: map[string]string{"iban": "ES02"}, Recipient: "alice"})

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := alice.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Entity string            `json:"entity"`
		Type   string            `json:"type"`
		Data   map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "BANK_ACCOUNT", got.Entity)
	assert.Equal(t, "UPDATE", got.Type)
	assert.Equal(t, "ES02", got.Data["iban"])
}

func TestHubDropsClosedSubscriber(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	conn := dial(t, hub, EntityMovements, "alice", false)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(Notification{Entity: EntityMovements, Type: TypeCreate})
}

func TestNopPublish(t *testing.T) {
	var n Notifier = Nop{}
	n.Publish(Notification{Entity: EntityMovements})
}

func TestHubUnaddressedGoesToAdmins(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer hub.Close()

	alice := dial(t, hub, EntityMovements, "alice", false)
	admin := dial(t, hub, EntityMovements, "root", true)
	require.Eventually(t, func() bool { return hub.Subscribers() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(Notification{Entity: EntityMovements, Type: TypeCreate, Data: "orphan"})
	hub.Publish(Notification{Entity: EntityMovements, Type: TypeCreate, Data: "mine", Recipient: "alice"})

	require.NoError(t, admin.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := admin.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "orphan")

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err = alice.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "mine")
}
