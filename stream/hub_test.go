package stream

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/vmath"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testCloth(t *testing.T) *physics.Cloth {
	t.Helper()
	c, err := physics.NewGrid(physics.GridSpec{
		Cols: 2, Rows: 2,
		Origin:  vmath.V2(0, 0),
		Spacing: vmath.V2(10, 10),
		Gravity: vmath.V2(0, 10),
	})
	require.NoError(t, err)
	return c
}

type envelope struct {
	Type    string              `json:"t"`
	Payload jsoniter.RawMessage `json:"p"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHubWelcomeAndState(t *testing.T) {
	metrics := status.NewRegistry()
	hub := NewHub(Config{TickHz: 30, ClientQueue: 4}, nil, metrics)
	srv := httptest.NewServer(NewMux("/ws", hub))
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	defer conn.Close()

	env := read(t, conn)
	require.Equal(t, TypeWelcome, env.Type)
	var welcome Welcome
	require.NoError(t, json.Unmarshal(env.Payload, &welcome))
	assert.Equal(t, 30, welcome.TickHz)
	_, err := uuid.Parse(welcome.Session)
	assert.NoError(t, err)
	assert.Equal(t, 1, hub.Clients())
	assert.EqualValues(t, 1, metrics.Counter(status.Clients).Load())

	cloth := testCloth(t)
	require.NoError(t, cloth.Advance(1.0/30))
	require.NoError(t, hub.Broadcast(cloth.Snapshot()))

	env = read(t, conn)
	require.Equal(t, TypeState, env.Type)
	var state State
	require.NoError(t, json.Unmarshal(env.Payload, &state))
	assert.EqualValues(t, 1, state.Tick)
	require.Len(t, state.Particles, 4)
	assert.True(t, state.Particles[0].Fixed)
	assert.False(t, state.Particles[2].Fixed)
	assert.Len(t, state.Links, 4)
}

func TestHubDropsDisconnectedViewer(t *testing.T) {
	metrics := status.NewRegistry()
	hub := NewHub(Config{TickHz: 30, ClientQueue: 2}, nil, metrics)
	srv := httptest.NewServer(NewMux("/ws", hub))
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	read(t, conn)
	require.Equal(t, 1, hub.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, metrics.Counter(status.Clients).Load())
}

func TestHubCloseDisconnectsViewers(t *testing.T) {
	hub := NewHub(Config{TickHz: 30, ClientQueue: 2}, nil, nil)
	srv := httptest.NewServer(NewMux("/ws", hub))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	read(t, conn)

	hub.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.ErrorIs(t, hub.Broadcast(physics.Snapshot{}), ErrClosed)
	hub.Close()
}

func TestOfferDropsOldest(t *testing.T) {
	ch := make(chan []byte, 2)
	assert.True(t, offer(ch, []byte("a")))
	assert.True(t, offer(ch, []byte("b")))
	assert.False(t, offer(ch, []byte("c")))

	assert.Equal(t, "b", string(<-ch))
	assert.Equal(t, "c", string(<-ch))
}

func TestBroadcastWithoutViewers(t *testing.T) {
	hub := NewHub(Config{}, nil, nil)
	assert.NoError(t, hub.Broadcast(testCloth(t).Snapshot()))
	hub.Close()
}

func TestStateFromEmptySnapshot(t *testing.T) {
	data, err := encode(TypeState, StateFrom(physics.Snapshot{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"state","p":{"tick":0,"particles":[],"links":[]}}`, string(data))
}

func TestHealthz(t *testing.T) {
	hub := NewHub(Config{}, nil, nil)
	defer hub.Close()
	srv := httptest.NewServer(NewMux("/ws", hub))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	var h Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Zero(t, h.Clients)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, http.NotFoundHandler(), nil) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
