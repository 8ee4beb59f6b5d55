package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickerFrame = `{"channel":"ticker","symbol":"BTC","ask":"750760","bid":"750600","last":"750700","timestamp":"2018-03-30T12:34:56.789Z"}`

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func TestSubscribeAndReceive(t *testing.T) {
	cmds := make(chan command, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		cmds <- cmd

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"ERR-5003 Request too many."}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(tickerFrame))
		drain(conn)
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewPublic(wsURL(srv), nil)
	require.NoError(t, c.Connect(ctx))

	require.NoError(t, c.Subscribe(ctx, Subscription{Channel: ChannelTicker, Symbol: "BTC"}))

	select {
	case cmd := <-cmds:
		assert.Equal(t, command{Command: "subscribe", Channel: ChannelTicker, Symbol: "BTC"}, cmd)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not receive subscribe")
	}

	ev := nextEvent(t, c)
	assert.Equal(t, ChannelTicker, ev.Channel)
	assert.Equal(t, "BTC", ev.Symbol)
	assert.JSONEq(t, tickerFrame, string(ev.Data))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	select {
	case _, ok := <-c.Events():
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestReconnectReplaysSubscriptions(t *testing.T) {
	var conns atomic.Int32
	replayed := make(chan command, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		n := conns.Add(1)

		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if n == 1 {
			return
		}

		replayed <- cmd
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"channel":"trades","symbol":"ETH","price":"1000","side":"BUY","size":"1"}`))
		drain(conn)
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewPublic(wsURL(srv), nil)
	c.reconnectMin = 10 * time.Millisecond
	c.reconnectMax = 50 * time.Millisecond
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	sub := Subscription{Channel: ChannelTrades, Symbol: "ETH", Option: TradeOptionTakerOnly}
	require.NoError(t, c.Subscribe(ctx, sub))

	ev := nextEvent(t, c)
	assert.Equal(t, ChannelReconnect, ev.Channel)

	select {
	case cmd := <-replayed:
		assert.Equal(t, command{Command: "subscribe", Channel: ChannelTrades, Symbol: "ETH", Option: TradeOptionTakerOnly}, cmd)
	case <-time.After(3 * time.Second):
		t.Fatal("subscription was not replayed")
	}

	ev = nextEvent(t, c)
	assert.Equal(t, ChannelTrades, ev.Channel)
	assert.Equal(t, "ETH", ev.Symbol)
	assert.GreaterOrEqual(t, conns.Load(), int32(2))
}

func TestUnsubscribeForgetsReplay(t *testing.T) {
	cmds := make(chan command, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var cmd command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			cmds <- cmd
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewPublic(wsURL(srv), nil)
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	require.NoError(t, c.Subscribe(ctx, Subscription{Channel: ChannelOrderBooks, Symbol: "BTC"}))
	require.NoError(t, c.Subscribe(ctx, Subscription{Channel: ChannelTicker, Symbol: "BTC"}))
	require.NoError(t, c.Unsubscribe(ctx, Subscription{Channel: ChannelOrderBooks, Symbol: "BTC"}))

	for i := 0; i < 3; i++ {
		select {
		case <-cmds:
		case <-time.After(3 * time.Second):
			t.Fatal("missing command")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, []Subscription{{Channel: ChannelTicker, Symbol: "BTC"}}, c.subs)
}

func TestSubscribeBeforeConnect(t *testing.T) {
	c := NewPublic("", nil)
	assert.Equal(t, DefaultPublicURL, c.url)
	assert.ErrorIs(t, c.Subscribe(context.Background(), Subscription{Channel: ChannelTicker, Symbol: "BTC"}), ErrNotConnected)
}

func TestNewPrivateURLAndRedaction(t *testing.T) {
	c := NewPrivate("", "secret-token", nil)
	assert.Equal(t, "wss://api.coin.z.com/ws/private/v1/secret-token", c.url)
	assert.Equal(t, "wss://api.coin.z.com/ws/private/v1/***", redact(c.url))

	c = NewPrivate("wss://example.test/ws/private/v1/", "tok", nil)
	assert.Equal(t, "wss://example.test/ws/private/v1/tok", c.url)
}

func TestNextBackoffCapped(t *testing.T) {
	c := NewPublic("", nil)
	assert.Equal(t, 2*time.Second, c.nextBackoff(time.Second))
	assert.Equal(t, 30*time.Second, c.nextBackoff(20*time.Second))
}

func requireEventsClosed(t *testing.T, c *Client) {
	t.Helper()
	select {
	case _, ok := <-c.Events():
		require.False(t, ok, "unexpected event")
	case <-time.After(3 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestCloseWithoutConnectClosesEvents(t *testing.T) {
	c := NewPublic("", nil)
	require.NoError(t, c.Close())
	requireEventsClosed(t, c)

	assert.ErrorIs(t, c.Connect(context.Background()), ErrClosed)
	require.NoError(t, c.Close())
}

func TestCloseAfterFailedConnectClosesEvents(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewPublic(wsURL(srv), nil)
	require.Error(t, c.Connect(context.Background()))

	require.NoError(t, c.Close())
	requireEventsClosed(t, c)
}

func TestConnectTwice(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conns.Add(1)
		drain(conn)
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewPublic(wsURL(srv), nil)
	require.NoError(t, c.Connect(ctx))
	assert.ErrorIs(t, c.Connect(ctx), ErrAlreadyConnected)
	assert.Equal(t, int32(1), conns.Load())

	require.NoError(t, c.Close())
	requireEventsClosed(t, c)
}

func TestPrivateReconnectRefreshesToken(t *testing.T) {
	paths := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		paths <- r.URL.Path
		if strings.HasSuffix(r.URL.Path, "/tok-1") {
			return
		}
		drain(conn)
	}))
	defer srv.Close()

	c := NewPrivate(wsURL(srv)+"/ws/private/v1", "tok-1", nil)
	c.reconnectMin = 10 * time.Millisecond
	c.reconnectMax = 50 * time.Millisecond

	var seen atomic.Value
	c.SetTokenRefresher(func(ctx context.Context, current string) (string, error) {
		seen.Store(current)
		return "tok-2", nil
	})

	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	ev := nextEvent(t, c)
	assert.Equal(t, ChannelReconnect, ev.Channel)
	assert.Equal(t, "tok-1", seen.Load())

	assert.Equal(t, "/ws/private/v1/tok-1", <-paths)
	assert.Equal(t, "/ws/private/v1/tok-2", <-paths)
}

func TestTokenRefresherIgnoredForPublic(t *testing.T) {
	c := NewPublic("", nil)
	c.SetTokenRefresher(func(context.Context, string) (string, error) { return "x", nil })
	assert.Nil(t, c.refresh)
}
