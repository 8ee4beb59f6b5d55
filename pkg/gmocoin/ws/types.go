package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gmoclient/pkg/logger"
)

const (
	DefaultPublicURL  = "wss://api.coin.z.com/ws/public/v1"
	DefaultPrivateURL = "wss://api.coin.z.com/ws/private/v1"
)

type Channel string

const (
	ChannelTicker     Channel = "ticker"
	ChannelOrderBooks Channel = "orderbooks"
	ChannelTrades     Channel = "trades"

	ChannelExecutionEvents       Channel = "executionEvents"
	ChannelOrderEvents           Channel = "orderEvents"
	ChannelPositionEvents        Channel = "positionEvents"
	ChannelPositionSummaryEvents Channel = "positionSummaryEvents"

	// ChannelReconnect is emitted locally after a reconnect restored subscriptions.
	ChannelReconnect Channel = "reconnect"
)

// TradeOptionTakerOnly limits the trades channel to taker fills.
const TradeOptionTakerOnly = "TAKER_ONLY"

type Subscription struct {
	Channel Channel
	Symbol  string
	Option  string
}

// Event is one inbound frame. Data is the whole frame as sent by the server.
type Event struct {
	Channel Channel
	Symbol  string
	Data    json.RawMessage
}

// TokenRefresher returns the access token to use for the next private
// reconnect. current is the token of the dropped connection.
type TokenRefresher func(ctx context.Context, current string) (string, error)

type Client struct {
	url    string
	logURL string
	log    *logger.Logger
	dialer *websocket.Dialer

	// private streams only; url and token change on refresh inside readLoop
	base    string
	token   string
	refresh TokenRefresher

	mu      sync.Mutex
	conn    *websocket.Conn
	subs    []Subscription
	started bool

	events       chan Event
	stopCh       chan struct{}
	stopOnce     sync.Once
	reconnectMin time.Duration
	reconnectMax time.Duration
}

type command struct {
	Command string  `json:"command"`
	Channel Channel `json:"channel"`
	Symbol  string  `json:"symbol,omitempty"`
	Option  string  `json:"option,omitempty"`
}

type frame struct {
	Channel Channel `json:"channel"`
	Symbol  string  `json:"symbol"`
	Error   string  `json:"error"`
}
