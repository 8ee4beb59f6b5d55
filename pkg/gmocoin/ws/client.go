// Package ws streams GMO Coin market data and private account events.
package ws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"gmoclient/pkg/logger"
)

func NewPublic(url string, log *logger.Logger) *Client {
	if url == "" {
		url = DefaultPublicURL
	}
	return newClient(url, log)
}

// NewPrivate connects with an access token from gmocoin.Client.CreateWSToken.
// Tokens expire after 60 minutes; without SetTokenRefresher reconnects keep
// using the original token and fail once it has expired.
func NewPrivate(baseURL, token string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultPrivateURL
	}
	w := newClient(privateURL(baseURL, token), log)
	w.base = baseURL
	w.token = token
	return w
}

func privateURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + token
}

func newClient(url string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		url:          url,
		logURL:       redact(url),
		log:          log,
		dialer:       websocket.DefaultDialer,
		events:       make(chan Event, 100),
		stopCh:       make(chan struct{}),
		reconnectMin: 1 * time.Second,
		reconnectMax: 30 * time.Second,
	}
}

// SetTokenRefresher makes a private stream ask fn for a token before every
// reconnect, e.g. by extending the current one with ExtendWSToken. It must
// be called before Connect and has no effect on public streams.
func (w *Client) SetTokenRefresher(fn TokenRefresher) {
	if w.base == "" {
		return
	}
	w.refresh = fn
}

// Connect dials the stream once. A second call returns ErrAlreadyConnected,
// a call after Close returns ErrClosed.
func (w *Client) Connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped() {
		return ErrClosed
	}
	if w.started {
		return ErrAlreadyConnected
	}

	w.logEntry().Info("Подключение к WS.")

	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("Не удалось подключиться к WS: %w", err)
	}

	conn.SetReadLimit(2 << 20)

	w.conn = conn
	w.started = true

	w.logEntry().Info("WS соединение установлено.")

	go w.readLoop()

	return nil
}

// Events is closed once the client is closed.
func (w *Client) Events() <-chan Event {
	return w.events
}

func (w *Client) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.conn != nil {
			_ = w.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			err = w.conn.Close()
		}
		// readLoop owns events once started
		if !w.started {
			close(w.events)
		}
	})
	return err
}

func (w *Client) logEntry() *logrus.Entry {
	return w.log.WithComponent("gmocoin_ws").WithField("url", w.logURL)
}

// redact hides the private access token that is part of the URL path.
func redact(url string) string {
	if i := strings.Index(url, "/ws/private/v1/"); i >= 0 {
		return url[:i] + "/ws/private/v1/***"
	}
	return url
}
