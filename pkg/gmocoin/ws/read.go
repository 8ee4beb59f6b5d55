package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

func (w *Client) readLoop() {
	defer close(w.events)

	w.logEntry().Debug("readLoop запущен.")

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		w.mu.Lock()
		conn := w.conn
		w.mu.Unlock()

		_, data, err := conn.ReadMessage()
		if err != nil {
			if w.stopped() {
				return
			}

			w.logEntry().WithError(err).Warn("Ошибка чтения WS.")

			if !w.reconnect() {
				return
			}
			continue
		}

		var msg frame
		if err := json.Unmarshal(data, &msg); err != nil {
			w.logEntry().WithError(err).Warn("Не удалось разобрать WS сообщение.")
			continue
		}

		if msg.Error != "" {
			w.logEntry().WithField("error", msg.Error).Warn("Сервер вернул ошибку.")
			continue
		}
		if msg.Channel == "" {
			continue
		}

		if !w.emit(Event{Channel: msg.Channel, Symbol: msg.Symbol, Data: json.RawMessage(data)}) {
			return
		}
	}
}

func (w *Client) emit(ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.stopCh:
		return false
	}
}

func (w *Client) stopped() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

func (w *Client) reconnect() bool {
	backoff := w.reconnectMin

	for {
		w.logEntry().Info("Попытка переподключения к WS.")

		select {
		case <-w.stopCh:
			return false
		case <-time.After(backoff):
		}

		url, err := w.reconnectURL()
		if err != nil {
			w.logEntry().WithError(err).Warn("Не удалось обновить токен WS.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		conn, _, err := w.dialer.Dial(url, nil)
		if err != nil {
			w.logEntry().WithError(err).Warn("Не удалось переподключиться к WS.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		conn.SetReadLimit(2 << 20)

		w.mu.Lock()
		if w.stopped() {
			w.mu.Unlock()
			_ = conn.Close()
			return false
		}
		if w.conn != nil {
			_ = w.conn.Close()
		}
		w.conn = conn

		var replayErr error
		for _, sub := range w.subs {
			if replayErr = w.send("subscribe", sub); replayErr != nil {
				break
			}
		}
		w.mu.Unlock()

		if replayErr != nil {
			w.logEntry().WithError(replayErr).Warn("Не удалось повторно подписаться на WS.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		w.logEntry().Info("WS переподключён и подписки восстановлены.")
		return w.emit(Event{Channel: ChannelReconnect})
	}
}

// reconnectURL runs on the readLoop goroutine, the only writer of url and
// token after Connect.
func (w *Client) reconnectURL() (string, error) {
	if w.refresh == nil {
		return w.url, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	token, err := w.refresh(ctx, w.token)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("пустой токен")
	}

	w.token = token
	w.url = privateURL(w.base, token)
	return w.url, nil
}

func (w *Client) nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > w.reconnectMax {
		return w.reconnectMax
	}
	return next
}
