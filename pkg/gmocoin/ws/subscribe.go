package ws

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotConnected     = errors.New("ws: соединение не установлено")
	ErrAlreadyConnected = errors.New("ws: соединение уже установлено")
	ErrClosed           = errors.New("ws: клиент закрыт")
)

// Subscribe sends the subscribe command and remembers it for replay after
// a reconnect. The public API allows one command per second per connection.
func (w *Client) Subscribe(ctx context.Context, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.send("subscribe", sub); err != nil {
		return err
	}
	w.subs = append(w.subs, sub)

	w.logEntry().WithFields(map[string]interface{}{
		"channel": sub.Channel,
		"symbol":  sub.Symbol,
	}).Debug("Подписка оформлена.")

	return nil
}

func (w *Client) Unsubscribe(ctx context.Context, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.send("unsubscribe", sub); err != nil {
		return err
	}

	kept := w.subs[:0]
	for _, s := range w.subs {
		if s.Channel != sub.Channel || s.Symbol != sub.Symbol {
			kept = append(kept, s)
		}
	}
	w.subs = kept

	return nil
}

// send must be called with w.mu held.
func (w *Client) send(cmd string, sub Subscription) error {
	if w.conn == nil {
		return ErrNotConnected
	}

	msg := command{
		Command: cmd,
		Channel: sub.Channel,
		Symbol:  sub.Symbol,
		Option:  sub.Option,
	}
	if err := w.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("Не удалось отправить команду %s: %w", cmd, err)
	}
	return nil
}
