package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"gmoclient/pkg/gmocoin/ws"
)

func init() {
	var private bool
	var option string

	cmd := &cobra.Command{
		Use:   "stream CHANNEL [SYMBOL]",
		Short: "Print WebSocket events until interrupted",
		Long: "Public channels: ticker, orderbooks, trades (SYMBOL required).\n" +
			"Private channels (--private): executionEvents, orderEvents, positionEvents, positionSummaryEvents.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sub := ws.Subscription{Channel: ws.Channel(args[0]), Option: option}
			if len(args) == 2 {
				sub.Symbol = args[1]
			}

			var stream *ws.Client
			if private {
				token, err := createWSToken(ctx)
				if err != nil {
					return err
				}
				held := &heldToken{value: token}
				defer func() {
					if _, err := client.DeleteWSToken(context.WithoutCancel(ctx), held.get()); err != nil {
						log.WithError(err).Warn("Не удалось удалить токен WS.")
					}
				}()
				stream = ws.NewPrivate(cfg.Exchange.WSPrivateURL, token, log)
				stream.SetTokenRefresher(held.refresh)
			} else {
				stream = ws.NewPublic(cfg.Exchange.WSPublicURL, log)
			}

			if err := stream.Connect(ctx); err != nil {
				return err
			}
			defer stream.Close()

			if err := stream.Subscribe(ctx, sub); err != nil {
				return err
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-stream.Events():
					if !ok {
						return nil
					}
					if ev.Channel == ws.ChannelReconnect {
						log.WithComponent("cli").Info("Поток переподключён.")
						continue
					}
					_, _ = fmt.Fprintln(os.Stdout, string(ev.Data))
				}
			}
		},
	}
	cmd.Flags().BoolVar(&private, "private", false, "use the private stream with a fresh access token")
	cmd.Flags().StringVar(&option, "option", "", "channel option, e.g. TAKER_ONLY for trades")

	rootCmd.AddCommand(cmd)
}

func createWSToken(ctx context.Context) (string, error) {
	resp, err := client.CreateWSToken(ctx)
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}
	var token string
	if err := resp.Decode(&token); err != nil {
		return "", err
	}
	return token, nil
}

// heldToken is the private stream token to delete on exit.
type heldToken struct {
	mu    sync.Mutex
	value string
}

func (h *heldToken) get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// refresh extends the current token and falls back to a new one once it
// has expired.
func (h *heldToken) refresh(ctx context.Context, current string) (string, error) {
	resp, err := client.ExtendWSToken(ctx, current)
	if err == nil && resp.Err() == nil {
		return current, nil
	}

	token, err := createWSToken(ctx)
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	h.value = token
	h.mu.Unlock()

	log.WithComponent("cli").Info("Токен WS пересоздан.")
	return token, nil
}
