package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"gmoclient/internal/config"
	"gmoclient/pkg/gmocoin"
	"gmoclient/pkg/logger"
)

var (
	configFile string

	cfg    *config.Config
	log    *logger.Logger
	client *gmocoin.Client
)

var rootCmd = &cobra.Command{
	Use:           "gmocoin",
	Short:         "GMO Coin API client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("Не удалось загрузить конфигурацию: %w", err)
		}

		log = logger.New(logger.Config{
			Level:      cfg.Runtime.Log.Level,
			Format:     cfg.Runtime.Log.Format,
			Output:     cfg.Runtime.Log.File,
			MaxSize:    cfg.Runtime.Log.MaxSize,
			MaxBackups: cfg.Runtime.Log.MaxBackups,
			MaxAge:     cfg.Runtime.Log.MaxAge,
			Compress:   cfg.Runtime.Log.Compress,
		})

		client = gmocoin.New(cfg.Exchange.ApiKey, cfg.Exchange.Secret, log,
			gmocoin.WithPublicURL(cfg.Exchange.PublicURL),
			gmocoin.WithPrivateURL(cfg.Exchange.PrivateURL),
			gmocoin.WithTimeouts(cfg.Exchange.ConnectTimeout, cfg.Exchange.ReadTimeout),
		)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default configs/config.yaml)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printResponse(resp *gmocoin.Response, err error) error {
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Body, "", "  "); err != nil {
		out.Reset()
		out.Write(resp.Body)
	}
	_, _ = fmt.Fprintln(os.Stdout, out.String())

	return resp.Err()
}

func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("Некорректное значение %s=%q: %w", name, value, err)
	}
	return d, nil
}

func optionalDecimal(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDecimal(name, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
