package main

import (
	"github.com/spf13/cobra"

	"gmoclient/pkg/gmocoin"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Exchange status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.Status(cmd.Context()))
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ticker [SYMBOL]",
		Short: "Latest rates, all symbols when SYMBOL is omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			return printResponse(client.Ticker(cmd.Context(), symbol))
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "orderbooks SYMBOL",
		Short: "Order book snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.OrderBooks(cmd.Context(), args[0]))
		},
	})

	var page gmocoin.Page
	tradesCmd := &cobra.Command{
		Use:   "trades SYMBOL",
		Short: "Trade history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.Trades(cmd.Context(), args[0], page))
		},
	}
	addPageFlags(tradesCmd, &page)
	rootCmd.AddCommand(tradesCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "klines SYMBOL INTERVAL DATE",
		Short: "Candles, e.g. klines BTC 1min 20210417",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.Klines(cmd.Context(), args[0], gmocoin.Interval(args[1]), args[2]))
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "symbols",
		Short: "Trading rules of every symbol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.Symbols(cmd.Context()))
		},
	})
}

func addPageFlags(cmd *cobra.Command, page *gmocoin.Page) {
	cmd.Flags().IntVar(&page.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&page.Count, "count", 0, "items per page")
}
