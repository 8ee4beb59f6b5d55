package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gmoclient/pkg/gmocoin"
)

func init() {
	rootCmd.AddCommand(
		simpleCmd("margin", "Margin account", func(ctx context.Context) (*gmocoin.Response, error) {
			return client.Margin(ctx)
		}),
		simpleCmd("assets", "Asset balances", func(ctx context.Context) (*gmocoin.Response, error) {
			return client.Assets(ctx)
		}),
		simpleCmd("trading-volume", "Trading volume and fee tier", func(ctx context.Context) (*gmocoin.Response, error) {
			return client.TradingVolume(ctx)
		}),
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "orders ORDER_ID...",
		Short: "Orders by id",
		Args:  cobra.RangeArgs(1, 10),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return printResponse(client.Orders(cmd.Context(), ids...))
		},
	})

	var activePage gmocoin.Page
	activeCmd := &cobra.Command{
		Use:   "active-orders SYMBOL",
		Short: "Active orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.ActiveOrders(cmd.Context(), args[0], activePage))
		},
	}
	addPageFlags(activeCmd, &activePage)
	rootCmd.AddCommand(activeCmd)

	var execOrderID int64
	var execIDs []int64
	execCmd := &cobra.Command{
		Use:   "executions",
		Short: "Executions by order id or execution ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.Executions(cmd.Context(), gmocoin.ExecutionsQuery{
				OrderID:      execOrderID,
				ExecutionIDs: execIDs,
			}))
		},
	}
	execCmd.Flags().Int64Var(&execOrderID, "order-id", 0, "order id")
	execCmd.Flags().Int64SliceVar(&execIDs, "execution-id", nil, "execution ids")
	rootCmd.AddCommand(execCmd)

	var latestPage gmocoin.Page
	latestCmd := &cobra.Command{
		Use:   "latest-executions SYMBOL",
		Short: "Latest executions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.LatestExecutions(cmd.Context(), args[0], latestPage))
		},
	}
	addPageFlags(latestCmd, &latestPage)
	rootCmd.AddCommand(latestCmd)

	var positionsPage gmocoin.Page
	positionsCmd := &cobra.Command{
		Use:   "open-positions SYMBOL",
		Short: "Open margin positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(client.OpenPositions(cmd.Context(), args[0], positionsPage))
		},
	}
	addPageFlags(positionsCmd, &positionsPage)
	rootCmd.AddCommand(positionsCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "position-summary [SYMBOL]",
		Short: "Position summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			return printResponse(client.PositionSummary(cmd.Context(), symbol))
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "transfer AMOUNT DEPOSIT|WITHDRAWAL",
		Short: "Move JPY between spot and margin accounts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimal("amount", args[0])
			if err != nil {
				return err
			}
			return printResponse(client.AccountTransfer(cmd.Context(), amount, gmocoin.TransferType(strings.ToUpper(args[1]))))
		},
	})

	rootCmd.AddCommand(orderCmd())

	for _, side := range []gmocoin.Side{gmocoin.SideBuy, gmocoin.SideSell} {
		use := "bid"
		if side == gmocoin.SideSell {
			use = "ask"
		}
		rootCmd.AddCommand(&cobra.Command{
			Use:   use + " SYMBOL SIZE PRICE",
			Short: "Limit " + strings.ToLower(string(side)) + " order",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				size, err := parseDecimal("size", args[1])
				if err != nil {
					return err
				}
				price, err := parseDecimal("price", args[2])
				if err != nil {
					return err
				}
				if side == gmocoin.SideBuy {
					return printResponse(client.BidLimitOrder(cmd.Context(), args[0], size, price))
				}
				return printResponse(client.AskLimitOrder(cmd.Context(), args[0], size, price))
			},
		})
	}

	var changeLosscut string
	changeCmd := &cobra.Command{
		Use:   "change-order ORDER_ID PRICE",
		Short: "Change the price of an active order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("Некорректный orderId=%q: %w", args[0], err)
			}
			price, err := parseDecimal("price", args[1])
			if err != nil {
				return err
			}
			losscut, err := optionalDecimal("losscut-price", changeLosscut)
			if err != nil {
				return err
			}
			return printResponse(client.ChangeOrder(cmd.Context(), id, price, losscut))
		},
	}
	changeCmd.Flags().StringVar(&changeLosscut, "losscut-price", "", "losscut price")
	rootCmd.AddCommand(changeCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "cancel-order ORDER_ID",
		Short: "Cancel one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return printResponse(client.CancelOrder(cmd.Context(), ids[0]))
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "cancel-orders ORDER_ID...",
		Short: "Cancel several orders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return printResponse(client.CancelOrders(cmd.Context(), ids))
		},
	})

	var bulkSide, bulkSettle string
	var bulkDesc bool
	bulkCmd := &cobra.Command{
		Use:   "cancel-bulk SYMBOL...",
		Short: "Cancel all orders of the given symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := gmocoin.CancelBulkParams{
				Symbols:    args,
				Side:       gmocoin.Side(strings.ToUpper(bulkSide)),
				SettleType: gmocoin.SettleType(strings.ToUpper(bulkSettle)),
			}
			if cmd.Flags().Changed("desc") {
				p.Desc = gmocoin.Bool(bulkDesc)
			}
			return printResponse(client.CancelBulkOrder(cmd.Context(), p))
		},
	}
	bulkCmd.Flags().StringVar(&bulkSide, "side", "", "BUY or SELL")
	bulkCmd.Flags().StringVar(&bulkSettle, "settle-type", "", "OPEN or CLOSE")
	bulkCmd.Flags().BoolVar(&bulkDesc, "desc", false, "cancel newest orders first")
	rootCmd.AddCommand(bulkCmd)

	rootCmd.AddCommand(closeOrderCmd(), closeBulkCmd())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "change-losscut POSITION_ID PRICE",
		Short: "Change the losscut price of a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}
			price, err := parseDecimal("losscut-price", args[1])
			if err != nil {
				return err
			}
			return printResponse(client.ChangeLosscutPrice(cmd.Context(), ids[0], price))
		},
	})
}

type orderFlags struct {
	side         string
	execType     string
	timeInForce  string
	price        string
	cancelBefore bool
}

func (f *orderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.side, "side", "", "BUY or SELL")
	cmd.Flags().StringVar(&f.execType, "type", "", "MARKET, LIMIT or STOP")
	cmd.Flags().StringVar(&f.timeInForce, "tif", "", "FAK, FAS, FOK or SOK")
	cmd.Flags().StringVar(&f.price, "price", "", "price, required for LIMIT and STOP")
	cmd.Flags().BoolVar(&f.cancelBefore, "cancel-before", false, "cancel active orders first")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("type")
}

func (f *orderFlags) cancelBeforeFlag(cmd *cobra.Command) *bool {
	if !cmd.Flags().Changed("cancel-before") {
		return nil
	}
	return gmocoin.Bool(f.cancelBefore)
}

func orderCmd() *cobra.Command {
	var f orderFlags
	var losscut string

	cmd := &cobra.Command{
		Use:   "order SYMBOL SIZE",
		Short: "Place a new order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseDecimal("size", args[1])
			if err != nil {
				return err
			}
			price, err := optionalDecimal("price", f.price)
			if err != nil {
				return err
			}
			losscutPrice, err := optionalDecimal("losscut-price", losscut)
			if err != nil {
				return err
			}
			return printResponse(client.Order(cmd.Context(), gmocoin.OrderParams{
				Symbol:        args[0],
				Side:          gmocoin.Side(strings.ToUpper(f.side)),
				ExecutionType: gmocoin.ExecutionType(strings.ToUpper(f.execType)),
				TimeInForce:   gmocoin.TimeInForce(strings.ToUpper(f.timeInForce)),
				Price:         price,
				LosscutPrice:  losscutPrice,
				Size:          size,
				CancelBefore:  f.cancelBeforeFlag(cmd),
			}))
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&losscut, "losscut-price", "", "losscut price, margin only")
	return cmd
}

func closeOrderCmd() *cobra.Command {
	var f orderFlags

	cmd := &cobra.Command{
		Use:   "close-order SYMBOL POSITION_ID SIZE",
		Short: "Settle one margin position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[1:2])
			if err != nil {
				return err
			}
			size, err := parseDecimal("size", args[2])
			if err != nil {
				return err
			}
			price, err := optionalDecimal("price", f.price)
			if err != nil {
				return err
			}
			return printResponse(client.CloseOrder(cmd.Context(), gmocoin.CloseOrderParams{
				Symbol:         args[0],
				Side:           gmocoin.Side(strings.ToUpper(f.side)),
				ExecutionType:  gmocoin.ExecutionType(strings.ToUpper(f.execType)),
				TimeInForce:    gmocoin.TimeInForce(strings.ToUpper(f.timeInForce)),
				Price:          price,
				SettlePosition: []gmocoin.SettlePosition{{PositionID: ids[0], Size: size}},
				CancelBefore:   f.cancelBeforeFlag(cmd),
			}))
		},
	}
	f.bind(cmd)
	return cmd
}

func closeBulkCmd() *cobra.Command {
	var f orderFlags

	cmd := &cobra.Command{
		Use:   "close-bulk SYMBOL SIZE",
		Short: "Settle positions of one symbol and side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseDecimal("size", args[1])
			if err != nil {
				return err
			}
			price, err := optionalDecimal("price", f.price)
			if err != nil {
				return err
			}
			return printResponse(client.CloseBulkOrder(cmd.Context(), gmocoin.CloseBulkOrderParams{
				Symbol:        args[0],
				Side:          gmocoin.Side(strings.ToUpper(f.side)),
				ExecutionType: gmocoin.ExecutionType(strings.ToUpper(f.execType)),
				TimeInForce:   gmocoin.TimeInForce(strings.ToUpper(f.timeInForce)),
				Price:         price,
				Size:          size,
			}))
		},
	}
	f.bind(cmd)
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Некорректный идентификатор %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func simpleCmd(use, short string, call func(ctx context.Context) (*gmocoin.Response, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(call(cmd.Context()))
		},
	}
}
