package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/lncm/una/common"
)

func (c *cli) newInfo() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show node version, network and channel counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(func(ctx context.Context, node client) error {
				info, err := node.GetInfo(ctx)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
}

func (c *cli) newNewInvoice() *cobra.Command {
	var (
		params common.CreateInvoiceParams
		msat   bool
		qr     bool
	)

	cmd := &cobra.Command{
		Use:   "newinvoice <amount> [description]",
		Short: "Create an invoice; an amount of 0 creates an any-amount invoice",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return xerrors.Errorf("invalid amount %q: %w", args[0], err)
			}

			if msat {
				params.AmountMsat = amount
			} else {
				params.Amount = amount
			}

			if len(args) > 1 {
				params.Description = args[1]
			}

			return c.run(func(ctx context.Context, node client) error {
				res, err := node.CreateInvoice(ctx, params)
				if err != nil {
					return err
				}

				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}

				if !qr {
					return nil
				}

				code, err := qrcode.New(res.PaymentRequest, qrcode.Medium)
				if err != nil {
					return xerrors.Errorf("can't render QR code: %w", err)
				}

				_, err = fmt.Fprint(cmd.OutOrStdout(), code.ToSmallString(false))
				return err
			})
		},
	}

	f := cmd.Flags()
	f.BoolVar(&msat, "msat", false, "Amount is in millisatoshis")
	f.StringVar(&params.Label, "label", "", "Invoice label (LND and Core Lightning)")
	f.StringVar(&params.DescriptionHash, "description-hash", "", "Hex SHA256 of a description kept out of band")
	f.Uint32Var(&params.ExpireIn, "expiry", 0, "Seconds until the invoice expires (default 3600)")
	f.StringVar(&params.FallbackAddress, "fallback-address", "", "On-chain fallback address")
	f.StringVar(&params.PaymentPreimage, "preimage", "", "Hex preimage to use instead of a random one")
	f.Uint32Var(&params.CltvExpiry, "cltv-expiry", 0, "Final hop CLTV delta")
	f.BoolVar(&qr, "qr", false, "Also print the invoice as a QR code")

	return cmd
}

func (c *cli) newPayInvoice() *cobra.Command {
	var params common.PayInvoiceParams

	cmd := &cobra.Command{
		Use:   "payinvoice <bolt11>",
		Short: "Pay an invoice and wait for the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.PaymentRequest = args[0]

			return c.run(func(ctx context.Context, node client) error {
				res, err := node.PayInvoice(ctx, params)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&params.Amount, "amount", 0, "Amount in satoshis, for any-amount invoices")
	f.Uint64Var(&params.AmountMsat, "amount-msat", 0, "Amount in millisatoshis, for any-amount invoices")
	f.Uint64Var(&params.MaxFeeSat, "max-fee-sat", 0, "Fee ceiling in satoshis")
	f.Uint64Var(&params.MaxFeeMsat, "max-fee-msat", 0, "Fee ceiling in millisatoshis")
	f.Float64Var(&params.MaxFeePercent, "max-fee-percent", 0, "Fee ceiling as a percentage of the amount")

	return cmd
}

func (c *cli) newInvoice() *cobra.Command {
	return &cobra.Command{
		Use:   "invoice <payment-hash>",
		Short: "Look up an invoice issued by this node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(func(ctx context.Context, node client) error {
				inv, err := node.GetInvoice(ctx, args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), inv)
			})
		},
	}
}

func (c *cli) newDecodeInvoice() *cobra.Command {
	return &cobra.Command{
		Use:   "decodeinvoice <bolt11>",
		Short: "Decode a BOLT11 invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(func(ctx context.Context, node client) error {
				res, err := node.DecodeInvoice(ctx, args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}
