package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/lncm/una/common"
	"github.com/lncm/una/ln"
)

type (
	client interface {
		GetInfo(ctx context.Context) (common.NodeInfo, error)
		CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (common.CreateInvoiceResult, error)
		PayInvoice(ctx context.Context, params common.PayInvoiceParams) (common.PayInvoiceResult, error)
		GetInvoice(ctx context.Context, paymentHash string) (common.Invoice, error)
		DecodeInvoice(ctx context.Context, bolt11 string) (common.DecodeInvoiceResult, error)
		Close() error
	}

	connectFunc func(conf common.Config) (client, error)

	cli struct {
		connect connectFunc

		configPath string
		timeout    time.Duration
		debug      bool
	}
)

var version = "debug"

func connectNode(conf common.Config) (client, error) {
	node, err := ln.New(common.ParseBackend(conf.Backend), conf.Node)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func newRootCmd(connect connectFunc) *cobra.Command {
	c := &cli{connect: connect}

	cmd := &cobra.Command{
		Use:           "una-cli",
		Short:         "Talk to an LND, Core Lightning or Eclair node through one interface",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if c.debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", common.DefaultConfigFile, "Path to a config file in TOML format")
	cmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 60*time.Second, "Give up on the node after this long")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "Log every node call to stderr")

	cmd.AddCommand(
		c.newInfo(),
		c.newNewInvoice(),
		c.newPayInvoice(),
		c.newInvoice(),
		c.newDecodeInvoice(),
	)

	return cmd
}

// run connects to the configured node and hands fn a context bounded by
// --timeout.
func (c *cli) run(fn func(ctx context.Context, node client) error) error {
	conf, err := common.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	node, err := c.connect(conf)
	if err != nil {
		return xerrors.Errorf("unable to set up %s backend:\n\t%w", conf.Backend, err)
	}
	defer node.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	return fn(ctx, node)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)

	if err := newRootCmd(connectNode).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", common.KindOf(err), err)
		os.Exit(1)
	}
}
