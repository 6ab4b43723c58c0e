/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/orderdesk/apiserver/internal/mq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect entity events on the message queue",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch <channel>",
	Short: "Print events published on a channel",
	Long: `Prints every event published on a channel, one JSON document per line.
Channels are named <resource>.<action>, e.g. orders.created. The channel may
be a pattern such as "orders.*" or "#".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		defer queue.Close()

		log.Info("watching events", zap.String("channel", args[0]), zap.String("backend", cfg.MQ.Backend))
		err = queue.Subscribe(ctx, args[0], func(_ context.Context, msg mq.Message) error {
			_, err := fmt.Fprintln(os.Stdout, string(msg.Data))
			return err
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
}
