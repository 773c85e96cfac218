package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"specimenpro/internal/kafka"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow catalog notifications from Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Kafka.Enabled || cfg.Kafka.MockMode {
				return errors.New("kafka is disabled; set KAFKA_ENABLED=true and KAFKA_MOCK_MODE=false")
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := kafka.EnsureTopic(runCtx, cfg.Kafka.Brokers, cfg.Kafka.Topic, ctx.logger()); err != nil {
				return err
			}
			consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, groupID, ctx.logger())
			defer consumer.Close()

			out := cmd.OutOrStdout()
			return consumer.Start(runCtx, func(n kafka.Notification) {
				fmt.Fprintln(out, describeNotification(n))
			})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "specimenctl-watch", "Kafka consumer group")
	return cmd
}

func describeNotification(n kafka.Notification) string {
	switch n.Type {
	case kafka.TypeDocumentSaved:
		return fmt.Sprintf("%s  saved %s (%d events)", n.Timestamp, n.Path, n.Events)
	case kafka.TypeBatchGenerated:
		line := fmt.Sprintf("%s  %s batch for %s: %d written -> %s", n.Timestamp, n.Mode, n.EventID, n.Written, n.Output)
		if n.Error != "" {
			line += " (failed: " + n.Error + ")"
		}
		return line
	}
	return fmt.Sprintf("%s  %s", n.Timestamp, n.Type)
}
