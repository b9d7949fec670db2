package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viv500/GenesisAI/pkg/events"
	pktNats "github.com/viv500/GenesisAI/pkg/nats"
)

var (
	watchType    string
	watchDurable string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow board events published on NATS",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.App.NatsURL == "" {
			fatal("watch", errors.New("NATS_URL is not set"))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			fatal("watch", err)
		}
		defer sub.Close()

		subject := pktNats.SubjectPrefix + ".>"
		if watchType != "" {
			subject = pktNats.Subject(watchType)
		}

		err = sub.Subscribe(ctx, subject, watchDurable, func(_ context.Context, event events.Event) error {
			printEvent(event)
			return nil
		})
		if err != nil {
			fatal("watch", err)
		}

		color.Cyan("Watching %s (Ctrl+C to stop)", subject)
		<-ctx.Done()
	},
}

func printEvent(event events.Event) {
	payload := event.Payload()
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "type" || k == "occurred_at" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s %s\n",
		color.HiBlackString(event.Timestamp().Format("15:04:05")),
		color.YellowString(event.EventType()),
	)
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", color.CyanString(k), payload[k])
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchType, "type", "t", "", "Only show one event type, e.g. NOTE_EDITED")
	watchCmd.Flags().StringVar(&watchDurable, "durable", "", "Durable consumer name; empty follows new events only")
}
