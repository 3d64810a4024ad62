package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claves/redmine-messenger/internal/notifier"
)

func sendCmd() *cobra.Command {
	var eventPath, lang string
	var timeout int

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver an event through the real webhook sink",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()

			sink := notifier.NewWebhookSender(logger, notifier.WebhookSenderConfig{
				TimeoutSeconds: timeout,
			})
			outcome, _, err := runPipeline(eventPath, lang, sink)
			if err != nil {
				return err
			}
			if outcome.Suppressed() {
				fmt.Fprintf(cmd.OutOrStdout(), "suppressed: %s\n", outcome.Reason)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "delivered")
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventPath, "event-file", "f", "", "Event file (YAML or JSON)")
	cmd.Flags().StringVar(&lang, "language", "en", "Label language")
	cmd.Flags().IntVar(&timeout, "timeout", 10, "Webhook request timeout in seconds")
	_ = cmd.MarkFlagRequired("event-file")
	return cmd
}
