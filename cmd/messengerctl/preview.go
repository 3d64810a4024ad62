package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claves/redmine-messenger/internal/config"
	"github.com/claves/redmine-messenger/internal/directory"
	"github.com/claves/redmine-messenger/internal/locale"
	"github.com/claves/redmine-messenger/internal/mention"
	"github.com/claves/redmine-messenger/internal/notifier"
	"github.com/claves/redmine-messenger/internal/types"
)

// captureSender records the assembled payload instead of delivering it.
type captureSender struct {
	payload *types.Payload
}

func (s *captureSender) Name() string { return "capture" }

func (s *captureSender) Send(_ context.Context, p types.Payload) error {
	s.payload = &p
	return nil
}

func previewCmd() *cobra.Command {
	var eventPath, lang string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the payload for an event without sending it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcome, payload, err := runPipeline(eventPath, lang, &captureSender{})
			if err != nil {
				return err
			}
			if outcome.Suppressed() {
				fmt.Fprintf(cmd.OutOrStdout(), "suppressed: %s\n", outcome.Reason)
				return nil
			}
			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventPath, "event-file", "f", "", "Event file (YAML or JSON)")
	cmd.Flags().StringVar(&lang, "language", "en", "Label language")
	_ = cmd.MarkFlagRequired("event-file")
	return cmd
}

// runPipeline loads config and event and runs one dispatch through the
// given sink. Returns the payload when the sink was a captureSender.
func runPipeline(eventPath, lang string, sink notifier.Sender) (types.Outcome, *types.Payload, error) {
	projects, err := config.LoadProjects(projectsPath)
	if err != nil {
		return types.Outcome{}, nil, err
	}
	ev, err := loadEvent(eventPath)
	if err != nil {
		return types.Outcome{}, nil, err
	}
	cfg, err := loadProject(projects, ev)
	if err != nil {
		return types.Outcome{}, nil, err
	}

	logger := zap.NewNop()
	resolver := mention.NewResolver(directory.New(logger, projects.Users))
	assembler := notifier.NewAssembler(logger, sink, resolver, notifier.AssemblerOptions{
		DefaultLanguage: locale.Match(lang),
	})

	var outcome types.Outcome
	if ev.Kind == types.EventUpdated {
		outcome, err = assembler.OnUpdated(context.Background(), ev, cfg)
	} else {
		outcome, err = assembler.OnCreated(context.Background(), ev, cfg)
	}
	if err != nil {
		return outcome, nil, err
	}

	if cs, ok := sink.(*captureSender); ok {
		return outcome, cs.payload, nil
	}
	return outcome, nil, nil
}
