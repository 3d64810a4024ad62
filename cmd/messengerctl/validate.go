package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claves/redmine-messenger/internal/config"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the projects file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := config.LoadProjects(projectsPath)
			if err != nil {
				return err
			}

			configured := 0
			for _, cfg := range projects.Projects {
				if cfg.WebhookURL != "" && len(cfg.Channels) > 0 {
					configured++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d projects (%d with active webhooks), %d directory users\n",
				len(projects.Projects), configured, len(projects.Users))
			return nil
		},
	}
}
