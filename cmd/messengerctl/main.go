// messengerctl is a CLI tool for working with messenger project
// configuration and test events.
//
// Usage:
//
//	messengerctl preview -f event.yaml -c projects.yaml
//	messengerctl send -f event.yaml -c projects.yaml
//	messengerctl validate -c projects.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version      = "dev"
	projectsPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "messengerctl",
		Short: "Inspect and test messenger notifications",
		Long: `messengerctl renders and delivers notifications from event files,
using the same dispatch pipeline as messengerd.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&projectsPath, "projects-file", "c", "projects.yaml", "Path to the projects YAML file")

	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
