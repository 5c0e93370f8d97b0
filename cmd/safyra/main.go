package main

import (
	"os"

	"github.com/spf13/cobra"

	"safyra/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "safyra",
		Short: "Safyra - personal safety companion service",
		Long:  `Safyra is a personal safety service providing panic-mode check-ins, emergency escalation, SOS recordings, and incident history.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
