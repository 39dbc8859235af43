package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leadhub/leadhub/internal/interfaces/cli/migrate"
	"github.com/leadhub/leadhub/internal/interfaces/cli/reconcile"
	"github.com/leadhub/leadhub/internal/interfaces/cli/server"
	"github.com/leadhub/leadhub/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "leadhub",
		Short:   "LeadHub - subscription lifecycle manager",
		Long:    `LeadHub keeps vendor subscriptions and their lead quotas in step: renewal reminders, expiration and quota revocation.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		reconcile.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
