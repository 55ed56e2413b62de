package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "brokerage-ledger",
	Short:         "Brokerage ledger: accounts, cash movements and stock positions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", err, logger.Fields{"command": os.Args[1:]})
		os.Exit(1)
	}
}
