package main

import (
	"os"

	"github.com/KyberNetwork/logger"
	"github.com/spf13/cobra"
)

const configFlag = "config"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartwallet",
		Short:         "Inspect smart wallet chains and track relayed transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(configFlag, "", "config file, SMARTWALLET_* env vars override it")

	root.AddCommand(
		newChainsCmd(),
		newTrackCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.WithFields(logger.Fields{
			"error": err,
		}).Error("Command failed")
		os.Exit(1)
	}
}
