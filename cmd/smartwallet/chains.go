package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piavgh/smartwallet/chains"
)

func newChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List the supported chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, chain := range chains.Supported() {
				kind := "mainnet"
				if chain.Testnet {
					kind = "testnet"
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", chain.ID, chain.Name, chain.NativeCurrency.Symbol, kind, chain.RPCURL)
			}
			return nil
		},
	}
}
