package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"github.com/tranvictor/jarvis/networks"

	"github.com/piavgh/smartwallet"
	"github.com/piavgh/smartwallet/chains"
)

const (
	chainFlag   = "chain"
	networkFlag = "network"
	timeoutFlag = "timeout"
)

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <wallet> <safe-tx-hash>...",
		Short: "Wait until relayed transactions are executed on chain",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(args[0]) {
				return fmt.Errorf("invalid wallet address %q", args[0])
			}
			wallet := common.HexToAddress(args[0])
			handles, err := parseHandles(args[1:])
			if err != nil {
				return err
			}

			configPath, _ := cmd.Flags().GetString(configFlag)
			cfg, err := smartwallet.LoadConfig(configPath)
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetUint64(chainFlag)
			networkName, _ := cmd.Flags().GetString(networkFlag)
			chain, err := resolveChain(cfg.ChainID, id, networkName)
			if err != nil {
				return err
			}
			rpcURL := cfg.RPC
			if rpcURL == "" || chain.ID != cfg.ChainID {
				rpcURL = chain.RPCURL
			}

			ctx := cmd.Context()
			if timeout, _ := cmd.Flags().GetDuration(timeoutFlag); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			client, err := ethclient.DialContext(ctx, rpcURL)
			if err != nil {
				return fmt.Errorf("couldn't dial %s rpc %s: %w", chain.Name, rpcURL, err)
			}
			defer client.Close()

			tracker := smartwallet.NewTracker(client, cfg.TrackerOptions()...)
			return trackAll(ctx, cmd.OutOrStdout(), tracker, wallet, handles)
		},
	}
	cmd.Flags().Uint64(chainFlag, 0, "chain id, overrides the config")
	cmd.Flags().String(networkFlag, "", "jarvis network name, overrides --chain and the config")
	cmd.Flags().Duration(timeoutFlag, 0, "give up after this long, 0 waits forever")
	return cmd
}

// resolveChain picks the chain from, in order: a jarvis network name, the
// chain id flag, the configured chain id
func resolveChain(configured, flagID uint64, networkName string) (chains.Chain, error) {
	if networkName != "" {
		network, err := networks.GetNetwork(networkName)
		if err != nil {
			return chains.Chain{}, fmt.Errorf("unknown network %q: %w", networkName, err)
		}
		return chains.LookupNetwork(network)
	}
	if flagID != 0 {
		return chains.Lookup(flagID)
	}
	return chains.Lookup(configured)
}

func parseHandles(args []string) ([]common.Hash, error) {
	handles := make([]common.Hash, 0, len(args))
	for _, arg := range args {
		h, err := hexToHash(arg)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func hexToHash(s string) (common.Hash, error) {
	var h common.Hash
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return common.Hash{}, fmt.Errorf("invalid safe tx hash %q: %w", s, err)
	}
	return h, nil
}

// trackAll waits for every handle in parallel and reports each resolution as
// it happens
func trackAll(ctx context.Context, out io.Writer, tracker *smartwallet.Tracker, wallet common.Address, handles []common.Hash) error {
	wg := sync.WaitGroup{}
	mu := sync.Mutex{}
	errChan := make(chan error, len(handles))
	started := time.Now()

	for _, handle := range handles {
		wg.Add(1)
		go func(handle common.Hash) {
			defer wg.Done()
			confirmation, err := tracker.WaitForSafeTransaction(ctx, wallet, handle)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", handle.Hex(), err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "%s\t%s\t%s\tblock %d\t%s\n",
				handle.Hex(),
				confirmation.Outcome.Kind,
				confirmation.Receipt.TxHash.Hex(),
				confirmation.Receipt.BlockNumber.Uint64(),
				time.Since(started).Round(time.Millisecond),
			)
		}(handle)
	}

	wg.Wait()
	close(errChan)

	errs := []error{}
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		errMsg := ""
		for _, err := range errs {
			errMsg += fmt.Sprintf("%s\n", err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}
