package smartwallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/KyberNetwork/logger"
	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	errOutcomePending = errors.New("no execution event for the handle yet")
	errReceiptPending = errors.New("receipt not indexed yet")
)

// Confirmation is the result of tracking a provisional handle
type Confirmation struct {
	Outcome *Outcome
	Receipt *types.Receipt
}

// Tracker resolves provisional handles into chain receipts. It polls the
// wallet's ExecutionSuccess and ExecutionFailure logs until one of them
// carries the handle, then polls for the receipt of the transaction that
// emitted it.
//
// Neither loop has an upper bound: without a deadline on ctx, a handle that
// never shows up on chain is waited for forever.
type Tracker struct {
	chain ChainReader

	outcomeInterval time.Duration
	receiptInterval time.Duration
	blockWindow     uint64
	metrics         *Metrics
}

type TrackerOption func(*Tracker)

func WithOutcomePollInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.outcomeInterval = d
		}
	}
}

func WithReceiptPollInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.receiptInterval = d
		}
	}
}

func WithBlockWindow(blocks uint64) TrackerOption {
	return func(t *Tracker) {
		if blocks > 0 {
			t.blockWindow = blocks
		}
	}
}

func WithMetrics(m *Metrics) TrackerOption {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func NewTracker(chain ChainReader, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		chain:           chain,
		outcomeInterval: DefaultOutcomePollInterval,
		receiptInterval: DefaultReceiptPollInterval,
		blockWindow:     DefaultBlockWindow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WaitForTransaction is a one-shot NewTracker(chain, opts...).WaitForTransaction
func WaitForTransaction(
	ctx context.Context,
	chain ChainReader,
	wallet Wallet,
	handle common.Hash,
	opts ...TrackerOption,
) (*Confirmation, error) {
	return NewTracker(chain, opts...).WaitForTransaction(ctx, wallet, handle)
}

// WaitForTransaction blocks until handle resolves to an execution event and
// the receipt of the emitting transaction is available.
//
// A failed execution is not an error: the confirmation is returned with
// Outcome.Kind == OutcomeFailure. Log query errors abort the wait, receipt
// lookup errors are retried. The only way to bound the wait is ctx.
func (t *Tracker) WaitForTransaction(ctx context.Context, wallet Wallet, handle common.Hash) (*Confirmation, error) {
	return t.WaitForSafeTransaction(ctx, wallet.Address(), handle)
}

// WaitForSafeTransaction is WaitForTransaction for a wallet known only by address
func (t *Tracker) WaitForSafeTransaction(ctx context.Context, wallet common.Address, handle common.Hash) (*Confirmation, error) {
	head, err := t.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get current block number: %w", err)
	}

	tc := newTrackingContext(
		handle,
		wallet,
		windowStart(head, t.blockWindow),
		t.outcomeInterval,
		t.receiptInterval,
	)

	outcome, err := t.waitForOutcome(ctx, tc)
	if err != nil {
		return nil, err
	}
	// the receipt hash comes from whichever event was found
	txHash := outcome.TxHash

	logger.WithFields(logger.Fields{
		"safe_tx_hash": handle.Hex(),
		"tx_hash":      txHash.Hex(),
		"outcome":      outcome.Kind,
		"polls":        tc.OutcomePolls(),
	}).Info("Execution event found")

	receipt, err := t.waitForReceipt(ctx, tc, txHash)
	if err != nil {
		return nil, err
	}
	t.metrics.observeConfirmation(outcome.Kind, tc.startedAt)

	if outcome.Kind == OutcomeFailure {
		logger.WithFields(logger.Fields{
			"safe_tx_hash": handle.Hex(),
			"tx_hash":      txHash.Hex(),
		}).Warn("Transaction executed with failure")
	}

	return &Confirmation{Outcome: outcome, Receipt: receipt}, nil
}

// waitForOutcome queries both event windows every cycle. When both match,
// success wins.
func (t *Tracker) waitForOutcome(ctx context.Context, tc *TrackingContext) (*Outcome, error) {
	return backoff.Retry(ctx, func() (*Outcome, error) {
		tc.outcomePolls++
		t.metrics.observePoll()

		success, err := t.findOutcome(ctx, tc, OutcomeSuccess, executionSuccessEvent)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("couldn't query %s logs: %w", executionSuccessEvent, err))
		}
		failure, err := t.findOutcome(ctx, tc, OutcomeFailure, executionFailureEvent)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("couldn't query %s logs: %w", executionFailureEvent, err))
		}

		switch {
		case success != nil && failure != nil:
			logger.WithFields(logger.Fields{
				"safe_tx_hash":    tc.handle.Hex(),
				"success_tx_hash": success.TxHash.Hex(),
				"failure_tx_hash": failure.TxHash.Hex(),
			}).Warn("Both success and failure events found, using success")
			return success, nil
		case success != nil:
			return success, nil
		case failure != nil:
			return failure, nil
		}
		return nil, errOutcomePending
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(tc.outcomeInterval)),
		backoff.WithMaxElapsedTime(0),
	)
}

func (t *Tracker) findOutcome(ctx context.Context, tc *TrackingContext, kind OutcomeKind, event string) (*Outcome, error) {
	logs, err := t.chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(tc.fromBlock),
		Addresses: []common.Address{tc.wallet},
		Topics:    [][]common.Hash{{safeEventsABI.Events[event].ID}},
	})
	if err != nil {
		return nil, err
	}
	for _, log := range logs {
		outcome, ok := decodeOutcome(kind, event, log)
		if ok && outcome.SafeTxHash == tc.handle {
			return outcome, nil
		}
	}
	return nil, nil
}

func (t *Tracker) waitForReceipt(ctx context.Context, tc *TrackingContext, txHash common.Hash) (*types.Receipt, error) {
	return backoff.Retry(ctx, func() (*types.Receipt, error) {
		tc.receiptAttempts++

		receipt, err := t.chain.TransactionReceipt(ctx, txHash)
		if err != nil {
			t.metrics.observeReceiptError()
			logger.WithFields(logger.Fields{
				"tx_hash": txHash.Hex(),
				"attempt": tc.ReceiptAttempts(),
				"error":   err,
			}).Debug("Receipt lookup failed, retrying")
			return nil, err
		}
		if receipt == nil {
			return nil, errReceiptPending
		}
		if receipt.TxHash != txHash {
			logger.WithFields(logger.Fields{
				"tx_hash":         txHash.Hex(),
				"receipt_tx_hash": receipt.TxHash.Hex(),
			}).Warn("Node returned a receipt for another transaction, retrying")
			return nil, fmt.Errorf("receipt is for %s, expected %s", receipt.TxHash.Hex(), txHash.Hex())
		}
		return receipt, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(tc.receiptInterval)),
		backoff.WithMaxElapsedTime(0),
	)
}
