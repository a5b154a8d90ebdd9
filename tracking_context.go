package smartwallet

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TrackingContext holds the state of one confirmation wait
type TrackingContext struct {
	// Poll tracking
	outcomePolls    int
	receiptAttempts int
	startedAt       time.Time

	// Configuration
	outcomeInterval time.Duration
	receiptInterval time.Duration

	// What is being tracked
	handle    common.Hash
	wallet    common.Address
	fromBlock uint64
}

// newTrackingContext creates the state for waiting on handle sent by wallet,
// scanning logs from fromBlock on
func newTrackingContext(
	handle common.Hash,
	wallet common.Address,
	fromBlock uint64,
	outcomeInterval time.Duration,
	receiptInterval time.Duration,
) *TrackingContext {
	return &TrackingContext{
		startedAt:       time.Now(),
		outcomeInterval: outcomeInterval,
		receiptInterval: receiptInterval,
		handle:          handle,
		wallet:          wallet,
		fromBlock:       fromBlock,
	}
}

// OutcomePolls is the number of completed outcome polling cycles
func (tc *TrackingContext) OutcomePolls() int {
	return tc.outcomePolls
}

// ReceiptAttempts is the number of receipt lookups made
func (tc *TrackingContext) ReceiptAttempts() int {
	return tc.receiptAttempts
}

// windowStart returns head-window, clamped at genesis
func windowStart(head, window uint64) uint64 {
	if head < window {
		return 0
	}
	return head - window
}
