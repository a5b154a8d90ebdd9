package smartwallet

import (
	"context"
	"fmt"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"
)

// Submitter hands transfers to the wallet and returns the provisional handle
// the relay assigned. It doesn't retry: wallet rejections come back as
// *SubmissionError right away.
type Submitter struct {
	wallet Wallet
}

func NewSubmitter(wallet Wallet) *Submitter {
	return &Submitter{wallet: wallet}
}

// Submit dispatches on the submission kind
func (s *Submitter) Submit(ctx context.Context, sub Submission) (common.Hash, error) {
	switch sub := sub.(type) {
	case Single:
		return s.submitSingle(ctx, sub.Transfer)
	case *Single:
		if sub == nil {
			return common.Hash{}, ErrNilSubmission
		}
		return s.submitSingle(ctx, sub.Transfer)
	case Batch:
		return s.submitBatch(ctx, sub)
	default:
		return common.Hash{}, ErrNilSubmission
	}
}

func (s *Submitter) submitSingle(ctx context.Context, transfer Transfer) (common.Hash, error) {
	meta, err := transfer.metaTransaction()
	if err != nil {
		return common.Hash{}, err
	}

	result, err := s.wallet.SendTransaction(ctx, meta)
	if err != nil {
		return common.Hash{}, NewSubmissionError(err)
	}
	if result == nil {
		return common.Hash{}, ErrEmptySendResult
	}

	logger.WithFields(logger.Fields{
		"safe_tx_hash": result.SafeTxHash.Hex(),
		"to":           meta.To,
		"value":        meta.Value,
	}).Debug("Wallet accepted transaction")
	return result.SafeTxHash, nil
}

func (s *Submitter) submitBatch(ctx context.Context, batch Batch) (common.Hash, error) {
	if len(batch) == 0 {
		return common.Hash{}, newConfigurationError(ErrEmptyBatch)
	}

	metas := make([]MetaTransaction, 0, len(batch))
	for i, transfer := range batch {
		meta, err := transfer.metaTransaction()
		if err != nil {
			return common.Hash{}, fmt.Errorf("transfer %d: %w", i, err)
		}
		metas = append(metas, meta)
	}

	result, err := s.wallet.SendBatchTransactions(ctx, metas)
	if err != nil {
		return common.Hash{}, NewSubmissionError(err)
	}
	if result == nil {
		return common.Hash{}, ErrEmptySendResult
	}

	logger.WithFields(logger.Fields{
		"safe_tx_hash": result.SafeTxHash.Hex(),
		"size":         len(metas),
	}).Debug("Wallet accepted batch")
	return result.SafeTxHash, nil
}
