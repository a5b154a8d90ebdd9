package smartwallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest represents a submission request with builder pattern. Without
// AddTransfer/SetBatch it submits a Single built from To/Value/Data.
type TxRequest struct {
	client *Client

	// Single transfer parameters
	to    common.Address
	value *big.Int
	data  []byte

	// Batch parameters
	batch   Batch
	isBatch bool

	// Hooks
	beforeSubmitHook Hook
	afterSubmitHook  Hook
}

// R creates a new submission request (similar to go-resty's R() method)
func (c *Client) R() *TxRequest {
	return &TxRequest{
		client: c,
		value:  big.NewInt(0), // default value
	}
}

// SetTo sets the to address
func (r *TxRequest) SetTo(to common.Address) *TxRequest {
	r.to = to
	return r
}

// SetValue sets the transfer value
func (r *TxRequest) SetValue(value *big.Int) *TxRequest {
	if value != nil {
		r.value = value
	}
	return r
}

// SetData sets the call data
func (r *TxRequest) SetData(data []byte) *TxRequest {
	r.data = data
	return r
}

// AddTransfer appends a transfer and turns the request into a batch
func (r *TxRequest) AddTransfer(transfer Transfer) *TxRequest {
	r.batch = append(r.batch, transfer)
	r.isBatch = true
	return r
}

// SetBatch replaces the batch. The request stays a batch even when
// transfers is empty, which fails on submit.
func (r *TxRequest) SetBatch(transfers ...Transfer) *TxRequest {
	r.batch = append(Batch{}, transfers...)
	r.isBatch = true
	return r
}

// SetBeforeSubmitHook sets the hook to be called before the wallet gets the submission
func (r *TxRequest) SetBeforeSubmitHook(hook Hook) *TxRequest {
	r.beforeSubmitHook = hook
	return r
}

// SetAfterSubmitHook sets the hook to be called after the wallet answered
func (r *TxRequest) SetAfterSubmitHook(hook Hook) *TxRequest {
	r.afterSubmitHook = hook
	return r
}

// Submission returns what Submit hands to the wallet
func (r *TxRequest) Submission() Submission {
	if r.isBatch {
		return append(Batch{}, r.batch...)
	}
	return Single{Transfer{To: r.to, Value: r.value, Data: r.data}}
}

// Submit hands the request to the wallet and returns the provisional handle
func (r *TxRequest) Submit(ctx context.Context) (common.Hash, error) {
	sub := r.Submission()

	if r.beforeSubmitHook != nil {
		if err := r.beforeSubmitHook(sub, common.Hash{}, nil); err != nil {
			return common.Hash{}, fmt.Errorf("before submit hook: %w", err)
		}
	}

	handle, err := r.client.submitter.Submit(ctx, sub)

	if r.afterSubmitHook != nil {
		if hookErr := r.afterSubmitHook(sub, handle, err); hookErr != nil {
			return common.Hash{}, fmt.Errorf("after submit hook: %w", hookErr)
		}
	}
	return handle, err
}

// Execute submits the request and waits for its confirmation
func (r *TxRequest) Execute(ctx context.Context) (*Confirmation, error) {
	handle, err := r.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return r.client.WaitForTransaction(ctx, handle)
}
