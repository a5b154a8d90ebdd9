package smartwallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transfer describes one call made by the wallet. A nil or zero Value and an
// empty Data are sent as ZeroSentinel.
type Transfer struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Submission is either a Single transfer or a Batch of transfers. The kind
// picks the wallet capability: a Batch always goes through the batch call,
// even with one element.
type Submission interface {
	isSubmission()
	Len() int
}

// Single submits one transfer through the wallet's single-call capability
type Single struct {
	Transfer
}

// Batch submits its transfers as one multisend
type Batch []Transfer

func (Single) isSubmission() {}
func (Batch) isSubmission()  {}

func (Single) Len() int  { return 1 }
func (b Batch) Len() int { return len(b) }

// metaTransaction normalizes a transfer into its wire shape
func (t Transfer) metaTransaction() (MetaTransaction, error) {
	meta := MetaTransaction{
		To:    t.To.Hex(),
		Value: ZeroSentinel,
		Data:  ZeroSentinel,
	}

	if t.Value != nil && t.Value.Sign() != 0 {
		value, err := normalizeString(t.Value)
		if err != nil {
			return MetaTransaction{}, fmt.Errorf("couldn't normalize value: %w", err)
		}
		meta.Value = value
	}

	if len(t.Data) > 0 {
		data, err := normalizeString(t.Data)
		if err != nil {
			return MetaTransaction{}, fmt.Errorf("couldn't normalize data: %w", err)
		}
		meta.Data = data
	}

	return meta, nil
}

func normalizeString(v any) (string, error) {
	out, err := Normalize(v)
	if err != nil {
		return "", err
	}
	s, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("expected a hex string, got %T", out)
	}
	return s, nil
}
