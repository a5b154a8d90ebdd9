package smartwallet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficientFund       = errors.New("insufficient fund")
	ErrInsufficientSignatures = errors.New("insufficient signatures")
	ErrInvalidSignature       = errors.New("invalid signature")
)

// SubmissionError is a wallet-side rejection of a transfer or batch. It is
// surfaced as soon as the wallet answers and never retried.
type SubmissionError struct {
	// Kind is one of the sentinels above, nil when the rejection couldn't be classified
	Kind  error
	Cause error
}

// NewSubmissionError classifies a wallet error. It returns nil for a nil error.
func NewSubmissionError(err error) error {
	if err == nil {
		return nil
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return err
	}

	// Check error conditions in priority order
	var kind error
	switch {
	case IsInsufficientFund(err):
		kind = ErrInsufficientFund
	case IsInsufficientSignatures(err):
		kind = ErrInsufficientSignatures
	case IsInvalidSignature(err):
		kind = ErrInvalidSignature
	}
	return &SubmissionError{Kind: kind, Cause: err}
}

func (e *SubmissionError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("wallet rejected submission (%s): %s", e.Kind, e.Cause)
	}
	return fmt.Sprintf("wallet rejected submission: %s", e.Cause)
}

// Is lets errors.Is match the classified sentinel as well as the cause chain
func (e *SubmissionError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

func IsInsufficientFund(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	hasInsufficientFunds := strings.Contains(errMsg, "insufficient funds")
	hasInsufficientBalance := strings.Contains(errMsg, "insufficient balance")
	hasNotEnoughFunds := strings.Contains(errMsg, "not enough funds")
	hasBalanceTooLow := strings.Contains(errMsg, "balance too low")
	return hasInsufficientFunds || hasInsufficientBalance || hasNotEnoughFunds || hasBalanceTooLow
}

func IsInsufficientSignatures(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	hasNotEnoughSigners := strings.Contains(errMsg, "signer") && (strings.Contains(errMsg, "insufficient") || strings.Contains(errMsg, "not enough"))
	hasNotEnoughSignatures := strings.Contains(errMsg, "signatures") && (strings.Contains(errMsg, "insufficient") || strings.Contains(errMsg, "not enough"))
	hasThreshold := strings.Contains(errMsg, "threshold") && strings.Contains(errMsg, "not reached")
	return hasNotEnoughSigners || hasNotEnoughSignatures || hasThreshold
}

func IsInvalidSignature(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	hasInvalid := strings.Contains(errMsg, "invalid signature") || strings.Contains(errMsg, "bad signature")
	hasGS026 := strings.Contains(errMsg, "gs026")
	return hasInvalid || hasGS026
}
