package smartwallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Account exposes the smart wallet as a signing account
type Account struct {
	wallet Wallet
}

func NewAccount(wallet Wallet) *Account {
	return &Account{wallet: wallet}
}

func (a *Account) Address() common.Address {
	return a.wallet.Address()
}

// SignMessage returns the wallet signature of message, 0x-prefixed
func (a *Account) SignMessage(ctx context.Context, message string) (string, error) {
	sig, err := a.wallet.SignMessage(ctx, message)
	if err != nil {
		return "", fmt.Errorf("couldn't sign message: %w", err)
	}
	return "0x" + strings.TrimPrefix(sig, "0x"), nil
}

// SignTransaction has the wallet build its sponsored package for tx and
// sign it. Contract creation is not supported.
func (a *Account) SignTransaction(ctx context.Context, tx *types.Transaction) (string, error) {
	if tx.To() == nil {
		return "", fmt.Errorf("%w: contract creation", ErrNotSupported)
	}

	meta := MetaTransaction{
		To:    tx.To().Hex(),
		Value: hexutil.EncodeBig(tx.Value()),
		Data:  ZeroSentinel,
	}
	if len(tx.Data()) > 0 {
		meta.Data = hexutil.Encode(tx.Data())
	}

	safeTx, err := a.wallet.BuildTransaction(ctx, meta)
	if err != nil {
		return "", fmt.Errorf("couldn't build transaction: %w", err)
	}
	signed, err := a.wallet.SignTransaction(ctx, safeTx)
	if err != nil {
		return "", fmt.Errorf("couldn't sign transaction: %w", err)
	}
	return signed, nil
}

// SignTypedData always fails: the wallet has no structured data signing
func (a *Account) SignTypedData(ctx context.Context, typedData apitypes.TypedData) (string, error) {
	return "", ErrNotSupported
}
