// deps.go defines minimal interfaces for the collaborators this package drives.
// The smart wallet and the chain RPC client are both external; narrowing them to
// interfaces keeps the adapters testable with fakes.
package smartwallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Wallet is the smart-contract wallet capability. Signing, key management, gas
// sponsorship and balance checks all live behind it.
type Wallet interface {
	// Address returns the wallet address, the zero address before Connect
	Address() common.Address

	// ChainID returns the chain the wallet was configured for
	ChainID() uint64

	// SendTransaction hands a single call to the relay and returns its provisional handle
	SendTransaction(ctx context.Context, tx MetaTransaction) (*SendResult, error)

	// SendBatchTransactions hands several calls to the relay as one multisend
	SendBatchTransactions(ctx context.Context, txs []MetaTransaction) (*SendResult, error)

	// SignMessage signs a plain text message
	SignMessage(ctx context.Context, message string) (string, error)

	// BuildTransaction builds the sponsored transaction package for a call
	BuildTransaction(ctx context.Context, tx MetaTransaction) (*SafeTransaction, error)

	// SignTransaction signs a package produced by BuildTransaction
	SignTransaction(ctx context.Context, safeTx *SafeTransaction) (string, error)

	// EstimateTransactionGas estimates the total gas cost and the value needed by the calls
	EstimateTransactionGas(ctx context.Context, txs []MetaTransaction) (*GasEstimate, error)

	// VerifyHasEnoughBalance fails if the wallet cannot cover cost plus value
	VerifyHasEnoughBalance(ctx context.Context, totalGasCost, txValue *big.Int) error

	// Connect opens the wallet at address. An empty address starts the
	// interactive flow that creates or picks a wallet.
	Connect(ctx context.Context, address string) error

	Logout(ctx context.Context) error
}

// ChainReader is the subset of the chain RPC client used for confirmation
// tracking. *ethclient.Client satisfies it.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}
