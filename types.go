package smartwallet

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Constants for submission and confirmation tracking
const (
	DefaultOutcomePollInterval = 2 * time.Second
	DefaultReceiptPollInterval = 1 * time.Second

	// DefaultBlockWindow is how many blocks behind the head the outcome
	// log queries start from.
	DefaultBlockWindow uint64 = 300

	// ZeroSentinel is sent to the wallet when a transfer has no value or no data.
	ZeroSentinel = "0x00"

	ConnectorID   = "cometh-connect"
	ConnectorName = "Cometh Connect"
)

// OutcomeKind is the terminal state of a provisional transaction.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// MetaTransaction is the wire shape the wallet accepts: every field is a hex string.
type MetaTransaction struct {
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
}

// SendResult is what the wallet relay answers after accepting a transaction.
// SafeTxHash is the provisional handle, not a chain transaction hash.
type SendResult struct {
	SafeTxHash common.Hash
}

// SafeTransaction is the signed/sponsored package built by the wallet for a
// single call. It is opaque to this package and handed back to the wallet
// for signing.
type SafeTransaction struct {
	MetaTransaction
	Operation      uint8
	SafeTxGas      string
	BaseGas        string
	GasPrice       string
	GasToken       common.Address
	RefundReceiver common.Address
	Nonce          string
}
