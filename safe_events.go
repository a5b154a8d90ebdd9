package smartwallet

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	executionSuccessEvent = "ExecutionSuccess"
	executionFailureEvent = "ExecutionFailure"

	// Safe emits both events with non-indexed (txHash, payment)
	safeEventsJSON = `[
	{"anonymous":false,"inputs":[{"indexed":false,"internalType":"bytes32","name":"txHash","type":"bytes32"},{"indexed":false,"internalType":"uint256","name":"payment","type":"uint256"}],"name":"ExecutionSuccess","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":false,"internalType":"bytes32","name":"txHash","type":"bytes32"},{"indexed":false,"internalType":"uint256","name":"payment","type":"uint256"}],"name":"ExecutionFailure","type":"event"}
]`
)

var safeEventsABI = mustParseABI(safeEventsJSON)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Errorf("couldn't parse abi: %w", err))
	}
	return parsed
}

// Outcome is the terminal on-chain event for a provisional handle
type Outcome struct {
	Kind        OutcomeKind
	SafeTxHash  common.Hash
	TxHash      common.Hash
	Payment     *big.Int
	BlockNumber uint64
}

// decodeOutcome decodes a Safe execution log. It returns false for logs of
// another shape.
func decodeOutcome(kind OutcomeKind, event string, log types.Log) (*Outcome, bool) {
	if log.Removed || len(log.Topics) == 0 || log.Topics[0] != safeEventsABI.Events[event].ID {
		return nil, false
	}
	values, err := safeEventsABI.Unpack(event, log.Data)
	if err != nil || len(values) != 2 {
		return nil, false
	}
	safeTxHash, ok := values[0].([32]byte)
	if !ok {
		return nil, false
	}
	payment, _ := values[1].(*big.Int)
	return &Outcome{
		Kind:        kind,
		SafeTxHash:  common.Hash(safeTxHash),
		TxHash:      log.TxHash,
		Payment:     payment,
		BlockNumber: log.BlockNumber,
	}, true
}
