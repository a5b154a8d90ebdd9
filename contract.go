package smartwallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ContractCall is a write to a contract function
type ContractCall struct {
	ABI          abi.ABI
	Address      common.Address
	FunctionName string
	Args         []any
	// DataSuffix is appended to the encoded call data, with or without 0x
	DataSuffix string
	Value      *big.Int
}

func (c ContractCall) callError(cause error) *ContractCallError {
	return &ContractCallError{
		Address:      c.Address,
		FunctionName: c.FunctionName,
		Args:         c.Args,
		Cause:        cause,
	}
}

// EncodeCallData packs the function call and appends the data suffix
func EncodeCallData(call ContractCall) ([]byte, error) {
	data, err := call.ABI.Pack(call.FunctionName, call.Args...)
	if err != nil {
		return nil, call.callError(fmt.Errorf("couldn't encode call data: %w", err))
	}
	if call.DataSuffix == "" {
		return data, nil
	}
	suffix, err := hexutil.Decode("0x" + strings.TrimPrefix(call.DataSuffix, "0x"))
	if err != nil {
		return nil, call.callError(fmt.Errorf("couldn't decode data suffix %q: %w", call.DataSuffix, err))
	}
	return append(data, suffix...), nil
}

func (c ContractCall) transfer() (Transfer, error) {
	data, err := EncodeCallData(c)
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{To: c.Address, Value: c.Value, Data: data}, nil
}

// WriteContract encodes the call, submits it as a single transfer and waits
// for the receipt. It returns the hash of the chain transaction that
// executed it.
func WriteContract(ctx context.Context, submitter *Submitter, tracker *Tracker, wallet Wallet, call ContractCall) (common.Hash, error) {
	transfer, err := call.transfer()
	if err != nil {
		return common.Hash{}, err
	}

	handle, err := submitter.Submit(ctx, Single{transfer})
	if err != nil {
		return common.Hash{}, err
	}

	confirmation, err := tracker.WaitForTransaction(ctx, wallet, handle)
	if err != nil {
		return common.Hash{}, err
	}
	return confirmation.Receipt.TxHash, nil
}

// SimulateRequest is the call as it would be written, with the ABI reduced
// to the called method. It can be passed back to WriteContract.
type SimulateRequest struct {
	ABI          abi.ABI
	Address      common.Address
	FunctionName string
	Args         []any
	DataSuffix   string
	Value        *big.Int
}

func (r SimulateRequest) ContractCall() ContractCall {
	return ContractCall(r)
}

type SimulateResult struct {
	// Result is the encoded call data
	Result  []byte
	Request SimulateRequest
	Gas     *GasEstimate
}

// SimulateContract encodes the call, has the wallet estimate it and checks
// the wallet can pay for it. Nothing is submitted.
func SimulateContract(ctx context.Context, wallet Wallet, call ContractCall) (*SimulateResult, error) {
	transfer, err := call.transfer()
	if err != nil {
		return nil, err
	}
	meta, err := transfer.metaTransaction()
	if err != nil {
		return nil, call.callError(err)
	}

	gas, err := wallet.EstimateTransactionGas(ctx, []MetaTransaction{meta})
	if err != nil {
		return nil, simulationError(call, wallet, err)
	}
	if gas == nil {
		gas = &GasEstimate{}
	}
	if err := wallet.VerifyHasEnoughBalance(ctx, gas.TotalGasCost, gas.TxValue); err != nil {
		return nil, simulationError(call, wallet, NewSubmissionError(err))
	}

	logger.WithFields(logger.Fields{
		"contract":       call.Address.Hex(),
		"function":       call.FunctionName,
		"total_gas_cost": gas.TotalGasCost,
		"tx_value":       gas.TxValue,
	}).Debug("Simulated contract call")

	return &SimulateResult{
		Result: transfer.Data,
		Request: SimulateRequest{
			ABI:          minimizeABI(call.ABI, call.FunctionName),
			Address:      call.Address,
			FunctionName: call.FunctionName,
			Args:         call.Args,
			DataSuffix:   call.DataSuffix,
			Value:        call.Value,
		},
		Gas: gas,
	}, nil
}

func simulationError(call ContractCall, wallet Wallet, cause error) *ContractCallError {
	callErr := call.callError(cause)
	callErr.Sender = wallet.Address()
	if revert, ok := NewErrorDecoder(call.ABI).Decode(cause); ok {
		callErr.Revert = revert
	}
	return callErr
}

// minimizeABI keeps only the called method
func minimizeABI(full abi.ABI, functionName string) abi.ABI {
	minimized := abi.ABI{Methods: map[string]abi.Method{}}
	if method, ok := full.Methods[functionName]; ok {
		minimized.Methods[functionName] = method
	}
	return minimized
}
