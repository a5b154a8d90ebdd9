package smartwallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTokenABI = `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint32"}],"outputs":[]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"error","name":"InsufficientBalance","inputs":[{"name":"available","type":"uint256"},{"name":"required","type":"uint256"}]}
]`

var testToken = common.HexToAddress("0xFBA3912Ca04dd458c843e2EE08967fC04f3579c2")

// revertError is how the RPC client reports a revert with data
type revertError struct {
	data string
}

func (e revertError) Error() string          { return "execution reverted" }
func (e revertError) ErrorCode() int         { return 3 }
func (e revertError) ErrorData() interface{} { return e.data }

func mintCall(t *testing.T) ContractCall {
	t.Helper()
	return ContractCall{
		ABI:          mustParseABI(testTokenABI),
		Address:      testToken,
		FunctionName: "mint",
		Args:         []any{uint32(69420)},
	}
}

func TestEncodeCallData(t *testing.T) {
	call := mintCall(t)

	data, err := EncodeCallData(call)
	require.NoError(t, err)

	method := call.ABI.Methods["mint"]
	assert.Equal(t, method.ID, data[:4])
	assert.Len(t, data, 4+32)
}

func TestEncodeCallData_AppendsSuffix(t *testing.T) {
	plain, err := EncodeCallData(mintCall(t))
	require.NoError(t, err)

	for _, suffix := range []string{"0xdeadbeef", "deadbeef"} {
		call := mintCall(t)
		call.DataSuffix = suffix

		data, err := EncodeCallData(call)
		require.NoError(t, err)
		assert.Equal(t, hexutil.Encode(plain)+"deadbeef", hexutil.Encode(data))
	}
}

func TestEncodeCallData_Errors(t *testing.T) {
	t.Run("unknown function", func(t *testing.T) {
		call := mintCall(t)
		call.FunctionName = "burn"

		_, err := EncodeCallData(call)
		var callErr *ContractCallError
		require.ErrorAs(t, err, &callErr)
		assert.Equal(t, "burn", callErr.FunctionName)
		assert.Equal(t, testToken, callErr.Address)
	})

	t.Run("bad args", func(t *testing.T) {
		call := mintCall(t)
		call.Args = []any{"not a number"}

		_, err := EncodeCallData(call)
		var callErr *ContractCallError
		require.ErrorAs(t, err, &callErr)
		assert.Equal(t, []any{"not a number"}, callErr.Args)
	})

	t.Run("odd suffix", func(t *testing.T) {
		call := mintCall(t)
		call.DataSuffix = "0xabc"

		_, err := EncodeCallData(call)
		assert.ErrorContains(t, err, "data suffix")
	})
}

func TestWriteContract_ReturnsReceiptHash(t *testing.T) {
	wallet := newMockWallet(137)
	call := mintCall(t)
	data, err := EncodeCallData(call)
	require.NoError(t, err)

	wallet.On("SendTransaction", mock.Anything, MetaTransaction{
		To:    testToken.Hex(),
		Value: ZeroSentinel,
		Data:  hexutil.Encode(data),
	}).Return(&SendResult{SafeTxHash: testHandle}, nil).Once()

	chain := newFakeChain(5000)
	chain.successAt = 2
	chain.successLog = outcomeLog(t, executionSuccessEvent, wallet.Address(), testHandle, testSuccessTx)
	chain.receipts[testSuccessTx] = &types.Receipt{TxHash: testSuccessTx}

	hash, err := WriteContract(context.Background(), NewSubmitter(wallet), fastTracker(chain), wallet, call)
	require.NoError(t, err)

	assert.Equal(t, testSuccessTx, hash)
	wallet.AssertExpectations(t)
}

func TestWriteContract_EncodingErrorSubmitsNothing(t *testing.T) {
	wallet := newMockWallet(137)
	call := mintCall(t)
	call.FunctionName = "missing"

	_, err := WriteContract(context.Background(), NewSubmitter(wallet), fastTracker(newFakeChain(0)), wallet, call)

	var callErr *ContractCallError
	assert.ErrorAs(t, err, &callErr)
	wallet.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestSimulateContract(t *testing.T) {
	wallet := newMockWallet(137)
	call := mintCall(t)
	call.Value = big.NewInt(5)
	call.DataSuffix = "0x01"

	gas := &GasEstimate{TotalGasCost: big.NewInt(1000), TxValue: big.NewInt(5)}
	wallet.On("EstimateTransactionGas", mock.Anything, mock.Anything).Return(gas, nil).Once()
	wallet.On("VerifyHasEnoughBalance", mock.Anything, gas.TotalGasCost, gas.TxValue).Return(nil).Once()

	result, err := SimulateContract(context.Background(), wallet, call)
	require.NoError(t, err)

	expected, err := EncodeCallData(call)
	require.NoError(t, err)
	assert.Equal(t, expected, result.Result)
	assert.Equal(t, gas, result.Gas)

	assert.Len(t, result.Request.ABI.Methods, 1)
	assert.Contains(t, result.Request.ABI.Methods, "mint")
	assert.Empty(t, result.Request.ABI.Errors)
	assert.Equal(t, "0x01", result.Request.DataSuffix)
	assert.Equal(t, big.NewInt(5), result.Request.Value)
	assert.Equal(t, testToken, result.Request.ContractCall().Address)

	wallet.AssertExpectations(t)
	wallet.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestSimulateContract_DecodesCustomError(t *testing.T) {
	wallet := newMockWallet(137)
	call := mintCall(t)

	abiErr := call.ABI.Errors["InsufficientBalance"]
	args, err := abiErr.Inputs.Pack(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	data := append(append([]byte{}, abiErr.ID[:4]...), args...)

	wallet.On("EstimateTransactionGas", mock.Anything, mock.Anything).
		Return(nil, revertError{data: hexutil.Encode(data)}).Once()

	_, err = SimulateContract(context.Background(), wallet, call)

	var callErr *ContractCallError
	require.ErrorAs(t, err, &callErr)
	require.NotNil(t, callErr.Revert)
	assert.Equal(t, "InsufficientBalance", callErr.Revert.AbiError.Name)
	assert.Equal(t, wallet.Address(), callErr.Sender)
	assert.Contains(t, err.Error(), "InsufficientBalance")
	wallet.AssertNotCalled(t, "VerifyHasEnoughBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestSimulateContract_InsufficientBalance(t *testing.T) {
	wallet := newMockWallet(137)

	wallet.On("EstimateTransactionGas", mock.Anything, mock.Anything).
		Return(&GasEstimate{TotalGasCost: big.NewInt(1), TxValue: big.NewInt(0)}, nil)
	wallet.On("VerifyHasEnoughBalance", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("Insufficient funds to pay for gas"))

	_, err := SimulateContract(context.Background(), wallet, mintCall(t))

	var callErr *ContractCallError
	require.ErrorAs(t, err, &callErr)
	assert.ErrorIs(t, err, ErrInsufficientFund)
	assert.Nil(t, callErr.Revert)
}

func TestErrorDecoder_RevertReason(t *testing.T) {
	// Error(string) "nope"
	stringTy, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	payload, err := abi.Arguments{{Type: stringTy}}.Pack("nope")
	require.NoError(t, err)
	data := append(hexutil.MustDecode("0x08c379a0"), payload...)

	revert, ok := NewErrorDecoder().Decode(revertError{data: hexutil.Encode(data)})
	require.True(t, ok)
	assert.Equal(t, "nope", revert.Reason)
}

func TestErrorDecoder_NoRevertData(t *testing.T) {
	decoder := NewErrorDecoder(mustParseABI(testTokenABI))

	_, ok := decoder.Decode(errors.New("connection refused"))
	assert.False(t, ok)

	_, ok = decoder.Decode(revertError{data: "0x12345678"})
	assert.False(t, ok)
}
