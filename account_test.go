package smartwallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccount_SignMessage(t *testing.T) {
	key, _ := generateKey(t)
	raw := personalSign(t, key, "hello")

	tests := []struct {
		name     string
		returned string
	}{
		{"wallet returns bare hex", raw},
		{"wallet returns prefixed hex", "0x" + raw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := newMockWallet(137)
			wallet.On("SignMessage", mock.Anything, "hello").Return(tt.returned, nil).Once()

			sig, err := NewAccount(wallet).SignMessage(context.Background(), "hello")
			require.NoError(t, err)
			assert.Equal(t, "0x"+raw, sig)
			assert.Len(t, sig, 2+2*crypto.SignatureLength)
		})
	}
}

func TestAccount_SignMessage_Error(t *testing.T) {
	wallet := newMockWallet(137)
	wallet.On("SignMessage", mock.Anything, "hello").Return("", errors.New("user rejected"))

	_, err := NewAccount(wallet).SignMessage(context.Background(), "hello")
	assert.ErrorContains(t, err, "user rejected")
}

func TestAccount_SignTransaction(t *testing.T) {
	wallet := newMockWallet(137)
	to := common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	tx := types.NewTx(&types.DynamicFeeTx{
		To:    &to,
		Value: big.NewInt(1_000_000_000_000_000_000),
		Data:  []byte{0xa9, 0x05, 0x9c, 0xbb},
	})

	safeTx := &SafeTransaction{Nonce: "0x1"}
	wallet.On("BuildTransaction", mock.Anything, MetaTransaction{
		To:    to.Hex(),
		Value: "0xde0b6b3a7640000",
		Data:  "0xa9059cbb",
	}).Return(safeTx, nil).Once()
	wallet.On("SignTransaction", mock.Anything, safeTx).Return("0xsigned", nil).Once()

	signed, err := NewAccount(wallet).SignTransaction(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, "0xsigned", signed)
	wallet.AssertExpectations(t)
}

func TestAccount_SignTransaction_ZeroValueNoData(t *testing.T) {
	wallet := newMockWallet(137)
	to := common.HexToAddress("0x01")
	tx := types.NewTx(&types.LegacyTx{To: &to, Value: big.NewInt(0)})

	wallet.On("BuildTransaction", mock.Anything, MetaTransaction{
		To:    to.Hex(),
		Value: "0x0",
		Data:  ZeroSentinel,
	}).Return(&SafeTransaction{}, nil).Once()
	wallet.On("SignTransaction", mock.Anything, mock.Anything).Return("0xsigned", nil).Once()

	_, err := NewAccount(wallet).SignTransaction(context.Background(), tx)
	require.NoError(t, err)
	wallet.AssertExpectations(t)
}

func TestAccount_SignTransaction_ContractCreation(t *testing.T) {
	wallet := newMockWallet(137)
	tx := types.NewTx(&types.LegacyTx{Value: big.NewInt(0), Data: []byte{0x60}})

	_, err := NewAccount(wallet).SignTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, ErrNotSupported)
	wallet.AssertNotCalled(t, "BuildTransaction", mock.Anything, mock.Anything)
}

func TestAccount_SignTypedData(t *testing.T) {
	wallet := newMockWallet(137)

	_, err := NewAccount(wallet).SignTypedData(context.Background(), apitypes.TypedData{PrimaryType: "Mail"})
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.EqualError(t, err, "method not available")
}
