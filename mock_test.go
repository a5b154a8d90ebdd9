package smartwallet

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockWallet is a testify mock of the smart wallet
type mockWallet struct {
	mock.Mock
	address common.Address
	chainID uint64
}

func newMockWallet(chainID uint64) *mockWallet {
	return &mockWallet{
		address: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		chainID: chainID,
	}
}

func (m *mockWallet) Address() common.Address { return m.address }
func (m *mockWallet) ChainID() uint64         { return m.chainID }

func (m *mockWallet) SendTransaction(ctx context.Context, tx MetaTransaction) (*SendResult, error) {
	args := m.Called(ctx, tx)
	res, _ := args.Get(0).(*SendResult)
	return res, args.Error(1)
}

func (m *mockWallet) SendBatchTransactions(ctx context.Context, txs []MetaTransaction) (*SendResult, error) {
	args := m.Called(ctx, txs)
	res, _ := args.Get(0).(*SendResult)
	return res, args.Error(1)
}

func (m *mockWallet) SignMessage(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *mockWallet) BuildTransaction(ctx context.Context, tx MetaTransaction) (*SafeTransaction, error) {
	args := m.Called(ctx, tx)
	res, _ := args.Get(0).(*SafeTransaction)
	return res, args.Error(1)
}

func (m *mockWallet) SignTransaction(ctx context.Context, safeTx *SafeTransaction) (string, error) {
	args := m.Called(ctx, safeTx)
	return args.String(0), args.Error(1)
}

func (m *mockWallet) EstimateTransactionGas(ctx context.Context, txs []MetaTransaction) (*GasEstimate, error) {
	args := m.Called(ctx, txs)
	res, _ := args.Get(0).(*GasEstimate)
	return res, args.Error(1)
}

func (m *mockWallet) VerifyHasEnoughBalance(ctx context.Context, totalGasCost, txValue *big.Int) error {
	return m.Called(ctx, totalGasCost, txValue).Error(0)
}

func (m *mockWallet) Connect(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	if err := args.Error(0); err != nil {
		return err
	}
	if address != "" {
		m.address = common.HexToAddress(address)
	} else if len(args) > 1 {
		m.address = args.Get(1).(common.Address)
	}
	return nil
}

func (m *mockWallet) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeChain scripts the chain RPC answers poll by poll
type fakeChain struct {
	mu sync.Mutex

	head uint64

	// successAt/failureAt: the outcome log shows up from that FilterLogs
	// round on (1-based), 0 means never
	successAt int
	failureAt int

	successLog types.Log
	failureLog types.Log
	noise      []types.Log

	receipts        map[common.Hash]*types.Receipt
	receiptFailures int

	logQueries      []ethereum.FilterQuery
	rounds          map[common.Hash]int
	receiptAttempts int
	logErr          error
}

func newFakeChain(head uint64) *fakeChain {
	return &fakeChain{
		head:     head,
		receipts: map[common.Hash]*types.Receipt{},
		rounds:   map[common.Hash]int{},
	}
}

func (f *fakeChain) BlockNumber(ctx context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeChain) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logQueries = append(f.logQueries, q)
	if f.logErr != nil {
		return nil, f.logErr
	}

	topic := q.Topics[0][0]
	f.rounds[topic]++
	round := f.rounds[topic]

	logs := append([]types.Log{}, f.noise...)
	switch topic {
	case executionSuccessID():
		if f.successAt > 0 && round >= f.successAt {
			logs = append(logs, f.successLog)
		}
	case executionFailureID():
		if f.failureAt > 0 && round >= f.failureAt {
			logs = append(logs, f.failureLog)
		}
	}
	return logs, nil
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiptAttempts++
	if f.receiptAttempts <= f.receiptFailures {
		return nil, ethereum.NotFound
	}
	receipt, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (f *fakeChain) successRounds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rounds[executionSuccessID()]
}

func (f *fakeChain) failureRounds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rounds[executionFailureID()]
}

func executionSuccessID() common.Hash {
	return safeEventsABI.Events[executionSuccessEvent].ID
}

func executionFailureID() common.Hash {
	return safeEventsABI.Events[executionFailureEvent].ID
}

// outcomeLog builds a Safe execution log as the chain would return it
func outcomeLog(t *testing.T, event string, wallet common.Address, safeTxHash, txHash common.Hash) types.Log {
	t.Helper()
	data, err := safeEventsABI.Events[event].Inputs.Pack(safeTxHash, big.NewInt(21000))
	require.NoError(t, err)
	return types.Log{
		Address:     wallet,
		Topics:      []common.Hash{safeEventsABI.Events[event].ID},
		Data:        data,
		BlockNumber: 1000,
		TxHash:      txHash,
	}
}

// generateKey mirrors how the test signer wallets are created
func generateKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	privateKey, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	require.NoError(t, err)
	return privateKey, crypto.PubkeyToAddress(privateKey.PublicKey)
}

// personalSign returns an EIP-191 signature without the 0x prefix
func personalSign(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	return hex.EncodeToString(sig)
}
