package smartwallet

import (
	"context"
	"fmt"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/piavgh/smartwallet/chains"
)

// ClientParams configures a Client. RPC overrides the chain's default RPC
// URL, BaseURL the Connect backend.
type ClientParams struct {
	Wallet  Wallet
	APIKey  string
	RPC     string
	BaseURL string
}

type clientOptions struct {
	reader         ChainReader
	trackerOptions []TrackerOption
}

type ClientOption func(*clientOptions)

// WithChainReader uses reader instead of dialing the chain RPC
func WithChainReader(reader ChainReader) ClientOption {
	return func(o *clientOptions) {
		o.reader = reader
	}
}

func WithTrackerOptions(opts ...TrackerOption) ClientOption {
	return func(o *clientOptions) {
		o.trackerOptions = append(o.trackerOptions, opts...)
	}
}

// Client binds one smart wallet to its chain. Submissions go through the
// wallet, confirmations are read from the chain RPC.
type Client struct {
	wallet Wallet
	chain  chains.Chain

	reader ChainReader
	rpc    *ethclient.Client // nil when the reader was injected
	api    *API              // nil without an api key

	submitter *Submitter
	tracker   *Tracker
	account   *Account
}

// NewClient validates the wallet and its chain before opening any
// connection. An unsupported chain is a *ConfigurationError.
func NewClient(params ClientParams, opts ...ClientOption) (*Client, error) {
	if params.Wallet == nil {
		return nil, newConfigurationError(ErrWalletNil)
	}
	chain, err := chains.Lookup(params.Wallet.ChainID())
	if err != nil {
		return nil, newConfigurationError(err)
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		wallet:    params.Wallet,
		chain:     chain,
		reader:    options.reader,
		submitter: NewSubmitter(params.Wallet),
		account:   NewAccount(params.Wallet),
	}
	if params.APIKey != "" {
		c.api = NewAPI(params.APIKey, params.BaseURL)
	}

	rpcURL := params.RPC
	if rpcURL == "" {
		rpcURL = chain.RPCURL
	}
	if c.reader == nil {
		c.rpc, err = ethclient.Dial(rpcURL)
		if err != nil {
			return nil, fmt.Errorf("couldn't dial %s rpc %s: %w", chain.Name, rpcURL, err)
		}
		c.reader = c.rpc
	}
	c.tracker = NewTracker(c.reader, options.trackerOptions...)

	logger.WithFields(logger.Fields{
		"chain_id": chain.ID,
		"chain":    chain.Name,
		"wallet":   params.Wallet.Address().Hex(),
	}).Debug("Created smart wallet client")
	return c, nil
}

func (c *Client) Wallet() Wallet {
	return c.wallet
}

func (c *Client) Chain() chains.Chain {
	return c.chain
}

// Provider is the chain reader confirmations are polled from
func (c *Client) Provider() ChainReader {
	return c.reader
}

func (c *Client) Account() *Account {
	return c.account
}

// Close releases the RPC connection the client dialed
func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

// SendTransaction submits one transfer and waits for it. It returns the
// hash of the chain transaction that executed it.
func (c *Client) SendTransaction(ctx context.Context, transfer Transfer) (common.Hash, error) {
	return c.submitAndWait(ctx, Single{transfer})
}

// SendBatchTransactions submits the transfers as one multisend and waits
// for it
func (c *Client) SendBatchTransactions(ctx context.Context, transfers []Transfer) (common.Hash, error) {
	return c.submitAndWait(ctx, Batch(transfers))
}

// SendTransactions submits the transfers as one multisend and returns the
// provisional handle without waiting
func (c *Client) SendTransactions(ctx context.Context, transfers []Transfer) (common.Hash, error) {
	return c.submitter.Submit(ctx, Batch(transfers))
}

func (c *Client) submitAndWait(ctx context.Context, sub Submission) (common.Hash, error) {
	handle, err := c.submitter.Submit(ctx, sub)
	if err != nil {
		return common.Hash{}, err
	}
	confirmation, err := c.WaitForTransaction(ctx, handle)
	if err != nil {
		return common.Hash{}, err
	}
	return confirmation.Receipt.TxHash, nil
}

func (c *Client) WriteContract(ctx context.Context, call ContractCall) (common.Hash, error) {
	return WriteContract(ctx, c.submitter, c.tracker, c.wallet, call)
}

func (c *Client) SimulateContract(ctx context.Context, call ContractCall) (*SimulateResult, error) {
	return SimulateContract(ctx, c.wallet, call)
}

func (c *Client) SignMessage(ctx context.Context, message string) (string, error) {
	return c.account.SignMessage(ctx, message)
}

// VerifyMessage checks an EIP-1271 signature through the Connect backend.
// It needs the client to have an api key.
func (c *Client) VerifyMessage(ctx context.Context, address common.Address, message, signature string) (bool, error) {
	if c.api == nil {
		return false, newConfigurationError(ErrMissingAPIKey)
	}
	return c.api.IsValidSignature(ctx, address, message, signature)
}

// WaitForTransaction resolves a provisional handle of this client's wallet
func (c *Client) WaitForTransaction(ctx context.Context, handle common.Hash) (*Confirmation, error) {
	return c.tracker.WaitForTransaction(ctx, c.wallet, handle)
}
