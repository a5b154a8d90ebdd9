package smartwallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/piavgh/smartwallet/chains"
	"github.com/piavgh/smartwallet/storage"
)

// WalletFactory creates the (not yet connected) smart wallet for a chain
type WalletFactory func(ctx context.Context, params ConnectorParams, chain chains.Chain) (Wallet, error)

type ConnectorParams struct {
	APIKey  string
	BaseURL string
	ChainID uint64
	RPC     string
	// WalletAddress is used when Connect is called without an address
	WalletAddress string

	// Store keeps the last connected address and the shim flag, in memory when nil
	Store         storage.Store
	NewWallet     WalletFactory
	ClientOptions []ClientOption
}

// connectorState is one of disconnected, connecting or connected
type connectorState interface {
	isConnectorState()
}

type disconnected struct{}

type connecting struct {
	attempt uint64
}

type connected struct {
	wallet  Wallet
	client  *Client
	address common.Address
}

func (disconnected) isConnectorState() {}
func (connecting) isConnectorState()   {}
func (connected) isConnectorState()    {}

// ConnectResult is what a successful Connect reports
type ConnectResult struct {
	Account common.Address
	ChainID uint64
}

// Connector drives the wallet lifecycle for an app: it connects to a
// wallet, remembers which one across sessions and disconnects from it.
type Connector struct {
	mu sync.Mutex

	params ConnectorParams
	chain  chains.Chain
	store  storage.Store
	state  connectorState

	attempts uint64
}

func NewConnector(params ConnectorParams) (*Connector, error) {
	if params.APIKey == "" {
		return nil, newConfigurationError(ErrMissingAPIKey)
	}
	if params.NewWallet == nil {
		return nil, newConfigurationError(ErrWalletNil)
	}
	chain, err := chains.Lookup(params.ChainID)
	if err != nil {
		return nil, newConfigurationError(err)
	}

	store := params.Store
	if store == nil {
		store = storage.NewMemoryStore()
	}
	return &Connector{
		params: params,
		chain:  chain,
		store:  store,
		state:  disconnected{},
	}, nil
}

func (c *Connector) ID() string {
	return ConnectorID
}

func (c *Connector) Name() string {
	return ConnectorName
}

// Connect opens the wallet. The address used is, in order: address,
// ConnectorParams.WalletAddress, the last connected address, or none, which
// lets the wallet create or pick one interactively. The resolved address is
// persisted for the next Connect.
//
// The lock is not held while the wallet connects: other calls see the
// connecting state, and a second Connect fails with ErrConnectInProgress.
func (c *Connector) Connect(ctx context.Context, address string) (*ConnectResult, error) {
	c.mu.Lock()
	switch s := c.state.(type) {
	case connected:
		c.mu.Unlock()
		return &ConnectResult{Account: s.address, ChainID: c.chain.ID}, nil
	case connecting:
		c.mu.Unlock()
		return nil, ErrConnectInProgress
	}
	c.attempts++
	attempt := connecting{attempt: c.attempts}
	c.state = attempt
	c.mu.Unlock()

	s, err := c.connect(ctx, address)

	c.mu.Lock()
	defer c.mu.Unlock()
	inFlight, ok := c.state.(connecting)
	stale := !ok || inFlight != attempt
	if err != nil {
		if !stale {
			c.state = disconnected{}
		}
		return nil, err
	}
	if stale {
		// disconnected while the wallet was connecting
		if err := s.wallet.Logout(ctx); err != nil {
			logger.WithFields(logger.Fields{
				"wallet": s.address.Hex(),
				"error":  err,
			}).Warn("Couldn't log out interrupted connection")
		}
		s.client.Close()
		return nil, ErrConnectInterrupted
	}
	if err := c.persist(s.address); err != nil {
		s.client.Close()
		c.state = disconnected{}
		return nil, err
	}
	c.state = s

	logger.WithFields(logger.Fields{
		"wallet":   s.address.Hex(),
		"chain_id": c.chain.ID,
	}).Info("Connected smart wallet")
	return &ConnectResult{Account: s.address, ChainID: c.chain.ID}, nil
}

func (c *Connector) connect(ctx context.Context, address string) (connected, error) {
	wallet, err := c.params.NewWallet(ctx, c.params, c.chain)
	if err != nil {
		return connected{}, fmt.Errorf("couldn't create wallet: %w", err)
	}
	client, err := NewClient(ClientParams{
		Wallet:  wallet,
		APIKey:  c.params.APIKey,
		RPC:     c.params.RPC,
		BaseURL: c.params.BaseURL,
	}, c.params.ClientOptions...)
	if err != nil {
		return connected{}, err
	}

	target, err := c.targetAddress(address)
	if err != nil {
		client.Close()
		return connected{}, err
	}
	if err := wallet.Connect(ctx, target); err != nil {
		client.Close()
		return connected{}, fmt.Errorf("couldn't connect wallet: %w", err)
	}
	return connected{wallet: wallet, client: client, address: wallet.Address()}, nil
}

func (c *Connector) persist(address common.Address) error {
	if err := c.store.Set(storage.WalletAddressKey, address.Hex()); err != nil {
		return err
	}
	return c.store.Set(storage.ShimDisconnectKey(ConnectorID), "true")
}

func (c *Connector) targetAddress(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.params.WalletAddress != "" {
		return c.params.WalletAddress, nil
	}
	stored, ok, err := c.store.Get(storage.WalletAddressKey)
	if err != nil {
		return "", err
	}
	if ok {
		return stored, nil
	}
	return "", nil
}

// Disconnect clears the shim flag and logs the wallet out. The last
// connected address is kept.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Remove(storage.ShimDisconnectKey(ConnectorID)); err != nil {
		return err
	}

	s, ok := c.state.(connected)
	c.state = disconnected{}
	if !ok {
		return nil
	}
	defer s.client.Close()

	if err := s.wallet.Logout(ctx); err != nil {
		return fmt.Errorf("couldn't log out: %w", err)
	}
	logger.WithFields(logger.Fields{
		"wallet": s.address.Hex(),
	}).Info("Disconnected smart wallet")
	return nil
}

// IsAuthorized reports whether the connector is connected and the user
// didn't disconnect
func (c *Connector) IsAuthorized() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok, err := c.store.Get(storage.ShimDisconnectKey(ConnectorID))
	if err != nil || !ok {
		return false, err
	}
	s, isConnected := c.state.(connected)
	return isConnected && s.client != nil, nil
}

func (c *Connector) current() (connected, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.state.(connected)
	if !ok {
		return connected{}, ErrNotConnected
	}
	return s, nil
}

func (c *Connector) Account() (common.Address, error) {
	s, err := c.current()
	return s.address, err
}

func (c *Connector) ChainID() (uint64, error) {
	s, err := c.current()
	if err != nil {
		return 0, err
	}
	return s.wallet.ChainID(), nil
}

func (c *Connector) Provider() (ChainReader, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return s.client.Provider(), nil
}

func (c *Connector) WalletClient() (*Client, error) {
	s, err := c.current()
	return s.client, err
}

// The wallet has no subscription mechanism, change notifications are never available.

func (c *Connector) OnAccountsChanged(accounts []common.Address) error {
	return ErrMethodNotAvailable
}

func (c *Connector) OnChainChanged(chainID uint64) error {
	return ErrMethodNotAvailable
}

func (c *Connector) OnDisconnect() error {
	return ErrMethodNotAvailable
}
