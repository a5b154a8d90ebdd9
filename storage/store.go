// Package storage persists the connector's small pieces of state: the last
// connected wallet address and the shim-disconnect flag.
package storage

import (
	"sync"
)

// WalletAddressKey holds the last connected wallet address
const WalletAddressKey = "walletAddress"

// ShimDisconnectKey is the flag marking a connector as connected. Its
// absence means the user disconnected.
func ShimDisconnectKey(connectorID string) string {
	return connectorID + ".shimDisconnect"
}

// Store is a last-writer-wins string key/value store
type Store interface {
	// Get returns the value and whether the key exists
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove is a no-op for missing keys
	Remove(key string) error
}

// MemoryStore keeps values in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
