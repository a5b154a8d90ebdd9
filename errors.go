package smartwallet

import (
	"errors"
	"fmt"

	"github.com/piavgh/smartwallet/chains"
)

var (
	ErrUnsupportedNetwork = chains.ErrUnsupportedNetwork
	ErrMissingAPIKey      = errors.New("api key is required")
	ErrWalletNil          = errors.New("wallet must be provided")
	ErrEmptyBatch         = errors.New("batch must contain at least one transfer")
	ErrNilSubmission      = errors.New("submission must be a Single or a Batch")

	// ErrNotSupported is returned for signing schemes the wallet doesn't implement
	ErrNotSupported = errors.New("method not available")
	// ErrMethodNotAvailable is returned by connector change-notification hooks
	ErrMethodNotAvailable = errors.New("method is not available")
	ErrNotConnected       = errors.New("connector is not connected")
	ErrConnectInProgress  = errors.New("connect already in progress")
	ErrConnectInterrupted = errors.New("disconnected while connecting")
	ErrEmptySendResult    = errors.New("wallet returned no send result")
)

// ConfigurationError is returned synchronously, before any network I/O, when the
// client or connector is set up with something it can't work with.
type ConfigurationError struct {
	Err error
}

func newConfigurationError(err error) *ConfigurationError {
	return &ConfigurationError{Err: err}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
