package smartwallet

import (
	"context"
	"fmt"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
)

// DefaultAPIURL is the Connect backend used when no base URL is configured
const DefaultAPIURL = "https://api.connect.cometh.io"

// API is the Connect backend client. Every call carries the apikey header.
type API struct {
	client *resty.Client
}

func NewAPI(apiKey, baseURL string) *API {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &API{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("apikey", apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

type isValidSignatureRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type isValidSignatureResponse struct {
	Success bool `json:"success"`
	Result  bool `json:"result"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
}

// IsValidSignature asks the backend whether signature is a valid EIP-1271
// signature of message by the wallet at address
func (a *API) IsValidSignature(ctx context.Context, address common.Address, message, signature string) (bool, error) {
	var (
		result isValidSignatureResponse
		apiErr apiErrorResponse
	)
	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("address", address.Hex()).
		SetBody(isValidSignatureRequest{Message: message, Signature: signature}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/wallets/{address}/is-valid-signature")
	if err != nil {
		return false, fmt.Errorf("couldn't verify signature: %w", err)
	}
	if resp.IsError() {
		logger.WithFields(logger.Fields{
			"wallet": address.Hex(),
			"status": resp.StatusCode(),
			"error":  apiErr.Error,
		}).Warn("Signature verification rejected by backend")
		return false, fmt.Errorf("couldn't verify signature: status %d: %s", resp.StatusCode(), apiErr.Error)
	}
	return result.Success && result.Result, nil
}
