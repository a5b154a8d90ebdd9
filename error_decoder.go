package smartwallet

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrorDecoder maps revert data to the custom errors of a set of ABIs.
// Only Solidity custom errors and the builtin Error(string) revert are
// decoded, https://soliditylang.org/blog/2021/04/21/custom-errors/
type ErrorDecoder struct {
	errorBySelector map[[4]byte]abi.Error
}

func NewErrorDecoder(abis ...abi.ABI) *ErrorDecoder {
	errorBySelector := make(map[[4]byte]abi.Error)
	for _, parsed := range abis {
		for _, abiErr := range parsed.Errors {
			var selector [4]byte
			copy(selector[:], abiErr.ID[:4])
			errorBySelector[selector] = abiErr
		}
	}
	return &ErrorDecoder{errorBySelector: errorBySelector}
}

// DecodedRevert is what could be read from revert data
type DecodedRevert struct {
	AbiError *abi.Error
	Params   any
	// Reason is set for Error(string) reverts
	Reason string
}

// Decode looks for revert data in err. It returns false when err carries
// none or the selector is unknown.
func (d *ErrorDecoder) Decode(err error) (*DecodedRevert, bool) {
	data, ok := revertData(err)
	if !ok || len(data) < 4 {
		return nil, false
	}

	if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
		return &DecodedRevert{Reason: reason}, true
	}

	var selector [4]byte
	copy(selector[:], data[:4])
	abiErr, exists := d.errorBySelector[selector]
	if !exists {
		return nil, false
	}
	params, unpackErr := abiErr.Unpack(data)
	if unpackErr != nil {
		return &DecodedRevert{AbiError: &abiErr}, true
	}
	return &DecodedRevert{AbiError: &abiErr, Params: params}, true
}

// revertData extracts the hex revert payload carried by an rpc.DataError
func revertData(err error) ([]byte, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	hexStr, ok := dataErr.ErrorData().(string)
	if !ok {
		return nil, false
	}
	if !strings.HasPrefix(hexStr, "0x") {
		hexStr = "0x" + hexStr
	}
	data, decodeErr := hexutil.Decode(hexStr)
	if decodeErr != nil {
		return nil, false
	}
	return data, true
}
