package smartwallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ContractCallError annotates an encoding or estimation failure with the
// call it happened on. Revert is set when the cause carried decodable
// revert data.
type ContractCallError struct {
	Address      common.Address
	FunctionName string
	Args         []any
	Sender       common.Address
	Cause        error
	Revert       *DecodedRevert
}

func (e *ContractCallError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "contract call %s(%v) on %s failed", e.FunctionName, e.Args, e.Address.Hex())
	if e.Revert != nil {
		switch {
		case e.Revert.Reason != "":
			fmt.Fprintf(&b, ": reverted with %q", e.Revert.Reason)
		case e.Revert.AbiError != nil:
			fmt.Fprintf(&b, ": reverted with %s%v", e.Revert.AbiError.Name, e.Revert.Params)
		}
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %s", e.Cause)
	}
	return b.String()
}

func (e *ContractCallError) Unwrap() error {
	return e.Cause
}
