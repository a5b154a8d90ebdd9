package smartwallet

import (
	"github.com/ethereum/go-ethereum/common"
)

// Hook is called before a submission is handed to the wallet (handle is zero,
// err is nil) and after the wallet answered. Returning an error aborts the
// request: before submission nothing is sent, after submission the error is
// returned instead of the handle.
type Hook func(sub Submission, handle common.Hash, err error) error
