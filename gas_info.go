package smartwallet

import (
	"math/big"
)

// GasEstimate is the wallet's estimation for a set of calls
type GasEstimate struct {
	TotalGasCost *big.Int
	TxValue      *big.Int
}

// Total returns cost plus value, treating nil fields as zero
func (g *GasEstimate) Total() *big.Int {
	total := big.NewInt(0)
	if g == nil {
		return total
	}
	if g.TotalGasCost != nil {
		total.Add(total, g.TotalGasCost)
	}
	if g.TxValue != nil {
		total.Add(total, g.TxValue)
	}
	return total
}
