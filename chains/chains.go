// Package chains holds the static table of networks the smart wallet is
// deployed on.
package chains

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tranvictor/jarvis/networks"
)

var ErrUnsupportedNetwork = errors.New("network not supported")

// Multicall3 is deployed at the same address on every supported chain
var Multicall3 = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

type Currency struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Chain describes a supported network. RPCEnv, when set, names the
// environment variable that overrides RPCURL.
type Chain struct {
	ID             uint64
	Name           string
	Network        string
	NativeCurrency Currency
	RPCURL         string
	RPCEnv         string
	Multicall3     common.Address
	Testnet        bool
}

var (
	ether = Currency{Name: "Ether", Symbol: "ETH", Decimals: 18}
	matic = Currency{Name: "MATIC", Symbol: "MATIC", Decimals: 18}
	avax  = Currency{Name: "Avalanche", Symbol: "AVAX", Decimals: 18}
	xdai  = Currency{Name: "xDAI", Symbol: "XDAI", Decimals: 18}
)

var (
	Arbitrum            = chain(42161, "Arbitrum One", "arbitrum", ether, "https://arb1.arbitrum.io/rpc", false)
	ArbitrumSepolia     = chain(421614, "Arbitrum Sepolia", "arbitrum-sepolia", ether, "https://sepolia-rollup.arbitrum.io/rpc", true)
	Polygon             = chain(137, "Polygon", "matic", matic, "https://polygon-rpc.com", false)
	PolygonMumbai       = chain(80001, "Polygon Mumbai", "maticmum", matic, "https://rpc-mumbai.maticvigil.com", true)
	Avalanche           = chain(43114, "Avalanche", "avalanche", avax, "https://api.avax.network/ext/bc/C/rpc", false)
	AvalancheFuji       = chain(43113, "Avalanche Fuji", "avalanche-fuji", avax, "https://api.avax-test.network/ext/bc/C/rpc", true)
	Gnosis              = chain(100, "Gnosis", "gnosis", xdai, "https://rpc.gnosischain.com", false)
	GnosisChiado        = chain(10200, "Gnosis Chiado", "chiado", xdai, "https://rpc.chiadochain.net", true)
	Base                = chain(8453, "Base", "base", ether, "https://mainnet.base.org", false)
	BaseSepolia         = chain(84532, "Base Sepolia", "base-sepolia", ether, "https://sepolia.base.org", true)
	Optimism            = chain(10, "OP Mainnet", "optimism", ether, "https://mainnet.optimism.io", false)
	OptimismSepolia     = chain(11155420, "OP Sepolia", "optimism-sepolia", ether, "https://sepolia.optimism.io", true)
	PolygonZkEvm        = chain(1101, "Polygon zkEVM", "polygon-zkevm", ether, "https://zkevm-rpc.com", false)
	PolygonZkEvmTestnet = chain(1442, "Polygon zkEVM Testnet", "polygon-zkevm-testnet", ether, "https://rpc.public.zkevm-test.net", true)

	Muster          = withRPCEnv(chain(4078, "Muster", "muster", ether, "https://muster.alt.technology/", false), "RPC_URL_MUSTER")
	MusterTestnet   = withRPCEnv(chain(2121337, "Muster Testnet", "musterTestnet", ether, "https://muster-anytrust.alt.technology", true), "RPC_URL_MUSTER_TESTNET")
	RedstoneHolesky = withRPCEnv(chain(17001, "Redstone Holesky", "redstoneHolesky", ether, "https://rpc.holesky.redstone.xyz", true), "RPC_URL_REDSTONE_HOLESKY")
)

var supported = index(
	Arbitrum, ArbitrumSepolia,
	Polygon, PolygonMumbai,
	Avalanche, AvalancheFuji,
	Gnosis, GnosisChiado,
	Base, BaseSepolia,
	Optimism, OptimismSepolia,
	PolygonZkEvm, PolygonZkEvmTestnet,
	Muster, MusterTestnet,
	RedstoneHolesky,
)

func chain(id uint64, name, network string, currency Currency, rpcURL string, testnet bool) Chain {
	return Chain{
		ID:             id,
		Name:           name,
		Network:        network,
		NativeCurrency: currency,
		RPCURL:         rpcURL,
		Multicall3:     Multicall3,
		Testnet:        testnet,
	}
}

func withRPCEnv(c Chain, env string) Chain {
	c.RPCEnv = env
	return c
}

func index(list ...Chain) map[uint64]Chain {
	m := make(map[uint64]Chain, len(list))
	for _, c := range list {
		m[c.ID] = c
	}
	return m
}

// Lookup returns the supported chain with the given id
func Lookup(id uint64) (Chain, error) {
	c, ok := supported[id]
	if !ok {
		return Chain{}, fmt.Errorf("%w: chain id %d", ErrUnsupportedNetwork, id)
	}
	return c, nil
}

// LookupNetwork resolves a jarvis network to a supported chain
func LookupNetwork(network networks.Network) (Chain, error) {
	if network == nil {
		return Chain{}, fmt.Errorf("%w: nil network", ErrUnsupportedNetwork)
	}
	return Lookup(network.GetChainID())
}

// IsSupported reports whether the chain id is in the table
func IsSupported(id uint64) bool {
	_, ok := supported[id]
	return ok
}

// Supported returns every supported chain, ordered by id
func Supported() []Chain {
	out := make([]Chain, 0, len(supported))
	for _, c := range supported {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Chain) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
