package asset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	ChainIDEthereum = 1
	ChainIDSepolia  = 11155111
	ChainIDPolygon  = 137
	ChainIDAmoy     = 80002
	ChainIDBase     = 8453
)

// NativeCurrency describes a chain's gas token.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Chain is what a wallet needs to add an unknown network.
type Chain struct {
	ID             uint64
	Name           string
	NativeCurrency NativeCurrency
	RPCURLs        []string
	ExplorerURLs   []string
}

// HexID returns the chain id as a 0x-prefixed quantity.
func (c Chain) HexID() string {
	return hexutil.EncodeUint64(c.ID)
}

// ParseChainID accepts "0x89" or "137".
func ParseChainID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.DecodeUint64(strings.ToLower(s))
	}
	var id uint64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("asset: invalid chain id %q: %w", s, err)
	}
	return id, nil
}

// Chains is a lookup of known networks.
type Chains struct {
	mu   sync.RWMutex
	byID map[uint64]Chain
}

// NewChains returns an empty registry.
func NewChains() *Chains {
	return &Chains{byID: make(map[uint64]Chain)}
}

// Register adds or replaces a chain.
func (r *Chains) Register(c Chain) {
	r.mu.Lock()
	r.byID[c.ID] = c
	r.mu.Unlock()
}

// Lookup finds a chain by id.
func (r *Chains) Lookup(id uint64) (Chain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// DefaultChains returns the networks the campus wallet knows how to add.
func DefaultChains() *Chains {
	r := NewChains()
	eth := NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18}
	pol := NativeCurrency{Name: "POL", Symbol: "POL", Decimals: 18}

	r.Register(Chain{ID: ChainIDEthereum, Name: "Ethereum Mainnet", NativeCurrency: eth,
		RPCURLs: []string{"https://cloudflare-eth.com"}, ExplorerURLs: []string{"https://etherscan.io"}})
	r.Register(Chain{ID: ChainIDSepolia, Name: "Sepolia", NativeCurrency: eth,
		RPCURLs: []string{"https://rpc.sepolia.org"}, ExplorerURLs: []string{"https://sepolia.etherscan.io"}})
	r.Register(Chain{ID: ChainIDPolygon, Name: "Polygon Mainnet", NativeCurrency: pol,
		RPCURLs: []string{"https://polygon-rpc.com"}, ExplorerURLs: []string{"https://polygonscan.com"}})
	r.Register(Chain{ID: ChainIDAmoy, Name: "Polygon Amoy", NativeCurrency: pol,
		RPCURLs: []string{"https://rpc-amoy.polygon.technology"}, ExplorerURLs: []string{"https://amoy.polygonscan.com"}})
	r.Register(Chain{ID: ChainIDBase, Name: "Base", NativeCurrency: eth,
		RPCURLs: []string{"https://mainnet.base.org"}, ExplorerURLs: []string{"https://basescan.org"}})
	return r
}
