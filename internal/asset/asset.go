// Package asset models the reward currency and the chains a wallet can be on.
// Amounts are big.Int in the smallest unit; decimal.Decimal is only used at
// boundaries (config, display, persistence).
package asset

import "github.com/ethereum/go-ethereum/common"

// Asset is the metadata of a token.
type Asset struct {
	symbol   string
	name     string
	decimals uint8
	chainID  uint64
	address  common.Address
}

// NewAsset creates an off-chain asset.
func NewAsset(symbol, name string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}
	return &Asset{symbol: symbol, name: name, decimals: decimals}
}

// Deployed returns a copy of the asset bound to a token contract.
func (a *Asset) Deployed(chainID uint64, addr common.Address) *Asset {
	c := *a
	c.chainID = chainID
	c.address = addr
	return &c
}

// Symbol returns the ticker symbol.
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// ChainID returns the chain the token lives on, 0 when off-chain.
func (a *Asset) ChainID() uint64 {
	return a.chainID
}

// Address returns the token contract address (zero when off-chain).
func (a *Asset) Address() common.Address {
	return a.address
}

// Equals compares symbol, chain and contract.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.symbol == other.symbol && a.chainID == other.chainID && a.address == other.address
}

func (a *Asset) String() string {
	return a.symbol
}
