package bridge

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/campus-rewards/internal/asset"
)

// JSON-RPC methods understood by the wallet bridge.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
)

// Request is a JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// Message is anything the bridge sends: a response (ID set) or a
// notification (Method set, no ID).
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error member of a response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IsNotification reports whether m is a pushed event.
func (m *Message) IsNotification() bool {
	return m.ID == nil && m.Method != ""
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

type addChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    nativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

type nativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

func newAddChainParams(c asset.Chain) addChainParams {
	return addChainParams{
		ChainID:   c.HexID(),
		ChainName: c.Name,
		NativeCurrency: nativeCurrency{
			Name:     c.NativeCurrency.Name,
			Symbol:   c.NativeCurrency.Symbol,
			Decimals: c.NativeCurrency.Decimals,
		},
		RPCURLs:           c.RPCURLs,
		BlockExplorerURLs: c.ExplorerURLs,
	}
}

// parseAccounts decodes an array of hex addresses, skipping malformed ones.
func parseAccounts(raw json.RawMessage) ([]common.Address, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if !common.IsHexAddress(s) {
			continue
		}
		out = append(out, common.HexToAddress(s))
	}
	return out, nil
}
