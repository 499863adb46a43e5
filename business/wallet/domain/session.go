// Package domain contains the core types of the wallet context.
package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ConnectionState is where the session is in its connect lifecycle.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// Mode says whether the session talks to a real provider.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// EventName is a provider-pushed event kind.
type EventName string

const (
	EventAccountsChanged EventName = "accountsChanged"
	EventChainChanged    EventName = "chainChanged"
	EventDisconnect      EventName = "disconnect"
)

// Event is one provider notification.
type Event struct {
	Name     EventName
	Accounts []common.Address // accountsChanged
	ChainID  string           // chainChanged, hex quantity
	Reason   string           // disconnect
}

// Stats is the snapshot the UI and health checks read.
type Stats struct {
	Initialized bool            `json:"initialized"`
	Connected   bool            `json:"connected"`
	Connecting  bool            `json:"connecting"`
	State       ConnectionState `json:"state"`
	Account     string          `json:"account,omitempty"`
	Mode        Mode            `json:"mode"`
	DemoMode    bool            `json:"demoMode"`
	Attempts    int             `json:"attempts"`
	RewardCount int             `json:"rewardCount"`
	Balance     string          `json:"balance"`
	ChainID     string          `json:"chainId,omitempty"`
}

// EIP-1193 provider error codes.
const (
	ProviderCodeUserRejected      = 4001
	ProviderCodeUnauthorized      = 4100
	ProviderCodeDisconnected      = 4900
	ProviderCodeUnrecognizedChain = 4902
)

// ProviderError is an error reported by the wallet itself.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ProviderErrorCode returns the provider code in err's chain, or 0.
func ProviderErrorCode(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return 0
}
