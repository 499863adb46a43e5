package app

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/asset"
)

// fakeProvider behaves like a browser wallet: Accounts only returns
// something after a successful RequestAccounts.
type fakeProvider struct {
	mu sync.Mutex

	available    bool
	accounts     []common.Address
	authorized   bool
	requestErr   error
	gate         chan struct{} // RequestAccounts blocks until closed
	hangAccounts bool

	requests    int
	inflight    int
	maxInflight int

	chainID      string
	missingChain bool // SwitchChain answers 4902 until AddChain
	switchErr    error
	switched     []string
	added        []asset.Chain

	handlers   map[domain.EventName]map[int]func(domain.Event)
	nextID     int
	subscribes int
}

func newFakeProvider(accounts ...common.Address) *fakeProvider {
	return &fakeProvider{
		available: true,
		accounts:  accounts,
		chainID:   asset.Chain{ID: asset.ChainIDAmoy}.HexID(),
		handlers:  make(map[domain.EventName]map[int]func(domain.Event)),
	}
}

func (f *fakeProvider) IsAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	f.mu.Lock()
	f.requests++
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	gate := f.gate
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	f.authorized = true
	return append([]common.Address(nil), f.accounts...), nil
}

func (f *fakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	f.mu.Lock()
	hang := f.hangAccounts
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.authorized {
		return nil, nil
	}
	return append([]common.Address(nil), f.accounts...), nil
}

func (f *fakeProvider) Subscribe(event domain.EventName, handler func(domain.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	f.nextID++
	id := f.nextID
	if f.handlers[event] == nil {
		f.handlers[event] = make(map[int]func(domain.Event))
	}
	f.handlers[event][id] = handler
	return func() {
		f.mu.Lock()
		delete(f.handlers[event], id)
		f.mu.Unlock()
	}
}

func (f *fakeProvider) ChainID(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chainID, nil
}

func (f *fakeProvider) SwitchChain(ctx context.Context, chainID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switched = append(f.switched, chainID)
	if f.switchErr != nil {
		return f.switchErr
	}
	if f.missingChain {
		return &domain.ProviderError{Code: domain.ProviderCodeUnrecognizedChain, Message: "Unrecognized chain ID"}
	}
	f.chainID = chainID
	return nil
}

func (f *fakeProvider) AddChain(ctx context.Context, chain asset.Chain) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, chain)
	f.missingChain = false
	return nil
}

func (f *fakeProvider) emit(e domain.Event) {
	f.mu.Lock()
	var hs []func(domain.Event)
	for _, h := range f.handlers[e.Name] {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(e)
	}
}

func (f *fakeProvider) activeHandlers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.handlers {
		n += len(m)
	}
	return n
}

func (f *fakeProvider) set(fn func(f *fakeProvider)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type fakeCalls struct {
	requests    int
	maxInflight int
	switched    []string
	added       []asset.Chain
	subscribes  int
}

func (f *fakeProvider) calls() fakeCalls {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeCalls{
		requests:    f.requests,
		maxInflight: f.maxInflight,
		switched:    append([]string(nil), f.switched...),
		added:       append([]asset.Chain(nil), f.added...),
		subscribes:  f.subscribes,
	}
}
