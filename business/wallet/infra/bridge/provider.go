// Package bridge implements the wallet Provider over a websocket bridge
// speaking EIP-1193 style JSON-RPC (a browser extension relay, a mobile
// wallet link, or a local signer).
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/campus-rewards/business/wallet/app"
	"github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/apperror"
	"github.com/fd1az/campus-rewards/internal/asset"
	"github.com/fd1az/campus-rewards/internal/circuitbreaker"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/ratelimit"
	"github.com/fd1az/campus-rewards/internal/wsconn"
)

var _ app.Provider = (*Provider)(nil)

const (
	tracerName = "github.com/fd1az/campus-rewards/business/wallet/infra/bridge"
	meterName  = "github.com/fd1az/campus-rewards/business/wallet/infra/bridge"
)

// Config holds bridge settings.
type Config struct {
	URL               string
	DialTimeout       time.Duration
	RequestTimeout    time.Duration // per call; interactive prompts need a generous value
	RequestsPerSecond float64
	Burst             int
	AutoReconnect     bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		DialTimeout:       5 * time.Second,
		RequestTimeout:    60 * time.Second,
		RequestsPerSecond: 5,
		Burst:             5,
		AutoReconnect:     true,
	}
}

type bridgeMetrics struct {
	requests metric.Int64Counter
	events   metric.Int64Counter
	latency  metric.Float64Histogram
}

type response struct {
	result json.RawMessage
	err    error
}

// Provider is a wallet reachable over the bridge socket.
type Provider struct {
	config Config
	logger logger.LoggerInterface

	conn    *wsconn.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[json.RawMessage]

	nextID    atomic.Int64
	pendingMu sync.Mutex
	pending   map[int64]chan response

	handlersMu  sync.RWMutex
	handlers    map[domain.EventName]map[int64]func(domain.Event)
	nextHandler int64

	tracer  trace.Tracer
	metrics *bridgeMetrics
}

// New creates a bridge provider. Call Connect before use.
func New(cfg Config, log logger.LoggerInterface) (*Provider, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	wsCfg := wsconn.DefaultConfig(cfg.URL, "wallet-bridge")
	wsCfg.AutoReconnect = cfg.AutoReconnect
	if cfg.DialTimeout > 0 {
		wsCfg.HandshakeTimeout = cfg.DialTimeout
	}
	conn, err := wsconn.New(wsCfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:   cfg,
		logger:   log,
		conn:     conn,
		limiter:  ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		pending:  make(map[int64]chan response),
		handlers: make(map[domain.EventName]map[int64]func(domain.Event)),
		tracer:   otel.Tracer(tracerName),
	}

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cbCfg := circuitbreaker.DefaultConfig("wallet-bridge")
	// the wallet answering with an error (a declined prompt) means it is healthy
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || domain.ProviderErrorCode(err) != 0
	}
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		p.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	p.cb = circuitbreaker.New[json.RawMessage](cbCfg)

	conn.OnMessage(p.handleMessage)
	conn.OnStateChange(p.handleState)

	return p, nil
}

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &bridgeMetrics{}

	p.metrics.requests, err = meter.Int64Counter(
		"bridge_rpc_requests_total",
		metric.WithDescription("Wallet bridge RPC calls by method and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	p.metrics.events, err = meter.Int64Counter(
		"bridge_events_total",
		metric.WithDescription("Events pushed by the wallet bridge"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	p.metrics.latency, err = meter.Float64Histogram(
		"bridge_rpc_latency_ms",
		metric.WithDescription("Wallet bridge RPC round trip"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Connect dials the bridge.
func (p *Provider) Connect(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "bridge.connect",
		trace.WithAttributes(attribute.String("url", p.config.URL)))
	defer span.End()

	if err := p.conn.Connect(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	p.logger.Info(ctx, "wallet bridge connected", "url", p.config.URL)
	return nil
}

// Close drops the socket and fails outstanding calls.
func (p *Provider) Close() error {
	err := p.conn.Close()
	p.failPending(apperror.New(apperror.CodeBridgeClosed, apperror.WithContext("wallet bridge closed")))
	return err
}

// IsAvailable reports whether the bridge socket is up.
func (p *Provider) IsAvailable() bool {
	return p.conn.IsConnected()
}

// RequestAccounts prompts the user for access.
func (p *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	raw, err := p.call(ctx, MethodRequestAccounts)
	if err != nil {
		return nil, err
	}
	return decodeAccounts(raw)
}

// Accounts lists already-authorised accounts without prompting.
func (p *Provider) Accounts(ctx context.Context) ([]common.Address, error) {
	raw, err := p.call(ctx, MethodAccounts)
	if err != nil {
		return nil, err
	}
	return decodeAccounts(raw)
}

// ChainID returns the wallet's current chain as a hex quantity.
func (p *Provider) ChainID(ctx context.Context) (string, error) {
	raw, err := p.call(ctx, MethodChainID)
	if err != nil {
		return "", err
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", apperror.New(apperror.CodeInvalidFormat, apperror.WithCause(err), apperror.WithContext(MethodChainID))
	}
	return id, nil
}

// SwitchChain asks the wallet to change network.
func (p *Provider) SwitchChain(ctx context.Context, chainID string) error {
	_, err := p.call(ctx, MethodSwitchChain, switchChainParams{ChainID: chainID})
	return err
}

// AddChain asks the wallet to learn a network.
func (p *Provider) AddChain(ctx context.Context, chain asset.Chain) error {
	_, err := p.call(ctx, MethodAddChain, newAddChainParams(chain))
	return err
}

// Subscribe registers handler for event. Handlers run on the socket read
// goroutine and must not block.
func (p *Provider) Subscribe(event domain.EventName, handler func(domain.Event)) func() {
	p.handlersMu.Lock()
	defer p.handlersMu.Unlock()

	p.nextHandler++
	id := p.nextHandler
	if p.handlers[event] == nil {
		p.handlers[event] = make(map[int64]func(domain.Event))
	}
	p.handlers[event][id] = handler

	return func() {
		p.handlersMu.Lock()
		delete(p.handlers[event], id)
		p.handlersMu.Unlock()
	}
}

func (p *Provider) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	ctx, span := p.tracer.Start(ctx, "bridge."+method,
		trace.WithAttributes(attribute.String("rpc.method", method)))
	defer span.End()

	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		p.recordCall(ctx, span, method, start, err)
		return nil, err
	}

	res, err := p.cb.Execute(func() (json.RawMessage, error) {
		return p.roundTrip(ctx, method, params)
	})
	p.recordCall(ctx, span, method, start, err)
	return res, err
}

func (p *Provider) roundTrip(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if !p.conn.IsConnected() {
		return nil, apperror.New(apperror.CodeBridgeClosed, apperror.WithContext(method))
	}

	id := p.nextID.Add(1)
	ch := make(chan response, 1)

	p.pendingMu.Lock()
	p.pending[id] = ch
	p.pendingMu.Unlock()
	defer func() {
		p.pendingMu.Lock()
		delete(p.pending, id)
		p.pendingMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, p.config.RequestTimeout)
	defer cancel()

	req := Request{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	if err := p.conn.SendJSON(ctx, req); err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		return resp.result, resp.err
	case <-ctx.Done():
		return nil, apperror.New(apperror.CodeServiceTimeout,
			apperror.WithCause(ctx.Err()), apperror.WithContext(method))
	}
}

func (p *Provider) recordCall(ctx context.Context, span trace.Span, method string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperror.GetCode(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)
	p.metrics.requests.Add(ctx, 1, attrs)
	p.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
}

func (p *Provider) handleMessage(ctx context.Context, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		p.logger.Debug(ctx, "failed to parse bridge message", "error", err, "data", string(data[:min(len(data), 200)]))
		return
	}

	if msg.IsNotification() {
		p.handleNotification(ctx, &msg)
		return
	}
	if msg.ID == nil {
		return
	}

	p.pendingMu.Lock()
	ch, ok := p.pending[*msg.ID]
	p.pendingMu.Unlock()
	if !ok {
		p.logger.Debug(ctx, "response for unknown request", "id", *msg.ID)
		return
	}

	var resp response
	if msg.Error != nil {
		resp.err = apperror.External(apperror.CodeBridgeRPCError, msg.Error.Message,
			&domain.ProviderError{Code: msg.Error.Code, Message: msg.Error.Message})
	} else {
		resp.result = msg.Result
	}

	select {
	case ch <- resp:
	default:
	}
}

func (p *Provider) handleNotification(ctx context.Context, msg *Message) {
	e := domain.Event{Name: domain.EventName(msg.Method)}

	switch e.Name {
	case domain.EventAccountsChanged:
		accounts, err := parseAccounts(msg.Params)
		if err != nil {
			p.logger.Debug(ctx, "bad accountsChanged payload", "error", err)
			return
		}
		e.Accounts = accounts
	case domain.EventChainChanged:
		if err := json.Unmarshal(msg.Params, &e.ChainID); err != nil {
			p.logger.Debug(ctx, "bad chainChanged payload", "error", err)
			return
		}
	case domain.EventDisconnect:
		var rpcErr RPCError
		if len(msg.Params) > 0 && json.Unmarshal(msg.Params, &rpcErr) == nil {
			e.Reason = rpcErr.Message
		}
	default:
		p.logger.Debug(ctx, "ignoring bridge notification", "method", msg.Method)
		return
	}

	p.metrics.events.Add(ctx, 1, metric.WithAttributes(attribute.String("event", msg.Method)))
	p.dispatch(e)
}

func (p *Provider) dispatch(e domain.Event) {
	p.handlersMu.RLock()
	hs := make([]func(domain.Event), 0, len(p.handlers[e.Name]))
	for _, h := range p.handlers[e.Name] {
		hs = append(hs, h)
	}
	p.handlersMu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

// handleState turns a lost socket into a provider disconnect.
func (p *Provider) handleState(state wsconn.State, err error) {
	ctx := context.Background()
	switch state {
	case wsconn.StateReconnecting, wsconn.StateDisconnected:
		p.logger.Warn(ctx, "wallet bridge connection lost", "state", state, "error", err)
		p.failPending(apperror.New(apperror.CodeBridgeClosed, apperror.WithCause(err)))
		reason := "bridge connection lost"
		if err != nil {
			reason = err.Error()
		}
		p.dispatch(domain.Event{Name: domain.EventDisconnect, Reason: reason})
	case wsconn.StateConnected:
		p.logger.Debug(ctx, "wallet bridge connection up")
	}
}

func (p *Provider) failPending(err error) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	for id, ch := range p.pending {
		select {
		case ch <- response{err: err}:
		default:
		}
		delete(p.pending, id)
	}
}

func decodeAccounts(raw json.RawMessage) ([]common.Address, error) {
	accounts, err := parseAccounts(raw)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidFormat, apperror.WithCause(err), apperror.WithContext("accounts"))
	}
	return accounts, nil
}
