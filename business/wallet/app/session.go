package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/apperror"
	"github.com/fd1az/campus-rewards/internal/asset"
	"github.com/fd1az/campus-rewards/internal/debounce"
	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/notify"
)

// TransactionsKey is where the reward log is persisted.
const TransactionsKey = "campus_wallet_transactions"

// Config holds the session tunables.
type Config struct {
	ChainID         uint64        // network the app expects the wallet on
	MaxAttempts     int           // failed live connects before demo fallback
	InitTimeout     time.Duration // bound on provider detection
	AccountDebounce time.Duration // accountsChanged / disconnect window
	ChainDebounce   time.Duration // chainChanged window
	DemoAccount     common.Address
	DemoDelay       time.Duration // simulated latency of a demo connect
	LogCapacity     int
	StorageKey      string
	Policy          domain.RewardPolicy
}

// DefaultConfig returns sensible defaults around policy.
func DefaultConfig(policy domain.RewardPolicy) Config {
	return Config{
		ChainID:         asset.ChainIDAmoy,
		MaxAttempts:     3,
		InitTimeout:     5 * time.Second,
		AccountDebounce: 500 * time.Millisecond,
		ChainDebounce:   time.Second,
		DemoAccount:     common.HexToAddress("0x1111111111111111111111111111111111111111"),
		LogCapacity:     DefaultLogCapacity,
		StorageKey:      TransactionsKey,
		Policy:          policy,
	}
}

// Session owns the wallet connection lifecycle, the active account and
// the reward log. All methods are safe for concurrent use. Provider calls
// are made without holding the session lock.
type Session struct {
	config   Config
	provider Provider // nil means no wallet at all
	store    kvstore.Store
	counter  ContributionCounter
	notifier notify.Notifier
	chains   *asset.Chains
	logger   logger.LoggerInterface

	mu          sync.Mutex
	state       domain.ConnectionState
	mode        domain.Mode
	account     common.Address
	attempts    int
	initialized bool
	chainID     string
	balance     asset.Amount
	epoch       uint64 // bumped by Reset; stale connects compare against it
	txlog       *TxLog
	unsubscribe []func()

	persistMu sync.Mutex

	accountEvents    *debounce.Debouncer[domain.Event]
	disconnectEvents *debounce.Debouncer[domain.Event]
	chainEvents      *debounce.Debouncer[domain.Event]

	ctx    context.Context
	cancel context.CancelFunc
	bgMu   sync.Mutex
	bg     sync.WaitGroup
	closed bool

	balanceRefreshes atomic.Int64

	tracer  trace.Tracer
	metrics *sessionMetrics
}

// NewSession builds a session. provider may be nil, in which case the
// session runs in demo mode. store and counter may be nil as well.
func NewSession(
	cfg Config,
	provider Provider,
	store kvstore.Store,
	counter ContributionCounter,
	notifier notify.Notifier,
	chains *asset.Chains,
	log logger.LoggerInterface,
) (*Session, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = TransactionsKey
	}
	if chains == nil {
		chains = asset.DefaultChains()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		config:   cfg,
		provider: provider,
		store:    store,
		counter:  counter,
		notifier: notifier,
		chains:   chains,
		logger:   log,
		state:    domain.StateDisconnected,
		mode:     domain.ModeLive,
		balance:  cfg.Policy.Balance(0, domain.ModeLive),
		txlog:    NewTxLog(cfg.LogCapacity),
		ctx:      ctx,
		cancel:   cancel,
		tracer:   otel.Tracer(tracerName),
	}

	m, err := newSessionMetrics()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	s.metrics = m

	s.accountEvents = debounce.New(cfg.AccountDebounce, s.onAccountsChanged)
	s.disconnectEvents = debounce.New(cfg.AccountDebounce, s.onProviderDisconnect)
	s.chainEvents = debounce.New(cfg.ChainDebounce, s.onChainChanged)

	return s, nil
}

type detection struct {
	available bool
	accounts  []common.Address
	chainID   string
}

// Initialize loads the persisted log and detects the provider. Detection
// is bounded by InitTimeout; a missing, slow or broken provider leaves the
// session in demo mode. Initialize never fails.
func (s *Session) Initialize(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "wallet.initialize")
	defer span.End()

	// the local log is read even when the caller's budget is already spent
	s.loadTransactions(context.WithoutCancel(ctx))

	dctx, cancel := context.WithTimeout(ctx, s.config.InitTimeout)
	defer cancel()

	result := make(chan detection, 1)
	go func() { result <- s.detect(dctx) }()

	var det detection
	select {
	case det = <-result:
	case <-dctx.Done():
		s.logger.Warn(ctx, "wallet detection timed out, falling back to demo mode",
			"timeout", s.config.InitTimeout.String())
	}

	s.mu.Lock()
	s.initialized = true
	if det.available {
		s.mode = domain.ModeLive
		s.chainID = det.chainID
		if len(det.accounts) > 0 && s.state == domain.StateDisconnected {
			s.account = det.accounts[0]
			s.setStateLocked(domain.StateConnected)
		}
	} else {
		s.mode = domain.ModeDemo
	}
	mode, state, account := s.mode, s.state, s.account
	s.mu.Unlock()

	if det.available {
		s.subscribe()
	}
	s.refreshBalanceAsync()

	span.SetAttributes(attribute.String("mode", string(mode)), attribute.String("state", string(state)))
	s.logger.Info(ctx, "wallet session initialized",
		"mode", mode, "state", state, "account", accountString(state, account))
}

func (s *Session) detect(ctx context.Context) detection {
	if s.provider == nil || !s.provider.IsAvailable() {
		return detection{}
	}

	det := detection{available: true}
	if id, err := s.provider.ChainID(ctx); err == nil {
		det.chainID = id
	} else {
		s.logger.Debug(ctx, "chain id unavailable during detection", "error", err)
	}

	// eth_accounts does not prompt, so an earlier authorisation is restored silently
	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		s.logger.Debug(ctx, "accounts unavailable during detection", "error", err)
	}
	det.accounts = accounts

	if ctx.Err() != nil {
		return detection{}
	}
	return det
}

func (s *Session) subscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.unsubscribe) > 0 || s.provider == nil {
		return
	}
	s.unsubscribe = []func(){
		s.provider.Subscribe(domain.EventAccountsChanged, s.accountEvents.Push),
		s.provider.Subscribe(domain.EventDisconnect, s.disconnectEvents.Push),
		s.provider.Subscribe(domain.EventChainChanged, s.chainEvents.Push),
	}
}

// Connect establishes a connection and returns the active account. In
// demo mode it never contacts the provider. A live failure counts as an
// attempt; the attempt that reaches MaxAttempts switches the session to
// demo mode for good and returns ATTEMPTS_EXHAUSTED.
func (s *Session) Connect(ctx context.Context) (common.Address, error) {
	ctx, span := s.tracer.Start(ctx, "wallet.connect")
	defer span.End()

	s.mu.Lock()
	switch {
	case s.state == domain.StateConnecting:
		s.mu.Unlock()
		err := apperror.Conflict(apperror.CodeConnectionInProgress, "wallet.connect")
		s.notify(ctx, notify.SeverityWarning, msgInProgress)
		span.RecordError(err)
		return common.Address{}, err
	case s.state == domain.StateConnected:
		account := s.account
		s.mu.Unlock()
		return account, nil
	}

	if s.provider == nil {
		s.mode = domain.ModeDemo
	}
	epoch := s.epoch
	s.setStateLocked(domain.StateConnecting)

	if s.mode == domain.ModeDemo {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("mode", string(domain.ModeDemo)))
		return s.connectDemo(ctx, epoch)
	}

	s.attempts++
	attempt := s.attempts
	s.mu.Unlock()

	span.SetAttributes(attribute.String("mode", string(domain.ModeLive)), attribute.Int("attempt", attempt))
	s.notify(ctx, notify.SeverityInfo, msgConnecting)

	accounts, err := s.requestAccounts(ctx)
	if err != nil {
		return common.Address{}, s.connectFailed(ctx, span, epoch, attempt, err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return common.Address{}, s.staleConnect(ctx, span)
	}
	s.account = accounts[0]
	s.attempts = 0
	s.setStateLocked(domain.StateConnected)
	account := s.account
	s.mu.Unlock()

	s.recordAttempt(ctx, domain.ModeLive, "connected")
	s.refreshBalanceAsync()
	s.goBackground(func(ctx context.Context) {
		_ = s.EnsureChain(ctx)
	})

	s.logger.Info(ctx, "wallet connected", "account", account.Hex(), "attempt", attempt)
	s.notify(ctx, notify.SeveritySuccess, fmt.Sprintf(msgConnected, shortAddress(account)))
	return account, nil
}

func (s *Session) requestAccounts(ctx context.Context) ([]common.Address, error) {
	if !s.provider.IsAvailable() {
		return nil, apperror.New(apperror.CodeProviderUnavailable, apperror.WithContext("wallet.connect"))
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		if domain.ProviderErrorCode(err) == domain.ProviderCodeUserRejected {
			return nil, apperror.External(apperror.CodeUserRejected, "wallet.connect", err)
		}
		if apperror.HasCode(err, apperror.CodeBridgeClosed) {
			return nil, apperror.External(apperror.CodeProviderUnavailable, "wallet.connect", err)
		}
		return nil, apperror.External(apperror.CodeConnectionFailed, "wallet.connect", err)
	}
	if len(accounts) == 0 {
		return nil, apperror.External(apperror.CodeConnectionFailed, "wallet.connect",
			apperror.New(apperror.CodeNoAccounts))
	}
	return accounts, nil
}

func (s *Session) connectFailed(ctx context.Context, span trace.Span, epoch uint64, attempt int, cause error) error {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return s.staleConnect(ctx, span)
	}
	s.setStateLocked(domain.StateDisconnected)
	exhausted := s.attempts >= s.config.MaxAttempts
	if exhausted {
		s.mode = domain.ModeDemo
	}
	s.mu.Unlock()

	span.RecordError(cause)
	span.SetStatus(codes.Error, "connect failed")

	if exhausted {
		s.recordAttempt(ctx, domain.ModeLive, "exhausted")
		s.logger.Warn(ctx, "wallet connect attempts exhausted, switched to demo mode",
			"attempts", attempt, "error", cause)
		s.notify(ctx, notify.SeverityWarning, fmt.Sprintf(msgFallbackDemo, s.config.MaxAttempts))
		s.refreshBalanceAsync()
		return apperror.New(apperror.CodeAttemptsExhausted,
			apperror.WithContext("wallet.connect"), apperror.WithCause(cause))
	}

	code := apperror.GetCode(cause)
	s.recordAttempt(ctx, domain.ModeLive, string(code))
	s.logger.Warn(ctx, "wallet connect failed", "attempt", attempt, "max_attempts", s.config.MaxAttempts, "error", cause)

	switch code {
	case apperror.CodeUserRejected:
		s.notify(ctx, notify.SeverityWarning, msgUserRejected)
	case apperror.CodeProviderUnavailable:
		s.notify(ctx, notify.SeverityError, fmt.Sprintf(msgNoProvider, attempt, s.config.MaxAttempts))
	default:
		s.notify(ctx, notify.SeverityError, fmt.Sprintf(msgConnectFailed, attempt, s.config.MaxAttempts))
	}
	return cause
}

func (s *Session) staleConnect(ctx context.Context, span trace.Span) error {
	err := apperror.Conflict(apperror.CodeInvalidState, "wallet session was reset during connect")
	span.RecordError(err)
	s.logger.Debug(ctx, "discarding connect result after reset")
	return err
}

func (s *Session) connectDemo(ctx context.Context, epoch uint64) (common.Address, error) {
	s.notify(ctx, notify.SeverityInfo, msgConnectingDemo)

	if d := s.config.DemoDelay; d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			s.mu.Lock()
			if s.epoch == epoch {
				s.setStateLocked(domain.StateDisconnected)
			}
			s.mu.Unlock()
			return common.Address{}, apperror.External(apperror.CodeConnectionFailed, "wallet.connect.demo", ctx.Err())
		}
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return common.Address{}, apperror.Conflict(apperror.CodeInvalidState, "wallet session was reset during connect")
	}
	s.account = s.config.DemoAccount
	s.attempts = 0
	s.setStateLocked(domain.StateConnected)
	account := s.account
	s.mu.Unlock()

	s.recordAttempt(ctx, domain.ModeDemo, "connected")
	s.refreshBalanceAsync()

	s.logger.Info(ctx, "demo wallet connected", "account", account.Hex())
	s.notify(ctx, notify.SeveritySuccess, fmt.Sprintf(msgDemoConnected, shortAddress(account)))
	return account, nil
}

// Disconnect tears the connection down. It is rejected while a connect
// is in flight.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == domain.StateConnecting {
		s.mu.Unlock()
		s.notify(ctx, notify.SeverityWarning, msgInProgress)
		return apperror.Conflict(apperror.CodeConnectionInProgress, "wallet.disconnect")
	}
	mode := s.mode
	s.clearLocked()
	s.mu.Unlock()

	s.logger.Info(ctx, "wallet disconnected", "mode", mode)
	if mode == domain.ModeDemo {
		s.notify(ctx, notify.SeverityInfo, msgDemoDisconnected)
	} else {
		s.notify(ctx, notify.SeverityInfo, msgDisconnected)
	}
	return nil
}

// SendReward records a reward for recipient and returns its hash. Nothing
// is ever transferred on-chain. A non-positive amount is replaced with the
// per-contribution reward. SendReward never fails; a storage error is
// logged and the in-memory log still holds the record.
func (s *Session) SendReward(ctx context.Context, recipient string, amount decimal.Decimal) string {
	ctx, span := s.tracer.Start(ctx, "wallet.sendReward")
	defer span.End()

	if !amount.IsPositive() {
		s.logger.Warn(ctx, "non-positive reward amount replaced with default", "amount", amount.String())
		amount = s.config.Policy.PerContribution.ToDecimal()
	}

	s.mu.Lock()
	state, mode, account := s.state, s.mode, s.account
	s.mu.Unlock()

	rec := domain.TransactionRecord{
		Hash:      domain.NewTxHash(),
		From:      domain.RewardSource,
		To:        recipient,
		Amount:    amount,
		Timestamp: time.Now().UnixMilli(),
		IsReward:  true,
	}
	if state == domain.StateConnected && (recipient == "" || recipient == domain.PendingRecipient) {
		rec.To = account.Hex()
	}

	label := s.formatAmount(amount)
	var severity notify.Severity
	var msg string

	switch {
	case state != domain.StateConnected:
		rec.Status = domain.StatusSimulated
		rec.Kind = domain.KindSimulated
		rec.To = domain.PendingRecipient
		severity, msg = notify.SeverityInfo, fmt.Sprintf(msgRewardPending, label)
	case mode == domain.ModeDemo:
		rec.Status = domain.StatusConfirmed
		rec.Kind = domain.KindDemo
		severity, msg = notify.SeveritySuccess, fmt.Sprintf(msgRewardDemo, label)
	default:
		rec.Status = domain.StatusTracked
		rec.Kind = domain.KindLive
		severity, msg = notify.SeveritySuccess, fmt.Sprintf(msgRewardTracked, label, shortAddressString(rec.To))
	}

	s.appendTransaction(ctx, rec)
	if state == domain.StateConnected {
		s.refreshBalanceAsync()
	}

	s.metrics.rewards.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(rec.Status))))
	span.SetAttributes(attribute.String("status", string(rec.Status)), attribute.String("hash", rec.Hash))
	s.logger.Info(ctx, "reward recorded", "hash", rec.Hash, "status", rec.Status, "to", rec.To, "amount", amount.String())
	s.notify(ctx, severity, msg)
	return rec.Hash
}

// EnsureChain asks a live wallet to move to the configured network,
// adding it first if the wallet does not know it. Failures only warn.
func (s *Session) EnsureChain(ctx context.Context) error {
	s.mu.Lock()
	live := s.mode == domain.ModeLive && s.state == domain.StateConnected
	s.mu.Unlock()
	if s.provider == nil || !live {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "wallet.ensureChain")
	defer span.End()

	target, ok := s.chains.Lookup(s.config.ChainID)
	if !ok {
		return apperror.Validation(apperror.CodeUnknownChain, fmt.Sprintf("chain %d", s.config.ChainID))
	}

	current, err := s.provider.ChainID(ctx)
	if err != nil {
		return s.chainSwitchFailed(ctx, span, target, err)
	}
	if sameChain(current, target.HexID()) {
		s.setChainID(target.HexID())
		return nil
	}

	err = s.provider.SwitchChain(ctx, target.HexID())
	if domain.ProviderErrorCode(err) == domain.ProviderCodeUnrecognizedChain {
		s.logger.Info(ctx, "wallet does not know network, adding it", "chain", target.Name)
		if err = s.provider.AddChain(ctx, target); err == nil {
			err = s.provider.SwitchChain(ctx, target.HexID())
		}
	}
	if err != nil {
		return s.chainSwitchFailed(ctx, span, target, err)
	}

	s.setChainID(target.HexID())
	s.logger.Info(ctx, "wallet switched network", "chain", target.Name, "chain_id", target.HexID())
	return nil
}

func (s *Session) chainSwitchFailed(ctx context.Context, span trace.Span, target asset.Chain, cause error) error {
	err := apperror.External(apperror.CodeChainSwitchFailed, target.Name, cause)
	span.RecordError(err)
	s.logger.Warn(ctx, "wallet network switch failed", err.LogArgs()...)
	s.notify(ctx, notify.SeverityWarning, fmt.Sprintf(msgWrongNetwork, target.Name))
	return err
}

func (s *Session) setChainID(id string) {
	s.mu.Lock()
	s.chainID = id
	s.mu.Unlock()
}

// Reset drops all session state as if the app had been restarted. The
// caller re-runs Initialize afterwards. An in-flight connect finishing
// after Reset is discarded.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.epoch++
	s.clearLocked()
	s.mode = domain.ModeLive
	s.initialized = false
	s.chainID = ""
	s.mu.Unlock()

	for _, fn := range unsub {
		fn()
	}
	s.logger.Info(ctx, "wallet session reset")
}

// RefreshBalance recomputes the balance from the contribution count.
// If the count cannot be read the previous balance is kept.
func (s *Session) RefreshBalance(ctx context.Context) asset.Amount {
	count := -1
	if s.counter != nil {
		n, err := s.counter.Count(ctx)
		if err != nil {
			s.logger.Warn(ctx, "contribution count unavailable", "error", err)
		} else {
			count = n
		}
	} else {
		count = 0
	}

	s.mu.Lock()
	if count >= 0 {
		s.balance = s.config.Policy.Balance(count, s.mode)
	}
	bal := s.balance
	s.mu.Unlock()

	s.balanceRefreshes.Add(1)
	s.metrics.balanceRefreshes.Add(ctx, 1)
	return bal
}

// Stats is a point-in-time snapshot.
func (s *Session) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Stats{
		Initialized: s.initialized,
		Connected:   s.state == domain.StateConnected,
		Connecting:  s.state == domain.StateConnecting,
		State:       s.state,
		Account:     accountString(s.state, s.account),
		Mode:        s.mode,
		DemoMode:    s.mode == domain.ModeDemo,
		Attempts:    s.attempts,
		RewardCount: s.txlog.RewardCount(),
		Balance:     s.balance.String(),
		ChainID:     s.chainID,
	}
}

// Account returns the active account, if connected.
func (s *Session) Account() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account, s.state == domain.StateConnected
}

// Balance returns the last computed balance.
func (s *Session) Balance() asset.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Transactions returns the reward log, oldest first.
func (s *Session) Transactions() []domain.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txlog.Records()
}

// BalanceRefreshes counts completed balance recomputations.
func (s *Session) BalanceRefreshes() int64 {
	return s.balanceRefreshes.Load()
}

// Close stops event handling and waits for background work.
func (s *Session) Close() error {
	s.bgMu.Lock()
	if s.closed {
		s.bgMu.Unlock()
		return nil
	}
	s.closed = true
	s.bgMu.Unlock()

	// a provider drop still inside its window is applied before teardown
	s.disconnectEvents.Flush()

	// handlers in flight see a cancelled context and return quickly
	s.cancel()
	s.accountEvents.Stop()
	s.disconnectEvents.Stop()
	s.chainEvents.Stop()

	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	for _, fn := range unsub {
		fn()
	}

	s.bg.Wait()
	return nil
}

// Provider event handlers. They run on debounce timer goroutines.

func (s *Session) onAccountsChanged(e domain.Event) {
	ctx := s.ctx

	s.mu.Lock()
	if s.state == domain.StateConnecting {
		s.mu.Unlock()
		s.logger.Debug(ctx, "ignoring accountsChanged while connecting")
		return
	}
	if s.mode != domain.ModeLive || s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	if len(e.Accounts) == 0 {
		s.clearLocked()
		s.mu.Unlock()
		s.logger.Info(ctx, "wallet reported no accounts")
		s.notify(ctx, notify.SeverityWarning, msgProviderDropped)
		return
	}
	next := e.Accounts[0]
	if next == s.account {
		s.mu.Unlock()
		return
	}
	s.account = next
	s.mu.Unlock()

	s.refreshBalanceAsync()
	s.logger.Info(ctx, "wallet account changed", "account", next.Hex())
	s.notify(ctx, notify.SeverityInfo, fmt.Sprintf(msgAccountChanged, shortAddress(next)))
}

func (s *Session) onProviderDisconnect(e domain.Event) {
	ctx := s.ctx

	s.mu.Lock()
	if s.state == domain.StateConnecting {
		s.mu.Unlock()
		s.logger.Debug(ctx, "ignoring disconnect while connecting")
		return
	}
	if s.mode != domain.ModeLive || s.state != domain.StateConnected {
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	s.mu.Unlock()

	s.logger.Info(ctx, "wallet disconnected by provider", "reason", e.Reason)
	s.notify(ctx, notify.SeverityWarning, msgProviderDropped)
}

func (s *Session) onChainChanged(e domain.Event) {
	ctx := s.ctx

	s.mu.Lock()
	known := s.chainID
	s.mu.Unlock()

	// every chain change reloads the session, even to the chain already known
	s.logger.Info(ctx, "wallet network changed", "from", known, "to", e.ChainID)
	s.Reset(ctx)
	s.notify(ctx, notify.SeverityWarning, msgNetworkChanged)
	s.Initialize(ctx)
}

// helpers

func (s *Session) clearLocked() {
	s.account = common.Address{}
	s.attempts = 0
	s.setStateLocked(domain.StateDisconnected)
}

func (s *Session) setStateLocked(state domain.ConnectionState) {
	s.state = state
	var v int64
	switch state {
	case domain.StateConnecting:
		v = 1
	case domain.StateConnected:
		v = 2
	}
	s.metrics.connectionState.Record(context.Background(), v)
}

func (s *Session) recordAttempt(ctx context.Context, mode domain.Mode, outcome string) {
	s.metrics.connectAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.String("outcome", outcome),
	))
}

func (s *Session) appendTransaction(ctx context.Context, rec domain.TransactionRecord) {
	s.mu.Lock()
	evicted := s.txlog.Append(rec)
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Debug(ctx, "reward log full, evicted oldest records", "evicted", evicted)
	}
	s.persist(ctx)
}

func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}

	// snapshot under persistMu so writes land in append order
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	records := s.txlog.Records()
	s.mu.Unlock()

	if err := kvstore.SetJSON(ctx, s.store, s.config.StorageKey, records); err != nil {
		appErr := apperror.Internal(apperror.CodeStorageFailure, "wallet.persist", err)
		s.logger.Warn(ctx, "failed to persist reward log", appErr.LogArgs()...)
	}
}

func (s *Session) loadTransactions(ctx context.Context) {
	if s.store == nil {
		return
	}

	var records []domain.TransactionRecord
	found, err := kvstore.GetJSON(ctx, s.store, s.config.StorageKey, &records)
	if err != nil {
		appErr := apperror.Internal(apperror.CodeStorageFailure, "wallet.load", err)
		s.logger.Warn(ctx, "failed to load reward log", appErr.LogArgs()...)
		return
	}
	if !found {
		return
	}

	s.mu.Lock()
	s.txlog.Load(records)
	n := s.txlog.Len()
	s.mu.Unlock()
	s.logger.Debug(ctx, "reward log loaded", "records", n)
}

func (s *Session) refreshBalanceAsync() {
	s.goBackground(func(ctx context.Context) {
		s.RefreshBalance(ctx)
	})
}

func (s *Session) goBackground(fn func(ctx context.Context)) {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()
	if s.closed {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(s.ctx)
	}()
}

func (s *Session) notify(ctx context.Context, sev notify.Severity, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notify.New(sev, msg))
}

func (s *Session) formatAmount(d decimal.Decimal) string {
	symbol := "CAMPUS"
	if a := s.config.Policy.PerContribution.Asset(); a != nil {
		symbol = a.Symbol()
	}
	return d.String() + " " + symbol
}

func sameChain(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	x, errA := asset.ParseChainID(a)
	y, errB := asset.ParseChainID(b)
	return errA == nil && errB == nil && x == y
}

func accountString(state domain.ConnectionState, account common.Address) string {
	if state != domain.StateConnected {
		return ""
	}
	return account.Hex()
}

func shortAddress(a common.Address) string {
	return shortAddressString(a.Hex())
}

func shortAddressString(s string) string {
	if len(s) < 12 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}
