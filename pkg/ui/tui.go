package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"

	feedbackDomain "github.com/fd1az/campus-rewards/business/feedback/domain"
	walletDomain "github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/asset"
	"github.com/fd1az/campus-rewards/pkg/ui/components"
)

// Wallet is the session surface the dashboard drives.
type Wallet interface {
	Connect(ctx context.Context) (common.Address, error)
	Disconnect(ctx context.Context) error
	RefreshBalance(ctx context.Context) asset.Amount
	EnsureChain(ctx context.Context) error
	Reset(ctx context.Context)
	Stats() walletDomain.Stats
	Transactions() []walletDomain.TransactionRecord
	BalanceRefreshes() int64
}

// Contributions lists stored feedback and reports.
type Contributions interface {
	List(ctx context.Context, kind feedbackDomain.Kind) ([]feedbackDomain.Contribution, error)
}

// Options configures the dashboard.
type Options struct {
	Wallet        Wallet
	Contributions Contributions // optional
	Chains        *asset.Chains
	MaxAttempts   int
	Version       string
	// Start runs once the welcome screen is dismissed. nil goes straight to
	// the dashboard.
	Start func(ctx context.Context) error
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const (
	tickInterval  = 500 * time.Millisecond
	maxErrors     = 3
	visibleTxRows = 8
)

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	opts Options
	ctx  context.Context
	keys KeyMap

	// Components
	status        *components.StatusComponent
	stats         *components.StatsComponent
	transactions  *components.TransactionsComponent
	notifications *components.NotificationsComponent
	spinner       spinner.Model
	help          help.Model

	// Phase state
	phase        Phase
	welcomeStart time.Time
	startupTime  time.Time
	startErr     error

	// State
	quitting   bool
	width      int
	height     int
	polling    bool
	busy       string // action in flight
	snapshot   SnapshotMsg
	lastUpdate time.Time
	errors     []ErrorEntry
}

// New creates a new TUI model.
func New(ctx context.Context, opts Options) Model {
	if opts.Chains == nil {
		opts.Chains = asset.DefaultChains()
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		opts:          opts,
		ctx:           ctx,
		keys:          DefaultKeyMap(),
		status:        components.NewStatusComponent(),
		stats:         components.NewStatsComponent(),
		transactions:  components.NewTransactionsComponent(visibleTxRows),
		notifications: components.NewNotificationsComponent(6),
		spinner:       sp,
		help:          help.New(),
		phase:         PhaseWelcome,
		welcomeStart:  time.Now(),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Phase returns the current phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips ahead
		if m.phase == PhaseWelcome {
			return m.leaveWelcome()
		}
		if m.phase == PhaseDashboard {
			return m.handleKey(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			next, cmd := m.leaveWelcome()
			return next, tea.Batch(cmd, tickCmd())
		}
		if m.phase == PhaseDashboard && !m.polling {
			m.polling = true
			return m, tea.Batch(tickCmd(), m.pollCmd())
		}
		return m, tickCmd()

	case StartupMsg:
		if msg.Err != nil {
			m.startErr = msg.Err
			m.addError(msg.Err)
			return m, nil
		}
		m.phase = PhaseDashboard
		m.polling = true
		return m, m.pollCmd()

	case SnapshotMsg:
		m.polling = false
		m.applySnapshot(msg)

	case NotificationMsg:
		n := msg.Notification
		m.notifications.Add(components.NotificationRow{
			Message:  n.Message,
			Severity: string(n.Severity),
			At:       n.At,
		})
		m.lastUpdate = time.Now()

	case ActionDoneMsg:
		m.busy = ""
		if msg.Err != nil {
			m.addError(fmt.Errorf("%s: %w", msg.Action, msg.Err))
		}
		m.polling = true
		return m, m.pollCmd()
	}

	return m, nil
}

func (m Model) leaveWelcome() (Model, tea.Cmd) {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	start := m.opts.Start
	ctx := m.ctx
	return m, func() tea.Msg {
		if start == nil {
			return StartupMsg{}
		}
		return StartupMsg{Err: start(ctx)}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.notifications.Clear()
		m.errors = nil
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.transactions.ScrollUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.transactions.ScrollDown()
		return m, nil
	}

	// one wallet action at a time
	if m.busy != "" {
		return m, nil
	}

	w := m.opts.Wallet
	var action string
	var run func(ctx context.Context) error
	switch {
	case key.Matches(msg, m.keys.Connect):
		action = "connect"
		run = func(ctx context.Context) error {
			_, err := w.Connect(ctx)
			return err
		}
	case key.Matches(msg, m.keys.Disconnect):
		action = "disconnect"
		run = w.Disconnect
	case key.Matches(msg, m.keys.Refresh):
		action = "refresh"
		run = func(ctx context.Context) error {
			w.RefreshBalance(ctx)
			return nil
		}
	case key.Matches(msg, m.keys.Network):
		action = "switch network"
		run = w.EnsureChain
	case key.Matches(msg, m.keys.Reset):
		action = "reset"
		run = func(ctx context.Context) error {
			w.Reset(ctx)
			return nil
		}
	default:
		return m, nil
	}

	m.busy = action
	ctx := m.ctx
	return m, func() tea.Msg {
		return ActionDoneMsg{Action: action, Err: run(ctx)}
	}
}

// pollCmd reads the wallet and contribution store off the UI goroutine.
func (m Model) pollCmd() tea.Cmd {
	w := m.opts.Wallet
	contributions := m.opts.Contributions
	ctx := m.ctx
	return func() tea.Msg {
		snap := SnapshotMsg{
			Stats:        w.Stats(),
			Transactions: w.Transactions(),
			Refreshes:    w.BalanceRefreshes(),
		}
		if contributions != nil {
			if fb, err := contributions.List(ctx, feedbackDomain.KindFeedback); err == nil {
				snap.Feedback = len(fb)
			}
			if rp, err := contributions.List(ctx, feedbackDomain.KindReport); err == nil {
				snap.Reports = len(rp)
			}
		}
		return snap
	}
}

func (m *Model) applySnapshot(s SnapshotMsg) {
	m.snapshot = s
	m.lastUpdate = time.Now()

	st := s.Stats
	m.status.Update(components.WalletStatus{
		State:     string(st.State),
		Mode:      string(st.Mode),
		Account:   st.Account,
		ChainName: m.chainName(st.ChainID),
		Attempts:  st.Attempts,
		MaxTries:  m.opts.MaxAttempts,
		Spinner:   m.spinner.View(),
	})
	m.stats.Update(components.Stats{
		Balance:       st.Balance,
		Rewards:       st.RewardCount,
		Feedback:      s.Feedback,
		Reports:       s.Reports,
		Refreshes:     s.Refreshes,
		Notifications: m.notifications.Len(),
	})

	// newest first
	rows := make([]components.TransactionRow, 0, len(s.Transactions))
	for i := len(s.Transactions) - 1; i >= 0; i-- {
		tx := s.Transactions[i]
		rows = append(rows, components.TransactionRow{
			Time:   time.UnixMilli(tx.Timestamp).Format("15:04:05"),
			Hash:   tx.Hash,
			To:     tx.To,
			Amount: tx.Amount.String(),
			Status: string(tx.Status),
			Kind:   string(tx.Kind),
		})
	}
	m.transactions.Update(rows)
}

func (m Model) chainName(hexID string) string {
	if hexID == "" {
		return ""
	}
	id, err := asset.ParseChainID(hexID)
	if err != nil {
		return hexID
	}
	if c, ok := m.opts.Chains.Lookup(id); ok {
		return c.Name
	}
	return fmt.Sprintf("unknown (%s)", hexID)
}

func (m *Model) addError(err error) {
	m.errors = append(m.errors, ErrorEntry{Message: err.Error(), Timestamp: time.Now()})
	if len(m.errors) > maxErrors {
		m.errors = m.errors[len(m.errors)-maxErrors:]
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	title := Banner.Render(" 🎓 Campus Rewards ")
	if m.snapshot.Stats.DemoMode {
		title = lipgloss.JoinHorizontal(lipgloss.Center, title, " ", DemoBadge.Render("DEMO"))
	}
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.status.View() + "\n\n" + m.stats.View()
	rightCol := m.notifications.View()

	if m.width > 100 {
		left := Panel.Width(m.width/2 - 2).Render(leftCol)
		right := Panel.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(Panel.Render(leftCol))
		b.WriteString("\n")
		b.WriteString(Panel.Render(rightCol))
	}
	b.WriteString("\n")
	b.WriteString(Panel.Render(m.transactions.View()))
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		b.WriteString(AlertHeader.Render("ERRORS"))
		b.WriteString(Dim.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(Alert.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(Dim.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.busy != "" {
		b.WriteString(WalletPending.Render(m.spinner.View() + " " + m.busy + "..."))
		b.WriteString(" • ")
	}
	b.WriteString(KeyHints.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderStatusBar() string {
	st := m.snapshot.Stats
	var parts []string

	switch st.State {
	case walletDomain.StateConnected:
		parts = append(parts, WalletLive.Render("● "+shortAddress(st.Account)))
	case walletDomain.StateConnecting:
		parts = append(parts, WalletPending.Render(m.spinner.View()+" connecting"))
	default:
		parts = append(parts, WalletOffline.Render("○ not connected"))
	}

	if st.Balance != "" {
		parts = append(parts, "Balance: "+st.Balance)
	}
	parts = append(parts, fmt.Sprintf("Rewards: %d", st.RewardCount))

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, Dim.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}
	if m.opts.Version != "" {
		parts = append(parts, Dim.Render(m.opts.Version))
	}

	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorCampus)
	greenStyle := lipgloss.NewStyle().Foreground(ColorLive)

	elapsed := time.Since(m.welcomeStart)
	dots := strings.Repeat(".", int(elapsed.Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
    ██████╗ █████╗ ███╗   ███╗██████╗ ██╗   ██╗███████╗
   ██╔════╝██╔══██╗████╗ ████║██╔══██╗██║   ██║██╔════╝
   ██║     ███████║██╔████╔██║██████╔╝██║   ██║███████╗
   ██║     ██╔══██║██║╚██╔╝██║██╔═══╝ ██║   ██║╚════██║
   ╚██████╗██║  ██║██║ ╚═╝ ██║██║     ╚██████╔╝███████║
    ╚═════╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝      ╚═════╝ ╚══════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(Dim.Render("                  R E W A R D S"))
	sb.WriteString("\n\n\n")
	sb.WriteString(Credit.Render("        🎓  Speak up, earn campus credits  🎓"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("                  Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(Dim.Render("            Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorCampus)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  🎓 Campus Rewards"))
	sb.WriteString("\n\n")

	if m.startErr != nil {
		sb.WriteString(Alert.Render("  ✗ Startup failed: " + m.startErr.Error()))
		sb.WriteString("\n\n")
		sb.WriteString(Dim.Render("  Press q to quit."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		WalletPending.Render(m.spinner.View()),
		Dim.Render("Detecting wallet provider"),
	))
	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(Dim.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n")

	return sb.String()
}

func shortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// Run starts the dashboard and blocks until the user quits. notifier, when
// set, is attached to the program for the duration of the run.
func Run(ctx context.Context, opts Options, notifier *Notifier) error {
	program := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if notifier != nil {
		notifier.Attach(program)
		defer notifier.Attach(nil)
	}
	_, err := program.Run()
	return err
}
