package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	feedbackDI "github.com/fd1az/campus-rewards/business/feedback/di"
	"github.com/fd1az/campus-rewards/business/feedback/domain"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
	walletDomain "github.com/fd1az/campus-rewards/business/wallet/domain"
)

const testConfig = `
app:
  health_port: 0
wallet:
  demo_delay: 0s
  init_timeout: 1s
storage:
  driver: memory
`

func useConfig(t *testing.T, body string, connect bool) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	configPath = path
	autoConnect = connect
	t.Cleanup(func() {
		configPath = ""
		autoConnect = false
	})
}

// silentListener accepts TCP connections and never answers the upgrade.
func silentListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var (
		mu    sync.Mutex
		conns []net.Conn
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		wg.Wait()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func TestBootstrap_SubmitPaysDemoReward(t *testing.T) {
	useConfig(t, testConfig, true)

	ctx := context.Background()
	a, err := bootstrap(ctx, modeCommand)
	if err != nil {
		t.Fatalf("bootstrap() error = %v", err)
	}
	defer a.close(ctx)

	if err := a.start(ctx); err != nil {
		t.Fatalf("start() error = %v", err)
	}

	session := walletDI.GetSession(a.mono.Services())
	st := session.Stats()
	if !st.DemoMode || !st.Connected {
		t.Fatalf("Stats() = %+v, want connected demo wallet", st)
	}

	c, err := feedbackDI.GetService(a.mono.Services()).Submit(ctx, domain.Submission{
		Kind:     domain.KindFeedback,
		Category: "dining",
		Message:  "great salad bar",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if c.Wallet != st.Account {
		t.Errorf("Wallet = %s, want %s", c.Wallet, st.Account)
	}

	if got := session.RefreshBalance(ctx).String(); got != "110 CAMPUS" {
		t.Errorf("balance = %s, want 110 CAMPUS", got)
	}
	txs := session.Transactions()
	if len(txs) != 1 || txs[0].Kind != walletDomain.KindDemo || txs[0].Hash != c.TxHash {
		t.Errorf("Transactions() = %+v", txs)
	}
}

func TestBootstrap_UnresponsiveBridgeFallsBackToDemo(t *testing.T) {
	addr := silentListener(t)
	useConfig(t, fmt.Sprintf(`
app:
  health_port: 0
wallet:
  bridge_url: ws://%s
  init_timeout: 500ms
storage:
  driver: memory
`, addr), false)

	ctx := context.Background()
	a, err := bootstrap(ctx, modeCommand)
	if err != nil {
		t.Fatalf("bootstrap() error = %v", err)
	}
	defer a.close(ctx)

	done := make(chan error, 1)
	go func() { done <- a.start(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("start() blocked on a bridge that never answers")
	}

	st := walletDI.GetSession(a.mono.Services()).Stats()
	if !st.Initialized || !st.DemoMode {
		t.Errorf("Stats() = %+v, want initialised demo session", st)
	}
}
