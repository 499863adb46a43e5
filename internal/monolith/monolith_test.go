package monolith

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/di"
	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
)

type recordingModule struct {
	registered bool
	started    bool
}

func (m *recordingModule) RegisterServices(c di.Container) error {
	m.registered = true
	c.Register("probe", "ok")
	return nil
}

func (m *recordingModule) Startup(_ context.Context, mono Monolith) error {
	m.started = mono.Services().Get("probe") == "ok"
	return nil
}

func testConfig(driver, path string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: driver, Path: path},
		Rewards: config.RewardsConfig{TokenSymbol: "CAMPUS", TokenName: "Campus Credit", TokenDecimals: 18},
	}
}

func TestNew_RegistersSharedServices(t *testing.T) {
	app, err := New(testConfig("memory", ""), logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	for _, name := range []string{ServiceConfig, ServiceLogger, ServiceStore, ServiceNotifier, ServiceChains, ServiceToken} {
		if !app.Services().Has(name) {
			t.Errorf("service %q not registered", name)
		}
	}
	if _, ok := app.Store().(*kvstore.Memory); !ok {
		t.Errorf("Store() = %T, want memory", app.Store())
	}
}

func TestModules_RegisterAndStart(t *testing.T) {
	app, err := New(testConfig("memory", ""), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	m := &recordingModule{}
	if err := app.RegisterModules(m); err != nil {
		t.Fatal(err)
	}
	if err := app.StartModules(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	if !m.registered || !m.started {
		t.Errorf("module = %+v", m)
	}
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Driver: "memory"}},
		{name: "sqlite", cfg: config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "kv.db")}},
		{name: "unknown", cfg: config.StorageConfig{Driver: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStore(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				if err := store.Ping(context.Background()); err != nil {
					t.Errorf("Ping() error = %v", err)
				}
				_ = store.Close()
			}
		})
	}
}
