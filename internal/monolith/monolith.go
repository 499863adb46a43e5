// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"

	"github.com/fd1az/campus-rewards/internal/asset"
	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/di"
	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/notify"
)

// Names of the shared services in the container.
const (
	ServiceConfig   = "config"
	ServiceLogger   = "logger"
	ServiceStore    = "store"
	ServiceNotifier = "notifier"
	ServiceChains   = "chains"
	ServiceToken    = "rewardToken"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Store() kvstore.Store
	Notifier() *notify.Fanout
	Chains() *asset.Chains
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	store     kvstore.Store
	notifier  *notify.Fanout
	chains    *asset.Chains
	container di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	store, err := OpenStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	// every notification is also logged; UIs attach themselves later
	notifier := notify.NewFanout(notify.NewLogNotifier(log))

	chains := asset.DefaultChains()
	token := asset.NewAsset(cfg.Rewards.TokenSymbol, cfg.Rewards.TokenName, cfg.Rewards.TokenDecimals)

	container := di.NewContainer()

	// Register global services
	container.Register(ServiceConfig, cfg)
	container.Register(ServiceLogger, log)
	container.Register(ServiceStore, store)
	container.Register(ServiceNotifier, notifier)
	container.Register(ServiceChains, chains)
	container.Register(ServiceToken, token)

	return &app{
		config:    cfg,
		logger:    log,
		store:     store,
		notifier:  notifier,
		chains:    chains,
		container: container,
	}, nil
}

// OpenStore opens the configured key-value backend.
func OpenStore(cfg config.StorageConfig) (kvstore.Store, error) {
	switch cfg.Driver {
	case "memory":
		return kvstore.NewMemory(), nil
	case "sqlite", "":
		store, err := kvstore.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Store() kvstore.Store {
	return a.store
}

func (a *app) Notifier() *notify.Fanout {
	return a.notifier
}

func (a *app) Chains() *asset.Chains {
	return a.chains
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
