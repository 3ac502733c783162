package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/stellarsig/msig/internal/adapters/chat"
	"github.com/stellarsig/msig/internal/adapters/horizon"
	sessionstore "github.com/stellarsig/msig/internal/adapters/repo/memory"
	filestore "github.com/stellarsig/msig/internal/adapters/secrets/file"
	secretstore "github.com/stellarsig/msig/internal/adapters/secrets/memory"
	"github.com/stellarsig/msig/internal/application"
	"github.com/stellarsig/msig/internal/config"
	"github.com/stellarsig/msig/internal/ports"
)

type app struct {
	cfg    config.Config
	log    *slog.Logger
	ledger ports.LedgerGateway
	coord  *application.Coordinator
	router *chat.Router
}

// wireApp builds the full coordinator stack. Sessions and their seeds live
// in process memory; only the `msig keys` utilities touch disk.
func wireApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(viper.New(), cfgPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	gateway := horizon.NewGateway(cfg.Horizon.URL, cfg.HorizonTimeout(), logger)
	coord := application.NewCoordinator(sessionstore.NewRepository(), secretstore.NewStore(), gateway,
		cfg.Network.Passphrase, nil, logger)

	return &app{
		cfg:    cfg,
		log:    logger,
		ledger: gateway,
		coord:  coord,
		router: chat.NewRouter(coord, logger),
	}, nil
}

// openKeyStore opens the on-disk store backing the `msig keys` utilities.
func openKeyStore(cfgPath string) (*filestore.Store, error) {
	cfg, err := config.Load(viper.New(), cfgPath)
	if err != nil {
		return nil, err
	}

	dir := cfg.Secrets.Dir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		dir = filepath.Join(configDir, "msig", "secrets")
	}

	return filestore.NewStore(dir), nil
}
