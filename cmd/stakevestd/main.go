package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stakevest/config"
	"stakevest/core"
	"stakevest/observability/logging"
	"stakevest/rpc"
	"stakevest/storage"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./config.toml", "path to the TOML configuration file")
	flag.Parse()

	env := os.Getenv("STAKEVEST_ENV")
	logger := logging.Setup("stakevestd", env)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "stakevest"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	node, err := core.NewNode(db)
	if err != nil {
		logger.Error("failed to start node", "error", err)
		os.Exit(1)
	}
	node.SetEmitter(core.NewLogEmitter(logger))

	allocs := make([]core.GenesisAlloc, 0, len(cfg.GenesisAlloc))
	for _, entry := range cfg.GenesisAlloc {
		addr, token, native, err := entry.Parse()
		if err != nil {
			logger.Error("invalid genesis allocation", "address", entry.Address, "error", err)
			os.Exit(1)
		}
		allocs = append(allocs, core.GenesisAlloc{Address: addr, TokenBalance: token, NativeBalance: native})
	}
	if err := node.ApplyGenesis(allocs); err != nil {
		logger.Error("failed to apply genesis allocations", "error", err)
		os.Exit(1)
	}

	server := rpc.NewServer(node)
	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.RPCReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.RPCWriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.RPCIdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("rpc server listening", "addr", cfg.ListenAddress, "network", cfg.NetworkName)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("rpc server failed", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("stakevestd stopped")
}
