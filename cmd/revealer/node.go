package main

import (
	"crypto/tls"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"HashRevealer/hash"
	"HashRevealer/internal/api"
	"HashRevealer/internal/config"
	"HashRevealer/internal/coordinator"
	"HashRevealer/internal/errors"
	"HashRevealer/internal/logger"
	"HashRevealer/internal/metrics"
	"HashRevealer/internal/storage"
	"HashRevealer/internal/store"
)

// Node is a running coordinator.
type Node struct {
	cfg     *config.Config
	storage *storage.Storage // storage is nil for the memory backend
	store   store.Store
	api     *api.Server
}

// NewNode creates and initializes a node from cfg.
func NewNode(cfg *config.Config) (*Node, error) {
	n := &Node{cfg: cfg}

	if err := n.initStore(); err != nil {
		n.Close()
		return nil, err
	}

	if err := n.initAPI(); err != nil {
		n.Close()
		return nil, err
	}

	return n, nil
}

// initStore opens the configured hash store backend.
func (n *Node) initStore() error {
	opts := store.Options{
		SweepInterval:     n.cfg.Store.SweepInterval,
		CompressThreshold: n.cfg.Store.CompressThreshold,
	}

	if n.cfg.Store.Backend == config.BackendMemory {
		n.store = store.NewMemory(opts)
		return nil
	}

	if err := n.initStorage(); err != nil {
		return err
	}

	st, err := store.NewDurable(n.storage, opts)
	if err != nil {
		return errors.Wrap(err, "init durable store")
	}

	n.store = st

	return nil
}

// initStorage initializes the Pebble storage.
func (n *Node) initStorage() error {
	if err := os.MkdirAll(n.cfg.Store.Path, 0755); err != nil {
		return errors.Wrap(err, "create data directory")
	}

	db, err := storage.New(filepath.Join(n.cfg.Store.Path, "db"))
	if err != nil {
		return errors.Wrap(err, "init storage")
	}

	n.storage = db

	return nil
}

// initAPI creates one coordinator per registered algorithm and the server
// routing to them.
func (n *Node) initAPI() error {
	metrics.Register()

	var services []*coordinator.Service
	for _, name := range hash.Algorithms() {
		alg, _ := hash.Lookup(name)

		services = append(services, coordinator.New(n.store,
			coordinator.WithAlgorithm(alg),
			coordinator.WithTTL(n.cfg.Store.TTL),
			coordinator.WithWaitTimeout(n.cfg.Coordinator.WaitTimeout),
			coordinator.WithRecorder(metrics.Prometheus{}),
		))
	}

	tlsConfig, err := n.tlsConfig()
	if err != nil {
		return err
	}

	n.api = api.New(api.Config{
		Address:     n.cfg.HTTP.Address,
		H3Address:   n.cfg.HTTP3.Address,
		TLSConfig:   tlsConfig,
		DocsURL:     n.cfg.DocsURL,
		ReadTimeout: n.cfg.HTTP.ReadTimeout,
		WaitTimeout: n.cfg.Coordinator.WaitTimeout,
	}, services...)

	return nil
}

// tlsConfig loads the HTTP/3 certificate, generating a self-signed one
// when none is configured. Returns nil when HTTP/3 is disabled.
func (n *Node) tlsConfig() (*tls.Config, error) {
	h3 := n.cfg.HTTP3
	if h3.Address == "" {
		return nil, nil
	}

	if h3.CertFile != "" {
		return api.LoadTLS(h3.CertFile, h3.KeyFile)
	}

	logger.Warn("no http3 certificate configured, using a self-signed one")

	return api.SelfSignedTLS("localhost", "127.0.0.1", "::1")
}

// Run starts serving and blocks until shutdown.
func (n *Node) Run() error {
	if err := n.api.Start(); err != nil {
		n.Close()
		return errors.Wrap(err, "start api")
	}

	return n.waitForShutdown()
}

// waitForShutdown blocks until SIGINT or SIGTERM is received.
func (n *Node) waitForShutdown() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	return n.Close()
}

// Close shuts down all node components. The API stops first so no request
// observes a closed store.
func (n *Node) Close() error {
	if n.api != nil {
		n.api.Stop()
	}

	if n.store != nil {
		n.store.Close()
	}

	if n.storage != nil {
		return n.storage.Close()
	}

	return nil
}
