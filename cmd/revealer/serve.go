package main

import (
	"github.com/spf13/cobra"

	"HashRevealer/internal/config"
	"HashRevealer/internal/errors"
	"HashRevealer/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coordinator node",
	Long: `Run the coordinator node until SIGINT or SIGTERM.

Settings come from defaults, then --config, then REVEALER_* variables,
then flags. store.path becomes REVEALER_STORE_PATH.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var configPathFlag string

func init() {
	serveCmd.Flags().StringVar(&configPathFlag, "config", "", "TOML configuration file")
	serveCmd.Flags().String("http", "", "HTTP listen address (http.address)")
	serveCmd.Flags().String("http3", "", "HTTP/3 UDP listen address (http3.address)")
	serveCmd.Flags().String("store", "", "store backend: memory or pebble (store.backend)")
	serveCmd.Flags().String("data", "", "pebble data directory (store.path)")
	serveCmd.Flags().Duration("wait-timeout", 0, "bound on a commit's wait; 0 waits indefinitely (coordinator.wait_timeout)")
	serveCmd.Flags().String("log-level", "", "debug, info, warn or error (log.level)")
}

// flagKeys maps serve flags onto configuration keys.
var flagKeys = map[string]string{
	"http":         "http.address",
	"http3":        "http3.address",
	"store":        "store.backend",
	"data":         "store.path",
	"wait-timeout": "coordinator.wait_timeout",
	"log-level":    "log.level",
}

func runServe(cmd *cobra.Command, args []string) error {
	v := config.New()

	if configPathFlag != "" {
		v.SetConfigFile(configPathFlag)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", configPathFlag)
		}
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "bind --%s", name)
			}
		}
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	logger.Init(level)

	node, err := NewNode(cfg)
	if err != nil {
		return errors.Wrap(err, "create node")
	}

	logger.Info("starting revealer node",
		"http", cfg.HTTP.Address,
		"http3", cfg.HTTP3.Address,
		"store", cfg.Store.Backend,
		"ttl", cfg.Store.TTL,
		"wait_timeout", cfg.Coordinator.WaitTimeout,
	)

	return node.Run()
}
