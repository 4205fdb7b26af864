package main

import (
	"fmt"

	"github.com/openobs/focusd/internal/client"
	"github.com/openobs/focusd/internal/config"
)

// loadConfig resolves and loads the instance config, honoring an explicit
// --config path over directory discovery.
func loadConfig(g *globals) (*config.Config, error) {
	cfg, err := config.Resolve(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func instancePaths(cfg *config.Config) (*config.Paths, error) {
	paths, err := config.GetPaths(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	return paths, nil
}

// newClient builds a daemon client for the configured instance.
func newClient(g *globals) (*client.Client, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	paths, err := instancePaths(cfg)
	if err != nil {
		return nil, err
	}
	return client.New(paths.Socket, cfg.RequestTimeout()), nil
}
