// Package config loads runtime settings from the environment, with an
// optional YAML file layered on top for the tray network and engine
// defaults.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sceap/internal/routing"
)

type Config struct {
	Addr            string
	DatabaseURL     string
	TokenKey        string
	AppEnv          string
	DefaultStandard string

	Network *routing.Network
}

type fileConfig struct {
	DefaultStandard string `yaml:"default_standard"`
	Routing         struct {
		Edges []struct {
			From   string  `yaml:"from"`
			To     string  `yaml:"to"`
			Length float64 `yaml:"length"`
		} `yaml:"edges"`
		Trays []struct {
			Node     string  `yaml:"node"`
			FillPct  float64 `yaml:"fill_pct"`
			Capacity float64 `yaml:"capacity"`
		} `yaml:"trays"`
	} `yaml:"routing"`
}

// Load reads .env if present, then the environment, then the YAML file
// named by SCEAP_CONFIG (if any).
func Load() (Config, error) {
	godotenv.Load()

	cfg := Config{
		Addr:            getenv("ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		TokenKey:        os.Getenv("TOKEN_KEY"),
		AppEnv:          getenv("APP_ENV", "development"),
		DefaultStandard: getenv("DEFAULT_STANDARD", "iec"),
	}

	path := os.Getenv("SCEAP_CONFIG")
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.DefaultStandard != "" {
		cfg.DefaultStandard = fc.DefaultStandard
	}
	if len(fc.Routing.Edges) > 0 {
		net := routing.NewNetwork()
		for _, e := range fc.Routing.Edges {
			net.AddEdge(e.From, e.To, e.Length)
		}
		for _, t := range fc.Routing.Trays {
			net.SetTray(t.Node, routing.Tray{FillPct: t.FillPct, Capacity: t.Capacity})
		}
		cfg.Network = net
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
