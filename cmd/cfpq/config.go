package main

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/reach"
)

// Config carries defaults for flags that were not set on the command line.
//
//	algorithm: matrix
//	start: [0, 1]
//	final: [3]
//	nonterminal: S
//	verbose: true
type Config struct {
	Algorithm   string   `yaml:"algorithm"`
	Start       []string `yaml:"start"`
	Final       []string `yaml:"final"`
	Nonterminal string   `yaml:"nonterminal"`
	Verbose     bool     `yaml:"verbose"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %q", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %q", path)
	}

	if cfg.Algorithm != "" {
		if _, err := reach.ParseAlgorithm(cfg.Algorithm); err != nil {
			return Config{}, errors.Wrapf(err, "config %q", path)
		}
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return log, nil
}
