// Package config loads typed CRF model definitions.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/happyhackingspace/typedcrf/crf"
)

// EnvPrefix prefixes environment variables that override file settings,
// e.g. TYPEDCRF_PAIRWISE_ORDER.
const EnvPrefix = "TYPEDCRF"

// Config is a model definition.
type Config struct {
	Types []TypeConfig `mapstructure:"types"`

	// EdgeFeatures[i][j] is the number of features of edges from type i to type j.
	EdgeFeatures [][]int `mapstructure:"edge_features"`

	// PairwiseOrder is "features-by-states" (default) or "states-by-features".
	PairwiseOrder string `mapstructure:"pairwise_order"`
}

// TypeConfig describes one node type.
type TypeConfig struct {
	Name     string `mapstructure:"name"`
	States   int    `mapstructure:"states"`
	Features int    `mapstructure:"features"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("pairwise_order", crf.FeaturesByStates.String())
	return v
}

// Load reads a model definition file. The format follows the file extension
// (yaml, json, toml, ...).
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read model config: %w", err)
	}
	return decode(v)
}

// Parse reads a model definition of the given format from r.
func Parse(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read model config: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode model config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the parts of the definition that the layout does not.
func (c *Config) Validate() error {
	if len(c.Types) == 0 {
		return fmt.Errorf("model config declares no node types: %w", crf.ErrConfig)
	}
	seen := make(map[string]bool, len(c.Types))
	for i, t := range c.Types {
		if t.Name == "" {
			continue
		}
		if seen[t.Name] {
			return fmt.Errorf("type %d: duplicate type name %q: %w", i, t.Name, crf.ErrConfig)
		}
		seen[t.Name] = true
	}
	if _, err := crf.ParsePairwiseOrder(c.PairwiseOrder); err != nil {
		return err
	}
	return nil
}

// Model builds the crf.Model described by c.
func (c *Config) Model() (*crf.Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	order, err := crf.ParsePairwiseOrder(c.PairwiseOrder)
	if err != nil {
		return nil, err
	}
	types := make([]crf.NodeType, len(c.Types))
	for i, t := range c.Types {
		types[i] = crf.NodeType{Name: t.Name, States: t.States, Features: t.Features}
	}
	return crf.NewModel(types, c.EdgeFeatures, crf.WithPairwiseOrder(order))
}
