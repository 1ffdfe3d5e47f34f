package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coinbase/mpc-touchpoint-go/pkg/attribution"
	"github.com/coinbase/mpc-touchpoint-go/pkg/logging"
)

// Triple sources accepted in RunConfig.Triples.
const (
	triplesOT     = "ot"
	triplesDealer = "dealer"
)

// TouchpointConfig is one plaintext touchpoint of a party's input.
type TouchpointConfig struct {
	ID    int64 `yaml:"id"`
	Click bool  `yaml:"click"`
	TS    int64 `yaml:"ts"`
}

// PartyConfig names one party and lists the touchpoints it contributes.
type PartyConfig struct {
	Name        string             `yaml:"name"`
	Touchpoints []TouchpointConfig `yaml:"touchpoints"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RunConfig describes one in-process sorting run. Triples is "ot" (the
// default) or "dealer"; the dealer source is insecure and meant for demos.
type RunConfig struct {
	Parties []PartyConfig `yaml:"parties"`
	Log     LogConfig     `yaml:"log"`
	Triples string        `yaml:"triples"`
	Timeout time.Duration `yaml:"timeout"`
}

func (p PartyConfig) touchpoints() []attribution.Touchpoint {
	out := make([]attribution.Touchpoint, len(p.Touchpoints))
	for i, tp := range p.Touchpoints {
		out[i] = attribution.NewTouchpoint(tp.ID, tp.Click, tp.TS)
	}
	return out
}

func (c *RunConfig) names() [2]string {
	return [2]string{c.Parties[0].Name, c.Parties[1].Name}
}

// LoadConfig reads, defaults and validates a YAML run file.
func LoadConfig(path string) (*RunConfig, error) {
	absPath, err := SecurePath(path)
	if err != nil {
		return nil, fmt.Errorf("secure path: %w", err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by SecurePath
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	cfg.setDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *RunConfig) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Triples == "" {
		c.Triples = triplesOT
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Minute
	}
}

// SecurePath validates that a file path doesn't escape the working directory.
func SecurePath(path string) (string, error) {
	clean := filepath.Clean(path)
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return absPath, nil
}

// ValidateConfig performs sanity checks on a RunConfig. It expects defaults
// to be applied already.
func ValidateConfig(cfg *RunConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if len(cfg.Parties) != 2 {
		return fmt.Errorf("run needs exactly two parties, got %d", len(cfg.Parties))
	}
	for i, p := range cfg.Parties {
		if p.Name == "" {
			return fmt.Errorf("party[%d]: empty name", i)
		}
	}
	if cfg.Parties[0].Name == cfg.Parties[1].Name {
		return fmt.Errorf("duplicate party name %q", cfg.Parties[0].Name)
	}

	seenIDs := make(map[int64]string)
	for _, p := range cfg.Parties {
		for _, tp := range p.Touchpoints {
			if tp.ID == attribution.InvalidTouchpointID {
				return fmt.Errorf("party[%s]: touchpoint id %d is reserved", p.Name, tp.ID)
			}
			if owner, ok := seenIDs[tp.ID]; ok {
				return fmt.Errorf("party[%s]: touchpoint id %d already used by %s", p.Name, tp.ID, owner)
			}
			seenIDs[tp.ID] = p.Name
		}
	}

	if _, err := logging.NewHandler(io.Discard, cfg.Log.Format, cfg.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch cfg.Triples {
	case triplesOT, triplesDealer:
	default:
		return fmt.Errorf("triples: unknown source %q", cfg.Triples)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout: negative duration %s", cfg.Timeout)
	}
	return nil
}
