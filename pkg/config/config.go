// Package config loads the YAML settings shared by the lexer and the
// runtime.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/squire/pkg/compiler/lexer"
	"github.com/agenthands/squire/pkg/vm"
)

const (
	FrakturVerbatim = "verbatim"
	FrakturASCII    = "ascii"
)

type Config struct {
	Lexer   LexerConfig   `yaml:"lexer"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

type LexerConfig struct {
	// Fraktur is either "verbatim" or "ascii".
	Fraktur               string `yaml:"fraktur"`
	MaxInterpolationDepth int    `yaml:"max_interpolation_depth"`
}

type RuntimeConfig struct {
	Gas       int `yaml:"gas"`
	MaxFrames int `yaml:"max_frames"`
}

func Default() *Config {
	return &Config{
		Lexer: LexerConfig{
			Fraktur:               FrakturVerbatim,
			MaxInterpolationDepth: lexer.DefaultMaxDepth,
		},
		Runtime: RuntimeConfig{
			Gas:       vm.DefaultGas,
			MaxFrames: vm.MaxFrames,
		},
	}
}

// ValidationError aggregates configuration failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document. Fields left out keep their
// defaults, and an empty document yields Default().
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var errs ValidationError
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
		errs.Issues = append(errs.Issues, typeErr.Errors...)
	}

	errs.Issues = append(errs.Issues, cfg.issues()...)
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	if issues := c.issues(); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func (c *Config) issues() []string {
	var issues []string
	switch c.Lexer.Fraktur {
	case FrakturVerbatim, FrakturASCII:
	default:
		issues = append(issues, fmt.Sprintf("lexer.fraktur must be %q or %q, got %q", FrakturVerbatim, FrakturASCII, c.Lexer.Fraktur))
	}
	if c.Lexer.MaxInterpolationDepth < 1 {
		issues = append(issues, fmt.Sprintf("lexer.max_interpolation_depth must be positive, got %d", c.Lexer.MaxInterpolationDepth))
	}
	if c.Runtime.Gas < 1 {
		issues = append(issues, fmt.Sprintf("runtime.gas must be positive, got %d", c.Runtime.Gas))
	}
	if c.Runtime.MaxFrames < 1 {
		issues = append(issues, fmt.Sprintf("runtime.max_frames must be positive, got %d", c.Runtime.MaxFrames))
	}
	return issues
}

// LexerOptions turns the lexer settings into options for lexer.New.
func (c *Config) LexerOptions() []lexer.Option {
	mode := lexer.FrakturVerbatim
	if c.Lexer.Fraktur == FrakturASCII {
		mode = lexer.FrakturASCII
	}
	return []lexer.Option{
		lexer.WithFraktur(mode),
		lexer.WithMaxDepth(c.Lexer.MaxInterpolationDepth),
	}
}

// NewMachine returns a runtime context with the configured limits.
func (c *Config) NewMachine() *vm.Machine {
	return vm.NewMachine(c.Runtime.Gas, c.Runtime.MaxFrames)
}
