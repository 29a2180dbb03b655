package mnemos

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/drift"
)

// Config is a serialisable representation of the pipeline configuration. It
// can be populated from JSON or YAML. The zero-value is useful – all nested
// fields inherit their package defaults.
type Config struct {
	Vault     VaultConfig     `json:"vault" yaml:"vault"`
	Consent   ConsentConfig   `json:"consent" yaml:"consent"`
	Drift     drift.Config    `json:"drift" yaml:"drift"`
	Audit     AuditConfig     `json:"audit" yaml:"audit"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing"`
}

type VaultConfig struct {
	// ExtraTones extends the closed tone vocabulary for this instance.
	ExtraTones []string `json:"extraTones,omitempty" yaml:"extraTones,omitempty"`
}

type ConsentConfig struct {
	Mode string `json:"mode" yaml:"mode"`
	// TimeoutSeconds is the default decision window for AwaitDecision.
	TimeoutSeconds int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// Timeout returns the configured decision window as a duration.
func (c ConsentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type AuditConfig struct {
	// BasePath selects the filesystem-backed ledger when set; empty keeps
	// the ledger in memory. Any viant/afs URL scheme works (file, mem, s3).
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
}

type GeneratorConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"` // openai | anthropic
	APIKey    string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
}

type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the same defaults the
// constructors previously hard-coded: manual consent with a 30s window and
// an in-memory ledger.
func DefaultConfig() *Config {
	return &Config{
		Consent: ConsentConfig{
			Mode:           string(policy.ModeManual),
			TimeoutSeconds: 30,
		},
		Drift: drift.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Consent.Mode != "" {
		if _, err := policy.Parse(c.Consent.Mode); err != nil {
			return err
		}
	}
	if c.Consent.TimeoutSeconds < 0 {
		return fmt.Errorf("consent.timeoutSeconds must be >= 0")
	}
	if c.Drift.Blend < 0 || c.Drift.Blend > 1 {
		return fmt.Errorf("drift.blend must be in [0,1]")
	}
	switch c.Generator.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("generator.provider %q is not supported", c.Generator.Provider)
	}
	return nil
}

// LoadConfig reads a YAML configuration file and applies defaults for
// omitted fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
