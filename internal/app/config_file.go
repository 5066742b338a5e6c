package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Format string `yaml:"format" json:"format"`
	Out    string `yaml:"out" json:"out"`

	Normalize struct {
		CaseFold       bool `yaml:"caseFold" json:"caseFold"`
		StripPunct     bool `yaml:"stripPunct" json:"stripPunct"`
		StripArtifacts bool `yaml:"stripArtifacts" json:"stripArtifacts"`
	} `yaml:"normalize" json:"normalize"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any
// fields that are currently unset in cfg. Flags should already have
// been parsed; this lets file config supply defaults while preserving
// explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.Format == "" || cfg.Format == formatDefault) && fc.Format != "" {
		cfg.Format = fc.Format
	}
	if cfg.OutDir == "" && fc.Out != "" {
		cfg.OutDir = fc.Out
	}
	if !cfg.CaseFold && fc.Normalize.CaseFold {
		cfg.CaseFold = true
	}
	if !cfg.StripPunct && fc.Normalize.StripPunct {
		cfg.StripPunct = true
	}
	if !cfg.StripArtifacts && fc.Normalize.StripArtifacts {
		cfg.StripArtifacts = true
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

const formatDefault = "csv"

// ValidateConfig performs minimal schema validation for required
// settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Dir) == "" {
		return errors.New("config: target directory is required")
	}
	switch cfg.Format {
	case "", "csv", "markdown", "json", "all":
	default:
		return fmt.Errorf("config: unknown format %q (want csv, markdown, json or all)", cfg.Format)
	}
	if cfg.LLMModel == "" && cfg.LLMBaseURL != "" {
		return errors.New("config: llm.base set without llm.model")
	}
	return nil
}
