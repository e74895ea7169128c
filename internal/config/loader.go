package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "loanpilot.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "LOANPILOT_PORT")

	setString(&cfg.Stages.Intake.Port, "LOANPILOT_INTAKE_PORT")
	setString(&cfg.Stages.Intake.URL, "LOANPILOT_INTAKE_URL")
	setString(&cfg.Stages.Risk.Port, "LOANPILOT_RISK_PORT")
	setString(&cfg.Stages.Risk.URL, "LOANPILOT_RISK_URL")
	setString(&cfg.Stages.Compliance.Port, "LOANPILOT_COMPLIANCE_PORT")
	setString(&cfg.Stages.Compliance.URL, "LOANPILOT_COMPLIANCE_URL")
	setString(&cfg.Stages.Decision.Port, "LOANPILOT_DECISION_PORT")
	setString(&cfg.Stages.Decision.URL, "LOANPILOT_DECISION_URL")
	setString(&cfg.Stages.Escalation.Port, "LOANPILOT_ESCALATION_PORT")
	setString(&cfg.Stages.Escalation.URL, "LOANPILOT_ESCALATION_URL")

	setDuration(&cfg.Pipeline.StageTimeout, "LOANPILOT_STAGE_TIMEOUT")
	setString(&cfg.Pipeline.ReviewURL, "LOANPILOT_REVIEW_URL")

	setInt(&cfg.Thresholds.AutoApprove, "LOANPILOT_AUTO_APPROVE")
	setInt(&cfg.Thresholds.AutoDecline, "LOANPILOT_AUTO_DECLINE")

	setString(&cfg.Oracle.URL, "LOANPILOT_ORACLE_URL")
	setString(&cfg.Oracle.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Oracle.APIKey, "LOANPILOT_ORACLE_API_KEY")
	setString(&cfg.Oracle.Model, "LOANPILOT_ORACLE_MODEL")
	setDuration(&cfg.Oracle.Timeout, "LOANPILOT_ORACLE_TIMEOUT")

	setString(&cfg.Logging.Level, "LOANPILOT_LOG_LEVEL")
	setString(&cfg.Logging.Service, "LOANPILOT_LOG_SERVICE")

	setInt(&cfg.Breaker.MaxFailures, "LOANPILOT_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Cooldown, "LOANPILOT_BREAKER_COOLDOWN")

	setBool(&cfg.Otel.Enabled, "LOANPILOT_OTEL_ENABLED")
	setString(&cfg.Otel.Endpoint, "LOANPILOT_OTEL_ENDPOINT")
}

// validate checks that required fields are set and the decision bands
// are ordered.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	for _, s := range []struct {
		name  string
		stage Stage
	}{
		{"intake", cfg.Stages.Intake},
		{"risk", cfg.Stages.Risk},
		{"compliance", cfg.Stages.Compliance},
		{"decision", cfg.Stages.Decision},
		{"escalation", cfg.Stages.Escalation},
	} {
		if s.stage.Port == "" {
			return fmt.Errorf("stages.%s.port is required", s.name)
		}
		if s.stage.URL == "" {
			return fmt.Errorf("stages.%s.url is required", s.name)
		}
	}
	if cfg.Thresholds.AutoApprove < 0 || cfg.Thresholds.AutoDecline > 100 {
		return errors.New("thresholds must be within [0, 100]")
	}
	if cfg.Thresholds.AutoApprove >= cfg.Thresholds.AutoDecline {
		return errors.New("thresholds.auto_approve must be below thresholds.auto_decline")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Pipeline.StageTimeout <= 0 {
		return errors.New("pipeline.stage_timeout must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
