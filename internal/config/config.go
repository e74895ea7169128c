// Package config provides hierarchical configuration loading for
// LoanPilot. Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the LoanPilot services.
type Config struct {
	Server     Server     `yaml:"server"`
	Stages     Stages     `yaml:"stages"`
	Pipeline   Pipeline   `yaml:"pipeline"`
	Thresholds Thresholds `yaml:"thresholds"`
	Oracle     Oracle     `yaml:"oracle"`
	Logging    Logging    `yaml:"logging"`
	Breaker    Breaker    `yaml:"breaker"`
	Otel       Otel       `yaml:"otel"`
}

// Server holds the orchestrator's HTTP configuration: the submission
// API and health endpoint.
type Server struct {
	Port string `yaml:"port"`
}

// Stage holds the address of one pipeline stage: the port its server
// binds and the URL other processes reach it at.
type Stage struct {
	Port string `yaml:"port"`
	URL  string `yaml:"url"`
}

// Stages holds the addresses of all five pipeline stages.
type Stages struct {
	Intake     Stage `yaml:"intake"`
	Risk       Stage `yaml:"risk"`
	Compliance Stage `yaml:"compliance"`
	Decision   Stage `yaml:"decision"`
	Escalation Stage `yaml:"escalation"`
}

// Pipeline holds orchestrator behavior settings. ReviewURL is where
// completed records are published; it normally points at the escalation
// service, which hosts the review API.
type Pipeline struct {
	StageTimeout time.Duration `yaml:"stage_timeout"`
	ReviewURL    string        `yaml:"review_url"`
}

// Thresholds holds the decision bands. Scores at or below AutoApprove
// approve automatically; at or above AutoDecline decline automatically;
// anything between escalates.
type Thresholds struct {
	AutoApprove int `yaml:"auto_approve"`
	AutoDecline int `yaml:"auto_decline"`
}

// Oracle holds the reasoning-model endpoint configuration.
type Oracle struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Breaker holds circuit breaker settings for oracle calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

// Otel holds telemetry export settings. Disabled by default.
type Otel struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns the built-in configuration: all services on
// localhost, decision bands 40/80, telemetry off.
func Defaults() Config {
	return Config{
		Server: Server{Port: "10100"},
		Stages: Stages{
			Intake:     Stage{Port: "10101", URL: "http://localhost:10101"},
			Risk:       Stage{Port: "10102", URL: "http://localhost:10102"},
			Compliance: Stage{Port: "10103", URL: "http://localhost:10103"},
			Decision:   Stage{Port: "10104", URL: "http://localhost:10104"},
			Escalation: Stage{Port: "10105", URL: "http://localhost:10105"},
		},
		Pipeline: Pipeline{
			StageTimeout: 90 * time.Second,
			ReviewURL:    "http://localhost:10105",
		},
		Thresholds: Thresholds{AutoApprove: 40, AutoDecline: 80},
		Oracle: Oracle{
			URL:     "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Logging: Logging{Level: "info", Service: "loanpilot"},
		Breaker: Breaker{MaxFailures: 3, Cooldown: 30 * time.Second},
		Otel:    Otel{},
	}
}
