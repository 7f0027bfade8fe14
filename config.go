package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const configFilePath = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	Address                  string  `json:"address" mapstructure:"address"`
	LogLevel                 string  `json:"log-level" mapstructure:"log-level"`
	CompletionURL            string  `json:"completion-url" mapstructure:"completion-url"`
	CompletionAPIKey         string  `json:"completion-api-key" mapstructure:"completion-api-key"`
	Model                    string  `json:"model" mapstructure:"model"`
	Temperature              float64 `json:"temperature" mapstructure:"temperature"`
	MaxCompletionTokens      int     `json:"max-completion-tokens" mapstructure:"max-completion-tokens"`
	CompletionTimeoutSeconds int     `json:"completion-timeout-seconds" mapstructure:"completion-timeout-seconds"`
	HistoryWindow            int     `json:"history-window" mapstructure:"history-window"`
}

var requiredFields = []string{
	"address",
	"completion-api-key",
}

// field: default value
var optionalFields = map[string]interface{}{
	"log-level":                  "INFO",
	"completion-url":             "https://api.groq.com/openai/v1",
	"model":                      "llama-3.3-70b-versatile",
	"temperature":                0.2,
	"max-completion-tokens":      900,
	"completion-timeout-seconds": 60,
	"history-window":             12,
}

// InitConfig reads configuration from a JSON file and environment variables.
// Environment variables take precedence over the config file.
func InitConfig() (*Config, error) {
	v := viper.New()

	// Set config file type and name
	v.SetConfigFile(configFilePath)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, field := range requiredFields {
		v.BindEnv(field)
	}
	// The key the original deployment shipped with.
	v.BindEnv("completion-api-key", "COMPLETION_API_KEY", "GROQ_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	for _, field := range requiredFields {
		if !v.IsSet(field) {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	// Set defaults for optional fields if not set
	for optField, defaultValue := range optionalFields {
		if !v.IsSet(optField) {
			v.Set(optField, defaultValue)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}
