package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sideworld/internal/config"
)

// writeConfigFromEnv materialises a configuration pushed through the
// environment at cfgPath, in the encoding its extension names. It reports
// whether anything was written.
func writeConfigFromEnv(cfgPath string) (bool, error) {
	jsonPayload := os.Getenv("SIDEWORLD_CONFIG_JSON")
	yamlPayload := os.Getenv("SIDEWORLD_CONFIG_YAML_B64")

	if jsonPayload == "" && yamlPayload == "" {
		return false, nil
	}
	if cfgPath == "" {
		return false, errors.New("environment provided configuration but no -config path supplied")
	}

	var (
		cfg *config.Config
		err error
	)
	if jsonPayload != "" {
		cfg, err = config.Parse([]byte(jsonPayload), config.FormatJSON)
		if err != nil {
			return false, fmt.Errorf("decode env config json: %w", err)
		}
	} else {
		data, decodeErr := base64.StdEncoding.DecodeString(yamlPayload)
		if decodeErr != nil {
			return false, fmt.Errorf("decode env config yaml: %w", decodeErr)
		}
		cfg, err = config.Parse(data, config.FormatYAML)
		if err != nil {
			return false, fmt.Errorf("parse env config yaml: %w", err)
		}
	}

	dir := filepath.Dir(cfgPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := config.Encode(cfg, config.FormatFor(cfgPath))
	if err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}
