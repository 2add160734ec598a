package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads the server configuration.
// Search order: customPath -> ~/.pacnet/pacnet.yaml -> ./configs/pacnet.yaml
// -> embedded default. PACNET_* environment variables override whichever
// file won; a .env file in the working directory is read first if present.
func Load(customPath string) (Config, error) {
	// Best effort; deployments without a .env file are the common case.
	_ = godotenv.Load()

	cfg, err := loadFile(customPath)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	var cfg Config

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("pacnet.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/pacnet.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse embedded default config: %w", err)
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pacnet", filename)
}

// applyEnv overrides file values with PACNET_* environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Listen, "PACNET_LISTEN")
	setString(&cfg.Server.WebSocketListen, "PACNET_WS_LISTEN")
	setString(&cfg.Server.APIListen, "PACNET_API_LISTEN")
	setString(&cfg.Storage.Driver, "PACNET_STORE")
	setString(&cfg.Storage.Path, "PACNET_DB_PATH")
	setInt(&cfg.Session.TickRate, "PACNET_TICK_RATE")
	setInt(&cfg.Session.DeadTimeoutSecs, "PACNET_DEAD_TIMEOUT_SECS")
	setInt(&cfg.Session.PingIntervalSecs, "PACNET_PING_INTERVAL_SECS")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
