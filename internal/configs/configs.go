/*
Package configs is responsible for loading the application's configuration.

Server parameters come from environment variables (running environment,
port, CORS allowed origins). The optional server list shown on the login
page is read from a JSON file, with a built-in local default.
*/
package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required to run the server.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// ServersFile is the path of the JSON file listing selectable chat
	// servers on the login page. Empty means use the built-in default.
	ServersFile string
}

// ServerEntry describes one selectable chat server on the login page.
type ServerEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying defaults and validating values.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// ServersFile
	cfg.ServersFile = os.Getenv("SERVERS_FILE")

	return cfg, nil
}

// DefaultServers is the server list used when no servers file is configured
// or the configured file cannot be read.
func DefaultServers() []ServerEntry {
	return []ServerEntry{{Name: "本地服务器", URL: "http://localhost:8080"}}
}

// LoadServers reads the login page server list from the given JSON file.
// A missing or unreadable file falls back to DefaultServers; the caller
// gets a usable list either way.
func LoadServers(path string) ([]ServerEntry, error) {
	if path == "" {
		return DefaultServers(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultServers(), fmt.Errorf("failed to read servers file %q: %w", path, err)
	}

	var parsed struct {
		Servers []ServerEntry `json:"servers"`
	}

	if err := json.Unmarshal(data, &parsed); err != nil {
		return DefaultServers(), fmt.Errorf("failed to parse servers file %q: %w", path, err)
	}

	if len(parsed.Servers) == 0 {
		return DefaultServers(), nil
	}

	return parsed.Servers, nil
}
