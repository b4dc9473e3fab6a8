// Package config manages server configuration with TOML files and env overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/parks-mcp/internal/common"
)

// Config holds all parks-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Clients ClientsConfig        `toml:"clients"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// ClientsConfig holds upstream API client configurations.
type ClientsConfig struct {
	NPS         common.NPSConfig         `toml:"nps"`
	Nominatim   common.NominatimConfig   `toml:"nominatim"`
	OpenWeather common.OpenWeatherConfig `toml:"openweather"`
	OpenMeteo   common.OpenMeteoConfig   `toml:"openmeteo"`
	AirVisual   common.AirVisualConfig   `toml:"airvisual"`
}

// NewDefaultConfig returns a Config with sensible defaults.
// Rate limits default to 0 (advisory limiter disabled); Nominatim's usage
// policy asks for at most 1 req/s, so set clients.nominatim.rate_limit = 1
// when running against the public instance.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Parks-MCP",
			Port: "4280",
		},
		Clients: ClientsConfig{
			NPS: common.NPSConfig{
				BaseURL: "https://developer.nps.gov/api/v1",
				Timeout: "20s",
			},
			Nominatim: common.NominatimConfig{
				BaseURL:   "https://nominatim.openstreetmap.org",
				UserAgent: "NationalParksMCP/1.0 (contact@example.com)",
				Timeout:   "20s",
			},
			OpenWeather: common.OpenWeatherConfig{
				BaseURL: "https://api.openweathermap.org/data/2.5",
				Timeout: "20s",
			},
			OpenMeteo: common.OpenMeteoConfig{
				BaseURL: "https://api.open-meteo.com/v1",
				Timeout: "20s",
			},
			AirVisual: common.AirVisualConfig{
				BaseURL: "https://api.airvisual.com/v2",
				Timeout: "20s",
			},
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/parks-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Names match the upstream service conventions (NPS_API_KEY etc.) rather
// than a single app prefix, so existing deployments carry over unchanged.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("NPS_API_KEY"); key != "" {
		config.Clients.NPS.APIKey = key
	}
	if url := os.Getenv("NPS_API_BASE_URL"); url != "" {
		config.Clients.NPS.BaseURL = url
	}
	if ua := os.Getenv("NOMINATIM_USER_AGENT"); ua != "" {
		config.Clients.Nominatim.UserAgent = ua
	}
	if url := os.Getenv("NOMINATIM_BASE_URL"); url != "" {
		config.Clients.Nominatim.BaseURL = url
	}
	if email := os.Getenv("NOMINATIM_CONTACT_EMAIL"); email != "" {
		config.Clients.Nominatim.Email = email
	} else if email := os.Getenv("NOMINATIM_EMAIL"); email != "" {
		config.Clients.Nominatim.Email = email
	}
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		config.Clients.OpenWeather.APIKey = key
	}
	if url := os.Getenv("OPENWEATHER_BASE_URL"); url != "" {
		config.Clients.OpenWeather.BaseURL = url
	}
	if url := os.Getenv("OPENMETEO_BASE_URL"); url != "" {
		config.Clients.OpenMeteo.BaseURL = url
	}
	if key := os.Getenv("AIRVISUAL_API_KEY"); key != "" {
		config.Clients.AirVisual.APIKey = key
	}
	if url := os.Getenv("AIRVISUAL_BASE_URL"); url != "" {
		config.Clients.AirVisual.BaseURL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if name := os.Getenv("SERVER_NAME"); name != "" {
		config.Server.Name = name
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = os.Getenv("PARKS_MCP_PORT")
	}
	if port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			config.Server.Port = port
		}
	}
}

// CredentialWarnings reports upstream credentials that are not configured.
// A missing key is a startup warning, never a fatal error: keyless NPS
// requests still go out (and may be throttled upstream), and the weather
// and air quality tools surface an auth error or fall back per call.
func (c *Config) CredentialWarnings() []string {
	var warnings []string
	if c.Clients.NPS.APIKey == "" {
		warnings = append(warnings, "NPS_API_KEY not set — park queries run without a key and may be throttled")
	}
	if c.Clients.OpenWeather.APIKey == "" {
		warnings = append(warnings, "OPENWEATHER_API_KEY not set — getWeather will fall back to Open-Meteo")
	}
	if c.Clients.AirVisual.APIKey == "" {
		warnings = append(warnings, "AIRVISUAL_API_KEY not set — getAirQuality is unavailable")
	}
	return warnings
}
