package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/models"
)

// OpenWeatherClient queries the OpenWeather current-conditions API.
// Without a configured key every call fails as KindAuth before any
// network I/O, which lets callers fall straight back to Open-Meteo.
type OpenWeatherClient struct {
	core *Client
	key  string
}

// NewOpenWeatherClient creates the client from resolved configuration.
func NewOpenWeatherClient(cfg common.OpenWeatherConfig, logger *common.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		core: New("openweather", Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.GetTimeout(),
			RateLimit: cfg.RateLimit,
			Retry:     DefaultRetryPolicy(),
		}, logger),
		key: cfg.APIKey,
	}
}

// Current fetches current conditions. The units value passes through
// unchanged; OpenWeather understands metric and imperial directly.
func (c *OpenWeatherClient) Current(ctx context.Context, latitude, longitude float64, units, language string) (*models.CurrentWeather, error) {
	if c.key == "" {
		return nil, &Error{Kind: KindAuth, Message: "OpenWeather API key is not configured"}
	}
	params := url.Values{}
	params.Set("lat", coordString(latitude))
	params.Set("lon", coordString(longitude))
	params.Set("appid", c.key)
	params.Set("units", units)
	if language != "" {
		params.Set("lang", language)
	}

	body, err := c.core.Get(ctx, "/weather", params)
	if err != nil {
		return nil, err
	}
	var current models.CurrentWeather
	if err := json.Unmarshal(body, &current); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("decode /weather response: %v", err)}
	}
	return &current, nil
}

// forecastFields are the current-condition variables requested from
// Open-Meteo.
var forecastFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"wind_speed_10m",
	"wind_direction_10m",
	"weather_code",
}

// OpenMeteoClient queries the keyless Open-Meteo forecast API, used as
// the weather fallback. Calls are not retried; a fallback that stalls
// through a retry schedule defeats its purpose.
type OpenMeteoClient struct {
	core *Client
}

// NewOpenMeteoClient creates the client from resolved configuration.
func NewOpenMeteoClient(cfg common.OpenMeteoConfig, logger *common.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		core: New("openmeteo", Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.GetTimeout(),
			RateLimit: cfg.RateLimit,
		}, logger),
	}
}

// Forecast fetches current conditions. Open-Meteo defaults to Celsius
// and km/h; imperial requests switch to Fahrenheit and mph.
func (c *OpenMeteoClient) Forecast(ctx context.Context, latitude, longitude float64, units string) (*models.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", coordString(latitude))
	params.Set("longitude", coordString(longitude))
	params.Set("current", strings.Join(forecastFields, ","))
	if units == "imperial" {
		params.Set("temperature_unit", "fahrenheit")
		params.Set("wind_speed_unit", "mph")
	}

	body, err := c.core.Get(ctx, "/forecast", params)
	if err != nil {
		return nil, err
	}
	var forecast models.Forecast
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("decode /forecast response: %v", err)}
	}
	return &forecast, nil
}
