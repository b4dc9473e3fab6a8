package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/models"
)

// AirVisualClient queries the AirVisual air quality API. The key is
// required; without one every call fails as KindAuth before any network
// I/O.
type AirVisualClient struct {
	core *Client
	key  string
}

// NewAirVisualClient creates the client from resolved configuration.
func NewAirVisualClient(cfg common.AirVisualConfig, logger *common.Logger) *AirVisualClient {
	return &AirVisualClient{
		core: New("airvisual", Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.GetTimeout(),
			RateLimit: cfg.RateLimit,
			Retry:     DefaultRetryPolicy(),
		}, logger),
		key: cfg.APIKey,
	}
}

// NearestCity fetches pollution and weather readings for the monitoring
// station nearest the coordinates. AirVisual reports failures as HTTP
// 200 with status "fail"; those surface as upstream failures carrying
// the service's message.
func (c *AirVisualClient) NearestCity(ctx context.Context, latitude, longitude float64) (*models.AirQuality, error) {
	if c.key == "" {
		return nil, &Error{Kind: KindAuth, Message: "AirVisual API key is not configured"}
	}
	params := url.Values{}
	params.Set("lat", coordString(latitude))
	params.Set("lon", coordString(longitude))
	params.Set("key", c.key)

	body, err := c.core.Get(ctx, "/nearest_city", params)
	if err != nil {
		return nil, err
	}
	var quality models.AirQuality
	if err := json.Unmarshal(body, &quality); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("decode /nearest_city response: %v", err)}
	}
	if quality.Status != "success" {
		message := quality.Data.Message
		if message == "" {
			message = fmt.Sprintf("AirVisual returned status %q", quality.Status)
		}
		return nil, &Error{Kind: KindUpstreamUnavailable, Message: message}
	}
	return &quality, nil
}
