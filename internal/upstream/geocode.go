package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/models"
)

// NominatimClient queries the Nominatim geocoding service. Nominatim
// requires an identifying User-Agent and asks high-volume callers to
// supply a contact email; both come from configuration.
type NominatimClient struct {
	core  *Client
	email string
}

// NewNominatimClient creates the client from resolved configuration.
func NewNominatimClient(cfg common.NominatimConfig, logger *common.Logger) *NominatimClient {
	headers := map[string]string{}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	return &NominatimClient{
		core: New("nominatim", Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.GetTimeout(),
			Headers:   headers,
			RateLimit: cfg.RateLimit,
			Retry:     DefaultRetryPolicy(),
		}, logger),
		email: cfg.Email,
	}
}

// Search geocodes a free-text query to up to limit places. A response
// body that is not a JSON array reads as zero matches, not a failure.
func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]models.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))
	if c.email != "" {
		params.Set("email", c.email)
	}

	body, err := c.core.Get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}
	var places []models.Place
	if err := json.Unmarshal(body, &places); err != nil {
		c.core.logger.Warn().
			Str("service", "nominatim").
			Str("path", "/search").
			Msg("unexpected response shape, treating as no matches")
		return []models.Place{}, nil
	}
	return places, nil
}

// Reverse resolves coordinates to the nearest known place. Nominatim
// reports a miss as HTTP 200 with an error field; that and an empty
// result both map to KindNotFound.
func (c *NominatimClient) Reverse(ctx context.Context, latitude, longitude float64) (*models.Place, error) {
	params := url.Values{}
	params.Set("lat", coordString(latitude))
	params.Set("lon", coordString(longitude))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	if c.email != "" {
		params.Set("email", c.email)
	}

	body, err := c.core.Get(ctx, "/reverse", params)
	if err != nil {
		return nil, err
	}
	var place models.Place
	if err := json.Unmarshal(body, &place); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("decode /reverse response: %v", err)}
	}
	if place.Error != "" {
		return nil, &Error{Kind: KindNotFound, Message: place.Error}
	}
	if place.DisplayName == "" {
		return nil, &Error{Kind: KindNotFound, Message: "no place found at the given coordinates"}
	}
	return &place, nil
}

func coordString(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
