package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/models"
)

// NPSClient queries the National Park Service data API. The API key
// travels in the X-Api-Key header on every request; a missing key is
// tolerated at construction and surfaces as an auth failure only when
// the service rejects a call.
type NPSClient struct {
	core *Client
}

// NewNPSClient creates the client from resolved configuration.
func NewNPSClient(cfg common.NPSConfig, logger *common.Logger) *NPSClient {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["X-Api-Key"] = cfg.APIKey
	}
	return &NPSClient{
		core: New("nps", Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.GetTimeout(),
			Headers:   headers,
			RateLimit: cfg.RateLimit,
			Retry:     DefaultRetryPolicy(),
		}, logger),
	}
}

func (c *NPSClient) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.core.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("decode %s response: %v", path, err)}
	}
	return nil
}

// Parks lists parks matching the given query parameters.
func (c *NPSClient) Parks(ctx context.Context, query url.Values) (*models.ParkList, error) {
	var list models.ParkList
	if err := c.get(ctx, "/parks", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Alerts lists active alerts matching the given query parameters.
func (c *NPSClient) Alerts(ctx context.Context, query url.Values) (*models.AlertList, error) {
	var list models.AlertList
	if err := c.get(ctx, "/alerts", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// VisitorCenters lists visitor centers matching the given query parameters.
func (c *NPSClient) VisitorCenters(ctx context.Context, query url.Values) (*models.VisitorCenterList, error) {
	var list models.VisitorCenterList
	if err := c.get(ctx, "/visitorcenters", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Campgrounds lists campgrounds matching the given query parameters.
func (c *NPSClient) Campgrounds(ctx context.Context, query url.Values) (*models.CampgroundList, error) {
	var list models.CampgroundList
	if err := c.get(ctx, "/campgrounds", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Events lists events matching the given query parameters.
func (c *NPSClient) Events(ctx context.Context, query url.Values) (*models.EventList, error) {
	var list models.EventList
	if err := c.get(ctx, "/events", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
