package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/config"
	"github.com/bobmcallan/parks-mcp/internal/models"
	"github.com/bobmcallan/parks-mcp/internal/schema"
	"github.com/bobmcallan/parks-mcp/internal/upstream"
)

const (
	defaultLimit        = 10
	geocodeDefaultLimit = 5
)

// Services groups the shared clients and the compiled argument schemas.
// Constructed once at startup and injected into every handler; all fields
// are safe for concurrent tool calls.
type Services struct {
	NPS      *upstream.NPSClient
	Geocoder *upstream.NominatimClient
	Weather  *upstream.OpenWeatherClient
	Meteo    *upstream.OpenMeteoClient
	Air      *upstream.AirVisualClient
	Schemas  *schema.Set
	Logger   *common.Logger
}

func newServices(cfg *config.Config, logger *common.Logger) *Services {
	return &Services{
		NPS:      upstream.NewNPSClient(cfg.Clients.NPS, logger),
		Geocoder: upstream.NewNominatimClient(cfg.Clients.Nominatim, logger),
		Weather:  upstream.NewOpenWeatherClient(cfg.Clients.OpenWeather, logger),
		Meteo:    upstream.NewOpenMeteoClient(cfg.Clients.OpenMeteo, logger),
		Air:      upstream.NewAirVisualClient(cfg.Clients.AirVisual, logger),
		Schemas:  schema.MustCompile(),
		Logger:   logger,
	}
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func jsonResult(payload any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return envelopeResult("internal", "an internal error occurred", nil)
	}
	return textResult(string(data))
}

// errorEnvelope is the normalized failure payload. Error is one of:
// validation, bad_request, auth, rate_limited, not_found,
// upstream_unavailable, not_found_tool, internal.
type errorEnvelope struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func envelopeResult(kind, message string, details map[string]any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(errorEnvelope{Error: kind, Message: message, Details: details}, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(data)),
		},
		IsError: true,
	}
}

func validationResult(violations []schema.Violation) *mcp.CallToolResult {
	return envelopeResult("validation", "invalid arguments", map[string]any{"violations": violations})
}

// envelopeKind maps an upstream failure kind onto the envelope taxonomy.
// Network-level failures surface as upstream_unavailable; unclassified
// failures as internal.
func envelopeKind(kind upstream.Kind) string {
	switch kind {
	case upstream.KindAuth:
		return "auth"
	case upstream.KindRateLimited:
		return "rate_limited"
	case upstream.KindNotFound:
		return "not_found"
	case upstream.KindBadRequest:
		return "bad_request"
	case upstream.KindUpstreamUnavailable, upstream.KindNetwork:
		return "upstream_unavailable"
	default:
		return "internal"
	}
}

// apiErrorResult converts a typed upstream failure into its envelope,
// carrying through the status code and retry-after hint plus any extra
// details. Internal failures get a generic message; the cause is logged,
// never surfaced.
func apiErrorResult(logger *common.Logger, tool string, err error, extra map[string]any) *mcp.CallToolResult {
	apiErr := upstream.Classify(err)
	kind := envelopeKind(apiErr.Kind)

	if kind == "internal" {
		logger.Error().Err(apiErr).Str("tool", tool).Msg("internal failure")
		return envelopeResult("internal", "an internal error occurred", nil)
	}

	details := map[string]any{}
	for key, value := range extra {
		details[key] = value
	}
	if apiErr.StatusCode > 0 {
		details["statusCode"] = apiErr.StatusCode
	}
	if apiErr.RetryAfter > 0 {
		details["retryAfter"] = apiErr.RetryAfter
	}
	if len(details) == 0 {
		details = nil
	}
	return envelopeResult(kind, apiErr.Message, details)
}

// collectionQuery builds the query shared by the collection endpoints:
// optional park code and free-text filters, the limit default, and start
// only when the caller provided it.
func collectionQuery(request mcp.CallToolRequest) (url.Values, int) {
	limit := request.GetInt("limit", defaultLimit)
	query := url.Values{}
	if parkCode := request.GetString("park_code", ""); parkCode != "" {
		query.Set("parkCode", strings.ToLower(parkCode))
	}
	if q := request.GetString("query", ""); q != "" {
		query.Set("q", q)
	}
	query.Set("limit", strconv.Itoa(limit))
	if start := request.GetInt("start", -1); start >= 0 {
		query.Set("start", strconv.Itoa(start))
	}
	return query, limit
}

// fetchPark retrieves a single park record by code. An upstream 200 with
// no matching record reads as not found.
func fetchPark(ctx context.Context, s *Services, parkCode string) (*models.Park, error) {
	query := url.Values{}
	query.Set("parkCode", parkCode)
	list, err := s.NPS.Parks(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, &upstream.Error{
			Kind:    upstream.KindNotFound,
			Message: fmt.Sprintf("no park found for park code %q", parkCode),
		}
	}
	return &list.Data[0], nil
}

// buildWeather resolves current conditions, preferring OpenWeather and
// falling back to Open-Meteo on any primary failure, including a missing
// OpenWeather key.
func buildWeather(ctx context.Context, s *Services, latitude, longitude float64, units, language string) (map[string]any, error) {
	current, err := s.Weather.Current(ctx, latitude, longitude, units, language)
	if err == nil {
		return formatOpenWeather(current, units, latitude, longitude), nil
	}
	apiErr := upstream.Classify(err)
	s.Logger.Warn().
		Str("kind", string(apiErr.Kind)).
		Str("error", apiErr.Message).
		Msg("openweather failed, falling back to open-meteo")

	forecast, err := s.Meteo.Forecast(ctx, latitude, longitude, units)
	if err != nil {
		return nil, err
	}
	return formatOpenMeteo(forecast, units, latitude, longitude, "OpenWeather unavailable"), nil
}

// --- Handlers ---

func handleFindParks(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("findParks", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		limit := request.GetInt("limit", defaultLimit)
		query := url.Values{}
		if state := request.GetString("state_code", ""); state != "" {
			query.Set("stateCode", strings.ToUpper(state))
		}
		if activity := request.GetString("activity_id", ""); activity != "" {
			query.Set("activitiesId", activity)
		}
		if q := request.GetString("query", ""); q != "" {
			query.Set("q", q)
		}
		query.Set("limit", strconv.Itoa(limit))
		if start := request.GetInt("start", -1); start >= 0 {
			query.Set("start", strconv.Itoa(start))
		}

		list, err := s.NPS.Parks(ctx, query)
		if err != nil {
			return apiErrorResult(s.Logger, "findParks", err, nil), nil
		}
		return jsonResult(formatParkList(list, limit)), nil
	}
}

func handleGetParkDetails(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getParkDetails", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		parkCode := strings.ToLower(request.GetString("park_code", ""))
		park, err := fetchPark(ctx, s, parkCode)
		if err != nil {
			return apiErrorResult(s.Logger, "getParkDetails", err, map[string]any{"parkCode": parkCode}), nil
		}
		return jsonResult(formatPark(*park)), nil
	}
}

func handleGetAlerts(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getAlerts", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		query, limit := collectionQuery(request)
		list, err := s.NPS.Alerts(ctx, query)
		if err != nil {
			return apiErrorResult(s.Logger, "getAlerts", err, nil), nil
		}
		return jsonResult(formatAlertList(list, limit)), nil
	}
}

func handleGetVisitorCenters(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getVisitorCenters", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		query, limit := collectionQuery(request)
		list, err := s.NPS.VisitorCenters(ctx, query)
		if err != nil {
			return apiErrorResult(s.Logger, "getVisitorCenters", err, nil), nil
		}
		return jsonResult(formatVisitorCenterList(list, limit)), nil
	}
}

func handleGetCampgrounds(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getCampgrounds", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		query, limit := collectionQuery(request)
		list, err := s.NPS.Campgrounds(ctx, query)
		if err != nil {
			return apiErrorResult(s.Logger, "getCampgrounds", err, nil), nil
		}
		return jsonResult(formatCampgroundList(list, limit)), nil
	}
}

func handleGetEvents(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getEvents", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		query, limit := collectionQuery(request)
		if dateStart := request.GetString("date_start", ""); dateStart != "" {
			query.Set("dateStart", dateStart)
		}
		if dateEnd := request.GetString("date_end", ""); dateEnd != "" {
			query.Set("dateEnd", dateEnd)
		}

		list, err := s.NPS.Events(ctx, query)
		if err != nil {
			return apiErrorResult(s.Logger, "getEvents", err, nil), nil
		}
		return jsonResult(formatEventList(list, limit)), nil
	}
}

func handleGeocodeLocation(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("geocodeLocation", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		query := request.GetString("query", "")
		limit := request.GetInt("limit", geocodeDefaultLimit)

		places, err := s.Geocoder.Search(ctx, query, limit)
		if err != nil {
			return apiErrorResult(s.Logger, "geocodeLocation", err, nil), nil
		}
		return jsonResult(formatPlaceList(places)), nil
	}
}

func handleReverseGeocode(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("reverseGeocode", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		latitude := request.GetFloat("latitude", 0)
		longitude := request.GetFloat("longitude", 0)

		place, err := s.Geocoder.Reverse(ctx, latitude, longitude)
		if err != nil {
			return apiErrorResult(s.Logger, "reverseGeocode", err, nil), nil
		}
		return jsonResult(formatPlace(place)), nil
	}
}

func handleGetWeather(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getWeather", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		latitude := request.GetFloat("latitude", 0)
		longitude := request.GetFloat("longitude", 0)
		units := request.GetString("units", "metric")
		language := request.GetString("language", "")

		payload, err := buildWeather(ctx, s, latitude, longitude, units, language)
		if err != nil {
			return apiErrorResult(s.Logger, "getWeather", err, nil), nil
		}
		return jsonResult(payload), nil
	}
}

func handleGetAirQuality(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getAirQuality", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		latitude := request.GetFloat("latitude", 0)
		longitude := request.GetFloat("longitude", 0)

		quality, err := s.Air.NearestCity(ctx, latitude, longitude)
		if err != nil {
			return apiErrorResult(s.Logger, "getAirQuality", err, map[string]any{"provider": "AirVisual"}), nil
		}
		return jsonResult(formatAirQuality(quality, latitude, longitude)), nil
	}
}

func handleGetParkContext(s *Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if violations := s.Schemas.Validate("getParkContext", request.GetArguments()); len(violations) > 0 {
			return validationResult(violations), nil
		}

		parkCode := strings.ToLower(request.GetString("park_code", ""))
		units := request.GetString("units", "metric")

		park, err := fetchPark(ctx, s, parkCode)
		if err != nil {
			return apiErrorResult(s.Logger, "getParkContext", err, map[string]any{"parkCode": parkCode}), nil
		}

		latitude := common.ParseStringFloat(park.Latitude)
		longitude := common.ParseStringFloat(park.Longitude)
		if latitude == nil || longitude == nil {
			return envelopeResult("not_found", "park location coordinates are unavailable", map[string]any{"parkCode": parkCode}), nil
		}

		weather, err := buildWeather(ctx, s, *latitude, *longitude, units, "")
		if err != nil {
			return apiErrorResult(s.Logger, "getParkContext", err, map[string]any{"parkCode": parkCode}), nil
		}

		// Air quality is best-effort: a failure is embedded in the
		// payload rather than failing the whole context.
		var airQuality map[string]any
		if quality, err := s.Air.NearestCity(ctx, *latitude, *longitude); err != nil {
			apiErr := upstream.Classify(err)
			s.Logger.Warn().
				Str("park_code", parkCode).
				Str("kind", string(apiErr.Kind)).
				Str("error", apiErr.Message).
				Msg("air quality unavailable for park context")
			message := apiErr.Message
			kind := envelopeKind(apiErr.Kind)
			if kind == "internal" {
				message = "an internal error occurred"
			}
			airQuality = map[string]any{
				"error":   kind,
				"message": message,
				"details": map[string]any{"provider": "AirVisual"},
			}
		} else {
			airQuality = formatAirQuality(quality, *latitude, *longitude)
		}

		return jsonResult(map[string]any{
			"park":               formatPark(*park),
			"location":           map[string]any{"latitude": *latitude, "longitude": *longitude},
			"weather":            weather,
			"airQuality":         airQuality,
			"contextGeneratedAt": time.Now().UTC().Format(time.RFC3339),
		}), nil
	}
}
