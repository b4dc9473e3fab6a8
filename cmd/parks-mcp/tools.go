package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registry is the static name → (definition, handler) mapping built at
// startup. It is the dispatcher: invoke routes a named call to its
// handler, answering unknown names with a not_found_tool envelope and
// absorbing handler panics, so a bad call never takes down the
// transport session.
type registry struct {
	services *Services
	order    []string
	entries  map[string]registration
}

type registration struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// newRegistry wires every tool to its handler.
func newRegistry(s *Services) *registry {
	r := &registry{
		services: s,
		entries:  map[string]registration{},
	}
	r.add(createFindParksTool(), handleFindParks(s))
	r.add(createGetParkDetailsTool(), handleGetParkDetails(s))
	r.add(createGetAlertsTool(), handleGetAlerts(s))
	r.add(createGetVisitorCentersTool(), handleGetVisitorCenters(s))
	r.add(createGetCampgroundsTool(), handleGetCampgrounds(s))
	r.add(createGetEventsTool(), handleGetEvents(s))
	r.add(createGeocodeLocationTool(), handleGeocodeLocation(s))
	r.add(createReverseGeocodeTool(), handleReverseGeocode(s))
	r.add(createGetWeatherTool(), handleGetWeather(s))
	r.add(createGetAirQualityTool(), handleGetAirQuality(s))
	r.add(createGetParkContextTool(), handleGetParkContext(s))
	return r
}

func (r *registry) add(tool mcp.Tool, handler server.ToolHandlerFunc) {
	r.order = append(r.order, tool.Name)
	r.entries[tool.Name] = registration{tool: tool, handler: handler}
}

// list returns the tool definitions in registration order, for protocol
// capability discovery.
func (r *registry) list() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// invoke dispatches one tool call. Every failure path resolves to an
// error result; the returned error is always nil so the MCP session
// stays up.
func (r *registry) invoke(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, _ error) {
	name := request.Params.Name
	entry, ok := r.entries[name]
	if !ok {
		return envelopeResult("not_found_tool", fmt.Sprintf("unknown tool %q", name), map[string]any{"tool": name}), nil
	}

	logger := r.services.Logger.WithCorrelationId(uuid.New().String())
	logger.Debug().Str("tool", name).Msg("tool call received")

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Str("tool", name).Str("panic", fmt.Sprintf("%v", rec)).Msg("tool handler panicked")
			result = envelopeResult("internal", "an internal error occurred", nil)
		}
	}()

	result, err := entry.handler(ctx, request)
	if err != nil {
		logger.Error().Err(err).Str("tool", name).Msg("tool handler failed")
		return envelopeResult("internal", "an internal error occurred", nil), nil
	}

	logger.Debug().Str("tool", name).Bool("is_error", result.IsError).Msg("tool call completed")
	return result, nil
}

// register installs every tool on the MCP server, routed through invoke.
func (r *registry) register(s *server.MCPServer) {
	for _, name := range r.order {
		s.AddTool(r.entries[name].tool, r.invoke)
	}
}

// --- Tool definitions ---

func createFindParksTool() mcp.Tool {
	return mcp.NewTool("findParks",
		mcp.WithDescription("Search national parks. Filters combine: state, activity, and free-text query are ANDed together."),
		mcp.WithString("state_code", mcp.Description("Two-letter US state code (e.g., 'CA', 'WY')")),
		mcp.WithString("activity_id", mcp.Description("NPS activity ID to filter by (e.g., from the activities catalog)")),
		mcp.WithString("query", mcp.Description("Free-text search over park names and descriptions")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return, 1-50 (default: 10)")),
		mcp.WithNumber("start", mcp.Description("Result offset for pagination (default: 0)")),
	)
}

func createGetParkDetailsTool() mcp.Tool {
	return mcp.NewTool("getParkDetails",
		mcp.WithDescription("Get full details for one park: description, location, entrance fees, operating hours, contacts, and images."),
		mcp.WithString("park_code", mcp.Required(), mcp.Description("Four-letter NPS park code (e.g., 'yell' for Yellowstone, 'yose' for Yosemite)")),
	)
}

func createGetAlertsTool() mcp.Tool {
	return mcp.NewTool("getAlerts",
		mcp.WithDescription("Get current alerts (closures, hazards, cautions) for parks. Without a park code, returns alerts across all parks."),
		mcp.WithString("park_code", mcp.Description("Four-letter NPS park code to filter by")),
		mcp.WithString("query", mcp.Description("Free-text search over alert titles and descriptions")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return, 1-50 (default: 10)")),
		mcp.WithNumber("start", mcp.Description("Result offset for pagination (default: 0)")),
	)
}

func createGetVisitorCentersTool() mcp.Tool {
	return mcp.NewTool("getVisitorCenters",
		mcp.WithDescription("Get visitor centers with locations, directions, and operating hours."),
		mcp.WithString("park_code", mcp.Description("Four-letter NPS park code to filter by")),
		mcp.WithString("query", mcp.Description("Free-text search over visitor center names and descriptions")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return, 1-50 (default: 10)")),
		mcp.WithNumber("start", mcp.Description("Result offset for pagination (default: 0)")),
	)
}

func createGetCampgroundsTool() mcp.Tool {
	return mcp.NewTool("getCampgrounds",
		mcp.WithDescription("Get campgrounds with site counts, fees, reservation info, and operating hours."),
		mcp.WithString("park_code", mcp.Description("Four-letter NPS park code to filter by")),
		mcp.WithString("query", mcp.Description("Free-text search over campground names and descriptions")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return, 1-50 (default: 10)")),
		mcp.WithNumber("start", mcp.Description("Result offset for pagination (default: 0)")),
	)
}

func createGetEventsTool() mcp.Tool {
	return mcp.NewTool("getEvents",
		mcp.WithDescription("Get upcoming park events: ranger programs, guided walks, and special activities."),
		mcp.WithString("park_code", mcp.Description("Four-letter NPS park code to filter by")),
		mcp.WithString("query", mcp.Description("Free-text search over event titles and descriptions")),
		mcp.WithString("date_start", mcp.Description("Earliest event date, YYYY-MM-DD")),
		mcp.WithString("date_end", mcp.Description("Latest event date, YYYY-MM-DD")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return, 1-50 (default: 10)")),
		mcp.WithNumber("start", mcp.Description("Result offset for pagination (default: 0)")),
	)
}

func createGeocodeLocationTool() mcp.Tool {
	return mcp.NewTool("geocodeLocation",
		mcp.WithDescription("Geocode a place name or address to coordinates via OpenStreetMap Nominatim."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Place name or address to geocode (e.g., 'Jackson Hole, WY')")),
		mcp.WithNumber("limit", mcp.Description("Maximum matches to return, 1-10 (default: 5)")),
	)
}

func createReverseGeocodeTool() mcp.Tool {
	return mcp.NewTool("reverseGeocode",
		mcp.WithDescription("Resolve coordinates to the nearest known place via OpenStreetMap Nominatim."),
		mcp.WithNumber("latitude", mcp.Required(), mcp.Description("Latitude, -90 to 90")),
		mcp.WithNumber("longitude", mcp.Required(), mcp.Description("Longitude, -180 to 180")),
	)
}

func createGetWeatherTool() mcp.Tool {
	return mcp.NewTool("getWeather",
		mcp.WithDescription("Get current weather conditions for coordinates. Uses OpenWeather when a key is configured, falling back to Open-Meteo."),
		mcp.WithNumber("latitude", mcp.Required(), mcp.Description("Latitude, -90 to 90")),
		mcp.WithNumber("longitude", mcp.Required(), mcp.Description("Longitude, -180 to 180")),
		mcp.WithString("units", mcp.Description("Measurement system: 'metric' or 'imperial' (default: metric)")),
		mcp.WithString("language", mcp.Description("Two-letter language code for condition descriptions (OpenWeather only)")),
	)
}

func createGetAirQualityTool() mcp.Tool {
	return mcp.NewTool("getAirQuality",
		mcp.WithDescription("Get air quality readings (AQI, main pollutant) for the monitoring station nearest the coordinates. Requires an AirVisual API key."),
		mcp.WithNumber("latitude", mcp.Required(), mcp.Description("Latitude, -90 to 90")),
		mcp.WithNumber("longitude", mcp.Required(), mcp.Description("Longitude, -180 to 180")),
	)
}

func createGetParkContextTool() mcp.Tool {
	return mcp.NewTool("getParkContext",
		mcp.WithDescription("Get a combined trip-planning context for one park: details plus current weather and air quality at the park's coordinates."),
		mcp.WithString("park_code", mcp.Required(), mcp.Description("Four-letter NPS park code (e.g., 'yell')")),
		mcp.WithString("units", mcp.Description("Measurement system: 'metric' or 'imperial' (default: metric)")),
	)
}
