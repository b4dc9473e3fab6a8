// Package schema declares the accepted argument shape of every tool and
// validates raw invocation arguments before any network I/O happens.
//
// Validation runs to completion and reports every violation in one pass,
// so a caller sending three bad fields learns about all three at once.
// Unknown argument keys are ignored; upstream queries are built only from
// declared fields.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Violation describes a single field-level constraint failure.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// Set holds the compiled argument schemas for all registered tools.
// Compiled once at startup and safe for concurrent use.
type Set struct {
	compiled map[string]*jsonschema.Schema
	printer  *message.Printer
}

// toolSchemas maps tool name to its argument schema. Numeric-looking
// arguments are declared as JSON numbers; upstream string coercion is the
// formatters' concern, not the caller's.
var toolSchemas = map[string]string{
	"findParks": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"state_code": {"type": "string", "pattern": "^[A-Za-z]{2}$"},
			"activity_id": {"type": "string", "minLength": 1},
			"query": {"type": "string", "minLength": 1},
			"limit": {"type": "integer", "minimum": 1, "maximum": 50},
			"start": {"type": "integer", "minimum": 0}
		}
	}`,
	"getParkDetails": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"park_code": {"type": "string", "pattern": "^[A-Za-z]{4}$"}
		},
		"required": ["park_code"]
	}`,
	"getAlerts": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"park_code": {"type": "string", "pattern": "^[A-Za-z]{4}$"},
			"query": {"type": "string", "minLength": 1},
			"limit": {"type": "integer", "minimum": 1, "maximum": 50},
			"start": {"type": "integer", "minimum": 0}
		}
	}`,
	"getVisitorCenters": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"park_code": {"type": "string", "pattern": "^[A-Za-z]{4}$"},
			"query": {"type": "string", "minLength": 1},
			"limit": {"type": "integer", "minimum": 1, "maximum": 50},
			"start": {"type": "integer", "minimum": 0}
		}
	}`,
	"getCampgrounds": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"park_code": {"type": "string", "pattern": "^[A-Za-z]{4}$"},
			"query": {"type": "string", "minLength": 1},
			"limit": {"type": "integer", "minimum": 1, "maximum": 50},
			"start": {"type": "integer", "minimum": 0}
		}
	}`,
	"getEvents": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"park_code": {"type": "string", "pattern": "^[A-Za-z]{4}$"},
			"query": {"type": "string", "minLength": 1},
			"date_start": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
			"date_end": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
			"limit": {"type": "integer", "minimum": 1, "maximum": 50},
			"start": {"type": "integer", "minimum": 0}
		}
	}`,
	"geocodeLocation": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"query": {"type": "string", "minLength": 1},
			"limit": {"type": "integer", "minimum": 1, "maximum": 10}
		},
		"required": ["query"]
	}`,
	"reverseGeocode": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"latitude": {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180}
		},
		"required": ["latitude", "longitude"]
	}`,
	"getWeather": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"latitude": {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180},
			"units": {"type": "string", "pattern": "^(metric|imperial)$"},
			"language": {"type": "string", "minLength": 2, "maxLength": 5}
		},
		"required": ["latitude", "longitude"]
	}`,
	"getAirQuality": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"latitude": {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180}
		},
		"required": ["latitude", "longitude"]
	}`,
	"getParkContext": `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"park_code": {"type": "string", "pattern": "^[A-Za-z]{4}$"},
			"units": {"type": "string", "pattern": "^(metric|imperial)$"}
		},
		"required": ["park_code"]
	}`,
}

// Compile parses and compiles every tool schema.
func Compile() (*Set, error) {
	c := jsonschema.NewCompiler()
	for name, raw := range toolSchemas {
		var doc any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("parse %s schema: %w", name, err)
		}
		if err := c.AddResource(name+".json", doc); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", name, err)
		}
	}
	compiled := make(map[string]*jsonschema.Schema, len(toolSchemas))
	for name := range toolSchemas {
		s, err := c.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		compiled[name] = s
	}
	return &Set{
		compiled: compiled,
		printer:  message.NewPrinter(language.English),
	}, nil
}

// MustCompile is Compile for startup paths where a malformed schema is a
// programming error.
func MustCompile() *Set {
	s, err := Compile()
	if err != nil {
		panic(err)
	}
	return s
}

// Has reports whether a schema is declared for the named tool.
func (s *Set) Has(tool string) bool {
	_, ok := s.compiled[tool]
	return ok
}

// Names returns the declared tool names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.compiled))
	for name := range s.compiled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks args against the named tool's schema and returns all
// violations found, or nil when the arguments are acceptable. Tools
// without a declared schema validate as acceptable; the registry rejects
// unknown tool names before validation runs.
func (s *Set) Validate(tool string, args map[string]any) []Violation {
	sch, ok := s.compiled[tool]
	if !ok {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	err := sch.Validate(args)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Field: "arguments", Constraint: "schema", Message: err.Error()}}
	}
	return s.collect(ve, nil)
}

// collect walks the validation error tree appending one Violation per
// leaf. A required-properties failure arrives as a single leaf naming
// every missing property; it is expanded to one violation per field so
// callers see each problem separately.
func (s *Set) collect(ve *jsonschema.ValidationError, out []Violation) []Violation {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			out = s.collect(cause, out)
		}
		return out
	}
	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, missing := range req.Missing {
			single := &kind.Required{Missing: []string{missing}}
			out = append(out, Violation{
				Field:      fieldPath(ve.InstanceLocation, missing),
				Constraint: "required",
				Message:    single.LocalizedString(s.printer),
			})
		}
		return out
	}
	return append(out, Violation{
		Field:      fieldPath(ve.InstanceLocation, ""),
		Constraint: constraintName(ve.ErrorKind),
		Message:    ve.ErrorKind.LocalizedString(s.printer),
	})
}

func fieldPath(location []string, leaf string) string {
	parts := location
	if leaf != "" {
		parts = append(append([]string{}, location...), leaf)
	}
	if len(parts) == 0 {
		return "arguments"
	}
	return strings.Join(parts, ".")
}

func constraintName(k jsonschema.ErrorKind) string {
	path := k.KeywordPath()
	if len(path) == 0 {
		return "schema"
	}
	return path[len(path)-1]
}
