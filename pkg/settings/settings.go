// Package settings normalizes assistant tool settings.
//
// Settings arrive partially filled and sometimes in a legacy shape. [Normalize]
// turns any accepted input into a fully populated [Settings]:
//
//   - numeric fields are clamped into the ranges below (or defaulted when
//     absent or not a number);
//   - booleans are defaulted when absent;
//   - every tool kind is present exactly once, in the order web_search,
//     code, connector;
//   - the legacy single "connector" object of the connector tool is
//     migrated into the "connectors" list with its fields unchanged.
//
// Normalize is idempotent: normalizing the raw form of a normalized value
// ([Settings.Raw]) returns an equal value.
//
// Tools are a closed sum type: [WebSearchTool], [CodeTool] and
// [ConnectorTool] are the only implementations of [Tool].
package settings

import (
	"encoding/json"
	"math"
	"slices"
)

// IntRange is an inclusive range with a default for integer fields.
type IntRange struct {
	Min, Max, Default int
}

// Clamp returns v limited to the range, or the default when v is nil.
func (r IntRange) Clamp(v *int) int {
	if v == nil {
		return r.Default
	}
	return min(max(*v, r.Min), r.Max)
}

// FloatRange is an inclusive range with a default for float fields.
type FloatRange struct {
	Min, Max, Default float64
}

// Clamp returns v limited to the range, or the default when v is nil or
// not a number.
func (r FloatRange) Clamp(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return r.Default
	}
	return math.Min(math.Max(*v, r.Min), r.Max)
}

// Documented ranges.
var (
	TemperatureRange   = FloatRange{Min: 0, Max: 2, Default: 0.7}
	MaxTokensRange     = IntRange{Min: 1, Max: 32768, Default: 1024}
	ContextChunksRange = IntRange{Min: 0, Max: 64, Default: 8}
	MaxResultsRange    = IntRange{Min: 1, Max: 20, Default: 5}
	TimeoutRange       = IntRange{Min: 1, Max: 300, Default: 30}
)

// Kind identifies a tool variant.
type Kind string

const (
	KindWebSearch Kind = "web_search"
	KindCode      Kind = "code"
	KindConnector Kind = "connector"
)

// Kinds lists every tool kind in canonical order.
var Kinds = []Kind{KindWebSearch, KindCode, KindConnector}

// Tool is one tool's validated configuration.
type Tool interface {
	Kind() Kind
	IsEnabled() bool
	raw() RawTool
}

// WebSearchTool configures web search.
type WebSearchTool struct {
	Enabled    bool
	MaxResults int
}

// CodeTool configures code execution.
type CodeTool struct {
	Enabled        bool
	TimeoutSeconds int
}

// ConnectorTool configures remote tool connectors.
type ConnectorTool struct {
	Enabled    bool
	Connectors []Connector
}

// Connector is one remote tool server.
type Connector struct {
	URL          string   `json:"url" toml:"url"`
	Transport    string   `json:"transport" toml:"transport"`
	AuthToken    string   `json:"auth_token,omitempty" toml:"auth_token"`
	EnabledTools []string `json:"enabled_tools" toml:"enabled_tools"`
}

func (WebSearchTool) Kind() Kind { return KindWebSearch }
func (CodeTool) Kind() Kind      { return KindCode }
func (ConnectorTool) Kind() Kind { return KindConnector }

func (t WebSearchTool) IsEnabled() bool { return t.Enabled }
func (t CodeTool) IsEnabled() bool      { return t.Enabled }
func (t ConnectorTool) IsEnabled() bool { return t.Enabled }

func (t WebSearchTool) raw() RawTool {
	return RawTool{Kind: KindWebSearch, Enabled: &t.Enabled, MaxResults: &t.MaxResults}
}

func (t CodeTool) raw() RawTool {
	return RawTool{Kind: KindCode, Enabled: &t.Enabled, TimeoutSeconds: &t.TimeoutSeconds}
}

func (t ConnectorTool) raw() RawTool {
	return RawTool{Kind: KindConnector, Enabled: &t.Enabled, Connectors: cloneConnectors(t.Connectors)}
}

// Settings is a fully populated configuration.
type Settings struct {
	Temperature   float64
	MaxTokens     int
	ContextChunks int
	Tools         []Tool
}

// Default returns the normalized empty configuration.
func Default() Settings {
	s, _ := Normalize(RawSettings{})
	return s
}

// Tool returns the tool of the given kind.
func (s Settings) Tool(kind Kind) (Tool, bool) {
	for _, t := range s.Tools {
		if t.Kind() == kind {
			return t, true
		}
	}
	return nil, false
}

// Raw returns the input form of s. Normalize(s.Raw()) equals s.
func (s Settings) Raw() RawSettings {
	r := RawSettings{
		Temperature:   &s.Temperature,
		MaxTokens:     &s.MaxTokens,
		ContextChunks: &s.ContextChunks,
		Tools:         make([]RawTool, len(s.Tools)),
	}
	for i, t := range s.Tools {
		r.Tools[i] = t.raw()
	}
	return r
}

// MarshalJSON encodes s in its raw form.
func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Raw())
}

// UnmarshalJSON decodes any accepted input and normalizes it.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw RawSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n, err := Normalize(raw)
	if err != nil {
		return err
	}
	*s = n
	return nil
}

// RawSettings is the accepted input shape. Absent fields are nil.
type RawSettings struct {
	Temperature   *float64  `json:"temperature,omitempty" toml:"temperature"`
	MaxTokens     *int      `json:"max_tokens,omitempty" toml:"max_tokens"`
	ContextChunks *int      `json:"context_chunks,omitempty" toml:"context_chunks"`
	Tools         []RawTool `json:"tools,omitempty" toml:"tools"`
}

// RawTool is the input shape of any tool. Fields that do not apply to
// Kind are ignored.
type RawTool struct {
	Kind    Kind  `json:"kind" toml:"kind"`
	Enabled *bool `json:"enabled,omitempty" toml:"enabled"`

	MaxResults     *int `json:"max_results,omitempty" toml:"max_results"`
	TimeoutSeconds *int `json:"timeout_seconds,omitempty" toml:"timeout_seconds"`

	Connectors []Connector `json:"connectors,omitempty" toml:"connectors"`
	// Connector is the legacy single-connector shape.
	Connector *Connector `json:"connector,omitempty" toml:"connector"`
}

func cloneConnectors(cs []Connector) []Connector {
	out := make([]Connector, len(cs))
	for i, c := range cs {
		out[i] = c.clone()
	}
	return out
}

func (c Connector) clone() Connector {
	c.EnabledTools = append([]string{}, c.EnabledTools...)
	return c
}

func (c Connector) equal(o Connector) bool {
	return c.URL == o.URL &&
		c.Transport == o.Transport &&
		c.AuthToken == o.AuthToken &&
		slices.Equal(c.EnabledTools, o.EnabledTools)
}
