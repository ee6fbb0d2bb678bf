package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// Normalize returns the fully populated form of raw. It fails with an
// INVALID_CONFIG error when a tool kind is unknown or listed twice.
// raw is not modified.
func Normalize(raw RawSettings) (Settings, error) {
	s := Settings{
		Temperature:   TemperatureRange.Clamp(raw.Temperature),
		MaxTokens:     MaxTokensRange.Clamp(raw.MaxTokens),
		ContextChunks: ContextChunksRange.Clamp(raw.ContextChunks),
	}

	byKind := make(map[Kind]RawTool, len(raw.Tools))
	for i, t := range raw.Tools {
		if !slices.Contains(Kinds, t.Kind) {
			return Settings{}, apperrors.New(apperrors.ErrCodeInvalidConfig,
				"tools[%d]: unknown tool kind %q", i, t.Kind)
		}
		if _, dup := byKind[t.Kind]; dup {
			return Settings{}, apperrors.New(apperrors.ErrCodeInvalidConfig,
				"tools[%d]: tool %q listed twice", i, t.Kind)
		}
		byKind[t.Kind] = t
	}

	for _, kind := range Kinds {
		s.Tools = append(s.Tools, normalizeTool(kind, byKind[kind]))
	}
	return s, nil
}

func normalizeTool(kind Kind, t RawTool) Tool {
	enabled := t.Enabled != nil && *t.Enabled
	switch kind {
	case KindWebSearch:
		return WebSearchTool{Enabled: enabled, MaxResults: MaxResultsRange.Clamp(t.MaxResults)}
	case KindCode:
		return CodeTool{Enabled: enabled, TimeoutSeconds: TimeoutRange.Clamp(t.TimeoutSeconds)}
	default:
		return ConnectorTool{Enabled: enabled, Connectors: migrateConnectors(t)}
	}
}

// migrateConnectors folds the legacy single connector into the list. The
// legacy entry goes first unless an identical entry is already listed.
func migrateConnectors(t RawTool) []Connector {
	out := cloneConnectors(t.Connectors)
	if t.Connector != nil {
		legacy := t.Connector.clone()
		if !slices.ContainsFunc(out, legacy.equal) {
			out = append([]Connector{legacy}, out...)
		}
	}
	return out
}

// Parse decodes JSON or TOML settings from r and normalizes them. format is
// "json" or "toml".
func Parse(r io.Reader, format string) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var raw RawSettings
	switch format {
	case "toml":
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return Settings{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode settings")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Settings{}, apperrors.New(apperrors.ErrCodeInvalidConfig,
				"unknown settings key %q", undecoded[0].String())
		}
	case "json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return Settings{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode settings")
		}
	default:
		return Settings{}, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported settings format %q", format)
	}
	return Normalize(raw)
}
