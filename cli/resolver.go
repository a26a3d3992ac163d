package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that parses config files
// written in YAML.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Nested mappings are flattened with "-" joining the key segments, so
//     "log: {level: debug}" and "log-level: debug" are equivalent
//   - Flag names with hyphens (e.g., "log-level") may use underscores in the
//     config file instead (e.g., "log_level")
//   - Numbers are converted to strings for Kong's flag parser
//   - Sequences are passed through for repeatable flags
//
// Example config file:
//
//	log-level: debug
//	log-format: json
//	log-pretty: true
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=true
//
// Command-line flags override config file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			// Read error - return empty config
			return config{}, nil
		}

		var raw map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		flat := make(config, len(raw))
		flatten("", raw, flat)

		return flat, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys may use
	// underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten walks in recursively, joining nested mapping keys with "-" and
// writing the leaves into out.
func flatten(prefix string, in map[string]any, out config) {
	for key, value := range in {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			flatten(name, nested, out)

			continue
		}

		out[name] = normalize(value)
	}
}

// normalize converts numeric values to the strings Kong's flag parser
// expects, passing every other value through unchanged.
func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	default:
		return value
	}
}
