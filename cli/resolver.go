package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/apibody/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with "-", so both of the
// following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Command-line flags override
// config file values. A file that cannot be decoded is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc yaml.MapSlice

		err := yaml.NewDecoder(r, yaml.UseOrderedMap()).DecodeContext(ctx, &doc)
		if err != nil && err != io.EOF {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten stores every leaf of doc in r under its "-"-joined key path.
func (r config) flatten(prefix string, doc yaml.MapSlice) {
	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch nested := item.Value.(type) {
		case yaml.MapSlice:
			r.flatten(key, nested)

			continue

		case map[string]any:
			for _, k := range slices.Sorted(maps.Keys(nested)) {
				r.flatten(key, yaml.MapSlice{{Key: k, Value: nested[k]}})
			}

			continue
		}

		r[key] = flagValue(item.Value)
	}
}

// flagValue converts a decoded YAML value to a form kong can parse.
// Kong requires numbers as strings.
func flagValue(v any) any {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
