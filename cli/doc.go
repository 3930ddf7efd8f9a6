// Package cli contains the command line interface for apibody.
//
// # Usage
//
//	apibody [flags] <command> [args]
//
// The default command is compile, so the following are equivalent:
//
//	apibody body.schema --set limit=10 --set-string user=ana
//	apibody compile body.schema --set limit=10 --set-string user=ana
//
// Commands:
//   - compile: build a request body from a schema and runtime inputs, as JSON
//     or YAML, optionally wrapped in a JSON-RPC 2.0 envelope
//   - check: validate schemas, including nested declarations
//   - describe: print the declaration tree of a schema
//   - inputs: list the keys a schema reads from runtime inputs
//   - init: write the current flag values to the configuration file
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, e.g. ~/.config/apibody/config.yaml. Nested
// mappings are joined with "-":
//
//	max-depth: 20
//	log:
//	  level: debug
//	  format: json
//
// Command-line flags override configuration file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, or a layout)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Style text output for terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/apibody/pprof)
package cli
