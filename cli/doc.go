// Package cli contains the command line interface for wgslpp.
//
// # Usage
//
// The default command renders a shader from the workspace to stdout:
//
//	wgslpp post/blur.wgsl
//	wgslpp --set DEBUG=true --set MAX_LIGHTS=8 render post/blur.wgsl
//
// The workspace is assembled from shader search roots, tried in priority
// order: --search flags first, then the colon-separated WGSLPP_PATH
// environment variable, then the roots declared by the manifest. The first
// root that provides a relative path wins, so earlier roots shadow later
// ones.
//
// Remaining commands inspect and maintain the workspace:
//
//	wgslpp list --format json
//	wgslpp check
//	wgslpp fmt shader.wgsl
//	wgslpp init
//	wgslpp repl
//
// # Configuration Loader
//
// Besides flags, configuration is read from a YAML or JSON file in the
// user's config directory (see [resolve]). Running "wgslpp init --config"
// writes the current flag values there.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-callsite: Include callsite information in log output
//   - --log-pretty: Enable colorized pretty printing
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
//     ~/.cache/wgslpp/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	wgslpp --log-level=debug --pprof-mode=cpu render post/blur.wgsl
//
//	# Verify every shader in a tree renders cleanly
//	wgslpp -I shaders -I shared check
//
//	# Override variables without editing the manifest
//	wgslpp -D DEBUG=true -D SHADOW_QUALITY=2 render lighting.wgsl
package cli
