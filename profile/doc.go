// Package profile provides optional runtime profiling for the wgslpp
// command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind a build tag so
// that profiling support costs nothing unless it was compiled in. Build
// with the "pprof" tag to enable it; without the tag every operation is a
// no-op and the profiling flags are inert.
//
// # Available Profiling Modes
//
// The following modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Usage
//
// Profiling is configured with a [Config] and started with [Config.Start]:
//
//	stop := profile.Config(func() (string, string, bool) {
//	    return "cpu", "/tmp/profiles", false
//	}).Start()
//	defer stop.Stop()
//
// The wgslpp command wires this to flags when built with the pprof tag:
//
//	# Profile shader rendering
//	wgslpp --pprof-mode cpu render main.wgsl
//
//	# Heap profiling with a custom output directory
//	wgslpp --pprof-mode heap --pprof-dir ./profiles check
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/wgslpp/pprof   (Linux/Unix)
//	~/Library/Caches/wgslpp/pprof  (macOS)
//	%LocalAppData%\wgslpp\pprof    (Windows)
//
// Profile files are written to that directory with names matching the
// profiling mode (e.g., cpu.pprof, heap.pprof). Analyze them with:
//
//	go tool pprof ./wgslpp cpu.pprof
//	go tool pprof -http=: heap.pprof
//
// Building with the pprof tag also imports [net/http/pprof], registering
// the /debug/pprof/ HTTP handlers for any server the host process starts.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
