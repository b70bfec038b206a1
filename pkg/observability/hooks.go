// Package observability provides hooks for metrics and tracing of codec runs.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about records written and read and about whole conversions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the codec packages free of any metrics framework
//   - Allows different backends (the Prometheus one lives in pkg/metrics)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCodecHooks(metrics.NewCodecMetrics())
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Codec().OnRecordWritten("batch", 12)
//
// Codec hooks are called synchronously from the encoding and decoding loops,
// once per record, so implementations must be cheap.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from graph file encoders and decoders.
//
// The codec has no context of its own (it is a synchronous stream
// transformer), so per-record events carry none.
type CodecHooks interface {
	// OnHeaderWritten records a header written with the declared counts.
	OnHeaderWritten(tag string, numNodes uint32, numEdges uint64)

	// OnRecordWritten records an edge record of the given kind ("single" or "batch").
	OnRecordWritten(kind string, edges int)

	// OnHeaderRead records a header read by a decoder.
	OnHeaderRead(tag string, numNodes uint32, numEdges uint64)

	// OnRecordRead records an edge record read by a decoder.
	OnRecordRead(kind string, edges int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the text-to-binary conversion pipeline.
type PipelineHooks interface {
	OnConvertStart(ctx context.Context, source string, grouped bool)
	OnConvertComplete(ctx context.Context, source string, edges uint64, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnHeaderWritten(string, uint32, uint64) {}
func (NoopCodecHooks) OnRecordWritten(string, int)            {}
func (NoopCodecHooks) OnHeaderRead(string, uint32, uint64)    {}
func (NoopCodecHooks) OnRecordRead(string, int)               {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnConvertStart(context.Context, string, bool) {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, uint64, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks    CodecHooks    = NoopCodecHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetCodecHooks registers custom codec hooks.
// This should be called once at application startup before any encoder or
// decoder is created; codecs capture the hooks at construction.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	codecHooks = NoopCodecHooks{}
	pipelineHooks = NoopPipelineHooks{}
}
