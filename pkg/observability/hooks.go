// Package observability lets an application observe exports, cache traffic
// and API requests without c4puml depending on a metrics backend.
//
// Hooks are registered once at startup:
//
//	func main() {
//	    observability.SetExportHooks(&promExportHooks{})
//	    // ... run application
//	}
//
// and called by the pipeline and the server:
//
//	observability.Export().OnExportStart(ctx, views.Len())
//	// ... render ...
//	observability.Export().OnExportComplete(ctx, len(diagrams), time.Since(start), err)
//
// Until something is registered every hook is a no-op.
package observability

import (
	"context"
	"sync"
	"time"
)

// ExportHooks receives events from diagram export.
type ExportHooks interface {
	OnExportStart(ctx context.Context, viewCount int)
	// OnViewRendered is called once per view, with the number of frames
	// produced for it and the render error if any.
	OnViewRendered(ctx context.Context, key string, frames int, duration time.Duration, err error)
	OnExportComplete(ctx context.Context, diagrams int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "diagrams" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path, requestID string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, int)                                   {}
func (NoopExportHooks) OnViewRendered(context.Context, string, int, time.Duration, error) {}
func (NoopExportHooks) OnExportComplete(context.Context, int, time.Duration, error)         {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)               {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	exportHooks ExportHooks = NoopExportHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetExportHooks registers h. A nil h is ignored.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	exportHooks = NoopExportHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
