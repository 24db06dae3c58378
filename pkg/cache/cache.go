// Package cache stores rendered diagram sets and artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing one cache, and [NullCache] when caching is off. Keys
// come from a [Keyer], so every backend agrees on what a cached entry means.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
//
// Get reports a miss with hit=false and a nil error; errors are reserved for
// backend failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys from content hashes and render options.
type Keyer interface {
	// DiagramKey names the diagram set exported from a workspace.
	DiagramKey(workspaceHash string, opts DiagramKeyOpts) string
	// ArtifactKey names a rendered artifact (DOT or SVG) of one diagram.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DiagramKeyOpts holds the exporter options that change PlantUML output.
type DiagramKeyOpts struct {
	Legend   bool     `json:"legend"`
	Sequence bool     `json:"sequence"`
	Includes []string `json:"includes,omitempty"`
	Views    []string `json:"views,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the keyer used by the CLI and the server.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) DiagramKey(workspaceHash string, opts DiagramKeyOpts) string {
	return hashKey("diagrams", workspaceHash, opts)
}

func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
