// Package pipeline runs the load → export → render sequence shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Load: decode the workspace JSON into a model and its views.
//  2. Export: render each selected view to C4-PlantUML. The diagram set is
//     cached under the workspace hash and the exporter options.
//  3. Render: for the "dot" and "svg" formats, draw each view with Graphviz.
//     SVG output is cached under the hash of its DOT source.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{
//	    Legend:  true,
//	    Formats: []string{pipeline.FormatPlantUML, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, d := range result.Diagrams {
//	    fmt.Println(d.Key)
//	}
//
// A view that fails to render does not fail the run: its error is recorded
// in [Result.ViewErrors] and the other views are still returned.
package pipeline

import (
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/uniknow/c4puml/pkg/cache"
	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/render/plantuml"
)

// Output formats.
const (
	FormatPlantUML = "puml"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
)

// Cache lifetimes.
const (
	TTLDiagrams = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPlantUML: true,
	FormatDOT:      true,
	FormatSVG:      true,
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return c4errors.New(c4errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: puml, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks every format. An empty list is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated list such as "puml,svg".
func ParseFormats(s string) ([]string, error) {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Include is a custom include registered on the exporter. Exactly one of
// URL and File is set.
type Include struct {
	URL   string `json:"url,omitempty"`
	File  string `json:"file,omitempty"`
	Label string `json:"label,omitempty"`
}

func (i Include) locator() string {
	if i.URL != "" {
		return i.URL
	}
	return i.File
}

// Options configures a pipeline run.
type Options struct {
	Legend   bool      `json:"legend,omitempty"`
	Sequence bool      `json:"sequence,omitempty"`
	Includes []Include `json:"includes,omitempty"`
	// Views restricts the export to these keys, in this order.
	Views []string `json:"views,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPlantUML}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, inc := range o.Includes {
		switch {
		case inc.URL != "" && inc.File != "":
			return c4errors.New(c4errors.ErrCodeInvalidInclude, "include %q: url and file are exclusive", inc.URL)
		case inc.URL != "":
			if err := c4errors.ValidateIncludeURL(inc.URL); err != nil {
				return err
			}
		default:
			if err := c4errors.ValidateIncludeFile(inc.File); err != nil {
				return err
			}
		}
	}
	for _, key := range o.Views {
		if err := c4errors.ValidateViewKey(key); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// DiagramKeyOpts returns the cache key options for the exported diagram set.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	opts := cache.DiagramKeyOpts{Legend: o.Legend, Sequence: o.Sequence, Views: o.Views}
	for _, inc := range o.Includes {
		opts.Includes = append(opts.Includes, inc.locator())
	}
	return opts
}

// ArtifactKeyOpts returns the cache key options for a rendered artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

// Artifact is a DOT or SVG rendering of one view.
type Artifact struct {
	Key    string
	Format string
	Data   []byte
}

// ViewError records a view that could not be rendered.
type ViewError struct {
	Key string
	Err error
}

func (e *ViewError) Error() string { return "view " + e.Key + ": " + e.Err.Error() }

func (e *ViewError) Unwrap() error { return e.Err }

// Result holds the outputs of a run.
type Result struct {
	WorkspaceName string
	WorkspaceHash string

	Diagrams   []*plantuml.Diagram
	Artifacts  []Artifact
	ViewErrors []*ViewError

	Stats     Stats
	CacheInfo CacheInfo
}

// Err joins the view errors, or returns nil when every view rendered.
func (r *Result) Err() error {
	return joinViewErrors(r.ViewErrors)
}

func joinViewErrors(viewErrs []*ViewError) error {
	errs := make([]error, len(viewErrs))
	for i, e := range viewErrs {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Stats holds timings and counts of a run.
type Stats struct {
	ViewCount  int
	FrameCount int
	LoadTime   time.Duration
	ExportTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	DiagramsHit  bool
	ArtifactsHit bool
}
