package plantuml

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/view"
)

// LegendDirective is written after the includes when the legend is enabled.
const LegendDirective = "LAYOUT_WITH_LEGEND()"

// Diagram is the PlantUML source of one view. Frames holds one diagram per
// animation step when the view animates; frame keys are "<key>-<n>".
type Diagram struct {
	Key        string     `json:"key"`
	Definition string     `json:"definition"`
	Frames     []*Diagram `json:"frames,omitempty"`
}

// session is the state an exporter carries from one view to the next.
//
// Persisted for the lifetime of the exporter:
//   - nextGroup, so group boundary ids stay unique across every view
//     rendered by the exporter (numbering therefore depends on render order);
//   - the custom include registries.
//
// Everything else (required includes, the line buffer) is rebuilt per view.
type session struct {
	nextGroup int
	urls      includeList
	files     includeList
}

// Exporter renders views as C4-PlantUML source.
//
// An Exporter is not safe for concurrent use. Render views one at a time,
// or give each goroutine its own Exporter.
type Exporter struct {
	legend   bool
	sequence bool
	logger   *log.Logger
	sess     session
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLegend enables the legend directive.
func WithLegend(enabled bool) Option {
	return func(e *Exporter) { e.legend = enabled }
}

// WithSequenceDiagrams renders dynamic views as flat sequence-style diagrams.
func WithSequenceDiagrams(enabled bool) Option {
	return func(e *Exporter) { e.sequence = enabled }
}

// New creates an exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLegend toggles the legend directive.
func (e *Exporter) SetLegend(enabled bool) { e.legend = enabled }

// Legend reports whether the legend directive is written.
func (e *Exporter) Legend() bool { return e.legend }

// SetSequenceDiagrams toggles sequence-style rendering of dynamic views.
func (e *Exporter) SetSequenceDiagrams(enabled bool) { e.sequence = enabled }

// SequenceDiagrams reports whether dynamic views render sequence-style.
func (e *Exporter) SequenceDiagrams() bool { return e.sequence }

// AddIncludeURL registers a custom include by absolute http(s) URL.
// Registering a URL that is already registered is a no-op, whatever the label.
func (e *Exporter) AddIncludeURL(rawURL, label string) error {
	if err := c4errors.ValidateIncludeURL(rawURL); err != nil {
		return err
	}
	if e.sess.urls.add(Include{Label: label, Locator: rawURL}) {
		e.logger.Debug("registered include", "url", rawURL, "label", label)
	}
	return nil
}

// AddIncludeFile registers a custom include by file path.
// Registering a path that is already registered is a no-op, whatever the label.
func (e *Exporter) AddIncludeFile(path, label string) error {
	if err := c4errors.ValidateIncludeFile(path); err != nil {
		return err
	}
	if e.sess.files.add(Include{Label: label, Locator: path, File: true}) {
		e.logger.Debug("registered include", "file", path, "label", label)
	}
	return nil
}

// Includes returns the header includes v would be rendered with.
func (e *Exporter) Includes(v *view.View) []Include {
	return e.sess.resolveIncludes(v)
}

// Export renders every view of set in declaration order. A view that fails
// to render is left out of the result; its error is joined into the
// returned error while the remaining views still render.
func (e *Exporter) Export(set *view.Set) ([]*Diagram, error) {
	var (
		diagrams []*Diagram
		errs     []error
	)
	for _, v := range set.Views() {
		d, err := e.ExportView(v)
		if err != nil {
			e.logger.Warn("view failed to render", "key", v.Key, "err", err)
			errs = append(errs, fmt.Errorf("view %s: %w", v.Key, err))
			continue
		}
		diagrams = append(diagrams, d)
	}
	return diagrams, errors.Join(errs...)
}

// ExportView renders a single view, including its animation frames.
func (e *Exporter) ExportView(v *view.View) (*Diagram, error) {
	if v == nil {
		return nil, c4errors.New(c4errors.ErrCodeInvalidInput, "view is nil")
	}
	if e.sequence && v.Kind == view.KindDynamic {
		return e.exportSequence(v)
	}

	def, err := e.render(v)
	if err != nil {
		return nil, err
	}
	d := &Diagram{Key: v.Key, Definition: def}

	for i, fv := range frames(v) {
		fdef, err := e.render(fv)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i+1, err)
		}
		d.Frames = append(d.Frames, &Diagram{Key: fmt.Sprintf("%s-%d", v.Key, i+1), Definition: fdef})
	}

	e.logger.Debug("rendered view", "key", v.Key, "kind", v.Kind, "frames", len(d.Frames))
	return d, nil
}

// render produces the boundary-nested diagram for v.
func (e *Exporter) render(v *view.View) (string, error) {
	r := e.newRenderer(v)
	r.writeHeader()
	if err := r.writeBody(); err != nil {
		return "", err
	}
	if err := r.writeRelationships(); err != nil {
		return "", err
	}
	r.writeFooter()
	return r.finish()
}
