package tags

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-credits/internal/logging"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

// Expander replaces registered extension tags in page source with the output
// of their handlers.
type Expander struct {
	registry interfaces.TagRegistry
	parser   interfaces.TagParser
	logger   interfaces.Logger
	metrics  interfaces.TagMetrics
}

// ExpanderOption customises expander behaviour.
type ExpanderOption func(*Expander)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ExpanderOption {
	return func(e *Expander) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.TagMetrics) ExpanderOption {
	return func(e *Expander) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

// WithParser overrides the parser used to extract tags.
func WithParser(parser interfaces.TagParser) ExpanderOption {
	return func(e *Expander) {
		if parser != nil {
			e.parser = parser
		}
	}
}

// NewExpander constructs an expander over the supplied registry.
func NewExpander(registry interfaces.TagRegistry, opts ...ExpanderOption) *Expander {
	expander := &Expander{
		registry: registry,
		parser:   NewParser(),
		logger:   logging.NoOp(),
		metrics:  NoOpMetrics(),
	}
	for _, opt := range opts {
		opt(expander)
	}
	return expander
}

// Expand renders every registered tag found in content for the given article.
// Unregistered tags are left untouched. A handler that panics is replaced by
// empty output and counted as a render error.
func (e *Expander) Expand(ctx context.Context, content string, article *interfaces.ArticleID) (string, error) {
	if e.registry == nil {
		return "", ErrRegistryRequired
	}
	if strings.TrimSpace(content) == "" {
		return content, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.ContextWithFields(ctx, map[string]any{"render_id": uuid.NewString()})

	logger := logging.WithArticle(logging.WithFields(e.baseLogger(ctx), map[string]any{
		"operation": "tags.expand",
	}), article)

	transformed, parsed := e.parser.Extract(content, registeredNames(e.registry))
	if len(parsed) == 0 {
		return transformed, nil
	}

	// assembled from tag offsets, placeholders in the page are never searched
	tagCtx := interfaces.TagContext{Context: ctx, Article: article}
	var out strings.Builder
	out.Grow(len(content))
	position := 0
	for idx, tag := range parsed {
		if tag.Start < position || tag.End < tag.Start || tag.End > len(content) {
			return "", fmt.Errorf("%w: %s at %d..%d", ErrInvalidTagOffsets, tag.Name, tag.Start, tag.End)
		}
		rendered, err := e.render(tagCtx, logger, idx, tag)
		if err != nil {
			rendered = ""
		}
		out.WriteString(content[position:tag.Start])
		out.WriteString(string(rendered))
		position = tag.End
	}
	out.WriteString(content[position:])
	output := out.String()

	logging.WithFields(logger, map[string]any{
		"tags": len(parsed),
	}).Debug("tags.expand.completed")
	return output, nil
}

// Render executes a single registered tag.
func (e *Expander) Render(ctx interfaces.TagContext, name string, attrs map[string]string, body string) (template.HTML, error) {
	if e.registry == nil {
		return "", ErrRegistryRequired
	}
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}
	logger := logging.WithArticle(e.baseLogger(ctx.Context), ctx.Article)
	return e.render(ctx, logger, 0, interfaces.ParsedTag{Name: name, Attrs: attrs, Body: body})
}

// Registry exposes the underlying tag registry.
func (e *Expander) Registry() interfaces.TagRegistry {
	return e.registry
}

func (e *Expander) render(ctx interfaces.TagContext, logger interfaces.Logger, idx int, tag interfaces.ParsedTag) (out template.HTML, err error) {
	def, ok := e.registry.Get(tag.Name)
	if !ok || def.Handler == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTag, tag.Name)
	}

	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		e.metrics.ObserveRenderDuration(def.Name, elapsed)

		fields := map[string]any{
			"tag":         def.Name,
			"index":       idx,
			"duration_ms": elapsed.Milliseconds(),
		}
		if rec := recover(); rec != nil {
			out = ""
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanicked, def.Name, rec)
		}
		if err != nil {
			e.metrics.IncrementRenderError(def.Name)
			fields["error"] = err
			logging.WithFields(logger, fields).Error("tags.expand.render_failed")
			return
		}
		logging.WithFields(logger, fields).Debug("tags.expand.render_succeeded")
	}()

	attrs := tag.Attrs
	if attrs == nil {
		attrs = map[string]string{}
	}
	return def.Handler(ctx, attrs, tag.Body), nil
}

func (e *Expander) baseLogger(ctx context.Context) interfaces.Logger {
	logger := e.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}

func registeredNames(registry interfaces.TagRegistry) []string {
	if named, ok := registry.(interface{ Names() []string }); ok {
		return named.Names()
	}
	defs := registry.List()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}
