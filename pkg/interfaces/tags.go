package interfaces

import (
	"context"
	"html/template"
	"time"
)

// TagRegistry is the markup-extension registry exposed by the host renderer.
// Implementations must be safe for concurrent use.
type TagRegistry interface {
	// Register installs a tag definition. Registering a name twice returns an error.
	Register(definition TagDefinition) error

	// Get returns the definition stored for the tag name.
	Get(name string) (TagDefinition, bool)

	// List exposes the registered definitions.
	List() []TagDefinition

	// Remove deletes the tag. Removing an unknown tag is a no-op.
	Remove(name string)
}

// TagDefinition binds a tag name to the handler that renders it.
type TagDefinition struct {
	Name        string
	Description string
	// Source identifies the component that installed the definition.
	Source  string
	Handler TagHandler
}

// TagHandler renders a single tag occurrence. Attributes carry the raw tag
// attributes and body the text between the opening and closing tags.
type TagHandler func(ctx TagContext, attrs map[string]string, body string) template.HTML

// TagContext carries render-time metadata for a tag invocation.
type TagContext struct {
	Context context.Context
	// Article is the page currently being rendered. Nil when the host could not
	// resolve one.
	Article *ArticleID
}

// ParsedTag is a tag occurrence discovered in page source. Start and End are
// byte offsets of the whole occurrence, closing tag included, in the content
// passed to Extract.
type ParsedTag struct {
	Name  string
	Attrs map[string]string
	Body  string
	Start int
	End   int
}

// TagParser extracts occurrences of the named tags from page source,
// replacing each with a placeholder.
type TagParser interface {
	Extract(content string, names []string) (placeholders string, tags []ParsedTag)
}

// TagMetrics records render telemetry for tag handlers.
type TagMetrics interface {
	ObserveRenderDuration(tag string, duration time.Duration)
	IncrementRenderError(tag string)
}
