package credits

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-credits/internal/logging"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

const (
	// DefaultTagName is the markup tag handled by the renderer.
	DefaultTagName = "credits"
	// DefaultCSSClass is the class set on the wrapping element.
	DefaultCSSClass = "credits"
	// DefaultSeparator joins contributor entries when the tag sets none.
	DefaultSeparator = ", "

	separatorAttr = "separator"
)

var creditsTemplate = template.Must(template.New("credits").Parse(
	`<div class="{{ .Class }}">` +
		`{{- range $i, $c := .Contributors -}}` +
		`{{- if $i }}{{ $.Separator }}{{ end -}}` +
		`{{- if $c.URL }}<a href="{{ $c.URL }}">{{ $c.Name }}</a>{{ else }}{{ $c.Name }}{{ end -}}` +
		`{{- end -}}` +
		`</div>`,
))

// Contributor is a rendered list entry. URL is empty when the contributor has
// no user page.
type Contributor struct {
	Name string
	URL  string
}

// Renderer produces the contributor list for the credits tag.
type Renderer struct {
	store            interfaces.ContributorStore
	profiles         interfaces.ProfileResolver
	logger           interfaces.Logger
	tagName          string
	cssClass         string
	defaultSeparator string
	source           string
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithProfileResolver sets the resolver used to link contributors to user pages.
func WithProfileResolver(resolver interfaces.ProfileResolver) RendererOption {
	return func(r *Renderer) {
		r.profiles = resolver
	}
}

// WithLogger attaches the logger used for diagnostics.
func WithLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTagName overrides the tag name used by RegisterTag.
func WithTagName(name string) RendererOption {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			r.tagName = strings.ToLower(trimmed)
		}
	}
}

// WithCSSClass overrides the class of the wrapping element.
func WithCSSClass(class string) RendererOption {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(class); trimmed != "" {
			r.cssClass = trimmed
		}
	}
}

// WithDefaultSeparator overrides the separator used when the tag sets none.
func WithDefaultSeparator(separator string) RendererOption {
	return func(r *Renderer) {
		if separator != "" {
			r.defaultSeparator = separator
		}
	}
}

// NewRenderer constructs a renderer reading contributors from store.
func NewRenderer(store interfaces.ContributorStore, opts ...RendererOption) *Renderer {
	r := &Renderer{
		store:            store,
		logger:           logging.NoOp(),
		tagName:          DefaultTagName,
		cssClass:         DefaultCSSClass,
		defaultSeparator: DefaultSeparator,
		source:           "credits.renderer/" + uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TagName reports the tag this renderer registers.
func (r *Renderer) TagName() string {
	return r.tagName
}

// Definition returns the tag definition installed by RegisterTag.
func (r *Renderer) Definition() interfaces.TagDefinition {
	return interfaces.TagDefinition{
		Name:        r.tagName,
		Description: "Lists the registered contributors of the current article",
		Source:      r.source,
		Handler:     r.Render,
	}
}

// RegisterTag installs Render as the handler for the credits tag. Calling it
// again with the same registry is a no-op.
func (r *Renderer) RegisterTag(registry interfaces.TagRegistry) error {
	if registry == nil {
		return ErrRegistryRequired
	}
	if existing, ok := registry.Get(r.tagName); ok && existing.Source == r.source {
		return nil
	}
	return registry.Register(r.Definition())
}

// Render builds the credits fragment for the article in ctx. It never fails:
// every error degrades to an empty list and a log entry.
func (r *Renderer) Render(ctx interfaces.TagContext, attrs map[string]string, _ string) (out template.HTML) {
	goCtx := ctx.Context
	if goCtx == nil {
		goCtx = context.Background()
	}
	logger := logging.WithArticle(r.baseLogger(goCtx), ctx.Article)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("credits.render.panic", "error", fmt.Sprint(rec))
			out = r.emptyFragment()
		}
	}()

	separator := r.resolveSeparator(attrs)

	if ctx.Article == nil {
		logger.Debug("credits.render.missing_article")
		return r.emptyFragment()
	}

	names := r.fetch(goCtx, logger, *ctx.Article)
	contributors := r.resolveProfiles(goCtx, logger, names)

	html, err := r.execute(contributors, separator)
	if err != nil {
		logging.WithError(logger, err).Error("credits.render.template_failed")
		return r.emptyFragment()
	}

	logger.Debug("credits.render.completed", "contributors", len(contributors))
	return html
}

// FetchContributors returns the article's contributors, or an empty list when
// the article is invalid or the store fails.
func (r *Renderer) FetchContributors(ctx context.Context, article interfaces.ArticleID) []string {
	if ctx == nil {
		ctx = context.Background()
	}
	return r.fetch(ctx, logging.WithArticle(r.baseLogger(ctx), &article), article)
}

func (r *Renderer) fetch(ctx context.Context, logger interfaces.Logger, article interfaces.ArticleID) []string {
	if err := ValidateArticle(article); err != nil {
		logging.WithError(logger, err).Debug("credits.render.invalid_article")
		return []string{}
	}
	if r.store == nil {
		logging.WithError(logger, ErrStoreRequired).Error("credits.render.store_failed")
		return []string{}
	}

	names, err := r.store.FetchContributors(ctx, article)
	if err != nil {
		logging.WithError(logger, err).Error("credits.render.store_failed")
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}

func (r *Renderer) resolveProfiles(ctx context.Context, logger interfaces.Logger, names []string) []Contributor {
	contributors := make([]Contributor, 0, len(names))
	for _, name := range names {
		entry := Contributor{Name: name}
		if r.profiles != nil {
			link, err := r.profiles.Profile(ctx, name)
			if err != nil {
				logger.Warn("credits.render.profile_failed", "contributor", name, "error", err)
			} else if link.Exists {
				entry.URL = link.URL
			}
		}
		contributors = append(contributors, entry)
	}
	return contributors
}

func (r *Renderer) resolveSeparator(attrs map[string]string) string {
	if attrs == nil {
		return r.defaultSeparator
	}
	if separator, ok := attrs[separatorAttr]; ok && separator != "" {
		return separator
	}
	return r.defaultSeparator
}

func (r *Renderer) execute(contributors []Contributor, separator string) (template.HTML, error) {
	var buf bytes.Buffer
	err := creditsTemplate.Execute(&buf, map[string]any{
		"Class":        r.cssClass,
		"Separator":    separator,
		"Contributors": contributors,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) emptyFragment() template.HTML {
	return template.HTML(`<div class="` + template.HTMLEscapeString(r.cssClass) + `"></div>`)
}

func (r *Renderer) baseLogger(ctx context.Context) interfaces.Logger {
	logger := r.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
