package credits

import (
	"context"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	rendering "github.com/goliatone/go-credits/internal/credits"
	"github.com/goliatone/go-credits/internal/di"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

// ArticleID exports the article identifier.
type ArticleID = interfaces.ArticleID

// TagRegistry exports the markup-extension registry contract.
type TagRegistry = interfaces.TagRegistry

// TagContext exports the render-time context handed to tag handlers.
type TagContext = interfaces.TagContext

// Renderer exports the credits tag renderer.
type Renderer = rendering.Renderer

// Option customises module wiring.
type Option = di.Option

// NewArticleID builds an article identifier from a display title.
func NewArticleID(namespace int, title string) ArticleID {
	return rendering.NewArticleID(namespace, title)
}

// WithDB injects the database handle the contributor query runs against.
func WithDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithRouteManager supplies the go-urlkit manager used for user page URLs.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return di.WithRouteManager(manager)
}

// WithTagRegistry installs the credits tag into a host owned registry.
func WithTagRegistry(registry TagRegistry) Option {
	return di.WithTagRegistry(registry)
}

// Module represents the credits runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a credits module using the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Renderer returns the credits renderer.
func (m *Module) Renderer() *Renderer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Renderer()
}

// Registry returns the registry the credits tag is installed in.
func (m *Module) Registry() TagRegistry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.TagRegistry()
}

// Contributors returns the contributors of an article, most recent first.
// Failures yield an empty list.
func (m *Module) Contributors(ctx context.Context, article ArticleID) []string {
	return m.Renderer().FetchContributors(ctx, article)
}

// Expand replaces every registered tag in content, rendering it for article.
func (m *Module) Expand(ctx context.Context, content string, article *ArticleID) (string, error) {
	return m.container.Expander().Expand(ctx, content, article)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
