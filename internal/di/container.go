package di

import (
	"context"
	"errors"
	"os"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-credits/internal/credits"
	"github.com/goliatone/go-credits/internal/logging"
	"github.com/goliatone/go-credits/internal/logging/console"
	"github.com/goliatone/go-credits/internal/logging/gologger"
	"github.com/goliatone/go-credits/internal/runtimeconfig"
	"github.com/goliatone/go-credits/internal/storage"
	"github.com/goliatone/go-credits/internal/tags"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

// ErrDatabaseRequired is returned when neither a database nor a contributor
// store is available.
var ErrDatabaseRequired = errors.New("di: database or contributor store is required")

// Container wires the credits module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB  *bun.DB
	ownsDB bool

	routeManager  *urlkit.RouteManager
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	store    interfaces.ContributorStore
	profiles interfaces.ProfileResolver
	metrics  interfaces.TagMetrics
	registry interfaces.TagRegistry

	renderer *credits.Renderer
	expander *tags.Expander
}

// Option mutates the container before wiring.
type Option func(*Container)

// WithBunDB injects the database handle. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRouteManager supplies the go-urlkit manager used for user page URLs.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// WithCache supplies the cache service used for user page lookups, regardless
// of Config.Cache.Enabled.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithContributorStore replaces the bun backed contributor store.
func WithContributorStore(store interfaces.ContributorStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithProfileResolver replaces the bun backed profile resolver.
func WithProfileResolver(resolver interfaces.ProfileResolver) Option {
	return func(c *Container) {
		c.profiles = resolver
	}
}

// WithTagRegistry installs the credits tag into a host owned registry.
func WithTagRegistry(registry interfaces.TagRegistry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithTagMetrics wires the recorder used by the tag expander.
func WithTagMetrics(metrics interfaces.TagMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// NewContainer validates cfg and builds every collaborator.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureProfiles()

	if c.store == nil {
		if c.bunDB == nil {
			return nil, ErrDatabaseRequired
		}
		c.store = credits.NewBunContributorStore(c.bunDB, credits.WithDenylist(cfg.Credits.Denylist...))
	}

	c.renderer = credits.NewRenderer(c.store,
		credits.WithProfileResolver(c.profiles),
		credits.WithLogger(logging.RendererLogger(c.loggerProvider)),
		credits.WithTagName(cfg.Credits.TagName),
		credits.WithCSSClass(cfg.Credits.CSSClass),
		credits.WithDefaultSeparator(cfg.Credits.DefaultSeparator),
	)

	if c.registry == nil {
		c.registry = tags.NewRegistry()
	}
	if err := c.renderer.RegisterTag(c.registry); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.expander = tags.NewExpander(c.registry,
		tags.WithLogger(logging.TagsLogger(c.loggerProvider)),
		tags.WithMetrics(c.metrics),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.FromLogging(logCfg))
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB != nil || c.Config.Storage.ReadDSN() == "" {
		return nil
	}
	db, err := storage.Open(ctx, c.Config.Storage, storage.WithLogger(logging.StorageLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

var newCacheService = repocache.NewCacheService

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := newCacheService(cfg)
		if err != nil {
			logging.WithError(logging.ModuleLogger(c.loggerProvider, "credits.di"), err).
				Warn("credits.cache.init_failed", "ttl", cfg.TTL.String())
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureProfiles() {
	if c.profiles != nil || c.bunDB == nil {
		return
	}

	profilesCfg := c.Config.Profiles
	if c.routeManager == nil && profilesCfg.RouteConfig != nil {
		c.routeManager = urlkit.NewRouteManager(profilesCfg.RouteConfig)
	}

	var urls credits.ProfileURLBuilder
	if c.routeManager != nil {
		urls = credits.NewURLKitProfileURLBuilder(credits.URLKitProfileURLOptions{
			Manager:    c.routeManager,
			Group:      profilesCfg.RouteGroup,
			Route:      profilesCfg.RouteName,
			TitleParam: profilesCfg.TitleParam,
			Prefix:     profilesCfg.TitlePrefix,
		})
	} else {
		urls = credits.NewPathProfileURLBuilder("", profilesCfg.TitlePrefix)
	}

	c.profiles = credits.NewBunProfileResolverWithCache(c.bunDB, c.Config.Credits.UserNamespace, urls, c.cacheService, c.keySerializer)
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}

// LoggerProvider exposes the provider used for module loggers.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB returns the read handle, nil when the host supplied a custom store.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// RouteManager returns the go-urlkit manager, if any.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// ContributorStore returns the configured contributor store.
func (c *Container) ContributorStore() interfaces.ContributorStore {
	return c.store
}

// ProfileResolver returns the configured profile resolver.
func (c *Container) ProfileResolver() interfaces.ProfileResolver {
	return c.profiles
}

// Renderer returns the credits renderer.
func (c *Container) Renderer() *credits.Renderer {
	return c.renderer
}

// TagRegistry returns the registry holding the credits tag.
func (c *Container) TagRegistry() interfaces.TagRegistry {
	return c.registry
}

// Expander returns the tag expander bound to the registry.
func (c *Container) Expander() *tags.Expander {
	return c.expander
}
