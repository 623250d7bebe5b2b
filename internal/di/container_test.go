package di

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-credits/internal/credits"
	"github.com/goliatone/go-credits/internal/logging"
	"github.com/goliatone/go-credits/internal/logging/gologger"
	"github.com/goliatone/go-credits/internal/runtimeconfig"
	"github.com/goliatone/go-credits/pkg/interfaces"
	"github.com/goliatone/go-credits/pkg/testsupport"
)

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

func newSeededDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := testsupport.NewBunSQLiteDB(ctx, "di", credits.Models()...)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	article := credits.Page{ID: uuid.New(), Namespace: 0, Title: "Main_Page"}
	userPage := credits.Page{ID: uuid.New(), Namespace: runtimeconfig.DefaultUserNamespace, Title: "Alice"}
	aliceUser, bobUser, botUser := uuid.New(), uuid.New(), uuid.New()
	actors := []credits.Actor{
		{ID: uuid.New(), UserID: &aliceUser, Name: "Alice"},
		{ID: uuid.New(), UserID: &bobUser, Name: "Bob"},
		{ID: uuid.New(), UserID: &botUser, Name: "Maintenance bot"},
	}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	revisions := []credits.Revision{
		{ID: uuid.New(), PageID: article.ID, ActorID: actors[0].ID, Timestamp: base},
		{ID: uuid.New(), PageID: article.ID, ActorID: actors[1].ID, Timestamp: base.Add(time.Hour)},
		{ID: uuid.New(), PageID: article.ID, ActorID: actors[2].ID, Timestamp: base.Add(2 * time.Hour)},
	}

	pages := []credits.Page{article, userPage}
	if _, err := db.NewInsert().Model(&pages).Exec(ctx); err != nil {
		t.Fatalf("insert pages: %v", err)
	}
	if _, err := db.NewInsert().Model(&actors).Exec(ctx); err != nil {
		t.Fatalf("insert actors: %v", err)
	}
	if _, err := db.NewInsert().Model(&revisions).Exec(ctx); err != nil {
		t.Fatalf("insert revisions: %v", err)
	}
	return db
}

func TestNewContainer_WiresRendererAndExpander(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Credits.Denylist = []string{"Maintenance bot"}
	cfg.Cache.Enabled = true

	container, err := NewContainer(context.Background(), cfg,
		WithBunDB(newSeededDB(t)),
		WithLoggerProvider(noopProvider{}),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer container.Close()

	if _, ok := container.TagRegistry().Get("credits"); !ok {
		t.Fatal("expected credits tag to be registered")
	}

	article := credits.NewArticleID(0, "Main Page")
	got, err := container.Expander().Expand(context.Background(), `Authors: <credits separator=" / "/>`, &article)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := `Authors: <div class="credits">Bob / <a href="/wiki/User:Alice">Alice</a></div>`
	if got != want {
		t.Fatalf("Expand() mismatch\n got: %s\nwant: %s", got, want)
	}
}

type warnRecorder struct {
	warned []string
	fields []map[string]any
}

func (r *warnRecorder) GetLogger(string) interfaces.Logger { return r }

func (r *warnRecorder) Trace(string, ...any)                          {}
func (r *warnRecorder) Debug(string, ...any)                          {}
func (r *warnRecorder) Info(string, ...any)                           {}
func (r *warnRecorder) Warn(msg string, _ ...any)                     { r.warned = append(r.warned, msg) }
func (r *warnRecorder) Error(string, ...any)                          {}
func (r *warnRecorder) Fatal(string, ...any)                          {}
func (r *warnRecorder) WithContext(context.Context) interfaces.Logger { return r }

func (r *warnRecorder) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func TestNewContainer_LogsCacheInitFailure(t *testing.T) {
	original := newCacheService
	t.Cleanup(func() { newCacheService = original })
	cacheErr := errors.New("cache: capacity must be positive")
	newCacheService = func(repocache.Config) (repocache.CacheService, error) {
		return nil, cacheErr
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true
	recorder := &warnRecorder{}

	container, err := NewContainer(context.Background(), cfg,
		WithBunDB(newSeededDB(t)),
		WithLoggerProvider(recorder),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer container.Close()

	if container.cacheService != nil {
		t.Fatal("expected cache service to stay unset")
	}
	if len(recorder.warned) != 1 || recorder.warned[0] != "credits.cache.init_failed" {
		t.Fatalf("expected cache init warning, got %v", recorder.warned)
	}
	var logged bool
	for _, fields := range recorder.fields {
		if fields["error"] == cacheErr {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected error field on warning, got %v", recorder.fields)
	}

	article := credits.NewArticleID(0, "Main Page")
	if names := container.Renderer().FetchContributors(context.Background(), article); len(names) != 3 {
		t.Fatalf("expected renderer to keep working without cache, got %v", names)
	}
}

func TestNewContainer_RequiresStore(t *testing.T) {
	_, err := NewContainer(context.Background(), runtimeconfig.DefaultConfig(), WithLoggerProvider(noopProvider{}))
	if !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Credits.TagName = ""

	if _, err := NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrTagNameRequired) {
		t.Fatalf("expected ErrTagNameRequired, got %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(context.Background(), cfg, WithBunDB(newSeededDB(t)))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if logger := provider.GetLogger("credits.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestNewContainer_OpensStorageFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.ReplicaDSN = testsupport.MemoryDSN("di-replica")

	container, err := NewContainer(context.Background(), cfg, WithLoggerProvider(noopProvider{}))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.DB() == nil {
		t.Fatal("expected container to open a database")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestNewContainer_UsesRouteConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Profiles.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "wiki",
				BaseURL: "https://wiki.example.org",
				Paths: map[string]string{
					"user": "/wiki/:title",
				},
			},
		},
	}

	container, err := NewContainer(context.Background(), cfg,
		WithBunDB(newSeededDB(t)),
		WithLoggerProvider(noopProvider{}),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.RouteManager() == nil {
		t.Fatal("expected route manager to be built from config")
	}

	link, err := container.ProfileResolver().Profile(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if !link.Exists || !strings.HasPrefix(link.URL, "https://wiki.example.org/wiki/") {
		t.Fatalf("unexpected link %+v", link)
	}
}

func TestNewContainer_CustomStoreAndRegistry(t *testing.T) {
	store := stubStore{"Carol"}
	registry := &recordingRegistry{}

	container, err := NewContainer(context.Background(), runtimeconfig.DefaultConfig(),
		WithContributorStore(store),
		WithTagRegistry(registry),
		WithLoggerProvider(noopProvider{}),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if len(registry.defs) != 1 || registry.defs[0].Name != "credits" {
		t.Fatalf("expected credits tag in host registry, got %+v", registry.defs)
	}

	article := credits.NewArticleID(0, "Main Page")
	html := container.Renderer().Render(interfaces.TagContext{Context: context.Background(), Article: &article}, nil, "")
	if html != `<div class="credits">Carol</div>` {
		t.Fatalf("unexpected render %q", html)
	}
}

type stubStore []string

func (s stubStore) FetchContributors(context.Context, interfaces.ArticleID) ([]string, error) {
	return s, nil
}

type recordingRegistry struct {
	defs []interfaces.TagDefinition
}

func (r *recordingRegistry) Register(def interfaces.TagDefinition) error {
	r.defs = append(r.defs, def)
	return nil
}

func (r *recordingRegistry) Get(name string) (interfaces.TagDefinition, bool) {
	for _, def := range r.defs {
		if def.Name == name {
			return def, true
		}
	}
	return interfaces.TagDefinition{}, false
}

func (r *recordingRegistry) List() []interfaces.TagDefinition { return r.defs }

func (r *recordingRegistry) Remove(string) {}
