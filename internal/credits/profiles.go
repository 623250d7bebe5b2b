package credits

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-credits/pkg/interfaces"
)

// NewPageRepository builds the go-repository-bun repository used for user page
// lookups. Pages are identified by their title key.
func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "page_title"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Title
		},
	})
}

// BunProfileResolver reports whether a contributor has a user page by looking
// it up in the page table.
type BunProfileResolver struct {
	pages     repository.Repository[*Page]
	namespace int
	urls      ProfileURLBuilder
}

// NewBunProfileResolver constructs a resolver over the user namespace.
func NewBunProfileResolver(db *bun.DB, namespace int, urls ProfileURLBuilder) *BunProfileResolver {
	return NewBunProfileResolverWithCache(db, namespace, urls, nil, nil)
}

// NewBunProfileResolverWithCache wraps user page lookups with go-repository-cache.
// Only page existence is cached, contributor lists are always read fresh.
func NewBunProfileResolverWithCache(db *bun.DB, namespace int, urls ProfileURLBuilder, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProfileResolver {
	if urls == nil {
		urls = NewPathProfileURLBuilder("", "")
	}
	return &BunProfileResolver{
		pages:     wrapWithCache(NewPageRepository(db), cacheService, keySerializer),
		namespace: namespace,
		urls:      urls,
	}
}

// Profile resolves the user page for name. A missing page is not an error.
func (r *BunProfileResolver) Profile(ctx context.Context, name string) (interfaces.ProfileLink, error) {
	key := NormalizeTitleKey(name)
	if key == "" {
		return interfaces.ProfileLink{}, nil
	}

	_, err := r.pages.GetByIdentifier(ctx, key,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_namespace = ?", r.namespace)
		}),
	)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return interfaces.ProfileLink{}, nil
		}
		return interfaces.ProfileLink{}, wrapProfileError(err)
	}

	url, err := r.urls.UserPageURL(key)
	if err != nil {
		return interfaces.ProfileLink{}, wrapProfileError(err)
	}
	return interfaces.ProfileLink{URL: url, Exists: true}, nil
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

var _ interfaces.ProfileResolver = (*BunProfileResolver)(nil)
