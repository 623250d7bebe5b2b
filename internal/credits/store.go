package credits

import (
	"context"
	"strings"

	"github.com/goliatone/go-credits/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunContributorStore reads contributors from the page, revision and actor
// tables. The handle should point at a read replica.
type BunContributorStore struct {
	db       bun.IDB
	denylist []string
}

// StoreOption configures a BunContributorStore.
type StoreOption func(*BunContributorStore)

// WithDenylist excludes the named actors from every result.
func WithDenylist(names ...string) StoreOption {
	return func(s *BunContributorStore) {
		s.denylist = normalizeDenylist(append(s.denylist, names...))
	}
}

// NewBunContributorStore constructs a store over the supplied bun handle.
func NewBunContributorStore(db bun.IDB, opts ...StoreOption) *BunContributorStore {
	store := &BunContributorStore{db: db}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// FetchContributors returns the distinct registered actor names that revised
// the article, most recent contributor first.
func (s *BunContributorStore) FetchContributors(ctx context.Context, article interfaces.ArticleID) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreRequired
	}
	if err := ValidateArticle(article); err != nil {
		return nil, err
	}

	var names []string
	err := s.contributorsQuery(article).Scan(ctx, &names)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return dedupe(names), nil
}

// Denylist returns a copy of the excluded actor names.
func (s *BunContributorStore) Denylist() []string {
	return append([]string(nil), s.denylist...)
}

func (s *BunContributorStore) contributorsQuery(article interfaces.ArticleID) *bun.SelectQuery {
	q := s.db.NewSelect().
		TableExpr("page AS p").
		Join("JOIN revision AS r ON r.rev_page = p.page_id").
		Join("JOIN actor AS a ON a.actor_id = r.rev_actor").
		ColumnExpr("a.actor_name").
		Where("p.page_namespace = ?", article.Namespace).
		Where("p.page_title = ?", article.TitleKey).
		Where("r.rev_actor <> ?", uuid.Nil).
		Where("a.actor_user IS NOT NULL").
		Where("a.actor_user <> ?", uuid.Nil)

	if len(s.denylist) > 0 {
		q = q.Where("a.actor_name NOT IN (?)", bun.In(s.denylist))
	}

	// rev_id breaks timestamp ties so repeated reads return the same order
	return q.OrderExpr("r.rev_timestamp DESC").OrderExpr("r.rev_id DESC")
}

// dedupe keeps the first occurrence of each name.
func dedupe(names []string) []string {
	if len(names) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func normalizeDenylist(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

var _ interfaces.ContributorStore = (*BunContributorStore)(nil)
