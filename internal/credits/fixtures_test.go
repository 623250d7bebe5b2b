package credits_test

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-credits/internal/credits"
	"github.com/goliatone/go-credits/pkg/interfaces"
	"github.com/goliatone/go-credits/pkg/testsupport"
)

type historyFixture struct {
	Pages     []credits.Page     `json:"pages"`
	Actors    []credits.Actor    `json:"actors"`
	Revisions []credits.Revision `json:"revisions"`
}

// newHistoryDB returns an in-memory database seeded with testdata/history.json.
func newHistoryDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := testsupport.NewBunSQLiteDB(ctx, "credits", credits.Models()...)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var fixture historyFixture
	testsupport.DecodeFixture(t, "history.json", &fixture)

	if _, err := db.NewInsert().Model(&fixture.Pages).Exec(ctx); err != nil {
		t.Fatalf("insert pages: %v", err)
	}
	if _, err := db.NewInsert().Model(&fixture.Actors).Exec(ctx); err != nil {
		t.Fatalf("insert actors: %v", err)
	}
	if _, err := db.NewInsert().Model(&fixture.Revisions).Exec(ctx); err != nil {
		t.Fatalf("insert revisions: %v", err)
	}
	return db
}

func mainPage() interfaces.ArticleID {
	return credits.NewArticleID(0, "Main Page")
}
