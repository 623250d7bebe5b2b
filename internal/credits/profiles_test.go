package credits_test

import (
	"context"
	"strings"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-credits/internal/credits"
)

const userNamespace = 2

func TestBunProfileResolver_Profile(t *testing.T) {
	resolver := credits.NewBunProfileResolver(newHistoryDB(t), userNamespace, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		want   string
		exists bool
	}{
		{name: "Alice", want: "/wiki/User:Alice", exists: true},
		{name: "Carol Smith", want: "/wiki/User:Carol_Smith", exists: true},
		{name: "Bob"},
		{name: "Main Page"},
		{name: "  "},
	}

	for _, tc := range cases {
		link, err := resolver.Profile(ctx, tc.name)
		if err != nil {
			t.Fatalf("Profile(%q): %v", tc.name, err)
		}
		if link.Exists != tc.exists {
			t.Fatalf("Profile(%q).Exists = %v, want %v", tc.name, link.Exists, tc.exists)
		}
		if link.URL != tc.want {
			t.Fatalf("Profile(%q).URL = %q, want %q", tc.name, link.URL, tc.want)
		}
	}
}

func TestBunProfileResolver_WithCache(t *testing.T) {
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}

	resolver := credits.NewBunProfileResolverWithCache(
		newHistoryDB(t),
		userNamespace,
		credits.NewPathProfileURLBuilder("/w/", "User:"),
		cacheService,
		repocache.NewDefaultKeySerializer(),
	)

	for i := 0; i < 2; i++ {
		link, err := resolver.Profile(context.Background(), "Alice")
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
		if !link.Exists || link.URL != "/w/User:Alice" {
			t.Fatalf("unexpected link on lookup %d: %+v", i, link)
		}
	}
}

func TestBunProfileResolver_RendererIntegration(t *testing.T) {
	db := newHistoryDB(t)
	renderer := credits.NewRenderer(
		credits.NewBunContributorStore(db, credits.WithDenylist("MediaWiki default")),
		credits.WithProfileResolver(credits.NewBunProfileResolver(db, userNamespace, nil)),
	)

	got := renderer.Render(renderContext(), map[string]string{"separator": "; "}, "")
	want := `<div class="credits"><a href="/wiki/User:Alice">Alice</a>; <a href="/wiki/User:Carol_Smith">Carol Smith</a>; Bob</div>`
	if string(got) != want {
		t.Fatalf("Render() mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestPathProfileURLBuilder(t *testing.T) {
	builder := credits.NewPathProfileURLBuilder("", "")
	got, err := builder.UserPageURL("Jane_Doe")
	if err != nil {
		t.Fatalf("UserPageURL: %v", err)
	}
	if got != "/wiki/User:Jane_Doe" {
		t.Fatalf("unexpected url %q", got)
	}

	got, _ = credits.NewPathProfileURLBuilder("/people", "Profile:").UserPageURL("Q&A")
	if got != "/people/Profile:Q&A" {
		t.Fatalf("unexpected url %q", got)
	}

	got, _ = builder.UserPageURL("a/b?c")
	if got != "/wiki/User:a%2Fb%3Fc" {
		t.Fatalf("expected escaped path segment, got %q", got)
	}
}

func TestURLKitProfileURLBuilder(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "wiki",
				BaseURL: "https://wiki.example.org",
				Paths: map[string]string{
					"user": "/wiki/:title",
				},
			},
		},
	})

	builder := credits.NewURLKitProfileURLBuilder(credits.URLKitProfileURLOptions{Manager: manager})
	got, err := builder.UserPageURL("Alice")
	if err != nil {
		t.Fatalf("UserPageURL: %v", err)
	}
	if !strings.HasPrefix(got, "https://wiki.example.org/wiki/") || !strings.HasSuffix(got, "Alice") {
		t.Fatalf("unexpected url %q", got)
	}

	missing := credits.NewURLKitProfileURLBuilder(credits.URLKitProfileURLOptions{Manager: manager, Group: "docs"})
	if _, err := missing.UserPageURL("Alice"); err == nil {
		t.Fatal("expected error for unknown group")
	}

	unconfigured := credits.NewURLKitProfileURLBuilder(credits.URLKitProfileURLOptions{})
	if _, err := unconfigured.UserPageURL("Alice"); err == nil {
		t.Fatal("expected error without a route manager")
	}
}
