package interfaces

import "context"

// ArticleID identifies a wiki article by namespace and title key.
type ArticleID struct {
	Namespace int
	TitleKey  string
}

// ContributorStore reads the distinct registered contributors of an article,
// most recent contributor first.
type ContributorStore interface {
	FetchContributors(ctx context.Context, article ArticleID) ([]string, error)
}

// ProfileLink describes the user page of a contributor.
type ProfileLink struct {
	URL    string
	Exists bool
}

// ProfileResolver resolves whether a contributor has a user page and where it lives.
type ProfileResolver interface {
	Profile(ctx context.Context, name string) (ProfileLink, error)
}
