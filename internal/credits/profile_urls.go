package credits

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// ProfileURLBuilder turns a user title key into the URL of the user page.
type ProfileURLBuilder interface {
	UserPageURL(titleKey string) (string, error)
}

const (
	defaultProfileBasePath = "/wiki/"
	defaultProfilePrefix   = "User:"
)

// PathProfileURLBuilder builds user page URLs by prefixing a base path.
type PathProfileURLBuilder struct {
	basePath string
	prefix   string
}

// NewPathProfileURLBuilder returns a builder producing basePath + prefix + key.
// Empty arguments fall back to "/wiki/" and "User:".
func NewPathProfileURLBuilder(basePath, prefix string) *PathProfileURLBuilder {
	if strings.TrimSpace(basePath) == "" {
		basePath = defaultProfileBasePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	if prefix == "" {
		prefix = defaultProfilePrefix
	}
	return &PathProfileURLBuilder{basePath: basePath, prefix: prefix}
}

// UserPageURL implements ProfileURLBuilder.
func (b *PathProfileURLBuilder) UserPageURL(titleKey string) (string, error) {
	return b.basePath + url.PathEscape(b.prefix+titleKey), nil
}

// URLKitProfileURLOptions configures the go-urlkit backed builder.
type URLKitProfileURLOptions struct {
	Manager    *urlkit.RouteManager
	Group      string
	Route      string
	TitleParam string
	Prefix     string
}

// URLKitProfileURLBuilder resolves user page URLs through a go-urlkit route.
type URLKitProfileURLBuilder struct {
	manager    *urlkit.RouteManager
	group      string
	route      string
	titleParam string
	prefix     string
}

// NewURLKitProfileURLBuilder constructs a builder for the configured route.
func NewURLKitProfileURLBuilder(opts URLKitProfileURLOptions) *URLKitProfileURLBuilder {
	if opts.Group == "" {
		opts.Group = "wiki"
	}
	if opts.Route == "" {
		opts.Route = "user"
	}
	if opts.TitleParam == "" {
		opts.TitleParam = "title"
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultProfilePrefix
	}
	return &URLKitProfileURLBuilder{
		manager:    opts.Manager,
		group:      strings.TrimSpace(opts.Group),
		route:      strings.TrimSpace(opts.Route),
		titleParam: strings.TrimSpace(opts.TitleParam),
		prefix:     opts.Prefix,
	}
}

// UserPageURL implements ProfileURLBuilder.
func (b *URLKitProfileURLBuilder) UserPageURL(titleKey string) (string, error) {
	if b == nil || b.manager == nil {
		return "", errors.New("credits: route manager not configured")
	}

	builder, err := b.builder()
	if err != nil {
		return "", err
	}
	builder.WithParam(b.titleParam, b.prefix+titleKey)
	return builder.Build()
}

// builder guards against go-urlkit panicking on unknown groups or routes.
func (b *URLKitProfileURLBuilder) builder() (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("credits: urlkit route %s.%s unavailable: %v", b.group, b.route, rec)
		}
	}()

	parts := strings.Split(b.group, ".")
	group := b.manager.Group(parts[0])
	for _, part := range parts[1:] {
		if group == nil {
			break
		}
		group = group.Group(part)
	}
	if group == nil {
		return nil, fmt.Errorf("credits: urlkit group %q not found", b.group)
	}
	return group.Builder(b.route), nil
}
