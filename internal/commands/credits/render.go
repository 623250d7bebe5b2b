package creditscmd

import (
	"context"
	"html/template"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-credits/internal/commands"
	"github.com/goliatone/go-credits/internal/credits"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

const (
	renderCreditsMessageType = "credits.render"
	expandPageMessageType    = "credits.expand"
)

// TagRenderer renders a single credits tag.
type TagRenderer interface {
	Render(ctx interfaces.TagContext, attrs map[string]string, body string) template.HTML
}

// PageExpander expands every registered tag in page source.
type PageExpander interface {
	Expand(ctx context.Context, content string, article *interfaces.ArticleID) (string, error)
}

// RenderCreditsCommand requests the credits fragment of one article.
type RenderCreditsCommand struct {
	Namespace int    `json:"namespace"`
	Title     string `json:"title"`
	Separator string `json:"separator,omitempty"`
}

// Type implements command.Message.
func (RenderCreditsCommand) Type() string { return renderCreditsMessageType }

// Validate ensures the article coordinates are usable.
func (m RenderCreditsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Namespace, validation.Min(0)),
		validation.Field(&m.Title, validation.Required, validation.By(notBlank)),
	)
}

// Article returns the identifier the command targets.
func (m RenderCreditsCommand) Article() interfaces.ArticleID {
	return credits.NewArticleID(m.Namespace, m.Title)
}

// ExpandPageCommand requests expansion of every registered tag in Content,
// rendered as part of the given article.
type ExpandPageCommand struct {
	Namespace int    `json:"namespace"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Type implements command.Message.
func (ExpandPageCommand) Type() string { return expandPageMessageType }

// Validate ensures the article coordinates are usable. Empty content is allowed.
func (m ExpandPageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Namespace, validation.Min(0)),
		validation.Field(&m.Title, validation.Required, validation.By(notBlank)),
	)
}

// Article returns the identifier the command targets.
func (m ExpandPageCommand) Article() interfaces.ArticleID {
	return credits.NewArticleID(m.Namespace, m.Title)
}

func notBlank(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return validation.NewError("credits.command.title_required", "title is required")
	}
	return nil
}

// RenderCreditsHandler writes the credits fragment of an article to out.
type RenderCreditsHandler struct {
	inner *commands.Handler[RenderCreditsCommand]
}

// NewRenderCreditsHandler constructs a handler over the supplied renderer.
func NewRenderCreditsHandler(renderer TagRenderer, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[RenderCreditsCommand]) *RenderCreditsHandler {
	exec := func(ctx context.Context, msg RenderCreditsCommand) error {
		article := msg.Article()
		attrs := map[string]string{}
		if msg.Separator != "" {
			attrs["separator"] = msg.Separator
		}
		html := renderer.Render(interfaces.TagContext{Context: ctx, Article: &article}, attrs, "")
		_, err := io.WriteString(out, string(html)+"\n")
		return err
	}

	handlerOpts := []commands.HandlerOption[RenderCreditsCommand]{
		commands.WithLogger[RenderCreditsCommand](logger),
		commands.WithOperation[RenderCreditsCommand]("credits.render"),
		commands.WithMessageFields(func(msg RenderCreditsCommand) map[string]any {
			return map[string]any{"namespace": msg.Namespace, "title": msg.Title}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderCreditsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderCreditsCommand].
func (h *RenderCreditsHandler) Execute(ctx context.Context, msg RenderCreditsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExpandPageHandler writes the expanded page source to out.
type ExpandPageHandler struct {
	inner *commands.Handler[ExpandPageCommand]
}

// NewExpandPageHandler constructs a handler over the supplied expander.
func NewExpandPageHandler(expander PageExpander, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[ExpandPageCommand]) *ExpandPageHandler {
	exec := func(ctx context.Context, msg ExpandPageCommand) error {
		article := msg.Article()
		expanded, err := expander.Expand(ctx, msg.Content, &article)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, expanded)
		return err
	}

	handlerOpts := []commands.HandlerOption[ExpandPageCommand]{
		commands.WithLogger[ExpandPageCommand](logger),
		commands.WithOperation[ExpandPageCommand]("credits.expand"),
		commands.WithMessageFields(func(msg ExpandPageCommand) map[string]any {
			return map[string]any{"namespace": msg.Namespace, "title": msg.Title, "content_bytes": len(msg.Content)}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExpandPageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExpandPageCommand].
func (h *ExpandPageHandler) Execute(ctx context.Context, msg ExpandPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
