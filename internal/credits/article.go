package credits

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-credits/pkg/interfaces"
)

// NormalizeTitleKey converts a display title or user name into its stored
// key form: trimmed, with spaces replaced by underscores.
func NormalizeTitleKey(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// NewArticleID builds an article identifier from a display title.
func NewArticleID(namespace int, title string) interfaces.ArticleID {
	return interfaces.ArticleID{
		Namespace: namespace,
		TitleKey:  NormalizeTitleKey(title),
	}
}

// ValidateArticle ensures the identifier can be queried.
func ValidateArticle(article interfaces.ArticleID) error {
	err := validation.ValidateStruct(&article,
		validation.Field(&article.Namespace, validation.Min(0)),
		validation.Field(&article.TitleKey, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("credits.article.title_required", "title is required")
			}
			return nil
		})),
	)
	return wrapValidationError(err)
}
