package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-credits/pkg/interfaces"
)

const (
	rootModule     = "credits"
	rendererModule = "credits.renderer"
	tagsModule     = "credits.tags"
	storageModule  = "credits.storage"
	commandsModule = "credits.commands"
)

const (
	fieldNamespace = "namespace"
	fieldTitleKey  = "title_key"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RendererLogger returns the logger namespace reserved for the contributors renderer.
func RendererLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rendererModule)
}

// TagsLogger returns the logger namespace reserved for tag expansion.
func TagsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tagsModule)
}

// StorageLogger returns the logger namespace reserved for database wiring.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithArticle enriches the logger with the article coordinates. A nil article
// or blank title leaves the logger untouched.
func WithArticle(logger interfaces.Logger, article *interfaces.ArticleID) interfaces.Logger {
	if article == nil || strings.TrimSpace(article.TitleKey) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{
		fieldNamespace: article.Namespace,
		fieldTitleKey:  article.TitleKey,
	})
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
