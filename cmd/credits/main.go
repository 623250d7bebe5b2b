package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-credits"
	"github.com/goliatone/go-credits/internal/commands"
	creditscmd "github.com/goliatone/go-credits/internal/commands/credits"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("credits: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("credits", flag.ContinueOnError)
	var (
		driver     = fs.String("driver", "sqlite3", "Database driver (sqlite3 or postgres)")
		dsn        = fs.String("dsn", "", "Primary database DSN")
		replicaDSN = fs.String("replica-dsn", "", "Read replica DSN, preferred over -dsn when set")
		namespace  = fs.Int("namespace", 0, "Namespace of the article")
		title      = fs.String("title", "", "Title of the article")
		separator  = fs.String("separator", "", "Separator between contributors (defaults to \", \")")
		filePath   = fs.String("file", "", "Page source to expand instead of printing the credits fragment")
		denylist   = fs.String("denylist", "", "Comma separated actor names to exclude")
		logLevel   = fs.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
		logFormat  = fs.String("log-format", "", "go-logger format (json, console, pretty); selects the go-logger provider")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*title) == "" {
		return fmt.Errorf("-title is required")
	}

	cfg := credits.DefaultConfig()
	cfg.Storage.Driver = *driver
	cfg.Storage.DSN = *dsn
	cfg.Storage.ReplicaDSN = *replicaDSN
	cfg.Credits.Denylist = splitList(*denylist)
	cfg.Logging.Level = *logLevel
	if *logFormat != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = *logFormat
	}
	if err := cfg.Storage.RequireDSN(); err != nil {
		return fmt.Errorf("-dsn or -replica-dsn: %w", err)
	}

	module, err := credits.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	logger := commands.CommandLogger(module.Container().LoggerProvider(), "cli")

	if *filePath == "" {
		handler := creditscmd.NewRenderCreditsHandler(module.Renderer(), stdout, logger)
		return handler.Execute(ctx, creditscmd.RenderCreditsCommand{
			Namespace: *namespace,
			Title:     *title,
			Separator: *separator,
		})
	}

	source, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("read page source: %w", err)
	}
	handler := creditscmd.NewExpandPageHandler(module.Container().Expander(), stdout, logger)
	return handler.Execute(ctx, creditscmd.ExpandPageCommand{
		Namespace: *namespace,
		Title:     *title,
		Content:   string(source),
	})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
