package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrStorageDriverRequired = errors.New("credits config: storage driver is required")
var ErrStorageDriverUnknown = errors.New("credits config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("credits config: storage dsn or replica dsn is required")
var ErrTagNameRequired = errors.New("credits config: tag name is required")
var ErrTagNameInvalid = errors.New("credits config: tag name contains invalid characters")
var ErrCSSClassRequired = errors.New("credits config: css class is required")
var ErrUserNamespaceInvalid = errors.New("credits config: user namespace must be zero or positive")
var ErrCacheTTLInvalid = errors.New("credits config: cache ttl must be positive when cache is enabled")
var ErrLoggingProviderUnknown = errors.New("credits config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("credits config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("credits config: logging format is invalid")

// DefaultUserNamespace is the wiki namespace holding user pages.
const DefaultUserNamespace = 2

// Config aggregates the settings for the credits module.
type Config struct {
	Storage  StorageConfig
	Credits  CreditsConfig
	Profiles ProfilesConfig
	Cache    CacheConfig
	Logging  LoggingConfig
}

// StorageConfig selects the database the contributor query runs against.
// ReplicaDSN is preferred when set so reads stay off the primary.
type StorageConfig struct {
	Driver       string
	DSN          string
	ReplicaDSN   string
	MaxOpenConns int
}

// CreditsConfig controls tag registration and output.
type CreditsConfig struct {
	TagName          string
	CSSClass         string
	DefaultSeparator string
	// Denylist names maintenance and bot accounts excluded from every list.
	Denylist      []string
	UserNamespace int
}

// ProfilesConfig configures user page URL generation through go-urlkit.
type ProfilesConfig struct {
	RouteConfig *urlkit.Config
	RouteGroup  string
	RouteName   string
	TitleParam  string
	TitlePrefix string
}

// CacheConfig toggles caching of user page lookups.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the settings used when the host supplies none.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:       "sqlite3",
			MaxOpenConns: 4,
		},
		Credits: CreditsConfig{
			TagName:          "credits",
			CSSClass:         "credits",
			DefaultSeparator: ", ",
			Denylist:         []string{},
			UserNamespace:    DefaultUserNamespace,
		},
		Profiles: ProfilesConfig{
			RouteGroup:  "wiki",
			RouteName:   "user",
			TitleParam:  "title",
			TitlePrefix: "User:",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks. Storage is only checked when a driver
// or DSN is configured, hosts that inject their own *bun.DB can leave it blank.
func (cfg Config) Validate() error {
	if err := cfg.Storage.validate(); err != nil {
		return err
	}

	tag := strings.TrimSpace(cfg.Credits.TagName)
	if tag == "" {
		return ErrTagNameRequired
	}
	if !isValidTagName(tag) {
		return fmt.Errorf("%w: %s", ErrTagNameInvalid, tag)
	}
	if strings.TrimSpace(cfg.Credits.CSSClass) == "" {
		return ErrCSSClassRequired
	}
	if cfg.Credits.UserNamespace < 0 {
		return ErrUserNamespaceInvalid
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// ReadDSN returns the DSN reads should use, preferring the replica.
func (s StorageConfig) ReadDSN() string {
	if dsn := strings.TrimSpace(s.ReplicaDSN); dsn != "" {
		return dsn
	}
	return strings.TrimSpace(s.DSN)
}

// RequireDSN reports ErrStorageDSNRequired when neither DSN is set. Validate
// accepts a blank DSN because the host may inject its own *bun.DB, callers
// that open the connection themselves check this instead.
func (s StorageConfig) RequireDSN() error {
	if s.ReadDSN() == "" {
		return ErrStorageDSNRequired
	}
	return nil
}

func (s StorageConfig) validate() error {
	driver := normalize(s.Driver)
	if s.ReadDSN() == "" {
		return nil
	}
	if driver == "" {
		return ErrStorageDriverRequired
	}
	if !IsSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	return nil
}

// IsSupportedDriver reports whether the storage driver can be opened.
func IsSupportedDriver(driver string) bool {
	switch normalize(driver) {
	case "sqlite3", "sqlite", "postgres", "pg":
		return true
	default:
		return false
	}
}

func isValidTagName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
