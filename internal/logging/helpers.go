package logging

import (
	"github.com/goliatone/go-credits/pkg/interfaces"
)

const fieldError = "error"

// WithFields returns logger enriched with fields when it implements
// interfaces.FieldsLogger. Nil values are skipped and the caller's map is
// never retained.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	scoped := make(map[string]any, len(fields))
	for key, value := range fields {
		if key == "" || value == nil {
			continue
		}
		scoped[key] = value
	}
	if len(scoped) == 0 {
		return logger
	}
	return fl.WithFields(scoped)
}

// WithError attaches err under the "error" key. A nil error is a no-op.
func WithError(logger interfaces.Logger, err error) interfaces.Logger {
	if err == nil {
		return logger
	}
	return WithFields(logger, map[string]any{fieldError: err})
}
