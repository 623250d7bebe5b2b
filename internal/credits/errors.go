package credits

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrRegistryRequired is returned when RegisterTag receives a nil registry.
	ErrRegistryRequired = errors.New("credits: tag registry is required")
	// ErrStoreRequired is returned when the contributor store is not configured.
	ErrStoreRequired = errors.New("credits: contributor store is required")
)

const (
	storeUnavailableCode = "CREDITS_STORE_UNAVAILABLE"
	invalidArticleCode   = "CREDITS_INVALID_ARTICLE"
	profileLookupCode    = "CREDITS_PROFILE_LOOKUP_FAILED"
)

func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "contributor query failed").
		WithTextCode(storeUnavailableCode)
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid article").
		WithTextCode(invalidArticleCode)
}

func wrapProfileError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "profile lookup failed").
		WithTextCode(profileLookupCode)
}
