package tags

import "errors"

var (
	// ErrDuplicateDefinition indicates an attempt to register a tag name twice.
	ErrDuplicateDefinition = errors.New("tags: duplicate definition")
	// ErrInvalidDefinition occurs when a definition has no name or handler.
	ErrInvalidDefinition = errors.New("tags: invalid definition")
	// ErrRegistryRequired is returned by an expander built without a registry.
	ErrRegistryRequired = errors.New("tags: registry is required")
	// ErrUnknownTag is returned when rendering a tag nobody registered.
	ErrUnknownTag = errors.New("tags: unknown tag")
	// ErrHandlerPanicked wraps a recovered handler panic.
	ErrHandlerPanicked = errors.New("tags: handler panicked")
	// ErrInvalidTagOffsets is returned when a parser reports tag offsets that
	// are out of order or outside the content.
	ErrInvalidTagOffsets = errors.New("tags: invalid tag offsets")
)
