// Package apperr holds the failure kinds shared across the engines and
// repositories. Every operation returns one of these sentinels (wrapped
// with context) instead of propagating raw store faults; the transport
// layer maps them onto status codes.
package apperr

import "errors"

var (
	// ErrUnknownOwner means the referenced user id does not resolve to an
	// existing user document.
	ErrUnknownOwner = errors.New("unknown owner")

	// ErrMissingCreator means the owner field was absent from the request
	// itself, as opposed to not resolving.
	ErrMissingCreator = errors.New("creator id is required")

	// ErrSetNotFound means no category/favourite document exists under
	// the normalized title for that owner.
	ErrSetNotFound = errors.New("set not found")

	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidTags means the tag filter was missing or empty.
	ErrInvalidTags = errors.New("tags must be a non-empty list")
)
