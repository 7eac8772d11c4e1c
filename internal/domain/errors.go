package domain

import "errors"

var (
	// ErrNoMatch is returned in strict mode when a patch matches nothing.
	ErrNoMatch = errors.New("patch matched nothing")
	// ErrUnexpectedMatchCount is returned when a patch's expect count differs from its matches.
	ErrUnexpectedMatchCount = errors.New("unexpected match count")
	// ErrGuardMismatch is returned when deleted lines do not contain the guard text.
	ErrGuardMismatch = errors.New("deleted lines do not contain guard text")
	// ErrFileChanged is returned when the target changed between read and write.
	ErrFileChanged = errors.New("file changed on disk while patching")
	// ErrInvalidPatch is returned when a patch is missing required fields.
	ErrInvalidPatch = errors.New("invalid patch")
	// ErrUnknownPatchKind is returned for kinds without a handler.
	ErrUnknownPatchKind = errors.New("unknown patch kind")
)
