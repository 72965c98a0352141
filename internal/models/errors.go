package models

import "errors"

var (
	// ErrValidation indicates request input that cannot be parsed or is
	// missing required fields.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound indicates the record is absent from both tiers, or from
	// the tier an operation targets.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID indicates an id collision on create.
	ErrDuplicateID = errors.New("record id already exists")

	// ErrArchivedImmutable indicates a mutation attempted on a record that
	// is no longer resident in the hot tier. Archived records are read-only.
	ErrArchivedImmutable = errors.New("record is archived and immutable")

	// ErrStoreUnavailable indicates a storage adapter failure unrelated to
	// the record itself.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCorruptArchive indicates an archive entry that cannot be
	// decompressed or parsed.
	ErrCorruptArchive = errors.New("corrupt archive entry")
)
