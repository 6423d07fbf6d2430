package repositories

import "errors"

// Store-level error kinds. Services translate these; they never reach HTTP callers.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrOwnerMissing   = errors.New("owning user does not exist")
)
