package domain

import "errors"

// ErrUnknownOption is returned when an option ID is not part of the catalog.
var ErrUnknownOption = errors.New("unknown option")

// ErrUnknownCategory is returned when a category ID is not part of the catalog.
var ErrUnknownCategory = errors.New("unknown category")

// ErrDuplicateOption is returned when two options share the same ID anywhere in the catalog.
var ErrDuplicateOption = errors.New("duplicate option id")

// ErrDuplicateCategory is returned when two categories share the same ID.
var ErrDuplicateCategory = errors.New("duplicate category id")

// ErrEmptyCatalog is returned when a catalog has no categories.
var ErrEmptyCatalog = errors.New("catalog has no categories")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
