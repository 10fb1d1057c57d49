// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/CLI/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrEmptyPool indicates a selection was requested over zero candidates.
	// Recoverable: callers render an explicit "no quotes" state.
	ErrEmptyPool = errors.New("empty quote pool")

	// ErrImport indicates an external document was rejected during import.
	ErrImport = errors.New("import rejected")

	// ErrStorageCorrupt indicates durable state was present but unparsable.
	// Load paths treat this as "absent" and fall back to the seed set.
	ErrStorageCorrupt = errors.New("storage corrupt")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// ImportReason identifies why an imported document was rejected.
type ImportReason string

const (
	// ImportMalformedJSON means the document did not parse as JSON at all.
	ImportMalformedJSON ImportReason = "malformed JSON"

	// ImportNotAnArray means the document parsed but the top-level value
	// was not an array of quotes.
	ImportNotAnArray ImportReason = "top-level value is not an array"
)

// ImportError provides context for rejected imports.
type ImportError struct {
	Reason ImportReason
	Cause  error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import rejected: %s: %v", e.Reason, e.Cause)
	}

	return fmt.Sprintf("import rejected: %s", e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ImportError) Unwrap() error {
	return ErrImport
}

// NewImportError creates an import error with context.
func NewImportError(reason ImportReason, cause error) error {
	return &ImportError{Reason: reason, Cause: cause}
}

// EmptyPoolError provides context for empty-pool selection failures.
type EmptyPoolError struct {
	Category string
}

// Error implements the error interface.
func (e *EmptyPoolError) Error() string {
	if e.Category != "" && e.Category != CategoryAll {
		return fmt.Sprintf("no quotes in category %q", e.Category)
	}

	return "no quotes available"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *EmptyPoolError) Unwrap() error {
	return ErrEmptyPool
}

// NewEmptyPoolError creates an empty-pool error for the given filter.
func NewEmptyPoolError(category string) error {
	return &EmptyPoolError{Category: category}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	Key    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// StorageCorruptError provides context for unparsable durable state.
type StorageCorruptError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("storage corrupt for key %q: %v", e.Key, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *StorageCorruptError) Unwrap() error {
	return ErrStorageCorrupt
}

// NewStorageCorruptError creates a storage corruption error with context.
func NewStorageCorruptError(key string, cause error) error {
	return &StorageCorruptError{Key: key, Cause: cause}
}

// IsEmptyPool checks if an error is an empty-pool error.
func IsEmptyPool(err error) bool {
	return errors.Is(err, ErrEmptyPool)
}

// IsImport checks if an error is an import rejection.
func IsImport(err error) bool {
	return errors.Is(err, ErrImport)
}

// IsStorageCorrupt checks if an error is a storage corruption error.
func IsStorageCorrupt(err error) bool {
	return errors.Is(err, ErrStorageCorrupt)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
