// Package errors provides error handling for the ozfs engine.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping, and hint/detail support without importing two error packages,
// and defines the sentinel errors shared across the zoning pipeline.
//
// Usage:
//
//	if err := decode(doc); err != nil {
//	    return errors.Wrap(err, "decoding zoning document")
//	}
//
//	if errors.Is(err, errors.ErrUnknownUnit) {
//	    // fall back to default unit
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Error creation and wrapping.
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing hints and details.
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection.
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll

	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Join combines multiple errors into one. Nil members are dropped.
var Join = crdb.Join

// AssertionFailedf marks programmer errors that should never occur in a
// well-formed pipeline run.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the zoning engine. Check with errors.Is; wrap with
// errors.Wrap to add context while preserving the sentinel.
var (
	// ErrNotFound indicates a requested parcel, district, or file does not exist.
	ErrNotFound = New("not found")

	// ErrInvalidDocument indicates a zoning or building document that does not
	// match the expected OZFS shape.
	ErrInvalidDocument = New("invalid document")

	// ErrUnknownUnit indicates a measurement unit with no conversion entry.
	ErrUnknownUnit = New("unknown unit")

	// ErrNoParcelGeometry indicates a parcel whose edges cannot form a polygon.
	ErrNoParcelGeometry = New("no parcel geometry")

	// ErrUnsupportedSchema indicates a document schema this engine cannot read.
	ErrUnsupportedSchema = New("unsupported schema")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidDocument reports whether err is or wraps ErrInvalidDocument.
func IsInvalidDocument(err error) bool {
	return err != nil && Is(err, ErrInvalidDocument)
}

// IsUnknownUnit reports whether err is or wraps ErrUnknownUnit.
func IsUnknownUnit(err error) bool {
	return err != nil && Is(err, ErrUnknownUnit)
}

// NewNotFound creates a not-found error with a formatted message.
func NewNotFound(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// WrapInvalidDocument wraps err as an invalid-document error with context.
func WrapInvalidDocument(err error, context string) error {
	return Wrap(Wrap(ErrInvalidDocument, err.Error()), context)
}
