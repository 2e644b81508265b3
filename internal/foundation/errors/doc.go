// Package errors provides classified error primitives used across cvlocalize.
//
// A ClassifiedError carries a category (what kind of failure), a severity and
// structured context. It wraps an optional cause so errors.Is still finds the
// domain sentinels (source.ErrDocumentNotFound, catalog.ErrUnsupportedLocale,
// ...) through it.
//
// Example usage:
//
//	err := errors.ValidationError("path 'pdf_path' must include 'LOCALE' keyword").
//		WithCause(localize.ErrMissingLocaleToken).
//		WithContext("key", "pdf_path").
//		Build()
package errors
