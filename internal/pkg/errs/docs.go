// Package errs holds the typed errors shared by the domain, the handlers and
// the HTTP adapter.
//
// Every type unwraps to one sentinel, so callers classify with errors.Is and
// never inspect messages:
//
//	ErrValueIsRequired   missing header, id or date; HTTP 400
//	ErrValueIsInvalid    malformed id, taken barcode; HTTP 400
//	ErrValueIsOutOfRange status id outside its table, latitude; HTTP 400
//	ErrObjectNotFound    unknown or foreign command, package or tour; HTTP 404
//
// Messages are kept on one line so they can be logged as a single attribute.
package errs
