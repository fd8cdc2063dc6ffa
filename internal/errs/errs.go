// Package errs defines the application's error types.
//
// HTTPError is the single error shape returned to clients: the HTML pages
// render it and the JSON API serializes it. FieldError carries form
// validation messages attached to a single input.
package errs
