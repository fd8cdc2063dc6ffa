package errs

import "strings"

// FieldError is a validation message attached to one form field.
//
//	{ "field": "date", "error": "Date purchased cannot be in the past" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate to Value.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional instruction for the client.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the application error type.
//
// Code is machine-friendly (e.g. "ALBUM_NOT_FOUND"), Message is shown to the
// user, Status is the HTTP status. Override marks messages that are safe to
// show verbatim. Errors holds per-field validation failures.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError, regardless of code.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// HasFieldErrors reports whether e carries per-field validation failures.
func (e *HTTPError) HasFieldErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// FieldMessages groups field errors by field name, preserving order.
// Templates use it to render messages next to each input.
func (e *HTTPError) FieldMessages() map[string][]string {
	messages := make(map[string][]string)
	if e == nil {
		return messages
	}
	for _, fe := range e.Errors {
		messages[fe.Field] = append(messages[fe.Field], fe.Error)
	}
	return messages
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
