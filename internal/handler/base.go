package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/deppfellow/media-library/internal/errs"
	"github.com/deppfellow/media-library/internal/middleware"
	"github.com/deppfellow/media-library/internal/server"
	"github.com/deppfellow/media-library/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// It is embedded by concrete handlers (e.g., AlbumHandler, HealthHandler) so they can
// access shared resources via *server.Server (config, logger, db, redis, job, etc.).
type Handler struct {
	server *server.Server

	// now is the clock used for "today" in forms and the index page.
	now func() time.Time
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s, now: time.Now}
}

// --- Generic typed handler plumbing -----------------------------------------

// HandlerFunc represents a typed endpoint function that:
//
// - receives a validated request payload (Req)
// - returns a response (Res) or an error
//
// Req must satisfy validation.Validatable and is typically a POINTER type,
// e.g. *validation.AlbumForm, because Echo's Bind requires a pointer.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler defines how a successful handler result is written to the
// HTTP response, and how observability attributes are attached for it.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on response type and/or result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// InvalidFormHandler is implemented by response handlers that answer field
// errors by showing the form again instead of failing the request.
type InvalidFormHandler interface {
	HandleInvalid(c echo.Context, req interface{}, err *errs.HTTPError) error
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// HTMLResponseHandler renders a page through the Echo renderer.
type HTMLResponseHandler struct {
	status int
	page   string
}

func (h HTMLResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.Render(h.status, h.page, result)
}

func (h HTMLResponseHandler) GetOperation() string {
	return "handler_html"
}

func (h HTMLResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		txn.AddAttribute("html.page", h.page)
	}
}

// FormResponseHandler redirects after a successful submission (POST/redirect/GET)
// and re-renders the form through invalid when the submission has field errors.
type FormResponseHandler struct {
	location string
	invalid  func(c echo.Context, req interface{}, err *errs.HTTPError) error
}

func (h FormResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.Redirect(http.StatusSeeOther, h.location)
}

func (h FormResponseHandler) GetOperation() string {
	return "handler_form"
}

func (h FormResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		txn.AddAttribute("redirect.location", h.location)
	}
}

func (h FormResponseHandler) HandleInvalid(c echo.Context, req interface{}, err *errs.HTTPError) error {
	return h.invalid(c, req, err)
}

// handleInvalid gives form handlers a chance to answer field errors.
// It reports whether the error was handled.
func handleInvalid(c echo.Context, req interface{}, err error, responseHandler ResponseHandler) (bool, error) {
	formHandler, ok := responseHandler.(InvalidFormHandler)
	if !ok {
		return false, nil
	}

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || !httpErr.HasFieldErrors() {
		return false, nil
	}

	return true, formHandler.HandleInvalid(c, req, httpErr)
}

// handleRequest is the unified handler function that eliminates code duplication
//
// It is the shared execution pipeline for all handlers.
// It centralizes:
//
// - request binding + validation
// - structured logging (with request context)
// - New Relic tracing attributes and error reporting
// - timing metrics (validation duration, handler duration, total duration)
// - response writing (json / html / redirect)
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	// New Relic transaction is set by the New Relic Echo middleware (nrecho).
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	// The context-enhanced logger already carries request_id, ip and trace ids.
	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		if handled, renderErr := handleInvalid(c, req, err, responseHandler); handled {
			return renderErr
		}

		// Return error to let global error handler format the response.
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}

		if handled, renderErr := handleInvalid(c, req, err, responseHandler); handled {
			return renderErr
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a JSON handler with validation, error handling, logging, metrics, and tracing.
//
// newReq builds a fresh payload per request so concurrent requests never
// bind into the same value.
//
//	api.POST("/albums", handler.Handle(h, a.CreateAlbumAPI, http.StatusCreated, a.newForm))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandlePage wraps a handler whose result is rendered as the named HTML page.
func HandlePage[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	page string,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, HTMLResponseHandler{status: http.StatusOK, page: page})
	}
}

// HandleForm wraps a form submission. Success redirects to location with
// 303 See Other; field errors are passed to invalid so the form can be shown
// again with the submitted values.
func HandleForm[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	location string,
	newReq func() Req,
	invalid func(c echo.Context, req Req, err *errs.HTTPError) error,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, FormResponseHandler{
			location: location,
			invalid: func(c echo.Context, req interface{}, err *errs.HTTPError) error {
				return invalid(c, req.(Req), err)
			},
		})
	}
}
