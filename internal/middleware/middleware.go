// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request logging, request ids, CORS, New Relic tracing,
// form rate limiting, panic recovery and the global error handler.
package middleware
