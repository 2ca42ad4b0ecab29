// Package router wraps the application handler in the middleware chain every
// request passes through: request ids, CORS, panic recovery, logging, rate
// limiting, timeouts, optional OpenAPI validation and Prometheus metrics.
// ExampleNew_customOptions demonstrates how to combine built-in and custom
// middlewares.
package router
