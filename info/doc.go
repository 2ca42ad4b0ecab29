// Package info serves the routes that sit beside the entity API: the plain
// text banner at "/", liveness and readiness probes, build information and
// the OpenAPI documentation (Swagger UI at /api-docs, the document itself as
// JSON and YAML).
//
// BuildOpenAPI derives the document from the entity definitions, so the
// documentation and the request validator always describe the routes that are
// actually mounted.
//
// See ExampleInfoHandler_full for a runnable wiring of the handler and probes.
package info
