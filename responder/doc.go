// Package responder shapes every handler outcome into an HTTP response:
// JSON payloads, {"message": ...} outcome messages, plain text, and the
// {"error": {"message": ..., "stack": ...}} envelope written by the terminal
// error handler. Errors are logged through slog with a trace id before the
// response is emitted; stacks are only exposed in development mode.
package responder
