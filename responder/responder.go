package responder

import (
	"log/slog"
	"net/http"
)

const (
	jsonContentType = "application/json"
	textContentType = "text/plain; charset=utf-8"

	// TraceHeader carries the identifier that ties an error response to its
	// log record.
	TraceHeader = "X-Trace-Id"
)

// ErrorClassifierFunc inspects an error and returns the HTTP status that should
// be used for the response. The boolean indicates whether the error was
// classified and prevents the generic internal server handler from running.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// StatusError is implemented by errors that declare their own HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}

// TraceIDFunc returns the correlation identifier of a request, or an empty
// string when none is known.
type TraceIDFunc func(req *http.Request) string

// ResponderOption follows the functional options pattern used by NewResponder
// to configure optional collaborators.
type ResponderOption func(*Responder)

type statusMeta struct {
	title    string
	logLevel slog.Level
	logMsg   string
}

// StatusMetadata allows callers to customise how particular HTTP status codes
// are logged and titled in error payloads.
type StatusMetadata struct {
	Title    string
	LogLevel slog.Level
	LogMsg   string
}

// Responder centralises error handling, JSON rendering, and logging for HTTP
// handlers. Every error payload has the shape {"error":{"message":...}} and is
// logged with a trace identifier before it is written.
type Responder struct {
	log             *slog.Logger
	statusMetadata  map[int]statusMeta
	errorClassifier ErrorClassifierFunc
	traceID         TraceIDFunc
	development     bool
}

// NewResponder constructs a Responder with default status metadata and the
// global slog logger.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		log:            slog.Default(),
		statusMetadata: defaultStatusMetadata(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects a custom slog logger for error reporting.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithErrorClassifier installs a classifier used by HandleErrors to derive the
// HTTP status code from returned errors. It runs before StatusError is
// consulted.
func WithErrorClassifier(classifier ErrorClassifierFunc) ResponderOption {
	return func(r *Responder) {
		r.errorClassifier = classifier
	}
}

// WithTraceIDFunc makes error responses reuse the request's correlation id
// instead of minting a fresh ULID.
func WithTraceIDFunc(fn TraceIDFunc) ResponderOption {
	return func(r *Responder) {
		r.traceID = fn
	}
}

// WithDevelopment toggles development mode. In development mode error
// payloads expose the underlying message of server errors and a stack trace.
func WithDevelopment(enabled bool) ResponderOption {
	return func(r *Responder) {
		r.development = enabled
	}
}

// WithStatusMetadata overrides the error metadata used for a specific HTTP
// status code.
func WithStatusMetadata(status int, meta StatusMetadata) ResponderOption {
	return func(r *Responder) {
		if r.statusMetadata == nil {
			r.statusMetadata = make(map[int]statusMeta)
		}
		r.statusMetadata[status] = normalizeStatusMeta(status, statusMeta{
			title:    meta.Title,
			logLevel: meta.LogLevel,
			logMsg:   meta.LogMsg,
		})
	}
}

// Logger returns the slog logger used internally by the responder.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

// Development reports whether development mode is enabled.
func (r *Responder) Development() bool {
	return r != nil && r.development
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Responder) classifyError(err error) (int, bool) {
	if r.errorClassifier != nil {
		if status, ok := r.errorClassifier(err); ok {
			return status, true
		}
	}
	return declaredStatus(err)
}

func defaultStatusMetadata() map[int]statusMeta {
	return map[int]statusMeta{
		http.StatusInternalServerError: {title: http.StatusText(http.StatusInternalServerError), logLevel: slog.LevelError, logMsg: "Internal Server Error"},
		http.StatusBadRequest:          {title: http.StatusText(http.StatusBadRequest), logLevel: slog.LevelWarn, logMsg: "Bad Request"},
		http.StatusNotFound:            {title: http.StatusText(http.StatusNotFound), logLevel: slog.LevelWarn, logMsg: "Not Found"},
	}
}
