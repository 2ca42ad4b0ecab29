package responder

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorBody is the inner object of an error payload. Stack is only populated
// in development mode.
type ErrorBody struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorEnvelope is the JSON document written for every error response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Message is the JSON document used for plain outcome messages such as
// "Customer updated successfully" or "Customer not found".
type Message struct {
	Message string `json:"message"`
}

func (r *Responder) statusMetaFor(status int) statusMeta {
	meta, ok := r.statusMetadata[status]
	if !ok {
		meta = statusMeta{}
	}
	return normalizeStatusMeta(status, meta)
}

func (r *Responder) buildEnvelope(status int, err error, meta statusMeta) ErrorEnvelope {
	body := ErrorBody{Message: err.Error()}
	if status >= http.StatusInternalServerError && !r.development {
		// server-side detail stays in the logs
		body.Message = meta.title
	}
	if r.development {
		body.Stack = fmt.Sprintf("%+v", err)
	}
	return ErrorEnvelope{Error: body}
}

func (r *Responder) logProblem(req *http.Request, meta statusMeta, err error, traceID string, status int, msgs []string) {
	logger := r.logger().With("error", err.Error(), "traceId", traceID, "status", status)
	if req != nil && req.URL != nil {
		logger = logger.With("method", req.Method, "path", req.URL.Path)
	}
	if len(msgs) > 0 {
		logger = logger.With("logMessages", msgs)
	}
	if r.development {
		logger = logger.With("stack", fmt.Sprintf("%+v", err))
	}
	logger.Log(requestContext(req), meta.logLevel, meta.logMsg)
}

func (r *Responder) traceIDFor(req *http.Request) string {
	if r.traceID != nil && req != nil {
		if id := r.traceID(req); id != "" {
			return id
		}
	}
	return newTraceID()
}

func declaredStatus(err error) (int, bool) {
	var se StatusError
	if errors.As(err, &se) {
		if status := se.HTTPStatus(); status >= 400 && status <= 599 {
			return status, true
		}
	}
	return 0, false
}

func normalizeStatusMeta(status int, meta statusMeta) statusMeta {
	if meta.logLevel == 0 {
		if status >= http.StatusInternalServerError {
			meta.logLevel = slog.LevelError
		} else {
			meta.logLevel = slog.LevelWarn
		}
	}
	if meta.title == "" {
		meta.title = http.StatusText(status)
	}
	if meta.logMsg == "" {
		meta.logMsg = meta.title
	}
	return meta
}
