package responder

import (
	"net/http"

	"github.com/drblury/swiftmove/jsonutil"
)

// HandleAPIError renders the error envelope for the supplied HTTP status and
// logs the failure using the configured logger.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	traceID := r.traceIDFor(req)
	r.logProblem(req, meta, err, traceID, status, logMsg)

	if w == nil {
		return
	}
	w.Header().Set(TraceHeader, traceID)
	r.respondWithJSON(w, status, r.buildEnvelope(status, err, meta))
}

// HandleInternalServerError is a shortcut that reports a 500 status code.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleBadRequestError reports malformed requests using HTTP 400.
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleErrors is the terminal error handler: it derives the status from the
// classifier or from a StatusError in the chain, falling back to 500, then
// logs and responds.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error, msgs ...string) {
	if err == nil {
		return
	}

	if status, handled := r.classifyError(err); handled {
		r.HandleAPIError(w, req, status, err, msgs...)
		return
	}

	r.HandleInternalServerError(w, req, err, msgs...)
}

// RespondWithJSON serialises the provided value and writes it to the response
// using the supplied status code.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	if w == nil {
		return
	}
	r.respondWithJSON(w, status, v)
}

// RespondWithMessage writes {"message": msg} with the supplied status code.
func (r *Responder) RespondWithMessage(w http.ResponseWriter, req *http.Request, status int, msg string) {
	r.RespondWithJSON(w, req, status, Message{Message: msg})
}

// RespondWithText writes a plain text body.
func (r *Responder) RespondWithText(w http.ResponseWriter, req *http.Request, status int, text string) {
	if w == nil {
		return
	}
	r.writeResponse(w, status, textContentType, []byte(text))
}

func (r *Responder) respondWithJSON(w http.ResponseWriter, status int, payload any) {
	body, err := r.marshalPayload(payload)
	if err != nil {
		r.logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	r.writeResponse(w, status, jsonContentType, body)
}

func (r *Responder) marshalPayload(payload any) ([]byte, error) {
	data, err := jsonutil.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

func (r *Responder) writeResponse(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}
