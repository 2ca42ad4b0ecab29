package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/drblury/swiftmove/jsonutil"
)

// ErrEmptyBody is reported when a request that needs a JSON body has none.
var ErrEmptyBody = errors.New("request body is required")

// ReadRequestBody parses the request body into the provided value and handles
// malformed content by returning a 400 error response.
func (r *Responder) ReadRequestBody(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := r.decodeRequestBody(req, v); err != nil {
		r.HandleBadRequestError(w, req, err, "failed to parse request body")
		return false
	}
	return true
}

func (r *Responder) decodeRequestBody(req *http.Request, v any) error {
	if req == nil || req.Body == nil || req.Body == http.NoBody {
		return ErrEmptyBody
	}
	if err := jsonutil.Decode(req.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
