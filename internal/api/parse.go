package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cookedfr/cookedfr/internal/schema"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ParseRequestBody decodes the request body into the provided value based on Content-Type.
// A missing Content-Type is treated as JSON.
func ParseRequestBody(r *http.Request, v interface{}) error {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	switch strings.ToLower(mediaType) {
	case "application/json", "":
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(v); err != nil {
			return &HTTPError{Status: http.StatusBadRequest, Message: schema.MessageInvalidName}
		}
		// The body must hold a single JSON value.
		if _, err := dec.Token(); err != io.EOF {
			return &HTTPError{Status: http.StatusBadRequest, Message: schema.MessageInvalidName}
		}
	case "application/msgpack", "application/x-msgpack":
		if err := msgpack.NewDecoder(r.Body).Decode(v); err != nil {
			return &HTTPError{Status: http.StatusBadRequest, Message: schema.MessageInvalidName}
		}
	default:
		return &HTTPError{Status: http.StatusUnsupportedMediaType, Message: schema.MessageUnsupportedContentType}
	}

	return nil
}

// ParseFortuneRequest parses and validates a FortuneRequest from the HTTP request.
func ParseFortuneRequest(r *http.Request) (*schema.FortuneRequest, error) {
	var raw schema.RawFortuneRequest

	if err := ParseRequestBody(r, &raw); err != nil {
		return nil, err
	}

	req, ok := raw.Validate()
	if !ok {
		return nil, &HTTPError{Status: http.StatusBadRequest, Message: schema.MessageInvalidName}
	}

	return &req, nil
}

// IsHTTPError checks whether an error is an *HTTPError.
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
