package main

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// json is a drop-in replacement for encoding/json, shared by
// the request decoding and response encoding paths.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Messages sent verbatim on the failure paths of the api.
const (
	MsgResourceNotFound  = "Resource not found."
	MsgUnreadableRequest = "Unable to read request data"
	MsgNoBookFound       = "Book not found."
)

// APIError is the data model sent when an error occurred during request
// processing. The error field holds either a single message or the sorted
// list of "<field>: <message>" strings on validation failures.
type APIError struct {
	Error interface{} `json:"error"`
}

// NewAPIError wraps a failure message into the error envelope.
func NewAPIError(message string) *APIError {
	return &APIError{Error: message}
}

// NewValidationAPIError wraps field validation failures into the error
// envelope as a deterministic, lexicographically sorted list.
func NewValidationAPIError(verr ValidationError) *APIError {
	return &APIError{Error: verr.Messages()}
}

// CountResponse is the data model sent when the count endpoint succeeds.
type CountResponse struct {
	Total int64 `json:"total"`
}

// WriteJSONResponse is used to send a success api response to client.
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse is used to send the error envelope to client.
func WriteErrorResponse(w http.ResponseWriter, status int, errResp *APIError) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteTextResponse is used to send a plain text response to client. The
// delete success and the zero count responses are the only two non-json
// bodies of the api.
func WriteTextResponse(w http.ResponseWriter, status int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(text))
	return err
}

// CustomResponseWriter is a wrapper for http.ResponseWriter. It is
// used to record response details like status code and body size.
type CustomResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewCustomResponseWriter provides CustomResponseWriter with 200 as status code.
func NewCustomResponseWriter(rw http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{
		ResponseWriter: rw,
		code:           200,
	}
}

// WriteHeader implements http.WriteHeader interface.
func (cw *CustomResponseWriter) WriteHeader(code int) {
	if !cw.wrote {
		cw.code = code
		cw.wrote = true
		cw.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.Write interface.
func (cw *CustomResponseWriter) Write(bytes []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(cw.code)
	}

	n, err := cw.ResponseWriter.Write(bytes)
	cw.bytes += n
	return n, err
}

// Status returns the written status code.
func (cw *CustomResponseWriter) Status() int {
	return cw.code
}

// Bytes returns bytes written as response body.
func (cw *CustomResponseWriter) Bytes() int {
	return cw.bytes
}

// Unwrap returns native response writer and used by
// the http.ResponseController during its operation.
func (cw *CustomResponseWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
