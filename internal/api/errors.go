package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorCode is the machine-readable reason carried in every error body.
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidJSON     ErrorCode = "INVALID_JSON"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"

	// A document that does not parse, and one the mode policy refused.
	ErrCodeMalformedDocument ErrorCode = "MALFORMED_DOCUMENT"
	ErrCodeRenderFailed      ErrorCode = "RENDER_FAILED"
)

// codeStatus maps each code to the HTTP status it is sent with. Codes not
// listed are client errors.
var codeStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRenderFailed:    http.StatusUnprocessableEntity,
}

// Status returns the HTTP status code c is reported with.
func (c ErrorCode) Status() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusBadRequest
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Code      ErrorCode         `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// NewErrorResponse builds the body for code. Error holds the status text of
// the status the code is sent with.
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   http.StatusText(code.Status()),
		Message: message,
		Code:    code,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, resp *ErrorResponse) {
	resp.RequestID = middleware.GetReqID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code.Status())
	_ = json.NewEncoder(w).Encode(resp)
}

// ValidationError rejects a request description, one message per field.
func ValidationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	resp := NewErrorResponse(ErrCodeValidation, message)
	resp.Fields = fields
	writeError(w, r, resp)
}

func BadRequestError(w http.ResponseWriter, r *http.Request, code ErrorCode, message string) {
	writeError(w, r, NewErrorResponse(code, message))
}

// MalformedDocumentError reports a document that could not be parsed. The
// message is always the opaque parse failure text.
func MalformedDocumentError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, NewErrorResponse(ErrCodeMalformedDocument, message))
}

// RenderError reports a parsed document the renderer refused.
func RenderError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, NewErrorResponse(ErrCodeRenderFailed, message))
}

func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, NewErrorResponse(ErrCodeInternal, message))
}

func NotFoundError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, NewErrorResponse(ErrCodeNotFound, message))
}

func RequestTooLargeError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, NewErrorResponse(ErrCodeRequestTooLarge, message))
}

func RateLimitedError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, NewErrorResponse(ErrCodeRateLimited, message))
}
