// Package validation checks request descriptions before they are evaluated.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/TimurManjosov/tpformat/internal/match"
)

const (
	// MaxMethodLength is the maximum length for SIP methods
	MaxMethodLength = 32
	// MaxRequestURILength is the maximum length for request URIs
	MaxRequestURILength = 2048
	// MaxExtensionLength is the maximum length for session description extensions
	MaxExtensionLength = 256
	// MaxHeaders is the maximum number of headers per request
	MaxHeaders = 64
	// MaxHeaderValueLength is the maximum length for a header value
	MaxHeaderValueLength = 1024
	// MaxSessionCase is the highest session case code with a name
	MaxSessionCase = 3
)

// tokenPattern matches an RFC 3261 token, the grammar of methods and header names.
var tokenPattern = regexp.MustCompile("^[A-Za-z0-9.!%*_+`'~-]+$")

// ValidationResult holds the result of validation
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError adds a field error and marks the result as invalid
func (v *ValidationResult) AddError(field, message string) {
	v.Valid = false
	v.Errors[field] = message
}

// Merge combines another validation result into this one
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for field, message := range other.Errors {
		v.AddError(field, message)
	}
}

// ValidateRequest validates every field of req.
func ValidateRequest(req match.Request) *ValidationResult {
	result := NewValidationResult()
	result.Merge(ValidateMethod(req.Method))
	result.Merge(ValidateSessionCase(req.SessionCase))
	result.Merge(ValidateExtension(req.Extension))
	result.Merge(ValidateRequestURI(req.RequestURI))
	result.Merge(ValidateHeaders(req.Headers))
	return result
}

// ValidateMethod validates a SIP method
func ValidateMethod(method string) *ValidationResult {
	result := NewValidationResult()

	if method == "" {
		result.AddError("method", "Method is required")
		return result
	}
	if len(method) > MaxMethodLength {
		result.AddError("method", fmt.Sprintf("Method must not exceed %d characters", MaxMethodLength))
		return result
	}
	if !tokenPattern.MatchString(method) {
		result.AddError("method", "Method must be a SIP token")
	}
	return result
}

// ValidateSessionCase accepts an absent session case or one of the named codes.
func ValidateSessionCase(sc *uint8) *ValidationResult {
	result := NewValidationResult()

	if sc != nil && *sc > MaxSessionCase {
		result.AddError("sessionCase", fmt.Sprintf("Session case must be between 0 and %d", MaxSessionCase))
	}
	return result
}

// ValidateExtension validates a session description extension
func ValidateExtension(ext string) *ValidationResult {
	result := NewValidationResult()

	if !utf8.ValidString(ext) {
		result.AddError("extension", "Extension must be valid UTF-8")
		return result
	}
	if utf8.RuneCountInString(ext) > MaxExtensionLength {
		result.AddError("extension", fmt.Sprintf("Extension must not exceed %d characters", MaxExtensionLength))
	}
	return result
}

// ValidateRequestURI validates a request URI
func ValidateRequestURI(uri string) *ValidationResult {
	result := NewValidationResult()

	if !utf8.ValidString(uri) {
		result.AddError("requestURI", "Request URI must be valid UTF-8")
		return result
	}
	if len(uri) > MaxRequestURILength {
		result.AddError("requestURI", fmt.Sprintf("Request URI must not exceed %d bytes", MaxRequestURILength))
		return result
	}
	if strings.ContainsAny(uri, " \t\r\n") {
		result.AddError("requestURI", "Request URI must not contain whitespace")
	}
	return result
}

// ValidateHeaders validates header names and values. Errors are keyed by
// "headers.<name>".
func ValidateHeaders(headers map[string]string) *ValidationResult {
	result := NewValidationResult()

	if len(headers) > MaxHeaders {
		result.AddError("headers", fmt.Sprintf("At most %d headers are allowed", MaxHeaders))
		return result
	}

	seen := make(map[string]string, len(headers))
	for name, value := range headers {
		field := "headers." + name
		if !tokenPattern.MatchString(name) {
			result.AddError(field, "Header name must be a SIP token")
			continue
		}
		lower := strings.ToLower(name)
		if other, ok := seen[lower]; ok {
			result.AddError(field, "Header name duplicates "+other+" (names are case-insensitive)")
			continue
		}
		seen[lower] = name
		if !utf8.ValidString(value) || len(value) > MaxHeaderValueLength {
			result.AddError(field, fmt.Sprintf("Header value must be valid UTF-8 of at most %d bytes", MaxHeaderValueLength))
		}
	}
	return result
}
