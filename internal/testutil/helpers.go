// Package testutil holds fixtures and HTTP helpers shared by tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// EndToEndDocument is a CNF trigger point with two groups whose rendering is
// EndToEndExpression.
const EndToEndDocument = `<?xml version="1.0" encoding="UTF-8"?>
<TriggerPoint>
  <ConditionTypeCNF>1</ConditionTypeCNF>
  <SPT>
    <Group>0</Group>
    <Method>INVITE</Method>
  </SPT>
  <SPT>
    <Group>1</Group>
    <SessionCase>0</SessionCase>
  </SPT>
  <SPT>
    <ConditionNegated>1</ConditionNegated>
    <Group>1</Group>
    <RequestURI>sip:test@example.com</RequestURI>
  </SPT>
</TriggerPoint>`

const EndToEndExpression = `(
  (method is INVITE)
)
and
(
  (session case is mobile originated)
  or
  (not (request URI is sip:test@example.com))
)`

// AmbiguousDocument declares both normal forms; only the strict policy rejects it.
const AmbiguousDocument = `<TriggerPoint>
  <ConditionTypeCNF>1</ConditionTypeCNF>
  <ConditionTypeDNF>1</ConditionTypeDNF>
  <SPT><Group>0</Group><Method>REGISTER</Method></SPT>
</TriggerPoint>`

// MalformedDocument is missing its required Group element.
const MalformedDocument = `<TriggerPoint><SPT><Method>INVITE</Method></SPT></TriggerPoint>`

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method      string
	Path        string
	Body        string
	ContentType string // defaults to application/json when Body is set
	Headers     map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		contentType := r.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
