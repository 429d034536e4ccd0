package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/TimurManjosov/tpformat/internal/formatter"
	"github.com/TimurManjosov/tpformat/internal/match"
	"github.com/TimurManjosov/tpformat/internal/render"
	"github.com/TimurManjosov/tpformat/internal/trigger"
	"github.com/TimurManjosov/tpformat/internal/validation"
)

// documentRequest is the JSON form of a document submission. Raw XML bodies
// are accepted as well.
type documentRequest struct {
	Content string `json:"content"`
}

// formatResponse is the response for POST /v1/format
type formatResponse struct {
	Expression string `json:"expression"`
	Mode       string `json:"mode"`
	ETag       string `json:"etag"`
}

type jsonLogicResponse struct {
	Rule match.Rule `json:"rule"`
}

type celResponse struct {
	Expression string `json:"expression"`
}

type evaluateRequest struct {
	Content string         `json:"content"`
	Request *match.Request `json:"request"`
	Engine  string         `json:"engine,omitempty"` // "jsonlogic" (default) or "cel"
}

type evaluateResponse struct {
	Matched bool `json:"matched"`
}

// errBodyHandled signals that readDocument already wrote an error response.
var errBodyHandled = errors.New("request body rejected")

// handleFormat handles POST /v1/format
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	content, err := s.readDocument(w, r)
	if err != nil {
		return
	}

	expr, ok := s.inspect(w, r, content)
	if !ok {
		return
	}

	text := expr.String()
	asText := wantsText(r)
	etag := computeETag(expr.Mode, asText, text)
	w.Header().Set("Vary", "Accept")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)

	if asText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, text)
		return
	}

	writeJSON(w, http.StatusOK, formatResponse{
		Expression: text,
		Mode:       string(expr.Mode),
		ETag:       etag,
	})
}

// handleInspect handles POST /v1/inspect
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	content, err := s.readDocument(w, r)
	if err != nil {
		return
	}
	expr, ok := s.inspect(w, r, content)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, expr)
}

// handleJSONLogic handles POST /v1/jsonlogic
func (s *Server) handleJSONLogic(w http.ResponseWriter, r *http.Request) {
	content, err := s.readDocument(w, r)
	if err != nil {
		return
	}
	tp, err := s.formatter.Parse(content)
	if err != nil {
		MalformedDocumentError(w, r, err.Error())
		return
	}
	rule, err := match.Compile(tp, s.formatter.Policy())
	if err != nil {
		RenderError(w, r, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jsonLogicResponse{Rule: rule})
}

// handleCEL handles POST /v1/cel
func (s *Server) handleCEL(w http.ResponseWriter, r *http.Request) {
	content, err := s.readDocument(w, r)
	if err != nil {
		return
	}
	tp, err := s.formatter.Parse(content)
	if err != nil {
		MalformedDocumentError(w, r, err.Error())
		return
	}
	src, err := match.CompileCEL(tp, s.formatter.Policy())
	if err != nil {
		RenderError(w, r, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, celResponse{Expression: src})
}

// handleEvaluate handles POST /v1/evaluate
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxDocumentBytes)

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.bodyError(w, r, err)
		return
	}
	if req.Request == nil {
		BadRequestError(w, r, ErrCodeMissingField, "request is required")
		return
	}
	if result := validation.ValidateRequest(*req.Request); !result.Valid {
		ValidationError(w, r, "Validation failed for one or more fields", result.Errors)
		return
	}

	engine, err := match.EngineByName(req.Engine)
	if err != nil {
		BadRequestError(w, r, ErrCodeBadRequest, err.Error())
		return
	}

	tp, err := s.formatter.Parse(req.Content)
	if err != nil {
		MalformedDocumentError(w, r, err.Error())
		return
	}
	matched, err := engine.Evaluate(tp, s.formatter.Policy(), *req.Request)
	if err != nil {
		if errors.Is(err, match.ErrInvalidRule) || errors.Is(err, match.ErrInvalidExpression) {
			InternalError(w, r, err.Error())
			return
		}
		RenderError(w, r, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{Matched: matched})
}

// inspect runs the formatter and writes the error response on failure.
func (s *Server) inspect(w http.ResponseWriter, r *http.Request, content string) (*render.Expression, bool) {
	expr, err := s.formatter.Inspect(content)
	switch {
	case err == nil:
		return expr, true
	case errors.Is(err, formatter.ErrParse):
		MalformedDocumentError(w, r, err.Error())
	default:
		RenderError(w, r, err.Error())
	}
	return nil, false
}

// readDocument extracts the document text from either a JSON envelope
// ({"content": "..."}) or a raw body.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxDocumentBytes)

	if isJSON(r) {
		var req documentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.bodyError(w, r, err)
			return "", errBodyHandled
		}
		return req.Content, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.bodyError(w, r, err)
		return "", errBodyHandled
	}
	return string(body), nil
}

func (s *Server) bodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RequestTooLargeError(w, r, fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit))
		return
	}
	if isJSON(r) {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	BadRequestError(w, r, ErrCodeBadRequest, "could not read request body")
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsText(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/plain")
}

// computeETag returns a strong ETag for one representation of a rendered
// expression. Two empty expressions differ by mode, and the text and JSON
// bodies never share a tag.
func computeETag(mode trigger.Mode, asText bool, text string) string {
	h := xxhash.New()
	_, _ = h.WriteString(string(mode))
	if asText {
		_, _ = h.WriteString("\x00text\x00")
	} else {
		_, _ = h.WriteString("\x00json\x00")
	}
	_, _ = h.WriteString(text)
	return fmt.Sprintf(`"%016x"`, h.Sum64())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
