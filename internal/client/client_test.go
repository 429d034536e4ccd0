package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/tpformat/internal/api"
	"github.com/TimurManjosov/tpformat/internal/formatter"
	"github.com/TimurManjosov/tpformat/internal/match"
	"github.com/TimurManjosov/tpformat/internal/testutil"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

func newTestClient(t *testing.T, opts ...formatter.Option) *Client {
	t.Helper()
	srv := api.NewServer(formatter.New(opts...), zerolog.Nop(), api.Options{})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func TestClient_Format(t *testing.T) {
	c := newTestClient(t)

	got, err := c.Format(context.Background(), testutil.EndToEndDocument)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if got != testutil.EndToEndExpression {
		t.Errorf("Format() =\n%s\nwant\n%s", got, testutil.EndToEndExpression)
	}
}

func TestClient_FormatMalformed(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Format(context.Background(), testutil.MalformedDocument)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("Format() error = %v, want ErrMalformedDocument", err)
	}
}

func TestClient_RenderFailureIsAPIError(t *testing.T) {
	c := newTestClient(t, formatter.WithPolicy(trigger.StrictPolicy{}))

	_, err := c.Format(context.Background(), testutil.AmbiguousDocument)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Format() error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != "RENDER_FAILED" {
		t.Errorf("unexpected API error: %+v", apiErr)
	}
}

func TestClient_InspectAndEvaluate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	expr, err := c.Inspect(ctx, testutil.EndToEndDocument)
	if err != nil {
		t.Fatalf("Inspect() failed: %v", err)
	}
	if len(expr.Groups) != 2 {
		t.Errorf("len(Groups) = %d, want 2", len(expr.Groups))
	}

	rule, err := c.JSONLogic(ctx, testutil.EndToEndDocument)
	if err != nil {
		t.Fatalf("JSONLogic() failed: %v", err)
	}
	if rule == nil {
		t.Error("JSONLogic() returned nil rule")
	}

	sc := uint8(0)
	for _, engine := range []string{"", match.EngineCEL} {
		matched, err := c.Evaluate(ctx, testutil.EndToEndDocument, engine, match.Request{Method: "INVITE", SessionCase: &sc})
		if err != nil {
			t.Fatalf("Evaluate(%q) failed: %v", engine, err)
		}
		if !matched {
			t.Errorf("Evaluate(%q) = false, want true", engine)
		}
	}

	src, err := c.CEL(ctx, testutil.EndToEndDocument)
	if err != nil {
		t.Fatalf("CEL() failed: %v", err)
	}
	if !strings.Contains(src, `method == "INVITE"`) {
		t.Errorf("CEL() = %s", src)
	}
}

func TestClient_SendsRequestID(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expression":""}`))
	}))
	defer ts.Close()

	if _, err := NewClient(ts.URL).Format(context.Background(), "<TriggerPoint/>"); err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if len(got) != 36 {
		t.Errorf("X-Request-Id = %q, want a UUID", got)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).Format(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Errorf("unexpected API error: %+v", apiErr)
	}
}
