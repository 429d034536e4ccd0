package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
	"github.com/TimurManjosov/tpformat/internal/client"
	"github.com/TimurManjosov/tpformat/internal/formatter"
	"github.com/TimurManjosov/tpformat/internal/match"
	"github.com/TimurManjosov/tpformat/internal/render"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// backend is where documents get rendered: in-process or on a server.
type backend interface {
	Format(ctx context.Context, content string, st render.Styler) (string, error)
	Inspect(ctx context.Context, content string) (*render.Expression, error)
	JSONLogic(ctx context.Context, content string) (match.Rule, error)
	CEL(ctx context.Context, content string) (string, error)
	Evaluate(ctx context.Context, content, engine string, req match.Request) (bool, error)
}

func (o *globalOptions) backend(cmd *cobra.Command) (backend, error) {
	baseURL, err := cli.ResolveBaseURL(o.cfg, o.baseURL, o.remote)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		return remoteBackend{c: client.NewClient(baseURL)}, nil
	}

	policy, err := trigger.PolicyByName(o.policy)
	if err != nil {
		return nil, err
	}
	return localBackend{f: formatter.New(
		formatter.WithPolicy(policy),
		formatter.WithLogger(o.logger(cmd)),
	)}, nil
}

type localBackend struct {
	f *formatter.Formatter
}

func (b localBackend) Format(_ context.Context, content string, st render.Styler) (string, error) {
	expr, err := b.f.Inspect(content)
	if err != nil {
		return "", err
	}
	return expr.Text(st), nil
}

func (b localBackend) Inspect(_ context.Context, content string) (*render.Expression, error) {
	return b.f.Inspect(content)
}

func (b localBackend) JSONLogic(_ context.Context, content string) (match.Rule, error) {
	tp, err := b.f.Parse(content)
	if err != nil {
		return nil, err
	}
	return match.Compile(tp, b.f.Policy())
}

func (b localBackend) CEL(_ context.Context, content string) (string, error) {
	tp, err := b.f.Parse(content)
	if err != nil {
		return "", err
	}
	return match.CompileCEL(tp, b.f.Policy())
}

func (b localBackend) Evaluate(_ context.Context, content, engine string, req match.Request) (bool, error) {
	e, err := match.EngineByName(engine)
	if err != nil {
		return false, err
	}
	tp, err := b.f.Parse(content)
	if err != nil {
		return false, err
	}
	return e.Evaluate(tp, b.f.Policy(), req)
}

// remoteBackend delegates to a server. The server's mode policy applies and
// text output is not highlighted.
type remoteBackend struct {
	c *client.Client
}

func (b remoteBackend) Format(ctx context.Context, content string, _ render.Styler) (string, error) {
	text, err := b.c.Format(ctx, content)
	return text, remoteErr(err)
}

func (b remoteBackend) Inspect(ctx context.Context, content string) (*render.Expression, error) {
	expr, err := b.c.Inspect(ctx, content)
	return expr, remoteErr(err)
}

func (b remoteBackend) JSONLogic(ctx context.Context, content string) (match.Rule, error) {
	rule, err := b.c.JSONLogic(ctx, content)
	return rule, remoteErr(err)
}

func (b remoteBackend) CEL(ctx context.Context, content string) (string, error) {
	src, err := b.c.CEL(ctx, content)
	return src, remoteErr(err)
}

func (b remoteBackend) Evaluate(ctx context.Context, content, engine string, req match.Request) (bool, error) {
	ok, err := b.c.Evaluate(ctx, content, engine, req)
	return ok, remoteErr(err)
}

// remoteErr folds the client's parse failure into the same error a local run
// reports.
func remoteErr(err error) error {
	if errors.Is(err, client.ErrMalformedDocument) {
		return formatter.ErrParse
	}
	return err
}
