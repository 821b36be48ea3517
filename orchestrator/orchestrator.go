package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/lead"
	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/work"
)

// Checker is a yes/no vendor check.
type Checker interface {
	Describe(input string) *work.Descriptor
	Dispatch(ctx context.Context, pool *fetch.Pool, d *work.Descriptor) error
	Resolve(ctx context.Context, d *work.Descriptor) work.Verdict
	FailOpen() bool
}

// Credentials supplies the submission credential.
type Credentials interface {
	Describe(input string) *work.Descriptor
	Dispatch(ctx context.Context, pool *fetch.Pool, d *work.Descriptor) error
	Resolve(ctx context.Context, d *work.Descriptor) (string, bool)
}

// Submitter sends the lead.
type Submitter interface {
	Submit(ctx context.Context, p lead.Payload, credential string) lead.Result
}

// Config configures an Orchestrator.
type Config struct {
	// Account is copied into every lead payload.
	Account lead.Account

	// PoolWait bounds how long a dispatch waits for a pool slot. The pool
	// always has a spare slot, so zero is fine.
	PoolWait time.Duration
}

// Deps are the services an Orchestrator drives.
type Deps struct {
	Bot       Checker
	Email     Checker
	Token     Credentials
	Submitter Submitter

	Logger   observe.Logger
	Outcomes *observe.OutcomeMetrics
}

// Orchestrator validates and submits leads. It holds no per-request state
// and is safe for concurrent use.
type Orchestrator struct {
	cfg  Config
	deps Deps
	log  observe.Logger
}

// New creates an Orchestrator. Bot, Email, Token and Submitter are required.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	switch {
	case deps.Bot == nil:
		return nil, fmt.Errorf("%w: bot checker", ErrMissingDependency)
	case deps.Email == nil:
		return nil, fmt.Errorf("%w: email checker", ErrMissingDependency)
	case deps.Token == nil:
		return nil, fmt.Errorf("%w: credentials", ErrMissingDependency)
	case deps.Submitter == nil:
		return nil, fmt.Errorf("%w: submitter", ErrMissingDependency)
	}
	if deps.Logger == nil {
		deps.Logger = observe.NopLogger()
	}
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger.WithCall(observe.CallMeta{Service: "leadguard", Operation: "validate"}),
	}, nil
}

// plan is the state of one request.
type plan struct {
	form  lead.Form
	batch work.Batch
	bot   *work.Descriptor
	email *work.Descriptor
	token *work.Descriptor
}

// Validate runs the checks for form and submits it when they pass. It
// always returns a Result; internal failures become SERVER_ERROR.
func (o *Orchestrator) Validate(ctx context.Context, form lead.Form) (res lead.Result) {
	start := time.Now()
	var p *plan
	defer func() {
		if r := recover(); r != nil {
			o.log.Error(ctx, "validation panicked",
				observe.Field{Key: "panic", Value: fmt.Sprint(r)},
				observe.Field{Key: "stack", Value: string(debug.Stack())},
			)
			res = lead.ServerError()
		}
		o.deps.Outcomes.Record(ctx, res.StatusCode, res.Code())
		fields := []observe.Field{
			{Key: "status", Value: res.StatusCode},
			{Key: "outcome", Value: outcome(res)},
			{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
		}
		if p != nil {
			fields = append(fields, observe.Field{Key: "checks", Value: p.batch.States()})
		}
		o.log.Info(ctx, "validation finished", fields...)
	}()

	p = o.describe(form)
	o.dispatch(ctx, p)
	return o.resolve(ctx, p)
}

func (o *Orchestrator) describe(form lead.Form) *plan {
	p := &plan{
		form:  form,
		bot:   o.deps.Bot.Describe(form.CaptchaToken),
		email: o.deps.Email.Describe(form.Email),
		token: o.deps.Token.Describe(""),
	}
	p.batch = work.Batch{p.bot, p.email, p.token}
	return p
}

// dispatch starts every uncached descriptor on a pool with one spare slot.
// The pool is never waited on.
func (o *Orchestrator) dispatch(ctx context.Context, p *plan) {
	pending := p.batch.Pending()
	if len(pending) == 0 {
		return
	}
	pool := fetch.NewPool(len(pending)+1, o.cfg.PoolWait)
	for _, d := range pending {
		var err error
		switch d {
		case p.bot:
			err = o.deps.Bot.Dispatch(ctx, pool, d)
		case p.email:
			err = o.deps.Email.Dispatch(ctx, pool, d)
		case p.token:
			err = o.deps.Token.Dispatch(ctx, pool, d)
		}
		if err != nil {
			o.log.Warn(ctx, "dispatch failed",
				observe.Field{Key: "kind", Value: d.Kind.String()},
				observe.Field{Key: "key", Value: d.Fingerprint()},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
}

func (o *Orchestrator) resolve(ctx context.Context, p *plan) lead.Result {
	if !o.check(ctx, p, o.deps.Bot, p.bot) {
		return lead.InvalidRecaptcha()
	}
	if !o.check(ctx, p, o.deps.Email, p.email) {
		return lead.InvalidEmail()
	}

	credential, ok := o.deps.Token.Resolve(ctx, p.token)
	o.settle(ctx, p.token, ok)
	if !ok {
		o.log.Warn(ctx, "no submission credential", observe.Field{Key: "key", Value: p.token.Fingerprint()})
	}
	return o.deps.Submitter.Submit(ctx, lead.NewPayload(p.form, o.cfg.Account), credential)
}

// check resolves one yes/no descriptor and reports whether the request may
// continue. On denial every later descriptor is skipped.
func (o *Orchestrator) check(ctx context.Context, p *plan, c Checker, d *work.Descriptor) bool {
	v := c.Resolve(ctx, d)
	o.settle(ctx, d, v != work.Unknown)

	pass := v == work.Allow || (v == work.Unknown && c.FailOpen())
	if v == work.Unknown {
		o.log.Warn(ctx, "verdict unknown",
			observe.Field{Key: "kind", Value: d.Kind.String()},
			observe.Field{Key: "key", Value: d.Fingerprint()},
			observe.Field{Key: "fail_open", Value: c.FailOpen()},
		)
	}
	if pass {
		return true
	}
	skipped := p.batch.SkipAfter(d)
	o.log.Info(ctx, "request denied",
		observe.Field{Key: "kind", Value: d.Kind.String()},
		observe.Field{Key: "verdict", Value: v.String()},
		observe.Field{Key: "skipped", Value: skipped},
	)
	return false
}

// settle moves d to Resolved or Failed.
func (o *Orchestrator) settle(ctx context.Context, d *work.Descriptor, ok bool) {
	to := work.Resolved
	if !ok {
		to = work.Failed
	}
	if err := d.Transition(to); err != nil {
		o.log.Debug(ctx, "descriptor transition refused",
			observe.Field{Key: "kind", Value: d.Kind.String()},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
}

func outcome(res lead.Result) string {
	if res.Success {
		return "accepted"
	}
	if code := res.Code(); code != "" {
		return code
	}
	return "rejected"
}
