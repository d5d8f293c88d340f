// Package automation executes declarative step lists against a ticketing
// session: login, fetch/submit chains and a polling epilogue.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"ticketbot-backend/lib/htmlform"
	"ticketbot-backend/lib/scrapers/kham"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("automation")

type Runner struct {
	Client *kham.Client
	Env    Environment
}

func NewRunner(client *kham.Client, env Environment) Runner {
	if env == nil {
		env = OSEnvironment{}
	}
	return Runner{Client: client, Env: env}
}

// Run executes the configured login, steps and polling in order. The run
// aborts on the first login failure or step error; nothing persists between
// runs beyond the session cookies held by the client.
func (r Runner) Run(ctx context.Context, config Config) error {
	ctx, span := tracer.Start(ctx, "runner:Run")
	defer span.End()

	runId := uuid.NewString()
	log := slog.With("run_id", runId)

	var current *kham.Page
	if config.Login != nil {
		result := r.Client.Login(
			ctx,
			Resolve(r.Env, config.Login.Account),
			Resolve(r.Env, config.Login.Password),
			kham.LoginOptions{
				LoginPage:      config.Login.Page,
				ExtraOverrides: r.resolveOverrides(config.Login.ExtraOverrides),
			},
		)
		if !result.Success {
			span.SetStatus(codes.Error, "login failed")
			return fmt.Errorf("login: %s", result.Message)
		}
		log.InfoContext(ctx, "logged in", "message", result.Message)
		current = result.Page
	}

	for i, step := range config.Steps {
		page, err := r.executeStep(ctx, current, step)
		if err != nil {
			span.SetStatus(codes.Error, "step failed")
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		log.InfoContext(
			ctx, "step completed",
			"step", i+1,
			"url", page.URL,
			"status", page.Status,
		)
		current = page
	}

	if config.Polling != nil {
		if err := r.poll(ctx, current, *config.Polling, log); err != nil {
			span.SetStatus(codes.Error, "polling failed")
			return err
		}
	}
	return nil
}

func (r Runner) executeStep(ctx context.Context, current *kham.Page, step Step) (*kham.Page, error) {
	ctx, span := tracer.Start(ctx, "runner:executeStep")
	defer span.End()

	if step.Type == "fetch" {
		return r.Client.Fetch(ctx, r.stepUrl(step))
	}

	if current == nil || !step.useLastPage() {
		page, err := r.Client.Fetch(ctx, r.stepUrl(step))
		if err != nil {
			return nil, err
		}
		current = page
	}

	forms := htmlform.ExtractString(pageBase(r.Client, current), current.Body)
	form := htmlform.Select(forms, step.Form)
	if form == nil {
		span.SetStatus(codes.Error, "no form matched")
		return nil, fmt.Errorf("no form on %s matches the provided criteria", current.URL)
	}

	return r.Client.Submit(ctx, *form, r.resolveOverrides(step.Overrides))
}

func (r Runner) poll(ctx context.Context, current *kham.Page, config PollingConfig, log *slog.Logger) error {
	target := config.Url
	if target == "" {
		if current != nil {
			target = current.URL
		} else {
			target = r.Client.BaseUrl.String()
		}
	}

	predicate := func(*kham.Page) bool { return true }
	if config.Keyword != "" {
		keyword := config.Keyword
		predicate = func(page *kham.Page) bool {
			return strings.Contains(page.Body, keyword)
		}
	}

	page, err := r.Client.PollUntil(ctx, target, predicate, config.interval(), config.maxAttempts())
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "polling completed", "url", page.URL)
	return nil
}

// relative form actions resolve against the page they were extracted from
func pageBase(client *kham.Client, page *kham.Page) *url.URL {
	base, err := url.Parse(page.URL)
	if err != nil {
		return client.BaseUrl
	}
	return base
}

func (r Runner) stepUrl(step Step) string {
	if step.Url != "" {
		return step.Url
	}
	return r.Client.BaseUrl.String()
}

func (r Runner) resolveOverrides(overrides map[string]string) map[string]string {
	if overrides == nil {
		return nil
	}
	resolved := make(map[string]string, len(overrides))
	for name, value := range overrides {
		resolved[name] = Resolve(r.Env, value)
	}
	return resolved
}
