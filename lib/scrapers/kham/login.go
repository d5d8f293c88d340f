package kham

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"ticketbot-backend/lib/htmlform"
	"ticketbot-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

// LoginResult is the terminal outcome of one login attempt. Page carries the
// last page seen for diagnostics where one is available.
type LoginResult struct {
	Success bool
	Message string
	Page    *Page
}

type LoginOptions struct {
	// login page URL, defaults to the session base
	LoginPage string
	// extra form fields layered on top of the inferred credential fields,
	// winning on conflict
	ExtraOverrides map[string]string
}

// phrases the site renders when a login is rejected, probed case-insensitively
var loginFailureSignatures = []string{
	"登入失敗",
	"login failed",
	"密碼錯誤",
	"驗證碼",
}

// DetectLoginFailure reports whether a post-submit page body carries one of
// the known rejection phrases.
func DetectLoginFailure(body string) bool {
	lowered := strings.ToLower(body)
	for _, signature := range loginFailureSignatures {
		if strings.Contains(lowered, signature) {
			return true
		}
	}
	return false
}

// username keywords in priority order
var usernameKeywords = []string{
	"account", "member", "userid", "username", "login", "email", "id",
}

// ResolveLoginFields infers which of a form's fields carry the credentials.
// The password field is the first one typed exactly "password". The username
// field is searched by keyword in priority order over the text/email/tel
// fields (password excluded); when no keyword hits, the first such field in
// document order is assumed. Empty strings mean the field could not be
// resolved.
func ResolveLoginFields(form htmlform.Form) (usernameField, passwordField string) {
	for _, name := range form.Order {
		if form.Types[name] == "password" {
			passwordField = name
			break
		}
	}

	var candidates []string
	for _, name := range form.Order {
		if name == passwordField {
			continue
		}
		switch form.Types[name] {
		case "text", "email", "tel":
			candidates = append(candidates, name)
		}
	}

	for _, keyword := range usernameKeywords {
		for _, name := range candidates {
			if strings.Contains(strings.ToLower(name), keyword) {
				return name, passwordField
			}
		}
	}
	if len(candidates) > 0 {
		usernameField = candidates[0]
	}
	return usernameField, passwordField
}

// Login fetches the login page, finds the credential form, infers its
// username/password fields and submits. The outcome is always a value; the
// four failure modes (page fetch, form not found, fields unresolved, server
// rejection) each carry their own message.
func (c *Client) Login(ctx context.Context, account, password string, opts LoginOptions) LoginResult {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	loginURL := opts.LoginPage
	if loginURL == "" {
		loginURL = c.BaseUrl.String()
	}

	page, err := c.Fetch(ctx, loginURL)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return LoginResult{Message: fmt.Sprintf("Unable to load login page: %s", err)}
	}
	slog.DebugContext(
		ctx, "fetched login page",
		"url", page.URL,
		"title", htmlutil.PageTitle(page.Body),
	)

	form := htmlform.FirstWithPassword(htmlform.ExtractString(c.pageBase(page), page.Body))
	if form == nil {
		span.SetStatus(codes.Error, "login form not found")
		return LoginResult{Message: "Login form not found", Page: page}
	}

	usernameField, passwordField := ResolveLoginFields(*form)
	if usernameField == "" || passwordField == "" {
		span.SetStatus(codes.Error, "unable to identify login fields")
		return LoginResult{Message: "Unable to identify login fields", Page: page}
	}
	slog.DebugContext(
		ctx, "resolved login fields",
		"username_field", usernameField,
		"password_field", passwordField,
	)

	overrides := map[string]string{
		usernameField: account,
		passwordField: password,
	}
	for name, value := range opts.ExtraOverrides {
		overrides[name] = value
	}

	result, err := c.Submit(ctx, *form, overrides)
	if err != nil {
		span.SetStatus(codes.Error, "login request failed")
		return LoginResult{Message: fmt.Sprintf("Login request failed: %s", err), Page: page}
	}

	if DetectLoginFailure(result.Body) {
		span.SetStatus(codes.Error, "login rejected by server")
		return LoginResult{Message: "Login rejected by server", Page: result}
	}
	return LoginResult{Success: true, Message: "Login succeeded", Page: result}
}

// relative form actions resolve against the page they were served on, which
// can differ from the session base after redirects
func (c *Client) pageBase(page *Page) *url.URL {
	base, err := url.Parse(page.URL)
	if err != nil {
		return c.BaseUrl
	}
	return base
}
