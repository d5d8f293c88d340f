// Package kham drives a logged-in browsing session against the KHAM
// ticketing site: fetching pages, submitting extracted forms and polling for
// availability, all over one cookie-bearing HTTP session.
package kham

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"ticketbot-backend/lib/htmlform"
	"ticketbot-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/kham")

// Page is an immutable snapshot of one HTTP response: the final post-redirect
// URL, the status code and the decoded body.
type Page struct {
	URL    string
	Status int
	Body   string
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	// last page seen by this session, updated on every fetch/submit
	LastPage *Page
}

type ClientOptions struct {
	BaseUrl string
	// defaults to 15 seconds
	Timeout time.Duration
	// defaults to a rotating desktop Chrome user-agent
	UserAgent string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	useragent := opts.UserAgent
	if useragent == "" {
		useragent = browser.Chrome()
	}
	client.SetHeader("user-agent", useragent)
	client.SetHeader("origin", opts.BaseUrl)
	client.SetHeader("referer", opts.BaseUrl)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/kham/http")

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

// resolve joins a possibly-relative URL against the session base
func (c *Client) resolve(rawURL string) string {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return c.BaseUrl.ResolveReference(ref).String()
}

func (c *Client) snapshot(res *resty.Response) *Page {
	finalURL := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}
	page := &Page{
		URL:    finalURL,
		Status: res.StatusCode(),
		Body:   res.String(),
	}
	c.LastPage = page
	return page
}

// Fetch GETs the given URL (relative URLs resolve against the session base)
// and records the result as the session's last page.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	target := c.resolve(rawURL)
	res, err := c.Http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "server returned error status")
		return nil, fmt.Errorf("fetch %s: status %d", target, res.StatusCode())
	}
	return c.snapshot(res), nil
}

// Submit sends the form with overrides layered on top of its declared field
// values. GET forms encode the payload into the query string, everything else
// goes form-url-encoded into the body.
func (c *Client) Submit(ctx context.Context, form htmlform.Form, overrides map[string]string) (*Page, error) {
	ctx, span := tracer.Start(ctx, "client:Submit")
	defer span.End()

	action, method, data := form.Merged(overrides)
	target := c.resolve(action)

	req := c.Http.R().SetContext(ctx)
	if method == "GET" {
		req.SetQueryParamsFromValues(data)
	} else {
		req.SetFormDataFromValues(data)
	}

	res, err := req.Execute(method, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit form")
		return nil, fmt.Errorf("submit %s %s: %w", method, target, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "server returned error status")
		return nil, fmt.Errorf("submit %s %s: status %d", method, target, res.StatusCode())
	}
	return c.snapshot(res), nil
}
