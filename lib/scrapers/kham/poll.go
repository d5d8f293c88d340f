package kham

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrConditionNotMet is returned when the attempt budget runs out before the
// predicate accepts a page.
var ErrConditionNotMet = errors.New("polling finished without satisfying condition")

// PollUntil re-fetches the URL until the predicate accepts the page, sleeping
// interval between attempts. The predicate should only inspect page content;
// fetch errors abort polling immediately. Cancellation beyond the attempt
// budget is the caller's concern.
func (c *Client) PollUntil(
	ctx context.Context,
	rawURL string,
	predicate func(*Page) bool,
	interval time.Duration,
	maxAttempts int,
) (*Page, error) {
	ctx, span := tracer.Start(ctx, "client:PollUntil")
	defer span.End()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := c.Fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if predicate(page) {
			span.AddEvent("condition met", trace.WithAttributes(
				attribute.Int("attempt", attempt+1),
			))
			return page, nil
		}
		slog.DebugContext(
			ctx, "poll attempt did not satisfy condition",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
		)
		time.Sleep(interval)
	}
	return nil, ErrConditionNotMet
}
