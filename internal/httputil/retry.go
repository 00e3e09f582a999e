// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/researchmap-site/internal/logging"
)

// RetryBaseDelay is the first backoff after an HTTP 429. Tests override it
// to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

// DoWithRetry sends req and, when maxRetries is positive, retries HTTP 429
// responses with exponential backoff starting at RetryBaseDelay. With
// maxRetries <= 0 exactly one attempt is made.
//
// A request body is replayed through req.GetBody. If ctx is cancelled
// during a backoff wait, ctx.Err() is returned. After the last retry the
// final 429 response is returned for the caller to inspect.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *zap.Logger) (*http.Response, error) {
	logger = logging.OrNop(logger)
	maxRetries = max(maxRetries, 0)

	for attempt := 0; ; attempt++ {
		attemptReq, err := replay(ctx, req, attempt)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := RetryBaseDelay << attempt
		logger.Warn("rate limited, backing off",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func replay(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	clone := req.Clone(ctx)
	if attempt > 0 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}
