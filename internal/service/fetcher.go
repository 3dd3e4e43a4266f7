package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dalfonso89/fortune-teller-service/internal/cache"
	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/ratelimit"
)

// FetchOptions are the request parameters that take part in the cache key
type FetchOptions struct {
	Query   map[string]string
	Headers map[string]string
}

func (options FetchOptions) signature() map[string]string {
	if len(options.Query) == 0 && len(options.Headers) == 0 {
		return nil
	}
	signature := make(map[string]string, len(options.Query)+len(options.Headers))
	for key, value := range options.Query {
		signature["query:"+key] = value
	}
	for key, value := range options.Headers {
		signature["header:"+key] = value
	}
	return signature
}

// Fetcher performs rate limited, cached and retried GET requests for JSON
// documents. Identical concurrent requests share one upstream call.
type Fetcher struct {
	client     *resty.Client
	cache      *cache.TTLCache
	limiter    *ratelimit.WindowCounter
	logger     logger.Logger
	maxRetries int
	retryDelay time.Duration
	callBudget time.Duration

	singleFlightGroup singleflight.Group
}

// NewFetcher creates a fetcher from configuration. A nil now uses time.Now
// for the cache and the rate limit window.
func NewFetcher(configuration *config.Config, logger logger.Logger, now func() time.Time) *Fetcher {
	httpTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	client := resty.New().
		SetTransport(httpTransport).
		SetTimeout(configuration.FetchTimeout).
		SetHeader("Accept", "application/json")

	return &Fetcher{
		client:     client,
		cache:      cache.New(configuration.FetchCacheTTL, now),
		limiter:    ratelimit.NewWindowCounter(configuration.EndpointRateLimit, configuration.EndpointRateWindow, now),
		logger:     logger,
		maxRetries: configuration.FetchMaxRetries,
		retryDelay: configuration.FetchRetryDelay,
		callBudget: callBudget(configuration),
	}
}

// callBudget is the longest a full retry sequence can take: every attempt
// timing out plus every backoff wait
func callBudget(configuration *config.Config) time.Duration {
	attempts := configuration.FetchMaxRetries + 1
	backoff := configuration.FetchRetryDelay * time.Duration(1<<configuration.FetchMaxRetries-1)
	return time.Duration(attempts)*configuration.FetchTimeout + backoff
}

// Fetch returns the JSON body at url. The endpoint's rate limit is checked
// first, then the cache, then the network with exponential backoff retries.
func (fetcher *Fetcher) Fetch(ctx context.Context, url string, options FetchOptions, endpointName string) (json.RawMessage, error) {
	if !fetcher.limiter.Allow(endpointName) {
		return nil, &ServiceError{
			Type:    ErrorTypeRateLimited,
			Message: "rate limit exceeded for " + endpointName,
			Cause:   ratelimit.ErrRateLimitExceeded,
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, cancelledError(endpointName, err)
	}

	cacheKey := cache.Key(url, options.signature())
	if cached, ok := fetcher.cache.Get(cacheKey); ok {
		fetcher.logger.Debugf("Serving %s from cache", endpointName)
		return cached, nil
	}

	// The shared call outlives any single caller; each caller still
	// stops waiting when its own context ends.
	resultChannel := fetcher.singleFlightGroup.DoChan(cacheKey, func() (interface{}, error) {
		if cached, ok := fetcher.cache.Get(cacheKey); ok {
			return cached, nil
		}

		sharedContext, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetcher.callBudget)
		defer cancel()

		body, err := fetcher.fetchWithRetry(sharedContext, url, options, endpointName)
		if err != nil {
			return nil, err
		}
		fetcher.cache.Set(cacheKey, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, cancelledError(endpointName, ctx.Err())
	case result := <-resultChannel:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(json.RawMessage), nil
	}
}

func cancelledError(endpointName string, err error) *ServiceError {
	return &ServiceError{
		Type:    ErrorTypeContextCancelled,
		Message: "request to " + endpointName + " cancelled",
		Cause:   err,
	}
}

// fetchWithRetry makes up to maxRetries+1 sequential attempts, waiting
// retryDelay doubled after each failure
func (fetcher *Fetcher) fetchWithRetry(ctx context.Context, url string, options FetchOptions, endpointName string) (json.RawMessage, error) {
	maxAttempts := uint(fetcher.maxRetries + 1)
	attempts := 0
	var body json.RawMessage

	err := retry.Do(
		func() error {
			attempts++
			data, err := fetcher.get(ctx, url, options, endpointName)
			if err != nil {
				if classifyError(err) == ErrorTypeContextCancelled {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(fetcher.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			fetcher.logger.WithFields(logger.Fields{
				"endpoint": endpointName,
				"attempt":  attempt + 1,
				"of":       maxAttempts,
			}).Warnf("Fetch attempt failed: %v", err)
		}),
	)
	if err == nil {
		return body, nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, cancelledError(endpointName, err)
	}
	return nil, &ServiceError{
		Type:    ErrorTypeProviderFailed,
		Message: fmt.Sprintf("failed to fetch from %s after %d attempts", endpointName, attempts),
		Cause:   err,
	}
}

func (fetcher *Fetcher) get(ctx context.Context, url string, options FetchOptions, endpointName string) (json.RawMessage, error) {
	response, err := fetcher.client.R().
		SetContext(ctx).
		SetQueryParams(options.Query).
		SetHeaders(options.Headers).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ServiceError{Type: ErrorTypeNetwork, Message: "request to " + endpointName + " failed", Cause: err}
	}

	if !response.IsSuccess() {
		return nil, &ServiceError{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("%s returned status %d", endpointName, response.StatusCode()),
		}
	}

	body := response.Body()
	if !json.Valid(body) {
		return nil, &ServiceError{Type: ErrorTypeInvalidResponse, Message: endpointName + " returned invalid JSON"}
	}
	return json.RawMessage(body), nil
}

// RemainingRequests reports how many calls endpointName may still make in
// its current rate limit window
func (fetcher *Fetcher) RemainingRequests(endpointName string) int {
	return fetcher.limiter.Remaining(endpointName)
}

// CacheSize reports how many responses are cached, expired ones included
func (fetcher *Fetcher) CacheSize() int {
	return fetcher.cache.Len()
}

// PurgeCache drops expired responses
func (fetcher *Fetcher) PurgeCache() int {
	return fetcher.cache.Purge()
}
