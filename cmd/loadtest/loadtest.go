package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Scenario        string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	RampUpDuration  time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	UserID     int
	RequestID  int
	StatusCode int
	Duration   time.Duration
	Success    bool
	Error      error
	Timestamp  time.Time
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
}

// scenario issues one request for a user. sessionID is stable per user.
type scenario func(ctx context.Context, client *resty.Client, sessionID string, requestID int) (*resty.Response, error)

var categories = []string{"all", "love", "career", "health", "luck"}

var scenarios = map[string]scenario{
	"fortune": func(ctx context.Context, client *resty.Client, sessionID string, requestID int) (*resty.Response, error) {
		return client.R().SetContext(ctx).
			SetQueryParam("category", categories[requestID%len(categories)]).
			Get("/api/v1/fortunes/random")
	},
	"session": func(ctx context.Context, client *resty.Client, sessionID string, requestID int) (*resty.Response, error) {
		request := client.R().SetContext(ctx).SetHeader("X-Session-ID", sessionID)
		if requestID%4 == 3 {
			return request.Get("/api/v1/session/history")
		}
		return request.SetQueryParam("category", categories[requestID%len(categories)]).Post("/api/v1/session/fortunes")
	},
	"dharma": func(ctx context.Context, client *resty.Client, sessionID string, requestID int) (*resty.Response, error) {
		return client.R().SetContext(ctx).
			SetBody(map[string]string{
				"name":       fmt.Sprintf("Visitor %d", requestID),
				"birthDate":  "1990-05-20",
				"birthTime":  fmt.Sprintf("%d:%d", requestID%24, requestID%60),
				"birthPlace": "Paris",
			}).
			Post("/api/v1/dharma")
	},
}

func lookupScenario(name string) (scenario, error) {
	selected, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return selected, nil
}

func runLoadTest(parent context.Context, config LoadTestConfig, run scenario) LoadTestSummary {
	if parent == nil {
		parent = context.Background()
	}
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout)

	startTime := time.Now()

	ctx := parent
	if config.TestDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, config.TestDuration)
		defer cancel()
	}

	var wg sync.WaitGroup
	rampUpDelay := time.Duration(0)
	if config.ConcurrentUsers > 0 {
		rampUpDelay = config.RampUpDuration / time.Duration(config.ConcurrentUsers)
	}

	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			time.Sleep(time.Duration(userID) * rampUpDelay)
			sessionID := uuid.NewString()

			for requestID := 0; requestID < config.RequestsPerUser; requestID++ {
				if ctx.Err() != nil {
					return
				}

				results <- makeRequest(ctx, client, run, sessionID, userID, requestID)

				if config.ThinkTime > 0 {
					time.Sleep(config.ThinkTime)
				}
			}
		}()
	}

	wg.Wait()
	close(results)

	return processResults(results, time.Since(startTime))
}

func makeRequest(ctx context.Context, client *resty.Client, run scenario, sessionID string, userID, requestID int) LoadTestResult {
	start := time.Now()
	response, err := run(ctx, client, sessionID, requestID)

	result := LoadTestResult{
		UserID:    userID,
		RequestID: requestID,
		Duration:  time.Since(start),
		Timestamp: start,
		Error:     err,
	}
	if err != nil {
		return result
	}

	result.StatusCode = response.StatusCode()
	result.Success = response.IsSuccess()
	return result
}

func processResults(results <-chan LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	summary := LoadTestSummary{TotalDuration: totalDuration}
	var responseTimes []time.Duration

	for result := range results {
		summary.TotalRequests++
		responseTimes = append(responseTimes, result.Duration)

		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()

	slices.Sort(responseTimes)
	var totalResponseTime time.Duration
	for _, responseTime := range responseTimes {
		totalResponseTime += responseTime
	}
	summary.MinResponseTime = responseTimes[0]
	summary.MaxResponseTime = responseTimes[len(responseTimes)-1]
	summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))
	summary.ResponseTime95th = calculatePercentile(responseTimes, 95)
	summary.ResponseTime99th = calculatePercentile(responseTimes, 99)

	return summary
}

// calculatePercentile expects times sorted ascending
func calculatePercentile(times []time.Duration, percentile int) time.Duration {
	if len(times) == 0 {
		return 0
	}

	index := int(float64(len(times)) * float64(percentile) / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

func printSummary(out io.Writer, summary LoadTestSummary) {
	fmt.Fprintln(out, "=== Load Test Results ===")
	fmt.Fprintf(out, "Total Requests: %d\n", summary.TotalRequests)
	if summary.TotalRequests == 0 {
		return
	}
	fmt.Fprintf(out, "Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Fprintf(out, "Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)
	fmt.Fprintf(out, "Total Duration: %v\n", summary.TotalDuration)
	fmt.Fprintf(out, "Requests per Second: %.2f\n", summary.RequestsPerSecond)
	fmt.Fprintf(out, "Average Response Time: %v\n", summary.AverageResponseTime)
	fmt.Fprintf(out, "Min Response Time: %v\n", summary.MinResponseTime)
	fmt.Fprintf(out, "Max Response Time: %v\n", summary.MaxResponseTime)
	fmt.Fprintf(out, "95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	fmt.Fprintf(out, "99th Percentile Response Time: %v\n", summary.ResponseTime99th)

	fmt.Fprintln(out, "\n=== Performance Assessment ===")
	if summary.ErrorRate > 5.0 {
		fmt.Fprintf(out, "⚠️  High error rate: %.2f%% (target: < 5%%)\n", summary.ErrorRate)
	} else {
		fmt.Fprintf(out, "✅ Error rate: %.2f%% (good)\n", summary.ErrorRate)
	}

	// Upstream retries make a cold fortune draw take seconds
	if summary.AverageResponseTime > 2*time.Second {
		fmt.Fprintf(out, "⚠️  High average response time: %v (target: < 2s)\n", summary.AverageResponseTime)
	} else {
		fmt.Fprintf(out, "✅ Average response time: %v (good)\n", summary.AverageResponseTime)
	}

	if summary.RequestsPerSecond < 10 {
		fmt.Fprintf(out, "⚠️  Low throughput: %.2f req/s (target: > 10 req/s)\n", summary.RequestsPerSecond)
	} else {
		fmt.Fprintf(out, "✅ Throughput: %.2f req/s (good)\n", summary.RequestsPerSecond)
	}
}
