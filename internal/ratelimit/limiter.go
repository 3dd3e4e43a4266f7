package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
)

const idleClientTTL = 24 * time.Hour

// ClientLimiter throttles inbound requests per client IP with a token bucket
type ClientLimiter struct {
	Configuration *config.Config
	logger        logger.Logger

	// Map of IP -> token bucket
	clients      map[string]*clientBucket
	clientsMutex sync.Mutex

	// Cleanup goroutine control
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a new inbound rate limiter and starts its cleanup loop
func NewClientLimiter(configuration *config.Config, logger logger.Logger) *ClientLimiter {
	clientLimiter := &ClientLimiter{
		Configuration: configuration,
		logger:        logger,
		clients:       make(map[string]*clientBucket),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCleanup:   make(chan struct{}),
	}

	go clientLimiter.cleanup()

	return clientLimiter
}

// Allow checks if a request from the given IP is allowed
func (clientLimiter *ClientLimiter) Allow(clientIP string) bool {
	if !clientLimiter.Configuration.RateLimitEnabled {
		return true
	}

	clientLimiter.clientsMutex.Lock()
	bucket, exists := clientLimiter.clients[clientIP]
	if !exists {
		refill := rate.Every(clientLimiter.Configuration.RateLimitWindow / time.Duration(clientLimiter.Configuration.RateLimitRequests))
		bucket = &clientBucket{limiter: rate.NewLimiter(refill, clientLimiter.Configuration.RateLimitBurst)}
		clientLimiter.clients[clientIP] = bucket
	}
	bucket.lastSeen = time.Now()
	clientLimiter.clientsMutex.Unlock()

	return bucket.limiter.Allow()
}

// Middleware rejects over-limit clients with 429 and X-RateLimit headers
func (clientLimiter *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := GetClientIP(context.Request)

		if !clientLimiter.Allow(clientIP) {
			clientLimiter.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			context.Header("X-RateLimit-Limit", strconv.Itoa(clientLimiter.Configuration.RateLimitRequests))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(clientLimiter.Configuration.RateLimitWindow).Unix(), 10))
			context.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded", "code": http.StatusTooManyRequests})
			return
		}

		context.Next()
	}
}

// GetClientIP extracts the real client IP from the request
func GetClientIP(request *http.Request) string {
	// X-Forwarded-For may hold a chain; the first entry is the client
	if forwardedFor := request.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if clientIP := net.ParseIP(first); clientIP != nil {
			return clientIP.String()
		}
		if host, _, err := net.SplitHostPort(first); err == nil {
			if clientIP := net.ParseIP(host); clientIP != nil {
				return clientIP.String()
			}
		}
	}

	if realIP := request.Header.Get("X-Real-IP"); realIP != "" {
		if clientIP := net.ParseIP(strings.TrimSpace(realIP)); clientIP != nil {
			return clientIP.String()
		}
	}

	clientIP, _, parseError := net.SplitHostPort(request.RemoteAddr)
	if parseError != nil {
		return request.RemoteAddr
	}
	return clientIP
}

// cleanup drops buckets of clients idle for a day
func (clientLimiter *ClientLimiter) cleanup() {
	for {
		select {
		case <-clientLimiter.cleanupTicker.C:
			clientLimiter.evictIdle(time.Now())
		case <-clientLimiter.stopCleanup:
			clientLimiter.cleanupTicker.Stop()
			return
		}
	}
}

func (clientLimiter *ClientLimiter) evictIdle(currentTime time.Time) int {
	clientLimiter.clientsMutex.Lock()
	defer clientLimiter.clientsMutex.Unlock()

	evicted := 0
	for clientIP, bucket := range clientLimiter.clients {
		if currentTime.Sub(bucket.lastSeen) > idleClientTTL {
			delete(clientLimiter.clients, clientIP)
			evicted++
		}
	}
	if evicted > 0 {
		clientLimiter.logger.Debugf("Evicted %d idle rate limit buckets", evicted)
	}
	return evicted
}

// Stop stops the cleanup goroutine; safe to call more than once
func (clientLimiter *ClientLimiter) Stop() {
	clientLimiter.stopOnce.Do(func() {
		close(clientLimiter.stopCleanup)
	})
}
