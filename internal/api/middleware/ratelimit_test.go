package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cybershield/internal/config"
)

type fakeLimiter struct {
	minuteAllowed bool
	hourAllowed   bool
	err           error
	keys          []string
}

func (f *fakeLimiter) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	f.keys = append(f.keys, key)
	allowed := f.minuteAllowed
	if window == time.Hour {
		allowed = f.hourAllowed
	}
	return allowed, limit - 1, time.Now().Add(window), f.err
}

func limiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		RequestsPerHour:   1000,
	}
}

func serveLimited(t *testing.T, limiter *fakeLimiter) *httptest.ResponseRecorder {
	t.Helper()
	handler := RateLimiter(limiter, limiterConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/url/check", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	handler.ServeHTTP(rec, req)
	return rec
}

// --- Rate limiter tests ---

func TestRateLimiterAllowsWithinBothWindows(t *testing.T) {
	limiter := &fakeLimiter{minuteAllowed: true, hourAllowed: true}
	rec := serveLimited(t, limiter)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("expected limit header 60, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
	if len(limiter.keys) != 2 {
		t.Fatalf("expected minute and hour checks, got %v", limiter.keys)
	}
	if !strings.HasSuffix(limiter.keys[1], ":hourly") {
		t.Errorf("expected hourly key suffix, got %q", limiter.keys[1])
	}
}

func TestRateLimiterBlocksWhenHourlyExhausted(t *testing.T) {
	limiter := &fakeLimiter{minuteAllowed: true, hourAllowed: false}
	rec := serveLimited(t, limiter)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected remaining 0, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
	if !strings.Contains(rec.Body.String(), "RATE_LIMITED") {
		t.Errorf("expected RATE_LIMITED error body, got %s", rec.Body.String())
	}
}

func TestRateLimiterSkipsHourlyCheckWhenMinuteExhausted(t *testing.T) {
	limiter := &fakeLimiter{minuteAllowed: false, hourAllowed: true}
	rec := serveLimited(t, limiter)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if len(limiter.keys) != 1 {
		t.Errorf("expected only the minute check, got %v", limiter.keys)
	}
}

func TestRateLimiterFailsOpenOnCacheError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	rec := serveLimited(t, limiter)

	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through on cache failure, got %d", rec.Code)
	}
}
