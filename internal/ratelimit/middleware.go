package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/converse-gateway/internal/auth"
	"github.com/af-corp/converse-gateway/internal/httputil"
	"github.com/af-corp/converse-gateway/internal/telemetry"
)

const (
	defaultRPM = 60

	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware returns chi middleware that enforces per-key rate limits and the
// daily request quota.
func Middleware(limiter *Limiter, quota *QuotaTracker, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authInfo, ok := auth.AuthFromContext(r.Context())
			if !ok {
				// No auth info; let it pass, the auth middleware rejects these
				next.ServeHTTP(w, r)
				return
			}

			// Determine RPM limit
			rpm := defaultRPM
			if authInfo.RPMLimit != nil {
				rpm = *authInfo.RPMLimit
			}

			// Check RPM
			rpmKey := fmt.Sprintf("rpm:%s", authInfo.KeyID)
			result, _ := limiter.Check(r.Context(), rpmKey, int64(rpm), time.Minute)

			// Always set rate limit headers
			w.Header().Set(headerRateLimitRequests, strconv.Itoa(rpm))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"key_id", authInfo.KeyID,
					"user_id", authInfo.UserID,
					"dimension", "rpm",
					"limit", rpm,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit("rpm")
				}
				w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				httputil.WriteRateLimitError(w, reqID,
					fmt.Sprintf("Rate limit exceeded: %d requests per minute. Retry after %s", rpm, result.ResetAt.Format(time.RFC3339)))
				return
			}

			// Check daily request quota
			if authInfo.DailyRequestLimit != nil {
				quotaResult, _ := quota.CheckDailyRequests(r.Context(), authInfo.UserID, int64(*authInfo.DailyRequestLimit))
				if !quotaResult.Allowed {
					slog.Warn("daily request quota exceeded",
						"request_id", reqID,
						"key_id", authInfo.KeyID,
						"user_id", authInfo.UserID,
						"used", quotaResult.Used,
						"limit", quotaResult.Limit,
					)
					if metrics != nil {
						metrics.RecordRateLimitHit("daily")
					}
					httputil.WriteRateLimitError(w, reqID,
						fmt.Sprintf("Daily request quota exceeded: used %d of %d requests", quotaResult.Used, quotaResult.Limit))
					return
				}
				quota.RecordRequest(r.Context(), authInfo.UserID)
			}

			next.ServeHTTP(w, r)
		})
	}
}
