package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dcastano/veloshop-backend/api/responses"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
	"github.com/dcastano/veloshop-backend/pkg/logger"
)

// attemptCounter is the redis surface the throttle needs: increment a counter
// and arm its expiry on first use.
type attemptCounter interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// ThrottlePolicy bounds how often a single shopper (by origin IP and by the
// email in the request body) may hit one of the credential endpoints within a
// fixed window. A zero limit disables that dimension.
type ThrottlePolicy struct {
	Surface  string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func (p ThrottlePolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

func (p ThrottlePolicy) surface() string {
	s := strings.ToLower(strings.TrimSpace(p.Surface))
	if s == "" {
		return "credentials"
	}
	return s
}

func (p ThrottlePolicy) counterKey(dimension, subject string) string {
	return strings.Join([]string{"throttle", p.surface(), dimension, subject}, ":")
}

// Throttle guards login, register and password-reset requests with fixed-window
// counters in redis. Email addresses are hashed before they become keys so
// counters never store the raw address.
func Throttle(policy ThrottlePolicy, counters attemptCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || counters == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			origin := originIP(r)
			if policy.PerIP > 0 && origin != "" {
				count, err := counters.IncrWithTTL(ctx, policy.counterKey("ip", origin), policy.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "throttle counter"))
					return
				}
				if count > int64(policy.PerIP) {
					blockThrottled(ctx, logg, w, policy, "ip", count)
					return
				}
			}

			if policy.PerEmail > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if digest := emailDigest(body); digest != "" {
					count, err := counters.IncrWithTTL(ctx, policy.counterKey("email", digest), policy.Window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "throttle counter"))
						return
					}
					if count > int64(policy.PerEmail) {
						blockThrottled(ctx, logg, w, policy, "email", count)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func blockThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy ThrottlePolicy, dimension string, attempts int64) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"surface":        policy.surface(),
			"dimension":      dimension,
			"attempts":       attempts,
			"window_seconds": int(policy.Window.Seconds()),
		})
		logg.Warn(logCtx, "credential endpoint throttled")
	}
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, retry later"))
}

// originIP prefers proxy headers so counters track the shopper, not the load
// balancer.
func originIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, hop := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(hop); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// emailDigest extracts the email field from a JSON body and returns its
// sha256 hex digest, normalized so Shopper@Example.com and shopper@example.com
// share a counter. Returns "" when the body carries no email.
func emailDigest(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
