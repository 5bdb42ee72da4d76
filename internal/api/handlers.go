package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/identity"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/ratelimit"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// publishRealm is the Basic-Auth realm announced on every 401 from the
// publish endpoint.
const publishRealm = "publish"

// Handlers translates HTTP requests into service calls and tagged service
// outcomes back into wire responses. All policy lives in the services; this
// layer only parses and maps.
type Handlers struct {
	subscriptions *subscription.Service
	newsletters   *newsletter.Service
	limiter       *ratelimit.Limiter // nil disables rate limiting
}

// NewHandlers wires the HTTP layer. limiter may be nil.
func NewHandlers(subscriptions *subscription.Service, newsletters *newsletter.Service, limiter *ratelimit.Limiter) *Handlers {
	return &Handlers{subscriptions: subscriptions, newsletters: newsletters, limiter: limiter}
}

// HealthCheck reports process liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Subscribe handles POST /subscriptions (form-encoded name + email).
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open: losing the limiter must not take sign-ups down.
			logger.Warn("rate limiter unavailable", "error", err.Error())
		} else if !allowed {
			httputil.TooManyRequests(w)
			return
		}
	}

	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "malformed form body")
		return
	}

	err := h.subscriptions.Subscribe(r.Context(), r.PostFormValue("name"), r.PostFormValue("email"))
	switch {
	case errors.Is(err, subscription.ErrInvalidInput):
		httputil.BadRequest(w, "invalid name or email")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.Status(w, http.StatusCreated)
	}
}

// Confirm handles GET /subscriptions/confirm?subscription_token=...
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	err := h.subscriptions.Confirm(r.Context(), r.URL.Query().Get("subscription_token"))
	switch {
	case errors.Is(err, subscription.ErrTokenNotFound):
		httputil.BadRequest(w, "unknown subscription token")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.Status(w, http.StatusOK)
	}
}

// PublishNewsletter handles POST /newsletters.
//
// Any problem with the Authorization header answers 401 with the Basic
// challenge, never 400: the caller must always receive a re-authentication
// prompt.
func (h *Handlers) PublishNewsletter(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		httputil.Unauthorized(w, publishRealm)
		return
	}

	var issue domain.Issue
	if err := json.NewDecoder(r.Body).Decode(&issue); err != nil {
		httputil.BadRequest(w, "malformed newsletter body")
		return
	}

	err := h.newsletters.Publish(r.Context(), username, password, issue)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		httputil.Unauthorized(w, publishRealm)
	case errors.Is(err, newsletter.ErrInvalidIssue):
		httputil.BadRequest(w, "newsletter must carry a title and both content renderings")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.Status(w, http.StatusOK)
	}
}

// clientIP extracts the caller address for rate-limit keying. RealIP
// middleware has already folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
