package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/featuringmyself/ledgy/internal/middleware"
	"github.com/featuringmyself/ledgy/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret-key-that-is-long-enough"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func whoAmIRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(nil))
	r.GET("/me", h, func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func get(r *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := whoAmIRouter(middleware.AuthMiddleware(secret, "ledgy"))
	valid := jwt.RegisteredClaims{
		Issuer:    "ledgy",
		Subject:   "tenant-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("valid token sets user", func(t *testing.T) {
		w := get(r, "Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(secret), valid))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tenant-42", w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "", "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Token abc").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), valid)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer "+token).Code)
	})

	t.Run("expired", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := signToken(t, jwt.SigningMethodHS256, []byte(secret), expired)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer "+token).Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := valid
		other.Issuer = "someone-else"
		token := signToken(t, jwt.SigningMethodHS256, []byte(secret), other)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer "+token).Code)
	})

	t.Run("missing subject", func(t *testing.T) {
		noSub := valid
		noSub.Subject = ""
		token := signToken(t, jwt.SigningMethodHS256, []byte(secret), noSub)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Bearer "+token).Code)
	})
}

func TestCronKeyAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	r := whoAmIRouter(middleware.CronKeyAuth(string(hash)))

	assert.Equal(t, http.StatusOK, get(r, middleware.CronKeyHeader, "s3cret").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, middleware.CronKeyHeader, "guess").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "", "").Code)

	unconfigured := whoAmIRouter(middleware.CronKeyAuth(""))
	assert.Equal(t, http.StatusUnauthorized, get(unconfigured, middleware.CronKeyHeader, "s3cret").Code)
}

func TestAdminKeyAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	r := whoAmIRouter(middleware.AdminKeyAuth(string(hash)))

	assert.Equal(t, http.StatusOK, get(r, middleware.CronKeyHeader, "s3cret").Code)
	assert.Equal(t, http.StatusForbidden, get(r, middleware.CronKeyHeader, "guess").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "", "").Code)

	unconfigured := whoAmIRouter(middleware.AdminKeyAuth(""))
	assert.Equal(t, http.StatusForbidden, get(unconfigured, middleware.CronKeyHeader, "s3cret").Code)
}

func TestRateLimit(t *testing.T) {
	lim, err := middleware.NewMemoryLimiter("2-M")
	require.NoError(t, err)
	r := whoAmIRouter(middleware.RateLimit(lim))

	assert.Equal(t, http.StatusOK, get(r, "", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "", "").Code)
}

func TestNewMemoryLimiter_BadFormat(t *testing.T) {
	_, err := middleware.NewMemoryLimiter("often")
	assert.Error(t, err)
}

func TestPosthogMiddleware_DisabledClientPassesThrough(t *testing.T) {
	r := whoAmIRouter(middleware.PosthogMiddleware(utils.InitializePosthogClient("", "", nil)))
	w := get(r, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

type capturingPosthog struct {
	posthog.Client
	mu     sync.Mutex
	events []posthog.Capture
}

func (p *capturingPosthog) Enqueue(msg posthog.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if capture, ok := msg.(posthog.Capture); ok {
		p.events = append(p.events, capture)
	}
	return nil
}

func (p *capturingPosthog) Close() error { return nil }

func TestPosthogMiddleware_TracksTenantRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &capturingPosthog{}
	r := gin.New()
	r.Use(middleware.PosthogMiddleware(utils.NewPosthogClientWrapper(sink, nil)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/reports/:kind/summary", middleware.AuthMiddleware(secret, ""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "tenant-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	send := func(path, auth string) {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	send("/api/v1/reports/payments/summary", "Bearer "+token)
	send("/api/v1/reports/payments/summary", "")
	send("/health", "")
	send("/nowhere", "Bearer "+token)

	require.Len(t, sink.events, 1)
	got := sink.events[0]
	assert.Equal(t, "api_v1_reports_kind_summary", got.Event)
	assert.Equal(t, "tenant-7", got.DistinctId)
	assert.Equal(t, "payments", got.Properties["kind"])
	assert.Equal(t, http.MethodGet, got.Properties["method"])
}
