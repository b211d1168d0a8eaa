package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("test-secret")

func signToken(t *testing.T, key []byte, userID int64, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthRouter() (*gin.Engine, *int64) {
	gin.SetMode(gin.TestMode)
	var gotUserID int64
	r := gin.New()
	r.Use(AuthMiddleware(testKey))
	handler := func(c *gin.Context) {
		if v, ok := c.Get("user_id"); ok {
			gotUserID, _ = v.(int64)
		}
		c.Status(http.StatusOK)
	}
	r.GET("/tasks", handler)
	r.POST("/auth/login", handler)
	r.GET("/healthz", handler)
	return r, &gotUserID
}

func serve(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r, gotUserID := newAuthRouter()
	token := signToken(t, testKey, 7, time.Now().Add(time.Hour))

	w := serve(r, http.MethodGet, "/tasks", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if *gotUserID != 7 {
		t.Errorf("user_id in context = %d, want 7", *gotUserID)
	}
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	r, _ := newAuthRouter()
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := serve(r, http.MethodGet, "/tasks", tt.header); w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuthRejectsBadTokens(t *testing.T) {
	r, _ := newAuthRouter()
	tests := []struct {
		name  string
		token string
	}{
		{"wrong key", signToken(t, []byte("other-secret"), 7, time.Now().Add(time.Hour))},
		{"expired beyond leeway", signToken(t, testKey, 7, time.Now().Add(-10*time.Minute))},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := serve(r, http.MethodGet, "/tasks", "Bearer "+tt.token); w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuthPublicPathsSkipToken(t *testing.T) {
	r, _ := newAuthRouter()
	if w := serve(r, http.MethodPost, "/auth/login", ""); w.Code != http.StatusOK {
		t.Errorf("/auth/login status = %d, want 200 without a token", w.Code)
	}
	if w := serve(r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200 without a token", w.Code)
	}
}
