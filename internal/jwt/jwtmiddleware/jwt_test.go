package jwtmiddleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/marketplace-orders/internal/domain/models"
	security "github.com/linemk/marketplace-orders/internal/jwt"
	"github.com/linemk/marketplace-orders/internal/jwt/jwtmiddleware"
)

const testSecret = "test-secret"

// okHandler фиксирует userID, извлечённый из контекста.
func okHandler(gotID *int64, gotOK *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotID, *gotOK = jwtmiddleware.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware_MissingAuthorization(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var id int64
	var ok bool
	handler := jwtmiddleware.NewJWTMiddleware()(okHandler(&id, &ok))

	req := httptest.NewRequest("GET", "/api/profile/orders/15", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, ok)
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var id int64
	var ok bool
	handler := jwtmiddleware.NewJWTMiddleware()(okHandler(&id, &ok))

	req := httptest.NewRequest("GET", "/api/profile/orders/15", nil)
	req.Header.Set("Authorization", "Token abc.def.ghi")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var id int64
	var ok bool
	handler := jwtmiddleware.NewJWTMiddleware()(okHandler(&id, &ok))

	req := httptest.NewRequest("GET", "/api/profile/orders/15", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("another-secret"))
	assert.NoError(t, err)

	var id int64
	var ok bool
	handler := jwtmiddleware.NewJWTMiddleware()(okHandler(&id, &ok))

	req := httptest.NewRequest("GET", "/api/profile/orders/15", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)

	var id int64
	var ok bool
	handler := jwtmiddleware.NewJWTMiddleware()(okHandler(&id, &ok))

	req := httptest.NewRequest("GET", "/api/profile/orders/15", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	// Токен выпускаем тем же кодом, что и сервис авторизации.
	user := &models.User{ID: 42, Email: "kiera@example.com", Role: models.RoleCustomer}
	signed, err := security.NewToken(context.Background(), user, time.Hour)
	assert.NoError(t, err)

	var id int64
	var ok bool
	handler := jwtmiddleware.NewJWTMiddleware()(okHandler(&id, &ok))

	req := httptest.NewRequest("GET", "/api/profile/orders/15", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
