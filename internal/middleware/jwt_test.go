package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
)

type staticValidator struct {
	token  string
	claims *models.JWTClaims
}

func (v staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != v.token {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newProtectedRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		role := ""
		if claims, ok := c.Get(ContextUserKey); ok {
			role = string(claims.(*models.JWTClaims).Role)
		}
		c.String(http.StatusOK, role)
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newProtectedRouter(JWT(staticValidator{token: "good"}))
	for _, header := range []string{"", "good", "Basic good", "Bearer ", "Bearer bad"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestJWTAttachesClaims(t *testing.T) {
	r := newProtectedRouter(JWT(staticValidator{token: "good", claims: &models.JWTClaims{UserID: "u1", Role: models.RoleDSO}}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer good")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DSO", w.Body.String())
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	r := newProtectedRouter(OptionalJWT(staticValidator{token: "good", claims: &models.JWTClaims{Role: models.RoleDSO}}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)
	assert.Equal(t, "DSO", w.Body.String())
}
