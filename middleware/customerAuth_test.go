package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homely/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", CustomerAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customerId": c.GetString("customerID")})
	})
	return r
}

func doAuthRequest(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	authRouter().ServeHTTP(w, req)
	return w
}

func TestCustomerAuthResolvesSubject(t *testing.T) {
	token, err := utils.GenerateToken("cust-1", time.Hour)
	require.NoError(t, err)

	w := doAuthRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cust-1")
}

func TestCustomerAuthRejectsMissingHeader(t *testing.T) {
	w := doAuthRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerAuthRejectsMalformedToken(t *testing.T) {
	w := doAuthRequest(t, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerAuthRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken("cust-1", -time.Minute)
	require.NoError(t, err)

	w := doAuthRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
