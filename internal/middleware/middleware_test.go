package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login/:id", RequireIDParams("id"), func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, IDParam(c, "id"))
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestRequireAuth_Bearer(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	r := newAuthRouter(tokens)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())
}

func TestRequireAuth_Rejects(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	other, err := services.NewTokenService("other-secret", time.Hour).Issue(42)
	require.NoError(t, err)
	r := newAuthRouter(tokens)

	cases := map[string]string{
		"no credentials":  "",
		"wrong scheme":    "Basic abc",
		"empty bearer":    "Bearer ",
		"garbage token":   "Bearer not-a-jwt",
		"foreign signing": "Bearer " + other,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAuth_SessionFallback(t *testing.T) {
	r := newAuthRouter(services.NewTokenService("secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/7", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
}

func TestRequireIDParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/tasks/:id/members/:memberId", RequireIDParams("id", "memberId"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": IDParam(c, "id"), "member": IDParam(c, "memberId")})
	})

	for path, status := range map[string]int{
		"/tasks/3/members/9":  http.StatusOK,
		"/tasks/x/members/9":  http.StatusBadRequest,
		"/tasks/3/members/-1": http.StatusBadRequest,
		"/tasks/0/members/9":  http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/3/members/9", nil))
	assert.JSONEq(t, `{"id":3,"member":9}`, w.Body.String())
}

func TestGetUserID(t *testing.T) {
	for _, v := range []any{uint64(5), uint(5), 5, int64(5), float64(5)} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(constants.ContextKeyUserID, v)
		id, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, uint64(5), id)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(constants.ContextKeyUserID, "5")
	_, ok := GetUserID(c)
	assert.False(t, ok)
}
