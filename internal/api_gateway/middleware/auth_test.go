package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agent-dashboard/internal/domain/account"
	"github.com/agent-dashboard/internal/domain/maintenance"
	"github.com/agent-dashboard/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(store *session.Store) (*gin.Engine, *session.Snapshot) {
	var seen session.Snapshot
	router := gin.New()
	router.Use(CorrelationID())
	router.Use(Auth(store))
	router.GET("/me", func(c *gin.Context) {
		seen, _ = GetSession(c)
		c.Status(http.StatusOK)
	})
	router.GET("/page", RestoreNotice(store), func(c *gin.Context) {
		seen, _ = GetSession(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	errField, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	return errField["code"].(string), errField["message"].(string)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	acc := &account.Account{Username: "bob", Password: "pw", Status: "Active"}

	t.Run("ValidToken", func(t *testing.T) {
		store := session.NewStore(time.Hour)
		snap := store.Open(acc)
		router, seen := authRouter(store)

		rr := get(router, "/me", snap.Token)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "bob", seen.Account.Username)
	})

	t.Run("MissingToken", func(t *testing.T) {
		router, _ := authRouter(session.NewStore(time.Hour))
		rr := get(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		code, _ := errorCode(t, rr)
		assert.Equal(t, "UNAUTHORIZED", code)
	})

	t.Run("TerminatedSessionReportsMessageOnce", func(t *testing.T) {
		store := session.NewStore(time.Hour)
		snap := store.Open(acc)
		store.Terminate(snap.Token, account.MessageAccountRemoved)
		router, _ := authRouter(store)

		rr := get(router, "/me", snap.Token)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		code, message := errorCode(t, rr)
		assert.Equal(t, "SESSION_TERMINATED", code)
		assert.Equal(t, account.MessageAccountRemoved, message)

		rr = get(router, "/me", snap.Token)
		code, _ = errorCode(t, rr)
		assert.Equal(t, "UNAUTHORIZED", code)
	})

	t.Run("RestoreNoticeOnPageLoad", func(t *testing.T) {
		store := session.NewStore(time.Hour)
		snap := store.Open(acc)
		store.SetNotice(snap.Token, &maintenance.Notice{Scope: "ALL", Message: "Down"})
		store.DismissNotice(snap.Token)
		router, seen := authRouter(store)

		get(router, "/me", snap.Token)
		assert.Nil(t, seen.Notice)

		get(router, "/page", snap.Token)
		require.NotNil(t, seen.Notice)
		assert.Equal(t, "Down", seen.Notice.Message)
	})
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "Standard", header: "Bearer abc", expected: "abc"},
		{name: "CaseInsensitiveScheme", header: "bearer abc", expected: "abc"},
		{name: "WrongScheme", header: "Basic abc", expected: ""},
		{name: "Empty", header: "", expected: ""},
		{name: "PrefixOnly", header: "Bearer ", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", tc.header)
			assert.Equal(t, tc.expected, BearerToken(c))
		})
	}
}
