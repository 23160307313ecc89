package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyboard/internal/bootstrap"
	"studyboard/internal/config"
	"studyboard/internal/logging"
	"studyboard/internal/testutil"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router *gin.Engine
}

func newClient(t *testing.T) *client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := &bootstrap.App{
		Config: &config.Config{
			App:   config.AppConfig{Name: "studyboard", Env: "test", GinMode: gin.TestMode},
			Auth:  config.AuthConfig{JWTSecret: "router-test-secret", JWTExpireSeconds: 3600, BcryptCost: 4},
			Redis: config.RedisConfig{CourseTTLSeconds: 60},
		},
		Logger:    logging.Discard(),
		MySQL:     testutil.NewDB(t),
		Redis:     rdb,
		StartedAt: time.Now(),
	}
	return &client{t: t, router: NewRouter(app)}
}

func (c *client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (c *client) register(username string) (uint, string) {
	c.t.Helper()
	status, env := c.do(nethttp.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Passw0rdX",
	})
	require.Equal(c.t, nethttp.StatusCreated, status, env.Message)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	return data.User.ID, data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idView struct {
	ID uint `json:"id"`
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disabled"`)
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	_, token := c.register("alice")

	status, _ := c.do(nethttp.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, env := c.do(nethttp.MethodGet, "/api/v1/auth/profile", "not-a-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "invalid or expired token", env.Message)

	status, env = c.do(nethttp.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Contains(t, string(env.Data), `"email":"alice@example.com"`)

	status, env = c.do(nethttp.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, 40101, env.Code)

	status, _ = c.do(nethttp.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "email": "x@example.com", "password": "Passw0rdX",
	})
	assert.Equal(t, nethttp.StatusConflict, status)

	status, _ = c.do(nethttp.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"current_password": "wrong", "new_password": "N3wPassword",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, _ = c.do(nethttp.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestPostVisibilityAndDelete(t *testing.T) {
	c := newClient(t)
	_, alice := c.register("alice")
	_, bob := c.register("bob")

	status, env := c.do(nethttp.MethodPost, "/api/v1/groups", alice, map[string]string{"name": "study"})
	require.Equal(t, nethttp.StatusCreated, status, env.Message)
	group := decode[idView](t, env.Data)

	status, env = c.do(nethttp.MethodPost, "/api/v1/posts", alice, map[string]any{"title": "public", "content": "hi"})
	require.Equal(t, nethttp.StatusCreated, status, env.Message)
	public := decode[idView](t, env.Data)

	status, env = c.do(nethttp.MethodPost, "/api/v1/posts", alice, map[string]any{"title": "private", "content": "hi", "group_id": group.ID})
	require.Equal(t, nethttp.StatusCreated, status, env.Message)
	private := decode[idView](t, env.Data)

	status, env = c.do(nethttp.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, decode[[]idView](t, env.Data), 1)

	_, env = c.do(nethttp.MethodGet, "/api/v1/posts", alice, nil)
	assert.Len(t, decode[[]idView](t, env.Data), 2)

	status, _ = c.do(nethttp.MethodGet, "/api/v1/posts/"+itoa(private.ID), bob, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = c.do(nethttp.MethodDelete, "/api/v1/posts/"+itoa(public.ID), bob, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = c.do(nethttp.MethodDelete, "/api/v1/posts/"+itoa(public.ID), alice, nil)
	assert.Equal(t, nethttp.StatusOK, status)

	status, _ = c.do(nethttp.MethodGet, "/api/v1/posts/"+itoa(public.ID), alice, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, _ = c.do(nethttp.MethodPost, "/api/v1/comments", bob, map[string]any{"post_id": private.ID, "content": "hey"})
	assert.Equal(t, nethttp.StatusForbidden, status)
}

func TestGroupMembershipScenario(t *testing.T) {
	c := newClient(t)
	aliceID, alice := c.register("alice")
	bobID, bob := c.register("bob")

	_, env := c.do(nethttp.MethodPost, "/api/v1/groups", alice, map[string]string{"name": "study"})
	group := decode[idView](t, env.Data)
	base := "/api/v1/groups/" + itoa(group.ID)

	status, _ := c.do(nethttp.MethodGet, base+"/posts", bob, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = c.do(nethttp.MethodPost, base+"/members", bob, nil)
	require.Equal(t, nethttp.StatusOK, status)

	status, env = c.do(nethttp.MethodPost, base+"/members", bob, nil)
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "user is already a member of this group", env.Message)

	status, _ = c.do(nethttp.MethodGet, base+"/posts", bob, nil)
	assert.Equal(t, nethttp.StatusOK, status)

	status, _ = c.do(nethttp.MethodDelete, base+"/members/"+itoa(aliceID), alice, nil)
	assert.Equal(t, nethttp.StatusConflict, status)

	status, _ = c.do(nethttp.MethodDelete, base+"/members/"+itoa(bobID), alice, nil)
	assert.Equal(t, nethttp.StatusOK, status)

	status, env = c.do(nethttp.MethodDelete, base+"/members/"+itoa(aliceID), alice, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Contains(t, string(env.Data), `"member_count":0`)

	status, _ = c.do(nethttp.MethodGet, base, "", nil)
	assert.Equal(t, nethttp.StatusOK, status)

	status, _ = c.do(nethttp.MethodGet, "/api/v1/groups/999", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestCourses(t *testing.T) {
	c := newClient(t)
	_, alice := c.register("alice")

	status, _ := c.do(nethttp.MethodPost, "/api/v1/courses", "", map[string]string{"code": "cs101", "name": "Intro"})
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, env := c.do(nethttp.MethodPost, "/api/v1/courses", alice, map[string]string{"code": "cs101", "name": "Intro"})
	require.Equal(t, nethttp.StatusCreated, status, env.Message)
	assert.Contains(t, string(env.Data), `"code":"CS101"`)

	status, _ = c.do(nethttp.MethodPost, "/api/v1/courses", alice, map[string]string{"code": "CS101", "name": "Again"})
	assert.Equal(t, nethttp.StatusOK, status)

	_, env = c.do(nethttp.MethodGet, "/api/v1/courses", "", nil)
	courses := decode[[]idView](t, env.Data)
	require.Len(t, courses, 1)

	status, _ = c.do(nethttp.MethodDelete, "/api/v1/courses/"+itoa(courses[0].ID), alice, nil)
	assert.Equal(t, nethttp.StatusOK, status)

	_, env = c.do(nethttp.MethodGet, "/api/v1/courses", "", nil)
	assert.Empty(t, decode[[]idView](t, env.Data))
}

func TestUsers(t *testing.T) {
	c := newClient(t)
	aliceID, alice := c.register("alice")
	c.register("bob")

	c.do(nethttp.MethodPost, "/api/v1/posts", alice, map[string]any{"title": "p", "content": "c"})

	status, env := c.do(nethttp.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, decode[[]idView](t, env.Data), 2)
	assert.NotContains(t, string(env.Data), "email", "public listing hides emails")

	status, env = c.do(nethttp.MethodGet, "/api/v1/users/"+itoa(aliceID)+"/posts", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, decode[[]idView](t, env.Data), 1)

	status, _ = c.do(nethttp.MethodGet, "/api/v1/users/abc", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, _ = c.do(nethttp.MethodGet, "/api/v1/users/999/groups", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
